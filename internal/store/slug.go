package store

import (
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

// maxSlugLen caps the slug part of a generated rail id.
const maxSlugLen = 32

// Slugify derives a lowercase, hyphenated, ASCII-safe identifier from a
// human-readable title: runs of anything outside [a-z0-9] collapse to a
// single hyphen, leading and trailing hyphens are stripped, and the
// result is truncated to 32 characters.
func Slugify(title string) string {
	var b strings.Builder
	b.Grow(len(title))

	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(title) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastHyphen = false
			continue
		}
		if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}

	slug := strings.TrimRight(b.String(), "-")
	if len(slug) > maxSlugLen {
		slug = strings.TrimRight(slug[:maxSlugLen], "-")
	}
	return slug
}

// lastIDStamp remembers the most recent id timestamp so that two rails
// created in the same millisecond still get distinct ids.
var lastIDStamp atomic.Int64

func nextIDStamp() int64 {
	for {
		now := time.Now().UnixMilli()
		last := lastIDStamp.Load()
		if now <= last {
			now = last + 1
		}
		if lastIDStamp.CompareAndSwap(last, now) {
			return now
		}
	}
}

// newRailID builds a unique rail id from the title: slug plus a base-36
// millisecond timestamp suffix, so repeated titles stay unique.
func newRailID(title string) string {
	slug := Slugify(title)
	if slug == "" {
		slug = "rail"
	}
	return slug + "-" + strconv.FormatInt(nextIDStamp(), 36)
}
