package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"net/http"
	"time"
)

// SessionCookie is the fixed name of the admin session cookie.
const SessionCookie = "yk-admin-session"

// SessionTTL is how long an issued session cookie lives.
const SessionTTL = 8 * time.Hour

var (
	// ErrNotConfigured means the admin credentials are absent from the
	// environment; the admin surface is unreachable until they are set.
	ErrNotConfigured = errors.New("admin credentials are not configured")

	// ErrInvalidCredentials means the submitted username or password did
	// not match. Which one is deliberately not revealed.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Credentials are the configured admin username and password.
type Credentials struct {
	Username string
	Password string
}

// Configured reports whether both credentials are present.
func (c Credentials) Configured() bool {
	return c.Username != "" && c.Password != ""
}

// Token derives the session token: the hex SHA-256 digest of
// "username:password". The token is a deterministic function of the
// configured secrets, so there is no session store and rotating either
// secret immediately invalidates every outstanding cookie. That implicit
// revocation is intentional.
func (c Credentials) Token() string {
	sum := sha256.Sum256([]byte(c.Username + ":" + c.Password))
	return hex.EncodeToString(sum[:])
}

// State is where a request stands with the admin surface.
type State int

const (
	// StateUnconfigured: no admin credentials in the environment.
	StateUnconfigured State = iota
	// StateLoggedOut: credentials configured, no valid session cookie.
	StateLoggedOut
	// StateLoggedIn: the cookie matches the derived token.
	StateLoggedIn
)

// Authenticator gates the admin mutations. It is built once at startup
// from the configured credentials and passed to the handlers.
type Authenticator struct {
	creds  Credentials
	secure bool
}

// New creates an Authenticator. secure marks issued cookies Secure, which
// production deployments should enable.
func New(creds Credentials, secure bool) *Authenticator {
	return &Authenticator{creds: creds, secure: secure}
}

// Configured reports whether the admin surface is reachable at all.
func (a *Authenticator) Configured() bool {
	return a.creds.Configured()
}

// Login checks the submitted credentials and, on success, sets the
// session cookie on the response. Missing configuration and wrong
// credentials are distinct errors.
func (a *Authenticator) Login(w http.ResponseWriter, username, password string) error {
	if !a.creds.Configured() {
		return ErrNotConfigured
	}

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.creds.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(a.creds.Password)) == 1
	if !userOK || !passOK {
		return ErrInvalidCredentials
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    a.creds.Token(),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Secure:   a.secure,
		MaxAge:   int(SessionTTL.Seconds()),
	})
	return nil
}

// Logout clears the session cookie. Safe to call without a session.
func (a *Authenticator) Logout(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Secure:   a.secure,
		MaxAge:   -1,
	})
}

// IsAuthenticated reports whether the request carries a cookie matching
// the token derived from the currently configured credentials.
func (a *Authenticator) IsAuthenticated(r *http.Request) bool {
	if !a.creds.Configured() {
		return false
	}

	cookie, err := r.Cookie(SessionCookie)
	if err != nil || cookie.Value == "" {
		return false
	}

	return subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(a.creds.Token())) == 1
}

// State classifies the request for the admin page render.
func (a *Authenticator) State(r *http.Request) State {
	if !a.creds.Configured() {
		return StateUnconfigured
	}
	if a.IsAuthenticated(r) {
		return StateLoggedIn
	}
	return StateLoggedOut
}
