package mailer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/wneessen/go-mail"
	"golang.org/x/sync/errgroup"

	"github.com/yallakauppa/storefront/internal/config"
)

// MaxAttachmentBytes caps contact form attachments at 3 MB.
const MaxAttachmentBytes = 3 << 20

// ErrNotConfigured means the SMTP credentials are absent.
var ErrNotConfigured = errors.New("mail transport is not configured")

// Attachment is an optional file included with a contact submission.
type Attachment struct {
	Filename string
	Data     []byte
}

// Submission is a validated contact form submission.
type Submission struct {
	Name       string
	Email      string
	Message    string
	Attachment *Attachment
}

// Mailer sends contact form submissions over SMTP. One Mailer is built at
// startup and reused for the process lifetime; each send dials its own
// connection.
type Mailer struct {
	cfg config.MailConfig
}

// New creates a Mailer from the mail configuration.
func New(cfg config.MailConfig) (*Mailer, error) {
	if !cfg.Configured() {
		return nil, ErrNotConfigured
	}
	return &Mailer{cfg: cfg}, nil
}

// SendContact dispatches both contact messages: the submission to the
// site's contact address (reply-to set to the submitter) and an
// acknowledgment back to the submitter. The sends run concurrently and
// both must succeed; a partial failure is reported as failure with no
// rollback of the send that went through.
func (m *Mailer) SendContact(ctx context.Context, sub Submission) error {
	siteMsg, err := m.buildSiteMessage(sub)
	if err != nil {
		return fmt.Errorf("building contact message: %w", err)
	}
	ackMsg, err := m.buildAckMessage(sub)
	if err != nil {
		return fmt.Errorf("building acknowledgment message: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, msg := range []*mail.Msg{siteMsg, ackMsg} {
		g.Go(func() error {
			client, err := m.newClient()
			if err != nil {
				return err
			}
			return client.DialAndSendWithContext(ctx, msg)
		})
	}
	return g.Wait()
}

func (m *Mailer) newClient() (*mail.Client, error) {
	client, err := mail.NewClient(m.cfg.Host,
		mail.WithPort(m.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.cfg.User),
		mail.WithPassword(m.cfg.Password),
		mail.WithTLSPortPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return nil, fmt.Errorf("creating mail client: %w", err)
	}
	return client, nil
}

func (m *Mailer) buildSiteMessage(sub Submission) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(m.cfg.User); err != nil {
		return nil, err
	}
	if err := msg.To(m.cfg.ContactTo); err != nil {
		return nil, err
	}
	if err := msg.ReplyTo(sub.Email); err != nil {
		return nil, err
	}

	msg.Subject("Yhteydenotto: " + sub.Name)
	msg.SetBodyString(mail.TypeTextPlain, fmt.Sprintf(
		"Nimi: %s\nSähköposti: %s\n\nViesti:\n%s", sub.Name, sub.Email, sub.Message))
	msg.AddAlternativeString(mail.TypeTextHTML, fmt.Sprintf(`
<div style="font-family: Arial, sans-serif; color: #111827; line-height: 1.6;">
  <div style="margin-bottom: 12px;">
    <span style="display:inline-block;padding:6px 10px;border-radius:12px;background:#fef2f2;color:#b91c1c;font-weight:700;">Yalla Kauppa</span>
  </div>
  <h2 style="margin: 0 0 12px;">Uusi yhteydenotto</h2>
  <p style="margin: 4px 0;"><strong>Nimi:</strong> %s</p>
  <p style="margin: 4px 0;"><strong>Sähköposti:</strong> %s</p>
  <p style="margin: 12px 0 6px;"><strong>Viesti:</strong></p>
  <div style="padding: 12px; border-left: 4px solid #e30613; background:#f9fafb;">%s</div>
</div>`,
		html.EscapeString(sub.Name), html.EscapeString(sub.Email), htmlMessage(sub.Message)))

	if err := attach(msg, sub.Attachment); err != nil {
		return nil, err
	}
	return msg, nil
}

func (m *Mailer) buildAckMessage(sub Submission) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(m.cfg.User); err != nil {
		return nil, err
	}
	if err := msg.To(sub.Email); err != nil {
		return nil, err
	}

	msg.Subject("Kiitos yhteydenotostasi – palaamme pian")
	msg.SetBodyString(mail.TypeTextPlain, fmt.Sprintf(
		"Hei %s,\n\nKiitos viestistäsi! Olemme vastaanottaneet sen ja palaamme asiaan pian.\n\n"+
			"Ystävällisin terveisin,\nYalla Kauppa\n—\nTämä on automaattinen kuittaus viestistäsi:\n%s",
		sub.Name, sub.Message))
	msg.AddAlternativeString(mail.TypeTextHTML, fmt.Sprintf(`
<div style="font-family: Arial, sans-serif; color: #0f172a; line-height: 1.7; padding: 18px; border: 1px solid #e5e7eb; border-radius: 14px; background: linear-gradient(135deg, #fff5f5 0%%, #ffffff 60%%);">
  <div style="display:flex;align-items:center;gap:10px;margin-bottom:12px;">
    <span style="display:inline-block;padding:6px 10px;border-radius:12px;background:#e30613;color:#fff;font-weight:700;">Yalla Kauppa</span>
    <span style="color:#b91c1c;font-weight:600;">Kiitos yhteydenotosta</span>
  </div>
  <p style="margin: 8px 0;">Hei %s,</p>
  <p style="margin: 8px 0;">Kiitos viestistäsi! Olemme vastaanottaneet sen ja palaamme asiaan pian.</p>
  <p style="margin: 8px 0; font-weight: 600;">Viestisi:</p>
  <div style="margin: 8px 0 16px; padding: 12px; border-left: 4px solid #e30613; background:#fff7f7; border-radius: 8px;">%s</div>
  <p style="margin: 8px 0;">Ystävällisin terveisin,<br/><strong>Yalla Kauppa</strong></p>
</div>`,
		html.EscapeString(sub.Name), htmlMessage(sub.Message)))

	if err := attach(msg, sub.Attachment); err != nil {
		return nil, err
	}
	return msg, nil
}

func attach(msg *mail.Msg, a *Attachment) error {
	if a == nil || len(a.Data) == 0 {
		return nil
	}
	name := a.Filename
	if name == "" {
		name = "liite"
	}
	return msg.AttachReader(name, bytes.NewReader(a.Data))
}

// htmlMessage escapes a message body and keeps its line breaks.
func htmlMessage(s string) string {
	return strings.ReplaceAll(html.EscapeString(s), "\n", "<br/>")
}
