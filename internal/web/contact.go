package web

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/yallakauppa/storefront/internal/mailer"
)

// contactBodyLimit leaves headroom over the attachment cap for the text
// fields and the multipart framing.
const contactBodyLimit = mailer.MaxAttachmentBytes + 1<<20

// ContactSubmit handles POST /yhteys.
func (s *Server) ContactSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, contactBodyLimit)
	if err := r.ParseMultipartForm(contactBodyLimit); err != nil {
		s.renderHome(w, r, PageData{Title: "Yalla Kauppa", Error: "Liite on liian suuri (max 3 Mt)"})
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	email := strings.TrimSpace(r.FormValue("email"))
	message := strings.TrimSpace(r.FormValue("message"))

	if name == "" || email == "" || message == "" {
		s.renderHome(w, r, PageData{Title: "Yalla Kauppa", Error: "Täytä kaikki kentät"})
		return
	}

	if s.Mailer == nil {
		s.renderHome(w, r, PageData{
			Title: "Yalla Kauppa",
			Error: "Sähköpostiasetukset puuttuvat (SMTP_USER, SMTP_PASSWORD, CONTACT_TO)",
		})
		return
	}

	attachment, err := readAttachment(r)
	if err != nil {
		s.renderHome(w, r, PageData{Title: "Yalla Kauppa", Error: "Liite on liian suuri (max 3 Mt)"})
		return
	}

	sub := mailer.Submission{
		Name:       name,
		Email:      email,
		Message:    message,
		Attachment: attachment,
	}
	if err := s.Mailer.SendContact(r.Context(), sub); err != nil {
		slog.Error("failed to send contact emails", "error", err)
		s.renderHome(w, r, PageData{
			Title: "Yalla Kauppa",
			Error: "Viestin lähetys epäonnistui. Yritä hetken kuluttua uudelleen.",
		})
		return
	}

	slog.Info("contact form submitted", "name", name)
	s.renderHome(w, r, PageData{Title: "Yalla Kauppa", Success: "Kiitos viestistäsi! Otamme yhteyttä pian."})
}

// readAttachment reads the optional contact attachment, enforcing the cap.
func readAttachment(r *http.Request) (*mailer.Attachment, error) {
	file, header, err := r.FormFile("attachment")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	if header.Size == 0 {
		return nil, nil
	}
	if header.Size > mailer.MaxAttachmentBytes {
		return nil, errors.New("attachment too large")
	}

	data, err := io.ReadAll(io.LimitReader(file, mailer.MaxAttachmentBytes))
	if err != nil {
		return nil, err
	}

	return &mailer.Attachment{Filename: header.Filename, Data: data}, nil
}
