package web

import (
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/yallakauppa/storefront/internal/auth"
	"github.com/yallakauppa/storefront/internal/db"
	"github.com/yallakauppa/storefront/internal/mailer"
	"github.com/yallakauppa/storefront/internal/store"
)

// fakeNotifier records contact submissions instead of talking to SMTP.
type fakeNotifier struct {
	sent []mailer.Submission
	err  error
}

func (f *fakeNotifier) SendContact(_ context.Context, sub mailer.Submission) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sub)
	return nil
}

type testSite struct {
	handler  http.Handler
	repo     *store.Repository
	notifier *fakeNotifier
	creds    auth.Credentials
}

func newTestSite(t *testing.T, imageHosts []string) *testSite {
	t.Helper()

	database := db.NewTestDB(t)
	repo := store.New(database, database, db.DriverSQLite)
	creds := auth.Credentials{Username: "admin", Password: "salasana"}
	notifier := &fakeNotifier{}

	handler, err := NewRouter(repo, auth.New(creds, false), notifier, imageHosts)
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}

	return &testSite{handler: handler, repo: repo, notifier: notifier, creds: creds}
}

func (ts *testSite) get(path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func (ts *testSite) postForm(path string, form url.Values, authed bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if authed {
		req.AddCookie(&http.Cookie{Name: auth.SessionCookie, Value: ts.creds.Token()})
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

// postMultipart sends fields as a multipart form, the encoding the contact
// and offer forms actually use.
func (ts *testSite) postMultipart(t *testing.T, path string, fields url.Values, authed bool) *httptest.ResponseRecorder {
	t.Helper()

	var body strings.Builder
	mw := multipart.NewWriter(&body)
	for key, values := range fields {
		for _, value := range values {
			if err := mw.WriteField(key, value); err != nil {
				t.Fatalf("writing field %s: %v", key, err)
			}
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("closing multipart body: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body.String()))
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if authed {
		req.AddCookie(&http.Cookie{Name: auth.SessionCookie, Value: ts.creds.Token()})
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func bodyContains(t *testing.T, rec *httptest.ResponseRecorder, want string) {
	t.Helper()
	body, err := io.ReadAll(rec.Body)
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}
	if !strings.Contains(string(body), want) {
		t.Errorf("response body does not contain %q", want)
	}
}

func TestPublicPagesRender(t *testing.T) {
	ts := newTestSite(t, nil)

	for path, want := range map[string]string{
		"/":           "Yalla Kauppa",
		"/tarjoukset": "Tarjoukset",
		"/myymalat":   "Yalla Malmi",
		"/hallinta":   "Hallinta",
	} {
		rec := ts.get(path)
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s status = %d", path, rec.Code)
			continue
		}
		bodyContains(t, rec, want)
	}
}

func TestContactRejectsMissingFields(t *testing.T) {
	ts := newTestSite(t, nil)

	rec := ts.postMultipart(t, "/yhteys", url.Values{
		"name":    {"Matti"},
		"email":   {"matti@example.com"},
		"message": {"   "},
	}, false)

	bodyContains(t, rec, "Täytä kaikki kentät")
	if len(ts.notifier.sent) != 0 {
		t.Errorf("notifier should not be called, got %d submissions", len(ts.notifier.sent))
	}
}

func TestContactSendsSubmission(t *testing.T) {
	ts := newTestSite(t, nil)

	rec := ts.postMultipart(t, "/yhteys", url.Values{
		"name":    {"Matti Meikäläinen"},
		"email":   {"matti@example.com"},
		"message": {"Onko teillä gluteenitonta leipää?"},
	}, false)

	bodyContains(t, rec, "Kiitos viestistäsi")
	if len(ts.notifier.sent) != 1 {
		t.Fatalf("expected 1 submission, got %d", len(ts.notifier.sent))
	}
	sub := ts.notifier.sent[0]
	if sub.Name != "Matti Meikäläinen" || sub.Email != "matti@example.com" {
		t.Errorf("submission = %+v", sub)
	}
	if sub.Attachment != nil {
		t.Errorf("unexpected attachment: %+v", sub.Attachment)
	}
}

func TestContactWithoutMailConfig(t *testing.T) {
	database := db.NewTestDB(t)
	repo := store.New(database, database, db.DriverSQLite)
	handler, err := NewRouter(repo, auth.New(auth.Credentials{}, false), nil, nil)
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}

	var body strings.Builder
	mw := multipart.NewWriter(&body)
	mw.WriteField("name", "Matti")
	mw.WriteField("email", "matti@example.com")
	mw.WriteField("message", "Hei")
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/yhteys", strings.NewReader(body.String()))
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	bodyContains(t, rec, "Sähköpostiasetukset puuttuvat")
}

func TestLoginWrongPassword(t *testing.T) {
	ts := newTestSite(t, nil)

	rec := ts.postForm("/hallinta/login", url.Values{
		"username": {"admin"},
		"password": {"väärä"},
	}, false)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	bodyContains(t, rec, "Virheellinen käyttäjätunnus tai salasana")
}

func TestLoginRedirectsWithCookie(t *testing.T) {
	ts := newTestSite(t, nil)

	rec := ts.postForm("/hallinta/login", url.Values{
		"username": {"admin"},
		"password": {"salasana"},
	}, false)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/hallinta" {
		t.Errorf("redirect location = %q", loc)
	}

	var session *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.SessionCookie {
			session = c
		}
	}
	if session == nil {
		t.Fatal("login did not set the session cookie")
	}
	if session.Value != ts.creds.Token() {
		t.Errorf("cookie value is not the derived token")
	}
}

func TestCategoryCreateRequiresSession(t *testing.T) {
	ts := newTestSite(t, nil)

	rec := ts.postForm("/hallinta/kategoriat", url.Values{
		"categoryTitle":       {"Viikon tarjoukset"},
		"categoryDescription": {"Parhaat poiminnat"},
	}, false)

	bodyContains(t, rec, "Kirjaudu ensin sisään")

	rails, err := ts.repo.FetchOfferRails(context.Background(), true)
	if err != nil {
		t.Fatalf("FetchOfferRails: %v", err)
	}
	if len(rails) != 0 {
		t.Errorf("unauthenticated request created a rail")
	}
}

func TestCategoryCreate(t *testing.T) {
	ts := newTestSite(t, nil)

	rec := ts.postForm("/hallinta/kategoriat", url.Values{
		"categoryTitle":       {"Viikon tarjoukset"},
		"categoryDescription": {"Parhaat poiminnat"},
	}, true)

	bodyContains(t, rec, "Kategoria lisätty")

	rails, err := ts.repo.FetchOfferRails(context.Background(), true)
	if err != nil {
		t.Fatalf("FetchOfferRails: %v", err)
	}
	if len(rails) != 1 || rails[0].Title != "Viikon tarjoukset" {
		t.Errorf("rails = %+v", rails)
	}
}

func TestCategoryDelete(t *testing.T) {
	ts := newTestSite(t, nil)

	id, err := ts.repo.CreateRail(context.Background(), "Poistuva", "kuvaus")
	if err != nil {
		t.Fatalf("CreateRail: %v", err)
	}

	rec := ts.postForm("/hallinta/kategoriat/poista", url.Values{"categoryId": {id}}, true)
	bodyContains(t, rec, "Kategoria poistettu")

	rails, err := ts.repo.FetchOfferRails(context.Background(), true)
	if err != nil {
		t.Fatalf("FetchOfferRails: %v", err)
	}
	if len(rails) != 0 {
		t.Errorf("rail still present after delete")
	}
}

func offerForm(railID string) url.Values {
	return url.Values{
		"categoryId":    {railID},
		"product":       {"Maito 1 l"},
		"description":   {"Kevytmaito"},
		"imageMode":     {"url"},
		"imageSrc":      {"https://images.example.com/maito.jpg"},
		"imageAlt":      {"Maitopurkki"},
		"price":         {"0,99 €"},
		"originalPrice": {"1,49 €"},
		"location":      {"Yalla Malmi"},
	}
}

func TestOfferCreate(t *testing.T) {
	ts := newTestSite(t, nil)

	railID, err := ts.repo.CreateRail(context.Background(), "Testikategoria", "kuvaus")
	if err != nil {
		t.Fatalf("CreateRail: %v", err)
	}

	rec := ts.postMultipart(t, "/hallinta/tarjoukset", offerForm(railID), true)
	bodyContains(t, rec, "Tarjous lisätty")

	offers, err := ts.repo.FetchLatestOffers(context.Background(), 10)
	if err != nil {
		t.Fatalf("FetchLatestOffers: %v", err)
	}
	if len(offers) != 1 || offers[0].Product != "Maito 1 l" {
		t.Errorf("offers = %+v", offers)
	}
}

func TestOfferCreateRejectsBadDateRange(t *testing.T) {
	ts := newTestSite(t, nil)

	railID, err := ts.repo.CreateRail(context.Background(), "Testikategoria", "kuvaus")
	if err != nil {
		t.Fatalf("CreateRail: %v", err)
	}

	form := offerForm(railID)
	form.Set("startsAt", "2025-05-10")
	form.Set("endsAt", "2025-05-01")

	rec := ts.postMultipart(t, "/hallinta/tarjoukset", form, true)
	bodyContains(t, rec, "Alkupäivän tulee olla ennen loppupäivää")

	offers, err := ts.repo.FetchLatestOffers(context.Background(), 10)
	if err != nil {
		t.Fatalf("FetchLatestOffers: %v", err)
	}
	if len(offers) != 0 {
		t.Errorf("invalid offer was persisted")
	}
}

func TestOfferCreateEnforcesImageAllowlist(t *testing.T) {
	ts := newTestSite(t, []string{"images.example.com"})

	railID, err := ts.repo.CreateRail(context.Background(), "Testikategoria", "kuvaus")
	if err != nil {
		t.Fatalf("CreateRail: %v", err)
	}

	form := offerForm(railID)
	form.Set("imageSrc", "https://evil.example.net/x.jpg")

	rec := ts.postMultipart(t, "/hallinta/tarjoukset", form, true)
	bodyContains(t, rec, "Kuvan osoite ei ole sallitulla palvelimella")

	form.Set("imageSrc", "https://images.example.com/maito.jpg")
	rec = ts.postMultipart(t, "/hallinta/tarjoukset", form, true)
	bodyContains(t, rec, "Tarjous lisätty")
}

func TestOfferDelete(t *testing.T) {
	ts := newTestSite(t, nil)

	railID, err := ts.repo.CreateRail(context.Background(), "Testikategoria", "kuvaus")
	if err != nil {
		t.Fatalf("CreateRail: %v", err)
	}
	id, err := ts.repo.CreateOffer(context.Background(), store.OfferInput{
		RailID:        railID,
		Product:       "Maito",
		Description:   "Kevytmaito",
		ImageSrc:      "https://example.com/maito.jpg",
		ImageAlt:      "Maito",
		Price:         "0,99 €",
		OriginalPrice: "1,49 €",
		Locations:     []string{"Yalla Malmi"},
	})
	if err != nil {
		t.Fatalf("CreateOffer: %v", err)
	}

	rec := ts.postForm("/hallinta/tarjoukset/poista", url.Values{"offerId": {id}}, true)
	bodyContains(t, rec, "Tarjous poistettu")

	offers, err := ts.repo.FetchLatestOffers(context.Background(), 10)
	if err != nil {
		t.Fatalf("FetchLatestOffers: %v", err)
	}
	if len(offers) != 0 {
		t.Errorf("offer still present after delete")
	}
}
