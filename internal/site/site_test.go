package site_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"finitefield.org/portfolio/internal/content"
	"finitefield.org/portfolio/internal/editor"
	"finitefield.org/portfolio/internal/site"
	"finitefield.org/portfolio/internal/store"
	"finitefield.org/portfolio/internal/testutil"
)

type staticSource struct {
	mu      sync.Mutex
	doc     content.Document
	fetches int
}

func (s *staticSource) FetchDocument(context.Context) content.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetches++
	return s.doc.Clone()
}

type recordingSink struct {
	mu    sync.Mutex
	forms []content.ContactForm
}

func (s *recordingSink) AppendSubmission(_ context.Context, form content.ContactForm) (editor.Result, error) {
	if fields := form.Validate(); !fields.Empty() {
		return editor.Result{}, &editor.ValidationError{Fields: fields}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forms = append(s.forms, form.Trimmed())
	return editor.Result{ID: "sub"}, nil
}

func fullDocument() content.Document {
	return content.Document{
		Videos: []content.Video{
			{ID: "dQw4w9WgXcQ", Platform: content.PlatformYouTube, Type: content.VideoTypeVideo, URL: "https://www.youtube.com/watch?v=dQw4w9WgXcQ", Title: "Launch <film>", Description: "Brand cut"},
			{ID: "C1", Platform: content.PlatformInstagram, Type: content.VideoTypeReel, URL: "https://www.instagram.com/reel/C1/", Title: "Reel"},
		},
		Testimonials: []content.Testimonial{{ID: "t1", Name: "ann", Role: "Creator", Text: "Great edits", Rating: 4}},
		Services:     []content.Service{{ID: "s1", Icon: "🎬", Title: "Editing", Description: "Long form"}},
		About:        content.About{Text: "Hello **world**\n<script>alert(1)</script>", Image: "https://drive.google.com/file/d/IMG/view"},
		Contact:      content.Contact{Email: "me@example.com", WhatsApp: "+91 98765 43210", Instagram: "@editor"},
		Submissions:  []content.Submission{{ID: "x", Name: "Secret", Phone: "9876543210", Message: "private", Status: content.StatusNew}},
	}
}

func newRouter(t *testing.T, cfg site.Config) http.Handler {
	t.Helper()
	h, err := site.New(cfg)
	require.NoError(t, err)
	r := chi.NewRouter()
	h.Routes(r)
	r.Get("/healthz", site.Healthz)
	return r
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func postContact(t *testing.T, h http.Handler, values url.Values, remoteAddr string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if remoteAddr != "" {
		req.RemoteAddr = remoteAddr
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHomeRendersAllSections(t *testing.T) {
	t.Parallel()

	h := newRouter(t, site.Config{Documents: &staticSource{doc: fullDocument()}, Submissions: &recordingSink{}})
	rec := get(t, h, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "text/html")

	doc := testutil.ParseHTML(t, rec.Body.Bytes())
	require.Equal(t, []string{"Home", "Work", "About", "Services", "Testimonials", "Contact"}, testutil.Texts(doc, "nav .nav-link"))
	require.Equal(t, 2, doc.Find("#work .work-item").Length())

	first := doc.Find("#work .work-item").First()
	require.Equal(t, "https://www.youtube.com/embed/dQw4w9WgXcQ?autoplay=1&rel=0", first.AttrOr("data-embed", ""))
	require.Equal(t, "Launch <film>", strings.TrimSpace(first.Find("h3").Text()))
	require.Equal(t, "YouTube Video", strings.TrimSpace(first.Find(".platform-badge").Text()))

	reel := doc.Find("#work .work-item").Eq(1)
	require.Empty(t, reel.AttrOr("data-embed", ""))
	require.Equal(t, "https://www.instagram.com/reel/C1/", reel.AttrOr("data-external", ""))
	require.True(t, strings.HasPrefix(reel.Find("img").AttrOr("src", ""), "data:image/svg+xml"))

	require.Equal(t, "★★★★☆", strings.TrimSpace(doc.Find(".testimonial .rating").Text()))
	require.Equal(t, "A", strings.TrimSpace(doc.Find(".testimonial .avatar").Text()))
	require.Equal(t, "https://drive.google.com/thumbnail?id=IMG&sz=w1000", doc.Find("#about .portrait img").AttrOr("src", ""))
	require.Equal(t, "world", doc.Find("#about .about-body strong").Text())
	require.Zero(t, doc.Find("#about script").Length())

	require.Equal(t, "mailto:me@example.com", doc.Find(".contact-channels a").First().AttrOr("href", ""))
	require.Contains(t, rec.Body.String(), "https://wa.me/919876543210")
	require.NotContains(t, rec.Body.String(), "Secret")
}

func TestHomeDescribesGalleryAsStructuredData(t *testing.T) {
	t.Parallel()

	h := newRouter(t, site.Config{Documents: &staticSource{doc: fullDocument()}, Submissions: &recordingSink{}})
	page := testutil.ParseHTML(t, get(t, h, "/").Body.Bytes())

	script := page.Find(`script[type="application/ld+json"]`)
	require.Equal(t, 1, script.Length())

	var list struct {
		Type  string `json:"@type"`
		Items []struct {
			Position int            `json:"position"`
			Item     map[string]any `json:"item"`
		} `json:"itemListElement"`
	}
	require.NoError(t, json.Unmarshal([]byte(script.Text()), &list))
	require.Equal(t, "ItemList", list.Type)
	require.Len(t, list.Items, 2)

	first := list.Items[0].Item
	require.Equal(t, "VideoObject", first["@type"])
	require.Equal(t, "Launch <film>", first["name"])
	require.Equal(t, "https://www.youtube.com/embed/dQw4w9WgXcQ?autoplay=1&rel=0", first["embedUrl"])
	require.True(t, strings.HasPrefix(first["thumbnailUrl"].(string), "https://"))

	reel := list.Items[1].Item
	require.Equal(t, 2, list.Items[1].Position)
	require.Equal(t, "https://www.instagram.com/reel/C1/", reel["url"])
	require.NotContains(t, reel, "thumbnailUrl")
	require.NotContains(t, reel, "embedUrl")
}

func TestTestimonialAvatarInitial(t *testing.T) {
	t.Parallel()

	doc := fullDocument()
	doc.Testimonials = []content.Testimonial{
		{ID: "t1", Name: "émile", Text: "Merci", Rating: 5},
		{ID: "t2", Name: "  ", Text: "Anonymous", Rating: 3},
	}
	h := newRouter(t, site.Config{Documents: &staticSource{doc: doc}, Submissions: &recordingSink{}})
	page := testutil.ParseHTML(t, get(t, h, "/").Body.Bytes())
	require.Equal(t, []string{"É", "?"}, testutil.Texts(page, ".testimonial .avatar"))
}

func TestEmptySectionsAreHiddenWithTheirNavLinks(t *testing.T) {
	t.Parallel()

	doc := fullDocument()
	doc.Videos = nil
	doc.Testimonials = []content.Testimonial{}
	doc.Services = nil

	h := newRouter(t, site.Config{Documents: &staticSource{doc: doc}, Submissions: &recordingSink{}})
	page := testutil.ParseHTML(t, get(t, h, "/").Body.Bytes())

	require.Equal(t, []string{"Home", "About", "Contact"}, testutil.Texts(page, "nav .nav-link"))
	require.Zero(t, page.Find("#work").Length())
	require.Zero(t, page.Find("#services").Length())
	require.Zero(t, page.Find("#testimonials").Length())
	require.Zero(t, page.Find(`a[href="#work"]`).Length())
	require.Zero(t, page.Find(`script[type="application/ld+json"]`).Length())
}

func TestHomeRenderIsIdempotent(t *testing.T) {
	t.Parallel()

	h := newRouter(t, site.Config{Documents: &staticSource{doc: fullDocument()}, Submissions: &recordingSink{}})
	first := get(t, h, "/").Body.String()
	second := get(t, h, "/").Body.String()
	require.Equal(t, first, second)
}

func TestHomeUsesDocumentCache(t *testing.T) {
	t.Parallel()

	src := &staticSource{doc: fullDocument()}
	handlers, err := site.New(site.Config{Documents: src, Submissions: &recordingSink{}, CacheTTL: time.Hour})
	require.NoError(t, err)
	r := chi.NewRouter()
	handlers.Routes(r)

	get(t, r, "/")
	get(t, r, "/")
	require.Equal(t, 1, src.fetches)

	updated := fullDocument()
	updated.Services = nil
	handlers.Refresh(updated)
	page := testutil.ParseHTML(t, get(t, r, "/").Body.Bytes())
	require.Zero(t, page.Find("#services").Length())
	require.Equal(t, 1, src.fetches)
}

func TestContactSubmissionRedirects(t *testing.T) {
	t.Parallel()

	sink := &recordingSink{}
	h := newRouter(t, site.Config{Documents: &staticSource{doc: fullDocument()}, Submissions: sink})

	rec := postContact(t, h, url.Values{"name": {" Ann "}, "phone": {"9876543210"}, "message": {"Hi"}}, "")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/?sent=1#contact", rec.Header().Get("Location"))
	require.Equal(t, []content.ContactForm{{Name: "Ann", Phone: "9876543210", Message: "Hi"}}, sink.forms)

	page := testutil.ParseHTML(t, get(t, h, "/?sent=1").Body.Bytes())
	require.Equal(t, 1, page.Find(".form-success").Length())
}

func TestContactValidationErrorsRerenderForm(t *testing.T) {
	t.Parallel()

	sink := &recordingSink{}
	h := newRouter(t, site.Config{Documents: &staticSource{doc: fullDocument()}, Submissions: sink})

	rec := postContact(t, h, url.Values{"name": {"Ann"}, "email": {"bad"}, "phone": {"123"}}, "")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Empty(t, sink.forms)

	page := testutil.ParseHTML(t, rec.Body.Bytes())
	require.Equal(t, "Please enter a valid email address", strings.TrimSpace(page.Find(`.field-error[data-field="email"]`).Text()))
	require.Equal(t, "Please enter a valid 10-digit phone number", strings.TrimSpace(page.Find(`.field-error[data-field="phone"]`).Text()))
	require.Equal(t, "Message is required", strings.TrimSpace(page.Find(`.field-error[data-field="message"]`).Text()))
	require.Equal(t, "Ann", page.Find("#name").AttrOr("value", ""))
}

func TestContactRateLimitedPerClient(t *testing.T) {
	t.Parallel()

	sink := &recordingSink{}
	h := newRouter(t, site.Config{Documents: &staticSource{doc: fullDocument()}, Submissions: sink, ContactRatePerMinute: 2})
	form := url.Values{"name": {"Ann"}, "phone": {"9876543210"}, "message": {"Hi"}}

	require.Equal(t, http.StatusSeeOther, postContact(t, h, form, "203.0.113.7:1000").Code)
	require.Equal(t, http.StatusSeeOther, postContact(t, h, form, "203.0.113.7:1001").Code)
	require.Equal(t, http.StatusTooManyRequests, postContact(t, h, form, "203.0.113.7:1002").Code)
	require.Equal(t, http.StatusSeeOther, postContact(t, h, form, "198.51.100.1:1000").Code)
	require.Len(t, sink.forms, 3)
}

func TestInvalidContactDoesNotSpendRateLimit(t *testing.T) {
	t.Parallel()

	sink := &recordingSink{}
	h := newRouter(t, site.Config{Documents: &staticSource{doc: fullDocument()}, Submissions: sink, ContactRatePerMinute: 1})
	typo := url.Values{"name": {"Ann"}, "phone": {"98765"}, "message": {"Hi"}}
	fixed := url.Values{"name": {"Ann"}, "phone": {"9876543210"}, "message": {"Hi"}}

	require.Equal(t, http.StatusUnprocessableEntity, postContact(t, h, typo, "203.0.113.9:1000").Code)
	require.Equal(t, http.StatusUnprocessableEntity, postContact(t, h, typo, "203.0.113.9:1001").Code)
	require.Equal(t, http.StatusSeeOther, postContact(t, h, fixed, "203.0.113.9:1002").Code)
	require.Equal(t, http.StatusTooManyRequests, postContact(t, h, fixed, "203.0.113.9:1003").Code)
	require.Len(t, sink.forms, 1)
}

func TestContentAPIOmitsSubmissions(t *testing.T) {
	t.Parallel()

	h := newRouter(t, site.Config{Documents: &staticSource{doc: fullDocument()}, Submissions: &recordingSink{}, CORSAllowedOrigins: []string{"https://example.com"}})

	req := httptest.NewRequest(http.MethodGet, "/api/content", nil)
	req.Header.Set("Origin", "https://example.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "https://example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	var payload map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&payload))
	require.Contains(t, payload, "videos")
	var subs []content.Submission
	require.NoError(t, json.Unmarshal(payload["submissions"], &subs))
	require.Empty(t, subs)
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	h := newRouter(t, site.Config{Documents: &staticSource{}, Submissions: &recordingSink{}})
	rec := get(t, h, "/healthz")
	body, _ := io.ReadAll(rec.Body)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", string(body))
}

func TestContactRoundTripThroughEditor(t *testing.T) {
	t.Parallel()

	client := store.NewClient(store.Nop{}, store.NewMemoryLocal(), store.WithSeed(content.Empty()))
	svc := editor.NewService(client)
	h := newRouter(t, site.Config{Documents: client, Submissions: svc})

	rec := postContact(t, h, url.Values{"name": {"Ann"}, "phone": {"9876543210"}, "message": {"Hello"}}, "")
	require.Equal(t, http.StatusSeeOther, rec.Code)

	subs := client.FetchDocument(context.Background()).Submissions
	require.Len(t, subs, 1)
	require.Equal(t, content.StatusNew, subs[0].Status)
}
