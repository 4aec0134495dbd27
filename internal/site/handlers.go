// Package site serves the public portfolio page, the contact form endpoint and
// a read-only JSON view of the published content.
package site

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"finitefield.org/portfolio/internal/content"
	"finitefield.org/portfolio/internal/editor"
	"finitefield.org/portfolio/internal/platform/observability"
	"finitefield.org/portfolio/internal/render"
)

//go:embed templates
var templatesFS embed.FS

const maxContactFormBytes = 16 << 10

// SubmissionSink stores public contact form submissions.
type SubmissionSink interface {
	AppendSubmission(ctx context.Context, form content.ContactForm) (editor.Result, error)
}

// Config wires the public site handlers.
type Config struct {
	Documents            DocumentSource
	Submissions          SubmissionSink
	CacheTTL             time.Duration
	ContactRatePerMinute int
	CORSAllowedOrigins   []string
	Logger               *zap.Logger
}

// Handlers serves the public site.
type Handlers struct {
	docs        *documentCache
	submissions SubmissionSink
	renderer    *render.Renderer
	markdown    *Markdown
	limiter     *ipLimiter
	cors        *cors.Cors
	logger      *zap.Logger
}

// New parses the embedded templates and builds the handlers.
func New(cfg Config) (*Handlers, error) {
	if cfg.Documents == nil {
		return nil, errors.New("site: document source is required")
	}
	if cfg.Submissions == nil {
		return nil, errors.New("site: submission sink is required")
	}
	renderer, err := render.New(templatesFS, "templates/layout/*.tmpl", "templates/pages/*.tmpl", templateFuncs())
	if err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	origins := cfg.CORSAllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return &Handlers{
		docs:        newDocumentCache(cfg.Documents, cfg.CacheTTL),
		submissions: cfg.Submissions,
		renderer:    renderer,
		markdown:    NewMarkdown(),
		limiter:     newIPLimiter(cfg.ContactRatePerMinute),
		cors: cors.New(cors.Options{
			AllowedOrigins: origins,
			AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		}),
		logger: logger,
	}, nil
}

func templateFuncs() template.FuncMap {
	upper := cases.Upper(language.Und)
	return template.FuncMap{
		"initial": func(name string) string {
			for _, r := range strings.TrimSpace(name) {
				return upper.String(string(r))
			}
			return "?"
		},
	}
}

// Routes mounts the public endpoints.
func (h *Handlers) Routes(r chi.Router) {
	r.Get("/", h.home)
	r.Post("/contact", h.contact)
	r.Method(http.MethodGet, "/api/content", h.cors.Handler(http.HandlerFunc(h.apiContent)))
	r.Method(http.MethodOptions, "/api/content", h.cors.Handler(http.HandlerFunc(h.apiContent)))
}

// Refresh replaces the cached document; register it as an editor save hook.
func (h *Handlers) Refresh(doc content.Document) {
	h.docs.Put(doc)
}

// Home renders the page for doc. The same document always renders the same markup.
func (h *Handlers) Home(doc content.Document, form FormView) HomeView {
	return BuildHome(doc, h.markdown, HomeOptions{Form: form})
}

func (h *Handlers) home(w http.ResponseWriter, r *http.Request) {
	doc := h.docs.Get(r.Context())
	form := FormView{Sent: r.URL.Query().Get("sent") == "1"}
	h.renderer.Page(w, r, http.StatusOK, "home", h.Home(doc, form))
}

func (h *Handlers) contact(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.FromContext(ctx)

	r.Body = http.MaxBytesReader(w, r.Body, maxContactFormBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}
	form := content.ContactForm{
		Name:    r.PostFormValue("name"),
		Email:   r.PostFormValue("email"),
		Phone:   r.PostFormValue("phone"),
		Message: r.PostFormValue("message"),
	}

	if fields := form.Validate(); !fields.Empty() {
		h.renderForm(w, r, http.StatusUnprocessableEntity, form, fields)
		return
	}
	if !h.limiter.Allow(clientIP(r)) {
		logger.Warn("contact form rate limited", zap.String("ip", clientIP(r)))
		h.renderForm(w, r, http.StatusTooManyRequests, form, content.FieldErrors{
			"form": "Too many messages. Please wait a minute and try again.",
		})
		return
	}

	_, err := h.submissions.AppendSubmission(ctx, form)
	var vErr *editor.ValidationError
	switch {
	case errors.As(err, &vErr):
		h.renderForm(w, r, http.StatusUnprocessableEntity, form, vErr.Fields)
		return
	case err != nil:
		logger.Error("contact submission not stored", zap.Error(err))
		h.renderForm(w, r, http.StatusServiceUnavailable, form, content.FieldErrors{
			"form": "Your message could not be sent right now. Please try again later.",
		})
		return
	}

	http.Redirect(w, r, "/?sent=1#contact", http.StatusSeeOther)
}

func (h *Handlers) renderForm(w http.ResponseWriter, r *http.Request, status int, form content.ContactForm, errs content.FieldErrors) {
	doc := h.docs.Get(r.Context())
	view := h.Home(doc, FormView{Values: form.Trimmed(), Errors: errs})
	h.renderer.Page(w, r, status, "home", view)
}

func (h *Handlers) apiContent(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	doc := h.docs.Get(r.Context())
	writeJSON(w, http.StatusOK, doc.Public())
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// Healthz reports liveness.
func Healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
