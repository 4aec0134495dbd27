// Package ui renders the admin panel pages and applies form submissions
// through the editor.
package ui

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"finitefield.org/portfolio/internal/admin/middleware"
	"finitefield.org/portfolio/internal/admin/session"
	"finitefield.org/portfolio/internal/content"
	"finitefield.org/portfolio/internal/editor"
	"finitefield.org/portfolio/internal/platform/observability"
	"finitefield.org/portfolio/internal/render"
	"finitefield.org/portfolio/internal/store"
)

//go:embed templates
var templatesFS embed.FS

// Editor is the content mutation surface used by the admin screens.
type Editor interface {
	Document(ctx context.Context) content.Document
	Status() store.SyncStatus
	Stats(ctx context.Context) editor.Stats
	MigrateLegacySubmissions(ctx context.Context) (int, error)

	SaveVideo(ctx context.Context, editID string, in editor.VideoInput) (editor.Result, error)
	DeleteVideo(ctx context.Context, id string) (editor.Result, error)
	SaveTestimonial(ctx context.Context, editID string, in editor.TestimonialInput) (editor.Result, error)
	DeleteTestimonial(ctx context.Context, id string) (editor.Result, error)
	SaveService(ctx context.Context, editID string, in editor.ServiceInput) (editor.Result, error)
	DeleteService(ctx context.Context, id string) (editor.Result, error)
	SaveAbout(ctx context.Context, in content.About) (editor.Result, error)
	SaveContact(ctx context.Context, in content.Contact) (editor.Result, error)
	MarkSubmissionRead(ctx context.Context, id string) (editor.Result, error)
	DeleteSubmission(ctx context.Context, id string) (editor.Result, error)
}

// Dependencies collects external services required by the UI handlers.
type Dependencies struct {
	Editor    Editor
	Passwords PasswordChecker
	BasePath  string
	// LoginPath defaults to <BasePath>/login.
	LoginPath string
	Logger    *zap.Logger
	Now       func() time.Time
}

// Handlers exposes HTTP handlers for admin UI pages.
type Handlers struct {
	editor    Editor
	passwords PasswordChecker
	basePath  string
	loginPath string
	renderer  *render.Renderer
	logger    *zap.Logger
	now       func() time.Time
}

// NewHandlers wires the UI handler set.
func NewHandlers(deps Dependencies) (*Handlers, error) {
	if deps.Editor == nil {
		return nil, errors.New("ui: editor is required")
	}
	passwords := deps.Passwords
	if passwords == nil {
		passwords = NewPasswordChecker("")
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	basePath := middleware.NormalizeBasePath(deps.BasePath)
	renderer, err := render.New(templatesFS, "templates/layout/*.tmpl", "templates/pages/*.tmpl", templateFuncs(basePath))
	if err != nil {
		return nil, err
	}
	loginPath := strings.TrimSpace(deps.LoginPath)
	if loginPath == "" {
		loginPath = joinBasePath(basePath, "/login")
	}
	if !passwords.Configured() {
		logger.Warn("admin password not configured; login is disabled")
	}
	return &Handlers{
		editor:    deps.Editor,
		passwords: passwords,
		basePath:  basePath,
		loginPath: loginPath,
		renderer:  renderer,
		logger:    logger,
		now:       now,
	}, nil
}

// Mount registers the authenticated admin routes on r, which must already be
// scoped to the admin base path.
func (h *Handlers) Mount(r chi.Router) {
	r.Get("/", h.Dashboard)
	r.Post("/logout", h.Logout)

	r.Get("/videos", h.Videos)
	r.Get("/videos/new", h.VideoForm)
	r.Post("/videos", h.VideoSubmit)
	r.Get("/videos/{id}/edit", h.VideoForm)
	r.Post("/videos/{id}", h.VideoSubmit)
	r.Get("/videos/{id}/delete", h.VideoConfirmDelete)
	r.Post("/videos/{id}/delete", h.VideoDelete)

	r.Get("/testimonials", h.Testimonials)
	r.Get("/testimonials/new", h.TestimonialForm)
	r.Post("/testimonials", h.TestimonialSubmit)
	r.Get("/testimonials/{id}/edit", h.TestimonialForm)
	r.Post("/testimonials/{id}", h.TestimonialSubmit)
	r.Get("/testimonials/{id}/delete", h.TestimonialConfirmDelete)
	r.Post("/testimonials/{id}/delete", h.TestimonialDelete)

	r.Get("/services", h.Services)
	r.Get("/services/new", h.ServiceForm)
	r.Post("/services", h.ServiceSubmit)
	r.Get("/services/{id}/edit", h.ServiceForm)
	r.Post("/services/{id}", h.ServiceSubmit)
	r.Get("/services/{id}/delete", h.ServiceConfirmDelete)
	r.Post("/services/{id}/delete", h.ServiceDelete)

	r.Get("/about", h.AboutForm)
	r.Post("/about", h.AboutSubmit)
	r.Get("/contact", h.ContactForm)
	r.Post("/contact", h.ContactSubmit)

	r.Get("/submissions", h.Submissions)
	r.Post("/submissions/{id}/read", h.SubmissionMarkRead)
	r.Get("/submissions/{id}/delete", h.SubmissionConfirmDelete)
	r.Post("/submissions/{id}/delete", h.SubmissionDelete)

	r.Get("/export", h.Export)
}

func templateFuncs(basePath string) template.FuncMap {
	return template.FuncMap{
		"adminPath": func(suffix string) string { return joinBasePath(basePath, suffix) },
		"fmtTime": func(ts time.Time) string {
			if ts.IsZero() {
				return "never"
			}
			return ts.UTC().Format("2006-01-02 15:04 MST")
		},
		"stars":    content.Stars,
		"mailto":   content.MailtoURL,
		"whatsapp": content.WhatsAppURL,
		"thumbnail": func(v content.Video) template.URL {
			return template.URL(content.ThumbnailURL(v))
		},
		"badge": content.PlatformBadge,
		"ratings": func() []int {
			out := make([]int, 0, content.MaxRating-content.MinRating+1)
			for i := content.MaxRating; i >= content.MinRating; i-- {
				out = append(out, i)
			}
			return out
		},
	}
}

func joinBasePath(basePath, suffix string) string {
	base := strings.TrimSpace(basePath)
	if base == "" {
		base = "/admin"
	}
	if !strings.HasPrefix(suffix, "/") {
		suffix = "/" + suffix
	}
	if base == "/" {
		return suffix
	}
	if suffix == "/" {
		return base
	}
	return strings.TrimRight(base, "/") + suffix
}

// pageData is the envelope every admin template receives.
type pageData struct {
	Title          string
	Section        string
	Environment    string
	CSRFToken      string
	Authenticated  bool
	Flash          *session.Flash
	NewSubmissions int
	Sync           store.SyncStatus
	Content        any
}

func (h *Handlers) page(r *http.Request, section, title string, body any) pageData {
	ctx := r.Context()
	data := pageData{
		Title:       title,
		Section:     section,
		Environment: middleware.ConsoleFromContext(ctx).Environment,
		CSRFToken:   middleware.CSRFTokenFromContext(ctx),
		Content:     body,
	}
	if sess, ok := middleware.SessionFromContext(ctx); ok {
		data.Authenticated = sess.Authenticated()
		data.Flash = sess.PopFlash()
	}
	if data.Authenticated {
		data.NewSubmissions = h.editor.Document(ctx).NewSubmissionCount()
		data.Sync = h.editor.Status()
	}
	return data
}

func (h *Handlers) render(w http.ResponseWriter, r *http.Request, status int, name string, data pageData) {
	h.renderer.Page(w, r, status, name, data)
}

func (h *Handlers) redirect(w http.ResponseWriter, r *http.Request, suffix string) {
	target := joinBasePath(h.basePath, suffix)
	if middleware.IsHTMXRequest(r.Context()) {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (h *Handlers) flash(r *http.Request, kind session.FlashKind, message string) {
	if sess, ok := middleware.SessionFromContext(r.Context()); ok {
		sess.SetFlash(kind, message)
	}
}

// finish reports a completed mutation and redirects to listPath. Validation
// failures are left to the caller, which re-renders its form.
func (h *Handlers) finish(w http.ResponseWriter, r *http.Request, listPath, noun string, res editor.Result, err error) {
	logger := observability.FromContext(r.Context())
	switch {
	case errors.Is(err, editor.ErrNotFound):
		h.flash(r, session.FlashWarning, "That "+noun+" no longer exists. Nothing was changed.")
	case err != nil:
		logger.Error("admin save failed", zap.String("entity", noun), zap.Error(err))
		h.flash(r, session.FlashError, "Could not save the "+noun+". Neither the remote store nor the local copy accepted the change.")
	case !res.RemoteSynced:
		h.flash(r, session.FlashWarning, "Saved locally; remote store unavailable. The change will be pushed with the next save.")
	default:
		h.flash(r, session.FlashSuccess, "Saved.")
	}
	h.redirect(w, r, listPath)
}

func entryID(r *http.Request) string {
	raw := chi.URLParam(r, "id")
	if id, err := url.PathUnescape(raw); err == nil {
		return id
	}
	return raw
}

func validationFields(err error) (content.FieldErrors, bool) {
	var vErr *editor.ValidationError
	if errors.As(err, &vErr) {
		return vErr.Fields, true
	}
	return nil, false
}

func parseForm(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return false
	}
	return true
}

// confirmView drives the generic delete confirmation page.
type confirmView struct {
	Noun   string
	Label  string
	Action string
	Cancel string
}

func (h *Handlers) confirmDelete(w http.ResponseWriter, r *http.Request, section, noun, label, listPath string) {
	view := confirmView{
		Noun:   noun,
		Label:  label,
		Action: joinBasePath(h.basePath, listPath+"/"+url.PathEscape(entryID(r))+"/delete"),
		Cancel: joinBasePath(h.basePath, listPath),
	}
	h.render(w, r, http.StatusOK, "confirm", h.page(r, section, "Delete "+noun, view))
}
