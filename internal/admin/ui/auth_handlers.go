package ui

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"finitefield.org/portfolio/internal/admin/middleware"
	"finitefield.org/portfolio/internal/platform/observability"
)

type loginView struct {
	Action     string
	Next       string
	Error      string
	Configured bool
}

// LoginForm renders the password prompt. Signed-in sessions skip straight to next.
func (h *Handlers) LoginForm(w http.ResponseWriter, r *http.Request) {
	next := middleware.SafeNext(r.URL.Query().Get("next"), h.basePath)
	if sess, ok := middleware.SessionFromContext(r.Context()); ok && sess.Authenticated() {
		http.Redirect(w, r, next, http.StatusFound)
		return
	}
	h.renderLogin(w, r, http.StatusOK, loginView{Next: next})
}

// LoginSubmit checks the password and starts an authenticated session.
func (h *Handlers) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	logger := observability.FromContext(r.Context())
	next := middleware.SafeNext(r.PostFormValue("next"), h.basePath)
	password := r.PostFormValue("password")

	if !h.passwords.Check(password) {
		logger.Warn("admin login failed", zap.Bool("password_configured", h.passwords.Configured()))
		h.renderLogin(w, r, http.StatusUnauthorized, loginView{Next: next, Error: "Invalid password"})
		return
	}

	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if err := sess.SignIn(); err != nil {
		logger.Error("admin sign-in failed", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	logger.Info("admin signed in")

	if middleware.IsHTMXRequest(r.Context()) {
		w.Header().Set("HX-Redirect", next)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, next, http.StatusSeeOther)
}

// Logout ends the session.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if sess, ok := middleware.SessionFromContext(r.Context()); ok {
		sess.Destroy()
	}
	observability.FromContext(r.Context()).Info("admin signed out")
	http.Redirect(w, r, h.loginPath, http.StatusSeeOther)
}

func (h *Handlers) renderLogin(w http.ResponseWriter, r *http.Request, status int, view loginView) {
	view.Action = h.loginPath
	view.Configured = h.passwords.Configured()
	view.Next = strings.TrimSpace(view.Next)
	h.render(w, r, status, "login", h.page(r, "login", "Sign in", view))
}
