package ui

import (
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"finitefield.org/portfolio/internal/admin/session"
	"finitefield.org/portfolio/internal/content"
	"finitefield.org/portfolio/internal/editor"
	"finitefield.org/portfolio/internal/platform/observability"
)

const dashboardRecentLimit = 5

type dashboardView struct {
	Stats    editor.Stats
	Recent   []content.Submission
	Migrated int
}

// Dashboard folds in any legacy submissions and shows the summary counters.
func (h *Handlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.FromContext(ctx)

	doc := h.editor.Document(ctx)
	view := dashboardView{}
	migrated, err := h.editor.MigrateLegacySubmissions(ctx)
	if err != nil {
		logger.Warn("legacy submission migration failed", zap.Error(err))
	} else if migrated > 0 {
		view.Migrated = migrated
		doc = h.editor.Document(ctx)
	}

	view.Stats = h.editor.Stats(ctx)
	recent := editor.SortedSubmissions(doc.Submissions)
	if len(recent) > dashboardRecentLimit {
		recent = recent[:dashboardRecentLimit]
	}
	view.Recent = recent
	h.render(w, r, http.StatusOK, "dashboard", h.page(r, "dashboard", "Dashboard", view))
}

type submissionsView struct {
	Submissions []content.Submission
}

// Submissions lists contact-form messages newest first.
func (h *Handlers) Submissions(w http.ResponseWriter, r *http.Request) {
	doc := h.editor.Document(r.Context())
	view := submissionsView{Submissions: editor.SortedSubmissions(doc.Submissions)}
	h.render(w, r, http.StatusOK, "submissions", h.page(r, "submissions", "Messages", view))
}

// SubmissionMarkRead flips a message to read.
func (h *Handlers) SubmissionMarkRead(w http.ResponseWriter, r *http.Request) {
	res, err := h.editor.MarkSubmissionRead(r.Context(), entryID(r))
	h.finish(w, r, "/submissions", "message", res, err)
}

// SubmissionConfirmDelete asks before removing a message.
func (h *Handlers) SubmissionConfirmDelete(w http.ResponseWriter, r *http.Request) {
	id := entryID(r)
	for _, sub := range h.editor.Document(r.Context()).Submissions {
		if sub.ID == id {
			h.confirmDelete(w, r, "submissions", "message", fmt.Sprintf("%s <%s>", sub.Name, sub.Email), "/submissions")
			return
		}
	}
	h.flash(r, session.FlashWarning, "That message no longer exists.")
	h.redirect(w, r, "/submissions")
}

// SubmissionDelete removes a message.
func (h *Handlers) SubmissionDelete(w http.ResponseWriter, r *http.Request) {
	res, err := h.editor.DeleteSubmission(r.Context(), entryID(r))
	h.finish(w, r, "/submissions", "message", res, err)
}

// Export downloads the full document, submissions included.
func (h *Handlers) Export(w http.ResponseWriter, r *http.Request) {
	doc := h.editor.Document(r.Context())
	filename := fmt.Sprintf("portfolio-%s.json", h.now().UTC().Format("20060102-150405"))
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		observability.FromContext(r.Context()).Error("export encode failed", zap.Error(err))
	}
}
