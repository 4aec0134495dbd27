// Package render executes embedded html/template pages as templ components.
package render

import (
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/a-h/templ"
	"go.uber.org/zap"

	"finitefield.org/portfolio/internal/platform/observability"
)

const layoutTemplate = "base"

// Renderer holds one parsed template set per page. Every set shares the
// layout and partial files so pages can define the same block names.
type Renderer struct {
	pages map[string]*template.Template
}

// New parses shared files matching sharedGlob and one page per file matching
// pageGlob. Pages are keyed by file name without extension.
func New(fsys fs.FS, sharedGlob, pageGlob string, funcs template.FuncMap) (*Renderer, error) {
	base := template.New("_root").Funcs(funcs)
	if sharedGlob != "" {
		var err error
		base, err = base.ParseFS(fsys, sharedGlob)
		if err != nil {
			return nil, fmt.Errorf("render: parse shared templates: %w", err)
		}
	}

	files, err := fs.Glob(fsys, pageGlob)
	if err != nil {
		return nil, fmt.Errorf("render: glob pages: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("render: no pages match %s", pageGlob)
	}

	pages := make(map[string]*template.Template, len(files))
	for _, file := range files {
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("render: clone layout: %w", err)
		}
		page, err := clone.ParseFS(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("render: parse %s: %w", file, err)
		}
		name := strings.TrimSuffix(path.Base(file), path.Ext(file))
		pages[name] = page
	}
	return &Renderer{pages: pages}, nil
}

// Component returns the named page as a templ component. Pages that define
// the layout render through it; fragment pages render their own root.
func (r *Renderer) Component(page string, data any) (templ.Component, error) {
	set, ok := r.pages[page]
	if !ok {
		return nil, fmt.Errorf("render: unknown page %q", page)
	}
	tmpl := set.Lookup(layoutTemplate)
	if tmpl == nil {
		tmpl = set.Lookup(page)
	}
	if tmpl == nil {
		return nil, fmt.Errorf("render: page %q has no %q or %q template", page, layoutTemplate, page)
	}
	return templ.FromGoHTML(tmpl, data), nil
}

// Page writes the named page with the given status code.
func (r *Renderer) Page(w http.ResponseWriter, req *http.Request, status int, page string, data any) {
	component, err := r.Component(page, data)
	if err != nil {
		observability.FromContext(req.Context()).Error("render failed", zap.String("page", page), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if status == 0 {
		status = http.StatusOK
	}
	templ.Handler(component,
		templ.WithStatus(status),
		templ.WithErrorHandler(func(req *http.Request, err error) http.Handler {
			observability.FromContext(req.Context()).Error("render failed", zap.String("page", page), zap.Error(err))
			return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			})
		}),
	).ServeHTTP(w, req)
}
