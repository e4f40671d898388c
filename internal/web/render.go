package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"os"
	"sync"

	"github.com/okra-platform/rowview/internal/navigator"
)

//go:embed templates/*.html
var templatesFS embed.FS

const (
	templatePattern = "*.html"
	pageTemplate    = "index.html"
)

// Renderer renders the viewer page. Templates come from the embedded set or,
// when a directory is given, from disk so they can be reloaded while running.
type Renderer struct {
	fsys   fs.FS
	accept string

	mu   sync.RWMutex
	tmpl *template.Template
}

// page is the template data: the navigator view plus what the upload form accepts
type page struct {
	navigator.View
	Accept string
}

// NewRenderer parses the embedded templates, or those in dir when dir is not empty.
// accept is the file extension offered by the upload form.
func NewRenderer(dir, accept string) (*Renderer, error) {
	var fsys fs.FS
	if dir == "" {
		sub, err := fs.Sub(templatesFS, "templates")
		if err != nil {
			return nil, err
		}
		fsys = sub
	} else {
		fsys = os.DirFS(dir)
	}

	r := &Renderer{fsys: fsys, accept: accept}
	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// Reload re-parses the templates. On failure the previous set stays active.
func (r *Renderer) Reload() error {
	tmpl, err := template.ParseFS(r.fsys, templatePattern)
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}
	if tmpl.Lookup(pageTemplate) == nil {
		return fmt.Errorf("template %s not found", pageTemplate)
	}

	r.mu.Lock()
	r.tmpl = tmpl
	r.mu.Unlock()
	return nil
}

// Render writes the page for view to w. Nothing is written if execution fails.
func (r *Renderer) Render(w io.Writer, view navigator.View) error {
	r.mu.RLock()
	tmpl := r.tmpl
	r.mu.RUnlock()

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, pageTemplate, page{View: view, Accept: r.accept}); err != nil {
		return fmt.Errorf("failed to render page: %w", err)
	}

	_, err := buf.WriteTo(w)
	return err
}
