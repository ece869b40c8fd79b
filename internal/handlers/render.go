package handlers

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"portfolio-site/internal/baas"
	"portfolio-site/internal/content"
	"portfolio-site/internal/logging"
	"portfolio-site/internal/middleware"
	"portfolio-site/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// mdRenderer escapes raw HTML found in project details.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// timeNow is a variable for testability.
var timeNow = time.Now

// Page carries what the layout needs on every page.
type Page struct {
	Title   string
	Nav     string
	CSRF    template.HTML
	Admin   *baas.Identity
	Notice  string
	Error   string
	Refresh string
}

var funcs = template.FuncMap{
	"markdown": func(md string) template.HTML {
		var buf bytes.Buffer
		if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
			return template.HTML(template.HTMLEscapeString(md))
		}
		return template.HTML(buf.String())
	},
	"date": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Local().Format("Jan 2, 2006 15:04")
	},
	"join":        models.JoinList,
	"userMessage": content.UserMessage,
	"replySubject": func(subject string) string {
		if subject == "" {
			return "Re: Your message"
		}
		return "Re: " + subject
	},
	"year": func() int { return timeNow().Year() },
}

// Renderer executes the embedded page templates inside the shared layout.
type Renderer struct {
	pages map[string]*template.Template
	log   logging.Logger
}

func NewRenderer(log logging.Logger) (*Renderer, error) {
	layout, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	names, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	r := &Renderer{pages: make(map[string]*template.Template), log: log}
	for _, name := range names {
		if strings.HasSuffix(name, "/layout.html") {
			continue
		}
		tpl, err := layout.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := tpl.ParseFS(templateFS, name); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		r.pages[strings.TrimSuffix(strings.TrimPrefix(name, "templates/"), ".html")] = tpl
	}
	return r, nil
}

// Render writes page name with status. data must have a Page field.
func (rr *Renderer) Render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	tpl, ok := rr.pages[name]
	if !ok {
		rr.log.Error(r.Context(), "unknown template", "name", name)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := tpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		rr.log.Error(r.Context(), "render template", "name", name, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// newPage fills the per-request parts of Page.
func newPage(r *http.Request, title, nav string) Page {
	p := Page{Title: title, Nav: nav, CSRF: csrf.TemplateField(r)}
	if id, ok := middleware.IdentityFromContext(r.Context()); ok {
		p.Admin = &id
	}
	return p
}

// StaticHandler serves the stylesheet.
func StaticHandler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}
