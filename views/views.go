// Package views renders the server-side HTML pages.
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"
	"sync"

	"github.com/rpupo63/blog-platform/models"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	AuthPage       = "authentication"
	MainPage       = "main"
	CreateBlogPage = "create-blog"
)

// AuthView backs the login/registration page.
type AuthView struct {
	Error      string
	ShowSignup bool
}

// MainView backs the post reader. Post is nil when there is nothing to show.
type MainView struct {
	Post      *models.BlogPost
	Comments  []models.Comment
	NextID    string
	UserName  string
	UserEmail string
	LikeCount int
	Liked     bool
}

type CreateBlogView struct {
	Error string
}

var (
	markdownOnce     sync.Once
	markdownInstance goldmark.Markdown
)

func markdownRenderer() goldmark.Markdown {
	markdownOnce.Do(func() {
		markdownInstance = goldmark.New(goldmark.WithExtensions(extension.GFM))
	})
	return markdownInstance
}

// Renderer holds one parsed template set per page.
type Renderer struct {
	pages map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	funcs := template.FuncMap{
		"markdown": renderMarkdown,
		"imageURL": imageURL,
	}

	pages := make(map[string]*template.Template)
	for _, page := range []string{AuthPage, MainPage, CreateBlogPage} {
		tmpl, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+page+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", page, err)
		}
		pages[page] = tmpl
	}
	return &Renderer{pages: pages}, nil
}

// Render executes page into a buffer first so a template error never
// leaves a half-written response.
func (r *Renderer) Render(w io.Writer, page string, data any) error {
	tmpl, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		return fmt.Errorf("render %s: %w", page, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// renderMarkdown converts post content to HTML. Raw HTML in the source is
// dropped by goldmark's default renderer.
func renderMarkdown(source string) template.HTML {
	var buf bytes.Buffer
	if err := markdownRenderer().Convert([]byte(source), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(source))
	}
	return template.HTML(buf.String())
}

// imageURL lets data URIs and https URLs through to an img src; anything
// else is replaced with an empty value.
func imageURL(s string) template.URL {
	if strings.HasPrefix(s, "data:image/") || strings.HasPrefix(s, "https://") {
		return template.URL(s)
	}
	return ""
}
