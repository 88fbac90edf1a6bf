// Package content serves the static help pages. Pages are embedded
// markdown with YAML front matter, converted to HTML at load and
// sanitized before they reach a template.
package content

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"gopkg.in/yaml.v3"
)

//go:embed pages/*/*.md
var pageFS embed.FS

// ErrNotFound is returned when no page exists for the slug in any locale.
var ErrNotFound = errors.New("content: page not found")

// Page is one localized help page with its body already rendered to
// sanitized HTML.
type Page struct {
	Slug    string
	Lang    string
	Title   string
	Summary string
	Body    template.HTML
}

type frontMatter struct {
	Title   string `yaml:"title"`
	Summary string `yaml:"summary"`
	Lang    string `yaml:"lang"`
}

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy
)

func htmlPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		p := bluemonday.UGCPolicy()
		p.RequireNoFollowOnLinks(true)
		policy = p
	})
	return policy
}

// Load returns the page for slug in lang, falling back to fallbackLang
// when the requested locale has no file.
func Load(slug, lang, fallbackLang string) (Page, error) {
	priority := []string{lang}
	if lang != fallbackLang {
		priority = append(priority, fallbackLang)
	}
	for _, candidate := range priority {
		page, err := readPage(slug, candidate)
		if err == nil {
			return page, nil
		}
		if errors.Is(err, ErrNotFound) {
			continue
		}
		return Page{}, err
	}
	return Page{}, ErrNotFound
}

func readPage(slug, lang string) (Page, error) {
	if strings.TrimSpace(slug) == "" || strings.Contains(slug, "/") {
		return Page{}, ErrNotFound
	}
	raw, err := pageFS.ReadFile("pages/" + lang + "/" + slug + ".md")
	if err != nil {
		return Page{}, ErrNotFound
	}

	fm, body := splitFrontMatter(string(raw))
	front := frontMatter{}
	if strings.TrimSpace(fm) != "" {
		if err := yaml.Unmarshal([]byte(fm), &front); err != nil {
			return Page{}, fmt.Errorf("content: parse front matter %s/%s: %w", lang, slug, err)
		}
	}

	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(body), &buf); err != nil {
		return Page{}, fmt.Errorf("content: render %s/%s: %w", lang, slug, err)
	}

	page := Page{
		Slug:    slug,
		Lang:    firstNonEmpty(strings.TrimSpace(front.Lang), lang),
		Title:   strings.TrimSpace(front.Title),
		Summary: strings.TrimSpace(front.Summary),
		Body:    template.HTML(htmlPolicy().SanitizeBytes(buf.Bytes())),
	}
	if page.Title == "" {
		page.Title = prettifySlug(slug)
	}
	return page, nil
}

func splitFrontMatter(input string) (string, string) {
	input = strings.TrimLeft(input, "\ufeff")
	lines := strings.Split(input, "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return "", input
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			return strings.Join(lines[1:i], "\n"), strings.Join(lines[i+1:], "\n")
		}
	}
	return "", input
}

func prettifySlug(slug string) string {
	parts := strings.FieldsFunc(slug, func(r rune) bool { return r == '-' || r == '_' })
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
