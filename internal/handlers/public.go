// Package handlers holds the public page handlers. The portal is a thin
// server-rendered front over the CMS: pages carry full SEO metadata and
// structured data, while layout stays minimal. By the time a request reaches
// these handlers the canonical pipeline has already normalized its URL, so
// handlers never redirect.
package handlers

import (
	"context"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"meridiansport/internal/canonical"
	"meridiansport/internal/cms"
	"meridiansport/internal/seo"
	"meridiansport/internal/taxonomy"
)

// ArticleFetcher loads an article when the resolver did not already attach
// one to the request context.
type ArticleFetcher interface {
	ArticleBySlug(ctx context.Context, category, slug string) (*taxonomy.Article, error)
}

// Public groups the public page handlers.
type Public struct {
	articles ArticleFetcher
	siteURL  string
	tmpl     *template.Template
}

// NewPublic creates the public handler group. articles may be nil when no
// backend is configured; article pages then render without content.
func NewPublic(articles ArticleFetcher, siteURL string) *Public {
	return &Public{
		articles: articles,
		siteURL:  strings.TrimSuffix(siteURL, "/"),
		tmpl:     template.Must(template.New("page").Parse(pageTemplate)),
	}
}

// pageData is the view model for every public page.
type pageData struct {
	Meta    seo.Meta
	JSONLD  []template.JS
	Heading string
	Article *taxonomy.Article
}

// Homepage serves GET /.
func (p *Public) Homepage(w http.ResponseWriter, r *http.Request) {
	meta, _ := seo.CategoryMeta(p.siteURL, "najnovije-vesti")
	meta.CanonicalURL = p.siteURL + "/"
	meta.Title = "Meridian Sport - Najnovije sportske vesti"
	p.render(w, http.StatusOK, pageData{
		Meta:    meta,
		JSONLD:  jsonldScripts(meta),
		Heading: "Meridian Sport",
	})
}

// CategoryPage serves GET /{category}/. Unknown slugs still render: the
// pipeline has already filtered retired categories and rewritten aliases,
// and the CMS is the authority on what exists beyond that.
func (p *Public) CategoryPage(w http.ResponseWriter, r *http.Request) {
	slug := strings.ToLower(chi.URLParam(r, "category"))

	meta, ok := seo.CategoryMeta(p.siteURL, slug)
	if !ok {
		meta = seo.Meta{
			Title:        titleFromSlug(slug) + " Meridian Sport",
			CanonicalURL: p.siteURL + "/" + slug + "/",
			OGType:       "website",
		}
	}
	p.render(w, http.StatusOK, pageData{
		Meta:    meta,
		JSONLD:  jsonldScripts(meta),
		Heading: titleFromSlug(slug),
	})
}

// ArticlePage serves GET /{category}/{slug}/. The resolver usually leaves
// the fetched article in the request context; the fallback fetch covers
// direct wiring without the pipeline.
func (p *Public) ArticlePage(w http.ResponseWriter, r *http.Request) {
	category := strings.ToLower(chi.URLParam(r, "category"))
	slug := chi.URLParam(r, "slug")

	article := canonical.ArticleFromContext(r.Context())
	if article == nil && p.articles != nil {
		var err error
		article, err = p.articles.ArticleBySlug(r.Context(), category, slug)
		switch {
		case errors.Is(err, cms.ErrNotFound):
			p.NotFound(w, r)
			return
		case errors.Is(err, cms.ErrNotConfigured):
			article = nil
		case err != nil:
			slog.Error("article fetch failed", "category", category, "slug", slug, "error", err)
			http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
			return
		}
	}

	if article == nil {
		p.NotFound(w, r)
		return
	}

	meta := seo.ArticleMeta(p.siteURL, article)
	p.render(w, http.StatusOK, pageData{
		Meta:    meta,
		JSONLD:  jsonldScripts(meta),
		Heading: article.Title,
		Article: article,
	})
}

// NotFound is the portal's 404 page, also installed as the pipeline's
// not-found handler.
func (p *Public) NotFound(w http.ResponseWriter, r *http.Request) {
	p.render(w, http.StatusNotFound, pageData{
		Meta:    seo.Meta{Title: "Stranica nije pronađena - Meridian Sport"},
		Heading: "Stranica nije pronađena",
	})
}

// Health serves the load balancer probe.
func (p *Public) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func (p *Public) render(w http.ResponseWriter, status int, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := p.tmpl.Execute(w, data); err != nil {
		slog.Error("page render failed", "error", err)
	}
}

// jsonldScripts marks the pre-marshaled JSON-LD blocks as safe for the
// template. They are produced by json.Marshal, never from request input.
func jsonldScripts(meta seo.Meta) []template.JS {
	scripts := make([]template.JS, 0, len(meta.JSONLD))
	for _, block := range meta.JSONLD {
		scripts = append(scripts, template.JS(block))
	}
	return scripts
}

func titleFromSlug(slug string) string {
	words := strings.Split(strings.ReplaceAll(slug, "-", " "), " ")
	for i, word := range words {
		if word != "" {
			words[i] = strings.ToUpper(word[:1]) + word[1:]
		}
	}
	return strings.Join(words, " ")
}

const pageTemplate = `<!DOCTYPE html>
<html lang="sr">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Meta.Title}}</title>
{{- if .Meta.Description}}
<meta name="description" content="{{.Meta.Description}}">
<meta name="robots" content="index, follow, max-image-preview:large">
{{- end}}
{{- if .Meta.CanonicalURL}}
<link rel="canonical" href="{{.Meta.CanonicalURL}}">
<meta property="og:url" content="{{.Meta.CanonicalURL}}">
{{- end}}
{{- if .Meta.OGType}}
<meta property="og:type" content="{{.Meta.OGType}}">
{{- end}}
<meta property="og:title" content="{{.Meta.Title}}">
{{- if .Meta.Description}}
<meta property="og:description" content="{{.Meta.Description}}">
{{- end}}
{{- if .Meta.OGImage}}
<meta property="og:image" content="{{.Meta.OGImage}}">
<meta name="twitter:card" content="summary_large_image">
{{- end}}
<meta property="og:site_name" content="Meridian Sport">
{{- range .JSONLD}}
<script type="application/ld+json">{{.}}</script>
{{- end}}
<link rel="alternate" type="application/rss+xml" title="Meridian Sport RSS" href="/feed.xml">
</head>
<body>
<header><a href="/">Meridian Sport</a></header>
<main>
<h1>{{.Heading}}</h1>
{{- if .Article}}
<article data-article-id="{{.Article.ID}}">
<p data-slug="{{.Article.Slug}}"></p>
</article>
{{- end}}
</main>
</body>
</html>
`
