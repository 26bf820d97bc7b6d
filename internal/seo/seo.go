// Package seo builds page metadata and schema.org structured data for the
// portal's server-rendered pages. Everything here is pure computation over
// resolved content, so the handlers stay thin and the payloads stay testable.
package seo

import (
	"encoding/json"
	"strings"

	"meridiansport/internal/taxonomy"
)

const (
	publisherName = "Meridian Sport"
	publisherURL  = "https://meridiansport.rs/"
	publisherLogo = "https://meridiansport.rs/images/meridian-favicon-512x512.png"
)

// publisherSameAs lists the portal's official social profiles for the
// schema.org publisher entity.
var publisherSameAs = []string{
	"https://www.facebook.com/SportMeridian/",
	"https://www.instagram.com/meridiansportrs/",
	"https://www.youtube.com/@meridiansport",
	"https://x.com/meridiansportrs",
}

// Meta carries everything a page template needs for its head section.
type Meta struct {
	Title        string
	Description  string
	CanonicalURL string
	OGType       string
	OGImage      string
	JSONLD       []string
}

// categoryCopy is the editorial title and description per landing page.
var categoryCopy = map[string]struct {
	name        string
	title       string
	description string
}{
	"najnovije-vesti": {
		name:        "Najnovije vesti",
		title:       "Najnovije vesti Meridian Sport",
		description: "Najnovije sportske vesti sa Meridian Sport portala! Fudbal, košarka, odbojka i svi aktuelni događaji iz Srbije i sveta, na jednom mestu.",
	},
	"fudbal": {
		name:        "Fudbal",
		title:       "Fudbal Meridian Sport",
		description: "Najnovije fudbalske vesti sa Meridian Sport portala! Rezultati, transferi, analize i priče iz domaćeg i svetskog fudbala.",
	},
	"kosarka": {
		name:        "Košarka",
		title:       "Košarka Meridian Sport",
		description: "Meridian Sport prati sve iz sveta košarke! Utakmice, transferi, izveštaji i ekskluzive iz domaćih i stranih liga.",
	},
	"tenis": {
		name:        "Tenis",
		title:       "Tenis Meridian Sport",
		description: "Meridian Sport donosi najnovije vesti iz tenisa! ATP, WTA, Grand Slam turniri, rezultati i analize.",
	},
	"odbojka": {
		name:        "Odbojka",
		title:       "Odbojka Meridian Sport",
		description: "Pratite Meridian Sport za najnovije vesti iz odbojke - rezultati, transferi, izveštaji i sve što zanima ljubitelje odbojke.",
	},
	"ostali-sportovi": {
		name:        "Ostali sportovi",
		title:       "Ostali sportovi Meridian Sport",
		description: "Meridian Sport donosi aktuelne vesti iz ostalih sportova - atletika, borilački sportovi, rukomet, plivanje i više.",
	},
}

// ArticleMeta builds the head metadata for an article page. The canonical
// URL always points at the article's canonical category, which is what the
// resolution pipeline enforces on inbound requests.
func ArticleMeta(site string, a *taxonomy.Article) Meta {
	site = strings.TrimSuffix(site, "/")
	canonical := site + "/" + taxonomy.CanonicalCategory(a.Categories) + "/" + a.Slug + "/"

	schema := map[string]any{
		"@context": "https://schema.org",
		"@type":    "NewsArticle",
		"mainEntityOfPage": map[string]any{
			"@type": "WebPage",
			"@id":   canonical,
		},
		"headline": a.Title,
		"author": map[string]any{
			"@type": "Organization",
			"name":  "Redakcija",
		},
		"publisher":           publisherSchema(),
		"description":         a.Title,
		"isAccessibleForFree": true,
	}

	return Meta{
		Title:        a.Title,
		Description:  a.Title,
		CanonicalURL: canonical,
		OGType:       "article",
		OGImage:      site + "/images/default-category-og.jpg",
		JSONLD:       []string{mustJSON(schema)},
	}
}

// CategoryMeta builds the head metadata for a category landing page. The
// second return value is false for slugs with no editorial copy.
func CategoryMeta(site, slug string) (Meta, bool) {
	slug = strings.ToLower(slug)
	copyFor, ok := categoryCopy[slug]
	if !ok {
		return Meta{}, false
	}

	site = strings.TrimSuffix(site, "/")
	canonical := site + "/" + slug + "/"

	collection := map[string]any{
		"@context":    "https://schema.org",
		"@type":       "CollectionPage",
		"name":        copyFor.title,
		"description": copyFor.description,
		"url":         canonical,
		"publisher":   publisherSchema(),
	}
	breadcrumbs := BreadcrumbSchema(site, []Breadcrumb{
		{Name: "Home", URL: "/"},
		{Name: copyFor.name, URL: "/" + slug + "/"},
	})

	return Meta{
		Title:        copyFor.title,
		Description:  copyFor.description,
		CanonicalURL: canonical,
		OGType:       "website",
		OGImage:      site + "/images/default-category-og.jpg",
		JSONLD:       []string{mustJSON(collection), breadcrumbs},
	}, true
}

// Breadcrumb is one entry of a page's breadcrumb trail. URL may be relative;
// it is resolved against the site URL in the schema.
type Breadcrumb struct {
	Name string
	URL  string
}

// BreadcrumbSchema renders a schema.org BreadcrumbList as JSON-LD.
func BreadcrumbSchema(site string, crumbs []Breadcrumb) string {
	site = strings.TrimSuffix(site, "/")

	items := make([]map[string]any, 0, len(crumbs))
	for i, crumb := range crumbs {
		item := crumb.URL
		if !strings.HasPrefix(item, "http") {
			item = site + item
		}
		items = append(items, map[string]any{
			"@type":    "ListItem",
			"position": i + 1,
			"name":     crumb.Name,
			"item":     item,
		})
	}

	return mustJSON(map[string]any{
		"@context":        "https://schema.org",
		"@type":           "BreadcrumbList",
		"itemListElement": items,
	})
}

func publisherSchema() map[string]any {
	return map[string]any{
		"@type": "Organization",
		"name":  publisherName,
		"url":   publisherURL,
		"logo": map[string]any{
			"@type":  "ImageObject",
			"url":    publisherLogo,
			"width":  512,
			"height": 512,
		},
		"sameAs": publisherSameAs,
	}
}

// mustJSON marshals v, which is built from map and slice literals and cannot
// fail to encode.
func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(b)
}
