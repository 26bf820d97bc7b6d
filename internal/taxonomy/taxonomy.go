// Package taxonomy defines the category and article model of the upstream
// CMS together with the static tables that drive URL canonicalization:
// the main-category set, the legacy sub-category alias maps, the deny list
// of retired categories, and the reserved top-level page names.
//
// Everything here is immutable configuration loaded at process start.
// The upstream CMS is the source of truth for live category data; these
// tables only encode historical URL structure that the CMS no longer knows.
package taxonomy

import "strings"

// Category is a content taxonomy node as returned by the upstream CMS.
// ParentID is nil for top-level categories.
type Category struct {
	ID       int64   `json:"id"`
	Slug     string  `json:"slug"`
	Name     string  `json:"name"`
	ParentID *int64  `json:"parent_id"`
}

// Article is a CMS content item. Categories is never empty for a valid
// article; its order is not guaranteed canonical by the upstream.
type Article struct {
	ID         int64      `json:"id"`
	Title      string     `json:"title"`
	Slug       string     `json:"slug"`
	Categories []Category `json:"categories"`
}

// MainCategories is the authoritative set of top-level category slugs.
// Main categories have no parent in the canonical URL scheme.
var MainCategories = []string{
	"fudbal",
	"kosarka",
	"tenis",
	"odbojka",
	"ostali-sportovi",
}

// SubcategoryParents maps a deprecated or child category slug to the main
// category slug it resolves to. Single-segment URLs for these slugs 301 to
// the parent category page.
var SubcategoryParents = map[string]string{
	// Football
	"domaci-fudbal":       "fudbal",
	"domai-fudbal":        "fudbal",
	"reprezentacije":      "fudbal",
	"evropska-takmicenja": "fudbal",
	"liga-sampiona":       "fudbal",
	"liga-evrope":         "fudbal",
	"liga-europa":         "fudbal",
	"liga-konferencija":   "fudbal",
	"liga-konferencije":   "fudbal",
	"superligasrbije":     "fudbal",
	"super-liga-srbije":   "fudbal",

	// Basketball
	"domaca-kosarka": "kosarka",
	"aba-liga":       "kosarka",
	"evroliga":       "kosarka",
	"nba":            "kosarka",
	"eurobasket":     "kosarka",
	"evrobasket":     "kosarka",

	// Tennis
	"atp":        "tenis",
	"wta":        "tenis",
	"grand-slam": "tenis",
	"masters":    "tenis",
	"davis-cup":  "tenis",

	// Volleyball
	"domaca-odbojka":       "odbojka",
	"liga-sampiona-odbojka": "odbojka",

	// Other sports
	"rukomet":             "ostali-sportovi",
	"atletika":            "ostali-sportovi",
	"plivanje":            "ostali-sportovi",
	"gimnastika":          "ostali-sportovi",
	"borilacke-vestine":   "ostali-sportovi",
	"automoto":            "ostali-sportovi",
	"biciklizam":          "ostali-sportovi",
	"zimski-sportovi":     "ostali-sportovi",
	"esports":             "ostali-sportovi",
	"intervjui":           "ostali-sportovi",
	"sport-fokus":         "ostali-sportovi",
	"sportska-geografija": "ostali-sportovi",
}

// LegacySubcategories lists, per main category, the second URL segments that
// identify a legacy three-segment article URL. Each main category has its own
// closed list; a sub-category slug under the wrong main category does not
// trigger a rewrite. The lists include historical typos that are live in old
// inbound links.
var LegacySubcategories = map[string][]string{
	"fudbal": {
		"domaci-fudbal", "domai-fudbal", "reprezentacije", "reprezentacije-fudbal",
		"evropska-takmicenja", "liga-sampiona", "liga-sampi ona",
		"liga-evrope", "liga-europa", "liga-konferencija", "liga-konferencije",
		"superligasrbije", "super-liga-srbije", "superliga-srbije-domaci-fudbal",
		"lige-petice", "ostalo", "leh-zvezda-mikael-isak-izjava",
	},
	"kosarka": {
		"domaca-kosarka", "aba-liga", "evroliga", "evrobasket", "eurobasket", "nba",
	},
	"tenis": {
		"atp", "wta", "grand-slam", "masters", "davis-cup",
	},
	"odbojka": {
		"domaca-odbojka", "liga-sampiona-odbojka",
	},
	"ostali-sportovi": {
		"rukomet", "atletika", "plivanje", "gimnastika",
		"borilacke-vestine", "automoto", "biciklizam",
		"zimski-sportovi", "esports", "intervjui",
		"sport-fokus", "sportska-geografija",
	},
}

// InvalidCategories is the deny list of retired category slugs. Requests for
// these paths terminate with a 404.
var InvalidCategories = []string{
	"meridian-tipovi",
	"specijali",
}

// ReservedPages are top-level page names that the subcategory mapper must
// never touch: the main category pages themselves plus utility pages served
// by the portal.
var ReservedPages = []string{
	"fudbal", "kosarka", "tenis", "odbojka", "ostali-sportovi",
	"najnovije-vesti", "moje-vesti", "prijava", "registracija",
	"account-page", "live-blog", "tag", "article", "comments",
}

// IsMainCategory reports whether slug is one of the main categories.
// The comparison is case-insensitive.
func IsMainCategory(slug string) bool {
	slug = strings.ToLower(slug)
	for _, mc := range MainCategories {
		if slug == mc {
			return true
		}
	}
	return false
}

// IsReservedPage reports whether slug names a reserved top-level page.
func IsReservedPage(slug string) bool {
	slug = strings.ToLower(slug)
	for _, p := range ReservedPages {
		if slug == p {
			return true
		}
	}
	return false
}

// IsInvalidCategory reports whether slug is on the retired-category deny list.
func IsInvalidCategory(slug string) bool {
	slug = strings.ToLower(slug)
	for _, inv := range InvalidCategories {
		if slug == inv {
			return true
		}
	}
	return false
}

// IsLegacySubcategory reports whether sub is a recognized legacy sub-category
// of the given main category.
func IsLegacySubcategory(main, sub string) bool {
	subs, ok := LegacySubcategories[strings.ToLower(main)]
	if !ok {
		return false
	}
	sub = strings.ToLower(sub)
	for _, s := range subs {
		if sub == s {
			return true
		}
	}
	return false
}

// CanonicalCategory returns the canonical category slug for an article's
// category list: the first category whose slug is a main category, otherwise
// the first category in the list. Returns "" for an empty list.
//
// This rule is the single source of truth for article canonicalization and
// must match what the canonical URL in page metadata uses.
func CanonicalCategory(cats []Category) string {
	if len(cats) == 0 {
		return ""
	}
	for _, c := range cats {
		if IsMainCategory(c.Slug) {
			return strings.ToLower(c.Slug)
		}
	}
	return strings.ToLower(cats[0].Slug)
}

// CanonicalFromSlug maps a sub-category slug to its main category slug via
// the static alias table. Main categories and unknown slugs map to
// themselves.
func CanonicalFromSlug(slug string) string {
	s := strings.ToLower(slug)
	if parent, ok := SubcategoryParents[s]; ok {
		return parent
	}
	return s
}
