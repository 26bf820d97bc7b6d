package canonical

import (
	"net/http"
	"net/url"
	"regexp"
	"strings"
)

// trackingParams are the analytics query keys stripped from every URL.
// Crawlers index these as distinct URLs otherwise, splitting page rank
// across duplicates.
var trackingParams = map[string]struct{}{
	"fbclid":       {},
	"gclid":        {},
	"msclkid":      {},
	"mc_eid":       {},
	"_ga":          {},
	"utm_source":   {},
	"utm_medium":   {},
	"utm_campaign": {},
	"utm_term":     {},
	"utm_content":  {},
}

var multiSlashRE = regexp.MustCompile(`//+`)

// Normalize is stage 1: collapse repeated slashes, strip tracking query
// parameters, and enforce the trailing-slash convention. The transform is
// pure and idempotent; when it changes anything the request is 301-redirected
// to the normalized form.
func (p *Pipeline) Normalize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p.skip(r) {
			next.ServeHTTP(w, r)
			return
		}

		path, query, changed := normalizeURL(r.URL.Path, r.URL.RawQuery)
		if changed && p.redirect(w, r, path, query) {
			return
		}
		next.ServeHTTP(w, r)
	})
}

// normalizeURL applies the normalization rules in order and reports whether
// anything changed. Applying it to its own output is a no-op.
func normalizeURL(path, rawQuery string) (string, string, bool) {
	normPath := path
	changed := false

	// 1. Collapse any run of slashes to a single slash. This also reduces
	// trailing slash runs to exactly one.
	if strings.Contains(normPath, "//") {
		normPath = multiSlashRE.ReplaceAllString(normPath, "/")
		changed = true
	}

	// 2. Strip tracking query parameters, preserving the order of the rest.
	normQuery, stripped := stripTracking(rawQuery)
	if stripped {
		changed = true
	}

	// 3. Append the trailing slash, except on the root and on file-like
	// paths (extension heuristic).
	if normPath != "/" && !strings.HasSuffix(normPath, "/") && !hasExtension(normPath) {
		normPath += "/"
		changed = true
	}

	return normPath, normQuery, changed
}

// stripTracking removes tracking keys from a raw query string without
// re-encoding or reordering the surviving parameters.
func stripTracking(rawQuery string) (string, bool) {
	if rawQuery == "" {
		return "", false
	}

	parts := strings.Split(rawQuery, "&")
	kept := make([]string, 0, len(parts))
	removed := false

	for _, part := range parts {
		key := part
		if i := strings.IndexByte(part, '='); i >= 0 {
			key = part[:i]
		}
		if decoded, err := url.QueryUnescape(key); err == nil {
			key = decoded
		}
		if _, ok := trackingParams[key]; ok {
			removed = true
			continue
		}
		kept = append(kept, part)
	}

	if !removed {
		return rawQuery, false
	}
	return strings.Join(kept, "&"), true
}
