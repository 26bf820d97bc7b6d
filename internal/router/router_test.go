package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"meridiansport/internal/cache"
	"meridiansport/internal/canonical"
	"meridiansport/internal/cms"
	"meridiansport/internal/config"
	"meridiansport/internal/feed"
	"meridiansport/internal/handlers"
	"meridiansport/internal/taxonomy"
)

type fakeArticles struct {
	articles map[string]*taxonomy.Article
	calls    int
}

func (f *fakeArticles) ArticleBySlug(_ context.Context, category, slug string) (*taxonomy.Article, error) {
	f.calls++
	if a, ok := f.articles[slug]; ok {
		return a, nil
	}
	return nil, cms.ErrNotFound
}

type fakeFeed struct {
	xml []byte
}

func (f *fakeFeed) FeedXML(context.Context, int64, string) ([]byte, error) {
	return f.xml, nil
}

func testApp(t *testing.T, env string) (http.Handler, *fakeArticles) {
	t.Helper()

	cfg := &config.Config{Env: env, SiteURL: "https://meridiansport.rs"}

	articles := &fakeArticles{articles: map[string]*taxonomy.Article{
		"mj-retires": {
			ID:    1,
			Title: "MJ Retires",
			Slug:  "mj-retires",
			Categories: []taxonomy.Category{
				{ID: 31, Slug: "nba"},
				{ID: 9, Slug: "kosarka"},
			},
		},
	}}

	categories := cache.NewSnapshot(func(context.Context) ([]taxonomy.Category, error) {
		five := int64(5)
		return []taxonomy.Category{
			{ID: 5, Slug: "fudbal"},
			{ID: 9, Slug: "kosarka"},
			{ID: 31, Slug: "superliga", ParentID: &five},
		}, nil
	}, 0)

	public := handlers.NewPublic(articles, cfg.SiteURL)
	pipeline := canonical.New(articles, categories, canonical.WithNotFound(public.NotFound))
	feeds := feed.NewHandler(&fakeFeed{xml: []byte("<rss/>")}, categories, nil, cfg.SiteURL)

	return New(cfg, pipeline, feeds, public, nil), articles
}

func get(h http.Handler, target string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))
	return rr
}

func TestHealthBypassesPipeline(t *testing.T) {
	app, _ := testApp(t, "development")

	rr := get(app, "/health")
	if rr.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", rr.Code)
	}
	if rr.Body.String() != `{"status":"ok"}` {
		t.Errorf("body %q", rr.Body.String())
	}
}

func TestRouterRedirects(t *testing.T) {
	app, _ := testApp(t, "development")

	tests := []struct {
		name    string
		target  string
		wantLoc string
	}{
		{"alias subcategory", "/nba/", "/kosarka/"},
		{"live subcategory", "/superliga/", "/fudbal/"},
		{"tracking params stripped", "/fudbal/?fbclid=abc&page=2", "/fudbal/?page=2"},
		{"trailing slash added", "/fudbal", "/fudbal/"},
		{"page path collapses", "/page/2/", "/"},
		{"legacy three segment", "/fudbal/domaci-fudbal/neki-tekst/", "/fudbal/neki-tekst/"},
		{"wrong article category", "/nba/mj-retires/", "/kosarka/mj-retires/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := get(app, tt.target)
			if rr.Code != http.StatusMovedPermanently {
				t.Fatalf("%s: got status %d, want 301", tt.target, rr.Code)
			}
			if got := rr.Header().Get("Location"); got != tt.wantLoc {
				t.Errorf("%s: Location %q, want %q", tt.target, got, tt.wantLoc)
			}
		})
	}
}

func TestRouterTerminal404(t *testing.T) {
	app, _ := testApp(t, "development")

	rr := get(app, "/meridian-tipovi/")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("got status %d, want 404", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Stranica nije pronađena") {
		t.Error("terminal 404 should render the portal not-found page")
	}
}

func TestRouterArticleFetchedOnce(t *testing.T) {
	app, articles := testApp(t, "development")

	rr := get(app, "/kosarka/mj-retires/")
	if rr.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "MJ Retires") {
		t.Error("article page missing title")
	}
	if articles.calls != 1 {
		t.Errorf("upstream called %d times, want 1 (resolver result reused)", articles.calls)
	}
}

func TestRouterCategoryFeed(t *testing.T) {
	app, _ := testApp(t, "development")

	rr := get(app, "/kosarka/feed.xml")
	if rr.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", rr.Code)
	}
	if rr.Body.String() != "<rss/>" {
		t.Errorf("body %q", rr.Body.String())
	}
	if got := rr.Header().Get("Content-Type"); got != "application/xml; charset=UTF-8" {
		t.Errorf("Content-Type %q", got)
	}
}

func TestRouterSecurityHeaders(t *testing.T) {
	app, _ := testApp(t, "development")

	rr := get(app, "/fudbal/")
	if got := rr.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options %q", got)
	}
	if got := rr.Header().Get("X-Frame-Options"); got != "SAMEORIGIN" {
		t.Errorf("X-Frame-Options %q", got)
	}
}

func TestRouterBlocksMalformedInProduction(t *testing.T) {
	app, _ := testApp(t, "production")

	rr := get(app, "/fudbal/?=?")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("got status %d, want 404", rr.Code)
	}
}

func TestRouterAllowsMalformedInDevelopment(t *testing.T) {
	app, _ := testApp(t, "development")

	rr := get(app, "/fudbal/?=?")
	if rr.Code == http.StatusNotFound {
		t.Fatal("malformed blocker should be off in development")
	}
}
