package resources

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

func testLookup() Lookup {
	return Lookup{
		Board:         "CBSE",
		Grade:         "6",
		Subject:       "Science",
		ChapterName:   "Components of Food",
		ChapterNumber: 2,
		Topic:         "Balanced Diet",
	}
}

// searchServer fakes the reference-search API. linksByQuery maps a query
// substring to the organic links returned for it.
func searchServer(t *testing.T, linksByQuery map[string][]string, queries *[]string, mu *sync.Mutex) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var req map[string]string
		if err := json.Unmarshal(body, &req); err != nil {
			t.Errorf("bad search payload: %v", err)
		}
		q := req["q"]

		mu.Lock()
		*queries = append(*queries, q)
		mu.Unlock()

		var organic []map[string]string
		for substr, links := range linksByQuery {
			if strings.Contains(q, substr) {
				for _, l := range links {
					organic = append(organic, map[string]string{"link": l})
				}
			}
		}
		json.NewEncoder(w).Encode(map[string]any{"organic": organic})
	}))
}

func videoServer(t *testing.T, ids []string, calls *int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		items := make([]map[string]any, 0, len(ids))
		for _, id := range ids {
			items = append(items, map[string]any{
				"id": map[string]string{"kind": "youtube#video", "videoId": id},
			})
		}
		json.NewEncoder(w).Encode(map[string]any{"items": items})
	}))
}

func TestFindResources_CurriculumHitSkipsFallbackQueries(t *testing.T) {
	var mu sync.Mutex
	var queries []string
	search := searchServer(t, map[string][]string{
		"Components of Food": {"https://www.khanacademy.org/science/food"},
	}, &queries, &mu)
	defer search.Close()

	videoCalls := 0
	video := videoServer(t, []string{"abc"}, &videoCalls)
	defer video.Close()

	f := NewFinderForTest(search.Client(), search.URL, video.URL, "search-key", "video-key")
	links, err := f.FindResources(context.Background(), testLookup())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(queries) != 1 {
		t.Errorf("search queries = %v, want only the curriculum query", queries)
	}
	if len(links) != 2 {
		t.Fatalf("links = %v, want reference + one video", links)
	}
	if links[0] != "https://www.khanacademy.org/science/food" {
		t.Errorf("first link = %q", links[0])
	}
	if links[1] != "https://www.youtube.com/watch?v=abc" {
		t.Errorf("video link = %q", links[1])
	}
}

func TestFindResources_MissRunsFallbackQueries(t *testing.T) {
	var mu sync.Mutex
	var queries []string
	// Curriculum query misses; the topic fallback hits.
	search := searchServer(t, map[string][]string{
		"balanced diet": {"https://www.khanacademy.org/science/diet"},
	}, &queries, &mu)
	defer search.Close()

	videoCalls := 0
	video := videoServer(t, nil, &videoCalls)
	defer video.Close()

	f := NewFinderForTest(search.Client(), search.URL, video.URL, "search-key", "video-key")
	links, err := f.FindResources(context.Background(), testLookup())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(queries) != 3 {
		t.Errorf("expected curriculum + two parallel fallback queries, got %v", queries)
	}
	if len(links) != 1 || links[0] != "https://www.khanacademy.org/science/diet" {
		t.Errorf("links = %v", links)
	}
	// Both video queries ran because neither yielded results.
	if videoCalls != 2 {
		t.Errorf("video calls = %d, want 2", videoCalls)
	}
}

func TestFindResources_MissingVideoKeyIsMisconfigured(t *testing.T) {
	var mu sync.Mutex
	var queries []string
	search := searchServer(t, map[string][]string{
		"Components of Food": {"https://www.khanacademy.org/science/food"},
	}, &queries, &mu)
	defer search.Close()

	f := NewFinderForTest(search.Client(), search.URL, "http://unused", "search-key", "")
	links, err := f.FindResources(context.Background(), testLookup())

	if !errors.Is(err, ErrMisconfigured) {
		t.Fatalf("err = %v, want ErrMisconfigured", err)
	}
	if links != nil {
		t.Errorf("links = %v, want nil", links)
	}
}

func TestFindResources_NothingFound(t *testing.T) {
	var mu sync.Mutex
	var queries []string
	search := searchServer(t, nil, &queries, &mu)
	defer search.Close()

	videoCalls := 0
	video := videoServer(t, []string{"abc"}, &videoCalls)
	defer video.Close()

	f := NewFinderForTest(search.Client(), search.URL, video.URL, "search-key", "video-key")
	links, err := f.FindResources(context.Background(), testLookup())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if links != nil {
		t.Errorf("links = %v, want nil when nothing was found", links)
	}
	if videoCalls != 0 {
		t.Errorf("video search must not run without a reference link, got %d calls", videoCalls)
	}
}

func TestFindResources_VideoLinkCap(t *testing.T) {
	var mu sync.Mutex
	var queries []string
	search := searchServer(t, map[string][]string{
		"Components of Food": {"https://www.khanacademy.org/science/food"},
	}, &queries, &mu)
	defer search.Close()

	videoCalls := 0
	video := videoServer(t, []string{"a", "b", "c", "d"}, &videoCalls)
	defer video.Close()

	f := NewFinderForTest(search.Client(), search.URL, video.URL, "search-key", "video-key")
	links, err := f.FindResources(context.Background(), testLookup())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(links) != 3 {
		t.Fatalf("links = %v, want reference + two capped videos", links)
	}
	if videoCalls != 1 {
		t.Errorf("video calls = %d, want 1 (first query yielded)", videoCalls)
	}
}

func TestFindResources_SearchErrorPropagates(t *testing.T) {
	search := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer search.Close()

	f := NewFinderForTest(search.Client(), search.URL, "http://unused", "search-key", "video-key")
	if _, err := f.FindResources(context.Background(), testLookup()); err == nil {
		t.Fatal("expected error from failing search backend")
	}
}

func TestFindResources_NonReferenceLinksFiltered(t *testing.T) {
	var mu sync.Mutex
	var queries []string
	search := searchServer(t, map[string][]string{
		"Components of Food": {"https://example.com/spam", "https://www.khanacademy.org/real"},
	}, &queries, &mu)
	defer search.Close()

	videoCalls := 0
	video := videoServer(t, nil, &videoCalls)
	defer video.Close()

	f := NewFinderForTest(search.Client(), search.URL, video.URL, "search-key", "video-key")
	links, err := f.FindResources(context.Background(), testLookup())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(links) != 1 || links[0] != "https://www.khanacademy.org/real" {
		t.Errorf("links = %v, want only the reference-site link", links)
	}
}

func TestCleanQuery(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Balanced Diet", "balanced diet"},
		{`"Nutrition: what, and why;"`, "nutrition what and why"},
		{"  spaced   out  ", "spaced out"},
	}
	for _, tt := range tests {
		if got := cleanQuery(tt.input); got != tt.want {
			t.Errorf("cleanQuery(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
