package resources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// ErrMisconfigured means the lookup cannot run because a required API key
// is absent. Distinct from an empty result so the pipeline can tell
// "nothing relevant" from "misconfigured deployment".
var ErrMisconfigured = errors.New("resource lookup misconfigured: video index API key not set")

const (
	serperEndpoint  = "https://google.serper.dev/search"
	youtubeEndpoint = "https://www.googleapis.com/youtube/v3/search"
	referenceSite   = "khanacademy.org"
	maxVideoLinks   = 2
)

// Lookup carries the lesson metadata a resource search is scoped by.
type Lookup struct {
	Board         string
	Grade         string
	Subject       string
	ChapterName   string
	ChapterNumber int
	Topic         string
}

// Finder locates reference pages and videos for a lecture topic.
type Finder struct {
	client    *http.Client
	searchKey string
	videoKey  string
	searchURL string
	videoURL  string
}

func NewFinder() *Finder {
	return &Finder{
		client:    &http.Client{Timeout: 10 * time.Second},
		searchKey: os.Getenv("SERPER_API_KEY"),
		videoKey:  os.Getenv("YOUTUBE_DATA_API_KEY"),
		searchURL: serperEndpoint,
		videoURL:  youtubeEndpoint,
	}
}

// NewFinderForTest builds a Finder pointed at test servers.
func NewFinderForTest(client *http.Client, searchURL, videoURL, searchKey, videoKey string) *Finder {
	return &Finder{
		client:    client,
		searchKey: searchKey,
		videoKey:  videoKey,
		searchURL: searchURL,
		videoURL:  videoURL,
	}
}

var punctPattern = regexp.MustCompile(`["“”‘’–—,:;]`)
var spacePattern = regexp.MustCompile(`\s+`)

// cleanQuery lowercases and strips punctuation that breaks query parsing.
func cleanQuery(text string) string {
	text = strings.ToLower(text)
	text = punctPattern.ReplaceAllString(text, " ")
	text = spacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// FindResources looks up supporting links for a lecture topic.
//
// Search order: a curriculum-scoped reference query first; on a miss, a
// chapter-number query and a topic query run in parallel keeping at most
// one link each; if anything was found, up to two video queries follow,
// stopping at the first that yields results, capped at two video links.
// Returns (nil, nil) only when truly nothing was found.
func (f *Finder) FindResources(ctx context.Context, ref Lookup) ([]string, error) {
	topic := cleanQuery(ref.Topic)

	var links []string

	curriculumQuery := fmt.Sprintf("site:%s %s %s NCERT class %s",
		referenceSite, ref.Subject, ref.ChapterName, ref.Grade)
	link, err := f.firstReferenceLink(ctx, curriculumQuery)
	if err != nil {
		return nil, err
	}

	if link != "" {
		links = append(links, link)
	} else {
		chapterQuery := fmt.Sprintf("site:%s %s %d NCERT class %s",
			referenceSite, ref.Subject, ref.ChapterNumber, ref.Grade)
		topicQuery := fmt.Sprintf("site:%s %s %s class %s",
			referenceSite, ref.Subject, topic, ref.Grade)

		var topicLink, chapterLink string
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			topicLink, err = f.firstReferenceLink(gctx, topicQuery)
			return err
		})
		g.Go(func() error {
			var err error
			chapterLink, err = f.firstReferenceLink(gctx, chapterQuery)
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}

		if topicLink != "" {
			links = append(links, topicLink)
		}
		if chapterLink != "" {
			links = append(links, chapterLink)
		}
	}

	if f.videoKey == "" {
		return nil, ErrMisconfigured
	}

	if len(links) > 0 {
		videoQueries := []string{
			fmt.Sprintf("%s class %s %s chapter %d %s - topic is %s",
				ref.Board, ref.Grade, ref.Subject, ref.ChapterNumber, ref.ChapterName, ref.Topic),
			fmt.Sprintf("%s %s class %s video", ref.Subject, ref.ChapterName, ref.Grade),
		}

		for _, q := range videoQueries {
			videos, err := f.videoLinks(ctx, q)
			if err != nil {
				return nil, err
			}
			if len(videos) > 0 {
				links = append(links, videos...)
				break
			}
		}
	}

	if len(links) == 0 {
		return nil, nil
	}
	return links, nil
}

type serperResponse struct {
	Organic []struct {
		Link string `json:"link"`
	} `json:"organic"`
}

// firstReferenceLink returns the first organic result on the reference
// site, or "" when the query yields nothing.
func (f *Finder) firstReferenceLink(ctx context.Context, query string) (string, error) {
	payload, err := json.Marshal(map[string]string{"q": query})
	if err != nil {
		return "", fmt.Errorf("marshal search query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.searchURL, strings.NewReader(string(payload)))
	if err != nil {
		return "", fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("X-API-KEY", f.searchKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("web search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("web search returned status %d", resp.StatusCode)
	}

	var body serperResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode search response: %w", err)
	}

	for _, entry := range body.Organic {
		if strings.Contains(entry.Link, referenceSite) {
			return entry.Link, nil
		}
	}
	return "", nil
}

type youtubeResponse struct {
	Items []struct {
		ID struct {
			Kind    string `json:"kind"`
			VideoID string `json:"videoId"`
		} `json:"id"`
	} `json:"items"`
}

func (f *Finder) videoLinks(ctx context.Context, query string) ([]string, error) {
	q := url.Values{}
	q.Set("part", "snippet")
	q.Set("q", query)
	q.Set("key", f.videoKey)
	q.Set("type", "video")
	q.Set("order", "relevance")
	q.Set("videoCategoryId", "27")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.videoURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build video request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("video search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("video search returned status %d", resp.StatusCode)
	}

	var body youtubeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode video response: %w", err)
	}

	var videos []string
	for _, item := range body.Items {
		if item.ID.Kind != "youtube#video" {
			continue
		}
		videos = append(videos, "https://www.youtube.com/watch?v="+item.ID.VideoID)
		if len(videos) == maxVideoLinks {
			break
		}
	}
	return videos, nil
}
