package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"
)

// ErrNotFound means the store answered but has no matching content.
// Transport and server failures are reported as ordinary errors so
// callers can tell "nothing there" from "store unreachable".
var ErrNotFound = errors.New("content not found")

// Chapter is one catalog entry: chapter number and display name.
type Chapter struct {
	Number int
	Name   string
}

// SourceContent is the chapter material a pipeline run reads. Empty
// Records with Fallback=true means no content was found and the model
// should rely on its own knowledge.
type SourceContent struct {
	Records  []Record `json:"data"`
	Summary  string   `json:"summary"`
	Fallback bool     `json:"-"`
}

// Record is one titled section of retrieved chapter content.
type Record struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Text renders the content for prompt assembly.
func (c SourceContent) Text() string {
	if c.Fallback || len(c.Records) == 0 {
		return "AI has to rely on its own knowledge base to generate lesson plans for given topics"
	}
	var out string
	for _, r := range c.Records {
		if r.Title != "" {
			out += r.Title + "\n"
		}
		out += r.Content + "\n\n"
	}
	return out
}

// Store retrieves curriculum chapter content from the external content API.
type Store interface {
	ChapterContent(ctx context.Context, board, grade, subject string, chapterNumber int) (*SourceContent, error)
	ChapterCatalog(ctx context.Context, board, grade, subject string) ([]Chapter, error)
}

// HTTPStore talks to the content service configured by environment.
type HTTPStore struct {
	client     *http.Client
	contentURL string
	catalogURL string
}

func NewHTTPStore() *HTTPStore {
	return &HTTPStore{
		client:     &http.Client{Timeout: 30 * time.Second},
		contentURL: os.Getenv("CONTENT_API_URL"),
		catalogURL: os.Getenv("CHAPTER_CATALOG_API_URL"),
	}
}

func (s *HTTPStore) ChapterContent(ctx context.Context, board, grade, subject string, chapterNumber int) (*SourceContent, error) {
	q := url.Values{}
	q.Set("board", board)
	q.Set("grade", grade)
	q.Set("subject", subject)
	q.Set("chapter_number", strconv.Itoa(chapterNumber))

	var body SourceContent
	if err := s.getJSON(ctx, s.contentURL, q, &body); err != nil {
		return nil, err
	}
	if len(body.Records) == 0 {
		return nil, ErrNotFound
	}
	return &body, nil
}

func (s *HTTPStore) ChapterCatalog(ctx context.Context, board, grade, subject string) ([]Chapter, error) {
	q := url.Values{}
	q.Set("board", board)
	q.Set("grade", grade)
	q.Set("subject", subject)

	// The catalog endpoint returns rows of [number, name] pairs.
	var body struct {
		Data struct {
			Data [][2]json.RawMessage `json:"data"`
		} `json:"data"`
	}
	if err := s.getJSON(ctx, s.catalogURL, q, &body); err != nil {
		return nil, err
	}

	chapters := make([]Chapter, 0, len(body.Data.Data))
	for _, row := range body.Data.Data {
		var num int
		var name string
		if err := json.Unmarshal(row[0], &num); err != nil {
			// Some deployments send the number as a string.
			var numStr string
			if err := json.Unmarshal(row[0], &numStr); err != nil {
				continue
			}
			n, err := strconv.Atoi(numStr)
			if err != nil {
				continue
			}
			num = n
		}
		if err := json.Unmarshal(row[1], &name); err != nil {
			continue
		}
		chapters = append(chapters, Chapter{Number: num, Name: name})
	}
	if len(chapters) == 0 {
		return nil, ErrNotFound
	}
	return chapters, nil
}

func (s *HTTPStore) getJSON(ctx context.Context, endpoint string, q url.Values, v any) error {
	if endpoint == "" {
		return fmt.Errorf("content API endpoint not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("content API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("content API returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode content API response: %w", err)
	}
	return nil
}

// ChapterNameFromCatalog resolves a chapter number to its display name.
func ChapterNameFromCatalog(chapters []Chapter, number int) (string, bool) {
	for _, ch := range chapters {
		if ch.Number == number {
			return ch.Name, true
		}
	}
	return "", false
}
