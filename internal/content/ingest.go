package content

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"time"
)

// Ingestor sends an uploaded document to the ingestion service and
// queries the resulting index for topic-relevant text.
type Ingestor interface {
	ExtractText(ctx context.Context, filename string, document io.Reader) (string, error)
	IndexDocument(ctx context.Context, filename string, document io.Reader) (string, error)
	QueryIndex(ctx context.Context, query, storeHandle string) (string, error)
}

// HTTPIngestor talks to the document-ingestion service configured by
// environment.
type HTTPIngestor struct {
	client     *http.Client
	extractURL string
	indexURL   string
	queryURL   string
}

func NewHTTPIngestor() *HTTPIngestor {
	return &HTTPIngestor{
		client:     &http.Client{Timeout: 120 * time.Second},
		extractURL: os.Getenv("PDF_TO_TEXT_API_URL"),
		indexURL:   os.Getenv("VECTORSTORE_UPLOAD_API_URL"),
		queryURL:   os.Getenv("RELEVANT_CHUNKS_API_URL"),
	}
}

func (g *HTTPIngestor) ExtractText(ctx context.Context, filename string, document io.Reader) (string, error) {
	var body struct {
		Text string `json:"text"`
	}
	if err := g.postDocument(ctx, g.extractURL, filename, document, &body); err != nil {
		return "", err
	}
	if body.Text == "" {
		return "", ErrNotFound
	}
	return body.Text, nil
}

func (g *HTTPIngestor) IndexDocument(ctx context.Context, filename string, document io.Reader) (string, error) {
	var body struct {
		StoreID string `json:"store_id"`
	}
	if err := g.postDocument(ctx, g.indexURL, filename, document, &body); err != nil {
		return "", err
	}
	if body.StoreID == "" {
		return "", fmt.Errorf("ingestion service returned no store id")
	}
	return body.StoreID, nil
}

func (g *HTTPIngestor) QueryIndex(ctx context.Context, query, storeHandle string) (string, error) {
	if g.queryURL == "" {
		return "", fmt.Errorf("ingestion API endpoint not configured")
	}

	q := url.Values{}
	q.Set("query", query)
	q.Set("store_id", storeHandle)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.queryURL+"?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ingestion API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ingestion API returned status %d", resp.StatusCode)
	}

	chunks, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read ingestion response: %w", err)
	}

	// The chunks endpoint may return a JSON string or plain text.
	var asString string
	if err := json.Unmarshal(chunks, &asString); err == nil {
		return asString, nil
	}
	return string(chunks), nil
}

func (g *HTTPIngestor) postDocument(ctx context.Context, endpoint, filename string, document io.Reader, v any) error {
	if endpoint == "" {
		return fmt.Errorf("ingestion API endpoint not configured")
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return fmt.Errorf("build multipart form: %w", err)
	}
	if _, err := io.Copy(part, document); err != nil {
		return fmt.Errorf("copy document: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("close multipart form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("ingestion API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ingestion API returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode ingestion response: %w", err)
	}
	return nil
}
