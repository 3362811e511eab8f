// Package resume loads candidate resumes from blob storage and extracts
// their text. Extraction is pluggable per content type; PDF extraction is an
// external plug-in point, plain text ships built in.
package resume

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Maximum resume size accepted from storage. Anything larger is rejected
// rather than truncated.
const maxResumeBytes = 10 << 20

// ErrUnsupportedFormat is returned when no extractor handles the document's
// content type.
var ErrUnsupportedFormat = errors.New("unsupported resume format")

// Loader downloads a stored resume and returns its extracted text.
// Implementations must be safe for concurrent use.
type Loader interface {
	// Load fetches the document at locator and extracts its text.
	Load(ctx context.Context, locator string) (string, error)
}

// Extractor converts one document format into plain text.
type Extractor interface {
	// Extract returns the text content of data.
	Extract(ctx context.Context, data []byte) (string, error)
}

// HTTPLoader downloads resumes over HTTP and dispatches to an Extractor by
// content type.
type HTTPLoader struct {
	client     *http.Client
	extractors map[string]Extractor
	mu         sync.RWMutex
}

// NewHTTPLoader creates a loader with the plain-text extractor registered.
func NewHTTPLoader(client *http.Client) *HTTPLoader {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	l := &HTTPLoader{
		client:     client,
		extractors: make(map[string]Extractor),
	}
	l.RegisterExtractor("text/plain", PlainText{})
	return l
}

// RegisterExtractor installs an extractor for a content type, replacing any
// existing one. Use this to plug in PDF extraction.
func (l *HTTPLoader) RegisterExtractor(contentType string, e Extractor) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.extractors[contentType] = e
}

// Load fetches the document at locator and extracts its text.
func (l *HTTPLoader) Load(ctx context.Context, locator string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, locator, nil)
	if err != nil {
		return "", fmt.Errorf("build resume request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("download resume: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download resume: unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResumeBytes+1))
	if err != nil {
		return "", fmt.Errorf("read resume body: %w", err)
	}
	if len(data) > maxResumeBytes {
		return "", fmt.Errorf("resume exceeds %d bytes", maxResumeBytes)
	}

	contentType := resp.Header.Get("Content-Type")
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		contentType = mt
	}

	l.mu.RLock()
	extractor, ok := l.extractors[contentType]
	l.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, contentType)
	}

	text, err := extractor.Extract(ctx, data)
	if err != nil {
		return "", fmt.Errorf("extract resume text: %w", err)
	}
	return text, nil
}

// PlainText extracts text/plain documents as-is.
type PlainText struct{}

// Extract returns the text content of data.
func (PlainText) Extract(ctx context.Context, data []byte) (string, error) {
	return strings.TrimSpace(string(data)), nil
}

// Static is a Loader that returns a fixed text. Used in tests and local runs
// without blob storage.
type Static struct {
	Text string
	Err  error
}

// Load implements Loader.
func (s Static) Load(ctx context.Context, locator string) (string, error) {
	if s.Err != nil {
		return "", s.Err
	}
	return s.Text, nil
}
