package resume

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHTTPLoaderPlainText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("  Jane Doe\nGo engineer, 8 years.\n"))
	}))
	defer srv.Close()

	loader := NewHTTPLoader(srv.Client())

	text, err := loader.Load(context.Background(), srv.URL+"/resumes/jane.txt")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if text != "Jane Doe\nGo engineer, 8 years." {
		t.Errorf("Load() = %q", text)
	}
}

func TestHTTPLoaderUnsupportedFormat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4"))
	}))
	defer srv.Close()

	loader := NewHTTPLoader(srv.Client())

	if _, err := loader.Load(context.Background(), srv.URL); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("Load() error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestHTTPLoaderRegisteredExtractor(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("raw pdf bytes"))
	}))
	defer srv.Close()

	loader := NewHTTPLoader(srv.Client())
	loader.RegisterExtractor("application/pdf", extractorFunc(func(ctx context.Context, data []byte) (string, error) {
		return "extracted from pdf", nil
	}))

	text, err := loader.Load(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if text != "extracted from pdf" {
		t.Errorf("Load() = %q", text)
	}
}

func TestHTTPLoaderBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	loader := NewHTTPLoader(srv.Client())
	if _, err := loader.Load(context.Background(), srv.URL); err == nil {
		t.Fatal("Load() should fail on non-200 status")
	}
}

func TestHTTPLoaderSizeLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte(strings.Repeat("x", maxResumeBytes+1)))
	}))
	defer srv.Close()

	loader := NewHTTPLoader(srv.Client())
	if _, err := loader.Load(context.Background(), srv.URL); err == nil {
		t.Fatal("Load() should reject oversized resumes")
	}
}

type extractorFunc func(ctx context.Context, data []byte) (string, error)

func (f extractorFunc) Extract(ctx context.Context, data []byte) (string, error) {
	return f(ctx, data)
}
