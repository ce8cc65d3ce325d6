package bibleapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClient_Lookup(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"reference": "John 3:16",
			"verses": [{"book_id": "JHN", "book_name": "John", "chapter": 3, "verse": 16, "text": "For God so loved the world..."}],
			"text": "For God so loved the world...",
			"translation_id": "kjv",
			"translation_name": "King James Version"
		}`))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	resp, err := c.Lookup(context.Background(), "John 3:16", "KJV")
	if err != nil {
		t.Fatalf("Lookup() error: %v", err)
	}

	if gotPath != "/John+3:16" {
		t.Errorf("request path = %q, want %q", gotPath, "/John+3:16")
	}
	if gotQuery != "translation=kjv" {
		t.Errorf("request query = %q, want %q", gotQuery, "translation=kjv")
	}
	if resp.Reference != "John 3:16" {
		t.Errorf("Reference = %q, want %q", resp.Reference, "John 3:16")
	}
	if len(resp.Verses) != 1 || resp.Verses[0].BookName != "John" {
		t.Errorf("Verses = %+v, want one John verse", resp.Verses)
	}
	if resp.TranslationID != "kjv" {
		t.Errorf("TranslationID = %q, want %q", resp.TranslationID, "kjv")
	}
}

func TestClient_Lookup_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	_, err := c.Lookup(context.Background(), "Opinions 3:16", "kjv")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Lookup() error = %v, want ErrNotFound", err)
	}
}

func TestClient_Lookup_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	_, err := c.Lookup(context.Background(), "John 3:16", "")
	if err == nil {
		t.Fatal("Lookup() error = nil, want server error")
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("server error should not map to ErrNotFound")
	}
}

func TestClient_Lookup_EmptyTranslationOmitsQuery(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"reference":"John 3:16"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	if _, err := c.Lookup(context.Background(), "John 3:16", ""); err != nil {
		t.Fatalf("Lookup() error: %v", err)
	}
	if gotQuery != "" {
		t.Errorf("request query = %q, want empty", gotQuery)
	}
}

func TestNew_Defaults(t *testing.T) {
	c := New("", 0)
	if c.baseURL != DefaultBaseURL {
		t.Errorf("baseURL = %q, want %q", c.baseURL, DefaultBaseURL)
	}
	if c.httpClient.Timeout != DefaultTimeout {
		t.Errorf("timeout = %v, want %v", c.httpClient.Timeout, DefaultTimeout)
	}
}
