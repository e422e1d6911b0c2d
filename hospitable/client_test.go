package hospitable

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewClientRequiresCredentials(t *testing.T) {
	if _, err := NewClient(Config{BaseURL: "https://api.example.com"}); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("missing key: got %v, want ErrNotConfigured", err)
	}
	if _, err := NewClient(Config{APIKey: "k"}); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("missing url: got %v, want ErrNotConfigured", err)
	}
}

func TestClientSendsBearerAuth(t *testing.T) {
	var gotAuth, gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"data":[{"id":"p1"}]}`))
	}))
	defer srv.Close()

	client, err := NewClient(Config{BaseURL: srv.URL, APIKey: "secret-key"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	page, err := client.FetchProperties(QueryParams{Page: 2, PerPage: 50, Include: "details"})
	if err != nil {
		t.Fatalf("FetchProperties: %v", err)
	}
	if len(page.Records) != 1 {
		t.Fatalf("got %d records, want 1", len(page.Records))
	}
	if gotAuth != "Bearer secret-key" {
		t.Fatalf("Authorization = %q", gotAuth)
	}
	if gotPath != "/properties" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotQuery != "include=details&page=2&per_page=50" {
		t.Fatalf("query = %q", gotQuery)
	}
}

func TestClientNestedEndpoints(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	client, _ := NewClient(Config{BaseURL: srv.URL + "/", APIKey: "k"})
	client.FetchPropertyImages("p1", QueryParams{})
	client.FetchPropertyReviews("p1", QueryParams{})

	want := []string{"/properties/p1/images", "/properties/p1/reviews"}
	for i, path := range want {
		if paths[i] != path {
			t.Fatalf("paths[%d] = %q, want %q", i, paths[i], path)
		}
	}
}

func TestClientNon2xxIsFetchFailed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"unauthorized"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	client, _ := NewClient(Config{BaseURL: srv.URL, APIKey: "bad"})
	if _, err := client.FetchProperties(QueryParams{}); !errors.Is(err, ErrFetchFailed) {
		t.Fatalf("got %v, want ErrFetchFailed", err)
	}
}

func TestClientInvalidBodyIsInvalidShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":"ok"}`))
	}))
	defer srv.Close()

	client, _ := NewClient(Config{BaseURL: srv.URL, APIKey: "k"})
	if _, err := client.FetchProperties(QueryParams{}); !errors.Is(err, ErrInvalidShape) {
		t.Fatalf("got %v, want ErrInvalidShape", err)
	}
}
