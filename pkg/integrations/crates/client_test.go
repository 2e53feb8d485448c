package crates

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/supplychain/pkg/cache"
	apperrors "github.com/matzehuels/supplychain/pkg/errors"
	"github.com/matzehuels/supplychain/pkg/integrations"
)

func TestNewClient(t *testing.T) {
	c := NewClient(cache.NewNullCache(), time.Hour)
	if c.Client == nil {
		t.Error("expected client to be initialized")
	}
	if c.baseURL != DefaultBaseURL {
		t.Errorf("baseURL = %q, want %q", c.baseURL, DefaultBaseURL)
	}
	if c.WithBaseURL("http://mirror.example/api/v1/").baseURL != "http://mirror.example/api/v1" {
		t.Errorf("WithBaseURL should trim the trailing slash, got %q", c.baseURL)
	}
}

func TestClient_FetchOwners(t *testing.T) {
	var userAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgent = r.Header.Get("User-Agent")
		if r.URL.Path != "/crates/serde/owners" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"users": []map[string]any{
				{"id": 1, "login": "dtolnay", "kind": "user", "name": "David Tolnay", "url": "https://github.com/dtolnay"},
				{"id": 2, "login": "github:serde-rs:publish", "kind": "team", "name": "publish"},
			},
		})
	}))
	defer server.Close()

	c := testClient(t, server.URL)

	owners, err := c.FetchOwners(context.Background(), "serde", true)
	if err != nil {
		t.Fatalf("FetchOwners failed: %v", err)
	}
	if len(owners) != 2 {
		t.Fatalf("expected 2 owners, got %d", len(owners))
	}
	if owners[0].Login != "dtolnay" || owners[0].Kind != KindUser || owners[0].IsTeam() {
		t.Errorf("unexpected first owner: %+v", owners[0])
	}
	if owners[1].Login != "github:serde-rs:publish" || !owners[1].IsTeam() {
		t.Errorf("unexpected second owner: %+v", owners[1])
	}
	if !strings.HasPrefix(userAgent, "supplychain/") {
		t.Errorf("User-Agent = %q", userAgent)
	}
}

func TestClient_FetchOwners_UnknownKindIsUser(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"users":[{"id":9,"login":"someone","kind":"robot"}]}`))
	}))
	defer server.Close()

	owners, err := testClient(t, server.URL).FetchOwners(context.Background(), "rand", true)
	if err != nil {
		t.Fatal(err)
	}
	if len(owners) != 1 || owners[0].Kind != KindUser {
		t.Errorf("owners = %+v", owners)
	}
}

func TestClient_FetchOwners_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := testClient(t, server.URL).FetchOwners(context.Background(), "nonexistent", true)
	if !errors.Is(err, integrations.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if !apperrors.Is(err, apperrors.ErrCodeNotFound) {
		t.Errorf("expected NOT_FOUND code, got %v", err)
	}
}

func TestClient_FetchOwners_InvalidName(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer server.Close()

	c := testClient(t, server.URL)
	for _, name := range []string{"", "../etc", "a/b", "9lives"} {
		_, err := c.FetchOwners(context.Background(), name, true)
		if !apperrors.Is(err, apperrors.ErrCodeInvalidPackage) {
			t.Errorf("FetchOwners(%q) error = %v, want INVALID_PACKAGE", name, err)
		}
	}
	if hits.Load() != 0 {
		t.Errorf("invalid names should not reach the API, got %d requests", hits.Load())
	}
}

func TestClient_FetchOwners_Cached(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`{"users":[{"id":1,"login":"alice","kind":"user"}]}`))
	}))
	defer server.Close()

	backend, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	c := NewClient(backend, time.Hour).WithBaseURL(server.URL)

	for range 3 {
		if _, err := c.FetchOwners(context.Background(), "log", false); err != nil {
			t.Fatal(err)
		}
	}
	if hits.Load() != 1 {
		t.Errorf("expected 1 request with a warm cache, got %d", hits.Load())
	}

	if _, err := c.FetchOwners(context.Background(), "log", true); err != nil {
		t.Fatal(err)
	}
	if hits.Load() != 2 {
		t.Errorf("refresh should bypass the cache, got %d requests", hits.Load())
	}
}

func testClient(t *testing.T, serverURL string) *Client {
	t.Helper()
	return &Client{
		Client:  integrations.NewClient(cache.NewNullCache(), "crates:", time.Hour, userAgent()),
		baseURL: serverURL,
	}
}
