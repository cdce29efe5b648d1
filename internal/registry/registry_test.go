package registry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/CPS-IT/typo3-upgrade-analyser-sub003/pkg/types"
)

func TestPackagistClient_HasVersionFor_Found(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"package":{"versions":{"12.4.0":{},"11.5.0":{}}}}`))
	}))
	defer server.Close()

	client := NewPackagistClient(server.URL, 5*time.Second, nil)
	found, err := client.HasVersionFor(context.Background(), "acme/news", types.MustParseVersion("12.0.0"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !found {
		t.Fatal("expected a matching major version to be found")
	}
}

func TestPackagistClient_HasVersionFor_NotFoundStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewPackagistClient(server.URL, 5*time.Second, nil)
	found, err := client.HasVersionFor(context.Background(), "acme/missing", types.MustParseVersion("12.0.0"))
	if err != nil {
		t.Fatalf("expected no error on a 404, got %v", err)
	}
	if found {
		t.Fatal("expected not found")
	}
}

func TestPackagistClient_HasVersionFor_NoMatchingMajor(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"package":{"versions":{"11.5.0":{}}}}`))
	}))
	defer server.Close()

	client := NewPackagistClient(server.URL, 5*time.Second, nil)
	found, err := client.HasVersionFor(context.Background(), "acme/news", types.MustParseVersion("12.0.0"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found {
		t.Fatal("expected no matching major version")
	}
}

func TestExtensionRepositoryClient_HasVersionFor_WithinRange(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"releases":[{"version":"10.0.0","typo3_version_min":"11.0.0","typo3_version_max":"13.9.9"}]}`))
	}))
	defer server.Close()

	client := NewExtensionRepositoryClient(server.URL, 5*time.Second, nil)
	found, err := client.HasVersionFor(context.Background(), "news", types.MustParseVersion("12.0.0"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !found {
		t.Fatal("expected target version to fall within the declared range")
	}
}

func TestExtensionRepositoryClient_HasVersionFor_OutsideRange(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"releases":[{"version":"10.0.0","typo3_version_min":"8.0.0","typo3_version_max":"9.9.9"}]}`))
	}))
	defer server.Close()

	client := NewExtensionRepositoryClient(server.URL, 5*time.Second, nil)
	found, err := client.HasVersionFor(context.Background(), "news", types.MustParseVersion("12.0.0"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found {
		t.Fatal("expected target version to fall outside the declared range")
	}
}

func TestPackagistClient_HasVersionFor_ServerDownReturnsError(t *testing.T) {
	client := NewPackagistClient("http://127.0.0.1:1", 500*time.Millisecond, nil)
	_, err := client.HasVersionFor(context.Background(), "acme/news", types.MustParseVersion("12.0.0"))
	if err == nil {
		t.Fatal("expected an error when the registry is unreachable")
	}
}
