package backendhttp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"matrixgate/contexts/matrix-core/gateway-service/ports"
)

func TestExchangeFallsBackToGetOn405(t *testing.T) {
	var posts, gets atomic.Int32
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/analyze" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		switch r.Method {
		case http.MethodPost:
			posts.Add(1)
			w.WriteHeader(http.StatusMethodNotAllowed)
		case http.MethodGet:
			gets.Add(1)
			if r.URL.Query().Get("blob_name") != "m.b64" || r.URL.Query().Get("container") != "matrices" {
				t.Errorf("fallback query missing params: %s", r.URL.RawQuery)
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		}
	}))
	defer backend.Close()

	client := NewClient(backend.URL, 5*time.Second, true, nil)
	result, err := client.Exchange(context.Background(), ports.AnalyzeOperation, map[string]any{
		"blob_name": "m.b64",
		"container": "matrices",
	})
	if err != nil {
		t.Fatalf("exchange failed: %v", err)
	}
	if result["status"] != "ok" {
		t.Fatalf("unexpected result: %v", result)
	}
	if posts.Load() != 1 || gets.Load() != 1 {
		t.Fatalf("expected exactly one POST and one GET, got %d/%d", posts.Load(), gets.Load())
	}
}

func TestExchangeSecond405IsSurfacedNotRetried(t *testing.T) {
	var calls atomic.Int32
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusMethodNotAllowed)
	}))
	defer backend.Close()

	client := NewClient(backend.URL, 5*time.Second, true, nil)
	_, err := client.Exchange(context.Background(), ports.AnalyzeOperation, map[string]any{"blob_name": "m.b64"})

	var remote *ports.RemoteError
	if !errors.As(err, &remote) || remote.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("expected remote 405, got %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected exactly two attempts, got %d", calls.Load())
	}
}

func TestExchangeFallbackDisabledSurfaces405(t *testing.T) {
	var calls atomic.Int32
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusMethodNotAllowed)
	}))
	defer backend.Close()

	client := NewClient(backend.URL, 5*time.Second, false, nil)
	_, err := client.Exchange(context.Background(), ports.AnalyzeOperation, map[string]any{"blob_name": "m.b64"})

	var remote *ports.RemoteError
	if !errors.As(err, &remote) {
		t.Fatalf("expected remote error, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected single attempt with fallback disabled, got %d", calls.Load())
	}
}

func TestExchangePostSendsJSONBody(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body["node_a"] != "alice" || body["amount"] != float64(10) {
			t.Errorf("unexpected body: %v", body)
		}
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer backend.Close()

	client := NewClient(backend.URL, 5*time.Second, true, nil)
	_, err := client.Exchange(context.Background(), ports.PaymentOperation, map[string]any{
		"node_a": "alice",
		"amount": int64(10),
	})
	if err != nil {
		t.Fatalf("exchange failed: %v", err)
	}
}

func TestExchangeMalformedBody(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer backend.Close()

	client := NewClient(backend.URL, 5*time.Second, true, nil)
	_, err := client.Exchange(context.Background(), ports.AnalyzeOperation, map[string]any{"blob_name": "m.b64"})
	if !errors.Is(err, ports.ErrMalformedPayload) {
		t.Fatalf("expected malformed payload error, got %v", err)
	}
}

func TestListArtifactsBareArray(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/artifacts" || r.URL.Query().Get("container") != "matrices" {
			t.Errorf("unexpected request: %s?%s", r.URL.Path, r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`["a.b64","b.b64"]`))
	}))
	defer backend.Close()

	client := NewClient(backend.URL, 5*time.Second, true, nil)
	names, err := client.ListArtifacts(context.Background(), "matrices")
	if err != nil {
		t.Fatalf("listing failed: %v", err)
	}
	if len(names) != 2 || names[0] != "a.b64" {
		t.Fatalf("unexpected names: %v", names)
	}
}

func TestListArtifactsWrappedObject(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"blobs":["a.b64"]}`))
	}))
	defer backend.Close()

	client := NewClient(backend.URL, 5*time.Second, true, nil)
	names, err := client.ListArtifacts(context.Background(), "matrices")
	if err != nil {
		t.Fatalf("listing failed: %v", err)
	}
	if len(names) != 1 || names[0] != "a.b64" {
		t.Fatalf("unexpected names: %v", names)
	}
}

func TestListArtifacts404MeansEmpty(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer backend.Close()

	client := NewClient(backend.URL, 5*time.Second, true, nil)
	names, err := client.ListArtifacts(context.Background(), "matrices")
	if err != nil {
		t.Fatalf("404 must mean empty listing, got %v", err)
	}
	if len(names) != 0 {
		t.Fatalf("expected empty listing, got %v", names)
	}
}

func TestListArtifactsServerErrorIsRemote(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer backend.Close()

	client := NewClient(backend.URL, 5*time.Second, true, nil)
	_, err := client.ListArtifacts(context.Background(), "matrices")

	var remote *ports.RemoteError
	if !errors.As(err, &remote) || remote.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected remote 500, got %v", err)
	}
}

func TestExchangeHonorsContextCancellation(t *testing.T) {
	release := make(chan struct{})
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer backend.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	client := NewClient(backend.URL, 5*time.Second, true, nil)
	_, err := client.Exchange(ctx, ports.AnalyzeOperation, map[string]any{"blob_name": "m.b64"})
	if err == nil {
		t.Fatalf("expected cancellation error")
	}
	var remote *ports.RemoteError
	if errors.As(err, &remote) {
		t.Fatalf("cancellation must not look like a remote status: %v", err)
	}
}
