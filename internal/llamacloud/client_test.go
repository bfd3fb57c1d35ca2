package llamacloud

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()

	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	client, err := NewClient(&Config{
		APIKey:      "llx-test-key",
		IndexName:   "resume_public",
		ProjectName: "Default",
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	client.APIURL = ts.URL

	return client, ts
}

func TestNewClientRejectsBadConfig(t *testing.T) {
	cases := []struct {
		name string
		cfg  *Config
	}{
		{"nil config", nil},
		{"missing key", &Config{IndexName: "resume_public"}},
		{"placeholder key", &Config{APIKey: "llx-your-api-key-here", IndexName: "resume_public"}},
		{"missing index", &Config{APIKey: "llx-real-key"}},
	}

	for _, tc := range cases {
		if _, err := NewClient(tc.cfg, zap.NewNop()); err == nil {
			t.Fatalf("%s: expected a construction error", tc.name)
		}
	}
}

func TestClientResolvesPipelineOnce(t *testing.T) {
	var resolutions int

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/pipelines", func(w http.ResponseWriter, r *http.Request) {
		resolutions++

		if got := r.URL.Query().Get("pipeline_name"); got != "resume_public" {
			t.Fatalf("unexpected pipeline_name: %q", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer llx-test-key" {
			t.Fatalf("unexpected authorization header: %q", got)
		}

		json.NewEncoder(w).Encode([]map[string]string{{"id": "pl-1", "name": "resume_public"}})
	})
	mux.HandleFunc("/api/v1/pipelines/pl-1/retrieve", func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"retrieval_nodes": []any{}})
	})

	client, _ := newTestClient(t, mux)

	ctx := context.Background()
	for range 3 {
		if _, err := client.Retrieve(ctx, "query", RetrievalParams{TopK: 5}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if resolutions != 1 {
		t.Fatalf("pipeline must be resolved once, got %d resolutions", resolutions)
	}
}

func TestClientRetrieveSendsRetrievalParams(t *testing.T) {
	var body map[string]any

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/pipelines", func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode([]map[string]string{{"id": "pl-1"}})
	})
	mux.HandleFunc("/api/v1/pipelines/pl-1/retrieve", func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decoding request body: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{"retrieval_nodes": []any{}})
	})

	client, _ := newTestClient(t, mux)

	if _, err := client.Retrieve(context.Background(), "Go engineers", RetrievalParams{TopK: 7, EnableReranking: true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if body["query"] != "Go engineers" {
		t.Fatalf("unexpected query: %v", body["query"])
	}

	if body["dense_similarity_top_k"] != float64(7) {
		t.Fatalf("unexpected top_k: %v", body["dense_similarity_top_k"])
	}

	// alpha 1.0 keeps the search vector-only.
	if body["alpha"] != float64(1) {
		t.Fatalf("unexpected alpha: %v", body["alpha"])
	}

	if body["enable_reranking"] != true {
		t.Fatalf("expected reranking to be enabled")
	}
}

func TestClientSurfacesUpstreamErrors(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/pipelines", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"detail": "invalid api key"}`, http.StatusUnauthorized)
	})

	client, _ := newTestClient(t, mux)

	_, err := client.Retrieve(context.Background(), "query", RetrievalParams{TopK: 5})
	if err == nil {
		t.Fatalf("expected an error")
	}

	if !strings.Contains(err.Error(), "401") || !strings.Contains(err.Error(), "invalid api key") {
		t.Fatalf("error must carry status and body: %v", err)
	}
}

func TestClientUnknownIndex(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/pipelines", func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode([]any{})
	})

	client, _ := newTestClient(t, mux)

	_, err := client.Retrieve(context.Background(), "query", RetrievalParams{TopK: 5})
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected a not found error, got %v", err)
	}
}
