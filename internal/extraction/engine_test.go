package extraction_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sajilokaam/docpipe/internal/extraction"
)

const documentText = `Sprint planning notes

Task 1: Implement login page
Task 2: Fix the signup bug
`

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig(t *testing.T, baseURL string) *extraction.Config {
	t.Helper()
	cfg := &extraction.Config{
		Remote: extraction.RemoteConfig{BaseURL: baseURL},
	}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize config: %v", err)
	}
	return cfg
}

// remoteService simulates the suggestion service with a controllable
// health status and extraction response.
func remoteService(t *testing.T, healthy bool, respond func(w http.ResponseWriter)) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		if !healthy {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	mux.HandleFunc("POST /extract-tasks", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Text string `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		respond(w)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func tasksResponse(tasks ...map[string]any) func(w http.ResponseWriter) {
	return func(w http.ResponseWriter) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"tasks": tasks})
	}
}

func TestEngineGenerate(t *testing.T) {
	ctx := context.Background()

	t.Run("empty text yields no candidates", func(t *testing.T) {
		engine := extraction.NewEngine(testConfig(t, ""), testLogger())
		if got := engine.Generate(ctx, "   \n\t"); len(got) != 0 {
			t.Errorf("count = %d, want 0", len(got))
		}
	})

	t.Run("no remote configured uses local strategies", func(t *testing.T) {
		engine := extraction.NewEngine(testConfig(t, ""), testLogger())

		got := engine.Generate(ctx, documentText)
		if len(got) != 2 {
			t.Fatalf("count = %d, want 2", len(got))
		}
		for i, c := range got {
			if c.Method != extraction.MethodTaskMarker {
				t.Errorf("method[%d] = %q, want %q", i, c.Method, extraction.MethodTaskMarker)
			}
		}
	})

	t.Run("healthy remote supplies candidates", func(t *testing.T) {
		server := remoteService(t, true, tasksResponse(
			map[string]any{"suggestedTitle": "Implement login page", "confidenceScore": 0.92},
			map[string]any{"suggestedTitle": "Fix the signup bug", "confidenceScore": 0.88},
		))

		engine := extraction.NewEngine(testConfig(t, server.URL), testLogger())

		got := engine.Generate(ctx, documentText)
		if len(got) != 2 {
			t.Fatalf("count = %d, want 2", len(got))
		}
		for i, c := range got {
			if c.Method != extraction.MethodRemote {
				t.Errorf("method[%d] = %q, want %q", i, c.Method, extraction.MethodRemote)
			}
		}
		if got[0].Confidence != 0.92 {
			t.Errorf("confidence = %v, want remote candidates ranked first by score", got[0].Confidence)
		}
	})

	t.Run("unhealthy remote falls back to local strategies", func(t *testing.T) {
		server := remoteService(t, false, tasksResponse())

		engine := extraction.NewEngine(testConfig(t, server.URL), testLogger())

		got := engine.Generate(ctx, documentText)
		if len(got) != 2 {
			t.Fatalf("count = %d, want 2 local candidates", len(got))
		}
		for _, c := range got {
			if c.Method == extraction.MethodRemote {
				t.Errorf("unexpected remote candidate %q", c.Title)
			}
		}
	})

	t.Run("empty remote response falls back to local strategies", func(t *testing.T) {
		server := remoteService(t, true, tasksResponse())

		engine := extraction.NewEngine(testConfig(t, server.URL), testLogger())

		if got := engine.Generate(ctx, documentText); len(got) != 2 {
			t.Errorf("count = %d, want 2 local candidates", len(got))
		}
	})

	t.Run("remote failure falls back to local strategies", func(t *testing.T) {
		server := remoteService(t, true, func(w http.ResponseWriter) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		engine := extraction.NewEngine(testConfig(t, server.URL), testLogger())

		if got := engine.Generate(ctx, documentText); len(got) != 2 {
			t.Errorf("count = %d, want 2 local candidates", len(got))
		}
	})

	t.Run("unreachable remote falls back to local strategies", func(t *testing.T) {
		server := remoteService(t, true, tasksResponse())
		server.Close()

		engine := extraction.NewEngine(testConfig(t, server.URL), testLogger())

		if got := engine.Generate(ctx, documentText); len(got) != 2 {
			t.Errorf("count = %d, want 2 local candidates", len(got))
		}
	})

	t.Run("remote candidates are deduplicated and ranked", func(t *testing.T) {
		server := remoteService(t, true, tasksResponse(
			map[string]any{"suggestedTitle": "Implement login page", "confidenceScore": 0.75},
			map[string]any{"suggestedTitle": "implement login page", "confidenceScore": 0.90},
			map[string]any{"suggestedTitle": "Deploy to staging", "confidenceScore": 0.80},
		))

		engine := extraction.NewEngine(testConfig(t, server.URL), testLogger())

		got := engine.Generate(ctx, documentText)
		if len(got) != 2 {
			t.Fatalf("count = %d, want 2", len(got))
		}
		if got[0].Confidence != 0.90 {
			t.Errorf("confidence = %v, want 0.90 first", got[0].Confidence)
		}
	})
}

func TestRemoteClientExtract(t *testing.T) {
	ctx := context.Background()

	newClient := func(t *testing.T, baseURL string) *extraction.RemoteClient {
		cfg := testConfig(t, baseURL)
		return extraction.NewRemoteClient(cfg.Remote, testLogger())
	}

	t.Run("maps a fully populated task", func(t *testing.T) {
		server := remoteService(t, true, tasksResponse(map[string]any{
			"suggestedTitle":          "implement the audit log",
			"suggestedDescription":    "Persist every state change",
			"suggestedPriority":       "high",
			"suggestedDueDate":        "2025-11-30",
			"suggestedEstimatedHours": 16,
			"confidenceScore":         0.93,
			"extractionMethod":        "ML_SERVICE",
			"rawTextSnippet":          "audit log section",
			"lineNumber":              12,
		}))

		got, err := newClient(t, server.URL).Extract(ctx, "text")
		if err != nil {
			t.Fatalf("extract: %v", err)
		}
		if len(got) != 1 {
			t.Fatalf("count = %d, want 1", len(got))
		}

		c := got[0]
		if c.Title != "Implement the audit log" {
			t.Errorf("title = %q, want cleaned title", c.Title)
		}
		if c.Description == nil || *c.Description != "Persist every state change" {
			t.Errorf("description = %v, want persisted", c.Description)
		}
		if c.Priority != extraction.PriorityHigh {
			t.Errorf("priority = %q, want HIGH", c.Priority)
		}
		if c.DueDate == nil || c.DueDate.Format("2006-01-02") != "2025-11-30" {
			t.Errorf("due date = %v, want 2025-11-30", c.DueDate)
		}
		if c.EstimatedHours == nil || *c.EstimatedHours != 16 {
			t.Errorf("hours = %v, want 16", c.EstimatedHours)
		}
		if c.Confidence != 0.93 {
			t.Errorf("confidence = %v, want 0.93", c.Confidence)
		}
		if c.LineNumber == nil || *c.LineNumber != 12 {
			t.Errorf("line = %v, want 12", c.LineNumber)
		}
	})

	t.Run("missing confidence defaults to 0.70", func(t *testing.T) {
		server := remoteService(t, true, tasksResponse(
			map[string]any{"suggestedTitle": "Implement exports"},
		))

		got, err := newClient(t, server.URL).Extract(ctx, "text")
		if err != nil {
			t.Fatalf("extract: %v", err)
		}
		if len(got) != 1 {
			t.Fatalf("count = %d, want 1", len(got))
		}
		if got[0].Confidence != 0.70 {
			t.Errorf("confidence = %v, want 0.70", got[0].Confidence)
		}
		if got[0].Method != extraction.MethodRemote {
			t.Errorf("method = %q, want %q", got[0].Method, extraction.MethodRemote)
		}
	})

	t.Run("confidence clamps to the unit interval", func(t *testing.T) {
		server := remoteService(t, true, tasksResponse(
			map[string]any{"suggestedTitle": "Implement exports", "confidenceScore": 1.5},
			map[string]any{"suggestedTitle": "Deploy to staging", "confidenceScore": -0.2},
		))

		got, err := newClient(t, server.URL).Extract(ctx, "text")
		if err != nil {
			t.Fatalf("extract: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("count = %d, want 2", len(got))
		}
		if got[0].Confidence != 1 {
			t.Errorf("confidence = %v, want clamped to 1", got[0].Confidence)
		}
		if got[1].Confidence != 0 {
			t.Errorf("confidence = %v, want clamped to 0", got[1].Confidence)
		}
	})

	t.Run("tasks without titles are skipped", func(t *testing.T) {
		server := remoteService(t, true, tasksResponse(
			map[string]any{"suggestedTitle": "   "},
			map[string]any{"confidenceScore": 0.9},
			map[string]any{"suggestedTitle": "Implement exports"},
		))

		got, err := newClient(t, server.URL).Extract(ctx, "text")
		if err != nil {
			t.Fatalf("extract: %v", err)
		}
		if len(got) != 1 {
			t.Fatalf("count = %d, want 1", len(got))
		}
	})

	t.Run("malformed fields degrade to defaults", func(t *testing.T) {
		server := remoteService(t, true, tasksResponse(map[string]any{
			"suggestedTitle":          "Implement exports",
			"suggestedPriority":       42,
			"suggestedDueDate":        "not a date",
			"suggestedEstimatedHours": "eight",
			"confidenceScore":         "high",
			"lineNumber":              0,
		}))

		got, err := newClient(t, server.URL).Extract(ctx, "text")
		if err != nil {
			t.Fatalf("extract: %v", err)
		}
		if len(got) != 1 {
			t.Fatalf("count = %d, want 1", len(got))
		}

		c := got[0]
		if c.Priority != extraction.PriorityMedium {
			t.Errorf("priority = %q, want MEDIUM default", c.Priority)
		}
		if c.DueDate != nil {
			t.Errorf("due date = %v, want nil", c.DueDate)
		}
		if c.EstimatedHours != nil {
			t.Errorf("hours = %v, want nil", c.EstimatedHours)
		}
		if c.Confidence != 0.70 {
			t.Errorf("confidence = %v, want 0.70 default", c.Confidence)
		}
		if c.LineNumber != nil {
			t.Errorf("line = %v, want nil for non-positive input", c.LineNumber)
		}
	})

	t.Run("non-200 response is an error", func(t *testing.T) {
		server := remoteService(t, true, func(w http.ResponseWriter) {
			w.WriteHeader(http.StatusBadGateway)
		})

		if _, err := newClient(t, server.URL).Extract(ctx, "text"); err == nil {
			t.Error("err = nil, want error for bad gateway")
		}
	})
}
