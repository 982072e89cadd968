package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"
)

const defaultRemoteConfidence = 0.70

// RemoteClient talks to the remote suggestion service over HTTP.
// The service exposes a health probe and a single extraction endpoint.
type RemoteClient struct {
	baseURL      string
	healthClient *http.Client
	client       *http.Client
	logger       *slog.Logger
}

// NewRemoteClient creates a client for the remote suggestion service.
func NewRemoteClient(cfg RemoteConfig, logger *slog.Logger) *RemoteClient {
	return &RemoteClient{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		healthClient: &http.Client{Timeout: cfg.HealthTimeoutDuration()},
		client:       &http.Client{Timeout: cfg.RequestTimeoutDuration()},
		logger:       logger.With("system", "extraction-remote"),
	}
}

// Available probes GET /health. The service is considered available only
// on a success status.
func (c *RemoteClient) Available(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return false
	}

	resp, err := c.healthClient.Do(req)
	if err != nil {
		c.logger.Warn("remote service health probe failed", "error", err)
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// Extract posts the text to POST /extract-tasks and maps the response
// leniently: tasks with empty titles are skipped, malformed optional fields
// are treated as absent, and a missing confidence defaults to 0.70.
func (c *RemoteClient) Extract(ctx context.Context, text string) ([]Candidate, error) {
	payload, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return nil, fmt.Errorf("encode extraction request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost,
		c.baseURL+"/extract-tasks",
		bytes.NewReader(payload),
	)
	if err != nil {
		return nil, fmt.Errorf("build extraction request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call extraction service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("extraction service returned status %d", resp.StatusCode)
	}

	var body struct {
		Tasks []remoteTask `json:"tasks"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode extraction response: %w", err)
	}

	candidates := make([]Candidate, 0, len(body.Tasks))
	for _, task := range body.Tasks {
		if candidate, ok := task.toCandidate(); ok {
			candidates = append(candidates, candidate)
		}
	}

	return candidates, nil
}

// remoteTask decodes each field independently so a malformed value drops
// that field without rejecting the whole task.
type remoteTask struct {
	SuggestedTitle          json.RawMessage `json:"suggestedTitle"`
	SuggestedDescription    json.RawMessage `json:"suggestedDescription"`
	SuggestedPriority       json.RawMessage `json:"suggestedPriority"`
	SuggestedDueDate        json.RawMessage `json:"suggestedDueDate"`
	SuggestedEstimatedHours json.RawMessage `json:"suggestedEstimatedHours"`
	ConfidenceScore         json.RawMessage `json:"confidenceScore"`
	ExtractionMethod        json.RawMessage `json:"extractionMethod"`
	RawTextSnippet          json.RawMessage `json:"rawTextSnippet"`
	LineNumber              json.RawMessage `json:"lineNumber"`
}

func (t remoteTask) toCandidate() (Candidate, bool) {
	title, ok := rawString(t.SuggestedTitle)
	if !ok || strings.TrimSpace(title) == "" {
		return Candidate{}, false
	}

	candidate := Candidate{
		Title:      cleanTitle(title),
		Priority:   PriorityMedium,
		Confidence: defaultRemoteConfidence,
		Method:     MethodRemote,
	}

	if desc, ok := rawString(t.SuggestedDescription); ok && desc != "" {
		candidate.Description = &desc
	}

	if priority, ok := rawString(t.SuggestedPriority); ok {
		priority = strings.ToUpper(strings.TrimSpace(priority))
		if slices.Contains([]string{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}, priority) {
			candidate.Priority = priority
		}
	}

	if due, ok := rawString(t.SuggestedDueDate); ok {
		if d, err := time.Parse("2006-01-02", due); err == nil {
			candidate.DueDate = &d
		}
	}

	if hours, ok := rawInt(t.SuggestedEstimatedHours); ok && hours >= 0 {
		candidate.EstimatedHours = &hours
	}

	if confidence, ok := rawFloat(t.ConfidenceScore); ok {
		candidate.Confidence = min(max(confidence, 0), 1)
	}

	if method, ok := rawString(t.ExtractionMethod); ok && method != "" {
		candidate.Method = method
	}

	if snip, ok := rawString(t.RawTextSnippet); ok {
		candidate.Snippet = snippet(snip)
	}

	if line, ok := rawInt(t.LineNumber); ok && line > 0 {
		candidate.LineNumber = &line
	}

	return candidate, true
}

func rawString(raw json.RawMessage) (string, bool) {
	if raw == nil {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

func rawInt(raw json.RawMessage) (int, bool) {
	if raw == nil {
		return 0, false
	}
	var n int
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, false
	}
	return n, true
}

func rawFloat(raw json.RawMessage) (float64, bool) {
	if raw == nil {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, false
	}
	return f, true
}
