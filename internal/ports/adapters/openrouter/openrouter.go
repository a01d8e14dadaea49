package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/forPelevin/reelcut/internal/domain/timerange"
)

type Adapter struct {
	key     string
	model   string
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

const (
	requestTimeout = 60 * time.Second

	// Oversized transcripts blow the context window and the bill; the head of
	// the video is enough signal for a 30-second highlight.
	maxTranscriptRunes = 24000
)

func New(apiKey, model, baseURL string) *Adapter {
	if model == "" {
		model = "anthropic/claude-3.5-sonnet"
	}
	baseURL = normalizeBaseURL(baseURL)
	return &Adapter{
		key:     apiKey,
		model:   model,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 2 * time.Minute},
		limiter: rate.NewLimiter(rate.Every(2*time.Second), 1),
	}
}

// SelectRange asks the model for the most engaging {start, end} window in the
// transcript. Every failure mode collapses into the default range: the scorer
// is a best-effort enhancement, never a dependency the pipeline can die on.
func (a *Adapter) SelectRange(ctx context.Context, transcript string, def timerange.Range) timerange.Outcome {
	if strings.TrimSpace(transcript) == "" {
		return timerange.FallbackTo(def, "empty transcript")
	}
	if a.key == "" {
		return timerange.FallbackTo(def, "no API key configured")
	}
	if err := a.limiter.Wait(ctx); err != nil {
		return timerange.FallbackTo(def, fmt.Sprintf("rate limiter: %v", err))
	}

	payload := map[string]any{
		"model":  a.model,
		"stream": false,
		"messages": []map[string]any{
			{"role": "user", "content": buildPrompt(transcript, def)},
		},
		"response_format": map[string]any{
			"type": "json_schema",
			"json_schema": map[string]any{
				"name": "reelcut_range",
				"schema": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"start": map[string]any{"type": "number"},
						"end":   map[string]any{"type": "number"},
					},
					"required": []string{"start", "end"},
				},
			},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return timerange.FallbackTo(def, fmt.Sprintf("marshal request: %v", err))
	}

	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, "POST", a.baseURL+"/api/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return timerange.FallbackTo(def, fmt.Sprintf("build request: %v", err))
	}
	req.Header.Set("Authorization", "Bearer "+a.key)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
			return timerange.FallbackTo(def, fmt.Sprintf("timeout after %s (model=%s)", requestTimeout, a.model))
		}
		return timerange.FallbackTo(def, redactSecrets(err.Error(), a.key))
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		rb, _ := io.ReadAll(resp.Body)
		return timerange.FallbackTo(def,
			fmt.Sprintf("status %d: %s", resp.StatusCode, truncate(redactSecrets(string(rb), a.key), 300)))
	}

	var raw struct {
		Choices []struct {
			Message struct {
				Content any `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return timerange.FallbackTo(def, fmt.Sprintf("decode response: %v", err))
	}
	if len(raw.Choices) == 0 {
		return timerange.FallbackTo(def, "no choices in response")
	}
	content, err := messageContentToString(raw.Choices[0].Message.Content)
	if err != nil {
		return timerange.FallbackTo(def, err.Error())
	}
	clean, err := extractJSONObject(content)
	if err != nil {
		return timerange.FallbackTo(def, err.Error())
	}

	// Pointers distinguish missing keys from a legitimate zero start.
	var out struct {
		Start *float64 `json:"start"`
		End   *float64 `json:"end"`
	}
	if err := json.Unmarshal([]byte(clean), &out); err != nil {
		return timerange.FallbackTo(def, fmt.Sprintf("parse range: %v", err))
	}
	if out.Start == nil || out.End == nil {
		return timerange.FallbackTo(def, "missing start or end")
	}
	st := dur(*out.Start)
	en := dur(*out.End)
	if st < 0 || en <= st {
		return timerange.FallbackTo(def, fmt.Sprintf("non-positive range [%s, %s)", st, en))
	}
	return timerange.Ok(timerange.Range{Start: st, End: en})
}

func buildPrompt(transcript string, def timerange.Range) string {
	return fmt.Sprintf(
		"Below is a video transcript. Pick the single most engaging interval of roughly %.0f seconds. "+
			"Return strictly valid JSON (no markdown, no code fences) of the form "+
			`{"start": <seconds>, "end": <seconds>}. `+
			"The interval should start on a hook and end on a complete thought."+
			"\n\nTranscript:\n%s",
		def.Length().Seconds(),
		truncate(transcript, maxTranscriptRunes),
	)
}

func messageContentToString(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case []any:
		// Some providers return an array of {type,text} parts.
		var b strings.Builder
		for _, it := range x {
			m, ok := it.(map[string]any)
			if !ok {
				continue
			}
			if t, ok := m["text"].(string); ok {
				b.WriteString(t)
			}
		}
		s := b.String()
		if strings.TrimSpace(s) == "" {
			return "", errors.New("openrouter: empty content")
		}
		return s, nil
	default:
		return "", fmt.Errorf("openrouter: unexpected content type %T", v)
	}
}

func extractJSONObject(s string) (string, error) {
	t := strings.TrimSpace(s)
	if t == "" {
		return "", errors.New("openrouter: empty content")
	}

	// Strip markdown code fences.
	if strings.HasPrefix(t, "```") {
		if i := strings.Index(t, "\n"); i >= 0 {
			t = t[i+1:]
		}
		if j := strings.LastIndex(t, "```"); j >= 0 {
			t = t[:j]
		}
		t = strings.TrimSpace(t)
	}

	// Best-effort: take the first JSON object found.
	start := strings.Index(t, "{")
	end := strings.LastIndex(t, "}")
	if start >= 0 && end > start {
		return t[start : end+1], nil
	}

	return "", fmt.Errorf("openrouter: could not locate JSON object in: %q", truncate(t, 200))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

var (
	bearerTokenRE = regexp.MustCompile(`(?i)\bBearer\s+[A-Za-z0-9._-]+\b`)
	authHeaderRE  = regexp.MustCompile(`(?i)(authorization\s*[:=]\s*)([^\n\r,;]+)`)
	apiKeyFieldRE = regexp.MustCompile(`(?i)(api[_-]?key\s*[:=]\s*)([^\n\r,;]+)`)
)

func redactSecrets(s, apiKey string) string {
	if s == "" {
		return s
	}
	out := s
	if apiKey != "" {
		out = strings.ReplaceAll(out, apiKey, "[REDACTED]")
	}
	out = bearerTokenRE.ReplaceAllString(out, "Bearer [REDACTED]")
	out = authHeaderRE.ReplaceAllString(out, "${1}[REDACTED]")
	out = apiKeyFieldRE.ReplaceAllString(out, "${1}[REDACTED]")
	return out
}

func dur(sec float64) time.Duration {
	return time.Duration(sec * float64(time.Second))
}
