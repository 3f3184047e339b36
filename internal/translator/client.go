// Package translator is the HTTP gateway to the external translation
// service. It forwards translate/detect requests and normalizes the
// upstream response shape; it never persists anything itself.
package translator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultTimeout = 30 * time.Second

// UpstreamError reports a failed call to the translation service:
// either the request never completed or the service answered non-2xx.
type UpstreamError struct {
	Op     string
	Status int
	Err    error
}

func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("translator %s: upstream returned status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("translator %s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Result is a normalized translation response.
type Result struct {
	TranslatedText   string
	DetectedLanguage *Detection
}

// Detection is a single language-detection candidate.
type Detection struct {
	Language   string
	Confidence float64
}

// Client talks to the translation service at a fixed base URL.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// New constructs a Client. A non-positive timeout falls back to the
// default.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
	}
}

type translateRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
}

type translateResponse struct {
	TranslatedText   string             `json:"translatedText"`
	DetectedLanguage *detectedCandidate `json:"detectedLanguage"`
}

type detectRequest struct {
	Q string `json:"q"`
}

type detectedCandidate struct {
	Language   string  `json:"language"`
	Confidence float64 `json:"confidence"`
}

// Translate asks the upstream service to translate text from source
// (or "auto") into target. When the upstream omits detection info the
// result's DetectedLanguage is nil and callers fall back to the
// requested source.
func (c *Client) Translate(ctx context.Context, text, source, target string) (Result, error) {
	payload := translateRequest{
		Q:      text,
		Source: source,
		Target: target,
		Format: "text",
	}

	var resp translateResponse
	if err := c.postJSON(ctx, "translate", "/translate", payload, &resp); err != nil {
		return Result{}, err
	}

	result := Result{TranslatedText: resp.TranslatedText}
	if resp.DetectedLanguage != nil {
		result.DetectedLanguage = &Detection{
			Language:   resp.DetectedLanguage.Language,
			Confidence: resp.DetectedLanguage.Confidence,
		}
	}
	return result, nil
}

// Detect returns the upstream's best guess for the text's language.
// The upstream answers with candidates ordered best-first; the first
// one wins.
func (c *Client) Detect(ctx context.Context, text string) (Detection, error) {
	var candidates []detectedCandidate
	if err := c.postJSON(ctx, "detect", "/detect", detectRequest{Q: text}, &candidates); err != nil {
		return Detection{}, err
	}
	if len(candidates) == 0 {
		return Detection{}, &UpstreamError{Op: "detect", Err: fmt.Errorf("empty detection response")}
	}
	return Detection{
		Language:   candidates[0].Language,
		Confidence: candidates[0].Confidence,
	}, nil
}

func (c *Client) postJSON(ctx context.Context, op, path string, body, result any) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return &UpstreamError{Op: op, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(jsonBody))
	if err != nil {
		return &UpstreamError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &UpstreamError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return &UpstreamError{Op: op, Status: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return &UpstreamError{Op: op, Err: err}
	}
	return nil
}
