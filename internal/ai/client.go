// Package ai calls a hosted language model to draft line-item copy. The
// client speaks the Gemini generateContent REST API with a structured
// response schema so the answer always parses as a title/description pair.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"factorsaz.org/invoice-web/internal/invoice"
)

const (
	defaultTimeout = 20 * time.Second
	defaultBaseURL = "https://generativelanguage.googleapis.com"
	defaultModel   = "gemini-2.5-flash"
)

var (
	// ErrEmptyPrompt is returned before any network call when the prompt
	// trims to nothing.
	ErrEmptyPrompt = errors.New("ai: empty prompt")

	// ErrGenerationFailed wraps every transport, status and decode failure
	// so callers can map the whole class to one retryable user message.
	ErrGenerationFailed = errors.New("ai: generation failed")
)

// Generator drafts invoice line-item copy from a free-form request.
type Generator interface {
	Generate(ctx context.Context, prompt string) (invoice.GeneratedContent, error)
}

// Config carries the explicit wiring for a Client. Nothing is read from
// the process environment here; the caller owns configuration.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string

	// HTTPClient overrides the default client, mainly for tests.
	HTTPClient *http.Client
}

type Client struct {
	apiKey  string
	model   string
	baseURL string
	http    *http.Client
	policy  *bluemonday.Policy
}

// NewClient constructs a Gemini-backed generator. Model and base URL fall
// back to the hosted defaults when unset.
func NewClient(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		apiKey:  strings.TrimSpace(cfg.APIKey),
		model:   model,
		baseURL: baseURL,
		http:    httpClient,
		policy:  bluemonday.StrictPolicy(),
	}
}

// Generate sends the prompt with a constrained JSON response schema and
// returns the drafted pair. Empty title or description strings are valid
// output; a missing field is a protocol error.
func (c *Client) Generate(ctx context.Context, prompt string) (invoice.GeneratedContent, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return invoice.GeneratedContent{}, ErrEmptyPrompt
	}

	endpoint, err := url.JoinPath(c.baseURL, "v1beta", "models", c.model+":generateContent")
	if err != nil {
		return invoice.GeneratedContent{}, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	payload, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: instruction(prompt)}}}},
		GenerationConfig: generationConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema: responseSchema{
				Type: "OBJECT",
				Properties: map[string]schemaProperty{
					"title":       {Type: "STRING"},
					"description": {Type: "STRING"},
				},
				Required: []string{"title", "description"},
			},
		},
	})
	if err != nil {
		return invoice.GeneratedContent{}, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return invoice.GeneratedContent{}, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return invoice.GeneratedContent{}, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return invoice.GeneratedContent{}, fmt.Errorf("%w: status %d: %s", ErrGenerationFailed, resp.StatusCode, drainError(resp.Body))
	}

	var body generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return invoice.GeneratedContent{}, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	text, err := body.text()
	if err != nil {
		return invoice.GeneratedContent{}, err
	}

	var out struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
	}
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return invoice.GeneratedContent{}, fmt.Errorf("%w: decode result: %v", ErrGenerationFailed, err)
	}
	if out.Title == nil || out.Description == nil {
		return invoice.GeneratedContent{}, fmt.Errorf("%w: result missing title or description", ErrGenerationFailed)
	}

	return invoice.GeneratedContent{
		Title:       c.sanitize(*out.Title),
		Description: c.sanitize(*out.Description),
	}, nil
}

// sanitize strips markup from model output. The policy escapes entities,
// so the survivors are unescaped back to plain text.
func (c *Client) sanitize(s string) string {
	return strings.TrimSpace(html.UnescapeString(c.policy.Sanitize(s)))
}

func instruction(prompt string) string {
	return "Write an invoice line item for the following request. " +
		"Respond with a short title and a one-sentence description, " +
		"in the same language as the request.\n\nRequest: " + prompt
}

func drainError(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 256))
	return strings.TrimSpace(string(b))
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMIMEType string         `json:"response_mime_type"`
	ResponseSchema   responseSchema `json:"response_schema"`
}

type responseSchema struct {
	Type       string                    `json:"type"`
	Properties map[string]schemaProperty `json:"properties"`
	Required   []string                  `json:"required"`
}

type schemaProperty struct {
	Type string `json:"type"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (r generateResponse) text() (string, error) {
	if len(r.Candidates) == 0 || len(r.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: empty response", ErrGenerationFailed)
	}
	return r.Candidates[0].Content.Parts[0].Text, nil
}
