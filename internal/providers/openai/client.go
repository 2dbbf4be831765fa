// Package openai is a minimal chat-completions client producing structured
// JSON answers for the generation steps.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"podcaster/internal/generation"
)

type Options struct {
	APIKey       string
	Model        string
	BaseURL      string
	Organization string
	HTTPClient   *http.Client
	Temperature  float64
	OnFailure    func(reason string, err error)
	OnWarning    func(reason, detail string)
}

type Client struct {
	apiKey       string
	model        string
	baseURL      string
	organization string
	temperature  float64
	client       *http.Client
	onFailure    func(reason string, err error)
}

const defaultTimeout = 60 * time.Second

const defaultModel = generation.DefaultModel

var modelCanonical = map[string]string{
	"gpt-4o-mini":  "gpt-4o-mini",
	"gpt-4o":       "gpt-4o",
	"gpt-4.1-mini": "gpt-4.1-mini",
	"gpt-4.1":      "gpt-4.1",
	"gpt-5-mini":   "gpt-5-mini",
}

var modelAliases = map[string]string{
	"gpt4o-mini":             "gpt-4o-mini",
	"gpt4omini":              "gpt-4o-mini",
	"gpt-4o-mini-2024-07-18": "gpt-4o-mini",
	"gpt4o":                  "gpt-4o",
	"gpt-4o-2024-08-06":      "gpt-4o",
	"gpt4.1-mini":            "gpt-4.1-mini",
	"gpt4.1":                 "gpt-4.1",
	"gpt5-mini":              "gpt-5-mini",
	"gpt-5mini":              "gpt-5-mini",
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    *float64        `json:"temperature,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type       string      `json:"type"`
	JSONSchema *jsonSchema `json:"json_schema,omitempty"`
}

type jsonSchema struct {
	Name   string         `json:"name"`
	Schema map[string]any `json:"schema"`
	Strict bool           `json:"strict"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
			Refusal string `json:"refusal"`
		} `json:"message"`
	} `json:"choices"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func New(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("openai api key is required")
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	modelInput := strings.TrimSpace(opts.Model)
	model, reason := normalizeModel(modelInput)
	if reason != "" && opts.OnWarning != nil {
		requested := modelInput
		if requested == "" {
			requested = defaultModel
		}
		opts.OnWarning("model_"+reason, fmt.Sprintf("requested=%s resolved=%s", requested, model))
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		apiKey:       strings.TrimSpace(opts.APIKey),
		model:        model,
		baseURL:      baseURL,
		organization: strings.TrimSpace(opts.Organization),
		temperature:  opts.Temperature,
		client:       client,
		onFailure:    opts.OnFailure,
	}, nil
}

// Model is the resolved default model.
func (c *Client) Model() string {
	return c.model
}

// Complete sends one chat completion constrained to req.Schema. Transport
// failures, non-2xx answers, refusals and empty choice lists are errors; an
// empty message body is returned as empty content.
func (c *Client) Complete(ctx context.Context, req generation.CompletionRequest) (*generation.Completion, error) {
	model := c.model
	if strings.TrimSpace(req.Model) != "" {
		model, _ = normalizeModel(req.Model)
	}
	payload := chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: req.SystemPrompt},
			{Role: "user", Content: req.UserPrompt},
		},
	}
	if c.temperature > 0 {
		t := c.temperature
		payload.Temperature = &t
	}
	if req.Schema != nil {
		payload.ResponseFormat = &responseFormat{
			Type:       "json_schema",
			JSONSchema: &jsonSchema{Name: req.SchemaName, Schema: req.Schema, Strict: true},
		}
	} else {
		payload.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return nil, c.fail("encode_request", err)
	}
	endpoint := fmt.Sprintf("%s/chat/completions", c.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return nil, c.fail("build_request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	if c.organization != "" {
		httpReq.Header.Set("OpenAI-Organization", c.organization)
	}
	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, c.fail("http_request", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 300 {
		return nil, c.fail(fmt.Sprintf("http_%d", resp.StatusCode), statusError(resp))
	}
	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, c.fail("decode_response", err)
	}
	if len(out.Choices) == 0 {
		return nil, c.fail("empty_choices", errors.New("no choices"))
	}
	msg := out.Choices[0].Message
	if msg.Refusal != "" {
		return nil, c.fail("refusal", fmt.Errorf("model refused: %s", msg.Refusal))
	}
	resolved := out.Model
	if resolved == "" {
		resolved = model
	}
	return &generation.Completion{Content: strings.TrimSpace(msg.Content), Model: resolved}, nil
}

func (c *Client) fail(reason string, err error) error {
	if c.onFailure != nil {
		c.onFailure(reason, err)
	}
	return fmt.Errorf("openai %s: %w", reason, err)
}

func statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var parsed errorResponse
	if json.Unmarshal(body, &parsed) == nil && parsed.Error.Message != "" {
		return fmt.Errorf("openai status %d: %s", resp.StatusCode, parsed.Error.Message)
	}
	return fmt.Errorf("openai status %d", resp.StatusCode)
}

var _ generation.Completer = (*Client)(nil)

func normalizeModel(name string) (string, string) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return defaultModel, ""
	}
	normalized := strings.ToLower(trimmed)
	normalized = strings.ReplaceAll(normalized, "_", "-")
	normalized = strings.ReplaceAll(normalized, " ", "-")
	if canonical, ok := modelCanonical[normalized]; ok {
		return canonical, ""
	}
	if alias, ok := modelAliases[normalized]; ok {
		return alias, "alias"
	}
	return defaultModel, "defaulted"
}
