// Package gemini is the Google Gemini generateContent client behind the
// AI parser.
package gemini

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/panpapadopoulos/cooking/internal/core/ai"
	"github.com/panpapadopoulos/cooking/internal/core/language"
	"github.com/panpapadopoulos/cooking/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel   = "gemini-pro"
)

// Options configures the client.
type Options struct {
	APIKey    string
	Model     string
	BaseURL   string
	Timeout   time.Duration
	MaxTokens int
}

// Client calls models/{model}:generateContent.
type Client struct {
	client    *resty.Client
	apiKey    string
	model     string
	maxTokens int
}

var _ ai.Extractor = (*Client)(nil)

// Request is the generateContent body.
type Request struct {
	Contents         []Content        `json:"contents"`
	GenerationConfig GenerationConfig `json:"generationConfig"`
}

// Content holds the prompt parts.
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// Part is one text part.
type Part struct {
	Text string `json:"text"`
}

// GenerationConfig is the sampling setup.
type GenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopK            int     `json:"topK"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

// Response is the part of the generateContent answer the client reads.
type Response struct {
	Candidates []struct {
		Content      Content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
}

// APIError is the error envelope returned on non-2xx statuses.
type APIError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// NewClient builds a client. An empty APIKey gives an unconfigured client
// whose calls fail with ai.ErrNoCredential.
func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 4096
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(opts.BaseURL, "/")).
		SetTimeout(opts.Timeout).
		SetHeader("Content-Type", "application/json")

	return &Client{
		client:    client,
		apiKey:    opts.APIKey,
		model:     opts.Model,
		maxTokens: opts.MaxTokens,
	}
}

// Configured reports whether an API key is set.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// Model returns the model name.
func (c *Client) Model() string {
	return c.model
}

// Generate sends one prompt and returns the first candidate's text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if !c.Configured() {
		return "", ai.ErrNoCredential
	}

	req := &Request{
		Contents: []Content{{Parts: []Part{{Text: prompt}}}},
		GenerationConfig: GenerationConfig{
			Temperature:     0.3,
			TopK:            1,
			TopP:            1,
			MaxOutputTokens: c.maxTokens,
		},
	}

	var result Response
	var apiErr APIError
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("x-goog-api-key", c.apiKey).
		SetBody(req).
		SetResult(&result).
		SetError(&apiErr).
		Post(fmt.Sprintf("/models/%s:generateContent", c.model))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ai.ErrUpstream, err)
	}

	if resp.StatusCode() != http.StatusOK {
		msg := apiErr.Error.Message
		if msg == "" {
			msg = fmt.Sprintf("API error: %d", resp.StatusCode())
		}
		common.LogDebug("gemini request rejected",
			zap.Int("status", resp.StatusCode()),
			zap.String("model", c.model),
		)
		return "", fmt.Errorf("%w: %s", ai.ErrUpstream, msg)
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: no response from Gemini", ai.ErrMalformedResponse)
	}
	text := result.Candidates[0].Content.Parts[0].Text
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: empty response from Gemini", ai.ErrMalformedResponse)
	}
	return text, nil
}

// Extract asks the model for the recipe document and decodes it.
func (c *Client) Extract(ctx context.Context, text string, hint language.Hint) (*ai.Extraction, error) {
	out, err := c.Generate(ctx, buildParsePrompt(text, hint))
	if err != nil {
		return nil, err
	}
	return DecodeExtraction(out)
}

// Translate asks the model for a bare translation.
func (c *Client) Translate(ctx context.Context, text string, from, to language.Code) (string, error) {
	return c.Generate(ctx, buildTranslatePrompt(text, from, to))
}

// DecodeExtraction reads model output that may be wrapped in a markdown
// fence, padded with prose, or missing quotes around keys.
func DecodeExtraction(raw string) (*ai.Extraction, error) {
	body := common.ExtractJSONObject(common.StripCodeFence(raw))

	var ex ai.Extraction
	if err := common.ParseJSON(body, &ex); err != nil {
		ex = ai.Extraction{}
		if err2 := common.ParseJSON(common.QuoteJSONKeys(body), &ex); err2 != nil {
			return nil, fmt.Errorf("%w: %w", ai.ErrMalformedResponse, err)
		}
	}
	return &ex, nil
}
