package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/http2"

	"github.com/nexusflow/ravenutils/pkg/output"
	"github.com/nexusflow/ravenutils/pkg/prompt"
)

// maxErrorBody bounds how much of an error response is kept for
// diagnostics.
const maxErrorBody = 2048

// Client talks to a text-generation-inference compatible endpoint serving
// NexusRavenV2.
type Client struct {
	cfg        Config
	baseURL    *url.URL
	httpClient *http.Client
	log        *logrus.Logger
}

// Option configures the client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets the client's logger. The client is silent by default.
func WithLogger(log *logrus.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// New creates a client with the specified configuration.
func New(cfg Config, opts ...Option) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, &ConfigError{
			Field: "BaseURL",
			Value: cfg.BaseURL,
			Err:   errors.New("base URL cannot be empty"),
		}
	}

	baseURL, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, &ConfigError{
			Field: "BaseURL",
			Value: cfg.BaseURL,
			Err:   fmt.Errorf("invalid base URL: %w", err),
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	silent := logrus.New()
	silent.SetOutput(io.Discard)

	c := &Client{
		cfg:     cfg,
		baseURL: baseURL,
		log:     silent,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		}
		if cfg.EnableHTTP2 {
			c.httpClient.Transport = &http2.Transport{}
		}
	}

	return c, nil
}

// generateRequest is the TGI /generate request body.
type generateRequest struct {
	Inputs     string             `json:"inputs"`
	Parameters generateParameters `json:"parameters"`
}

// generateParameters are the TGI generation parameters.
type generateParameters struct {
	MaxNewTokens   int      `json:"max_new_tokens,omitempty"`
	Temperature    float64  `json:"temperature,omitempty"`
	TopP           float64  `json:"top_p,omitempty"`
	DoSample       bool     `json:"do_sample,omitempty"`
	Stop           []string `json:"stop,omitempty"`
	ReturnFullText bool     `json:"return_full_text"`
}

// generateResponse is the TGI /generate response body.
type generateResponse struct {
	GeneratedText string `json:"generated_text"`
}

// Generate sends a rendered prompt to the endpoint and returns the raw
// completion with stop sequences stripped.
func (c *Client) Generate(ctx context.Context, renderedPrompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Inputs:     renderedPrompt,
		Parameters: c.parameters(),
	})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	requestID := uuid.NewString()
	req, err := c.newRequest(ctx, "generate", requestID, bytes.NewReader(body))
	if err != nil {
		return "", err
	}

	c.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"prompt_len": len(renderedPrompt),
	}).Debug("sending generate request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("generate request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", c.apiError(resp)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	text, err := decodeGeneratedText(raw)
	if err != nil {
		return "", err
	}

	return c.stripStop(text), nil
}

// Call renders the template with the user query, generates a completion,
// and parses it. This is the library's end-to-end convenience.
func (c *Client) Call(ctx context.Context, tmpl *prompt.Template, userQuery string) (*output.Output, error) {
	completion, err := c.Generate(ctx, tmpl.Render(userQuery))
	if err != nil {
		return nil, err
	}
	return output.Parse(completion)
}

// Close releases idle connections held by the client. Both *http.Transport
// and *http2.Transport satisfy the interface.
func (c *Client) Close() error {
	type idleCloser interface {
		CloseIdleConnections()
	}
	if transport, ok := c.httpClient.Transport.(idleCloser); ok {
		transport.CloseIdleConnections()
	}
	return nil
}

// newRequest builds a JSON POST to the named endpoint path.
func (c *Client) newRequest(ctx context.Context, path, requestID string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL.JoinPath(path).String(), body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", requestID)
	return req, nil
}

// parameters maps the config onto TGI generation parameters.
func (c *Client) parameters() generateParameters {
	return generateParameters{
		MaxNewTokens: c.cfg.MaxNewTokens,
		Temperature:  c.cfg.Temperature,
		TopP:         c.cfg.TopP,
		DoSample:     c.cfg.DoSample,
		Stop:         c.cfg.Stop,
	}
}

// apiError drains a non-success response into an APIError.
func (c *Client) apiError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &APIError{
		Status: resp.StatusCode,
		Body:   strings.TrimSpace(string(body)),
	}
}

// stripStop removes trailing stop sequences the endpoint may echo back.
func (c *Client) stripStop(text string) string {
	for _, stop := range c.cfg.Stop {
		text = strings.TrimSuffix(strings.TrimRight(text, " \n"), stop)
	}
	return strings.TrimRight(text, " \n")
}

// decodeGeneratedText handles both response shapes TGI deployments return:
// a single object or a one-element array.
func decodeGeneratedText(raw []byte) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var many []generateResponse
		if err := json.Unmarshal(trimmed, &many); err != nil {
			return "", fmt.Errorf("decode response: %w", err)
		}
		if len(many) == 0 {
			return "", fmt.Errorf("decode response: empty result array")
		}
		return many[0].GeneratedText, nil
	}

	var one generateResponse
	if err := json.Unmarshal(trimmed, &one); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	return one.GeneratedText, nil
}
