package client

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Token is a single streamed generation event.
type Token struct {
	// Text is the decoded token text.
	Text string

	// Special marks control tokens such as <bot_end>.
	Special bool

	// Final marks the last event of the stream.
	Final bool

	// GeneratedText is the full completion, set only on the final event.
	GeneratedText string

	// Err reports a mid-stream failure; the channel closes after it.
	Err error
}

// streamEvent is the TGI /generate_stream server-sent event payload.
type streamEvent struct {
	Token struct {
		Text    string `json:"text"`
		Special bool   `json:"special"`
	} `json:"token"`
	GeneratedText *string `json:"generated_text"`
}

// GenerateStream streams a completion token by token over server-sent
// events. The returned channel closes when generation finishes, the
// context is cancelled, or an error is delivered.
func (c *Client) GenerateStream(ctx context.Context, renderedPrompt string) (<-chan Token, error) {
	body, err := json.Marshal(generateRequest{
		Inputs:     renderedPrompt,
		Parameters: c.parameters(),
	})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	requestID := uuid.NewString()
	req, err := c.newRequest(ctx, "generate_stream", requestID, strings.NewReader(string(body)))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/event-stream")

	c.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"prompt_len": len(renderedPrompt),
	}).Debug("opening generate stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("stream request: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, c.apiError(resp)
	}

	tokens := make(chan Token)
	go c.readStream(ctx, resp, tokens)
	return tokens, nil
}

// readStream decodes server-sent events until the stream ends.
func (c *Client) readStream(ctx context.Context, resp *http.Response, tokens chan<- Token) {
	defer close(tokens)
	defer resp.Body.Close()

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || !strings.HasPrefix(line, "data:") {
			continue
		}
		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if payload == "" || payload == "[DONE]" {
			continue
		}

		var event streamEvent
		if err := json.Unmarshal([]byte(payload), &event); err != nil {
			c.deliver(ctx, tokens, Token{Err: fmt.Errorf("decode stream event: %w", err)})
			return
		}

		token := Token{
			Text:    event.Token.Text,
			Special: event.Token.Special,
		}
		if event.GeneratedText != nil {
			token.Final = true
			token.GeneratedText = c.stripStop(*event.GeneratedText)
		}

		if !c.deliver(ctx, tokens, token) {
			return
		}
		if token.Final {
			return
		}
	}

	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		c.deliver(ctx, tokens, Token{Err: fmt.Errorf("read stream: %w", err)})
	}
}

// deliver sends a token unless the context is done.
func (c *Client) deliver(ctx context.Context, tokens chan<- Token, token Token) bool {
	select {
	case tokens <- token:
		return true
	case <-ctx.Done():
		return false
	}
}
