// Package llm provides the text generation collaborator used by every answering stage.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/openai/openai-go"
)

// DefaultMaxTokens is the per-message content budget before truncation (in tokens).
const DefaultMaxTokens = 16000

// ErrEmptyResponse is returned when the model answers with no usable text.
var ErrEmptyResponse = errors.New("empty model response")

// Role tags a message in a conversation.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one role-tagged piece of text sent to the model.
type Message struct {
	Role    Role
	Content string
}

func System(content string) Message    { return Message{Role: RoleSystem, Content: content} }
func User(content string) Message      { return Message{Role: RoleUser, Content: content} }
func Assistant(content string) Message { return Message{Role: RoleAssistant, Content: content} }

// Generator produces text from an ordered list of messages.
type Generator interface {
	Generate(ctx context.Context, messages []Message, opts ...CallOption) (string, error)
}

// CallOption adjusts a single Generate call.
type CallOption func(*callOptions)

type callOptions struct {
	json bool
}

// JSONResponse asks the model for a JSON object. Callers must still validate the output.
func JSONResponse() CallOption {
	return func(o *callOptions) { o.json = true }
}

// WantsJSON reports whether opts request a JSON object response.
func WantsJSON(opts ...CallOption) bool {
	var call callOptions
	for _, opt := range opts {
		opt(&call)
	}
	return call.json
}

// ChatClient implements Generator with OpenAI chat completions.
type ChatClient struct {
	client      *openai.Client
	model       string
	temperature float64
	timeout     time.Duration
	maxTokens   int
	logger      *slog.Logger
}

// Option configures a ChatClient.
type Option func(*ChatClient)

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) Option {
	return func(c *ChatClient) { c.temperature = t }
}

// WithTimeout bounds every call, including retries.
func WithTimeout(d time.Duration) Option {
	return func(c *ChatClient) { c.timeout = d }
}

// WithMaxTokens sets the per-message truncation limit.
func WithMaxTokens(n int) Option {
	return func(c *ChatClient) {
		if n > 0 {
			c.maxTokens = n
		}
	}
}

// WithLogger sets the logger used for truncation warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(c *ChatClient) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewChatClient creates a chat client for model.
func NewChatClient(client *openai.Client, model string, opts ...Option) *ChatClient {
	c := &ChatClient{
		client:      client,
		model:       model,
		temperature: 0.1,
		maxTokens:   DefaultMaxTokens,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Generate sends messages to the chat completions API and returns the trimmed reply.
// Rate limit errors are retried with exponential backoff; everything else fails fast.
func (c *ChatClient) Generate(ctx context.Context, messages []Message, opts ...CallOption) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	params := openai.ChatCompletionNewParams{
		Messages:    c.toParams(messages),
		Model:       openai.ChatModel(c.model),
		Temperature: openai.Float(c.temperature),
	}
	if WantsJSON(opts...) {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{
				Type: "json_object",
			},
		}
	}

	var content string
	operation := func() error {
		resp, err := c.client.Chat.Completions.New(ctx, params)
		if err != nil {
			if isRateLimitError(err) {
				return err
			}
			return backoff.Permanent(err)
		}
		if len(resp.Choices) == 0 {
			return backoff.Permanent(ErrEmptyResponse)
		}
		content = strings.TrimSpace(resp.Choices[0].Message.Content)
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 10 * time.Second
	b.MaxElapsedTime = 30 * time.Second

	if err := backoff.Retry(operation, backoff.WithContext(b, ctx)); err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if content == "" {
		return "", ErrEmptyResponse
	}
	return content, nil
}

func (c *ChatClient) toParams(messages []Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		content := c.truncateContent(m.Content)
		switch m.Role {
		case RoleSystem:
			out = append(out, openai.SystemMessage(content))
		case RoleAssistant:
			out = append(out, openai.AssistantMessage(content))
		default:
			out = append(out, openai.UserMessage(content))
		}
	}
	return out
}

// truncateContent truncates content to fit within token limits.
// Uses rough estimate of 4 characters per token.
func (c *ChatClient) truncateContent(content string) string {
	maxChars := c.maxTokens * 4
	if len(content) <= maxChars {
		return content
	}

	c.logger.Warn("Truncating message content",
		"from_chars", len(content), "to_chars", maxChars, "max_tokens", c.maxTokens)

	cut := maxChars
	for cut > 0 && !utf8RuneStart(content[cut]) {
		cut--
	}
	return content[:cut]
}

func utf8RuneStart(b byte) bool {
	return b&0xC0 != 0x80
}

func isRateLimitError(err error) bool {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429
	}
	return false
}
