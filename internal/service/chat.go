package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jakhon09-png/vizabot/internal/session"

	openai "github.com/sashabaranov/go-openai"
)

const chatServiceName = "ai_chat"

// Chat wraps the generative-language provider. One timeout-bounded attempt
// per call; pacing is enforced upstream by the limiter.
type Chat struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// ChatOptions configures the Chat adapter.
type ChatOptions struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// NewChat builds the AI chat adapter.
func NewChat(opts ChatOptions) *Chat {
	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	model := opts.Model
	if model == "" {
		model = openai.GPT4oMini
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Chat{
		client:  openai.NewClientWithConfig(cfg),
		model:   model,
		timeout: timeout,
	}
}

// Reply answers text given the user's bounded chat history as context.
func (c *Chat) Reply(ctx context.Context, history []session.Turn, text string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	messages := make([]openai.ChatCompletionMessage, 0, len(history)*2+1)
	for _, turn := range history {
		messages = append(messages,
			openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: turn.UserText},
			openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: turn.BotText},
		)
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: text,
	})

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: messages,
	})
	if err != nil {
		return "", classifyOpenAI(chatServiceName, err)
	}
	if len(resp.Choices) == 0 {
		return "", Malformed(chatServiceName, fmt.Errorf("empty choices"))
	}
	answer := strings.TrimSpace(resp.Choices[0].Message.Content)
	if answer == "" {
		return "", Malformed(chatServiceName, fmt.Errorf("empty completion"))
	}
	return answer, nil
}

// TranslateVia asks the model for a plain translation. Used as the fallback
// when the dedicated translation provider fails.
func (c *Chat) TranslateVia(ctx context.Context, text, targetLang string) (string, error) {
	prompt := fmt.Sprintf("Translate the following text to %s. Reply with the translation only, no commentary:\n\n%s", targetLang, text)
	return c.Reply(ctx, nil, prompt)
}

// Summarize produces a short answer for a search-style query.
func (c *Chat) Summarize(ctx context.Context, query string) (string, error) {
	prompt := fmt.Sprintf("Answer briefly and factually: %s", query)
	return c.Reply(ctx, nil, prompt)
}

// Outline drafts a slide-by-slide presentation outline for a topic.
func (c *Chat) Outline(ctx context.Context, topic string) (string, error) {
	prompt := fmt.Sprintf("Write a concise presentation outline (5-7 slides, titles with 2-3 bullet points each) on the topic: %s", topic)
	return c.Reply(ctx, nil, prompt)
}

func classifyOpenAI(serviceName string, err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if e := ClassifyStatus(serviceName, apiErr.HTTPStatusCode); e != nil {
			var svcErr *Error
			if errors.As(e, &svcErr) {
				return &Error{Service: serviceName, Kind: svcErr.Kind, Err: err}
			}
		}
	}
	return Classify(serviceName, err)
}
