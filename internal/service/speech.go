package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const speechServiceName = "speech"

// Transcriber converts a voice recording into text.
type Transcriber interface {
	Transcribe(ctx context.Context, name string, audio io.Reader) (string, error)
}

// WhisperTranscriber implements Transcriber on the speech-to-text API of the
// AI provider.
type WhisperTranscriber struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// NewWhisperTranscriber builds the transcription adapter.
func NewWhisperTranscriber(opts ChatOptions) *WhisperTranscriber {
	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &WhisperTranscriber{
		client:  openai.NewClientWithConfig(cfg),
		model:   openai.Whisper1,
		timeout: timeout,
	}
}

// Transcribe sends the audio stream for transcription and returns the text.
func (w *WhisperTranscriber) Transcribe(ctx context.Context, name string, audio io.Reader) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	resp, err := w.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    w.model,
		FilePath: name,
		Reader:   audio,
	})
	if err != nil {
		return "", classifyOpenAI(speechServiceName, err)
	}
	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", Malformed(speechServiceName, fmt.Errorf("empty transcription"))
	}
	return text, nil
}
