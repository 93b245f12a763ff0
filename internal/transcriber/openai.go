package transcriber

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
)

// DefaultModel is the transcription model used when none is configured.
const DefaultModel = openai.Whisper1

// ErrMissingAPIKey is returned when no OpenAI API key is configured.
var ErrMissingAPIKey = errors.New("openai api key is not configured")

// openAISpeechToText implements SpeechToText with the OpenAI audio API.
type openAISpeechToText struct {
	client *openai.Client
	apiKey string
	model  string
	logger zerolog.Logger
}

// NewOpenAISpeechToText creates an OpenAI-backed recogniser. An empty baseURL
// uses the public API; an empty model uses DefaultModel.
func NewOpenAISpeechToText(apiKey, baseURL, model string, logger zerolog.Logger) SpeechToText {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = DefaultModel
	}

	return &openAISpeechToText{
		client: openai.NewClientWithConfig(cfg),
		apiKey: apiKey,
		model:  model,
		logger: logger.With().Str("component", "openai-stt").Str("model", model).Logger(),
	}
}

// Transcribe uploads the file at audioPath and returns the recognised text.
func (s *openAISpeechToText) Transcribe(ctx context.Context, audioPath string) (string, error) {
	if s.apiKey == "" {
		return "", ErrMissingAPIKey
	}

	resp, err := s.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    s.model,
		FilePath: audioPath,
	})
	if err != nil {
		return "", fmt.Errorf("openai transcription failed: %w", err)
	}

	s.logger.Debug().Int("chars", len(resp.Text)).Msg("transcription received")

	return resp.Text, nil
}
