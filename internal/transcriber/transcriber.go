// Package transcriber downloads voice messages and converts them to text.
package transcriber

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"whatsapp-order-bot/internal/model"

	"github.com/rs/zerolog"
)

// MaxAudioBytes caps the size of a downloaded voice message.
const MaxAudioBytes = 25 << 20

// Transcriber converts a remote audio resource into text.
type Transcriber interface {
	// Transcribe fetches audioURL and returns the recognised text. Every
	// failure wraps model.ErrTranscriptionFailed.
	Transcribe(ctx context.Context, audioURL string) (string, error)
}

// SpeechToText recognises speech in a local audio file.
type SpeechToText interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// Config holds media fetch settings.
type Config struct {
	// MediaUsername and MediaPassword are sent as HTTP basic auth when
	// downloading media. Both are required.
	MediaUsername string
	MediaPassword string

	// Timeout bounds the download and the transcription together. Zero disables it.
	Timeout time.Duration

	// TempDir is where audio is staged; empty means os.TempDir().
	TempDir string
}

// mediaTranscriber implements Transcriber.
//
// Fetch policy: a response with a non-2xx status is still treated as audio
// when it has a body. Only a transport error or an empty body fails the fetch.
type mediaTranscriber struct {
	client *http.Client
	stt    SpeechToText
	config Config
	logger zerolog.Logger
}

// New creates a transcriber. A nil client uses http.DefaultClient.
func New(stt SpeechToText, config Config, client *http.Client, logger zerolog.Logger) Transcriber {
	if client == nil {
		client = http.DefaultClient
	}
	return &mediaTranscriber{
		client: client,
		stt:    stt,
		config: config,
		logger: logger.With().Str("component", "transcriber").Logger(),
	}
}

// Transcribe downloads audioURL to a temporary file, which is removed before returning.
func (t *mediaTranscriber) Transcribe(ctx context.Context, audioURL string) (string, error) {
	if audioURL == "" {
		return "", failure("audio URL is empty", nil)
	}
	if t.config.MediaUsername == "" || t.config.MediaPassword == "" {
		t.logger.Error().Msg("media credentials are not configured")
		return "", failure("media credentials are not configured", nil)
	}

	if t.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.config.Timeout)
		defer cancel()
	}

	audio, contentType, err := t.fetch(ctx, audioURL)
	if err != nil {
		t.logger.Error().Err(err).Str("media_url", audioURL).Msg("failed to download audio")
		return "", failure("download audio", err)
	}

	path, err := t.stage(audio, contentType)
	if err != nil {
		t.logger.Error().Err(err).Msg("failed to stage audio")
		return "", failure("stage audio", err)
	}
	defer func() {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			t.logger.Warn().Err(err).Str("path", path).Msg("failed to remove temporary audio file")
		}
	}()

	t.logger.Debug().
		Str("path", path).
		Int("bytes", len(audio)).
		Msg("audio saved")

	text, err := t.stt.Transcribe(ctx, path)
	if err != nil {
		t.logger.Error().Err(err).Msg("speech-to-text failed")
		return "", failure("speech-to-text", err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", failure("no speech recognised", nil)
	}

	t.logger.Info().Str("text", text).Msg("voice message transcribed")

	return text, nil
}

// fetch downloads the audio bytes and returns them with the reported content type.
func (t *mediaTranscriber) fetch(ctx context.Context, audioURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, audioURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to build request: %w", err)
	}
	req.SetBasicAuth(t.config.MediaUsername, t.config.MediaPassword)

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxAudioBytes))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		t.logger.Warn().
			Int("status", resp.StatusCode).
			Int("bytes", len(body)).
			Msg("media fetch returned non-success status")
	}

	if len(body) == 0 {
		return nil, "", fmt.Errorf("empty body (status %d)", resp.StatusCode)
	}

	return body, resp.Header.Get("Content-Type"), nil
}

// stage writes audio to a temporary file whose extension matches contentType.
func (t *mediaTranscriber) stage(audio []byte, contentType string) (string, error) {
	file, err := os.CreateTemp(t.config.TempDir, "voice-*"+extensionFor(contentType))
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file: %w", err)
	}

	if _, err := file.Write(audio); err != nil {
		file.Close()
		os.Remove(file.Name())
		return "", fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(file.Name())
		return "", fmt.Errorf("failed to close temporary file: %w", err)
	}

	return file.Name(), nil
}

// extensionFor maps an audio content type to a file extension the
// speech-to-text service recognises.
func extensionFor(contentType string) string {
	mediaType, _, _ := strings.Cut(strings.ToLower(contentType), ";")
	switch strings.TrimSpace(mediaType) {
	case "audio/ogg", "audio/opus":
		return ".ogg"
	case "audio/wav", "audio/x-wav", "audio/wave":
		return ".wav"
	case "audio/mp4", "audio/m4a", "audio/x-m4a", "audio/aac":
		return ".m4a"
	case "audio/webm":
		return ".webm"
	case "audio/amr":
		return ".amr"
	default:
		return ".mp3"
	}
}

func failure(step string, err error) error {
	if err == nil {
		return fmt.Errorf("%w: %s", model.ErrTranscriptionFailed, step)
	}
	return fmt.Errorf("%w: %s: %w", model.ErrTranscriptionFailed, step, err)
}
