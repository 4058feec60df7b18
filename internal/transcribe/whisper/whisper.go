// Package whisper adapts the OpenAI Whisper API to the Transcriber
// interface. The API is treated as a black box: audio bytes in, timestamped
// segments out.
package whisper

import (
	"bytes"
	"context"
	"errors"

	openai "github.com/sashabaranov/go-openai"

	"podscribe/internal/stage"
	"podscribe/internal/transcribe"
)

// Config configures the remote Whisper transcriber. APIKey is required;
// BaseURL exists for tests and self-hosted compatible endpoints.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

// RemoteTranscriber transcribes audio through the Whisper API, requesting
// the verbose response format so segment timestamps are available.
type RemoteTranscriber struct {
	client *openai.Client
	model  string
}

// NewRemoteTranscriber builds a transcriber from config.
func NewRemoteTranscriber(cfg Config) *RemoteTranscriber {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = openai.Whisper1
	}
	return &RemoteTranscriber{
		client: openai.NewClientWithConfig(clientConfig),
		model:  model,
	}
}

// Transcribe submits the audio in one request and emits the returned
// segments in order. The API chunks long audio internally.
func (t *RemoteTranscriber) Transcribe(ctx context.Context, req transcribe.Request, emit func(transcribe.Segment)) error {
	filename := req.Filename
	if filename == "" {
		filename = "audio.mp3"
	}

	resp, err := t.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    t.model,
		FilePath: filename,
		Reader:   bytes.NewReader(req.Audio),
		Language: req.Language,
		Format:   openai.AudioResponseFormatVerboseJSON,
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return stage.WrapError(stage.KindTranscription, stage.Transcribe, "whisper request failed", err).
			WithDetail("model", t.model)
	}

	if len(resp.Segments) == 0 && resp.Text != "" {
		// plain responses without timing collapse into one segment
		emit(transcribe.Segment{Start: 0, End: resp.Duration, Text: resp.Text})
		return nil
	}
	for _, seg := range resp.Segments {
		emit(transcribe.Segment{Start: seg.Start, End: seg.End, Text: seg.Text})
	}
	return nil
}
