// Package transcribe adapts speech-to-text behind a capability interface so
// orchestration code stays independent of the transcription vendor.
package transcribe

import (
	"context"
	"fmt"
	"sync"

	"github.com/sashabaranov/go-openai"
)

// Transcriber converts a recorded audio file into text. Implementations must
// be safe for concurrent use.
type Transcriber interface {
	// Transcribe reads the audio file at filePath and returns its transcript.
	Transcribe(ctx context.Context, filePath string) (string, error)
}

// WhisperClient is the subset of the go-openai client used here, extracted
// for testability.
type WhisperClient interface {
	CreateTranscription(ctx context.Context, req openai.AudioRequest) (openai.AudioResponse, error)
}

// Whisper implements Transcriber using the OpenAI audio transcription API.
type Whisper struct {
	client WhisperClient
	model  string
}

// NewWhisper creates a Whisper transcriber. Pass a mock client in tests.
func NewWhisper(client WhisperClient, model string) *Whisper {
	if model == "" {
		model = openai.Whisper1
	}
	return &Whisper{client: client, model: model}
}

// Transcribe reads the audio file at filePath and returns its transcript.
func (w *Whisper) Transcribe(ctx context.Context, filePath string) (string, error) {
	resp, err := w.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    w.model,
		FilePath: filePath,
	})
	if err != nil {
		return "", fmt.Errorf("transcribe %s: %w", filePath, err)
	}
	return resp.Text, nil
}

// Mock is a scriptable Transcriber for tests.
type Mock struct {
	mu sync.Mutex

	// Transcript is returned for every call unless Err is set.
	Transcript string
	// Err, when set, fails every call.
	Err error

	// Paths records every file path passed to Transcribe.
	Paths []string
}

// Transcribe implements Transcriber.
func (m *Mock) Transcribe(ctx context.Context, filePath string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Paths = append(m.Paths, filePath)
	if m.Err != nil {
		return "", m.Err
	}
	return m.Transcript, nil
}
