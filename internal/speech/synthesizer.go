// README: Server-side TTS: ElevenLabs first, Google Cloud TTS second. When
// neither is configured or both fail, callers get nil audio and the client
// falls back to on-device synthesis.
package speech

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Synthesizer renders Spanish text to audio bytes (MP3).
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

const (
	defaultElevenLabsBase = "https://api.elevenlabs.io"
	defaultGoogleTTSBase  = "https://texttospeech.googleapis.com"

	// A Spanish multilingual voice; overridable per deployment.
	defaultVoiceID = "21m00Tcm4TlvDq8ikWAM"
)

// ElevenLabs calls the v1 text-to-speech endpoint.
type ElevenLabs struct {
	base    string
	apiKey  string
	voiceID string
	client  *http.Client
}

func NewElevenLabs(apiKey string) *ElevenLabs {
	return &ElevenLabs{
		base:    defaultElevenLabsBase,
		apiKey:  apiKey,
		voiceID: defaultVoiceID,
		client:  &http.Client{Timeout: 20 * time.Second},
	}
}

func NewElevenLabsWithBase(apiKey, base string) *ElevenLabs {
	e := NewElevenLabs(apiKey)
	e.base = strings.TrimSuffix(base, "/")
	return e
}

func (e *ElevenLabs) Synthesize(ctx context.Context, text string) ([]byte, error) {
	body, err := json.Marshal(map[string]any{
		"text":     text,
		"model_id": "eleven_multilingual_v2",
	})
	if err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s/v1/text-to-speech/%s", e.base, e.voiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", e.apiKey)

	res, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("elevenlabs: status %d", res.StatusCode)
	}
	return io.ReadAll(res.Body)
}

// GoogleTTS calls the Cloud Text-to-Speech REST API with an API key.
type GoogleTTS struct {
	base   string
	apiKey string
	client *http.Client
}

func NewGoogleTTS(apiKey string) *GoogleTTS {
	return &GoogleTTS{
		base:   defaultGoogleTTSBase,
		apiKey: apiKey,
		client: &http.Client{Timeout: 20 * time.Second},
	}
}

func NewGoogleTTSWithBase(apiKey, base string) *GoogleTTS {
	g := NewGoogleTTS(apiKey)
	g.base = strings.TrimSuffix(base, "/")
	return g
}

func (g *GoogleTTS) Synthesize(ctx context.Context, text string) ([]byte, error) {
	body, err := json.Marshal(map[string]any{
		"input": map[string]string{"text": text},
		"voice": map[string]string{
			"languageCode": "es-ES",
			"name":         "es-ES-Neural2-A",
		},
		"audioConfig": map[string]string{"audioEncoding": "MP3"},
	})
	if err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s/v1/text:synthesize?key=%s", g.base, url.QueryEscape(g.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("google tts: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google tts: status %d", res.StatusCode)
	}

	var parsed struct {
		AudioContent string `json:"audioContent"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("google tts: %w", err)
	}
	return base64.StdEncoding.DecodeString(parsed.AudioContent)
}

// Chain tries synthesizers in order. Exhausting the chain is not an error:
// nil audio means "let the client speak it locally".
type Chain struct {
	backends []Synthesizer
	log      *slog.Logger
}

func NewChain(log *slog.Logger, backends ...Synthesizer) *Chain {
	return &Chain{backends: backends, log: log}
}

func (c *Chain) Synthesize(ctx context.Context, text string) ([]byte, error) {
	for _, b := range c.backends {
		audio, err := b.Synthesize(ctx, text)
		if err == nil && len(audio) > 0 {
			return audio, nil
		}
		if err != nil {
			c.log.Warn("tts backend failed", "error", err)
		}
	}
	return nil, nil
}
