package speech

import (
	"context"
	"encoding/base64"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestElevenLabs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("xi-api-key") != "k1" {
			t.Errorf("missing api key header")
		}
		w.Write([]byte("mp3bytes"))
	}))
	defer srv.Close()

	e := NewElevenLabsWithBase("k1", srv.URL)
	audio, err := e.Synthesize(context.Background(), "Hola")
	if err != nil {
		t.Fatal(err)
	}
	if string(audio) != "mp3bytes" {
		t.Errorf("audio = %q", audio)
	}
}

func TestGoogleTTS(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") != "k2" {
			t.Errorf("missing key param")
		}
		enc := base64.StdEncoding.EncodeToString([]byte("googleaudio"))
		w.Write([]byte(`{"audioContent":"` + enc + `"}`))
	}))
	defer srv.Close()

	g := NewGoogleTTSWithBase("k2", srv.URL)
	audio, err := g.Synthesize(context.Background(), "Hola")
	if err != nil {
		t.Fatal(err)
	}
	if string(audio) != "googleaudio" {
		t.Errorf("audio = %q", audio)
	}
}

func TestChain_FallsThroughToSecondBackend(t *testing.T) {
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer broken.Close()
	working := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("backup"))
	}))
	defer working.Close()

	chain := NewChain(discard(),
		NewElevenLabsWithBase("k", broken.URL),
		NewElevenLabsWithBase("k", working.URL))

	audio, err := chain.Synthesize(context.Background(), "Hola")
	if err != nil {
		t.Fatal(err)
	}
	if string(audio) != "backup" {
		t.Errorf("audio = %q", audio)
	}
}

func TestChain_ExhaustedMeansClientLocal(t *testing.T) {
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer broken.Close()

	chain := NewChain(discard(), NewElevenLabsWithBase("k", broken.URL))
	audio, err := chain.Synthesize(context.Background(), "Hola")
	if err != nil {
		t.Fatalf("an exhausted chain is not an error, got %v", err)
	}
	if audio != nil {
		t.Errorf("audio = %v, want nil for client-local synthesis", audio)
	}

	empty := NewChain(discard())
	if audio, err := empty.Synthesize(context.Background(), "Hola"); err != nil || audio != nil {
		t.Errorf("empty chain: %v / %v", audio, err)
	}
}
