// README: WebSocket endpoint for the voice assistant; one Session per
// connection, client messages in, assistant events out.
package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"tastetrip/internal/assistant"
)

type AssistantHandler struct {
	cfg      assistant.Config
	upgrader websocket.Upgrader
}

func NewAssistantHandler(cfg assistant.Config) *AssistantHandler {
	return &AssistantHandler{
		cfg: cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// The voice client is a browser page served from anywhere
			// during development; session state itself is harmless.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// clientMessage is one client→server frame.
type clientMessage struct {
	Type      string `json:"type"` // transcript | speech_error | playback_done | reset
	Text      string `json:"text,omitempty"`
	Error     string `json:"error,omitempty"`
	Utterance int64  `json:"utterance,omitempty"`
}

func (h *AssistantHandler) Serve(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return // upgrader already wrote the error
	}
	defer conn.Close()

	id := c.Query("session")
	if id == "" {
		id = newSessionID()
	}

	ctx := c.Request.Context()
	sess := assistant.NewSession(id, h.cfg, &wsSink{conn: conn})
	defer sess.Close()
	sess.Start(ctx)

	for {
		var msg clientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		switch msg.Type {
		case "transcript":
			sess.HandleTranscript(ctx, msg.Text)
		case "speech_error":
			sess.HandleSpeechError(ctx, msg.Error)
		case "playback_done":
			sess.HandlePlaybackDone(msg.Utterance)
		case "reset":
			sess.Reset(ctx)
		}
	}
}

// wsSink serializes writes; gorilla connections do not allow concurrent
// writers and events can come from timer callbacks.
type wsSink struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (s *wsSink) Send(e assistant.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.conn.WriteJSON(e)
}

func newSessionID() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
