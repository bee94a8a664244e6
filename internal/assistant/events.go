// README: Wire events between the conversation engine and the voice client.
package assistant

// Status is the engine's speaking/listening state, mirrored to the client
// so it can drive the microphone and any UI indicator.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusListening  Status = "listening"
	StatusProcessing Status = "processing"
	StatusSpeaking   Status = "speaking"
)

// Outbound event types.
const (
	EventState  = "state"
	EventSpeak  = "speak"
	EventListen = "listen"
	EventFatal  = "fatal"
)

// Event is one server→client message.
type Event struct {
	Type   string `json:"type"`
	Status Status `json:"status,omitempty"`

	// Utterance numbers every speak exactly once; the client echoes it in
	// playback_done so stale acknowledgements can be told apart.
	Utterance int64 `json:"utterance,omitempty"`

	Text string `json:"text,omitempty"`

	// Audio is server-synthesized MP3. Nil tells the client to synthesize
	// the text locally.
	Audio []byte `json:"audio,omitempty"`
}

// Sink delivers events to the client. The transport owns ordering and
// error handling.
type Sink interface {
	Send(Event)
}

// Inbound speech error kinds, matching the Web Speech API error names the
// client forwards verbatim.
const (
	SpeechErrNotAllowed = "not-allowed"
	SpeechErrNoSpeech   = "no-speech"
	SpeechErrAborted    = "aborted"
)
