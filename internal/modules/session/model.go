// README: Conversation snapshot: what survives a dropped connection.
package session

import (
	"time"

	"tastetrip/internal/ai"
	"tastetrip/internal/modules/poi"
)

// maxHistory caps the conversation turns fed back to the model. Older
// turns are dropped from the front.
const maxHistory = 20

// Snapshot is the durable slice of a conversation: enough to resume the
// trip on a fresh connection, nothing transient (utterance sequencing,
// audio state) that only makes sense on a live socket.
type Snapshot struct {
	Phase string `json:"phase"`

	OriginName         string   `json:"origin,omitempty"`
	DestinationName    string   `json:"destination,omitempty"`
	PendingOrigin      string   `json:"pendingOrigin,omitempty"`
	PendingDestination string   `json:"pendingDestination,omitempty"`
	Waypoints          []string `json:"waypoints,omitempty"`

	AddedStopIDs  []int64     `json:"addedStopIds,omitempty"`
	Filters       poi.Filters `json:"filters"`
	DepartureTime time.Time   `json:"departureTime,omitempty"`

	AskedStopsFor []string  `json:"askedStopsFor,omitempty"`
	LastQuestion  string    `json:"lastQuestion,omitempty"`
	History       []ai.Turn `json:"history,omitempty"`
}

// AppendTurn records one exchange, enforcing the history cap.
func (s *Snapshot) AppendTurn(role, text string) {
	s.History = append(s.History, ai.Turn{Role: role, Text: text})
	if len(s.History) > maxHistory {
		s.History = s.History[len(s.History)-maxHistory:]
	}
}
