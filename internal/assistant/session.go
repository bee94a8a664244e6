// README: The conversation engine: one Session per connected traveller.
// Owns trip state, the phase machine, utterance sequencing and persistence.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"tastetrip/internal/ai"
	"tastetrip/internal/modules/poi"
	"tastetrip/internal/modules/session"
	"tastetrip/internal/modules/trip"
	"tastetrip/internal/nlu"
	"tastetrip/internal/speech"
)

const (
	// relistenDelay keeps the microphone off briefly after our own audio
	// finishes, so the tail of the utterance is not transcribed back.
	relistenDelay = 150 * time.Millisecond

	// Safety timeout for a speak: if the client never acknowledges
	// playback, the turn still completes after roughly the time the
	// utterance would take to say.
	speakBaseTimeout = 4 * time.Second
	speakPerRune     = 80 * time.Millisecond
)

// Config wires a Session's collaborators.
type Config struct {
	Agent   *ai.Agent
	Planner *trip.Planner
	POIs    *poi.Service
	Synth   speech.Synthesizer // optional
	Store   session.Store      // optional persistence
	Log     *slog.Logger
	Clock   func() time.Time // nil means time.Now

	// Disabled is the pre-launch gate: the session greets with a
	// coming-soon message and never opens the microphone.
	Disabled bool
}

type Session struct {
	mu   sync.Mutex
	id   string
	cfg  Config
	sink Sink
	log  *slog.Logger

	phase  Phase
	status Status

	state      trip.State
	bootOrigin string // origin name collected before the route exists

	catalog []poi.POI
	visible []poi.POI

	history      []ai.Turn
	lastQuestion string

	// Single-flight utterance tracking: only the acknowledgement (or
	// timeout) matching pendingUtterance completes the speak.
	utteranceSeq     int64
	pendingUtterance int64
	speakTimer       *time.Timer

	announcedRouteKey string
	noSpeechRetried   bool
	closed            bool
}

func NewSession(id string, cfg Config, sink Sink) *Session {
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	return &Session{
		id:     id,
		cfg:    cfg,
		sink:   sink,
		log:    cfg.Log.With("session", id),
		phase:  PhaseAskingOrigin,
		status: StatusIdle,
	}
}

// Start loads the catalog, restores any persisted conversation and greets
// the traveller.
func (s *Session) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cfg.Disabled {
		s.speakLocked(ctx, "¡Hola! El copiloto de TasteTrip estará disponible muy pronto. ¡Hasta entonces, buen viaje!")
		return
	}

	if catalog, err := s.cfg.POIs.List(ctx); err != nil {
		s.log.Error("catalog load failed", "error", err)
	} else {
		s.catalog = catalog
	}

	greeting := "¡Hola! Soy tu copiloto de TasteTrip. ¿Desde qué ciudad sales?"
	if s.cfg.Store != nil {
		if snap, err := s.cfg.Store.Load(ctx, s.id); err == nil {
			s.restore(ctx, snap)
			if s.phase == PhaseActive && s.state.HasPending() {
				greeting = fmt.Sprintf("¡Hola de nuevo! Teníamos pendiente la ruta de %s a %s. ¿Vamos directos o quieres parar?",
					s.state.PendingOrigin, s.state.PendingDestination)
			} else if s.lastQuestion != "" {
				greeting = "¡Hola de nuevo! " + s.lastQuestion
			}
		} else if !errors.Is(err, session.ErrNotFound) {
			s.log.Warn("session restore failed", "error", err)
		}
	}

	s.speakLocked(ctx, greeting)
}

// HandleTranscript processes one recognized user utterance.
func (s *Session) HandleTranscript(ctx context.Context, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.cfg.Disabled {
		return
	}
	if strings.TrimSpace(text) == "" {
		s.toListeningLocked()
		return
	}

	s.setStatus(StatusProcessing)
	s.noSpeechRetried = false

	var reply string
	if s.phase == PhaseActive {
		reply = s.activeTurn(ctx, text)
	} else {
		reply = s.bootstrapTurn(ctx, text)
	}

	s.appendHistory("user", text)
	if reply != "" {
		s.appendHistory("model", reply)
	}
	s.persist(ctx)
	s.speakLocked(ctx, reply)
}

// HandleSpeechError reacts to recognition failures forwarded by the client.
func (s *Session) HandleSpeechError(ctx context.Context, kind string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.cfg.Disabled {
		return
	}

	switch kind {
	case SpeechErrNotAllowed:
		// Without the microphone there is no conversation to have.
		s.setStatus(StatusIdle)
		s.sink.Send(Event{
			Type: EventFatal,
			Text: "Necesito permiso para usar el micrófono. Actívalo en el navegador y recarga la página.",
		})
	case SpeechErrNoSpeech:
		// One silent retry before nagging.
		if !s.noSpeechRetried {
			s.noSpeechRetried = true
			s.toListeningLocked()
			return
		}
		prompt := "No te he oído."
		if s.lastQuestion != "" {
			prompt += " " + s.lastQuestion
		}
		s.speakLocked(ctx, prompt)
	case SpeechErrAborted:
		// Deliberate cancellation, usually our own barge-in handling.
	default:
		s.toListeningLocked()
	}
}

// HandlePlaybackDone is the client's acknowledgement that the numbered
// utterance finished playing. Stale numbers are ignored.
func (s *Session) HandlePlaybackDone(utterance int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finishUtteranceLocked(utterance)
}

// Reset wipes the trip and starts the bootstrap over. The only legal
// backwards phase transition.
func (s *Session) Reset(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.cfg.Disabled {
		return
	}
	s.state.Reset()
	s.bootOrigin = ""
	s.visible = nil
	s.history = nil
	s.announcedRouteKey = ""
	s.phase = PhaseAskingOrigin
	if s.cfg.Store != nil {
		if err := s.cfg.Store.Delete(ctx, s.id); err != nil {
			s.log.Warn("session delete failed", "error", err)
		}
	}
	s.speakLocked(ctx, "Empezamos de cero. ¿Desde qué ciudad sales?")
}

func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.speakTimer != nil {
		s.speakTimer.Stop()
		s.speakTimer = nil
	}
}

// Phase reports the current phase; used by tests and diagnostics.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// ---- bootstrap phase machine ----

func (s *Session) bootstrapTurn(ctx context.Context, transcript string) string {
	if origin, dest, ok := nlu.ParseFullRoute(transcript); ok {
		return s.proposeRoute(origin, dest)
	}

	switch s.phase {
	case PhaseAskingOrigin:
		if city := shortCity(transcript); city != "" {
			s.bootOrigin = city
			s.advancePhase(PhaseAskingDest)
			return "Saliendo desde " + city + ". ¿A dónde quieres ir?"
		}
		return "No he entendido bien. ¿Desde qué ciudad sales?"

	case PhaseAskingDest:
		if city := shortCity(transcript); city != "" {
			return s.proposeRoute(s.bootOrigin, city)
		}
		return "¿A qué ciudad quieres ir?"

	case PhaseAskingWaypoints:
		if nlu.IsNegative(transcript) {
			return s.performRoute(ctx, s.state.PendingOrigin, s.state.PendingDestination, nil)
		}
		stop := nlu.ExtractStopCity(transcript)
		if stop == "" {
			stop = shortCity(transcript)
		}
		if stop != "" {
			return s.performRoute(ctx, s.state.PendingOrigin, s.state.PendingDestination, []string{stop})
		}
		return "¿Quieres parar en alguna ciudad de camino? Di el nombre, o di directo."
	}
	return "No te he entendido bien. ¿Puedes repetirlo?"
}

// proposeRoute parks origin/destination as pending and asks about stops.
func (s *Session) proposeRoute(origin, dest string) string {
	s.state.PendingOrigin = origin
	s.state.PendingDestination = dest
	s.state.MarkAskedStops(dest)
	s.advancePhase(PhaseAskingWaypoints)
	return fmt.Sprintf("De %s a %s. ¿Vamos directos o quieres parar en algún sitio?", origin, dest)
}

// shortCity accepts up to four words of non-question text as a city name.
func shortCity(transcript string) string {
	if strings.ContainsAny(transcript, "¿?") || len(strings.Fields(transcript)) > 4 {
		return ""
	}
	if nlu.IsNegative(transcript) {
		return ""
	}
	return nlu.ExtractCity(transcript)
}

// ---- active phase ----

func (s *Session) activeTurn(ctx context.Context, transcript string) string {
	tc := s.tripContext()
	res := s.cfg.Agent.Resolve(ctx, transcript, tc, s.history)
	return s.execute(ctx, res)
}

func (s *Session) tripContext() nlu.TripContext {
	tc := nlu.TripContext{
		PendingOrigin:      s.state.PendingOrigin,
		PendingDestination: s.state.PendingDestination,
		Waypoints:          s.state.WaypointNames(),
		DepartureTime:      s.state.DepartureTime,
		AddedStops:         s.state.AddedStops,
		VisiblePOIs:        s.visible,
		AllPOIs:            s.catalog,
		Filters:            s.state.Filters,
		LastQuestion:       s.lastQuestion,
	}
	if s.state.Origin != nil {
		tc.OriginName = s.state.Origin.Name
	} else {
		tc.OriginName = s.bootOrigin
	}
	if s.state.Destination != nil {
		tc.DestinationName = s.state.Destination.Name
	}
	if s.state.Route != nil {
		tc.RouteDistanceMeters = s.state.Route.DistanceMeters
		tc.RouteDurationSeconds = s.state.Route.DurationSeconds
	}
	return tc
}

// ---- speaking / listening ----

func (s *Session) speakLocked(ctx context.Context, text string) {
	if text == "" {
		s.setStatus(StatusIdle)
		s.toListeningLocked()
		return
	}

	s.utteranceSeq++
	seq := s.utteranceSeq
	s.pendingUtterance = seq
	if s.speakTimer != nil {
		s.speakTimer.Stop()
	}

	s.setStatus(StatusSpeaking)
	s.lastQuestion = text

	var audio []byte
	if s.cfg.Synth != nil {
		var err error
		if audio, err = s.cfg.Synth.Synthesize(ctx, text); err != nil {
			s.log.Warn("tts failed", "error", err)
		}
	}

	s.sink.Send(Event{Type: EventSpeak, Utterance: seq, Text: text, Audio: audio})

	timeout := speakBaseTimeout + time.Duration(len([]rune(text)))*speakPerRune
	s.speakTimer = time.AfterFunc(timeout, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.finishUtteranceLocked(seq)
	})
}

func (s *Session) finishUtteranceLocked(seq int64) {
	if s.closed || seq == 0 || seq != s.pendingUtterance {
		return
	}
	s.pendingUtterance = 0
	if s.speakTimer != nil {
		s.speakTimer.Stop()
		s.speakTimer = nil
	}
	s.setStatus(StatusIdle)

	time.AfterFunc(relistenDelay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.closed || s.status != StatusIdle || s.pendingUtterance != 0 {
			return
		}
		s.toListeningLocked()
	})
}

func (s *Session) toListeningLocked() {
	if s.closed || s.cfg.Disabled {
		return
	}
	s.setStatus(StatusListening)
	s.sink.Send(Event{Type: EventListen})
}

func (s *Session) setStatus(st Status) {
	if s.status == st {
		return
	}
	s.status = st
	s.sink.Send(Event{Type: EventState, Status: st})
}

// ---- history & persistence ----

func (s *Session) appendHistory(role, text string) {
	s.history = append(s.history, ai.Turn{Role: role, Text: text})
	if len(s.history) > 20 {
		s.history = s.history[len(s.history)-20:]
	}
}

func (s *Session) persist(ctx context.Context) {
	if s.cfg.Store == nil {
		return
	}
	snap := &session.Snapshot{
		Phase:              string(s.phase),
		PendingOrigin:      s.state.PendingOrigin,
		PendingDestination: s.state.PendingDestination,
		Waypoints:          s.state.WaypointNames(),
		Filters:            s.state.Filters,
		DepartureTime:      s.state.DepartureTime,
		AskedStopsFor:      s.state.AskedStopsList(),
		LastQuestion:       s.lastQuestion,
		History:            append([]ai.Turn(nil), s.history...),
	}
	if s.state.Origin != nil {
		snap.OriginName = s.state.Origin.Name
	} else {
		snap.OriginName = s.bootOrigin
	}
	if s.state.Destination != nil {
		snap.DestinationName = s.state.Destination.Name
	}
	for _, p := range s.state.AddedStops {
		snap.AddedStopIDs = append(snap.AddedStopIDs, p.ID)
	}

	if err := s.cfg.Store.Save(ctx, s.id, snap); err != nil {
		s.log.Warn("session persist failed", "error", err)
	}
}

// restore rebuilds conversation state from a snapshot. The route itself is
// not persisted; it is recalculated lazily on the next route action.
func (s *Session) restore(ctx context.Context, snap *session.Snapshot) {
	switch Phase(snap.Phase) {
	case PhaseAskingDest, PhaseAskingWaypoints, PhaseActive:
		s.phase = Phase(snap.Phase)
	default:
		s.phase = PhaseAskingOrigin
	}
	s.bootOrigin = snap.OriginName
	s.state.PendingOrigin = snap.PendingOrigin
	s.state.PendingDestination = snap.PendingDestination
	s.state.Filters = snap.Filters
	s.state.DepartureTime = snap.DepartureTime
	s.state.RestoreAskedStops(snap.AskedStopsFor)
	s.lastQuestion = snap.LastQuestion
	s.history = snap.History

	for _, id := range snap.AddedStopIDs {
		if p, err := s.cfg.POIs.Get(ctx, id); err == nil {
			s.state.AddedStops = append(s.state.AddedStops, p)
		}
	}

	// An active snapshot without pending legs still needs the route
	// itself rebuilt before route-dependent actions work again.
	if s.phase == PhaseActive && snap.OriginName != "" && snap.DestinationName != "" && !s.state.HasPending() {
		s.state.PendingOrigin = snap.OriginName
		s.state.PendingDestination = snap.DestinationName
	}
}
