package demo

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/looplab/fsm"

	"github.com/quickfixlabs/voicedemo/internal/config"
	"github.com/quickfixlabs/voicedemo/internal/domains/booking"
	"github.com/quickfixlabs/voicedemo/internal/domains/persona"
	"github.com/quickfixlabs/voicedemo/internal/domains/session"
	"github.com/quickfixlabs/voicedemo/internal/faults"
	"github.com/quickfixlabs/voicedemo/pkg/Logger"
)

// Session lifecycle states.
const (
	StateIdle             = "idle"
	StatePersonaGenerated = "persona_generated"
	StateVoiceReady       = "voice_ready"
	StateBooked           = "booked"
	StateEnded            = "ended"
)

// Lifecycle events.
const (
	eventGeneratePersona = "generate_persona"
	eventIssueVoice      = "issue_voice"
	eventBook            = "book"
	eventEnd             = "end"
)

// StartResult is the atomic response of StartSession: everything a client
// needs to render the persona and drive the voice connection.
type StartResult struct {
	SessionID uuid.UUID
	Persona   *persona.Persona
	// PersonaRaw is the completion text as returned by the LLM, passed
	// through for clients that render it directly.
	PersonaRaw string
	RoomName   string
	Token      string
	URL        string
}

// Service is the demo session orchestrator's contract.
type Service interface {
	StartSession(ctx context.Context, businessType, location string) (*StartResult, error)
	RequestBooking(ctx context.Context, sessionID uuid.UUID, req booking.Request) (*booking.Booking, error)
	EndSession(sessionID uuid.UUID)
}

// Session is the orchestrator's in-memory record of one demo run. Discarded
// on EndSession; never persisted.
type Session struct {
	ID        uuid.UUID
	Persona   *persona.Persona
	Voice     *session.Session
	StartedAt time.Time
	lifecycle *fsm.FSM
}

func (s *Session) State() string { return s.lifecycle.Current() }

// Orchestrator sequences persona generation, voice session issuance, and
// booking into one session lifecycle. All state lives in process memory.
type Orchestrator struct {
	synthesizer *persona.Synthesizer
	broker      *session.Broker
	engine      *booking.Engine
	demoCfg     config.DemoConfig
	logger      *Logger.Logger

	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
	// current points at the most recently started live session; booking
	// requests that don't name a session bind to it.
	current uuid.UUID
}

func NewOrchestrator(
	synthesizer *persona.Synthesizer,
	broker *session.Broker,
	engine *booking.Engine,
	demoCfg config.DemoConfig,
	logger *Logger.Logger,
) *Orchestrator {
	return &Orchestrator{
		synthesizer: synthesizer,
		broker:      broker,
		engine:      engine,
		demoCfg:     demoCfg,
		logger:      logger,
		sessions:    make(map[uuid.UUID]*Session),
	}
}

func newLifecycle() *fsm.FSM {
	return fsm.NewFSM(
		StateIdle,
		fsm.Events{
			{Name: eventGeneratePersona, Src: []string{StateIdle}, Dst: StatePersonaGenerated},
			{Name: eventIssueVoice, Src: []string{StatePersonaGenerated}, Dst: StateVoiceReady},
			{Name: eventBook, Src: []string{StatePersonaGenerated, StateVoiceReady, StateBooked}, Dst: StateBooked},
			{Name: eventEnd, Src: []string{StateIdle, StatePersonaGenerated, StateVoiceReady, StateBooked}, Dst: StateEnded},
		},
		fsm.Callbacks{},
	)
}

// StartSession generates a persona from the configured complaint narrative,
// validates it, then issues a voice session. Persona validation happens
// before any room is created, so a bad completion leaves no orphaned room.
// Any failure aborts the whole operation with nothing to roll back.
func (o *Orchestrator) StartSession(ctx context.Context, businessType, location string) (*StartResult, error) {
	if businessType == "" {
		businessType = o.demoCfg.BusinessType
	}
	if location == "" {
		location = o.demoCfg.Location
	}
	o.logger.Infof("starting demo session: %s in %s", businessType, location)

	raw, err := o.synthesizer.GeneratePersona(ctx, o.demoCfg.Complaint)
	if err != nil {
		return nil, err
	}
	p, err := persona.Parse(raw)
	if err != nil {
		return nil, err
	}

	voice, err := o.broker.CreateSession(ctx)
	if err != nil {
		return nil, err
	}

	sess := &Session{
		ID:        uuid.New(),
		Persona:   p,
		Voice:     voice,
		StartedAt: time.Now(),
		lifecycle: newLifecycle(),
	}
	if err := sess.lifecycle.Event(ctx, eventGeneratePersona); err != nil {
		return nil, err
	}
	if err := sess.lifecycle.Event(ctx, eventIssueVoice); err != nil {
		return nil, err
	}

	o.mu.Lock()
	o.sessions[sess.ID] = sess
	o.current = sess.ID
	o.mu.Unlock()

	o.logger.Infof("session %s ready: persona %q, room %s", sess.ID, p.Name, voice.RoomName)
	return &StartResult{
		SessionID:  sess.ID,
		Persona:    p,
		PersonaRaw: raw,
		RoomName:   voice.RoomName,
		Token:      voice.Token,
		URL:        voice.URL,
	}, nil
}

// RequestBooking books an appointment for the session's persona. Valid once
// a persona exists; on failure the session stays in its current state.
// Repeated calls each create an independent calendar event; at-most-one
// booking per session is deliberately not enforced here.
func (o *Orchestrator) RequestBooking(ctx context.Context, sessionID uuid.UUID, req booking.Request) (*booking.Booking, error) {
	sess, err := o.resolve(sessionID)
	if err != nil {
		return nil, err
	}

	// Missing fields fall back to the persona and the demo defaults.
	if req.CustomerName == "" {
		req.CustomerName = sess.Persona.Name
	}
	if req.Issue == "" {
		req.Issue = sess.Persona.Issue
	}
	if req.Address == "" {
		req.Address = o.demoCfg.Address
	}
	if req.Service == "" {
		req.Service = o.demoCfg.Service
	}

	b, err := o.engine.CreateBooking(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := sess.lifecycle.Event(ctx, eventBook); err != nil {
		return nil, err
	}
	return b, nil
}

// EndSession discards the session's in-memory state. Idempotent: ending an
// unknown or already-ended session is a no-op.
func (o *Orchestrator) EndSession(sessionID uuid.UUID) {
	o.mu.Lock()
	defer o.mu.Unlock()

	sess, ok := o.sessions[sessionID]
	if !ok {
		return
	}
	_ = sess.lifecycle.Event(context.Background(), eventEnd)
	sess.Voice.Status = session.StatusEnded
	delete(o.sessions, sessionID)
	if o.current == sessionID {
		o.current = uuid.Nil
	}
	o.logger.Infof("session %s ended", sessionID)
}

// Lookup returns the live session record, if any.
func (o *Orchestrator) Lookup(sessionID uuid.UUID) (*Session, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	sess, ok := o.sessions[sessionID]
	return sess, ok
}

func (o *Orchestrator) resolve(sessionID uuid.UUID) (*Session, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if sessionID == uuid.Nil {
		sessionID = o.current
	}
	sess, ok := o.sessions[sessionID]
	if !ok || sess.Persona == nil {
		return nil, faults.Validationf("no active demo session with a persona")
	}
	return sess, nil
}
