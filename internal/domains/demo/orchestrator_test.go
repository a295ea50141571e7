package demo

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/livekit/protocol/livekit"
	"google.golang.org/api/calendar/v3"

	"github.com/quickfixlabs/voicedemo/internal/config"
	"github.com/quickfixlabs/voicedemo/internal/domains/booking"
	"github.com/quickfixlabs/voicedemo/internal/domains/persona"
	"github.com/quickfixlabs/voicedemo/internal/domains/session"
	"github.com/quickfixlabs/voicedemo/internal/faults"
	"github.com/quickfixlabs/voicedemo/pkg/Logger"
	"github.com/quickfixlabs/voicedemo/pkg/assistant"
)

const validPersonaJSON = `{"name":"Margaret Hill","age":58,"issue":"flooded basement","emotion":"furious","priority":9}`

type fakeCompleter struct {
	response string
	err      error
}

func (f *fakeCompleter) Complete(_ context.Context, _ assistant.Request) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *fakeCompleter) Name() string { return "fake" }

type fakeRoomCreator struct {
	calls int
}

func (f *fakeRoomCreator) CreateRoom(_ context.Context, req *livekit.CreateRoomRequest) (*livekit.Room, error) {
	f.calls++
	return &livekit.Room{Name: req.Name}, nil
}

type fakeInserter struct {
	calls int
	event *calendar.Event
	err   error
}

func (f *fakeInserter) Insert(_ context.Context, _ string, event *calendar.Event) (*calendar.Event, error) {
	f.calls++
	f.event = event
	if f.err != nil {
		return nil, f.err
	}
	return &calendar.Event{HtmlLink: "https://calendar.google.com/event?eid=abc123"}, nil
}

type orchestratorFixture struct {
	orchestrator *Orchestrator
	completer    *fakeCompleter
	rooms        *fakeRoomCreator
	inserter     *fakeInserter
}

func newFixture() *orchestratorFixture {
	logger := Logger.New(true)
	completer := &fakeCompleter{response: validPersonaJSON}
	rooms := &fakeRoomCreator{}
	inserter := &fakeInserter{}

	lkCfg := config.LiveKitConfig{
		URL:           "wss://demo.livekit.cloud",
		APIKey:        "apikey",
		APISecret:     "apisecret-apisecret-apisecret-32",
		TokenTTLHours: 24,
	}
	demoCfg := config.DemoConfig{
		BusinessType: "plumbing",
		Location:     "London",
		Complaint:    "waited three hours for an emergency callout",
		Address:      "1 Example St, London",
		Service:      "Plumbing",
	}

	return &orchestratorFixture{
		orchestrator: NewOrchestrator(
			persona.NewSynthesizer(completer, 0.7, logger),
			session.NewBroker(rooms, lkCfg, logger),
			booking.NewEngine(inserter, config.CalendarConfig{CalendarID: "primary", TimeZone: "Europe/London"}, logger),
			demoCfg,
			logger,
		),
		completer: completer,
		rooms:     rooms,
		inserter:  inserter,
	}
}

func TestStartSessionHappyPath(t *testing.T) {
	fix := newFixture()

	result, err := fix.orchestrator.StartSession(context.Background(), "", "")
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}

	if result.Persona.Priority < 1 || result.Persona.Priority > 10 {
		t.Errorf("persona priority out of range: %d", result.Persona.Priority)
	}
	if !regexp.MustCompile(`^demo-\d+$`).MatchString(result.RoomName) {
		t.Errorf("room name %q does not match demo-<digits>", result.RoomName)
	}
	if result.Token == "" || result.URL == "" {
		t.Error("expected non-empty token and transport url")
	}
	if result.PersonaRaw != validPersonaJSON {
		t.Errorf("raw persona should pass through, got %q", result.PersonaRaw)
	}

	sess, ok := fix.orchestrator.Lookup(result.SessionID)
	if !ok {
		t.Fatal("session not tracked after start")
	}
	if sess.State() != StateVoiceReady {
		t.Errorf("expected state %s, got %s", StateVoiceReady, sess.State())
	}
}

func TestStartSessionBadCompletionCreatesNoRoom(t *testing.T) {
	fix := newFixture()
	fix.completer.response = "I'm sorry, I can't help with that."

	_, err := fix.orchestrator.StartSession(context.Background(), "", "")
	if !errors.Is(err, faults.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if fix.rooms.calls != 0 {
		t.Errorf("no room may be created when the persona is unusable, got %d calls", fix.rooms.calls)
	}
}

func TestStartSessionUpstreamFailureLeavesNoSession(t *testing.T) {
	fix := newFixture()
	fix.completer.err = faults.Upstreamf("rate limited")

	_, err := fix.orchestrator.StartSession(context.Background(), "", "")
	if !errors.Is(err, faults.ErrUpstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if len(fix.orchestrator.sessions) != 0 {
		t.Errorf("expected no tracked sessions, got %d", len(fix.orchestrator.sessions))
	}
}

func TestRequestBookingFillsFromPersona(t *testing.T) {
	fix := newFixture()

	result, err := fix.orchestrator.StartSession(context.Background(), "", "")
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}

	b, err := fix.orchestrator.RequestBooking(context.Background(), result.SessionID, booking.Request{})
	if err != nil {
		t.Fatalf("RequestBooking failed: %v", err)
	}
	if b.Pricing.Total() != 170 {
		t.Errorf("expected total 170, got %d", b.Pricing.Total())
	}

	desc := fix.inserter.event.Description
	for _, want := range []string{"Margaret Hill", "flooded basement"} {
		if !strings.Contains(desc, want) {
			t.Errorf("event description should carry persona fields, missing %q: %q", want, desc)
		}
	}

	sess, _ := fix.orchestrator.Lookup(result.SessionID)
	if sess.State() != StateBooked {
		t.Errorf("expected state %s, got %s", StateBooked, sess.State())
	}
}

func TestRequestBookingWithoutSession(t *testing.T) {
	fix := newFixture()

	_, err := fix.orchestrator.RequestBooking(context.Background(), uuid.Nil, booking.Request{})
	if !errors.Is(err, faults.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if fix.inserter.calls != 0 {
		t.Errorf("expected no calendar call, got %d", fix.inserter.calls)
	}
}

func TestRequestBookingRepeatedIsAllowed(t *testing.T) {
	// There is no at-most-one-booking limit; each call makes an independent
	// calendar event.
	fix := newFixture()

	result, _ := fix.orchestrator.StartSession(context.Background(), "", "")
	for i := 0; i < 3; i++ {
		if _, err := fix.orchestrator.RequestBooking(context.Background(), result.SessionID, booking.Request{}); err != nil {
			t.Fatalf("booking %d failed: %v", i, err)
		}
	}
	if fix.inserter.calls != 3 {
		t.Errorf("expected 3 calendar events, got %d", fix.inserter.calls)
	}
}

func TestRequestBookingFailureKeepsState(t *testing.T) {
	fix := newFixture()
	fix.inserter.err = errors.New("calendar down")

	result, _ := fix.orchestrator.StartSession(context.Background(), "", "")
	_, err := fix.orchestrator.RequestBooking(context.Background(), result.SessionID, booking.Request{})
	if !errors.Is(err, faults.ErrUpstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}

	sess, _ := fix.orchestrator.Lookup(result.SessionID)
	if sess.State() != StateVoiceReady {
		t.Errorf("failed booking must leave the session in %s, got %s", StateVoiceReady, sess.State())
	}
}

func TestEndSessionIdempotent(t *testing.T) {
	fix := newFixture()

	result, _ := fix.orchestrator.StartSession(context.Background(), "", "")
	fix.orchestrator.EndSession(result.SessionID)
	if _, ok := fix.orchestrator.Lookup(result.SessionID); ok {
		t.Error("session should be discarded after EndSession")
	}

	// Second call and unknown ids are no-ops.
	fix.orchestrator.EndSession(result.SessionID)
	fix.orchestrator.EndSession(uuid.New())

	// Booking after the session is gone is rejected.
	if _, err := fix.orchestrator.RequestBooking(context.Background(), result.SessionID, booking.Request{}); !errors.Is(err, faults.ErrValidation) {
		t.Errorf("expected validation error after end, got %v", err)
	}
}
