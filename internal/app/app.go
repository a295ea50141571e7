package app

import (
	"context"

	"github.com/quickfixlabs/voicedemo/internal/config"
	"github.com/quickfixlabs/voicedemo/internal/domains/booking"
	"github.com/quickfixlabs/voicedemo/internal/domains/demo"
	"github.com/quickfixlabs/voicedemo/internal/domains/knowledge"
	"github.com/quickfixlabs/voicedemo/internal/domains/persona"
	"github.com/quickfixlabs/voicedemo/internal/domains/session"
	"github.com/quickfixlabs/voicedemo/internal/server"
	"github.com/quickfixlabs/voicedemo/pkg/Logger"
	"github.com/quickfixlabs/voicedemo/pkg/assistant"
)

// App represents the application with all its dependencies
type App struct {
	Config       *config.Settings
	Logger       *Logger.Logger
	Completer    assistant.Completer
	Orchestrator *demo.Orchestrator
	Knowledge    *knowledge.Service
	ServerDeps   server.Dependencies
}

// NewApp wires every service once per process. The external clients (LLM,
// room service, calendar) are constructed here and handed to the components
// that need them, so tests can substitute doubles at the same seams.
func NewApp(ctx context.Context, cfg *config.Settings, logger *Logger.Logger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	if err := app.setupDependencies(ctx); err != nil {
		return nil, err
	}

	return app, nil
}

func (a *App) setupDependencies(ctx context.Context) error {
	// 1. Completion provider shared by persona generation and company Q&A.
	completer, err := assistant.New(ctx, a.Config.LLM)
	if err != nil {
		return err
	}
	a.Completer = completer

	// 2. Calendar client. A missing credential is reported now and again
	// on every booking attempt, but it does not block the rest of the demo.
	events, err := booking.NewCalendarInserter(ctx, a.Config.Calendar)
	if err != nil {
		a.Logger.Warnf("calendar unavailable, bookings will fail: %v", err)
		events = nil
	}

	synthesizer := persona.NewSynthesizer(completer, a.Config.LLM.Temperature, a.Logger.Named("persona"))
	broker := session.NewBroker(session.NewRoomServiceClient(a.Config.LiveKit), a.Config.LiveKit, a.Logger.Named("session"))
	engine := booking.NewEngine(events, a.Config.Calendar, a.Logger.Named("booking"))

	a.Orchestrator = demo.NewOrchestrator(synthesizer, broker, engine, a.Config.Demo, a.Logger.Named("demo"))

	a.Knowledge, err = knowledge.NewService(a.Config.Demo.KnowledgeFile, completer, a.Logger.Named("knowledge"))
	if err != nil {
		return err
	}

	a.ServerDeps = server.NewServerDependencies(a.Orchestrator, a.Knowledge, a.Logger)
	return nil
}
