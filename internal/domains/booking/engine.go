package booking

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/quickfixlabs/voicedemo/internal/config"
	"github.com/quickfixlabs/voicedemo/internal/faults"
	"github.com/quickfixlabs/voicedemo/pkg/Logger"
)

// referenceQuote is the demo's placeholder pricing. A real implementation
// would derive travel fee and distance from a maps API.
var referenceQuote = Quote{
	BasePrice:    150,
	TravelFee:    20,
	DistanceText: "5.2 miles",
	DurationText: "15 minutes",
}

// EventInserter is the slice of the calendar API the engine uses.
type EventInserter interface {
	Insert(ctx context.Context, calendarID string, event *calendar.Event) (*calendar.Event, error)
}

// Engine computes a quote and creates one calendar event per booking.
// Bookings model an urgent slot: start one hour out, end two hours out.
type Engine struct {
	events     EventInserter
	calendarID string
	timeZone   string
	now        func() time.Time
	logger     *Logger.Logger
}

func NewEngine(events EventInserter, cfg config.CalendarConfig, logger *Logger.Logger) *Engine {
	return &Engine{
		events:     events,
		calendarID: cfg.CalendarID,
		timeZone:   cfg.TimeZone,
		now:        time.Now,
		logger:     logger,
	}
}

// CreateBooking inserts a calendar event for the request and returns the
// booking with the event's shareable link. Calendar misconfiguration is
// caught before any network call; an upstream failure leaves no partial
// booking state and is never retried.
func (e *Engine) CreateBooking(ctx context.Context, req Request) (*Booking, error) {
	if e.events == nil || e.calendarID == "" {
		return nil, faults.Configurationf("calendar credentials or calendar id are not configured")
	}

	start := e.now().Add(1 * time.Hour)
	end := e.now().Add(2 * time.Hour)

	event := &calendar.Event{
		Summary:     fmt.Sprintf("Emergency %s", req.Service),
		Location:    req.Address,
		Description: fmt.Sprintf("Customer: %s\nIssue: %s\nPriority: HIGH", req.CustomerName, req.Issue),
		Start: &calendar.EventDateTime{
			DateTime: start.Format(time.RFC3339),
			TimeZone: e.timeZone,
		},
		End: &calendar.EventDateTime{
			DateTime: end.Format(time.RFC3339),
			TimeZone: e.timeZone,
		},
	}

	created, err := e.events.Insert(ctx, e.calendarID, event)
	if err != nil {
		return nil, faults.Upstreamf("calendar event creation failed: %v", err)
	}

	e.logger.Infof("booked %s for %s at %s", event.Summary, req.CustomerName, start.Format(time.RFC3339))
	return &Booking{
		URL:             created.HtmlLink,
		AppointmentTime: start,
		Pricing:         referenceQuote,
	}, nil
}

type calendarInserter struct {
	svc *calendar.Service
}

func (c calendarInserter) Insert(ctx context.Context, calendarID string, event *calendar.Event) (*calendar.Event, error) {
	return c.svc.Events.Insert(calendarID, event).Context(ctx).Do()
}

// NewCalendarInserter builds the real Google Calendar client from a service
// account credentials file. Missing credentials fail here, at startup.
func NewCalendarInserter(ctx context.Context, cfg config.CalendarConfig) (EventInserter, error) {
	if cfg.CredentialsFile == "" {
		return nil, faults.Configurationf("calendar credentials file is not configured")
	}
	svc, err := calendar.NewService(ctx,
		option.WithCredentialsFile(cfg.CredentialsFile),
		option.WithScopes(calendar.CalendarScope),
	)
	if err != nil {
		return nil, faults.Configurationf("calendar service init failed: %v", err)
	}
	return calendarInserter{svc: svc}, nil
}
