package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/quickfixlabs/voicedemo/internal/domains/booking"
	"github.com/quickfixlabs/voicedemo/internal/domains/demo"
	"github.com/quickfixlabs/voicedemo/internal/domains/knowledge"
	"github.com/quickfixlabs/voicedemo/internal/faults"
	"github.com/quickfixlabs/voicedemo/pkg/Logger"
)

type DemoHandler struct {
	demoService demo.Service
	knowledge   *knowledge.Service
	logger      *Logger.Logger
}

func NewDemoHandler(demoService demo.Service, knowledge *knowledge.Service, logger *Logger.Logger) *DemoHandler {
	return &DemoHandler{
		demoService: demoService,
		knowledge:   knowledge,
		logger:      logger,
	}
}

// StartDemo starts a new demo session
// @Summary Start a demo session
// @Description Generates a customer persona and issues a real-time voice session for it
// @Tags Demo
// @Accept json
// @Produce json
// @Param request body StartDemoRequest false "Optional demo parameters"
// @Success 200 {object} StartDemoResponse "Persona plus voice session credentials"
// @Failure 422 {object} ErrorResponse "Persona completion was unusable"
// @Failure 500 {object} ErrorResponse "Configuration or upstream failure"
// @Router /api/start-demo [post]
func (h *DemoHandler) StartDemo(c *gin.Context) {
	var req StartDemoRequest
	// Body is optional; both fields default from config.
	_ = c.ShouldBindJSON(&req)

	result, err := h.demoService.StartSession(c.Request.Context(), req.BusinessType, req.Location)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, StartDemoResponse{
		Success:    true,
		SessionID:  result.SessionID.String(),
		Persona:    result.PersonaRaw,
		RoomName:   result.RoomName,
		Token:      result.Token,
		LiveKitURL: result.URL,
	})
}

// BookAppointment books a service appointment for the active persona
// @Summary Book an appointment
// @Description Creates a calendar event and returns the booking with its price quote
// @Tags Demo
// @Accept json
// @Produce json
// @Param request body BookAppointmentRequest true "Booking fields"
// @Success 200 {object} BookAppointmentResponse "Confirmed booking"
// @Failure 400 {object} ErrorResponse "Invalid request data"
// @Failure 422 {object} ErrorResponse "No active demo session"
// @Failure 500 {object} ErrorResponse "Configuration or upstream failure"
// @Router /api/book-appointment [post]
func (h *DemoHandler) BookAppointment(c *gin.Context) {
	var req BookAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request data",
			Details: err.Error(),
		})
		return
	}

	sessionID := uuid.Nil
	if req.SessionID != "" {
		parsed, err := uuid.Parse(req.SessionID)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Unable to parse session id"})
			return
		}
		sessionID = parsed
	}

	b, err := h.demoService.RequestBooking(c.Request.Context(), sessionID, booking.Request{
		CustomerName: req.CustomerName,
		Issue:        req.Issue,
		Address:      req.Address,
		Service:      req.Service,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, BookAppointmentResponse{
		Success:         true,
		BookingURL:      b.URL,
		AppointmentTime: b.AppointmentTime.Format(time.RFC3339),
		Pricing: PricingResponse{
			BasePrice:    b.Pricing.BasePrice,
			TravelFee:    b.Pricing.TravelFee,
			TotalPrice:   b.Pricing.Total(),
			DistanceText: b.Pricing.DistanceText,
			DurationText: b.Pricing.DurationText,
		},
	})
}

// AskCompany answers a question from the company knowledge base
// @Summary Ask the company assistant
// @Description Answers free-text questions using the fixed company knowledge document
// @Tags Demo
// @Accept json
// @Produce json
// @Param request body AskCompanyRequest true "Question"
// @Success 200 {object} AskCompanyResponse "Grounded answer"
// @Failure 400 {object} ErrorResponse "Invalid request data"
// @Failure 500 {object} ErrorResponse "Upstream failure"
// @Router /api/ask-company [post]
func (h *DemoHandler) AskCompany(c *gin.Context) {
	var req AskCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request data",
			Details: err.Error(),
		})
		return
	}

	answer, err := h.knowledge.Ask(c.Request.Context(), req.Question)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, AskCompanyResponse{
		Answer: answer,
		Source: "company_rag",
	})
}

// EndDemo discards a demo session
// @Summary End a demo session
// @Description Discards the session's server-side state; ending twice is a no-op
// @Tags Demo
// @Accept json
// @Produce json
// @Param request body EndDemoRequest true "Session to end"
// @Success 200 {object} EndDemoResponse "Acknowledged"
// @Failure 400 {object} ErrorResponse "Invalid request data"
// @Router /api/end-demo [post]
func (h *DemoHandler) EndDemo(c *gin.Context) {
	var req EndDemoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request data",
			Details: err.Error(),
		})
		return
	}
	sessionID, err := uuid.Parse(req.SessionID)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Unable to parse session id"})
		return
	}

	h.demoService.EndSession(sessionID)
	c.JSON(http.StatusOK, EndDemoResponse{Success: true})
}

// respondError maps the error taxonomy to HTTP statuses: unusable content
// is distinguished from providers that didn't respond at all.
func (h *DemoHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, faults.ErrValidation):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
	case errors.Is(err, faults.ErrUpstream):
		h.logger.Errorf("upstream failure: %v", err)
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: err.Error()})
	case errors.Is(err, faults.ErrConfiguration):
		h.logger.Errorf("configuration failure: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	default:
		h.logger.Errorf("unexpected failure: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
	}
}
