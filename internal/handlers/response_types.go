package handlers

// Request/response wrapper types for the demo API.

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error" example:"Something went wrong"`
	Details string `json:"details,omitempty" example:"Validation error details"`
}

// StartDemoRequest represents the optional demo parameters
type StartDemoRequest struct {
	BusinessType string `json:"business_type" example:"plumbing"`
	Location     string `json:"location" example:"London"`
}

// StartDemoResponse represents a successfully started demo session
type StartDemoResponse struct {
	Success   bool   `json:"success" example:"true"`
	SessionID string `json:"session_id"`
	// Persona is the raw JSON persona string as produced by the LLM.
	Persona    string `json:"persona"`
	RoomName   string `json:"room_name" example:"demo-1756600000000000000"`
	Token      string `json:"token"`
	LiveKitURL string `json:"livekit_url" example:"wss://demo.livekit.cloud"`
}

// BookAppointmentRequest represents the booking fields; empty fields are
// filled from the active persona and demo defaults
type BookAppointmentRequest struct {
	SessionID    string `json:"session_id,omitempty"`
	CustomerName string `json:"customer_name" example:"Jane Doe"`
	Issue        string `json:"issue" example:"burst pipe"`
	Address      string `json:"address" example:"1 Example St"`
	Service      string `json:"service" example:"Emergency Plumbing"`
}

// PricingResponse represents the pricing breakdown of a booking
type PricingResponse struct {
	BasePrice    int    `json:"base_price" example:"150"`
	TravelFee    int    `json:"travel_fee" example:"20"`
	TotalPrice   int    `json:"total_price" example:"170"`
	DistanceText string `json:"distance_text" example:"5.2 miles"`
	DurationText string `json:"duration_text" example:"15 minutes"`
}

// BookAppointmentResponse represents a confirmed booking
type BookAppointmentResponse struct {
	Success         bool            `json:"success" example:"true"`
	BookingURL      string          `json:"booking_url"`
	AppointmentTime string          `json:"appointment_time" example:"2026-08-31T15:04:05Z"`
	Pricing         PricingResponse `json:"pricing"`
}

// AskCompanyRequest represents a free-text company question
type AskCompanyRequest struct {
	Question string `json:"question" binding:"required" example:"Do you handle emergency callouts?"`
}

// AskCompanyResponse represents a knowledge-base answer
type AskCompanyResponse struct {
	Answer string `json:"answer"`
	Source string `json:"source" example:"company_rag"`
}

// EndDemoRequest names the session to tear down
type EndDemoRequest struct {
	SessionID string `json:"session_id" binding:"required"`
}

// EndDemoResponse acknowledges the teardown
type EndDemoResponse struct {
	Success bool `json:"success" example:"true"`
}
