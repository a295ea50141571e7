package booking

import "time"

// Request carries the caller-supplied booking fields. Empty fields are
// filled from the active persona and demo defaults by the orchestrator.
type Request struct {
	CustomerName string
	Issue        string
	Address      string
	Service      string
}

// Quote is the fixed pricing breakdown attached to a booking. The distance
// and duration labels are canned values standing in for a real distance
// lookup; nothing here is computed from the address.
type Quote struct {
	BasePrice    int
	TravelFee    int
	DistanceText string
	DurationText string
}

// Total is the only way a total price is ever produced, so it cannot drift
// from base + travel.
func (q Quote) Total() int {
	return q.BasePrice + q.TravelFee
}

// Booking is a finalized appointment: the calendar link, the appointment
// start, and the pricing. Never mutated after creation.
type Booking struct {
	URL             string
	AppointmentTime time.Time
	Pricing         Quote
}
