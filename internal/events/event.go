// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"roadsaver_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var (
	NewBaseEvent   = events.NewBaseEvent
	NewBaseEventAt = events.NewBaseEventAt
)

// Event names, shared by publishers and subscribers.
const (
	NameRequestSubmitted     = "requests.submitted"
	NameEmployeeAssigned     = "requests.employee_assigned"
	NameQuoteSent            = "requests.quote_sent"
	NameQuoteRevised         = "requests.quote_revised"
	NameEmployeeBlacklisted  = "requests.employee_blacklisted"
	NameNoEmployeesAvailable = "requests.no_employees"
	NameRequestAccepted      = "requests.accepted"
	NameEmployeeMoved        = "requests.employee_moved"
	NameEmployeeArrived      = "requests.employee_arrived"
	NameRequestCompleted     = "requests.completed"
	NameRequestCancelled     = "requests.cancelled"
)

// RequestScoped is implemented by every request event so subscribers can
// route them without a type switch.
type RequestScoped interface {
	Event
	Request() (uuid.UUID, string)
}

// RequestRef identifies the request and its owner.
type RequestRef struct {
	RequestID uuid.UUID `json:"requestId"`
	Username  string    `json:"username"`
}

// Request returns the request id and the submitting username.
func (r RequestRef) Request() (uuid.UUID, string) { return r.RequestID, r.Username }

// =============================================================================
// Requests Domain Events
// =============================================================================

// RequestSubmitted is published when a user files a new service request.
type RequestSubmitted struct {
	BaseEvent
	RequestRef
	ServiceType string  `json:"serviceType"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
}

func (e RequestSubmitted) EventName() string { return NameRequestSubmitted }

// EmployeeAssigned is published when a simulated employee picks up a request.
type EmployeeAssigned struct {
	BaseEvent
	RequestRef
	EmployeeName string `json:"employeeName"`
}

func (e EmployeeAssigned) EventName() string { return NameEmployeeAssigned }

// QuoteSent is published when the assigned employee sends the initial quote.
type QuoteSent struct {
	BaseEvent
	RequestRef
	EmployeeName string `json:"employeeName"`
	PriceCents   int64  `json:"priceCents"`
}

func (e QuoteSent) EventName() string { return NameQuoteSent }

// QuoteRevised is published when the employee answers a first decline with a lower price.
type QuoteRevised struct {
	BaseEvent
	RequestRef
	EmployeeName  string `json:"employeeName"`
	PreviousCents int64  `json:"previousCents"`
	PriceCents    int64  `json:"priceCents"`
}

func (e QuoteRevised) EventName() string { return NameQuoteRevised }

// EmployeeBlacklisted is published when a user declines the same employee twice.
type EmployeeBlacklisted struct {
	BaseEvent
	RequestRef
	EmployeeName string `json:"employeeName"`
	Declines     int    `json:"declines"`
}

func (e EmployeeBlacklisted) EventName() string { return NameEmployeeBlacklisted }

// NoEmployeesAvailable is published when every employee is busy or blacklisted.
type NoEmployeesAvailable struct {
	BaseEvent
	RequestRef
	Reason string `json:"reason"`
}

func (e NoEmployeesAvailable) EventName() string { return NameNoEmployeesAvailable }

// RequestAccepted is published when the user accepts a quote and the employee sets off.
type RequestAccepted struct {
	BaseEvent
	RequestRef
	EmployeeName string  `json:"employeeName"`
	PriceCents   int64   `json:"priceCents"`
	EtaSeconds   int     `json:"etaSeconds"`
	ETA          string  `json:"eta"`
	EmployeeLat  float64 `json:"employeeLat"`
	EmployeeLng  float64 `json:"employeeLng"`
}

func (e RequestAccepted) EventName() string { return NameRequestAccepted }

// EmployeeMoved is published on every simulation tick while the employee travels.
type EmployeeMoved struct {
	BaseEvent
	RequestRef
	EmployeeName     string  `json:"employeeName"`
	Lat              float64 `json:"lat"`
	Lng              float64 `json:"lng"`
	Geohash          string  `json:"geohash"`
	RemainingSeconds int     `json:"remainingSeconds"`
	ETA              string  `json:"eta"`
}

func (e EmployeeMoved) EventName() string { return NameEmployeeMoved }

// EmployeeArrived is published when the employee reaches the user.
type EmployeeArrived struct {
	BaseEvent
	RequestRef
	EmployeeName string  `json:"employeeName"`
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
}

func (e EmployeeArrived) EventName() string { return NameEmployeeArrived }

// RequestCompleted is published once the service is finished.
type RequestCompleted struct {
	BaseEvent
	RequestRef
	EmployeeName    string `json:"employeeName"`
	ServiceType     string `json:"serviceType"`
	PriceCents      int64  `json:"priceCents"`
	ServiceFeeCents int64  `json:"serviceFeeCents"`
	TotalCents      int64  `json:"totalCents"`
}

func (e RequestCompleted) EventName() string { return NameRequestCompleted }

// RequestCancelled is published when the user abandons an unfinished request.
type RequestCancelled struct {
	BaseEvent
	RequestRef
	PreviousStatus string `json:"previousStatus"`
}

func (e RequestCancelled) EventName() string { return NameRequestCancelled }
