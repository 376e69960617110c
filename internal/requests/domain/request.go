package domain

import (
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"
)

// Employee is a simulated employee as seen by a request.
type Employee struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Request is a point-in-time view of a service request.
type Request struct {
	ID                 uuid.UUID
	Username           string
	ServiceType        ServiceType
	Message            string
	UserLocation       Location
	Status             Status
	Employee           *Employee
	QuoteCents         Cents
	OriginalQuoteCents Cents
	Revised            bool
	AcceptedCents      Cents
	Blacklist          []string
	Declines           map[string]int
	EmployeeLocation   *Location
	EtaSeconds         int
	ETA                string
	DeclineReason      string
	CreatedAt          time.Time
	UpdatedAt          time.Time
	FinishedAt         *time.Time
}

// Clone returns a deep copy that shares no mutable state with r.
func (r Request) Clone() Request {
	out := r
	if r.Employee != nil {
		emp := *r.Employee
		out.Employee = &emp
	}
	if r.EmployeeLocation != nil {
		loc := *r.EmployeeLocation
		out.EmployeeLocation = &loc
	}
	if r.FinishedAt != nil {
		at := *r.FinishedAt
		out.FinishedAt = &at
	}
	out.Blacklist = slices.Clone(r.Blacklist)
	out.Declines = maps.Clone(r.Declines)
	return out
}

// QuoteSnapshot is the stored copy of the latest price quote for a request.
type QuoteSnapshot struct {
	RequestID          uuid.UUID   `json:"requestId"`
	Username           string      `json:"username"`
	EmployeeName       string      `json:"employeeName"`
	ServiceType        ServiceType `json:"serviceType"`
	PriceCents         Cents       `json:"priceCents"`
	OriginalPriceCents Cents       `json:"originalPriceCents"`
	Revised            bool        `json:"revised"`
	QuotedAt           time.Time   `json:"quotedAt"`
}
