package transport

import (
	"time"

	"roadsaver_backend/internal/requests/domain"

	"github.com/google/uuid"
)

// SubmitRequest files a new roadside request.
type SubmitRequest struct {
	Username    string  `json:"username" validate:"required,min=1,max=64"`
	ServiceType string  `json:"serviceType" validate:"required,servicetype"`
	Message     string  `json:"message" validate:"max=500"`
	Lat         float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lng         float64 `json:"lng" validate:"gte=-180,lte=180"`
}

// ActionRequest identifies the user answering a quote or cancelling.
type ActionRequest struct {
	Username string `json:"username" validate:"required,min=1,max=64"`
}

// ActiveQuery selects the user whose current request is returned.
type ActiveQuery struct {
	Username string `form:"username" validate:"required,min=1,max=64"`
}

// EmployeeResponse is the employee handling a request.
type EmployeeResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// RequestResponse is a request as returned by the API.
type RequestResponse struct {
	ID                 uuid.UUID         `json:"id"`
	Username           string            `json:"username"`
	ServiceType        string            `json:"serviceType"`
	Message            string            `json:"message"`
	Status             string            `json:"status"`
	UserLocation       domain.Location   `json:"userLocation"`
	Employee           *EmployeeResponse `json:"employee,omitempty"`
	EmployeeLocation   *domain.Location  `json:"employeeLocation,omitempty"`
	QuoteCents         int64             `json:"quoteCents,omitempty"`
	OriginalQuoteCents int64             `json:"originalQuoteCents,omitempty"`
	Quote              string            `json:"quote,omitempty"`
	Revised            bool              `json:"revised"`
	AcceptedCents      int64             `json:"acceptedCents,omitempty"`
	ServiceFeeCents    int64             `json:"serviceFeeCents"`
	Blacklist          []string          `json:"blacklist"`
	Declines           map[string]int    `json:"declines"`
	EtaSeconds         int               `json:"etaSeconds,omitempty"`
	ETA                string            `json:"eta,omitempty"`
	DeclineReason      string            `json:"declineReason,omitempty"`
	CreatedAt          time.Time         `json:"createdAt"`
	UpdatedAt          time.Time         `json:"updatedAt"`
	FinishedAt         *time.Time        `json:"finishedAt,omitempty"`
}

// QuoteSnapshotResponse is the stored copy of a request's latest quote.
type QuoteSnapshotResponse struct {
	RequestID          uuid.UUID `json:"requestId"`
	EmployeeName       string    `json:"employeeName"`
	ServiceType        string    `json:"serviceType"`
	PriceCents         int64     `json:"priceCents"`
	OriginalPriceCents int64     `json:"originalPriceCents"`
	Price              string    `json:"price"`
	Revised            bool      `json:"revised"`
	QuotedAt           time.Time `json:"quotedAt"`
}

// ServiceTypeResponse describes a service that can be requested.
type ServiceTypeResponse struct {
	Slug           string `json:"slug"`
	BasePriceCents int64  `json:"basePriceCents"`
	BasePrice      string `json:"basePrice"`
	DefaultMessage string `json:"defaultMessage"`
}

// ToRequestResponse maps a domain request to its API shape.
func ToRequestResponse(r domain.Request) RequestResponse {
	resp := RequestResponse{
		ID:                 r.ID,
		Username:           r.Username,
		ServiceType:        string(r.ServiceType),
		Message:            r.Message,
		Status:             string(r.Status),
		UserLocation:       r.UserLocation,
		EmployeeLocation:   r.EmployeeLocation,
		QuoteCents:         int64(r.QuoteCents),
		OriginalQuoteCents: int64(r.OriginalQuoteCents),
		Revised:            r.Revised,
		AcceptedCents:      int64(r.AcceptedCents),
		ServiceFeeCents:    int64(domain.ServiceFee),
		Blacklist:          r.Blacklist,
		Declines:           r.Declines,
		EtaSeconds:         r.EtaSeconds,
		ETA:                r.ETA,
		DeclineReason:      r.DeclineReason,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
		FinishedAt:         r.FinishedAt,
	}
	if r.QuoteCents > 0 {
		resp.Quote = r.QuoteCents.String()
	}
	if r.Employee != nil {
		resp.Employee = &EmployeeResponse{ID: r.Employee.ID, Name: r.Employee.Name}
	}
	if resp.Blacklist == nil {
		resp.Blacklist = []string{}
	}
	if resp.Declines == nil {
		resp.Declines = map[string]int{}
	}
	return resp
}

// ToQuoteSnapshotResponse maps a stored quote to its API shape.
func ToQuoteSnapshotResponse(s domain.QuoteSnapshot) QuoteSnapshotResponse {
	return QuoteSnapshotResponse{
		RequestID:          s.RequestID,
		EmployeeName:       s.EmployeeName,
		ServiceType:        string(s.ServiceType),
		PriceCents:         int64(s.PriceCents),
		OriginalPriceCents: int64(s.OriginalPriceCents),
		Price:              s.PriceCents.String(),
		Revised:            s.Revised,
		QuotedAt:           s.QuotedAt,
	}
}

// ToServiceTypeResponses lists the catalogue.
func ToServiceTypeResponses() []ServiceTypeResponse {
	types := domain.ServiceTypes()
	out := make([]ServiceTypeResponse, 0, len(types))
	for _, st := range types {
		out = append(out, ServiceTypeResponse{
			Slug:           string(st),
			BasePriceCents: int64(st.BasePrice()),
			BasePrice:      st.BasePrice().String(),
			DefaultMessage: st.DefaultMessage(),
		})
	}
	return out
}
