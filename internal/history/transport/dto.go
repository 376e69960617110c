package transport

import (
	"time"

	"roadsaver_backend/internal/history/repository"

	"github.com/google/uuid"
)

// ListQuery is the query string accepted by the history listings.
type ListQuery struct {
	Limit int `form:"limit" validate:"omitempty,min=1,max=100"`
}

type UserHistoryResponse struct {
	ID              uuid.UUID `json:"id"`
	RequestID       uuid.UUID `json:"requestId"`
	ServiceType     string    `json:"serviceType"`
	Status          string    `json:"status"`
	EmployeeName    string    `json:"employeeName"`
	PricePaidCents  int64     `json:"pricePaidCents"`
	ServiceFeeCents int64     `json:"serviceFeeCents"`
	TotalPriceCents int64     `json:"totalPriceCents"`
	Location        string    `json:"location"`
	DeclineReason   *string   `json:"declineReason,omitempty"`
	RequestDate     time.Time `json:"requestDate"`
	CompletedAt     time.Time `json:"completedAt"`
}

type EmployeeHistoryResponse struct {
	ID                 uuid.UUID `json:"id"`
	RequestID          uuid.UUID `json:"requestId"`
	Username           string    `json:"username"`
	ServiceType        string    `json:"serviceType"`
	AcceptedPriceCents int64     `json:"acceptedPriceCents"`
	Location           string    `json:"location"`
	CompletedAt        time.Time `json:"completedAt"`
}

type UserHistoryListResponse struct {
	Username string                `json:"username"`
	Items    []UserHistoryResponse `json:"items"`
}

type EmployeeHistoryListResponse struct {
	EmployeeName string                    `json:"employeeName"`
	Items        []EmployeeHistoryResponse `json:"items"`
}

func ToUserHistoryList(username string, rows []repository.UserHistoryEntry) UserHistoryListResponse {
	items := make([]UserHistoryResponse, 0, len(rows))
	for _, r := range rows {
		items = append(items, UserHistoryResponse{
			ID:              r.ID,
			RequestID:       r.RequestID,
			ServiceType:     r.ServiceType,
			Status:          r.Status,
			EmployeeName:    r.EmployeeName,
			PricePaidCents:  r.PricePaidCents,
			ServiceFeeCents: r.ServiceFeeCents,
			TotalPriceCents: r.TotalPriceCents,
			Location:        r.Location,
			DeclineReason:   r.DeclineReason,
			RequestDate:     r.RequestDate,
			CompletedAt:     r.CompletedAt,
		})
	}
	return UserHistoryListResponse{Username: username, Items: items}
}

func ToEmployeeHistoryList(name string, rows []repository.EmployeeHistoryEntry) EmployeeHistoryListResponse {
	items := make([]EmployeeHistoryResponse, 0, len(rows))
	for _, r := range rows {
		items = append(items, EmployeeHistoryResponse{
			ID:                 r.ID,
			RequestID:          r.RequestID,
			Username:           r.Username,
			ServiceType:        r.ServiceType,
			AcceptedPriceCents: r.AcceptedPriceCents,
			Location:           r.Location,
			CompletedAt:        r.CompletedAt,
		})
	}
	return EmployeeHistoryListResponse{EmployeeName: name, Items: items}
}

// PruneResponse reports an admin prune. Queued prunes carry no counts.
type PruneResponse struct {
	Queued       bool  `json:"queued"`
	UserRows     int64 `json:"userRows"`
	EmployeeRows int64 `json:"employeeRows"`
}
