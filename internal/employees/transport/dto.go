package transport

import (
	"time"

	"roadsaver_backend/internal/employees/repository"

	"github.com/google/uuid"
)

type SyncQuery struct {
	DryRun bool `form:"dryRun"`
}

type ListAccountsQuery struct {
	Status string `form:"status" validate:"omitempty,oneof=active inactive suspended"`
}

type CreateAccountRequest struct {
	Username     string `json:"username" validate:"required,min=3,max=64"`
	Email        string `json:"email" validate:"required,email,max=254"`
	PhoneNumber  string `json:"phoneNumber" validate:"omitempty,max=32"`
	EmployeeRole string `json:"employeeRole" validate:"omitempty,max=64"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active inactive suspended"`
}

type SimulatedEmployeeResponse struct {
	ID             int64  `json:"id"`
	EmployeeNumber int    `json:"employeeNumber"`
	FullName       string `json:"fullName"`
}

type AccountResponse struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PhoneNumber  *string   `json:"phoneNumber,omitempty"`
	EmployeeRole string    `json:"employeeRole"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func ToSimulatedEmployeeResponses(rows []repository.SimulatedEmployee) []SimulatedEmployeeResponse {
	out := make([]SimulatedEmployeeResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, SimulatedEmployeeResponse{ID: r.ID, EmployeeNumber: r.EmployeeNumber, FullName: r.FullName})
	}
	return out
}

func ToAccountResponse(a repository.Account) AccountResponse {
	return AccountResponse{
		ID:           a.ID,
		Username:     a.Username,
		Email:        a.Email,
		PhoneNumber:  a.PhoneNumber,
		EmployeeRole: a.EmployeeRole,
		Status:       a.Status,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func ToAccountResponses(rows []repository.Account) []AccountResponse {
	out := make([]AccountResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, ToAccountResponse(r))
	}
	return out
}
