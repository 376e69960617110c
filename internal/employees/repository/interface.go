package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Account statuses.
const (
	StatusActive    = "active"
	StatusInactive  = "inactive"
	StatusSuspended = "suspended"
)

// DefaultRole is assigned to accounts created without a role.
const DefaultRole = "technician"

// SimulatedEmployee is a row of employee_simulation.
type SimulatedEmployee struct {
	ID             int64     `db:"id"`
	EmployeeNumber int       `db:"employee_number"`
	FullName       string    `db:"full_name"`
	CreatedAt      time.Time `db:"created_at"`
}

// Account is a real employee account managed by administrators.
type Account struct {
	ID           uuid.UUID `db:"id"`
	Username     string    `db:"username"`
	Email        string    `db:"email"`
	PhoneNumber  *string   `db:"phone_number"`
	EmployeeRole string    `db:"employee_role"`
	Status       string    `db:"status"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// CreateAccountParams holds the columns of a new account.
type CreateAccountParams struct {
	Username     string
	Email        string
	PhoneNumber  *string
	EmployeeRole string
}

// Repository defines the data access contract for employees.
type Repository interface {
	// UpsertSimulated inserts or renames simulated employees by employee number.
	UpsertSimulated(ctx context.Context, employees []SimulatedEmployee) (int, error)
	ListSimulated(ctx context.Context) ([]SimulatedEmployee, error)

	ListAccounts(ctx context.Context, status string) ([]Account, error)
	CreateAccount(ctx context.Context, params CreateAccountParams) (Account, error)
	UpdateAccountStatus(ctx context.Context, id uuid.UUID, status string) (Account, error)
}
