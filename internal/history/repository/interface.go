package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Table names a history table that can be pruned.
type Table string

const (
	TableUserHistory     Table = "user_history"
	TableEmployeeHistory Table = "simulated_employee_history"
)

// Row statuses in user_history.
const (
	StatusCompleted = "completed"
	StatusDeclined  = "declined"
)

// UserHistoryEntry is a row of user_history.
type UserHistoryEntry struct {
	ID              uuid.UUID `db:"id"`
	RequestID       uuid.UUID `db:"request_id"`
	Username        string    `db:"username"`
	ServiceType     string    `db:"service_type"`
	Status          string    `db:"status"`
	EmployeeName    string    `db:"employee_name"`
	PricePaidCents  int64     `db:"price_paid_cents"`
	ServiceFeeCents int64     `db:"service_fee_cents"`
	TotalPriceCents int64     `db:"total_price_cents"`
	Latitude        float64   `db:"latitude"`
	Longitude       float64   `db:"longitude"`
	Location        string    `db:"location"`
	DeclineReason   *string   `db:"decline_reason"`
	RequestDate     time.Time `db:"request_date"`
	CompletedAt     time.Time `db:"completed_at"`
}

// EmployeeHistoryEntry is a row of simulated_employee_history.
type EmployeeHistoryEntry struct {
	ID                 uuid.UUID `db:"id"`
	RequestID          uuid.UUID `db:"request_id"`
	EmployeeName       string    `db:"employee_name"`
	Username           string    `db:"username"`
	ServiceType        string    `db:"service_type"`
	AcceptedPriceCents int64     `db:"accepted_price_cents"`
	Latitude           float64   `db:"latitude"`
	Longitude          float64   `db:"longitude"`
	Location           string    `db:"location"`
	CompletedAt        time.Time `db:"completed_at"`
}

// Repository defines the data access contract for history records.
type Repository interface {
	// InsertUserHistory stores a row; inserting an existing id is a no-op.
	InsertUserHistory(ctx context.Context, e UserHistoryEntry) error
	// InsertEmployeeHistory stores a row; inserting an existing id is a no-op.
	InsertEmployeeHistory(ctx context.Context, e EmployeeHistoryEntry) error
	ListUserHistory(ctx context.Context, username string, limit int) ([]UserHistoryEntry, error)
	ListEmployeeHistory(ctx context.Context, employeeName string, limit int) ([]EmployeeHistoryEntry, error)
	// Prune deletes every row of table except the newest keep by completed_at.
	Prune(ctx context.Context, table Table, keep int) (int64, error)
}
