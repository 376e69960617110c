package service

import (
	"context"
	"time"

	"roadsaver_backend/internal/requests/domain"

	"github.com/google/uuid"
)

// EmployeeSource lists simulated employees that may take a request.
// Names in exclude must not be returned.
type EmployeeSource interface {
	ListAvailable(ctx context.Context, exclude []string) ([]domain.Employee, error)
}

// CompletionRecord describes a finished request for the history tables.
type CompletionRecord struct {
	RequestID    uuid.UUID
	Username     string
	EmployeeName string
	ServiceType  domain.ServiceType
	PriceCents   domain.Cents
	FeeCents     domain.Cents
	Location     domain.Location
	RequestedAt  time.Time
	CompletedAt  time.Time
}

// DeclineRecord describes an employee the user turned down twice.
type DeclineRecord struct {
	RequestID    uuid.UUID
	Username     string
	EmployeeName string
	ServiceType  domain.ServiceType
	PriceCents   domain.Cents
	Location     domain.Location
	Reason       string
	RequestedAt  time.Time
	DeclinedAt   time.Time
}

// CompletionRecorder persists request outcomes.
type CompletionRecorder interface {
	RecordCompletion(ctx context.Context, rec CompletionRecord) error
	RecordDecline(ctx context.Context, rec DeclineRecord) error
}

// SnapshotStore keeps the latest quote of each request.
type SnapshotStore interface {
	Save(ctx context.Context, snap domain.QuoteSnapshot) error
	Get(ctx context.Context, requestID uuid.UUID) (domain.QuoteSnapshot, error)
	Delete(ctx context.Context, requestID uuid.UUID) error
}
