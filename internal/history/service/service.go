package service

import (
	"context"
	"fmt"
	"time"

	"roadsaver_backend/internal/history/repository"
	"roadsaver_backend/platform/logger"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// Completion describes a finished request.
type Completion struct {
	RequestID    uuid.UUID `json:"requestId"`
	Username     string    `json:"username"`
	EmployeeName string    `json:"employeeName"`
	ServiceType  string    `json:"serviceType"`
	PriceCents   int64     `json:"priceCents"`
	FeeCents     int64     `json:"feeCents"`
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`
	RequestedAt  time.Time `json:"requestedAt"`
	CompletedAt  time.Time `json:"completedAt"`
}

// Decline describes an employee removed from a request after two declines.
type Decline struct {
	RequestID    uuid.UUID `json:"requestId"`
	Username     string    `json:"username"`
	EmployeeName string    `json:"employeeName"`
	ServiceType  string    `json:"serviceType"`
	PriceCents   int64     `json:"priceCents"`
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`
	Reason       string    `json:"reason"`
	RequestedAt  time.Time `json:"requestedAt"`
	DeclinedAt   time.Time `json:"declinedAt"`
}

// PruneResult reports how many rows a prune removed per table.
type PruneResult struct {
	UserRows     int64
	EmployeeRows int64
}

// Service records and lists request history.
type Service struct {
	repo repository.Repository
	keep int
	log  *logger.Logger
}

// New creates a history service that keeps the newest keep rows per table.
func New(repo repository.Repository, keep int, log *logger.Logger) *Service {
	return &Service{repo: repo, keep: keep, log: log}
}

// RecordCompletion writes the user and employee rows concurrently, then
// prunes both tables. Recording the same request twice is a no-op.
func (s *Service) RecordCompletion(ctx context.Context, in Completion) error {
	location := formatLocation(in.Latitude, in.Longitude)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.repo.InsertUserHistory(gctx, repository.UserHistoryEntry{
			ID:              rowID(in.RequestID, "user", ""),
			RequestID:       in.RequestID,
			Username:        in.Username,
			ServiceType:     in.ServiceType,
			Status:          repository.StatusCompleted,
			EmployeeName:    in.EmployeeName,
			PricePaidCents:  in.PriceCents,
			ServiceFeeCents: in.FeeCents,
			TotalPriceCents: in.PriceCents + in.FeeCents,
			Latitude:        in.Latitude,
			Longitude:       in.Longitude,
			Location:        location,
			RequestDate:     in.RequestedAt,
			CompletedAt:     in.CompletedAt,
		})
	})
	g.Go(func() error {
		return s.repo.InsertEmployeeHistory(gctx, repository.EmployeeHistoryEntry{
			ID:                 rowID(in.RequestID, "employee", ""),
			RequestID:          in.RequestID,
			EmployeeName:       in.EmployeeName,
			Username:           in.Username,
			ServiceType:        in.ServiceType,
			AcceptedPriceCents: in.PriceCents,
			Latitude:           in.Latitude,
			Longitude:          in.Longitude,
			Location:           location,
			CompletedAt:        in.CompletedAt,
		})
	})
	if err := g.Wait(); err != nil {
		return err
	}

	s.log.Info("request history recorded", "requestId", in.RequestID, "employee", in.EmployeeName)

	if _, err := s.Prune(ctx); err != nil {
		return err
	}
	return nil
}

// RecordDecline writes a declined row to the user history.
func (s *Service) RecordDecline(ctx context.Context, in Decline) error {
	reason := in.Reason
	err := s.repo.InsertUserHistory(ctx, repository.UserHistoryEntry{
		ID:             rowID(in.RequestID, "decline", in.EmployeeName),
		RequestID:      in.RequestID,
		Username:       in.Username,
		ServiceType:    in.ServiceType,
		Status:         repository.StatusDeclined,
		EmployeeName:   in.EmployeeName,
		PricePaidCents: in.PriceCents,
		Latitude:       in.Latitude,
		Longitude:      in.Longitude,
		Location:       formatLocation(in.Latitude, in.Longitude),
		DeclineReason:  &reason,
		RequestDate:    in.RequestedAt,
		CompletedAt:    in.DeclinedAt,
	})
	if err != nil {
		return err
	}

	if _, err := s.repo.Prune(ctx, repository.TableUserHistory, s.keep); err != nil {
		return err
	}
	return nil
}

// Prune trims both history tables to the configured size.
func (s *Service) Prune(ctx context.Context) (PruneResult, error) {
	var res PruneResult
	var err error

	if res.UserRows, err = s.repo.Prune(ctx, repository.TableUserHistory, s.keep); err != nil {
		return res, err
	}
	if res.EmployeeRows, err = s.repo.Prune(ctx, repository.TableEmployeeHistory, s.keep); err != nil {
		return res, err
	}

	if res.UserRows > 0 || res.EmployeeRows > 0 {
		s.log.Info("history pruned", "userRows", res.UserRows, "employeeRows", res.EmployeeRows, "keep", s.keep)
	}
	return res, nil
}

// ListForUser returns the newest history rows of a user.
func (s *Service) ListForUser(ctx context.Context, username string, limit int) ([]repository.UserHistoryEntry, error) {
	return s.repo.ListUserHistory(ctx, username, clampLimit(limit))
}

// ListForEmployee returns the newest jobs completed by a simulated employee.
func (s *Service) ListForEmployee(ctx context.Context, employeeName string, limit int) ([]repository.EmployeeHistoryEntry, error) {
	return s.repo.ListEmployeeHistory(ctx, employeeName, clampLimit(limit))
}

func clampLimit(limit int) int {
	if limit < 1 {
		return defaultListLimit
	}
	return min(limit, maxListLimit)
}

func formatLocation(lat, lng float64) string {
	return fmt.Sprintf("%.6f,%.6f", lat, lng)
}

// rowID derives a stable id so a retried task cannot insert twice.
func rowID(requestID uuid.UUID, kind, extra string) uuid.UUID {
	return uuid.NewSHA1(requestID, []byte(kind+":"+extra))
}
