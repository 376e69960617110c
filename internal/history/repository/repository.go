package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repo is the pgx implementation of Repository.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a history repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check
var _ Repository = (*Repo)(nil)

func (r *Repo) InsertUserHistory(ctx context.Context, e UserHistoryEntry) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO user_history (
			id, request_id, username, service_type, status, employee_name,
			price_paid_cents, service_fee_cents, total_price_cents,
			latitude, longitude, location, decline_reason, request_date, completed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (id) DO NOTHING`,
		e.ID, e.RequestID, e.Username, e.ServiceType, e.Status, e.EmployeeName,
		e.PricePaidCents, e.ServiceFeeCents, e.TotalPriceCents,
		e.Latitude, e.Longitude, e.Location, e.DeclineReason, e.RequestDate, e.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("insert user history: %w", err)
	}
	return nil
}

func (r *Repo) InsertEmployeeHistory(ctx context.Context, e EmployeeHistoryEntry) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO simulated_employee_history (
			id, request_id, employee_name, username, service_type,
			accepted_price_cents, latitude, longitude, location, completed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO NOTHING`,
		e.ID, e.RequestID, e.EmployeeName, e.Username, e.ServiceType,
		e.AcceptedPriceCents, e.Latitude, e.Longitude, e.Location, e.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("insert employee history: %w", err)
	}
	return nil
}

func (r *Repo) ListUserHistory(ctx context.Context, username string, limit int) ([]UserHistoryEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, request_id, username, service_type, status, employee_name,
			price_paid_cents, service_fee_cents, total_price_cents,
			latitude, longitude, location, decline_reason, request_date, completed_at
		FROM user_history
		WHERE username = $1
		ORDER BY completed_at DESC
		LIMIT $2`, username, limit)
	if err != nil {
		return nil, fmt.Errorf("list user history: %w", err)
	}

	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[UserHistoryEntry])
	if err != nil {
		return nil, fmt.Errorf("scan user history: %w", err)
	}
	return items, nil
}

func (r *Repo) ListEmployeeHistory(ctx context.Context, employeeName string, limit int) ([]EmployeeHistoryEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, request_id, employee_name, username, service_type,
			accepted_price_cents, latitude, longitude, location, completed_at
		FROM simulated_employee_history
		WHERE employee_name = $1
		ORDER BY completed_at DESC
		LIMIT $2`, employeeName, limit)
	if err != nil {
		return nil, fmt.Errorf("list employee history: %w", err)
	}

	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[EmployeeHistoryEntry])
	if err != nil {
		return nil, fmt.Errorf("scan employee history: %w", err)
	}
	return items, nil
}

func (r *Repo) Prune(ctx context.Context, table Table, keep int) (int64, error) {
	query, err := pruneQuery(table)
	if err != nil {
		return 0, err
	}
	tag, err := r.pool.Exec(ctx, query, keep)
	if err != nil {
		return 0, fmt.Errorf("prune %s: %w", table, err)
	}
	return tag.RowsAffected(), nil
}

// pruneQuery only accepts known tables so the name can be interpolated.
func pruneQuery(table Table) (string, error) {
	switch table {
	case TableUserHistory, TableEmployeeHistory:
		return fmt.Sprintf(`
			DELETE FROM %[1]s
			WHERE id IN (
				SELECT id FROM %[1]s
				ORDER BY completed_at DESC, id DESC
				OFFSET $1
			)`, table), nil
	default:
		return "", fmt.Errorf("unknown history table %q", table)
	}
}
