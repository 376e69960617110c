package repository

import (
	"context"
	"errors"
	"fmt"

	"roadsaver_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	accountNotFoundMessage = "employee account not found"
	accountExistsMessage   = "username or email already in use"

	opUpsertSimulated = "employees.repository.upsert_simulated"
	opCreateAccount   = "employees.repository.create_account"
)

const accountColumns = `id, username, email, phone_number, employee_role, status, created_at, updated_at`

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new employees repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// UpsertSimulated sends every row in one batch.
func (r *Repo) UpsertSimulated(ctx context.Context, employees []SimulatedEmployee) (int, error) {
	if len(employees) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, e := range employees {
		batch.Queue(`
			INSERT INTO employee_simulation (employee_number, full_name)
			VALUES ($1, $2)
			ON CONFLICT (employee_number)
			DO UPDATE SET full_name = EXCLUDED.full_name, updated_at = now()`,
			e.EmployeeNumber, e.FullName)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	affected := 0
	for _, e := range employees {
		tag, err := results.Exec()
		if err != nil {
			return affected, apperr.Internal(fmt.Sprintf("upsert employee %d: %v", e.EmployeeNumber, err)).WithOp(opUpsertSimulated)
		}
		affected += int(tag.RowsAffected())
	}
	return affected, nil
}

func (r *Repo) ListSimulated(ctx context.Context) ([]SimulatedEmployee, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, employee_number, full_name, created_at
		FROM employee_simulation
		ORDER BY employee_number`)
	if err != nil {
		return nil, fmt.Errorf("list simulated employees: %w", err)
	}

	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[SimulatedEmployee])
	if err != nil {
		return nil, fmt.Errorf("scan simulated employees: %w", err)
	}
	return items, nil
}

func (r *Repo) ListAccounts(ctx context.Context, status string) ([]Account, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+accountColumns+`
		FROM employee_accounts
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC`, status)
	if err != nil {
		return nil, fmt.Errorf("list employee accounts: %w", err)
	}

	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[Account])
	if err != nil {
		return nil, fmt.Errorf("scan employee accounts: %w", err)
	}
	return items, nil
}

func (r *Repo) CreateAccount(ctx context.Context, params CreateAccountParams) (Account, error) {
	role := params.EmployeeRole
	if role == "" {
		role = DefaultRole
	}

	rows, err := r.pool.Query(ctx, `
		INSERT INTO employee_accounts (id, username, email, phone_number, employee_role, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+accountColumns,
		uuid.New(), params.Username, params.Email, params.PhoneNumber, role, StatusActive)
	if err != nil {
		return Account{}, fmt.Errorf("create employee account: %w", err)
	}

	account, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[Account])
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Account{}, apperr.Conflict(accountExistsMessage).WithOp(opCreateAccount)
		}
		return Account{}, fmt.Errorf("create employee account: %w", err)
	}
	return account, nil
}

func (r *Repo) UpdateAccountStatus(ctx context.Context, id uuid.UUID, status string) (Account, error) {
	rows, err := r.pool.Query(ctx, `
		UPDATE employee_accounts
		SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+accountColumns, id, status)
	if err != nil {
		return Account{}, fmt.Errorf("update employee account status: %w", err)
	}

	account, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[Account])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, apperr.NotFound(accountNotFoundMessage)
		}
		return Account{}, fmt.Errorf("update employee account status: %w", err)
	}
	return account, nil
}
