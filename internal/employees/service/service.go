package service

import (
	"context"
	"errors"
	"io"
	"strconv"
	"strings"

	"roadsaver_backend/internal/employees/repository"
	"roadsaver_backend/platform/apperr"
	"roadsaver_backend/platform/logger"
	"roadsaver_backend/platform/phone"

	"github.com/google/uuid"
)

// SyncResult summarises a names file sync.
type SyncResult struct {
	Parsed    int         `json:"parsed"`
	Upserted  int         `json:"upserted"`
	DryRun    bool        `json:"dryRun"`
	Malformed []LineError `json:"malformed"`
}

// CreateAccountInput is the validated input for a new account.
type CreateAccountInput struct {
	Username     string
	Email        string
	PhoneNumber  string
	EmployeeRole string
}

// Service manages the simulated employee pool and employee accounts.
type Service struct {
	repo        repository.Repository
	blacklist   blacklist
	phoneRegion string
	log         *logger.Logger
}

// New creates an employees service. Blacklist entries are full names or
// employee numbers.
func New(repo repository.Repository, blacklisted []string, phoneRegion string, log *logger.Logger) *Service {
	return &Service{
		repo:        repo,
		blacklist:   newBlacklist(blacklisted),
		phoneRegion: phoneRegion,
		log:         log,
	}
}

// Sync parses a names file and upserts it unless dryRun is set.
func (s *Service) Sync(ctx context.Context, r io.Reader, dryRun bool) (SyncResult, error) {
	parsed, err := ParseNames(r)
	if err != nil {
		return SyncResult{}, apperr.BadRequest(err.Error())
	}

	res := SyncResult{
		Parsed:    len(parsed.Entries),
		DryRun:    dryRun,
		Malformed: parsed.Malformed,
	}
	for _, m := range parsed.Malformed {
		s.log.Warn("skipping malformed employee line", "line", m.Line, "reason", m.Reason)
	}
	if dryRun || len(parsed.Entries) == 0 {
		return res, nil
	}

	rows := make([]repository.SimulatedEmployee, 0, len(parsed.Entries))
	for _, e := range parsed.Entries {
		rows = append(rows, repository.SimulatedEmployee{EmployeeNumber: e.Number, FullName: e.FullName})
	}
	if res.Upserted, err = s.repo.UpsertSimulated(ctx, rows); err != nil {
		return res, err
	}

	s.log.Info("simulated employees synced", "parsed", res.Parsed, "upserted", res.Upserted, "malformed", len(res.Malformed))
	return res, nil
}

// ListSimulated returns the whole simulated pool.
func (s *Service) ListSimulated(ctx context.Context) ([]repository.SimulatedEmployee, error) {
	return s.repo.ListSimulated(ctx)
}

// ListAvailable returns the simulated employees that are neither globally
// blacklisted nor named in exclude.
func (s *Service) ListAvailable(ctx context.Context, exclude []string) ([]repository.SimulatedEmployee, error) {
	all, err := s.repo.ListSimulated(ctx)
	if err != nil {
		return nil, err
	}

	skip := make(map[string]struct{}, len(exclude))
	for _, name := range exclude {
		skip[normalizeName(name)] = struct{}{}
	}

	out := make([]repository.SimulatedEmployee, 0, len(all))
	for _, e := range all {
		if s.blacklist.contains(e) {
			continue
		}
		if _, ok := skip[normalizeName(e.FullName)]; ok {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (s *Service) ListAccounts(ctx context.Context, status string) ([]repository.Account, error) {
	if status != "" && !validStatus(status) {
		return nil, apperr.Validation("unknown account status")
	}
	return s.repo.ListAccounts(ctx, status)
}

// CreateAccount stores a new active account. Phone numbers are stored in
// E.164 form.
func (s *Service) CreateAccount(ctx context.Context, in CreateAccountInput) (repository.Account, error) {
	params := repository.CreateAccountParams{
		Username:     strings.TrimSpace(in.Username),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		EmployeeRole: strings.TrimSpace(in.EmployeeRole),
	}

	if strings.TrimSpace(in.PhoneNumber) != "" {
		normalized, err := phone.NormalizeE164(in.PhoneNumber, s.phoneRegion)
		if err != nil {
			if errors.Is(err, phone.ErrInvalid) {
				return repository.Account{}, apperr.Validation("invalid phone number").WithDetails(map[string]string{"phoneNumber": "e164"})
			}
			return repository.Account{}, apperr.Validation(err.Error())
		}
		params.PhoneNumber = &normalized
	}

	account, err := s.repo.CreateAccount(ctx, params)
	if err != nil {
		return repository.Account{}, err
	}
	s.log.Info("employee account created", "accountId", account.ID, "username", account.Username)
	return account, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (repository.Account, error) {
	if !validStatus(status) {
		return repository.Account{}, apperr.Validation("unknown account status")
	}
	account, err := s.repo.UpdateAccountStatus(ctx, id, status)
	if err != nil {
		return repository.Account{}, err
	}
	s.log.Info("employee account status changed", "accountId", id, "status", status)
	return account, nil
}

func validStatus(status string) bool {
	switch status {
	case repository.StatusActive, repository.StatusInactive, repository.StatusSuspended:
		return true
	}
	return false
}

type blacklist struct {
	names   map[string]struct{}
	numbers map[int]struct{}
}

func newBlacklist(entries []string) blacklist {
	b := blacklist{names: make(map[string]struct{}), numbers: make(map[int]struct{})}
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		if n, err := strconv.Atoi(e); err == nil {
			b.numbers[n] = struct{}{}
			continue
		}
		b.names[normalizeName(e)] = struct{}{}
	}
	return b
}

func (b blacklist) contains(e repository.SimulatedEmployee) bool {
	if _, ok := b.numbers[e.EmployeeNumber]; ok {
		return true
	}
	_, ok := b.names[normalizeName(e.FullName)]
	return ok
}

func normalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
