package service

import (
	"context"
	"strings"
	"testing"

	"roadsaver_backend/internal/employees/repository"
	"roadsaver_backend/platform/apperr"
	"roadsaver_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeRepo struct {
	simulated []repository.SimulatedEmployee
	upserts   [][]repository.SimulatedEmployee
	created   []repository.CreateAccountParams
}

func (f *fakeRepo) UpsertSimulated(_ context.Context, rows []repository.SimulatedEmployee) (int, error) {
	f.upserts = append(f.upserts, rows)
	return len(rows), nil
}

func (f *fakeRepo) ListSimulated(context.Context) ([]repository.SimulatedEmployee, error) {
	return f.simulated, nil
}

func (f *fakeRepo) ListAccounts(context.Context, string) ([]repository.Account, error) {
	return nil, nil
}

func (f *fakeRepo) CreateAccount(_ context.Context, p repository.CreateAccountParams) (repository.Account, error) {
	f.created = append(f.created, p)
	return repository.Account{ID: uuid.New(), Username: p.Username, Email: p.Email, PhoneNumber: p.PhoneNumber}, nil
}

func (f *fakeRepo) UpdateAccountStatus(_ context.Context, id uuid.UUID, status string) (repository.Account, error) {
	return repository.Account{ID: id, Status: status}, nil
}

const namesFile = `// simulated employees
1.Ivan Petrov

2.  Georgi   Dimitrov
three.Nobody
0.Zero Hero
3.Maria Ivanova
2.Georgi Georgiev
`

func TestParseNames(t *testing.T) {
	res, err := ParseNames(strings.NewReader(namesFile))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []NameEntry{{1, "Ivan Petrov"}, {2, "Georgi Georgiev"}, {3, "Maria Ivanova"}}
	if len(res.Entries) != len(want) {
		t.Fatalf("expected %d entries, got %+v", len(want), res.Entries)
	}
	for i, e := range want {
		if res.Entries[i] != e {
			t.Fatalf("entry %d: expected %+v, got %+v", i, e, res.Entries[i])
		}
	}

	if len(res.Malformed) != 2 {
		t.Fatalf("expected 2 malformed lines, got %+v", res.Malformed)
	}
	if res.Malformed[0].Line != 5 || res.Malformed[1].Line != 6 {
		t.Fatalf("unexpected malformed line numbers %+v", res.Malformed)
	}
}

func TestSyncDryRunDoesNotWrite(t *testing.T) {
	repo := &fakeRepo{}
	svc := New(repo, nil, "BG", logger.Discard())

	res, err := svc.Sync(context.Background(), strings.NewReader(namesFile), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.DryRun || res.Parsed != 3 || res.Upserted != 0 {
		t.Fatalf("unexpected result %+v", res)
	}
	if len(repo.upserts) != 0 {
		t.Fatal("expected no writes on dry run")
	}

	res, err = svc.Sync(context.Background(), strings.NewReader(namesFile), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Upserted != 3 || len(repo.upserts) != 1 {
		t.Fatalf("expected one upsert batch of 3, got %+v", res)
	}
}

func TestListAvailableAppliesBlacklistAndExclude(t *testing.T) {
	repo := &fakeRepo{simulated: []repository.SimulatedEmployee{
		{ID: 1, EmployeeNumber: 1, FullName: "Ivan Petrov"},
		{ID: 2, EmployeeNumber: 2, FullName: "Georgi Dimitrov"},
		{ID: 3, EmployeeNumber: 3, FullName: "Maria Ivanova"},
		{ID: 4, EmployeeNumber: 12, FullName: "Elena Stoyanova"},
	}}
	svc := New(repo, []string{"ivan  petrov", "12"}, "BG", logger.Discard())

	got, err := svc.ListAvailable(context.Background(), []string{"Maria Ivanova"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].FullName != "Georgi Dimitrov" {
		t.Fatalf("expected only Georgi Dimitrov, got %+v", got)
	}
}

func TestCreateAccountNormalizesPhone(t *testing.T) {
	repo := &fakeRepo{}
	svc := New(repo, nil, "BG", logger.Discard())

	acc, err := svc.CreateAccount(context.Background(), CreateAccountInput{
		Username:    " tech1 ",
		Email:       "Tech1@Example.com",
		PhoneNumber: "0888 123 456",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if acc.PhoneNumber == nil || *acc.PhoneNumber != "+359888123456" {
		t.Fatalf("expected E.164 phone, got %v", acc.PhoneNumber)
	}
	if repo.created[0].Username != "tech1" || repo.created[0].Email != "tech1@example.com" {
		t.Fatalf("expected trimmed identity, got %+v", repo.created[0])
	}

	_, err = svc.CreateAccount(context.Background(), CreateAccountInput{Username: "x", Email: "x@example.com", PhoneNumber: "12"})
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	svc := New(&fakeRepo{}, nil, "BG", logger.Discard())

	if _, err := svc.UpdateStatus(context.Background(), uuid.New(), "retired"); apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	acc, err := svc.UpdateStatus(context.Background(), uuid.New(), repository.StatusSuspended)
	if err != nil || acc.Status != repository.StatusSuspended {
		t.Fatalf("unexpected result %+v, %v", acc, err)
	}
}
