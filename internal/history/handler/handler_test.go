package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"roadsaver_backend/internal/history/repository"
	"roadsaver_backend/internal/history/service"
	"roadsaver_backend/internal/history/transport"
	"roadsaver_backend/platform/logger"
	"roadsaver_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type stubRepo struct {
	repository.Repository
	users     []repository.UserHistoryEntry
	lastLimit int
}

func (s *stubRepo) ListUserHistory(_ context.Context, username string, limit int) ([]repository.UserHistoryEntry, error) {
	s.lastLimit = limit
	var out []repository.UserHistoryEntry
	for _, u := range s.users {
		if u.Username == username {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *stubRepo) ListEmployeeHistory(_ context.Context, _ string, limit int) ([]repository.EmployeeHistoryEntry, error) {
	s.lastLimit = limit
	return nil, nil
}

func newTestRouter(repo *stubRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := New(service.New(repo, 20, logger.Discard()), validator.New())
	r := gin.New()
	r.GET("/history/users/:username", h.ListForUser)
	r.GET("/history/employees/:name", h.ListForEmployee)
	return r
}

func TestListForUserReturnsRows(t *testing.T) {
	repo := &stubRepo{users: []repository.UserHistoryEntry{{
		ID:              uuid.New(),
		RequestID:       uuid.New(),
		Username:        "maria",
		ServiceType:     "tow-truck",
		Status:          repository.StatusCompleted,
		EmployeeName:    "Ivan Petrov",
		TotalPriceCents: 10500,
		CompletedAt:     time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}}}
	r := newTestRouter(repo)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/history/users/maria?limit=5", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp transport.UserHistoryListResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Username != "maria" || len(resp.Items) != 1 || resp.Items[0].TotalPriceCents != 10500 {
		t.Fatalf("unexpected response %+v", resp)
	}
	if repo.lastLimit != 5 {
		t.Fatalf("expected limit 5, got %d", repo.lastLimit)
	}
}

func TestListForEmployeeReturnsEmptyList(t *testing.T) {
	r := newTestRouter(&stubRepo{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/history/employees/Nobody", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp transport.EmployeeHistoryListResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Items == nil || len(resp.Items) != 0 {
		t.Fatalf("expected an empty item list, got %+v", resp.Items)
	}
}

func TestListRejectsInvalidLimit(t *testing.T) {
	r := newTestRouter(&stubRepo{})

	for _, path := range []string{"/history/users/maria?limit=abc", "/history/users/maria?limit=1000"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", path, w.Code)
		}
	}
}

type pruningRepo struct {
	stubRepo
	pruned []repository.Table
}

func (p *pruningRepo) Prune(_ context.Context, table repository.Table, keep int) (int64, error) {
	p.pruned = append(p.pruned, table)
	return int64(keep), nil
}

type countingQueue struct {
	calls int
}

func (q *countingQueue) EnqueuePrune(context.Context) error {
	q.calls++
	return nil
}

func newPruneRouter(repo *pruningRepo, queue PruneQueue) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := New(service.New(repo, 20, logger.Discard()), validator.New())
	if queue != nil {
		h.SetPruneQueue(queue)
	}
	r := gin.New()
	r.POST("/admin/history/prune", h.Prune)
	return r
}

func TestPruneRunsInlineWithoutQueue(t *testing.T) {
	repo := &pruningRepo{}
	r := newPruneRouter(repo, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin/history/prune", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp transport.PruneResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Queued || resp.UserRows != 20 || resp.EmployeeRows != 20 {
		t.Fatalf("unexpected response %+v", resp)
	}
	if len(repo.pruned) != 2 {
		t.Fatalf("expected both tables pruned, got %v", repo.pruned)
	}
}

func TestPruneIsQueuedWhenWorkerIsAvailable(t *testing.T) {
	repo := &pruningRepo{}
	queue := &countingQueue{}
	r := newPruneRouter(repo, queue)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin/history/prune", nil))
	if w.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", w.Code, w.Body.String())
	}
	if queue.calls != 1 {
		t.Fatalf("expected one queued prune, got %d", queue.calls)
	}
	if len(repo.pruned) != 0 {
		t.Fatalf("expected no inline prune, got %v", repo.pruned)
	}
}
