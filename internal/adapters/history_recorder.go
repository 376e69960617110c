package adapters

import (
	"context"

	historyservice "roadsaver_backend/internal/history/service"
	requestsservice "roadsaver_backend/internal/requests/service"
	"roadsaver_backend/internal/scheduler"
)

// HistoryRecorder writes request outcomes straight into the history tables.
type HistoryRecorder struct {
	history *historyservice.Service
}

var _ requestsservice.CompletionRecorder = (*HistoryRecorder)(nil)

func NewHistoryRecorder(history *historyservice.Service) *HistoryRecorder {
	return &HistoryRecorder{history: history}
}

func (r *HistoryRecorder) RecordCompletion(ctx context.Context, rec requestsservice.CompletionRecord) error {
	return r.history.RecordCompletion(ctx, toCompletion(rec))
}

func (r *HistoryRecorder) RecordDecline(ctx context.Context, rec requestsservice.DeclineRecord) error {
	return r.history.RecordDecline(ctx, toDecline(rec))
}

// QueuedHistoryRecorder hands request outcomes to the background worker.
type QueuedHistoryRecorder struct {
	queue scheduler.HistoryQueue
}

var _ requestsservice.CompletionRecorder = (*QueuedHistoryRecorder)(nil)

func NewQueuedHistoryRecorder(queue scheduler.HistoryQueue) *QueuedHistoryRecorder {
	return &QueuedHistoryRecorder{queue: queue}
}

func (r *QueuedHistoryRecorder) RecordCompletion(ctx context.Context, rec requestsservice.CompletionRecord) error {
	return r.queue.EnqueueCompletion(ctx, toCompletion(rec))
}

func (r *QueuedHistoryRecorder) RecordDecline(ctx context.Context, rec requestsservice.DeclineRecord) error {
	return r.queue.EnqueueDecline(ctx, toDecline(rec))
}

func toCompletion(rec requestsservice.CompletionRecord) historyservice.Completion {
	return historyservice.Completion{
		RequestID:    rec.RequestID,
		Username:     rec.Username,
		EmployeeName: rec.EmployeeName,
		ServiceType:  string(rec.ServiceType),
		PriceCents:   int64(rec.PriceCents),
		FeeCents:     int64(rec.FeeCents),
		Latitude:     rec.Location.Lat,
		Longitude:    rec.Location.Lng,
		RequestedAt:  rec.RequestedAt,
		CompletedAt:  rec.CompletedAt,
	}
}

func toDecline(rec requestsservice.DeclineRecord) historyservice.Decline {
	return historyservice.Decline{
		RequestID:    rec.RequestID,
		Username:     rec.Username,
		EmployeeName: rec.EmployeeName,
		ServiceType:  string(rec.ServiceType),
		PriceCents:   int64(rec.PriceCents),
		Latitude:     rec.Location.Lat,
		Longitude:    rec.Location.Lng,
		Reason:       rec.Reason,
		RequestedAt:  rec.RequestedAt,
		DeclinedAt:   rec.DeclinedAt,
	}
}
