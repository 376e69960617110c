package scheduler

import (
	"encoding/json"
	"fmt"

	historyservice "roadsaver_backend/internal/history/service"

	"github.com/hibiken/asynq"
)

const TaskHistoryCompletion = "history.completion"

const TaskHistoryDecline = "history.decline"

const TaskHistoryPrune = "history.prune"

type CompletionPayload = historyservice.Completion

type DeclinePayload = historyservice.Decline

func NewHistoryCompletionTask(payload CompletionPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskHistoryCompletion, data), nil
}

func ParseHistoryCompletionPayload(task *asynq.Task) (CompletionPayload, error) {
	var payload CompletionPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return CompletionPayload{}, fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	return payload, nil
}

func NewHistoryDeclineTask(payload DeclinePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskHistoryDecline, data), nil
}

func ParseHistoryDeclinePayload(task *asynq.Task) (DeclinePayload, error) {
	var payload DeclinePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return DeclinePayload{}, fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	return payload, nil
}

func NewHistoryPruneTask() *asynq.Task {
	return asynq.NewTask(TaskHistoryPrune, nil)
}
