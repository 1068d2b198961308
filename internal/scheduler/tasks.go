package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskLeadRescore = "leads.rescore"

const TaskSummaryRefresh = "leads.summary.refresh"

type LeadRescorePayload struct {
	LeadID string `json:"leadId"`
}

type SummaryRefreshPayload struct {
	LeadID string `json:"leadId"`
}

func NewLeadRescoreTask(payload LeadRescorePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLeadRescore, data), nil
}

func ParseLeadRescorePayload(task *asynq.Task) (LeadRescorePayload, error) {
	var payload LeadRescorePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return LeadRescorePayload{}, err
	}
	return payload, nil
}

func NewSummaryRefreshTask(payload SummaryRefreshPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSummaryRefresh, data), nil
}

func ParseSummaryRefreshPayload(task *asynq.Task) (SummaryRefreshPayload, error) {
	var payload SummaryRefreshPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return SummaryRefreshPayload{}, err
	}
	return payload, nil
}
