package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskFollowUpDue = "followups.due"

type FollowUpDuePayload struct {
	FollowUpID string `json:"followUpId"`
	LeadID     string `json:"leadId"`
}

func NewFollowUpDueTask(payload FollowUpDuePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskFollowUpDue, data), nil
}

func ParseFollowUpDuePayload(task *asynq.Task) (FollowUpDuePayload, error) {
	var payload FollowUpDuePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return FollowUpDuePayload{}, err
	}
	return payload, nil
}
