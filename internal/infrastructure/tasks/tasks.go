// Package tasks defines the asynq task types and their handlers.
package tasks

import (
	"fmt"

	"github.com/hibiken/asynq"
	jsoniter "github.com/json-iterator/go"
)

const TypeHuntRun = "hunt:run"

type HuntRunPayload struct {
	HuntID string `json:"hunt_id"`
}

func NewHuntRunTask(huntID string) (*asynq.Task, error) {
	payload, err := jsoniter.Marshal(HuntRunPayload{HuntID: huntID})
	if err != nil {
		return nil, fmt.Errorf("jsoniter.Marshal: %w", err)
	}

	return asynq.NewTask(TypeHuntRun, payload), nil
}
