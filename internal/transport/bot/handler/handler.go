package handler

import (
	"context"

	"reviewhunter/internal/domain/service/hunt"
	"reviewhunter/internal/worker"
)

type HuntRunner interface {
	Hunt(ctx context.Context, query hunt.Query) (hunt.Result, error)
}

type Handler struct {
	runner  HuntRunner
	watcher *worker.LeadWatcher
}

func New(runner HuntRunner, watcher *worker.LeadWatcher) *Handler {
	return &Handler{
		runner:  runner,
		watcher: watcher,
	}
}
