package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"reviewhunter/internal/config"
	"reviewhunter/internal/domain"
	"reviewhunter/internal/domain/entity"
	"reviewhunter/internal/domain/service/hunt"
	"reviewhunter/pkg/contextx"
	"reviewhunter/pkg/errcodes"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type HuntRunner interface {
	Hunt(ctx context.Context, query hunt.Query) (hunt.Result, error)
}

// LeadWatcher periodically re-runs the configured hunt targets and pushes new
// hot leads to the alerts channel. A place alerted once is suppressed until
// its cache entry expires.
type LeadWatcher struct {
	runner  HuntRunner
	alerts  chan<- entity.Lead
	targets []config.Target

	interval time.Duration
	pace     time.Duration
	lastHunt time.Time

	seen *cache.Cache

	// Control fields
	mu         sync.Mutex
	cancelFunc context.CancelFunc
	isRunning  bool
	wg         sync.WaitGroup
}

func NewLeadWatcher(runner HuntRunner, alerts chan<- entity.Lead, targets []config.Target) *LeadWatcher {
	return &LeadWatcher{
		runner:   runner,
		alerts:   alerts,
		targets:  targets,
		interval: 6 * time.Hour,
		pace:     30 * time.Second,
		seen:     cache.New(7*24*time.Hour, time.Hour),
	}
}

func (w *LeadWatcher) WithInterval(interval time.Duration) *LeadWatcher {
	if interval > 0 {
		w.interval = interval
	}
	return w
}

func (w *LeadWatcher) WithPace(pace time.Duration) *LeadWatcher {
	if pace > 0 {
		w.pace = pace
	}
	return w
}

func (w *LeadWatcher) WithAlertTTL(ttl time.Duration) *LeadWatcher {
	if ttl > 0 {
		w.seen = cache.New(ttl, time.Hour)
	}
	return w
}

func (w *LeadWatcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.isRunning {
		return errors.New("watcher is already running")
	}

	watchCtx, cancel := context.WithCancel(ctx)
	w.cancelFunc = cancel
	w.isRunning = true

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer func() {
			w.mu.Lock()
			w.isRunning = false
			w.cancelFunc = nil
			w.mu.Unlock()
		}()

		if err := w.Run(watchCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger(ctx).Error("watcher stopped with error", "error", err)
		}
	}()

	return nil
}

func (w *LeadWatcher) Stop() {
	w.mu.Lock()

	if !w.isRunning {
		w.mu.Unlock()
		return
	}

	if w.cancelFunc != nil {
		w.cancelFunc()
	}
	w.mu.Unlock()

	w.wg.Wait()
}

// IsRunning возвращает текущий статус
func (w *LeadWatcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.isRunning
}

func (w *LeadWatcher) Run(ctx context.Context) error {
	logger(ctx).Info("lead watcher started",
		"targets", len(w.targets),
		"interval", w.interval,
	)

	for {
		if err := w.runCycle(ctx); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			logger(ctx).Info("lead watcher stopped")
			return ctx.Err()
		case <-time.After(w.interval):
		}
	}
}

// runCycle hunts every target once. A rejected key aborts the watcher; an
// exhausted quota only ends the cycle, the next one may fall into a fresh
// budget day.
func (w *LeadWatcher) runCycle(ctx context.Context) error {
	var alerted int

	for _, target := range w.targets {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := w.waitForNextSlot(ctx); err != nil {
			return err
		}

		count, err := w.huntOne(ctx, target)
		switch {
		case err == nil:
		case domain.HasCode(err, errcodes.AuthRejected):
			return err
		case domain.HasCode(err, errcodes.QuotaExceeded):
			logger(ctx).Warn("quota exhausted, ending watch cycle",
				"industry", target.Industry,
				"city", target.City,
			)
			return nil
		default:
			logger(ctx).Error("watch hunt failed",
				"industry", target.Industry,
				"city", target.City,
				"error", err,
			)
			continue
		}

		alerted += count
	}

	if alerted > 0 {
		logger(ctx).Info("watch cycle completed", "alerts", alerted)
	}

	return nil
}

func (w *LeadWatcher) waitForNextSlot(ctx context.Context) error {
	if w.lastHunt.IsZero() {
		w.lastHunt = time.Now()
		return nil
	}

	elapsed := time.Since(w.lastHunt)
	if elapsed >= w.pace {
		w.lastHunt = time.Now()
		return nil
	}

	wait := w.pace - elapsed

	select {
	case <-time.After(wait):
		w.lastHunt = time.Now()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *LeadWatcher) huntOne(ctx context.Context, target config.Target) (int, error) {
	result, err := w.runner.Hunt(ctx, hunt.Query{
		Industry: target.Industry,
		City:     target.City,
	})
	if err != nil {
		return 0, err
	}

	var alerted int

	for _, lead := range result.Leads {
		if lead.Tier != entity.TierHot {
			continue
		}

		key := lead.Business.PlaceID
		if key == "" {
			key = lead.Business.Name + "@" + target.City
		}

		if _, suppressed := w.seen.Get(key); suppressed {
			continue
		}

		select {
		case w.alerts <- lead:
			w.seen.SetDefault(key, struct{}{})
			alerted++
		case <-ctx.Done():
			return alerted, ctx.Err()
		}
	}

	return alerted, nil
}
