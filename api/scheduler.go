/*
scheduler.go - Automated preset advance

PURPOSE:
  Statutory figures such as the severance cap change on fixed dates. When
  presets.auto_advance is on, this scheduler periodically picks the newest
  preset whose effective date has passed and applies it if it is not
  already active.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Runs once immediately on start
  - Does nothing while the newest effective preset is already active
  - A manually loaded older preset is replaced on the next check

CONFIGURATION:
  - CheckInterval: How often to check (default: 1 hour)
  - Enabled: Whether scheduler is active

USAGE:
  scheduler := NewPresetScheduler(handler, logger)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - presets.go: ApplyPreset
  - factory/presets.go: Catalog.Current
*/
package api

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// PresetScheduler advances the active preset as new ones take effect.
type PresetScheduler struct {
	Handler       *Handler
	CheckInterval time.Duration
	Enabled       bool

	logger *zap.Logger
	now    func() time.Time

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewPresetScheduler creates a new scheduler.
func NewPresetScheduler(handler *Handler, logger *zap.Logger) *PresetScheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PresetScheduler{
		Handler:       handler,
		CheckInterval: time.Hour,
		Enabled:       true,
		logger:        logger.Named("scheduler"),
		now:           time.Now,
	}
}

// Start begins the scheduler.
func (ps *PresetScheduler) Start() {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if !ps.Enabled {
		ps.logger.Info("disabled, not starting")
		return
	}
	if ps.ticker != nil {
		return
	}

	ps.ticker = time.NewTicker(ps.CheckInterval)
	ps.stop = make(chan struct{})
	ps.wg.Add(1)

	go ps.run(ps.ticker.C, ps.stop)

	ps.logger.Info("started", zap.Duration("check_interval", ps.CheckInterval))
}

// Stop stops the scheduler and waits for a running check to finish.
func (ps *PresetScheduler) Stop() {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if ps.ticker != nil {
		ps.ticker.Stop()
		close(ps.stop)
		ps.wg.Wait()
		ps.ticker = nil
		ps.logger.Info("stopped")
	}
}

func (ps *PresetScheduler) run(tick <-chan time.Time, stop <-chan struct{}) {
	defer ps.wg.Done()

	ps.check()

	for {
		select {
		case <-tick:
			ps.check()
		case <-stop:
			return
		}
	}
}

func (ps *PresetScheduler) check() {
	if _, err := ps.RunNow(context.Background()); err != nil {
		ps.logger.Error("preset check failed", zap.Error(err))
	}
}

// RunNow performs one check. It returns the id of the preset it applied,
// or "" when the active preset was already current.
func (ps *PresetScheduler) RunNow(ctx context.Context) (string, error) {
	now := ps.now()

	current, ok := ps.Handler.Catalog.Current(now)
	if !ok {
		ps.logger.Debug("no preset in effect", zap.Time("at", now))
		return "", nil
	}

	active, err := ps.Handler.Store.ActivePreset(ctx)
	if err != nil {
		return "", err
	}
	if active == current.ID {
		return "", nil
	}

	if _, err := ps.Handler.ApplyPreset(ctx, current.ID, "scheduler"); err != nil {
		return "", err
	}
	ps.logger.Info("advanced preset", zap.String("from", active), zap.String("to", current.ID))
	return current.ID, nil
}

// NextRunTime returns when the next scheduled check will occur.
func (ps *PresetScheduler) NextRunTime() time.Time {
	return ps.now().Add(ps.CheckInterval)
}
