// Package manager runs management cycles: fetch the inventory, validate it,
// plan, emit the plan's actions and record the outcome.
package manager

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/funkwit/pokemon-go-manager/internal/client"
	"github.com/funkwit/pokemon-go-manager/internal/config"
	"github.com/funkwit/pokemon-go-manager/internal/emitter"
	"github.com/funkwit/pokemon-go-manager/internal/evograph"
	"github.com/funkwit/pokemon-go-manager/internal/gamedata"
	"github.com/funkwit/pokemon-go-manager/internal/inventory"
	"github.com/funkwit/pokemon-go-manager/internal/planner"
	"github.com/funkwit/pokemon-go-manager/internal/storage"
	"github.com/funkwit/pokemon-go-manager/internal/types"
)

// Manager owns one game session and runs cycles against it, one at a time.
type Manager struct {
	client  client.Client
	tables  *gamedata.Tables
	planner *planner.Planner
	emitter *emitter.Emitter
	loop    config.LoopConfig
	dryRun  bool
	archive bool

	store  storage.Store
	log    *slog.Logger
	now    func() time.Time
	jitter func() float64
}

// Option configures a Manager.
type Option func(*Manager)

// WithStore records every cycle (and, when archiving is enabled, its
// snapshot) in s.
func WithStore(s storage.Store) Option {
	return func(m *Manager) {
		m.store = s
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		m.log = l
	}
}

// WithClock sets the time source for cycle timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// WithJitter sets the source of uniform [0,1) values used to jitter the
// poll interval.
func WithJitter(f func() float64) Option {
	return func(m *Manager) {
		m.jitter = f
	}
}

// New creates a manager. The planner and emitter are built from cfg.
func New(c client.Client, cfg *config.Config, tables *gamedata.Tables, graph *evograph.Graph, opts ...Option) *Manager {
	m := &Manager{
		client:  c,
		tables:  tables,
		planner: planner.New(cfg, graph),
		loop:    cfg.Loop,
		dryRun:  cfg.Actions.DryRun,
		archive: cfg.Store.ArchiveSnapshots,
		log:     slog.Default(),
		now:     time.Now,
		jitter:  rand.Float64,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.emitter = emitter.New(c, cfg, tables, emitter.WithLogger(m.log))
	return m
}

// CycleResult is the outcome of one cycle. Plan and Report are nil when the
// cycle was aborted before reaching them.
type CycleResult struct {
	Record storage.CycleRecord
	Plan   *planner.Plan
	Report *emitter.Report
}

// RunCycle runs one fetch, validate, plan, emit cycle. A snapshot that
// references unknown species aborts the cycle with types.ErrUnknownSpecies
// before any action is taken. The cycle is recorded in the store whether or
// not it succeeded.
func (m *Manager) RunCycle(ctx context.Context) (*CycleResult, error) {
	start := m.now()
	res := &CycleResult{Record: storage.CycleRecord{StartedAt: start, DryRun: m.dryRun}}

	err := m.runCycle(ctx, res)

	res.Record.Duration = m.now().Sub(start)
	if err != nil {
		res.Record.Error = err.Error()
	}
	if m.store != nil {
		// The cycle's own context may already be cancelled.
		if recErr := m.store.RecordCycle(context.WithoutCancel(ctx), &res.Record); recErr != nil {
			m.log.Warn("record cycle failed", "error", recErr)
		}
	}
	return res, err
}

func (m *Manager) runCycle(ctx context.Context, res *CycleResult) error {
	limits, err := m.client.FetchPlayerLimits(ctx)
	if err != nil {
		return fmt.Errorf("fetch player limits: %w", err)
	}
	records, err := m.client.FetchInventorySnapshot(ctx)
	if err != nil {
		return fmt.Errorf("fetch inventory: %w", err)
	}

	if m.store != nil && m.archive {
		snap := &inventory.Snapshot{MaxItemStorage: limits.MaxItemStorage, Records: records}
		digest, err := m.store.PutSnapshot(ctx, snap)
		if err != nil {
			m.log.Warn("archive snapshot failed", "error", err)
		} else {
			res.Record.SnapshotDigest = digest
		}
	}

	inv := inventory.Parse(records)
	res.Record.Creatures = inv.CreatureCount()
	m.log.Debug("inventory parsed",
		"creatures", inv.CreatureCount(),
		"eggs", inv.Eggs,
		"items", inv.TotalItems(),
		"max_items", limits.MaxItemStorage,
		"ignored", inv.Ignored,
	)

	if err := inv.Validate(m.tables); err != nil {
		return err
	}

	plan := m.planner.Plan(inv, limits)
	res.Plan = plan
	res.Record.Evolve = len(plan.Evolve)
	m.log.Info("plan",
		"evolve", len(plan.Evolve),
		"favorites", len(plan.Favorites),
		"release", len(plan.Release),
		"discard", plan.DiscardTotal(),
	)

	report, err := m.emitter.Emit(ctx, plan)
	res.Report = report
	if report != nil {
		res.Record.Release = report.Release.Succeeded
		res.Record.Favorites = report.Favorite.Succeeded
		res.Record.Discarded = report.ItemsDiscarded
		res.Record.Failed = report.Failed()
	}
	if err != nil {
		return fmt.Errorf("emit: %w", err)
	}
	return nil
}

// Run logs in and runs cycles until ctx is cancelled. Login is retried with
// a fixed delay and no attempt limit. A cycle error is logged and the next
// cycle proceeds after the usual wait; an authentication error forces a new
// login first. Run returns nil on cancellation.
func (m *Manager) Run(ctx context.Context) error {
	if err := m.login(ctx); err != nil {
		return ignoreCancel(err)
	}

	for {
		res, err := m.RunCycle(ctx)
		switch {
		case err == nil:
			m.log.Info("cycle complete",
				"id", res.Record.ID,
				"duration", res.Record.Duration.Round(time.Millisecond),
				"failed", res.Record.Failed,
			)
		case ctx.Err() != nil:
			return nil
		case errors.Is(err, types.ErrNotAuthenticated):
			m.log.Warn("session expired", "error", err)
			if err := m.login(ctx); err != nil {
				return ignoreCancel(err)
			}
			continue
		default:
			m.log.Error("cycle failed", "error", err)
		}

		wait := m.NextWait()
		m.log.Debug("sleeping", "wait", wait.Round(time.Second))
		if err := sleep(ctx, wait); err != nil {
			return nil
		}
	}
}

func (m *Manager) login(ctx context.Context) error {
	for attempt := 1; ; attempt++ {
		err := m.client.Login(ctx)
		if err == nil {
			m.log.Info("logged in", "attempts", attempt)
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		m.log.Warn("login failed, retrying", "attempt", attempt, "retry_in", m.loop.AuthRetryDelay, "error", err)
		if err := sleep(ctx, m.loop.AuthRetryDelay); err != nil {
			return err
		}
	}
}

// NextWait returns the poll interval offset by a uniform value in
// [-jitter, +jitter], never negative.
func (m *Manager) NextWait() time.Duration {
	offset := (2*m.jitter() - 1) * float64(m.loop.PollJitter)
	wait := m.loop.PollInterval + time.Duration(offset)
	return max(wait, 0)
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func ignoreCancel(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}
