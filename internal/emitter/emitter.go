// Package emitter turns a plan into game client calls.
package emitter

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/funkwit/pokemon-go-manager/internal/client"
	"github.com/funkwit/pokemon-go-manager/internal/config"
	"github.com/funkwit/pokemon-go-manager/internal/planner"
	"github.com/funkwit/pokemon-go-manager/internal/types"
)

// Namer resolves species names for log lines.
type Namer interface {
	Name(id types.SpeciesID) string
}

// Emitter issues the mutating calls of a plan: discards, then favorite
// changes, then releases. Consecutive calls are spaced by the configured
// action delay. Failed calls are logged and counted, never retried.
type Emitter struct {
	client  client.Client
	actions config.ActionsConfig
	names   Namer
	limiter *rate.Limiter
	log     *slog.Logger
}

// Option configures an Emitter.
type Option func(*Emitter)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Emitter) {
		e.log = l
	}
}

// New creates an emitter for c using the action toggles and delay in cfg.
func New(c client.Client, cfg *config.Config, names Namer, opts ...Option) *Emitter {
	e := &Emitter{
		client:  c,
		actions: cfg.Actions,
		names:   names,
		limiter: newLimiter(cfg.Loop.ActionDelay),
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func newLimiter(delay time.Duration) *rate.Limiter {
	if delay <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(delay), 1)
}

// Emit executes the plan. It returns early with the context error if ctx is
// cancelled; the report then covers the calls made so far.
func (e *Emitter) Emit(ctx context.Context, plan *planner.Plan) (*Report, error) {
	report := &Report{DryRun: e.actions.DryRun}

	for _, d := range plan.Discard.Items {
		ok, err := e.call(ctx, &report.Discard, e.actions.Discard, func() error {
			return e.client.DiscardItem(ctx, d.Item, d.Count)
		}, "discard", "item", int(d.Item), "category", d.Item.Category().String(), "count", d.Count)
		if ok {
			report.ItemsDiscarded += d.Count
		}
		if err != nil {
			return report, err
		}
	}

	for _, f := range plan.Favorites {
		c := f.Creature
		_, err := e.call(ctx, &report.Favorite, e.actions.Favorite, func() error {
			return e.client.SetFavorite(ctx, c.ID, f.Favorite)
		}, "favorite", "id", c.ID, "species", e.names.Name(c.Species), "cp", c.CP, "favorite", f.Favorite)
		if err != nil {
			return report, err
		}
	}

	for _, c := range plan.Release {
		_, err := e.call(ctx, &report.Release, e.actions.Release, func() error {
			return e.client.Release(ctx, c.ID)
		}, "release", "id", c.ID, "species", e.names.Name(c.Species), "cp", c.CP)
		if err != nil {
			return report, err
		}
	}

	return report, nil
}

// call runs one action subject to its toggle, dry-run and the limiter. It
// reports whether the call was sent and succeeded. The returned error is
// only ever a context error.
func (e *Emitter) call(ctx context.Context, stats *Stats, enabled bool, fn func() error, action string, attrs ...any) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if !enabled {
		stats.Skipped++
		return false, nil
	}
	if e.actions.DryRun {
		stats.Skipped++
		e.log.Info(action+" (dry run)", attrs...)
		return false, nil
	}

	if err := e.limiter.Wait(ctx); err != nil {
		return false, err
	}
	stats.Attempted++
	if err := fn(); err != nil {
		stats.Failed++
		e.log.Warn(action+" failed", append(attrs, "error", err)...)
		return false, ctx.Err()
	}
	stats.Succeeded++
	e.log.Info(action, attrs...)
	return true, nil
}
