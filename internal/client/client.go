// Package client defines the game client contract and its adapters: an HTTP
// bridge to a running game session and a file-backed client that replays a
// captured snapshot.
package client

import (
	"context"
	"fmt"

	"github.com/funkwit/pokemon-go-manager/internal/config"
	"github.com/funkwit/pokemon-go-manager/internal/inventory"
	"github.com/funkwit/pokemon-go-manager/internal/types"
)

// Client is the set of game operations the manager depends on.
type Client interface {
	// Login authenticates the session.
	Login(ctx context.Context) error

	// FetchPlayerLimits returns the player's storage caps.
	FetchPlayerLimits(ctx context.Context) (types.PlayerLimits, error)

	// FetchInventorySnapshot returns the raw inventory records.
	FetchInventorySnapshot(ctx context.Context) ([]inventory.Record, error)

	// SetFavorite sets or clears the favorite flag of a creature.
	SetFavorite(ctx context.Context, id uint64, favorite bool) error

	// Release transfers a creature away.
	Release(ctx context.Context, id uint64) error

	// DiscardItem recycles count units of an item.
	DiscardItem(ctx context.Context, item types.ItemID, count int) error
}

// Client modes.
const (
	ModeHTTP = "http"
	ModeFile = "file"
)

// New builds the client selected by cfg.Mode.
func New(cfg config.ClientConfig) (Client, error) {
	switch cfg.Mode {
	case ModeHTTP, "":
		return NewHTTP(cfg), nil
	case ModeFile:
		return NewFile(cfg.SnapshotFile), nil
	default:
		return nil, fmt.Errorf("unsupported client mode %q", cfg.Mode)
	}
}
