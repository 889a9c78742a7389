// Package storage persists cycle history and archived inventory snapshots.
package storage

import (
	"context"
	"time"

	"github.com/funkwit/pokemon-go-manager/internal/inventory"
)

// CycleRecord summarizes one management cycle.
type CycleRecord struct {
	// ID is a random UUID assigned when the record is written.
	ID string `json:"id"`

	// StartedAt is when the cycle began fetching.
	StartedAt time.Time `json:"started_at"`

	// Duration is the wall time of the whole cycle.
	Duration time.Duration `json:"duration"`

	// SnapshotDigest keys the archived snapshot, if one was archived.
	SnapshotDigest string `json:"snapshot_digest,omitempty"`

	Creatures int `json:"creatures"`
	Evolve    int `json:"evolve"`
	Release   int `json:"release"`
	Favorites int `json:"favorites"`
	Discarded int `json:"discarded"`

	// Failed counts actions the server rejected.
	Failed int `json:"failed"`

	DryRun bool `json:"dry_run"`

	// Error is the message of the error that aborted the cycle, if any.
	Error string `json:"error,omitempty"`
}

// Store is the interface for persisting cycle data.
type Store interface {
	// Init opens the backing database and creates the schema.
	Init(ctx context.Context) error

	// RecordCycle writes a cycle record, assigning an ID when empty.
	RecordCycle(ctx context.Context, rec *CycleRecord) error

	// ListCycles returns up to limit records, newest first. A limit <= 0
	// returns all records.
	ListCycles(ctx context.Context, limit int) ([]CycleRecord, error)

	// PutSnapshot archives a snapshot and returns its digest. Archiving the
	// same snapshot twice stores it once.
	PutSnapshot(ctx context.Context, snap *inventory.Snapshot) (string, error)

	// GetSnapshot retrieves an archived snapshot by digest.
	GetSnapshot(ctx context.Context, digest string) (*inventory.Snapshot, bool, error)

	// Close releases any resources.
	Close() error
}
