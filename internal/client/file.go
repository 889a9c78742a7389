package client

import (
	"context"
	"sync"

	"github.com/funkwit/pokemon-go-manager/internal/inventory"
	"github.com/funkwit/pokemon-go-manager/internal/types"
)

// Call kinds recorded by File.
const (
	CallFavorite = "favorite"
	CallRelease  = "release"
	CallDiscard  = "discard"
)

// Call is one mutation received by a File client.
type Call struct {
	Kind     string
	ID       uint64
	Favorite bool
	Item     types.ItemID
	Count    int
}

// File serves a snapshot document from disk and records mutations in
// memory instead of sending them anywhere. The file is re-read on every
// fetch so an external process can update it between cycles.
type File struct {
	path string
	snap *inventory.Snapshot

	mu    sync.Mutex
	calls []Call
}

// NewFile creates a client reading the snapshot at path.
func NewFile(path string) *File {
	return &File{path: path}
}

// NewStatic creates a client serving an in-memory snapshot.
func NewStatic(snap *inventory.Snapshot) *File {
	return &File{snap: snap}
}

func (f *File) load() (*inventory.Snapshot, error) {
	if f.snap != nil {
		return f.snap, nil
	}
	return inventory.ReadSnapshot(f.path)
}

// Login checks that the snapshot is readable.
func (f *File) Login(ctx context.Context) error {
	_, err := f.load()
	return err
}

func (f *File) FetchPlayerLimits(ctx context.Context) (types.PlayerLimits, error) {
	snap, err := f.load()
	if err != nil {
		return types.PlayerLimits{}, err
	}
	return types.PlayerLimits{MaxItemStorage: snap.MaxItemStorage}, nil
}

func (f *File) FetchInventorySnapshot(ctx context.Context) ([]inventory.Record, error) {
	snap, err := f.load()
	if err != nil {
		return nil, err
	}
	return snap.Records, nil
}

func (f *File) SetFavorite(ctx context.Context, id uint64, favorite bool) error {
	f.record(Call{Kind: CallFavorite, ID: id, Favorite: favorite})
	return nil
}

func (f *File) Release(ctx context.Context, id uint64) error {
	f.record(Call{Kind: CallRelease, ID: id})
	return nil
}

func (f *File) DiscardItem(ctx context.Context, item types.ItemID, count int) error {
	f.record(Call{Kind: CallDiscard, Item: item, Count: count})
	return nil
}

func (f *File) record(c Call) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
}

// Calls returns a copy of the mutations received so far.
func (f *File) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}
