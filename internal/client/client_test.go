package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/funkwit/pokemon-go-manager/internal/config"
	"github.com/funkwit/pokemon-go-manager/internal/types"
)

// bridge is a fake game bridge recording the JSON bodies it receives.
type bridge struct {
	mu     sync.Mutex
	bodies map[string][]map[string]any
	status map[string]int
}

func newBridge(t *testing.T) (*bridge, *httptest.Server) {
	t.Helper()
	b := &bridge{bodies: make(map[string][]map[string]any), status: make(map[string]int)}
	srv := httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(srv.Close)
	return b, srv
}

func (b *bridge) serve(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	status := b.status[r.URL.Path]
	if r.Method == http.MethodPost {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		b.bodies[r.URL.Path] = append(b.bodies[r.URL.Path], body)
	}
	b.mu.Unlock()

	if status != 0 {
		http.Error(w, "nope", status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/player":
		_, _ = w.Write([]byte(`{"max_item_storage": 350}`))
	case "/inventory":
		_, _ = w.Write([]byte(`{"inventory_items": [
			{"pokemon_data": {"id": 5, "pokemon_id": 16, "cp": 99}},
			{"candy": {"family_id": 16, "candy": 12}},
			{"item": {"item_id": 101, "count": 3}}
		]}`))
	default:
		_, _ = w.Write([]byte(`{}`))
	}
}

func (b *bridge) received(path string) []map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.bodies[path]
}

func httpClient(srv *httptest.Server) *HTTP {
	return NewHTTP(config.ClientConfig{
		Endpoint: srv.URL + "/",
		Username: "ash",
		Password: "pikachu",
		Provider: "ptc",
		Position: []float64{40.7, -74.0, 10},
		Timeout:  time.Second,
	})
}

func TestHTTPLoginSendsCredentialsAndPosition(t *testing.T) {
	b, srv := newBridge(t)
	c := httpClient(srv)

	if err := c.Login(context.Background()); err != nil {
		t.Fatalf("Login: %v", err)
	}
	got := b.received("/login")
	if len(got) != 1 {
		t.Fatalf("login calls = %d, want 1", len(got))
	}
	if got[0]["username"] != "ash" || got[0]["provider"] != "ptc" {
		t.Errorf("login body = %v", got[0])
	}
	if pos, ok := got[0]["position"].([]any); !ok || len(pos) != 3 {
		t.Errorf("position = %v, want 3 coordinates", got[0]["position"])
	}
}

func TestHTTPFetch(t *testing.T) {
	_, srv := newBridge(t)
	c := httpClient(srv)
	ctx := context.Background()

	limits, err := c.FetchPlayerLimits(ctx)
	if err != nil {
		t.Fatalf("FetchPlayerLimits: %v", err)
	}
	if limits.MaxItemStorage != 350 {
		t.Errorf("MaxItemStorage = %d, want 350", limits.MaxItemStorage)
	}

	records, err := c.FetchInventorySnapshot(ctx)
	if err != nil {
		t.Fatalf("FetchInventorySnapshot: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("records = %d, want 3", len(records))
	}
	if records[0].Creature == nil || records[0].Creature.ID != 5 || *records[0].Creature.CP != 99 {
		t.Errorf("creature record = %+v", records[0].Creature)
	}
	if records[2].Item == nil || records[2].Item.ID != 101 {
		t.Errorf("item record = %+v", records[2].Item)
	}
}

func TestHTTPMutations(t *testing.T) {
	b, srv := newBridge(t)
	c := httpClient(srv)
	ctx := context.Background()

	if err := c.SetFavorite(ctx, 7, true); err != nil {
		t.Fatal(err)
	}
	if err := c.Release(ctx, 8); err != nil {
		t.Fatal(err)
	}
	if err := c.DiscardItem(ctx, 1, 12); err != nil {
		t.Fatal(err)
	}

	fav := b.received("/favorite")
	if len(fav) != 1 || fav[0]["pokemon_id"] != float64(7) || fav[0]["is_favorite"] != true {
		t.Errorf("favorite body = %v", fav)
	}
	rel := b.received("/release")
	if len(rel) != 1 || rel[0]["pokemon_id"] != float64(8) {
		t.Errorf("release body = %v", rel)
	}
	rec := b.received("/recycle")
	if len(rec) != 1 || rec[0]["item_id"] != float64(1) || rec[0]["count"] != float64(12) {
		t.Errorf("recycle body = %v", rec)
	}
}

func TestHTTPErrorStatus(t *testing.T) {
	b, srv := newBridge(t)
	b.status["/release"] = http.StatusInternalServerError
	b.status["/player"] = http.StatusUnauthorized
	c := httpClient(srv)
	ctx := context.Background()

	err := c.Release(ctx, 1)
	if err == nil || !strings.Contains(err.Error(), "500") {
		t.Errorf("Release() = %v, want 500 error", err)
	}
	if errors.Is(err, types.ErrNotAuthenticated) {
		t.Error("500 must not be reported as unauthenticated")
	}

	_, err = c.FetchPlayerLimits(ctx)
	if !errors.Is(err, types.ErrNotAuthenticated) {
		t.Errorf("FetchPlayerLimits() = %v, want ErrNotAuthenticated", err)
	}
}

func TestHTTPContextCancelled(t *testing.T) {
	_, srv := newBridge(t)
	c := httpClient(srv)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := c.Login(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Login() = %v, want context.Canceled", err)
	}
}

func TestFileClient(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snap.json")
	doc := `{"max_item_storage": 200, "inventory_items": [
		{"pokemon_data": {"id": 1, "pokemon_id": 1, "cp": 10}},
		{"candy": {"family_id": 1, "candy": 3}}
	]}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	c := NewFile(path)
	ctx := context.Background()
	if err := c.Login(ctx); err != nil {
		t.Fatalf("Login: %v", err)
	}
	limits, err := c.FetchPlayerLimits(ctx)
	if err != nil || limits.MaxItemStorage != 200 {
		t.Errorf("limits = %+v, %v", limits, err)
	}
	records, err := c.FetchInventorySnapshot(ctx)
	if err != nil || len(records) != 2 {
		t.Errorf("records = %d, %v", len(records), err)
	}

	_ = c.DiscardItem(ctx, 1, 4)
	_ = c.SetFavorite(ctx, 1, true)
	_ = c.Release(ctx, 2)

	want := []Call{
		{Kind: CallDiscard, Item: 1, Count: 4},
		{Kind: CallFavorite, ID: 1, Favorite: true},
		{Kind: CallRelease, ID: 2},
	}
	if got := c.Calls(); !reflect.DeepEqual(got, want) {
		t.Errorf("Calls() = %+v, want %+v", got, want)
	}
}

func TestFileClientMissing(t *testing.T) {
	c := NewFile(filepath.Join(t.TempDir(), "absent.json"))
	if err := c.Login(context.Background()); err == nil {
		t.Error("expected error for missing snapshot")
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		mode    string
		want    string
		wantErr bool
	}{
		{ModeHTTP, "*client.HTTP", false},
		{"", "*client.HTTP", false},
		{ModeFile, "*client.File", false},
		{"grpc", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			c, err := New(config.ClientConfig{Mode: tt.mode, Endpoint: "http://x", SnapshotFile: "s.json"})
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got := reflect.TypeOf(c).String(); got != tt.want {
				t.Errorf("type = %s, want %s", got, tt.want)
			}
		})
	}
}
