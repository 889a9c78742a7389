package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/funkwit/pokemon-go-manager/internal/config"
	"github.com/funkwit/pokemon-go-manager/internal/inventory"
	"github.com/funkwit/pokemon-go-manager/internal/types"
)

// maxErrorBody caps how much of a failed response is quoted in the error.
const maxErrorBody = 4096

// HTTP talks JSON to a game bridge.
type HTTP struct {
	endpoint string
	http     *http.Client
	login    loginRequest
}

type loginRequest struct {
	Username string    `json:"username"`
	Password string    `json:"password"`
	Provider string    `json:"provider,omitempty"`
	Position []float64 `json:"position,omitempty"`
}

type playerResponse struct {
	MaxItemStorage int `json:"max_item_storage"`
}

type inventoryResponse struct {
	Items []inventory.Record `json:"inventory_items"`
}

type favoriteRequest struct {
	ID       uint64 `json:"pokemon_id"`
	Favorite bool   `json:"is_favorite"`
}

type releaseRequest struct {
	ID uint64 `json:"pokemon_id"`
}

type recycleRequest struct {
	Item  types.ItemID `json:"item_id"`
	Count int          `json:"count"`
}

// NewHTTP creates a bridge client from the client config.
func NewHTTP(cfg config.ClientConfig) *HTTP {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTP{
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
		http:     &http.Client{Timeout: timeout},
		login: loginRequest{
			Username: cfg.Username,
			Password: cfg.Password,
			Provider: cfg.Provider,
			Position: cfg.Position,
		},
	}
}

func (c *HTTP) Login(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/login", c.login, nil)
}

func (c *HTTP) FetchPlayerLimits(ctx context.Context) (types.PlayerLimits, error) {
	var resp playerResponse
	if err := c.do(ctx, http.MethodGet, "/player", nil, &resp); err != nil {
		return types.PlayerLimits{}, err
	}
	return types.PlayerLimits{MaxItemStorage: resp.MaxItemStorage}, nil
}

func (c *HTTP) FetchInventorySnapshot(ctx context.Context) ([]inventory.Record, error) {
	var resp inventoryResponse
	if err := c.do(ctx, http.MethodGet, "/inventory", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

func (c *HTTP) SetFavorite(ctx context.Context, id uint64, favorite bool) error {
	return c.do(ctx, http.MethodPost, "/favorite", favoriteRequest{ID: id, Favorite: favorite}, nil)
}

func (c *HTTP) Release(ctx context.Context, id uint64) error {
	return c.do(ctx, http.MethodPost, "/release", releaseRequest{ID: id}, nil)
}

func (c *HTTP) DiscardItem(ctx context.Context, item types.ItemID, count int) error {
	return c.do(ctx, http.MethodPost, "/recycle", recycleRequest{Item: item, Count: count}, nil)
}

// do sends body as JSON (when non-nil) and decodes the response into out
// (when non-nil). Non-2xx statuses are errors; 401 wraps
// types.ErrNotAuthenticated.
func (c *HTTP) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint+path, reader)
	if err != nil {
		return fmt.Errorf("build %s request: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		err := fmt.Errorf("%s %s: %s: %s", method, path, resp.Status, strings.TrimSpace(string(msg)))
		if resp.StatusCode == http.StatusUnauthorized {
			return fmt.Errorf("%w: %w", types.ErrNotAuthenticated, err)
		}
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parse %s response: %w", path, err)
	}
	return nil
}
