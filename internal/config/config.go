// Package config provides configuration management for pgm.
// Configuration is loaded from (highest to lowest priority):
// 1. Command-line flags
// 2. Environment variables (PGM_*)
// 3. Project config (.pgm/config.yaml in cwd, or $PGM_CONFIG)
// 4. Home config (~/.pgm/config.yaml)
// 5. Defaults
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gonum.org/v1/gonum/floats"
	"gopkg.in/yaml.v3"

	"github.com/funkwit/pokemon-go-manager/internal/types"
)

// Config holds all pgm configuration. A loaded Config is treated as an
// immutable value and handed to each component at construction.
type Config struct {
	// Output controls the default output format (table, json, yaml, csv,
	// markdown, jsonl).
	Output string `yaml:"output" json:"output"`

	// Verbose enables debug logging.
	Verbose bool `yaml:"verbose" json:"verbose"`

	// GameData is the path to the species tables (empty = embedded).
	GameData string `yaml:"game_data" json:"game_data"`

	Client  ClientConfig  `yaml:"client" json:"client"`
	Loop    LoopConfig    `yaml:"loop" json:"loop"`
	Planner PlannerConfig `yaml:"planner" json:"planner"`
	Items   ItemsConfig   `yaml:"items" json:"items"`
	Actions ActionsConfig `yaml:"actions" json:"actions"`
	Store   StoreConfig   `yaml:"store" json:"store"`
}

// ClientConfig selects and configures the game client.
type ClientConfig struct {
	// Mode is "http" (bridge endpoint) or "file" (replay a snapshot file).
	Mode string `yaml:"mode" json:"mode"`

	// Endpoint is the base URL of the HTTP bridge.
	Endpoint string `yaml:"endpoint" json:"endpoint"`

	// SnapshotFile is read by the file client.
	SnapshotFile string `yaml:"snapshot_file" json:"snapshot_file"`

	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"-"`

	// Provider is the login provider (google, ptc).
	Provider string `yaml:"provider" json:"provider"`

	// Position is the starting latitude, longitude, altitude.
	Position []float64 `yaml:"position" json:"position"`

	Timeout time.Duration `yaml:"timeout" json:"timeout"`
}

// LoopConfig holds poll loop timing.
type LoopConfig struct {
	// PollInterval is the base wait between cycles.
	PollInterval time.Duration `yaml:"poll_interval" json:"poll_interval"`

	// PollJitter is the maximum random deviation added to PollInterval.
	PollJitter time.Duration `yaml:"poll_jitter" json:"poll_jitter"`

	// ActionDelay separates consecutive mutating calls.
	ActionDelay time.Duration `yaml:"action_delay" json:"action_delay"`

	// AuthRetryDelay is the fixed wait between login attempts.
	AuthRetryDelay time.Duration `yaml:"auth_retry_delay" json:"auth_retry_delay"`
}

// PlannerConfig tunes evolution and cull decisions.
type PlannerConfig struct {
	// CPThresholdFactor is the fraction of a species' best CP below which
	// instances become cull candidates.
	CPThresholdFactor float64 `yaml:"cp_threshold_factor" json:"cp_threshold_factor"`

	// MinSimilar is the number of top instances per species always kept.
	MinSimilar int `yaml:"min_similar" json:"min_similar"`

	// MaxSimilar caps the number of instances kept per species.
	MaxSimilar int `yaml:"max_similar" json:"max_similar"`

	// EasyEvolutions lists families evolved at single-step cost for XP.
	EasyEvolutions []types.FamilyID `yaml:"easy_evolutions" json:"easy_evolutions"`
}

// ItemsConfig controls item discarding.
type ItemsConfig struct {
	// Buffer is the number of free slots to keep below the storage cap.
	Buffer int `yaml:"buffer" json:"buffer"`

	Proportions ProportionsConfig `yaml:"proportions" json:"proportions"`
}

// ProportionsConfig holds relative target shares per tracked item category.
// Values need not sum to one; they are normalized by Targets.
type ProportionsConfig struct {
	Pokeball float64 `yaml:"pokeball" json:"pokeball"`
	Potion   float64 `yaml:"potion" json:"potion"`
	Revive   float64 `yaml:"revive" json:"revive"`
	Berry    float64 `yaml:"berry" json:"berry"`
}

// ActionsConfig toggles each kind of mutation.
type ActionsConfig struct {
	Discard  bool `yaml:"discard" json:"discard"`
	Release  bool `yaml:"release" json:"release"`
	Favorite bool `yaml:"favorite" json:"favorite"`

	// DryRun computes and logs actions without issuing them.
	DryRun bool `yaml:"dry_run" json:"dry_run"`
}

// StoreConfig locates the cycle history database.
type StoreConfig struct {
	// Path is the SQLite database file (empty disables history).
	Path string `yaml:"path" json:"path"`

	// ArchiveSnapshots stores a compressed copy of every distinct snapshot.
	ArchiveSnapshots bool `yaml:"archive_snapshots" json:"archive_snapshots"`
}

// Default config values (used in resolution and validation).
const (
	defaultOutput    = "table"
	defaultStorePath = ".pgm/history.db"
)

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Output: defaultOutput,
		Client: ClientConfig{
			Mode:     "http",
			Endpoint: "http://127.0.0.1:8765",
			Provider: "google",
			Timeout:  10 * time.Second,
		},
		Loop: LoopConfig{
			PollInterval:   10 * time.Minute,
			PollJitter:     2 * time.Minute,
			ActionDelay:    2 * time.Second,
			AuthRetryDelay: 2 * time.Second,
		},
		Planner: PlannerConfig{
			CPThresholdFactor: 0.5,
			MinSimilar:        1,
			MaxSimilar:        3,
			EasyEvolutions:    []types.FamilyID{10, 13, 16},
		},
		Items: ItemsConfig{
			Buffer: 20,
			Proportions: ProportionsConfig{
				Pokeball: 0.5,
				Potion:   0.2,
				Revive:   0.1,
				Berry:    0.2,
			},
		},
		Actions: ActionsConfig{
			Discard:  true,
			Release:  true,
			Favorite: true,
		},
		Store: StoreConfig{
			Path:             defaultStorePath,
			ArchiveSnapshots: true,
		},
	}
}

// Load loads configuration with proper precedence.
// Priority: env > project > home > defaults. Flags are applied by the caller.
func Load() (*Config, error) {
	cfg := Default()

	if err := loadInto(cfg, homeConfigPath()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	if err := loadInto(cfg, projectConfigPath()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// homeConfigPath returns the home config path.
func homeConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".pgm", "config.yaml")
}

// projectConfigPath returns the project config path.
func projectConfigPath() string {
	if override := strings.TrimSpace(os.Getenv("PGM_CONFIG")); override != "" {
		return override
	}
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return filepath.Join(cwd, ".pgm", "config.yaml")
}

// loadInto decodes a YAML file over cfg. Keys absent from the file keep the
// values already in cfg, which is what layers the files over each other.
func loadInto(cfg *Config, path string) error {
	if path == "" {
		return os.ErrNotExist
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// applyEnv applies environment variable overrides.
func applyEnv(cfg *Config) error {
	var errs []error

	envString(&cfg.Output, "PGM_OUTPUT")
	envString(&cfg.GameData, "PGM_GAME_DATA")
	envString(&cfg.Client.Mode, "PGM_CLIENT_MODE")
	envString(&cfg.Client.Endpoint, "PGM_ENDPOINT")
	envString(&cfg.Client.SnapshotFile, "PGM_SNAPSHOT_FILE")
	envString(&cfg.Client.Username, "PGM_USERNAME")
	envString(&cfg.Client.Password, "PGM_PASSWORD")
	envString(&cfg.Client.Provider, "PGM_PROVIDER")
	envString(&cfg.Store.Path, "PGM_STORE_PATH")

	errs = append(errs,
		envBool(&cfg.Verbose, "PGM_VERBOSE"),
		envBool(&cfg.Actions.DryRun, "PGM_DRY_RUN"),
		envBool(&cfg.Actions.Discard, "PGM_ENABLE_DISCARD"),
		envBool(&cfg.Actions.Release, "PGM_ENABLE_RELEASE"),
		envBool(&cfg.Actions.Favorite, "PGM_ENABLE_FAVORITE"),
		envDuration(&cfg.Loop.PollInterval, "PGM_POLL_INTERVAL"),
		envDuration(&cfg.Loop.PollJitter, "PGM_POLL_JITTER"),
		envDuration(&cfg.Loop.ActionDelay, "PGM_ACTION_DELAY"),
	)
	return errors.Join(errs...)
}

// envString overwrites dst when the variable is non-empty.
func envString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// envBool overwrites dst when the variable is set to a boolean.
func envBool(dst *bool, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = b
	return nil
}

// envDuration overwrites dst when the variable holds a duration.
func envDuration(dst *time.Duration, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}

// Targets returns the normalized target share of every item category.
// A zero proportion is a target of zero: the whole category is excess.
// The map is empty when no proportion is positive.
func (c ItemsConfig) Targets() map[types.Category]float64 {
	cats := []types.Category{
		types.CategoryPokeball,
		types.CategoryPotion,
		types.CategoryRevive,
		types.CategoryBerry,
	}
	shares := []float64{
		c.Proportions.Pokeball,
		c.Proportions.Potion,
		c.Proportions.Revive,
		c.Proportions.Berry,
	}

	targets := make(map[types.Category]float64, len(cats))
	total := floats.Sum(shares)
	if total <= 0 {
		return targets
	}
	floats.Scale(1/total, shares)
	for i, cat := range cats {
		targets[cat] = shares[i]
	}
	return targets
}

// IsEasyEvolution reports whether the family is on the easy-evolution list.
func (c PlannerConfig) IsEasyEvolution(f types.FamilyID) bool {
	for _, id := range c.EasyEvolutions {
		if id == f {
			return true
		}
	}
	return false
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error

	switch c.Output {
	case "table", "json", "yaml", "csv", "markdown", "jsonl":
	default:
		errs = append(errs, fmt.Errorf("output: unsupported format %q", c.Output))
	}

	switch c.Client.Mode {
	case "http":
		if c.Client.Endpoint == "" {
			errs = append(errs, errors.New("client.endpoint: required in http mode"))
		}
	case "file":
		if c.Client.SnapshotFile == "" {
			errs = append(errs, errors.New("client.snapshot_file: required in file mode"))
		}
	default:
		errs = append(errs, fmt.Errorf("client.mode: unsupported mode %q", c.Client.Mode))
	}
	if len(c.Client.Position) != 0 && len(c.Client.Position) != 3 {
		errs = append(errs, fmt.Errorf("client.position: want 3 values, got %d", len(c.Client.Position)))
	}

	if c.Loop.PollInterval <= 0 {
		errs = append(errs, errors.New("loop.poll_interval: must be positive"))
	}
	if c.Loop.PollJitter < 0 || c.Loop.PollJitter > c.Loop.PollInterval {
		errs = append(errs, errors.New("loop.poll_jitter: must be between 0 and poll_interval"))
	}
	if c.Loop.ActionDelay < 0 {
		errs = append(errs, errors.New("loop.action_delay: must not be negative"))
	}
	if c.Loop.AuthRetryDelay <= 0 {
		errs = append(errs, errors.New("loop.auth_retry_delay: must be positive"))
	}

	if c.Planner.CPThresholdFactor < 0 || c.Planner.CPThresholdFactor > 1 {
		errs = append(errs, fmt.Errorf("planner.cp_threshold_factor: %v not in [0, 1]", c.Planner.CPThresholdFactor))
	}
	if c.Planner.MinSimilar < 0 {
		errs = append(errs, errors.New("planner.min_similar: must not be negative"))
	}
	if c.Planner.MaxSimilar < c.Planner.MinSimilar {
		errs = append(errs, errors.New("planner.max_similar: must be >= min_similar"))
	}

	if c.Items.Buffer < 0 {
		errs = append(errs, errors.New("items.buffer: must not be negative"))
	}
	p := c.Items.Proportions
	if p.Pokeball < 0 || p.Potion < 0 || p.Revive < 0 || p.Berry < 0 {
		errs = append(errs, errors.New("items.proportions: must not be negative"))
	}
	if len(c.Items.Targets()) == 0 {
		errs = append(errs, errors.New("items.proportions: at least one category must be positive"))
	}

	return errors.Join(errs...)
}

// Source represents where a config value came from.
type Source string

const (
	SourceDefault Source = "default"
	SourceHome    Source = "~/.pgm/config.yaml"
	SourceProject Source = ".pgm/config.yaml"
	SourceEnv     Source = "environment"
)

// Origins returns the config files that exist, keyed by layer.
func Origins() map[Source]string {
	out := map[Source]string{}
	if p := homeConfigPath(); p != "" {
		if _, err := os.Stat(p); err == nil {
			out[SourceHome] = p
		}
	}
	if p := projectConfigPath(); p != "" {
		if _, err := os.Stat(p); err == nil {
			out[SourceProject] = p
		}
	}
	return out
}
