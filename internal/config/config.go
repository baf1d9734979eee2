package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/twiced-technology-gmbh/taskflow/internal/clierr"
	"github.com/twiced-technology-gmbh/taskflow/internal/task"
	"github.com/twiced-technology-gmbh/taskflow/internal/view"
)

const (
	fileMode = 0o600
	dirMode  = 0o700
)

// Sentinel errors.
var (
	ErrNotFound = errors.New("no taskflow config found (run 'taskflow init' to create one)")
	ErrInvalid  = errors.New("invalid config")
)

// Config represents the taskflow configuration.
type Config struct {
	Version       int            `yaml:"version"`
	Backend       BackendConfig  `yaml:"backend"`
	Defaults      DefaultsConfig `yaml:"defaults"`
	OverdueFilter string         `yaml:"overdue_filter"`
	Collation     string         `yaml:"collation"`
	Theme         string         `yaml:"theme"`
	Session       SessionConfig  `yaml:"session"`
	TUI           TUIConfig      `yaml:"tui,omitempty"`
	API           APIConfig      `yaml:"api,omitempty"`

	// dir is the absolute path to the config directory (not serialized).
	dir string `yaml:"-"`
}

// BackendConfig selects and configures the storage backend.
type BackendConfig struct {
	Driver     string          `yaml:"driver"`
	SQLitePath string          `yaml:"sqlite_path,omitempty"`
	Firestore  FirestoreConfig `yaml:"firestore,omitempty"`
}

// FirestoreConfig holds Cloud Firestore settings.
type FirestoreConfig struct {
	ProjectID       string `yaml:"project_id,omitempty" json:"project_id,omitempty"`
	CredentialsFile string `yaml:"credentials_file,omitempty" json:"credentials_file,omitempty"`
	Collection      string `yaml:"collection,omitempty" json:"collection,omitempty"`
	UsersCollection string `yaml:"users_collection,omitempty" json:"users_collection,omitempty"`
}

// DefaultsConfig holds default values for new tasks and new sessions.
type DefaultsConfig struct {
	Priority       string `yaml:"priority"`
	Color          string `yaml:"color"`
	Sort           string `yaml:"sort"`
	StatusFilter   string `yaml:"status_filter"`
	PriorityFilter string `yaml:"priority_filter"`
}

// SessionConfig controls login sessions.
type SessionConfig struct {
	TTL    string `yaml:"ttl"`
	Secret string `yaml:"secret,omitempty"`
}

// TUIConfig holds TUI-specific settings.
type TUIConfig struct {
	RefreshInterval string `yaml:"refresh_interval,omitempty"`
}

// APIConfig holds HTTP API settings.
type APIConfig struct {
	Addr        string   `yaml:"addr,omitempty"`
	CORSOrigins []string `yaml:"cors_origins,omitempty"`
}

// Dir returns the absolute path to the config directory.
func (c *Config) Dir() string {
	return c.dir
}

// SetDir sets the config directory path on the config.
func (c *Config) SetDir(dir string) {
	c.dir = dir
}

// ConfigPath returns the absolute path to the config file.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.dir, ConfigFileName)
}

// SessionPath returns the absolute path to the session file.
func (c *Config) SessionPath() string {
	return filepath.Join(c.dir, "session.json")
}

// ActivityPath returns the absolute path to the activity log.
func (c *Config) ActivityPath() string {
	return filepath.Join(c.dir, "activity.jsonl")
}

// DatabasePath returns the absolute path to the SQLite database.
func (c *Config) DatabasePath() string {
	p := c.Backend.SQLitePath
	if p == "" {
		p = DefaultSQLitePath
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.dir, p)
}

// NewDefault creates a Config with default values and a fresh signing secret.
func NewDefault() *Config {
	return &Config{
		Version: CurrentVersion,
		Backend: BackendConfig{
			Driver:     DriverSQLite,
			SQLitePath: DefaultSQLitePath,
			Firestore: FirestoreConfig{
				Collection:      DefaultTasksCollection,
				UsersCollection: DefaultUsersCollection,
			},
		},
		Defaults: DefaultsConfig{
			Priority:       DefaultPriority,
			Color:          DefaultColor,
			Sort:           DefaultSort,
			StatusFilter:   DefaultFilter,
			PriorityFilter: DefaultFilter,
		},
		OverdueFilter: DefaultOverdueFilter,
		Collation:     DefaultCollation,
		Theme:         DefaultTheme,
		Session:       SessionConfig{TTL: DefaultSessionTTL, Secret: newSecret()},
		TUI:           TUIConfig{RefreshInterval: DefaultRefreshInterval},
		API:           APIConfig{Addr: DefaultAPIAddr},
	}
}

func newSecret() string {
	const secretBytes = 32
	b := make([]byte, secretBytes)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("reading random secret: %v", err))
	}
	return hex.EncodeToString(b)
}

// Validate checks the config for errors.
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return fmt.Errorf("%w: unsupported version %d (expected %d)", ErrInvalid, c.Version, CurrentVersion)
	}
	if !contains(Drivers, c.Backend.Driver) {
		return fmt.Errorf("%w: unknown backend.driver %q", ErrInvalid, c.Backend.Driver)
	}
	if c.Backend.Driver == DriverFirestore && c.Backend.Firestore.ProjectID == "" {
		return fmt.Errorf("%w: backend.firestore.project_id is required for the firestore driver", ErrInvalid)
	}
	if err := c.validateDefaults(); err != nil {
		return err
	}
	if !contains(OverdueFilters, c.OverdueFilter) {
		return fmt.Errorf("%w: overdue_filter must be stored or effective, got %q", ErrInvalid, c.OverdueFilter)
	}
	if !contains(Themes, c.Theme) {
		return fmt.Errorf("%w: theme must be auto, light or dark, got %q", ErrInvalid, c.Theme)
	}
	if err := validateDuration("session.ttl", c.Session.TTL); err != nil {
		return err
	}
	if c.TUI.RefreshInterval != "" {
		if err := validateDuration("tui.refresh_interval", c.TUI.RefreshInterval); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateDefaults() error {
	if _, err := task.ParsePriority(c.Defaults.Priority); err != nil {
		return fmt.Errorf("%w: invalid defaults.priority %q", ErrInvalid, c.Defaults.Priority)
	}
	if _, err := view.ParseSortOption(c.Defaults.Sort); err != nil {
		return fmt.Errorf("%w: invalid defaults.sort %q", ErrInvalid, c.Defaults.Sort)
	}
	if _, err := view.ParseStatusFilter(c.Defaults.StatusFilter); err != nil {
		return fmt.Errorf("%w: invalid defaults.status_filter %q", ErrInvalid, c.Defaults.StatusFilter)
	}
	if _, err := view.ParsePriorityFilter(c.Defaults.PriorityFilter); err != nil {
		return fmt.Errorf("%w: invalid defaults.priority_filter %q", ErrInvalid, c.Defaults.PriorityFilter)
	}
	return nil
}

func validateDuration(key, value string) error {
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("%w: invalid %s %q: %w", ErrInvalid, key, value, err)
	}
	if d <= 0 {
		return fmt.Errorf("%w: %s must be positive", ErrInvalid, key)
	}
	return nil
}

// SessionTTL returns the parsed session lifetime.
func (c *Config) SessionTTL() time.Duration {
	d, err := time.ParseDuration(c.Session.TTL)
	if err != nil || d <= 0 {
		d, _ = time.ParseDuration(DefaultSessionTTL)
	}
	return d
}

// RefreshInterval returns how often the TUI recomputes effective status.
func (c *Config) RefreshInterval() time.Duration {
	d, err := time.ParseDuration(c.TUI.RefreshInterval)
	if err != nil || d <= 0 {
		d, _ = time.ParseDuration(DefaultRefreshInterval)
	}
	return d
}

// ViewOptions returns the list selection a fresh session starts with.
// Invalid values fall back to the defaults; Validate reports them.
func (c *Config) ViewOptions() view.Options {
	opts := view.DefaultOptions()
	if s, err := view.ParseStatusFilter(c.Defaults.StatusFilter); err == nil {
		opts.Status = s
	}
	if p, err := view.ParsePriorityFilter(c.Defaults.PriorityFilter); err == nil {
		opts.Priority = p
	}
	if o, err := view.ParseSortOption(c.Defaults.Sort); err == nil {
		opts.Sort = o
	}
	if p, err := view.ParseOverduePolicy(c.OverdueFilter); err == nil {
		opts.Policy = p
	}
	opts.Collation = c.Collation
	return opts
}

// Init creates the config directory and writes a default config file.
// It refuses to overwrite an existing config.
func Init(dir string) (*Config, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg := NewDefault()
	cfg.SetDir(absDir)

	if _, err := os.Stat(cfg.ConfigPath()); err == nil {
		return nil, clierr.Newf(clierr.ConfigExists, "config already exists at %s", cfg.ConfigPath())
	}
	if err := os.MkdirAll(absDir, dirMode); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}
	if err := cfg.Save(); err != nil {
		return nil, fmt.Errorf("writing config: %w", err)
	}
	return cfg, nil
}

// Save writes the config to its config file.
func (c *Config) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(c.ConfigPath(), data, fileMode)
}

// Load reads, migrates and validates a config from the given directory.
// Environment overrides are applied after validation and never persisted.
func Load(dir string) (*Config, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	path := filepath.Join(absDir, ConfigFileName)
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted source
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.dir = absDir

	oldVersion := cfg.Version
	if err := migrate(&cfg); err != nil {
		return nil, err
	}

	// Persist migrated config so future loads skip re-migration.
	if cfg.Version != oldVersion {
		if err := cfg.Save(); err != nil {
			return nil, fmt.Errorf("saving migrated config: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	LoadEnv(absDir)
	cfg.applyEnv()

	return &cfg, nil
}

// DefaultDir returns the per-user config directory, e.g. ~/.config/taskflow.
func DefaultDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating user config directory: %w", err)
	}
	return filepath.Join(base, AppName), nil
}

// ResolveDir picks the config directory: the explicit flag value, then
// TASKFLOW_DIR, then the per-user default.
func ResolveDir(flagDir string) (string, error) {
	if flagDir != "" {
		return flagDir, nil
	}
	if env := os.Getenv(EnvDir); env != "" {
		return env, nil
	}
	return DefaultDir()
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
