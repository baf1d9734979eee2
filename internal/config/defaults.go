// Package config handles taskflow configuration.
package config

const (
	// AppName names the config directory and the JWT issuer.
	AppName = "taskflow"

	// ConfigFileName is the name of the config file within the config directory.
	ConfigFileName = "config.yml"
	// EnvFileName is the optional dotenv file read from the config directory.
	EnvFileName = ".env"

	// CurrentVersion is the current config schema version.
	CurrentVersion = 4

	// DriverSQLite stores data in a local SQLite database.
	DriverSQLite = "sqlite"
	// DriverFirestore stores data in Cloud Firestore.
	DriverFirestore = "firestore"

	// DefaultSQLitePath is relative to the config directory.
	DefaultSQLitePath = "taskflow.db"
	// DefaultTasksCollection is the Firestore collection holding tasks.
	DefaultTasksCollection = "tasks"
	// DefaultUsersCollection is the Firestore collection holding accounts.
	DefaultUsersCollection = "users"

	// DefaultPriority is the priority of a task created without one.
	DefaultPriority = "Medium"
	// DefaultColor is the color of a task created without one.
	DefaultColor = "#3f51b5"
	// DefaultSort is the list order a fresh session starts with.
	DefaultSort = "deadlineAsc"
	// DefaultFilter selects every task.
	DefaultFilter = "All"

	// DefaultOverdueFilter compares the stored status when filtering.
	DefaultOverdueFilter = "stored"
	// DefaultCollation orders titles with English collation rules.
	DefaultCollation = "en"
	// DefaultTheme follows the terminal background.
	DefaultTheme = ThemeAuto

	// DefaultSessionTTL is how long a login stays valid.
	DefaultSessionTTL = "720h"
	// DefaultRefreshInterval is how often the TUI recomputes effective status.
	DefaultRefreshInterval = "30s"
	// DefaultAPIAddr is where `taskflow serve` listens.
	DefaultAPIAddr = "127.0.0.1:8080"
)

// Theme settings.
const (
	ThemeAuto  = "auto"
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Environment variables that override config values.
const (
	EnvDir         = "TASKFLOW_DIR"
	EnvJWTSecret   = "TASKFLOW_JWT_SECRET"
	EnvOutput      = "TASKFLOW_OUTPUT"
	EnvCredentials = "GOOGLE_APPLICATION_CREDENTIALS"
)

// Allowed values for enumerated settings.
var (
	Drivers        = []string{DriverSQLite, DriverFirestore}
	OverdueFilters = []string{"stored", "effective"}
	Themes         = []string{ThemeAuto, ThemeLight, ThemeDark}
)
