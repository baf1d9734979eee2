package config

import "fmt"

// migrate upgrades a config from its current version to CurrentVersion.
// Each migration function transforms the config one version forward.
// Returns an error if the config version is newer than what this binary supports.
func migrate(cfg *Config) error {
	if cfg.Version == CurrentVersion {
		return nil
	}
	if cfg.Version > CurrentVersion {
		return fmt.Errorf(
			"%w: config version %d is newer than supported version %d (upgrade taskflow)",
			ErrInvalid, cfg.Version, CurrentVersion,
		)
	}
	if cfg.Version < 1 {
		return fmt.Errorf("%w: config version %d is invalid", ErrInvalid, cfg.Version)
	}

	for cfg.Version < CurrentVersion {
		fn, ok := migrations[cfg.Version]
		if !ok {
			return fmt.Errorf("%w: no migration path from version %d", ErrInvalid, cfg.Version)
		}
		if err := fn(cfg); err != nil {
			return fmt.Errorf("migrating config from v%d: %w", cfg.Version, err)
		}
	}

	return nil
}

// migrations maps each version to the function that migrates it to the next version.
// The migration function must increment cfg.Version after a successful migration.
var migrations = map[int]func(*Config) error{
	1: migrateV1ToV2,
	2: migrateV2ToV3,
	3: migrateV3ToV4,
}

// migrateV1ToV2 adds the list defaults, the overdue filter policy and collation.
func migrateV1ToV2(cfg *Config) error { //nolint:unparam // signature must match migrations map type
	if cfg.Defaults.Sort == "" {
		cfg.Defaults.Sort = DefaultSort
	}
	if cfg.Defaults.StatusFilter == "" {
		cfg.Defaults.StatusFilter = DefaultFilter
	}
	if cfg.Defaults.PriorityFilter == "" {
		cfg.Defaults.PriorityFilter = DefaultFilter
	}
	if cfg.OverdueFilter == "" {
		cfg.OverdueFilter = DefaultOverdueFilter
	}
	if cfg.Collation == "" {
		cfg.Collation = DefaultCollation
	}
	cfg.Version = 2
	return nil
}

// migrateV2ToV3 adds the theme and the TUI refresh interval.
func migrateV2ToV3(cfg *Config) error { //nolint:unparam // signature must match migrations map type
	if cfg.Theme == "" {
		cfg.Theme = DefaultTheme
	}
	if cfg.TUI.RefreshInterval == "" {
		cfg.TUI.RefreshInterval = DefaultRefreshInterval
	}
	cfg.Version = 3
	return nil
}

// migrateV3ToV4 adds the API section and the Firestore collection names.
// Configs written before v4 had no signing secret; one is generated.
func migrateV3ToV4(cfg *Config) error { //nolint:unparam // signature must match migrations map type
	if cfg.API.Addr == "" {
		cfg.API.Addr = DefaultAPIAddr
	}
	if cfg.Backend.Firestore.Collection == "" {
		cfg.Backend.Firestore.Collection = DefaultTasksCollection
	}
	if cfg.Backend.Firestore.UsersCollection == "" {
		cfg.Backend.Firestore.UsersCollection = DefaultUsersCollection
	}
	if cfg.Session.TTL == "" {
		cfg.Session.TTL = DefaultSessionTTL
	}
	if cfg.Session.Secret == "" {
		cfg.Session.Secret = newSecret()
	}
	cfg.Version = 4
	return nil
}
