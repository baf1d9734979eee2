package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/taskflow/internal/clierr"
	"github.com/twiced-technology-gmbh/taskflow/internal/config"
	"github.com/twiced-technology-gmbh/taskflow/internal/output"
	"github.com/twiced-technology-gmbh/taskflow/internal/task"
	"github.com/twiced-technology-gmbh/taskflow/internal/view"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify taskflow configuration",
	Long:  `View the full configuration, get a specific key, or set a writable value.`,
	RunE:  runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show every configuration value",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get KEY",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2), //nolint:mnd // key and value
	RunE:  runConfigSet,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

// configAccessor describes how to get and set a config key.
type configAccessor struct {
	get      func(*config.Config) any
	set      func(*config.Config, string) error
	writable bool
}

func configAccessors() map[string]configAccessor {
	accessors := baseConfigAccessors()
	addDisplayConfigAccessors(accessors)
	return accessors
}

func baseConfigAccessors() map[string]configAccessor {
	return map[string]configAccessor{
		"version": {
			get: func(c *config.Config) any { return c.Version },
		},
		"backend.driver": {
			get: func(c *config.Config) any { return c.Backend.Driver },
		},
		"backend.sqlite_path": {
			get: func(c *config.Config) any { return c.DatabasePath() },
		},
		"backend.firestore.project_id": {
			get: func(c *config.Config) any { return c.Backend.Firestore.ProjectID },
		},
		"defaults.priority": {
			get: func(c *config.Config) any { return c.Defaults.Priority },
			set: func(c *config.Config, v string) error {
				p, err := task.ParsePriority(v)
				if err != nil {
					return err
				}
				c.Defaults.Priority = string(p)
				return nil
			},
			writable: true,
		},
		"defaults.color": {
			get: func(c *config.Config) any { return c.Defaults.Color },
			set: func(c *config.Config, v string) error {
				c.Defaults.Color = strings.TrimSpace(v)
				return nil
			},
			writable: true,
		},
		"session.ttl": {
			get: func(c *config.Config) any { return c.Session.TTL },
			set: func(c *config.Config, v string) error {
				c.Session.TTL = v
				return nil // validation handles parsing
			},
			writable: true,
		},
		"api.addr": {
			get: func(c *config.Config) any { return c.API.Addr },
			set: func(c *config.Config, v string) error {
				c.API.Addr = v
				return nil
			},
			writable: true,
		},
		"api.cors_origins": {
			get: func(c *config.Config) any { return c.API.CORSOrigins },
			set: func(c *config.Config, v string) error {
				c.API.CORSOrigins = splitList(v)
				return nil
			},
			writable: true,
		},
	}
}

func addDisplayConfigAccessors(accessors map[string]configAccessor) {
	accessors["defaults.sort"] = configAccessor{
		get: func(c *config.Config) any { return c.Defaults.Sort },
		set: func(c *config.Config, v string) error {
			o, err := view.ParseSortOption(v)
			if err != nil {
				return err
			}
			c.Defaults.Sort = string(o)
			return nil
		},
		writable: true,
	}
	accessors["defaults.status_filter"] = configAccessor{
		get: func(c *config.Config) any { return c.Defaults.StatusFilter },
		set: func(c *config.Config, v string) error {
			s, err := view.ParseStatusFilter(v)
			if err != nil {
				return err
			}
			c.Defaults.StatusFilter = string(s)
			return nil
		},
		writable: true,
	}
	accessors["defaults.priority_filter"] = configAccessor{
		get: func(c *config.Config) any { return c.Defaults.PriorityFilter },
		set: func(c *config.Config, v string) error {
			p, err := view.ParsePriorityFilter(v)
			if err != nil {
				return err
			}
			c.Defaults.PriorityFilter = string(p)
			return nil
		},
		writable: true,
	}
	accessors["overdue_filter"] = configAccessor{
		get: func(c *config.Config) any { return c.OverdueFilter },
		set: func(c *config.Config, v string) error {
			p, err := view.ParseOverduePolicy(v)
			if err != nil {
				return err
			}
			c.OverdueFilter = string(p)
			return nil
		},
		writable: true,
	}
	accessors["collation"] = configAccessor{
		get: func(c *config.Config) any { return c.Collation },
		set: func(c *config.Config, v string) error {
			c.Collation = strings.TrimSpace(v)
			return nil
		},
		writable: true,
	}
	accessors["theme"] = configAccessor{
		get: func(c *config.Config) any { return c.Theme },
		set: func(c *config.Config, v string) error {
			c.Theme = strings.ToLower(strings.TrimSpace(v))
			return nil // validation handles allowed values
		},
		writable: true,
	}
	accessors["tui.refresh_interval"] = configAccessor{
		get: func(c *config.Config) any { return c.TUI.RefreshInterval },
		set: func(c *config.Config, v string) error {
			c.TUI.RefreshInterval = v
			return nil // validation handles parsing
		},
		writable: true,
	}
}

// allConfigKeys returns config keys in display order. The session secret
// is never shown.
func allConfigKeys() []string {
	return []string{
		"version",
		"backend.driver",
		"backend.sqlite_path",
		"backend.firestore.project_id",
		"defaults.priority",
		"defaults.color",
		"defaults.sort",
		"defaults.status_filter",
		"defaults.priority_filter",
		"overdue_filter",
		"collation",
		"theme",
		"session.ttl",
		"tui.refresh_interval",
		"api.addr",
		"api.cors_origins",
	}
}

func runConfigShow(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	accessors := configAccessors()

	if outputFormat() == output.FormatJSON {
		m := make(map[string]any, len(accessors))
		for _, key := range allConfigKeys() {
			m[key] = accessors[key].get(cfg)
		}
		return output.JSON(os.Stdout, m)
	}

	for _, key := range allConfigKeys() {
		val := accessors[key].get(cfg)
		fmt.Fprintf(os.Stdout, "%-30s %v\n", key, formatConfigValue(val))
	}
	return nil
}

func runConfigGet(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	key := args[0]
	acc, ok := configAccessors()[key]
	if !ok {
		return clierr.Newf(clierr.InvalidInput, "unknown config key %q", key)
	}

	val := acc.get(cfg)

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, val)
	}

	fmt.Fprintln(os.Stdout, formatConfigValue(val))
	return nil
}

func runConfigSet(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	key, value := args[0], args[1]
	acc, ok := configAccessors()[key]
	if !ok {
		return clierr.Newf(clierr.InvalidInput, "unknown config key %q", key)
	}
	if !acc.writable {
		return clierr.Newf(clierr.InvalidInput, "config key %q is read-only", key)
	}

	if err := acc.set(cfg, value); err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return clierr.New(clierr.InvalidInput, err.Error())
	}

	if err := cfg.Save(); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{"key": key, "value": acc.get(cfg)})
	}

	output.Messagef(os.Stdout, "Set %s = %v", key, formatConfigValue(acc.get(cfg)))
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func formatConfigValue(val any) string {
	switch v := val.(type) {
	case []string:
		if len(v) == 0 {
			return "--"
		}
		return strings.Join(v, ", ")
	case string:
		if v == "" {
			return "--"
		}
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}
