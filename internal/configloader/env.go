package configloader

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/yaklabco/nodemutation/pkg/config"
)

// EnvPrefix is the prefix for all nodemutation environment variables.
const EnvPrefix = "NODEMUTATION_"

// envVar binds one environment variable to a config field.
type envVar struct {
	help  string
	apply func(cfg *config.Config, value string) error
}

func stringVar(help string, set func(*config.Config, string)) envVar {
	return envVar{help: help, apply: func(cfg *config.Config, v string) error {
		set(cfg, v)
		return nil
	}}
}

func boolVar(help string, set func(*config.Config, bool)) envVar {
	return envVar{help: help, apply: func(cfg *config.Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%q is not a boolean (expected true/false/1/0)", v)
		}
		set(cfg, b)
		return nil
	}}
}

func intVar(help string, set func(*config.Config, int)) envVar {
	return envVar{help: help, apply: func(cfg *config.Config, v string) error {
		i, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%q is not an integer", v)
		}
		set(cfg, i)
		return nil
	}}
}

// envVars maps variable names (without prefix) to config fields.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envVars = map[string]envVar{
	"STRATEGY": stringVar("Conflict strategy, e.g. keep_running|allow_insert_at_same_position",
		func(c *config.Config, v string) { c.Strategy = v }),
	"TAB_WIDTH": intVar("Spaces per indent level",
		func(c *config.Config, v int) { c.TabWidth = v }),
	"FLAVOR": stringVar("Markdown flavor: commonmark or gfm",
		func(c *config.Config, v string) { c.Flavor = config.Flavor(v) }),
	"FORMAT": stringVar("Output format: text, diff, json, table or summary",
		func(c *config.Config, v string) { c.Format = config.OutputFormat(v) }),
	"JOBS": intVar("Number of files processed concurrently (0 = auto)",
		func(c *config.Config, v int) { c.Jobs = v }),
	"LOG_LEVEL": stringVar("Log level: debug, info, warn or error",
		func(c *config.Config, v string) { c.LogLevel = v }),
	"IGNORE": stringVar("Comma-separated glob patterns to skip",
		func(c *config.Config, v string) { c.Ignore = parseList(v) }),
	"BACKUPS_ENABLED": boolVar("Take a backup before writing: true or false",
		func(c *config.Config, v bool) { c.Backups.Enabled = v }),
	"BACKUPS_MODE": stringVar("Backup mode: sidecar or none",
		func(c *config.Config, v string) { c.Backups.Mode = v }),
	"NO_BACKUPS": boolVar("Disable backups: true or false",
		func(c *config.Config, v bool) { c.NoBackups = v }),
	"COLOR": stringVar("Color mode: auto, always or never",
		func(c *config.Config, v string) { c.Color = v }),
}

// LoadFromEnv applies NODEMUTATION_* overrides to cfg. Unset and empty
// variables are ignored.
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}

	for _, name := range envVarNames() {
		value := os.Getenv(EnvPrefix + name)
		if value == "" {
			continue
		}
		if err := envVars[name].apply(cfg, value); err != nil {
			return fmt.Errorf("invalid %s%s: %w", EnvPrefix, name, err)
		}
	}
	return nil
}

// ListEnvVars returns every supported variable with a short description.
func ListEnvVars() map[string]string {
	out := make(map[string]string, len(envVars))
	for name, v := range envVars {
		out[EnvPrefix+name] = v.help
	}
	return out
}

func envVarNames() []string {
	names := make([]string, 0, len(envVars))
	for name := range envVars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func parseList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
