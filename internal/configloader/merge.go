package configloader

import "github.com/yaklabco/nodemutation/pkg/config"

// merge layers override onto base. Non-zero scalars replace, non-nil slices
// replace wholesale, and booleans can only be switched on: a layer cannot
// tell "false" from "unset".
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := base.Clone()

	setString(&result.Strategy, override.Strategy)
	setString(&result.LogLevel, override.LogLevel)
	setString(&result.Color, override.Color)
	setString(&result.Backups.Mode, override.Backups.Mode)
	if override.Flavor != "" {
		result.Flavor = override.Flavor
	}
	if override.Format != "" {
		result.Format = override.Format
	}

	if override.TabWidth != 0 {
		result.TabWidth = override.TabWidth
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}

	result.Backups.Enabled = result.Backups.Enabled || override.Backups.Enabled
	result.Write = result.Write || override.Write
	result.Strict = result.Strict || override.Strict
	result.NoBackups = result.NoBackups || override.NoBackups

	if override.Ignore != nil {
		result.Ignore = append([]string(nil), override.Ignore...)
	}

	return result
}

func setString(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

// MergeAll merges configurations in order, later ones taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for _, cfg := range configs[1:] {
		result = merge(result, cfg)
	}
	return result
}
