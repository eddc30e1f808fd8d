// Package config defines the configuration types for nodemutation.
// These types are pure data structures; discovery and merging live in
// internal/configloader.
package config

// BackupsConfig controls backup behavior when writing files.
type BackupsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Mode    string `yaml:"mode"` // "sidecar" or "none"
}

// OutputFormat specifies how results are reported.
type OutputFormat string

const (
	// FormatText prints rewritten source for a single file, else a summary.
	FormatText    OutputFormat = "text"
	FormatDiff    OutputFormat = "diff"
	FormatJSON    OutputFormat = "json"
	FormatTable   OutputFormat = "table"
	FormatSummary OutputFormat = "summary"
)

// Flavor specifies the Markdown flavor used by the markdown adapter.
type Flavor string

const (
	FlavorCommonMark Flavor = "commonmark"
	FlavorGFM        Flavor = "gfm"
)

// Default values.
const (
	DefaultStrategy = "throw_error"
	DefaultTabWidth = 2
)

// Config is the root configuration structure.
type Config struct {
	// Strategy is the conflict strategy, e.g. "keep_running|allow_insert_at_same_position".
	Strategy string `yaml:"strategy"`

	// TabWidth is the number of spaces one indent level occupies.
	TabWidth int `yaml:"tab_width"`

	// Flavor selects the Markdown dialect ("commonmark" or "gfm").
	Flavor Flavor `yaml:"flavor"`

	// Ignore contains glob patterns for files to skip during discovery.
	Ignore []string `yaml:"ignore"`

	// Backups configures backups taken before files are written.
	Backups BackupsConfig `yaml:"backups"`

	// Format is the output format.
	Format OutputFormat `yaml:"format"`

	// Jobs is the number of files processed concurrently. 0 means NumCPU.
	Jobs int `yaml:"jobs"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// CLI-level options (not persisted to config files).

	// Write writes rewritten files in place.
	Write bool `yaml:"-"`

	// Strict turns dropped conflicting actions into a failing exit status.
	Strict bool `yaml:"-"`

	// Color is "auto", "always" or "never".
	Color string `yaml:"-"`

	// NoBackups disables backups regardless of Backups.Enabled.
	NoBackups bool `yaml:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Strategy: DefaultStrategy,
		TabWidth: DefaultTabWidth,
		Flavor:   FlavorGFM,
		Backups: BackupsConfig{
			Enabled: false,
			Mode:    "sidecar",
		},
		Format:   FormatText,
		Jobs:     0,
		LogLevel: "warn",
		Color:    "auto",
	}
}

// BackupsEnabled reports whether writes should take a backup first.
func (c *Config) BackupsEnabled() bool {
	return c.Backups.Enabled && !c.NoBackups && c.Backups.Mode != "none"
}
