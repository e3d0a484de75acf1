package ledger

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	defaultReportFileNameConstant         = "evidence-ledger.md"
	defaultCommandTimeoutConstant         = 30 * time.Second
	defaultSearchMaxMatchesConstant       = 200
	defaultMaxLinesConstant               = 200
	defaultMaxOutputBytesConstant         = 1 << 20
	configurationRootKeyConstant          = "root"
	configurationOutputKeyConstant        = "output"
	configurationRuntimeKeyConstant       = "runtime"
	configurationTimeoutKeyConstant       = "timeout"
	configurationMaxMatchesKeyConstant    = "search_max_matches"
	configurationMaxLinesKeyConstant      = "max_lines"
	configurationMaxBytesKeyConstant      = "max_output_bytes"
	configurationExcludedGlobsKeyConstant = "excluded_search_globs"
	configurationKeySeparatorConstant     = "."
)

// CommandConfiguration captures configuration values for the evidence-ledger command.
type CommandConfiguration struct {
	Root                string        `mapstructure:"root"`
	OutputPath          string        `mapstructure:"output"`
	IncludeRuntime      bool          `mapstructure:"runtime"`
	Timeout             time.Duration `mapstructure:"timeout"`
	SearchMaxMatches    int           `mapstructure:"search_max_matches"`
	MaxLines            int           `mapstructure:"max_lines"`
	MaxOutputBytes      int           `mapstructure:"max_output_bytes"`
	ExcludedSearchGlobs []string      `mapstructure:"excluded_search_globs"`
}

// DefaultExcludedSearchGlobs lists sensitive files that searches never read.
func DefaultExcludedSearchGlobs() []string {
	return []string{".env*", "**/*.pem", "**/*.key", "**/*.pfx"}
}

// DefaultOutputPath is the report location used when none is configured.
func DefaultOutputPath() string {
	return filepath.Join(os.TempDir(), defaultReportFileNameConstant)
}

// DefaultCommandConfiguration provides baseline configuration values for the evidence ledger.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Root:                "",
		OutputPath:          "",
		IncludeRuntime:      false,
		Timeout:             defaultCommandTimeoutConstant,
		SearchMaxMatches:    defaultSearchMaxMatchesConstant,
		MaxLines:            defaultMaxLinesConstant,
		MaxOutputBytes:      defaultMaxOutputBytesConstant,
		ExcludedSearchGlobs: DefaultExcludedSearchGlobs(),
	}
}

// DefaultConfigurationValues flattens DefaultCommandConfiguration under keyPrefix for viper defaults.
func DefaultConfigurationValues(keyPrefix string) map[string]any {
	defaults := DefaultCommandConfiguration()
	qualify := func(key string) string {
		if len(keyPrefix) == 0 {
			return key
		}
		return keyPrefix + configurationKeySeparatorConstant + key
	}
	return map[string]any{
		qualify(configurationRootKeyConstant):          defaults.Root,
		qualify(configurationOutputKeyConstant):        defaults.OutputPath,
		qualify(configurationRuntimeKeyConstant):       defaults.IncludeRuntime,
		qualify(configurationTimeoutKeyConstant):       defaults.Timeout,
		qualify(configurationMaxMatchesKeyConstant):    defaults.SearchMaxMatches,
		qualify(configurationMaxLinesKeyConstant):      defaults.MaxLines,
		qualify(configurationMaxBytesKeyConstant):      defaults.MaxOutputBytes,
		qualify(configurationExcludedGlobsKeyConstant): defaults.ExcludedSearchGlobs,
	}
}

// Sanitize trims values and restores defaults for unusable limits.
// A nil glob list restores the default exclusions; an explicitly empty list is kept.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	defaults := DefaultCommandConfiguration()
	sanitized := configuration

	sanitized.Root = strings.TrimSpace(configuration.Root)
	sanitized.OutputPath = strings.TrimSpace(configuration.OutputPath)
	if sanitized.Timeout <= 0 {
		sanitized.Timeout = defaults.Timeout
	}
	if sanitized.SearchMaxMatches <= 0 {
		sanitized.SearchMaxMatches = defaults.SearchMaxMatches
	}
	if sanitized.MaxOutputBytes < 0 {
		sanitized.MaxOutputBytes = 0
	}
	if configuration.ExcludedSearchGlobs == nil {
		sanitized.ExcludedSearchGlobs = defaults.ExcludedSearchGlobs
	} else {
		sanitized.ExcludedSearchGlobs = sanitizeGlobs(configuration.ExcludedSearchGlobs)
	}

	return sanitized
}

func sanitizeGlobs(raw []string) []string {
	sanitized := make([]string, 0, len(raw))
	for _, candidate := range raw {
		trimmed := strings.TrimSpace(candidate)
		if len(trimmed) == 0 {
			continue
		}
		sanitized = append(sanitized, trimmed)
	}
	return sanitized
}
