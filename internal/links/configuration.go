package links

import "strings"

const (
	configurationRootKeyConstant                = "root"
	configurationExcludedDirectoriesKeyConstant = "excluded_directories"
	configurationKeySeparatorConstant           = "."
	defaultRootConstant                         = "."
)

// CommandConfiguration captures configuration values for the docs-links command.
type CommandConfiguration struct {
	Root                string   `mapstructure:"root"`
	ExcludedDirectories []string `mapstructure:"excluded_directories"`
}

// DefaultCommandConfiguration provides baseline configuration values for link checking.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Root:                defaultRootConstant,
		ExcludedDirectories: DefaultExcludedDirectories(),
	}
}

// DefaultConfigurationValues flattens DefaultCommandConfiguration under keyPrefix for viper defaults.
func DefaultConfigurationValues(keyPrefix string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		keyPrefix + configurationKeySeparatorConstant + configurationRootKeyConstant:                defaults.Root,
		keyPrefix + configurationKeySeparatorConstant + configurationExcludedDirectoriesKeyConstant: defaults.ExcludedDirectories,
	}
}

// Sanitize trims values. A nil directory list restores the defaults.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.Root = strings.TrimSpace(configuration.Root)
	if len(sanitized.Root) == 0 {
		sanitized.Root = defaultRootConstant
	}
	if configuration.ExcludedDirectories == nil {
		sanitized.ExcludedDirectories = DefaultExcludedDirectories()
		return sanitized
	}
	directories := make([]string, 0, len(configuration.ExcludedDirectories))
	for _, directoryName := range configuration.ExcludedDirectories {
		trimmed := strings.TrimSpace(directoryName)
		if len(trimmed) == 0 {
			continue
		}
		directories = append(directories, trimmed)
	}
	sanitized.ExcludedDirectories = directories
	return sanitized
}
