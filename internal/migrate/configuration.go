package migrate

import (
	"strings"

	"github.com/intexuraos/llmconst-migrate/internal/discovery"
	pathutils "github.com/intexuraos/llmconst-migrate/internal/utils/path"
)

const (
	defaultAppsRootConstant         = "apps"
	defaultPackagesRootConstant     = "packages"
	rootsConfigurationKeyConstant   = "roots"
	patternConfigurationKeyConstant = "file_pattern"
	dryRunConfigurationKeyConstant  = "dry_run"
	importModuleConfigurationKey    = "import.module"
	importSymbolsConfigurationKey   = "import.symbols"
	configurationKeySeparator       = "."
)

var migrateConfigurationRootSanitizer = pathutils.NewRootPathSanitizerWithConfiguration(nil, pathutils.RootPathSanitizerConfiguration{
	PruneNestedPaths: true,
})

// MappingConfiguration groups the configurable literal tables.
type MappingConfiguration struct {
	Models    MappingTable `mapstructure:"models" yaml:"models"`
	Providers MappingTable `mapstructure:"providers" yaml:"providers"`
}

// CommandConfiguration captures persisted configuration for the constant migration.
type CommandConfiguration struct {
	Roots       []string             `mapstructure:"roots" yaml:"roots"`
	FilePattern string               `mapstructure:"file_pattern" yaml:"file_pattern"`
	DryRun      bool                 `mapstructure:"dry_run" yaml:"dry_run"`
	Import      ImportTarget         `mapstructure:"import" yaml:"import"`
	Mappings    MappingConfiguration `mapstructure:"mappings" yaml:"mappings"`
}

// DefaultCommandConfiguration returns the built-in roots, pattern, import target, and tables.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Roots:       []string{defaultAppsRootConstant, defaultPackagesRootConstant},
		FilePattern: discovery.DefaultTestFilePatternConstant,
		DryRun:      false,
		Import:      DefaultImportTarget(),
		Mappings: MappingConfiguration{
			Models:    DefaultModelMappings(),
			Providers: DefaultProviderMappings(),
		},
	}
}

// DefaultConfigurationValues returns viper defaults for the scalar keys beneath prefix.
func DefaultConfigurationValues(prefix string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		joinConfigurationKey(prefix, rootsConfigurationKeyConstant):   append([]string{}, defaults.Roots...),
		joinConfigurationKey(prefix, patternConfigurationKeyConstant): defaults.FilePattern,
		joinConfigurationKey(prefix, dryRunConfigurationKeyConstant):  defaults.DryRun,
		joinConfigurationKey(prefix, importModuleConfigurationKey):    defaults.Import.ModulePath,
		joinConfigurationKey(prefix, importSymbolsConfigurationKey):   append([]string{}, defaults.Import.Symbols...),
	}
}

// Sanitize trims configured values, normalizes roots, and restores defaults for empty sections.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	defaults := DefaultCommandConfiguration()
	sanitized := configuration

	sanitized.Roots = migrateConfigurationRootSanitizer.Sanitize(configuration.Roots)
	if len(sanitized.Roots) == 0 {
		sanitized.Roots = defaults.Roots
	}

	sanitized.FilePattern = strings.TrimSpace(configuration.FilePattern)
	if len(sanitized.FilePattern) == 0 {
		sanitized.FilePattern = defaults.FilePattern
	}

	sanitized.Import = sanitizeImportTarget(configuration.Import)
	if len(sanitized.Import.ModulePath) == 0 && len(sanitized.Import.Symbols) == 0 {
		sanitized.Import = defaults.Import
	}

	if len(configuration.Mappings.Models) == 0 {
		sanitized.Mappings.Models = defaults.Mappings.Models
	}
	if len(configuration.Mappings.Providers) == 0 {
		sanitized.Mappings.Providers = defaults.Mappings.Providers
	}

	return sanitized
}

// MigrationOptions converts the configuration into migrator options.
func (configuration CommandConfiguration) MigrationOptions() MigrationOptions {
	return MigrationOptions{
		ModelMappings:    append(MappingTable(nil), configuration.Mappings.Models...),
		ProviderMappings: append(MappingTable(nil), configuration.Mappings.Providers...),
		ImportTarget:     configuration.Import,
		DryRun:           configuration.DryRun,
	}
}

func sanitizeImportTarget(target ImportTarget) ImportTarget {
	sanitized := ImportTarget{ModulePath: strings.TrimSpace(target.ModulePath)}
	for _, symbol := range target.Symbols {
		trimmedSymbol := strings.TrimSpace(symbol)
		if len(trimmedSymbol) == 0 {
			continue
		}
		sanitized.Symbols = append(sanitized.Symbols, trimmedSymbol)
	}
	return sanitized
}

func joinConfigurationKey(prefix string, key string) string {
	trimmedPrefix := strings.TrimSpace(prefix)
	if len(trimmedPrefix) == 0 {
		return key
	}
	return trimmedPrefix + configurationKeySeparator + key
}
