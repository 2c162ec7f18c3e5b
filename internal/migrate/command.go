package migrate

import (
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/intexuraos/llmconst-migrate/internal/discovery"
	"github.com/intexuraos/llmconst-migrate/internal/filesystem"
	"github.com/intexuraos/llmconst-migrate/internal/utils"
)

const (
	commandUseConstant                = "llmconst-migrate [roots...]"
	commandShortDescriptionConstant   = "Replace hardcoded LLM model and provider literals with shared constants"
	commandLongDescriptionConstant    = "llmconst-migrate scans test files beneath the configured roots, rewrites quoted model and provider literals into references to the shared constants module, and adds the constants import where an import line exists. Positional arguments replace the configured roots."
	dryRunFlagNameConstant            = "dry-run"
	dryRunFlagUsageConstant           = "Report the files that would be migrated without writing them"
	patternFlagNameConstant           = "pattern"
	patternFlagUsageConstant          = "Glob (doublestar syntax) matched relative to each root"
	logMessageConfigurationRejected   = "Constant migration configuration rejected"
	logMessageConfigurationResolved   = "Constant migration configuration resolved"
	logFieldConfigurationFileConstant = "config_file"
	logFieldFilePatternConstant       = "file_pattern"
	logFieldImportModuleConstant      = "import_module"
	logFieldMappingCountConstant      = "mapping_count"
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// DiscovererProvider constructs a FileDiscoverer for the resolved file pattern.
type DiscovererProvider func(pattern string) (FileDiscoverer, error)

type commandOptions struct {
	configuration CommandConfiguration
}

// CommandBuilder assembles the constant migration Cobra command.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider func() CommandConfiguration
	FileSystem            FileSystem
	DiscovererProvider    DiscovererProvider
	Output                io.Writer
	ErrorOutput           io.Writer
}

// Build constructs the constant migration command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:           commandUseConstant,
		Short:         commandShortDescriptionConstant,
		Long:          commandLongDescriptionConstant,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.ArbitraryArgs,
		RunE:          builder.runMigration,
	}

	command.Flags().Bool(dryRunFlagNameConstant, false, dryRunFlagUsageConstant)
	command.Flags().String(patternFlagNameConstant, discovery.DefaultTestFilePatternConstant, patternFlagUsageConstant)

	return command, nil
}

func (builder *CommandBuilder) runMigration(command *cobra.Command, arguments []string) error {
	options := builder.parseOptions(command, arguments)
	logger := builder.resolveLogger()
	contextAccessor := utils.NewCommandContextAccessor()

	configurationFilePath, _ := contextAccessor.ConfigurationFilePath(command.Context())
	configuration := options.configuration

	discoverer, discovererError := builder.resolveDiscoverer(configuration.FilePattern)
	if discovererError != nil {
		logger.Error(logMessageConfigurationRejected, zap.String(logFieldFilePatternConstant, configuration.FilePattern), zap.Error(discovererError))
		return discovererError
	}

	reporter := NewConsoleReporter(
		builder.resolveOutput(command),
		builder.resolveErrorOutput(command),
		contextAccessor.ConsoleOutput(command.Context()),
	)

	migrator, migratorError := NewMigrator(ServiceDependencies{
		Logger:     logger,
		FileSystem: builder.resolveFileSystem(),
		Discoverer: discoverer,
		Reporter:   reporter,
	}, configuration.MigrationOptions())
	if migratorError != nil {
		logger.Error(logMessageConfigurationRejected, zap.Error(migratorError))
		return migratorError
	}

	logger.Debug(logMessageConfigurationResolved,
		zap.String(logFieldConfigurationFileConstant, configurationFilePath),
		zap.Strings(rootsFieldNameConstant, configuration.Roots),
		zap.String(logFieldFilePatternConstant, configuration.FilePattern),
		zap.String(logFieldImportModuleConstant, configuration.Import.ModulePath),
		zap.Int(logFieldMappingCountConstant, len(configuration.Mappings.Models)+len(configuration.Mappings.Providers)),
	)

	_, runError := migrator.Run(command.Context(), configuration.Roots)
	return runError
}

func (builder *CommandBuilder) parseOptions(command *cobra.Command, arguments []string) commandOptions {
	configuration := builder.resolveConfiguration()

	if len(arguments) > 0 {
		configuration.Roots = append([]string{}, arguments...)
	}

	if command != nil {
		if command.Flags().Changed(dryRunFlagNameConstant) {
			configuration.DryRun, _ = command.Flags().GetBool(dryRunFlagNameConstant)
		}
		if command.Flags().Changed(patternFlagNameConstant) {
			configuration.FilePattern, _ = command.Flags().GetString(patternFlagNameConstant)
		}
	}

	return commandOptions{configuration: configuration.Sanitize()}
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	var logger *zap.Logger
	if builder.LoggerProvider != nil {
		logger = builder.LoggerProvider()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return logger
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider()
}

func (builder *CommandBuilder) resolveFileSystem() FileSystem {
	if builder.FileSystem != nil {
		return builder.FileSystem
	}
	return filesystem.NewOSFileSystem()
}

func (builder *CommandBuilder) resolveDiscoverer(pattern string) (FileDiscoverer, error) {
	if builder.DiscovererProvider != nil {
		return builder.DiscovererProvider(pattern)
	}
	return discovery.NewTestFileDiscoverer(pattern)
}

func (builder *CommandBuilder) resolveOutput(command *cobra.Command) io.Writer {
	if builder.Output != nil {
		return builder.Output
	}
	return command.OutOrStdout()
}

func (builder *CommandBuilder) resolveErrorOutput(command *cobra.Command) io.Writer {
	if builder.ErrorOutput != nil {
		return builder.ErrorOutput
	}
	return command.ErrOrStderr()
}
