package migrate

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	testFileFieldNameConstant            = "test_file"
	rootsFieldNameConstant               = "roots"
	runIdentifierFieldNameConstant       = "run_id"
	dryRunFieldNameConstant              = "dry_run"
	replacementCountFieldNameConstant    = "replacements"
	scannedFilesFieldNameConstant        = "scanned_files"
	migratedFilesFieldNameConstant       = "migrated_files"
	failedFilesFieldNameConstant         = "failed_files"
	runStartedMessageConstant            = "Constant migration started"
	runCompletedMessageConstant          = "Constant migration completed"
	runInterruptedMessageConstant        = "Constant migration interrupted"
	skipFileMessageConstant              = "No mapped literals found"
	unchangedFileMessageConstant         = "Migration produced no changes"
	rewriteFileMessageConstant           = "Rewrote test file"
	dryRunFileMessageConstant            = "Test file would be rewritten"
	fileFailedMessageConstant            = "Test file migration failed"
	fileSystemMissingMessageConstant     = "file system not configured"
	discovererMissingMessageConstant     = "file discoverer not configured"
	invalidEncodingMessageConstant       = "file content is not valid UTF-8"
	readFileErrorTemplateConstant        = "unable to read file: %w"
	statFileErrorTemplateConstant        = "unable to stat file: %w"
	writeFileErrorTemplateConstant       = "unable to write file: %w"
	invalidMappingsErrorTemplateConstant = "invalid mapping tables: %w"
	invalidImportTargetTemplateConstant  = "invalid import target: %w"
)

// FileSystem exposes the file operations required to rewrite test files.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte, permissions fs.FileMode) error
	Stat(path string) (fs.FileInfo, error)
}

// FileDiscoverer yields candidate test files beneath the provided roots.
type FileDiscoverer interface {
	Discover(roots []string) iter.Seq[string]
}

// ServiceDependencies describes the collaborators of a Migrator.
type ServiceDependencies struct {
	Logger     *zap.Logger
	FileSystem FileSystem
	Discoverer FileDiscoverer
	Reporter   Reporter
}

// MigrationOptions configures the literal tables and the import target of a Migrator.
type MigrationOptions struct {
	ModelMappings    MappingTable
	ProviderMappings MappingTable
	ImportTarget     ImportTarget
	DryRun           bool
}

// DefaultMigrationOptions returns the built-in tables and import target.
func DefaultMigrationOptions() MigrationOptions {
	return MigrationOptions{
		ModelMappings:    DefaultModelMappings(),
		ProviderMappings: DefaultProviderMappings(),
		ImportTarget:     DefaultImportTarget(),
	}
}

// RunSummary captures the observable outcome of a migration run.
type RunSummary struct {
	DryRun        bool
	ScannedCount  int
	MigratedFiles []string
	FailedFiles   []string
}

// MigratedCount reports how many files were (or in dry-run mode would be) rewritten.
func (summary RunSummary) MigratedCount() int {
	return len(summary.MigratedFiles)
}

// Migrator rewrites hardcoded model and provider literals into constant references.
type Migrator struct {
	logger        *zap.Logger
	fileSystem    FileSystem
	discoverer    FileDiscoverer
	reporter      Reporter
	mappings      MappingTable
	importEnsurer *ImportEnsurer
	substituter   *Substituter
	dryRun        bool
}

var (
	errFileSystemMissing = errors.New(fileSystemMissingMessageConstant)
	errDiscovererMissing = errors.New(discovererMissingMessageConstant)
	errInvalidEncoding   = errors.New(invalidEncodingMessageConstant)
)

// NewMigrator validates the options and constructs a Migrator.
func NewMigrator(dependencies ServiceDependencies, options MigrationOptions) (*Migrator, error) {
	if dependencies.FileSystem == nil {
		return nil, errFileSystemMissing
	}
	if dependencies.Discoverer == nil {
		return nil, errDiscovererMissing
	}

	mappings := CombineMappingTables(options.ModelMappings, options.ProviderMappings)
	if validationError := mappings.Validate(); validationError != nil {
		return nil, fmt.Errorf(invalidMappingsErrorTemplateConstant, validationError)
	}

	importEnsurer, importError := NewImportEnsurer(options.ImportTarget)
	if importError != nil {
		return nil, fmt.Errorf(invalidImportTargetTemplateConstant, importError)
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	reporter := dependencies.Reporter
	if reporter == nil {
		reporter = NewConsoleReporter(nil, nil, false)
	}

	return &Migrator{
		logger:        logger,
		fileSystem:    dependencies.FileSystem,
		discoverer:    dependencies.Discoverer,
		reporter:      reporter,
		mappings:      mappings,
		importEnsurer: importEnsurer,
		substituter:   NewSubstituter(mappings),
		dryRun:        options.DryRun,
	}, nil
}

// NeedsMigration reports whether content holds any mapped literal.
func (migrator *Migrator) NeedsMigration(content string) bool {
	return migrator.mappings.ContainsAnyPattern(content)
}

// MigrateContent ensures the import and substitutes every mapped literal.
func (migrator *Migrator) MigrateContent(content string) SubstitutionResult {
	importedContent := migrator.importEnsurer.EnsureImport(content)
	result := migrator.substituter.Substitute(importedContent)
	result.WasModified = result.Content != content
	return result
}

// MigrateFile rewrites a single file and reports whether it changed.
func (migrator *Migrator) MigrateFile(filePath string) (bool, error) {
	fileContent, readError := migrator.fileSystem.ReadFile(filePath)
	if readError != nil {
		return false, fmt.Errorf(readFileErrorTemplateConstant, readError)
	}
	if !utf8.Valid(fileContent) {
		return false, errInvalidEncoding
	}

	originalContent := string(fileContent)
	if !migrator.NeedsMigration(originalContent) {
		migrator.logger.Debug(skipFileMessageConstant, zap.String(testFileFieldNameConstant, filePath))
		return false, nil
	}

	migrator.reporter.FileMigrating(filePath, migrator.dryRun)

	result := migrator.MigrateContent(originalContent)
	if !result.WasModified {
		migrator.logger.Debug(unchangedFileMessageConstant, zap.String(testFileFieldNameConstant, filePath))
		return false, nil
	}

	if migrator.dryRun {
		migrator.logger.Info(dryRunFileMessageConstant,
			zap.String(testFileFieldNameConstant, filePath),
			zap.Int(replacementCountFieldNameConstant, result.ReplacementCount),
		)
		return true, nil
	}

	fileInfo, statError := migrator.fileSystem.Stat(filePath)
	if statError != nil {
		return false, fmt.Errorf(statFileErrorTemplateConstant, statError)
	}

	writeError := migrator.fileSystem.WriteFile(filePath, []byte(result.Content), fileInfo.Mode().Perm())
	if writeError != nil {
		return false, fmt.Errorf(writeFileErrorTemplateConstant, writeError)
	}

	migrator.logger.Info(rewriteFileMessageConstant,
		zap.String(testFileFieldNameConstant, filePath),
		zap.Int(replacementCountFieldNameConstant, result.ReplacementCount),
	)

	return true, nil
}

// Run migrates every discovered file beneath roots. Per-file failures are reported
// and skipped; only cancellation of executionContext ends the run early.
func (migrator *Migrator) Run(executionContext context.Context, roots []string) (RunSummary, error) {
	if executionContext == nil {
		executionContext = context.Background()
	}

	runLogger := migrator.logger.With(zap.String(runIdentifierFieldNameConstant, uuid.NewString()))
	runLogger.Info(runStartedMessageConstant,
		zap.Strings(rootsFieldNameConstant, roots),
		zap.Bool(dryRunFieldNameConstant, migrator.dryRun),
	)

	summary := RunSummary{DryRun: migrator.dryRun}

	for filePath := range migrator.discoverer.Discover(roots) {
		if contextError := executionContext.Err(); contextError != nil {
			runLogger.Warn(runInterruptedMessageConstant, zap.Int(scannedFilesFieldNameConstant, summary.ScannedCount), zap.Error(contextError))
			return summary, contextError
		}

		summary.ScannedCount++

		migrated, migrationError := migrator.MigrateFile(filePath)
		if migrationError != nil {
			summary.FailedFiles = append(summary.FailedFiles, filePath)
			migrator.reporter.FileFailed(filePath, migrationError)
			runLogger.Warn(fileFailedMessageConstant, zap.String(testFileFieldNameConstant, filePath), zap.Error(migrationError))
			continue
		}

		if migrated {
			summary.MigratedFiles = append(summary.MigratedFiles, filePath)
		}
	}

	migrator.reporter.RunCompleted(summary)

	runLogger.Info(runCompletedMessageConstant,
		zap.Int(scannedFilesFieldNameConstant, summary.ScannedCount),
		zap.Strings(migratedFilesFieldNameConstant, summary.MigratedFiles),
		zap.Strings(failedFilesFieldNameConstant, summary.FailedFiles),
	)

	return summary, nil
}
