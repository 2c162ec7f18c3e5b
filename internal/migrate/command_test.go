package migrate_test

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/intexuraos/llmconst-migrate/internal/migrate"
)

const (
	commandSubtestTemplateConstant = "%d_%s"
	testFilePermissionsConstant    = 0o644
	testDirectoryPermissionsConst  = 0o755
	testAppsDirectoryConstant      = "apps"
	testPackagesDirectoryConstant  = "packages"
	testModelFileRelativePath      = "web/src/chat.test.ts"
	testProviderFileRelativePath   = "core/src/provider.test.ts"
	testSourceFileRelativePath     = "core/src/provider.ts"
	testModelFileContentConstant   = "import { it } from 'vitest';\nit('uses', () => run('claude-opus-4-5-20251101'));\n"
	testModelFileExpectedConstant  = "import { it } from 'vitest';\nimport { LlmModels, LlmProviders } from '@intexuraos/llm-contract';\nit('uses', () => run(LlmModels.ClaudeOpus4520251101));\n"
	testProviderContentConstant    = "import { LlmModels, LlmProviders } from '@intexuraos/llm-contract';\nconst p = 'anthropic';\n"
	testProviderExpectedConstant   = "import { LlmModels, LlmProviders } from '@intexuraos/llm-contract';\nconst p = LlmProviders.Anthropic;\n"
	testSourceContentConstant      = "export const provider = 'anthropic';\n"
)

func writeWorkspaceFile(testInstance *testing.T, rootDirectory string, relativePath string, content string) string {
	testInstance.Helper()

	filePath := filepath.Join(rootDirectory, filepath.FromSlash(relativePath))
	require.NoError(testInstance, os.MkdirAll(filepath.Dir(filePath), testDirectoryPermissionsConst))
	require.NoError(testInstance, os.WriteFile(filePath, []byte(content), testFilePermissionsConstant))
	return filePath
}

func readWorkspaceFile(testInstance *testing.T, filePath string) string {
	testInstance.Helper()

	content, readError := os.ReadFile(filePath)
	require.NoError(testInstance, readError)
	return string(content)
}

func TestCommandMigratesWorkspace(testInstance *testing.T) {
	testCases := []struct {
		name                    string
		arguments               []string
		expectWrites            bool
		expectedSummaryFragment string
		expectedProgressLabel   string
	}{
		{
			name:                    "migrates_files",
			expectWrites:            true,
			expectedSummaryFragment: "\nMigration complete! Migrated 2 files.\n",
			expectedProgressLabel:   "Migrating: ",
		},
		{
			name:                    "dry_run_flag",
			arguments:               []string{"--dry-run"},
			expectWrites:            false,
			expectedSummaryFragment: "\nDry run complete! 2 files would be migrated.\n",
			expectedProgressLabel:   "Would migrate: ",
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(commandSubtestTemplateConstant, testCaseIndex, testCase.name), func(subtest *testing.T) {
			workspaceDirectory := subtest.TempDir()
			appsRoot := filepath.Join(workspaceDirectory, testAppsDirectoryConstant)
			packagesRoot := filepath.Join(workspaceDirectory, testPackagesDirectoryConstant)
			missingRoot := filepath.Join(workspaceDirectory, "missing")

			modelFilePath := writeWorkspaceFile(subtest, appsRoot, testModelFileRelativePath, testModelFileContentConstant)
			providerFilePath := writeWorkspaceFile(subtest, packagesRoot, testProviderFileRelativePath, testProviderContentConstant)
			sourceFilePath := writeWorkspaceFile(subtest, packagesRoot, testSourceFileRelativePath, testSourceContentConstant)

			output := &bytes.Buffer{}
			errorOutput := &bytes.Buffer{}
			logCore, observedLogs := observer.New(zap.DebugLevel)
			builder := migrate.CommandBuilder{
				LoggerProvider: func() *zap.Logger { return zap.New(logCore) },
				Output:         output,
				ErrorOutput:    errorOutput,
			}

			command, buildError := builder.Build()
			require.NoError(subtest, buildError)

			command.SetContext(context.Background())
			command.SetArgs(append(append([]string{}, testCase.arguments...), appsRoot, missingRoot, packagesRoot))
			require.NoError(subtest, command.Execute())

			require.Equal(subtest,
				testCase.expectedProgressLabel+modelFilePath+"\n"+testCase.expectedProgressLabel+providerFilePath+"\n"+testCase.expectedSummaryFragment,
				output.String(),
			)
			require.Empty(subtest, errorOutput.String())

			if testCase.expectWrites {
				require.Equal(subtest, testModelFileExpectedConstant, readWorkspaceFile(subtest, modelFilePath))
				require.Equal(subtest, testProviderExpectedConstant, readWorkspaceFile(subtest, providerFilePath))
			} else {
				require.Equal(subtest, testModelFileContentConstant, readWorkspaceFile(subtest, modelFilePath))
				require.Equal(subtest, testProviderContentConstant, readWorkspaceFile(subtest, providerFilePath))
			}
			require.Equal(subtest, testSourceContentConstant, readWorkspaceFile(subtest, sourceFilePath))
			require.Equal(subtest, 1, observedLogs.FilterMessage("Constant migration completed").Len())
		})
	}
}

func TestCommandUsesConfiguredRootsAndPattern(testInstance *testing.T) {
	workspaceDirectory := testInstance.TempDir()
	appsRoot := filepath.Join(workspaceDirectory, testAppsDirectoryConstant)
	specFilePath := writeWorkspaceFile(testInstance, appsRoot, "web/src/chat.spec.ts", "const p = 'perplexity';\n")
	testFilePath := writeWorkspaceFile(testInstance, appsRoot, testModelFileRelativePath, testModelFileContentConstant)

	output := &bytes.Buffer{}
	builder := migrate.CommandBuilder{
		ConfigurationProvider: func() migrate.CommandConfiguration {
			configuration := migrate.DefaultCommandConfiguration()
			configuration.Roots = []string{appsRoot}
			configuration.FilePattern = "**/*.spec.ts"
			return configuration
		},
		Output:      output,
		ErrorOutput: &bytes.Buffer{},
	}

	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)
	command.SetArgs([]string{})
	require.NoError(testInstance, command.Execute())

	require.Equal(testInstance, "const p = LlmProviders.Perplexity;\n", readWorkspaceFile(testInstance, specFilePath))
	require.Equal(testInstance, testModelFileContentConstant, readWorkspaceFile(testInstance, testFilePath))
	require.Contains(testInstance, output.String(), "Migrated 1 files.")
}

func TestCommandRejectsInvalidConfiguration(testInstance *testing.T) {
	testCases := []struct {
		name      string
		arguments []string
		configure func(configuration *migrate.CommandConfiguration)
	}{
		{
			name:      "invalid_pattern_flag",
			arguments: []string{"--pattern", "**/[.test.ts"},
		},
		{
			name: "duplicate_mapping",
			configure: func(configuration *migrate.CommandConfiguration) {
				configuration.Mappings.Providers = append(configuration.Mappings.Providers, migrate.Mapping{Pattern: "'google'", Replacement: "LlmProviders.Again"})
			},
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(commandSubtestTemplateConstant, testCaseIndex, testCase.name), func(subtest *testing.T) {
			output := &bytes.Buffer{}
			builder := migrate.CommandBuilder{
				ConfigurationProvider: func() migrate.CommandConfiguration {
					configuration := migrate.DefaultCommandConfiguration()
					configuration.Roots = []string{subtest.TempDir()}
					if testCase.configure != nil {
						testCase.configure(&configuration)
					}
					return configuration
				},
				Output:      output,
				ErrorOutput: &bytes.Buffer{},
			}

			command, buildError := builder.Build()
			require.NoError(subtest, buildError)
			command.SetArgs(append([]string{}, testCase.arguments...))
			require.Error(subtest, command.Execute())
			require.Empty(subtest, output.String())
		})
	}
}
