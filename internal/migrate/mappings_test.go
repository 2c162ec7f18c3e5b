package migrate_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/intexuraos/llmconst-migrate/internal/migrate"
)

func TestDefaultMappingTablesAreValid(testInstance *testing.T) {
	combined := migrate.CombineMappingTables(migrate.DefaultModelMappings(), migrate.DefaultProviderMappings())
	require.NoError(testInstance, combined.Validate())
	require.Len(testInstance, combined, 18)

	for _, mapping := range combined {
		require.True(testInstance, strings.HasPrefix(mapping.Pattern, "'") && strings.HasSuffix(mapping.Pattern, "'"), mapping.Pattern)
	}

	require.Equal(testInstance, migrate.Mapping{Pattern: "'gemini-2.5-pro'", Replacement: "LlmModels.Gemini25Pro"}, combined[0])
	require.Equal(testInstance, migrate.Mapping{Pattern: "'perplexity'", Replacement: "LlmProviders.Perplexity"}, combined[len(combined)-1])
}

func TestMappingTableValidateReportsEveryProblem(testInstance *testing.T) {
	table := migrate.MappingTable{
		{Pattern: "'gpt-4o'", Replacement: "LlmModels.Gpt4o"},
		{Pattern: "", Replacement: "LlmModels.Empty"},
		{Pattern: "'gpt-4o'", Replacement: "LlmModels.Duplicate"},
		{Pattern: "'sonar-pro'", Replacement: "  "},
	}

	validationError := table.Validate()
	require.Error(testInstance, validationError)
	require.Contains(testInstance, validationError.Error(), "mapping 1: pattern is required")
	require.Contains(testInstance, validationError.Error(), "mapping 2: duplicate pattern 'gpt-4o'")
	require.Contains(testInstance, validationError.Error(), "mapping 3 ('sonar-pro'): replacement is required")
}

func TestMappingTableContainsAnyPattern(testInstance *testing.T) {
	table := migrate.DefaultModelMappings()

	require.True(testInstance, table.ContainsAnyPattern("const model = 'o4-mini';"))
	require.False(testInstance, table.ContainsAnyPattern(`const model = "o4-mini";`))
	require.False(testInstance, table.ContainsAnyPattern("const model = 'GPT-4O';"))
	require.False(testInstance, table.ContainsAnyPattern(""))
}

func TestCombineMappingTablesPreservesOrder(testInstance *testing.T) {
	first := migrate.MappingTable{{Pattern: "'a'", Replacement: "A"}}
	second := migrate.MappingTable{{Pattern: "'b'", Replacement: "B"}, {Pattern: "'c'", Replacement: "C"}}

	combined := migrate.CombineMappingTables(first, nil, second)
	require.Equal(testInstance, migrate.MappingTable{
		{Pattern: "'a'", Replacement: "A"},
		{Pattern: "'b'", Replacement: "B"},
		{Pattern: "'c'", Replacement: "C"},
	}, combined)
}
