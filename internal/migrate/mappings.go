package migrate

import (
	"errors"
	"fmt"
	"strings"
)

const (
	emptyMappingPatternTemplateConstant     = "mapping %d: pattern is required"
	emptyMappingReplacementTemplateConstant = "mapping %d (%s): replacement is required"
	duplicateMappingPatternTemplateConstant = "mapping %d: duplicate pattern %s"
)

// Mapping pairs a quoted literal with the symbol that replaces it.
type Mapping struct {
	Pattern     string `mapstructure:"pattern" yaml:"pattern"`
	Replacement string `mapstructure:"replacement" yaml:"replacement"`
}

// MappingTable is an ordered list of mappings. Order is the substitution order.
type MappingTable []Mapping

// DefaultModelMappings returns the built-in model identifier table.
func DefaultModelMappings() MappingTable {
	return MappingTable{
		{Pattern: "'gemini-2.5-pro'", Replacement: "LlmModels.Gemini25Pro"},
		{Pattern: "'gemini-2.5-flash'", Replacement: "LlmModels.Gemini25Flash"},
		{Pattern: "'gemini-2.0-flash'", Replacement: "LlmModels.Gemini20Flash"},
		{Pattern: "'o4-mini-deep-research'", Replacement: "LlmModels.O4MiniDeepResearch"},
		{Pattern: "'o4-mini'", Replacement: "LlmModels.O4Mini"},
		{Pattern: "'o1-deep-research'", Replacement: "LlmModels.O1DeepResearch"},
		{Pattern: "'gpt-4o'", Replacement: "LlmModels.Gpt4o"},
		{Pattern: "'gpt-4o-mini'", Replacement: "LlmModels.Gpt4oMini"},
		{Pattern: "'claude-sonnet-4-5-20250929'", Replacement: "LlmModels.ClaudeSonnet4520250929"},
		{Pattern: "'claude-sonnet-4-20250514'", Replacement: "LlmModels.ClaudeSonnet420250514"},
		{Pattern: "'claude-opus-4-5-20251101'", Replacement: "LlmModels.ClaudeOpus4520251101"},
		{Pattern: "'sonar-pro'", Replacement: "LlmModels.SonarPro"},
		{Pattern: "'imagen-3'", Replacement: "LlmModels.Imagen3"},
		{Pattern: "'dall-e-3'", Replacement: "LlmModels.DallE3"},
	}
}

// DefaultProviderMappings returns the built-in provider identifier table.
func DefaultProviderMappings() MappingTable {
	return MappingTable{
		{Pattern: "'google'", Replacement: "LlmProviders.Google"},
		{Pattern: "'anthropic'", Replacement: "LlmProviders.Anthropic"},
		{Pattern: "'openai'", Replacement: "LlmProviders.OpenAI"},
		{Pattern: "'perplexity'", Replacement: "LlmProviders.Perplexity"},
	}
}

// CombineMappingTables concatenates tables in the provided order.
func CombineMappingTables(tables ...MappingTable) MappingTable {
	combinedLength := 0
	for _, table := range tables {
		combinedLength += len(table)
	}

	combined := make(MappingTable, 0, combinedLength)
	for _, table := range tables {
		combined = append(combined, table...)
	}
	return combined
}

// Validate ensures every pattern is present, unique, and paired with a replacement.
func (table MappingTable) Validate() error {
	seenPatterns := make(map[string]struct{}, len(table))
	var validationErrors []error

	for mappingIndex, mapping := range table {
		if len(mapping.Pattern) == 0 {
			validationErrors = append(validationErrors, fmt.Errorf(emptyMappingPatternTemplateConstant, mappingIndex))
			continue
		}
		if len(strings.TrimSpace(mapping.Replacement)) == 0 {
			validationErrors = append(validationErrors, fmt.Errorf(emptyMappingReplacementTemplateConstant, mappingIndex, mapping.Pattern))
		}
		if _, duplicate := seenPatterns[mapping.Pattern]; duplicate {
			validationErrors = append(validationErrors, fmt.Errorf(duplicateMappingPatternTemplateConstant, mappingIndex, mapping.Pattern))
			continue
		}
		seenPatterns[mapping.Pattern] = struct{}{}
	}

	return errors.Join(validationErrors...)
}

// ContainsAnyPattern reports whether content contains at least one pattern of the table.
func (table MappingTable) ContainsAnyPattern(content string) bool {
	for _, mapping := range table {
		if len(mapping.Pattern) == 0 {
			continue
		}
		if strings.Contains(content, mapping.Pattern) {
			return true
		}
	}
	return false
}
