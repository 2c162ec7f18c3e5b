package migrate

import "strings"

// SubstitutionResult describes the outcome of applying a mapping table to a text.
type SubstitutionResult struct {
	Content          string
	ReplacementCount int
	WasModified      bool
}

// Substituter rewrites literals to symbols in table order.
type Substituter struct {
	mappings MappingTable
}

// NewSubstituter captures a copy of the provided table.
func NewSubstituter(mappings MappingTable) *Substituter {
	return &Substituter{mappings: append(MappingTable(nil), mappings...)}
}

// Substitute replaces every non-overlapping occurrence of each pattern. Later
// mappings operate on text already rewritten by earlier ones.
func (substituter *Substituter) Substitute(content string) SubstitutionResult {
	result := SubstitutionResult{Content: content}

	for _, mapping := range substituter.mappings {
		if len(mapping.Pattern) == 0 {
			continue
		}

		occurrences := strings.Count(result.Content, mapping.Pattern)
		if occurrences == 0 {
			continue
		}

		result.Content = strings.ReplaceAll(result.Content, mapping.Pattern, mapping.Replacement)
		result.ReplacementCount += occurrences
		result.WasModified = true
	}

	return result
}
