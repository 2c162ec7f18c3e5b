package migrate

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

const (
	importKeywordPrefixConstant          = "import "
	importFromKeywordConstant            = "from"
	importLineTemplateConstant           = "import { %s } from '%s';"
	importFromClauseTemplateConstant     = "from '%s'"
	importClausePatternTemplateConstant  = `import\s*{([^}]+)}\s*from\s*'%s';`
	importSymbolSeparatorConstant        = ", "
	lineSeparatorConstant                = "\n"
	carriageReturnConstant               = "\r"
	importModuleMissingMessageConstant   = "import module path is required"
	importSymbolsMissingMessageConstant  = "at least one import symbol is required"
	importSymbolInvalidTemplateConstant  = "import symbol %d is empty"
	defaultImportModulePathConstant      = "@intexuraos/llm-contract"
	defaultImportModelsSymbolConstant    = "LlmModels"
	defaultImportProvidersSymbolConstant = "LlmProviders"
)

// ImportTarget names the module that exports the constants and the symbols to import from it.
type ImportTarget struct {
	ModulePath string   `mapstructure:"module" yaml:"module"`
	Symbols    []string `mapstructure:"symbols" yaml:"symbols"`
}

// DefaultImportTarget returns the constants module used by the built-in mapping tables.
func DefaultImportTarget() ImportTarget {
	return ImportTarget{
		ModulePath: defaultImportModulePathConstant,
		Symbols:    []string{defaultImportModelsSymbolConstant, defaultImportProvidersSymbolConstant},
	}
}

// Validate ensures the target names a module and at least one non-empty symbol.
func (target ImportTarget) Validate() error {
	if len(strings.TrimSpace(target.ModulePath)) == 0 {
		return errors.New(importModuleMissingMessageConstant)
	}
	if len(target.Symbols) == 0 {
		return errors.New(importSymbolsMissingMessageConstant)
	}
	for symbolIndex, symbol := range target.Symbols {
		if len(strings.TrimSpace(symbol)) == 0 {
			return fmt.Errorf(importSymbolInvalidTemplateConstant, symbolIndex)
		}
	}
	return nil
}

// ImportStatement renders the single-line import declaration for the target.
func (target ImportTarget) ImportStatement() string {
	return fmt.Sprintf(importLineTemplateConstant, strings.Join(target.Symbols, importSymbolSeparatorConstant), target.ModulePath)
}

// ImportEnsurer makes sure migrated text imports the constants it will reference.
//
// Detection is textual: symbols appearing anywhere in the text count as imported,
// and an existing clause for the module is overwritten rather than merged.
type ImportEnsurer struct {
	target          ImportTarget
	importStatement string
	fromClause      string
	clausePattern   *regexp.Regexp
}

// NewImportEnsurer compiles the clause pattern for the provided target.
func NewImportEnsurer(target ImportTarget) (*ImportEnsurer, error) {
	if validationError := target.Validate(); validationError != nil {
		return nil, validationError
	}

	clausePattern, compileError := regexp.Compile(fmt.Sprintf(importClausePatternTemplateConstant, regexp.QuoteMeta(target.ModulePath)))
	if compileError != nil {
		return nil, compileError
	}

	return &ImportEnsurer{
		target:          target,
		importStatement: target.ImportStatement(),
		fromClause:      fmt.Sprintf(importFromClauseTemplateConstant, target.ModulePath),
		clausePattern:   clausePattern,
	}, nil
}

// EnsureImport returns content with the import declaration present when it can be placed.
// An inserted line reuses the line ending of the import line it follows.
func (ensurer *ImportEnsurer) EnsureImport(content string) string {
	if ensurer.symbolsPresent(content) {
		return content
	}

	if strings.Contains(content, ensurer.fromClause) {
		return ensurer.clausePattern.ReplaceAllLiteralString(content, ensurer.importStatement)
	}

	lines := strings.Split(content, lineSeparatorConstant)
	for lineIndex, line := range lines {
		if !strings.HasPrefix(line, importKeywordPrefixConstant) || !strings.Contains(line, importFromKeywordConstant) {
			continue
		}

		insertedLine := ensurer.importStatement
		if strings.HasSuffix(line, carriageReturnConstant) {
			insertedLine += carriageReturnConstant
		}

		updatedLines := make([]string, 0, len(lines)+1)
		updatedLines = append(updatedLines, lines[:lineIndex+1]...)
		updatedLines = append(updatedLines, insertedLine)
		updatedLines = append(updatedLines, lines[lineIndex+1:]...)
		return strings.Join(updatedLines, lineSeparatorConstant)
	}

	return content
}

func (ensurer *ImportEnsurer) symbolsPresent(content string) bool {
	for _, symbol := range ensurer.target.Symbols {
		if !strings.Contains(content, symbol) {
			return false
		}
	}
	return true
}
