package migrate

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

const (
	migratingLabelConstant           = "Migrating:"
	dryRunLabelConstant              = "Would migrate:"
	failureLabelConstant             = "Error migrating"
	progressLineTemplateConstant     = "%s %s\n"
	failureLineTemplateConstant      = "%s %s: %v\n"
	completionLineTemplateConstant   = "\nMigration complete! Migrated %d files.\n"
	dryRunCompletionTemplateConstant = "\nDry run complete! %d files would be migrated.\n"
)

// Reporter emits the user-facing progress of a migration run.
type Reporter interface {
	FileMigrating(filePath string, dryRun bool)
	FileFailed(filePath string, failure error)
	RunCompleted(summary RunSummary)
}

type consoleReporter struct {
	output        io.Writer
	errorOutput   io.Writer
	progressColor *color.Color
	failureColor  *color.Color
	summaryColor  *color.Color
}

// NewConsoleReporter writes progress lines to output and failures to errorOutput.
// Labels are colored only when colorize is set.
func NewConsoleReporter(output io.Writer, errorOutput io.Writer, colorize bool) Reporter {
	if output == nil {
		output = os.Stdout
	}
	if errorOutput == nil {
		errorOutput = os.Stderr
	}

	reporter := consoleReporter{
		output:        output,
		errorOutput:   errorOutput,
		progressColor: color.New(color.FgCyan),
		failureColor:  color.New(color.FgRed),
		summaryColor:  color.New(color.FgGreen, color.Bold),
	}

	if colorize {
		reporter.progressColor.EnableColor()
		reporter.failureColor.EnableColor()
		reporter.summaryColor.EnableColor()
	} else {
		reporter.progressColor.DisableColor()
		reporter.failureColor.DisableColor()
		reporter.summaryColor.DisableColor()
	}

	return reporter
}

func (reporter consoleReporter) FileMigrating(filePath string, dryRun bool) {
	label := migratingLabelConstant
	if dryRun {
		label = dryRunLabelConstant
	}
	fmt.Fprintf(reporter.output, progressLineTemplateConstant, reporter.progressColor.Sprint(label), filePath)
}

func (reporter consoleReporter) FileFailed(filePath string, failure error) {
	fmt.Fprintf(reporter.errorOutput, failureLineTemplateConstant, reporter.failureColor.Sprint(failureLabelConstant), filePath, failure)
}

func (reporter consoleReporter) RunCompleted(summary RunSummary) {
	template := completionLineTemplateConstant
	if summary.DryRun {
		template = dryRunCompletionTemplateConstant
	}
	reporter.summaryColor.Fprintf(reporter.output, template, summary.MigratedCount())
}
