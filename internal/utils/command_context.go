package utils

import "context"

const (
	configurationFilePathContextKeyConstant = commandContextKey("configurationFilePath")
	consoleOutputContextKeyConstant         = commandContextKey("consoleOutput")
)

type commandContextKey string

// CommandContextAccessor manages values stored in command execution contexts.
type CommandContextAccessor struct{}

// NewCommandContextAccessor constructs a CommandContextAccessor instance.
func NewCommandContextAccessor() CommandContextAccessor {
	return CommandContextAccessor{}
}

// WithConfigurationFilePath attaches the configuration file path to the provided context.
func (accessor CommandContextAccessor) WithConfigurationFilePath(parentContext context.Context, configurationFilePath string) context.Context {
	if parentContext == nil {
		parentContext = context.Background()
	}
	return context.WithValue(parentContext, configurationFilePathContextKeyConstant, configurationFilePath)
}

// ConfigurationFilePath extracts the configuration file path from the provided context.
func (accessor CommandContextAccessor) ConfigurationFilePath(executionContext context.Context) (string, bool) {
	if executionContext == nil {
		return "", false
	}
	configurationFilePath, configurationFilePathAvailable := executionContext.Value(configurationFilePathContextKeyConstant).(string)
	return configurationFilePath, configurationFilePathAvailable
}

// WithConsoleOutput records whether human-readable (colored) console output was requested.
func (accessor CommandContextAccessor) WithConsoleOutput(parentContext context.Context, enabled bool) context.Context {
	if parentContext == nil {
		parentContext = context.Background()
	}
	return context.WithValue(parentContext, consoleOutputContextKeyConstant, enabled)
}

// ConsoleOutput reports whether human-readable console output was requested. Absent values read as false.
func (accessor CommandContextAccessor) ConsoleOutput(executionContext context.Context) bool {
	if executionContext == nil {
		return false
	}
	enabled, _ := executionContext.Value(consoleOutputContextKeyConstant).(bool)
	return enabled
}
