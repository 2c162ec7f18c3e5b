// Package utils exposes reusable helpers consumed by the command-line entrypoint.
//
// It houses ConfigurationLoader and LoggerFactory abstractions that integrate
// Viper, environment variables, and zap logging, and the CommandContextAccessor
// that carries resolved configuration metadata through command contexts.
package utils
