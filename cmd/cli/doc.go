// Package cli constructs the llmconst-migrate command-line interface, wiring the
// migration command, the configuration loader with its embedded defaults, and
// structured logging.
package cli
