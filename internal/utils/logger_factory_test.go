package utils_test

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/intexuraos/llmconst-migrate/internal/utils"
)

const (
	testLoggerFactorySubtestTemplateConstant = "%d_%s"
	testInvalidLogValueConstant              = "invalid"
	testRewriteMessageConstant               = "Rewrote test file"
	testFailureMessageConstant               = "Test file migration failed"
	testTestFileFieldConstant                = "test_file"
	testRepeatedEventCountConstant           = 250
	testStacktraceKeyConstant                = "stacktrace"
	testConsoleInfoLevelConstant             = "\tINFO\t"
	testConsoleErrorLevelConstant            = "\tERROR\t"
	testISO8601PrefixPatternConstant         = `^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}`
)

// captureStandardError redirects os.Stderr while the logger is built and used, then returns every emitted line.
func captureStandardError(testInstance *testing.T, logLevel utils.LogLevel, logFormat utils.LogFormat, emit func(logger *zap.Logger)) ([]string, error) {
	testInstance.Helper()

	pipeReader, pipeWriter, pipeError := os.Pipe()
	require.NoError(testInstance, pipeError)

	capturedOutput := make(chan []byte, 1)
	go func() {
		content, _ := io.ReadAll(pipeReader)
		capturedOutput <- content
	}()

	originalStderr := os.Stderr
	os.Stderr = pipeWriter
	logger, creationError := utils.NewLoggerFactory().CreateLogger(logLevel, logFormat)
	os.Stderr = originalStderr

	if creationError == nil {
		emit(logger)
		if syncError := logger.Sync(); syncError != nil {
			require.True(testInstance, errors.Is(syncError, syscall.ENOTSUP) || errors.Is(syncError, syscall.EINVAL))
		}
	}

	require.NoError(testInstance, pipeWriter.Close())
	content := <-capturedOutput
	require.NoError(testInstance, pipeReader.Close())

	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(content))
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); len(line) > 0 {
			lines = append(lines, line)
		}
	}
	return lines, creationError
}

func TestLoggerFactoryCreateLogger(testInstance *testing.T) {
	testCases := []struct {
		name               string
		requestedLogLevel  utils.LogLevel
		requestedLogFormat utils.LogFormat
		expectError        bool
		expectJSON         bool
		expectedLineCount  int
	}{
		{name: "debug_structured", requestedLogLevel: utils.LogLevelDebug, requestedLogFormat: utils.LogFormatStructured, expectJSON: true, expectedLineCount: 2},
		{name: "info_console", requestedLogLevel: utils.LogLevelInfo, requestedLogFormat: utils.LogFormatConsole, expectJSON: false, expectedLineCount: 2},
		{name: "warn_structured", requestedLogLevel: utils.LogLevelWarn, requestedLogFormat: utils.LogFormatStructured, expectJSON: true, expectedLineCount: 1},
		{name: "error_console_hides_warnings", requestedLogLevel: utils.LogLevelError, requestedLogFormat: utils.LogFormatConsole, expectJSON: false, expectedLineCount: 0},
		{name: "unsupported_log_level", requestedLogLevel: utils.LogLevel(testInvalidLogValueConstant), requestedLogFormat: utils.LogFormatStructured, expectError: true},
		{name: "unsupported_log_format", requestedLogLevel: utils.LogLevelInfo, requestedLogFormat: utils.LogFormat(testInvalidLogValueConstant), expectError: true},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(testLoggerFactorySubtestTemplateConstant, testCaseIndex, testCase.name), func(subTest *testing.T) {
			lines, creationError := captureStandardError(subTest, testCase.requestedLogLevel, testCase.requestedLogFormat, func(logger *zap.Logger) {
				logger.Info(testRewriteMessageConstant, zap.String(testTestFileFieldConstant, "apps/a.test.ts"))
				logger.Warn(testFailureMessageConstant, zap.String(testTestFileFieldConstant, "apps/b.test.ts"))
			})

			if testCase.expectError {
				require.Error(subTest, creationError)
				require.Empty(subTest, lines)
				return
			}

			require.NoError(subTest, creationError)
			require.Len(subTest, lines, testCase.expectedLineCount)
			for _, line := range lines {
				require.Equal(subTest, testCase.expectJSON, json.Valid([]byte(line)))
			}
		})
	}
}

func TestLoggerFactoryKeepsEveryRepeatedEvent(testInstance *testing.T) {
	lines, creationError := captureStandardError(testInstance, utils.LogLevelInfo, utils.LogFormatStructured, func(logger *zap.Logger) {
		for eventIndex := 0; eventIndex < testRepeatedEventCountConstant; eventIndex++ {
			logger.Info(testRewriteMessageConstant)
		}
	})

	require.NoError(testInstance, creationError)
	require.Len(testInstance, lines, testRepeatedEventCountConstant)
}

func TestLoggerFactoryOmitsStacktraces(testInstance *testing.T) {
	lines, creationError := captureStandardError(testInstance, utils.LogLevelError, utils.LogFormatStructured, func(logger *zap.Logger) {
		logger.Error(testFailureMessageConstant, zap.Error(errors.New("unable to write file")))
	})

	require.NoError(testInstance, creationError)
	require.Len(testInstance, lines, 1)

	var entry map[string]any
	require.NoError(testInstance, json.Unmarshal([]byte(lines[0]), &entry))
	require.Equal(testInstance, testFailureMessageConstant, entry["msg"])
	require.NotContains(testInstance, entry, testStacktraceKeyConstant)
}

func TestLoggerFactoryConsoleFormatUsesDevelopmentEncoder(testInstance *testing.T) {
	lines, creationError := captureStandardError(testInstance, utils.LogLevelInfo, utils.LogFormatConsole, func(logger *zap.Logger) {
		logger.Info(testRewriteMessageConstant)
		logger.Error(testFailureMessageConstant)
	})

	require.NoError(testInstance, creationError)
	require.Len(testInstance, lines, 2)
	require.Contains(testInstance, lines[0], testConsoleInfoLevelConstant)
	require.Contains(testInstance, lines[0], testRewriteMessageConstant)
	require.Contains(testInstance, lines[1], testConsoleErrorLevelConstant)
	require.Contains(testInstance, lines[1], testFailureMessageConstant)
	for _, line := range lines {
		require.Regexp(testInstance, testISO8601PrefixPatternConstant, line)
	}
}
