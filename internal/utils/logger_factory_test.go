package utils_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/temirov/repo-evidence/internal/utils"
)

const (
	testLogMessageConstant            = "logger_factory_test_message"
	testConsoleInfoLevelLabelConstant = "INFO"
)

func TestLoggerFactoryCreateLogger(testInstance *testing.T) {
	testCases := []struct {
		name                string
		requestedLogLevel   utils.LogLevel
		requestedLogFormat  utils.LogFormat
		expectError         bool
		expectStructuredLog bool
		expectedLevelLabel  string
		expectSuppressedLog bool
	}{
		{
			name:                "debug_structured",
			requestedLogLevel:   utils.LogLevelDebug,
			requestedLogFormat:  utils.LogFormatStructured,
			expectStructuredLog: true,
		},
		{
			name:                "info_structured",
			requestedLogLevel:   utils.LogLevelInfo,
			requestedLogFormat:  utils.LogFormatStructured,
			expectStructuredLog: true,
		},
		{
			name:               "info_console",
			requestedLogLevel:  utils.LogLevelInfo,
			requestedLogFormat: utils.LogFormatConsole,
			expectedLevelLabel: testConsoleInfoLevelLabelConstant,
		},
		{
			name:               "mixed_case_values_are_normalized",
			requestedLogLevel:  utils.LogLevel(" INFO "),
			requestedLogFormat: utils.LogFormat("Console"),
			expectedLevelLabel: testConsoleInfoLevelLabelConstant,
		},
		{
			name:                "warn_console_suppresses_info",
			requestedLogLevel:   utils.LogLevelWarn,
			requestedLogFormat:  utils.LogFormatConsole,
			expectSuppressedLog: true,
		},
		{
			name:               "unsupported_log_level",
			requestedLogLevel:  utils.LogLevel("verbose"),
			requestedLogFormat: utils.LogFormatStructured,
			expectError:        true,
		},
		{
			name:               "unsupported_log_format",
			requestedLogLevel:  utils.LogLevelInfo,
			requestedLogFormat: utils.LogFormat("xml"),
			expectError:        true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			outputBuffer := &bytes.Buffer{}
			loggerFactory := utils.NewLoggerFactoryWithSink(zapcore.AddSync(outputBuffer))

			logger, creationError := loggerFactory.CreateLogger(testCase.requestedLogLevel, testCase.requestedLogFormat)

			if testCase.expectError {
				require.Error(testInstance, creationError)
				require.Nil(testInstance, logger)
				return
			}
			require.NoError(testInstance, creationError)
			require.NotNil(testInstance, logger)

			logger.Info(testLogMessageConstant)
			require.NoError(testInstance, logger.Sync())

			capturedOutput := bytes.TrimSpace(outputBuffer.Bytes())
			if testCase.expectSuppressedLog {
				require.Empty(testInstance, capturedOutput)
				return
			}
			require.Contains(testInstance, string(capturedOutput), testLogMessageConstant)
			require.Equal(testInstance, testCase.expectStructuredLog, json.Valid(capturedOutput))
			if len(testCase.expectedLevelLabel) > 0 {
				require.Contains(testInstance, string(capturedOutput), testCase.expectedLevelLabel)
			}
		})
	}
}

func TestParseLogLevelAndFormat(testInstance *testing.T) {
	logLevel, levelError := utils.ParseLogLevel("  Warn ")
	require.NoError(testInstance, levelError)
	require.Equal(testInstance, utils.LogLevelWarn, logLevel)

	logFormat, formatError := utils.ParseLogFormat("STRUCTURED")
	require.NoError(testInstance, formatError)
	require.Equal(testInstance, utils.LogFormatStructured, logFormat)

	_, levelError = utils.ParseLogLevel("")
	require.EqualError(testInstance, levelError, "unsupported log level: ")
	_, formatError = utils.ParseLogFormat("xml")
	require.EqualError(testInstance, formatError, "unsupported log format: xml")
}
