package ui

import (
	"time"

	"go.uber.org/zap"

	"github.com/temirov/repo-evidence/internal/execshell"
)

// ConsoleCommandEventLogger renders command lifecycle events using a zap logger configured for human-readable output.
type ConsoleCommandEventLogger struct {
	logger        *zap.Logger
	formatter     execshell.CommandMessageFormatter
	messageFilter MessageFilter
}

// MessageFilter rewrites a message before it is logged.
type MessageFilter func(message string) string

// NewConsoleCommandEventLogger constructs a console event logger backed by the provided zap logger.
func NewConsoleCommandEventLogger(logger *zap.Logger) *ConsoleCommandEventLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsoleCommandEventLogger{logger: logger, formatter: execshell.CommandMessageFormatter{}}
}

// WithMessageFilter returns a copy of the event logger that passes every message through filter.
// Messages may quote captured standard error, so callers that redact output should filter here too.
func (eventLogger *ConsoleCommandEventLogger) WithMessageFilter(filter MessageFilter) *ConsoleCommandEventLogger {
	if eventLogger == nil {
		return nil
	}
	filtered := *eventLogger
	filtered.messageFilter = filter
	return &filtered
}

// CommandStarted implements execshell.CommandEventObserver by logging command start notifications.
func (eventLogger *ConsoleCommandEventLogger) CommandStarted(command execshell.ShellCommand) {
	if eventLogger == nil {
		return
	}
	eventLogger.logger.Info(eventLogger.filter(eventLogger.formatter.BuildStartedMessage(command)))
}

// CommandCompleted implements execshell.CommandEventObserver. Non-zero exits are logged as warnings.
func (eventLogger *ConsoleCommandEventLogger) CommandCompleted(command execshell.ShellCommand, result execshell.ExecutionResult) {
	if eventLogger == nil {
		return
	}
	message := eventLogger.filter(eventLogger.formatter.BuildCompletedMessage(command, result))
	if result.ExitCode == 0 {
		eventLogger.logger.Info(message)
		return
	}
	eventLogger.logger.Warn(message)
}

// CommandTimedOut implements execshell.CommandEventObserver by logging terminated commands.
func (eventLogger *ConsoleCommandEventLogger) CommandTimedOut(command execshell.ShellCommand, timeout time.Duration) {
	if eventLogger == nil {
		return
	}
	eventLogger.logger.Warn(eventLogger.filter(eventLogger.formatter.BuildTimeoutMessage(command, timeout)))
}

// CommandExecutionFailed implements execshell.CommandEventObserver by logging unexpected execution failures.
func (eventLogger *ConsoleCommandEventLogger) CommandExecutionFailed(command execshell.ShellCommand, failure error) {
	if eventLogger == nil {
		return
	}
	eventLogger.logger.Error(eventLogger.filter(eventLogger.formatter.BuildExecutionFailureMessage(command, failure)))
}

func (eventLogger *ConsoleCommandEventLogger) filter(message string) string {
	if eventLogger.messageFilter == nil {
		return message
	}
	return eventLogger.messageFilter(message)
}
