package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/temirov/repo-evidence/internal/execshell"
)

const (
	// TimeoutExitCode is recorded for commands terminated by their timeout.
	TimeoutExitCode = 124
	// LaunchFailureExitCode is recorded for commands the shell could not run.
	LaunchFailureExitCode = 127

	timedOutWholeSecondsTemplateConstant = "Timed out after %ds"
	timedOutDurationTemplateConstant     = "Timed out after %s"
	scriptExecutorMissingMessageConstant = "evidence ledger requires a script executor"
)

// ErrScriptExecutorNotConfigured indicates that no script executor was supplied.
var ErrScriptExecutorNotConfigured = errors.New(scriptExecutorMissingMessageConstant)

// ScriptExecutor runs a script through a shell.
type ScriptExecutor interface {
	ExecuteScript(executionContext context.Context, script string, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// CommandResult is the redacted outcome of one discovery command.
type CommandResult struct {
	Command          string
	WorkingDirectory string
	ExitCode         int
	StandardOutput   string
	StandardError    string
	// CaptureLimited reports that a stream was cut at the byte budget while capturing.
	CaptureLimited bool
}

// CommandExecutor runs discovery commands and converts every outcome into a CommandResult.
type CommandExecutor struct {
	scriptExecutor ScriptExecutor
	redactor       *Redactor
	timeout        time.Duration
	maxOutputBytes int
}

// NewCommandExecutor constructs a CommandExecutor. A nil redactor uses DefaultRedactionRules.
func NewCommandExecutor(scriptExecutor ScriptExecutor, redactor *Redactor, timeout time.Duration, maxOutputBytes int) (*CommandExecutor, error) {
	if scriptExecutor == nil {
		return nil, ErrScriptExecutorNotConfigured
	}
	if redactor == nil {
		redactor = NewDefaultRedactor()
	}
	return &CommandExecutor{
		scriptExecutor: scriptExecutor,
		redactor:       redactor,
		timeout:        timeout,
		maxOutputBytes: maxOutputBytes,
	}, nil
}

// Execute runs command in workingDirectory. Timeouts and launch failures are recorded
// as results with TimeoutExitCode and LaunchFailureExitCode; a non-zero exit is data.
func (executor *CommandExecutor) Execute(executionContext context.Context, command string, workingDirectory string) CommandResult {
	commandDetails := execshell.CommandDetails{
		WorkingDirectory: workingDirectory,
		Timeout:          executor.timeout,
		MaxOutputBytes:   executor.maxOutputBytes,
	}

	executionResult, executionError := executor.scriptExecutor.ExecuteScript(executionContext, command, commandDetails)
	commandResult := CommandResult{Command: command, WorkingDirectory: workingDirectory}

	var timeoutError execshell.CommandTimeoutError
	switch {
	case errors.As(executionError, &timeoutError):
		commandResult.ExitCode = TimeoutExitCode
		commandResult.StandardError = describeTimeout(timeoutError.Timeout)
		return commandResult
	case executionError != nil:
		commandResult.ExitCode = LaunchFailureExitCode
		commandResult.StandardError = executor.redactor.Redact(launchFailureText(executionError))
		return commandResult
	}

	commandResult.ExitCode = executionResult.ExitCode
	commandResult.StandardOutput = executor.redactor.Redact(executionResult.StandardOutput)
	commandResult.StandardError = executor.redactor.Redact(executionResult.StandardError)
	commandResult.CaptureLimited = executionResult.OutputCapReached
	return commandResult
}

func describeTimeout(timeout time.Duration) string {
	if timeout%time.Second == 0 {
		return fmt.Sprintf(timedOutWholeSecondsTemplateConstant, int64(timeout/time.Second))
	}
	return fmt.Sprintf(timedOutDurationTemplateConstant, timeout)
}

func launchFailureText(executionError error) string {
	var launchError execshell.CommandExecutionError
	if errors.As(executionError, &launchError) && launchError.Cause != nil {
		return launchError.Cause.Error()
	}
	return executionError.Error()
}
