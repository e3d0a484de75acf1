package execshell

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const (
	commandGitNameConstant               = "git"
	commandShellNameConstant             = "bash"
	shellLoginCommandFlagConstant        = "-lc"
	loggerNotConfiguredMessageConstant   = "shell executor requires a logger"
	runnerNotConfiguredMessageConstant   = "shell executor requires a command runner"
	commandFailedTemplateConstant        = "%s exited with code %d"
	commandExecutionTemplateConstant     = "%s could not be executed: %v"
	commandTimeoutTemplateConstant       = "%s timed out after %s"
	logFieldCommandConstant              = "command"
	logFieldWorkingDirectoryConstant     = "working_directory"
	logFieldExitCodeConstant             = "exit_code"
	logFieldTimeoutConstant              = "timeout"
	logFieldOutputCapReachedConstant     = "output_cap_reached"
	logFieldStandardErrorLengthConstant  = "stderr_bytes"
	logFieldStandardOutputLengthConstant = "stdout_bytes"
)

// CommandName identifies the executable launched for a ShellCommand.
type CommandName string

// Supported executables.
const (
	CommandGit   CommandName = CommandName(commandGitNameConstant)
	CommandShell CommandName = CommandName(commandShellNameConstant)
)

var (
	// ErrLoggerNotConfigured indicates that a nil logger was supplied.
	ErrLoggerNotConfigured = errors.New(loggerNotConfiguredMessageConstant)
	// ErrCommandRunnerNotConfigured indicates that a nil runner was supplied.
	ErrCommandRunnerNotConfigured = errors.New(runnerNotConfiguredMessageConstant)
)

// CommandDetails describes how a command is invoked.
type CommandDetails struct {
	Arguments            []string
	WorkingDirectory     string
	EnvironmentVariables map[string]string
	StandardInput        []byte
	// Timeout bounds the wall-clock duration of the command. Zero disables the bound.
	Timeout time.Duration
	// MaxOutputBytes caps each captured stream. Zero disables the cap.
	MaxOutputBytes int
}

// ShellCommand pairs an executable with its invocation details.
type ShellCommand struct {
	Name    CommandName
	Details CommandDetails
}

// ExecutionResult captures the observable results of executing a command.
type ExecutionResult struct {
	StandardOutput string
	StandardError  string
	ExitCode       int
	// OutputCapReached reports that at least one stream hit MaxOutputBytes.
	OutputCapReached bool
}

// CommandRunner represents the ability to run shell commands.
type CommandRunner interface {
	Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error)
}

// CommandFailedError reports a command that finished with a non-zero exit code.
type CommandFailedError struct {
	Command ShellCommand
	Result  ExecutionResult
}

func (failure CommandFailedError) Error() string {
	return fmt.Sprintf(commandFailedTemplateConstant, CommandMessageFormatter{}.FormatCommandLabel(failure.Command), failure.Result.ExitCode)
}

// CommandExecutionError reports a command that could not be launched or awaited.
type CommandExecutionError struct {
	Command ShellCommand
	Cause   error
}

func (failure CommandExecutionError) Error() string {
	return fmt.Sprintf(commandExecutionTemplateConstant, CommandMessageFormatter{}.FormatCommandLabel(failure.Command), failure.Cause)
}

// Unwrap exposes the underlying cause.
func (failure CommandExecutionError) Unwrap() error {
	return failure.Cause
}

// CommandTimeoutError reports a command terminated because it exceeded its timeout.
type CommandTimeoutError struct {
	Command ShellCommand
	Timeout time.Duration
	// Result holds whatever output was captured before termination.
	Result ExecutionResult
}

func (failure CommandTimeoutError) Error() string {
	return fmt.Sprintf(commandTimeoutTemplateConstant, CommandMessageFormatter{}.FormatCommandLabel(failure.Command), failure.Timeout)
}

// Unwrap ties timeouts to context.DeadlineExceeded for errors.Is checks.
func (failure CommandTimeoutError) Unwrap() error {
	return context.DeadlineExceeded
}

// ShellExecutor runs commands through a CommandRunner with logging and timeouts.
type ShellExecutor struct {
	logger           *zap.Logger
	runner           CommandRunner
	eventObserver    CommandEventObserver
	messageFormatter CommandMessageFormatter
}

// NewShellExecutor constructs a ShellExecutor that reports only through the logger.
func NewShellExecutor(logger *zap.Logger, runner CommandRunner) (*ShellExecutor, error) {
	return NewShellExecutorWithObserver(logger, runner, nil)
}

// NewShellExecutorWithObserver constructs a ShellExecutor that also forwards lifecycle events to observer.
func NewShellExecutorWithObserver(logger *zap.Logger, runner CommandRunner, observer CommandEventObserver) (*ShellExecutor, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if runner == nil {
		return nil, ErrCommandRunnerNotConfigured
	}
	if observer == nil {
		observer = noopCommandEventObserver{}
	}
	return &ShellExecutor{
		logger:           logger,
		runner:           runner,
		eventObserver:    observer,
		messageFormatter: CommandMessageFormatter{},
	}, nil
}

// Run executes the command within its timeout. Non-zero exit codes are returned as results, not errors.
// A timeout yields CommandTimeoutError and a runner failure yields CommandExecutionError.
func (executor *ShellExecutor) Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	if executionContext == nil {
		executionContext = context.Background()
	}

	commandContext := executionContext
	cancelCommand := func() {}
	if command.Details.Timeout > 0 {
		commandContext, cancelCommand = context.WithTimeout(executionContext, command.Details.Timeout)
	}
	defer cancelCommand()

	commandLabel := executor.messageFormatter.FormatCommandLabel(command)
	executor.eventObserver.CommandStarted(command)
	executor.logger.Debug(
		executor.messageFormatter.BuildStartedMessage(command),
		zap.String(logFieldCommandConstant, commandLabel),
		zap.String(logFieldWorkingDirectoryConstant, command.Details.WorkingDirectory),
	)

	executionResult, runError := executor.runner.Run(commandContext, command)

	if command.Details.Timeout > 0 && executionContext.Err() == nil && errors.Is(commandContext.Err(), context.DeadlineExceeded) {
		executor.eventObserver.CommandTimedOut(command, command.Details.Timeout)
		executor.logger.Warn(
			executor.messageFormatter.BuildTimeoutMessage(command, command.Details.Timeout),
			zap.String(logFieldCommandConstant, commandLabel),
			zap.Duration(logFieldTimeoutConstant, command.Details.Timeout),
		)
		return ExecutionResult{}, CommandTimeoutError{Command: command, Timeout: command.Details.Timeout, Result: executionResult}
	}

	if runError != nil {
		executor.eventObserver.CommandExecutionFailed(command, runError)
		executor.logger.Warn(
			executor.messageFormatter.BuildExecutionFailureMessage(command, runError),
			zap.String(logFieldCommandConstant, commandLabel),
			zap.Error(runError),
		)
		return ExecutionResult{}, CommandExecutionError{Command: command, Cause: runError}
	}

	executor.eventObserver.CommandCompleted(command, executionResult)
	executor.logger.Debug(
		executor.messageFormatter.BuildCompletedMessage(command, executionResult),
		zap.String(logFieldCommandConstant, commandLabel),
		zap.Int(logFieldExitCodeConstant, executionResult.ExitCode),
		zap.Int(logFieldStandardOutputLengthConstant, len(executionResult.StandardOutput)),
		zap.Int(logFieldStandardErrorLengthConstant, len(executionResult.StandardError)),
		zap.Bool(logFieldOutputCapReachedConstant, executionResult.OutputCapReached),
	)

	return executionResult, nil
}

// ExecuteGit runs git and treats non-zero exit codes as CommandFailedError.
func (executor *ShellExecutor) ExecuteGit(executionContext context.Context, details CommandDetails) (ExecutionResult, error) {
	gitCommand := ShellCommand{Name: CommandGit, Details: details}
	executionResult, runError := executor.Run(executionContext, gitCommand)
	if runError != nil {
		return ExecutionResult{}, runError
	}
	if executionResult.ExitCode != 0 {
		return ExecutionResult{}, CommandFailedError{Command: gitCommand, Result: executionResult}
	}
	return executionResult, nil
}

// ExecuteScript runs script through a login bash shell. Arguments in details are replaced.
func (executor *ShellExecutor) ExecuteScript(executionContext context.Context, script string, details CommandDetails) (ExecutionResult, error) {
	scriptDetails := details
	scriptDetails.Arguments = []string{shellLoginCommandFlagConstant, script}
	return executor.Run(executionContext, ShellCommand{Name: CommandShell, Details: scriptDetails})
}
