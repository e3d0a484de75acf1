package execshell

import (
	"fmt"
	"strings"
	"time"
)

const (
	startedTemplateConstant                = "Running %s%s"
	completedTemplateConstant              = "Completed %s%s"
	nonZeroExitTemplateConstant            = "%s%s exited with code %d%s"
	executionFailureTemplateConstant       = "%s%s failed: %s"
	timeoutTemplateConstant                = "%s%s timed out after %s"
	workingDirectorySuffixTemplateConstant = " (in %s)"
	standardErrorSuffixTemplateConstant    = ": %s"
	commandArgumentsJoinSeparatorConstant  = " "
	unknownFailureMessageConstant          = "unknown error"
	maximumStandardErrorPreviewConstant    = 200
	previewEllipsisConstant                = "…"
)

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage describes a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return fmt.Sprintf(startedTemplateConstant, formatter.FormatCommandLabel(command), formatter.formatWorkingDirectorySuffix(command))
}

// BuildCompletedMessage describes a finished command, mentioning the exit code only when it is non-zero.
func (formatter CommandMessageFormatter) BuildCompletedMessage(command ShellCommand, result ExecutionResult) string {
	if result.ExitCode == 0 {
		return fmt.Sprintf(completedTemplateConstant, formatter.FormatCommandLabel(command), formatter.formatWorkingDirectorySuffix(command))
	}
	return fmt.Sprintf(
		nonZeroExitTemplateConstant,
		formatter.FormatCommandLabel(command),
		formatter.formatWorkingDirectorySuffix(command),
		result.ExitCode,
		formatter.formatStandardErrorSuffix(result.StandardError),
	)
}

// BuildTimeoutMessage describes a command terminated after exceeding its timeout.
func (formatter CommandMessageFormatter) BuildTimeoutMessage(command ShellCommand, timeout time.Duration) string {
	return fmt.Sprintf(timeoutTemplateConstant, formatter.FormatCommandLabel(command), formatter.formatWorkingDirectorySuffix(command), timeout)
}

// BuildExecutionFailureMessage describes a command that could not be run at all.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	failureMessage := unknownFailureMessageConstant
	if failure != nil {
		failureMessage = failure.Error()
	}
	return fmt.Sprintf(executionFailureTemplateConstant, formatter.FormatCommandLabel(command), formatter.formatWorkingDirectorySuffix(command), failureMessage)
}

// FormatCommandLabel renders the command the way a user would type it.
// Shell invocations are labelled with the script alone.
func (formatter CommandMessageFormatter) FormatCommandLabel(command ShellCommand) string {
	arguments := command.Details.Arguments
	if command.Name == CommandShell && len(arguments) == 2 && arguments[0] == shellLoginCommandFlagConstant {
		return arguments[1]
	}
	commandParts := []string{string(command.Name)}
	if len(arguments) > 0 {
		commandParts = append(commandParts, strings.Join(arguments, commandArgumentsJoinSeparatorConstant))
	}
	return strings.Join(commandParts, commandArgumentsJoinSeparatorConstant)
}

func (formatter CommandMessageFormatter) formatWorkingDirectorySuffix(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return ""
	}
	return fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return ""
	}
	firstLine, _, _ := strings.Cut(trimmedStandardError, "\n")
	if len(firstLine) > maximumStandardErrorPreviewConstant {
		firstLine = firstLine[:maximumStandardErrorPreviewConstant] + previewEllipsisConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, firstLine)
}
