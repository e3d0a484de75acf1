package execshell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"
)

const (
	environmentAssignmentSeparatorConstant = "="
	environmentAssignmentTemplateConstant  = "%s%s%s"
	// pipes held open by orphaned grandchildren are closed after this delay
	processWaitDelayConstant = 2 * time.Second
)

// OSCommandRunner executes commands using the operating system facilities.
type OSCommandRunner struct{}

// NewOSCommandRunner constructs a runner backed by os/exec.
func NewOSCommandRunner() *OSCommandRunner {
	return &OSCommandRunner{}
}

// Run executes the supplied command using os/exec. Cancelling the context kills the whole process group.
func (runner *OSCommandRunner) Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	commandArguments := append([]string{}, command.Details.Arguments...)
	executable := exec.CommandContext(executionContext, string(command.Name), commandArguments...)
	if len(command.Details.WorkingDirectory) > 0 {
		executable.Dir = command.Details.WorkingDirectory
	}
	if len(command.Details.EnvironmentVariables) > 0 {
		mergedEnvironment := append([]string{}, os.Environ()...)
		for environmentKey, environmentValue := range command.Details.EnvironmentVariables {
			mergedEnvironment = append(mergedEnvironment, fmt.Sprintf(environmentAssignmentTemplateConstant, environmentKey, environmentAssignmentSeparatorConstant, environmentValue))
		}
		executable.Env = mergedEnvironment
	}
	configureProcessGroup(executable)
	executable.WaitDelay = processWaitDelayConstant

	var standardOutputBuffer bytes.Buffer
	var standardErrorBuffer bytes.Buffer
	standardOutputWriter := newCappedWriter(&standardOutputBuffer, command.Details.MaxOutputBytes)
	standardErrorWriter := newCappedWriter(&standardErrorBuffer, command.Details.MaxOutputBytes)
	executable.Stdout = standardOutputWriter
	executable.Stderr = standardErrorWriter

	if len(command.Details.StandardInput) > 0 {
		executable.Stdin = bytes.NewReader(command.Details.StandardInput)
	}

	runError := executable.Run()
	capturedResult := ExecutionResult{
		StandardOutput:   standardOutputBuffer.String(),
		StandardError:    standardErrorBuffer.String(),
		OutputCapReached: standardOutputWriter.capReached || standardErrorWriter.capReached,
	}
	if runError != nil {
		exitError := &exec.ExitError{}
		if errors.As(runError, &exitError) {
			capturedResult.ExitCode = exitError.ExitCode()
			return capturedResult, nil
		}
		if errors.Is(runError, exec.ErrWaitDelay) {
			return capturedResult, nil
		}
		return ExecutionResult{}, runError
	}

	return capturedResult, nil
}

// cappedWriter keeps at most limit bytes and silently discards the rest,
// reporting every write as fully consumed so the copying goroutine never stalls.
type cappedWriter struct {
	buffer     *bytes.Buffer
	limit      int
	capReached bool
}

func newCappedWriter(buffer *bytes.Buffer, limit int) *cappedWriter {
	return &cappedWriter{buffer: buffer, limit: limit}
}

func (writer *cappedWriter) Write(data []byte) (int, error) {
	if writer.limit <= 0 {
		return writer.buffer.Write(data)
	}
	remaining := writer.limit - writer.buffer.Len()
	if remaining <= 0 {
		if len(data) > 0 {
			writer.capReached = true
		}
		return len(data), nil
	}
	if len(data) > remaining {
		writer.buffer.Write(data[:remaining])
		writer.capReached = true
		return len(data), nil
	}
	return writer.buffer.Write(data)
}
