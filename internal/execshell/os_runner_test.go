package execshell_test

import (
	"context"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/repo-evidence/internal/execshell"
)

func requireShell(testInstance *testing.T) {
	testInstance.Helper()
	if _, lookupError := exec.LookPath(string(execshell.CommandShell)); lookupError != nil {
		testInstance.Skip("bash is not available")
	}
}

func TestOSCommandRunnerCapturesStreamsAndExitCode(testInstance *testing.T) {
	requireShell(testInstance)

	workingDirectory := testInstance.TempDir()
	runner := execshell.NewOSCommandRunner()
	command := execshell.ShellCommand{
		Name: execshell.CommandShell,
		Details: execshell.CommandDetails{
			Arguments:        []string{"-c", "pwd; echo problem >&2; exit 3"},
			WorkingDirectory: workingDirectory,
		},
	}

	executionResult, runError := runner.Run(context.Background(), command)

	require.NoError(testInstance, runError)
	require.Equal(testInstance, 3, executionResult.ExitCode)
	require.Contains(testInstance, executionResult.StandardOutput, filepath.Base(workingDirectory))
	require.Equal(testInstance, "problem\n", executionResult.StandardError)
	require.False(testInstance, executionResult.OutputCapReached)
}

func TestOSCommandRunnerCapsCapturedOutput(testInstance *testing.T) {
	requireShell(testInstance)

	runner := execshell.NewOSCommandRunner()
	command := execshell.ShellCommand{
		Name: execshell.CommandShell,
		Details: execshell.CommandDetails{
			Arguments:      []string{"-c", "printf 'abcdefghij'"},
			MaxOutputBytes: 4,
		},
	}

	executionResult, runError := runner.Run(context.Background(), command)

	require.NoError(testInstance, runError)
	require.Equal(testInstance, "abcd", executionResult.StandardOutput)
	require.True(testInstance, executionResult.OutputCapReached)
}

func TestOSCommandRunnerReturnsErrorForMissingExecutable(testInstance *testing.T) {
	runner := execshell.NewOSCommandRunner()
	command := execshell.ShellCommand{Name: execshell.CommandName("repo-evidence-missing-binary")}

	_, runError := runner.Run(context.Background(), command)

	require.Error(testInstance, runError)
}

func TestShellExecutorTerminatesLongRunningScript(testInstance *testing.T) {
	requireShell(testInstance)

	shellExecutor, creationError := execshell.NewShellExecutor(zap.NewNop(), execshell.NewOSCommandRunner())
	require.NoError(testInstance, creationError)

	startTime := time.Now()
	_, executionError := shellExecutor.ExecuteScript(context.Background(), "sleep 30", execshell.CommandDetails{Timeout: 200 * time.Millisecond})

	require.IsType(testInstance, execshell.CommandTimeoutError{}, executionError)
	require.Less(testInstance, time.Since(startTime), 10*time.Second)
}
