package ledger_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/repo-evidence/internal/execshell"
	"github.com/temirov/repo-evidence/internal/ledger"
	pathutils "github.com/temirov/repo-evidence/internal/utils/path"
)

const testRunIdentifierConstant = "7f4f2a86-3b8e-4d38-9a36-2f0e6f0f6b11"

func fixedClock() time.Time {
	return time.Date(2026, time.October, 16, 9, 15, 0, 0, time.FixedZone("CEST", 2*60*60))
}

func fixedRunIdentifier() string {
	return testRunIdentifierConstant
}

func defaultCollectionOptions(outputPath string) ledger.CollectionOptions {
	return ledger.CollectionOptions{
		OutputPath:          outputPath,
		Timeout:             30 * time.Second,
		SearchMaxMatches:    200,
		MaxLines:            200,
		ExcludedSearchGlobs: ledger.DefaultExcludedSearchGlobs(),
	}
}

func TestServiceCollectWritesRedactedReport(testInstance *testing.T) {
	root := testInstance.TempDir()
	outputPath := filepath.Join(testInstance.TempDir(), "reports", "ledger.md")
	scriptExecutor := &recordingScriptExecutor{
		responses: map[string]scriptResponse{
			"pwd":        {result: execshell.ExecutionResult{StandardOutput: root + "\n"}},
			"ls -lah":    {result: execshell.ExecutionResult{StandardOutput: "curl -H Bearer abc.def-123\n"}},
			"git status": {err: execshell.CommandTimeoutError{Timeout: 30 * time.Second}},
		},
	}
	observerCore, observedLogs := observer.New(zap.InfoLevel)

	service, creationError := ledger.NewService(ledger.ServiceDependencies{
		Logger:                 zap.New(observerCore),
		RootResolver:           &fixedRootResolver{root: root},
		ScriptExecutor:         scriptExecutor,
		ToolLocator:            stubToolLocator{available: map[string]bool{"rg": true}},
		Clock:                  fixedClock,
		RunIdentifierGenerator: fixedRunIdentifier,
	})
	require.NoError(testInstance, creationError)

	collectionResult, collectionError := service.Collect(context.Background(), defaultCollectionOptions(outputPath))
	require.NoError(testInstance, collectionError)

	require.Equal(testInstance, root, collectionResult.Root)
	require.Equal(testInstance, outputPath, collectionResult.OutputPath)
	require.Equal(testInstance, testRunIdentifierConstant, collectionResult.RunIdentifier)
	require.Equal(testInstance, "ripgrep", collectionResult.SearchStrategy)
	require.Len(testInstance, collectionResult.Results, 12)
	require.Equal(testInstance, scriptExecutor.scripts, commandsOf(collectionResult.Results))
	for _, commandDetails := range scriptExecutor.details {
		require.Equal(testInstance, root, commandDetails.WorkingDirectory)
		require.Equal(testInstance, 30*time.Second, commandDetails.Timeout)
	}

	content, readError := os.ReadFile(outputPath)
	require.NoError(testInstance, readError)
	document := string(content)
	require.True(testInstance, strings.HasPrefix(document, "# Evidence Ledger\n"))
	require.Contains(testInstance, document, "- generated_at: `2026-10-16T07:15:00Z`")
	require.Contains(testInstance, document, "- root: `"+root+"`")
	require.Contains(testInstance, document, "- run_id: `"+testRunIdentifierConstant+"`")
	require.Contains(testInstance, document, "Bearer [REDACTED]")
	require.NotContains(testInstance, document, "abc.def-123")
	require.Contains(testInstance, document, "### `git status`\n\n- cwd: `"+root+"`\n- exit: `124`\n\n**stderr**\n```text\nTimed out after 30s\n```")
	require.Contains(testInstance, document, "rg -n --max-count 200")

	require.Len(testInstance, observedLogs.FilterMessage("evidence ledger written").All(), 1)
}

func TestServiceCollectIncludesRuntimeCommands(testInstance *testing.T) {
	outputPath := filepath.Join(testInstance.TempDir(), "ledger.md")
	scriptExecutor := &recordingScriptExecutor{}
	service, creationError := ledger.NewService(ledger.ServiceDependencies{
		RootResolver:   &fixedRootResolver{root: testInstance.TempDir()},
		ScriptExecutor: scriptExecutor,
		ToolLocator:    stubToolLocator{},
	})
	require.NoError(testInstance, creationError)

	options := defaultCollectionOptions(outputPath)
	options.IncludeRuntime = true
	collectionResult, collectionError := service.Collect(context.Background(), options)

	require.NoError(testInstance, collectionError)
	require.Len(testInstance, collectionResult.Results, 17)
	require.Equal(testInstance, "grep", collectionResult.SearchStrategy)
	require.Contains(testInstance, scriptExecutor.scripts[16], "docker ps")
}

func TestServiceCollectUsesGitGrepInsideWorkTree(testInstance *testing.T) {
	root := testInstance.TempDir()
	require.NoError(testInstance, os.Mkdir(filepath.Join(root, ".git"), 0o755))
	service, creationError := ledger.NewService(ledger.ServiceDependencies{
		RootResolver:   &fixedRootResolver{root: root},
		ScriptExecutor: &recordingScriptExecutor{},
		ToolLocator:    stubToolLocator{available: map[string]bool{"git": true}},
	})
	require.NoError(testInstance, creationError)

	collectionResult, collectionError := service.Collect(context.Background(), defaultCollectionOptions(filepath.Join(testInstance.TempDir(), "ledger.md")))

	require.NoError(testInstance, collectionError)
	require.Equal(testInstance, "git-grep", collectionResult.SearchStrategy)
}

func TestServiceCollectExpandsHomeInOutputPath(testInstance *testing.T) {
	homeDirectory := testInstance.TempDir()
	service, creationError := ledger.NewService(ledger.ServiceDependencies{
		RootResolver:   &fixedRootResolver{root: testInstance.TempDir()},
		ScriptExecutor: &recordingScriptExecutor{},
		ToolLocator:    stubToolLocator{},
		HomeExpander: pathutils.NewHomeExpanderWithProvider(func() (string, error) {
			return homeDirectory, nil
		}),
	})
	require.NoError(testInstance, creationError)

	collectionResult, collectionError := service.Collect(context.Background(), defaultCollectionOptions("~/reports/ledger.md"))

	require.NoError(testInstance, collectionError)
	require.Equal(testInstance, filepath.Join(homeDirectory, "reports", "ledger.md"), collectionResult.OutputPath)
	require.FileExists(testInstance, collectionResult.OutputPath)
}

func TestServiceCollectPropagatesRootFailure(testInstance *testing.T) {
	scriptExecutor := &recordingScriptExecutor{}
	service, creationError := ledger.NewService(ledger.ServiceDependencies{
		RootResolver:   &fixedRootResolver{err: errors.New("getwd failed")},
		ScriptExecutor: scriptExecutor,
	})
	require.NoError(testInstance, creationError)

	_, collectionError := service.Collect(context.Background(), defaultCollectionOptions(filepath.Join(testInstance.TempDir(), "ledger.md")))

	require.ErrorContains(testInstance, collectionError, "getwd failed")
	require.Empty(testInstance, scriptExecutor.scripts)
}

func TestServiceCollectReportsWriteFailure(testInstance *testing.T) {
	blockingFile := filepath.Join(testInstance.TempDir(), "blocking")
	require.NoError(testInstance, os.WriteFile(blockingFile, []byte("x"), 0o644))
	service, creationError := ledger.NewService(ledger.ServiceDependencies{
		RootResolver:   &fixedRootResolver{root: testInstance.TempDir()},
		ScriptExecutor: &recordingScriptExecutor{},
		ToolLocator:    stubToolLocator{},
	})
	require.NoError(testInstance, creationError)

	_, collectionError := service.Collect(context.Background(), defaultCollectionOptions(filepath.Join(blockingFile, "ledger.md")))

	require.Error(testInstance, collectionError)
}

func TestNewServiceValidatesDependencies(testInstance *testing.T) {
	testCases := []struct {
		name          string
		dependencies  ledger.ServiceDependencies
		expectedError error
	}{
		{
			name:          "root_resolver_missing",
			dependencies:  ledger.ServiceDependencies{ScriptExecutor: &recordingScriptExecutor{}},
			expectedError: ledger.ErrRootResolverNotConfigured,
		},
		{
			name:          "script_executor_missing",
			dependencies:  ledger.ServiceDependencies{RootResolver: &fixedRootResolver{}},
			expectedError: ledger.ErrScriptExecutorNotConfigured,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			service, creationError := ledger.NewService(testCase.dependencies)
			require.ErrorIs(testInstance, creationError, testCase.expectedError)
			require.Nil(testInstance, service)
		})
	}
}

func commandsOf(results []ledger.CommandResult) []string {
	commands := make([]string, 0, len(results))
	for _, commandResult := range results {
		commands = append(commands, commandResult.Command)
	}
	return commands
}
