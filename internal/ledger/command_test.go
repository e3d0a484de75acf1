package ledger_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/temirov/repo-evidence/internal/ledger"
)

func TestCommandBuilderRunsCollection(testInstance *testing.T) {
	testCases := []struct {
		name                 string
		configuration        ledger.CommandConfiguration
		arguments            []string
		expectedCommandCount int
		expectedTimeout      time.Duration
		expectedStartingPath string
	}{
		{
			name:                 "defaults",
			configuration:        ledger.DefaultCommandConfiguration(),
			expectedCommandCount: 12,
			expectedTimeout:      30 * time.Second,
			expectedStartingPath: "",
		},
		{
			name:                 "flags_override_configuration",
			configuration:        ledger.CommandConfiguration{Root: "/configured", IncludeRuntime: true, Timeout: time.Minute},
			arguments:            []string{"--root", "/flagged", "--runtime=false", "--timeout-s", "5", "--max-lines", "1"},
			expectedCommandCount: 12,
			expectedTimeout:      5 * time.Second,
			expectedStartingPath: "/flagged",
		},
		{
			name:                 "configuration_enables_runtime",
			configuration:        ledger.CommandConfiguration{Root: "/configured", IncludeRuntime: true, Timeout: 2 * time.Second},
			expectedCommandCount: 17,
			expectedTimeout:      2 * time.Second,
			expectedStartingPath: "/configured",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			outputPath := filepath.Join(testInstance.TempDir(), "ledger.md")
			scriptExecutor := &recordingScriptExecutor{}
			rootResolver := &fixedRootResolver{root: testInstance.TempDir()}
			configuration := testCase.configuration

			builder := ledger.CommandBuilder{
				ConfigurationProvider:  func() ledger.CommandConfiguration { return configuration },
				ScriptExecutor:         scriptExecutor,
				RootResolver:           rootResolver,
				ToolLocator:            stubToolLocator{},
				RunIdentifierGenerator: fixedRunIdentifier,
			}
			command, buildError := builder.Build()
			require.NoError(testInstance, buildError)

			outputBuffer := &bytes.Buffer{}
			command.SetOut(outputBuffer)
			command.SetErr(&bytes.Buffer{})
			command.SetContext(context.Background())
			command.SetArgs(append(testCase.arguments, "--out", outputPath))

			require.NoError(testInstance, command.Execute())
			require.Equal(testInstance, outputPath+"\n", outputBuffer.String())
			require.FileExists(testInstance, outputPath)
			require.Len(testInstance, scriptExecutor.scripts, testCase.expectedCommandCount)
			require.Equal(testInstance, testCase.expectedTimeout, scriptExecutor.details[0].Timeout)
			require.Equal(testInstance, []string{testCase.expectedStartingPath}, rootResolver.startingPaths)
		})
	}
}

func TestCommandBuilderRejectsPositionalArguments(testInstance *testing.T) {
	builder := ledger.CommandBuilder{ScriptExecutor: &recordingScriptExecutor{}, RootResolver: &fixedRootResolver{}}
	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	command.SetOut(&bytes.Buffer{})
	command.SetErr(&bytes.Buffer{})
	command.SetArgs([]string{"unexpected"})

	require.Error(testInstance, command.Execute())
}

func TestCommandBuilderRejectsNonPositiveLimits(testInstance *testing.T) {
	testCases := []struct {
		name          string
		arguments     []string
		expectedError string
	}{
		{name: "zero_timeout", arguments: []string{"--timeout-s", "0"}, expectedError: "--timeout-s must be positive, got 0"},
		{name: "negative_max_matches", arguments: []string{"--rg-max-matches=-3"}, expectedError: "--rg-max-matches must be positive, got -3"},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			scriptExecutor := &recordingScriptExecutor{}
			builder := ledger.CommandBuilder{ScriptExecutor: scriptExecutor, RootResolver: &fixedRootResolver{}, ToolLocator: stubToolLocator{}}
			command, buildError := builder.Build()
			require.NoError(testInstance, buildError)

			command.SetOut(&bytes.Buffer{})
			command.SetErr(&bytes.Buffer{})
			command.SetContext(context.Background())
			command.SetArgs(append(testCase.arguments, "--out", filepath.Join(testInstance.TempDir(), "ledger.md")))

			require.ErrorContains(testInstance, command.Execute(), testCase.expectedError)
			require.Empty(testInstance, scriptExecutor.scripts)
		})
	}
}
