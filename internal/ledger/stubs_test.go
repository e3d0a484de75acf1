package ledger_test

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/temirov/repo-evidence/internal/execshell"
)

type scriptResponse struct {
	result execshell.ExecutionResult
	err    error
}

type recordingScriptExecutor struct {
	responses       map[string]scriptResponse
	defaultResponse scriptResponse
	scripts         []string
	details         []execshell.CommandDetails
}

func (executor *recordingScriptExecutor) ExecuteScript(_ context.Context, script string, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.scripts = append(executor.scripts, script)
	executor.details = append(executor.details, details)
	if response, exists := executor.responses[script]; exists {
		return response.result, response.err
	}
	return executor.defaultResponse.result, executor.defaultResponse.err
}

type fixedRootResolver struct {
	root          string
	err           error
	startingPaths []string
}

func (resolver *fixedRootResolver) ResolveRoot(_ context.Context, startingPath string) (string, error) {
	resolver.startingPaths = append(resolver.startingPaths, startingPath)
	if resolver.err != nil {
		return "", resolver.err
	}
	if len(resolver.root) > 0 {
		return resolver.root, nil
	}
	return filepath.Abs(startingPath)
}

type stubToolLocator struct {
	available map[string]bool
}

func (locator stubToolLocator) LookPath(executable string) (string, error) {
	if locator.available[executable] {
		return "/usr/bin/" + executable, nil
	}
	return "", errors.New("executable not found: " + executable)
}
