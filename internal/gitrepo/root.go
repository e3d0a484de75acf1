package gitrepo

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/temirov/repo-evidence/internal/execshell"
)

const (
	gitRevParseSubcommandConstant          = "rev-parse"
	gitShowTopLevelFlagConstant            = "--show-toplevel"
	defaultStartingPathConstant            = "."
	rootQueryTimeoutConstant               = 10 * time.Second
	rootFallbackMessageConstant            = "git root unavailable, using starting path"
	rootResolvedMessageConstant            = "resolved repository root"
	logFieldStartingPathConstant           = "starting_path"
	logFieldRootConstant                   = "root"
	logFieldFallbackReasonConstant         = "reason"
	fallbackReasonEmptyQueryOutputConstant = "empty rev-parse output"
	fallbackReasonExecutorAbsentConstant   = "git executor not configured"
)

// GitExecutor runs git commands.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// RootResolver determines the effective working root for a starting path.
type RootResolver struct {
	executor GitExecutor
	logger   *zap.Logger
}

// NewRootResolver constructs a RootResolver. A nil executor always falls back to the starting path.
func NewRootResolver(executor GitExecutor, logger *zap.Logger) *RootResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RootResolver{executor: executor, logger: logger}
}

// ResolveRoot returns the Git top-level directory enclosing startingPath, or the
// absolute form of startingPath when no work tree can be found. Git failures are
// never reported as errors; only an unresolvable absolute path is.
func (resolver *RootResolver) ResolveRoot(executionContext context.Context, startingPath string) (string, error) {
	trimmedStartingPath := strings.TrimSpace(startingPath)
	if len(trimmedStartingPath) == 0 {
		trimmedStartingPath = defaultStartingPathConstant
	}

	absoluteStartingPath, absoluteError := filepath.Abs(trimmedStartingPath)
	if absoluteError != nil {
		return "", absoluteError
	}

	if resolver.executor == nil {
		resolver.logFallback(absoluteStartingPath, fallbackReasonExecutorAbsentConstant)
		return absoluteStartingPath, nil
	}

	executionResult, executionError := resolver.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitRevParseSubcommandConstant, gitShowTopLevelFlagConstant},
		WorkingDirectory: absoluteStartingPath,
		Timeout:          rootQueryTimeoutConstant,
	})
	if executionError != nil {
		resolver.logFallback(absoluteStartingPath, executionError.Error())
		return absoluteStartingPath, nil
	}

	topLevel := strings.TrimSpace(executionResult.StandardOutput)
	if len(topLevel) == 0 {
		resolver.logFallback(absoluteStartingPath, fallbackReasonEmptyQueryOutputConstant)
		return absoluteStartingPath, nil
	}

	resolvedRoot := filepath.Clean(topLevel)
	resolver.logger.Debug(rootResolvedMessageConstant, zap.String(logFieldStartingPathConstant, absoluteStartingPath), zap.String(logFieldRootConstant, resolvedRoot))
	return resolvedRoot, nil
}

func (resolver *RootResolver) logFallback(absoluteStartingPath string, reason string) {
	resolver.logger.Debug(
		rootFallbackMessageConstant,
		zap.String(logFieldStartingPathConstant, absoluteStartingPath),
		zap.String(logFieldFallbackReasonConstant, reason),
	)
}
