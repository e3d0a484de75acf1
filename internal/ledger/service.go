package ledger

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	pathutils "github.com/temirov/repo-evidence/internal/utils/path"
)

const (
	gitMetadataEntryNameConstant            = ".git"
	rootResolverMissingMessageConstant      = "evidence ledger requires a root resolver"
	rootResolutionErrorTemplateConstant     = "unable to resolve root: %w"
	outputPathResolutionTemplateConstant    = "unable to resolve output path %s: %w"
	commandExecutorCreationTemplateConstant = "unable to construct command executor: %w"
	collectionStartedMessageConstant        = "collecting evidence"
	collectionCompletedMessageConstant      = "evidence ledger written"
	commandRecordedMessageConstant          = "recorded command"
	logFieldRootNameConstant                = "root"
	logFieldOutputPathConstant              = "output"
	logFieldRunIdentifierConstant           = "run_id"
	logFieldSearchStrategyConstant          = "search_strategy"
	logFieldCommandCountConstant            = "commands"
	logFieldRecordedCommandConstant         = "command"
	logFieldRecordedExitCodeConstant        = "exit_code"
	logFieldIncludeRuntimeConstant          = "runtime"
)

// ErrRootResolverNotConfigured indicates that no root resolver was supplied.
var ErrRootResolverNotConfigured = errors.New(rootResolverMissingMessageConstant)

// RootResolver determines the effective working root for a starting path.
type RootResolver interface {
	ResolveRoot(executionContext context.Context, startingPath string) (string, error)
}

// ServiceDependencies describes collaborators for evidence collection.
type ServiceDependencies struct {
	Logger                 *zap.Logger
	RootResolver           RootResolver
	ScriptExecutor         ScriptExecutor
	ToolLocator            ToolLocator
	DirectoryChecker       DirectoryChecker
	Clock                  func() time.Time
	RunIdentifierGenerator func() string
	HomeExpander           *pathutils.HomeExpander
}

// CollectionOptions configure a single ledger run.
type CollectionOptions struct {
	StartingPath        string
	OutputPath          string
	IncludeRuntime      bool
	Timeout             time.Duration
	SearchMaxMatches    int
	MaxLines            int
	MaxOutputBytes      int
	ExcludedSearchGlobs []string
}

// CollectionResult summarizes a completed run.
type CollectionResult struct {
	Root           string
	OutputPath     string
	RunIdentifier  string
	SearchStrategy string
	Results        []CommandResult
}

// Service runs the evidence collection pipeline: resolve root, build the command
// list, execute each command in order, render, and write the report.
type Service struct {
	logger                 *zap.Logger
	rootResolver           RootResolver
	scriptExecutor         ScriptExecutor
	toolLocator            ToolLocator
	directoryChecker       DirectoryChecker
	clock                  func() time.Time
	runIdentifierGenerator func() string
	homeExpander           *pathutils.HomeExpander
}

// NewService validates dependencies and constructs a Service.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.RootResolver == nil {
		return nil, ErrRootResolverNotConfigured
	}
	if dependencies.ScriptExecutor == nil {
		return nil, ErrScriptExecutorNotConfigured
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	toolLocator := dependencies.ToolLocator
	if toolLocator == nil {
		toolLocator = ExecutableToolLocator{}
	}
	directoryChecker := dependencies.DirectoryChecker
	if directoryChecker == nil {
		directoryChecker = directoryExists
	}
	clock := dependencies.Clock
	if clock == nil {
		clock = time.Now
	}
	runIdentifierGenerator := dependencies.RunIdentifierGenerator
	if runIdentifierGenerator == nil {
		runIdentifierGenerator = uuid.NewString
	}
	homeExpander := dependencies.HomeExpander
	if homeExpander == nil {
		homeExpander = pathutils.NewHomeExpander()
	}

	return &Service{
		logger:                 logger,
		rootResolver:           dependencies.RootResolver,
		scriptExecutor:         dependencies.ScriptExecutor,
		toolLocator:            toolLocator,
		directoryChecker:       directoryChecker,
		clock:                  clock,
		runIdentifierGenerator: runIdentifierGenerator,
		homeExpander:           homeExpander,
	}, nil
}

// Collect runs every discovery command and writes the report. Individual command
// failures are recorded in the report; only root, path, or write failures are returned.
func (service *Service) Collect(executionContext context.Context, options CollectionOptions) (CollectionResult, error) {
	root, rootError := service.rootResolver.ResolveRoot(executionContext, options.StartingPath)
	if rootError != nil {
		return CollectionResult{}, fmt.Errorf(rootResolutionErrorTemplateConstant, rootError)
	}

	requestedOutputPath := options.OutputPath
	if len(requestedOutputPath) == 0 {
		requestedOutputPath = DefaultOutputPath()
	}
	outputPath, outputPathError := service.homeExpander.ExpandAbsolute(requestedOutputPath)
	if outputPathError != nil {
		return CollectionResult{}, fmt.Errorf(outputPathResolutionTemplateConstant, requestedOutputPath, outputPathError)
	}

	commandExecutor, executorError := NewCommandExecutor(service.scriptExecutor, NewDefaultRedactor(), options.Timeout, options.MaxOutputBytes)
	if executorError != nil {
		return CollectionResult{}, fmt.Errorf(commandExecutorCreationTemplateConstant, executorError)
	}

	startedAt := service.clock().UTC()
	runIdentifier := service.runIdentifierGenerator()
	searchStrategy := SelectSearchStrategy(
		service.toolLocator,
		SearchSettings{MaxMatches: options.SearchMaxMatches, ExcludedGlobs: options.ExcludedSearchGlobs},
		service.insideWorkTree(root),
	)
	commands := NewCommandListBuilderWithChecker(searchStrategy, service.directoryChecker).Build(root, options.IncludeRuntime)

	service.logger.Info(
		collectionStartedMessageConstant,
		zap.String(logFieldRootNameConstant, root),
		zap.String(logFieldRunIdentifierConstant, runIdentifier),
		zap.String(logFieldSearchStrategyConstant, searchStrategy.Name()),
		zap.Int(logFieldCommandCountConstant, len(commands)),
		zap.Bool(logFieldIncludeRuntimeConstant, options.IncludeRuntime),
	)

	commandResults := make([]CommandResult, 0, len(commands))
	for _, command := range commands {
		commandResult := commandExecutor.Execute(executionContext, command, root)
		service.logger.Debug(
			commandRecordedMessageConstant,
			zap.String(logFieldRecordedCommandConstant, command),
			zap.Int(logFieldRecordedExitCodeConstant, commandResult.ExitCode),
		)
		commandResults = append(commandResults, commandResult)
	}

	report := Report{
		GeneratedAt:   startedAt,
		Root:          root,
		RunIdentifier: runIdentifier,
		Results:       commandResults,
	}
	if writeError := WriteReport(outputPath, NewReportRenderer(options.MaxLines).Render(report)); writeError != nil {
		return CollectionResult{}, writeError
	}

	service.logger.Info(
		collectionCompletedMessageConstant,
		zap.String(logFieldOutputPathConstant, outputPath),
		zap.String(logFieldRunIdentifierConstant, runIdentifier),
	)

	return CollectionResult{
		Root:           root,
		OutputPath:     outputPath,
		RunIdentifier:  runIdentifier,
		SearchStrategy: searchStrategy.Name(),
		Results:        commandResults,
	}, nil
}

func (service *Service) insideWorkTree(root string) bool {
	_, statError := os.Stat(filepath.Join(root, gitMetadataEntryNameConstant))
	return statError == nil
}
