package ledger

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/repo-evidence/internal/execshell"
	"github.com/temirov/repo-evidence/internal/gitrepo"
	"github.com/temirov/repo-evidence/internal/ui"
	"github.com/temirov/repo-evidence/internal/utils"
	"github.com/temirov/repo-evidence/internal/utils/flags"
)

const (
	commandUseConstant                    = "evidence-ledger"
	commandShortDescriptionConstant       = "Write a markdown evidence ledger of read-only discovery commands"
	commandLongDescriptionConstant        = "evidence-ledger runs a fixed list of read-only discovery commands from the repository root, redacts secrets from their output, and writes a markdown report. It prints the absolute report path."
	rootFlagNameConstant                  = "root"
	rootFlagUsageConstant                 = "Directory to start from; its git top-level is used when available"
	outputFlagNameConstant                = "out"
	outputFlagUsageConstant               = "Report path (default: evidence-ledger.md in the system temp directory)"
	runtimeFlagNameConstant               = "runtime"
	runtimeFlagUsageConstant              = "Also inspect systemd units, journals, and containers when the tools exist"
	timeoutFlagNameConstant               = "timeout-s"
	timeoutFlagUsageConstant              = "Per-command timeout in seconds; must be positive"
	searchMaxMatchesFlagNameConstant      = "rg-max-matches"
	searchMaxMatchesFlagUsageConstant     = "Maximum search matches per file; must be positive"
	maxLinesFlagNameConstant              = "max-lines"
	maxLinesFlagUsageConstant             = "Maximum lines shown per output stream"
	collectionErrorTemplateConstant       = "evidence ledger failed: %w"
	shellExecutorCreationTemplateConstant = "unable to construct shell executor: %w"
	reportPathOutputTemplateConstant      = "%s\n"
	nonPositiveFlagTemplateConstant       = "--%s must be positive, got %d"
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

type commandOptions struct {
	collection CollectionOptions
}

// CommandBuilder assembles the evidence-ledger Cobra command.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConfigurationProvider        func() CommandConfiguration
	HumanReadableLoggingProvider func() bool
	ScriptExecutor               ScriptExecutor
	RootResolver                 RootResolver
	ToolLocator                  ToolLocator
	Clock                        func() time.Time
	RunIdentifierGenerator       func() string
}

// Build constructs the evidence-ledger command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:           commandUseConstant,
		Short:         commandShortDescriptionConstant,
		Long:          commandLongDescriptionConstant,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE:          builder.run,
	}

	defaults := DefaultCommandConfiguration()
	command.Flags().String(rootFlagNameConstant, defaults.Root, rootFlagUsageConstant)
	command.Flags().String(outputFlagNameConstant, defaults.OutputPath, outputFlagUsageConstant)
	flags.AddToggleFlag(command.Flags(), nil, runtimeFlagNameConstant, defaults.IncludeRuntime, runtimeFlagUsageConstant)
	command.Flags().Int(timeoutFlagNameConstant, int(defaults.Timeout/time.Second), timeoutFlagUsageConstant)
	command.Flags().Int(searchMaxMatchesFlagNameConstant, defaults.SearchMaxMatches, searchMaxMatchesFlagUsageConstant)
	command.Flags().Int(maxLinesFlagNameConstant, defaults.MaxLines, maxLinesFlagUsageConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	options, optionsError := builder.parseOptions(command)
	if optionsError != nil {
		return optionsError
	}

	logger := builder.resolveLogger()

	scriptExecutor, executorError := builder.resolveScriptExecutor(logger)
	if executorError != nil {
		return executorError
	}

	service, serviceError := NewService(ServiceDependencies{
		Logger:                 logger,
		RootResolver:           builder.resolveRootResolver(scriptExecutor, logger),
		ScriptExecutor:         scriptExecutor,
		ToolLocator:            builder.ToolLocator,
		Clock:                  builder.Clock,
		RunIdentifierGenerator: builder.RunIdentifierGenerator,
	})
	if serviceError != nil {
		return serviceError
	}

	collectionResult, collectionError := service.Collect(command.Context(), options.collection)
	if collectionError != nil {
		return fmt.Errorf(collectionErrorTemplateConstant, collectionError)
	}

	outputWriter := utils.NewFlushingWriter(command.OutOrStdout())
	_, printError := fmt.Fprintf(outputWriter, reportPathOutputTemplateConstant, collectionResult.OutputPath)
	return printError
}

func (builder *CommandBuilder) parseOptions(command *cobra.Command) (commandOptions, error) {
	configuration := builder.resolveConfiguration()

	flagSet := command.Flags()
	if flagSet.Changed(rootFlagNameConstant) {
		rootValue, rootError := flagSet.GetString(rootFlagNameConstant)
		if rootError != nil {
			return commandOptions{}, rootError
		}
		configuration.Root = rootValue
	}
	if flagSet.Changed(outputFlagNameConstant) {
		outputValue, outputError := flagSet.GetString(outputFlagNameConstant)
		if outputError != nil {
			return commandOptions{}, outputError
		}
		configuration.OutputPath = outputValue
	}
	if flagSet.Changed(runtimeFlagNameConstant) {
		runtimeValue, runtimeError := flagSet.GetBool(runtimeFlagNameConstant)
		if runtimeError != nil {
			return commandOptions{}, runtimeError
		}
		configuration.IncludeRuntime = runtimeValue
	}
	if flagSet.Changed(timeoutFlagNameConstant) {
		timeoutSeconds, timeoutError := flagSet.GetInt(timeoutFlagNameConstant)
		if timeoutError != nil {
			return commandOptions{}, timeoutError
		}
		if timeoutSeconds <= 0 {
			return commandOptions{}, fmt.Errorf(nonPositiveFlagTemplateConstant, timeoutFlagNameConstant, timeoutSeconds)
		}
		configuration.Timeout = time.Duration(timeoutSeconds) * time.Second
	}
	if flagSet.Changed(searchMaxMatchesFlagNameConstant) {
		maxMatches, maxMatchesError := flagSet.GetInt(searchMaxMatchesFlagNameConstant)
		if maxMatchesError != nil {
			return commandOptions{}, maxMatchesError
		}
		if maxMatches <= 0 {
			return commandOptions{}, fmt.Errorf(nonPositiveFlagTemplateConstant, searchMaxMatchesFlagNameConstant, maxMatches)
		}
		configuration.SearchMaxMatches = maxMatches
	}
	if flagSet.Changed(maxLinesFlagNameConstant) {
		maxLines, maxLinesError := flagSet.GetInt(maxLinesFlagNameConstant)
		if maxLinesError != nil {
			return commandOptions{}, maxLinesError
		}
		configuration.MaxLines = maxLines
	}

	sanitized := configuration.Sanitize()
	return commandOptions{
		collection: CollectionOptions{
			StartingPath:        sanitized.Root,
			OutputPath:          sanitized.OutputPath,
			IncludeRuntime:      sanitized.IncludeRuntime,
			Timeout:             sanitized.Timeout,
			SearchMaxMatches:    sanitized.SearchMaxMatches,
			MaxLines:            sanitized.MaxLines,
			MaxOutputBytes:      sanitized.MaxOutputBytes,
			ExcludedSearchGlobs: sanitized.ExcludedSearchGlobs,
		},
	}, nil
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func (builder *CommandBuilder) resolveScriptExecutor(logger *zap.Logger) (ScriptExecutor, error) {
	if builder.ScriptExecutor != nil {
		return builder.ScriptExecutor, nil
	}

	var eventObserver execshell.CommandEventObserver
	if builder.HumanReadableLoggingProvider != nil && builder.HumanReadableLoggingProvider() {
		eventObserver = ui.NewConsoleCommandEventLogger(logger).WithMessageFilter(NewDefaultRedactor().Redact)
	}
	shellExecutor, creationError := execshell.NewShellExecutorWithObserver(logger, execshell.NewOSCommandRunner(), eventObserver)
	if creationError != nil {
		return nil, fmt.Errorf(shellExecutorCreationTemplateConstant, creationError)
	}
	return shellExecutor, nil
}

func (builder *CommandBuilder) resolveRootResolver(scriptExecutor ScriptExecutor, logger *zap.Logger) RootResolver {
	if builder.RootResolver != nil {
		return builder.RootResolver
	}
	gitExecutor, _ := scriptExecutor.(gitrepo.GitExecutor)
	return gitrepo.NewRootResolver(gitExecutor, logger)
}
