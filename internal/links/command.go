package links

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/repo-evidence/internal/execshell"
	"github.com/temirov/repo-evidence/internal/gitrepo"
	"github.com/temirov/repo-evidence/internal/utils"
)

const (
	commandUseConstant                    = "docs-links"
	commandShortDescriptionConstant       = "Report broken relative links in markdown files"
	commandLongDescriptionConstant        = "docs-links scans markdown files under the repository root and lists relative links whose targets do not exist. It exits with status 1 when any link is broken."
	rootFlagNameConstant                  = "root"
	rootFlagUsageConstant                 = "Directory to scan; its git top-level is used when available"
	brokenLinksFoundMessageConstant       = "broken relative markdown links found"
	rootResolutionErrorTemplateConstant   = "unable to resolve root: %w"
	shellExecutorCreationTemplateConstant = "unable to construct shell executor: %w"
	linkCheckCompletedMessageConstant     = "link check completed"
	logFieldRootConstant                  = "root"
	logFieldBrokenLinkCountConstant       = "broken_links"
)

// ErrBrokenLinksFound is returned after the report when at least one link is broken.
var ErrBrokenLinksFound = errors.New(brokenLinksFoundMessageConstant)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// RootResolver determines the effective scan root for a starting path.
type RootResolver interface {
	ResolveRoot(executionContext context.Context, startingPath string) (string, error)
}

// CommandBuilder assembles the docs-links Cobra command.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider func() CommandConfiguration
	RootResolver          RootResolver
}

// Build constructs the docs-links command.
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

	command.Flags().String(rootFlagNameConstant, DefaultCommandConfiguration().Root, rootFlagUsageConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	configuration := builder.resolveConfiguration()
	if command.Flags().Changed(rootFlagNameConstant) {
		rootValue, rootFlagError := command.Flags().GetString(rootFlagNameConstant)
		if rootFlagError != nil {
			return rootFlagError
		}
		configuration.Root = rootValue
		configuration = configuration.Sanitize()
	}

	logger := builder.resolveLogger()
	rootResolver, resolverError := builder.resolveRootResolver(logger)
	if resolverError != nil {
		return resolverError
	}

	root, rootError := rootResolver.ResolveRoot(command.Context(), configuration.Root)
	if rootError != nil {
		return fmt.Errorf(rootResolutionErrorTemplateConstant, rootError)
	}

	brokenLinks, checkError := NewChecker(configuration.ExcludedDirectories).Check(root)
	if checkError != nil {
		return checkError
	}
	logger.Debug(
		linkCheckCompletedMessageConstant,
		zap.String(logFieldRootConstant, root),
		zap.Int(logFieldBrokenLinkCountConstant, len(brokenLinks)),
	)

	outputWriter := utils.NewFlushingWriter(command.OutOrStdout())
	if _, printError := fmt.Fprint(outputWriter, FormatReport(root, brokenLinks)); printError != nil {
		return printError
	}
	if len(brokenLinks) > 0 {
		return ErrBrokenLinksFound
	}
	return nil
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().Sanitize()
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

func (builder *CommandBuilder) resolveRootResolver(logger *zap.Logger) (RootResolver, error) {
	if builder.RootResolver != nil {
		return builder.RootResolver, nil
	}
	shellExecutor, creationError := execshell.NewShellExecutor(logger, execshell.NewOSCommandRunner())
	if creationError != nil {
		return nil, fmt.Errorf(shellExecutorCreationTemplateConstant, creationError)
	}
	return gitrepo.NewRootResolver(shellExecutor, logger), nil
}
