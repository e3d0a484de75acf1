package skills

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/repo-evidence/internal/utils"
)

const (
	commandUseConstant                 = "skill-validate [skill_dir]"
	commandShortDescriptionConstant    = "Validate a skill directory's SKILL.md frontmatter"
	commandLongDescriptionConstant     = "skill-validate checks that SKILL.md in the given directory (default: current directory) declares exactly a hyphen-case name and a description without angle brackets. It prints OK or ERROR with the first problem found and exits with status 1 on failure."
	defaultSkillDirectoryConstant      = "."
	validationSucceededMessageConstant = "OK: skill looks valid."
	validationFailedTemplateConstant   = "ERROR: %s\n"
	skillValidatedMessageConstant      = "skill validated"
	logFieldSkillDirectoryConstant     = "skill_directory"
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the skill-validate Cobra command.
type CommandBuilder struct {
	LoggerProvider LoggerProvider
}

// Build constructs the skill-validate command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:           commandUseConstant,
		Short:         commandShortDescriptionConstant,
		Long:          commandLongDescriptionConstant,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.MaximumNArgs(1),
		RunE:          builder.run,
	}

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	skillDirectory := defaultSkillDirectoryConstant
	if len(arguments) > 0 {
		skillDirectory = arguments[0]
	}

	outputWriter := utils.NewFlushingWriter(command.OutOrStdout())
	validationError := ValidateDirectory(skillDirectory)
	var manifestProblem ValidationError
	if errors.As(validationError, &manifestProblem) {
		if _, printError := fmt.Fprintf(outputWriter, validationFailedTemplateConstant, manifestProblem.Reason); printError != nil {
			return printError
		}
		return validationError
	}
	if validationError != nil {
		return validationError
	}
	builder.resolveLogger().Debug(skillValidatedMessageConstant, zap.String(logFieldSkillDirectoryConstant, skillDirectory))

	_, printError := fmt.Fprintln(outputWriter, validationSucceededMessageConstant)
	return printError
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
