package ledger

import (
	"fmt"
	"os/exec"
	"regexp"
	"strings"
)

const (
	ripgrepExecutableConstant               = "rg"
	gitExecutableConstant                   = "git"
	ripgrepStrategyNameConstant             = "ripgrep"
	gitGrepStrategyNameConstant             = "git-grep"
	recursiveGrepStrategyNameConstant       = "grep"
	ripgrepCommandTemplateConstant          = "rg -n%s%s %s %s || true"
	ripgrepMaxCountTemplateConstant         = " --max-count %d"
	recursiveGrepMaxCountTemplateConstant   = " -m %d"
	ripgrepExclusionTemplateConstant        = " --glob %s"
	ripgrepNegatedGlobTemplateConstant      = "!%s"
	gitGrepCommandTemplateConstant          = "git grep -n -E -- %s -- %s%s || true"
	gitGrepExclusionTemplateConstant        = " %s"
	gitGrepExcludedPathspecTemplateConstant = ":(exclude,glob)%s"
	gitGrepRecursivePrefixConstant          = "**/"
	recursiveGrepCommandTemplateConstant    = "grep -RInE%s%s -- %s %s || true"
	recursiveGrepExclusionTemplateConstant  = " --exclude=%s"
	shellSingleQuoteConstant                = "'"
	shellEscapedSingleQuoteConstant         = `'"'"'`
	shellEmptyArgumentConstant              = "''"
	shellSafeArgumentPatternConstant        = `^[A-Za-z0-9_@%+=:,./-]+$`
)

var shellSafeArgumentPattern = regexp.MustCompile(shellSafeArgumentPatternConstant)

// SearchStrategy renders a text-search command line for a pattern within a path.
// Rendered commands always exit successfully so that "no matches" is not reported as a failure.
type SearchStrategy interface {
	Name() string
	BuildCommand(pattern string, searchPath string) string
}

// ToolLocator reports whether an executable is available.
type ToolLocator interface {
	LookPath(executable string) (string, error)
}

// ExecutableToolLocator resolves executables through the PATH.
type ExecutableToolLocator struct{}

// LookPath delegates to exec.LookPath.
func (ExecutableToolLocator) LookPath(executable string) (string, error) {
	return exec.LookPath(executable)
}

// SearchSettings configure every SearchStrategy.
type SearchSettings struct {
	// MaxMatches caps matches per file where the tool supports it.
	MaxMatches int
	// ExcludedGlobs name sensitive files that must never be searched, in ripgrep glob syntax.
	ExcludedGlobs []string
}

// SelectSearchStrategy picks ripgrep when available, then git grep inside a work tree, then grep.
// The choice is made once per run.
func SelectSearchStrategy(locator ToolLocator, settings SearchSettings, insideWorkTree bool) SearchStrategy {
	if locator == nil {
		locator = ExecutableToolLocator{}
	}
	if _, lookupError := locator.LookPath(ripgrepExecutableConstant); lookupError == nil {
		return NewRipgrepStrategy(settings)
	}
	if insideWorkTree {
		if _, lookupError := locator.LookPath(gitExecutableConstant); lookupError == nil {
			return NewGitGrepStrategy(settings)
		}
	}
	return NewRecursiveGrepStrategy(settings)
}

// RipgrepStrategy searches with rg.
type RipgrepStrategy struct {
	settings SearchSettings
}

// NewRipgrepStrategy constructs a RipgrepStrategy.
func NewRipgrepStrategy(settings SearchSettings) RipgrepStrategy {
	return RipgrepStrategy{settings: settings}
}

// Name identifies the strategy.
func (RipgrepStrategy) Name() string {
	return ripgrepStrategyNameConstant
}

// BuildCommand renders an rg invocation.
func (strategy RipgrepStrategy) BuildCommand(pattern string, searchPath string) string {
	var exclusions strings.Builder
	for _, excludedGlob := range strategy.settings.ExcludedGlobs {
		negatedGlob := fmt.Sprintf(ripgrepNegatedGlobTemplateConstant, excludedGlob)
		exclusions.WriteString(fmt.Sprintf(ripgrepExclusionTemplateConstant, QuoteShellArgument(negatedGlob)))
	}
	return fmt.Sprintf(ripgrepCommandTemplateConstant, maxCountFragment(ripgrepMaxCountTemplateConstant, strategy.settings.MaxMatches), exclusions.String(), QuoteShellArgument(pattern), QuoteShellArgument(searchPath))
}

// GitGrepStrategy searches tracked files with git grep.
type GitGrepStrategy struct {
	settings SearchSettings
}

// NewGitGrepStrategy constructs a GitGrepStrategy.
func NewGitGrepStrategy(settings SearchSettings) GitGrepStrategy {
	return GitGrepStrategy{settings: settings}
}

// Name identifies the strategy.
func (GitGrepStrategy) Name() string {
	return gitGrepStrategyNameConstant
}

// BuildCommand renders a git grep invocation with exclusion pathspecs.
func (strategy GitGrepStrategy) BuildCommand(pattern string, searchPath string) string {
	var exclusions strings.Builder
	for _, excludedGlob := range strategy.settings.ExcludedGlobs {
		pathspecGlob := excludedGlob
		if !strings.HasPrefix(pathspecGlob, gitGrepRecursivePrefixConstant) {
			pathspecGlob = gitGrepRecursivePrefixConstant + pathspecGlob
		}
		excludedPathspec := fmt.Sprintf(gitGrepExcludedPathspecTemplateConstant, pathspecGlob)
		exclusions.WriteString(fmt.Sprintf(gitGrepExclusionTemplateConstant, QuoteShellArgument(excludedPathspec)))
	}
	return fmt.Sprintf(gitGrepCommandTemplateConstant, QuoteShellArgument(pattern), QuoteShellArgument(searchPath), exclusions.String())
}

// RecursiveGrepStrategy searches with grep -R.
type RecursiveGrepStrategy struct {
	settings SearchSettings
}

// NewRecursiveGrepStrategy constructs a RecursiveGrepStrategy.
func NewRecursiveGrepStrategy(settings SearchSettings) RecursiveGrepStrategy {
	return RecursiveGrepStrategy{settings: settings}
}

// Name identifies the strategy.
func (RecursiveGrepStrategy) Name() string {
	return recursiveGrepStrategyNameConstant
}

// BuildCommand renders a grep invocation. Exclusions match base names, so recursive prefixes are dropped.
func (strategy RecursiveGrepStrategy) BuildCommand(pattern string, searchPath string) string {
	var exclusions strings.Builder
	for _, excludedGlob := range strategy.settings.ExcludedGlobs {
		baseNameGlob := strings.TrimPrefix(excludedGlob, gitGrepRecursivePrefixConstant)
		exclusions.WriteString(fmt.Sprintf(recursiveGrepExclusionTemplateConstant, QuoteShellArgument(baseNameGlob)))
	}
	return fmt.Sprintf(recursiveGrepCommandTemplateConstant, maxCountFragment(recursiveGrepMaxCountTemplateConstant, strategy.settings.MaxMatches), exclusions.String(), QuoteShellArgument(pattern), QuoteShellArgument(searchPath))
}

func maxCountFragment(template string, maxMatches int) string {
	if maxMatches <= 0 {
		return ""
	}
	return fmt.Sprintf(template, maxMatches)
}

// QuoteShellArgument returns value quoted for a POSIX shell. Values made only of
// safe characters are returned unchanged.
func QuoteShellArgument(value string) string {
	if len(value) == 0 {
		return shellEmptyArgumentConstant
	}
	if shellSafeArgumentPattern.MatchString(value) {
		return value
	}
	return shellSingleQuoteConstant + strings.ReplaceAll(value, shellSingleQuoteConstant, shellEscapedSingleQuoteConstant) + shellSingleQuoteConstant
}
