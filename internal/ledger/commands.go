package ledger

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	currentDirectoryConstant            = "."
	frontendDirectoryNameConstant       = "frontend"
	backendDirectoryNameConstant        = "backend"
	featureServiceDirectoryNameConstant = "feature-service"

	printWorkingDirectoryCommandConstant = "pwd"
	listDirectoryCommandConstant         = "ls -lah"
	gitStatusCommandConstant             = "git status"
	gitCurrentBranchCommandConstant      = "git rev-parse --abbrev-ref HEAD"
	gitLastCommitCommandConstant         = "git log -1 --oneline"

	entryPointDiscoveryCommandConstant = `find . -maxdepth 4 -type f \( -name "package.json" -o -name "go.mod" -o -name "*.csproj" -o -name "Program.cs" -o -name "main.go" \) ` +
		`-not -path "*/node_modules/*" -not -path "*/.git/*" -not -path "*/bin/*" -not -path "*/obj/*" -not -path "*/.next/*"`
	frontendConfigurationDiscoveryTemplateConstant = `find %s -maxdepth 6 -type f \( -name "next.config.*" -o -name "tailwind.config.*" -o -name "postcss.config.*" -o -name "globals.css" -o -path "*/app/layout.*" -o -path "*/app/page.*" \) ` +
		`-not -path "*/node_modules/*" -not -path "*/.git/*" -not -path "*/.next/*" || true`

	nextFrameworkSearchPatternConstant = `next\.config\.(js|mjs|ts)|next-env\.d\.ts|next/(navigation|link|image)`
	themeSearchPatternConstant         = `tailwind\.config\.(js|cjs|mjs|ts)|@tailwind|globals\.css|ThemeProvider|Providers|oklch\(|--(foreground|background|ring)|--color-`
	ginRouterSearchPatternConstant     = `github\.com/gin-gonic/gin|gin\.Default\(|gin\.New\(|router\.Group\(`
	aspNetSearchPatternConstant        = `MapControllers|AddControllers|WebApplication\.CreateBuilder|UseRouting`
	apiClientSearchPatternConstant     = `fetch\(|axios|ky\(|baseURL|API_URL|NEXT_PUBLIC|FEATURE`

	systemServicesCommandConstant        = `command -v systemctl >/dev/null && systemctl list-units --type=service | grep -iE 'nginx|backend|feature|api' || true`
	nginxJournalCommandConstant          = `command -v journalctl >/dev/null && journalctl -u nginx -n 100 --no-pager -o cat || true`
	backendJournalCommandConstant        = `command -v journalctl >/dev/null && journalctl -u backend -n 200 --no-pager -o cat || true`
	featureServiceJournalCommandConstant = `command -v journalctl >/dev/null && journalctl -u feature-service -n 200 --no-pager -o cat || true`
	containerListCommandConstant         = `command -v docker >/dev/null && docker ps --format "table {{.Names}}\t{{.Image}}\t{{.Status}}\t{{.Ports}}" || true`
)

// DirectoryChecker reports whether a path names an existing directory.
type DirectoryChecker func(path string) bool

// CommandListBuilder produces the ordered discovery command list for a root.
type CommandListBuilder struct {
	searchStrategy  SearchStrategy
	directoryExists DirectoryChecker
}

// NewCommandListBuilder constructs a builder that renders searches with searchStrategy.
func NewCommandListBuilder(searchStrategy SearchStrategy) *CommandListBuilder {
	return NewCommandListBuilderWithChecker(searchStrategy, directoryExists)
}

// NewCommandListBuilderWithChecker constructs a builder with a custom DirectoryChecker.
func NewCommandListBuilderWithChecker(searchStrategy SearchStrategy, directoryChecker DirectoryChecker) *CommandListBuilder {
	if directoryChecker == nil {
		directoryChecker = directoryExists
	}
	return &CommandListBuilder{searchStrategy: searchStrategy, directoryExists: directoryChecker}
}

// Build returns the commands to run from root. Layout-specific commands target the
// frontend, backend, and feature-service subdirectories when present and fall back to
// the root otherwise.
func (builder *CommandListBuilder) Build(root string, includeRuntime bool) []string {
	frontendDirectory := builder.layoutDirectory(root, frontendDirectoryNameConstant)
	backendDirectory := builder.layoutDirectory(root, backendDirectoryNameConstant)
	featureServiceDirectory := builder.layoutDirectory(root, featureServiceDirectoryNameConstant)

	commands := []string{
		printWorkingDirectoryCommandConstant,
		listDirectoryCommandConstant,
		gitStatusCommandConstant,
		gitCurrentBranchCommandConstant,
		gitLastCommitCommandConstant,
		entryPointDiscoveryCommandConstant,
		fmt.Sprintf(frontendConfigurationDiscoveryTemplateConstant, QuoteShellArgument(frontendDirectory)),
		builder.searchStrategy.BuildCommand(nextFrameworkSearchPatternConstant, frontendDirectory),
		builder.searchStrategy.BuildCommand(themeSearchPatternConstant, frontendDirectory),
		builder.searchStrategy.BuildCommand(ginRouterSearchPatternConstant, backendDirectory),
		builder.searchStrategy.BuildCommand(aspNetSearchPatternConstant, featureServiceDirectory),
		builder.searchStrategy.BuildCommand(apiClientSearchPatternConstant, frontendDirectory),
	}

	if includeRuntime {
		commands = append(commands,
			systemServicesCommandConstant,
			nginxJournalCommandConstant,
			backendJournalCommandConstant,
			featureServiceJournalCommandConstant,
			containerListCommandConstant,
		)
	}

	return commands
}

func (builder *CommandListBuilder) layoutDirectory(root string, directoryName string) string {
	if builder.directoryExists(filepath.Join(root, directoryName)) {
		return directoryName
	}
	return currentDirectoryConstant
}

func directoryExists(path string) bool {
	fileInfo, statError := os.Stat(path)
	return statError == nil && fileInfo.IsDir()
}
