package ledger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"
)

const (
	reportTitleConstant                     = "# Evidence Ledger"
	reportGeneratedAtTemplateConstant       = "- generated_at: %s"
	reportRootTemplateConstant              = "- root: %s"
	reportRunIdentifierTemplateConstant     = "- run_id: %s"
	reportDisclaimerConstant                = "This report is auto-generated. Outputs are redacted and may be truncated."
	commandHeadingTemplateConstant          = "### %s"
	commandWorkingDirectoryTemplateConstant = "- cwd: %s"
	commandExitCodeTemplateConstant         = "- exit: %s"
	standardOutputLabelConstant             = "**stdout**"
	standardErrorLabelConstant              = "**stderr**"
	textFenceLanguageConstant               = "text"
	truncationNoteConstant                  = "> Note: output truncated for readability."
	backtickConstant                        = "`"
	minimumFenceLengthConstant              = 3
	reportDirectoryPermissionsConstant      = 0o755
	reportFilePermissionsConstant           = 0o644
	createReportDirectoryTemplateConstant   = "unable to create report directory %s: %w"
	writeReportTemplateConstant             = "unable to write report %s: %w"
)

// Report is the complete evidence ledger.
type Report struct {
	GeneratedAt   time.Time
	Root          string
	RunIdentifier string
	Results       []CommandResult
}

// ReportRenderer formats a Report as markdown, truncating each stream to maxLines.
type ReportRenderer struct {
	maxLines int
}

// NewReportRenderer constructs a ReportRenderer.
func NewReportRenderer(maxLines int) ReportRenderer {
	return ReportRenderer{maxLines: maxLines}
}

// Render returns the markdown document. Blocks appear in result order.
func (renderer ReportRenderer) Render(report Report) string {
	documentParts := []string{
		reportTitleConstant,
		"",
		fmt.Sprintf(reportGeneratedAtTemplateConstant, inlineCode(report.GeneratedAt.UTC().Format(time.RFC3339))),
		fmt.Sprintf(reportRootTemplateConstant, inlineCode(report.Root)),
	}
	if len(report.RunIdentifier) > 0 {
		documentParts = append(documentParts, fmt.Sprintf(reportRunIdentifierTemplateConstant, inlineCode(report.RunIdentifier)))
	}
	documentParts = append(documentParts, "", reportDisclaimerConstant, "")

	for _, commandResult := range report.Results {
		documentParts = append(documentParts, renderer.RenderCommandBlock(commandResult))
	}

	return strings.Join(documentParts, "\n")
}

// RenderCommandBlock formats one result. Blank streams are omitted.
func (renderer ReportRenderer) RenderCommandBlock(commandResult CommandResult) string {
	standardOutput, standardOutputTruncated := TruncateLines(commandResult.StandardOutput, renderer.maxLines)
	standardError, standardErrorTruncated := TruncateLines(commandResult.StandardError, renderer.maxLines)

	blockParts := []string{
		fmt.Sprintf(commandHeadingTemplateConstant, inlineCode(commandResult.Command)),
		"",
		fmt.Sprintf(commandWorkingDirectoryTemplateConstant, inlineCode(commandResult.WorkingDirectory)),
		fmt.Sprintf(commandExitCodeTemplateConstant, inlineCode(fmt.Sprint(commandResult.ExitCode))),
		"",
	}
	blockParts = appendStreamSection(blockParts, standardOutputLabelConstant, standardOutput)
	blockParts = appendStreamSection(blockParts, standardErrorLabelConstant, standardError)
	if standardOutputTruncated || standardErrorTruncated || commandResult.CaptureLimited {
		blockParts = append(blockParts, truncationNoteConstant, "")
	}

	return strings.Join(blockParts, "\n")
}

// WriteReport writes content to outputPath, creating parent directories.
func WriteReport(outputPath string, content string) error {
	parentDirectory := filepath.Dir(outputPath)
	if mkdirError := os.MkdirAll(parentDirectory, reportDirectoryPermissionsConstant); mkdirError != nil {
		return fmt.Errorf(createReportDirectoryTemplateConstant, parentDirectory, mkdirError)
	}
	if writeError := os.WriteFile(outputPath, []byte(content), reportFilePermissionsConstant); writeError != nil {
		return fmt.Errorf(writeReportTemplateConstant, outputPath, writeError)
	}
	return nil
}

func appendStreamSection(blockParts []string, label string, content string) []string {
	if len(strings.TrimSpace(content)) == 0 {
		return blockParts
	}
	trimmedContent := strings.TrimRightFunc(content, unicode.IsSpace)
	fence := strings.Repeat(backtickConstant, max(minimumFenceLengthConstant, longestBacktickRun(trimmedContent)+1))
	return append(blockParts, label, fence+textFenceLanguageConstant, trimmedContent, fence, "")
}

// inlineCode wraps value in a code span long enough to contain any backticks it holds.
func inlineCode(value string) string {
	longestRun := longestBacktickRun(value)
	if longestRun == 0 {
		return backtickConstant + value + backtickConstant
	}
	delimiter := strings.Repeat(backtickConstant, longestRun+1)
	return delimiter + " " + value + " " + delimiter
}

func longestBacktickRun(value string) int {
	longestRun := 0
	currentRun := 0
	for _, character := range value {
		if character == '`' {
			currentRun++
			longestRun = max(longestRun, currentRun)
			continue
		}
		currentRun = 0
	}
	return longestRun
}
