package links

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"syscall"
	"unicode/utf8"
)

const (
	markdownExtensionConstant         = ".md"
	inlineLinkPatternConstant         = `\[[^\]]*\]\(([^)]+)\)`
	externalSchemePatternConstant     = `^[a-z]+://`
	anchorPrefixConstant              = "#"
	querySeparatorConstant            = "?"
	rootRelativePrefixConstant        = "/"
	mailtoPrefixConstant              = "mailto:"
	telephonePrefixConstant           = "tel:"
	doubleQuoteConstant               = `"`
	singleQuoteConstant               = "'"
	currentDirectoryPrefixConstant    = "./"
	parentDirectoryConstant           = ".."
	walkErrorTemplateConstant         = "unable to scan %s for markdown files: %w"
	readDocumentErrorTemplateConstant = "unable to read %s: %w"
	checkTargetErrorTemplateConstant  = "unable to check %s: %w"
	noBrokenLinksMessageConstant      = "OK: no broken relative markdown links found."
	brokenLinksHeaderTemplateConstant = "Broken links: %d"
	brokenLinkLineTemplateConstant    = "- %s: (%s) -> %s [MISSING]"
)

var (
	inlineLinkPattern     = regexp.MustCompile(inlineLinkPatternConstant)
	externalSchemePattern = regexp.MustCompile(externalSchemePatternConstant)
)

// DefaultExcludedDirectories lists directory names never scanned for documents.
func DefaultExcludedDirectories() []string {
	return []string{".git", "node_modules", "bin", "obj", ".next"}
}

// BrokenLink describes a link whose target is missing.
type BrokenLink struct {
	// DocumentPath is the document containing the link, relative to the root.
	DocumentPath string
	// Target is the normalized link target as written.
	Target string
	// ResolvedPath is the absolute path the target resolved to.
	ResolvedPath string
}

// Checker scans markdown documents for broken relative links.
type Checker struct {
	excludedDirectories map[string]struct{}
}

// NewChecker constructs a Checker that skips directories with the given names.
func NewChecker(excludedDirectories []string) *Checker {
	excluded := make(map[string]struct{}, len(excludedDirectories))
	for _, directoryName := range excludedDirectories {
		excluded[directoryName] = struct{}{}
	}
	return &Checker{excludedDirectories: excluded}
}

// Check returns every broken link under root, ordered by document path and then by
// position within the document. Documents that are not valid UTF-8 are skipped.
func (checker *Checker) Check(root string) ([]BrokenLink, error) {
	documentPaths, discoveryError := checker.MarkdownDocuments(root)
	if discoveryError != nil {
		return nil, discoveryError
	}

	brokenLinks := []BrokenLink{}
	for _, documentPath := range documentPaths {
		content, readError := os.ReadFile(documentPath)
		if readError != nil {
			return nil, fmt.Errorf(readDocumentErrorTemplateConstant, documentPath, readError)
		}
		if !utf8.Valid(content) {
			continue
		}

		relativeDocumentPath, relativeError := filepath.Rel(root, documentPath)
		if relativeError != nil {
			relativeDocumentPath = documentPath
		}

		for _, rawTarget := range ExtractLinkTargets(string(content)) {
			target, checkable := NormalizeTarget(rawTarget)
			if !checkable {
				continue
			}
			resolvedPath := ResolveTarget(root, documentPath, target)
			exists, existenceError := pathExists(resolvedPath)
			if existenceError != nil {
				return nil, fmt.Errorf(checkTargetErrorTemplateConstant, resolvedPath, existenceError)
			}
			if exists {
				continue
			}
			brokenLinks = append(brokenLinks, BrokenLink{
				DocumentPath: relativeDocumentPath,
				Target:       target,
				ResolvedPath: resolvedPath,
			})
		}
	}

	return brokenLinks, nil
}

// MarkdownDocuments returns the sorted absolute paths of *.md files under root.
func (checker *Checker) MarkdownDocuments(root string) ([]string, error) {
	documentPaths := []string{}
	walkError := filepath.WalkDir(root, func(path string, entry fs.DirEntry, entryError error) error {
		if entryError != nil {
			return entryError
		}
		if entry.IsDir() {
			if _, excluded := checker.excludedDirectories[entry.Name()]; excluded && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(entry.Name()) == markdownExtensionConstant {
			documentPaths = append(documentPaths, path)
		}
		return nil
	})
	if walkError != nil {
		return nil, fmt.Errorf(walkErrorTemplateConstant, root, walkError)
	}
	sort.Strings(documentPaths)
	return documentPaths, nil
}

// ExtractLinkTargets returns the raw targets of inline links in document order.
func ExtractLinkTargets(content string) []string {
	matches := inlineLinkPattern.FindAllStringSubmatch(content, -1)
	targets := make([]string, 0, len(matches))
	for _, match := range matches {
		targets = append(targets, match[1])
	}
	return targets
}

// NormalizeTarget trims a raw target and removes its fragment and query. It reports
// false for targets that are not checked: empty targets, anchors, URLs with a scheme,
// and mailto or tel links.
func NormalizeTarget(rawTarget string) (string, bool) {
	target := strings.TrimSpace(rawTarget)
	target = strings.Trim(target, doubleQuoteConstant)
	target = strings.Trim(target, singleQuoteConstant)
	if len(target) == 0 || strings.HasPrefix(target, anchorPrefixConstant) {
		return "", false
	}
	if externalSchemePattern.MatchString(target) || strings.HasPrefix(target, mailtoPrefixConstant) || strings.HasPrefix(target, telephonePrefixConstant) {
		return "", false
	}

	target, _, _ = strings.Cut(target, anchorPrefixConstant)
	target, _, _ = strings.Cut(target, querySeparatorConstant)
	target = strings.TrimSpace(target)
	if len(target) == 0 {
		return "", false
	}
	return target, true
}

// ResolveTarget returns the absolute path a normalized target refers to.
func ResolveTarget(root string, documentPath string, target string) string {
	if strings.HasPrefix(target, rootRelativePrefixConstant) {
		return filepath.Clean(filepath.Join(root, strings.TrimLeft(target, rootRelativePrefixConstant)))
	}
	return filepath.Clean(filepath.Join(filepath.Dir(documentPath), target))
}

// FormatReport renders the checker verdict. Resolved paths inside root are shown
// relative to it with a "./" prefix.
func FormatReport(root string, brokenLinks []BrokenLink) string {
	if len(brokenLinks) == 0 {
		return noBrokenLinksMessageConstant + "\n"
	}

	var report strings.Builder
	report.WriteString(fmt.Sprintf(brokenLinksHeaderTemplateConstant, len(brokenLinks)))
	report.WriteString("\n")
	for _, brokenLink := range brokenLinks {
		report.WriteString(fmt.Sprintf(brokenLinkLineTemplateConstant, brokenLink.DocumentPath, brokenLink.Target, displayPath(root, brokenLink.ResolvedPath)))
		report.WriteString("\n")
	}
	return report.String()
}

func displayPath(root string, resolvedPath string) string {
	relativePath, relativeError := filepath.Rel(root, resolvedPath)
	if relativeError != nil || relativePath == parentDirectoryConstant || strings.HasPrefix(relativePath, parentDirectoryConstant+string(filepath.Separator)) {
		return resolvedPath
	}
	return currentDirectoryPrefixConstant + filepath.ToSlash(relativePath)
}

func pathExists(path string) (bool, error) {
	_, statError := os.Stat(path)
	if statError == nil {
		return true, nil
	}
	if errors.Is(statError, fs.ErrNotExist) || errors.Is(statError, syscall.ENOTDIR) {
		return false, nil
	}
	return false, statError
}
