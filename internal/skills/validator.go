package skills

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

const (
	// ManifestFileName is the skill manifest inside a skill directory.
	ManifestFileName = "SKILL.md"
	// MaximumNameLength bounds the skill name in characters.
	MaximumNameLength = 64
	// MaximumDescriptionLength bounds the skill description in characters.
	MaximumDescriptionLength = 1024

	nameKeyConstant                         = "name"
	descriptionKeyConstant                  = "description"
	hyphenCasePatternConstant               = `^[a-z0-9-]+$`
	hyphenConstant                          = "-"
	doubleHyphenConstant                    = "--"
	keySeparatorConstant                    = ", "
	manifestMissingMessageConstant          = "SKILL.md not found"
	invalidFrontmatterMessageConstant       = "invalid frontmatter (expected --- ... ---)"
	unexpectedKeysTemplateConstant          = "unexpected frontmatter keys: %s"
	missingRequiredKeysMessageConstant      = "frontmatter must include name and description"
	missingNameMessageConstant              = "Missing name"
	nameTooLongTemplateConstant             = "Name too long (%d > %d)"
	nameNotHyphenCaseMessageConstant        = "Name must be hyphen-case (lowercase letters, digits, hyphens)"
	nameHyphenPlacementMessageConstant      = "Name cannot start/end with '-' or contain '--'"
	missingDescriptionMessageConstant       = "Missing description"
	descriptionTooLongTemplateConstant      = "Description too long (%d > %d)"
	descriptionAngleBracketsMessageConstant = "Description cannot contain angle brackets (< or >)"
	angleBracketCharactersConstant          = "<>"
	readManifestErrorTemplateConstant       = "unable to read %s: %w"
)

var hyphenCaseExpression = regexp.MustCompile(hyphenCasePatternConstant)

// ValidationError reports the first problem found in a skill manifest.
type ValidationError struct {
	Reason string
}

func (validationError ValidationError) Error() string {
	return validationError.Reason
}

// ValidateDirectory checks the manifest in skillDirectory. Manifest problems are
// returned as ValidationError; I/O failures are returned wrapped.
func ValidateDirectory(skillDirectory string) error {
	manifestPath := filepath.Join(skillDirectory, ManifestFileName)
	content, readError := os.ReadFile(manifestPath)
	if readError != nil {
		if errors.Is(readError, fs.ErrNotExist) {
			return ValidationError{Reason: manifestMissingMessageConstant}
		}
		return fmt.Errorf(readManifestErrorTemplateConstant, manifestPath, readError)
	}
	return ValidateManifest(string(content))
}

// ValidateManifest checks manifest content and returns the first ValidationError found.
func ValidateManifest(content string) error {
	frontmatter, parsed := ParseFrontmatter(content)
	if !parsed {
		return ValidationError{Reason: invalidFrontmatterMessageConstant}
	}
	return ValidateFrontmatter(frontmatter)
}

// ValidateFrontmatter checks the allowed and required keys and then the values.
func ValidateFrontmatter(frontmatter map[string]string) error {
	unexpectedKeys := []string{}
	for key := range frontmatter {
		if key != nameKeyConstant && key != descriptionKeyConstant {
			unexpectedKeys = append(unexpectedKeys, key)
		}
	}
	if len(unexpectedKeys) > 0 {
		sort.Strings(unexpectedKeys)
		return ValidationError{Reason: fmt.Sprintf(unexpectedKeysTemplateConstant, strings.Join(unexpectedKeys, keySeparatorConstant))}
	}

	name, hasName := frontmatter[nameKeyConstant]
	description, hasDescription := frontmatter[descriptionKeyConstant]
	if !hasName || !hasDescription {
		return ValidationError{Reason: missingRequiredKeysMessageConstant}
	}

	if nameError := ValidateName(name); nameError != nil {
		return nameError
	}
	return ValidateDescription(description)
}

// ValidateName checks that name is non-empty, short, and hyphen-case.
func ValidateName(name string) error {
	trimmedName := strings.TrimSpace(name)
	nameLength := utf8.RuneCountInString(trimmedName)
	switch {
	case nameLength == 0:
		return ValidationError{Reason: missingNameMessageConstant}
	case nameLength > MaximumNameLength:
		return ValidationError{Reason: fmt.Sprintf(nameTooLongTemplateConstant, nameLength, MaximumNameLength)}
	case !hyphenCaseExpression.MatchString(trimmedName):
		return ValidationError{Reason: nameNotHyphenCaseMessageConstant}
	case strings.HasPrefix(trimmedName, hyphenConstant) || strings.HasSuffix(trimmedName, hyphenConstant) || strings.Contains(trimmedName, doubleHyphenConstant):
		return ValidationError{Reason: nameHyphenPlacementMessageConstant}
	}
	return nil
}

// ValidateDescription checks that description is non-empty, bounded, and free of angle brackets.
func ValidateDescription(description string) error {
	trimmedDescription := strings.TrimSpace(description)
	descriptionLength := utf8.RuneCountInString(trimmedDescription)
	switch {
	case descriptionLength == 0:
		return ValidationError{Reason: missingDescriptionMessageConstant}
	case descriptionLength > MaximumDescriptionLength:
		return ValidationError{Reason: fmt.Sprintf(descriptionTooLongTemplateConstant, descriptionLength, MaximumDescriptionLength)}
	case strings.ContainsAny(trimmedDescription, angleBracketCharactersConstant):
		return ValidationError{Reason: descriptionAngleBracketsMessageConstant}
	}
	return nil
}
