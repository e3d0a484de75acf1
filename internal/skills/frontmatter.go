package skills

import (
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	frontmatterOpeningConstant     = "---\n"
	frontmatterClosingConstant     = "\n---\n"
	frontmatterLinePatternConstant = `^([a-zA-Z0-9_-]+):\s*(.*)$`
)

var frontmatterLineExpression = regexp.MustCompile(frontmatterLinePatternConstant)

// ParseFrontmatter extracts the flat key/value block delimited by "---" lines at the
// start of content. Every non-blank line must be a "key: value" pair. A value written
// as one quoted YAML scalar is unquoted; every other value is kept verbatim. Later keys
// override earlier ones. The boolean is false when the block is missing or malformed.
func ParseFrontmatter(content string) (map[string]string, bool) {
	if !strings.HasPrefix(content, frontmatterOpeningConstant) {
		return nil, false
	}
	body := content[len(frontmatterOpeningConstant):]
	closingIndex := strings.Index(body, frontmatterClosingConstant)
	if closingIndex < 0 {
		return nil, false
	}

	frontmatter := map[string]string{}
	for _, rawLine := range strings.Split(body[:closingIndex], "\n") {
		line := strings.TrimSpace(rawLine)
		if len(line) == 0 {
			continue
		}
		match := frontmatterLineExpression.FindStringSubmatch(line)
		if match == nil {
			return nil, false
		}
		frontmatter[match[1]] = decodeScalar(strings.TrimSpace(match[2]))
	}
	return frontmatter, true
}

// decodeScalar unquotes a value written as a single quoted YAML scalar. Anything
// else, including plain scalars, comments, tags, anchors, and block indicators, is
// returned verbatim so the checks see exactly what was written.
func decodeScalar(rawValue string) string {
	if len(rawValue) < 2 {
		return rawValue
	}
	openingQuote := rawValue[0]
	if (openingQuote != '"' && openingQuote != '\'') || rawValue[len(rawValue)-1] != openingQuote {
		return rawValue
	}

	var document yaml.Node
	if decodeError := yaml.Unmarshal([]byte(rawValue), &document); decodeError != nil {
		return rawValue
	}
	if document.Kind != yaml.DocumentNode || len(document.Content) != 1 || hasComments(&document) {
		return rawValue
	}
	valueNode := document.Content[0]
	if valueNode.Kind != yaml.ScalarNode || valueNode.Style&(yaml.DoubleQuotedStyle|yaml.SingleQuotedStyle) == 0 {
		return rawValue
	}
	if len(valueNode.Anchor) > 0 || valueNode.Style&yaml.TaggedStyle != 0 || hasComments(valueNode) {
		return rawValue
	}
	return valueNode.Value
}

func hasComments(node *yaml.Node) bool {
	return len(node.HeadComment) > 0 || len(node.LineComment) > 0 || len(node.FootComment) > 0
}
