package ledger

import "strings"

const (
	lineFeedConstant               = "\n"
	carriageReturnConstant         = "\r"
	carriageReturnLineFeedConstant = "\r\n"
	// TruncationMarker is appended on its own line after the retained lines of truncated output.
	TruncationMarker = "…(truncated)…"
)

// TruncateLines keeps the first maxLines lines of text. Lines end at "\n", "\r\n", or "\r".
// Output that fits is returned unchanged; otherwise the retained lines are joined with "\n"
// and followed by TruncationMarker. A non-positive maxLines yields an empty, truncated result.
func TruncateLines(text string, maxLines int) (string, bool) {
	if maxLines <= 0 {
		return "", true
	}
	lines := splitLines(text)
	if len(lines) <= maxLines {
		return text, false
	}
	return strings.Join(lines[:maxLines], lineFeedConstant) + lineFeedConstant + TruncationMarker, true
}

// splitLines splits on universal line boundaries without producing a trailing empty element.
func splitLines(text string) []string {
	if len(text) == 0 {
		return nil
	}
	normalized := strings.ReplaceAll(text, carriageReturnLineFeedConstant, lineFeedConstant)
	normalized = strings.ReplaceAll(normalized, carriageReturnConstant, lineFeedConstant)
	normalized = strings.TrimSuffix(normalized, lineFeedConstant)
	return strings.Split(normalized, lineFeedConstant)
}
