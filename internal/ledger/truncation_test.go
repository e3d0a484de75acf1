package ledger_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/repo-evidence/internal/ledger"
)

func TestTruncateLines(testInstance *testing.T) {
	testCases := []struct {
		name              string
		input             string
		maxLines          int
		expectedOutput    string
		expectedTruncated bool
	}{
		{
			name:           "within_limit_keeps_trailing_newline",
			input:          "a\nb\n",
			maxLines:       2,
			expectedOutput: "a\nb\n",
		},
		{
			name:           "exactly_at_limit",
			input:          "a\nb",
			maxLines:       2,
			expectedOutput: "a\nb",
		},
		{
			name:              "over_limit",
			input:             "a\nb\nc\n",
			maxLines:          2,
			expectedOutput:    "a\nb\n" + ledger.TruncationMarker,
			expectedTruncated: true,
		},
		{
			name:              "carriage_return_line_feed",
			input:             "a\r\nb\r\nc",
			maxLines:          2,
			expectedOutput:    "a\nb\n" + ledger.TruncationMarker,
			expectedTruncated: true,
		},
		{
			name:              "bare_carriage_return",
			input:             "a\rb\rc",
			maxLines:          1,
			expectedOutput:    "a\n" + ledger.TruncationMarker,
			expectedTruncated: true,
		},
		{
			name:              "blank_lines_count",
			input:             "a\n\n\nb",
			maxLines:          3,
			expectedOutput:    "a\n\n\n" + ledger.TruncationMarker,
			expectedTruncated: true,
		},
		{
			name:              "zero_limit",
			input:             "a",
			maxLines:          0,
			expectedOutput:    "",
			expectedTruncated: true,
		},
		{
			name:              "negative_limit",
			input:             "",
			maxLines:          -1,
			expectedOutput:    "",
			expectedTruncated: true,
		},
		{
			name:           "empty_input",
			input:          "",
			maxLines:       5,
			expectedOutput: "",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			output, truncated := ledger.TruncateLines(testCase.input, testCase.maxLines)
			require.Equal(testInstance, testCase.expectedOutput, output)
			require.Equal(testInstance, testCase.expectedTruncated, truncated)
		})
	}
}

func TestTruncateLinesKeepsExactlyMaxLines(testInstance *testing.T) {
	for lineCount := 0; lineCount <= 12; lineCount++ {
		lines := make([]string, 0, lineCount)
		for lineIndex := 0; lineIndex < lineCount; lineIndex++ {
			lines = append(lines, fmt.Sprintf("line %d", lineIndex))
		}
		input := strings.Join(lines, "\n")

		for maxLines := 1; maxLines <= 8; maxLines++ {
			output, truncated := ledger.TruncateLines(input, maxLines)
			if lineCount <= maxLines {
				require.False(testInstance, truncated)
				require.Equal(testInstance, input, output)
				continue
			}
			require.True(testInstance, truncated)
			outputLines := strings.Split(output, "\n")
			require.Len(testInstance, outputLines, maxLines+1)
			require.Equal(testInstance, lines[:maxLines], outputLines[:maxLines])
			require.Equal(testInstance, ledger.TruncationMarker, outputLines[maxLines])
		}
	}
}
