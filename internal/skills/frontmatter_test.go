package skills_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/repo-evidence/internal/skills"
)

func TestParseFrontmatter(testInstance *testing.T) {
	testCases := []struct {
		name                string
		content             string
		expectedFrontmatter map[string]string
		expectParsed        bool
	}{
		{
			name:                "plain_values",
			content:             "---\nname: my-skill\ndescription: does things\n---\n# Body\n",
			expectedFrontmatter: map[string]string{"name": "my-skill", "description": "does things"},
			expectParsed:        true,
		},
		{
			name:                "quoted_values_are_unquoted",
			content:             "---\nname: 'my-skill'\ndescription: \"Use: when needed\"\n---\n",
			expectedFrontmatter: map[string]string{"name": "my-skill", "description": "Use: when needed"},
			expectParsed:        true,
		},
		{
			name:                "non_scalar_values_are_kept_verbatim",
			content:             "---\nname: my-skill\ndescription: Use when: needed\ntags: [a, b]\n---\n",
			expectedFrontmatter: map[string]string{"name": "my-skill", "description": "Use when: needed", "tags": "[a, b]"},
			expectParsed:        true,
		},
		{
			name:                "null_marker_is_verbatim_and_empty_stays_empty",
			content:             "---\nname: ~\ndescription:\n---\n",
			expectedFrontmatter: map[string]string{"name": "~", "description": ""},
			expectParsed:        true,
		},
		{
			name:                "trailing_comments_are_kept",
			content:             "---\nname: my-skill #Bad_Name\ndescription: does things # <script>\n---\n",
			expectedFrontmatter: map[string]string{"name": "my-skill #Bad_Name", "description": "does things # <script>"},
			expectParsed:        true,
		},
		{
			name:                "tags_and_anchors_are_kept",
			content:             "---\nname: !!str my-skill\ndescription: &anchor \"does things\"\n---\n",
			expectedFrontmatter: map[string]string{"name": "!!str my-skill", "description": "&anchor \"does things\""},
			expectParsed:        true,
		},
		{
			name:                "block_indicators_are_kept",
			content:             "---\nname: |\ndescription: >\n---\n",
			expectedFrontmatter: map[string]string{"name": "|", "description": ">"},
			expectParsed:        true,
		},
		{
			name:                "hash_inside_quotes_is_content",
			content:             "---\nname: 'my-skill'\ndescription: \"uses # signs\"\n---\n",
			expectedFrontmatter: map[string]string{"name": "my-skill", "description": "uses # signs"},
			expectParsed:        true,
		},
		{
			name:                "blank_lines_and_indentation_are_ignored",
			content:             "---\n\n  name: my-skill  \n\ndescription: does things\n---\n",
			expectedFrontmatter: map[string]string{"name": "my-skill", "description": "does things"},
			expectParsed:        true,
		},
		{
			name:                "later_keys_override_earlier_ones",
			content:             "---\nname: first\nname: second\n---\n",
			expectedFrontmatter: map[string]string{"name": "second"},
			expectParsed:        true,
		},
		{
			name:    "missing_opening_delimiter",
			content: "name: my-skill\n---\n",
		},
		{
			name:    "missing_closing_delimiter",
			content: "---\nname: my-skill\n",
		},
		{
			name:    "closing_delimiter_must_follow_opening_line",
			content: "---\n---\n",
		},
		{
			name:    "line_without_key",
			content: "---\nname: my-skill\njust some text\n---\n",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			frontmatter, parsed := skills.ParseFrontmatter(testCase.content)

			require.Equal(testInstance, testCase.expectParsed, parsed)
			if testCase.expectParsed {
				require.Equal(testInstance, testCase.expectedFrontmatter, frontmatter)
			} else {
				require.Nil(testInstance, frontmatter)
			}
		})
	}
}
