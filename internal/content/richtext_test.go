// ABOUTME: Tests for idea content helpers
// ABOUTME: Visible-text extraction and markdown rendering

package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVisibleText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text", "hello", "hello"},
		{"nested markup", "<p>Hello <em>there</em></p><ul><li>one</li></ul>", "Hello there one"},
		{"only whitespace", "<p>  </p><p>\n\t</p>", ""},
		{"line breaks only", "<p><br></p>", ""},
		{"script and style skipped", "<style>p{}</style><script>x()</script><p>ok</p>", "ok"},
		{"entities decoded", "<p>Q&amp;A</p>", "Q&A"},
		{"unclosed tags", "<p><b>bold", "bold"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := visibleText(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderMarkdown(t *testing.T) {
	out, err := renderMarkdown("## Shot list\n\n- intro\n- b-roll\n\n~~cut~~")
	require.NoError(t, err)
	assert.Contains(t, out, "<h2>Shot list</h2>")
	assert.Contains(t, out, "<li>intro</li>")
	assert.Contains(t, out, "<del>cut</del>")
}

func TestRenderMarkdown_DropsRawHTML(t *testing.T) {
	out, err := renderMarkdown("<script>alert(1)</script>\n\ntext")
	require.NoError(t, err)
	assert.NotContains(t, out, "<script>")
}

func TestNormalizeContent(t *testing.T) {
	html, err := normalizeContent("<p>keep</p>", "")
	require.NoError(t, err)
	assert.Equal(t, "<p>keep</p>", html)

	_, err = normalizeContent("   ", FormatMarkdown)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "content", vErr.Field)
}
