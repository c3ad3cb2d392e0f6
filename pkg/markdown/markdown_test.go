package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_Sanitizes(t *testing.T) {
	out, err := Render("# Forbidden City\n\n<script>alert(1)</script>\n\n| a | b |\n|---|---|\n| 1 | 2 |")
	require.NoError(t, err)
	assert.Contains(t, out, "<h1")
	assert.Contains(t, out, "<table>")
	assert.NotContains(t, out, "<script>")
}

func TestRender_Linkify(t *testing.T) {
	out, err := Render("see https://example.org/hall")
	require.NoError(t, err)
	assert.Contains(t, out, `href="https://example.org/hall"`)
}

func TestURLRewriter(t *testing.T) {
	r := NewURLRewriter("https://heritage.example.com/", []string{"http://old.example.com/"})

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"relative", "![gate](/media/gate.jpg)", "![gate](https://heritage.example.com/media/gate.jpg)"},
		{"old domain", "![](http://old.example.com/media/a.png \"t\")", "![](https://heritage.example.com/media/a.png \"t\")"},
		{"bracketed", "![x](</media/a b.png>)", "![x](<https://heritage.example.com/media/a b.png>)"},
		{"foreign", "![x](https://cdn.other.org/a.png)", "![x](https://cdn.other.org/a.png)"},
		{"protocol relative", "![x](//cdn.other.org/a.png)", "![x](//cdn.other.org/a.png)"},
		{"not an image", "[link](/media/a.png)", "[link](/media/a.png)"},
		{"lookalike domain", "![x](http://old.example.com.evil/a.png)", "![x](http://old.example.com.evil/a.png)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Rewrite(tt.in))
		})
	}
}

func TestURLRewriter_Disabled(t *testing.T) {
	var nilRewriter *URLRewriter
	in := "![x](/media/a.png)"
	assert.Equal(t, in, nilRewriter.Rewrite(in))
	assert.Equal(t, in, NewURLRewriter("", nil).Rewrite(in))
}
