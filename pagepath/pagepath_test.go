package pagepath

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"/", ""},
		{".", ""},
		{"a", "a"},
		{"/a/b", "a/b"},
		{"a/b/", "a/b"},
		{`a\b/`, "a/b"},
		{`a\b\c`, "a/b/c"},
		{"//a//b", "a/b"},
		{"a/./b", "a/b"},
		{"a/x/../b", "a/b"},
		{`a\x\..\b`, "a/b"},
		{"/../a", "a"},
		{"../a", "../a"},
		{"Apex Classes/My Class", "Apex Classes/My Class"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := Normalize(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, Normalize(got), "normalize should be idempotent")
		})
	}
}

func TestNormalizeSeparatorInsensitive(t *testing.T) {
	assert.Equal(t, Normalize("a/b"), Normalize(`a\b/`))
	assert.Equal(t, Normalize("a/b"), Normalize("/a/b"))
}

func TestJoin(t *testing.T) {
	assert.Equal(t, "docs/a/b", Join("docs", "a/b"))
	assert.Equal(t, "docs/a", Join("/docs/", "/a"))
	assert.Equal(t, "a", Join("", "a"))
	assert.Equal(t, "archive/x", Join("archive", "", "x"))
	assert.Equal(t, "", Join())
}

func TestWikiPath(t *testing.T) {
	assert.Equal(t, "/docs/a", WikiPath("docs/a"))
	assert.Equal(t, "/docs/a", WikiPath("/docs//a/"))
	assert.Equal(t, "/", WikiPath(""))
}

func TestAncestors(t *testing.T) {
	assert.Equal(t, []string{"a", "a/b"}, Ancestors("a/b/c"))
	assert.Equal(t, []string{"a", "a/b"}, Ancestors("/a/b/c/"))
	assert.Empty(t, Ancestors("a"))
	assert.Nil(t, Ancestors(""))
}

func TestRelative(t *testing.T) {
	tests := []struct {
		name   string
		root   string
		p      string
		want   string
		wantOK bool
	}{
		{"child", "/docs", "/docs/a", "a", true},
		{"grandchild", "docs", "/docs/a/b", "a/b", true},
		{"root itself", "/docs", "/docs", "", true},
		{"empty root", "", "/a/b", "a/b", true},
		{"sibling sharing a prefix", "/docs", "/docsearch/a", "docsearch/a", false},
		{"elsewhere", "/docs", "/other", "other", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Relative(tt.root, tt.p)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestStripExtension(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"a.md", "a"},
		{"b/c.md", "b/c"},
		{"archive.tar.gz", "archive.tar"},
		{"README", "README"},
		{"dir.v2/README", "dir.v2/README"},
		{`dir.v2\README`, `dir.v2\README`},
		{".gitignore", ".gitignore"},
		{"b/.hidden", "b/.hidden"},
		{"trailing.", "trailing."},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, StripExtension(tt.in))
		})
	}
}
