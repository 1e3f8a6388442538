package wikisync

import (
	"fmt"
	"path/filepath"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	mdplugin "github.com/JohannesKaufmann/html-to-markdown/plugin"
)

// isHTML reports whether a local file should go through ConvertHTMLToMarkdown.
func isHTML(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".html", ".htm":
		return true
	}
	return false
}

// ConvertHTMLToMarkdown turns generated HTML into markdown the wiki can render.
func ConvertHTMLToMarkdown(html string) (string, error) {
	converter := md.NewConverter("", true, nil)
	// Github flavoured Markdown knows about tables 👍
	converter.Use(mdplugin.GitHubFlavored())

	markdown, err := converter.ConvertString(html)
	if err != nil {
		return "", fmt.Errorf("wikisync: failed to convert to Markdown: %w", err)
	}

	return markdown, nil
}
