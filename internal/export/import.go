package export

import (
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"jotter/internal/note"
)

// Metadata is the optional YAML frontmatter a Markdown import may open
// with, between two "---" lines.
type Metadata struct {
	Title    string   `yaml:"title"`
	Tags     []string `yaml:"tags"`
	Category string   `yaml:"category"`
}

// Imported is the result of reading an external file into note content.
type Imported struct {
	Content     string   // plain-text projection
	HTMLContent string   // rich body, empty for plain-text imports
	Meta        Metadata // frontmatter metadata, zero when absent
}

// ImportFile converts file contents into note content by extension:
// .html loads verbatim as rich content, .md runs through the Markdown
// converter (honoring a frontmatter block), and anything else is plain
// text. Total over all inputs; never fails.
func ImportFile(name string, data []byte) *Imported {
	content := string(data)

	switch strings.ToLower(filepath.Ext(name)) {
	case ".html":
		return &Imported{
			Content:     note.PlainText(content),
			HTMLContent: content,
		}

	case ".md":
		meta, body := splitFrontmatter(content)
		html := note.MarkdownToHTML(body)
		return &Imported{
			Content:     note.PlainText(html),
			HTMLContent: html,
			Meta:        meta,
		}

	default:
		return &Imported{Content: content}
	}
}

// splitFrontmatter peels an optional leading "---" YAML block off a
// Markdown document. A malformed block is treated as ordinary content.
func splitFrontmatter(content string) (Metadata, string) {
	var meta Metadata

	if !strings.HasPrefix(content, "---\n") {
		return meta, content
	}

	rest := content[len("---\n"):]
	end := strings.Index(rest, "\n---")
	if end < 0 {
		return meta, content
	}

	block := rest[:end]
	body := rest[end+len("\n---"):]
	body = strings.TrimPrefix(body, "\n")

	if err := yaml.Unmarshal([]byte(block), &meta); err != nil {
		return Metadata{}, content
	}
	return meta, body
}
