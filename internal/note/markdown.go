package note

import (
	"fmt"
	"html"
	"regexp"
	"strings"
)

// The converter is an ordered sequence of pattern substitutions, not a
// structural parser. Each rule is applied to the entire text before the
// next rule runs, so Markdown→HTML→Markdown is only approximately a
// round-trip: block-level and nested-inline constructs may collapse or
// reorder. That is the documented contract, not a defect.

var (
	mdH3         = regexp.MustCompile(`(?m)^### (.*)$`)
	mdH2         = regexp.MustCompile(`(?m)^## (.*)$`)
	mdH1         = regexp.MustCompile(`(?m)^# (.*)$`)
	mdBold       = regexp.MustCompile(`\*\*(.*?)\*\*`)
	mdItalic     = regexp.MustCompile(`\*(.*?)\*`)
	mdUnderline  = regexp.MustCompile(`_(.*?)_`)
	mdBlockquote = regexp.MustCompile(`(?m)^> (.*)$`)
	mdUnordered  = regexp.MustCompile(`(?m)^- (.*)$`)
	mdOrdered    = regexp.MustCompile(`(?m)^(\d+)\. (.*)$`)
	mdImage      = regexp.MustCompile(`!\[([^\]]*)\]\(([^)]*)\)`)

	htmlH1         = regexp.MustCompile(`(?i)<h1[^>]*>(.*?)</h1>`)
	htmlH2         = regexp.MustCompile(`(?i)<h2[^>]*>(.*?)</h2>`)
	htmlH3         = regexp.MustCompile(`(?i)<h3[^>]*>(.*?)</h3>`)
	htmlStrong     = regexp.MustCompile(`(?i)<strong[^>]*>(.*?)</strong>`)
	htmlEm         = regexp.MustCompile(`(?i)<em[^>]*>(.*?)</em>`)
	htmlU          = regexp.MustCompile(`(?i)<u[^>]*>(.*?)</u>`)
	htmlBlockquote = regexp.MustCompile(`(?i)<blockquote[^>]*>(.*?)</blockquote>`)
	htmlUL         = regexp.MustCompile(`(?is)<ul[^>]*>(.*?)</ul>`)
	htmlOL         = regexp.MustCompile(`(?is)<ol[^>]*>(.*?)</ol>`)
	htmlLI         = regexp.MustCompile(`(?i)<li[^>]*>(.*?)</li>`)
	htmlBR         = regexp.MustCompile(`(?i)<br[^>]*>`)
	htmlP          = regexp.MustCompile(`(?i)<p[^>]*>(.*?)</p>`)
	htmlImg        = regexp.MustCompile(`(?i)<img[^>]*src="([^"]*)"[^>]*>`)
	htmlImgAlt     = regexp.MustCompile(`(?i)alt="([^"]*)"`)
	htmlAnyTag     = regexp.MustCompile(`<[^>]*>`)
	manyNewlines   = regexp.MustCompile(`\n{3,}`)
)

// MarkdownToHTML converts Markdown source to HTML by ordered pattern
// substitution. Total over all inputs; malformed syntax passes through as
// literal text. List items are emitted as bare <li> elements without
// <ul>/<ol> containers — a known limitation carried forward deliberately.
func MarkdownToHTML(markdown string) string {
	s := markdown
	s = mdH3.ReplaceAllString(s, "<h3>$1</h3>")
	s = mdH2.ReplaceAllString(s, "<h2>$1</h2>")
	s = mdH1.ReplaceAllString(s, "<h1>$1</h1>")
	s = mdBold.ReplaceAllString(s, "<strong>$1</strong>")
	s = mdItalic.ReplaceAllString(s, "<em>$1</em>")
	s = mdUnderline.ReplaceAllString(s, "<u>$1</u>")
	s = mdBlockquote.ReplaceAllString(s, "<blockquote>$1</blockquote>")
	s = mdUnordered.ReplaceAllString(s, "<li>$1</li>")
	s = mdOrdered.ReplaceAllString(s, "<li>$2</li>")
	s = mdImage.ReplaceAllString(s, `<img src="$2" alt="$1">`)
	s = strings.ReplaceAll(s, "\n", "<br>")
	return s
}

// HTMLToMarkdown converts HTML to Markdown by the reverse rule sequence.
// Unrecognized tags are stripped rather than converted; unterminated tags
// are left as literal text. Never fails.
func HTMLToMarkdown(htmlText string) string {
	s := htmlText
	s = htmlH1.ReplaceAllString(s, "# $1\n\n")
	s = htmlH2.ReplaceAllString(s, "## $1\n\n")
	s = htmlH3.ReplaceAllString(s, "### $1\n\n")
	s = htmlStrong.ReplaceAllString(s, "**$1**")
	s = htmlEm.ReplaceAllString(s, "*$1*")
	s = htmlU.ReplaceAllString(s, "_${1}_")
	s = htmlBlockquote.ReplaceAllString(s, "> $1\n\n")
	s = htmlUL.ReplaceAllStringFunc(s, func(block string) string {
		inner := htmlUL.FindStringSubmatch(block)[1]
		return htmlLI.ReplaceAllString(inner, "- $1\n") + "\n"
	})
	s = htmlOL.ReplaceAllStringFunc(s, func(block string) string {
		inner := htmlOL.FindStringSubmatch(block)[1]
		counter := 0
		return htmlLI.ReplaceAllStringFunc(inner, func(item string) string {
			counter++
			text := htmlLI.FindStringSubmatch(item)[1]
			return fmt.Sprintf("%d. %s\n", counter, text)
		}) + "\n"
	})
	s = htmlBR.ReplaceAllString(s, "\n")
	s = htmlP.ReplaceAllString(s, "$1\n\n")
	s = htmlImg.ReplaceAllStringFunc(s, func(tag string) string {
		src := htmlImg.FindStringSubmatch(tag)[1]
		alt := "Image"
		if m := htmlImgAlt.FindStringSubmatch(tag); m != nil && m[1] != "" {
			alt = m[1]
		}
		return fmt.Sprintf("![%s](%s)", alt, src)
	})
	s = htmlAnyTag.ReplaceAllString(s, "")
	s = manyNewlines.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// PlainText derives the plain-text projection of an HTML body: line breaks
// and block closings become newlines, all other tags are stripped, and
// entities are decoded. Used when importing rich content that arrives
// without a plain-text counterpart.
func PlainText(htmlText string) string {
	s := htmlText
	s = htmlBR.ReplaceAllString(s, "\n")
	for _, closing := range []string{"</p>", "</h1>", "</h2>", "</h3>", "</li>", "</blockquote>"} {
		s = strings.ReplaceAll(s, closing, closing+"\n")
	}
	s = htmlAnyTag.ReplaceAllString(s, "")
	s = html.UnescapeString(s)
	s = manyNewlines.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
