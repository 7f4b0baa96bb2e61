// Package export packages note content for download in the supported
// formats and builds the print-flow document for the delegated formats.
package export

import (
	"fmt"
	"strings"

	"jotter/internal/errors"
	"jotter/internal/note"
)

// Format is an export format identifier.
type Format string

const (
	FormatText     Format = "txt"
	FormatHTML     Format = "html"
	FormatMarkdown Format = "md"
	FormatPDF      Format = "pdf"
	FormatImage    Format = "image"
)

// File is a packaged export: filename, MIME type, and byte content.
// Warning is set on best-effort paths that lose fidelity.
type File struct {
	Name    string `json:"name"`
	MIME    string `json:"mime"`
	Data    []byte `json:"-"`
	Warning string `json:"warning,omitempty"`
}

// Note packages a note's content for the byte-producing formats (txt,
// html, md, image). The pdf format is print-delegated and has no byte
// form here; use PrintDocument for it.
func Note(format Format, title, plainText, htmlContent string) (*File, error) {
	filename := SanitizeTitle(title)

	switch format {
	case FormatText:
		return &File{
			Name: filename + ".txt",
			MIME: "text/plain",
			Data: []byte(plainText),
		}, nil

	case FormatHTML:
		return &File{
			Name: filename + ".html",
			MIME: "text/html",
			Data: []byte(wrapDocument(title, htmlContent)),
		}, nil

	case FormatMarkdown:
		return &File{
			Name: filename + ".md",
			MIME: "text/markdown",
			Data: []byte(note.HTMLToMarkdown(htmlContent)),
		}, nil

	case FormatImage:
		f, err := renderImage(filename, plainText)
		if err != nil {
			return nil, err
		}
		if richerThanPlainText(htmlContent) {
			f.Warning = "image export renders plain text only; rich formatting was dropped"
		}
		return f, nil

	default:
		return nil, errors.NewUnsupportedFormat(string(format))
	}
}

// PrintDocument builds the standalone document handed to the host's print
// facility for the pdf flow. No PDF bytes are produced; fidelity depends
// entirely on the host print pipeline.
func PrintDocument(title, htmlContent string) []byte {
	doc := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
  <title>%s</title>
  <style>
    body {
      font-family: Arial, sans-serif;
      max-width: 800px;
      margin: 0 auto;
      padding: 20px;
      line-height: 1.6;
    }
    img {
      max-width: 100%%;
      height: auto;
    }
    @media print {
      body { margin: 0; padding: 20px; }
    }
  </style>
</head>
<body>
  <h1>%s</h1>
  %s
</body>
</html>`, title, title, htmlContent)
	return []byte(doc)
}

// wrapDocument wraps the body in the minimal standalone HTML document.
// The wrapper shape (title tag, fixed style block, single h1 above the
// body) is a compatibility contract for consumers parsing exported files;
// do not restyle it.
func wrapDocument(title, body string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
  <title>%s</title>
  <style>
    body { font-family: Arial, sans-serif; max-width: 800px; margin: 0 auto; padding: 20px; }
    img { max-width: 100%%; height: auto; }
  </style>
</head>
<body>
  <h1>%s</h1>
  %s
</body>
</html>`, title, title, body)
}

// richerThanPlainText reports whether the HTML body carries markup that a
// plain-text rendering would lose.
func richerThanPlainText(htmlContent string) bool {
	return strings.Contains(htmlContent, "<")
}

// SanitizeTitle makes a note title safe for use as a filename: path
// separators, traversal sequences, and control characters are replaced,
// runs of dashes collapse, and an empty result falls back to "note".
// Titles are otherwise used verbatim, matching the exported-file contract.
func SanitizeTitle(title string) string {
	s := strings.ReplaceAll(title, "/", "-")
	s = strings.ReplaceAll(s, "\\", "-")
	s = strings.ReplaceAll(s, "..", "-")

	var result strings.Builder
	for _, r := range s {
		if r >= 32 && r != 127 {
			result.WriteRune(r)
		}
	}
	s = result.String()

	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	s = strings.Trim(s, "-")

	if s == "" {
		s = "note"
	}
	return s
}
