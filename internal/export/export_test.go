package export

import (
	"bytes"
	"strings"
	"testing"

	"jotter/internal/errors"
)

func TestNote_Text(t *testing.T) {
	f, err := Note(FormatText, "My Note", "plain body", "")
	if err != nil {
		t.Fatalf("Note: %v", err)
	}
	if f.Name != "My Note.txt" {
		t.Errorf("Name = %q", f.Name)
	}
	if f.MIME != "text/plain" {
		t.Errorf("MIME = %q", f.MIME)
	}
	if string(f.Data) != "plain body" {
		t.Errorf("Data = %q", f.Data)
	}
	if f.Warning != "" {
		t.Errorf("Warning = %q, want none", f.Warning)
	}
}

func TestNote_HTMLWrapper(t *testing.T) {
	f, err := Note(FormatHTML, "My Note", "", "<p>body</p>")
	if err != nil {
		t.Fatalf("Note: %v", err)
	}
	if f.Name != "My Note.html" || f.MIME != "text/html" {
		t.Errorf("Name/MIME = %q/%q", f.Name, f.MIME)
	}

	doc := string(f.Data)
	// The wrapper shape is a compatibility contract.
	for _, want := range []string{
		"<!DOCTYPE html>",
		"<title>My Note</title>",
		"font-family: Arial, sans-serif; max-width: 800px; margin: 0 auto; padding: 20px;",
		"img { max-width: 100%; height: auto; }",
		"<h1>My Note</h1>",
		"<p>body</p>",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("document missing %q:\n%s", want, doc)
		}
	}
}

func TestNote_Markdown(t *testing.T) {
	f, err := Note(FormatMarkdown, "T", "ignored", "<h1>Hello</h1><strong>b</strong>")
	if err != nil {
		t.Fatalf("Note: %v", err)
	}
	if f.Name != "T.md" || f.MIME != "text/markdown" {
		t.Errorf("Name/MIME = %q/%q", f.Name, f.MIME)
	}
	if string(f.Data) != "# Hello\n\n**b**" {
		t.Errorf("Data = %q", f.Data)
	}
}

func TestNote_Image(t *testing.T) {
	f, err := Note(FormatImage, "Pic", "line one\nline two", "")
	if err != nil {
		t.Fatalf("Note: %v", err)
	}
	if f.Name != "Pic.png" || f.MIME != "image/png" {
		t.Errorf("Name/MIME = %q/%q", f.Name, f.MIME)
	}
	if !bytes.HasPrefix(f.Data, []byte("\x89PNG\r\n\x1a\n")) {
		t.Error("Data is not a PNG")
	}
	if f.Warning != "" {
		t.Errorf("plain content produced warning %q", f.Warning)
	}
}

func TestNote_ImageWarnsOnRichContent(t *testing.T) {
	f, err := Note(FormatImage, "Pic", "bold", "<strong>bold</strong>")
	if err != nil {
		t.Fatalf("Note: %v", err)
	}
	if f.Warning == "" {
		t.Error("rich content must set the degraded-fidelity warning")
	}
}

func TestNote_UnsupportedFormat(t *testing.T) {
	if _, err := Note(Format("docx"), "T", "", ""); !errors.Is(err, errors.ErrUnsupportedFormat) {
		t.Errorf("error = %v, want UNSUPPORTED_FORMAT", err)
	}
	// pdf is print-delegated and has no byte form here.
	if _, err := Note(FormatPDF, "T", "", ""); !errors.Is(err, errors.ErrUnsupportedFormat) {
		t.Errorf("error = %v, want UNSUPPORTED_FORMAT", err)
	}
}

func TestPrintDocument(t *testing.T) {
	doc := string(PrintDocument("T", "<p>x</p>"))
	for _, want := range []string{"@media print", "line-height: 1.6", "<h1>T</h1>", "<p>x</p>"} {
		if !strings.Contains(doc, want) {
			t.Errorf("print document missing %q", want)
		}
	}
}

func TestSanitizeTitle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"My Note", "My Note"},
		{"a/b\\c", "a-b-c"},
		{"../../etc/passwd", "etc-passwd"},
		{"ctrl\x00\x1fchars", "ctrlchars"},
		{"---", "note"},
		{"", "note"},
	}
	for _, tt := range tests {
		if got := SanitizeTitle(tt.in); got != tt.want {
			t.Errorf("SanitizeTitle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
