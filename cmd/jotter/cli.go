package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"jotter/internal/config"
	"jotter/internal/errors"
	"jotter/internal/export"
	"jotter/internal/note"
	"jotter/internal/session"
	"jotter/internal/store"
	"jotter/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(st *store.Store, cfg *config.Config, baseDir string) *cli.App {
	app := &cli.App{
		Name:    "jotter",
		Usage:   "Local notes with rich-text export",
		Version: Version,
		Commands: []*cli.Command{
			newCmd(st),
			showCmd(st),
			editCmd(st, cfg),
			deleteCmd(st),
			listCmd(st),
			searchCmd(st),
			categoriesCmd(st),
			exportCmd(st, baseDir),
			importCmd(st),
			archiveCmd(st, baseDir),
			restoreCmd(st),
			webCmd(st, cfg),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// noteSummary is the compact list/search output shape.
type noteSummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Category  string    `json:"category"`
	Tags      []string  `json:"tags"`
	Color     string    `json:"color"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func summarize(notes []*note.Note) []noteSummary {
	out := make([]noteSummary, 0, len(notes))
	for _, n := range notes {
		out = append(out, noteSummary{
			ID:        n.ID,
			Title:     n.Title,
			Category:  n.Category,
			Tags:      n.Tags,
			Color:     n.Color,
			UpdatedAt: n.UpdatedAt,
		})
	}
	return out
}

// newCmd creates the new command.
func newCmd(st *store.Store) *cli.Command {
	return &cli.Command{
		Name:  "new",
		Usage: "Create a note (optionally seeded from flags and piped Markdown)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "Note title"},
			&cli.StringFlag{Name: "category", Aliases: []string{"c"}, Usage: "Category id"},
			&cli.StringFlag{Name: "tags", Usage: "Comma-separated tags"},
		},
		Action: func(c *cli.Context) error {
			n, err := st.Create()
			if err != nil {
				return outputError(err)
			}

			input := store.UpdateInput{}
			touched := false
			if title := c.String("title"); title != "" {
				input.Title = &title
				touched = true
			}
			if cat := c.String("category"); cat != "" {
				input.Category = &cat
				touched = true
			}
			if tags := parseTags(c.String("tags")); tags != nil {
				input.Tags = &tags
				touched = true
			}
			if stdinHasData() {
				body, err := readStdin()
				if err != nil {
					return outputError(errors.NewInternal(err))
				}
				html := note.MarkdownToHTML(body)
				plain := note.PlainText(html)
				input.Content = &plain
				input.HTMLContent = &html
				touched = true
			}

			if touched {
				n, err = st.Update(n.ID, input)
				if err != nil {
					return outputError(err)
				}
			}
			return outputJSON(n)
		},
	}
}

// showCmd creates the show command.
func showCmd(st *store.Store) *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show a note by id",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "markdown", Aliases: []string{"m"}, Usage: "Print the body as Markdown instead of JSON"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("id is required"))
			}
			n, err := st.Get(c.Args().First())
			if err != nil {
				return outputError(err)
			}
			if c.Bool("markdown") {
				body := n.Content
				if n.HTMLContent != "" {
					body = note.HTMLToMarkdown(n.HTMLContent)
				}
				fmt.Printf("# %s\n\n%s\n", n.Title, body)
				return nil
			}
			return outputJSON(n)
		},
	}
}

// editCmd creates the edit command. Edits flow through a session so the
// commit path is the same one the autosave uses.
func editCmd(st *store.Store, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "edit",
		Usage:     "Edit note fields (body from piped Markdown)",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "New title"},
			&cli.StringFlag{Name: "category", Aliases: []string{"c"}, Usage: "New category id"},
			&cli.StringFlag{Name: "add-tag", Usage: "Tag to add"},
			&cli.StringFlag{Name: "remove-tag", Usage: "Tag to remove"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("id is required"))
			}

			sess := session.New(st, time.Duration(cfg.AutosaveDebounceMS)*time.Millisecond)
			defer sess.Close()

			if err := sess.Select(c.Args().First()); err != nil {
				return outputError(err)
			}

			if title := c.String("title"); title != "" {
				sess.SetTitle(title)
			}
			if cat := c.String("category"); cat != "" {
				sess.SetCategory(cat)
			}
			if tag := c.String("add-tag"); tag != "" {
				sess.AddTag(tag)
			}
			if tag := c.String("remove-tag"); tag != "" {
				sess.RemoveTag(tag)
			}
			if stdinHasData() {
				body, err := readStdin()
				if err != nil {
					return outputError(errors.NewInternal(err))
				}
				html := note.MarkdownToHTML(body)
				sess.SetContent(note.PlainText(html), html)
			}

			sess.Flush()

			n, err := st.Get(c.Args().First())
			if err != nil {
				return outputError(err)
			}
			return outputJSON(n)
		},
	}
}

// deleteCmd creates the delete command.
func deleteCmd(st *store.Store) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete a note permanently",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("id is required"))
			}
			st.Delete(c.Args().First())
			return outputJSON(map[string]any{"deleted": true})
		},
	}
}

// listCmd creates the list command.
func listCmd(st *store.Store) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List all notes, newest first",
		Action: func(_ *cli.Context) error {
			return outputJSON(summarize(st.Notes()))
		},
	}
}

// searchCmd creates the search command.
func searchCmd(st *store.Store) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search notes by title, content, or tag",
		ArgsUsage: "<query>",
		Action: func(c *cli.Context) error {
			query := strings.Join(c.Args().Slice(), " ")
			return outputJSON(summarize(st.Search(query)))
		},
	}
}

// categoriesCmd creates the categories command.
func categoriesCmd(st *store.Store) *cli.Command {
	return &cli.Command{
		Name:  "categories",
		Usage: "List categories",
		Action: func(_ *cli.Context) error {
			return outputJSON(st.Categories())
		},
	}
}

// exportCmd creates the export command.
func exportCmd(st *store.Store, baseDir string) *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "Export a note to a file",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "txt", Usage: "Format: txt|html|md|pdf|image"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "Output directory (default: <data>/exports)"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("id is required"))
			}
			n, err := st.Get(c.Args().First())
			if err != nil {
				return outputError(err)
			}

			outDir := c.String("out")
			if outDir == "" {
				outDir = filepath.Join(baseDir, "exports")
			}
			if err := os.MkdirAll(outDir, 0700); err != nil {
				return outputError(errors.NewInternal(err))
			}

			format := export.Format(c.String("format"))
			if format == export.FormatPDF {
				return exportPrint(n, outDir)
			}

			f, err := export.Note(format, n.Title, n.Content, n.HTMLContent)
			if err != nil {
				return outputError(err)
			}

			path := filepath.Join(outDir, f.Name)
			if err := os.WriteFile(path, f.Data, 0600); err != nil {
				return outputError(errors.NewInternal(err))
			}

			result := map[string]any{"path": path, "mime": f.MIME}
			if f.Warning != "" {
				result["warning"] = f.Warning
			}
			return outputJSON(result)
		},
	}
}

// exportPrint writes the print-styled document and hands it to the host's
// handler. PDF conversion happens in the host print pipeline, not here.
func exportPrint(n *note.Note, outDir string) error {
	doc := export.PrintDocument(n.Title, n.HTMLContent)
	path := filepath.Join(outDir, export.SanitizeTitle(n.Title)+".print.html")
	if err := os.WriteFile(path, doc, 0600); err != nil {
		return outputError(errors.NewInternal(err))
	}

	result := map[string]any{
		"path":    path,
		"mime":    "text/html",
		"warning": "pdf export delegates to the host print facility; print the opened document to PDF",
	}
	if err := openPath(path); err != nil {
		result["opened"] = false
	} else {
		result["opened"] = true
	}
	return outputJSON(result)
}

// openPath opens the file with the host's default handler.
func openPath(path string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", path).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", path).Start()
	default:
		return exec.Command("xdg-open", path).Start()
	}
}

// importCmd creates the import command.
func importCmd(st *store.Store) *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Import a .md, .html, or text file as a new note",
		ArgsUsage: "<path>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "Note title (default: frontmatter title or filename)"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("path is required"))
			}
			path := c.Args().First()
			data, err := os.ReadFile(path)
			if err != nil {
				return outputError(errors.NewInvalidRequest(fmt.Sprintf("cannot read %s: %v", path, err)))
			}

			imp := export.ImportFile(filepath.Base(path), data)

			n, err := st.Create()
			if err != nil {
				return outputError(err)
			}

			title := c.String("title")
			if title == "" {
				title = imp.Meta.Title
			}
			if title == "" {
				base := filepath.Base(path)
				title = strings.TrimSuffix(base, filepath.Ext(base))
			}

			input := store.UpdateInput{
				Title:       &title,
				Content:     &imp.Content,
				HTMLContent: &imp.HTMLContent,
			}
			if imp.Meta.Category != "" {
				input.Category = &imp.Meta.Category
			}
			if len(imp.Meta.Tags) > 0 {
				input.Tags = &imp.Meta.Tags
			}

			n, err = st.Update(n.ID, input)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(n)
		},
	}
}

// archiveCmd creates the archive command.
func archiveCmd(st *store.Store, baseDir string) *cli.Command {
	return &cli.Command{
		Name:  "archive",
		Usage: "Dump all notes and categories to a JSONL archive",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "Archive path (default: <data>/exports/jotter-<date>.jsonl)"},
		},
		Action: func(c *cli.Context) error {
			path := c.String("out")
			if path == "" {
				dir := filepath.Join(baseDir, "exports")
				if err := os.MkdirAll(dir, 0700); err != nil {
					return outputError(errors.NewInternal(err))
				}
				path = filepath.Join(dir, fmt.Sprintf("jotter-%s.jsonl", time.Now().Format("2006-01-02")))
			}

			f, err := os.Create(path)
			if err != nil {
				return outputError(errors.NewInternal(err))
			}
			defer f.Close()

			count, err := st.WriteArchive(f)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(map[string]any{"path": path, "notes": count})
		},
	}
}

// restoreCmd creates the restore command.
func restoreCmd(st *store.Store) *cli.Command {
	return &cli.Command{
		Name:      "restore",
		Usage:     "Restore notes from a JSONL archive",
		ArgsUsage: "<path>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "mode", Aliases: []string{"m"}, Value: "error", Usage: "Collision mode: error|replace"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("path is required"))
			}
			f, err := os.Open(c.Args().First())
			if err != nil {
				return outputError(errors.NewInvalidRequest(fmt.Sprintf("cannot read archive: %v", err)))
			}
			defer f.Close()

			result, err := st.RestoreArchive(f, store.RestoreMode(c.String("mode")))
			if err != nil {
				return outputError(err)
			}
			return outputJSON(result)
		},
	}
}

// webCmd creates the web command.
func webCmd(st *store.Store, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "web",
		Usage: "Serve the web UI",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Usage: "Bind address (default from config)"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Usage: "Port (default from config)"},
		},
		Action: func(c *cli.Context) error {
			bind := cfg.WebBind
			if v := c.String("bind"); v != "" {
				bind = v
			}
			port := cfg.WebPort
			if v := c.Int("port"); v != 0 {
				port = v
			}
			return web.Run(web.NewServer(st, Version, bind, port))
		},
	}
}

// outputJSON marshals and prints a result with indentation.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if jerr, ok := err.(*errors.Error); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", jerr.Code, jerr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// readStdin reads all content from stdin.
func readStdin() (string, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// parseTags splits a comma-separated string into a slice of tags.
func parseTags(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
