package web

import (
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"jotter/internal/errors"
	"jotter/internal/export"
	"jotter/internal/note"
	"jotter/internal/store"
)

// Handlers holds dependencies for web handlers.
type Handlers struct {
	store    *store.Store
	renderer *Renderer
}

// HandleList renders the note list, filtered by the q query parameter.
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	notes := h.store.Search(query)

	h.renderer.renderPage(w, "list", ListPageData{
		PageData: PageData{
			Title:   "Notes",
			Version: h.renderer.version,
			Query:   query,
		},
		Notes:      notes,
		Categories: h.store.Categories(),
		Total:      h.store.Len(),
	})
}

// HandleCreate creates a new note and redirects to its detail page.
func (h *Handlers) HandleCreate(w http.ResponseWriter, r *http.Request) {
	n, err := h.store.Create()
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	http.Redirect(w, r, "/notes/"+n.ID, http.StatusSeeOther)
}

// HandleDetail renders a single note. Rich content is shown as-is; plain
// content is treated as markdown for the reading view.
func (h *Handlers) HandleDetail(w http.ResponseWriter, r *http.Request) {
	n, err := h.store.Get(r.PathValue("id"))
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	var rendered template.HTML
	if n.HTMLContent != "" {
		rendered = template.HTML(n.HTMLContent)
	} else {
		rendered = renderMarkdown(n.Content)
	}

	var category *note.Category
	if cat, ok := h.store.Category(n.Category); ok {
		category = &cat
	}

	h.renderer.renderPage(w, "detail", DetailPageData{
		PageData: PageData{
			Title:   n.Title,
			Version: h.renderer.version,
		},
		Note:         n,
		Category:     category,
		Categories:   h.store.Categories(),
		RenderedHTML: rendered,
		TagsJoined:   strings.Join(n.Tags, ", "),
		Markdown:     note.HTMLToMarkdown(n.HTMLContent),
	})
}

// HandleUpdate applies the edit form. The textarea is markdown-flavored
// plain content; the rich body is regenerated from it through the
// converter, the same path a .md import takes.
func (h *Handlers) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("malformed form"))
		return
	}

	title := r.PostFormValue("title")
	category := r.PostFormValue("category")
	content := r.PostFormValue("content")
	html := note.MarkdownToHTML(content)
	tags := parseTags(r.PostFormValue("tags"))

	_, err := h.store.Update(id, store.UpdateInput{
		Title:       &title,
		Content:     &content,
		HTMLContent: &html,
		Category:    &category,
		Tags:        &tags,
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	http.Redirect(w, r, "/notes/"+id, http.StatusSeeOther)
}

// HandleDelete removes a note and returns to the list.
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	h.store.Delete(r.PathValue("id"))
	http.Redirect(w, r, "/notes", http.StatusSeeOther)
}

// HandleExport serves a note packaged in the requested byte format as a
// download. The pdf flow is served by HandlePrint instead.
func (h *Handlers) HandleExport(w http.ResponseWriter, r *http.Request) {
	n, err := h.store.Get(r.PathValue("id"))
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	format := export.Format(r.URL.Query().Get("format"))
	if format == export.FormatPDF {
		http.Redirect(w, r, "/notes/"+n.ID+"/print", http.StatusSeeOther)
		return
	}

	f, err := export.Note(format, n.Title, n.Content, n.HTMLContent)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	if f.Warning != "" {
		w.Header().Set("X-Export-Warning", f.Warning)
	}

	w.Header().Set("Content-Type", f.MIME)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", f.Name))
	_, _ = w.Write(f.Data)
}

// HandlePrint serves the print-styled standalone document inline so the
// browser's print facility can take over (the pdf flow).
func (h *Handlers) HandlePrint(w http.ResponseWriter, r *http.Request) {
	n, err := h.store.Get(r.PathValue("id"))
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(export.PrintDocument(n.Title, n.HTMLContent))
}

// parseTags splits a comma-separated string into a slice of tags.
func parseTags(s string) []string {
	if s == "" {
		return []string{}
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
