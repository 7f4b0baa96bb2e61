package mcp

import "github.com/mark3labs/mcp-go/mcp"

var createToolDef = mcp.NewTool("note_create",
	mcp.WithDescription("Create a new empty note in the first category; it becomes the selected note"),
)

var getToolDef = mcp.NewTool("note_get",
	mcp.WithDescription("Fetch a note by id"),
	mcp.WithString("id", mcp.Required(), mcp.Description("Note id")),
)

var updateToolDef = mcp.NewTool("note_update",
	mcp.WithDescription("Update a note; omitted fields are left unchanged, but any call refreshes updated_at"),
	mcp.WithString("id", mcp.Required(), mcp.Description("Note id")),
	mcp.WithString("title", mcp.Description("New title")),
	mcp.WithString("content", mcp.Description("New plain-text content")),
	mcp.WithString("html_content", mcp.Description("New rich HTML content")),
	mcp.WithString("category", mcp.Description("Category id; a dangling id leaves the note color unchanged")),
	mcp.WithArray("tags", mcp.Description("Replacement tag list (duplicates removed, order kept)"),
		mcp.Items(map[string]any{"type": "string"})),
)

var deleteToolDef = mcp.NewTool("note_delete",
	mcp.WithDescription("Delete a note permanently; deleting an unknown id is a no-op"),
	mcp.WithString("id", mcp.Required(), mcp.Description("Note id")),
)

var listToolDef = mcp.NewTool("note_list",
	mcp.WithDescription("List all notes, newest created first"),
)

var searchToolDef = mcp.NewTool("note_search",
	mcp.WithDescription("Search notes by case-insensitive substring over title, content, and tags"),
	mcp.WithString("query", mcp.Description("Search query; empty returns all notes")),
)

var exportToolDef = mcp.NewTool("note_export",
	mcp.WithDescription("Package a note for download as txt, html, md, or image"),
	mcp.WithString("id", mcp.Required(), mcp.Description("Note id")),
	mcp.WithString("format", mcp.Required(), mcp.Description("One of: txt, html, md, image")),
)

var categoryListToolDef = mcp.NewTool("category_list",
	mcp.WithDescription("List the available note categories"),
)
