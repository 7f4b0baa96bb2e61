package mcp

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"jotter/internal/errors"
	"jotter/internal/export"
	"jotter/internal/store"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	store *store.Store
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(st *store.Store) *Handlers {
	return &Handlers{store: st}
}

// Request types for each tool

// GetRequest represents the arguments for note_get.
type GetRequest struct {
	ID string `json:"id"`
}

// UpdateRequest represents the arguments for note_update.
type UpdateRequest struct {
	ID          string    `json:"id"`
	Title       *string   `json:"title,omitempty"`
	Content     *string   `json:"content,omitempty"`
	HTMLContent *string   `json:"html_content,omitempty"`
	Category    *string   `json:"category,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
}

// DeleteRequest represents the arguments for note_delete.
type DeleteRequest struct {
	ID string `json:"id"`
}

// SearchRequest represents the arguments for note_search.
type SearchRequest struct {
	Query string `json:"query,omitempty"`
}

// ExportRequest represents the arguments for note_export.
type ExportRequest struct {
	ID     string `json:"id"`
	Format string `json:"format"`
}

// ExportResult is the note_export payload. Binary content is base64.
type ExportResult struct {
	Name    string `json:"name"`
	MIME    string `json:"mime"`
	Content string `json:"content"`
	Base64  bool   `json:"base64,omitempty"`
	Warning string `json:"warning,omitempty"`
}

// Handler implementations

// HandleCreate handles the note_create tool call.
func (h *Handlers) HandleCreate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	n, err := h.store.Create()
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(n)
}

// HandleGet handles the note_get tool call.
func (h *Handlers) HandleGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[GetRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	n, err := h.store.Get(input.ID)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(n)
}

// HandleUpdate handles the note_update tool call.
func (h *Handlers) HandleUpdate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[UpdateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	n, err := h.store.Update(input.ID, store.UpdateInput{
		Title:       input.Title,
		Content:     input.Content,
		HTMLContent: input.HTMLContent,
		Category:    input.Category,
		Tags:        input.Tags,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(n)
}

// HandleDelete handles the note_delete tool call.
func (h *Handlers) HandleDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[DeleteRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	h.store.Delete(input.ID)
	return successResult(map[string]any{"deleted": true, "id": input.ID})
}

// HandleList handles the note_list tool call.
func (h *Handlers) HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return successResult(h.store.Notes())
}

// HandleSearch handles the note_search tool call.
func (h *Handlers) HandleSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SearchRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	return successResult(h.store.Search(input.Query))
}

// HandleExport handles the note_export tool call.
func (h *Handlers) HandleExport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ExportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	n, err := h.store.Get(input.ID)
	if err != nil {
		return errorResult(err), nil
	}

	f, err := export.Note(export.Format(input.Format), n.Title, n.Content, n.HTMLContent)
	if err != nil {
		return errorResult(err), nil
	}

	result := ExportResult{
		Name:    f.Name,
		MIME:    f.MIME,
		Warning: f.Warning,
	}
	if strings.HasPrefix(f.MIME, "image/") {
		result.Content = base64.StdEncoding.EncodeToString(f.Data)
		result.Base64 = true
	} else {
		result.Content = string(f.Data)
	}
	return successResult(result)
}

// HandleCategoryList handles the category_list tool call.
func (h *Handlers) HandleCategoryList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return successResult(h.store.Categories())
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if jErr, ok := err.(*errors.Error); ok {
		errorObj := map[string]any{
			"code":    jErr.Code,
			"message": jErr.Message,
			"status":  jErr.Status,
		}
		if jErr.Code != errors.ErrInternal && jErr.Details != nil {
			errorObj["details"] = jErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
