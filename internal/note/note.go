package note

import "time"

// Note represents a user-authored document with rich and plain content.
// The JSON field names are the persisted wire shape; timestamps serialize
// as RFC 3339 strings.
type Note struct {
	// ID uniquely identifies this note. Immutable after creation.
	ID string `json:"id"`

	// Title is the display title, defaulting to "Untitled Note".
	Title string `json:"title"`

	// Content is the plain-text projection of the body. When HTMLContent
	// is empty, Content is authoritative.
	Content string `json:"content"`

	// HTMLContent is the optional rich HTML body.
	HTMLContent string `json:"htmlContent,omitempty"`

	// Category references a Category ID. The store tolerates dangling
	// references; they simply fail to resolve at display time.
	Category string `json:"category"`

	// Tags is insertion-ordered and contains no duplicates
	// (case-sensitive exact match).
	Tags []string `json:"tags"`

	// CreatedAt is when the note was created.
	CreatedAt time.Time `json:"createdAt"`

	// UpdatedAt is refreshed on every save. Always >= CreatedAt.
	UpdatedAt time.Time `json:"updatedAt"`

	// Color is a denormalized copy of the owning category's color at last
	// update, so a note keeps its color label even if category data
	// changes elsewhere. Intentional denormalization, not derived state.
	Color string `json:"color"`
}

// Category is a named, colored label notes can reference.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// DefaultTitle is the title assigned to freshly created notes.
const DefaultTitle = "Untitled Note"

// DefaultCategories is seeded when no persisted categories exist.
func DefaultCategories() []Category {
	return []Category{
		{ID: "1", Name: "Personal", Color: "#3B82F6"},
		{ID: "2", Name: "Work", Color: "#8B5CF6"},
		{ID: "3", Name: "Ideas", Color: "#F59E0B"},
		{ID: "4", Name: "Todo", Color: "#EF4444"},
	}
}

// Clone returns a deep copy of the note.
func (n *Note) Clone() *Note {
	c := *n
	c.Tags = append([]string(nil), n.Tags...)
	return &c
}

// HasTag reports whether the note carries the exact tag.
func (n *Note) HasTag(tag string) bool {
	for _, t := range n.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// DedupeTags removes duplicate entries while preserving insertion order.
func DedupeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	result := make([]string, 0, len(tags))
	for _, t := range tags {
		if !seen[t] {
			seen[t] = true
			result = append(result, t)
		}
	}
	return result
}
