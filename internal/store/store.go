// Package store holds the in-memory note collection behind the durable
// key-value port, with create/update/delete/search semantics and a single
// optional selection.
package store

import (
	"crypto/rand"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"jotter/internal/errors"
	"jotter/internal/note"
	"jotter/internal/storage"
)

// Persistence keys. The note collection and category list are serialized
// independently.
const (
	NotesKey      = "notes"
	CategoriesKey = "categories"
)

// Store is the note collection. All methods are safe for concurrent use;
// returned notes are copies, so the displayed list is a derived view that
// callers cannot mutate in place.
type Store struct {
	mu         sync.Mutex
	kv         storage.KV
	notes      []*note.Note // newest-created-first
	categories []note.Category
	selectedID string
}

// Open loads the persisted collections from kv. Missing or unparseable
// payloads degrade to an empty note list and the default categories; Open
// never fails.
func Open(kv storage.KV) *Store {
	s := &Store{kv: kv}

	if data, ok := kv.Get(NotesKey); ok {
		var notes []*note.Note
		if err := json.Unmarshal(data, &notes); err == nil {
			s.notes = notes
		}
	}

	if data, ok := kv.Get(CategoriesKey); ok {
		var categories []note.Category
		if err := json.Unmarshal(data, &categories); err == nil {
			s.categories = categories
		}
	}
	if s.categories == nil {
		s.categories = note.DefaultCategories()
		s.persistCategories()
	}

	return s
}

// Create allocates a new note with the default title, empty content, the
// first category in the current category list, and an empty tag set. The
// new note is prepended to the collection and becomes the selected note.
// Fails only when the category list is empty, which callers must prevent.
func (s *Store) Create() (*note.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.categories) == 0 {
		return nil, errors.NewNoCategories()
	}

	now := time.Now()
	n := &note.Note{
		ID:        newID(now),
		Title:     note.DefaultTitle,
		Content:   "",
		Category:  s.categories[0].ID,
		Tags:      []string{},
		CreatedAt: now,
		UpdatedAt: now,
		Color:     s.categories[0].Color,
	}

	s.notes = append([]*note.Note{n}, s.notes...)
	s.selectedID = n.ID
	s.persistNotes()

	return n.Clone(), nil
}

// UpdateInput carries the partial fields of an update; nil means "leave
// unchanged".
type UpdateInput struct {
	Title       *string
	Content     *string
	HTMLContent *string
	Category    *string
	Tags        *[]string
}

// Update merges the provided fields into the note and refreshes UpdatedAt.
// An empty partial is still a save, not a diff-check. When Category is
// among the updated fields its color is re-resolved; a dangling category
// id leaves the color unchanged.
func (s *Store) Update(id string, input UpdateInput) (*note.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.find(id)
	if n == nil {
		return nil, errors.NewNotFound(id)
	}

	if input.Title != nil {
		n.Title = *input.Title
	}
	if input.Content != nil {
		n.Content = *input.Content
	}
	if input.HTMLContent != nil {
		n.HTMLContent = *input.HTMLContent
	}
	if input.Category != nil {
		n.Category = *input.Category
		if cat, ok := s.category(*input.Category); ok {
			n.Color = cat.Color
		}
	}
	if input.Tags != nil {
		n.Tags = note.DedupeTags(*input.Tags)
	}
	n.UpdatedAt = time.Now()

	s.persistNotes()
	return n.Clone(), nil
}

// Delete removes the note permanently. Deleting the selected note clears
// the selection; deleting an unknown id is a silent no-op.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notes {
		if n.ID == id {
			s.notes = append(s.notes[:i], s.notes[i+1:]...)
			if s.selectedID == id {
				s.selectedID = ""
			}
			s.persistNotes()
			return
		}
	}
}

// Get returns the note with the given id.
func (s *Store) Get(id string) (*note.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.find(id)
	if n == nil {
		return nil, errors.NewNotFound(id)
	}
	return n.Clone(), nil
}

// Search returns notes whose title, plain-text content, or any tag
// contains the query as a case-insensitive substring, preserving the
// store's newest-created-first order. An empty query returns all notes.
func (s *Store) Search(query string) []*note.Note {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := strings.ToLower(query)
	result := make([]*note.Note, 0, len(s.notes))
	for _, n := range s.notes {
		if matches(n, q) {
			result = append(result, n.Clone())
		}
	}
	return result
}

// Notes returns the full collection in newest-created-first order.
func (s *Store) Notes() []*note.Note {
	return s.Search("")
}

// Len returns the number of stored notes.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.notes)
}

// Categories returns the category list.
func (s *Store) Categories() []note.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]note.Category(nil), s.categories...)
}

// Category resolves a category id for display and denormalization.
func (s *Store) Category(id string) (note.Category, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.category(id)
}

// Select makes the note with the given id the selected note.
func (s *Store) Select(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.find(id) == nil {
		return errors.NewNotFound(id)
	}
	s.selectedID = id
	return nil
}

// ClearSelection leaves no note selected.
func (s *Store) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedID = ""
}

// Selected returns the currently selected note, or nil when none is
// selected.
func (s *Store) Selected() *note.Note {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.selectedID == "" {
		return nil
	}
	if n := s.find(s.selectedID); n != nil {
		return n.Clone()
	}
	return nil
}

// Close releases the underlying storage.
func (s *Store) Close() error {
	return s.kv.Close()
}

// find returns the live note for id, or nil. Caller holds the lock.
func (s *Store) find(id string) *note.Note {
	for _, n := range s.notes {
		if n.ID == id {
			return n
		}
	}
	return nil
}

// category resolves id against the category list. Caller holds the lock.
func (s *Store) category(id string) (note.Category, bool) {
	for _, c := range s.categories {
		if c.ID == id {
			return c, true
		}
	}
	return note.Category{}, false
}

// matches reports whether the note matches the lowercased query.
func matches(n *note.Note, q string) bool {
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(n.Title), q) {
		return true
	}
	if strings.Contains(strings.ToLower(n.Content), q) {
		return true
	}
	for _, tag := range n.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

// persistNotes writes the note collection synchronously. Surfacing write
// failures is the storage adapter's responsibility; the store degrades to
// in-memory operation. Caller holds the lock.
func (s *Store) persistNotes() {
	data, err := json.Marshal(s.notes)
	if err != nil {
		return
	}
	_ = s.kv.Set(NotesKey, data)
}

// persistCategories writes the category list synchronously.
func (s *Store) persistCategories() {
	data, err := json.Marshal(s.categories)
	if err != nil {
		return
	}
	_ = s.kv.Set(CategoriesKey, data)
}

// sortNewestFirst restores the canonical newest-created-first order after
// bulk operations such as an archive restore. Caller holds the lock.
func (s *Store) sortNewestFirst() {
	sort.SliceStable(s.notes, func(i, j int) bool {
		return s.notes[i].CreatedAt.After(s.notes[j].CreatedAt)
	})
}

// newID generates a ULID for a new note.
func newID(now time.Time) string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	return ulid.MustNew(ulid.Timestamp(now), entropy).String()
}
