// Package session tracks the draft of the currently edited note and
// commits it to the store after a quiet period.
package session

import (
	"encoding/json"
	"strings"
	"sync"
	"time"

	"jotter/internal/note"
	"jotter/internal/store"
)

// DefaultDebounce is the autosave quiet period measured from the most
// recent edit.
const DefaultDebounce = time.Second

// Draft holds the in-progress edited copy of a note's fields, not yet
// committed to the store.
type Draft struct {
	Title       string
	Content     string
	HTMLContent string
	Category    string
	Tags        []string
}

// Session owns the selected-note/draft pair. Selecting a note atomically
// replaces the draft; unsaved state from the previous selection is
// discarded, never recovered. All methods are safe for concurrent use
// with the autosave timer.
type Session struct {
	mu        sync.Mutex
	store     *store.Store
	persisted *note.Note // snapshot the draft is compared against
	draft     Draft
	timer     *time.Timer
	debounce  time.Duration
}

// New creates a session over the store. A non-positive debounce falls back
// to DefaultDebounce.
func New(st *store.Store, debounce time.Duration) *Session {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Session{store: st, debounce: debounce}
}

// Select makes the note the edited one and seeds the draft from it. Any
// pending autosave for the previous note is cancelled and its unsaved
// draft discarded.
func (s *Session) Select(id string) error {
	if err := s.store.Select(id); err != nil {
		return err
	}
	n, err := s.store.Get(id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelTimerLocked()
	s.persisted = n
	s.draft = Draft{
		Title:       n.Title,
		Content:     n.Content,
		HTMLContent: n.HTMLContent,
		Category:    n.Category,
		Tags:        append([]string(nil), n.Tags...),
	}
	return nil
}

// Deselect clears the selection and discards the draft.
func (s *Session) Deselect() {
	s.store.ClearSelection()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelTimerLocked()
	s.persisted = nil
	s.draft = Draft{}
}

// SetTitle updates the draft title.
func (s *Session) SetTitle(title string) {
	s.edit(func() { s.draft.Title = title })
}

// SetContent updates the draft's plain and rich bodies together, the way
// editor input reports both projections of one edit.
func (s *Session) SetContent(text, html string) {
	s.edit(func() {
		s.draft.Content = text
		s.draft.HTMLContent = html
	})
}

// SetCategory updates the draft category.
func (s *Session) SetCategory(id string) {
	s.edit(func() { s.draft.Category = id })
}

// AddTag appends the trimmed tag unless it is empty or already present.
func (s *Session) AddTag(tag string) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return
	}
	s.edit(func() {
		for _, t := range s.draft.Tags {
			if t == tag {
				return
			}
		}
		s.draft.Tags = append(s.draft.Tags, tag)
	})
}

// RemoveTag removes the exact tag from the draft.
func (s *Session) RemoveTag(tag string) {
	s.edit(func() {
		tags := s.draft.Tags[:0]
		for _, t := range s.draft.Tags {
			if t != tag {
				tags = append(tags, t)
			}
		}
		s.draft.Tags = tags
	})
}

// Draft returns a copy of the current draft.
func (s *Session) Draft() Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.draft
	d.Tags = append([]string(nil), s.draft.Tags...)
	return d
}

// Note returns the persisted note the draft is measured against, or nil
// when nothing is selected.
func (s *Session) Note() *note.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.persisted == nil {
		return nil
	}
	return s.persisted.Clone()
}

// Dirty reports whether any draft field differs from the persisted note.
func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirtyLocked()
}

// Flush commits a dirty draft immediately, superseding any pending timer.
func (s *Session) Flush() {
	s.mu.Lock()
	s.cancelTimerLocked()
	s.mu.Unlock()
	s.save()
}

// Close cancels any pending autosave without committing it.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelTimerLocked()
}

// edit applies a draft mutation and (re)arms the autosave timer. Each edit
// within the quiet period resets the timer, so exactly one save fires per
// quiet period (trailing edge).
func (s *Session) edit(mutate func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.persisted == nil {
		return
	}
	mutate()
	s.cancelTimerLocked()
	s.timer = time.AfterFunc(s.debounce, s.save)
}

// save commits the full draft through the store. A clean draft is left
// untouched; any commit refreshes the persisted snapshot.
func (s *Session) save() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.persisted == nil || !s.dirtyLocked() {
		return
	}

	tags := append([]string(nil), s.draft.Tags...)
	updated, err := s.store.Update(s.persisted.ID, store.UpdateInput{
		Title:       &s.draft.Title,
		Content:     &s.draft.Content,
		HTMLContent: &s.draft.HTMLContent,
		Category:    &s.draft.Category,
		Tags:        &tags,
	})
	if err != nil {
		// The note vanished underneath the draft (deleted elsewhere);
		// nothing to commit to.
		return
	}
	s.persisted = updated
}

// dirtyLocked compares draft and persisted fields; tags compare by
// serialized form, so order matters. Caller holds the lock.
func (s *Session) dirtyLocked() bool {
	if s.persisted == nil {
		return false
	}
	if s.draft.Title != s.persisted.Title ||
		s.draft.Content != s.persisted.Content ||
		s.draft.HTMLContent != s.persisted.HTMLContent ||
		s.draft.Category != s.persisted.Category {
		return true
	}
	return marshalTags(s.draft.Tags) != marshalTags(s.persisted.Tags)
}

// marshalTags serializes a tag list for order-sensitive comparison,
// treating nil and empty as the same list.
func marshalTags(tags []string) string {
	if tags == nil {
		tags = []string{}
	}
	b, _ := json.Marshal(tags)
	return string(b)
}

// cancelTimerLocked stops a pending autosave. Caller holds the lock.
func (s *Session) cancelTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
