package store

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"jotter/internal/errors"
	"jotter/internal/note"
)

// RestoreMode controls collision behavior when restoring an archive.
type RestoreMode string

const (
	RestoreModeError   RestoreMode = "error"   // default: fail on id collision
	RestoreModeReplace RestoreMode = "replace" // overwrite existing notes
)

// ArchiveHeader is the first line of a JSONL archive.
type ArchiveHeader struct {
	JotterArchive bool            `json:"_jotter_archive"`
	SchemaVersion string          `json:"schema_version"`
	ExportedAt    time.Time       `json:"exported_at"`
	Categories    []note.Category `json:"categories,omitempty"`
}

// RestoreResult summarizes an archive restore.
type RestoreResult struct {
	Imported int `json:"imported"`
	Replaced int `json:"replaced"`
}

// archiveSchemaVersion is bumped when the record shape changes.
const archiveSchemaVersion = "1.0"

// WriteArchive streams the whole collection as JSONL: a header line
// carrying the category list, then one note record per line. Returns the
// number of note records written.
func (s *Store) WriteArchive(w io.Writer) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	enc := json.NewEncoder(w)
	header := ArchiveHeader{
		JotterArchive: true,
		SchemaVersion: archiveSchemaVersion,
		ExportedAt:    time.Now(),
		Categories:    s.categories,
	}
	if err := enc.Encode(header); err != nil {
		return 0, errors.NewInternal(err)
	}

	count := 0
	for _, n := range s.notes {
		if err := enc.Encode(n); err != nil {
			return count, errors.NewInternal(err)
		}
		count++
	}
	return count, nil
}

// RestoreArchive reads a JSONL archive produced by WriteArchive and merges
// its notes into the collection. Existing ids either abort the restore
// (mode:error, nothing is applied) or are overwritten (mode:replace). The
// collection is re-sorted newest-created-first afterwards.
func (s *Store) RestoreArchive(r io.Reader, mode RestoreMode) (*RestoreResult, error) {
	if mode == "" {
		mode = RestoreModeError
	}
	if mode != RestoreModeError && mode != RestoreModeReplace {
		return nil, errors.NewInvalidRequest("mode must be one of: error, replace")
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	if !scanner.Scan() {
		return nil, errors.NewInvalidRequest("archive is empty")
	}
	var header ArchiveHeader
	if err := json.Unmarshal(scanner.Bytes(), &header); err != nil || !header.JotterArchive {
		return nil, errors.NewInvalidRequest("not a jotter archive (missing header line)")
	}

	var incoming []*note.Note
	line := 1
	for scanner.Scan() {
		line++
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var n note.Note
		if err := json.Unmarshal(scanner.Bytes(), &n); err != nil {
			return nil, errors.NewInvalidRequest(fmt.Sprintf("line %d: malformed note record", line))
		}
		if n.ID == "" {
			return nil, errors.NewInvalidRequest(fmt.Sprintf("line %d: note record missing id", line))
		}
		incoming = append(incoming, &n)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Validate collisions up front so mode:error applies nothing.
	if mode == RestoreModeError {
		for _, n := range incoming {
			if s.find(n.ID) != nil {
				return nil, errors.NewArchiveConflict(n.ID)
			}
		}
	}

	result := &RestoreResult{}
	for _, n := range incoming {
		n.Tags = note.DedupeTags(n.Tags)
		if existing := s.find(n.ID); existing != nil {
			*existing = *n
			result.Replaced++
			continue
		}
		s.notes = append(s.notes, n)
		result.Imported++
	}
	s.sortNewestFirst()
	s.persistNotes()

	return result, nil
}
