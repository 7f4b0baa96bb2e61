package store

import (
	"bytes"
	"strings"
	"testing"

	"jotter/internal/errors"
	"jotter/internal/storage"
)

func TestArchive_RoundTrip(t *testing.T) {
	src := openMem(t)
	a, _ := src.Create()
	_, _ = src.Update(a.ID, UpdateInput{Title: stringPtr("First"), Tags: tagsPtr("x")})
	b, _ := src.Create()
	_, _ = src.Update(b.ID, UpdateInput{Title: stringPtr("Second")})

	var buf bytes.Buffer
	count, err := src.WriteArchive(&buf)
	if err != nil {
		t.Fatalf("WriteArchive: %v", err)
	}
	if count != 2 {
		t.Fatalf("count = %d, want 2", count)
	}

	dst := openMem(t)
	result, err := dst.RestoreArchive(&buf, RestoreModeError)
	if err != nil {
		t.Fatalf("RestoreArchive: %v", err)
	}
	if result.Imported != 2 || result.Replaced != 0 {
		t.Errorf("result = %+v, want 2 imported", result)
	}

	notes := dst.Notes()
	if len(notes) != 2 {
		t.Fatalf("len = %d, want 2", len(notes))
	}
	// Newest-created-first is restored after the merge.
	if notes[0].ID != b.ID || notes[1].ID != a.ID {
		t.Error("restored collection is not newest-created-first")
	}

	got, _ := dst.Get(a.ID)
	if got.Title != "First" || len(got.Tags) != 1 {
		t.Errorf("restored note = %+v", got)
	}
}

func TestRestore_CollisionErrorAppliesNothing(t *testing.T) {
	src := openMem(t)
	existing, _ := src.Create()
	fresh, _ := src.Create()

	var buf bytes.Buffer
	if _, err := src.WriteArchive(&buf); err != nil {
		t.Fatalf("WriteArchive: %v", err)
	}

	dst := Open(storage.NewMemKV())
	defer dst.Close()
	// dst already holds one of the archived ids.
	restoreOne(t, dst, existing.ID)

	before := dst.Len()
	_, err := dst.RestoreArchive(&buf, RestoreModeError)
	if !errors.Is(err, errors.ErrArchiveConflict) {
		t.Fatalf("RestoreArchive error = %v, want ARCHIVE_CONFLICT", err)
	}
	if dst.Len() != before {
		t.Error("a failed restore must apply nothing")
	}
	if _, err := dst.Get(fresh.ID); err == nil {
		t.Error("non-colliding record was applied despite the conflict")
	}
}

// restoreOne seeds dst with a single-note archive carrying the given id.
func restoreOne(t *testing.T, dst *Store, id string) {
	t.Helper()
	archive := `{"_jotter_archive":true,"schema_version":"1.0"}` + "\n" +
		`{"id":"` + id + `","title":"Old","tags":[]}` + "\n"
	if _, err := dst.RestoreArchive(strings.NewReader(archive), RestoreModeError); err != nil {
		t.Fatalf("seed restore: %v", err)
	}
}

func TestRestore_ReplaceOverwrites(t *testing.T) {
	src := openMem(t)
	n, _ := src.Create()
	_, _ = src.Update(n.ID, UpdateInput{Title: stringPtr("New Title")})

	var buf bytes.Buffer
	if _, err := src.WriteArchive(&buf); err != nil {
		t.Fatalf("WriteArchive: %v", err)
	}

	dst := openMem(t)
	restoreOne(t, dst, n.ID)

	result, err := dst.RestoreArchive(&buf, RestoreModeReplace)
	if err != nil {
		t.Fatalf("RestoreArchive: %v", err)
	}
	if result.Replaced != 1 || result.Imported != 0 {
		t.Errorf("result = %+v, want 1 replaced", result)
	}

	got, _ := dst.Get(n.ID)
	if got.Title != "New Title" {
		t.Errorf("Title = %q, want overwritten", got.Title)
	}
	if dst.Len() != 1 {
		t.Errorf("Len = %d, want 1", dst.Len())
	}
}

func TestRestore_RejectsBadInput(t *testing.T) {
	st := openMem(t)

	cases := []struct {
		name string
		in   string
		mode RestoreMode
	}{
		{"empty", "", RestoreModeError},
		{"no header", `{"id":"x"}` + "\n", RestoreModeError},
		{"malformed record", `{"_jotter_archive":true}` + "\n" + "{bad json\n", RestoreModeError},
		{"record missing id", `{"_jotter_archive":true}` + "\n" + `{"title":"x"}` + "\n", RestoreModeError},
		{"unknown mode", `{"_jotter_archive":true}` + "\n", RestoreMode("merge")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := st.RestoreArchive(strings.NewReader(tc.in), tc.mode); !errors.Is(err, errors.ErrInvalidRequest) {
				t.Errorf("error = %v, want INVALID_REQUEST", err)
			}
		})
	}
}
