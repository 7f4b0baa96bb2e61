package session

import (
	"testing"
	"time"

	"jotter/internal/note"
	"jotter/internal/storage"
	"jotter/internal/store"
)

// testDebounce is short enough to keep the suite fast but long enough to
// observe the quiet-period behavior reliably.
const testDebounce = 50 * time.Millisecond

func setup(t *testing.T) (*store.Store, *Session, *note.Note) {
	t.Helper()
	st := store.Open(storage.NewMemKV())
	t.Cleanup(func() { st.Close() })

	n, err := st.Create()
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	sess := New(st, testDebounce)
	t.Cleanup(sess.Close)
	if err := sess.Select(n.ID); err != nil {
		t.Fatalf("Select: %v", err)
	}
	return st, sess, n
}

func waitForSave() { time.Sleep(3 * testDebounce) }

func TestSelect_SeedsDraft(t *testing.T) {
	_, sess, n := setup(t)

	d := sess.Draft()
	if d.Title != n.Title || d.Category != n.Category {
		t.Errorf("draft = %+v, want seeded from %+v", d, n)
	}
	if sess.Dirty() {
		t.Error("freshly selected draft must be clean")
	}
}

func TestEdit_AutosavesAfterQuietPeriod(t *testing.T) {
	st, sess, n := setup(t)

	sess.SetTitle("Edited")
	if !sess.Dirty() {
		t.Error("draft should be dirty immediately after the edit")
	}

	waitForSave()

	got, _ := st.Get(n.ID)
	if got.Title != "Edited" {
		t.Errorf("Title = %q, autosave did not commit", got.Title)
	}
	if sess.Dirty() {
		t.Error("draft should be clean after autosave")
	}
}

func TestEdit_LaterEditSupersedesEarlier(t *testing.T) {
	st, sess, n := setup(t)

	sess.SetTitle("One")
	time.Sleep(testDebounce / 2)
	sess.SetTitle("Two")

	// Still inside the (rescheduled) quiet period.
	time.Sleep(testDebounce / 4)
	got, _ := st.Get(n.ID)
	if got.Title != note.DefaultTitle {
		t.Errorf("Title = %q; saved before the quiet period elapsed", got.Title)
	}

	waitForSave()
	got, _ = st.Get(n.ID)
	if got.Title != "Two" {
		t.Errorf("Title = %q, want the last edit", got.Title)
	}
}

func TestSave_CommitsFullDraft(t *testing.T) {
	st, sess, n := setup(t)

	sess.SetTitle("Full")
	sess.SetContent("plain", "<p>plain</p>")
	sess.SetCategory("2")
	sess.AddTag("work")

	waitForSave()

	got, _ := st.Get(n.ID)
	if got.Title != "Full" || got.Content != "plain" || got.HTMLContent != "<p>plain</p>" {
		t.Errorf("saved note = %+v", got)
	}
	if got.Category != "2" || got.Color != "#8B5CF6" {
		t.Errorf("category/color = %q/%q", got.Category, got.Color)
	}
	if len(got.Tags) != 1 || got.Tags[0] != "work" {
		t.Errorf("tags = %v", got.Tags)
	}
}

func TestCleanDraft_DoesNotSave(t *testing.T) {
	st, sess, n := setup(t)

	// Re-assert the current value; the draft stays clean.
	sess.SetTitle(n.Title)
	if sess.Dirty() {
		t.Error("identical value must not mark the draft dirty")
	}

	waitForSave()

	got, _ := st.Get(n.ID)
	if !got.UpdatedAt.Equal(n.UpdatedAt) {
		t.Error("clean draft was committed; UpdatedAt moved")
	}
}

func TestTags(t *testing.T) {
	_, sess, _ := setup(t)

	sess.AddTag("  work  ")
	sess.AddTag("work") // duplicate
	sess.AddTag("")
	sess.AddTag("home")
	sess.RemoveTag("home")

	d := sess.Draft()
	if len(d.Tags) != 1 || d.Tags[0] != "work" {
		t.Errorf("tags = %v, want [work]", d.Tags)
	}
}

func TestSelect_DiscardsUnsavedDraft(t *testing.T) {
	st, sess, n := setup(t)
	other, _ := st.Create()

	sess.SetTitle("Never Saved")
	if err := sess.Select(other.ID); err != nil {
		t.Fatalf("Select: %v", err)
	}

	waitForSave()

	got, _ := st.Get(n.ID)
	if got.Title != note.DefaultTitle {
		t.Errorf("Title = %q; discarded draft leaked into the store", got.Title)
	}
	if d := sess.Draft(); d.Title != other.Title {
		t.Errorf("draft = %+v, want seeded from the new selection", d)
	}
}

func TestFlush_SavesImmediately(t *testing.T) {
	st, sess, n := setup(t)

	sess.SetTitle("Flushed")
	sess.Flush()

	got, _ := st.Get(n.ID)
	if got.Title != "Flushed" {
		t.Errorf("Title = %q, Flush did not commit", got.Title)
	}
}

func TestClose_CancelsPendingSave(t *testing.T) {
	st, sess, n := setup(t)

	sess.SetTitle("Abandoned")
	sess.Close()

	waitForSave()

	got, _ := st.Get(n.ID)
	if got.Title != note.DefaultTitle {
		t.Errorf("Title = %q; Close must cancel, not commit", got.Title)
	}
}

func TestDeselect(t *testing.T) {
	st, sess, _ := setup(t)

	sess.Deselect()

	if st.Selected() != nil {
		t.Error("store selection survived Deselect")
	}
	if sess.Note() != nil {
		t.Error("session still reports a persisted note")
	}

	// Edits without a selection are ignored.
	sess.SetTitle("nowhere")
	if sess.Dirty() {
		t.Error("draft dirty with no selection")
	}
}

func TestEditedNoteDeletedUnderneath(t *testing.T) {
	st, sess, n := setup(t)

	sess.SetTitle("Orphan")
	st.Delete(n.ID)

	// The pending save finds nothing to commit to and gives up quietly.
	waitForSave()
	if st.Len() != 0 {
		t.Errorf("Len = %d, want 0", st.Len())
	}
}
