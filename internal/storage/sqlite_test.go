package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSQLiteKV_SetGet(t *testing.T) {
	kv, err := OpenSQLiteKV(t.TempDir())
	if err != nil {
		t.Fatalf("OpenSQLiteKV: %v", err)
	}
	defer kv.Close()

	if _, ok := kv.Get("notes"); ok {
		t.Error("Get(missing) ok = true, want false")
	}

	if err := kv.Set("notes", []byte(`[]`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, ok := kv.Get("notes")
	if !ok || string(got) != `[]` {
		t.Errorf("Get = %q, %v", got, ok)
	}
}

func TestSQLiteKV_Upsert(t *testing.T) {
	kv, err := OpenSQLiteKV(t.TempDir())
	if err != nil {
		t.Fatalf("OpenSQLiteKV: %v", err)
	}
	defer kv.Close()

	if err := kv.Set("k", []byte("one")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := kv.Set("k", []byte("two")); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, _ := kv.Get("k")
	if string(got) != "two" {
		t.Errorf("Get = %q, want %q", got, "two")
	}
}

func TestSQLiteKV_PersistsAcrossReopen(t *testing.T) {
	tmpDir := t.TempDir()

	kv, err := OpenSQLiteKV(tmpDir)
	if err != nil {
		t.Fatalf("OpenSQLiteKV: %v", err)
	}
	if err := kv.Set("k", []byte("v")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := kv.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	kv2, err := OpenSQLiteKV(tmpDir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer kv2.Close()

	got, ok := kv2.Get("k")
	if !ok || string(got) != "v" {
		t.Errorf("Get after reopen = %q, %v", got, ok)
	}

	if _, err := os.Stat(filepath.Join(tmpDir, "jotter.db")); err != nil {
		t.Fatalf("database file missing: %v", err)
	}
}
