// Package storage provides the durable key-value port the note store
// persists through. Adapters surface their own read/write failures; the
// store treats anything unreadable as simply absent.
package storage

import (
	"crypto/rand"
	"encoding/hex"
	"os"
	"path/filepath"
	"sync"
)

// KV is the persistence port. Values are opaque serialized documents; the
// store uses one key for the note collection and one for the category list.
type KV interface {
	// Get returns the stored value for key, or ok=false when the value is
	// absent or unreadable.
	Get(key string) (value []byte, ok bool)

	// Set durably writes the value for key.
	Set(key string, value []byte) error

	// Close releases any underlying resources.
	Close() error
}

// FileKV stores each key as a JSON document file under a base directory.
type FileKV struct {
	baseDir string
}

// NewFileKV creates the base directory (0700) and returns a file-backed KV.
func NewFileKV(baseDir string) (*FileKV, error) {
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, err
	}
	_ = os.Chmod(baseDir, 0700)
	return &FileKV{baseDir: baseDir}, nil
}

func (f *FileKV) path(key string) string {
	return filepath.Join(f.baseDir, key+".json")
}

// Get reads the document for key. Missing or unreadable files report absent.
func (f *FileKV) Get(key string) ([]byte, bool) {
	data, err := os.ReadFile(f.path(key))
	if err != nil {
		return nil, false
	}
	return data, true
}

// Set writes the document to a temp file and renames it into place so a
// crash mid-write preserves the previous value.
func (f *FileKV) Set(key string, value []byte) error {
	randBytes := make([]byte, 8)
	if _, err := rand.Read(randBytes); err != nil {
		return err
	}
	target := f.path(key)
	tempPath := target + "." + hex.EncodeToString(randBytes) + ".tmp"
	if err := os.WriteFile(tempPath, value, 0600); err != nil {
		return err
	}
	if err := os.Rename(tempPath, target); err != nil {
		os.Remove(tempPath)
		return err
	}
	return nil
}

// Close is a no-op for the file adapter.
func (f *FileKV) Close() error { return nil }

// MemKV is an in-memory KV for tests and ephemeral sessions.
type MemKV struct {
	mu   sync.Mutex
	data map[string][]byte
}

// NewMemKV returns an empty in-memory KV.
func NewMemKV() *MemKV {
	return &MemKV{data: make(map[string][]byte)}
}

func (m *MemKV) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), v...), true
}

func (m *MemKV) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *MemKV) Close() error { return nil }
