// Package store implements the store adapter (spec §4/§6): a narrow
// capability providing write/read/delete streams keyed by (type name, hash),
// parameterized by an opaque cookie. The engine in package object never
// knows what's behind a Store; it only opens and closes the streams this
// interface hands back.
//
// The file-system backend's directory layout and path manipulation are out
// of spec scope (spec §1); TkrzwStore below is a flat, single-file-per-
// database adapter with no sharding or path splitting of its own, so it
// sidesteps that scope rather than half-implementing it.
package store

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/estraier/tkrzw-go"
	"github.com/pkg/errors"
	"github.com/zond/lively"
)

// Store is the capability the persistence engine consumes. TypeName and
// Hash together form the key; the engine closes every stream it opens.
type Store interface {
	Write(typeName, hash string) (io.WriteCloser, error)
	Read(typeName, hash string) (io.ReadCloser, error)
	Delete(typeName, hash string) error
}

func key(typeName, hash string) string {
	return typeName + "\x00" + hash
}

// commitWriter buffers everything written to it and hands the buffered bytes
// to commit on Close (committing them into the backing map or database).
type commitWriter struct {
	buf    bytes.Buffer
	commit func([]byte) error
}

func (w *commitWriter) Write(p []byte) (int, error) { return w.buf.Write(p) }
func (w *commitWriter) Close() error                { return w.commit(w.buf.Bytes()) }

// MemStore is an in-process Store backed by a map. It is the reference
// adapter used by tests and by callers embedding the engine without wanting
// a real backing file; every entry lives only as long as the process.
type MemStore struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{entries: map[string][]byte{}}
}

var _ Store = (*MemStore)(nil)

func (m *MemStore) Write(typeName, hash string) (io.WriteCloser, error) {
	k := key(typeName, hash)
	return &commitWriter{
		commit: func(b []byte) error {
			cp := make([]byte, len(b))
			copy(cp, b)
			m.mu.Lock()
			defer m.mu.Unlock()
			m.entries[k] = cp
			return nil
		},
	}, nil
}

func (m *MemStore) Read(typeName, hash string) (io.ReadCloser, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, found := m.entries[key(typeName, hash)]
	if !found {
		return nil, lively.WithStack(errors.Wrapf(lively.ErrStoreIO, "no entry for type %q hash %q", typeName, hash))
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (m *MemStore) Delete(typeName, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key(typeName, hash))
	return nil
}

// Len reports how many entries are currently stored. Exposed mainly so
// tests can assert exactly how many physical writes a scenario produced
// (spec §8, "exactly one physical write").
func (m *MemStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Has reports whether an entry exists for (typeName, hash), without
// consuming a read stream.
func (m *MemStore) Has(typeName, hash string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, found := m.entries[key(typeName, hash)]
	return found
}

// TkrzwStore is a Store backed by a single tkrzw hash database, keyed by
// (type name, hash). Grounded on storage/dbm.go's Hash: same update mode
// (UPDATE_APPENDING) so writes are atomic at the adapter level without the
// engine needing to know or care.
type TkrzwStore struct {
	mu  sync.RWMutex
	dbm *tkrzw.DBM
}

var _ Store = (*TkrzwStore)(nil)

// OpenTkrzwStore opens (creating if necessary) a tkrzw hash database at
// path+".tkh", matching dbm.OpenHash's file-naming convention.
func OpenTkrzwStore(path string) (*TkrzwStore, error) {
	dbm := tkrzw.NewDBM()
	stat := dbm.Open(fmt.Sprintf("%s.tkh", path), true, map[string]string{
		"update_mode":      "UPDATE_APPENDING",
		"record_comp_mode": "RECORD_COMP_NONE",
		"restore_mode":     "RESTORE_SYNC|RESTORE_NO_SHORTCUTS|RESTORE_WITH_HARDSYNC",
	})
	if !stat.IsOK() {
		return nil, lively.WithStack(stat)
	}
	return &TkrzwStore{dbm: dbm}, nil
}

// Close closes the underlying database file.
func (t *TkrzwStore) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if stat := t.dbm.Close(); !stat.IsOK() {
		return lively.WithStack(stat)
	}
	return nil
}

func (t *TkrzwStore) Write(typeName, hash string) (io.WriteCloser, error) {
	k := key(typeName, hash)
	return &commitWriter{
		commit: func(b []byte) error {
			t.mu.Lock()
			defer t.mu.Unlock()
			if stat := t.dbm.Set(k, b, true); !stat.IsOK() {
				return lively.WithStack(stat)
			}
			return nil
		},
	}, nil
}

func (t *TkrzwStore) Read(typeName, hash string) (io.ReadCloser, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	b, stat := t.dbm.Get(key(typeName, hash))
	if stat.GetCode() == tkrzw.StatusNotFoundError {
		return nil, lively.WithStack(errors.Wrapf(lively.ErrStoreIO, "no entry for type %q hash %q", typeName, hash))
	} else if !stat.IsOK() {
		return nil, lively.WithStack(stat)
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (t *TkrzwStore) Delete(typeName, hash string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if stat := t.dbm.Remove(key(typeName, hash)); !stat.IsOK() && stat.GetCode() != tkrzw.StatusNotFoundError {
		return lively.WithStack(stat)
	}
	return nil
}
