// Package engineaudit implements structured logging of persistence-engine
// events (store, cache, deleteCache and their failures) to a rotating log
// file. It is pure ambient infrastructure: the object-model engine in
// package object works the same with or without a Logger wired in.
//
// Grounded on storage/audit.go's AuditLogger: encoding/json over a
// lumberjack rotating writer.
package engineaudit

import (
	"encoding/json"
	"io"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Event names recorded by the engine.
const (
	EventStore       = "store"
	EventStoreSkip   = "store_skip" // names an already-persisted, no-op store; package object does not emit it and records such calls as EventStore
	EventCache       = "cache"
	EventDeleteCache = "delete_cache"
	EventError       = "error"
)

// Entry is a single structured audit line.
type Entry struct {
	Time     string `json:"time"`
	Event    string `json:"event"`
	TypeName string `json:"type"`
	Hash     string `json:"hash,omitempty"`
	Err      string `json:"error,omitempty"`
}

// Logger writes Entry values as newline-delimited JSON to a rotating file.
type Logger struct {
	mu  sync.Mutex
	enc *json.Encoder
	out io.WriteCloser
}

// New opens a Logger writing to path, rotated by lumberjack the same way
// AuditLogger does: 100MB per file, 10 backups, 365 days, gzip compressed.
func New(path string) *Logger {
	w := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    100,
		MaxBackups: 10,
		MaxAge:     365,
		Compress:   true,
	}
	return &Logger{out: w, enc: json.NewEncoder(w)}
}

// Close closes the underlying rotating writer.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.out.Close()
}

// Record writes one structured event. A nil Logger is valid and a no-op, so
// callers can thread a possibly-unset *Logger through the engine without a
// nil check at every call site.
func (l *Logger) Record(event, typeName, hash string, err error) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	entry := Entry{
		Time:     time.Now().UTC().Format(time.RFC3339Nano),
		Event:    event,
		TypeName: typeName,
		Hash:     hash,
	}
	if err != nil {
		entry.Err = err.Error()
	}
	// Best effort: an audit-log write failure must never fail the engine
	// operation it is describing.
	_ = l.enc.Encode(entry)
}
