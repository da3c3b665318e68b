package engineaudit

import (
	"bufio"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func readEntries(t *testing.T, path string) []Entry {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		t.Fatal(err)
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		var entry Entry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("failed to parse audit line %q: %v", line, err)
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		t.Fatal(err)
	}
	return entries
}

func filterByEvent(entries []Entry, event string) []Entry {
	var out []Entry
	for _, e := range entries {
		if e.Event == event {
			out = append(out, e)
		}
	}
	return out
}

func TestRecordWritesOneEntryPerCall(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "audit.log")
	l := New(path)

	l.Record(EventStore, "String", "h1", nil)
	l.Record(EventCache, "Array", "h2", nil)
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}

	entries := readEntries(t, path)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Event != EventStore || entries[0].TypeName != "String" || entries[0].Hash != "h1" {
		t.Fatalf("unexpected first entry: %+v", entries[0])
	}
	if entries[1].Event != EventCache || entries[1].TypeName != "Array" || entries[1].Hash != "h2" {
		t.Fatalf("unexpected second entry: %+v", entries[1])
	}
}

func TestRecordCapturesErrorText(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "audit.log")
	l := New(path)

	l.Record(EventError, "Data", "h3", errors.New("boom"))
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}

	entries := filterByEvent(readEntries(t, path), EventError)
	if len(entries) != 1 {
		t.Fatalf("expected 1 error entry, got %d", len(entries))
	}
	if entries[0].Err != "boom" {
		t.Fatalf("expected error text %q, got %q", "boom", entries[0].Err)
	}
}

func TestRecordOmitsErrWhenNil(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "audit.log")
	l := New(path)
	l.Record(EventStore, "String", "h1", nil)
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var generic map[string]any
	if err := json.Unmarshal(raw, &generic); err != nil {
		t.Fatal(err)
	}
	if _, found := generic["error"]; found {
		t.Fatalf("expected no \"error\" field on a successful entry, got %+v", generic)
	}
}

func TestRecordTimeIsRFC3339(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "audit.log")
	l := New(path)
	l.Record(EventStore, "String", "h1", nil)
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}

	entries := readEntries(t, path)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if _, err := time.Parse(time.RFC3339Nano, entries[0].Time); err != nil {
		t.Fatalf("expected RFC3339Nano time, got %q: %v", entries[0].Time, err)
	}
}

func TestNilLoggerRecordIsNoop(t *testing.T) {
	var l *Logger
	// Must not panic; a nil *Logger is a valid, inert receiver so callers
	// never need an "if Audit != nil" guard at every call site.
	l.Record(EventStore, "String", "h1", nil)
}
