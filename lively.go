// Package lively implements a content-addressed object store: a small
// runtime that represents heterogeneous in-memory values as reference
// counted "objects", serializes them to a pluggable backing store keyed
// by their cryptographic hash, and lazily rehydrates them on demand.
package lively

import (
	"bytes"
	"fmt"

	"github.com/pkg/errors"
)

// Sentinel errors surfaced by the engine. Wrap with WithStack at the point
// of origin so StackTrace has something to print; test with errors.Is.
var (
	ErrAllocationFailed     = errors.New("lively: allocation failed")
	ErrImmutabilityViolated = errors.New("lively: immutable container given mutable element")
	ErrStoreIO              = errors.New("lively: store I/O failure")
	ErrUnknownType          = errors.New("lively: unknown type name")
	ErrCorruptEncoding      = errors.New("lively: corrupt structured encoding")
)

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// WithStack attaches a stack trace to err the first time it crosses a
// package boundary. Calling it again on an error that already carries one
// is a no-op, so callers don't need to track whether a wrap already ran.
func WithStack(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(stackTracer); !ok {
		return errors.WithStack(err)
	}
	return err
}

// StackTrace renders err's stack trace, or the empty string if it has none.
func StackTrace(err error) string {
	buf := &bytes.Buffer{}
	if err, ok := err.(stackTracer); ok {
		for _, f := range err.StackTrace() {
			fmt.Fprintf(buf, "%+v\n", f)
		}
	}
	return buf.String()
}

// Set is a minimal generic set built on a map, with no general-purpose
// collections dependency.
type Set[K comparable] map[K]struct{}

// NewSet builds a Set containing ks.
func NewSet[K comparable](ks ...K) Set[K] {
	s := make(Set[K], len(ks))
	for _, k := range ks {
		s[k] = struct{}{}
	}
	return s
}

func (s Set[K]) Add(k K) {
	s[k] = struct{}{}
}

func (s Set[K]) Has(k K) bool {
	_, found := s[k]
	return found
}

func (s Set[K]) Del(k K) {
	delete(s, k)
}
