// Package fingerprint implements the hash protocol (spec §4.5): computing a
// stable, fixed-width digest of an object's canonical serialization.
//
// The hash primitive itself is treated as an opaque external collaborator —
// this package never implements a compression function or digest algorithm;
// it only streams bytes through a caller-supplied hash.Hash, the same way
// LCCore.c's createHashContext/updateHashContext/finalizeHashContext trio
// treats the digest as opaque to the core engine.
package fingerprint

import (
	"crypto/sha1"
	"encoding/hex"
	"hash"
	"io"
)

// Length is the fixed width H of a hex-encoded digest, a compile-time
// constant per spec §3 ("a compile-time constant such as 40 hex characters").
// sha1 produces a 160-bit digest, i.e. 40 hex characters.
const Length = 2 * sha1.Size

// Func constructs the hash.Hash used to fingerprint objects. Default is
// sha1.New; callers may supply their own, in which case the hex digest is
// Size()*2 characters wide and differs from Length when Size() differs from
// sha1.Size.
type Func func() hash.Hash

// Default is the hash constructor used when a caller doesn't supply one.
var Default Func = sha1.New

// Sink is an io.Writer that streams everything written to it into a hash
// context, accumulating a running fingerprint. It never touches a file or
// any other backing store; it exists purely so the engine can reuse its
// ordinary "serialize into a writer" code path to compute a hash.
type Sink struct {
	h hash.Hash
}

// NewSink opens a fresh hashing sink using fn, or Default if fn is nil.
func NewSink(fn Func) *Sink {
	if fn == nil {
		fn = Default
	}
	return &Sink{h: fn()}
}

var _ io.Writer = (*Sink)(nil)

func (s *Sink) Write(p []byte) (int, error) {
	return s.h.Write(p)
}

// Finalize returns the hex-encoded digest accumulated so far. The sink may
// continue to be written to afterwards; Finalize does not reset it.
func (s *Sink) Finalize() string {
	return hex.EncodeToString(s.h.Sum(nil))
}

// Of streams write's output through a fresh sink and returns the resulting
// hex digest. write must be deterministic for a given logical state, since
// the hash is only meaningful if structurally-equal inputs produce identical
// bytes (spec §5, "Ordering").
func Of(fn Func, write func(io.Writer) error) (string, error) {
	sink := NewSink(fn)
	if err := write(sink); err != nil {
		return "", err
	}
	return sink.Finalize(), nil
}
