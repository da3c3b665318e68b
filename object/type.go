// Package object implements the polymorphic type vtable, the context that
// dispatches type names on read-back, the reference-counted object handle,
// the recursive serialize/deserialize protocol, the hash-based identity
// protocol, and the persistence engine that moves objects between RAM and a
// pluggable store. This is the core described in spec.md §4.
package object

import "io"

// UnnamedType is the sentinel display name used when a Type carries no
// Name, mirroring original_source/LCCore.c's LCUnnamedObject constant.
const UnnamedType = "Unnamed"

// Format documents a type's intended wire shape. It is informational: the
// engine actually decides binary-vs-structured by which hooks are non-nil
// (see Type.BinarySerialized), exactly as typeBinarySerialized does in the
// original source.
type Format int

const (
	// FormatStructured types serialize via WalkChildren into the keyed
	// child-group mapping (spec §4.3).
	FormatStructured Format = iota
	// FormatBinary types serialize their own bytes directly.
	FormatBinary
)

// Emit is the callback a Type's WalkChildren hook invokes once per named
// child group, in emission order. Ordering here is what ends up in the
// hash (spec §5, "Ordering"), so a WalkChildren implementation must visit
// groups and children in a deterministic order for a given logical state.
type Emit func(key string, children []*Object)

// Type is the immutable, statically-allocated descriptor for one logical
// object type: its name, mutability, serialization style, and the set of
// optional hooks the engine calls into. At least one of SerializeData,
// SerializeDataBuffered, or WalkChildren must be set (spec §3).
type Type struct {
	// Name is the display/wire name. Empty means UnnamedType.
	Name string
	// Immutable objects of this type never change after construction;
	// their hash, once computed, is memoized forever (spec §3).
	Immutable bool
	// Format documents the intended wire shape; see Format's doc comment.
	Format Format

	// InitData allocates the empty in-memory payload before a structured
	// deserialization populates it via StoreChildren.
	InitData func() any
	// Dealloc tears down data, releasing any child Objects it owns. Called
	// when an Object's reference count reaches zero, and by DeleteCache when
	// it evicts a resident payload.
	Dealloc func(o *Object)
	// Compare produces a total order between two same-type objects. If
	// nil, the engine falls back to identity/pointer ordering (spec §4.2).
	Compare func(a, b *Object) Ordering

	// SerializeData writes the type's raw bytes in one shot. Mutually
	// exclusive in practice with SerializeDataBuffered; if both are set,
	// SerializeDataBuffered takes precedence (matches the original's
	// hook-priority order in objectSerializeWithCompositeParam).
	SerializeData func(o *Object, w io.Writer) error
	// SerializeDataBuffered writes the type's raw bytes in fixed-size
	// windows to w, returning how many bytes were written this call. The
	// engine keeps calling with increasing offsets until a call returns
	// fewer bytes than the window size it was asked to fill.
	SerializeDataBuffered func(o *Object, offset int64, window int, w io.Writer) (n int, err error)
	// DeserializeData reconstructs data from a binary leaf's own stream.
	DeserializeData func(o *Object, r io.Reader) (any, error)

	// WalkChildren visits every named child group this object owns, in
	// deterministic order, invoking emit once per group.
	WalkChildren func(o *Object, emit Emit)
	// StoreChildren installs a decoded child group back into data. It is
	// responsible for retaining whichever children it keeps; the engine
	// releases its own reference to every child immediately afterwards.
	StoreChildren func(o *Object, key string, children []*Object) error
}

// DisplayName returns t.Name, or UnnamedType if it's empty.
func (t *Type) DisplayName() string {
	if t.Name == "" {
		return UnnamedType
	}
	return t.Name
}

// BinarySerialized reports whether t serializes as an opaque binary leaf
// (spec §4.3's "binary leaf") rather than a structured composite.
func (t *Type) BinarySerialized() bool {
	return t.SerializeData != nil || t.SerializeDataBuffered != nil
}

// Ordering is the three-way result of Compare (spec §4.2).
type Ordering int

const (
	Smaller Ordering = -1
	Equal   Ordering = 0
	Greater Ordering = 1
)
