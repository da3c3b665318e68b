package object

import (
	"unsafe"

	"github.com/pkg/errors"
	"github.com/zond/lively"
)

// Object is the uniform handle described in spec.md §3: a reference count,
// a type pointer, an optional in-memory payload, an optional cached hash, an
// optional binding to a context, and a "persisted" flag.
//
// Concurrency contract (spec §5, SPEC_FULL.md §9.4): single actor per object
// graph. Retain, Release, Data, SetData, Store, Cache and DeleteCache are not
// safe to call concurrently on the same Object from multiple goroutines; no
// internal lock is taken. An embedding application that needs concurrent
// access must provide its own synchronization per object graph.
type Object struct {
	typ       *Type
	rCount    int
	data      any
	hash      string
	persisted bool
	ctx       *Context
}

// Create authors a fresh object: rCount 1, the given payload, persisted
// false, no context, no hash. Returns ErrAllocationFailed if typ is nil.
func Create(typ *Type, data any) (*Object, error) {
	if typ == nil {
		return nil, lively.WithStack(lively.ErrAllocationFailed)
	}
	return &Object{typ: typ, rCount: 1, data: data}, nil
}

// CreateFromContext builds a lazily-paged object: persisted true, no
// resident data, bound to ctx, identified by hash. hash may be empty only
// transiently; an object with absent data must have both ctx and hash to be
// recoverable (spec §3's invariant).
func CreateFromContext(ctx *Context, typ *Type, hash string) (*Object, error) {
	if typ == nil {
		return nil, lively.WithStack(lively.ErrAllocationFailed)
	}
	return &Object{
		typ:       typ,
		rCount:    1,
		ctx:       ctx,
		hash:      hash,
		persisted: true,
	}, nil
}

// Type returns o's type descriptor.
func (o *Object) Type() *Type { return o.typ }

// Immutable reports whether o's type is immutable.
func (o *Object) Immutable() bool { return o.typ.Immutable }

// ImmutableAll reports whether every object in objs is immutable, used to
// enforce the immutable-container invariant (spec §4.7).
func ImmutableAll(objs []*Object) bool {
	for _, o := range objs {
		if !o.Immutable() {
			return false
		}
	}
	return true
}

// Context returns o's bound context, or nil if o was authored and never
// stored.
func (o *Object) Context() *Context { return o.ctx }

// Persisted reports the engine's belief that the current payload is
// faithfully written under Hash() in Context().Store.
func (o *Object) Persisted() bool { return o.persisted }

// CachedHash returns the hash memoized on o, or "" if none has been
// computed or assigned yet. It never triggers computation; use Hash(o) for
// that.
func (o *Object) CachedHash() string { return o.hash }

// RetainCount returns the current reference count.
func (o *Object) RetainCount() int { return o.rCount }

// Retain increments the reference count and returns o, so retain/assign can
// be chained the way the C API's objectRetain does.
func (o *Object) Retain() *Object {
	o.rCount++
	return o
}

// Release decrements the reference count. At zero it tears down the
// payload via the type's Dealloc hook (which is responsible for releasing
// any child objects it owns) and returns nil; otherwise it returns o.
// Double-releasing an already-freed Object is undefined, exactly as in the
// source this is translated from.
func (o *Object) Release() *Object {
	o.rCount--
	if o.rCount == 0 {
		o.deallocData()
		return nil
	}
	return o
}

func (o *Object) deallocData() {
	if o.data != nil {
		if o.typ.Dealloc != nil {
			o.typ.Dealloc(o)
		}
		o.data = nil
	}
}

// RawData returns the resident payload without paging it in, or nil if
// data has been evicted or never loaded. Most callers want Data instead.
func (o *Object) RawData() any { return o.data }

// SetData replaces o's resident payload directly. Exported for use by the
// container/leaf type implementations that build their own data shape; it
// does not touch persisted or hash, since mutating data is what invalidates
// them (the caller is expected to rely on the persistence engine's own
// staleness check on the next Store call, per spec §4.6).
func (o *Object) SetData(data any) { o.data = data }

// Data returns the resident payload, transparently paging it in via Cache
// if it is currently absent.
func (o *Object) Data() (any, error) {
	if o.data == nil {
		if err := Cache(o); err != nil {
			return nil, err
		}
	}
	return o.data, nil
}

// Compare implements the polymorphic comparator (spec §4.2). A nil operand
// is always Smaller than a non-nil one; two nils compare Equal.
func Compare(a, b *Object) Ordering {
	if a == nil && b == nil {
		return Equal
	}
	if a == nil {
		return Smaller
	}
	if b == nil {
		return Greater
	}
	if a.typ.Compare != nil {
		return a.typ.Compare(a, b)
	}
	if a == b {
		return Equal
	}
	if uintptr(unsafe.Pointer(a)) > uintptr(unsafe.Pointer(b)) {
		return Greater
	}
	return Smaller
}

var errNotRecoverable = errors.New("lively: object has no data and cannot be paged in (missing context or hash)")

// recoverable reports whether a data-less object can page itself back in.
func (o *Object) recoverable() bool {
	return o.ctx != nil && o.hash != ""
}
