package object

import (
	"github.com/zond/lively"
	"github.com/zond/lively/engineaudit"
)

// Audit, if set, receives a structured entry for every Store and
// StoreAsComposite call, every Cache call that reads from the store or
// fails, and every DeleteCache call that evicts a payload made through this
// package. It is ambient infrastructure
// (SPEC_FULL.md §2); nil (the default) disables it entirely.
var Audit *engineaudit.Logger

// Store persists o under ctx in reference mode: children are written as
// separate store entries, linked by hash (spec §4.6).
func Store(o *Object, ctx *Context) error {
	err := storeWithMode(o, ctx, false)
	recordStore(o, err)
	return err
}

// StoreAsComposite persists o under ctx in composite mode: children are
// embedded inline in o's own entry; no separate entries are written for
// them (spec §4.6).
func StoreAsComposite(o *Object, ctx *Context) error {
	err := storeWithMode(o, ctx, true)
	recordStore(o, err)
	return err
}

func recordStore(o *Object, err error) {
	if Audit == nil {
		return
	}
	event := engineaudit.EventStore
	if err != nil {
		event = engineaudit.EventError
	}
	Audit.Record(event, o.typ.DisplayName(), o.hash, err)
}

// StoreAll stores every object in objs under ctx in reference mode,
// supplementing the original's objectsStore (spec.md §4.6 only describes
// storing a single object; original_source/LCCore.c's objectsStore loops
// over a slice, so this is carried forward per SPEC_FULL.md §8).
func StoreAll(objs []*Object, ctx *Context) error {
	for _, o := range objs {
		if err := Store(o, ctx); err != nil {
			return err
		}
	}
	return nil
}

func storeWithMode(o *Object, ctx *Context, composite bool) error {
	var hash string

	if !o.typ.Immutable && o.persisted {
		h, err := Hash(o)
		if err != nil {
			return err
		}
		if h != o.hash {
			o.persisted = false
		}
		hash = h
	}

	if o.persisted {
		return nil
	}

	if hash == "" {
		h, err := Hash(o)
		if err != nil {
			return err
		}
		hash = h
	}

	w, err := ctx.Store.Write(o.typ.DisplayName(), hash)
	if err != nil {
		return lively.WithStack(err)
	}
	o.ctx = ctx

	var writeErr error
	if composite {
		writeErr = SerializeAsComposite(o, w)
	} else {
		writeErr = Serialize(o, w)
	}
	if writeErr != nil {
		w.Close()
		return writeErr
	}

	if !composite && o.typ.WalkChildren != nil {
		var walkErr error
		o.typ.WalkChildren(o, func(_ string, children []*Object) {
			if walkErr != nil {
				return
			}
			for _, child := range children {
				if err := Store(child, ctx); err != nil {
					walkErr = err
					return
				}
			}
		})
		if walkErr != nil {
			w.Close()
			return walkErr
		}
	}

	if err := w.Close(); err != nil {
		return lively.WithStack(err)
	}

	o.persisted = true
	if !o.typ.Immutable {
		o.hash = hash
	}
	return nil
}

// Cache pages o's payload back into RAM from its bound store, if absent. A
// no-op when data is already resident. Requires o to have both a context
// and a hash (spec §4.1).
func Cache(o *Object) error {
	if o.data != nil {
		return nil
	}
	if !o.recoverable() {
		Audit.Record(engineaudit.EventError, o.typ.DisplayName(), o.hash, errNotRecoverable)
		return lively.WithStack(errNotRecoverable)
	}
	r, err := o.ctx.Store.Read(o.typ.DisplayName(), o.hash)
	if err != nil {
		if Audit != nil {
			Audit.Record(engineaudit.EventError, o.typ.DisplayName(), o.hash, err)
		}
		return lively.WithStack(err)
	}
	defer r.Close()
	err = Deserialize(o, r)
	if Audit != nil {
		Audit.Record(engineaudit.EventCache, o.typ.DisplayName(), o.hash, err)
	}
	return err
}

// DeleteCache tears down o's resident payload (running the type's Dealloc
// hook) while keeping the envelope, hash, and context, making o pageable
// again. Valid only when o is persisted; otherwise it is a no-op, since
// there would be nowhere to page the data back in from (spec §4.1).
func DeleteCache(o *Object) {
	if !o.persisted {
		return
	}
	o.deallocData()
	if Audit != nil {
		Audit.Record(engineaudit.EventDeleteCache, o.typ.DisplayName(), o.hash, nil)
	}
}
