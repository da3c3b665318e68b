package container

import (
	"github.com/zond/lively"
	"github.com/zond/lively/object"
)

// dictEntryGroup is the single child group holding every live KeyValue pair,
// in insertion order; since a group's children keep their order on the wire,
// re-reading preserves iteration order.
const dictEntryGroup = "entries"

type mutableDictionaryData struct {
	// entries holds one KeyValue object per slot. A deleted slot is set to
	// nil rather than compacted, so indices stay stable across Delete
	// calls within a single in-memory session; Keys/Get/Set skip nils.
	entries []*object.Object
}

func (d *mutableDictionaryData) indexOf(find func(k *object.Object) (bool, error)) (int, error) {
	for i, kv := range d.entries {
		if kv == nil {
			continue
		}
		k, err := Key(kv)
		if err != nil {
			return -1, err
		}
		ok, err := find(k)
		if err != nil {
			return -1, err
		}
		if ok {
			return i, nil
		}
	}
	return -1, nil
}

// MutableDictionaryType is a mutable, map-like composite keyed by any
// comparable immutable object, implemented as an ordered list of KeyValue
// pairs under a single child group (spec §4.7, one of the six core types).
var MutableDictionaryType = &object.Type{
	Name:      "MutableDictionary",
	Immutable: false,
	Format:    object.FormatStructured,
	InitData: func() any {
		return &mutableDictionaryData{}
	},
	Dealloc: func(o *object.Object) {
		d := o.RawData().(*mutableDictionaryData)
		for _, kv := range d.entries {
			if kv != nil {
				kv.Release()
			}
		}
	},
	WalkChildren: func(o *object.Object, emit object.Emit) {
		d := o.RawData().(*mutableDictionaryData)
		var live []*object.Object
		for _, kv := range d.entries {
			if kv != nil {
				live = append(live, kv)
			}
		}
		emit(dictEntryGroup, live)
	},
	StoreChildren: func(o *object.Object, key string, children []*object.Object) error {
		if key != dictEntryGroup {
			return lively.WithStack(lively.ErrCorruptEncoding)
		}
		d := o.RawData().(*mutableDictionaryData)
		d.entries = make([]*object.Object, len(children))
		for i, c := range children {
			d.entries[i] = c.Retain()
		}
		return nil
	},
}

// NewMutableDictionary authors an empty MutableDictionary.
func NewMutableDictionary() (*object.Object, error) {
	return object.Create(MutableDictionaryType, &mutableDictionaryData{})
}

func mutableDictionaryPayload(o *object.Object) (*mutableDictionaryData, error) {
	data, err := o.Data()
	if err != nil {
		return nil, err
	}
	return data.(*mutableDictionaryData), nil
}

// keyEqual compares two immutable keys structurally via object.Compare.
func keyEqual(a, b *object.Object) (bool, error) {
	return object.Compare(a, b) == object.Equal, nil
}

// DictGet looks up key by structural equality (object.Compare), returning
// the paired value, or nil if no entry matches.
func DictGet(o *object.Object, key *object.Object) (*object.Object, error) {
	d, err := mutableDictionaryPayload(o)
	if err != nil {
		return nil, err
	}
	i, err := d.indexOf(func(k *object.Object) (bool, error) { return keyEqual(k, key) })
	if err != nil {
		return nil, err
	}
	if i < 0 {
		return nil, nil
	}
	return Value(d.entries[i])
}

// DictSet installs value under key, overwriting any existing pair with an
// equal key, or appending a new one. Both key and value must be immutable
// to build the underlying KeyValue pair.
func DictSet(o *object.Object, key, value *object.Object) error {
	d, err := mutableDictionaryPayload(o)
	if err != nil {
		return err
	}
	kv, err := NewKeyValue(key, value)
	if err != nil {
		return err
	}
	i, err := d.indexOf(func(k *object.Object) (bool, error) { return keyEqual(k, key) })
	if err != nil {
		return err
	}
	if i >= 0 {
		d.entries[i].Release()
		d.entries[i] = kv
		return nil
	}
	d.entries = append(d.entries, kv)
	return nil
}

// DictDelete removes the pair keyed by key, if present.
func DictDelete(o *object.Object, key *object.Object) error {
	d, err := mutableDictionaryPayload(o)
	if err != nil {
		return err
	}
	i, err := d.indexOf(func(k *object.Object) (bool, error) { return keyEqual(k, key) })
	if err != nil {
		return err
	}
	if i < 0 {
		return nil
	}
	d.entries[i].Release()
	d.entries[i] = nil
	return nil
}

// DictKeys returns every live key currently in o, in insertion order.
func DictKeys(o *object.Object) ([]*object.Object, error) {
	d, err := mutableDictionaryPayload(o)
	if err != nil {
		return nil, err
	}
	var keys []*object.Object
	for _, kv := range d.entries {
		if kv == nil {
			continue
		}
		k, err := Key(kv)
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, nil
}
