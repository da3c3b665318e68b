package container

import (
	"github.com/zond/lively"
	"github.com/zond/lively/object"
)

const (
	keyGroup   = "key"
	valueGroup = "value"
)

type keyValueData struct {
	key   *object.Object
	value *object.Object
}

// KeyValueType is an immutable composite pairing one key object with one
// value object, each persisted as its own one-element child group.
var KeyValueType = &object.Type{
	Name:      "KeyValue",
	Immutable: true,
	Format:    object.FormatStructured,
	InitData: func() any {
		return &keyValueData{}
	},
	Dealloc: func(o *object.Object) {
		d := o.RawData().(*keyValueData)
		if d.key != nil {
			d.key.Release()
		}
		if d.value != nil {
			d.value.Release()
		}
	},
	WalkChildren: func(o *object.Object, emit object.Emit) {
		d := o.RawData().(*keyValueData)
		emit(keyGroup, []*object.Object{d.key})
		emit(valueGroup, []*object.Object{d.value})
	},
	StoreChildren: func(o *object.Object, key string, children []*object.Object) error {
		d := o.RawData().(*keyValueData)
		if len(children) != 1 {
			return lively.WithStack(lively.ErrCorruptEncoding)
		}
		switch key {
		case keyGroup:
			d.key = children[0].Retain()
		case valueGroup:
			d.value = children[0].Retain()
		default:
			return lively.WithStack(lively.ErrCorruptEncoding)
		}
		return nil
	},
}

// NewKeyValue authors an immutable KeyValue pairing k and v. Both k and v
// must be immutable, matching the rest of the core types' immutability
// invariant (spec §4.7).
func NewKeyValue(k, v *object.Object) (*object.Object, error) {
	if !k.Immutable() || !v.Immutable() {
		return nil, lively.WithStack(lively.ErrImmutabilityViolated)
	}
	o, err := object.Create(KeyValueType, &keyValueData{key: k.Retain(), value: v.Retain()})
	if err != nil {
		return nil, err
	}
	return o, nil
}

// Key pages o in if necessary and returns the pair's key object.
func Key(o *object.Object) (*object.Object, error) {
	data, err := o.Data()
	if err != nil {
		return nil, err
	}
	return data.(*keyValueData).key, nil
}

// Value pages o in if necessary and returns the pair's value object.
func Value(o *object.Object) (*object.Object, error) {
	data, err := o.Data()
	if err != nil {
		return nil, err
	}
	return data.(*keyValueData).value, nil
}
