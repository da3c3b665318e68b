package container

import (
	"github.com/zond/lively"
	"github.com/zond/lively/object"
)

const elementGroup = "elements"

type arrayData struct {
	elements []*object.Object
}

// ArrayType is the immutable, fixed-length exemplar composite: an ordered
// list of objects, all serialized under one "elements" child group
// (original_source/LCArray.c's LCArray, spec §4.7's "detailed exemplar").
var ArrayType = &object.Type{
	Name:      "Array",
	Immutable: true,
	Format:    object.FormatStructured,
	InitData: func() any {
		return &arrayData{}
	},
	Dealloc: func(o *object.Object) {
		d := o.RawData().(*arrayData)
		for _, e := range d.elements {
			e.Release()
		}
	},
	// Compare mirrors arrayCompare in original_source/LCArray.c: it
	// compares only the element at index 0, not the whole array. Pages
	// both operands in first, the way the original's element accessors
	// (LCArrayObjectAtIndex) transparently do.
	Compare: func(a, b *object.Object) object.Ordering {
		adata, _ := a.Data()
		bdata, _ := b.Data()
		ad, _ := adata.(*arrayData)
		bd, _ := bdata.(*arrayData)
		if ad == nil {
			ad = &arrayData{}
		}
		if bd == nil {
			bd = &arrayData{}
		}
		var av, bv *object.Object
		if len(ad.elements) > 0 {
			av = ad.elements[0]
		}
		if len(bd.elements) > 0 {
			bv = bd.elements[0]
		}
		return object.Compare(av, bv)
	},
	WalkChildren: func(o *object.Object, emit object.Emit) {
		d := o.RawData().(*arrayData)
		emit(elementGroup, d.elements)
	},
	StoreChildren: func(o *object.Object, key string, children []*object.Object) error {
		if key != elementGroup {
			return lively.WithStack(lively.ErrCorruptEncoding)
		}
		d := o.RawData().(*arrayData)
		d.elements = make([]*object.Object, len(children))
		for i, c := range children {
			d.elements[i] = c.Retain()
		}
		return nil
	},
}

// NewArray authors an immutable Array holding elements in order. Every
// element must be immutable (spec §4.7's container invariant).
func NewArray(elements ...*object.Object) (*object.Object, error) {
	if !object.ImmutableAll(elements) {
		return nil, lively.WithStack(lively.ErrImmutabilityViolated)
	}
	retained := make([]*object.Object, len(elements))
	for i, e := range elements {
		retained[i] = e.Retain()
	}
	return object.Create(ArrayType, &arrayData{elements: retained})
}

// ConcatArrays authors a new Array holding the concatenation of arrays, in
// order (original_source/LCArray.c's LCArrayCreateFromArrays, supplemented
// per SPEC_FULL.md §8 since spec.md only describes single-array
// construction).
func ConcatArrays(arrays ...*object.Object) (*object.Object, error) {
	var all []*object.Object
	for _, a := range arrays {
		data, err := a.Data()
		if err != nil {
			return nil, err
		}
		all = append(all, data.(*arrayData).elements...)
	}
	return NewArray(all...)
}

// ArrayLength pages in o and returns the number of elements it holds.
func ArrayLength(o *object.Object) (int, error) {
	data, err := o.Data()
	if err != nil {
		return 0, err
	}
	return len(data.(*arrayData).elements), nil
}

// ArrayAt pages in o and returns the element at index i.
func ArrayAt(o *object.Object, i int) (*object.Object, error) {
	data, err := o.Data()
	if err != nil {
		return nil, err
	}
	d := data.(*arrayData)
	if i < 0 || i >= len(d.elements) {
		return nil, lively.WithStack(lively.ErrAllocationFailed)
	}
	return d.elements[i], nil
}

// CreateSubArray authors a new Array holding o's elements
// [start, start+length) (original_source/LCArray.c's LCArrayCreateSubArray).
func CreateSubArray(o *object.Object, start, length int) (*object.Object, error) {
	data, err := o.Data()
	if err != nil {
		return nil, err
	}
	d := data.(*arrayData)
	if start < 0 || length < 0 || start+length > len(d.elements) {
		return nil, lively.WithStack(lively.ErrAllocationFailed)
	}
	return NewArray(d.elements[start : start+length]...)
}

// CreateArrayWithMap authors a new Array by applying fn to every element of
// o in order (original_source/LCArray.c's LCArrayCreateArrayWithMap).
func CreateArrayWithMap(o *object.Object, fn func(*object.Object) (*object.Object, error)) (*object.Object, error) {
	data, err := o.Data()
	if err != nil {
		return nil, err
	}
	d := data.(*arrayData)
	mapped := make([]*object.Object, len(d.elements))
	for i, e := range d.elements {
		m, err := fn(e)
		if err != nil {
			return nil, err
		}
		mapped[i] = m
	}
	arr, err := NewArray(mapped...)
	for _, m := range mapped {
		m.Release()
	}
	if err != nil {
		return nil, err
	}
	return arr, nil
}
