package container

import (
	"sort"

	"github.com/zond/lively"
	"github.com/zond/lively/object"
)

// minCapacity is the smallest backing-slice capacity a MutableArray ever
// allocates, matching original_source/LCArray.c's initial allocation for
// LCMutableArrayCreate.
const minCapacity = 10

type mutableArrayData struct {
	backing []*object.Object
	count   int
}

func (d *mutableArrayData) grow() {
	newCap := len(d.backing) * 2
	if newCap < minCapacity {
		newCap = minCapacity
	}
	grown := make([]*object.Object, newCap)
	copy(grown, d.backing[:d.count])
	d.backing = grown
}

// MutableArrayType is the mutable counterpart to ArrayType: same single
// "elements" child group, but grows geometrically and supports in-place
// mutation. Hash is never memoized for it (Type.Immutable is false).
var MutableArrayType = &object.Type{
	Name:      "MutableArray",
	Immutable: false,
	Format:    object.FormatStructured,
	InitData: func() any {
		return &mutableArrayData{}
	},
	Dealloc: func(o *object.Object) {
		d := o.RawData().(*mutableArrayData)
		for _, e := range d.backing[:d.count] {
			e.Release()
		}
	},
	WalkChildren: func(o *object.Object, emit object.Emit) {
		d := o.RawData().(*mutableArrayData)
		emit(elementGroup, d.backing[:d.count])
	},
	StoreChildren: func(o *object.Object, key string, children []*object.Object) error {
		if key != elementGroup {
			return lively.WithStack(lively.ErrCorruptEncoding)
		}
		d := o.RawData().(*mutableArrayData)
		d.backing = make([]*object.Object, len(children))
		d.count = len(children)
		for i, c := range children {
			d.backing[i] = c.Retain()
		}
		return nil
	},
}

// NewMutableArray authors an empty MutableArray.
func NewMutableArray() (*object.Object, error) {
	return object.Create(MutableArrayType, &mutableArrayData{})
}

func mutableArrayPayload(o *object.Object) (*mutableArrayData, error) {
	data, err := o.Data()
	if err != nil {
		return nil, err
	}
	return data.(*mutableArrayData), nil
}

// AddObject appends e to o, retaining it, growing the backing slice
// geometrically if needed (original_source/LCArray.c's LCMutableArrayAdd).
func AddObject(o *object.Object, e *object.Object) error {
	d, err := mutableArrayPayload(o)
	if err != nil {
		return err
	}
	if d.count == len(d.backing) {
		d.grow()
	}
	d.backing[d.count] = e.Retain()
	d.count++
	return nil
}

// AddObjects appends every element of es to o in order.
func AddObjects(o *object.Object, es []*object.Object) error {
	for _, e := range es {
		if err := AddObject(o, e); err != nil {
			return err
		}
	}
	return nil
}

// MutableArrayLength pages in o and returns its current element count.
func MutableArrayLength(o *object.Object) (int, error) {
	d, err := mutableArrayPayload(o)
	if err != nil {
		return 0, err
	}
	return d.count, nil
}

// MutableArrayAt pages in o and returns the element at index i.
func MutableArrayAt(o *object.Object, i int) (*object.Object, error) {
	d, err := mutableArrayPayload(o)
	if err != nil {
		return nil, err
	}
	if i < 0 || i >= d.count {
		return nil, lively.WithStack(lively.ErrAllocationFailed)
	}
	return d.backing[i], nil
}

// RemoveIndex removes and releases the element at index i, shifting later
// elements down by one.
func RemoveIndex(o *object.Object, i int) error {
	d, err := mutableArrayPayload(o)
	if err != nil {
		return err
	}
	if i < 0 || i >= d.count {
		return lively.WithStack(lively.ErrAllocationFailed)
	}
	d.backing[i].Release()
	copy(d.backing[i:d.count-1], d.backing[i+1:d.count])
	d.count--
	d.backing[d.count] = nil
	return nil
}

// RemoveObject removes the first element identical to target (pointer
// identity, not Compare), releasing it.
//
// original_source/LCArray.c's LCMutableArrayRemoveObject looped over the
// wrong array's length when searching, so a remove on one array could walk
// past the end of a different array's backing store. This loops over o's
// own count (REDESIGN FLAG, SPEC_FULL.md §8).
func RemoveObject(o *object.Object, target *object.Object) error {
	d, err := mutableArrayPayload(o)
	if err != nil {
		return err
	}
	for i := 0; i < d.count; i++ {
		if d.backing[i] == target {
			return RemoveIndex(o, i)
		}
	}
	return nil
}

// Sort orders o's elements in place using the polymorphic object.Compare.
func Sort(o *object.Object) error {
	d, err := mutableArrayPayload(o)
	if err != nil {
		return err
	}
	elems := d.backing[:d.count]
	sort.SliceStable(elems, func(i, j int) bool {
		return object.Compare(elems[i], elems[j]) == object.Smaller
	})
	return nil
}

// Clone authors a new MutableArray holding the same elements as o, each
// retained again (original_source/LCArray.c's LCMutableArrayCopy).
func Clone(o *object.Object) (*object.Object, error) {
	d, err := mutableArrayPayload(o)
	if err != nil {
		return nil, err
	}
	clone := &mutableArrayData{backing: make([]*object.Object, d.count), count: d.count}
	for i, e := range d.backing[:d.count] {
		clone.backing[i] = e.Retain()
	}
	return object.Create(MutableArrayType, clone)
}

// Freeze authors an immutable Array snapshot of o's current elements.
func Freeze(o *object.Object) (*object.Object, error) {
	d, err := mutableArrayPayload(o)
	if err != nil {
		return nil, err
	}
	return NewArray(d.backing[:d.count]...)
}

// Thaw authors a MutableArray seeded with o's elements.
func Thaw(o *object.Object) (*object.Object, error) {
	data, err := o.Data()
	if err != nil {
		return nil, err
	}
	elements := data.(*arrayData).elements
	m, err := NewMutableArray()
	if err != nil {
		return nil, err
	}
	if err := AddObjects(m, elements); err != nil {
		return nil, err
	}
	return m, nil
}
