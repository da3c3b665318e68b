package container

import (
	"errors"
	"testing"

	"github.com/zond/lively"
	"github.com/zond/lively/object"
	"github.com/zond/lively/store"
)

func mustString(t *testing.T, s string) *object.Object {
	t.Helper()
	o, err := NewString(s)
	if err != nil {
		t.Fatal(err)
	}
	return o
}

func TestArrayOfThreeStringsProducesFourStoreEntries(t *testing.T) {
	mem := store.NewMemStore()
	ctx, err := object.NewContext(mem, CoreResolver)
	if err != nil {
		t.Fatal(err)
	}

	a := mustString(t, "a")
	b := mustString(t, "b")
	c := mustString(t, "c")
	arr, err := NewArray(a, b, c)
	if err != nil {
		t.Fatal(err)
	}

	if err := object.Store(arr, ctx); err != nil {
		t.Fatal(err)
	}
	if mem.Len() != 4 {
		t.Fatalf("expected 4 store entries (array + 3 strings), got %d", mem.Len())
	}
}

func TestArrayAsCompositeProducesOneStoreEntry(t *testing.T) {
	mem := store.NewMemStore()
	ctx, err := object.NewContext(mem, CoreResolver)
	if err != nil {
		t.Fatal(err)
	}

	arr, err := NewArray(mustString(t, "a"), mustString(t, "b"), mustString(t, "c"))
	if err != nil {
		t.Fatal(err)
	}
	if err := object.StoreAsComposite(arr, ctx); err != nil {
		t.Fatal(err)
	}
	if mem.Len() != 1 {
		t.Fatalf("expected exactly 1 store entry for a composite array, got %d", mem.Len())
	}
}

func TestArrayLazyElementsPageIn(t *testing.T) {
	mem := store.NewMemStore()
	ctx, err := object.NewContext(mem, CoreResolver)
	if err != nil {
		t.Fatal(err)
	}
	arr, err := NewArray(mustString(t, "x"), mustString(t, "y"))
	if err != nil {
		t.Fatal(err)
	}
	if err := object.Store(arr, ctx); err != nil {
		t.Fatal(err)
	}
	h, err := object.Hash(arr)
	if err != nil {
		t.Fatal(err)
	}

	lazy, err := object.CreateFromContext(ctx, ArrayType, h)
	if err != nil {
		t.Fatal(err)
	}
	n, err := ArrayLength(lazy)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("expected 2 elements, got %d", n)
	}
	first, err := ArrayAt(lazy, 0)
	if err != nil {
		t.Fatal(err)
	}
	s, err := StringValue(first)
	if err != nil {
		t.Fatal(err)
	}
	if s != "x" {
		t.Fatalf("expected %q, got %q", "x", s)
	}
}

func TestArrayRejectsMutableElements(t *testing.T) {
	m, err := NewMutableArray()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewArray(m); !errors.Is(err, lively.ErrImmutabilityViolated) {
		t.Fatalf("expected ErrImmutabilityViolated, got %v", err)
	}
}

func TestArrayCompareComparesOnlyFirstElement(t *testing.T) {
	one, err := NewArray(mustString(t, "a"), mustString(t, "z"))
	if err != nil {
		t.Fatal(err)
	}
	two, err := NewArray(mustString(t, "a"), mustString(t, "m"))
	if err != nil {
		t.Fatal(err)
	}
	if object.Compare(one, two) != object.Equal {
		t.Fatalf("expected arrays with equal first elements to compare Equal regardless of the rest")
	}
}

func TestConcatArrays(t *testing.T) {
	one, err := NewArray(mustString(t, "a"), mustString(t, "b"))
	if err != nil {
		t.Fatal(err)
	}
	two, err := NewArray(mustString(t, "c"))
	if err != nil {
		t.Fatal(err)
	}
	joined, err := ConcatArrays(one, two)
	if err != nil {
		t.Fatal(err)
	}
	n, err := ArrayLength(joined)
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Fatalf("expected 3 elements, got %d", n)
	}
}

func TestCreateSubArray(t *testing.T) {
	arr, err := NewArray(mustString(t, "a"), mustString(t, "b"), mustString(t, "c"))
	if err != nil {
		t.Fatal(err)
	}
	sub, err := CreateSubArray(arr, 1, 2)
	if err != nil {
		t.Fatal(err)
	}
	n, err := ArrayLength(sub)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("expected 2 elements, got %d", n)
	}
	first, err := ArrayAt(sub, 0)
	if err != nil {
		t.Fatal(err)
	}
	s, err := StringValue(first)
	if err != nil {
		t.Fatal(err)
	}
	if s != "b" {
		t.Fatalf("expected %q, got %q", "b", s)
	}
}

func TestCreateArrayWithMap(t *testing.T) {
	arr, err := NewArray(mustString(t, "a"), mustString(t, "b"))
	if err != nil {
		t.Fatal(err)
	}
	mapped, err := CreateArrayWithMap(arr, func(o *object.Object) (*object.Object, error) {
		s, err := StringValue(o)
		if err != nil {
			return nil, err
		}
		return NewString(s + s)
	})
	if err != nil {
		t.Fatal(err)
	}
	first, err := ArrayAt(mapped, 0)
	if err != nil {
		t.Fatal(err)
	}
	s, err := StringValue(first)
	if err != nil {
		t.Fatal(err)
	}
	if s != "aa" {
		t.Fatalf("expected %q, got %q", "aa", s)
	}
}
