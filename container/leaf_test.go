package container

import (
	"bytes"
	"testing"

	"github.com/bxcodec/faker/v4"
	"github.com/zond/lively/object"
	"github.com/zond/lively/store"
)

type fakeLeafFixture struct {
	Name string `faker:"name"`
	Bio  string `faker:"paragraph"`
}

func TestStringLeafRoundTrip(t *testing.T) {
	mem := store.NewMemStore()
	ctx, err := object.NewContext(mem, CoreResolver)
	if err != nil {
		t.Fatal(err)
	}
	o, err := NewString("hello, world")
	if err != nil {
		t.Fatal(err)
	}
	if err := object.Store(o, ctx); err != nil {
		t.Fatal(err)
	}
	h, err := object.Hash(o)
	if err != nil {
		t.Fatal(err)
	}
	lazy, err := object.CreateFromContext(ctx, StringType, h)
	if err != nil {
		t.Fatal(err)
	}
	s, err := StringValue(lazy)
	if err != nil {
		t.Fatal(err)
	}
	if s != "hello, world" {
		t.Fatalf("expected %q, got %q", "hello, world", s)
	}
}

func TestDataLeafBufferedSerializationRoundTrips(t *testing.T) {
	mem := store.NewMemStore()
	ctx, err := object.NewContext(mem, CoreResolver)
	if err != nil {
		t.Fatal(err)
	}
	// Exercise more than one 1024-byte SerializeDataBuffered window.
	payload := bytes.Repeat([]byte("0123456789abcdef"), 200)
	o, err := NewData(payload)
	if err != nil {
		t.Fatal(err)
	}
	if err := object.Store(o, ctx); err != nil {
		t.Fatal(err)
	}
	h, err := object.Hash(o)
	if err != nil {
		t.Fatal(err)
	}
	lazy, err := object.CreateFromContext(ctx, DataType, h)
	if err != nil {
		t.Fatal(err)
	}
	got, err := DataValue(lazy)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("round-tripped payload does not match original")
	}
}

func TestStringLeafRoundTripsFakedData(t *testing.T) {
	mem := store.NewMemStore()
	ctx, err := object.NewContext(mem, CoreResolver)
	if err != nil {
		t.Fatal(err)
	}
	var fixture fakeLeafFixture
	if err := faker.FakeData(&fixture); err != nil {
		t.Fatal(err)
	}

	for _, s := range []string{fixture.Name, fixture.Bio} {
		o, err := NewString(s)
		if err != nil {
			t.Fatal(err)
		}
		if err := object.Store(o, ctx); err != nil {
			t.Fatal(err)
		}
		h, err := object.Hash(o)
		if err != nil {
			t.Fatal(err)
		}
		lazy, err := object.CreateFromContext(ctx, StringType, h)
		if err != nil {
			t.Fatal(err)
		}
		got, err := StringValue(lazy)
		if err != nil {
			t.Fatal(err)
		}
		if got != s {
			t.Fatalf("expected %q, got %q", s, got)
		}
	}
}

func TestNewDataCopiesInput(t *testing.T) {
	b := []byte("mutate me")
	o, err := NewData(b)
	if err != nil {
		t.Fatal(err)
	}
	b[0] = 'X'
	v, err := DataValue(o)
	if err != nil {
		t.Fatal(err)
	}
	if v[0] != 'm' {
		t.Fatalf("expected NewData to defensively copy its input")
	}
}
