// Package container implements the exemplar types bound by the core
// resolver (spec §4.7, §6): the two binary leaves (String, Data), one
// small composite (KeyValue), and the three detailed exemplars (Array,
// MutableArray, MutableDictionary). These are the same six names
// original_source/LCCore.c's coreStringToType recognizes.
package container

import (
	"io"

	"github.com/zond/lively/object"
)

// StringType is an immutable binary leaf holding a Go string verbatim.
var StringType = &object.Type{
	Name:      "String",
	Immutable: true,
	Format:    object.FormatBinary,
	SerializeData: func(o *object.Object, w io.Writer) error {
		s, _ := o.RawData().(string)
		_, err := io.WriteString(w, s)
		return err
	},
	DeserializeData: func(o *object.Object, r io.Reader) (any, error) {
		b, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		return string(b), nil
	},
	Compare: func(a, b *object.Object) object.Ordering {
		adata, _ := a.Data()
		bdata, _ := b.Data()
		as, _ := adata.(string)
		bs, _ := bdata.(string)
		switch {
		case as < bs:
			return object.Smaller
		case as > bs:
			return object.Greater
		default:
			return object.Equal
		}
	},
}

// NewString authors an immutable String object.
func NewString(s string) (*object.Object, error) {
	return object.Create(StringType, s)
}

// StringValue pages in and returns o's string payload.
func StringValue(o *object.Object) (string, error) {
	data, err := o.Data()
	if err != nil {
		return "", err
	}
	s, _ := data.(string)
	return s, nil
}

// DataType is an immutable binary leaf holding an opaque byte slice. It is
// kept deliberately dumb (no comparator, no structural interpretation) —
// the exemplar for "content nobody but the caller understands".
var DataType = &object.Type{
	Name:      "Data",
	Immutable: true,
	Format:    object.FormatBinary,
	SerializeDataBuffered: func(o *object.Object, offset int64, window int, w io.Writer) (int, error) {
		b, _ := o.RawData().([]byte)
		if offset >= int64(len(b)) {
			return 0, nil
		}
		end := offset + int64(window)
		if end > int64(len(b)) {
			end = int64(len(b))
		}
		chunk := b[offset:end]
		if _, err := w.Write(chunk); err != nil {
			return 0, err
		}
		return len(chunk), nil
	},
	DeserializeData: func(o *object.Object, r io.Reader) (any, error) {
		return io.ReadAll(r)
	},
}

// NewData authors an immutable Data object wrapping b.
func NewData(b []byte) (*object.Object, error) {
	cp := make([]byte, len(b))
	copy(cp, b)
	return object.Create(DataType, cp)
}

// DataValue pages in and returns o's byte payload.
func DataValue(o *object.Object) ([]byte, error) {
	data, err := o.Data()
	if err != nil {
		return nil, err
	}
	b, _ := data.([]byte)
	return b, nil
}
