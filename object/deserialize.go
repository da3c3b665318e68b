package object

import (
	"bytes"
	"encoding/hex"
	"io"

	goccyjson "github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/zond/lively"
)

// Deserialize reconstructs o's payload from r (spec §4.4). If the type
// provides DeserializeData, decoding is delegated entirely to it (binary
// leaf). Otherwise r holds the structured child-group mapping: each group's
// children are resolved through o.Context()'s resolver chain, constructed
// either as lazy hash references or as recursively/inline-decoded objects,
// then handed to the type's StoreChildren hook.
func Deserialize(o *Object, r io.Reader) error {
	if o.typ.DeserializeData != nil {
		data, err := o.typ.DeserializeData(o, r)
		if err != nil {
			return lively.WithStack(err)
		}
		o.data = data
		return nil
	}

	if o.typ.InitData != nil {
		o.data = o.typ.InitData()
	}

	b, err := io.ReadAll(r)
	if err != nil {
		return lively.WithStack(err)
	}

	var tree map[string][]wireChild
	if err := goccyjson.Unmarshal(b, &tree); err != nil {
		return lively.WithStack(errors.Wrap(lively.ErrCorruptEncoding, err.Error()))
	}

	if o.typ.StoreChildren == nil {
		return nil
	}

	for key, entries := range tree {
		children := make([]*Object, len(entries))
		for i, entry := range entries {
			child, err := decodeChildEntry(o.ctx, entry)
			if err != nil {
				return err
			}
			children[i] = child
		}
		if err := o.typ.StoreChildren(o, key, children); err != nil {
			return lively.WithStack(err)
		}
		for _, c := range children {
			c.Release()
		}
	}
	return nil
}

func decodeChildEntry(ctx *Context, entry wireChild) (*Object, error) {
	if entry.Type == "" {
		return nil, lively.WithStack(errors.Wrap(lively.ErrCorruptEncoding, "child entry missing \"type\""))
	}
	childType := ctx.Resolve(entry.Type)
	if childType == nil {
		return nil, lively.WithStack(errors.Wrapf(lively.ErrUnknownType, "type %q", entry.Type))
	}

	switch {
	case entry.Hash != nil:
		return CreateFromContext(ctx, childType, *entry.Hash)
	case entry.Object != nil:
		child, err := Create(childType, nil)
		if err != nil {
			return nil, err
		}
		// An inline structured child resolves its own children's type names
		// through the same context as its parent.
		child.ctx = ctx
		if childType.BinarySerialized() {
			var hexStr string
			if err := goccyjson.Unmarshal(entry.Object, &hexStr); err != nil {
				return nil, lively.WithStack(errors.Wrap(lively.ErrCorruptEncoding, err.Error()))
			}
			raw, err := hex.DecodeString(hexStr)
			if err != nil {
				return nil, lively.WithStack(errors.Wrap(lively.ErrCorruptEncoding, err.Error()))
			}
			if err := Deserialize(child, bytes.NewReader(raw)); err != nil {
				return nil, err
			}
		} else {
			if err := Deserialize(child, bytes.NewReader(entry.Object)); err != nil {
				return nil, err
			}
		}
		return child, nil
	default:
		return nil, lively.WithStack(errors.Wrap(lively.ErrCorruptEncoding, "child entry has neither \"hash\" nor \"object\""))
	}
}
