package object

import (
	"encoding/hex"
	"io"

	"github.com/zond/lively"
)

// bufferWindow is the fixed chunk size pumped through
// Type.SerializeDataBuffered, matching FILE_BUFFER_LENGTH in
// original_source/LCCore.c.
const bufferWindow = 1024

// Serialize writes o in reference mode: children are emitted as
// {"type", "hash"} pairs, never inlined. This is the root entry point used
// both directly and internally by Hash (spec §4.3/§4.5).
func Serialize(o *Object, w io.Writer) error {
	return serializeWithMode(o, false, w)
}

// SerializeAsComposite writes o in composite mode: children are emitted
// inline, recursively, with no separate store entries implied.
func SerializeAsComposite(o *Object, w io.Writer) error {
	return serializeWithMode(o, true, w)
}

func serializeWithMode(o *Object, composite bool, w io.Writer) error {
	// Every hook below (SerializeData, SerializeDataBuffered, WalkChildren)
	// reads o's payload directly; page it in first so a lazy object (one
	// whose data hasn't been cached yet, e.g. a child encountered while
	// recursively storing a freshly-loaded parent) can still be
	// serialized, instead of every hook needing its own paging logic.
	if _, err := o.Data(); err != nil {
		return err
	}
	switch {
	case o.typ.SerializeDataBuffered != nil:
		return serializeBuffered(o, w)
	case o.typ.SerializeData != nil:
		return lively.WithStack(o.typ.SerializeData(o, w))
	default:
		return serializeWalkingChildren(o, composite, w)
	}
}

func serializeBuffered(o *Object, w io.Writer) error {
	var offset int64
	for {
		n, err := o.typ.SerializeDataBuffered(o, offset, bufferWindow, w)
		if err != nil {
			return lively.WithStack(err)
		}
		offset += int64(n)
		if n < bufferWindow {
			return nil
		}
	}
}

func serializeWalkingChildren(o *Object, composite bool, w io.Writer) error {
	if _, err := io.WriteString(w, "{"); err != nil {
		return lively.WithStack(err)
	}
	first := true
	var walkErr error
	if o.typ.WalkChildren != nil {
		o.typ.WalkChildren(o, func(key string, children []*Object) {
			if walkErr != nil {
				return
			}
			if !first {
				if _, err := io.WriteString(w, ","); err != nil {
					walkErr = lively.WithStack(err)
					return
				}
			}
			first = false
			if err := writeChildGroup(w, key, children, composite); err != nil {
				walkErr = err
			}
		})
	}
	if walkErr != nil {
		return walkErr
	}
	_, err := io.WriteString(w, "}")
	return lively.WithStack(err)
}

func writeChildGroup(w io.Writer, key string, children []*Object, composite bool) error {
	quotedKey, err := quoteJSONString(key)
	if err != nil {
		return lively.WithStack(err)
	}
	if _, err := io.WriteString(w, quotedKey+": ["); err != nil {
		return lively.WithStack(err)
	}
	for i, child := range children {
		if i > 0 {
			if _, err := io.WriteString(w, ","); err != nil {
				return lively.WithStack(err)
			}
		}
		if err := writeChildEntry(w, child, composite); err != nil {
			return err
		}
	}
	_, err = io.WriteString(w, "]")
	return lively.WithStack(err)
}

func writeChildEntry(w io.Writer, child *Object, composite bool) error {
	quotedType, err := quoteJSONString(child.typ.DisplayName())
	if err != nil {
		return lively.WithStack(err)
	}
	if _, err := io.WriteString(w, "{\"type\": "+quotedType); err != nil {
		return lively.WithStack(err)
	}
	if composite {
		if _, err := io.WriteString(w, ", \"object\": "); err != nil {
			return lively.WithStack(err)
		}
		if err := writeInlineObject(w, child); err != nil {
			return err
		}
	} else {
		h, err := Hash(child)
		if err != nil {
			return err
		}
		quotedHash, err := quoteJSONString(h)
		if err != nil {
			return lively.WithStack(err)
		}
		if _, err := io.WriteString(w, ", \"hash\": "+quotedHash); err != nil {
			return lively.WithStack(err)
		}
	}
	_, err = io.WriteString(w, "}")
	return lively.WithStack(err)
}

// writeInlineObject embeds child inline. Structured children nest their own
// mapping directly; binary leaves are hex-encoded into a JSON string, since
// hex text can never contain an unescaped quote (spec.md §6 / SPEC_FULL.md
// §9.1 — resolving the source's open question about framing binary content
// as a naked quoted string).
func writeInlineObject(w io.Writer, child *Object) error {
	if child.typ.BinarySerialized() {
		buf := &byteBuffer{}
		if err := serializeWithMode(child, true, buf); err != nil {
			return err
		}
		quoted, err := quoteJSONString(hex.EncodeToString(buf.Bytes()))
		if err != nil {
			return lively.WithStack(err)
		}
		_, err = io.WriteString(w, quoted)
		return lively.WithStack(err)
	}
	return serializeWithMode(child, true, w)
}

// byteBuffer is a tiny io.Writer over a growable slice, used to capture a
// binary leaf's bytes before hex-encoding them for inline embedding.
type byteBuffer struct {
	b []byte
}

func (b *byteBuffer) Write(p []byte) (int, error) {
	b.b = append(b.b, p...)
	return len(p), nil
}

func (b *byteBuffer) Bytes() []byte { return b.b }
