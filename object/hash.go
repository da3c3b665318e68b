package object

import (
	"io"

	"github.com/zond/lively/fingerprint"
)

// Hash implements the hash protocol (spec §4.5): if o is immutable and
// already has a cached hash, return it. Otherwise stream o's reference-mode
// serialization through a fresh digest and, if o is immutable, memoize the
// result so every later call is free.
//
// Reference mode is used deliberately: a parent's hash is then a function
// of its direct structure plus its children's hashes, a Merkle relation
// giving O(1) equality testing on large subtrees (spec §4.5's rationale).
func Hash(o *Object) (string, error) {
	if o.typ.Immutable && o.hash != "" {
		return o.hash, nil
	}
	h, err := fingerprint.Of(nil, func(w io.Writer) error {
		return Serialize(o, w)
	})
	if err != nil {
		return "", err
	}
	if o.typ.Immutable {
		o.hash = h
	}
	return h, nil
}
