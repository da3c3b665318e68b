package object

import (
	goccyjson "github.com/goccy/go-json"
)

// wireChild is one entry in a child group's array on the wire: spec.md §6,
// `{"type": "<typeName>", "hash": "<hex>"}` or `{"type": "<typeName>",
// "object": ...}`. Exactly one of Hash/Object is populated.
//
// Decoding goes through goccy/go-json (spec.md §1/§6 treat the JSON
// tokenizer as an external collaborator); encoding is hand-written so child
// and group ordering — which feeds directly into the hash (spec §5) — is
// exactly the order WalkChildren emits, something a map-keyed encoder
// cannot guarantee.
type wireChild struct {
	Type   string              `json:"type"`
	Hash   *string             `json:"hash,omitempty"`
	Object goccyjson.RawMessage `json:"object,omitempty"`
}

// quoteJSONString renders s as a JSON string literal, delegating the
// escaping rules to goccy/go-json rather than hand-rolling them.
func quoteJSONString(s string) (string, error) {
	b, err := goccyjson.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
