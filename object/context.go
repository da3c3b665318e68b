package object

import (
	"github.com/pkg/errors"
	"github.com/zond/lively"
	"github.com/zond/lively/store"
)

// Resolver maps a wire type name to a Type descriptor, or returns nil if it
// doesn't recognize the name. Resolvers are plain callables, the Go
// generalization of the source's linear stringToType function pointers
// (spec §4.4, §9).
type Resolver func(typeName string) *Type

// Context binds a Store to an ordered, non-empty list of Resolvers, and is
// the ambient value threaded through every persistence operation (spec §3).
// Resolvers are tried in order; the first hit wins.
type Context struct {
	Store     store.Store
	resolvers []Resolver
}

// NewContext builds a Context over s, trying resolvers in the order given.
// At least one resolver is required; with none, NewContext returns an error
// and no Context.
func NewContext(s store.Store, resolvers ...Resolver) (*Context, error) {
	if len(resolvers) == 0 {
		return nil, lively.WithStack(errors.New("lively: context requires at least one resolver"))
	}
	return &Context{Store: s, resolvers: append([]Resolver{}, resolvers...)}, nil
}

// Resolve maps typeName to a Type by trying each resolver in order. It
// returns nil if no resolver recognizes the name (a fatal decode error at
// the call site, per spec §7's UnknownType).
func (c *Context) Resolve(typeName string) *Type {
	for _, r := range c.resolvers {
		if t := r(typeName); t != nil {
			return t
		}
	}
	return nil
}
