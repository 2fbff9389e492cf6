package model

import "fmt"

// Context hands out type parameter and lifetime ids for one generation run
// and remembers their identifiers for printing. Ids increase monotonically,
// so they stay unique across every declaration read through the same Context.
//
// A Context is not safe for concurrent use.
type Context struct {
	typeParams []string
	lifetimes  []string
	builtins   map[string]LifetimeRef
}

// NewContext creates an empty Context.
func NewContext() *Context {
	return &Context{}
}

// NewTypeParam registers a type parameter named ident.
func (c *Context) NewTypeParam(ident string) TypeParamRef {
	c.typeParams = append(c.typeParams, ident)
	return TypeParamRef(len(c.typeParams) - 1)
}

// NewLifetime registers a lifetime named ident (without the leading quote).
func (c *Context) NewLifetime(ident string) LifetimeRef {
	c.lifetimes = append(c.lifetimes, ident)
	return LifetimeRef(len(c.lifetimes) - 1)
}

// BuiltinLifetime returns the lifetime ident ("static" or "_") that needs no
// declaration. It is registered once per Context, on first use.
func (c *Context) BuiltinLifetime(ident string) LifetimeRef {
	if ref, ok := c.builtins[ident]; ok {
		return ref
	}

	if c.builtins == nil {
		c.builtins = make(map[string]LifetimeRef)
	}

	ref := c.NewLifetime(ident)
	c.builtins[ident] = ref

	return ref
}

// TypeParamName returns the identifier of a registered type parameter.
func (c *Context) TypeParamName(ref TypeParamRef) string {
	if c == nil || int(ref) < 0 || int(ref) >= len(c.typeParams) {
		return fmt.Sprintf("T#%d", ref)
	}

	return c.typeParams[ref]
}

// LifetimeName returns the identifier of a registered lifetime.
func (c *Context) LifetimeName(ref LifetimeRef) string {
	if c == nil || int(ref) < 0 || int(ref) >= len(c.lifetimes) {
		return fmt.Sprintf("l%d", ref)
	}

	return c.lifetimes[ref]
}

// ParamMap maps identifiers visible in one declaration scope to their params.
type ParamMap map[string]GenericParam

// Declare registers idents as new type parameters in ctx, adds them to m and
// returns them as GenericParams in order. Identifiers starting with a quote
// are registered as lifetimes.
func (m ParamMap) Declare(ctx *Context, idents ...string) []GenericParam {
	params := make([]GenericParam, 0, len(idents))

	for _, ident := range idents {
		var p GenericParam
		if len(ident) > 1 && ident[0] == '\'' {
			p = LifetimeParamOf(ctx.NewLifetime(ident[1:]))
			m[ident] = p
		} else {
			p = TypeParamOf(ctx.NewTypeParam(ident))
			m[ident] = p
		}

		params = append(params, p)
	}

	return params
}

// Clone returns a copy of m, used to open a nested scope.
func (m ParamMap) Clone() ParamMap {
	out := make(ParamMap, len(m))
	for k, v := range m {
		out[k] = v
	}

	return out
}
