package model

import "strings"

// TypeString renders t as Rust-like source text. A nil Context prints type
// parameters by id.
func (c *Context) TypeString(t Type) string {
	var sb strings.Builder
	c.writeType(&sb, t)

	return sb.String()
}

// PathString renders p.
func (c *Context) PathString(p Path) string {
	var sb strings.Builder
	c.writePath(&sb, p)

	return sb.String()
}

// BoundString renders a single bound.
func (c *Context) BoundString(b Bound) string {
	var sb strings.Builder
	c.writeBound(&sb, b)

	return sb.String()
}

// ConstraintString renders a where-clause predicate, e.g. `P: Display + Clone`.
func (c *Context) ConstraintString(gc GenericConstraint) string {
	var sb strings.Builder

	switch v := gc.(type) {
	case PredicateType:
		c.writeForLifetimes(&sb, v.Lifetimes)
		c.writeType(&sb, v.BoundedType)
		sb.WriteString(": ")
		c.writeBounds(&sb, v.Bounds)
	case PredicateLifetime:
		c.writeLifetime(&sb, v.Lifetime)
		sb.WriteString(": ")
		for i, b := range v.Bounds {
			if i > 0 {
				sb.WriteString(" + ")
			}
			c.writeLifetime(&sb, b)
		}
	}

	return sb.String()
}

// WhereClause renders constraints as a where clause, or "" when empty.
func (c *Context) WhereClause(constraints []GenericConstraint) string {
	if len(constraints) == 0 {
		return ""
	}

	parts := make([]string, 0, len(constraints))
	for _, gc := range constraints {
		parts = append(parts, c.ConstraintString(gc))
	}

	return "where " + strings.Join(parts, ", ")
}

func (c *Context) writeType(sb *strings.Builder, t Type) {
	switch v := t.(type) {
	case Infer:
		sb.WriteByte('_')
	case Tuple:
		sb.WriteByte('(')
		for i, e := range v.Elems {
			if i > 0 {
				sb.WriteString(", ")
			}
			c.writeType(sb, e)
		}
		if len(v.Elems) == 1 {
			sb.WriteByte(',')
		}
		sb.WriteByte(')')
	case PrimitiveStr:
		sb.WriteString("str")
	case Reference:
		sb.WriteByte('&')
		if v.Lifetime != nil {
			c.writeLifetime(sb, *v.Lifetime)
			sb.WriteByte(' ')
		}
		c.writeType(sb, v.Inner)
	case ReferenceMut:
		sb.WriteByte('&')
		if v.Lifetime != nil {
			c.writeLifetime(sb, *v.Lifetime)
			sb.WriteByte(' ')
		}
		sb.WriteString("mut ")
		c.writeType(sb, v.Inner)
	case Dereference:
		sb.WriteByte('*')
		c.writeType(sb, v.Inner)
	case TraitObject:
		sb.WriteString("dyn ")
		c.writeBounds(sb, v.Bounds)
	case DataStructure:
		sb.WriteString(v.Name)
		if len(v.Generics.Params) > 0 {
			sb.WriteByte('<')
			for i, p := range v.Generics.Params {
				if i > 0 {
					sb.WriteString(", ")
				}
				if ref, ok := p.LifetimeRef(); ok {
					c.writeLifetime(sb, ref)
				} else {
					sb.WriteString(c.TypeParamName(TypeParamRef(p.Ref)))
				}
			}
			sb.WriteByte('>')
		}
	case PathType:
		c.writePath(sb, v.Path)
	case TypeParam:
		sb.WriteString(c.TypeParamName(v.Ref))
	case nil:
		sb.WriteString("<nil>")
	}
}

func (c *Context) writePath(sb *strings.Builder, p Path) {
	if p.Global {
		sb.WriteString("::")
	}

	for i, s := range p.Segments {
		if i > 0 {
			sb.WriteString("::")
		}

		sb.WriteString(s.Ident)

		switch args := s.Args.(type) {
		case AngleBracketed:
			sb.WriteByte('<')
			for j, a := range args.Args {
				if j > 0 {
					sb.WriteString(", ")
				}
				switch ga := a.(type) {
				case TypeArg:
					c.writeType(sb, ga.Type)
				case LifetimeArg:
					c.writeLifetime(sb, ga.Ref)
				}
			}
			sb.WriteByte('>')
		case Parenthesized:
			sb.WriteByte('(')
			for j, in := range args.Inputs {
				if j > 0 {
					sb.WriteString(", ")
				}
				c.writeType(sb, in)
			}
			sb.WriteByte(')')
			if args.Output != nil {
				sb.WriteString(" -> ")
				c.writeType(sb, args.Output)
			}
		}
	}
}

func (c *Context) writeBounds(sb *strings.Builder, bounds []Bound) {
	for i, b := range bounds {
		if i > 0 {
			sb.WriteString(" + ")
		}
		c.writeBound(sb, b)
	}
}

func (c *Context) writeBound(sb *strings.Builder, b Bound) {
	switch v := b.(type) {
	case TraitBound:
		c.writeForLifetimes(sb, v.Lifetimes)
		c.writePath(sb, v.Path)
	case LifetimeBound:
		c.writeLifetime(sb, v.Ref)
	}
}

func (c *Context) writeForLifetimes(sb *strings.Builder, refs []LifetimeRef) {
	if len(refs) == 0 {
		return
	}

	sb.WriteString("for<")
	for i, r := range refs {
		if i > 0 {
			sb.WriteString(", ")
		}
		c.writeLifetime(sb, r)
	}
	sb.WriteString("> ")
}

func (c *Context) writeLifetime(sb *strings.Builder, ref LifetimeRef) {
	sb.WriteByte('\'')
	sb.WriteString(c.LifetimeName(ref))
}
