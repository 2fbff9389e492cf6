package model

import (
	"strconv"
	"strings"
)

// Key returns a canonical encoding of t. Two types have the same key iff they
// are structurally equal, so keys serve as map keys for type lookup.
func Key(t Type) string {
	var sb strings.Builder
	writeTypeKey(&sb, t)

	return sb.String()
}

// Equal reports whether a and b are structurally equal.
func Equal(a, b Type) bool {
	return Key(a) == Key(b)
}

// PathKey returns the canonical encoding of a path.
func PathKey(p Path) string {
	var sb strings.Builder
	writePathKey(&sb, p)

	return sb.String()
}

// ConstraintKey returns the canonical encoding of a constraint. Constraint
// sets deduplicate on it.
func ConstraintKey(c GenericConstraint) string {
	var sb strings.Builder

	switch v := c.(type) {
	case PredicateType:
		sb.WriteString("T")
		writeLifetimeListKey(&sb, v.Lifetimes)
		writeTypeKey(&sb, v.BoundedType)
		sb.WriteByte(':')
		writeBoundsKey(&sb, v.Bounds)
	case PredicateLifetime:
		sb.WriteString("L")
		writeLifetimeKey(&sb, v.Lifetime)
		sb.WriteByte(':')
		writeLifetimeListKey(&sb, v.Bounds)
	}

	return sb.String()
}

func writeTypeKey(sb *strings.Builder, t Type) {
	switch v := t.(type) {
	case Infer:
		sb.WriteByte('_')
	case Tuple:
		sb.WriteByte('(')
		for i, e := range v.Elems {
			if i > 0 {
				sb.WriteByte(',')
			}
			writeTypeKey(sb, e)
		}
		sb.WriteByte(')')
	case PrimitiveStr:
		sb.WriteString("str")
	case Reference:
		sb.WriteByte('&')
		writeOptLifetimeKey(sb, v.Lifetime)
		sb.WriteByte('{')
		writeTypeKey(sb, v.Inner)
		sb.WriteByte('}')
	case ReferenceMut:
		sb.WriteString("&mut")
		writeOptLifetimeKey(sb, v.Lifetime)
		sb.WriteByte('{')
		writeTypeKey(sb, v.Inner)
		sb.WriteByte('}')
	case Dereference:
		sb.WriteString("*{")
		writeTypeKey(sb, v.Inner)
		sb.WriteByte('}')
	case TraitObject:
		sb.WriteString("dyn[")
		writeBoundsKey(sb, v.Bounds)
		sb.WriteByte(']')
	case DataStructure:
		sb.WriteString("struct ")
		sb.WriteString(v.Name)
		sb.WriteByte('<')
		for i, p := range v.Generics.Params {
			if i > 0 {
				sb.WriteByte(',')
			}
			if p.Kind == ParamLifetime {
				sb.WriteByte('\'')
			} else {
				sb.WriteByte('$')
			}
			sb.WriteString(strconv.Itoa(p.Ref))
		}
		sb.WriteString(">[")
		for i, c := range v.Generics.Constraints {
			if i > 0 {
				sb.WriteByte(';')
			}
			sb.WriteString(ConstraintKey(c))
		}
		sb.WriteString("]{")
		for i, f := range v.Fields {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(f.Name)
			sb.WriteByte(':')
			writeTypeKey(sb, f.Type)
		}
		sb.WriteByte('}')
	case PathType:
		sb.WriteString("p:")
		writePathKey(sb, v.Path)
	case TypeParam:
		sb.WriteByte('$')
		sb.WriteString(strconv.Itoa(int(v.Ref)))
	case nil:
		sb.WriteString("<nil>")
	}
}

func writePathKey(sb *strings.Builder, p Path) {
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
					sb.WriteByte(',')
				}
				switch ga := a.(type) {
				case TypeArg:
					writeTypeKey(sb, ga.Type)
				case LifetimeArg:
					writeLifetimeKey(sb, ga.Ref)
				}
			}
			sb.WriteByte('>')
		case Parenthesized:
			sb.WriteByte('(')
			for j, in := range args.Inputs {
				if j > 0 {
					sb.WriteByte(',')
				}
				writeTypeKey(sb, in)
			}
			sb.WriteByte(')')
			if args.Output != nil {
				sb.WriteString("->")
				writeTypeKey(sb, args.Output)
			}
		}
	}
}

func writeBoundsKey(sb *strings.Builder, bounds []Bound) {
	for i, b := range bounds {
		if i > 0 {
			sb.WriteByte('+')
		}

		switch v := b.(type) {
		case TraitBound:
			writeLifetimeListKey(sb, v.Lifetimes)
			writePathKey(sb, v.Path)
		case LifetimeBound:
			writeLifetimeKey(sb, v.Ref)
		}
	}
}

func writeLifetimeKey(sb *strings.Builder, ref LifetimeRef) {
	sb.WriteByte('\'')
	sb.WriteString(strconv.Itoa(int(ref)))
}

func writeOptLifetimeKey(sb *strings.Builder, ref *LifetimeRef) {
	if ref != nil {
		writeLifetimeKey(sb, *ref)
	}
}

func writeLifetimeListKey(sb *strings.Builder, refs []LifetimeRef) {
	if len(refs) == 0 {
		return
	}

	sb.WriteString("for<")
	for i, r := range refs {
		if i > 0 {
			sb.WriteByte(',')
		}
		writeLifetimeKey(sb, r)
	}
	sb.WriteByte('>')
}
