package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotSimplePath is returned when a plain qualified name is requested
	// but a segment carries generic arguments.
	ErrNotSimplePath = errors.New("not a simple path")
	// ErrEmptyPath is returned for paths without segments.
	ErrEmptyPath = errors.New("path has no segments")
)

// Path is a possibly global qualified name, e.g. `::std::vec::Vec<T>`.
// A valid path has at least one segment.
type Path struct {
	Global   bool
	Segments []PathSegment
}

// PathSegment is one `::`-separated component of a path.
type PathSegment struct {
	Ident string
	// Args is nil when the segment carries no arguments, otherwise
	// AngleBracketed or Parenthesized.
	Args PathArguments
}

// PathArguments are the generic arguments of a segment.
type PathArguments interface {
	isPathArguments()
}

// AngleBracketed arguments: the `<T, 'a>` in `Vec<T>` or `Cow<'a, str>`.
type AngleBracketed struct {
	Args []GenericArgument
}

// Parenthesized arguments of a function trait path: the `(A, B) -> C` in
// `Fn(A, B) -> C`. Output is nil when there is no return type.
type Parenthesized struct {
	Inputs []Type
	Output Type
}

func (AngleBracketed) isPathArguments() {}
func (Parenthesized) isPathArguments()  {}

// GenericArgument is TypeArg or LifetimeArg.
type GenericArgument interface {
	isGenericArgument()
}

// TypeArg is a type-valued generic argument.
type TypeArg struct {
	Type Type
}

// LifetimeArg is a lifetime generic argument.
type LifetimeArg struct {
	Ref LifetimeRef
}

func (TypeArg) isGenericArgument()     {}
func (LifetimeArg) isGenericArgument() {}

// Segment returns a segment without arguments.
func Segment(ident string) PathSegment {
	return PathSegment{Ident: ident}
}

// GenericSegment returns a segment with angle-bracketed type arguments.
func GenericSegment(ident string, args ...Type) PathSegment {
	generic := make([]GenericArgument, 0, len(args))
	for _, a := range args {
		generic = append(generic, TypeArg{Type: a})
	}

	return PathSegment{Ident: ident, Args: AngleBracketed{Args: generic}}
}

// NewPath returns a relative path of the given segments.
func NewPath(segments ...PathSegment) Path {
	return Path{Segments: append([]PathSegment(nil), segments...)}
}

// NewSimplePath builds a plain qualified name. It fails if there are no
// segments or if any segment carries arguments.
func NewSimplePath(global bool, segments ...PathSegment) (Path, error) {
	if len(segments) == 0 {
		return Path{}, ErrEmptyPath
	}

	for _, s := range segments {
		if s.Args != nil {
			return Path{}, fmt.Errorf("segment %q has arguments: %w", s.Ident, ErrNotSimplePath)
		}
	}

	return Path{Global: global, Segments: append([]PathSegment(nil), segments...)}, nil
}

// ParseSimplePath parses `a::b::c`, with a leading `::` marking a global path.
func ParseSimplePath(s string) (Path, error) {
	s = strings.TrimSpace(s)

	global := strings.HasPrefix(s, "::")
	if global {
		s = s[2:]
	}

	if s == "" {
		return Path{}, ErrEmptyPath
	}

	parts := strings.Split(s, "::")
	segments := make([]PathSegment, 0, len(parts))

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if strings.ContainsAny(part, "<>()") {
			return Path{}, fmt.Errorf("segment %q: %w", part, ErrNotSimplePath)
		}

		if !isIdent(part) {
			return Path{}, fmt.Errorf("segment %q is not an identifier", part)
		}

		segments = append(segments, Segment(part))
	}

	return NewSimplePath(global, segments...)
}

// MustSimplePath is like ParseSimplePath but panics on error. It is meant for
// constant paths in tests and tables.
func MustSimplePath(s string) Path {
	p, err := ParseSimplePath(s)
	if err != nil {
		panic(err)
	}

	return p
}

// Last returns the final segment, which carries the arguments used for
// unification. The path must be valid.
func (p Path) Last() PathSegment {
	return p.Segments[len(p.Segments)-1]
}

// WithLastArgs returns a copy of p whose final segment carries args.
func (p Path) WithLastArgs(args PathArguments) Path {
	segments := append([]PathSegment(nil), p.Segments...)
	segments[len(segments)-1].Args = args

	return Path{Global: p.Global, Segments: segments}
}

// LastTypeArgs returns the type arguments of the final segment, skipping
// lifetimes. ok is false when the segment has parenthesized arguments.
func (p Path) LastTypeArgs() (types []Type, ok bool) {
	switch args := p.Last().Args.(type) {
	case nil:
		return nil, true
	case AngleBracketed:
		for _, a := range args.Args {
			if ta, isType := a.(TypeArg); isType {
				types = append(types, ta.Type)
			}
		}

		return types, true
	default:
		return nil, false
	}
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}

	for i, r := range s {
		if !isIdentRune(r, i == 0) {
			return false
		}
	}

	return true
}

func isIdentRune(r rune, first bool) bool {
	switch {
	case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		return true
	case r >= '0' && r <= '9':
		return !first
	default:
		return false
	}
}
