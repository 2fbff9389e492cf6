package model

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrUnsupported marks syntax the model cannot represent, such as
// qualified-self paths (`<T as Trait>::Item`).
var ErrUnsupported = errors.New("unsupported construct")

// ParseType reads a type written in Rust-like notation. Single-segment paths
// naming a type parameter in params become TypeParam.
//
//	_  str  ()  (A, B)  &'a T  &mut T  *T  dyn A + 'a  ::std::vec::Vec<T>  Fn(A) -> B
func ParseType(ctx *Context, params ParamMap, src string) (Type, error) {
	r, err := newReader(ctx, params, src)
	if err != nil {
		return nil, err
	}

	t, err := r.parseType()
	if err != nil {
		return nil, err
	}

	return t, r.expectEOF()
}

// ParsePath reads a path, with generic arguments allowed on any segment.
func ParsePath(ctx *Context, params ParamMap, src string) (Path, error) {
	r, err := newReader(ctx, params, src)
	if err != nil {
		return Path{}, err
	}

	p, err := r.parsePath()
	if err != nil {
		return Path{}, err
	}

	return p, r.expectEOF()
}

// ParseBounds reads `A + B<T> + 'a`.
func ParseBounds(ctx *Context, params ParamMap, src string) ([]Bound, error) {
	r, err := newReader(ctx, params, src)
	if err != nil {
		return nil, err
	}

	bounds, err := r.parseBounds()
	if err != nil {
		return nil, err
	}

	return bounds, r.expectEOF()
}

// ParseConstraint reads a where-clause predicate: `T: A + B`,
// `for<'a> &'a T: A` or `'a: 'b + 'c`.
func ParseConstraint(ctx *Context, params ParamMap, src string) (GenericConstraint, error) {
	r, err := newReader(ctx, params, src)
	if err != nil {
		return nil, err
	}

	c, err := r.parseConstraint()
	if err != nil {
		return nil, err
	}

	return c, r.expectEOF()
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokLifetime
	tokPunct
)

type token struct {
	kind tokenKind
	text string
	off  int
}

type reader struct {
	ctx    *Context
	params ParamMap
	src    string
	toks   []token
	pos    int
}

func newReader(ctx *Context, params ParamMap, src string) (*reader, error) {
	if ctx == nil {
		ctx = NewContext()
	}

	if params == nil {
		params = ParamMap{}
	}

	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}

	return &reader{ctx: ctx, params: params, src: src, toks: toks}, nil
}

func tokenize(src string) ([]token, error) {
	var toks []token

	runes := []rune(src)
	for i := 0; i < len(runes); {
		r := runes[i]

		switch {
		case unicode.IsSpace(r):
			i++
		case isIdentRune(r, true):
			start := i
			for i < len(runes) && isIdentRune(runes[i], false) {
				i++
			}
			toks = append(toks, token{kind: tokIdent, text: string(runes[start:i]), off: start})
		case r == '\'':
			start := i
			i++
			for i < len(runes) && isIdentRune(runes[i], false) {
				i++
			}
			if i == start+1 {
				return nil, fmt.Errorf("parse %q at offset %d: empty lifetime", src, start)
			}
			toks = append(toks, token{kind: tokLifetime, text: string(runes[start:i]), off: start})
		case r == ':' && i+1 < len(runes) && runes[i+1] == ':':
			toks = append(toks, token{kind: tokPunct, text: "::", off: i})
			i += 2
		case r == '-' && i+1 < len(runes) && runes[i+1] == '>':
			toks = append(toks, token{kind: tokPunct, text: "->", off: i})
			i += 2
		case strings.ContainsRune("<>(),&*+:", r):
			toks = append(toks, token{kind: tokPunct, text: string(r), off: i})
			i++
		default:
			return nil, fmt.Errorf("parse %q at offset %d: unexpected %q", src, i, r)
		}
	}

	return append(toks, token{kind: tokEOF, off: len(runes)}), nil
}

func (r *reader) peek() token {
	return r.toks[r.pos]
}

func (r *reader) peekAt(n int) token {
	if r.pos+n >= len(r.toks) {
		return r.toks[len(r.toks)-1]
	}

	return r.toks[r.pos+n]
}

func (r *reader) next() token {
	t := r.toks[r.pos]
	if t.kind != tokEOF {
		r.pos++
	}

	return t
}

func (r *reader) isPunct(text string) bool {
	t := r.peek()
	return t.kind == tokPunct && t.text == text
}

func (r *reader) accept(text string) bool {
	if r.isPunct(text) {
		r.pos++
		return true
	}

	return false
}

func (r *reader) expect(text string) error {
	if !r.accept(text) {
		return r.errorf("expected %q", text)
	}

	return nil
}

func (r *reader) expectEOF() error {
	if r.peek().kind != tokEOF {
		return r.errorf("unexpected trailing input")
	}

	return nil
}

func (r *reader) errorf(format string, args ...any) error {
	tok := r.peek()
	found := tok.text
	if tok.kind == tokEOF {
		found = "end of input"
	}

	return fmt.Errorf("parse %q at offset %d (%s): %s", r.src, tok.off, found, fmt.Sprintf(format, args...))
}

func (r *reader) parseType() (Type, error) {
	tok := r.peek()

	switch {
	case r.accept("&"):
		var lifetime *LifetimeRef
		if r.peek().kind == tokLifetime {
			ref, err := r.lifetime(r.next())
			if err != nil {
				return nil, err
			}
			lifetime = &ref
		}

		mutable := false
		if t := r.peek(); t.kind == tokIdent && t.text == "mut" {
			r.next()
			mutable = true
		}

		inner, err := r.parseType()
		if err != nil {
			return nil, err
		}

		if mutable {
			return ReferenceMut{Lifetime: lifetime, Inner: inner}, nil
		}

		return Reference{Lifetime: lifetime, Inner: inner}, nil

	case r.accept("*"):
		inner, err := r.parseType()
		if err != nil {
			return nil, err
		}

		return Dereference{Inner: inner}, nil

	case r.accept("("):
		return r.parseTupleRest()

	case r.isPunct("<"):
		return nil, fmt.Errorf("%w: qualified self path in %q", ErrUnsupported, r.src)

	case tok.kind == tokIdent && tok.text == "_":
		r.next()
		return Infer{}, nil

	case tok.kind == tokIdent && tok.text == "str":
		r.next()
		return PrimitiveStr{}, nil

	case tok.kind == tokIdent && tok.text == "dyn":
		r.next()

		bounds, err := r.parseBounds()
		if err != nil {
			return nil, err
		}

		return TraitObject{Bounds: bounds}, nil

	case tok.kind == tokIdent || r.isPunct("::"):
		p, err := r.parsePath()
		if err != nil {
			return nil, err
		}

		if !p.Global && len(p.Segments) == 1 && p.Segments[0].Args == nil {
			if param, ok := r.params[p.Segments[0].Ident]; ok {
				if ref, isType := param.TypeParamRef(); isType {
					return TypeParam{Ref: ref}, nil
				}
			}
		}

		return PathType{Path: p}, nil

	default:
		return nil, r.errorf("expected a type")
	}
}

// parseTupleRest reads after `(`: `()` is unit, `(T)` is T, `(T,)` and
// `(A, B)` are tuples.
func (r *reader) parseTupleRest() (Type, error) {
	if r.accept(")") {
		return Tuple{}, nil
	}

	var elems []Type

	trailing := false

	for {
		t, err := r.parseType()
		if err != nil {
			return nil, err
		}

		elems = append(elems, t)
		trailing = r.accept(",")

		if r.accept(")") {
			break
		}

		if !trailing {
			return nil, r.errorf("expected \",\" or \")\"")
		}
	}

	if len(elems) == 1 && !trailing {
		return elems[0], nil
	}

	return Tuple{Elems: elems}, nil
}

func (r *reader) parsePath() (Path, error) {
	p := Path{Global: r.accept("::")}

	for {
		if r.peek().kind != tokIdent {
			return Path{}, r.errorf("expected a path segment")
		}

		tok := r.next()

		seg := PathSegment{Ident: tok.text}

		// Turbofish `Vec::<T>` is the same as `Vec<T>`.
		if r.isPunct("::") && r.peekAt(1).kind == tokPunct && r.peekAt(1).text == "<" {
			r.next()
		}

		switch {
		case r.isPunct("<"):
			args, err := r.parseAngle()
			if err != nil {
				return Path{}, err
			}
			seg.Args = args
		case r.isPunct("("):
			args, err := r.parseParenthesized()
			if err != nil {
				return Path{}, err
			}
			seg.Args = args
		}

		p.Segments = append(p.Segments, seg)

		if !r.accept("::") {
			return p, nil
		}
	}
}

func (r *reader) parseAngle() (PathArguments, error) {
	if err := r.expect("<"); err != nil {
		return nil, err
	}

	args := AngleBracketed{Args: []GenericArgument{}}

	for !r.accept(">") {
		if r.peek().kind == tokLifetime {
			ref, err := r.lifetime(r.next())
			if err != nil {
				return nil, err
			}
			args.Args = append(args.Args, LifetimeArg{Ref: ref})
		} else {
			t, err := r.parseType()
			if err != nil {
				return nil, err
			}
			args.Args = append(args.Args, TypeArg{Type: t})
		}

		if !r.accept(",") && !r.isPunct(">") {
			return nil, r.errorf("expected \",\" or \">\"")
		}
	}

	return args, nil
}

func (r *reader) parseParenthesized() (PathArguments, error) {
	if err := r.expect("("); err != nil {
		return nil, err
	}

	args := Parenthesized{}

	for !r.accept(")") {
		t, err := r.parseType()
		if err != nil {
			return nil, err
		}
		args.Inputs = append(args.Inputs, t)

		if !r.accept(",") && !r.isPunct(")") {
			return nil, r.errorf("expected \",\" or \")\"")
		}
	}

	if r.accept("->") {
		out, err := r.parseType()
		if err != nil {
			return nil, err
		}
		args.Output = out
	}

	return args, nil
}

func (r *reader) parseBounds() ([]Bound, error) {
	var bounds []Bound

	for {
		b, err := r.parseBound()
		if err != nil {
			return nil, err
		}

		bounds = append(bounds, b)

		if !r.accept("+") {
			return bounds, nil
		}
	}
}

func (r *reader) parseBound() (Bound, error) {
	if r.peek().kind == tokLifetime {
		ref, err := r.lifetime(r.next())
		if err != nil {
			return nil, err
		}

		return LifetimeBound{Ref: ref}, nil
	}

	lifetimes, restore, err := r.parseForLifetimes()
	if err != nil {
		return nil, err
	}
	defer restore()

	p, err := r.parsePath()
	if err != nil {
		return nil, err
	}

	return TraitBound{Lifetimes: lifetimes, Path: p}, nil
}

// parseForLifetimes reads an optional `for<'a, 'b>` binder. The binder's
// lifetimes are visible until restore is called.
func (r *reader) parseForLifetimes() ([]LifetimeRef, func(), error) {
	if t := r.peek(); t.kind != tokIdent || t.text != "for" {
		return nil, func() {}, nil
	}

	r.next()

	if err := r.expect("<"); err != nil {
		return nil, nil, err
	}

	outer := r.params
	r.params = outer.Clone()
	restore := func() { r.params = outer }

	var refs []LifetimeRef

	for !r.accept(">") {
		if r.peek().kind != tokLifetime {
			restore()
			return nil, nil, r.errorf("expected a lifetime")
		}

		tok := r.next()

		p := r.params.Declare(r.ctx, tok.text)[0]
		ref, _ := p.LifetimeRef()
		refs = append(refs, ref)

		if !r.accept(",") && !r.isPunct(">") {
			restore()
			return nil, nil, r.errorf("expected \",\" or \">\"")
		}
	}

	return refs, restore, nil
}

func (r *reader) parseConstraint() (GenericConstraint, error) {
	if r.peek().kind == tokLifetime {
		lt, err := r.lifetime(r.next())
		if err != nil {
			return nil, err
		}

		if err := r.expect(":"); err != nil {
			return nil, err
		}

		c := PredicateLifetime{Lifetime: lt}

		for {
			if r.peek().kind != tokLifetime {
				return nil, r.errorf("expected a lifetime")
			}

			tok := r.next()

			ref, err := r.lifetime(tok)
			if err != nil {
				return nil, err
			}

			c.Bounds = append(c.Bounds, ref)

			if !r.accept("+") {
				return c, nil
			}
		}
	}

	lifetimes, restore, err := r.parseForLifetimes()
	if err != nil {
		return nil, err
	}
	defer restore()

	bounded, err := r.parseType()
	if err != nil {
		return nil, err
	}

	if err := r.expect(":"); err != nil {
		return nil, err
	}

	bounds, err := r.parseBounds()
	if err != nil {
		return nil, err
	}

	return PredicateType{Lifetimes: lifetimes, BoundedType: bounded, Bounds: bounds}, nil
}

func (r *reader) lifetime(tok token) (LifetimeRef, error) {
	if p, ok := r.params[tok.text]; ok {
		if ref, isLifetime := p.LifetimeRef(); isLifetime {
			return ref, nil
		}
	}

	if tok.text == "'static" || tok.text == "'_" {
		return r.ctx.BuiltinLifetime(tok.text[1:]), nil
	}

	return 0, fmt.Errorf("parse %q at offset %d: undeclared lifetime %s", r.src, tok.off, tok.text)
}
