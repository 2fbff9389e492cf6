package fixture

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"bound-generator/internal/bounds"
	"bound-generator/internal/diagnostic"
	"bound-generator/internal/match"
	"bound-generator/internal/model"
)

// Build converts f into implementations ready for bound collection. Type
// parameters are registered in ctx, which must then be used to print the
// results. Implementations with error diagnostics are left out of the
// returned slice; the diagnostics say why.
func Build(f *File, ctx *model.Context) ([]*bounds.Impl, *diagnostic.Diagnostics) {
	b := newBuilder(ctx)
	if f == nil {
		b.diags.AddError("fixture_is_nil", "fixture file is nil", "", "")
		return nil, b.diags
	}

	return b.build(f), b.diags
}

// Validate reports every problem Build would report, without keeping the
// built implementations.
func Validate(f *File) *diagnostic.Diagnostics {
	_, diags := Build(f, model.NewContext())
	return diags
}

type builder struct {
	ctx     *model.Context
	diags   *diagnostic.Diagnostics
	callees map[string]*CalleeDef
	used    map[string]bool
}

func newBuilder(ctx *model.Context) *builder {
	if ctx == nil {
		ctx = model.NewContext()
	}

	return &builder{
		ctx:     ctx,
		diags:   &diagnostic.Diagnostics{},
		callees: map[string]*CalleeDef{},
		used:    map[string]bool{},
	}
}

func (b *builder) build(f *File) []*bounds.Impl {
	if err := CheckVersion(f.Version); err != nil {
		b.diags.AddError("unsupported_version", err.Error(), "", "")
		return nil
	}

	calleeOrder := make([]string, 0, len(f.Callees))
	seenCallees := map[string]struct{}{}

	for i := range f.Callees {
		cd := &f.Callees[i]
		if cd.Name == "" {
			b.diags.AddError("missing_name", fmt.Sprintf("callee #%d has no name", i), "", "")
			continue
		}

		if _, dup := seenCallees[cd.Name]; dup {
			b.diags.AddError("duplicate_callee", fmt.Sprintf("duplicate callee %q", cd.Name), "", "callee "+cd.Name)
			continue
		}

		seenCallees[cd.Name] = struct{}{}

		// Checked against a scratch context; each implementation declares
		// its own copy of the callee's parameters on first call.
		check := &builder{ctx: model.NewContext(), diags: b.diags}
		if _, ok := check.buildCallee(cd); ok {
			b.callees[cd.Name] = cd
			calleeOrder = append(calleeOrder, cd.Name)
		}
	}

	var impls []*bounds.Impl

	seenImpls := map[string]struct{}{}

	for i := range f.Impls {
		id := &f.Impls[i]
		if id.Name == "" {
			b.diags.AddError("missing_name", fmt.Sprintf("impl #%d has no name", i), "", "")
			continue
		}

		if _, dup := seenImpls[id.Name]; dup {
			b.diags.AddError("duplicate_impl", fmt.Sprintf("duplicate impl %q", id.Name), id.Name, "")
			continue
		}

		seenImpls[id.Name] = struct{}{}

		if impl, ok := b.buildImpl(id); ok {
			impls = append(impls, impl)
		}
	}

	for _, name := range calleeOrder {
		if !b.used[name] {
			b.diags.AddWarning("unused_callee", fmt.Sprintf("callee %q is never called", name), "", "callee "+name)
		}
	}

	return impls
}

// scope reads declarations of one item. Parse failures are recorded as
// diagnostics against impl and site; ok turns false after the first one.
type scope struct {
	b      *builder
	params model.ParamMap
	impl   string
	ok     bool
}

func (b *builder) newScope(impl string) *scope {
	return &scope{b: b, params: model.ParamMap{}, impl: impl, ok: true}
}

func (s *scope) nested() *scope {
	return &scope{b: s.b, params: s.params.Clone(), impl: s.impl, ok: true}
}

func (s *scope) fail(code, site string, err error) {
	if errors.Is(err, model.ErrUnsupported) {
		code = diagnostic.CodeUnsupportedConstruct
	}

	s.b.diags.AddError(code, err.Error(), s.impl, site)
	s.ok = false
}

func (s *scope) declare(idents StringOrArray, site string) []model.GenericParam {
	for i, ident := range idents {
		name := strings.TrimPrefix(ident, "'")
		if name == "" || strings.ContainsAny(name, " <>,:&()*") {
			s.fail("invalid_param", site, fmt.Errorf("invalid generic parameter %q", ident))
			return nil
		}

		if idents[:i].Contains(ident) {
			s.fail("invalid_param", site, fmt.Errorf("duplicate generic parameter %q", ident))
			return nil
		}
	}

	return s.params.Declare(s.b.ctx, idents...)
}

func (s *scope) typ(src, site string) model.Type {
	t, err := model.ParseType(s.b.ctx, s.params, src)
	if err != nil {
		s.fail("invalid_type", site, err)
		return nil
	}

	return t
}

func (s *scope) path(src, site string) model.Path {
	p, err := model.ParsePath(s.b.ctx, s.params, src)
	if err != nil {
		s.fail("invalid_path", site, err)
		return model.Path{}
	}

	return p
}

func (s *scope) generics(params, where StringOrArray, site string) *model.Generics {
	g := &model.Generics{Params: s.declare(params, site)}

	for i, src := range where {
		c, err := model.ParseConstraint(s.b.ctx, s.params, src)
		if err != nil {
			s.fail("invalid_constraint", fmt.Sprintf("%s, where #%d", site, i), err)
			continue
		}

		g.Constraints = append(g.Constraints, c)
	}

	return g
}

func (b *builder) buildCallee(cd *CalleeDef) (*bounds.Callee, bool) {
	site := "callee " + cd.Name
	outer := b.newScope("")

	callee := &bounds.Callee{Name: cd.Name}

	if pd := cd.Parent; pd != nil {
		if pd.Name == "" {
			b.diags.AddError("missing_name", "parent has no name", "", site)
			return nil, false
		}

		callee.Parent = &bounds.Parent{
			Name:     pd.Name,
			Generics: outer.generics(pd.Params, pd.Where, site+", parent "+pd.Name),
		}
	}

	inner := outer.nested()
	callee.Sig.Generics = inner.generics(cd.Params, cd.Where, site)

	for i, src := range cd.Inputs {
		callee.Sig.Inputs = append(callee.Sig.Inputs, inner.typ(src, fmt.Sprintf("%s, input #%d", site, i)))
	}

	if cd.Output != "" {
		callee.Sig.Output = inner.typ(cd.Output, site+", output")
	} else {
		callee.Sig.Output = model.Unit()
	}

	return callee, outer.ok && inner.ok
}

func (b *builder) buildImpl(id *ImplDef) (*bounds.Impl, bool) {
	sc := b.newScope(id.Name)

	self := model.DataStructure{Name: id.Name}
	self.Generics = *sc.generics(id.Params, id.Where, "")

	for _, fd := range id.Fields {
		if fd.Name == "" {
			b.diags.AddError("missing_name", "field has no name", id.Name, "")
			sc.ok = false

			continue
		}

		self.Fields = append(self.Fields, model.Field{Name: fd.Name, Type: sc.typ(fd.Type, "field "+fd.Name)})
	}

	impl := &bounds.Impl{Name: id.Name, Self: self}
	instances := map[string]*bounds.Callee{}

	// Trait parameters are visible in call arguments.
	body := sc
	if td := id.Trait; td != nil {
		body = sc.nested()
		trait := &bounds.TraitRef{Generics: body.generics(td.Params, td.Where, "trait")}

		if strings.TrimSpace(td.Path) == "" {
			b.diags.AddError("invalid_path", "trait path is empty", id.Name, "trait")
			body.ok = false
		} else {
			trait.Path = body.path(td.Path, "trait")
		}

		impl.Trait = trait
	}

	for _, fnd := range id.Functions {
		fn := bounds.Function{Name: fnd.Name}

		for i, cd := range fnd.Calls {
			site := fmt.Sprintf("fn %s, call #%d to %s", fnd.Name, i, cd.Callee)
			if cd.Site != "" {
				site += " (" + cd.Site + ")"
			}

			inv, ok := b.buildInvocation(body, id, self, instances, cd, site)
			if ok {
				fn.Invocations = append(fn.Invocations, inv)
			}
		}

		impl.Functions = append(impl.Functions, fn)
	}

	return impl, sc.ok && body.ok
}

func (b *builder) buildInvocation(sc *scope, id *ImplDef, self model.DataStructure,
	instances map[string]*bounds.Callee, cd CallDef, site string,
) (bounds.Invocation, bool) {
	def, known := b.callees[cd.Callee]
	if !known {
		b.diags.AddErrorWithSuggestions("unknown_callee", fmt.Sprintf("unknown callee %q", cd.Callee),
			sc.impl, site, didYouMean(cd.Callee, slices.Sorted(maps.Keys(b.callees))))
		sc.ok = false

		return bounds.Invocation{}, false
	}

	b.used[cd.Callee] = true

	callee, ok := instances[cd.Callee]
	if !ok {
		// Already validated, so nothing is reported twice.
		quiet := &builder{ctx: b.ctx, diags: &diagnostic.Diagnostics{}}
		callee, _ = quiet.buildCallee(def)
		instances[cd.Callee] = callee
	}

	if len(cd.Args) != len(callee.Sig.Inputs) {
		b.diags.AddWarning("arity_differs",
			fmt.Sprintf("%d arguments for %d inputs, only the first %d are related",
				len(cd.Args), len(callee.Sig.Inputs), min(len(cd.Args), len(callee.Sig.Inputs))),
			sc.impl, site)
	}

	inv := bounds.Invocation{Site: cd.Site, Callee: *callee}

	for i, expr := range cd.Args {
		t, err := argType(sc, self, expr)

		var fieldErr *unknownFieldError

		switch {
		case errors.As(err, &fieldErr):
			b.diags.AddErrorWithSuggestions("unknown_field", err.Error(), sc.impl,
				fmt.Sprintf("%s, argument #%d", site, i), didYouMean(fieldErr.name, id.Fields.Names()))
			sc.ok = false

			continue
		case err != nil:
			sc.fail("invalid_type", fmt.Sprintf("%s, argument #%d", site, i), err)
			continue
		}

		inv.Args = append(inv.Args, bounds.Arg{Expr: expr, Type: t})
	}

	return inv, sc.ok
}

type unknownFieldError struct {
	expr, name string
}

func (e *unknownFieldError) Error() string {
	return fmt.Sprintf("%s: unknown field %q", e.expr, e.name)
}

// didYouMean turns close names into diagnostic suggestions.
func didYouMean(name string, known []string) []string {
	var out []string
	for _, s := range match.Suggest(name, known) {
		out = append(out, fmt.Sprintf("did you mean %q?", s))
	}

	return out
}

// argType reads an argument: self, a field of self, or a type expression,
// each optionally behind `&`, `&mut` or `*`. The value self has the path type
// naming the implementing structure; fields are looked up on its declaration.
func argType(sc *scope, self model.DataStructure, expr string) (model.Type, error) {
	src := strings.TrimSpace(expr)

	if rest, ok := strings.CutPrefix(src, "*"); ok {
		t, err := argType(sc, self, rest)
		if err != nil {
			return nil, err
		}

		return model.Deref(t), nil
	}

	wrap := func(t model.Type) model.Type { return t }

	switch {
	case strings.HasPrefix(src, "&mut "):
		wrap = model.RefMut
		src = strings.TrimSpace(strings.TrimPrefix(src, "&mut "))
	case strings.HasPrefix(src, "&"):
		wrap = model.Ref
		src = strings.TrimSpace(strings.TrimPrefix(src, "&"))
	}

	if src == "self" {
		return wrap(model.Named(self.Path())), nil
	}

	if field, ok := strings.CutPrefix(src, "self."); ok {
		t, err := model.FieldType(wrap(self), field)
		if err != nil {
			return nil, &unknownFieldError{expr: strings.TrimSpace(expr), name: field}
		}

		return t, nil
	}

	return model.ParseType(sc.b.ctx, sc.params, expr)
}
