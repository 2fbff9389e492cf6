package bounds

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"bound-generator/internal/model"
	"bound-generator/internal/unify"
)

// Options configures bound collection.
type Options struct {
	// LegacyMerge keeps the historical "add one side only" behaviour when two
	// already-known types from different sets are unified.
	LegacyMerge bool
	// Logger receives debug events. Nil discards them.
	Logger *log.Logger
	// Names prints types in logs and errors. May be nil.
	Names *model.Context
}

// DefaultOptions returns the default collection options.
func DefaultOptions() Options {
	return Options{
		LegacyMerge: false,
	}
}

// Result is the outcome of one collection pass.
type Result struct {
	// Constraints is the inferred where clause in deterministic order.
	Constraints *model.ConstraintSet
	// Sets is a printable view of the equality sets built during the pass.
	Sets []unify.SetSnapshot
}

// Collector infers bounds for implementations. Every call to Collect is an
// independent pass with its own equality sets.
type Collector struct {
	opts   Options
	logger *log.Logger
}

// NewCollector creates a Collector.
func NewCollector(opts Options) *Collector {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &Collector{opts: opts, logger: logger}
}

// ComputeTraitBounds runs one collection pass over impl with opts.
func ComputeTraitBounds(impl *Impl, opts Options) (*model.ConstraintSet, error) {
	res, err := NewCollector(opts).Collect(impl)
	if err != nil {
		return nil, err
	}

	return res.Constraints, nil
}

// Collect infers the constraint set of impl.
func (c *Collector) Collect(impl *Impl) (*Result, error) {
	if impl == nil {
		return nil, fmt.Errorf("collect bounds: %w", ErrNilImpl)
	}

	p := &pass{
		collector:   c,
		impl:        impl,
		constraints: model.NewConstraintSet(),
		store: unify.NewStore(unify.StoreOptions{
			LegacyMerge: c.opts.LegacyMerge,
			Logger:      c.logger,
			Names:       c.opts.Names,
		}),
	}

	p.seed()

	if err := p.processFunctions(); err != nil {
		return nil, err
	}

	// Resolution failures have no single call site.
	constraints, err := p.filter()
	if err != nil {
		return nil, err
	}

	c.logger.Debug("bounds inferred", "impl", impl.Name,
		"collected", p.constraints.Len(), "kept", constraints.Len(), "sets", len(p.store.Sets()))

	return &Result{Constraints: constraints, Sets: p.store.Snapshot()}, nil
}

// pass holds the state of one collection pass.
type pass struct {
	collector      *Collector
	impl           *Impl
	store          *unify.Store
	constraints    *model.ConstraintSet
	relevantParams []model.TypeParamRef
}

func (p *pass) seed() {
	if ds, ok := p.impl.Self.(model.DataStructure); ok {
		p.addGenerics(&ds.Generics)
	}

	if p.impl.Trait != nil {
		p.addGenerics(p.impl.Trait.Generics)
	}
}

func (p *pass) addGenerics(g *model.Generics) {
	if g == nil {
		return
	}

	p.constraints.InsertAll(g.Constraints)
	p.relevantParams = append(p.relevantParams, g.TypeParams()...)
}

func (p *pass) processFunctions() error {
	for _, fn := range p.impl.Functions {
		for i, inv := range fn.Invocations {
			if err := p.processInvocation(inv); err != nil {
				return &SiteError{
					Impl:       p.impl.Name,
					Function:   fn.Name,
					Invocation: i,
					Callee:     inv.Callee.Name,
					Site:       inv.Site,
					Err:        err,
				}
			}
		}
	}

	return nil
}

func (p *pass) processInvocation(inv Invocation) error {
	inputs := inv.Callee.Sig.Inputs

	// Arguments and inputs are paired positionally; surplus entries on either
	// side carry no equality.
	for i := 0; i < len(inputs) && i < len(inv.Args); i++ {
		if err := p.store.InsertAsEqualTo(inputs[i], inv.Args[i].Type, p.constraints); err != nil {
			return fmt.Errorf("argument %d (%s): %w", i, inv.Args[i].Expr, err)
		}
	}

	if parent := inv.Callee.Parent; parent != nil && parent.Generics != nil {
		p.constraints.InsertAll(parent.Generics.Constraints)
	}

	if g := inv.Callee.Sig.Generics; g != nil {
		p.constraints.InsertAll(g.Constraints)
	}

	return nil
}

func (p *pass) filter() (*model.ConstraintSet, error) {
	resolver := unify.NewResolver(p.store)

	relevant, err := unify.RelevantSetRefs(p.store, resolver, p.relevantParams)
	if err != nil {
		return nil, err
	}

	return unify.NewFilter(p.store, resolver, relevant, p.collector.logger).ApplySet(p.constraints)
}
