package diagnostic

import (
	"errors"

	"bound-generator/internal/bounds"
	"bound-generator/internal/unify"
)

// Codes of engine failures.
const (
	CodeArityMismatch         = "arity_mismatch"
	CodeUnsupportedConstruct  = "unsupported_construct"
	CodeInternalInconsistency = "internal_inconsistency"
	CodeInferenceFailed       = "inference_failed"
)

// Code returns the diagnostic code for an engine error.
func Code(err error) string {
	switch {
	case errors.Is(err, unify.ErrArityMismatch):
		return CodeArityMismatch
	case errors.Is(err, unify.ErrUnsupported):
		return CodeUnsupportedConstruct
	case errors.Is(err, unify.ErrInternal):
		return CodeInternalInconsistency
	default:
		return CodeInferenceFailed
	}
}

// FromError converts an engine error for impl into an error diagnostic. A
// *bounds.SiteError is pinned to its call site and reported with its cause
// only.
func FromError(impl string, err error) Diagnostic {
	d := Diagnostic{
		Severity: DiagnosticError,
		Code:     Code(err),
		Message:  err.Error(),
		Impl:     impl,
	}

	var siteErr *bounds.SiteError
	if errors.As(err, &siteErr) {
		d.Site = siteErr.Location()
		d.Message = siteErr.Err.Error()

		if d.Impl == "" {
			d.Impl = siteErr.Impl
		}
	}

	switch d.Code {
	case CodeUnsupportedConstruct:
		d.Suggestions = append(d.Suggestions, "rewrite the call with angle-bracketed arguments or declare the bound by hand")
	case CodeInternalInconsistency:
		d.Suggestions = append(d.Suggestions, "the recorded argument types contradict each other; check the call site")
	}

	return d
}

// AddEngineError records err as an error diagnostic of impl.
func (d *Diagnostics) AddEngineError(impl string, err error) {
	d.Errors = append(d.Errors, FromError(impl, err))
}
