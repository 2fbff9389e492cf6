package bounds

import "bound-generator/internal/model"

// Impl is one implementation block whose bounds are inferred.
type Impl struct {
	// Name identifies the implementation in errors and logs.
	Name string
	// Self is the implementing type, usually a model.DataStructure whose
	// generics are the implementation's own parameters.
	Self model.Type
	// Trait is the implemented trait, nil for inherent implementations.
	Trait *TraitRef
	// Functions are the member functions with their recorded invocations.
	Functions []Function
}

// TraitRef is the implemented trait and its declared generics.
type TraitRef struct {
	Path     model.Path
	Generics *model.Generics
}

// Function is a member function and the calls recorded in its body.
type Function struct {
	Name        string
	Invocations []Invocation
}

// Invocation is one recorded call site.
type Invocation struct {
	// Site is a free-form source location used in diagnostics.
	Site   string
	Callee Callee
	Args   []Arg
}

// Callee is the invoked function.
type Callee struct {
	Name   string
	Sig    Signature
	Parent *Parent
}

// Parent is the type or trait owning a method.
type Parent struct {
	Name     string
	Generics *model.Generics
}

// Signature is a callee's declared signature.
type Signature struct {
	Generics *model.Generics
	Inputs   []model.Type
	Output   model.Type
}

// Arg is an argument expression and its static type.
type Arg struct {
	Expr string
	Type model.Type
}
