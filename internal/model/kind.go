package model

//go:generate go tool stringer -type=Kind -trimprefix=Kind -output=kind_string.go

// Kind identifies the variant of a Type.
type Kind int

const (
	_ Kind = iota // zero value is reserved for an invalid kind

	KindInfer
	KindTuple
	KindPrimitiveStr
	KindReference
	KindReferenceMut
	KindDereference
	KindTraitObject
	KindDataStructure
	KindPath
	KindTypeParam
)
