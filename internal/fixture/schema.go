package fixture

// File represents the root of a fixture file.
type File struct {
	// Version of the fixture schema (for future compatibility).
	Version string `yaml:"version,omitempty"`

	// Callees are the functions invoked from implementation bodies.
	Callees []CalleeDef `yaml:"callees,omitempty"`

	// Impls are the implementations whose bounds are inferred.
	Impls []ImplDef `yaml:"impls"`
}

// CalleeDef declares an invoked function.
type CalleeDef struct {
	// Name is how calls refer to this callee.
	Name string `yaml:"name"`
	// Params are generic parameter identifiers; lifetimes start with a quote.
	Params StringOrArray `yaml:"params,omitempty"`
	// Where lists declared constraints, e.g. "T: Clone".
	Where StringOrArray `yaml:"where,omitempty"`
	// Inputs are the declared parameter types in order.
	Inputs []string `yaml:"inputs,omitempty"`
	// Output is the declared return type, if any.
	Output string `yaml:"output,omitempty"`
	// Parent is the type or trait owning a method.
	Parent *ParentDef `yaml:"parent,omitempty"`
}

// ParentDef declares the owner of a method. Its parameters are visible in the
// method's signature.
type ParentDef struct {
	Name   string        `yaml:"name"`
	Params StringOrArray `yaml:"params,omitempty"`
	Where  StringOrArray `yaml:"where,omitempty"`
}

// ImplDef declares one implementation.
type ImplDef struct {
	// Name of the implementing structure.
	Name string `yaml:"name"`
	// Params are the structure's generic parameters.
	Params StringOrArray `yaml:"params,omitempty"`
	// Where lists constraints already declared on the structure.
	Where StringOrArray `yaml:"where,omitempty"`
	// Fields of the structure in declaration order.
	Fields FieldList `yaml:"fields,omitempty"`
	// Trait is the implemented trait, if any.
	Trait *TraitDef `yaml:"trait,omitempty"`
	// Functions are the member functions with their recorded calls.
	Functions []FunctionDef `yaml:"functions,omitempty"`
}

// TraitDef declares the implemented trait. Its parameters are relevant to
// the inferred bounds like the structure's own.
type TraitDef struct {
	Path   string        `yaml:"path"`
	Params StringOrArray `yaml:"params,omitempty"`
	Where  StringOrArray `yaml:"where,omitempty"`
}

// FunctionDef is a member function.
type FunctionDef struct {
	Name  string    `yaml:"name"`
	Calls []CallDef `yaml:"calls,omitempty"`
}

// CallDef is one recorded call.
type CallDef struct {
	// Callee names a CalleeDef.
	Callee string `yaml:"callee"`
	// Site is a free-form source location used in diagnostics.
	Site string `yaml:"site,omitempty"`
	// Args are argument types or field accesses on self.
	Args []string `yaml:"args,omitempty"`
}

// FieldDef is one structure field.
type FieldDef struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// StringOrArray is a list that can be written as a single string or an array
// of strings in YAML.
type StringOrArray []string

// FieldList keeps structure fields in declaration order. It is written as a
// mapping (`{inner: P}`) or as a list of {name, type} entries.
type FieldList []FieldDef
