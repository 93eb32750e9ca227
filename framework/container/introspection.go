package container

// ── Introspection capability ──────────────────────────────────────────────────

// TypeInfoProvider answers questions about classes by identifier. The
// Resolver depends on nothing else; see package reflection for the
// registry-backed implementation.
type TypeInfoProvider interface {
	// Describe returns the descriptor for classID. The identifier is already
	// normalized. Unknown classes must produce an error wrapping
	// ErrUnknownClass.
	Describe(classID string) (ClassDescriptor, error)
}

// ClassDescriptor is an opaque handle to one class.
type ClassDescriptor interface {
	// Name returns the normalized class identifier.
	Name() string

	// Instantiable reports whether NewInstance may be called. Abstract and
	// interface classes return false.
	Instantiable() bool

	// HasConstructor reports whether the class declares a constructor.
	// Classes without one are instantiated with zero arguments.
	HasConstructor() bool

	// Parameters returns the constructor parameters in declaration order.
	Parameters() []Parameter

	// NewInstance calls the constructor with args, one per parameter.
	// A nil entry stands for "no value".
	NewInstance(args []any) (any, error)
}

// Parameter describes one constructor parameter.
type Parameter struct {
	Position int
	Type     string

	// ClassID is the class the parameter is annotated with, or "" when the
	// parameter is a plain value.
	ClassID string

	HasDefault bool
	Default    any
}

// ClassTyped reports whether the parameter is resolved through the container.
func (p Parameter) ClassTyped() bool { return p.ClassID != "" }
