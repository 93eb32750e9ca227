package reflection

// Option configures a class during registration.
type Option func(*class)

// Default declares the default value of the constructor parameter at
// position. Defaults only apply to parameters that are not class-typed.
//
//	// NewCar(e *Engine, wheels string) *Car
//	classes.Class(`App\Car`, NewCar, reflection.Default(1, "alloy"))
func Default(position int, value any) Option {
	return func(c *class) {
		c.defaults[position] = value
	}
}

// Inject annotates the constructor parameter at position with a class. Use it
// when the parameter's Go type is not itself registered, for example an
// interface satisfied by a registered concrete class.
func Inject(position int, classID string) Option {
	return func(c *class) {
		c.inject[position] = classID
	}
}

// Uninstantiable marks the class as not constructible even though it has a
// usable target, the equivalent of a private constructor.
func Uninstantiable() Option {
	return func(c *class) {
		c.abstract = true
	}
}
