// Package reflection is the class table behind the container.
//
// Go has no lookup of types by name, so classes are registered up front under
// their identifier; the registry then uses the reflect package to read
// constructor signatures and to call them.
//
//	classes := reflection.NewRegistry()
//
//	// No constructor: built with new(garage.Engine)
//	classes.MustClass(`App\Garage\Engine`, (*garage.Engine)(nil))
//
//	// Constructor with one class-typed and one defaulted parameter
//	classes.MustClass(`App\Garage\Car`, garage.NewCar, reflection.Default(1, "alloy"))
//
//	// Interface: abstract, never instantiable
//	classes.MustClass(`App\Garage\Vehicle`, (*garage.Vehicle)(nil))
//
// A constructor parameter is class-typed when its Go type is the type of a
// registered class, or when it is annotated with Inject. Parameters are
// classified when the class is described, so registration order does not
// matter.
package reflection
