// Package container provides the resolution engine of the IoC container.
//
// # Overview
//
// A Resolver turns a class identifier into a fully built object. It asks a
// TypeInfoProvider how the class is constructed, resolves every class-typed
// constructor parameter recursively, fills plain parameters from their
// declared defaults (or leaves them empty), and calls the constructor.
//
// Class identifiers are backslash-namespaced strings such as
// `App\Garage\Car`. Leading separators are ignored, so `\App\Garage\Car`
// is the same class.
//
// # Singletons and forced instantiation
//
//	r := container.NewResolver(classes)
//
//	// Shared instance, created on first use and cached forever
//	car, err := r.Resolve(`App\Garage\Car`, false)
//
//	// Brand-new instance; every dependency is freshly built as well and the
//	// cache is neither read nor written.
//	fresh, err := r.Resolve(`App\Garage\Car`, true)
//
// # Errors
//
// Resolve returns a *ResolutionError wrapping one of ErrClassNotInstantiable,
// ErrUnknownClass, ErrConstructorFailed or ErrCircularDependency:
//
//	if errors.Is(err, container.ErrClassNotInstantiable) { ... }
//
// Presenting the error and deciding whether to terminate is left to the
// caller; package objectmanager hands it to an exception.Handler.
//
// # Introspection
//
// The Resolver depends only on TypeInfoProvider. Package reflection provides
// a registry built on Go's reflect package:
//
//	classes := reflection.NewRegistry()
//	classes.MustClass(`App\Garage\Engine`, (*Engine)(nil))
//	classes.MustClass(`App\Garage\Car`, NewCar, reflection.Default(1, "alloy"))
package container
