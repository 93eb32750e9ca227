package reflection

import (
	"fmt"
	"math"
	"reflect"

	"github.com/km-arc/go-inject/framework/container"
)

// class holds the registration metadata for one class.
type class struct {
	name string

	// typ is the Go type instances of the class have. It doubles as the
	// parameter type that marks a dependency on this class.
	typ reflect.Type

	// ctor is invalid when the class has no constructor.
	ctor     reflect.Value
	abstract bool

	defaults map[int]any
	inject   map[int]string
}

func newClass(name string, target any) (*class, error) {
	c := &class{
		name:     name,
		defaults: make(map[int]any),
		inject:   make(map[int]string),
	}

	t := reflect.TypeOf(target)
	if t == nil {
		return nil, fmt.Errorf("%w: %s: target is nil", ErrInvalidTarget, name)
	}

	switch t.Kind() {
	case reflect.Func:
		v := reflect.ValueOf(target)
		if v.IsNil() {
			return nil, fmt.Errorf("%w: %s: constructor is nil", ErrInvalidTarget, name)
		}
		if t.NumOut() == 0 || t.NumOut() > 2 {
			return nil, fmt.Errorf("%w: %s: constructor must return (T) or (T, error)", ErrInvalidTarget, name)
		}
		if t.NumOut() == 2 && !t.Out(1).Implements(errorType) {
			return nil, fmt.Errorf("%w: %s: second return value must implement error", ErrInvalidTarget, name)
		}
		c.typ = t.Out(0)
		c.ctor = v

	case reflect.Pointer:
		switch t.Elem().Kind() {
		case reflect.Interface:
			c.typ = t.Elem()
			c.abstract = true
		case reflect.Struct:
			c.typ = t
		default:
			return nil, fmt.Errorf("%w: %s: %s is not a struct or interface pointer", ErrInvalidTarget, name, t)
		}

	default:
		return nil, fmt.Errorf("%w: %s: unsupported target %s", ErrInvalidTarget, name, t)
	}

	return c, nil
}

// validate checks option positions against the constructor and coerces
// defaults to their parameter types.
func (c *class) validate() error {
	if !c.ctor.IsValid() {
		if len(c.defaults) > 0 || len(c.inject) > 0 {
			return fmt.Errorf("%w: %s: parameter options need a constructor", ErrInvalidTarget, c.name)
		}
		return nil
	}

	fnType := c.ctor.Type()
	inRange := func(pos int) bool { return pos >= 0 && pos < fnType.NumIn() }

	for pos, id := range c.inject {
		if !inRange(pos) {
			return fmt.Errorf("%w: %s: no parameter at position %d", ErrInvalidTarget, c.name, pos)
		}
		if container.Normalize(id) == "" {
			return fmt.Errorf("%w: %s: empty class annotation at position %d", ErrInvalidTarget, c.name, pos)
		}
		c.inject[pos] = container.Normalize(id)
	}

	for pos, value := range c.defaults {
		if !inRange(pos) {
			return fmt.Errorf("%w: %s: no parameter at position %d", ErrInvalidTarget, c.name, pos)
		}
		coerced, err := coerce(value, fnType.In(pos))
		if err != nil {
			return fmt.Errorf("%w: %s: default for parameter %d: %v", ErrInvalidTarget, c.name, pos, err)
		}
		c.defaults[pos] = coerced
	}
	return nil
}

// ── Descriptor ────────────────────────────────────────────────────────────────

// descriptor is the container.ClassDescriptor handed to the resolver. params
// is computed when the descriptor is created so later registrations do not
// change a resolution already in progress.
type descriptor struct {
	class  *class
	params []container.Parameter
}

func (d *descriptor) Name() string         { return d.class.name }
func (d *descriptor) Instantiable() bool   { return !d.class.abstract }
func (d *descriptor) HasConstructor() bool { return d.class.ctor.IsValid() }

func (d *descriptor) Parameters() []container.Parameter {
	return append([]container.Parameter(nil), d.params...)
}

func (d *descriptor) NewInstance(args []any) (any, error) {
	c := d.class
	if c.abstract {
		return nil, fmt.Errorf("%w: %s", container.ErrClassNotInstantiable, c.name)
	}

	if !c.ctor.IsValid() {
		if len(args) > 0 {
			return nil, fmt.Errorf("%w: %s takes no arguments, got %d", container.ErrConstructorFailed, c.name, len(args))
		}
		return reflect.New(c.typ.Elem()).Interface(), nil
	}

	fnType := c.ctor.Type()
	if len(args) != fnType.NumIn() {
		return nil, fmt.Errorf("%w: %s takes %d arguments, got %d", container.ErrConstructorFailed, c.name, fnType.NumIn(), len(args))
	}

	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		v, err := argument(arg, fnType.In(i))
		if err != nil {
			return nil, fmt.Errorf("%w: %s parameter %d: %v", container.ErrConstructorFailed, c.name, i, err)
		}
		in[i] = v
	}

	var out []reflect.Value
	if fnType.IsVariadic() {
		out = c.ctor.CallSlice(in)
	} else {
		out = c.ctor.Call(in)
	}

	if len(out) == 2 && !out[1].IsNil() {
		return nil, fmt.Errorf("%w: %s: %w", container.ErrConstructorFailed, c.name, out[1].Interface().(error))
	}

	result := out[0]
	if nilable(result.Kind()) && result.IsNil() {
		return nil, fmt.Errorf("%w: %s returned nil", container.ErrConstructorFailed, c.name)
	}
	return result.Interface(), nil
}

// ── Value helpers ─────────────────────────────────────────────────────────────

// argument converts an assembled argument into a call value. nil becomes the
// zero value of t.
func argument(arg any, t reflect.Type) (reflect.Value, error) {
	if arg == nil {
		return reflect.Zero(t), nil
	}
	v := reflect.ValueOf(arg)
	if !v.Type().AssignableTo(t) {
		return reflect.Value{}, fmt.Errorf("%s is not assignable to %s", v.Type(), t)
	}
	return v, nil
}

// coerce makes a declared default fit its parameter type. Numeric values are
// converted between numeric kinds; everything else must be assignable.
func coerce(value any, t reflect.Type) (any, error) {
	if value == nil {
		if !nilable(t.Kind()) {
			return nil, fmt.Errorf("nil is not a valid %s", t)
		}
		return nil, nil
	}

	v := reflect.ValueOf(value)
	if v.Type().AssignableTo(t) {
		return value, nil
	}
	if numeric(v.Kind()) && numeric(t.Kind()) {
		if err := representable(v, t); err != nil {
			return nil, err
		}
		return v.Convert(t).Interface(), nil
	}
	return nil, fmt.Errorf("%s is not assignable to %s", v.Type(), t)
}

// representable reports an error unless converting the numeric v to t keeps
// its value exactly.
func representable(v reflect.Value, t reflect.Type) error {
	target := reflect.New(t).Elem()
	lossy := fmt.Errorf("%v does not fit in %s", v.Interface(), t)

	switch {
	case signed(v.Kind()):
		i := v.Int()
		switch {
		case signed(t.Kind()):
			if target.OverflowInt(i) {
				return lossy
			}
		case unsigned(t.Kind()):
			if i < 0 || target.OverflowUint(uint64(i)) {
				return lossy
			}
		default:
			if v.Convert(t).Convert(v.Type()).Int() != i {
				return lossy
			}
		}

	case unsigned(v.Kind()):
		u := v.Uint()
		switch {
		case signed(t.Kind()):
			if u > math.MaxInt64 || target.OverflowInt(int64(u)) {
				return lossy
			}
		case unsigned(t.Kind()):
			if target.OverflowUint(u) {
				return lossy
			}
		default:
			if v.Convert(t).Convert(v.Type()).Uint() != u {
				return lossy
			}
		}

	default:
		f := v.Float()
		switch {
		case signed(t.Kind()), unsigned(t.Kind()):
			if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
				return fmt.Errorf("%v is not an integer", v.Interface())
			}
			if signed(t.Kind()) {
				if f < math.MinInt64 || f >= math.MaxInt64 || target.OverflowInt(int64(f)) {
					return lossy
				}
			} else if f < 0 || f >= math.MaxUint64 || target.OverflowUint(uint64(f)) {
				return lossy
			}
		default:
			if target.OverflowFloat(f) {
				return lossy
			}
		}
	}
	return nil
}

func nilable(k reflect.Kind) bool {
	switch k {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return true
	}
	return false
}

func numeric(k reflect.Kind) bool {
	return signed(k) || unsigned(k) || k == reflect.Float32 || k == reflect.Float64
}

func signed(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func unsigned(k reflect.Kind) bool {
	switch k {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}
