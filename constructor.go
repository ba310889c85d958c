package hull

import (
	"errors"
	"fmt"
	"reflect"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Constructor is a candidate factory for a component. Build it with Ctor or
// Preferred; the parameters of the wrapped function are the component's
// dependencies, resolved by exact type.
//
// Example:
//
//	func NewUserService(db *Database, log Logger) *UserService { ... }
//	func NewUserServiceWithCache(db *Database, log Logger, c *Cache) (*UserService, error) { ... }
//
//	hull.Register[*UserService](b,
//	    hull.Preferred(NewUserService),
//	    hull.Ctor(NewUserServiceWithCache),
//	)
type Constructor struct {
	fn        any
	preferred bool
}

// Ctor wraps a constructor function.
func Ctor(fn any) Constructor {
	return Constructor{fn: fn}
}

// Preferred wraps a constructor function that wins selection over every other
// candidate, regardless of how many parameters the others take.
func Preferred(fn any) Constructor {
	return Constructor{fn: fn, preferred: true}
}

// IsPreferred reports whether the constructor was marked with Preferred.
func (c Constructor) IsPreferred() bool {
	return c.preferred
}

// constructorInfo holds analyzed constructor metadata.
type constructorInfo struct {
	fn        reflect.Value
	fnType    reflect.Type
	params    []reflect.Type
	result    reflect.Type
	hasError  bool
	preferred bool
}

// analyzeConstructor inspects a constructor function and extracts its dependency
// and result information.
func analyzeConstructor(c Constructor) (*constructorInfo, error) {
	if c.fn == nil {
		return nil, NewConstructorError(c.fn, errors.New("constructor cannot be nil"))
	}

	fnValue := reflect.ValueOf(c.fn)
	fnType := fnValue.Type()

	if fnType.Kind() != reflect.Func {
		return nil, NewConstructorError(c.fn, errors.New("constructor must be a function"))
	}

	if fnValue.IsNil() {
		return nil, NewConstructorError(c.fn, errors.New("constructor cannot be nil"))
	}

	if fnType.IsVariadic() {
		return nil, NewConstructorError(c.fn, errors.New("variadic constructors are not supported"))
	}

	info := &constructorInfo{
		fn:        fnValue,
		fnType:    fnType,
		preferred: c.preferred,
	}

	for i := 0; i < fnType.NumIn(); i++ {
		info.params = append(info.params, fnType.In(i))
	}

	switch fnType.NumOut() {
	case 1:
		info.result = fnType.Out(0)
	case 2:
		if fnType.Out(1) != errorType {
			return nil, NewConstructorError(c.fn, errors.New("second return value must be error"))
		}

		info.result = fnType.Out(0)
		info.hasError = true
	default:
		return nil, NewConstructorError(c.fn, fmt.Errorf("constructor must return T or (T, error), got %d values", fnType.NumOut()))
	}

	if info.result == errorType {
		return nil, NewConstructorError(c.fn, errors.New("constructor must return a non-error value"))
	}

	return info, nil
}

// call invokes the constructor with the resolved arguments. Panics inside the
// constructor come back as errors so a broken component cannot take the
// process down during Build.
func (c *constructorInfo) call(args []any) (instance any, err error) {
	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		if arg == nil {
			in[i] = reflect.Zero(c.params[i])
		} else {
			in[i] = reflect.ValueOf(arg)
		}
	}

	defer func() {
		if r := recover(); r != nil {
			if rerr, ok := r.(error); ok {
				err = fmt.Errorf("constructor panicked: %w", rerr)
			} else {
				err = fmt.Errorf("constructor panicked: %v", r)
			}
		}
	}()

	out := c.fn.Call(in)

	if c.hasError && !out[1].IsNil() {
		return nil, out[1].Interface().(error)
	}

	if isNilValue(out[0]) {
		return nil, errors.New("constructor returned nil")
	}

	return out[0].Interface(), nil
}

// isNilValue reports whether v holds a nil of a nilable kind.
func isNilValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
		return v.IsNil()
	default:
		return false
	}
}

// implicitConstructor returns a zero-argument constructor for struct and
// pointer-to-struct types, which need no declared constructor.
func implicitConstructor(t reflect.Type) (*constructorInfo, bool) {
	var fn reflect.Value

	switch {
	case t.Kind() == reflect.Struct:
		fn = reflect.MakeFunc(reflect.FuncOf(nil, []reflect.Type{t}, false), func([]reflect.Value) []reflect.Value {
			return []reflect.Value{reflect.New(t).Elem()}
		})
	case t.Kind() == reflect.Ptr && t.Elem().Kind() == reflect.Struct:
		fn = reflect.MakeFunc(reflect.FuncOf(nil, []reflect.Type{t}, false), func([]reflect.Value) []reflect.Value {
			return []reflect.Value{reflect.New(t.Elem())}
		})
	default:
		return nil, false
	}

	return &constructorInfo{
		fn:     fn,
		fnType: fn.Type(),
		result: t,
	}, true
}
