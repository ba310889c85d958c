package hull

import (
	"fmt"
	"reflect"
)

// KeyOf returns the type-key for T. Interface types are supported.
func KeyOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Register registers T with type safety.
//
// Example:
//
//	hull.Register[*UserService](b, hull.Ctor(NewUserService))
func Register[T any](b *Builder, ctors ...Constructor) (*Registration, error) {
	return b.Register(KeyOf[T](), ctors...)
}

// MustRegister registers T or panics - use only during startup.
func MustRegister[T any](b *Builder, ctors ...Constructor) *Registration {
	reg, err := Register[T](b, ctors...)
	if err != nil {
		panic(fmt.Sprintf("failed to register %s: %v", DescribeType(KeyOf[T]()), err))
	}

	return reg
}

// RegisterInstance registers an externally-owned instance as T.
func RegisterInstance[T any](b *Builder, instance T) (*Registration, error) {
	return b.RegisterInstance(KeyOf[T](), instance)
}

// As aliases the registration as capability C.
//
// Example:
//
//	reg, _ := hull.Register[*FileStore](b)
//	hull.As[Store](reg)
func As[C any](r *Registration) (*Registration, error) {
	return r.As(KeyOf[C]())
}

// Resolve with type safety.
func Resolve[T any](c *Container) (T, error) {
	var zero T

	key := KeyOf[T]()

	instance, err := c.Resolve(key)
	if err != nil {
		return zero, err
	}

	typed, ok := instance.(T)
	if !ok {
		return zero, ErrTypeMismatch(key, instance)
	}

	return typed, nil
}

// Must resolves or panics - use only during startup.
func Must[T any](c *Container) T {
	instance, err := Resolve[T](c)
	if err != nil {
		panic(fmt.Sprintf("failed to resolve %s: %v", DescribeType(KeyOf[T]()), err))
	}

	return instance
}

// OfType returns every instance that is a T, in construction order.
func OfType[T any](c *Container) []T {
	matches := c.OfCapability(KeyOf[T]())

	typed := make([]T, 0, len(matches))
	for _, m := range matches {
		if v, ok := m.(T); ok {
			typed = append(typed, v)
		}
	}

	return typed
}
