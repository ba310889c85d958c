package hull

import "reflect"

// ComponentRegistration holds configuration for a component to be registered.
type ComponentRegistration struct {
	Key          reflect.Type
	Constructors []Constructor
	Instance     any
	Capabilities []reflect.Type
	HideSelf     bool

	external bool
}

// Component creates a ComponentRegistration for batch registration.
//
// Example:
//
//	hull.RegisterComponents(b,
//	    hull.Component(hull.KeyOf[*Database](), hull.Ctor(NewDatabase)),
//	    hull.Component(hull.KeyOf[*Cache](), hull.Ctor(NewCache)).As(hull.KeyOf[Store]()),
//	)
func Component(key reflect.Type, ctors ...Constructor) ComponentRegistration {
	return ComponentRegistration{
		Key:          key,
		Constructors: ctors,
	}
}

// Instance creates a ComponentRegistration for an externally-owned instance.
func Instance(key reflect.Type, instance any) ComponentRegistration {
	return ComponentRegistration{
		Key:      key,
		Instance: instance,
		external: true,
	}
}

// As adds capability aliases.
func (r ComponentRegistration) As(capabilities ...reflect.Type) ComponentRegistration {
	r.Capabilities = append(append([]reflect.Type{}, r.Capabilities...), capabilities...)
	return r
}

// WithoutSelf removes the component's own type-key once aliases are added.
func (r ComponentRegistration) WithoutSelf() ComponentRegistration {
	r.HideSelf = true
	return r
}

// RegisterComponents registers multiple components in a single call.
// Returns the first error; components before it stay registered.
//
// Example:
//
//	err := hull.RegisterComponents(b,
//	    hull.Instance(hull.KeyOf[*Config](), cfg),
//	    hull.Component(hull.KeyOf[*Database](), hull.Ctor(NewDatabase)),
//	    hull.Component(hull.KeyOf[*Logger](), hull.Ctor(NewLogger)),
//	)
func RegisterComponents(b *Builder, components ...ComponentRegistration) error {
	for _, comp := range components {
		if err := registerComponent(b, comp); err != nil {
			return err
		}
	}
	return nil
}

func registerComponent(b *Builder, comp ComponentRegistration) error {
	var (
		reg *Registration
		err error
	)

	if comp.external {
		reg, err = b.RegisterInstance(comp.Key, comp.Instance)
	} else {
		reg, err = b.Register(comp.Key, comp.Constructors...)
	}

	if err != nil {
		return err
	}

	for _, capability := range comp.Capabilities {
		if _, err := reg.As(capability); err != nil {
			return err
		}
	}

	if comp.HideSelf {
		_, err = reg.WithoutSelf()
	}

	return err
}
