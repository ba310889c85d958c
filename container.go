package hull

import (
	"context"
	"reflect"
	"slices"

	"github.com/xraph/go-utils/di"
)

// ComponentInfo contains diagnostic information about a built component.
type ComponentInfo struct {
	// Type is the component's own type-key.
	Type reflect.Type

	// Name is the instance's display name: its Name() if it implements
	// di.Namer, otherwise the import path and type name.
	Name string

	// Keys lists the type-keys that resolve to this component, own key first.
	// Empty after WithoutSelf with no aliases.
	Keys []reflect.Type

	// Dependencies lists the parameter types of the constructor that built it.
	Dependencies []reflect.Type

	// Order is the component's position in construction order.
	Order int

	// External reports an instance registered with RegisterInstance.
	External bool

	// AutoRegistered reports a component added by AutoRegisterMissing.
	AutoRegistered bool

	// Instance is the singleton.
	Instance any
}

// clone returns a copy of info that shares no slices with it.
func (info ComponentInfo) clone() ComponentInfo {
	info.Keys = slices.Clone(info.Keys)
	info.Dependencies = slices.Clone(info.Dependencies)

	return info
}

// Container is the immutable result of Build. It is safe for concurrent use.
type Container struct {
	id         string
	instances  map[reflect.Type]any
	index      map[reflect.Type]int
	components []ComponentInfo
}

func newContainer(id string, reg *registry, order []*descriptor) *Container {
	c := &Container{
		id:         id,
		instances:  make(map[reflect.Type]any, len(reg.keys)),
		index:      make(map[reflect.Type]int, len(reg.keys)),
		components: make([]ComponentInfo, len(order)),
	}

	for key, d := range reg.keys {
		if d.hasInstance {
			c.instances[key] = d.instance
			c.index[key] = d.order
		}
	}

	for i, d := range order {
		c.components[i] = ComponentInfo{
			Type:           d.typ,
			Name:           di.ServiceName(d.instance),
			Keys:           reg.aliasesOf(d),
			Dependencies:   slices.Clone(d.deps),
			Order:          d.order,
			External:       d.external,
			AutoRegistered: d.auto,
			Instance:       d.instance,
		}
	}

	return c
}

// ID returns the identifier of the build that produced the container. It is
// attached to every log line and span of that build.
func (c *Container) ID() string {
	return c.id
}

// Resolve returns the singleton registered under key. Keys removed with
// WithoutSelf, and keys never registered, fail with RESOLUTION_FAILED.
func (c *Container) Resolve(key reflect.Type) (any, error) {
	instance, ok := c.instances[key]
	if !ok {
		return nil, ErrResolutionFailed(key)
	}

	return instance, nil
}

// Has reports whether key resolves.
func (c *Container) Has(key reflect.Type) bool {
	_, ok := c.instances[key]
	return ok
}

// OfCapability returns every instance assignable to capability, in
// construction order. The capability does not need to be registered as an
// alias. It never fails; with no match it returns an empty slice.
func (c *Container) OfCapability(capability reflect.Type) []any {
	matches := make([]any, 0)
	if capability == nil {
		return matches
	}

	for _, info := range c.components {
		if reflect.TypeOf(info.Instance).AssignableTo(capability) {
			matches = append(matches, info.Instance)
		}
	}

	return matches
}

// Instances returns every singleton in construction order.
func (c *Container) Instances() []any {
	instances := make([]any, len(c.components))
	for i, info := range c.components {
		instances[i] = info.Instance
	}

	return instances
}

// Keys returns every resolvable type-key, ordered by the construction order of
// the component it resolves to.
func (c *Container) Keys() []reflect.Type {
	keys := make([]reflect.Type, 0, len(c.instances))
	for _, info := range c.components {
		keys = append(keys, info.Keys...)
	}

	return keys
}

// Components returns diagnostic information for every component in
// construction order.
func (c *Container) Components() []ComponentInfo {
	out := make([]ComponentInfo, len(c.components))
	for i, info := range c.components {
		out[i] = info.clone()
	}

	return out
}

// Inspect returns diagnostic information for the component key resolves to.
func (c *Container) Inspect(key reflect.Type) (ComponentInfo, bool) {
	idx, ok := c.index[key]
	if !ok {
		return ComponentInfo{}, false
	}

	return c.components[idx].clone(), true
}

// Health calls Health on every instance implementing di.HealthChecker, in
// construction order, and returns the first failure.
func (c *Container) Health(ctx context.Context) error {
	for _, info := range c.components {
		checker, ok := info.Instance.(di.HealthChecker)
		if !ok {
			continue
		}

		if err := checker.Health(ctx); err != nil {
			return NewHealthCheckError(info.Type, info.Name, err)
		}
	}

	return nil
}
