package hull

import (
	"reflect"
)

// descriptor describes one registrable component.
type descriptor struct {
	typ         reflect.Type
	candidates  []*constructorInfo
	external    bool
	auto        bool
	instance    any
	hasInstance bool
	order       int // construction index, -1 until constructed
	deps        []reflect.Type
}

func newDescriptor(typ reflect.Type, candidates []*constructorInfo) *descriptor {
	return &descriptor{
		typ:        typ,
		candidates: candidates,
		order:      -1,
	}
}

func newExternalDescriptor(typ reflect.Type, instance any) *descriptor {
	return &descriptor{
		typ:         typ,
		external:    true,
		instance:    instance,
		hasInstance: true,
		order:       -1,
	}
}

// setInstance fills the single-assignment instance slot.
func (d *descriptor) setInstance(instance any) {
	if d.hasInstance {
		panic("hull: instance of " + DescribeType(d.typ) + " assigned twice")
	}

	d.instance = instance
	d.hasInstance = true
}

// registry holds the type-key table, the insertion-ordered unique list and the
// declared constructor catalog. It is not synchronized; the Builder's mutex
// guards it.
type registry struct {
	keys    map[reflect.Type]*descriptor
	unique  []*descriptor
	catalog map[reflect.Type][]*constructorInfo
}

func newRegistry() *registry {
	return &registry{
		keys:    make(map[reflect.Type]*descriptor),
		catalog: make(map[reflect.Type][]*constructorInfo),
	}
}

// add maps the descriptor's own key and appends it to the unique list.
// It reports whether an existing mapping was overwritten.
func (r *registry) add(d *descriptor) bool {
	_, existed := r.keys[d.typ]
	r.keys[d.typ] = d
	r.unique = append(r.unique, d)

	return existed
}

// alias maps key to d. It reports whether an existing mapping for a different
// descriptor was overwritten.
func (r *registry) alias(key reflect.Type, d *descriptor) bool {
	prev, existed := r.keys[key]
	r.keys[key] = d

	return existed && prev != d
}

// has reports whether key is mapped, regardless of instance state.
func (r *registry) has(key reflect.Type) bool {
	_, ok := r.keys[key]
	return ok
}

// conflicts reports whether mapping key would replace another descriptor.
func (r *registry) conflicts(key reflect.Type, d *descriptor) bool {
	prev, ok := r.keys[key]
	return ok && prev != d
}

// removeSelf drops d's own-key mapping if it still points at d.
func (r *registry) removeSelf(d *descriptor) {
	if r.keys[d.typ] == d {
		delete(r.keys, d.typ)
	}
}

// get returns the descriptor mapped to key.
func (r *registry) get(key reflect.Type) (*descriptor, bool) {
	d, ok := r.keys[key]
	return d, ok
}

// ready returns the instance for key if its descriptor has been constructed.
func (r *registry) ready(key reflect.Type) (any, bool) {
	d, ok := r.keys[key]
	if !ok || !d.hasInstance {
		return nil, false
	}

	return d.instance, true
}

// declare adds constructors to the catalog under their result type.
func (r *registry) declare(infos []*constructorInfo) {
	for _, info := range infos {
		r.catalog[info.result] = append(r.catalog[info.result], info)
	}
}

// candidatesFor returns the constructors a ctor-less registration of typ uses:
// the declared ones, or the implicit zero-value constructor.
func (r *registry) candidatesFor(typ reflect.Type) []*constructorInfo {
	if declared := r.catalog[typ]; len(declared) > 0 {
		return declared
	}

	if implicit, ok := implicitConstructor(typ); ok {
		return []*constructorInfo{implicit}
	}

	return nil
}

// aliasesOf returns every key currently mapped to d, own key first.
func (r *registry) aliasesOf(d *descriptor) []reflect.Type {
	var keys []reflect.Type

	if r.keys[d.typ] == d {
		keys = append(keys, d.typ)
	}

	var aliases []reflect.Type

	for key, mapped := range r.keys {
		if mapped == d && key != d.typ {
			aliases = append(aliases, key)
		}
	}

	sortTypes(aliases)

	return append(keys, aliases...)
}
