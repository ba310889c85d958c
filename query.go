package hull

import "reflect"

// ComponentQuery defines criteria for querying built components.
type ComponentQuery struct {
	// Capability filters by instances assignable to the type.
	// nil matches all components.
	Capability reflect.Type

	// DependsOn filters by components whose constructor took the type.
	// nil matches all components.
	DependsOn reflect.Type

	// External filters by externally-owned instances.
	// nil matches both.
	External *bool

	// AutoRegistered filters by components added by AutoRegisterMissing.
	// nil matches both.
	AutoRegistered *bool
}

// Query returns information about the components matching the query criteria,
// in construction order.
//
// Example:
//
//	// Find every constructed (not externally-owned) handler
//	external := false
//	results := hull.Query(c, hull.ComponentQuery{
//	    Capability: hull.KeyOf[http.Handler](),
//	    External:   &external,
//	})
func Query(c *Container, query ComponentQuery) []ComponentInfo {
	var results []ComponentInfo

	for _, info := range c.components {
		// Filter by capability
		if query.Capability != nil && !reflect.TypeOf(info.Instance).AssignableTo(query.Capability) {
			continue
		}

		// Filter by dependency
		if query.DependsOn != nil && !containsType(info.Dependencies, query.DependsOn) {
			continue
		}

		if query.External != nil && info.External != *query.External {
			continue
		}

		if query.AutoRegistered != nil && info.AutoRegistered != *query.AutoRegistered {
			continue
		}

		results = append(results, info.clone())
	}

	return results
}

// QueryTypes returns the own type-keys of the components matching the query.
func QueryTypes(c *Container, query ComponentQuery) []reflect.Type {
	results := Query(c, query)
	types := make([]reflect.Type, len(results))
	for i, info := range results {
		types[i] = info.Type
	}
	return types
}

// FindByCapability returns all components assignable to capability.
func FindByCapability(c *Container, capability reflect.Type) []ComponentInfo {
	return Query(c, ComponentQuery{Capability: capability})
}

// FindDependents returns all components whose constructor took typ.
func FindDependents(c *Container, typ reflect.Type) []ComponentInfo {
	return Query(c, ComponentQuery{DependsOn: typ})
}

// FindExternal returns all externally-owned components.
func FindExternal(c *Container) []ComponentInfo {
	external := true
	return Query(c, ComponentQuery{External: &external})
}

// FindAutoRegistered returns all components added by AutoRegisterMissing.
func FindAutoRegistered(c *Container) []ComponentInfo {
	auto := true
	return Query(c, ComponentQuery{AutoRegistered: &auto})
}

func containsType(types []reflect.Type, t reflect.Type) bool {
	for _, candidate := range types {
		if candidate == t {
			return true
		}
	}
	return false
}
