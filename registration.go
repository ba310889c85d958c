package hull

import (
	"reflect"

	logger "github.com/xraph/go-utils/log"
)

// Registration is the handle returned by Register. It adds capability aliases
// and removes the component's own type-key before Build.
type Registration struct {
	builder *Builder
	desc    *descriptor
}

// Type returns the component's own type-key.
func (r *Registration) Type() reflect.Type {
	return r.desc.typ
}

// As makes the component resolvable as capability. The component's type must be
// assignable to capability; otherwise a REGISTRATION_FAILED error is returned and
// nothing is registered. A capability already mapped to another component is
// remapped to this one.
//
// Example:
//
//	reg, _ := hull.Register[*PostgresStore](b)
//	reg.As(hull.KeyOf[Store]())
func (r *Registration) As(capability reflect.Type) (*Registration, error) {
	if capability == nil {
		return nil, ErrRegistrationFailed(r.desc.typ, "nil capability")
	}

	if !r.desc.typ.AssignableTo(capability) {
		return nil, ErrIncompatibleCapability(r.desc.typ, capability)
	}

	b := r.builder

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.built.Load() {
		return nil, ErrContainerAlreadyBuilt
	}

	if b.cfg.strict && b.reg.conflicts(capability, r.desc) {
		return nil, ErrRegistrationFailed(capability, "duplicate")
	}

	if b.reg.alias(capability, r.desc) {
		b.cfg.logger.Warn("type-key registration replaced",
			logger.String("type", DescribeType(capability)),
		)
	}

	b.cfg.logger.Debug("capability alias added",
		logger.String("type", DescribeType(r.desc.typ)),
		logger.String("capability", DescribeType(capability)),
	)

	return r, nil
}

// WithoutSelf removes the component's own type-key, leaving it resolvable only
// through aliases added with As. The component is still built and still
// returned by capability queries.
func (r *Registration) WithoutSelf() (*Registration, error) {
	b := r.builder

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.built.Load() {
		return nil, ErrContainerAlreadyBuilt
	}

	b.reg.removeSelf(r.desc)

	return r, nil
}
