package hull

import (
	"reflect"
	"slices"
)

// plan is a descriptor waiting in the pending set together with the
// constructor chosen for it.
type plan struct {
	desc *descriptor
	ctor *constructorInfo
}

// signature returns the component type paired with the plan's dependency types.
func (p *plan) signature() Signature {
	return Signature{Type: p.desc.typ, Params: slices.Clone(p.ctor.params)}
}

// selectConstructor picks the constructor a descriptor is built with:
// the single preferred candidate if there is one, otherwise the candidate with
// the most parameters, the first declared winning ties.
func selectConstructor(candidates []*constructorInfo) *constructorInfo {
	if len(candidates) == 0 {
		return nil
	}

	for _, c := range candidates {
		if c.preferred {
			return c
		}
	}

	chosen := candidates[0]
	for _, c := range candidates[1:] {
		if len(c.params) > len(chosen.params) {
			chosen = c
		}
	}

	return chosen
}

// analyzeCandidates validates every constructor for typ and rejects more than
// one preferred candidate.
func analyzeCandidates(typ reflect.Type, ctors []Constructor) ([]*constructorInfo, error) {
	infos := make([]*constructorInfo, 0, len(ctors))
	preferred := 0

	for _, c := range ctors {
		info, err := analyzeConstructor(c)
		if err != nil {
			return nil, err
		}

		if !info.result.AssignableTo(typ) {
			return nil, ErrRegistrationFailed(typ, "constructor returns "+DescribeType(info.result))
		}

		if info.preferred {
			preferred++
		}

		infos = append(infos, info)
	}

	if preferred > 1 {
		return nil, ErrRegistrationFailed(typ, "more than one preferred constructor")
	}

	return infos, nil
}
