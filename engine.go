package hull

import (
	"reflect"
	"slices"
	"time"
)

// engine turns the registry's descriptors into instances using repeated
// fixed-point passes over the pending plans. One engine runs per Build.
type engine struct {
	reg          *registry
	middleware   *middlewareChain
	obs          *buildObserver
	autoRegister bool

	order  []*descriptor // construction order
	passes int
}

func newEngine(reg *registry, mw *middlewareChain, obs *buildObserver, autoRegister bool) *engine {
	return &engine{
		reg:          reg,
		middleware:   mw,
		obs:          obs,
		autoRegister: autoRegister,
		order:        make([]*descriptor, 0, len(reg.unique)),
	}
}

// run builds every descriptor and returns them in construction order.
func (e *engine) run() ([]*descriptor, error) {
	pending, err := e.selectAll(e.reg.unique)
	if err != nil {
		return nil, err
	}

	for len(pending) > 0 {
		e.passes++
		retired := 0
		remaining := pending[:0]

		for _, p := range pending {
			args, ok := e.arguments(p)
			if !ok {
				remaining = append(remaining, p)
				continue
			}

			if err := e.construct(p.desc, p.ctor, args); err != nil {
				return nil, err
			}

			retired++
		}

		pending = remaining

		if retired == 0 && len(pending) > 0 {
			more, err := e.stalled(pending)
			if err != nil {
				return nil, err
			}

			pending = append(pending, more...)
		}
	}

	return e.order, nil
}

// selectAll picks a constructor for every descriptor in registration order.
// Externally-owned and zero-argument components complete immediately; the rest
// come back as pending plans.
func (e *engine) selectAll(descs []*descriptor) ([]*plan, error) {
	var pending []*plan

	for _, d := range descs {
		p, err := e.selectPlan(d)
		if err != nil {
			return nil, err
		}

		if p != nil {
			pending = append(pending, p)
		}
	}

	return pending, nil
}

func (e *engine) selectPlan(d *descriptor) (*plan, error) {
	if d.external {
		e.complete(d)
		return nil, nil
	}

	ctor := selectConstructor(d.candidates)
	d.deps = ctor.params

	if len(ctor.params) == 0 {
		return nil, e.construct(d, ctor, nil)
	}

	return &plan{desc: d, ctor: ctor}, nil
}

// arguments returns the instances for p's dependencies in declared order, or
// false if any of them is not constructed yet.
func (e *engine) arguments(p *plan) ([]any, bool) {
	args := make([]any, len(p.ctor.params))

	for i, key := range p.ctor.params {
		instance, ok := e.reg.ready(key)
		if !ok {
			return nil, false
		}

		args[i] = instance
	}

	return args, true
}

func (e *engine) construct(d *descriptor, ctor *constructorInfo, args []any) error {
	start := time.Now()

	if err := e.middleware.beforeConstruct(e.obs.ctx, d.typ); err != nil {
		return e.faulted(d, ctor, err)
	}

	instance, err := ctor.call(args)

	if mwErr := e.middleware.afterConstruct(e.obs.ctx, d.typ, instance, err); mwErr != nil && err == nil {
		err = mwErr
	}

	if err != nil {
		return e.faulted(d, ctor, err)
	}

	d.setInstance(instance)
	e.complete(d)
	e.obs.constructed(d.typ, d.order, time.Since(start))

	return nil
}

func (e *engine) complete(d *descriptor) {
	d.order = len(e.order)
	e.order = append(e.order, d)
}

// created returns the instances built so far, in construction order.
func (e *engine) created() []any {
	instances := make([]any, len(e.order))
	for i, d := range e.order {
		instances[i] = d.instance
	}

	return instances
}

func (e *engine) faulted(d *descriptor, ctor *constructorInfo, cause error) error {
	return newConstructorFaulted(e.created(), Signature{Type: d.typ, Params: slices.Clone(ctor.params)}, cause)
}

// stalled classifies a pass that made no progress. With auto-registration on
// and every missing type constructible, it returns new plans to continue with;
// otherwise it returns the build error.
func (e *engine) stalled(pending []*plan) ([]*plan, error) {
	missing := e.missing(pending)

	if len(missing) > 0 && e.autoRegister {
		if more, ok, err := e.autoRegisterMissing(missing); ok || err != nil {
			return more, err
		}
	}

	incomplete := make([]Signature, len(pending))
	for i, p := range pending {
		incomplete[i] = p.signature()
	}

	if len(missing) > 0 {
		return nil, newDependencyMissing(e.created(), missing, incomplete)
	}

	return nil, newDependencyCycle(e.created(), incomplete, findCycle(e.reg, pending))
}

// missing collects dependency types referenced by pending plans that are not
// mapped at all, sorted by description.
func (e *engine) missing(pending []*plan) []reflect.Type {
	seen := make(map[reflect.Type]bool)

	var missing []reflect.Type

	for _, p := range pending {
		for _, dep := range p.ctor.params {
			if seen[dep] || e.reg.has(dep) {
				continue
			}

			seen[dep] = true
			missing = append(missing, dep)
		}
	}

	sortTypes(missing)

	return missing
}

// autoRegisterMissing registers every missing type, provided all of them have
// constructors. It reports false when any of them cannot be constructed.
func (e *engine) autoRegisterMissing(missing []reflect.Type) ([]*plan, bool, error) {
	candidates := make([][]*constructorInfo, len(missing))

	for i, typ := range missing {
		if typ.Kind() == reflect.Interface {
			return nil, false, nil
		}

		candidates[i] = e.reg.candidatesFor(typ)
		if len(candidates[i]) == 0 {
			return nil, false, nil
		}
	}

	var pending []*plan

	for i, typ := range missing {
		d := newDescriptor(typ, candidates[i])
		d.auto = true
		e.reg.add(d)
		e.obs.autoRegistered(typ)

		p, err := e.selectPlan(d)
		if err != nil {
			return nil, true, err
		}

		if p != nil {
			pending = append(pending, p)
		}
	}

	return pending, true, nil
}
