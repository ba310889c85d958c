package hull

import (
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	logger "github.com/xraph/go-utils/log"
)

// Builder collects component registrations and builds them, once, into a
// Container of singletons.
//
// Registration methods are safe to call from multiple goroutines; they are
// serialized with Build by a single mutex.
type Builder struct {
	reg        *registry
	cfg        *builderConfig
	middleware *middlewareChain
	metrics    *buildMetrics
	container  *Container
	built      atomic.Bool
	mu         sync.Mutex
}

// NewBuilder creates an empty Builder.
func NewBuilder(opts ...Option) *Builder {
	cfg := defaultBuilderConfig()
	for _, opt := range opts {
		opt.apply(cfg)
	}

	return &Builder{
		reg:        newRegistry(),
		cfg:        cfg,
		middleware: newMiddlewareChain(cfg.middleware),
		metrics:    newBuildMetrics(cfg.registerer, cfg.logger),
	}
}

// Register adds a component identified by key. The component is built with one
// of ctors, chosen at Build time: the Preferred one if present, otherwise the
// one with the most parameters. Without ctors, constructors declared with
// Declare are used, and struct or pointer-to-struct types fall back to their
// zero value.
func (b *Builder) Register(key reflect.Type, ctors ...Constructor) (*Registration, error) {
	if key == nil {
		return nil, ErrRegistrationFailed(nil, "nil type")
	}

	candidates, err := analyzeCandidates(key, ctors)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.built.Load() {
		return nil, ErrContainerAlreadyBuilt
	}

	if len(candidates) == 0 {
		candidates = b.reg.candidatesFor(key)
		if len(candidates) == 0 {
			return nil, ErrRegistrationFailed(key, "no constructor")
		}
	}

	return b.addLocked(newDescriptor(key, candidates))
}

// RegisterInstance adds an externally-owned instance under key. The instance is
// never passed through a constructor.
func (b *Builder) RegisterInstance(key reflect.Type, instance any) (*Registration, error) {
	if key == nil {
		return nil, ErrRegistrationFailed(nil, "nil type")
	}

	if instance == nil || isNilValue(reflect.ValueOf(instance)) {
		return nil, ErrRegistrationFailed(key, "nil instance")
	}

	if !reflect.TypeOf(instance).AssignableTo(key) {
		return nil, ErrIncompatibleCapability(reflect.TypeOf(instance), key)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.built.Load() {
		return nil, ErrContainerAlreadyBuilt
	}

	return b.addLocked(newExternalDescriptor(key, instance))
}

func (b *Builder) addLocked(d *descriptor) (*Registration, error) {
	if b.cfg.strict && b.reg.has(d.typ) {
		return nil, ErrRegistrationFailed(d.typ, "duplicate")
	}

	if b.reg.add(d) {
		b.cfg.logger.Warn("type-key registration replaced",
			logger.String("type", DescribeType(d.typ)),
		)
	}

	b.cfg.logger.Debug("component registered",
		logger.String("type", DescribeType(d.typ)),
		logger.Int("constructors", len(d.candidates)),
		logger.Bool("external", d.external),
	)

	return &Registration{builder: b, desc: d}, nil
}

// Declare makes constructors known without registering their result types.
// Registrations without constructors, and AutoRegisterMissing, use them.
// Declare before the registrations that rely on it.
func (b *Builder) Declare(ctors ...Constructor) error {
	infos := make([]*constructorInfo, 0, len(ctors))

	for _, c := range ctors {
		info, err := analyzeConstructor(c)
		if err != nil {
			return err
		}

		infos = append(infos, info)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.built.Load() {
		return ErrContainerAlreadyBuilt
	}

	preferred := make(map[reflect.Type]int)
	for _, info := range infos {
		if !info.preferred {
			continue
		}

		if preferred[info.result] == 0 {
			for _, existing := range b.reg.catalog[info.result] {
				if existing.preferred {
					preferred[info.result]++
				}
			}
		}

		preferred[info.result]++
		if preferred[info.result] > 1 {
			return ErrRegistrationFailed(info.result, "more than one preferred constructor")
		}
	}

	b.reg.declare(infos)

	return nil
}

// Use adds construction middleware. Middleware is called in the order added.
func (b *Builder) Use(mw Middleware) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.built.Load() {
		return ErrContainerAlreadyBuilt
	}

	b.middleware.add(mw)

	return nil
}

// Container returns the container produced by a successful Build.
func (b *Builder) Container() (*Container, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.container == nil {
		return nil, ErrContainerNotBuilt
	}

	return b.container, nil
}

// Build constructs every registered component and returns the container.
//
// Build may be called once per Builder; every later call, and every later
// registration, fails with ErrContainerAlreadyBuilt whatever the outcome of the
// first call. On failure the returned error is a *BuildError describing all
// missing dependencies, the components left unconstructed and the instances
// created before the build stopped.
func (b *Builder) Build(opts ...BuildOption) (*Container, error) {
	if b.built.Load() {
		return nil, ErrContainerAlreadyBuilt
	}

	cfg := &buildConfig{}
	for _, opt := range opts {
		opt.applyBuild(cfg)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	// double check
	if b.built.Load() {
		return nil, ErrContainerAlreadyBuilt
	}

	b.built.Store(true)

	id := uuid.NewString()
	obs := newBuildObserver(b.cfg, b.metrics, id, len(b.reg.unique))

	e := newEngine(b.reg, b.middleware, obs, cfg.autoRegister)
	order, err := e.run()
	obs.finish(e.passes, len(e.order), err)

	if err != nil {
		return nil, err
	}

	b.container = newContainer(id, b.reg, order)
	b.reg.unique = order

	return b.container, nil
}
