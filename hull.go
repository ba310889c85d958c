// Package hull is a build-once dependency-injection container for process-wide
// singletons.
//
// Components are registered on a Builder with the constructors that can build
// them. Build picks one constructor per component, orders construction so every
// constructor receives its dependencies, and returns an immutable Container:
//
//	b := hull.NewBuilder(hull.WithLogger(log))
//
//	hull.RegisterInstance(b, cfg)
//	hull.Register[*Database](b, hull.Ctor(NewDatabase))
//	reg, _ := hull.Register[*UserService](b, hull.Ctor(NewUserService))
//	hull.As[UserFinder](reg)
//
//	c, err := b.Build()
//	if err != nil {
//	    var be *hull.BuildError
//	    if errors.As(err, &be) {
//	        fmt.Println(be) // Missing:/Incomplete: report
//	    }
//	}
//
//	users := hull.Must[UserFinder](c)
//	closers := hull.OfType[io.Closer](c) // construction order
//
// Build never returns a partially built container. Missing dependencies and
// cycles are reported all at once, together with the instances created before
// the build stopped.
package hull
