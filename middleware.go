package hull

import (
	"context"
	"reflect"
)

// Middleware provides hooks around every constructor call made by Build.
// Externally-owned instances are never constructed and never reach middleware.
type Middleware interface {
	// BeforeConstruct is called before a component's constructor runs.
	// Return error to abort the build.
	BeforeConstruct(ctx context.Context, typ reflect.Type) error

	// AfterConstruct is called after a constructor returned.
	// Called even if construction failed (instance is nil then).
	AfterConstruct(ctx context.Context, typ reflect.Type, instance any, err error) error
}

// middlewareChain manages multiple middleware.
type middlewareChain struct {
	middleware []Middleware
}

// newMiddlewareChain creates a new middleware chain.
func newMiddlewareChain(mw []Middleware) *middlewareChain {
	chain := &middlewareChain{
		middleware: make([]Middleware, 0, len(mw)),
	}
	for _, m := range mw {
		chain.add(m)
	}

	return chain
}

// add appends middleware to the chain.
func (m *middlewareChain) add(middleware Middleware) {
	if middleware != nil {
		m.middleware = append(m.middleware, middleware)
	}
}

// beforeConstruct calls BeforeConstruct on all middleware.
func (m *middlewareChain) beforeConstruct(ctx context.Context, typ reflect.Type) error {
	for _, mw := range m.middleware {
		if err := mw.BeforeConstruct(ctx, typ); err != nil {
			return err
		}
	}

	return nil
}

// afterConstruct calls AfterConstruct on all middleware.
func (m *middlewareChain) afterConstruct(ctx context.Context, typ reflect.Type, instance any, err error) error {
	for _, mw := range m.middleware {
		if mwErr := mw.AfterConstruct(ctx, typ, instance, err); mwErr != nil {
			return mwErr
		}
	}

	return nil
}

// FuncMiddleware wraps functions as Middleware.
type FuncMiddleware struct {
	BeforeConstructFunc func(ctx context.Context, typ reflect.Type) error
	AfterConstructFunc  func(ctx context.Context, typ reflect.Type, instance any, err error) error
}

// BeforeConstruct implements Middleware.
func (f *FuncMiddleware) BeforeConstruct(ctx context.Context, typ reflect.Type) error {
	if f.BeforeConstructFunc != nil {
		return f.BeforeConstructFunc(ctx, typ)
	}

	return nil
}

// AfterConstruct implements Middleware.
func (f *FuncMiddleware) AfterConstruct(ctx context.Context, typ reflect.Type, instance any, err error) error {
	if f.AfterConstructFunc != nil {
		return f.AfterConstructFunc(ctx, typ, instance, err)
	}

	return nil
}
