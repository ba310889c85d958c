package hull

import (
	"context"
	"errors"
	"reflect"
)

type iDep interface{ isDep() }

type dep1 struct{ name string }

func (*dep1) isDep() {}

func newDep1() *dep1 { return &dep1{name: "dep1"} }

type dep2 struct{ name string }

func (*dep2) isDep() {}

func newDep2() *dep2 { return &dep2{name: "dep2"} }

type dep3 struct{ d1 *dep1 }

func newDep3(d1 *dep1) *dep3 { return &dep3{d1: d1} }

type depCycle1 struct{ d2 *depCycle2 }
type depCycle2 struct{ d1 *depCycle1 }

func newDepCycle1(d2 *depCycle2) *depCycle1 { return &depCycle1{d2: d2} }
func newDepCycle2(d1 *depCycle1) *depCycle2 { return &depCycle2{d1: d1} }

type depCycle3 struct{}
type depCycle4 struct{}

func newDepCycle3(*depCycle4, *dep1) *depCycle3 { return &depCycle3{} }
func newDepCycle4(*depCycle3) *depCycle4 { return &depCycle4{} }

// The chain dep1 <- depA <- depB <- ... <- depK: alphabetical order of the
// type names is construction order.
type (
	depA struct{ prev *dep1 }
	depB struct{ prev *depA }
	depC struct{ prev *depB }
	depD struct{ prev *depC }
	depE struct{ prev *depD }
	depF struct{ prev *depE }
	depG struct{ prev *depF }
	depH struct{ prev *depG }
	depI struct{ prev *depH }
	depJ struct{ prev *depI }
	depK struct{ prev *depJ }
)

func newDepA(p *dep1) *depA { return &depA{prev: p} }
func newDepB(p *depA) *depB { return &depB{prev: p} }
func newDepC(p *depB) *depC { return &depC{prev: p} }
func newDepD(p *depC) *depD { return &depD{prev: p} }
func newDepE(p *depD) *depE { return &depE{prev: p} }
func newDepF(p *depE) *depF { return &depF{prev: p} }
func newDepG(p *depF) *depG { return &depG{prev: p} }
func newDepH(p *depG) *depH { return &depH{prev: p} }
func newDepI(p *depH) *depI { return &depI{prev: p} }
func newDepJ(p *depI) *depJ { return &depJ{prev: p} }
func newDepK(p *depJ) *depK { return &depK{prev: p} }

type multiCtor struct{ via string }

func newMultiCtorOne(*dep1) *multiCtor { return &multiCtor{via: "one"} }
func newMultiCtorTwo(*dep1, *dep2) *multiCtor { return &multiCtor{via: "two"} }
func newMultiCtorOther(*dep2) *multiCtor { return &multiCtor{via: "other"} }
func newMultiCtorWrong(*dep1) (*multiCtor, error) { panic("wrong constructor selected") }
func newMultiCtorWide(*dep1, *dep2, *dep3) *multiCtor { panic("wrong constructor selected") }

var errBoom = errors.New("boom")

type goBoom struct{}

func newGoBoom(*dep1) (*goBoom, error) { return nil, errBoom }

type gen[T any] struct{ v T }

func newGen[T any](v T) *gen[T] { return &gen[T]{v: v} }

type pair[K, V any] struct {
	k K
	v V
}

// probe reports a configurable health state under a custom name.
type probe struct {
	name string
	err  error
}

func (p *probe) Name() string { return p.name }
func (p *probe) Health(context.Context) error { return p.err }

type settings struct {
	Addr string
}

// registerChain registers the dep1..depK chain in a scrambled order, skipping
// the types in skip.
func registerChain(b *Builder, skip ...reflect.Type) {
	ctors := []any{
		newDepK, newDepA, newDepJ, newDepI, newDepG, newDepF,
		newDepE, newDepD, newDepC, newDepB, newDepH, newDep1,
	}

	for _, fn := range ctors {
		key := reflect.TypeOf(fn).Out(0)
		if containsType(skip, key) {
			continue
		}

		if _, err := b.Register(key, Ctor(fn)); err != nil {
			panic(err)
		}
	}
}

func describeInstances(instances []any) []string {
	out := make([]string, len(instances))
	for i, instance := range instances {
		out[i] = DescribeType(reflect.TypeOf(instance))
	}

	return out
}
