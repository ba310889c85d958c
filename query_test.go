package hull

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupQueryContainer(t *testing.T) *Container {
	t.Helper()

	b := NewBuilder()
	require.NoError(t, b.Declare(Ctor(newDepA)))

	_, err := RegisterInstance(b, &dep2{name: "external"})
	require.NoError(t, err)

	reg := MustRegister[*dep1](b, Ctor(newDep1))
	_, err = As[iDep](reg)
	require.NoError(t, err)

	MustRegister[*depB](b, Ctor(newDepB))
	MustRegister[*dep3](b, Ctor(newDep3))

	c, err := b.Build(AutoRegisterMissing())
	require.NoError(t, err)

	return c
}

func TestQuery_All(t *testing.T) {
	c := setupQueryContainer(t)

	results := Query(c, ComponentQuery{})
	assert.Len(t, results, 5)
}

func TestQuery_ByCapability(t *testing.T) {
	c := setupQueryContainer(t)

	// dep2 satisfies iDep without an alias
	types := QueryTypes(c, ComponentQuery{Capability: KeyOf[iDep]()})
	assert.Equal(t, []reflect.Type{KeyOf[*dep2](), KeyOf[*dep1]()}, types)

	assert.Len(t, FindByCapability(c, KeyOf[iDep]()), 2)
	assert.Empty(t, FindByCapability(c, KeyOf[error]()))
}

func TestQuery_ByDependency(t *testing.T) {
	c := setupQueryContainer(t)

	types := QueryTypes(c, ComponentQuery{DependsOn: KeyOf[*dep1]()})
	assert.ElementsMatch(t, []reflect.Type{KeyOf[*depA](), KeyOf[*dep3]()}, types)

	dependents := FindDependents(c, KeyOf[*depA]())
	require.Len(t, dependents, 1)
	assert.Equal(t, KeyOf[*depB](), dependents[0].Type)
}

func TestQuery_External(t *testing.T) {
	c := setupQueryContainer(t)

	external := FindExternal(c)
	require.Len(t, external, 1)
	assert.Equal(t, "external", external[0].Instance.(*dep2).name)

	owned := false
	assert.Len(t, Query(c, ComponentQuery{External: &owned}), 4)
}

func TestQuery_AutoRegistered(t *testing.T) {
	c := setupQueryContainer(t)

	auto := FindAutoRegistered(c)
	require.Len(t, auto, 1)
	assert.Equal(t, KeyOf[*depA](), auto[0].Type)
}

func TestQuery_Combined(t *testing.T) {
	c := setupQueryContainer(t)

	owned := false
	types := QueryTypes(c, ComponentQuery{
		Capability: KeyOf[iDep](),
		External:   &owned,
	})
	assert.Equal(t, []reflect.Type{KeyOf[*dep1]()}, types)

	auto := true
	assert.Empty(t, Query(c, ComponentQuery{
		DependsOn:      KeyOf[*dep2](),
		AutoRegistered: &auto,
	}))
}
