package hull

import "reflect"

// dependencyGraph is the dependency graph of the components a build got stuck
// on, used to report one concrete cycle.
type dependencyGraph struct {
	nodes map[reflect.Type]*node
	order []reflect.Type // preserve pending order
}

type node struct {
	typ          reflect.Type
	dependencies []reflect.Type
}

// newDependencyGraph creates an empty dependency graph.
func newDependencyGraph() *dependencyGraph {
	return &dependencyGraph{
		nodes: make(map[reflect.Type]*node),
	}
}

// addNode adds a node with its dependencies. Nodes are visited in the order
// they are added.
func (g *dependencyGraph) addNode(typ reflect.Type, dependencies []reflect.Type) {
	if _, exists := g.nodes[typ]; !exists {
		g.order = append(g.order, typ)
	}

	g.nodes[typ] = &node{typ: typ, dependencies: dependencies}
}

// cycle returns the first cycle reachable from the nodes in insertion order,
// closed by repeating its first element, or nil if the graph is acyclic.
func (g *dependencyGraph) cycle() []reflect.Type {
	visited := make(map[reflect.Type]bool)
	onStack := make(map[reflect.Type]int)

	var stack []reflect.Type

	for _, typ := range g.order {
		if c := g.visit(typ, visited, onStack, &stack); c != nil {
			return c
		}
	}

	return nil
}

// visit performs DFS traversal.
func (g *dependencyGraph) visit(typ reflect.Type, visited map[reflect.Type]bool, onStack map[reflect.Type]int, stack *[]reflect.Type) []reflect.Type {
	if idx, ok := onStack[typ]; ok {
		cycle := append([]reflect.Type{}, (*stack)[idx:]...)
		return append(cycle, typ)
	}

	if visited[typ] {
		return nil
	}

	n := g.nodes[typ]
	if n == nil {
		// Not stuck, so not part of any cycle
		return nil
	}

	visited[typ] = true
	onStack[typ] = len(*stack)
	*stack = append(*stack, typ)

	for _, dep := range n.dependencies {
		if c := g.visit(dep, visited, onStack, stack); c != nil {
			return c
		}
	}

	delete(onStack, typ)
	*stack = (*stack)[:len(*stack)-1]

	return nil
}

// findCycle builds the graph of stuck plans, following each dependency key to
// the descriptor it maps to, and returns one cycle among them.
func findCycle(reg *registry, pending []*plan) []reflect.Type {
	g := newDependencyGraph()

	for _, p := range pending {
		deps := make([]reflect.Type, 0, len(p.ctor.params))

		for _, key := range p.ctor.params {
			if d, ok := reg.get(key); ok && !d.hasInstance {
				deps = append(deps, d.typ)
			}
		}

		g.addNode(p.desc.typ, deps)
	}

	return g.cycle()
}
