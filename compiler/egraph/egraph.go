package egraph

import (
	"fmt"

	"github.com/slowlang/elab/compiler/ir"
)

type (
	Id int

	// Param stands for a block entry parameter. It carries no arguments
	// and is registered by the elaborator before any use can reach it.
	Param struct {
		Index int
		Type  ir.Type
	}

	// Inst is a general side effecting operation, zero or more outputs.
	Inst struct {
		Op   ir.Op
		Args []Id
		Outs int
		Term bool
	}

	// Load is a memory read. Ordering sensitive, single output.
	Load struct {
		Op   ir.Op
		Args []Id
	}

	// Pure is a side effect free operation, one or more outputs.
	Pure struct {
		Op   ir.Op
		Args []Id
		Outs int
	}

	// Result selects the Index-th output of the multi-output class Of.
	// Results never nest.
	Result struct {
		Of    Id
		Index int
	}

	// Class is one equivalence class slot. Node is one of the variants
	// above or nil for a plain union. A and B are the merge history
	// children, Nil when absent. Both always precede the class itself
	// in the arena.
	Class struct {
		Node any
		A, B Id
	}

	Graph struct {
		Classes []Class

		parent []Id
	}
)

const Nil Id = -1

func New() *Graph {
	return &Graph{}
}

func (g *Graph) Len() int {
	return len(g.Classes)
}

// Add appends a new class owning the given node. Argument ids are
// canonicalized as of now, so they always precede the class in the arena.
// Equivalences discovered later do not retroactively apply to this node.
func (g *Graph) Add(x any) Id {
	switch n := x.(type) {
	case Param:
	case Inst:
		g.canonArgs(n.Args)
	case Load:
		g.canonArgs(n.Args)
	case Pure:
		g.canonArgs(n.Args)
	case Result:
		n.Of = g.Canon(n.Of)

		if _, ok := g.Node(n.Of).(Result); ok {
			panic(fmt.Sprintf("result of result: %v", n.Of))
		}

		x = n
	default:
		panic(x)
	}

	return g.add(Class{Node: x, A: Nil, B: Nil})
}

// Union merges two classes. The new class becomes canonical for both.
func (g *Graph) Union(a, b Id) Id {
	a = g.Canon(a)
	b = g.Canon(b)

	if a == b {
		return a
	}

	id := g.add(Class{A: a, B: b})

	g.parent[a] = id
	g.parent[b] = id

	return id
}

// Canon resolves an id to the current representative of its class.
func (g *Graph) Canon(id Id) Id {
	root := id

	for g.parent[root] != root {
		root = g.parent[root]
	}

	for g.parent[id] != root {
		id, g.parent[id] = g.parent[id], root
	}

	return root
}

// Node returns the node owned by the class itself, not by its children.
func (g *Graph) Node(id Id) any {
	return g.Classes[id].Node
}

func (g *Graph) canonArgs(args []Id) {
	for i, a := range args {
		args[i] = g.Canon(a)
	}
}

func (g *Graph) add(c Class) Id {
	id := Id(len(g.Classes))

	g.Classes = append(g.Classes, c)
	g.parent = append(g.parent, id)

	return id
}
