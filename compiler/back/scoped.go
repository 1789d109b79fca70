package back

import (
	"github.com/slowlang/elab/compiler/egraph"
	"github.com/slowlang/elab/compiler/ir"
)

type (
	// idValue records where and how an eclass has been materialized.
	// Single output values keep the handle in value, multi output ones
	// in outs with value set to Nil.
	idValue struct {
		depth int // loop depth at placement
		block ir.Block
		value ir.Expr
		outs  []ir.Expr
	}

	scopedEntry struct {
		val   idValue
		depth int // scope depth the entry is registered at
	}

	// scoped is the dominance scoped eclass -> value cache. One flat map
	// with a per entry depth tag, scope exit evicts the departing depth.
	// Keys must be canonical.
	scoped struct {
		m       map[egraph.Id]scopedEntry
		byDepth [][]egraph.Id
		depth   int
	}
)

func newScoped() *scoped {
	return &scoped{
		m: map[egraph.Id]scopedEntry{},
	}
}

func (s *scoped) get(id egraph.Id) (idValue, bool) {
	e, ok := s.m[id]

	return e.val, ok
}

func (s *scoped) insertIfAbsent(id egraph.Id, v idValue) {
	s.insertAt(id, v, s.depth)
}

// insertAt registers a value at the given scope depth, possibly shallower
// than the current one. Present entries are kept.
func (s *scoped) insertAt(id egraph.Id, v idValue, depth int) {
	if _, ok := s.m[id]; ok {
		return
	}

	s.m[id] = scopedEntry{val: v, depth: depth}

	for len(s.byDepth) <= depth {
		s.byDepth = append(s.byDepth, nil)
	}

	s.byDepth[depth] = append(s.byDepth[depth], id)
}

func (s *scoped) remove(id egraph.Id) {
	delete(s.m, id)
}

func (s *scoped) incDepth() {
	s.depth++
}

// decDepth leaves the current scope. Entries registered at it become
// invisible, shallower ones are unaffected.
func (s *scoped) decDepth() {
	d := s.depth

	if d < len(s.byDepth) {
		for _, id := range s.byDepth[d] {
			// the id may have been removed and reregistered deeper or
			// shallower since, only evict our own registration
			if e, ok := s.m[id]; ok && e.depth == d {
				delete(s.m, id)
			}
		}

		s.byDepth[d] = s.byDepth[d][:0]
	}

	s.depth--
}
