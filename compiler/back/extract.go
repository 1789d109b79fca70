package back

import (
	"tlog.app/go/errors"

	"github.com/slowlang/elab/compiler/cost"
	"github.com/slowlang/elab/compiler/egraph"
)

type (
	// extractor computes for every eclass the cheapest concrete
	// representative reachable through the equivalence structure.
	extractor struct {
		g      *egraph.Graph
		level  []int
		opCost cost.Table

		cost []cost.Cost
		best []egraph.Id
	}
)

// extract runs a single ascending pass over the class arena. Merge history
// children always precede the class itself, so their pairs are final by the
// time the class is seen. Ties keep the earlier seen source.
func (e *extractor) extract() error {
	n := e.g.Len()

	e.cost = make([]cost.Cost, n)
	e.best = make([]egraph.Id, n)

	for id := egraph.Id(0); int(id) < n; id++ {
		c, b := cost.Inf, egraph.Nil

		cl := &e.g.Classes[id]

		for _, ch := range [2]egraph.Id{cl.A, cl.B} {
			if ch == egraph.Nil {
				continue
			}

			if e.cost[ch] < c {
				c, b = e.cost[ch], e.best[ch]
			}
		}

		switch x := cl.Node.(type) {
		case nil:
		case egraph.Param, egraph.Inst, egraph.Load:
			// required regardless of cost, never replaced by a cheaper
			// equivalent
			c, b = cost.Zero, id
		case egraph.Result:
			// stored ids are canonical as of node creation, so they
			// precede this class and their pairs are final. Do not
			// canonicalize here: a later union would point forward at a
			// slot this pass has not priced yet.
			of := x.Of
			if of >= id {
				panic(of)
			}

			if cc := e.cost[of]; cc < c {
				c, b = cc, id
			}
		case egraph.Pure:
			cc := e.opCost.Of(x.Op).AtLevel(e.lvl(id))

			for _, a := range x.Args {
				if a >= id {
					panic(a)
				}

				cc = cc.Add(e.cost[a])
			}

			if cc < c {
				c, b = cc, id
			}
		default:
			panic(x)
		}

		e.cost[id], e.best[id] = c, b
	}

	for id := range e.cost {
		if e.cost[id] == cost.Inf || e.best[id] == egraph.Nil {
			return errors.New("no finite cost for eclass %d", id)
		}
	}

	return nil
}

func (e *extractor) lvl(id egraph.Id) int {
	if int(id) < len(e.level) {
		return e.level[id]
	}

	return 0
}
