package cost

import (
	"fortio.org/safecast"

	"github.com/slowlang/elab/compiler/ir"
)

type (
	// Cost is a totally ordered operation cost.
	// Zero is the additive identity, Inf is absorbing.
	Cost uint32

	// Table maps operators to their intrinsic cost.
	// Missing operators cost one unit.
	Table map[ir.Op]Cost
)

const (
	Zero Cost = 0
	Inf  Cost = ^Cost(0)
)

// Add saturates at Inf.
func (c Cost) Add(d Cost) Cost {
	if c == Inf || d == Inf {
		return Inf
	}

	s := c + d
	if s < c {
		return Inf
	}

	return s
}

// AtLevel weights a cost by loop nesting level. Each level multiplies the
// cost by four, saturating at Inf, so the result never decreases as the
// level grows.
func (c Cost) AtLevel(level int) Cost {
	if c == Inf || level == 0 {
		return c
	}

	sh, err := safecast.Conv[uint](level)
	if err != nil {
		panic(err)
	}

	sh *= 2
	if sh > 16 {
		sh = 16
	}

	if c >= Inf>>sh {
		return Inf
	}

	return c << sh
}

func (t Table) Of(op ir.Op) Cost {
	if c, ok := t[op]; ok {
		return c
	}

	return 1
}
