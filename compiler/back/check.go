package back

import (
	"tlog.app/go/errors"

	"github.com/slowlang/elab/compiler/ir"
)

// CheckFunc verifies structural invariants of an elaborated function:
// terminators close their block, every operand is defined in a block
// dominating the use. Cheap enough to run after every elaboration in tests
// and behind a debug gate in the pipeline.
func CheckFunc(f *ir.Func, t DomTree) error {
	def := map[ir.Expr]ir.Block{}

	for id, x := range f.Exprs {
		if p, ok := x.(ir.Param); ok {
			def[ir.Expr(id)] = p.Block
		}
	}

	for b := range f.Blocks {
		for _, id := range f.Blocks[b].Code {
			def[id] = ir.Block(b)
		}
	}

	for id, x := range f.Exprs {
		o, ok := x.(ir.Out)
		if !ok {
			continue
		}

		db, ok := def[o.Inst]
		if !ok {
			return errors.New("projection %d of unplaced instruction %d", id, o.Inst)
		}

		def[ir.Expr(id)] = db
	}

	for b := range f.Blocks {
		bp := &f.Blocks[b]
		seenTerm := false

		for _, id := range bp.Code {
			x, ok := f.Exprs[id].(ir.Inst)
			if !ok {
				return errors.New("block %d: expr %d is not an instruction: %T", b, id, f.Exprs[id])
			}

			if seenTerm && !x.Term {
				return errors.New("block %d: instruction %d after terminator", b, id)
			}

			seenTerm = seenTerm || x.Term

			for _, a := range x.Args {
				db, ok := def[a]
				if !ok {
					return errors.New("block %d: instruction %d uses undefined value %d", b, id, a)
				}

				if !t.dominates(db, ir.Block(b)) {
					return errors.New("block %d: instruction %d uses value %d defined in non dominating block %d", b, id, a, db)
				}
			}
		}

		if bp.Term != ir.Nil && !seenTerm {
			return errors.New("block %d: recorded terminator %d not in code", b, bp.Term)
		}
	}

	return nil
}
