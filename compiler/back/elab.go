package back

import (
	"context"
	"fmt"

	"tlog.app/go/loc"
	"tlog.app/go/tlog"

	"github.com/slowlang/elab/compiler/egraph"
	"github.com/slowlang/elab/compiler/ir"
)

type (
	walker struct {
		*Elaborator

		f *ir.Func
		x *extractor

		vals *scoped
		loop []hoistPoint
		kids [][]ir.Block

		stats *Stats

		tr tlog.Span
	}

	// hoistPoint is an active loop context. block is the legal hoist
	// destination, the immediate dominator of the loop header. depth is
	// the scope depth hoisted definitions are registered at.
	hoistPoint struct {
		block ir.Block
		depth int
	}

	blockFrame struct {
		b    ir.Block
		exit bool
	}
)

// walk visits the dominator tree in pre order with an explicit work stack,
// so pathologically deep trees don't exhaust the call stack. Every block is
// entered strictly before the blocks it dominates, which is what makes the
// scoped cache sound.
func (w *walker) walk(ctx context.Context, entry ir.Block) {
	w.tr = tlog.SpanFromContext(ctx)
	w.kids = w.Dom.children()

	jobs := []blockFrame{{b: entry}}

	for len(jobs) != 0 {
		j := jobs[len(jobs)-1]
		jobs = jobs[:len(jobs)-1]

		if j.exit {
			w.finishBlock(j.b)
			continue
		}

		w.startBlock(j.b)

		jobs = append(jobs, blockFrame{b: j.b, exit: true})

		kids := w.kids[j.b]
		for i := len(kids) - 1; i >= 0; i-- {
			jobs = append(jobs, blockFrame{b: kids[i]})
		}
	}
}

func (w *walker) startBlock(b ir.Block) {
	if w.Loops.Headers.IsSet(int(b)) {
		idom := w.Dom.Idom[b]
		if idom == ir.NoBlock {
			panic(fmt.Sprintf("entry block %d claimed to be a loop header", b))
		}

		w.loop = append(w.loop, hoistPoint{block: idom, depth: w.vals.depth})
	}

	w.vals.incDepth()

	if w.Params != nil {
		for i, p := range w.Params(b) {
			id := w.Graph.Canon(p.Id)
			out := w.f.Add(ir.Param{Block: b, Index: i, Type: p.Type})

			// idempotent in case a degenerate tree revisits the block
			w.vals.insertIfAbsent(id, idValue{depth: len(w.loop), block: b, value: out})
		}
	}

	if w.Roots != nil {
		for _, id := range w.Roots(b) {
			w.use(id, b)
		}
	}
}

func (w *walker) finishBlock(b ir.Block) {
	w.vals.decDepth()

	if n := len(w.loop); n != 0 && w.loop[n-1].depth == w.vals.depth {
		w.loop = w.loop[:n-1]
	}
}

// use resolves one eclass to a materialized value visible in block b,
// extracting, placing and emitting on a cache miss.
func (w *walker) use(id egraph.Id, b ir.Block) idValue {
	id = w.Graph.Canon(id)

	w.stats.Nodes++

	if w.tr.If("elab_use") {
		w.tr.Printw("use", "id", id, "block", b, "from", loc.Caller(1))
	}

	remat := w.Remat.IsSet(int(id))

	if v, ok := w.vals.get(id); ok {
		if v.block == b || !remat {
			w.stats.Hits++
			return v
		}

		// placed in another block and marked for recomputation: trade an
		// extra emission for the cross block dependency
		w.vals.remove(id)
		w.stats.Remats++
	}

	w.stats.Misses++

	best := w.x.best[id]

	switch x := w.Graph.Node(best).(type) {
	case egraph.Result:
		of := w.use(x.Of, b)

		if of.outs == nil {
			panic(fmt.Sprintf("projection %d of single output class %d", x.Index, x.Of))
		}

		v := idValue{depth: of.depth, block: of.block, value: of.outs[x.Index]}
		w.vals.insertIfAbsent(id, v)

		return v
	case egraph.Inst:
		return w.emit(id, b, x.Op, x.Args, x.Outs, false, x.Term, remat)
	case egraph.Load:
		return w.emit(id, b, x.Op, x.Args, 1, false, false, remat)
	case egraph.Pure:
		return w.emit(id, b, x.Op, x.Args, x.Outs, true, false, remat)
	case egraph.Param:
		panic(fmt.Sprintf("param eclass %d reached via use, not registered at block start", id))
	default:
		panic(x)
	}
}

// emit resolves the arguments, decides the placement block and inserts the
// instruction there.
func (w *walker) emit(id egraph.Id, b ir.Block, op ir.Op, args []egraph.Id, outs int, pure, term, remat bool) idValue {
	argv := make([]ir.Expr, len(args))
	argDepth := 0

	for i, a := range args {
		av := w.use(a, b)

		if av.outs != nil {
			panic(fmt.Sprintf("multi output class %d used as a plain argument", a))
		}

		argv[i] = av.value

		if av.depth > argDepth {
			argDepth = av.depth
		}
	}

	at := b
	depth := len(w.loop)
	sdepth := w.vals.depth

	// a pure value whose arguments are all invariant relative to the
	// current loop nest moves to the innermost hoist point
	if pure && !remat && argDepth < depth {
		h := w.loop[len(w.loop)-1]

		at = h.block
		depth--
		sdepth = h.depth

		w.stats.Hoists++
	}

	if outs < 1 {
		outs = 1
	}

	inst := w.f.Add(ir.Inst{Op: op, Args: argv, Outs: outs, Term: term})
	w.f.Insert(at, inst, term)

	v := idValue{depth: depth, block: at, value: inst}

	if outs > 1 {
		v.value = ir.Nil
		v.outs = make([]ir.Expr, outs)

		for i := range v.outs {
			v.outs[i] = w.f.Add(ir.Out{Inst: inst, Index: i})
		}
	}

	w.vals.insertAt(id, v, sdepth)

	return v
}
