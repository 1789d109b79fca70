package back

import (
	"context"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/elab/compiler/cost"
	"github.com/slowlang/elab/compiler/egraph"
	"github.com/slowlang/elab/compiler/ir"
	"github.com/slowlang/elab/compiler/set"
)

type (
	// Elaborator picks the cheapest equivalent form for every used eclass
	// and rebuilds the function instruction stream in place, walking the
	// dominator tree. The egraph, dominator tree and loop analysis are
	// read only inputs owned by earlier passes.
	Elaborator struct {
		Graph *egraph.Graph

		Dom   DomTree
		Loops Loops

		// Remat marks eclasses recomputed at each using block instead of
		// shared across blocks.
		Remat *set.Bitmap

		OpCost cost.Table

		// Params lists live-in block parameters, in order.
		Params func(b ir.Block) []BlockParam

		// Roots lists eclasses whose side effects the block must force,
		// in order, terminators included.
		Roots func(b ir.Block) []egraph.Id

		Stats *Stats
	}

	DomTree struct {
		Idom []ir.Block // NoBlock for the root
	}

	Loops struct {
		Headers set.Bitmap
		Level   []int // eclass -> loop nesting level of its uses
	}

	BlockParam struct {
		Id   egraph.Id
		Type ir.Type
	}
)

// Elaborate drops the existing instruction content of f and refills it from
// the egraph. Invariant violations in the inputs panic, they are bugs of
// upstream passes, not of user input.
func (e *Elaborator) Elaborate(ctx context.Context, f *ir.Func) (err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "elab: func", "name", f.Name, "blocks", len(f.Blocks))
	defer tr.Finish("err", &err)

	if e.Graph == nil {
		return errors.New("no egraph")
	}

	if len(e.Dom.Idom) != len(f.Blocks) {
		return errors.New("dom tree of %d blocks, func of %d", len(e.Dom.Idom), len(f.Blocks))
	}

	if e.Dom.Idom[f.Entry] != ir.NoBlock {
		return errors.New("entry block %d is dominated by %d", f.Entry, e.Dom.Idom[f.Entry])
	}

	st := e.Stats
	if st == nil {
		st = &Stats{}
	}

	st.SizeBefore = f.Size()

	x := &extractor{
		g:      e.Graph,
		level:  e.Loops.Level,
		opCost: e.OpCost,
	}

	err = x.extract()
	if err != nil {
		return errors.Wrap(err, "extract")
	}

	if tr.If("dump_extract") {
		for id := range x.best {
			tr.Printw("best", "id", id, "cost", x.cost[id], "best", x.best[id])
		}
	}

	f.Reset()

	w := &walker{
		Elaborator: e,

		f:     f,
		x:     x,
		vals:  newScoped(),
		stats: st,
	}

	w.walk(ctx, f.Entry)

	if len(w.loop) != 0 {
		panic(w.loop)
	}

	st.SizeAfter = f.Size()

	tr.Printw("elab done",
		"nodes", st.Nodes, "hits", st.Hits, "misses", st.Misses,
		"remats", st.Remats, "hoists", st.Hoists,
		"size_before", st.SizeBefore, "size_after", st.SizeAfter)

	return nil
}

// children derives the ordered dominator tree children view.
func (t DomTree) children() [][]ir.Block {
	kids := make([][]ir.Block, len(t.Idom))

	for b, p := range t.Idom {
		if p == ir.NoBlock {
			continue
		}

		kids[p] = append(kids[p], ir.Block(b))
	}

	return kids
}

// dominates reports whether a dominates b. Every block dominates itself.
func (t DomTree) dominates(a, b ir.Block) bool {
	for {
		if a == b {
			return true
		}

		b = t.Idom[b]
		if b == ir.NoBlock {
			return false
		}
	}
}
