package ir

type (
	Op   string
	Type int

	Expr  int
	Block int

	// Param is a block entry parameter. It is a value, not an instruction,
	// so it never appears in BlockData.Code.
	Param struct {
		Block Block
		Index int
		Type  Type
	}

	Inst struct {
		Op   Op
		Args []Expr
		Outs int
		Term bool
	}

	// Out projects a single output of a multi-output instruction.
	// Like Param it lives in the arena only.
	Out struct {
		Inst  Expr
		Index int
	}

	BlockData struct {
		Code []Expr
		Term Expr // first emitted terminator, Nil if none yet
	}

	Func struct {
		Name  string
		Entry Block

		Exprs  []any
		Blocks []BlockData
	}
)

const (
	Nil     Expr  = -1
	NoBlock Block = -1
)

func New(name string, blocks int) *Func {
	f := &Func{
		Name:   name,
		Blocks: make([]BlockData, blocks),
	}

	f.Reset()

	return f
}

func (f *Func) Add(x any) Expr {
	id := Expr(len(f.Exprs))
	f.Exprs = append(f.Exprs, x)

	return id
}

// Insert places an instruction into a block. Terminator class instructions
// are appended, everything else goes before the first emitted terminator so
// the block stays well formed.
func (f *Func) Insert(b Block, id Expr, term bool) {
	bp := &f.Blocks[b]

	if term {
		bp.Code = append(bp.Code, id)

		if bp.Term == Nil {
			bp.Term = id
		}

		return
	}

	if bp.Term == Nil {
		bp.Code = append(bp.Code, id)

		return
	}

	for i, x := range bp.Code {
		if x != bp.Term {
			continue
		}

		bp.Code = append(bp.Code, Nil)
		copy(bp.Code[i+1:], bp.Code[i:])
		bp.Code[i] = id

		return
	}

	panic(bp.Term)
}

// Reset drops all instruction content keeping the block skeleton.
func (f *Func) Reset() {
	f.Exprs = f.Exprs[:0]

	for i := range f.Blocks {
		f.Blocks[i].Code = f.Blocks[i].Code[:0]
		f.Blocks[i].Term = Nil
	}
}

func (f *Func) Size() (n int) {
	for i := range f.Blocks {
		n += len(f.Blocks[i].Code)
	}

	return n
}
