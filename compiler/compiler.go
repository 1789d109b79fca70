package compiler

import (
	"context"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/elab/compiler/back"
	"github.com/slowlang/elab/compiler/ir"
)

// ElaborateFunc runs egraph elaboration on one function. Behind the
// check_elab gate the result is validated before it goes further down the
// pipeline.
func ElaborateFunc(ctx context.Context, e *back.Elaborator, f *ir.Func) (err error) {
	err = e.Elaborate(ctx, f)
	if err != nil {
		return errors.Wrap(err, "elaborate")
	}

	if tlog.SpanFromContext(ctx).If("check_elab") {
		err = back.CheckFunc(f, e.Dom)
		if err != nil {
			return errors.Wrap(err, "check")
		}
	}

	return nil
}
