package typetable

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/HugoDaniel/shadertypes/internal/diagnostic"
	"github.com/HugoDaniel/shadertypes/internal/types"
)

// Result is the answer to one query.
type Result struct {
	Query
	Result bool
	Err    error
}

// Failed reports whether the query errored or contradicted its expectation.
func (r Result) Failed() bool {
	if r.Err != nil {
		return true
	}
	return r.Expect != nil && *r.Expect != r.Result
}

// Evaluate answers every query whose operands resolved and adds a
// diagnostic for each error and unmet expectation. Queries with
// unresolved operands were already reported by Load and are skipped.
func (t *Table) Evaluate() []Result {
	results := make([]Result, 0, len(t.queries))
	for _, q := range t.queries {
		if !q.Resolved() {
			continue
		}
		r := Result{Query: q}
		r.Result, r.Err = t.answer(q)

		switch {
		case r.Err != nil:
			t.diags.AddTypeError(r.Err, q.Range)
		case q.Expect != nil && *q.Expect != r.Result:
			d := diagnostic.FromError(mismatchError(q), q.Range)
			d.Code = diagnostic.CodeUnexpectedResult
			d.Message = fmt.Sprintf("expected %s(%s, %s) to be %t", q.Op, q.From, q.To, *q.Expect)
			if q.Op == OpCastable && *q.Expect {
				d.Code = diagnostic.CodeInvalidConversion
			}
			t.diags.Add(d)
		}

		if t.opts.CheckSymmetry && r.Err == nil {
			if err := types.CheckSymmetry(q.from, q.to); err != nil {
				t.diags.AddTypeError(err, q.Range)
			}
		}

		Logger().Debug("evaluated query",
			zap.String("op", string(q.Op)),
			zap.String("from", q.From),
			zap.String("to", q.To),
			zap.Bool("result", r.Result),
			zap.Error(r.Err))
		results = append(results, r)
	}
	return results
}

func (t *Table) answer(q Query) (bool, error) {
	if q.Op == OpCastable {
		return types.Castable(q.from, q.to)
	}
	return types.Compatible(q.from, q.to)
}

// mismatchError builds the shape mismatch carried by a failed expectation,
// so that the shape_mismatch filter rule applies to it.
func mismatchError(q Query) error {
	return &types.Error{Kind: types.ShapeMismatch, From: q.From, To: q.To}
}

// Cell is one entry of a Matrix.
type Cell uint8

const (
	CellNo Cell = iota
	CellYes
	CellError
)

func (c Cell) String() string {
	switch c {
	case CellYes:
		return "yes"
	case CellError:
		return "error"
	default:
		return "no"
	}
}

// Matrix holds compatibility and castability between every pair of names.
// Compatible[i][j] answers Names[i] against Names[j].
type Matrix struct {
	Names      []string
	Compatible [][]Cell
	Castable   [][]Cell
}

// Matrix computes the compatibility and castability of every pair of named
// types. Rows are computed concurrently; the unit is read-only by now.
func (t *Table) Matrix(ctx context.Context) (*Matrix, error) {
	n := len(t.names)
	m := &Matrix{
		Names:      append([]string(nil), t.names...),
		Compatible: make([][]Cell, n),
		Castable:   make([][]Cell, n),
	}

	g, ctx := errgroup.WithContext(ctx)
	for i := range m.Names {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			from := t.named[m.Names[i]]
			compat := make([]Cell, n)
			cast := make([]Cell, n)
			for j, name := range m.Names {
				to := t.named[name]
				compat[j] = cell(types.Compatible(from, to))
				cast[j] = cell(types.Castable(from, to))
			}
			m.Compatible[i] = compat
			m.Castable[i] = cast
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return m, nil
}

func cell(ok bool, err error) Cell {
	switch {
	case err != nil:
		return CellError
	case ok:
		return CellYes
	default:
		return CellNo
	}
}
