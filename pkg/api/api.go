// Package api provides the public API for the shader type checker.
//
// This package is intended for programmatic use of the checker.
// For CLI usage, see cmd/shadertypes.
package api

import (
	"context"
	"fmt"

	"github.com/HugoDaniel/shadertypes/internal/diagnostic"
	"github.com/HugoDaniel/shadertypes/internal/typetable"
)

// Options controls checking behavior.
type Options struct {
	// CheckSymmetry also evaluates every query with its operands swapped
	// and reports rules that answer differently.
	CheckSymmetry bool

	// Diagnostics maps rule names ("shape_mismatch", "unresolved_declaration",
	// "cyclic_alias", "compat_symmetry") to "error", "warning", "info" or
	// "off".
	Diagnostics map[string]string
}

// QueryResult is the answer to one query of a type table.
type QueryResult struct {
	Op     string `json:"op"`
	From   string `json:"from"`
	To     string `json:"to"`
	Result bool   `json:"result"`
	Expect *bool  `json:"expect,omitempty"`
	Passed bool   `json:"passed"`
	Error  string `json:"error,omitempty"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

// Diagnostic is a located message about a type table.
type Diagnostic struct {
	Severity string `json:"severity"`
	Code     string `json:"code,omitempty"`
	Message  string `json:"message"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
}

// Result contains the outcome of checking a type table.
type Result struct {
	// Queries holds one entry per query whose operands resolved.
	Queries []QueryResult `json:"queries"`

	// Diagnostics holds everything reported while loading and evaluating.
	Diagnostics []Diagnostic `json:"diagnostics"`

	// Errors contains failures that prevented checking, such as malformed
	// YAML or invalid options.
	Errors []string `json:"errors,omitempty"`

	// Failed counts queries that errored or contradicted their expectation.
	Failed int `json:"failed"`

	// Formatted is the human-readable rendering of Diagnostics.
	Formatted string `json:"-"`
}

// OK reports whether the table checked cleanly: no errors, no error-level
// diagnostics and no failed queries.
func (r Result) OK() bool {
	if len(r.Errors) > 0 || r.Failed > 0 {
		return false
	}
	for _, d := range r.Diagnostics {
		if d.Severity == diagnostic.Error.String() {
			return false
		}
	}
	return true
}

// Check loads a YAML type table and evaluates its queries.
func Check(source string, opts Options) Result {
	tblOpts, err := opts.tableOptions()
	if err != nil {
		return Result{Errors: []string{err.Error()}}
	}
	return CheckWithTableOptions(source, tblOpts)
}

// CheckWithTableOptions is like Check but takes already-resolved table
// options, as built by the config package.
func CheckWithTableOptions(source string, opts typetable.Options) Result {
	tbl, err := typetable.Load([]byte(source), opts)
	if err != nil {
		return Result{Errors: []string{err.Error()}}
	}

	var out Result
	for _, r := range tbl.Evaluate() {
		qr := QueryResult{
			Op:     string(r.Op),
			From:   r.From,
			To:     r.To,
			Result: r.Result,
			Expect: r.Expect,
			Passed: !r.Failed(),
			Line:   r.Range.Start.Line,
			Column: r.Range.Start.Column,
		}
		if r.Err != nil {
			qr.Error = r.Err.Error()
		}
		if r.Failed() {
			out.Failed++
		}
		out.Queries = append(out.Queries, qr)
	}

	diags := tbl.Diagnostics()
	for _, d := range diags.Diagnostics() {
		out.Diagnostics = append(out.Diagnostics, Diagnostic{
			Severity: d.Severity.String(),
			Code:     string(d.Code),
			Message:  d.Message,
			Line:     d.Range.Start.Line,
			Column:   d.Range.Start.Column,
		})
	}
	out.Formatted = diags.Format()
	return out
}

// MatrixResult is the compatibility and castability of every pair of
// names declared by a table. Cells are "yes", "no" or "error".
type MatrixResult struct {
	Names      []string   `json:"names"`
	Compatible [][]string `json:"compatible"`
	Castable   [][]string `json:"castable"`
}

// Matrix loads a YAML type table and computes its matrix.
func Matrix(ctx context.Context, source string, opts typetable.Options) (*MatrixResult, error) {
	tbl, err := typetable.Load([]byte(source), opts)
	if err != nil {
		return nil, err
	}
	m, err := tbl.Matrix(ctx)
	if err != nil {
		return nil, err
	}
	return &MatrixResult{
		Names:      m.Names,
		Compatible: cellStrings(m.Compatible),
		Castable:   cellStrings(m.Castable),
	}, nil
}

func cellStrings(rows [][]typetable.Cell) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = make([]string, len(row))
		for j, c := range row {
			out[i][j] = c.String()
		}
	}
	return out
}

func (o Options) tableOptions() (typetable.Options, error) {
	tblOpts := typetable.Options{CheckSymmetry: o.CheckSymmetry}
	if len(o.Diagnostics) == 0 {
		return tblOpts, nil
	}
	filter := diagnostic.NewDiagnosticFilter()
	for rule, level := range o.Diagnostics {
		sev, err := diagnostic.ParseSeverity(level)
		if err != nil {
			return tblOpts, fmt.Errorf("rule %s: %w", rule, err)
		}
		filter.SetRule(rule, sev)
	}
	tblOpts.Filter = filter
	return tblOpts, nil
}
