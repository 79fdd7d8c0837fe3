package diagnostic

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HugoDaniel/shadertypes/internal/ast"
	"github.com/HugoDaniel/shadertypes/internal/datatype"
	"github.com/HugoDaniel/shadertypes/internal/types"
)

func TestMakePosition(t *testing.T) {
	dl := NewDiagnosticList("ab\ncd\n\nef")

	tests := []struct {
		offset       int
		line, column int
	}{
		{0, 1, 1},
		{1, 1, 2},
		{3, 2, 1},
		{4, 2, 2},
		{6, 3, 1},
		{7, 4, 1},
		{8, 4, 2},
	}
	for _, tt := range tests {
		p := dl.MakePosition(tt.offset)
		assert.Equal(t, tt.line, p.Line, "offset %d", tt.offset)
		assert.Equal(t, tt.column, p.Column, "offset %d", tt.offset)
		assert.Equal(t, tt.offset, p.Offset)
	}
}

func TestFormatDiagnostic(t *testing.T) {
	src := "queries:\n  - {op: compatible, from: float3, to: int3}\n"
	dl := NewDiagnosticList(src)
	dl.AddErrorWithCode(Range{
		Start: Position{Line: 2, Column: 27},
		End:   Position{Line: 2, Column: 33},
	}, CodeTypeMismatch, "type mismatch")

	out := dl.Format()
	lines := strings.Split(out, "\n")
	require.GreaterOrEqual(t, len(lines), 3)
	assert.Equal(t, "2:27: error[E0200]: type mismatch", lines[0])
	assert.Equal(t, "      - {op: compatible, from: float3, to: int3}", lines[1])
	assert.Equal(t, strings.Repeat(" ", 30)+"^~~~~~", lines[2])
}

func TestCounts(t *testing.T) {
	dl := NewDiagnosticList("")
	assert.False(t, dl.HasErrors())

	dl.AddWarning(At(1, 1), "w")
	dl.AddNote(At(1, 1), "n")
	assert.False(t, dl.HasErrors())

	dl.AddError(At(2, 1), "e")
	assert.True(t, dl.HasErrors())
	assert.Equal(t, 3, dl.Count())
	assert.Equal(t, 1, dl.ErrorCount())
	assert.Len(t, dl.Errors(), 1)
	assert.Len(t, dl.Warnings(), 1)

	dl.Clear()
	assert.Equal(t, 0, dl.Count())
	assert.False(t, dl.HasErrors())
}

func typeErrors(t *testing.T) map[types.ErrorKind]error {
	t.Helper()
	u := types.NewUnit(ast.NewDecls())

	mismatch := types.CheckCompatible(u.MustBase(datatype.Float3), u.MustBase(datatype.Int3))
	require.Error(t, mismatch)

	_, unresolved := types.Compatible(u.Struct("Ghost", ast.NoStructID), u.Struct("Ghost", ast.NoStructID))
	require.Error(t, unresolved)

	a, err := u.DeclareAlias("A")
	require.NoError(t, err)
	b, err := u.DeclareAlias("B")
	require.NoError(t, err)
	require.NoError(t, a.Link(b))
	require.NoError(t, b.Link(a))
	_, cyclic := a.Get()
	require.Error(t, cyclic)

	_, invalid := u.Base(datatype.DataType(200))
	require.Error(t, invalid)

	return map[types.ErrorKind]error{
		types.ShapeMismatch:         mismatch,
		types.UnresolvedDeclaration: unresolved,
		types.CyclicAliasDefinition: cyclic,
		types.AsymmetricRule:        &types.Error{Kind: types.AsymmetricRule, From: "x", To: "y", Detail: "compatibility depends on operand order"},
		types.InvalidType:           invalid,
	}
}

func TestFromError(t *testing.T) {
	errs := typeErrors(t)

	tests := []struct {
		kind     types.ErrorKind
		code     DiagnosticCode
		rule     string
		severity Severity
		contains string
	}{
		{types.ShapeMismatch, CodeTypeMismatch, RuleShapeMismatch, Error, "'float3' and 'int3'"},
		{types.UnresolvedDeclaration, CodeUndefinedSymbol, RuleUnresolvedDeclaration, Error, "'Ghost'"},
		{types.CyclicAliasDefinition, CodeRecursiveType, RuleCyclicAlias, Error, "A -> B -> A"},
		{types.AsymmetricRule, CodeAsymmetricRule, RuleCompatSymmetry, Warning, "operand order"},
		{types.InvalidType, CodeInvalidType, "", Error, "invalid data type"},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			d := FromError(errs[tt.kind], At(3, 4))
			assert.Equal(t, tt.code, d.Code)
			assert.Equal(t, tt.rule, d.Rule)
			assert.Equal(t, tt.severity, d.Severity)
			assert.Contains(t, d.Message, tt.contains)
			assert.Equal(t, 3, d.Range.Start.Line)
		})
	}

	plain := FromError(errors.New("boom"), At(1, 1))
	assert.Equal(t, DiagnosticCode(""), plain.Code)
	assert.Equal(t, "boom", plain.Message)
	assert.Equal(t, Error, plain.Severity)
}

func TestFilter(t *testing.T) {
	errs := typeErrors(t)

	f := NewDiagnosticFilter()
	f.SetRule(RuleShapeMismatch, Warning)
	f.DisableRule(RuleCyclicAlias)

	dl := NewDiagnosticList("")
	dl.SetFilter(f)
	dl.AddTypeError(errs[types.ShapeMismatch], At(1, 1))
	dl.AddTypeError(errs[types.CyclicAliasDefinition], At(2, 1))
	dl.AddTypeError(errs[types.UnresolvedDeclaration], At(3, 1))

	require.Equal(t, 2, dl.Count())
	assert.Equal(t, Warning, dl.Diagnostics()[0].Severity)
	assert.Equal(t, Error, dl.Diagnostics()[1].Severity)
	assert.True(t, dl.HasErrors())

	// Diagnostics without a rule are never filtered.
	f.DisableRule("")
	dl.AddError(At(4, 1), "plain")
	assert.Equal(t, 3, dl.Count())
}

func TestParseSeverity(t *testing.T) {
	for in, want := range map[string]Severity{
		"error":   Error,
		"warning": Warning,
		"WARN":    Warning,
		"info":    Info,
		"note":    Note,
	} {
		got, err := ParseSeverity(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	sev, err := ParseSeverity("off")
	require.NoError(t, err)
	f := NewDiagnosticFilter()
	f.SetRule("r", sev)
	assert.True(t, f.IsDisabled("r"))
	assert.Equal(t, "off", sev.String())

	_, err = ParseSeverity("loud")
	assert.Error(t, err)
}
