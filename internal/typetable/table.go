// Package typetable loads type tables written in YAML and evaluates the
// compatibility and cast queries they contain.
//
// A table declares structures, resources and aliases, names type
// expressions built from them, and lists queries. Loading builds a
// types.Unit; every problem found on the way becomes a diagnostic located
// at the offending YAML node.
package typetable

import (
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/HugoDaniel/shadertypes/internal/ast"
	"github.com/HugoDaniel/shadertypes/internal/datatype"
	"github.com/HugoDaniel/shadertypes/internal/diagnostic"
	"github.com/HugoDaniel/shadertypes/internal/types"
)

// Op is a query operation.
type Op string

const (
	OpCompatible Op = "compatible"
	OpCastable   Op = "castable"
)

// Options controls loading and evaluation.
type Options struct {
	// CheckSymmetry also checks every query in reverse operand order and
	// reports rules that answer differently.
	CheckSymmetry bool

	// Filter overrides diagnostic severities per rule. May be nil.
	Filter *diagnostic.DiagnosticFilter
}

// Query is one compatibility or cast question of a table.
type Query struct {
	Op     Op
	From   string
	To     string
	Expect *bool
	Range  diagnostic.Range

	from, to types.Denoter
}

// Resolved reports whether both operands resolved to denoters.
func (q *Query) Resolved() bool { return q.from != nil && q.to != nil }

// Table is a loaded type table.
type Table struct {
	unit    *types.Unit
	opts    Options
	diags   *diagnostic.DiagnosticList
	consts  map[string]int
	named   map[string]types.Denoter
	symbols map[string]string
	names   []string
	queries []Query
}

// Section names, in processing order.
const (
	sectionConstants = "constants"
	sectionStructs   = "structs"
	sectionBuffers   = "buffers"
	sectionTextures  = "textures"
	sectionSamplers  = "samplers"
	sectionAliases   = "aliases"
	sectionTypes     = "types"
	sectionQueries   = "queries"
)

var sections = []string{
	sectionConstants,
	sectionStructs,
	sectionBuffers,
	sectionTextures,
	sectionSamplers,
	sectionAliases,
	sectionTypes,
	sectionQueries,
}

type fieldEntry struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

type declEntry struct {
	Name   string       `yaml:"name"`
	Type   string       `yaml:"type"`
	Fields []fieldEntry `yaml:"fields"`
}

type queryEntry struct {
	Op     string `yaml:"op"`
	From   string `yaml:"from"`
	To     string `yaml:"to"`
	Expect *bool  `yaml:"expect"`
}

// Load parses source and builds its table. The returned error is only set
// for malformed YAML; everything else is reported through Diagnostics.
func Load(source []byte, opts Options) (*Table, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(source, &doc); err != nil {
		return nil, fmt.Errorf("typetable: %w", err)
	}

	t := &Table{
		unit:    types.NewUnit(ast.NewDecls()),
		opts:    opts,
		diags:   diagnostic.NewDiagnosticList(string(source)),
		consts:  make(map[string]int),
		named:   make(map[string]types.Denoter),
		symbols: make(map[string]string),
	}
	t.diags.SetFilter(opts.Filter)

	if len(doc.Content) == 0 {
		return t, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		t.errorAt(root, diagnostic.CodeInvalidTable, "a type table must be a mapping")
		return t, nil
	}

	byName := make(map[string]*yaml.Node)
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		if !isSection(key.Value) {
			t.diags.AddWarning(rangeOf(key), fmt.Sprintf("unknown section '%s'", key.Value))
			continue
		}
		byName[key.Value] = value
	}

	t.loadConstants(byName[sectionConstants])
	structs := t.loadStructs(byName[sectionStructs])
	t.loadResources(sectionBuffers, byName[sectionBuffers])
	t.loadResources(sectionTextures, byName[sectionTextures])
	t.loadResources(sectionSamplers, byName[sectionSamplers])
	t.loadAliases(byName[sectionAliases])
	t.loadTypes(byName[sectionTypes])
	t.checkFields(structs)
	t.loadQueries(byName[sectionQueries])

	Logger().Debug("loaded type table",
		zap.Int("names", len(t.names)),
		zap.Int("aliases", len(t.unit.Aliases())),
		zap.Int("queries", len(t.queries)),
		zap.Int("diagnostics", t.diags.Count()))

	return t, nil
}

// Unit returns the translation unit built from the table.
func (t *Table) Unit() *types.Unit { return t.unit }

// Diagnostics returns the diagnostics reported so far.
func (t *Table) Diagnostics() *diagnostic.DiagnosticList { return t.diags }

// Queries returns the table's queries in source order.
func (t *Table) Queries() []Query { return t.queries }

// Names returns every declared name in declaration order.
func (t *Table) Names() []string { return t.names }

// Lookup returns the denoter declared under name.
func (t *Table) Lookup(name string) (types.Denoter, bool) {
	d, ok := t.named[name]
	return d, ok
}

// Resolve parses and resolves a type expression against the table.
func (t *Table) Resolve(expr string) (types.Denoter, error) {
	e, err := parseTypeExpr(expr)
	if err != nil {
		return nil, err
	}
	return t.build(e)
}

// ----------------------------------------------------------------------------
// Sections
// ----------------------------------------------------------------------------

func isSection(name string) bool {
	for _, s := range sections {
		if s == name {
			return true
		}
	}
	return false
}

func (t *Table) loadConstants(n *yaml.Node) {
	if n == nil {
		return
	}
	if n.Kind != yaml.MappingNode {
		t.errorAt(n, diagnostic.CodeInvalidTable, "constants must be a mapping of names to sizes")
		return
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, value := n.Content[i], n.Content[i+1]
		var v int
		if err := value.Decode(&v); err != nil || v <= 0 {
			t.errorAt(value, diagnostic.CodeInvalidNumber,
				fmt.Sprintf("constant '%s' must be a positive integer", key.Value))
			continue
		}
		if _, dup := t.consts[key.Value]; dup {
			t.errorAt(key, diagnostic.CodeDuplicateSymbol, fmt.Sprintf("constant '%s' is already declared", key.Value))
			continue
		}
		t.consts[key.Value] = v
	}
}

// structFields pairs a struct declaration with its YAML node for field
// checking once every name is known.
type structFields struct {
	id   ast.StructID
	node *yaml.Node
}

func (t *Table) loadStructs(n *yaml.Node) []structFields {
	var out []structFields
	t.eachEntry(sectionStructs, n, func(item *yaml.Node, e declEntry) {
		if !t.declare(sectionStructs, e.Name, item) {
			return
		}
		decl := ast.StructDecl{Ident: e.Name}
		seen := make(map[string]bool)
		for _, f := range e.Fields {
			if seen[f.Name] {
				t.errorAt(item, diagnostic.CodeDuplicateSymbol,
					fmt.Sprintf("field '%s' is declared twice in '%s'", f.Name, e.Name))
				continue
			}
			seen[f.Name] = true
			decl.Fields = append(decl.Fields, ast.Field{Ident: f.Name, TypeName: f.Type})
		}
		id := t.unit.Decls().AddStruct(decl)
		s, err := t.unit.StructByDecl(id)
		if err != nil {
			t.typeErrorAt(item, err)
			return
		}
		t.bind(e.Name, s)
		out = append(out, structFields{id: id, node: item})
	})
	return out
}

func (t *Table) loadResources(section string, n *yaml.Node) {
	t.eachEntry(section, n, func(item *yaml.Node, e declEntry) {
		if !t.declare(section, e.Name, item) {
			return
		}
		decls := t.unit.Decls()
		switch section {
		case sectionBuffers:
			t.bind(e.Name, t.unit.Buffer(decls.AddBuffer(ast.BufferDecl{Ident: e.Name, BufferType: e.Type})))
		case sectionTextures:
			t.bind(e.Name, t.unit.Texture(decls.AddTexture(ast.TextureDecl{Ident: e.Name, TextureType: e.Type})))
		case sectionSamplers:
			t.bind(e.Name, t.unit.Sampler(decls.AddSampler(ast.SamplerDecl{Ident: e.Name, SamplerType: e.Type})))
		}
	})
}

// loadAliases declares every alias before linking any, so aliases may
// refer to each other regardless of order.
func (t *Table) loadAliases(n *yaml.Node) {
	type pending struct {
		alias *types.Alias
		item  *yaml.Node
		expr  string
	}
	var links []pending

	t.eachEntry(sectionAliases, n, func(item *yaml.Node, e declEntry) {
		if !t.declare(sectionAliases, e.Name, item) {
			return
		}
		a, err := t.unit.DeclareAlias(e.Name)
		if err != nil {
			t.typeErrorAt(item, err)
			return
		}
		t.bind(e.Name, a)
		links = append(links, pending{alias: a, item: item, expr: e.Type})
	})

	for _, l := range links {
		target, ok := t.resolveAt(orNode(valueNode(l.item, "type"), l.item), l.expr)
		if !ok {
			continue
		}
		if err := l.alias.Link(target); err != nil {
			t.typeErrorAt(l.item, err)
		}
	}

	for _, l := range links {
		if !l.alias.Linked() {
			continue
		}
		if err := l.alias.Validate(); err != nil {
			t.typeErrorAt(l.item, err)
		}
	}
}

func (t *Table) loadTypes(n *yaml.Node) {
	if n == nil {
		return
	}
	if n.Kind != yaml.MappingNode {
		t.errorAt(n, diagnostic.CodeInvalidTable, "types must be a mapping of names to type expressions")
		return
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, value := n.Content[i], n.Content[i+1]
		if !t.declare(sectionTypes, key.Value, key) {
			continue
		}
		d, ok := t.resolveAt(value, value.Value)
		if !ok {
			continue
		}
		t.bind(key.Value, d)
	}
}

func (t *Table) checkFields(structs []structFields) {
	for _, s := range structs {
		decl, ok := t.unit.Decls().Struct(s.id)
		if !ok {
			continue
		}
		fields := valueNode(s.node, "fields")
		for i, f := range decl.Fields {
			at := s.node
			if fields != nil && i < len(fields.Content) {
				if tn := valueNode(fields.Content[i], "type"); tn != nil {
					at = tn
				}
			}
			t.resolveAt(at, f.TypeName)
		}
	}
}

func (t *Table) loadQueries(n *yaml.Node) {
	t.eachQuery(n, func(item *yaml.Node, e queryEntry) {
		q := Query{
			Op:     Op(e.Op),
			From:   e.From,
			To:     e.To,
			Expect: e.Expect,
			Range:  rangeOf(item),
		}
		if q.Op != OpCompatible && q.Op != OpCastable {
			t.errorAt(orNode(valueNode(item, "op"), item), diagnostic.CodeInvalidTable,
				fmt.Sprintf("unknown query operation '%s'", e.Op))
			return
		}
		q.from, _ = t.resolveAt(orNode(valueNode(item, "from"), item), e.From)
		q.to, _ = t.resolveAt(orNode(valueNode(item, "to"), item), e.To)
		t.queries = append(t.queries, q)
	})
}

// ----------------------------------------------------------------------------
// Names
// ----------------------------------------------------------------------------

// declare reserves name for section, reporting collisions with built-in
// type names and earlier declarations.
func (t *Table) declare(section, name string, at *yaml.Node) bool {
	if name == "" {
		t.errorAt(at, diagnostic.CodeInvalidTable, fmt.Sprintf("%s entry without a name", section))
		return false
	}
	if _, builtin := builtinType(name); builtin {
		t.errorAt(at, diagnostic.CodeDuplicateSymbol, fmt.Sprintf("'%s' shadows a built-in type", name))
		return false
	}
	if prev, dup := t.symbols[name]; dup {
		t.errorAt(at, diagnostic.CodeDuplicateSymbol,
			fmt.Sprintf("'%s' is already declared in %s", name, prev))
		return false
	}
	t.symbols[name] = section
	return true
}

func (t *Table) bind(name string, d types.Denoter) {
	t.named[name] = d
	t.names = append(t.names, name)
}

func builtinType(name string) (types.Denoter, bool) {
	if name == "void" {
		return types.VoidType, true
	}
	if dt, ok := datatype.Parse(name); ok {
		return types.NewBase(dt), true
	}
	return nil, false
}

func (t *Table) lookupName(name string) (types.Denoter, error) {
	if d, ok := builtinType(name); ok {
		return d, nil
	}
	if d, ok := t.named[name]; ok {
		return d, nil
	}
	return nil, &types.Error{
		Kind:   types.UnresolvedDeclaration,
		From:   name,
		Detail: "unknown type name",
	}
}

func (t *Table) build(e typeExpr) (types.Denoter, error) {
	elem, err := t.lookupName(e.name)
	if err != nil {
		return nil, err
	}
	if len(e.dims) == 0 {
		return elem, nil
	}

	decls := t.unit.Decls()
	dims := make([]ast.ExprID, len(e.dims))
	for i, d := range e.dims {
		switch d.kind {
		case dimAbsent:
			dims[i] = ast.NoExprID
		case dimConst:
			dims[i] = decls.AddConst(d.text, d.value)
		case dimSymbolic:
			if v, ok := t.consts[d.text]; ok {
				dims[i] = decls.AddConst(d.text, v)
			} else {
				dims[i] = decls.AddExpr(d.text)
			}
		}
	}
	arr, err := t.unit.Array(elem, dims...)
	if err != nil {
		return nil, err
	}
	return arr, nil
}

// resolveAt resolves expr, reporting failures at node n.
func (t *Table) resolveAt(n *yaml.Node, expr string) (types.Denoter, bool) {
	e, err := parseTypeExpr(expr)
	if err != nil {
		rng := rangeOf(n)
		if pe, ok := err.(*exprError); ok && n != nil && n.Line > 0 {
			rng = diagnostic.At(n.Line, n.Column+pe.offset+quoteWidth(n))
		}
		t.diags.AddErrorWithCode(rng, diagnostic.CodeInvalidTypeRef,
			fmt.Sprintf("invalid type expression '%s': %v", expr, err))
		return nil, false
	}
	d, err := t.build(e)
	if err != nil {
		t.typeErrorAt(n, err)
		return nil, false
	}
	return d, true
}

// ----------------------------------------------------------------------------
// YAML helpers
// ----------------------------------------------------------------------------

func (t *Table) eachEntry(section string, n *yaml.Node, fn func(item *yaml.Node, e declEntry)) {
	if n == nil {
		return
	}
	if n.Kind != yaml.SequenceNode {
		t.errorAt(n, diagnostic.CodeInvalidTable, fmt.Sprintf("%s must be a list", section))
		return
	}
	for _, item := range n.Content {
		var e declEntry
		if err := item.Decode(&e); err != nil {
			t.errorAt(item, diagnostic.CodeInvalidTable, fmt.Sprintf("invalid %s entry: %v", section, err))
			continue
		}
		fn(item, e)
	}
}

func (t *Table) eachQuery(n *yaml.Node, fn func(item *yaml.Node, e queryEntry)) {
	if n == nil {
		return
	}
	if n.Kind != yaml.SequenceNode {
		t.errorAt(n, diagnostic.CodeInvalidTable, "queries must be a list")
		return
	}
	for _, item := range n.Content {
		var e queryEntry
		if err := item.Decode(&e); err != nil {
			t.errorAt(item, diagnostic.CodeInvalidTable, fmt.Sprintf("invalid query: %v", err))
			continue
		}
		fn(item, e)
	}
}

func (t *Table) errorAt(n *yaml.Node, code diagnostic.DiagnosticCode, msg string) {
	t.diags.AddErrorWithCode(rangeOf(n), code, msg)
}

func (t *Table) typeErrorAt(n *yaml.Node, err error) {
	t.diags.AddTypeError(err, rangeOf(n))
}

// valueNode returns the value of key in mapping m.
func valueNode(m *yaml.Node, key string) *yaml.Node {
	if m == nil || m.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

func orNode(n, fallback *yaml.Node) *yaml.Node {
	if n != nil {
		return n
	}
	return fallback
}

func quoteWidth(n *yaml.Node) int {
	if n.Style&(yaml.DoubleQuotedStyle|yaml.SingleQuotedStyle) != 0 {
		return 1
	}
	return 0
}

// rangeOf returns the source range of n. Scalars span their text; other
// nodes are reported at their first position.
func rangeOf(n *yaml.Node) diagnostic.Range {
	if n == nil {
		return diagnostic.At(1, 1)
	}
	rng := diagnostic.At(n.Line, n.Column)
	if n.Kind == yaml.ScalarNode {
		rng.End.Column += len(n.Value) + 2*quoteWidth(n)
	}
	return rng
}
