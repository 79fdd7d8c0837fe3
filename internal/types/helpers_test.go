package types

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/HugoDaniel/shadertypes/internal/ast"
	"github.com/HugoDaniel/shadertypes/internal/datatype"
)

// fixture is a small translation unit shared by the tests.
type fixture struct {
	unit *Unit

	light, material   ast.StructID
	lightsA, lightsB  ast.BufferID
	albedo, normalMap ast.TextureID
	linear, point     ast.SamplerID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	decls := ast.NewDecls()
	f := &fixture{
		light:     decls.AddStruct(ast.StructDecl{Ident: "Light", Fields: []ast.Field{{Ident: "pos", TypeName: "float3"}}}),
		material:  decls.AddStruct(ast.StructDecl{Ident: "Material", Fields: []ast.Field{{Ident: "pos", TypeName: "float3"}}}),
		lightsA:   decls.AddBuffer(ast.BufferDecl{Ident: "LightsA", BufferType: "StructuredBuffer"}),
		lightsB:   decls.AddBuffer(ast.BufferDecl{Ident: "LightsB", BufferType: "StructuredBuffer"}),
		albedo:    decls.AddTexture(ast.TextureDecl{Ident: "Albedo", TextureType: "Texture2D"}),
		normalMap: decls.AddTexture(ast.TextureDecl{Ident: "NormalMap", TextureType: "Texture2D"}),
		linear:    decls.AddSampler(ast.SamplerDecl{Ident: "Linear", SamplerType: "SamplerState"}),
		point:     decls.AddSampler(ast.SamplerDecl{Ident: "Point", SamplerType: "SamplerState"}),
	}
	f.unit = NewUnit(decls)
	return f
}

func (f *fixture) base(dt datatype.DataType) *Base {
	return f.unit.MustBase(dt)
}

func (f *fixture) array(t *testing.T, elem Denoter, sizes ...int) *Array {
	t.Helper()
	dims := make([]ast.ExprID, len(sizes))
	for i, n := range sizes {
		if n < 0 {
			dims[i] = ast.NoExprID
			continue
		}
		dims[i] = f.unit.Decls().AddConst("", n)
	}
	a, err := f.unit.Array(elem, dims...)
	require.NoError(t, err)
	return a
}

func (f *fixture) alias(t *testing.T, ident string, target Denoter) *Alias {
	t.Helper()
	a, err := f.unit.DeclareAlias(ident)
	require.NoError(t, err)
	if target != nil {
		require.NoError(t, a.Link(target))
	}
	return a
}

// sample returns one denoter of every kind plus a few shapes, all resolved.
func (f *fixture) sample(t *testing.T) []Denoter {
	lightStruct := f.unit.Struct("Light", f.light)
	return []Denoter{
		f.unit.Void(),
		f.base(datatype.Float),
		f.base(datatype.Int3),
		f.base(datatype.Float3),
		f.base(datatype.Half3),
		f.base(datatype.Float4x4),
		f.base(datatype.Bool2),
		f.unit.Buffer(f.lightsA),
		f.unit.Texture(f.albedo),
		f.unit.Sampler(f.linear),
		lightStruct,
		f.unit.Struct("Material", f.material),
		f.alias(t, "Position", f.base(datatype.Float3)),
		f.array(t, f.base(datatype.Float), 4, 2),
		f.array(t, lightStruct, 4),
		f.array(t, f.base(datatype.Int), -1),
	}
}
