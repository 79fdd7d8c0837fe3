package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZeroIDsAreInvalid(t *testing.T) {
	assert.False(t, NoStructID.IsValid())
	assert.False(t, NoBufferID.IsValid())
	assert.False(t, NoTextureID.IsValid())
	assert.False(t, NoSamplerID.IsValid())
	assert.False(t, NoExprID.IsValid())

	d := NewDecls()
	_, ok := d.Struct(NoStructID)
	assert.False(t, ok)
	_, ok = d.Struct(StructID(7))
	assert.False(t, ok)
}

func TestDeclarations(t *testing.T) {
	d := NewDecls()
	light := d.AddStruct(StructDecl{
		Ident:  "Light",
		Fields: []Field{{Ident: "pos", TypeName: "float3"}, {Ident: "color", TypeName: "float4"}},
	})
	other := d.AddStruct(StructDecl{Ident: "Material"})
	buf := d.AddBuffer(BufferDecl{Ident: "Lights", BufferType: "StructuredBuffer"})
	tex := d.AddTexture(TextureDecl{Ident: "Albedo", TextureType: "Texture2D"})
	smp := d.AddSampler(SamplerDecl{Ident: "Linear", SamplerType: "SamplerState"})

	require.True(t, light.IsValid())
	assert.NotEqual(t, light, other)

	s, ok := d.Struct(light)
	require.True(t, ok)
	assert.Equal(t, "Light", s.Ident)
	require.NotNil(t, s.Field("color"))
	assert.Equal(t, "float4", s.Field("color").TypeName)
	assert.Nil(t, s.Field("missing"))

	b, ok := d.Buffer(buf)
	require.True(t, ok)
	assert.Equal(t, "Lights", b.Ident)
	tx, ok := d.Texture(tex)
	require.True(t, ok)
	assert.Equal(t, "Texture2D", tx.TextureType)
	sm, ok := d.Sampler(smp)
	require.True(t, ok)
	assert.Equal(t, "Linear", sm.Ident)

	id, ok := d.LookupStruct("Material")
	assert.True(t, ok)
	assert.Equal(t, other, id)
	_, ok = d.LookupBuffer("Nope")
	assert.False(t, ok)
	id2, ok := d.LookupTexture("Albedo")
	assert.True(t, ok)
	assert.Equal(t, tex, id2)
	id3, ok := d.LookupSampler("Linear")
	assert.True(t, ok)
	assert.Equal(t, smp, id3)
}

func TestFold(t *testing.T) {
	d := NewDecls()
	lit := d.AddConst("4", 4)
	sym := d.AddExpr("N")

	v, ok := d.ExprValue(lit)
	assert.True(t, ok)
	assert.Equal(t, 4, v)

	_, ok = d.ExprValue(sym)
	assert.False(t, ok, "unfolded expression has no value")

	assert.True(t, d.Fold(sym, 8))
	v, ok = d.ExprValue(sym)
	assert.True(t, ok)
	assert.Equal(t, 8, v)

	assert.True(t, d.Fold(sym, 8), "refolding to the same value is fine")
	assert.False(t, d.Fold(sym, 9))
	assert.False(t, d.Fold(NoExprID, 1))

	_, ok = d.ExprValue(NoExprID)
	assert.False(t, ok)

	e, ok := d.Expr(sym)
	require.True(t, ok)
	assert.Equal(t, "N", e.Text)
}
