package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HugoDaniel/shadertypes/internal/ast"
	"github.com/HugoDaniel/shadertypes/internal/datatype"
)

func TestCompatibleAndCastable(t *testing.T) {
	f := newFixture(t)
	u := f.unit

	lightA := u.Struct("Light", f.light)
	lightB := u.Struct("Light", f.light)
	material := u.Struct("Material", f.material)

	tests := []struct {
		name       string
		x, y       Denoter
		compatible bool
		castable   bool
	}{
		{"void/void", u.Void(), u.Void(), true, false},
		{"void/float", u.Void(), f.base(datatype.Float), false, false},
		{"float/void", f.base(datatype.Float), u.Void(), false, false},

		{"float3/int3", f.base(datatype.Float3), f.base(datatype.Int3), false, true},
		{"float4/float3", f.base(datatype.Float4), f.base(datatype.Float3), false, false},
		{"float3/half3", f.base(datatype.Float3), f.base(datatype.Half3), true, true},
		{"double/float", f.base(datatype.Double), f.base(datatype.Float), true, true},
		{"int2/uint2", f.base(datatype.Int2), f.base(datatype.UInt2), true, true},
		{"bool/int", f.base(datatype.Bool), f.base(datatype.Int), false, true},
		{"float/float3", f.base(datatype.Float), f.base(datatype.Float3), false, false},
		{"float3x3/int3x3", f.base(datatype.Float3x3), f.base(datatype.Int3x3), false, true},
		{"float2x3/float3x2", f.base(datatype.Float2x3), f.base(datatype.Float3x2), false, false},
		{"float4/float2x2", f.base(datatype.Float4), f.base(datatype.Float2x2), false, false},

		{"same buffer", u.Buffer(f.lightsA), u.Buffer(f.lightsA), true, true},
		{"distinct buffers", u.Buffer(f.lightsA), u.Buffer(f.lightsB), false, false},
		{"same texture", u.Texture(f.albedo), u.Texture(f.albedo), true, true},
		{"distinct textures", u.Texture(f.albedo), u.Texture(f.normalMap), false, false},
		{"same sampler", u.Sampler(f.linear), u.Sampler(f.linear), true, true},
		{"distinct samplers", u.Sampler(f.linear), u.Sampler(f.point), false, false},
		{"buffer/texture", u.Buffer(f.lightsA), u.Texture(f.albedo), false, false},
		{"sampler/float", u.Sampler(f.linear), f.base(datatype.Float), false, false},

		{"same struct", lightA, lightB, true, true},
		{"structurally equal structs", lightA, material, false, false},
		{"struct/float3", lightA, f.base(datatype.Float3), false, false},

		{"S[4]/S[4]", f.array(t, lightA, 4), f.array(t, lightB, 4), true, true},
		{"S[4]/S[5]", f.array(t, lightA, 4), f.array(t, lightA, 5), false, true},
		{"S[4]/M[4]", f.array(t, lightA, 4), f.array(t, material, 4), false, false},
		{"float[4]/float[]", f.array(t, f.base(datatype.Float), 4), f.array(t, f.base(datatype.Float), -1), true, true},
		{"float[4][2]/float[4]", f.array(t, f.base(datatype.Float), 4, 2), f.array(t, f.base(datatype.Float), 4), false, false},
		{"float[4]/int[4]", f.array(t, f.base(datatype.Float), 4), f.array(t, f.base(datatype.Int), 4), false, true},
		{"float3[2]/float4[2]", f.array(t, f.base(datatype.Float3), 2), f.array(t, f.base(datatype.Float4), 2), false, false},
		{"float[2]/float", f.array(t, f.base(datatype.Float), 2), f.base(datatype.Float), false, false},
		{
			"float[2][3]/nested float[2][3]",
			f.array(t, f.base(datatype.Float), 2, 3),
			f.array(t, f.array(t, f.base(datatype.Float), 3), 2),
			true, true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Compatible(tt.x, tt.y)
			require.NoError(t, err)
			assert.Equal(t, tt.compatible, c, "compatible")

			k, err := Castable(tt.x, tt.y)
			require.NoError(t, err)
			assert.Equal(t, tt.castable, k, "castable")

			assert.Equal(t, tt.compatible, tt.x.IsCompatibleWith(tt.y))
			assert.Equal(t, tt.castable, tt.x.IsCastableTo(tt.y))

			assert.NoError(t, CheckSymmetry(tt.x, tt.y))
		})
	}
}

func TestReflexive(t *testing.T) {
	f := newFixture(t)
	for _, d := range f.sample(t) {
		if IsVoid(d) {
			continue
		}
		t.Run(d.String(), func(t *testing.T) {
			r, err := d.Get()
			require.NoError(t, err)
			ok, err := Compatible(r, r)
			require.NoError(t, err)
			assert.True(t, ok)
		})
	}
}

func TestCompatibleImpliesCastable(t *testing.T) {
	f := newFixture(t)
	sample := f.sample(t)

	// An array over an alias linked to void after the array was built.
	late := f.alias(t, "Late", nil)
	sample = append(sample, f.array(t, late, 4))
	require.NoError(t, late.Link(f.unit.Void()))

	for _, x := range sample {
		for _, y := range sample {
			if IsVoid(x) && IsVoid(y) {
				continue
			}
			if !x.IsCompatibleWith(y) {
				continue
			}
			assert.True(t, x.IsCastableTo(y), "%s compatible with %s but not castable", x, y)
		}
	}
}

func TestSymmetryOverSample(t *testing.T) {
	f := newFixture(t)
	sample := f.sample(t)
	for _, x := range sample {
		for _, y := range sample {
			assert.NoError(t, CheckSymmetry(x, y), "%s / %s", x, y)
		}
	}
}

func TestAliasTransparency(t *testing.T) {
	f := newFixture(t)
	c := f.base(datatype.Float3)
	b := f.alias(t, "B", c)
	a := f.alias(t, "A", b)

	got, err := a.Get()
	require.NoError(t, err)
	assert.Same(t, c, got)

	others := []Denoter{
		f.base(datatype.Int3),
		f.base(datatype.Half3),
		f.base(datatype.Float4),
		f.unit.Void(),
		f.unit.Struct("Light", f.light),
		f.array(t, c, 3),
	}
	for _, other := range others {
		t.Run(other.String(), func(t *testing.T) {
			for _, fn := range []func(x, y Denoter) (bool, error){Compatible, Castable} {
				viaAlias, err := fn(a, other)
				require.NoError(t, err)
				direct, err := fn(c, other)
				require.NoError(t, err)
				assert.Equal(t, direct, viaAlias)

				reverseAlias, err := fn(other, a)
				require.NoError(t, err)
				reverseDirect, err := fn(other, c)
				require.NoError(t, err)
				assert.Equal(t, reverseDirect, reverseAlias)
			}
		})
	}
}

func TestAliasedArrayElements(t *testing.T) {
	f := newFixture(t)
	light := f.alias(t, "LightT", f.unit.Struct("Light", f.light))
	row := f.alias(t, "Row", f.array(t, f.base(datatype.Float), 3))

	ok, err := Compatible(f.array(t, light, 4), f.array(t, f.unit.Struct("Light", f.light), 4))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Compatible(f.array(t, row, 2), f.array(t, f.base(datatype.Float), 2, 3))
	require.NoError(t, err)
	assert.True(t, ok, "aliased inner arrays flatten like nested arrays")
}

func TestUnfoldedDimensionsMatchAnything(t *testing.T) {
	f := newFixture(t)
	decls := f.unit.Decls()
	n := decls.AddExpr("N")

	symbolic, err := f.unit.Array(f.base(datatype.Float), n)
	require.NoError(t, err)

	ok, err := Compatible(symbolic, f.array(t, f.base(datatype.Float), 8))
	require.NoError(t, err)
	assert.True(t, ok, "unfolded size is unknown and matches")

	require.True(t, decls.Fold(n, 4))
	ok, err = Compatible(symbolic, f.array(t, f.base(datatype.Float), 8))
	require.NoError(t, err)
	assert.False(t, ok, "folded size is compared")
}

func TestUnresolvedDeclarations(t *testing.T) {
	f := newFixture(t)
	u := f.unit

	tests := []struct {
		name string
		x, y Denoter
	}{
		{"forward struct", u.Struct("Later", ast.NoStructID), u.Struct("Light", f.light)},
		{"forward struct rhs", u.Struct("Light", f.light), u.Struct("Later", ast.NoStructID)},
		{"buffer", u.Buffer(ast.NoBufferID), u.Buffer(f.lightsA)},
		{"texture", u.Texture(f.albedo), u.Texture(ast.NoTextureID)},
		{"sampler", u.Sampler(ast.NoSamplerID), u.Sampler(ast.NoSamplerID)},
		{"array element", f.array(t, u.Struct("Later", ast.NoStructID), 2), f.array(t, u.Struct("Light", f.light), 2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := Compatible(tt.x, tt.y)
			assert.False(t, ok)
			assert.ErrorIs(t, err, ErrUnresolvedDeclaration)

			ok, err = Castable(tt.x, tt.y)
			assert.False(t, ok)
			assert.ErrorIs(t, err, ErrUnresolvedDeclaration)

			assert.False(t, tt.x.IsCompatibleWith(tt.y))
		})
	}

	// Different kinds never reach the declaration check.
	ok, err := Compatible(u.Struct("Later", ast.NoStructID), f.base(datatype.Float))
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestDistinctUnitsAreNeverTheSameDeclaration(t *testing.T) {
	a := newFixture(t)
	b := newFixture(t)
	ok, err := Compatible(a.unit.Struct("Light", a.light), b.unit.Struct("Light", b.light))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCheckForms(t *testing.T) {
	f := newFixture(t)
	pos := f.alias(t, "Position", f.base(datatype.Float3))

	assert.NoError(t, CheckCompatible(pos, f.base(datatype.Half3)))
	assert.NoError(t, CheckCastable(pos, f.base(datatype.Int3)))

	err := CheckCompatible(pos, f.base(datatype.Int3))
	require.ErrorIs(t, err, ErrShapeMismatch)
	var te *Error
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "Position", te.From, "diagnostics keep the alias name")
	assert.Equal(t, "int3", te.To)

	err = CheckCastable(f.base(datatype.Float3), f.base(datatype.Float4))
	require.ErrorIs(t, err, ErrShapeMismatch)
	assert.Contains(t, err.Error(), "float3 -> float4")

	err = CheckCompatible(f.unit.Struct("Later", ast.NoStructID), f.unit.Struct("Light", f.light))
	assert.ErrorIs(t, err, ErrUnresolvedDeclaration)

	_, err = Compatible(nil, pos)
	assert.ErrorIs(t, err, ErrInvalidType)
}
