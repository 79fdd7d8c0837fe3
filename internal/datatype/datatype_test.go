package datatype

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableIsTotal(t *testing.T) {
	for _, dt := range All() {
		t.Run(dt.String(), func(t *testing.T) {
			shapes := 0
			for _, ok := range []bool{dt.IsScalar(), dt.IsVector(), dt.IsMatrix()} {
				if ok {
					shapes++
				}
			}
			assert.Equal(t, 1, shapes, "exactly one shape")
			assert.NotEqual(t, ComponentNone, dt.Component())
			assert.NotEqual(t, FamilyNone, dt.Component().Family())

			parsed, ok := Parse(dt.String())
			require.True(t, ok)
			assert.Equal(t, dt, parsed)
		})
	}
	assert.Len(t, All(), 6*perKind)
}

func TestUndefined(t *testing.T) {
	assert.False(t, Undefined.IsValid())
	assert.Equal(t, ShapeNone, Undefined.Shape().Class)
	assert.False(t, Undefined.IsScalar())
	assert.False(t, SameShape(Undefined, Undefined))
	assert.Equal(t, "undefined", Undefined.String())
}

func TestNames(t *testing.T) {
	tests := []struct {
		dt   DataType
		name string
	}{
		{Bool, "bool"},
		{Int3, "int3"},
		{UInt4, "uint4"},
		{Half2x2, "half2x2"},
		{Float3x4, "float3x4"},
		{Double4x4, "double4x4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.dt.String())
		})
	}
}

func TestShape(t *testing.T) {
	assert.Equal(t, Shape{ShapeScalar, 1, 1}, Float.Shape())
	assert.Equal(t, Shape{ShapeVector, 3, 1}, Int3.Shape())
	assert.Equal(t, Shape{ShapeMatrix, 2, 4}, Half2x4.Shape())

	assert.Equal(t, 3, Float3.VectorSize())
	assert.Equal(t, 1, Float.VectorSize())
	assert.Equal(t, 0, Float3x3.VectorSize())

	r, c := Double3x2.MatrixDims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 2, c)

	assert.Equal(t, "matrix3x2", Double3x2.Shape().String())
	assert.Equal(t, "vector4", Bool4.Shape().String())
}

func TestSameShape(t *testing.T) {
	assert.True(t, SameShape(Float3, Int3))
	assert.True(t, SameShape(Float4x4, Bool4x4))
	assert.False(t, SameShape(Float3, Float4))
	assert.False(t, SameShape(Float, Float2))
	assert.False(t, SameShape(Float2x3, Float3x2))
}

func TestComponentPredicates(t *testing.T) {
	assert.True(t, Bool3.IsBoolean())
	assert.True(t, Int2.IsInteger())
	assert.True(t, UInt.IsInteger())
	assert.True(t, UInt.IsUnsigned())
	assert.False(t, Int.IsUnsigned())
	assert.True(t, Half.IsReal())
	assert.True(t, Double2x2.IsReal())
	assert.False(t, Float.IsInteger())
}

func TestConstructors(t *testing.T) {
	dt, ok := Vector(ComponentFloat, 3)
	require.True(t, ok)
	assert.Equal(t, Float3, dt)

	dt, ok = Matrix(ComponentUInt, 4, 2)
	require.True(t, ok)
	assert.Equal(t, UInt4x2, dt)

	dt, ok = Scalar(ComponentDouble)
	require.True(t, ok)
	assert.Equal(t, Double, dt)

	_, ok = Vector(ComponentFloat, 5)
	assert.False(t, ok)
	_, ok = Matrix(ComponentFloat, 1, 4)
	assert.False(t, ok)
	_, ok = Scalar(ComponentNone)
	assert.False(t, ok)

	assert.Equal(t, Half, BaseOf(Half3x3))
	assert.Equal(t, Undefined, BaseOf(Undefined))
}
