// Package datatype classifies the numeric base types of the shading language.
//
// Every DataType is a scalar, a vector of 2 to 4 components, or a matrix of
// 2x2 up to 4x4 components, built from one of six component kinds. The table
// in this package is the single source of truth for shape and component
// queries made by the type core.
package datatype

// DataType is a closed enumeration of base type classifications.
type DataType uint8

// Values are grouped per component kind; each group lists the scalar, the
// vectors 2..4 and the matrices 2x2..4x4 in row-major order.
const (
	Undefined DataType = iota

	Bool
	Bool2
	Bool3
	Bool4
	Bool2x2
	Bool2x3
	Bool2x4
	Bool3x2
	Bool3x3
	Bool3x4
	Bool4x2
	Bool4x3
	Bool4x4
	Int
	Int2
	Int3
	Int4
	Int2x2
	Int2x3
	Int2x4
	Int3x2
	Int3x3
	Int3x4
	Int4x2
	Int4x3
	Int4x4
	UInt
	UInt2
	UInt3
	UInt4
	UInt2x2
	UInt2x3
	UInt2x4
	UInt3x2
	UInt3x3
	UInt3x4
	UInt4x2
	UInt4x3
	UInt4x4
	Half
	Half2
	Half3
	Half4
	Half2x2
	Half2x3
	Half2x4
	Half3x2
	Half3x3
	Half3x4
	Half4x2
	Half4x3
	Half4x4
	Float
	Float2
	Float3
	Float4
	Float2x2
	Float2x3
	Float2x4
	Float3x2
	Float3x3
	Float3x4
	Float4x2
	Float4x3
	Float4x4
	Double
	Double2
	Double3
	Double4
	Double2x2
	Double2x3
	Double2x4
	Double3x2
	Double3x3
	Double3x4
	Double4x2
	Double4x3
	Double4x4

	numDataTypes
)

// perKind is the number of classifications per component kind.
const perKind = 13

// ----------------------------------------------------------------------------
// Component Kinds
// ----------------------------------------------------------------------------

// ComponentKind is the scalar element kind of a data type.
type ComponentKind uint8

const (
	ComponentNone ComponentKind = iota
	ComponentBool
	ComponentInt
	ComponentUInt
	ComponentHalf
	ComponentFloat
	ComponentDouble
)

var componentNames = [...]string{
	ComponentNone:   "none",
	ComponentBool:   "bool",
	ComponentInt:    "int",
	ComponentUInt:   "uint",
	ComponentHalf:   "half",
	ComponentFloat:  "float",
	ComponentDouble: "double",
}

func (k ComponentKind) String() string {
	if int(k) < len(componentNames) {
		return componentNames[k]
	}
	return "unknown"
}

// Family groups component kinds that convert into each other implicitly.
type Family uint8

const (
	FamilyNone Family = iota
	FamilyBoolean
	FamilyInteger
	FamilyReal
)

func (f Family) String() string {
	switch f {
	case FamilyBoolean:
		return "boolean"
	case FamilyInteger:
		return "integer"
	case FamilyReal:
		return "real"
	default:
		return "none"
	}
}

// Family returns the promotion family of k.
func (k ComponentKind) Family() Family {
	switch k {
	case ComponentBool:
		return FamilyBoolean
	case ComponentInt, ComponentUInt:
		return FamilyInteger
	case ComponentHalf, ComponentFloat, ComponentDouble:
		return FamilyReal
	default:
		return FamilyNone
	}
}

// ----------------------------------------------------------------------------
// Shapes
// ----------------------------------------------------------------------------

// ShapeClass tells scalars, vectors and matrices apart.
type ShapeClass uint8

const (
	ShapeNone ShapeClass = iota
	ShapeScalar
	ShapeVector
	ShapeMatrix
)

func (c ShapeClass) String() string {
	switch c {
	case ShapeScalar:
		return "scalar"
	case ShapeVector:
		return "vector"
	case ShapeMatrix:
		return "matrix"
	default:
		return "none"
	}
}

// Shape is the dimension layout of a data type independent of its component
// kind. Scalars are 1x1 and vectors are Nx1.
type Shape struct {
	Class ShapeClass
	Rows  int
	Cols  int
}

func (s Shape) String() string {
	switch s.Class {
	case ShapeScalar:
		return "scalar"
	case ShapeVector:
		return "vector" + itoa(s.Rows)
	case ShapeMatrix:
		return "matrix" + itoa(s.Rows) + "x" + itoa(s.Cols)
	default:
		return "none"
	}
}

func itoa(n int) string {
	return string(rune('0' + n))
}

// ----------------------------------------------------------------------------
// Classification Table
// ----------------------------------------------------------------------------

type info struct {
	name      string
	component ComponentKind
	shape     Shape
}

var (
	table  [numDataTypes]info
	byName map[string]DataType
)

// groupShapes lists the shapes of one component group in declaration order.
var groupShapes = [perKind]Shape{
	{ShapeScalar, 1, 1},
	{ShapeVector, 2, 1},
	{ShapeVector, 3, 1},
	{ShapeVector, 4, 1},
	{ShapeMatrix, 2, 2},
	{ShapeMatrix, 2, 3},
	{ShapeMatrix, 2, 4},
	{ShapeMatrix, 3, 2},
	{ShapeMatrix, 3, 3},
	{ShapeMatrix, 3, 4},
	{ShapeMatrix, 4, 2},
	{ShapeMatrix, 4, 3},
	{ShapeMatrix, 4, 4},
}

func init() {
	table[Undefined] = info{name: "undefined"}
	byName = make(map[string]DataType, numDataTypes)

	for dt := Bool; dt < numDataTypes; dt++ {
		idx := int(dt - Bool)
		comp := ComponentKind(idx/perKind) + ComponentBool
		shape := groupShapes[idx%perKind]

		name := comp.String()
		switch shape.Class {
		case ShapeVector:
			name += itoa(shape.Rows)
		case ShapeMatrix:
			name += itoa(shape.Rows) + "x" + itoa(shape.Cols)
		}

		table[dt] = info{name: name, component: comp, shape: shape}
		byName[name] = dt
	}
}

// ----------------------------------------------------------------------------
// Queries
// ----------------------------------------------------------------------------

// IsValid reports whether dt is a defined classification.
func (dt DataType) IsValid() bool {
	return dt > Undefined && dt < numDataTypes
}

func (dt DataType) String() string {
	if dt < numDataTypes {
		return table[dt].name
	}
	return "unknown"
}

// Shape returns the shape of dt. Undefined and out-of-range values have
// ShapeNone.
func (dt DataType) Shape() Shape {
	if !dt.IsValid() {
		return Shape{}
	}
	return table[dt].shape
}

// Component returns the scalar element kind of dt.
func (dt DataType) Component() ComponentKind {
	if !dt.IsValid() {
		return ComponentNone
	}
	return table[dt].component
}

func (dt DataType) IsScalar() bool { return dt.Shape().Class == ShapeScalar }
func (dt DataType) IsVector() bool { return dt.Shape().Class == ShapeVector }
func (dt DataType) IsMatrix() bool { return dt.Shape().Class == ShapeMatrix }

// VectorSize returns the component count of a vector, 1 for a scalar and 0
// for anything else.
func (dt DataType) VectorSize() int {
	switch s := dt.Shape(); s.Class {
	case ShapeScalar, ShapeVector:
		return s.Rows
	default:
		return 0
	}
}

// MatrixDims returns rows and columns of a matrix, or (0, 0).
func (dt DataType) MatrixDims() (rows, cols int) {
	s := dt.Shape()
	if s.Class != ShapeMatrix {
		return 0, 0
	}
	return s.Rows, s.Cols
}

// IsBoolean returns true for bool scalars, vectors and matrices.
func (dt DataType) IsBoolean() bool {
	return dt.Component() == ComponentBool
}

// IsInteger returns true for signed and unsigned integer types.
func (dt DataType) IsInteger() bool {
	return dt.Component().Family() == FamilyInteger
}

// IsUnsigned returns true for uint types.
func (dt DataType) IsUnsigned() bool {
	return dt.Component() == ComponentUInt
}

// IsReal returns true for half, float and double types.
func (dt DataType) IsReal() bool {
	return dt.Component().Family() == FamilyReal
}

// SameShape reports whether a and b have the same shape, ignoring the
// component kind. Invalid data types never match.
func SameShape(a, b DataType) bool {
	if !a.IsValid() || !b.IsValid() {
		return false
	}
	return a.Shape() == b.Shape()
}

// ----------------------------------------------------------------------------
// Constructors
// ----------------------------------------------------------------------------

// Parse returns the data type with the given name, e.g. "float3x4".
func Parse(name string) (DataType, bool) {
	dt, ok := byName[name]
	return dt, ok
}

// All returns every valid data type in declaration order.
func All() []DataType {
	out := make([]DataType, 0, numDataTypes-1)
	for dt := Bool; dt < numDataTypes; dt++ {
		out = append(out, dt)
	}
	return out
}

func lookup(kind ComponentKind, shape Shape) (DataType, bool) {
	if kind == ComponentNone || int(kind) >= len(componentNames) {
		return Undefined, false
	}
	for i, s := range groupShapes {
		if s == shape {
			return Bool + DataType(int(kind-ComponentBool)*perKind+i), true
		}
	}
	return Undefined, false
}

// Scalar returns the scalar data type of the given component kind.
func Scalar(kind ComponentKind) (DataType, bool) {
	return lookup(kind, Shape{ShapeScalar, 1, 1})
}

// Vector returns the n-component vector of the given kind; n must be 2..4.
func Vector(kind ComponentKind, n int) (DataType, bool) {
	return lookup(kind, Shape{ShapeVector, n, 1})
}

// Matrix returns the rows x cols matrix of the given kind.
func Matrix(kind ComponentKind, rows, cols int) (DataType, bool) {
	return lookup(kind, Shape{ShapeMatrix, rows, cols})
}

// BaseOf returns the scalar component type of dt, or Undefined.
func BaseOf(dt DataType) DataType {
	s, _ := Scalar(dt.Component())
	return s
}
