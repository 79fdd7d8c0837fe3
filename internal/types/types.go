// Package types implements the type denoters of the shading language.
//
// A Denoter is one of eight variants: void, base (scalar, vector, matrix),
// buffer, texture, sampler, struct, alias and array. Denoters are immutable
// once built, except that an alias is linked to its target exactly once.
// Compatible and Castable answer the two questions the analyzer asks about
// any pair of denoters; both see through aliases.
package types

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/HugoDaniel/shadertypes/internal/ast"
	"github.com/HugoDaniel/shadertypes/internal/datatype"
)

// Kind is the variant tag of a denoter.
type Kind uint8

const (
	KindVoid Kind = iota
	KindBase
	KindBuffer
	KindTexture
	KindSampler
	KindStruct
	KindAlias
	KindArray
)

var kindNames = [...]string{
	KindVoid:    "void",
	KindBase:    "base",
	KindBuffer:  "buffer",
	KindTexture: "texture",
	KindSampler: "sampler",
	KindStruct:  "struct",
	KindAlias:   "alias",
	KindArray:   "array",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// AllKinds returns every variant tag.
func AllKinds() []Kind {
	return []Kind{KindVoid, KindBase, KindBuffer, KindTexture, KindSampler, KindStruct, KindAlias, KindArray}
}

// Denoter is a shader type.
type Denoter interface {
	// Kind returns the variant tag.
	Kind() Kind
	// String returns a readable rendering used for diagnostics and emission.
	String() string
	// Get returns the denoter itself, or for an alias the first non-alias
	// denoter along its chain.
	Get() (Denoter, error)
	// IsCompatibleWith reports whether a value of this type can be used
	// where rhs is expected without a conversion.
	IsCompatibleWith(rhs Denoter) bool
	// IsCastableTo reports whether an explicit conversion to target exists.
	IsCastableTo(target Denoter) bool

	isDenoter()
}

// ----------------------------------------------------------------------------
// Void
// ----------------------------------------------------------------------------

// Void is the type of "no value".
type Void struct{}

// VoidType is the shared void denoter.
var VoidType = &Void{}

func (v *Void) Kind() Kind                        { return KindVoid }
func (v *Void) String() string                    { return "void" }
func (v *Void) Get() (Denoter, error)             { return v, nil }
func (v *Void) IsCompatibleWith(rhs Denoter) bool { return compatibleOrFalse(v, rhs) }
func (v *Void) IsCastableTo(target Denoter) bool  { return castableOrFalse(v, target) }
func (v *Void) isDenoter()                        {}

// ----------------------------------------------------------------------------
// Base
// ----------------------------------------------------------------------------

// Base is a scalar, vector or matrix type.
type Base struct {
	DataType datatype.DataType
}

var bases = func() []*Base {
	all := datatype.All()
	out := make([]*Base, int(all[len(all)-1])+1)
	for _, dt := range all {
		out[dt] = &Base{DataType: dt}
	}
	return out
}()

// NewBase returns the interned base denoter of dt, or nil if dt is not a
// valid classification.
func NewBase(dt datatype.DataType) *Base {
	if !dt.IsValid() {
		return nil
	}
	return bases[dt]
}

func (b *Base) Kind() Kind                        { return KindBase }
func (b *Base) String() string                    { return b.DataType.String() }
func (b *Base) Get() (Denoter, error)             { return b, nil }
func (b *Base) IsCompatibleWith(rhs Denoter) bool { return compatibleOrFalse(b, rhs) }
func (b *Base) IsCastableTo(target Denoter) bool  { return castableOrFalse(b, target) }
func (b *Base) isDenoter()                        {}

// ----------------------------------------------------------------------------
// Resources
// ----------------------------------------------------------------------------

// Buffer is a handle to a buffer declaration.
type Buffer struct {
	Decl  ast.BufferID
	decls *ast.Decls
}

// Declaration returns the referenced buffer, if it resolves.
func (b *Buffer) Declaration() (*ast.BufferDecl, bool) {
	if b.decls == nil {
		return nil, false
	}
	return b.decls.Buffer(b.Decl)
}

func (b *Buffer) Kind() Kind { return KindBuffer }

func (b *Buffer) String() string {
	if d, ok := b.Declaration(); ok {
		return "buffer " + d.Ident
	}
	return "buffer"
}

func (b *Buffer) Get() (Denoter, error)             { return b, nil }
func (b *Buffer) IsCompatibleWith(rhs Denoter) bool { return compatibleOrFalse(b, rhs) }
func (b *Buffer) IsCastableTo(target Denoter) bool  { return castableOrFalse(b, target) }
func (b *Buffer) isDenoter()                        {}

// Texture is a handle to a texture declaration.
type Texture struct {
	Decl  ast.TextureID
	decls *ast.Decls
}

// Declaration returns the referenced texture, if it resolves.
func (t *Texture) Declaration() (*ast.TextureDecl, bool) {
	if t.decls == nil {
		return nil, false
	}
	return t.decls.Texture(t.Decl)
}

func (t *Texture) Kind() Kind { return KindTexture }

func (t *Texture) String() string {
	if d, ok := t.Declaration(); ok {
		return "texture " + d.Ident
	}
	return "texture"
}

func (t *Texture) Get() (Denoter, error)             { return t, nil }
func (t *Texture) IsCompatibleWith(rhs Denoter) bool { return compatibleOrFalse(t, rhs) }
func (t *Texture) IsCastableTo(target Denoter) bool  { return castableOrFalse(t, target) }
func (t *Texture) isDenoter()                        {}

// Sampler is a handle to a sampler declaration.
type Sampler struct {
	Decl  ast.SamplerID
	decls *ast.Decls
}

// Declaration returns the referenced sampler, if it resolves.
func (s *Sampler) Declaration() (*ast.SamplerDecl, bool) {
	if s.decls == nil {
		return nil, false
	}
	return s.decls.Sampler(s.Decl)
}

func (s *Sampler) Kind() Kind { return KindSampler }

func (s *Sampler) String() string {
	if d, ok := s.Declaration(); ok {
		return "sampler " + d.Ident
	}
	return "sampler"
}

func (s *Sampler) Get() (Denoter, error)             { return s, nil }
func (s *Sampler) IsCompatibleWith(rhs Denoter) bool { return compatibleOrFalse(s, rhs) }
func (s *Sampler) IsCastableTo(target Denoter) bool  { return castableOrFalse(s, target) }
func (s *Sampler) isDenoter()                        {}

// ----------------------------------------------------------------------------
// Struct
// ----------------------------------------------------------------------------

// Struct is a user structure type. Decl is NoStructID while the structure
// is only known by name.
type Struct struct {
	Ident string
	Decl  ast.StructID
	decls *ast.Decls
}

// Declaration returns the referenced structure, if it resolves.
func (s *Struct) Declaration() (*ast.StructDecl, bool) {
	if s.decls == nil {
		return nil, false
	}
	return s.decls.Struct(s.Decl)
}

func (s *Struct) Kind() Kind { return KindStruct }

func (s *Struct) String() string {
	if s.Ident != "" {
		return s.Ident
	}
	if d, ok := s.Declaration(); ok {
		return d.Ident
	}
	return "struct"
}

func (s *Struct) Get() (Denoter, error)             { return s, nil }
func (s *Struct) IsCompatibleWith(rhs Denoter) bool { return compatibleOrFalse(s, rhs) }
func (s *Struct) IsCastableTo(target Denoter) bool  { return castableOrFalse(s, target) }
func (s *Struct) isDenoter()                        {}

// ----------------------------------------------------------------------------
// Array
// ----------------------------------------------------------------------------

// Array is an array of Elem with one or more dimensions, outermost first.
// The element denoter may be shared with other arrays.
type Array struct {
	elem  Denoter
	dims  []ast.ExprID
	decls *ast.Decls
}

// Elem returns the element denoter as written.
func (a *Array) Elem() Denoter { return a.elem }

// Dims returns the dimension expressions, outermost first.
func (a *Array) Dims() []ast.ExprID { return a.dims }

// NumDims returns the number of dimensions of this array level.
func (a *Array) NumDims() int { return len(a.dims) }

// DimSize returns the folded size of dimension i. Absent, unfolded and out
// of range dimensions report false.
func (a *Array) DimSize(i int) (int, bool) {
	if i < 0 || i >= len(a.dims) || a.decls == nil {
		return 0, false
	}
	return a.decls.ExprValue(a.dims[i])
}

func (a *Array) Kind() Kind { return KindArray }

// String renders the innermost element followed by every dimension, so an
// array of arrays prints like a single multi-dimensional array.
func (a *Array) String() string {
	var sb strings.Builder
	var elem Denoter = a
	var levels []*Array
	for {
		arr, ok := elem.(*Array)
		if !ok {
			break
		}
		levels = append(levels, arr)
		elem = arr.elem
	}

	sb.WriteString(elem.String())
	for _, level := range levels {
		for i := range level.dims {
			sb.WriteByte('[')
			if n, ok := level.DimSize(i); ok {
				sb.WriteString(strconv.Itoa(n))
			}
			sb.WriteByte(']')
		}
	}
	return sb.String()
}

func (a *Array) Get() (Denoter, error)             { return a, nil }
func (a *Array) IsCompatibleWith(rhs Denoter) bool { return compatibleOrFalse(a, rhs) }
func (a *Array) IsCastableTo(target Denoter) bool  { return castableOrFalse(a, target) }
func (a *Array) isDenoter()                        {}

// Flatten returns a single-level array equivalent to a: the dimensions of
// every nested array level, outermost first, over the first non-array
// element. Aliased element types are resolved on the way. Levels built by
// another unit cannot be merged and are rejected.
func (a *Array) Flatten() (*Array, error) {
	var dims []ast.ExprID
	elem, err := a.walk(func(level *Array) error {
		if level.decls != a.decls {
			return invalidType("array %s nests an array of another unit", a)
		}
		dims = append(dims, level.dims...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &Array{elem: elem, dims: dims, decls: a.decls}, nil
}

// dim is one resolved array dimension.
type dim struct {
	size  int
	known bool
}

// flatten collects the resolved dimensions of a and of every array it
// nests, and returns the first non-array element.
func (a *Array) flatten() (Denoter, []dim, error) {
	var dims []dim
	elem, err := a.walk(func(level *Array) error {
		for i := range level.dims {
			n, known := level.DimSize(i)
			dims = append(dims, dim{size: n, known: known})
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return elem, dims, nil
}

// walk visits every array level of a, outermost first, resolving aliased
// elements, and returns the innermost non-array element. An element alias
// that leads back to a level already visited is a cyclic alias; a void
// innermost element is invalid.
func (a *Array) walk(visit func(level *Array) error) (Denoter, error) {
	var seen []*Array
	var cur Denoter = a
	for {
		arr, ok := cur.(*Array)
		if !ok {
			if IsVoid(cur) {
				return nil, invalidType("array %s of void", a)
			}
			return cur, nil
		}
		for _, s := range seen {
			if s == arr {
				err := arrayCycle(seen, arr)
				Logger().Debug("cyclic alias through array", zap.Strings("path", err.Path))
				return nil, err
			}
		}
		seen = append(seen, arr)
		if visit != nil {
			if err := visit(arr); err != nil {
				return nil, err
			}
		}
		next, err := arr.elem.Get()
		if err != nil {
			return nil, err
		}
		cur = next
	}
}

// ----------------------------------------------------------------------------
// Predicates
// ----------------------------------------------------------------------------

// IsScalar returns true if d is a scalar base type. Aliases are not looked
// through; call Get first.
func IsScalar(d Denoter) bool {
	b, ok := d.(*Base)
	return ok && b.DataType.IsScalar()
}

// IsVector returns true if d is a vector base type.
func IsVector(d Denoter) bool {
	b, ok := d.(*Base)
	return ok && b.DataType.IsVector()
}

// IsMatrix returns true if d is a matrix base type.
func IsMatrix(d Denoter) bool {
	b, ok := d.(*Base)
	return ok && b.DataType.IsMatrix()
}

func IsVoid(d Denoter) bool    { return d != nil && d.Kind() == KindVoid }
func IsBase(d Denoter) bool    { return d != nil && d.Kind() == KindBase }
func IsBuffer(d Denoter) bool  { return d != nil && d.Kind() == KindBuffer }
func IsTexture(d Denoter) bool { return d != nil && d.Kind() == KindTexture }
func IsSampler(d Denoter) bool { return d != nil && d.Kind() == KindSampler }
func IsStruct(d Denoter) bool  { return d != nil && d.Kind() == KindStruct }
func IsAlias(d Denoter) bool   { return d != nil && d.Kind() == KindAlias }
func IsArray(d Denoter) bool   { return d != nil && d.Kind() == KindArray }
