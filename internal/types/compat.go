package types

import (
	"github.com/HugoDaniel/shadertypes/internal/ast"
	"github.com/HugoDaniel/shadertypes/internal/datatype"
)

// Compatible reports whether a value of type x can be used where y is
// expected without an explicit conversion. Aliases on either side are
// resolved first. An error is returned when resolution fails or when a
// nominal comparison involves a missing declaration.
func Compatible(x, y Denoter) (bool, error) {
	a, b, err := resolvePair(x, y)
	if err != nil {
		return false, err
	}
	return compatible(a, b)
}

// Castable reports whether an explicit conversion from x to y exists.
func Castable(x, y Denoter) (bool, error) {
	a, b, err := resolvePair(x, y)
	if err != nil {
		return false, err
	}
	return castable(a, b)
}

// CheckCompatible returns nil if src is compatible with dst, and a
// ShapeMismatch error naming both types otherwise.
func CheckCompatible(src, dst Denoter) error {
	ok, err := Compatible(src, dst)
	if err != nil {
		return err
	}
	if !ok {
		return shapeMismatch(src, dst, "types are not compatible")
	}
	return nil
}

// CheckCastable returns nil if src can be cast to dst, and a ShapeMismatch
// error naming both types otherwise.
func CheckCastable(src, dst Denoter) error {
	ok, err := Castable(src, dst)
	if err != nil {
		return err
	}
	if !ok {
		return shapeMismatch(src, dst, "no conversion exists")
	}
	return nil
}

// CheckSymmetry returns an AsymmetricRule error if compatibility or
// castability of x and y depends on operand order.
func CheckSymmetry(x, y Denoter) error {
	for _, rule := range []struct {
		name string
		fn   func(a, b Denoter) (bool, error)
	}{
		{"compatibility", Compatible},
		{"castability", Castable},
	} {
		xy, err := rule.fn(x, y)
		if err != nil {
			return err
		}
		yx, err := rule.fn(y, x)
		if err != nil {
			return err
		}
		if xy != yx {
			e := shapeMismatch(x, y, rule.name+" depends on operand order")
			e.Kind = AsymmetricRule
			return e
		}
	}
	return nil
}

func compatibleOrFalse(x, y Denoter) bool {
	ok, _ := Compatible(x, y)
	return ok
}

func castableOrFalse(x, y Denoter) bool {
	ok, _ := Castable(x, y)
	return ok
}

func resolvePair(x, y Denoter) (Denoter, Denoter, error) {
	if x == nil || y == nil {
		return nil, nil, invalidType("nil denoter")
	}
	a, err := x.Get()
	if err != nil {
		return nil, nil, err
	}
	b, err := y.Get()
	if err != nil {
		return nil, nil, err
	}
	return a, b, nil
}

// ----------------------------------------------------------------------------
// Rules
// ----------------------------------------------------------------------------

// compatible applies the compatibility rules to resolved denoters.
func compatible(x, y Denoter) (bool, error) {
	switch a := x.(type) {
	case *Void:
		_, ok := y.(*Void)
		return ok, nil
	case *Base:
		b, ok := y.(*Base)
		if !ok {
			return false, nil
		}
		return datatype.SameShape(a.DataType, b.DataType) &&
			a.DataType.Component().Family() == b.DataType.Component().Family(), nil
	case *Buffer, *Texture, *Sampler, *Struct:
		return sameDeclaration(x, y)
	case *Array:
		b, ok := y.(*Array)
		if !ok {
			return false, nil
		}
		return compatibleArrays(a, b)
	case *Alias:
		return false, invalidType("unresolved alias %s", a.Ident)
	}
	return false, invalidType("unknown denoter %T", x)
}

// castable applies the cast rules to resolved denoters.
func castable(x, y Denoter) (bool, error) {
	switch a := x.(type) {
	case *Void:
		return false, nil
	case *Base:
		b, ok := y.(*Base)
		if !ok {
			return false, nil
		}
		return datatype.SameShape(a.DataType, b.DataType), nil
	case *Buffer, *Texture, *Sampler, *Struct:
		return sameDeclaration(x, y)
	case *Array:
		b, ok := y.(*Array)
		if !ok {
			return false, nil
		}
		return castableArrays(a, b)
	case *Alias:
		return false, invalidType("unresolved alias %s", a.Ident)
	}
	return false, invalidType("unknown denoter %T", x)
}

// sameDeclaration implements nominal identity for resources and structs:
// both denoters must be of the same kind and refer to the same declaration
// of the same table.
func sameDeclaration(x, y Denoter) (bool, error) {
	if x.Kind() != y.Kind() {
		return false, nil
	}
	switch a := x.(type) {
	case *Buffer:
		b := y.(*Buffer)
		return sameRef(a, b, a.Decl, b.Decl, a.decls == b.decls)
	case *Texture:
		b := y.(*Texture)
		return sameRef(a, b, a.Decl, b.Decl, a.decls == b.decls)
	case *Sampler:
		b := y.(*Sampler)
		return sameRef(a, b, a.Decl, b.Decl, a.decls == b.decls)
	case *Struct:
		b := y.(*Struct)
		return sameRef(a, b, a.Decl, b.Decl, a.decls == b.decls)
	}
	return false, nil
}

type declID interface {
	ast.StructID | ast.BufferID | ast.TextureID | ast.SamplerID
	IsValid() bool
}

func sameRef[ID declID](x, y Denoter, a, b ID, sameTable bool) (bool, error) {
	if !a.IsValid() {
		return false, unresolvedDecl(x)
	}
	if !b.IsValid() {
		return false, unresolvedDecl(y)
	}
	return sameTable && a == b, nil
}

func compatibleArrays(x, y *Array) (bool, error) {
	xe, xd, err := x.flatten()
	if err != nil {
		return false, err
	}
	ye, yd, err := y.flatten()
	if err != nil {
		return false, err
	}
	if len(xd) != len(yd) {
		return false, nil
	}
	for i := range xd {
		if xd[i].known && yd[i].known && xd[i].size != yd[i].size {
			return false, nil
		}
	}
	return compatible(xe, ye)
}

func castableArrays(x, y *Array) (bool, error) {
	xe, xd, err := x.flatten()
	if err != nil {
		return false, err
	}
	ye, yd, err := y.flatten()
	if err != nil {
		return false, err
	}
	if len(xd) != len(yd) {
		return false, nil
	}
	ok, err := castable(xe, ye)
	if err != nil || !ok {
		return false, err
	}
	return castable(ye, xe)
}
