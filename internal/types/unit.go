package types

import (
	"errors"

	"go.uber.org/zap"

	"github.com/HugoDaniel/shadertypes/internal/ast"
	"github.com/HugoDaniel/shadertypes/internal/datatype"
)

// Unit builds the denoters of one translation unit. It owns the alias table
// and refers to the unit's declaration table.
//
// A Unit is not safe for concurrent mutation. Once every alias is linked it
// is read-only, and its denoters may be queried from several goroutines.
type Unit struct {
	decls   *ast.Decls
	aliases map[string]*Alias
	order   []*Alias
}

// NewUnit creates a unit over decls. A nil table is replaced by an empty one.
func NewUnit(decls *ast.Decls) *Unit {
	if decls == nil {
		decls = ast.NewDecls()
	}
	return &Unit{
		decls:   decls,
		aliases: make(map[string]*Alias),
	}
}

// Decls returns the declaration table the unit builds against.
func (u *Unit) Decls() *ast.Decls { return u.decls }

// Void returns the void denoter.
func (u *Unit) Void() *Void { return VoidType }

// Base returns the interned base denoter of dt.
func (u *Unit) Base(dt datatype.DataType) (*Base, error) {
	b := NewBase(dt)
	if b == nil {
		return nil, invalidType("invalid data type %d", dt)
	}
	return b, nil
}

// MustBase is like Base but panics on an invalid data type. It is meant for
// data types known at compile time.
func (u *Unit) MustBase(dt datatype.DataType) *Base {
	b, err := u.Base(dt)
	if err != nil {
		panic(err)
	}
	return b
}

// Buffer returns a denoter for the buffer declaration id.
func (u *Unit) Buffer(id ast.BufferID) *Buffer {
	return &Buffer{Decl: id, decls: u.decls}
}

// Texture returns a denoter for the texture declaration id.
func (u *Unit) Texture(id ast.TextureID) *Texture {
	return &Texture{Decl: id, decls: u.decls}
}

// Sampler returns a denoter for the sampler declaration id.
func (u *Unit) Sampler(id ast.SamplerID) *Sampler {
	return &Sampler{Decl: id, decls: u.decls}
}

// Struct returns a struct denoter. id may be NoStructID for a structure that
// is only known by name so far.
func (u *Unit) Struct(ident string, id ast.StructID) *Struct {
	return &Struct{Ident: ident, Decl: id, decls: u.decls}
}

// StructByDecl returns a struct denoter named after its declaration.
func (u *Unit) StructByDecl(id ast.StructID) (*Struct, error) {
	d, ok := u.decls.Struct(id)
	if !ok {
		return nil, &Error{Kind: UnresolvedDeclaration, Detail: "unknown struct declaration"}
	}
	return u.Struct(d.Ident, id), nil
}

// Array returns an array of elem with the given dimensions, outermost
// first. ast.NoExprID stands for a dimension without a size expression.
func (u *Unit) Array(elem Denoter, dims ...ast.ExprID) (*Array, error) {
	if elem == nil {
		return nil, invalidType("array of nil element")
	}
	if len(dims) == 0 {
		return nil, invalidType("array of %s without dimensions", elem)
	}
	if IsVoid(elem) {
		return nil, invalidType("array of void")
	}
	// Elements that already resolve are checked now; unlinked aliases are
	// checked when the array is flattened.
	if r, err := elem.Get(); err == nil {
		if IsVoid(r) {
			return nil, invalidType("array of %s, which is void", elem)
		}
		if arr, ok := r.(*Array); ok {
			if arr.decls != u.decls {
				return nil, invalidType("array of %s from another unit", elem)
			}
			if _, err := arr.walk(nil); errors.Is(err, ErrInvalidType) {
				return nil, err
			}
		}
	}
	return &Array{
		elem:  elem,
		dims:  append([]ast.ExprID(nil), dims...),
		decls: u.decls,
	}, nil
}

// ----------------------------------------------------------------------------
// Alias Table
// ----------------------------------------------------------------------------

// DeclareAlias adds an unlinked alias. Declaring every alias before linking
// any of them lets aliases refer to each other in any order.
func (u *Unit) DeclareAlias(ident string) (*Alias, error) {
	if ident == "" {
		return nil, invalidType("alias without a name")
	}
	if _, exists := u.aliases[ident]; exists {
		return nil, invalidType("duplicate alias %s", ident)
	}
	a := &Alias{Ident: ident}
	u.aliases[ident] = a
	u.order = append(u.order, a)
	Logger().Debug("declared alias", zap.String("alias", ident))
	return a, nil
}

// LinkAlias links a declared alias to its target.
func (u *Unit) LinkAlias(ident string, target Denoter) error {
	a, ok := u.aliases[ident]
	if !ok {
		return &Error{Kind: UnresolvedDeclaration, From: ident, Detail: "alias is not declared"}
	}
	return a.Link(target)
}

// Alias looks up an alias by name.
func (u *Unit) Alias(ident string) (*Alias, bool) {
	a, ok := u.aliases[ident]
	return a, ok
}

// Aliases returns every alias in declaration order.
func (u *Unit) Aliases() []*Alias {
	return append([]*Alias(nil), u.order...)
}

// Unlinked returns the aliases that have no target yet.
func (u *Unit) Unlinked() []*Alias {
	var out []*Alias
	for _, a := range u.order {
		if !a.Linked() {
			out = append(out, a)
		}
	}
	return out
}

// Resolve validates every alias once and returns all failures joined. It
// is meant to be called after the alias table has been linked.
func (u *Unit) Resolve() error {
	var errs []error
	for _, a := range u.order {
		if err := a.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
