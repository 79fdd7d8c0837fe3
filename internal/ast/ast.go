// Package ast holds the declarations that type denoters refer back to.
//
// Declarations live in a Decls arena owned by the translation unit and are
// addressed by typed IDs. The zero ID of every kind means "no declaration",
// which is how forward references that were never linked are represented.
// The type core never owns these declarations; it only stores IDs.
package ast

// ----------------------------------------------------------------------------
// Identifiers
// ----------------------------------------------------------------------------

type (
	StructID  uint32
	BufferID  uint32
	TextureID uint32
	SamplerID uint32
	ExprID    uint32
)

// Invalid ID constants (zero is sentinel).
const (
	NoStructID  StructID  = 0
	NoBufferID  BufferID  = 0
	NoTextureID TextureID = 0
	NoSamplerID SamplerID = 0
	NoExprID    ExprID    = 0
)

// IsValid returns true if the ID is valid (non-zero).
func (id StructID) IsValid() bool  { return id != NoStructID }
func (id BufferID) IsValid() bool  { return id != NoBufferID }
func (id TextureID) IsValid() bool { return id != NoTextureID }
func (id SamplerID) IsValid() bool { return id != NoSamplerID }
func (id ExprID) IsValid() bool    { return id != NoExprID }

// ----------------------------------------------------------------------------
// Declarations
// ----------------------------------------------------------------------------

// Field is a structure member. The type is kept as written; other passes
// resolve it.
type Field struct {
	Ident    string
	TypeName string
}

// StructDecl is a user structure declaration.
type StructDecl struct {
	Ident  string
	Fields []Field
}

// Field returns the member with the given name, or nil.
func (s *StructDecl) Field(ident string) *Field {
	for i := range s.Fields {
		if s.Fields[i].Ident == ident {
			return &s.Fields[i]
		}
	}
	return nil
}

// BufferDecl is a buffer binding such as a cbuffer or StructuredBuffer.
type BufferDecl struct {
	Ident      string
	BufferType string
}

// TextureDecl is a texture binding such as Texture2D.
type TextureDecl struct {
	Ident       string
	TextureType string
}

// SamplerDecl is a sampler binding such as SamplerState.
type SamplerDecl struct {
	Ident       string
	SamplerType string
}

// ----------------------------------------------------------------------------
// Dimension Expressions
// ----------------------------------------------------------------------------

// Expr is an array dimension expression. The constant folder records the
// folded value once it is known; until then the size is unknown.
type Expr struct {
	Text   string
	value  int
	folded bool
}

// Value returns the folded size and whether folding has happened.
func (e *Expr) Value() (int, bool) {
	return e.value, e.folded
}

// ----------------------------------------------------------------------------
// Arena
// ----------------------------------------------------------------------------

type arena[T any] struct {
	items []T
}

func (a *arena[T]) add(v T) uint32 {
	a.items = append(a.items, v)
	return uint32(len(a.items))
}

func (a *arena[T]) get(id uint32) (*T, bool) {
	if id == 0 || int(id) > len(a.items) {
		return nil, false
	}
	return &a.items[id-1], true
}

// Decls is the declaration table of one translation unit.
type Decls struct {
	structs  arena[StructDecl]
	buffers  arena[BufferDecl]
	textures arena[TextureDecl]
	samplers arena[SamplerDecl]
	exprs    arena[Expr]
}

// NewDecls creates an empty declaration table.
func NewDecls() *Decls {
	return &Decls{}
}

func (d *Decls) AddStruct(s StructDecl) StructID    { return StructID(d.structs.add(s)) }
func (d *Decls) AddBuffer(b BufferDecl) BufferID    { return BufferID(d.buffers.add(b)) }
func (d *Decls) AddTexture(t TextureDecl) TextureID { return TextureID(d.textures.add(t)) }
func (d *Decls) AddSampler(s SamplerDecl) SamplerID { return SamplerID(d.samplers.add(s)) }

func (d *Decls) Struct(id StructID) (*StructDecl, bool)    { return d.structs.get(uint32(id)) }
func (d *Decls) Buffer(id BufferID) (*BufferDecl, bool)    { return d.buffers.get(uint32(id)) }
func (d *Decls) Texture(id TextureID) (*TextureDecl, bool) { return d.textures.get(uint32(id)) }
func (d *Decls) Sampler(id SamplerID) (*SamplerDecl, bool) { return d.samplers.get(uint32(id)) }

// LookupStruct finds a structure by identifier.
func (d *Decls) LookupStruct(ident string) (StructID, bool) {
	for i := range d.structs.items {
		if d.structs.items[i].Ident == ident {
			return StructID(i + 1), true
		}
	}
	return NoStructID, false
}

// LookupBuffer finds a buffer by identifier.
func (d *Decls) LookupBuffer(ident string) (BufferID, bool) {
	for i := range d.buffers.items {
		if d.buffers.items[i].Ident == ident {
			return BufferID(i + 1), true
		}
	}
	return NoBufferID, false
}

// LookupTexture finds a texture by identifier.
func (d *Decls) LookupTexture(ident string) (TextureID, bool) {
	for i := range d.textures.items {
		if d.textures.items[i].Ident == ident {
			return TextureID(i + 1), true
		}
	}
	return NoTextureID, false
}

// LookupSampler finds a sampler by identifier.
func (d *Decls) LookupSampler(ident string) (SamplerID, bool) {
	for i := range d.samplers.items {
		if d.samplers.items[i].Ident == ident {
			return SamplerID(i + 1), true
		}
	}
	return NoSamplerID, false
}

// AddExpr registers an unfolded dimension expression.
func (d *Decls) AddExpr(text string) ExprID {
	return ExprID(d.exprs.add(Expr{Text: text}))
}

// AddConst registers a literal dimension that is already folded.
func (d *Decls) AddConst(text string, value int) ExprID {
	return ExprID(d.exprs.add(Expr{Text: text, value: value, folded: true}))
}

// Expr returns the expression with the given ID.
func (d *Decls) Expr(id ExprID) (*Expr, bool) {
	return d.exprs.get(uint32(id))
}

// Fold records the constant value of a dimension expression. It returns
// false if the ID is unknown or the expression was already folded to a
// different value.
func (d *Decls) Fold(id ExprID, value int) bool {
	e, ok := d.exprs.get(uint32(id))
	if !ok {
		return false
	}
	if e.folded {
		return e.value == value
	}
	e.value = value
	e.folded = true
	return true
}

// ExprValue returns the folded value of a dimension. Absent and unfolded
// dimensions report false.
func (d *Decls) ExprValue(id ExprID) (int, bool) {
	e, ok := d.exprs.get(uint32(id))
	if !ok {
		return 0, false
	}
	return e.Value()
}
