package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind categorizes a type error.
type ErrorKind string

const (
	// ShapeMismatch is a negative compatibility or cast answer reported to
	// the analyzer. Recoverable.
	ShapeMismatch ErrorKind = "shape_mismatch"
	// UnresolvedDeclaration is a missing declaration back-reference or an
	// alias that was never linked. Recoverable if the query is deferred.
	UnresolvedDeclaration ErrorKind = "unresolved_declaration"
	// CyclicAliasDefinition is an alias chain that loops. The alias cannot
	// be treated as any concrete type.
	CyclicAliasDefinition ErrorKind = "cyclic_alias"
	// AsymmetricRule is a compatibility or cast rule that answers
	// differently depending on operand order.
	AsymmetricRule ErrorKind = "asymmetric_rule"
	// InvalidType is misuse of a denoter constructor.
	InvalidType ErrorKind = "invalid_type"
)

// Error is the structured error returned by the type core.
type Error struct {
	Cause  error
	Kind   ErrorKind
	From   string   // rendering of the source type
	To     string   // rendering of the target type
	Detail string
	Path   []string // alias chain, for unresolved and cyclic aliases
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Kind))
	b.WriteByte(']')

	if e.From != "" || e.To != "" {
		b.WriteByte(' ')
		b.WriteString(e.From)
		if e.To != "" {
			b.WriteString(" -> ")
			b.WriteString(e.To)
		}
	}

	if len(e.Path) > 0 {
		b.WriteString(" (")
		b.WriteString(strings.Join(e.Path, " -> "))
		b.WriteByte(')')
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

// Sentinels for errors.Is.
var (
	ErrShapeMismatch         = &Error{Kind: ShapeMismatch}
	ErrUnresolvedDeclaration = &Error{Kind: UnresolvedDeclaration}
	ErrCyclicAlias           = &Error{Kind: CyclicAliasDefinition}
	ErrAsymmetricRule        = &Error{Kind: AsymmetricRule}
	ErrInvalidType           = &Error{Kind: InvalidType}
)

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var te *Error
	if errors.As(err, &te) {
		return te.Kind, true
	}
	return "", false
}

func shapeMismatch(from, to Denoter, detail string) *Error {
	return &Error{
		Kind:   ShapeMismatch,
		From:   from.String(),
		To:     to.String(),
		Detail: detail,
	}
}

func unresolvedDecl(d Denoter) *Error {
	return &Error{
		Kind:   UnresolvedDeclaration,
		From:   d.String(),
		Detail: fmt.Sprintf("%s has no declaration", d.Kind()),
	}
}

func unlinkedAlias(start, at *Alias) *Error {
	return &Error{
		Kind:   UnresolvedDeclaration,
		From:   start.Ident,
		Path:   aliasChain(start, at),
		Detail: fmt.Sprintf("alias %s is not linked", at.Ident),
	}
}

func cyclicAlias(start *Alias) *Error {
	return &Error{
		Kind:   CyclicAliasDefinition,
		From:   start.Ident,
		Path:   cyclePath(start),
		Detail: "alias refers to itself",
	}
}

// arrayCycle reports an array level reached again through its element
// aliases. The path alternates levels and the aliases between them.
func arrayCycle(seen []*Array, again *Array) *Error {
	var path []string
	from := ""
	start := 0
	for i, l := range seen {
		if l == again {
			start = i
			break
		}
	}
	for _, l := range seen[start:] {
		path = append(path, l.String())
		if al, ok := l.elem.(*Alias); ok {
			path = append(path, al.Ident)
			if from == "" {
				from = al.Ident
			}
		}
	}
	path = append(path, again.String())
	return &Error{
		Kind:   CyclicAliasDefinition,
		From:   from,
		Path:   path,
		Detail: "alias contains itself through an array",
	}
}

func invalidType(format string, args ...any) *Error {
	return &Error{
		Kind:   InvalidType,
		Detail: fmt.Sprintf(format, args...),
	}
}

// aliasChain lists the aliases from start to end inclusive. end must be
// reachable from start without a cycle.
func aliasChain(start, end *Alias) []string {
	var path []string
	for cur := start; cur != nil; {
		path = append(path, cur.Ident)
		if cur == end {
			break
		}
		next, ok := cur.target.(*Alias)
		if !ok {
			break
		}
		cur = next
	}
	return path
}
