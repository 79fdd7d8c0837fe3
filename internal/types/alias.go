package types

import (
	"go.uber.org/zap"
)

// Alias is a named type alias. Its target is set once by Link; until then
// the alias is unlinked and cannot be resolved.
type Alias struct {
	Ident  string
	target Denoter
}

// Target returns the direct target of the alias, or nil if unlinked.
func (a *Alias) Target() Denoter { return a.target }

// Linked reports whether the alias has a target.
func (a *Alias) Linked() bool { return a.target != nil }

// Link sets the alias target. An alias can only be linked once.
func (a *Alias) Link(target Denoter) error {
	if target == nil {
		return invalidType("alias %s linked to nil", a.Ident)
	}
	if a.target != nil {
		return invalidType("alias %s is already linked to %s", a.Ident, a.target)
	}
	a.target = target
	Logger().Debug("linked alias", zap.String("alias", a.Ident), zap.Stringer("target", target))
	return nil
}

func (a *Alias) Kind() Kind { return KindAlias }

// String returns the alias name, not its target, so diagnostics show the
// type as it was declared.
func (a *Alias) String() string { return a.Ident }

// Get follows the alias chain to the first non-alias denoter. A cycle is
// detected with two cursors moving at different speeds, so resolution is
// bounded and does not allocate unless it fails.
func (a *Alias) Get() (Denoter, error) {
	var slow, fast Denoter = a, a
	for {
		for i := 0; i < 2; i++ {
			al, ok := fast.(*Alias)
			if !ok {
				return fast, nil
			}
			if al.target == nil {
				return nil, unlinkedAlias(a, al)
			}
			fast = al.target
		}
		// fast already passed slow's next position, so slow is an alias
		slow = slow.(*Alias).target
		if slow == fast {
			err := cyclicAlias(a)
			Logger().Debug("cyclic alias", zap.String("alias", a.Ident), zap.Strings("path", err.Path))
			return nil, err
		}
	}
}

// Validate resolves the alias and, when it names an array, every element
// level of that array, so an alias that contains itself through an array
// element is reported as cyclic.
func (a *Alias) Validate() error {
	d, err := a.Get()
	if err != nil {
		return err
	}
	if arr, ok := d.(*Array); ok {
		_, err = arr.walk(nil)
	}
	return err
}

func (a *Alias) IsCompatibleWith(rhs Denoter) bool { return compatibleOrFalse(a, rhs) }
func (a *Alias) IsCastableTo(target Denoter) bool  { return castableOrFalse(a, target) }
func (a *Alias) isDenoter()                        {}

// cyclePath lists the aliases from a until the first repeated one.
func cyclePath(a *Alias) []string {
	seen := make(map[*Alias]bool)
	var path []string
	cur := a
	for cur != nil {
		path = append(path, cur.Ident)
		if seen[cur] {
			break
		}
		seen[cur] = true
		next, ok := cur.target.(*Alias)
		if !ok {
			break
		}
		cur = next
	}
	return path
}
