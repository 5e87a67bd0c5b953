package types

import (
	"fmt"
	"strings"
)

// Modifier is a single C# declaration modifier. The declared order is the
// display order and must not change.
type Modifier uint8

const (
	ModifierNew Modifier = iota
	ModifierConst
	ModifierStatic
	ModifierAbstract
	ModifierVirtual
	ModifierSealed
	ModifierReadonly
	ModifierInitOnly
	ModifierOverride
	ModifierExtern
	ModifierVolatile

	modifierCount
)

var modifierKeywords = [modifierCount]string{
	ModifierNew:      "new",
	ModifierConst:    "const",
	ModifierStatic:   "static",
	ModifierAbstract: "abstract",
	ModifierVirtual:  "virtual",
	ModifierSealed:   "sealed",
	ModifierReadonly: "readonly",
	ModifierInitOnly: "init",
	ModifierOverride: "override",
	ModifierExtern:   "extern",
	ModifierVolatile: "volatile",
}

// Keyword returns the C# keyword for the modifier
func (m Modifier) Keyword() string {
	if m >= modifierCount {
		return ""
	}
	return modifierKeywords[m]
}

func (m Modifier) String() string {
	if k := m.Keyword(); k != "" {
		return k
	}
	return fmt.Sprintf("Modifier(%d)", uint8(m))
}

// ModifierSet is a bitset of modifiers
type ModifierSet uint16

// NewModifierSet builds a set from the given modifiers
func NewModifierSet(mods ...Modifier) ModifierSet {
	var s ModifierSet
	for _, m := range mods {
		s = s.With(m)
	}
	return s
}

// Has reports whether m is in the set
func (s ModifierSet) Has(m Modifier) bool {
	return s&(1<<m) != 0
}

// With returns the set with m added
func (s ModifierSet) With(m Modifier) ModifierSet {
	return s | 1<<m
}

// Without returns the set with m removed
func (s ModifierSet) Without(m Modifier) ModifierSet {
	return s &^ (1 << m)
}

// Minus returns the modifiers of s that are not in o
func (s ModifierSet) Minus(o ModifierSet) ModifierSet {
	return s &^ o
}

// Empty reports whether no modifier is set
func (s ModifierSet) Empty() bool {
	return s == 0
}

// Sorted returns the modifiers in declared order
func (s ModifierSet) Sorted() []Modifier {
	var mods []Modifier
	for m := Modifier(0); m < modifierCount; m++ {
		if s.Has(m) {
			mods = append(mods, m)
		}
	}
	return mods
}

// Keywords returns the display keywords in declared order. InitOnly is
// never listed; it only changes a setter's trailing keyword.
func (s ModifierSet) Keywords() []string {
	var kws []string
	for _, m := range s.Sorted() {
		if m == ModifierInitOnly {
			continue
		}
		kws = append(kws, m.Keyword())
	}
	return kws
}

func (s ModifierSet) String() string {
	return strings.Join(s.Keywords(), " ")
}

// ParseModifierKeyword maps a C# keyword back to its modifier
func ParseModifierKeyword(kw string) (Modifier, bool) {
	for m := Modifier(0); m < modifierCount; m++ {
		if modifierKeywords[m] == kw {
			return m, true
		}
	}
	return 0, false
}
