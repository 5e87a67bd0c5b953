package classify

import "github.com/dshills/csdocs/pkg/types"

// Accessibility maps a raw visibility code to its C# accessibility level
func Accessibility(v types.Visibility) types.Accessibility {
	switch v {
	case types.VisibilityPrivate:
		return types.AccessibilityPrivate
	case types.VisibilityFamilyAndAssembly:
		return types.AccessibilityPrivateProtected
	case types.VisibilityFamily:
		return types.AccessibilityProtected
	case types.VisibilityFamilyOrAssembly:
		return types.AccessibilityProtectedOrInternal
	case types.VisibilityAssembly, types.VisibilityNotPublic:
		return types.AccessibilityInternal
	case types.VisibilityPublic:
		return types.AccessibilityPublic
	default:
		return types.AccessibilityNone
	}
}

// AccessorInfo is the classification of one property or event accessor
type AccessorInfo struct {
	Present       bool
	Accessibility types.Accessibility
	Modifiers     types.ModifierSet
}

// AccessorPair holds the two accessors of a property (get, set) or an
// event (add, remove).
type AccessorPair struct {
	First  AccessorInfo
	Second AccessorInfo
}

// Restricted returns the accessor whose accessibility must be rendered
// inline, or nil when both accessors share one level.
func (p AccessorPair) Restricted() *AccessorInfo {
	if !p.First.Present || !p.Second.Present || p.First.Accessibility == p.Second.Accessibility {
		return nil
	}
	if p.First.Accessibility < p.Second.Accessibility {
		return &p.First
	}
	return &p.Second
}

// Classification is the derived accessibility and modifier set of an entity
type Classification struct {
	Accessibility types.Accessibility
	Modifiers     types.ModifierSet
}

// Classify derives the member-level accessibility and modifiers of e. For
// properties and events these summarize the accessor pair.
func Classify(e *types.Entity) Classification {
	switch e.Kind {
	case types.EntityType, types.EntityDelegate:
		return Classification{Accessibility(e.Visibility), TypeModifiers(e)}
	case types.EntityField:
		return Classification{Accessibility(e.Visibility), FieldModifiers(e)}
	case types.EntityMethod:
		return Classification{Accessibility(e.Visibility), MethodModifiers(e.DeclaringType, e.Flags)}
	case types.EntityProperty, types.EntityEvent:
		return classifyAccessorMember(e, Accessors(e))
	default:
		return Classification{Accessibility: Accessibility(e.Visibility)}
	}
}

func classifyAccessorMember(e *types.Entity, pair AccessorPair) Classification {
	var c Classification
	switch {
	case pair.First.Present:
		c.Modifiers = pair.First.Modifiers.Without(types.ModifierReadonly)
	case pair.Second.Present:
		c.Modifiers = pair.Second.Modifiers.Without(types.ModifierReadonly).Without(types.ModifierInitOnly)
	}
	if e.Flags.Has(types.FlagHidesBase) {
		c.Modifiers = c.Modifiers.With(types.ModifierNew)
	}

	c.Accessibility = pair.First.Accessibility.LessRestrictive(pair.Second.Accessibility)
	if !pair.First.Present && !pair.Second.Present {
		c.Accessibility = Accessibility(e.Visibility)
	}
	return c
}

// Accessors classifies the accessor pair of a property or event
func Accessors(e *types.Entity) AccessorPair {
	owner := e.DeclaringType
	switch e.Kind {
	case types.EntityProperty:
		pair := AccessorPair{
			First:  classifyAccessor(owner, e.Getter),
			Second: classifyAccessor(owner, e.Setter),
		}
		// Readonly implied by a missing setter is compiler-synthesized
		if e.Getter != nil && e.Getter.Flags.Has(types.FlagCompilerGenerated) {
			pair.First.Modifiers = pair.First.Modifiers.Without(types.ModifierReadonly)
		}
		return pair
	case types.EntityEvent:
		return AccessorPair{
			First:  classifyAccessor(owner, e.Adder),
			Second: classifyAccessor(owner, e.Remover),
		}
	default:
		return AccessorPair{}
	}
}

func classifyAccessor(owner *types.Entity, a *types.Accessor) AccessorInfo {
	if a == nil {
		return AccessorInfo{}
	}

	mods := MethodModifiers(owner, a.Flags)
	if a.Flags.Has(types.FlagExternalInit) {
		mods = mods.With(types.ModifierInitOnly)
	}
	return AccessorInfo{
		Present:       true,
		Accessibility: Accessibility(a.Visibility),
		Modifiers:     mods,
	}
}

// MethodModifiers derives method (or accessor) modifiers from raw flags.
// owner is the declaring type and may be nil.
func MethodModifiers(owner *types.Entity, f types.Flags) types.ModifierSet {
	var mods types.ModifierSet

	if f.Has(types.FlagStatic) {
		mods = mods.With(types.ModifierStatic)
	}

	// Interface members are implicitly abstract and virtual
	if owner != nil && owner.TypeKeyword == types.KeywordInterface {
		if f.Has(types.FlagStatic) && f.Has(types.FlagAbstract) {
			mods = mods.With(types.ModifierAbstract)
		}
		return mods
	}

	switch {
	case f.Has(types.FlagAbstract):
		mods = mods.With(types.ModifierAbstract)
		if f.Has(types.FlagVirtual) && !f.Has(types.FlagNewSlot) {
			mods = mods.With(types.ModifierOverride)
		}
	case f.Has(types.FlagVirtual | types.FlagFinal | types.FlagNewSlot):
		// sealed new-slot virtual is an implicit interface implementation
	case f.Has(types.FlagVirtual | types.FlagFinal):
		mods = mods.With(types.ModifierSealed).With(types.ModifierOverride)
	case f.Has(types.FlagVirtual | types.FlagNewSlot):
		mods = mods.With(types.ModifierVirtual)
	case f.Has(types.FlagVirtual):
		mods = mods.With(types.ModifierOverride)
	}

	if f.Has(types.FlagPInvoke) {
		mods = mods.With(types.ModifierExtern)
	}
	if f.Has(types.FlagHidesBase) {
		mods = mods.With(types.ModifierNew)
	}
	if f.Has(types.FlagReadonly) {
		mods = mods.With(types.ModifierReadonly)
	}
	return mods
}

// FieldModifiers derives field modifiers. Constants are never also static.
func FieldModifiers(e *types.Entity) types.ModifierSet {
	var mods types.ModifierSet
	f := e.Flags

	if f.Has(types.FlagLiteral) {
		mods = mods.With(types.ModifierConst)
	} else {
		if f.Has(types.FlagStatic) {
			mods = mods.With(types.ModifierStatic)
		}
		if f.Has(types.FlagInitOnly) {
			mods = mods.With(types.ModifierReadonly)
		}
	}
	if f.Has(types.FlagVolatile) {
		mods = mods.With(types.ModifierVolatile)
	}
	if f.Has(types.FlagHidesBase) {
		mods = mods.With(types.ModifierNew)
	}
	return mods
}

// TypeModifiers derives type and delegate modifiers
func TypeModifiers(e *types.Entity) types.ModifierSet {
	var mods types.ModifierSet
	f := e.Flags

	if f.Has(types.FlagHidesBase) {
		mods = mods.With(types.ModifierNew)
	}

	if e.Kind == types.EntityDelegate {
		return mods
	}

	switch {
	case e.TypeKeyword == types.KeywordInterface:
	case e.TypeKeyword.IsValueType():
		if f.Has(types.FlagReadonly) {
			mods = mods.With(types.ModifierReadonly)
		}
	case f.Has(types.FlagAbstract | types.FlagSealed):
		mods = mods.With(types.ModifierStatic)
	case f.Has(types.FlagAbstract):
		mods = mods.With(types.ModifierAbstract)
	case f.Has(types.FlagSealed):
		mods = mods.With(types.ModifierSealed)
	}
	return mods
}
