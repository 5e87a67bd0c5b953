package types

// Visibility is the raw visibility code carried by the metadata model.
// It mirrors the CLI member and type visibility attributes and is turned
// into an Accessibility by the classifier.
type Visibility string

const (
	VisibilityCompilerControlled Visibility = ""
	VisibilityPrivate            Visibility = "private"
	VisibilityFamilyAndAssembly  Visibility = "family_and_assembly"
	VisibilityAssembly           Visibility = "assembly"
	VisibilityFamily             Visibility = "family"
	VisibilityFamilyOrAssembly   Visibility = "family_or_assembly"
	VisibilityPublic             Visibility = "public"
	// VisibilityNotPublic is the top-level type visibility for types that are
	// not exported from their assembly.
	VisibilityNotPublic Visibility = "not_public"
)

// Valid reports whether v is a known visibility code
func (v Visibility) Valid() bool {
	switch v {
	case VisibilityCompilerControlled, VisibilityPrivate, VisibilityFamilyAndAssembly,
		VisibilityAssembly, VisibilityFamily, VisibilityFamilyOrAssembly,
		VisibilityPublic, VisibilityNotPublic:
		return true
	default:
		return false
	}
}

// Accessibility is a C# accessibility level. Values are ordered so that a
// smaller value is more restrictive.
type Accessibility int

const (
	AccessibilityNone Accessibility = iota
	AccessibilityPrivate
	AccessibilityPrivateProtected
	AccessibilityProtected
	AccessibilityProtectedOrInternal
	AccessibilityInternal
	AccessibilityPublic
)

var accessibilityKeywords = [...]string{
	AccessibilityNone:                "",
	AccessibilityPrivate:             "private",
	AccessibilityPrivateProtected:    "private protected",
	AccessibilityProtected:           "protected",
	AccessibilityProtectedOrInternal: "protected internal",
	AccessibilityInternal:            "internal",
	AccessibilityPublic:              "public",
}

// Keyword returns the C# keyword text, empty for AccessibilityNone
func (a Accessibility) Keyword() string {
	if a < AccessibilityNone || a > AccessibilityPublic {
		return ""
	}
	return accessibilityKeywords[a]
}

// String returns the keyword, or "none"
func (a Accessibility) String() string {
	if k := a.Keyword(); k != "" {
		return k
	}
	return "none"
}

// MoreRestrictive returns the more restrictive of a and b
func (a Accessibility) MoreRestrictive(b Accessibility) Accessibility {
	if b < a {
		return b
	}
	return a
}

// LessRestrictive returns the less restrictive of a and b
func (a Accessibility) LessRestrictive(b Accessibility) Accessibility {
	if b > a {
		return b
	}
	return a
}
