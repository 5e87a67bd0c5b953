package render

import (
	"strings"

	"github.com/dshills/csdocs/internal/classify"
	"github.com/dshills/csdocs/pkg/types"
)

// accessorSlot is one accessor to be written in an accessor block
type accessorSlot struct {
	keyword  string
	accessor *types.Accessor
	info     classify.AccessorInfo
}

// accessorBlock renders "{ get; set; }" style blocks. member is the
// member-level modifier set; accessors only show modifiers beyond it.
// The block is multiline when any accessor carries its own visible
// attributes, and collapses to ";" when no accessor is known.
func accessorBlock(slots []accessorSlot, pair classify.AccessorPair, member types.ModifierSet) (string, error) {
	restricted := pair.Restricted()

	multiline := false
	for _, s := range slots {
		if hasVisibleAnnotations(s.accessor) {
			multiline = true
		}
	}

	var lines []string
	for _, s := range slots {
		if s.accessor == nil {
			continue
		}

		var tokens []string
		if restricted != nil && restricted.Accessibility == s.info.Accessibility {
			tokens = append(tokens, s.info.Accessibility.Keyword())
		}
		extra := s.info.Modifiers.Minus(member)
		tokens = append(tokens, extra.Keywords()...)

		keyword := s.keyword
		if extra.Has(types.ModifierInitOnly) {
			keyword = "init"
		}
		tokens = append(tokens, keyword+";")

		if multiline {
			attrs, err := attributeLines(s.accessor.Annotations, "")
			if err != nil {
				return "", err
			}
			returnAttrs, err := attributeLines(s.accessor.ReturnAnnotations, "return: ")
			if err != nil {
				return "", err
			}
			for _, a := range append(attrs, returnAttrs...) {
				lines = append(lines, indent+a)
			}
			lines = append(lines, indent+strings.Join(tokens, " "))
		} else {
			lines = append(lines, strings.Join(tokens, " "))
		}
	}

	if len(lines) == 0 {
		return ";", nil
	}
	if multiline {
		return "\n{\n" + strings.Join(lines, "\n") + "\n}", nil
	}
	return " { " + strings.Join(lines, " ") + " }", nil
}

// hasVisibleAnnotations ignores compiler-emitted attributes such as the
// CompilerGenerated marker every auto-property accessor carries.
func hasVisibleAnnotations(a *types.Accessor) bool {
	if a == nil {
		return false
	}
	return len(visibleAnnotations(a.Annotations)) > 0 || len(visibleAnnotations(a.ReturnAnnotations)) > 0
}
