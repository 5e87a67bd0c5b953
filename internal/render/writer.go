package render

import (
	"fmt"
	"strings"

	"github.com/dshills/csdocs/internal/canon"
	"github.com/dshills/csdocs/internal/classify"
	"github.com/dshills/csdocs/pkg/types"
)

const indent = "    "

const nullableAttribute = "System.Runtime.CompilerServices.NullableAttribute"

// hiddenAnnotations are compiler-emitted attributes that encode language
// features already expressed by the rendered syntax.
var hiddenAnnotations = map[string]struct{}{
	nullableAttribute: {},
	"System.Runtime.CompilerServices.NullableContextAttribute":    {},
	"System.Runtime.CompilerServices.NullablePublicOnlyAttribute": {},
	"System.Runtime.CompilerServices.CompilerGeneratedAttribute":  {},
	"System.Runtime.CompilerServices.IsReadOnlyAttribute":         {},
	"System.Runtime.CompilerServices.IsByRefLikeAttribute":        {},
	"System.Runtime.CompilerServices.IsUnmanagedAttribute":        {},
	"System.Runtime.CompilerServices.ExtensionAttribute":          {},
	"System.Runtime.CompilerServices.FixedBufferAttribute":        {},
	"System.Runtime.CompilerServices.DecimalConstantAttribute":    {},
	"System.ParamArrayAttribute":                                  {},
	"System.Runtime.InteropServices.OptionalAttribute":            {},
	"System.Runtime.InteropServices.InAttribute":                  {},
	"System.Runtime.InteropServices.OutAttribute":                 {},
}

// visibleAnnotations drops compiler-emitted attributes
func visibleAnnotations(anns []types.Annotation) []types.Annotation {
	var out []types.Annotation
	for _, a := range anns {
		if _, hidden := hiddenAnnotations[a.Name]; hidden {
			continue
		}
		out = append(out, a)
	}
	return out
}

// isNullable reports whether the annotations mark the annotated type as a
// nullable reference type.
func isNullable(anns []types.Annotation) bool {
	for _, a := range anns {
		if a.Name == nullableAttribute && len(a.Args) > 0 && a.Args[0].Value == "2" {
			return true
		}
	}
	return false
}

// attribute renders one annotation without brackets
func attribute(a types.Annotation) (string, error) {
	name := strings.TrimSuffix(types.StripArity(a.Name), "Attribute")
	if len(a.Args) == 0 && len(a.Named) == 0 {
		return name, nil
	}

	args := make([]string, 0, len(a.Args)+len(a.Named))
	for i := range a.Args {
		text, err := Literal(&a.Args[i])
		if err != nil {
			return "", fmt.Errorf("attribute %s argument %d: %w", a.Name, i, err)
		}
		args = append(args, text)
	}
	for i := range a.Named {
		text, err := Literal(&a.Named[i].Value)
		if err != nil {
			return "", fmt.Errorf("attribute %s argument %s: %w", a.Name, a.Named[i].Name, err)
		}
		args = append(args, a.Named[i].Name+" = "+text)
	}
	return name + "(" + strings.Join(args, ", ") + ")", nil
}

// attributeLines renders each visible annotation on its own line
func attributeLines(anns []types.Annotation, target string) ([]string, error) {
	var lines []string
	for _, a := range visibleAnnotations(anns) {
		text, err := attribute(a)
		if err != nil {
			return nil, err
		}
		lines = append(lines, "["+target+text+"]")
	}
	return lines, nil
}

// declaration accumulates the pieces of a rendered declaration
type declaration struct {
	lines  []string
	tokens []string
	suffix strings.Builder
}

func (d *declaration) attributes(anns []types.Annotation) error {
	lines, err := attributeLines(anns, "")
	if err != nil {
		return err
	}
	d.lines = append(d.lines, lines...)
	return nil
}

func (d *declaration) returnAttributes(anns []types.Annotation) error {
	lines, err := attributeLines(anns, "return: ")
	if err != nil {
		return err
	}
	d.lines = append(d.lines, lines...)
	return nil
}

func (d *declaration) token(tokens ...string) {
	for _, t := range tokens {
		if t != "" {
			d.tokens = append(d.tokens, t)
		}
	}
}

// classification writes the accessibility keyword and modifier keywords
func (d *declaration) classification(c classify.Classification) {
	d.token(c.Accessibility.Keyword())
	d.token(c.Modifiers.Keywords()...)
}

func (d *declaration) refKind(k types.RefKind) {
	switch k {
	case types.RefReturn:
		d.token("ref")
	case types.RefReadonly:
		d.token("ref", "readonly")
	}
}

func (d *declaration) String() string {
	var sb strings.Builder
	for _, line := range d.lines {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	sb.WriteString(strings.Join(d.tokens, " "))
	sb.WriteString(d.suffix.String())
	return sb.String()
}

// genericList renders "<T, in U, out V>"
func genericList(params []types.GenericParameter) string {
	if len(params) == 0 {
		return ""
	}

	parts := make([]string, len(params))
	for i, gp := range params {
		if gp.Variance != types.VarianceNone {
			parts[i] = string(gp.Variance) + " " + gp.Name
		} else {
			parts[i] = gp.Name
		}
	}
	return "<" + strings.Join(parts, ", ") + ">"
}

// parameterList renders the parameters without the enclosing brackets
func parameterList(params []types.Parameter) (string, error) {
	parts := make([]string, len(params))
	for i := range params {
		text, err := parameter(&params[i])
		if err != nil {
			return "", fmt.Errorf("parameter %d: %w", i, err)
		}
		parts[i] = text
	}
	return strings.Join(parts, ", "), nil
}

func parameter(p *types.Parameter) (string, error) {
	var tokens []string

	for _, a := range visibleAnnotations(p.Annotations) {
		text, err := attribute(a)
		if err != nil {
			return "", err
		}
		tokens = append(tokens, "["+text+"]")
	}

	if p.This {
		tokens = append(tokens, "this")
	}
	if p.Params {
		tokens = append(tokens, "params")
	}

	switch {
	case p.Direction != types.DirectionNone:
		tokens = append(tokens, string(p.Direction))
	case p.Type.IsByRef():
		tokens = append(tokens, "ref")
	}

	tokens = append(tokens, canon.TypeName(p.Type, isNullable(p.Annotations), false))
	if p.Name != "" {
		tokens = append(tokens, canon.EscapeIdentifier(p.Name))
	}

	if p.Default != nil {
		text, err := Literal(p.Default)
		if err != nil {
			return "", fmt.Errorf("default value of %s: %w", p.Name, err)
		}
		tokens = append(tokens, "=", text)
	}
	return strings.Join(tokens, " "), nil
}

// typeName renders a declared type honoring nullable annotations
func typeName(t *types.TypeRef, anns []types.Annotation) string {
	if t == nil {
		return "void"
	}
	return canon.TypeName(t, isNullable(anns), false)
}
