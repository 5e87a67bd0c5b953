package canon

var reserved = map[string]struct{}{}

func init() {
	for _, kw := range []string{
		"abstract", "as", "base", "bool", "break", "byte", "case", "catch", "char", "checked",
		"class", "const", "continue", "decimal", "default", "delegate", "do", "double", "else",
		"enum", "event", "explicit", "extern", "false", "finally", "fixed", "float", "for",
		"foreach", "goto", "if", "implicit", "in", "int", "interface", "internal", "is", "lock",
		"long", "namespace", "new", "null", "object", "operator", "out", "override", "params",
		"private", "protected", "public", "readonly", "ref", "return", "sbyte", "sealed",
		"short", "sizeof", "stackalloc", "static", "string", "struct", "switch", "this",
		"throw", "true", "try", "typeof", "uint", "ulong", "unchecked", "unsafe", "ushort",
		"using", "virtual", "void", "volatile", "while",
	} {
		reserved[kw] = struct{}{}
	}
}

// IsKeyword reports whether name is a reserved C# keyword
func IsKeyword(name string) bool {
	_, ok := reserved[name]
	return ok
}

// EscapeIdentifier prefixes reserved keywords with the verbatim marker '@'
func EscapeIdentifier(name string) string {
	if IsKeyword(name) {
		return "@" + name
	}
	return name
}
