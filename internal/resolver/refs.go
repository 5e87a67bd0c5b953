package resolver

import "regexp"

// crefPattern matches prefixed cross references such as cref="T:N.C"
var crefPattern = regexp.MustCompile(`cref\s*=\s*(?:"([A-Za-z]:[^"]+)"|'([A-Za-z]:[^']+)')`)

// FindReferences returns the distinct prefixed cref identifiers in a
// documentation fragment, in order of first appearance. Unprefixed crefs
// are left to the compiler and skipped.
func FindReferences(doc string) []string {
	var refs []string
	seen := make(map[string]bool)
	for _, m := range crefPattern.FindAllStringSubmatch(doc, -1) {
		id := m[1]
		if id == "" {
			id = m[2]
		}
		if !seen[id] {
			seen[id] = true
			refs = append(refs, id)
		}
	}
	return refs
}
