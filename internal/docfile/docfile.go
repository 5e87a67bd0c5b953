package docfile

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/dshills/csdocs/internal/resolver"
)

// File is a compiler-emitted XML documentation file
type File struct {
	Assembly string
	Members  []Member
}

// Member is the documentation of one identifier
type Member struct {
	Name string
	XML  string // inner XML of the <member> element
}

type xmlDoc struct {
	XMLName  xml.Name `xml:"doc"`
	Assembly string   `xml:"assembly>name"`
	Members  []struct {
		Name  string `xml:"name,attr"`
		Inner string `xml:",innerxml"`
	} `xml:"members>member"`
}

// Parse reads an XML documentation file
func Parse(r io.Reader) (*File, error) {
	var doc xmlDoc
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse documentation file: %w", err)
	}

	f := &File{Assembly: strings.TrimSpace(doc.Assembly)}
	for _, m := range doc.Members {
		if m.Name == "" {
			continue
		}
		f.Members = append(f.Members, Member{Name: m.Name, XML: dedent(m.Inner)})
	}
	return f, nil
}

// Load parses the documentation file at path
func Load(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open documentation file: %w", err)
	}
	defer fh.Close()
	return Parse(fh)
}

// Result summarizes an Apply call
type Result struct {
	Attached   int
	Unresolved []string
}

// Apply resolves every member name and sets the entity's documentation.
// Names that do not resolve are collected in the result.
func Apply(f *File, r *resolver.Resolver, logger *zap.Logger) *Result {
	if logger == nil {
		logger = zap.NewNop()
	}

	res := &Result{}
	for _, m := range f.Members {
		e, err := r.Resolve(m.Name)
		if err != nil {
			logger.Debug("unresolved documentation member", zap.String("name", m.Name), zap.Error(err))
			res.Unresolved = append(res.Unresolved, m.Name)
			continue
		}
		e.Documentation = m.XML
		res.Attached++
	}

	if len(res.Unresolved) > 0 {
		logger.Warn("documentation members did not resolve",
			zap.String("assembly", f.Assembly),
			zap.Int("count", len(res.Unresolved)))
	}
	return res
}

// dedent trims surrounding blank lines and the common leading indentation
func dedent(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}

	prefix := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		n := len(line) - len(strings.TrimLeft(line, " \t"))
		if prefix < 0 || n < prefix {
			prefix = n
		}
	}

	for i, line := range lines {
		if len(line) >= prefix && prefix > 0 {
			lines[i] = line[prefix:]
		} else {
			lines[i] = strings.TrimLeft(line, " \t")
		}
	}
	return strings.Join(lines, "\n")
}
