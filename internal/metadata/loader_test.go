package metadata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/csdocs/pkg/types"
)

const jsonSnapshot = `{
  "scopes": [{
    "name": "Lib",
    "file": "Lib.dll",
    "types": [{
      "kind": "type",
      "name": "C",
      "namespace": "N",
      "visibility": "public",
      "type_keyword": "class",
      "documentation": "<summary>C</summary>",
      "members": [{
        "kind": "field",
        "name": "X",
        "visibility": "public",
        "flags": ["static", "init_only"],
        "type": {"name": "System.Int32"}
      }]
    }]
  }]
}`

const yamlSnapshot = `
scopes:
  - name: Lib
    file: Lib.dll
    types:
      - kind: type
        name: C
        namespace: N
        visibility: public
        type_keyword: class
        documentation: <summary>C</summary>
        members:
          - kind: field
            name: X
            visibility: public
            flags: [static, init_only]
            type:
              name: System.Int32
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFile(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"json", "model.json", jsonSnapshot},
		{"yaml", "model.yaml", yamlSnapshot},
		{"yml", "model.YML", yamlSnapshot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewLoader(nil).LoadFile(writeFile(t, tt.file, tt.content))
			require.NoError(t, err)

			c, ok := m.FindType("N.C")
			require.True(t, ok)
			assert.Equal(t, types.KeywordClass, c.TypeKeyword)
			assert.Equal(t, "<summary>C</summary>", c.Documentation)

			x := c.Member(types.EntityField, "X")
			require.NotNil(t, x)
			assert.True(t, x.Flags.Has(types.FlagStatic))
			assert.True(t, x.Flags.Has(types.FlagInitOnly))
			assert.Equal(t, "System.Int32", x.Type.Name)
			assert.Equal(t, "Lib.dll", m.AssemblyFile())
		})
	}
}

func TestLoadFileErrors(t *testing.T) {
	_, err := NewLoader(nil).LoadFile(writeFile(t, "model.txt", jsonSnapshot))
	assert.ErrorIs(t, err, ErrUnknownFormat)

	_, err = NewLoader(nil).LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = NewLoader(nil).LoadFile(writeFile(t, "bad.json", `{"scopes": [`))
	assert.Error(t, err)

	_, err = NewLoader(nil).LoadFile(writeFile(t, "unknown.json", `{"scopes": [], "extra": 1}`))
	assert.Error(t, err)

	_, err = NewLoader(nil).LoadFile(writeFile(t, "empty.json", `{"scopes": []}`))
	assert.ErrorIs(t, err, types.ErrNoScopes)
}
