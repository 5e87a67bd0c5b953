package output

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/csdocs/pkg/types"
)

func samplePayload(t *testing.T) *types.Payload {
	t.Helper()
	rec := types.NewDeclarationRecord()
	rec.Title = "List<T>"
	rec.Declaration = "public class List<T>"
	rec.Id = "T:N.List`1"
	rec.Documentation = "<summary>A & B</summary>"

	child := types.NewDeclarationRecord()
	child.Kind = types.DeclarationMethod
	child.Title = "Add"
	child.Id = "M:N.List`1.Add(`0)"
	require.NoError(t, rec.AddChild(child))

	return &types.Payload{
		AssemblyFile: "Lib.dll",
		Declarations: map[string][]*types.DeclarationRecord{"N": {rec}},
	}
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, samplePayload(t)))

	out := buf.String()
	assert.Contains(t, out, `"Declaration": "public class List<T>"`)
	assert.Contains(t, out, `"Documentation": "<summary>A & B</summary>"`)
	assert.Contains(t, out, `"Kind": 2`)
	assert.Contains(t, out, `"Events": []`)
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Lib.json")
	require.NoError(t, WriteFile(path, samplePayload(t)))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	p, err := Read(f)
	require.NoError(t, err)
	assert.Equal(t, "Lib.dll", p.AssemblyFile)
	require.Len(t, p.Declarations["N"], 1)
	assert.Len(t, p.Declarations["N"][0].Methods, 1)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriteFileMissingDir(t *testing.T) {
	err := WriteFile(filepath.Join(t.TempDir(), "nope", "out.json"), samplePayload(t))
	assert.Error(t, err)
}
