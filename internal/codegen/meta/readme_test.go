package meta_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commschamp/commsdslgen/dsl"
	"github.com/commschamp/commsdslgen/internal/codegen/gen"
	"github.com/commschamp/commsdslgen/internal/codegen/meta"
	htesting "github.com/commschamp/commsdslgen/internal/testing"
)

func TestGenerateReadme(t *testing.T) {
	doc := htesting.Schema("tiny_proto", htesting.Namespace("", htesting.Message("Ping", 1)))
	doc.Version = 4
	doc.Description = "Demo protocol."
	g := htesting.Generator(t, gen.Options{}, doc)

	out := t.TempDir()
	w := gen.NewWriter(htesting.DiscardLogger(), out)
	require.NoError(t, meta.GenerateReadme(w, g, "C", "1.2.3", []string{"include/tiny_proto_c/", "src/"}))
	require.NoError(t, w.Err())

	data, err := os.ReadFile(filepath.Join(out, "README.md"))
	require.NoError(t, err)
	readme := string(data)

	assert.Contains(t, readme, "# TinyProto C\n")
	assert.Contains(t, readme, "generated by commsdslgen v1.2.3")
	assert.Contains(t, readme, `"tiny_proto" protocol schema (version 4)`)
	assert.Contains(t, readme, "Demo protocol.")
	assert.Contains(t, readme, "- include/tiny_proto_c/\n- src/\n")
	assert.NotContains(t, readme, "#^#")
	assert.Equal(t, []string{"README.md"}, w.Files())
}

func TestGenerateReadmeWithoutContents(t *testing.T) {
	g := htesting.Generator(t, gen.Options{}, htesting.Schema("demo", htesting.Namespace("", htesting.Int("F", dsl.Uint8))))

	out := t.TempDir()
	w := gen.NewWriter(htesting.DiscardLogger(), out)
	require.NoError(t, meta.GenerateReadme(w, g, "LaTeX", "0.0.1-dev", nil))

	data, err := os.ReadFile(filepath.Join(out, "README.md"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Demo LaTeX\n")
	assert.Contains(t, string(data), "## Contents\n")
}
