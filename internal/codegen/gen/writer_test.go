package gen_test

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/blake2b"

	"github.com/commschamp/commsdslgen/internal/codegen/gen"
	htesting "github.com/commschamp/commsdslgen/internal/testing"
)

func TestWriterManifest(t *testing.T) {
	root := t.TempDir()
	w := gen.NewWriter(htesting.DiscardLogger(), root)

	var emitted []string
	w.OnEmit(func(path string, data []byte, digest string) {
		emitted = append(emitted, path)
	})

	require.NoError(t, w.WriteString("include/demo/field/B.h", "b"))
	require.NoError(t, w.WriteString("include/demo/field/A.h", "a"))
	require.NoError(t, w.WriteManifest())
	require.NoError(t, w.Err())

	data, err := os.ReadFile(filepath.Join(root, "include", "demo", "field", "A.h"))
	require.NoError(t, err)
	assert.Equal(t, "a", string(data))

	sumA := blake2b.Sum256([]byte("a"))
	sumB := blake2b.Sum256([]byte("b"))
	expected := hex.EncodeToString(sumA[:]) + "  include/demo/field/A.h\n" +
		hex.EncodeToString(sumB[:]) + "  include/demo/field/B.h\n"

	manifest, err := os.ReadFile(filepath.Join(root, gen.ManifestName))
	require.NoError(t, err)
	assert.Equal(t, expected, string(manifest))
	assert.Equal(t, []string{"include/demo/field/A.h", "include/demo/field/B.h"}, w.Files())
	assert.Len(t, emitted, 2)
}

func TestWriterContinuesAfterFailure(t *testing.T) {
	root := t.TempDir()
	// A regular file where a directory is expected.
	require.NoError(t, os.WriteFile(filepath.Join(root, "blocked"), nil, 0o644))

	w := gen.NewWriter(htesting.DiscardLogger(), root)
	assert.Error(t, w.WriteString("blocked/X.h", "x"))
	assert.NoError(t, w.WriteString("ok/Y.h", "y"))

	err := w.Err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write ")
	assert.Equal(t, []string{"ok/Y.h"}, w.Files())
}

func TestReadInjection(t *testing.T) {
	codeDir := t.TempDir()
	path := gen.InjectionPath(codeDir, "demo/field/Length.h", gen.InjectValue)
	assert.Equal(t, filepath.Join(codeDir, "include", "demo", "field", "Length.value"), path)

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("return 5;\n"), 0o644))

	code, err := gen.ReadInjection(codeDir, "demo/field/Length.h", gen.InjectValue)
	require.NoError(t, err)
	assert.Equal(t, "return 5;\n", code)
	assert.True(t, gen.HasInjection(codeDir, "demo/field/Length.h", gen.InjectValue))

	code, err = gen.ReadInjection(codeDir, "demo/field/Length.h", gen.InjectRead)
	require.NoError(t, err)
	assert.Empty(t, code)
	assert.False(t, gen.HasInjection(codeDir, "demo/field/Length.h", gen.InjectRead))

	code, err = gen.ReadInjection("", "demo/field/Length.h", gen.InjectValue)
	require.NoError(t, err)
	assert.Empty(t, code)
}
