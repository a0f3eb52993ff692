package generator_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commschamp/commsdslgen/dsl"
	"github.com/commschamp/commsdslgen/internal/codegen/gen"
	"github.com/commschamp/commsdslgen/internal/codegen/generator"
	htesting "github.com/commschamp/commsdslgen/internal/testing"
)

func demoSchemas() []*dsl.Schema {
	return []*dsl.Schema{htesting.Schema("demo", htesting.Namespace("",
		htesting.Int("Counter", dsl.Uint16),
		htesting.Message("Ping", 1, htesting.Ref("Counter")),
	))}
}

func TestLanguages(t *testing.T) {
	assert.Equal(t, []string{"c", "comms", "latex"}, generator.Languages())
}

func TestGenAll(t *testing.T) {
	out := t.TempDir()
	g := generator.New(out, htesting.DiscardLogger(), generator.Options{Version: "1.0.0"})
	require.NoError(t, g.GenAll(demoSchemas()))

	for _, rel := range []string{
		"comms/include/demo/message/Ping.h",
		"comms/" + gen.ManifestName,
		"c/include/demo_c/message/Ping.h",
		"c/" + gen.ManifestName,
		"latex/demo.tex",
		"latex/" + gen.ManifestName,
	} {
		assert.FileExists(t, filepath.Join(out, filepath.FromSlash(rel)))
	}
}

func TestGenerateOptions(t *testing.T) {
	tests := []struct {
		name     string
		langs    []string
		opts     generator.Options
		wantErr  string
		manifest bool
	}{
		{name: "single language", langs: []string{"comms"}, manifest: true},
		{name: "no manifest", langs: []string{"latex"}, opts: generator.Options{NoManifest: true}},
		{name: "unknown language", langs: []string{"comms", "pascal"}, wantErr: "unsupported language 'pascal'"},
		{
			name:    "forced version too big",
			langs:   []string{"comms"},
			opts:    generator.Options{Graph: gen.Options{ForcedSchemaVersion: func() *uint { v := uint(7); return &v }()}},
			wantErr: "Cannot force version",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := t.TempDir()
			err := generator.New(out, htesting.DiscardLogger(), tt.opts).Generate(tt.langs, demoSchemas())
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)

			_, statErr := os.Stat(filepath.Join(out, tt.langs[0], gen.ManifestName))
			assert.Equal(t, tt.manifest, statErr == nil)
		})
	}
}

func TestEmitHook(t *testing.T) {
	var mu sync.Mutex
	emitted := map[string]string{}
	hook := func(path string, data []byte, digest string) {
		mu.Lock()
		defer mu.Unlock()
		emitted[path] = digest
	}

	out := t.TempDir()
	g := generator.New(out, htesting.DiscardLogger(), generator.Options{EmitHook: hook})
	require.NoError(t, g.Generate([]string{"comms"}, demoSchemas()))

	path := filepath.Join(out, "comms", "include", "demo", "MsgId.h")
	require.Contains(t, emitted, path)
	assert.Len(t, emitted[path], 64)
}

func TestUnwritableOutput(t *testing.T) {
	out := t.TempDir()
	blocker := filepath.Join(out, "comms")
	require.NoError(t, os.WriteFile(blocker, []byte("not a dir"), 0o644))

	err := generator.New(out, htesting.DiscardLogger(), generator.Options{}).Generate([]string{"comms"}, demoSchemas())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write ")
}
