package cmd_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/commschamp/commsdslgen/internal/cmd"
	"github.com/commschamp/commsdslgen/internal/log"
)

// fields come last so tests can append more field entries.
const demoSchema = `name: demo
version: 1
dsl_version: 7
endian: big

messages:
  - name: Ping
    id: 1
    fields:
      - name: counter
        ref: Counter

fields:
  - kind: int
    name: Counter
    type: uint16
`

const lengthField = `  - kind: bundle
    name: Len
    semantic_type: length
    force_gen: true
    members:
      - kind: int
        name: Value
        type: uint16
`

func writeSchema(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "demo.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newLogger() (*slog.Logger, *log.WarnCounter) {
	counter := log.NewWarnCounter(slog.NewTextHandler(io.Discard, nil))
	return slog.New(counter), counter
}

func TestGenerateRun(t *testing.T) {
	schema := writeSchema(t, demoSchema)
	out := t.TempDir()
	var emitted bytes.Buffer

	c := &cmd.Generate{
		Schemas:   []string{schema},
		OutputDir: out,
		GenFlags:  cmd.GenFlags{Lang: []string{"comms", "latex"}},
	}
	logger, warns := newLogger()
	require.NoError(t, c.Run(logger, warns, log.NewEmit(&emitted)))

	assert.FileExists(t, filepath.Join(out, "comms", "include", "demo", "message", "Ping.h"))
	assert.FileExists(t, filepath.Join(out, "latex", "demo.tex"))
	assert.NoDirExists(t, filepath.Join(out, "c"))
	assert.Contains(t, emitted.String(), "Ping.h")
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name    string
		schema  string
		flags   cmd.GenFlags
		wantErr string
	}{
		{
			name:    "unknown language",
			schema:  demoSchema,
			flags:   cmd.GenFlags{Lang: []string{"comms", "pascal"}},
			wantErr: "unsupported language 'pascal'",
		},
		{
			name:    "warning as error",
			schema:  demoSchema + lengthField,
			flags:   cmd.GenFlags{Lang: []string{"comms"}, WarnAsErr: true},
			wantErr: "Warning treated as error",
		},
		{
			name:    "forced version too big",
			schema:  demoSchema,
			flags:   cmd.GenFlags{Lang: []string{"comms"}, ForceVer: func() *uint { v := uint(3); return &v }()},
			wantErr: "Cannot force version to be greater than 1",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &cmd.Generate{
				Schemas:   []string{writeSchema(t, tt.schema)},
				OutputDir: t.TempDir(),
				GenFlags:  tt.flags,
			}
			logger, warns := newLogger()
			err := c.Run(logger, warns, log.NewEmit(nil))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGenerateWarningsAllowed(t *testing.T) {
	c := &cmd.Generate{
		Schemas:   []string{writeSchema(t, demoSchema+lengthField)},
		OutputDir: t.TempDir(),
		GenFlags:  cmd.GenFlags{Lang: []string{"comms"}},
	}
	logger, warns := newLogger()
	require.NoError(t, c.Run(logger, warns, log.NewEmit(nil)))
	assert.Positive(t, warns.Count())
}

func TestCheck(t *testing.T) {
	schema := writeSchema(t, demoSchema)
	out := t.TempDir()
	flags := cmd.GenFlags{Lang: []string{"comms"}}

	logger, warns := newLogger()
	gen := &cmd.Generate{Schemas: []string{schema}, OutputDir: out, GenFlags: flags}
	require.NoError(t, gen.Run(logger, warns, log.NewEmit(nil)))

	check := func() (string, error) {
		var stdout bytes.Buffer
		c := &cmd.Check{
			Schemas:   []string{schema},
			OutputDir: out,
			Context:   3,
			GenFlags:  flags,
			Stdout:    &stdout,
		}
		err := c.Run(logger, warns)
		return stdout.String(), err
	}

	t.Run("up to date", func(t *testing.T) {
		diff, err := check()
		require.NoError(t, err)
		assert.Empty(t, diff)
	})

	t.Run("modified file", func(t *testing.T) {
		path := filepath.Join(out, "comms", "include", "demo", "Version.h")
		orig, err := os.ReadFile(path)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(path, append(orig, []byte("// local edit\n")...), 0o644))
		t.Cleanup(func() { _ = os.WriteFile(path, orig, 0o644) })

		diff, err := check()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "1 generated file(s) out of date")
		assert.Contains(t, diff, "--- a/comms/include/demo/Version.h")
		assert.Contains(t, diff, "-// local edit")
		assert.NotContains(t, diff, "\x1b[")
	})

	t.Run("missing file", func(t *testing.T) {
		path := filepath.Join(out, "comms", "include", "demo", "MsgId.h")
		orig, err := os.ReadFile(path)
		require.NoError(t, err)
		require.NoError(t, os.Remove(path))
		t.Cleanup(func() { _ = os.WriteFile(path, orig, 0o644) })

		diff, err := check()
		require.Error(t, err)
		assert.Contains(t, diff, "missing: comms/include/demo/MsgId.h")
	})
}

func TestConfigInit(t *testing.T) {
	tests := []struct {
		format string
		decode func([]byte, any) error
	}{
		{format: "json", decode: json.Unmarshal},
		{format: "yaml", decode: yaml.Unmarshal},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			dest := filepath.Join(t.TempDir(), "nested", "generate."+tt.format)
			c := &cmd.ConfigInit{Command: "generate", Format: tt.format, Output: dest}
			require.NoError(t, c.Run())

			data, err := os.ReadFile(dest)
			require.NoError(t, err)
			var got map[string]any
			require.NoError(t, tt.decode(data, &got))

			assert.Equal(t, ".", got["output_dir"])
			assert.Equal(t, false, got["no_manifest"])
			assert.Equal(t, false, got["warn_as_err"])
			assert.NotContains(t, got, "force_ver")
			assert.NotContains(t, got, "schema")
			assert.Equal(t, []any{"all"}, got["lang"])
			logCfg, ok := got["log"].(map[string]any)
			require.True(t, ok)
			assert.Equal(t, "info", logCfg["level"])
			assert.Contains(t, logCfg, "emit_file")

			// refuses to overwrite without --force
			require.Error(t, c.Run())
			c.Force = true
			require.NoError(t, c.Run())
		})
	}
}

func TestConfigInitToml(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "check.toml")
	c := &cmd.ConfigInit{Command: "check", Format: "toml", Output: dest}
	require.NoError(t, c.Run())

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Contains(t, string(data), "context = 3")
	assert.Contains(t, string(data), "[log]")
	assert.NotContains(t, string(data), "stdout")
}

func TestConfigInitUnknownFormat(t *testing.T) {
	c := &cmd.ConfigInit{Command: "generate", Format: "ini", Output: filepath.Join(t.TempDir(), "x.ini")}
	require.Error(t, c.Run())
}
