package configpaths_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/commschamp/commsdslgen/internal/configpaths"
)

func TestFindUserConfig(t *testing.T) {
	tests := []struct {
		name string
		args []string
		env  string
		want string
	}{
		{name: "equals form", args: []string{"generate", "--config=a.yaml"}, want: "a.yaml"},
		{name: "separate value", args: []string{"--config", "b.toml", "generate"}, want: "b.toml"},
		{name: "flag wins over env", args: []string{"--config=c.json"}, env: "env.json", want: "c.json"},
		{name: "env fallback", args: []string{"generate"}, env: "env.json", want: "env.json"},
		{name: "dangling flag", args: []string{"--config"}, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(configpaths.EnvConfig, tt.env)
			assert.Equal(t, tt.want, configpaths.FindUserConfig(tt.args))
		})
	}
}

func TestConfigCandidatePaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	jsonPaths, yamlPaths, tomlPaths := configpaths.ConfigCandidatePaths("custom.yml")
	assert.Equal(t, "custom.yml", yamlPaths[0])
	assert.NotContains(t, jsonPaths, "custom.yml")

	dir, err := configpaths.DefaultConfigDir()
	assert.NoError(t, err)
	assert.Contains(t, tomlPaths, filepath.Join(dir, "commsdslgen.toml"))
	assert.Contains(t, jsonPaths, filepath.Join(dir, "generate.json"))
}

func TestExtension(t *testing.T) {
	assert.Equal(t, "yaml", configpaths.Extension("yml"))
	assert.Equal(t, "toml", configpaths.Extension("TOML"))
	assert.Equal(t, "json", configpaths.Extension("other"))
}
