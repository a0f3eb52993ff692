package configpaths

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const (
	appName = "commsdslgen"

	// EnvConfig names a config file when --config is not given.
	EnvConfig = "COMMSDSLGEN_CONFIG"
)

// configBases are the file names, without extension, looked up in every
// candidate directory.
var configBases = []string{appName, "config", "generate"}

// DefaultConfigDir returns the platform-specific configuration directory.
func DefaultConfigDir() (string, error) {
	switch runtime.GOOS {
	case "windows":
		if appdata := os.Getenv("AppData"); appdata != "" {
			return filepath.Join(appdata, appName), nil
		}
		return "", errors.New("AppData not set")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, appName), nil
		}
		if home := os.Getenv("HOME"); home != "" {
			return filepath.Join(home, ".config", appName), nil
		}
		return "", errors.New("HOME not set")
	}
}

// DefaultNamedConfigPath returns the default config file path for the given format and base name (e.g., "generate").
func DefaultNamedConfigPath(baseName, format string) (string, error) {
	dir, err := DefaultConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, baseName+"."+Extension(format)), nil
}

// Extension maps a config format name to its file extension; unknown
// formats fall back to json.
func Extension(format string) string {
	switch strings.ToLower(format) {
	case "yaml", "yml":
		return "yaml"
	case "toml":
		return "toml"
	default:
		return "json"
	}
}

// EnsureDir ensures the directory for a given file path exists.
func EnsureDir(filePath string) error {
	dir := filepath.Dir(filePath)
	return os.MkdirAll(dir, 0o755)
}

// FindUserConfig returns the config file named on the command line with
// --config, falling back to the COMMSDSLGEN_CONFIG environment variable.
func FindUserConfig(args []string) string {
	for i := 0; i < len(args); i++ {
		a := args[i]
		if strings.HasPrefix(a, "--config=") {
			return a[len("--config="):]
		}
		if a == "--config" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return os.Getenv(EnvConfig)
}

// ConfigCandidatePaths builds candidate paths for config files per format.
// If userPath is provided, it is prioritized and routed to the matching loader by extension.
func ConfigCandidatePaths(userPath string) (jsonPaths, yamlPaths, tomlPaths []string) {
	add := func(slice *[]string, p string) { *slice = append(*slice, p) }
	addDir := func(dir string) {
		for _, base := range configBases {
			add(&jsonPaths, filepath.Join(dir, base+".json"))
			add(&yamlPaths, filepath.Join(dir, base+".yaml"))
			add(&yamlPaths, filepath.Join(dir, base+".yml"))
			add(&tomlPaths, filepath.Join(dir, base+".toml"))
		}
	}

	if userPath != "" {
		switch ext := filepath.Ext(userPath); ext {
		case ".json":
			add(&jsonPaths, userPath)
		case ".yaml", ".yml":
			add(&yamlPaths, userPath)
		case ".toml":
			add(&tomlPaths, userPath)
		default:
			add(&jsonPaths, userPath)
		}
	}

	// Working directory candidates
	if wd, err := os.Getwd(); err == nil {
		addDir(wd)
	}

	// Config home
	if dir, err := DefaultConfigDir(); err == nil {
		addDir(dir)
	}

	// System-wide (unix)
	if runtime.GOOS != "windows" {
		addDir(filepath.Join("/etc", appName))
	}

	return
}
