package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"unicode"

	toml "github.com/pelletier/go-toml"
	yaml "gopkg.in/yaml.v3"

	"github.com/commschamp/commsdslgen/internal/configpaths"
	"github.com/commschamp/commsdslgen/internal/log"
)

// ConfigCommand groups config-related subcommands.
type ConfigCommand struct {
	Init ConfigInit `cmd:"" help:"Generate a configuration template"`
}

// ConfigInit scaffolds a configuration file for a specific command.
type ConfigInit struct {
	Command string `arg:"" name:"command" help:"Command to generate config for" enum:"generate,check"`
	Format  string `help:"Output format" enum:"json,yaml,toml" default:"json"`
	Output  string `help:"Destination file path (defaults to <command>.<format> in the current directory)"`
	Force   bool   `help:"Overwrite if the file already exists"`
}

// Run generates a configuration template dynamically via reflection of the command structs and tags.
func (c *ConfigInit) Run() error {
	format := normalizeFormat(c.Format)
	if format == "" {
		return fmt.Errorf("unsupported format: %s", c.Format)
	}

	root, err := configTemplate(c.Command)
	if err != nil {
		return err
	}

	dest := c.Output
	if dest == "" {
		dest = c.Command + "." + configpaths.Extension(format)
	}

	if !c.Force {
		if _, err := os.Stat(dest); err == nil {
			return errors.New("destination exists; use --force to overwrite")
		}
	}
	if err := configpaths.EnsureDir(dest); err != nil {
		return err
	}

	var data []byte
	switch format {
	case "json":
		data, err = json.MarshalIndent(root, "", "  ")
	case "yaml":
		data, err = yaml.Marshal(root)
	case "toml":
		data, err = toml.Marshal(root)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(dest, data, 0o644)
}

func configTemplate(command string) (map[string]any, error) {
	var root map[string]any
	switch command {
	case "generate":
		root = buildMapFromStruct(reflect.TypeOf(Generate{}))
	case "check":
		root = buildMapFromStruct(reflect.TypeOf(Check{}))
	default:
		return nil, errors.New("unknown command; expected 'generate' or 'check'")
	}
	root["log"] = buildMapFromStruct(reflect.TypeOf(log.Options{}))
	return root, nil
}

func normalizeFormat(f string) string {
	switch strings.ToLower(f) {
	case "json":
		return "json"
	case "yaml", "yml":
		return "yaml"
	case "toml":
		return "toml"
	default:
		return ""
	}
}

// configKey converts a Go field name to the snake_case key the kong
// config resolvers look up for the matching kebab-case flag.
func configKey(f reflect.StructField) string {
	if name := f.Tag.Get("name"); name != "" {
		return strings.ReplaceAll(name, "-", "_")
	}
	r := []rune(f.Name)
	var b strings.Builder
	for i, c := range r {
		if unicode.IsUpper(c) {
			prevLower := i > 0 && !unicode.IsUpper(r[i-1])
			nextLower := i > 0 && i+1 < len(r) && unicode.IsLower(r[i+1])
			if prevLower || nextLower {
				b.WriteByte('_')
			}
		}
		b.WriteRune(unicode.ToLower(c))
	}
	return b.String()
}

func buildMapFromStruct(t reflect.Type) map[string]any {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	out := map[string]any{}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		if f.Tag.Get("kong") == "-" {
			continue
		}
		// Positional arguments are not read from config files.
		if _, ok := f.Tag.Lookup("arg"); ok {
			continue
		}

		if _, ok := f.Tag.Lookup("embed"); ok {
			prefix := f.Tag.Get("prefix")
			name := strings.TrimSuffix(prefix, ".")
			sub := buildMapFromStruct(f.Type)
			if name != "" {
				out[name] = sub
			} else {
				for k, v := range sub {
					out[k] = v
				}
			}
			continue
		}

		val := defaultValueForField(f.Type, f.Tag.Get("default"), f.Tag.Get("sep"))
		if val != nil {
			out[configKey(f)] = val
		}
	}
	return out
}

func defaultValueForField(t reflect.Type, def, sep string) any {
	if t.Kind() == reflect.Pointer {
		// Unset pointers mean "not given"; a template value would change behaviour.
		if def == "" {
			return nil
		}
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return def // may be empty
	case reflect.Bool:
		if def == "" {
			return false
		}
		b, err := strconv.ParseBool(def)
		if err != nil {
			return false
		}
		return b
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if def == "" {
			return 0
		}
		n, err := strconv.ParseInt(def, 10, 64)
		if err != nil {
			return 0
		}
		return n
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if def == "" {
			return 0
		}
		n, err := strconv.ParseUint(def, 10, 64)
		if err != nil {
			return 0
		}
		return n
	case reflect.Slice:
		if t.Elem().Kind() != reflect.String {
			return nil
		}
		if def == "" {
			return []string{}
		}
		if sep == "" {
			sep = ","
		}
		return strings.Split(def, sep)
	case reflect.Struct:
		return buildMapFromStruct(t)
	default:
		return nil
	}
}
