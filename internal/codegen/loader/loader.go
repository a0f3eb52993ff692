// Package loader reads protocol schema files into dsl object trees.
//
// Schemas may be written in YAML, JSON, TOML or HCL. All formats share the
// same property names; the format is picked from the file extension.
package loader

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"

	"github.com/commschamp/commsdslgen/dsl"
)

var ErrUnsupportedFormat = errors.New("unsupported schema format")

type Format int

const (
	FormatYAML Format = iota
	FormatJSON
	FormatTOML
	FormatHCL
)

func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatJSON:
		return "json"
	case FormatTOML:
		return "toml"
	case FormatHCL:
		return "hcl"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

var extFormats = map[string]Format{
	".yaml": FormatYAML,
	".yml":  FormatYAML,
	".json": FormatJSON,
	".toml": FormatTOML,
	".hcl":  FormatHCL,
}

// FormatFromPath picks the schema format from the file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if f, ok := extFormats[ext]; ok {
		return f, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

// Load decodes one schema source. YAML, JSON and TOML sources hold exactly
// one schema; HCL sources may declare several schema blocks.
func Load(data []byte, format Format, filename string) ([]*dsl.Schema, error) {
	var docs []*schemaDoc
	switch format {
	case FormatYAML:
		doc := &schemaDoc{}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(doc); err != nil {
			return nil, fmt.Errorf("failed to decode YAML file %s: %w", filename, err)
		}
		docs = append(docs, doc)
	case FormatJSON:
		doc := &schemaDoc{}
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		dec.UseNumber()
		if err := dec.Decode(doc); err != nil {
			return nil, fmt.Errorf("failed to decode JSON file %s: %w", filename, err)
		}
		docs = append(docs, doc)
	case FormatTOML:
		doc := &schemaDoc{}
		if err := toml.Unmarshal(data, doc); err != nil {
			return nil, fmt.Errorf("failed to decode TOML file %s: %w", filename, err)
		}
		docs = append(docs, doc)
	case FormatHCL:
		var err error
		if docs, err = decodeHCL(data, filename); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	var schemas []*dsl.Schema
	for _, doc := range docs {
		s, err := doc.toDsl()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
		schemas = append(schemas, s)
	}
	return schemas, nil
}

func LoadFile(path string) ([]*dsl.Schema, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Load(data, format, path)
}

// LoadFiles loads every given file. Directories are walked for files with
// a supported extension, in lexical order.
func LoadFiles(logger *slog.Logger, paths ...string) ([]*dsl.Schema, error) {
	files, err := findSchemaFiles(paths)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no schema files found in %s", strings.Join(paths, ", "))
	}
	logger.Debug("Discovered schema files", "count", len(files))

	var schemas []*dsl.Schema
	for _, f := range files {
		loaded, err := LoadFile(f)
		if err != nil {
			return nil, err
		}
		logger.Debug("Loaded schema file", "file", f, "schemas", len(loaded))
		schemas = append(schemas, loaded...)
	}
	return schemas, nil
}

func findSchemaFiles(paths []string) ([]string, error) {
	var files []string
	seen := make(map[string]struct{})
	add := func(p string) {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		files = append(files, p)
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}
		if !info.IsDir() {
			add(path)
			continue
		}

		var found []string
		err = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if _, err := FormatFromPath(p); err == nil {
				found = append(found, p)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		slices.Sort(found)
		for _, p := range found {
			add(p)
		}
	}
	return files, nil
}
