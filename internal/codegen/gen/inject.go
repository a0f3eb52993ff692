package gen

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Code injection file suffixes.
const (
	InjectExtend    = ".extend"
	InjectAppend    = ".append"
	InjectReplace   = ".replace"
	InjectValue     = ".value"
	InjectRead      = ".read"
	InjectWrite     = ".write"
	InjectRefresh   = ".refresh"
	InjectLength    = ".length"
	InjectValid     = ".valid"
	InjectName      = ".name"
	InjectInc       = ".inc"
	InjectPublic    = ".public"
	InjectProtected = ".protected"
	InjectPrivate   = ".private"
	InjectConstruct = ".construct"
)

// InjectionPath locates the injection file for a generated header.
func InjectionPath(codeDir, relHeader, suffix string) string {
	rel := strings.TrimSuffix(relHeader, ".h") + suffix
	return filepath.Join(codeDir, "include", filepath.FromSlash(rel))
}

// ReadInjection returns user supplied code for the header at relHeader. A
// missing file, or no code directory at all, yields an empty string.
func ReadInjection(codeDir, relHeader, suffix string) (string, error) {
	if codeDir == "" {
		return "", nil
	}
	path := InjectionPath(codeDir, relHeader, suffix)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read code injection %s: %w", path, err)
	}
	return string(data), nil
}

// HasInjection reports whether an injection file exists for relHeader.
func HasInjection(codeDir, relHeader, suffix string) bool {
	if codeDir == "" {
		return false
	}
	_, err := os.Stat(InjectionPath(codeDir, relHeader, suffix))
	return err == nil
}

func (g *Generator) ReadInjection(relHeader, suffix string) (string, error) {
	return ReadInjection(g.opts.CodeDir, relHeader, suffix)
}

func (g *Generator) HasInjection(relHeader, suffix string) bool {
	return HasInjection(g.opts.CodeDir, relHeader, suffix)
}
