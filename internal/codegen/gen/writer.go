package gen

import (
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// ManifestName is the file listing every generated path with its digest.
const ManifestName = ".commsdslgen.manifest"

// EmitHook is notified about every written file.
type EmitHook func(path string, data []byte, digest string)

// Writer writes generated files below a root directory and remembers what it
// wrote. A failed file does not stop later ones; the failures are reported
// by Err.
type Writer struct {
	logger  *slog.Logger
	root    string
	digests map[string]string
	errs    []error
	hook    EmitHook
}

func NewWriter(logger *slog.Logger, root string) *Writer {
	return &Writer{
		logger:  logger,
		root:    root,
		digests: make(map[string]string),
	}
}

// OnEmit installs a hook called after each successful write.
func (w *Writer) OnEmit(hook EmitHook) { w.hook = hook }

func (w *Writer) Root() string { return w.root }

// Write stores data at rel, a slash separated path relative to the root.
func (w *Writer) Write(rel string, data []byte) error {
	path := filepath.Join(w.root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return w.fail(path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return w.fail(path, err)
	}

	sum := blake2b.Sum256(data)
	digest := hex.EncodeToString(sum[:])
	w.digests[filepath.ToSlash(rel)] = digest
	w.logger.Debug("Generated file", "path", path, "size", len(data))
	if w.hook != nil {
		w.hook(path, data, digest)
	}
	return nil
}

func (w *Writer) WriteString(rel, content string) error {
	return w.Write(rel, []byte(content))
}

func (w *Writer) fail(path string, err error) error {
	err = fmt.Errorf("write %s: %w", path, err)
	w.logger.Error("Failed to write file", "path", path, "error", err)
	w.errs = append(w.errs, err)
	return err
}

// Files returns the written paths, sorted.
func (w *Writer) Files() []string {
	files := make([]string, 0, len(w.digests))
	for f := range w.digests {
		files = append(files, f)
	}
	sort.Strings(files)
	return files
}

func (w *Writer) Digest(rel string) string { return w.digests[rel] }

// WriteManifest records all written files in ManifestName.
func (w *Writer) WriteManifest() error {
	var b strings.Builder
	for _, f := range w.Files() {
		b.WriteString(w.digests[f])
		b.WriteString("  ")
		b.WriteString(f)
		b.WriteByte('\n')
	}
	path := filepath.Join(w.root, ManifestName)
	if err := os.MkdirAll(w.root, 0o755); err != nil {
		return w.fail(path, err)
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return w.fail(path, err)
	}
	return nil
}

// Err joins every write failure seen so far.
func (w *Writer) Err() error {
	return errors.Join(w.errs...)
}
