// Package loader reads keycalc configuration sources into plain maps.
//
// A FileLoader decodes a TOML or YAML file, picked by extension; the
// EnvLoader maps KEYCALC_* variables onto dotted setting paths. Every
// source yields map[string]any with int64 integers so layers can be
// combined with DeepMerge.
package loader

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Loader produces one configuration layer. A missing source is not an
// error: Load returns nil, nil.
type Loader interface {
	Load() (map[string]any, error)
}

// FileSystem is the file access a FileLoader needs. fstest.MapFS
// satisfies it for tests.
type FileSystem interface {
	ReadFile(name string) ([]byte, error)
}

// OSFS reads from the real file system.
type OSFS struct{}

func (OSFS) ReadFile(name string) ([]byte, error) { return os.ReadFile(name) }

// DefaultFS returns OSFS.
func DefaultFS() FileSystem { return OSFS{} }

// Format is a configuration file syntax.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

var extensions = map[string]Format{
	".toml": FormatTOML,
	".yaml": FormatYAML,
	".yml":  FormatYAML,
}

// FormatForPath picks the format from the file extension.
func FormatForPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if f, ok := extensions[strings.ToLower(ext)]; ok {
		return f, nil
	}
	return "", fmt.Errorf("unsupported config format %q", ext)
}

// FileLoader decodes one configuration file.
type FileLoader struct {
	fsys   FileSystem
	path   string
	format Format
}

var _ Loader = (*FileLoader)(nil)

// NewFileLoader returns a loader for path on fsys. It fails when the
// extension names no supported format.
func NewFileLoader(fsys FileSystem, path string) (*FileLoader, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}
	return &FileLoader{fsys: fsys, path: path, format: format}, nil
}

// Format returns the syntax the file is decoded with.
func (l *FileLoader) Format() Format { return l.format }

// Path returns the file the loader reads.
func (l *FileLoader) Path() string { return l.path }

func (l *FileLoader) Load() (map[string]any, error) {
	data, err := l.fsys.ReadFile(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", l.path, err)
	}
	return l.decode(l.path, data)
}

// LoadFromReader decodes r in the loader's format. Parse errors name
// the source "<reader>".
func (l *FileLoader) LoadFromReader(r io.Reader) (map[string]any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return l.decode("<reader>", data)
}

func (l *FileLoader) decode(source string, data []byte) (map[string]any, error) {
	if l.format == FormatYAML {
		return decodeYAML(source, data)
	}
	return decodeTOML(source, data)
}
