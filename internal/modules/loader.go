package modules

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/funvibe/pgraph/internal/ast"
	"github.com/funvibe/pgraph/internal/codec"
	"github.com/funvibe/pgraph/internal/config"
)

// Loader reads program graph files and caches them by absolute path.
// A Loader is not safe for concurrent use; each evaluator owns one.
type Loader struct {
	BaseDir       string             // Directory for resolving top-level relative paths
	LoadedModules map[string]*Module // Cache of loaded modules by path
	Processing    map[string]bool    // Cycle detection during imports
}

func NewLoader(baseDir string) *Loader {
	if baseDir == "" {
		baseDir = "."
	}
	return &Loader{
		BaseDir:       baseDir,
		LoadedModules: make(map[string]*Module),
		Processing:    make(map[string]bool),
	}
}

// Resolve turns path into an absolute path. Relative paths are taken
// relative to fromDir, or to the loader's BaseDir when fromDir is empty.
func (l *Loader) Resolve(path, fromDir string) (string, error) {
	if !filepath.IsAbs(path) {
		if fromDir == "" {
			fromDir = l.BaseDir
		}
		path = filepath.Join(fromDir, path)
	}
	return filepath.Abs(path)
}

// Load reads and decodes the graph at path, which must already be absolute
// or relative to the loader's BaseDir. Results are cached.
func (l *Loader) Load(path string) (*Module, error) {
	absPath, err := l.Resolve(path, "")
	if err != nil {
		return nil, err
	}

	if mod, ok := l.LoadedModules[absPath]; ok {
		return mod, nil
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, err
	}
	root, err := codec.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", absPath, err)
	}

	format := FormatJSON
	if codec.IsBinary(data) {
		format = FormatBinary
	}

	mod := &Module{
		Path:   absPath,
		Dir:    filepath.Dir(absPath),
		Format: format,
		Root:   root,
		Size:   len(data),
	}
	l.LoadedModules[absPath] = mod
	return mod, nil
}

// Forget drops the cached module for path so the next Load reads it again.
func (l *Loader) Forget(path string) {
	if absPath, err := l.Resolve(path, ""); err == nil {
		delete(l.LoadedModules, absPath)
	}
}

// Enter marks absPath as being imported. It fails if absPath is already
// on the import stack. Every successful Enter must be paired with Leave.
func (l *Loader) Enter(absPath string) error {
	if l.Processing[absPath] {
		return fmt.Errorf("circular dependency detected loading module: %s", absPath)
	}
	l.Processing[absPath] = true
	return nil
}

// Leave pops absPath off the import stack.
func (l *Loader) Leave(absPath string) {
	delete(l.Processing, absPath)
}

// Save encodes root and writes it to path. Paths ending in the binary
// extension are written in the binary format, everything else as JSON.
func Save(path string, root ast.Node) error {
	var (
		data []byte
		err  error
	)
	if strings.HasSuffix(path, config.BinaryFileExt) {
		data, err = codec.EncodeBinary(root)
	} else {
		data, err = codec.EncodeJSON(root)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// IsGraphFile reports whether name has a recognized program graph extension.
func IsGraphFile(name string) bool {
	for _, ext := range config.SourceFileExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// ListGraphs returns the graph files directly inside dir, sorted by name.
func ListGraphs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && IsGraphFile(e.Name()) {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}
