// Package loader resolves Bloch import statements into a single merged
// *ast.Program (spec §4.3 "Module loader").
package loader

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bloch-lang/bloch/internal/ast"
	"github.com/bloch-lang/bloch/internal/errors"
	"github.com/bloch-lang/bloch/internal/parser"
)

// ObjectBlochPath is the conventional location of the implicit root
// class, looked up on the search path (spec §4.3, SPEC_FULL.md §4).
const ObjectBlochPath = "bloch/lang/Object.bloch"

// Loader resolves imports against an ordered search path: the importing
// file's directory is always tried first, then SearchPaths, in order.
type Loader struct {
	SearchPaths []string

	cache      map[string]*ast.Program
	inProgress map[string]bool
}

// New constructs a Loader with the given additional search paths.
func New(searchPaths []string) *Loader {
	return &Loader{
		SearchPaths: searchPaths,
		cache:       make(map[string]*ast.Program),
		inProgress:  make(map[string]bool),
	}
}

// Load parses entryPath and every module it (transitively) imports, then
// merges them into a single *ast.Program, enforcing the loader contract:
// a path→module cache, cycle detection, duplicate top-level name
// rejection, and exactly one main().
func (l *Loader) Load(entryPath string) (*ast.Program, error) {
	merged := &ast.Program{}
	entryDir := filepath.Dir(entryPath)
	appended := make(map[string]bool)

	entryAbs, err := filepath.Abs(entryPath)
	if err != nil {
		entryAbs = entryPath
	}
	root, err := l.loadFile(entryPath)
	if err != nil {
		return nil, err
	}
	l.cache[entryAbs] = root
	appendInto(merged, root)
	appended[entryAbs] = true

	l.inProgress[entryAbs] = true
	err = l.resolveImports(root.Imports, entryDir, merged, appended)
	delete(l.inProgress, entryAbs)
	if err != nil {
		return nil, err
	}

	if obj, ok, err := l.tryLoadObjectBase(entryDir); err != nil {
		return nil, err
	} else if ok {
		merged.Classes = append([]*ast.ClassDecl{obj}, merged.Classes...)
		for _, cls := range merged.Classes {
			if cls != obj && cls.Base == nil {
				cls.Base = &ast.NamedType{Name: obj.Name, Position: cls.Position}
			}
		}
	}

	if err := checkDuplicates(merged); err != nil {
		return nil, err
	}
	if err := checkSingleMain(merged); err != nil {
		return nil, err
	}

	return merged, nil
}

func (l *Loader) resolveImports(imports []*ast.Import, importingDir string, merged *ast.Program, appended map[string]bool) error {
	for _, imp := range imports {
		if err := l.resolveImport(imp, importingDir, merged, appended); err != nil {
			return err
		}
	}
	return nil
}

func (l *Loader) resolveImport(imp *ast.Import, importingDir string, merged *ast.Program, appended map[string]bool) error {
	if imp.Wildcard {
		dir, err := l.resolveDir(strings.Join(imp.Path, "/"), importingDir)
		if err != nil {
			return errors.New(errors.Semantic, errors.Position(imp.Position), "cannot resolve import %q: %v", dottedPath(imp), err)
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			return errors.New(errors.Semantic, errors.Position(imp.Position), "cannot read import directory %q: %v", dir, err)
		}
		var files []string
		for _, e := range entries {
			if !e.IsDir() && strings.HasSuffix(e.Name(), ".bloch") {
				files = append(files, filepath.Join(dir, e.Name()))
			}
		}
		sort.Strings(files)
		for _, f := range files {
			if err := l.loadModule(f, merged, appended); err != nil {
				return err
			}
		}
		return nil
	}

	path, err := l.resolveFile(strings.Join(imp.Path, "/")+".bloch", importingDir)
	if err != nil {
		return errors.New(errors.Semantic, errors.Position(imp.Position), "cannot resolve import %q: %v", dottedPath(imp), err)
	}
	return l.loadModule(path, merged, appended)
}

func dottedPath(imp *ast.Import) string {
	s := strings.Join(imp.Path, ".")
	if imp.Wildcard {
		s += ".*"
	}
	return s
}

// loadModule loads path (using the cache when possible), appends its
// declarations into merged at most once, and recursively resolves its
// own imports. The in-progress set stays marked for path for the full
// duration of that recursive resolution, so a cycle anywhere in the
// subtree — not just a direct self-import — is caught (spec §4.3).
func (l *Loader) loadModule(path string, merged *ast.Program, appended map[string]bool) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	if l.inProgress[abs] {
		return errors.New(errors.Semantic, errors.Position{}, "import cycle detected: %q is already being loaded", abs)
	}

	mod, cached := l.cache[abs]
	if !cached {
		l.inProgress[abs] = true
		mod, err = l.loadFile(path)
		if err != nil {
			delete(l.inProgress, abs)
			return err
		}
		l.cache[abs] = mod
		if !appended[abs] {
			appended[abs] = true
			appendInto(merged, mod)
		}
		err = l.resolveImports(mod.Imports, filepath.Dir(path), merged, appended)
		delete(l.inProgress, abs)
		return err
	}

	if !appended[abs] {
		appended[abs] = true
		appendInto(merged, mod)
	}
	return nil
}

func (l *Loader) loadFile(path string) (*ast.Program, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(errors.Semantic, errors.Position{}, "cannot read %q: %v", path, err)
	}
	p, err := parser.New(string(src), path)
	if err != nil {
		return nil, err
	}
	return p.ParseProgram()
}

// resolveFile/resolveDir implement spec §4.3's search order: importing
// file's directory first, then l.SearchPaths, then the working directory.
func (l *Loader) resolveFile(rel, importingDir string) (string, error) {
	for _, dir := range l.candidateDirs(importingDir) {
		candidate := filepath.Join(dir, rel)
		if fileExists(candidate) {
			return candidate, nil
		}
	}
	return "", os.ErrNotExist
}

func (l *Loader) resolveDir(rel, importingDir string) (string, error) {
	for _, dir := range l.candidateDirs(importingDir) {
		candidate := filepath.Join(dir, rel)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate, nil
		}
	}
	return "", os.ErrNotExist
}

func (l *Loader) candidateDirs(importingDir string) []string {
	dirs := []string{importingDir}
	dirs = append(dirs, l.SearchPaths...)
	if wd, err := os.Getwd(); err == nil {
		dirs = append(dirs, wd)
	}
	return dirs
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// tryLoadObjectBase attempts the optional implicit-base-class load
// (spec §4.3's final bullet). A missing file is not an error.
func (l *Loader) tryLoadObjectBase(importingDir string) (*ast.ClassDecl, bool, error) {
	path, err := l.resolveFile(ObjectBlochPath, importingDir)
	if err != nil {
		return nil, false, nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	mod, cached := l.cache[abs]
	if !cached {
		mod, err = l.loadFile(path)
		if err != nil {
			return nil, false, err
		}
		l.cache[abs] = mod
	}
	for _, cls := range mod.Classes {
		return cls, true, nil
	}
	return nil, false, nil
}

func appendInto(dst, src *ast.Program) {
	dst.Imports = append(dst.Imports, src.Imports...)
	dst.Classes = append(dst.Classes, src.Classes...)
	dst.Functions = append(dst.Functions, src.Functions...)
	dst.Statements = append(dst.Statements, src.Statements...)
}

func checkDuplicates(prog *ast.Program) error {
	names := make(map[string]bool)
	for _, cls := range prog.Classes {
		if names[cls.Name] {
			return errors.New(errors.Semantic, errors.Position(cls.Position), "duplicate top-level declaration %q", cls.Name)
		}
		names[cls.Name] = true
	}
	for _, fn := range prog.Functions {
		if names[fn.Name] {
			return errors.New(errors.Semantic, errors.Position(fn.Position), "duplicate top-level declaration %q", fn.Name)
		}
		names[fn.Name] = true
	}
	return nil
}

func checkSingleMain(prog *ast.Program) error {
	count := 0
	var last *ast.FunctionDecl
	for _, fn := range prog.Functions {
		if fn.Name == "main" {
			count++
			last = fn
		}
	}
	if count == 0 {
		return errors.New(errors.Semantic, errors.Position{}, "program has no main() function")
	}
	if count > 1 {
		return errors.New(errors.Semantic, errors.Position(last.Position), "exactly one main() is allowed, found %d", count)
	}
	return nil
}
