// Package imports resolves and runs files reached through the \insert/
// \import macro family (spec.md §4.5). It owns path search, the
// parsed-file-by-absolute-path cache, "being run" cycle detection, and the
// insert/import caching asymmetry; internal/interp owns tree-walking and
// has no knowledge of this package, so the dependency only runs one way —
// see Register's doc comment for why.
//
// Grounded on _examples/original_source/src/compiler.py's
// _get_near_path/_get_far_path/_path_rel_to_file/_path_to_std_file (search
// order) and _compiler_import_file/_run_file/_insert_file/_import_file
// (caching and cycle detection).
package imports

import (
	"os"
	"path/filepath"
	"strings"
)

// StdFileEnding is the fixed extension every standard-library file carries,
// appended (after stripping a trailing "."+StdFileEnding, if present) when
// resolving a bare module name against the standard-library directory.
const StdFileEnding = "pdfo"

// Locality selects one of spec.md §4.5's three search strategies.
type Locality int

const (
	// Near tries the current file's directory, then the main file's, then
	// the standard library.
	Near Locality = iota
	// Strict resolves only relative to the current file.
	Strict
	// Far tries the standard library first, then the main file's directory,
	// then the current file's — the reverse of Near.
	Far
)

func fileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}

// pathToStdFile resolves name against the standard-library directory,
// stripping and re-appending the StdFileEnding extension so callers can
// write \import{strings} instead of \import{strings.pdfo} — grounded on
// _path_to_std_file.
func pathToStdFile(stdDir, name string) string {
	base := strings.TrimSuffix(name, "."+StdFileEnding)
	return filepath.Join(stdDir, base+"."+StdFileEnding)
}

// pathRelToFile resolves path against dir, or returns path unchanged if
// already absolute — grounded on _path_rel_to_file.
func pathRelToFile(dir, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	abs, err := filepath.Abs(filepath.Join(dir, path))
	if err != nil {
		return filepath.Join(dir, path)
	}
	return abs
}

// nearPath implements spec.md §4.5(a) — grounded on _get_near_path.
func nearPath(currDir, mainDir, stdDir, path string) (string, bool) {
	if p := pathRelToFile(currDir, path); fileExists(p) {
		return p, true
	}
	if p := pathRelToFile(mainDir, path); fileExists(p) {
		return p, true
	}
	if p := pathToStdFile(stdDir, path); fileExists(p) {
		return p, true
	}
	return "", false
}

// farPath implements spec.md §4.5(c) — grounded on _get_far_path.
func farPath(currDir, mainDir, stdDir, path string) (string, bool) {
	if p := pathToStdFile(stdDir, path); fileExists(p) {
		return p, true
	}
	if p := pathRelToFile(mainDir, path); fileExists(p) {
		return p, true
	}
	if p := pathRelToFile(currDir, path); fileExists(p) {
		return p, true
	}
	return "", false
}

// strictPath implements spec.md §4.5(b) — grounded on
// strict_insert_file/strict_import_file's direct _path_rel_to_file call,
// with no std-lib or main-file fallback.
func strictPath(currDir, path string) (string, bool) {
	p := pathRelToFile(currDir, path)
	return p, fileExists(p)
}

// resolve dispatches to the strategy loc names, reporting a search-path
// description on failure so the caller can build an ImportError detail.
func resolve(loc Locality, currDir, mainDir, stdDir, path string) (string, bool, string) {
	switch loc {
	case Strict:
		p, ok := strictPath(currDir, path)
		return p, ok, "relative to the current file"
	case Far:
		p, ok := farPath(currDir, mainDir, stdDir, path)
		return p, ok, "in the standard library, the main file, or the current file"
	default:
		p, ok := nearPath(currDir, mainDir, stdDir, path)
		return p, ok, "relative to the current file, the main file, or the standard library"
	}
}
