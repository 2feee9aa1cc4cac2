package imports

import (
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/exp/slices"
)

// stdLibraryFiles walks dir and returns every file carrying the
// standard-library extension, relative to dir — grounded on
// cmd/md2pdf/md2pdf.go's glob(dir, validExts), which walks a directory
// tree filtering by extension with slices.Contains. Used to build a
// helpful "did you mean" listing when std_import can't find the name the
// caller asked for.
func stdLibraryFiles(dir string) []string {
	if dir == "" {
		return nil
	}
	validExts := []string{"." + StdFileEnding}
	var files []string
	_ = filepath.Walk(dir, func(path string, f os.FileInfo, err error) error {
		if err != nil || f == nil || f.IsDir() {
			return nil
		}
		if slices.Contains(validExts, filepath.Ext(path)) {
			if rel, rerr := filepath.Rel(dir, path); rerr == nil {
				files = append(files, rel)
			}
		}
		return nil
	})
	return files
}

// describeStdLibrary renders stdLibraryFiles(dir) as a detail suffix for an
// ImportError, or "" if the standard-library directory has no importable
// files (including when it was never configured).
func describeStdLibrary(dir string) string {
	files := stdLibraryFiles(dir)
	if len(files) == 0 {
		return ""
	}
	return " (available: " + strings.Join(files, ", ") + ")"
}
