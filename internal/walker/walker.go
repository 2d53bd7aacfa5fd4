// Package walker expands a set of root paths into a flat list of file
// records, tolerating per-entry walk errors.
package walker

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// FileRecord holds metadata about a discovered file.
type FileRecord struct {
	Path      string
	Name      string
	Extension string // without the leading dot, lowercased
	Size      int64
	Category  string
}

// defaultIgnores are directory names skipped during walks.
var defaultIgnores = []string{
	".git",
	".svn",
	".hg",
	"node_modules",
	"vendor",
	"__pycache__",
	".idea",
	".vscode",
	".spyglass",
	"dist",
	"build",
}

// Collect expands roots into file records. A root that is a regular file is
// recorded directly; a directory is walked recursively. Per-entry failures
// (permission denied, broken symlinks) are logged and skipped; they never
// abort the collection. This is a batch collector: it returns only once the
// full walk completes.
func Collect(roots []string) []FileRecord {
	var files []FileRecord

	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			log.Warn("skipping unreadable path", "path", root, "err", err)
			continue
		}

		if !info.IsDir() {
			files = append(files, NewRecord(root, info.Size()))
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				log.Warn("skipping walk entry", "path", path, "err", err)
				return nil
			}
			if d.IsDir() {
				if path != root && IgnoredDir(d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.Type().IsRegular() {
				return nil
			}
			fi, err := d.Info()
			if err != nil {
				log.Warn("skipping unreadable entry", "path", path, "err", err)
				return nil
			}
			files = append(files, NewRecord(path, fi.Size()))
			return nil
		})
		if err != nil {
			log.Warn("walk aborted", "root", root, "err", err)
		}
	}

	return files
}

// NewRecord builds a FileRecord for path with its category derived from the
// extension.
func NewRecord(path string, size int64) FileRecord {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	return FileRecord{
		Path:      path,
		Name:      filepath.Base(path),
		Extension: ext,
		Size:      size,
		Category:  CategoryForExtension(ext),
	}
}

// IgnoredDir reports whether a directory name is excluded from walks and
// watches.
func IgnoredDir(name string) bool {
	for _, p := range defaultIgnores {
		if name == p {
			return true
		}
	}
	return false
}
