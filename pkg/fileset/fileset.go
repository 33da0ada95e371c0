package fileset

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// File is one file read from disk, keyed by its base name.
type File struct {
	Name    string
	Path    string
	Content string
}

// Read expands the given path patterns (doublestar globs like
// "src/**/*.go" are allowed), reads every match, and returns the files in
// match order. Missing or unreadable files are warned about on warnW and
// skipped; they are never fatal. Files sharing a base name collapse to
// the last one read.
func Read(patterns []string, warnW io.Writer) []File {
	var files []File
	index := make(map[string]int)

	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			fmt.Fprintf(warnW, "Warning: bad file pattern %s: %v\n", pattern, err)
			continue
		}
		if len(matches) == 0 {
			fmt.Fprintf(warnW, "Warning: file not found: %s\n", pattern)
			continue
		}

		for _, path := range matches {
			info, err := os.Stat(path)
			if err != nil {
				fmt.Fprintf(warnW, "Warning: could not read %s: %v\n", path, err)
				continue
			}
			if info.IsDir() {
				continue
			}

			content, err := os.ReadFile(path)
			if err != nil {
				fmt.Fprintf(warnW, "Warning: could not read %s: %v\n", path, err)
				continue
			}

			f := File{Name: filepath.Base(path), Path: path, Content: string(content)}
			if i, ok := index[f.Name]; ok {
				files[i] = f
				continue
			}
			index[f.Name] = len(files)
			files = append(files, f)
		}
	}

	return files
}
