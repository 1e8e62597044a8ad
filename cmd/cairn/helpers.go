package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"cairn/internal/catalog"
)

// expandArgs resolves command arguments to a sorted list of normalized file
// paths. Directories are only descended into when recursive is set.
func expandArgs(args []string, recursive bool) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", arg, err)
		}
		if !info.IsDir() {
			files = append(files, catalog.NormalizePath(arg))
			continue
		}
		if !recursive {
			return nil, fmt.Errorf("%s is a directory (use --recursive to descend)", arg)
		}
		err = filepath.WalkDir(arg, func(path string, entry fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if entry.Type().IsRegular() {
				files = append(files, catalog.NormalizePath(path))
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", arg, err)
		}
	}
	sort.Strings(files)
	return files, nil
}
