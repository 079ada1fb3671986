package loader

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xy-planning-network/sik"
)

// Options filters the entries ListEntries returns.
// With neither set, every entry returns.
// With both set, OnlyFiles wins.
type Options struct {
	OnlyFiles bool
	OnlyDirs  bool
}

// A DirectoryNotFoundError reports a directory that could not be read.
// Name labels what the directory is for, e.g., "API".
type DirectoryNotFoundError struct {
	Name string
	Path string
	Err  error
}

func (e *DirectoryNotFoundError) Error() string {
	return fmt.Sprintf("%s Directory (%s) does not exist.", e.Name, e.Path)
}

// Is makes a *DirectoryNotFoundError match sik.ErrNotExist.
func (e *DirectoryNotFoundError) Is(target error) bool { return target == sik.ErrNotExist }

func (e *DirectoryNotFoundError) Unwrap() error { return e.Err }

// ListEntries lists the entries of dir, each joined onto dir, in the order the filesystem reports them.
// The type of an entry is determined by following symlinks;
// entries that cannot be stat'd are left out when filtering.
//
// ListEntries fails with a *DirectoryNotFoundError labeled with name when dir cannot be read.
func ListEntries(name, dir string, opts Options) ([]string, error) {
	entries, err := readDir(dir)
	if err != nil {
		return nil, &DirectoryNotFoundError{Name: name, Path: dir, Err: err}
	}

	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		p := filepath.Join(dir, entry)
		if !opts.OnlyFiles && !opts.OnlyDirs {
			paths = append(paths, p)
			continue
		}

		fi, err := os.Stat(p)
		if err != nil {
			continue
		}

		switch {
		case opts.OnlyFiles:
			if fi.Mode().IsRegular() {
				paths = append(paths, p)
			}
		case opts.OnlyDirs:
			if fi.IsDir() {
				paths = append(paths, p)
			}
		}
	}

	return paths, nil
}

// readDir returns the names of the entries of dir unsorted.
func readDir(dir string) ([]string, error) {
	f, err := os.Open(dir)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return f.Readdirnames(-1)
}
