package atpack

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Archive gives file-level access to an AtPack: either the .atpack zip
// container itself or a directory it was extracted to.
type Archive struct {
	path string
	zr   *zip.ReadCloser
}

// OpenArchive opens path as a zip archive or an extracted directory.
func OpenArchive(path string) (*Archive, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("open atpack: %w", err)
	}
	if info.IsDir() {
		return &Archive{path: path}, nil
	}
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open atpack %q: %w", path, err)
	}
	return &Archive{path: path, zr: zr}, nil
}

// Close releases the underlying zip reader. Directory archives hold no
// resources.
func (a *Archive) Close() error {
	if a.zr == nil {
		return nil
	}
	return a.zr.Close()
}

// Path returns the archive's filesystem path.
func (a *Archive) Path() string { return a.path }

// List returns the archive's file names, slash-separated and sorted.
// A non-empty pattern keeps only names containing it.
func (a *Archive) List(pattern string) ([]string, error) {
	var files []string
	if a.zr != nil {
		for _, f := range a.zr.File {
			if f.FileInfo().IsDir() {
				continue
			}
			files = append(files, f.Name)
		}
	} else {
		err := filepath.WalkDir(a.path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			rel, err := filepath.Rel(a.path, p)
			if err != nil {
				return err
			}
			files = append(files, filepath.ToSlash(rel))
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("list atpack: %w", err)
		}
	}

	if pattern != "" {
		filtered := files[:0]
		for _, f := range files {
			if strings.Contains(f, pattern) {
				filtered = append(filtered, f)
			}
		}
		files = filtered
	}
	sort.Strings(files)
	return files, nil
}

// ReadFile returns the content of one logical file. A missing file
// fails with an error wrapping ErrFileNotFound.
func (a *Archive) ReadFile(name string) (string, error) {
	if a.zr != nil {
		for _, f := range a.zr.File {
			if f.Name == name {
				rc, err := f.Open()
				if err != nil {
					return "", fmt.Errorf("read %q: %w", name, err)
				}
				defer rc.Close()
				data, err := io.ReadAll(rc)
				if err != nil {
					return "", fmt.Errorf("read %q: %w", name, err)
				}
				return string(data), nil
			}
		}
		return "", fmt.Errorf("%w: %s", ErrFileNotFound, name)
	}

	data, err := os.ReadFile(filepath.Join(a.path, filepath.FromSlash(name)))
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrFileNotFound, name)
		}
		return "", fmt.Errorf("read %q: %w", name, err)
	}
	return string(data), nil
}

// FindByExtension returns the archive files with the given extension,
// compared case-insensitively.
func (a *Archive) FindByExtension(ext string) ([]string, error) {
	files, err := a.List("")
	if err != nil {
		return nil, err
	}
	lowerExt := strings.ToLower(ext)
	var out []string
	for _, f := range files {
		if strings.HasSuffix(strings.ToLower(f), lowerExt) {
			out = append(out, f)
		}
	}
	return out, nil
}

// FindPDSC returns the package description files.
func (a *Archive) FindPDSC() ([]string, error) { return a.FindByExtension(".pdsc") }

// FindATDF returns the ATMEL device files.
func (a *Archive) FindATDF() ([]string, error) { return a.FindByExtension(".atdf") }

// FindPIC returns the Microchip device files.
func (a *Archive) FindPIC() ([]string, error) { return a.FindByExtension(".pic") }
