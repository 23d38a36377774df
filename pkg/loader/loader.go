package loader

import (
	"fmt"
	"io/fs"
	"path"
	"strings"
)

// Extensions lists the file types treated as documents.
var Extensions = []string{".md", ".txt"}

// LoadDocument reads a single document from fsys.
func LoadDocument(fsys fs.FS, name string) (string, error) {
	content, err := fs.ReadFile(fsys, name)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", name, err)
	}
	return string(content), nil
}

// LoadDocuments reads every document below root and joins them, in lexical
// path order, into one text separated by blank lines.
func LoadDocuments(fsys fs.FS, root string) (string, []string, error) {
	var parts []string
	var paths []string

	err := fs.WalkDir(fsys, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		// Skip directories
		if d.IsDir() {
			return nil
		}

		if !isDocument(p) {
			return nil
		}

		content, err := LoadDocument(fsys, p)
		if err != nil {
			return err
		}
		if strings.TrimSpace(content) == "" {
			return nil
		}

		parts = append(parts, content)
		paths = append(paths, p)
		return nil
	})
	if err != nil {
		return "", nil, err
	}

	return strings.Join(parts, "\n\n"), paths, nil
}

// Load reads name as a single document when it is a file, or every
// document below it when it is a directory.
func Load(fsys fs.FS, name string) (string, []string, error) {
	info, err := fs.Stat(fsys, name)
	if err != nil {
		return "", nil, fmt.Errorf("reading %s: %w", name, err)
	}
	if info.IsDir() {
		return LoadDocuments(fsys, name)
	}

	content, err := LoadDocument(fsys, name)
	if err != nil {
		return "", nil, err
	}
	return content, []string{name}, nil
}

func isDocument(p string) bool {
	ext := strings.ToLower(path.Ext(p))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}
