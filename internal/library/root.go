package library

import (
	"path/filepath"
	"strings"
)

// CommonRoot returns the directory holding an album's item dirs. Every dir
// must be that directory or a direct child of it, as with disc subfolders.
// Items scattered over unrelated directories, or sharing only the
// filesystem root, yield "" so the album is skipped.
func CommonRoot(dirs []string) string {
	if len(dirs) == 0 {
		return ""
	}
	cleaned := make([]string, len(dirs))
	for i, dir := range dirs {
		cleaned[i] = filepath.Clean(dir)
	}
	root := cleaned[0]
	for _, dir := range cleaned[1:] {
		root = commonPrefix(root, dir)
		if root == "" {
			return ""
		}
	}
	if filepath.Dir(root) == root {
		return ""
	}
	for _, dir := range cleaned {
		if dir != root && filepath.Dir(dir) != root {
			return ""
		}
	}
	return root
}

func commonPrefix(a, b string) string {
	sep := string(filepath.Separator)
	for a != b {
		if len(a) > len(b) {
			a, b = b, a
		}
		if strings.HasPrefix(b, a) && (strings.HasSuffix(a, sep) || strings.HasPrefix(b[len(a):], sep)) {
			return a
		}
		parent := filepath.Dir(a)
		if parent == a {
			if strings.HasPrefix(b, a) {
				return a
			}
			return ""
		}
		a = parent
	}
	return a
}

func parentDir(path string) string {
	return filepath.Dir(path)
}
