package usecase

import (
	"path"
	"strings"
)

// touchedDirectories returns the distinct directories of files in first-seen
// order, each joined under prefix. Files at the top level map to prefix, or
// to "/" when there is no prefix.
func touchedDirectories(prefix string, files []string) []string {
	seen := make(map[string]struct{}, len(files))
	var dirs []string
	for _, f := range files {
		f = strings.TrimSpace(f)
		if f == "" || f == "/dev/null" {
			continue
		}

		dir := path.Dir(f)
		if dir == "." {
			dir = ""
		}
		dir = path.Join(prefix, dir)
		if dir == "" || dir == "." {
			dir = "/"
		}

		if _, dup := seen[dir]; dup {
			continue
		}
		seen[dir] = struct{}{}
		dirs = append(dirs, dir)
	}
	return dirs
}
