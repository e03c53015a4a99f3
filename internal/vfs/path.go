package vfs

import "strings"

// Normalize canonicalizes a path against a current working directory. Absolute paths (leading '/')
// are resolved on their own; relative paths are resolved against cwd. "." components are dropped;
// ".." pops one component (the root never pops below itself); a trailing slash is removed except
// on the root itself. The result is always the canonical key used to index the entry table.
func Normalize(path, cwd string) string {
	if path == "" {
		path = "."
	}

	var base string
	if strings.HasPrefix(path, "/") {
		base = path
	} else {
		base = cwd + "/" + path
	}

	parts := strings.Split(base, "/")
	stack := make([]string, 0, len(parts))

	for _, p := range parts {
		switch p {
		case "", ".":
			continue
		case "..":
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		default:
			stack = append(stack, p)
		}
	}

	if len(stack) == 0 {
		return "/"
	}

	return "/" + strings.Join(stack, "/")
}

// Split returns the parent directory and base name of a normalized path. Split("/") is ("/", "/").
func Split(path string) (dir, name string) {
	if path == "/" {
		return "/", "/"
	}

	idx := strings.LastIndex(path, "/")
	dir = path[:idx]

	if dir == "" {
		dir = "/"
	}

	name = path[idx+1:]

	return dir, name
}
