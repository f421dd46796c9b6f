// Package notepath provides path arithmetic for binder folder paths.
//
// Folder paths are absolute, slash-delimited strings rooted at "/". The
// root is implicit: it is never stored on a note and never appears as a
// folder of its own.
package notepath

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// Root is the implicit top level of the binder.
	Root = "/"
	// Separator delimits path segments and is forbidden inside names.
	Separator = "/"
)

// ErrBadName reports a folder or note name that cannot be part of a path.
var ErrBadName = errors.New("invalid name")

// IsRoot reports whether path is the implicit root.
func IsRoot(path string) bool {
	return Clean(path) == Root
}

// Clean normalizes a folder path to a leading slash and no trailing slash.
// The empty string normalizes to the root.
func Clean(path string) string {
	path = strings.TrimSpace(path)
	if !strings.HasPrefix(path, Separator) {
		path = Separator + path
	}
	for len(path) > 1 && strings.HasSuffix(path, Separator) {
		path = path[:len(path)-1]
	}
	return path
}

// Parent returns the parent folder path. The parent of any top-level
// folder, and of the root itself, is the root.
func Parent(path string) string {
	path = Clean(path)
	if path == Root {
		return Root
	}
	idx := strings.LastIndex(path, Separator)
	if idx <= 0 {
		return Root
	}
	return path[:idx]
}

// Name returns the last segment of the path, or "" for the root.
func Name(path string) string {
	path = Clean(path)
	if path == Root {
		return ""
	}
	return path[strings.LastIndex(path, Separator)+1:]
}

// Join appends a single name segment to a parent folder path. The name
// must be non-empty after trimming and must not contain the separator.
func Join(parent, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: name is empty", ErrBadName)
	}
	if strings.Contains(name, Separator) {
		return "", fmt.Errorf("%w: name %q contains %q", ErrBadName, name, Separator)
	}
	parent = Clean(parent)
	if parent == Root {
		return Root + name, nil
	}
	return parent + Separator + name, nil
}

// SelfOrDescendant reports whether path equals ancestor or lies anywhere
// beneath it. The comparison is segment-aligned: "/Foo" is not an
// ancestor of "/FooBar".
func SelfOrDescendant(ancestor, path string) bool {
	ancestor = Clean(ancestor)
	path = Clean(path)
	if ancestor == path {
		return true
	}
	if ancestor == Root {
		return true
	}
	return strings.HasPrefix(path, ancestor+Separator)
}

// Segments splits a folder path into its segments. The root yields nil.
func Segments(path string) []string {
	path = Clean(path)
	if path == Root {
		return nil
	}
	return strings.Split(path[1:], Separator)
}
