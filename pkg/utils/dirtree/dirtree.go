// Package dirtree indexes records by the directory paths they touched.
//
// A record added under "a/b/c" is stored at the root, at "a", at "a/b" and at
// "a/b/c", so a query for any prefix sees every record registered below it.
// Both '/' and '\' separate segments and empty segments are ignored, so
// "//depot/x/" and `depot\x` address the same node.
package dirtree

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// reservedSeparator is the byte both separators are normalized to before
// splitting. Paths must not contain it.
const reservedSeparator = "\x00"

// ErrInvalidPath is returned for paths that contain the reserved separator
var ErrInvalidPath = goerr.New("invalid directory path")

// Tree is a directory trie. It is not safe for concurrent mutation; build it
// once and then share it read-only.
type Tree[T comparable] struct {
	root *node[T]
}

type node[T comparable] struct {
	name     string
	children map[string]*node[T]
	records  recordSet[T]
}

// recordSet is an insertion-ordered set
type recordSet[T comparable] struct {
	index map[T]struct{}
	order []T
}

func (s *recordSet[T]) add(v T) {
	if s.index == nil {
		s.index = make(map[T]struct{})
	}
	if _, exists := s.index[v]; exists {
		return
	}
	s.index[v] = struct{}{}
	s.order = append(s.order, v)
}

func (s *recordSet[T]) values() []T {
	out := make([]T, len(s.order))
	copy(out, s.order)
	return out
}

func newNode[T comparable](name string) *node[T] {
	return &node[T]{
		name:     name,
		children: make(map[string]*node[T]),
	}
}

// New creates an empty tree. The root has an empty name and stands for every path.
func New[T comparable]() *Tree[T] {
	return &Tree[T]{root: newNode[T]("")}
}

// Segments normalizes path and returns its non-empty segments in order
func Segments(path string) ([]string, error) {
	if strings.Contains(path, reservedSeparator) {
		return nil, goerr.Wrap(ErrInvalidPath, "path contains reserved separator byte", goerr.V("path", path))
	}

	if strings.TrimSpace(path) == "" {
		return nil, nil
	}

	normalized := strings.NewReplacer("/", reservedSeparator, `\`, reservedSeparator).Replace(path)

	var segments []string
	for _, seg := range strings.Split(normalized, reservedSeparator) {
		if seg == "" {
			continue
		}
		segments = append(segments, seg)
	}
	return segments, nil
}

// Add registers record under path and every ancestor of path, root included.
// Adding the same pair twice has no effect.
func (t *Tree[T]) Add(path string, record T) error {
	segments, err := Segments(path)
	if err != nil {
		return err
	}

	current := t.root
	current.records.add(record)
	for _, seg := range segments {
		child, ok := current.children[seg]
		if !ok {
			child = newNode[T](seg)
			current.children[seg] = child
		}
		child.records.add(record)
		current = child
	}

	return nil
}

// RecordsUnder returns the records registered at path or below it, in first
// insertion order. A blank path returns everything. A path that was never
// added returns an empty result, not an error.
func (t *Tree[T]) RecordsUnder(path string) ([]T, error) {
	segments, err := Segments(path)
	if err != nil {
		return nil, err
	}

	current := t.root
	for _, seg := range segments {
		child, ok := current.children[seg]
		if !ok {
			return []T{}, nil
		}
		current = child
	}

	return current.records.values(), nil
}

// Len returns the number of distinct records in the tree
func (t *Tree[T]) Len() int {
	return len(t.root.records.order)
}
