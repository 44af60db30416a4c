package model

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Node represents a matched file or one of its ancestor directories
type Node struct {
	Name     string
	Path     string // relative to the scan root, "" for the root itself
	IsDir    bool
	Children []*Node // insertion order is display order
	Parent   *Node
}

// NewRoot creates the directory node that holds top-level matches
func NewRoot(name string) *Node {
	return &Node{Name: name, IsDir: true}
}

// Child returns the child with the given name, or nil.
// Directories and files share one namespace among siblings.
func (n *Node) Child(name string) *Node {
	for _, child := range n.Children {
		if child.Name == name {
			return child
		}
	}
	return nil
}

// Walk visits the node and its descendants depth-first in display order
func (n *Node) Walk(fn func(node *Node, depth int)) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(node *Node, depth int), depth int) {
	fn(n, depth)
	for _, child := range n.Children {
		child.walk(fn, depth+1)
	}
}

// CountFiles counts file nodes under n
func (n *Node) CountFiles() int {
	if !n.IsDir {
		return 1
	}
	count := 0
	for _, child := range n.Children {
		count += child.CountFiles()
	}
	return count
}

// SplitPath breaks a root-relative path into its segments.
// The split is purely lexical on the platform separator.
func SplitPath(rel string) []string {
	if rel == "" {
		return nil
	}
	return strings.Split(rel, string(filepath.Separator))
}

// FindAndAll pairs the number of matched files with the number scanned.
// Values are never mutated in place; the With methods return a copy.
type FindAndAll struct {
	Found uint64
	All   uint64
}

// WithScanned returns a copy with one more scanned file
func (f FindAndAll) WithScanned() FindAndAll {
	return FindAndAll{Found: f.Found, All: f.All + 1}
}

// WithFound returns a copy with one more matched file
func (f FindAndAll) WithFound() FindAndAll {
	return FindAndAll{Found: f.Found + 1, All: f.All}
}

func (f FindAndAll) String() string {
	return fmt.Sprintf("%d / %d", f.Found, f.All)
}
