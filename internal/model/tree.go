package model

import (
	"errors"
	"fmt"
	"path/filepath"
)

var (
	// ErrEmptyPath is returned when Insert is given no segments
	ErrEmptyPath = errors.New("empty path")

	// ErrNameConflict is returned when a file and a directory would share a name
	ErrNameConflict = errors.New("name already used by a sibling of another kind")

	// ErrExists is returned when the file is already in the tree
	ErrExists = errors.New("file already in tree")
)

// Builder grows a tree of matches one path at a time.
// Every node it creates is reported to OnCreate, in creation order.
type Builder struct {
	root     *Node
	OnCreate func(parent, node *Node)
}

// NewBuilder creates a builder that inserts under root
func NewBuilder(root *Node, onCreate func(parent, node *Node)) *Builder {
	return &Builder{root: root, OnCreate: onCreate}
}

// Root returns the root node
func (b *Builder) Root() *Node {
	return b.root
}

// Insert adds the file named by the last segment, creating any missing
// directories for the preceding segments. Existing siblings are reused in
// place and never reordered.
func (b *Builder) Insert(segments []string) (*Node, error) {
	if len(segments) == 0 {
		return nil, ErrEmptyPath
	}

	current := b.root
	for _, name := range segments[:len(segments)-1] {
		existing := current.Child(name)
		if existing == nil {
			current = b.add(current, name, true)
			continue
		}
		if !existing.IsDir {
			return nil, fmt.Errorf("directory %q: %w", existing.Path, ErrNameConflict)
		}
		current = existing
	}

	name := segments[len(segments)-1]
	if existing := current.Child(name); existing != nil {
		if existing.IsDir {
			return nil, fmt.Errorf("file %q: %w", existing.Path, ErrNameConflict)
		}
		return existing, ErrExists
	}
	return b.add(current, name, false), nil
}

func (b *Builder) add(parent *Node, name string, isDir bool) *Node {
	node := &Node{
		Name:   name,
		Path:   filepath.Join(parent.Path, name),
		IsDir:  isDir,
		Parent: parent,
	}
	parent.Children = append(parent.Children, node)
	if b.OnCreate != nil {
		b.OnCreate(parent, node)
	}
	return node
}
