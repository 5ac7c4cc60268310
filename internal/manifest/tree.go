package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"
)

// FS is the part of a billy filesystem the walk reads from.
type FS interface {
	billy.Basic
	billy.Dir
}

// RoleMap maps a file extension (without the dot) to a manifest role.
type RoleMap map[string]string

// Kind tells directory nodes from file nodes.
type Kind int

const (
	// KindFile is a single file entry.
	KindFile Kind = iota
	// KindDir is a directory entry with children.
	KindDir
)

// DocRole is the directory role given to documentation trees.
const DocRole = "doc"

// Node is one entry of the contents tree.
type Node struct {
	// Kind is the node type.
	Kind Kind
	// Name is the base name of the entry.
	Name string
	// Role is the role attribute; empty means no attribute.
	Role string
	// Children are the entries of a directory, sorted by name.
	Children []*Node
}

// entryClass is the classification of a filesystem path before dispatch.
type entryClass int

const (
	classOther entryClass = iota
	classDir
	classFile
)

// buildOptions tune how a tree is built.
type buildOptions struct {
	// dirRole is set on every directory node of the tree.
	dirRole string
	// allFiles includes files whose extension is not in the role map.
	allFiles bool
}

// BuildOption configures Build.
type BuildOption func(*buildOptions)

// WithDirRole tags every directory of the tree with the given role.
func WithDirRole(role string) BuildOption {
	return func(o *buildOptions) {
		o.dirRole = role
	}
}

// WithAllFiles includes every file regardless of extension.
func WithAllFiles() BuildOption {
	return func(o *buildOptions) {
		o.allFiles = true
	}
}

// ErrNotFound is returned when the root path of a tree does not exist.
var ErrNotFound = errors.New("path not found")

// Build walks path on fs and returns its contents tree.
// A nil node with nil error means the path was filtered out.
func Build(fs FS, path string, roles RoleMap, opts ...BuildOption) (*Node, error) {
	var o buildOptions
	for _, opt := range opts {
		opt(&o)
	}

	info, err := fs.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w: %w", path, ErrNotFound, err)
	}

	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	return build(fs, path, info, roles, &o)
}

func build(fs FS, path string, info os.FileInfo, roles RoleMap, o *buildOptions) (*Node, error) {
	switch classify(info) {
	case classDir:
		return buildDir(fs, path, roles, o)
	case classFile:
		return buildFile(filepath.Base(path), roles, o), nil
	default:
		return nil, nil
	}
}

func buildDir(fs FS, path string, roles RoleMap, o *buildOptions) (*Node, error) {
	entries, err := fs.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", path, err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	node := &Node{
		Kind:     KindDir,
		Name:     filepath.Base(path),
		Role:     o.dirRole,
		Children: make([]*Node, 0, len(entries)),
	}

	for _, entry := range entries {
		childPath := fs.Join(path, entry.Name())

		// ReadDir reports links as links; Stat resolves them.
		info := entry
		if entry.Mode()&os.ModeSymlink != 0 {
			if info, err = fs.Stat(childPath); err != nil {
				continue
			}
		}

		child, err := build(fs, childPath, info, roles, o)
		if err != nil {
			return nil, err
		}

		if child != nil {
			node.Children = append(node.Children, child)
		}
	}

	return node, nil
}

func buildFile(name string, roles RoleMap, o *buildOptions) *Node {
	if ext, ok := Extension(name); ok {
		if role, found := roles[ext]; found {
			return &Node{Kind: KindFile, Name: name, Role: role}
		}
	}

	if o.allFiles {
		return &Node{Kind: KindFile, Name: name}
	}

	return nil
}

func classify(info os.FileInfo) entryClass {
	switch {
	case info.IsDir():
		return classDir
	case info.Mode().IsRegular():
		return classFile
	default:
		return classOther
	}
}

// Extension returns the part of name after its last dot.
// It reports false when name has no dot.
func Extension(name string) (string, bool) {
	i := strings.LastIndexByte(name, '.')
	if i < 0 {
		return "", false
	}

	return name[i+1:], true
}

// Count returns the number of directory and file nodes in the tree.
func (n *Node) Count() (dirs, files int) {
	if n == nil {
		return 0, 0
	}

	if n.Kind == KindFile {
		return 0, 1
	}

	dirs = 1

	for _, child := range n.Children {
		d, f := child.Count()
		dirs += d
		files += f
	}

	return dirs, files
}
