// Package preview renders contents trees as ASCII trees for a quick look
// at what a manifest will list.
package preview

import (
	"github.com/disiqueira/gotree/v3"

	"github.com/oshokin/packagexml/internal/manifest"
)

// Render returns an ASCII tree of the contents block rooted at "/".
func Render(contents *manifest.Contents) string {
	root := gotree.New("/")

	for _, node := range contents.Sources {
		add(root, node)
	}

	for _, node := range contents.Docs {
		add(root, node)
	}

	return root.Print()
}

func add(parent gotree.Tree, node *manifest.Node) {
	if node == nil {
		return
	}

	branch := parent.Add(label(node))

	for _, child := range node.Children {
		add(branch, child)
	}
}

func label(node *manifest.Node) string {
	name := node.Name
	if node.Kind == manifest.KindDir {
		name += "/"
	}

	if node.Role == "" {
		return name
	}

	return name + " [" + node.Role + "]"
}
