package manifest

import (
	"bytes"
	"encoding/xml"
	"strings"

	"github.com/oshokin/packagexml/internal/config"
)

// IndentString is written once per nesting level.
const IndentString = "  "

// Lines writes the tree rooted at node as XML lines starting at depth.
// A nil node produces no lines.
func Lines(node *Node, depth int) []string {
	if node == nil {
		return nil
	}

	return appendLines(nil, node, depth)
}

func appendLines(lines []string, node *Node, depth int) []string {
	indent := strings.Repeat(IndentString, depth)

	if node.Kind == KindFile {
		return append(lines, indent+"<file"+attrs(node)+" />")
	}

	lines = append(lines, indent+"<dir"+attrs(node)+">")

	for _, child := range node.Children {
		lines = appendLines(lines, child, depth+1)
	}

	return append(lines, indent+"</dir>")
}

func attrs(node *Node) string {
	var b strings.Builder

	b.WriteString(` name="`)
	b.WriteString(escape(node.Name))
	b.WriteByte('"')

	if node.Role != "" {
		b.WriteString(` role="`)
		b.WriteString(escape(node.Role))
		b.WriteByte('"')
	}

	return b.String()
}

func escape(s string) string {
	var buf bytes.Buffer

	// Writes to a bytes.Buffer never fail.
	_ = xml.EscapeText(&buf, []byte(s))

	return buf.String()
}

// Contents holds the trees of a manifest contents block.
type Contents struct {
	// Sources are the content directory trees filtered by role map.
	Sources []*Node
	// Docs are the documentation trees with every file included.
	Docs []*Node
}

// BuildContents walks the content and doc directories on fs.
func BuildContents(fs FS, roles RoleMap, contentDirs, docDirs []string) (*Contents, error) {
	contents := &Contents{
		Sources: make([]*Node, 0, len(contentDirs)),
		Docs:    make([]*Node, 0, len(docDirs)),
	}

	for _, dir := range contentDirs {
		node, err := Build(fs, dir, roles)
		if err != nil {
			return nil, err
		}

		contents.Sources = append(contents.Sources, node)
	}

	for _, dir := range docDirs {
		node, err := Build(fs, dir, roles, WithDirRole(DocRole), WithAllFiles())
		if err != nil {
			return nil, err
		}

		contents.Docs = append(contents.Docs, node)
	}

	return contents, nil
}

// XML wraps the trees in a root <dir name="/"> element.
func (c *Contents) XML() string {
	lines := []string{`<dir name="/">`}

	for _, node := range c.Sources {
		lines = append(lines, strings.Join(Lines(node, 1), "\n"))
	}

	for _, node := range c.Docs {
		lines = append(lines, strings.Join(Lines(node, 1), "\n"))
	}

	lines = append(lines, "</dir>")

	return strings.Join(lines, "\n")
}

// BuildContentsXML walks the directories and returns the contents block.
func BuildContentsXML(fs FS, roles RoleMap, contentDirs, docDirs []string) (string, error) {
	contents, err := BuildContents(fs, roles, contentDirs, docDirs)
	if err != nil {
		return "", err
	}

	return contents.XML(), nil
}

// BuildLeadsXML renders one <lead> element per maintainer.
func BuildLeadsXML(leads []config.Lead) string {
	var b strings.Builder

	for _, lead := range leads {
		b.WriteString("\n<lead>\n")
		writeElement(&b, "name", lead.Name)
		writeElement(&b, "user", lead.User)
		writeElement(&b, "email", lead.Email)
		writeElement(&b, "active", lead.Active)
		b.WriteString("</lead>\n    ")
	}

	return b.String()
}

func writeElement(b *strings.Builder, tag, value string) {
	b.WriteString(IndentString)
	b.WriteString("<" + tag + ">")
	b.WriteString(escape(value))
	b.WriteString("</" + tag + ">\n")
}
