package preview

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/packagexml/internal/manifest"
)

// TestRender checks labels and nesting of the preview.
func TestRender(t *testing.T) {
	t.Parallel()

	contents := &manifest.Contents{
		Sources: []*manifest.Node{{
			Kind: manifest.KindDir,
			Name: "Auth",
			Children: []*manifest.Node{
				{Kind: manifest.KindFile, Name: "OpenID.php", Role: "php"},
			},
		}},
		Docs: []*manifest.Node{{
			Kind: manifest.KindDir,
			Name: "doc",
			Role: manifest.DocRole,
			Children: []*manifest.Node{
				{Kind: manifest.KindFile, Name: "README"},
			},
		}},
	}

	out := Render(contents)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	require.Len(t, lines, 5)
	require.Equal(t, "/", lines[0])
	require.Contains(t, lines[1], "Auth/")
	require.Contains(t, lines[2], "OpenID.php [php]")
	require.Contains(t, lines[3], "doc/ [doc]")
	require.True(t, strings.HasSuffix(lines[4], "README"))
	require.Less(t, strings.Index(lines[1], "Auth"), strings.Index(lines[2], "OpenID"))
}
