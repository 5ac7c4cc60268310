package integration

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/packagexml/internal/config"
	"github.com/oshokin/packagexml/internal/service/packagexml"
)

// TestPackagexml_AdminLayout generates a manifest from an admin/ directory
// that reaches the sources through relative ../ paths.
func TestPackagexml_AdminLayout(t *testing.T) {
	// Setup checkout and change working directory into admin/.
	dir := t.TempDir()

	files := []string{
		"Auth/OpenID.php",
		"Auth/OpenID/Consumer.php",
		"Auth/OpenID/Server.php",
		"Auth/OpenID/CHANGES",
		"Auth/Yadis/XRDS.php",
		"examples/detect.php",
		"examples/README",
		"admin/texttest.php",
	}

	for _, name := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("<?php\n"), 0o600))
	}

	template := `<package>
 <name>%(package_name)s</name>
 <lead>%(leads)s</lead>
 <date>%(date)s</date>
 <release>%(version)s</release>
 <contents>
%(contents)s
 </contents>
</package>`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "admin", "package.xml"), []byte(template), 0o600))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(filepath.Join(dir, "admin")))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg := &config.Config{
		Leads: []config.Lead{
			{Name: "Jonathan Daugherty", User: "cygnus", Email: "cygnus@janrain.com", Active: "yes"},
		},
		Template:     "package.xml",
		PackageName:  "OpenID",
		ContentsDirs: []string{"../Auth"},
		DocsDirs:     []string{"../examples"},
	}
	require.NoError(t, config.Save(config.DefaultConfigFilename, cfg))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var out bytes.Buffer

	options := &packagexml.Options{
		ConfigPath: config.DefaultConfigFilename,
		Version:    "1.2.0",
		Output:     &out,
		Now: func() time.Time {
			return time.Date(2007, time.February, 5, 0, 0, 0, 0, time.UTC)
		},
	}

	require.NoError(t, packagexml.Run(ctx, options))

	got := out.String()
	require.Contains(t, got, `<dir name="/">
  <dir name="Auth">
    <dir name="OpenID">
      <file name="Consumer.php" role="php" />
      <file name="Server.php" role="php" />
    </dir>
    <file name="OpenID.php" role="php" />
    <dir name="Yadis">
      <file name="XRDS.php" role="php" />
    </dir>
  </dir>
  <dir name="examples" role="doc">
    <file name="README" />
    <file name="detect.php" role="php" />
  </dir>
</dir>`)
	require.Contains(t, got, "<date>2007-02-05</date>")
	require.Contains(t, got, "<name>Jonathan Daugherty</name>")
	require.NotContains(t, got, "CHANGES")
	require.NotContains(t, got, "texttest.php")
	require.True(t, strings.HasSuffix(got, "</package>\n"))
}
