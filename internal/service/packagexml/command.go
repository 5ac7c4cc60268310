package packagexml

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-git/go-billy/v5/osfs"

	"github.com/oshokin/packagexml/internal/config"
	"github.com/oshokin/packagexml/internal/logger"
	"github.com/oshokin/packagexml/internal/manifest"
	"github.com/oshokin/packagexml/internal/preview"
	"github.com/oshokin/packagexml/internal/template"
)

// DateLayout is the layout of the release date placed in the manifest.
const DateLayout = "2006-01-02"

var _ manifest.FS = osfs.Default

// Options contains inputs for the packagexml entry point.
type Options struct {
	// ConfigPath is the path to the package configuration YAML.
	ConfigPath string
	// Version is the release version to put in the manifest.
	Version string
	// Output receives the rendered manifest. Defaults to os.Stdout.
	Output io.Writer
	// FS is the filesystem the template and directories are read from.
	// Defaults to the operating system filesystem.
	FS manifest.FS
	// Now returns the release date. Defaults to time.Now.
	Now func() time.Time
	// Tree prints an ASCII preview of the contents to TreeOutput.
	Tree bool
	// TreeOutput receives the preview. Defaults to os.Stderr.
	TreeOutput io.Writer
}

var (
	// ErrConfig indicates the package configuration could not be loaded.
	ErrConfig = errors.New("could not load package configuration")
	// ErrTemplate indicates the template file could not be opened.
	ErrTemplate = errors.New("could not open template file")
	// ErrVersionRequired indicates an empty release version.
	ErrVersionRequired = errors.New("package version is required")
)

// Run loads the configuration and writes the rendered manifest to opts.Output.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "packagexml")

	if opts.Version == "" {
		return ErrVersionRequired
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}

	return Generate(ctx, cfg, opts)
}

// Generate renders the manifest for an already loaded configuration.
func Generate(ctx context.Context, cfg *config.Config, opts *Options) error {
	if opts.Version == "" {
		return ErrVersionRequired
	}

	a := newAssembler(cfg, opts)

	ctx = logger.WithKV(ctx, "package", cfg.PackageName, "version", opts.Version)

	text, err := a.readTemplate()
	if err != nil {
		return err
	}

	contents, err := manifest.BuildContents(a.fs, cfg.Roles, cfg.ContentsDirs, cfg.DocsDirs)
	if err != nil {
		return fmt.Errorf("build contents: %w", err)
	}

	a.logContents(ctx, contents)

	values := a.values(contents)
	if err = checkPlaceholders(text, values); err != nil {
		return fmt.Errorf("render template %s: %w", cfg.Template, err)
	}

	rendered, err := template.Render(text, values)
	if err != nil {
		return fmt.Errorf("render template %s: %w", cfg.Template, err)
	}

	if opts.Tree {
		if _, err = io.WriteString(a.treeOutput, preview.Render(contents)); err != nil {
			return fmt.Errorf("write preview: %w", err)
		}
	}

	if _, err = io.WriteString(a.output, rendered+"\n"); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	logger.InfoKV(ctx, "Manifest generated", "uri", a.uri())

	return nil
}

// assembler holds the resolved inputs of one run.
type assembler struct {
	// cfg is the validated package configuration.
	cfg *config.Config
	// version is the release version.
	version string
	// fs is where the template and trees are read from.
	fs manifest.FS
	// now is the release date source.
	now func() time.Time
	// output receives the manifest.
	output io.Writer
	// treeOutput receives the preview.
	treeOutput io.Writer
}

func newAssembler(cfg *config.Config, opts *Options) *assembler {
	a := &assembler{
		cfg:        cfg,
		version:    opts.Version,
		fs:         opts.FS,
		now:        opts.Now,
		output:     opts.Output,
		treeOutput: opts.TreeOutput,
	}

	if a.fs == nil {
		a.fs = osfs.Default
	}

	if a.now == nil {
		a.now = time.Now
	}

	if a.output == nil {
		a.output = os.Stdout
	}

	if a.treeOutput == nil {
		a.treeOutput = os.Stderr
	}

	return a
}

// readTemplate returns the template contents.
func (a *assembler) readTemplate() (string, error) {
	f, err := a.fs.Open(a.cfg.Template)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTemplate, err)
	}

	// Best-effort cleanup.
	defer func() {
		_ = f.Close()
	}()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTemplate, err)
	}

	return string(data), nil
}

// values builds the substitution context of the template.
func (a *assembler) values(contents *manifest.Contents) map[string]string {
	values := a.cfg.Values()

	values["contents"] = contents.XML()
	values["leads"] = manifest.BuildLeadsXML(a.cfg.Leads)
	values["date"] = a.now().Format(DateLayout)
	values["version"] = a.version
	values["uri"] = a.uri()

	return values
}

// checkPlaceholders reports every placeholder of text that has no value.
func checkPlaceholders(text string, values map[string]string) error {
	var missing []string

	for _, key := range template.Placeholders(text) {
		if _, ok := values[key]; !ok {
			missing = append(missing, strconv.Quote(key))
		}
	}

	if len(missing) == 0 {
		return nil
	}

	return fmt.Errorf("%w: %s", template.ErrUnknownPlaceholder, strings.Join(missing, ", "))
}

// uri returns the download location of the release archive.
func (a *assembler) uri() string {
	return a.cfg.PackageBaseURI + a.cfg.PackageName + "-" + a.version + ".tgz"
}

func (a *assembler) logContents(ctx context.Context, contents *manifest.Contents) {
	for i, node := range contents.Sources {
		dirs, files := node.Count()
		logger.DebugKV(ctx, "Walked content directory", "path", a.cfg.ContentsDirs[i], "dirs", dirs, "files", files)
	}

	for i, node := range contents.Docs {
		dirs, files := node.Count()
		logger.DebugKV(ctx, "Walked docs directory", "path", a.cfg.DocsDirs[i], "dirs", dirs, "files", files)
	}
}
