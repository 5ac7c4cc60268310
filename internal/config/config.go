package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Lead describes a package maintainer listed in the manifest.
type Lead struct {
	// Name is the full name of the maintainer.
	Name string `yaml:"name"`
	// User is the maintainer handle on the package channel.
	User string `yaml:"user"`
	// Email is the contact address.
	Email string `yaml:"email"`
	// Active is "yes" or "no".
	Active string `yaml:"active"`
}

// Config holds the package metadata used to render package.xml.
type Config struct {
	// Leads are the lead maintainers of the package.
	Leads []Lead `yaml:"leads"`
	// Template is the path to the package.xml template with %(name)s placeholders.
	Template string `yaml:"template"`
	// PackageName is the PEAR package name.
	PackageName string `yaml:"package_name"`
	// PackageDescription is the long description of the package.
	PackageDescription string `yaml:"package_description"`
	// PackageSummary is the one-line summary of the package.
	PackageSummary string `yaml:"package_summary"`
	// LicenseName is the license short name, e.g. LGPL.
	LicenseName string `yaml:"license_name"`
	// LicenseURI points to the license text.
	LicenseURI string `yaml:"license_uri"`
	// PackageBaseURI is the prefix of the release download URI.
	PackageBaseURI string `yaml:"package_base_uri"`
	// ContentsDirs are walked with extension-based role filtering.
	ContentsDirs []string `yaml:"contents_dirs"`
	// DocsDirs are walked with every file included and tagged as documentation.
	DocsDirs []string `yaml:"docs_dirs"`
	// ReleaseStability is the stability tag of the release, e.g. stable or beta.
	ReleaseStability string `yaml:"release_stability"`
	// Roles maps file extensions to manifest roles.
	Roles map[string]string `yaml:"roles"`
}

const (
	// DefaultConfigFilename is the default filename for package metadata.
	DefaultConfigFilename = "packagexml.yaml"

	// DefaultTemplateFilename is used when the configuration does not name a template.
	DefaultTemplateFilename = "package.xml.in"

	// DefaultReleaseStability is used when the configuration does not set a stability tag.
	DefaultReleaseStability = "stable"

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o644

	// listSeparator joins directory lists in template values.
	listSeparator = ", "
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errPackageNameRequired is returned when the package name is missing.
	errPackageNameRequired = errors.New("package name must be provided")
	// errNoDirectories is returned when neither content nor doc directories are listed.
	errNoDirectories = errors.New("at least one content or docs directory must be provided")
	// errEmptyExtension is returned when the role map has an empty key.
	errEmptyExtension = errors.New("role map contains an empty extension")
)

// DefaultRoles returns the role map used when the configuration has none.
func DefaultRoles() map[string]string {
	return map[string]string{
		"php": "php",
	}
}

// Load reads configuration from the provided path and validates essential fields.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	return nil
}

// Validate checks the provided configuration for required fields and fills defaults.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.PackageName == "" {
		return errPackageNameRequired
	}

	if len(cfg.ContentsDirs) == 0 && len(cfg.DocsDirs) == 0 {
		return errNoDirectories
	}

	if cfg.Template == "" {
		cfg.Template = DefaultTemplateFilename
	}

	if cfg.ReleaseStability == "" {
		cfg.ReleaseStability = DefaultReleaseStability
	}

	if len(cfg.Roles) == 0 {
		cfg.Roles = DefaultRoles()
	}

	for ext := range cfg.Roles {
		if ext == "" {
			return errEmptyExtension
		}
	}

	for i, lead := range cfg.Leads {
		if lead.Active != "yes" && lead.Active != "no" {
			return fmt.Errorf("lead %d (%s): active must be yes or no, got %q", i, lead.User, lead.Active)
		}
	}

	if cfg.LicenseURI != "" {
		if _, err := url.ParseRequestURI(cfg.LicenseURI); err != nil {
			return fmt.Errorf("invalid license URI: %w", err)
		}
	}

	if cfg.PackageBaseURI != "" {
		if _, err := url.ParseRequestURI(cfg.PackageBaseURI); err != nil {
			return fmt.Errorf("invalid package base URI: %w", err)
		}
	}

	return nil
}

// Values returns the configuration fields keyed by their template names.
// Directory lists are joined with ", ".
func (c *Config) Values() map[string]string {
	return map[string]string{
		"template":            c.Template,
		"package_name":        c.PackageName,
		"package_description": c.PackageDescription,
		"package_summary":     c.PackageSummary,
		"license_name":        c.LicenseName,
		"license_uri":         c.LicenseURI,
		"package_base_uri":    c.PackageBaseURI,
		"release_stability":   c.ReleaseStability,
		"contents_dirs":       strings.Join(c.ContentsDirs, listSeparator),
		"docs_dirs":           strings.Join(c.DocsDirs, listSeparator),
	}
}
