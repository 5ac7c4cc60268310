package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/oshokin/packagexml/internal/config"
	"github.com/oshokin/packagexml/internal/logger"
	"github.com/oshokin/packagexml/internal/service/packagexml"
	"github.com/oshokin/packagexml/internal/version"
)

const (
	// exitFailure is returned for configuration, template and other runtime failures.
	exitFailure = 1
	// exitUsage is returned when the package version argument is missing.
	exitUsage = 2

	// configEnv overrides the default configuration path.
	configEnv = "PACKAGEXML_CONFIG"
)

// UsageError reports a command line that lacks the package version.
type UsageError struct {
	// Program is the name the binary was invoked as.
	Program string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("Usage: %s <package version>", e.Program)
}

// options are the flag values of the root command.
type options struct {
	// configPath to the package configuration YAML file.
	configPath string
	// date overrides the release date (YYYY-MM-DD).
	date string
	// tree prints a preview of the contents to stderr.
	tree bool
	// logLevel is the minimum level of log messages.
	logLevel string
}

// newRootCmd builds the packagexml command writing the manifest to stdout.
func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := new(options)

	rootCmd := &cobra.Command{
		Use:   "packagexml [flags] <package version>",
		Short: "Generate a PEAR package.xml for a release",
		Long: `Walks the content and documentation directories named in the package
configuration and prints a package.xml manifest built from the template.

Redirect the output to package.xml, e.g. packagexml 2.1.0 > package.xml.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return &UsageError{Program: programName()}
			}

			return cobra.ExactArgs(1)(cmd, args)
		},
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			level, ok := logger.ParseLogLevel(opts.logLevel)
			if !ok {
				return fmt.Errorf("invalid --log-level %q", opts.logLevel)
			}

			logger.SetLevel(level)

			now := time.Now
			if opts.date != "" {
				date, err := time.Parse(packagexml.DateLayout, opts.date)
				if err != nil {
					return fmt.Errorf("invalid --date: %w", err)
				}

				now = func() time.Time { return date }
			}

			warnIfTerminal(ctx, stdout)

			return packagexml.Run(ctx, &packagexml.Options{
				ConfigPath: opts.configPath,
				Version:    args[0],
				Output:     stdout,
				Now:        now,
				Tree:       opts.tree,
				TreeOutput: stderr,
			})
		},
	}

	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	defaultConfig := config.DefaultConfigFilename
	if env := os.Getenv(configEnv); env != "" {
		defaultConfig = env
	}

	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&opts.configPath, "config", "c", defaultConfig,
		"path to package configuration file (env "+configEnv+")")
	rootCmd.Flags().StringVar(&opts.date, "date", "", "release date as YYYY-MM-DD instead of today")
	rootCmd.Flags().BoolVar(&opts.tree, "tree", false, "print a preview of the contents tree to stderr")
	rootCmd.Flags().StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	version.AttachCobraVersionCommand(rootCmd)

	return rootCmd
}

// Execute runs the packagexml CLI and exits with the status matching the failure.
func Execute() {
	// A missing .env is fine.
	_ = godotenv.Load()

	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	ctx = logger.ToContext(ctx, logger.New(nil, stderr))

	rootCmd := newRootCmd(stdout, stderr)
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	var usageErr *UsageError
	if errors.As(err, &usageErr) {
		_, _ = fmt.Fprintln(stderr, usageErr.Error())

		return exitUsage
	}

	ctx = logger.WithName(ctx, "packagexml")

	switch {
	case errors.Is(err, packagexml.ErrConfig):
		logger.ErrorKV(ctx, "Could not load package configuration", "error", err)
	case errors.Is(err, packagexml.ErrTemplate):
		logger.ErrorKV(ctx, "Could not open template file", "error", err)
	default:
		logger.ErrorKV(ctx, "packagexml failed", "error", err)
	}

	return exitFailure
}

// warnIfTerminal hints at redirecting the manifest when stdout is interactive.
func warnIfTerminal(ctx context.Context, w io.Writer) {
	f, ok := w.(*os.File)
	if !ok {
		return
	}

	if term.IsTerminal(int(f.Fd())) {
		logger.Warn(ctx, "stdout is a terminal; redirect the output to package.xml")
	}
}

func programName() string {
	return filepath.Base(os.Args[0])
}
