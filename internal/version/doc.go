// Package version exposes build metadata of the packagexml binary.
//
// Variables Version, Commit, and BuildTime are injected at build time via
// Go ldflags. They describe the tool itself and are unrelated to the
// release version passed on the command line.
package version
