// Package version exposes build metadata for the feyn binaries.
//
// Version, Commit and BuildTime are injected via -ldflags at release time.
package version
