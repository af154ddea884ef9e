// Package render implements the `feyn render` workflow: load a saved catalog
// and draw every diagram in it again, e.g. at a different size.
package render
