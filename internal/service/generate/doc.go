// Package generate implements the `feyn generate` workflow: enumerate the
// diagrams of one order, print them with their response functions and
// optionally write PNG files and a catalog to an output directory.
package generate
