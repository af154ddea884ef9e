// Package evaluate implements the `feyn evaluate` workflow: enumerate the
// diagrams of one order and print the summed response along a delay scan.
package evaluate
