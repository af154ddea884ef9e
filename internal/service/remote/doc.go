// Package remote implements the `feyn remote` workflow: ask a running
// feyn-server for an enumeration, print the listing and optionally download
// the rendered diagrams.
package remote
