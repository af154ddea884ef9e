// Package common holds helpers shared by several services.
//
// It provides a lightweight gRPC client wrapper for the diagram service with
// timeouts, the enumeration pipeline that pairs every diagram with its response
// formula, and detection of the current user and host for catalog provenance.
//
//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common
