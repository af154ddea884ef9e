// Package catalog implements persistence for enumeration catalogs.
//
// The FileRepository stores a catalog on disk as YAML or MessagePack, chosen
// by the file extension, and rebuilds and validates every diagram on load.
package catalog
