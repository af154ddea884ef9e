// Package diagram implements the gRPC transport for the diagram service.
//
// The service feynman.v1.DiagramService is declared in Go on top of the
// well-known protobuf types: requests and enumeration results travel as
// google.protobuf.Struct, rendered images as google.protobuf.BytesValue.
// The package adapts domain types to those messages and exposes a server that
// calls into a provided business-service interface.
package diagram
