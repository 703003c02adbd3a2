// Package domain defines the core business entities for Canopy.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Node: One document in the source hierarchical tree
//   - RootRef: A lightweight reference to a top-level document
//   - Envelope: The write-only representation sent to the destination
//   - RunResult: The accumulated outcome of one mirror pass
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
