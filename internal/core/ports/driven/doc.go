// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - SourceClient: Lists roots and children of the source document tree
//   - DestinationClient: Writes envelopes into the destination store
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil or replaced with no-ops:
//
//   - SyncObserver: Receives diagnostic events during a run. The core
//     never depends on it for correctness; NopObserver is the default.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
