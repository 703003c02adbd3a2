// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The mirror pipeline is split along responsibility lines: Fetcher
// retrieves one node's children with retries, Walker expands and
// flattens trees, Upserter delivers candidates, and Orchestrator
// composes them across roots.
package services
