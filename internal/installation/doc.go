// Package installation owns the per-agent installation records and the
// manager that orchestrates connector I/O around them.
//
// # Records
//
// A [mcp.ServerInstallation] ties a server to an agent. The [Store] is the
// exclusive owner of all records; accessors hand out copies. The default
// store is an in-memory collection guarded by a mutex, optionally
// persisted to a JSON file, and is meant to be injected into every
// consumer (CLI commands, daemon handlers, the reconcile worker) so they
// all observe the same state.
//
// # Guarantees
//
// The [Manager] enforces two invariants on top of the store:
//
//  1. At most one record exists per (server, agent) pair. Adding an
//     already-installed pair returns the existing record unchanged with no
//     connector I/O, so installs are idempotent under retries.
//  2. No redundant connector writes. Before writing, the manager consults
//     the agent's live config file (via the agent resolver's read-through
//     view); when the entry is already on disk, only the local record is
//     created. This keeps racing auto-discovery and manual installs from
//     duplicating entries in agent files.
//
// Connector I/O and record mutation are not transactional: a crash between
// the two leaves them inconsistent until a reconcile pass re-derives the
// records from the live files.
package installation
