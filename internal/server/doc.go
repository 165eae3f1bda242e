// Package server keeps the local catalog of MCP servers and applies
// global configuration changes to it.
//
// The catalog is the machine-local list of servers the user has added,
// persisted as a JSON file under the app data directory. It is distinct
// from the registry (remote, read-only) and from installation records
// (which tie catalog entries to agents).
//
// UpdateConfiguration is the write path for a server's global
// configuration: it validates the new value, swaps it into the catalog,
// and pushes it out to the installations still tracking the previous
// value. Installations that were given their own override keep it.
package server
