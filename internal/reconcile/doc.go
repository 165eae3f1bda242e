// Package reconcile re-derives installation records from the agents'
// live config files.
//
// Users and other tools edit agent configs directly, so the records drift:
// a server added by hand has no record, a server removed by hand leaves a
// stale one. A reconcile pass scans every detected agent and repairs both
// directions. The watch mode keeps a pass running behind filesystem
// notifications on the agent config files.
package reconcile
