// Package configuration implements the configuration comparison and
// propagation rules at the heart of mcpdock.
//
// A server carries a global (default) configuration; each per-agent
// installation may carry an override. The rules here decide whether an
// installation is still "tracking global" and selectively push global
// configuration changes out to exactly those installations.
//
// # Equality
//
// [Equal] is strict mapping equality: same entry count, every key present
// with an identical value. Key order is irrelevant; values are compared
// as exact strings with no normalization. Nil and empty maps are the same
// equivalence class (both mean "no entries"), so a nil override equals an
// empty one.
//
// # Propagation
//
// [Service.Propagate] is compare-and-swap-like: given the old and new
// global configuration, it rewrites only installations whose override
// equals the old global value. Installations that diverged (pinned,
// customized) are never touched, which is what keeps deliberate per-agent
// overrides from being clobbered. Propagation is not transactional: a
// failure partway through leaves earlier updates applied. The returned ID
// list is the ground truth of what actually changed.
package configuration
