// Package preset defines the quality tiers users select by name and the
// merge rules that combine a tier with explicit flag overrides into the
// final conversion parameters.
//
// Merge precedence is fixed: an explicit flag wins over the preset value,
// which wins over the built-in default. The frame rate additionally goes
// through ResolveRate, which resolves the "source rate" sentinel against
// probed media properties before any encoding starts.
package preset
