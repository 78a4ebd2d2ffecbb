// Package history persists completed conversion runs in SQLite.
//
// The Store records the effective parameters, artifact sizes, size-fit
// adjustment trail, and outcome of each conversion so "gifpress history"
// can answer "what settings produced that GIF last week". Recording is
// best-effort: the CLI logs and continues when the store is unavailable,
// and a conversion never fails because its history row did not land.
//
// The database is an archive with a bounded retention window; every insert
// prunes rows beyond the configured keep limit. Schema changes bump the
// version in schema.go; users clear the database to adopt the new schema.
package history
