// Package ffprobe runs the ffprobe binary and exposes its JSON report
// through typed accessors.
//
// Inspect shells out once per file; everything else operates on the
// decoded Result. ffprobe reports numeric container fields as strings,
// so the accessors parse on demand and fall back to zero when a value
// is missing or malformed. Frame-rate helpers understand the rational
// "30000/1001" form the tool emits.
package ffprobe
