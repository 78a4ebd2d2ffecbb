// Package preflight provides readiness checks for the external tools and
// filesystem paths gifpress depends on.
//
// The CLI "gifpress doctor" command calls RunAll to render a readiness
// table before a user files a bug about a conversion that never stood a
// chance. Directory checks verify existence plus read/write/execute
// access; tool checks resolve ffmpeg and ffprobe the same way the
// conversion pipeline will.
package preflight
