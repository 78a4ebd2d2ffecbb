// Package services defines shared utilities consumed by the conversion
// pipeline and the CLI.
//
// Key responsibilities:
//   - Context helpers that stamp input paths, stage names, and correlation
//     identifiers for logging.
//   - Structured error markers plus the Wrap helper that keep failures
//     classifiable (tool fault vs caller mistake) across package boundaries.
//
// Use these helpers when wiring new pipeline logic so operational behaviour
// (error handling, observability) stays uniform across the tool.
package services
