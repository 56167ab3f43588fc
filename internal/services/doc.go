// Package services defines shared utilities consumed by the relocation
// pipeline, the host adapter, and the CLI.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, host event names, and album labels
//     so log lines from one relocation run can be correlated.
//   - Structured error markers plus the Wrap helper that tag failures with a
//     category (configuration, conflict, filesystem) that callers can test
//     with errors.Is.
//
// Use these helpers when wiring new components so operational behaviour
// (error wording, observability) stays uniform across the tool.
package services
