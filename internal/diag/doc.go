// Package diag defines the finding model shared by the parser, the detectors
// and the output layers.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Range – zero-based start/end line and UTF-16 column, the shape editors
//     consume directly.
//   - Severity – Hint, Info, Warning or Error.
//   - Code – stable string identifier. Detector findings use upper snake case
//     ids (MISSING_SIGNER); syntax problems use the numeric Code type rendered
//     as LEX/SYN ids.
//   - Message – human oriented text.
//   - Related – optional (location, message) pairs. Pair links two findings so
//     each points at the other.
//
// # Producers
//
// The lexer and parser report through Reporter with byte spans; BagReporter
// resolves spans against the owning source.File. Detectors build Diagnostics
// directly with RangeOf.
//
// Package diag does no formatting or IO. Rendering lives in internal/diagfmt.
package diag
