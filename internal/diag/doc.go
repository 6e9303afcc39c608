// Package diag defines the diagnostic model shared by the parser, the rule
// engine, and every output surface.
//
// Diagnostic is the central record: severity, a numeric Code with a stable
// string ID, a message, the primary span, optional notes, and optional fix
// suggestions expressed as structured text edits. All fields are plain data
// so diagnostics can be sorted, deduplicated, and serialized without side
// effects.
//
// Bag aggregates diagnostics with a cap and offers deterministic ordering
// (Sort) and deduplication (Dedup). Format renders a stable one-line-per-
// entry view used by golden tests and the CLI short format.
//
// Rendering lives in internal/diagfmt; applying fixes lives in internal/fix.
package diag
