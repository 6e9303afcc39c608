// Package fuzztests houses Go fuzz harnesses that exercise the message
// pipeline (parse -> extract -> lint). Its goal is to smoke test robustness
// and guard against panics, broken tree invariants, and incremental reparses
// that diverge from a from-scratch parse on arbitrary inputs.
package fuzztests
