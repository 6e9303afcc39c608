package lsp

import "commitlang/internal/rope"

// editsFromChanges converts an LSP change batch to rope edits. Each range
// addresses the document state left by the preceding change, which is how
// clients emit incremental sync; a change without a range replaces the whole
// document. The second result is the final text, for wholesale recovery when
// the store rejects the batch.
func editsFromChanges(r rope.Rope, changes []textDocumentContentChangeEvent) ([]rope.Edit, string) {
	edits := make([]rope.Edit, 0, len(changes))
	cur := r
	for _, change := range changes {
		var start, end int
		if change.Range == nil {
			start, end = 0, cur.Len()
		} else {
			start = offsetFor(cur, change.Range.Start)
			end = offsetFor(cur, change.Range.End)
			if end < start {
				start, end = end, start
			}
		}
		edits = append(edits, rope.Edit{Start: start, End: end, Text: change.Text})
		cur = cur.Replace(start, end, change.Text)
	}
	return edits, cur.String()
}
