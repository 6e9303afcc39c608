package fuzztests

import "testing"

// messageSeeds covers the grammar's shapes: headers with every optional
// part, bodies, trailers in both separators, comments, and the degenerate
// inputs that historically trip line scanners.
func messageSeeds() [][]byte {
	return [][]byte{
		[]byte(""),
		[]byte("\n"),
		[]byte("feat: add new feature\n"),
		[]byte("fix(parser)!: handle empty scope\n"),
		[]byte("feat:missing space\n"),
		[]byte("docs: describe setup\n\nlonger body text\nspanning two lines\n"),
		[]byte("feat: x\n\nbody\n\nReviewed-by: dev\nFixes #42\n"),
		[]byte("# comment line\nfeat: after comment\n"),
		[]byte("BREAKING CHANGE: flag removed\n"),
		[]byte("no colon here\n"),
		[]byte(": empty type\n"),
		[]byte("feat(\xF0\x9F\x8E\x89): emoji scope\n"),
		[]byte("feat: trailing spaces   \n\n\n\nbody after blank run\n"),
		[]byte("a: b\nc: d\n"),
	}
}

func addMessageSeeds(f *testing.F) {
	for _, seed := range messageSeeds() {
		f.Add(seed)
	}
}
