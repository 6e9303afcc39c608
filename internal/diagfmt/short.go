package diagfmt

import (
	"fmt"
	"io"

	"commitlang/internal/diag"
)

// Short writes the compact one-line-per-diagnostic form, the same shape the
// test goldens use.
func Short(w io.Writer, inputs []Input, showNotes bool) error {
	for _, in := range inputs {
		s := diag.Format(in.Diagnostics, in.Text, showNotes)
		if s == "" {
			continue
		}
		if _, err := fmt.Fprintln(w, s); err != nil {
			return err
		}
	}
	return nil
}
