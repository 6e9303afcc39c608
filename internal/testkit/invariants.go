package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"commitlang/internal/cst"
	"commitlang/internal/source"
)

// CheckTreeInvariants runs the lossless-tree invariants on a parsed message:
// 1) the root span covers the whole text
// 2) top-level spans are non-empty and contiguous from 0 to len(text), in
// document order; that is the round-trip guarantee
// 3) every top-level node points back to the root
// 4) header and trailer payload spans sit inside their node's span
func CheckTreeInvariants(t *cst.Tree, text string) error {
	if t == nil {
		return fmt.Errorf("nil tree")
	}
	root := t.Get(t.Root())
	if root == nil {
		return fmt.Errorf("tree has no root")
	}
	lenText, err := safecast.Conv[uint32](len(text))
	if err != nil {
		return fmt.Errorf("text length overflow: %w", err)
	}
	if root.Span.Start != 0 || root.Span.End != lenText {
		return fmt.Errorf("root span %v does not cover text of %d bytes", root.Span, lenText)
	}

	var cursor uint32
	for _, id := range t.TopLevel() {
		n := t.Get(id)
		if n == nil {
			return fmt.Errorf("nil node for id=%d", id)
		}
		if n.Parent != t.Root() {
			return fmt.Errorf("node %d parent = %d, want root %d", id, n.Parent, t.Root())
		}
		if n.Span.End <= n.Span.Start {
			return fmt.Errorf("empty node span: %v", n.Span)
		}
		if n.Span.Start != cursor {
			return fmt.Errorf("node %d starts at %d, want %d (gap or overlap)", id, n.Span.Start, cursor)
		}
		cursor = n.Span.End

		if n.Header != nil {
			for _, part := range []struct {
				name string
				sp   source.Span
			}{
				{"type", n.Header.Type},
				{"scope", n.Header.Scope},
				{"bang", n.Header.Bang},
				{"colon", n.Header.Colon},
				{"padding", n.Header.Padding},
				{"description", n.Header.Description},
			} {
				if err := spanInside(part.sp, n.Span, part.name); err != nil {
					return err
				}
			}
		}
		if n.Trailer != nil {
			if err := spanInside(n.Trailer.Token, n.Span, "token"); err != nil {
				return err
			}
			if err := spanInside(n.Trailer.Value, n.Span, "value"); err != nil {
				return err
			}
		}
	}
	if cursor != lenText {
		return fmt.Errorf("top-level spans end at %d, want %d", cursor, lenText)
	}
	return nil
}

// spanInside allows empty payload spans (absent fields) and requires
// non-empty ones to sit within the owning node.
func spanInside(sp, owner source.Span, name string) error {
	if sp.Empty() && sp.Start == 0 {
		return nil
	}
	if sp.Start < owner.Start || sp.End > owner.End {
		return fmt.Errorf("%s span %v is outside node span %v", name, sp, owner)
	}
	return nil
}
