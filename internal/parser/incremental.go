package parser

import (
	"sort"

	"commitlang/internal/cst"
	"commitlang/internal/source"
)

// Edit mirrors one applied text replacement, in pre-edit byte offsets.
type Edit struct {
	Start int
	End   int
	Text  string
}

// Update reparses after a single edit. prev must be the tree for prevText,
// and newText the result of replacing prevText[Start:End] with Text. The
// edited run of top-level nodes is re-scanned and spliced into the unchanged
// surroundings when the edit provably stays local; every doubtful case falls
// back to a full reparse. Either way the result equals Parse(newText).
func Update(prev *cst.Tree, prevText, newText string, edit Edit) *cst.Tree {
	kids := prev.TopLevel()
	if len(kids) == 0 {
		return Parse(newText)
	}

	headerIdx := -1
	for i, id := range kids {
		if prev.Get(id).Kind == cst.KindHeader {
			headerIdx = i
			break
		}
	}
	if headerIdx == -1 {
		return Parse(newText)
	}

	first := nodeIndexAt(prev, kids, edit.Start)
	last := first
	if edit.End > edit.Start {
		last = nodeIndexAt(prev, kids, edit.End-1)
	}

	// paragraphs and trailers next to the region can absorb rebuilt lines;
	// pull one neighbor per side into the region
	if first > 0 && absorbing(prev.Get(kids[first-1]).Kind) {
		first--
	}
	if last+1 < len(kids) && absorbing(prev.Get(kids[last+1]).Kind) {
		last++
	}

	// edits touching the header or anything before it can move the header;
	// those reclassify the whole document
	if first <= headerIdx {
		return Parse(newText)
	}

	delta := len(edit.Text) - (edit.End - edit.Start)

	// the region must end on a line boundary in the new text, otherwise its
	// last line continues into the following node
	for {
		endNew := int(prev.Get(kids[last]).Span.End) + delta
		if endNew == len(newText) || newText[endNew-1] == '\n' {
			break
		}
		last++
	}

	// a whitespace-opening node after the region could reattach as a trailer
	// continuation depending on what the region now ends with
	if last+1 < len(kids) {
		next := prev.Get(kids[last+1])
		b := prevText[next.Span.Start]
		if (b == ' ' || b == '\t') && next.Kind != cst.KindBlankLine {
			return Parse(newText)
		}
	}

	entering := modeBody
	for _, id := range kids[headerIdx+1 : first] {
		if prev.Get(id).Kind == cst.KindTrailer {
			entering = modeTrailers
			break
		}
	}
	leavingOld := entering
	if leavingOld != modeTrailers {
		for _, id := range kids[first : last+1] {
			if prev.Get(id).Kind == cst.KindTrailer {
				leavingOld = modeTrailers
				break
			}
		}
	}

	regionStart := int(prev.Get(kids[first]).Span.Start)
	regionEnd := int(prev.Get(kids[last]).Span.End) + delta
	rebuilt, leavingNew := scanRegion(newText, regionStart, regionEnd, entering)

	// the rebuilt region may now end in a paragraph that runs straight into
	// a following paragraph; pull the neighbor in and rescan
	for len(rebuilt) > 0 && rebuilt[len(rebuilt)-1].Kind == cst.KindBodyParagraph &&
		last+1 < len(kids) && prev.Get(kids[last+1]).Kind == cst.KindBodyParagraph {
		last++
		regionEnd = int(prev.Get(kids[last]).Span.End) + delta
		rebuilt, leavingNew = scanRegion(newText, regionStart, regionEnd, entering)
	}

	if leavingNew != leavingOld {
		return Parse(newText)
	}

	t := cst.NewTree(uint(len(kids)+len(rebuilt)) + 1)
	t.SetRoot(source.NewSpan(0, u32(len(newText))))
	for _, id := range kids[:first] {
		t.Append(cloneNode(prev.Get(id)))
	}
	for i := range rebuilt {
		t.Append(rebuilt[i])
	}
	for _, id := range kids[last+1:] {
		t.Append(shiftNode(prev.Get(id), int64(delta)))
	}
	return t
}

func nodeIndexAt(prev *cst.Tree, kids []cst.NodeID, offset int) int {
	off := u32(offset)
	i := sort.Search(len(kids), func(i int) bool {
		return prev.Get(kids[i]).Span.End > off
	})
	if i == len(kids) {
		return len(kids) - 1
	}
	return i
}

// absorbing kinds can swallow adjacent lines when reparsed: paragraph runs
// and trailer continuations.
func absorbing(k cst.Kind) bool {
	return k == cst.KindBodyParagraph || k == cst.KindTrailer
}

// cloneNode copies a node whose bytes did not move. Payloads are immutable
// after parsing, so sharing them between trees is safe.
func cloneNode(n *cst.Node) cst.Node {
	return cst.Node{Kind: n.Kind, Span: n.Span, Header: n.Header, Trailer: n.Trailer}
}

// shiftNode moves a node and its payload spans by delta bytes. Zero spans
// mark absent payload fields and stay zero.
func shiftNode(n *cst.Node, delta int64) cst.Node {
	out := cst.Node{Kind: n.Kind, Span: n.Span.Shift(delta)}
	if n.Header != nil {
		h := *n.Header
		h.Type = shiftSpan(h.Type, delta)
		h.Scope = shiftSpan(h.Scope, delta)
		h.Bang = shiftSpan(h.Bang, delta)
		h.Colon = shiftSpan(h.Colon, delta)
		h.Padding = shiftSpan(h.Padding, delta)
		h.Description = shiftSpan(h.Description, delta)
		out.Header = &h
	}
	if n.Trailer != nil {
		tr := *n.Trailer
		tr.Token = shiftSpan(tr.Token, delta)
		tr.Value = shiftSpan(tr.Value, delta)
		out.Trailer = &tr
	}
	return out
}

func shiftSpan(sp source.Span, delta int64) source.Span {
	if sp.Start == 0 && sp.End == 0 {
		return sp
	}
	return sp.Shift(delta)
}
