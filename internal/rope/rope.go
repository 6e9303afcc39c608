package rope

import "strings"

// Tree geometry. Chunks keep leaf text bounded; node fan-out keeps the tree
// shallow for the short documents this package stores.
const (
	maxChunkSize     = 256
	targetChunkSize  = 192
	maxChildren      = 8
	maxChunksPerLeaf = 4
)

// Rope is an immutable balanced tree of text chunks. Every operation returns
// a new Rope sharing untouched subtrees with the original, so snapshots stay
// valid across edits.
type Rope struct {
	root *node
}

type chunk struct {
	data string
	sum  Summary
}

func newChunk(s string) chunk {
	return chunk{data: s, sum: ComputeSummary(s)}
}

// node is either a leaf (height 0, chunks set) or an internal node
// (height > 0, children set). childSums mirrors children for seeking.
type node struct {
	height    uint8
	sum       Summary
	children  []*node
	childSums []Summary
	chunks    []chunk
}

func newLeaf(chunks []chunk) *node {
	n := &node{chunks: chunks}
	for _, c := range chunks {
		n.sum = n.sum.Add(c.sum)
	}
	return n
}

func newInternal(children []*node) *node {
	if len(children) == 0 {
		return newLeaf(nil)
	}
	n := &node{
		height:    children[0].height + 1,
		children:  children,
		childSums: make([]Summary, len(children)),
	}
	for i, child := range children {
		n.childSums[i] = child.sum
		n.sum = n.sum.Add(child.sum)
	}
	return n
}

// FromString builds a rope from s.
func FromString(s string) Rope {
	return Rope{root: buildFromChildren([]*node{newLeaf(splitIntoChunks(s))})}
}

func splitIntoChunks(s string) []chunk {
	if len(s) == 0 {
		return nil
	}
	if len(s) <= maxChunkSize {
		return []chunk{newChunk(s)}
	}
	var chunks []chunk
	for len(s) > 0 {
		if len(s) <= maxChunkSize {
			chunks = append(chunks, newChunk(s))
			break
		}
		cut := utf8Boundary(s, targetChunkSize)
		chunks = append(chunks, newChunk(s[:cut]))
		s = s[cut:]
	}
	return chunks
}

// utf8Boundary picks a split point at or after target that does not cut a
// rune in half.
func utf8Boundary(s string, target int) int {
	if target >= len(s) {
		return len(s)
	}
	for target < len(s) && s[target]&0xC0 == 0x80 {
		target++
	}
	return target
}

func (r Rope) Len() int {
	if r.root == nil {
		return 0
	}
	return r.root.sum.Bytes
}

// Lines returns the number of lines; a rope without newlines has one.
func (r Rope) Lines() int {
	if r.root == nil {
		return 1
	}
	return r.root.sum.Lines + 1
}

// UTF16Len returns the length of the text in UTF-16 code units.
func (r Rope) UTF16Len() int {
	if r.root == nil {
		return 0
	}
	return r.root.sum.UTF16
}

func (r Rope) String() string {
	if r.root == nil {
		return ""
	}
	var sb strings.Builder
	sb.Grow(r.root.sum.Bytes)
	r.root.appendTo(&sb)
	return sb.String()
}

func (n *node) appendTo(sb *strings.Builder) {
	if n.height == 0 {
		for _, c := range n.chunks {
			sb.WriteString(c.data)
		}
		return
	}
	for _, child := range n.children {
		child.appendTo(sb)
	}
}

// Slice extracts the text in byte range [start, end). Out-of-range bounds
// are clamped; an inverted range yields "".
func (r Rope) Slice(start, end int) string {
	if r.root == nil {
		return ""
	}
	if start < 0 {
		start = 0
	}
	if end > r.root.sum.Bytes {
		end = r.root.sum.Bytes
	}
	if start >= end {
		return ""
	}
	var sb strings.Builder
	sb.Grow(end - start)
	r.root.appendRange(&sb, start, end)
	return sb.String()
}

func (n *node) appendRange(sb *strings.Builder, start, end int) {
	if start >= end {
		return
	}
	if n.height == 0 {
		off := 0
		for _, c := range n.chunks {
			chunkEnd := off + len(c.data)
			if chunkEnd <= start {
				off = chunkEnd
				continue
			}
			if off >= end {
				break
			}
			lo, hi := 0, len(c.data)
			if start > off {
				lo = start - off
			}
			if end < chunkEnd {
				hi = end - off
			}
			sb.WriteString(c.data[lo:hi])
			off = chunkEnd
		}
		return
	}

	off := 0
	for i, child := range n.children {
		childEnd := off + n.childSums[i].Bytes
		if childEnd <= start {
			off = childEnd
			continue
		}
		if off >= end {
			break
		}
		lo, hi := 0, n.childSums[i].Bytes
		if start > off {
			lo = start - off
		}
		if end < childEnd {
			hi = end - off
		}
		child.appendRange(sb, lo, hi)
		off = childEnd
	}
}

// Replace substitutes the byte range [start, end) with text, returning a new
// rope. Bounds must be valid; Buffer validates before calling.
func (r Rope) Replace(start, end int, text string) Rope {
	left, rest := r.split(start)
	_, right := rest.split(end - start)
	mid := Rope{root: buildFromChildren([]*node{newLeaf(splitIntoChunks(text))})}
	return left.concat(mid).concat(right)
}

func (r Rope) split(offset int) (Rope, Rope) {
	if r.root == nil {
		return Rope{root: newLeaf(nil)}, Rope{root: newLeaf(nil)}
	}
	l, rt := r.root.split(offset)
	return Rope{root: l}, Rope{root: rt}
}

func (r Rope) concat(other Rope) Rope {
	if r.root == nil || r.root.sum.Bytes == 0 {
		return other
	}
	if other.root == nil || other.root.sum.Bytes == 0 {
		return r
	}
	return Rope{root: concatNodes(r.root, other.root)}
}

func (n *node) split(offset int) (*node, *node) {
	if offset <= 0 {
		return newLeaf(nil), n
	}
	if offset >= n.sum.Bytes {
		return n, newLeaf(nil)
	}

	if n.height == 0 {
		var leftChunks, rightChunks []chunk
		off := 0
		for _, c := range n.chunks {
			chunkEnd := off + len(c.data)
			switch {
			case chunkEnd <= offset:
				leftChunks = append(leftChunks, c)
			case off >= offset:
				rightChunks = append(rightChunks, c)
			default:
				cut := offset - off
				if cut > 0 {
					leftChunks = append(leftChunks, newChunk(c.data[:cut]))
				}
				if cut < len(c.data) {
					rightChunks = append(rightChunks, newChunk(c.data[cut:]))
				}
			}
			off = chunkEnd
		}
		return newLeaf(leftChunks), newLeaf(rightChunks)
	}

	var leftChildren, rightChildren []*node
	off := 0
	for i, child := range n.children {
		childEnd := off + n.childSums[i].Bytes
		switch {
		case childEnd <= offset:
			leftChildren = append(leftChildren, child)
		case off >= offset:
			rightChildren = append(rightChildren, child)
		default:
			l, rt := child.split(offset - off)
			if l.sum.Bytes > 0 {
				leftChildren = append(leftChildren, l)
			}
			if rt.sum.Bytes > 0 {
				rightChildren = append(rightChildren, rt)
			}
		}
		off = childEnd
	}
	return buildFromChildren(leftChildren), buildFromChildren(rightChildren)
}

func buildFromChildren(children []*node) *node {
	switch {
	case len(children) == 0:
		return newLeaf(nil)
	case len(children) == 1:
		return children[0]
	case len(children) <= maxChildren:
		return newInternal(children)
	}
	var parents []*node
	for i := 0; i < len(children); i += maxChildren {
		end := i + maxChildren
		if end > len(children) {
			end = len(children)
		}
		parents = append(parents, newInternal(children[i:end]))
	}
	return buildFromChildren(parents)
}

func concatNodes(left, right *node) *node {
	if left.height == 0 && right.height == 0 {
		total := len(left.chunks) + len(right.chunks)
		if total <= maxChunksPerLeaf {
			chunks := make([]chunk, 0, total)
			chunks = append(chunks, left.chunks...)
			chunks = append(chunks, right.chunks...)
			return newLeaf(chunks)
		}
		return newInternal([]*node{left, right})
	}

	for left.height < right.height {
		left = newInternal([]*node{left})
	}
	for right.height < left.height {
		right = newInternal([]*node{right})
	}

	if left.height == 0 {
		return concatNodes(left, right)
	}
	all := make([]*node, 0, len(left.children)+len(right.children))
	all = append(all, left.children...)
	all = append(all, right.children...)
	return buildFromChildren(all)
}
