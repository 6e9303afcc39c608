package rope

import "unicode/utf8"

// prefixSummary returns the summary of the byte prefix [0, offset). Boundary
// chunks are rescanned; everything else comes from stored sums.
func (n *node) prefixSummary(offset int) Summary {
	if offset <= 0 {
		return Summary{}
	}
	if offset >= n.sum.Bytes {
		return n.sum
	}
	var sum Summary
	if n.height == 0 {
		for _, c := range n.chunks {
			if offset >= len(c.data) {
				sum = sum.Add(c.sum)
				offset -= len(c.data)
				continue
			}
			sum = sum.Add(ComputeSummary(c.data[:offset]))
			break
		}
		return sum
	}
	for i, child := range n.children {
		if offset >= n.childSums[i].Bytes {
			sum = sum.Add(n.childSums[i])
			offset -= n.childSums[i].Bytes
			continue
		}
		sum = sum.Add(child.prefixSummary(offset))
		break
	}
	return sum
}

// offsetOfLine returns the byte offset right after the line-th newline.
// Callers guarantee 1 <= line <= n.sum.Lines.
func (n *node) offsetOfLine(line int) int {
	off := 0
	if n.height == 0 {
		for _, c := range n.chunks {
			if line > c.sum.Lines {
				line -= c.sum.Lines
				off += len(c.data)
				continue
			}
			for i := 0; i < len(c.data); i++ {
				if c.data[i] == '\n' {
					line--
					if line == 0 {
						return off + i + 1
					}
				}
			}
		}
		return off
	}
	for i, child := range n.children {
		if line > n.childSums[i].Lines {
			line -= n.childSums[i].Lines
			off += n.childSums[i].Bytes
			continue
		}
		return off + child.offsetOfLine(line)
	}
	return off
}

// LineStart returns the byte offset at which the 0-based line begins. Lines
// past the last one map to Len.
func (r Rope) LineStart(line int) int {
	if r.root == nil || line <= 0 {
		return 0
	}
	if line > r.root.sum.Lines {
		return r.root.sum.Bytes
	}
	return r.root.offsetOfLine(line)
}

// OffsetToPosition converts a byte offset to a 0-based line and a 0-based
// UTF-16 column. Offsets outside [0, Len] clamp to the nearest end.
func (r Rope) OffsetToPosition(offset int) (line, col16 int) {
	if r.root == nil {
		return 0, 0
	}
	if offset < 0 {
		offset = 0
	}
	if offset > r.root.sum.Bytes {
		offset = r.root.sum.Bytes
	}
	pre := r.root.prefixSummary(offset)
	line = pre.Lines
	lineStart := r.LineStart(line)
	if lineStart == 0 {
		return line, pre.UTF16
	}
	return line, pre.UTF16 - r.root.prefixSummary(lineStart).UTF16
}

// PositionToOffset converts a 0-based line and UTF-16 column to a byte
// offset. Lines past the end map to Len, columns past the line end map to
// the line end, and a column splitting a surrogate pair lands after the
// character. This mirrors how LSP clients expect positions to resolve.
func (r Rope) PositionToOffset(line, col16 int) int {
	if r.root == nil {
		return 0
	}
	if line < 0 {
		line = 0
	}
	if line > r.root.sum.Lines {
		return r.root.sum.Bytes
	}
	start := r.LineStart(line)
	end := r.root.sum.Bytes
	if line < r.root.sum.Lines {
		end = r.LineStart(line+1) - 1
	}
	if col16 <= 0 {
		return start
	}
	return start + byteForUTF16Col(r.Slice(start, end), col16)
}

// byteForUTF16Col walks s until col16 UTF-16 units have been consumed and
// returns the byte index reached, or len(s) when the column lies past the
// end.
func byteForUTF16Col(s string, col16 int) int {
	units := 0
	for i := 0; i < len(s); {
		if units >= col16 {
			return i
		}
		c, size := utf8.DecodeRuneInString(s[i:])
		if c == utf8.RuneError && size == 1 {
			units++
			i++
			continue
		}
		if c > 0xFFFF {
			units += 2
		} else {
			units++
		}
		i += size
	}
	return len(s)
}
