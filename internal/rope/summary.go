package rope

import "unicode/utf8"

// Summary holds aggregated metrics for a chunk or subtree. Summaries form a
// monoid under Add, which lets the tree answer offset, line, and UTF-16
// queries without touching the text.
type Summary struct {
	Bytes int
	UTF16 int // UTF-16 code units; invalid bytes count as one unit
	Lines int // number of '\n' bytes
}

func (s Summary) Add(other Summary) Summary {
	return Summary{
		Bytes: s.Bytes + other.Bytes,
		UTF16: s.UTF16 + other.UTF16,
		Lines: s.Lines + other.Lines,
	}
}

// ComputeSummary scans a string once and derives its metrics.
func ComputeSummary(s string) Summary {
	sum := Summary{Bytes: len(s)}
	for i := 0; i < len(s); {
		b := s[i]
		if b < utf8.RuneSelf {
			if b == '\n' {
				sum.Lines++
			}
			sum.UTF16++
			i++
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			sum.UTF16++
			i++
			continue
		}
		if r > 0xFFFF {
			sum.UTF16 += 2
		} else {
			sum.UTF16++
		}
		i += size
	}
	return sum
}
