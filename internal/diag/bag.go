package diag

import "sort"

// Bag accumulates diagnostics up to a limit and normalizes them for output.
type Bag struct {
	list  []Diagnostic
	limit int
}

func NewBag(limit int) *Bag {
	if limit <= 0 {
		limit = 100
	}
	return &Bag{limit: limit}
}

// Add reports false once the bag is full; the diagnostic is dropped.
func (b *Bag) Add(d Diagnostic) bool {
	if len(b.list) >= b.limit {
		return false
	}
	b.list = append(b.list, d)
	return true
}

func (b *Bag) Len() int { return len(b.list) }

// Items exposes the backing slice; callers must treat it as read-only.
func (b *Bag) Items() []Diagnostic { return b.list }

func (b *Bag) HasErrors() bool   { return b.anyAtLeast(SevError) }
func (b *Bag) HasWarnings() bool { return b.anyAtLeast(SevWarning) }

func (b *Bag) anyAtLeast(floor Severity) bool {
	for i := range b.list {
		if b.list[i].Severity >= floor {
			return true
		}
	}
	return false
}

// Sort fixes the output order: range start, range end, severity high to low,
// code ID. Stable so equal diagnostics keep emission order.
func (b *Bag) Sort() {
	sort.SliceStable(b.list, func(i, j int) bool {
		return diagLess(b.list[i], b.list[j])
	})
}

func diagLess(a, b Diagnostic) bool {
	if a.Primary.Start != b.Primary.Start {
		return a.Primary.Start < b.Primary.Start
	}
	if a.Primary.End != b.Primary.End {
		return a.Primary.End < b.Primary.End
	}
	if a.Severity != b.Severity {
		return a.Severity > b.Severity
	}
	return a.Code.ID() < b.Code.ID()
}

type dedupKey struct {
	code       Code
	start, end uint32
}

// Dedup drops later duplicates keyed by code and primary span.
func (b *Bag) Dedup() {
	seen := make(map[dedupKey]struct{}, len(b.list))
	kept := b.list[:0]
	for _, d := range b.list {
		key := dedupKey{d.Code, d.Primary.Start, d.Primary.End}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, d)
	}
	b.list = kept
}
