// Package complete computes context-sensitive completion items for a commit
// message. Dispatch follows the tree: the type position offers the configured
// type vocabulary, a finished type offers the punctuation that can follow it,
// scope parens offer the scope vocabulary, and trailer lines offer well-known
// trailer tokens plus the ones already used. Free-text positions offer
// nothing. The engine never mutates; version bookkeeping lives in the store.
package complete

import (
	"fmt"
	"sort"
	"strings"

	"fortio.org/safecast"

	"commitlang/internal/config"
	"commitlang/internal/cst"
	"commitlang/internal/source"
)

// Kind classifies an item; the LSP layer maps it onto protocol kinds.
type Kind uint8

const (
	KindKeyword Kind = iota
	KindValue
	KindEnum
)

func (k Kind) String() string {
	switch k {
	case KindKeyword:
		return "keyword"
	case KindValue:
		return "value"
	default:
		return "enum"
	}
}

// Item is one suggestion. Replace is the byte range the label substitutes;
// an empty span means plain insertion at the cursor.
type Item struct {
	Label   string
	Kind    Kind
	Detail  string
	Replace source.Span
}

// wellKnownTrailers are offered on every trailer line, in this order.
var wellKnownTrailers = []Item{
	{Label: "BREAKING CHANGE", Kind: KindKeyword, Detail: "marks a breaking change"},
	{Label: "Closes", Kind: KindKeyword, Detail: "closes a referenced issue"},
	{Label: "Fixes", Kind: KindKeyword, Detail: "fixes a referenced issue"},
	{Label: "Co-authored-by", Kind: KindKeyword, Detail: "credits a co-author"},
	{Label: "Reviewed-by", Kind: KindKeyword, Detail: "records the reviewer"},
	{Label: "Signed-off-by", Kind: KindKeyword, Detail: "records the sign-off"},
}

// At computes the items for a cursor position. The tree and text must
// describe the same document; offsets outside it yield nil.
func At(t *cst.Tree, text string, cfg *config.Config, offset int) []Item {
	if t == nil || cfg == nil || offset < 0 || offset > len(text) {
		return nil
	}
	off := u32(offset)
	kids := t.TopLevel()

	var header *cst.Node
	headerIdx := -1
	for i, id := range kids {
		if n := t.Get(id); n.Kind == cst.KindHeader {
			header, headerIdx = n, i
			break
		}
	}

	// No header yet: every non-comment position is a future header line.
	if headerIdx < 0 {
		if onComment(t, kids, off) {
			return nil
		}
		return typeItems(cfg, source.NewSpan(off, off))
	}

	if off < header.Span.Start {
		if onComment(t, kids, off) {
			return nil
		}
		return typeItems(cfg, source.NewSpan(off, off))
	}

	lineEnd := header.Span.End
	if lineEnd > header.Span.Start && text[lineEnd-1] == '\n' {
		lineEnd--
	}
	if off <= lineEnd {
		return headerItems(header.Header, text, cfg, off)
	}

	trailerIdx := -1
	for i, id := range kids {
		if t.Get(id).Kind == cst.KindTrailer {
			trailerIdx = i
			break
		}
	}
	if trailerIdx < 0 || nodeIndexAt(t, kids, off) < trailerIdx {
		return nil
	}
	return trailerItems(t, kids, text, off)
}

func headerItems(h *cst.Header, text string, cfg *config.Config, off uint32) []Item {
	if off >= h.Type.Start && off <= h.Type.End {
		typed := text[h.Type.Start:off]
		if off == h.Type.End && cfg.HasType(typed) &&
			!h.Flags.Has(cst.HeaderHasScope) && h.Colon.Empty() {
			at := source.NewSpan(off, off)
			return []Item{
				{Label: "(", Kind: KindKeyword, Detail: "open a scope", Replace: at},
				{Label: ":", Kind: KindKeyword, Detail: "start the description", Replace: at},
			}
		}
		return typeItems(cfg, h.Type)
	}
	if h.Flags.Has(cst.HeaderHasScope) && off >= h.Scope.Start && off <= h.Scope.End {
		return scopeItems(cfg, h.Scope)
	}
	return nil
}

// trailerItems suggests tokens at the token position of a trailer-zone line.
// Value positions, continuations past a separator, and comments get nothing.
func trailerItems(t *cst.Tree, kids []cst.NodeID, text string, off uint32) []Item {
	lineStart := off
	for lineStart > 0 && text[lineStart-1] != '\n' {
		lineStart--
	}
	if int(lineStart) < len(text) && text[lineStart] == '#' {
		return nil
	}
	prefix := text[lineStart:off]
	if strings.ContainsAny(prefix, ":#") {
		return nil
	}

	replace := source.NewSpan(lineStart, off)
	n := t.Get(t.FindAt(off))
	if n.Kind == cst.KindTrailer && off >= n.Trailer.Token.Start && off <= n.Trailer.Token.End {
		replace = n.Trailer.Token
	}

	items := make([]Item, 0, len(wellKnownTrailers))
	seen := make(map[string]bool, len(wellKnownTrailers))
	for _, it := range wellKnownTrailers {
		it.Replace = replace
		items = append(items, it)
		seen[it.Label] = true
	}

	var used []string
	for _, id := range kids {
		node := t.Get(id)
		if node.Kind != cst.KindTrailer {
			continue
		}
		token := text[node.Trailer.Token.Start:node.Trailer.Token.End]
		if !seen[token] {
			seen[token] = true
			used = append(used, token)
		}
	}
	sort.Strings(used)
	for _, token := range used {
		items = append(items, Item{Label: token, Kind: KindValue, Detail: "used in this message", Replace: replace})
	}
	return items
}

func typeItems(cfg *config.Config, replace source.Span) []Item {
	items := make([]Item, 0, len(cfg.Types))
	for _, t := range cfg.Types {
		items = append(items, Item{Label: t.Name, Kind: KindEnum, Detail: t.Doc, Replace: replace})
	}
	return items
}

func scopeItems(cfg *config.Config, replace source.Span) []Item {
	if !cfg.ScopesConfigured() {
		return nil
	}
	items := make([]Item, 0, len(cfg.Scopes))
	for _, s := range cfg.Scopes {
		items = append(items, Item{Label: s, Kind: KindEnum, Detail: "scope", Replace: replace})
	}
	return items
}

func onComment(t *cst.Tree, kids []cst.NodeID, off uint32) bool {
	if len(kids) == 0 {
		return false
	}
	n := t.Get(t.FindAt(off))
	return n.Kind == cst.KindCommentLine && n.Span.Contains(off)
}

func nodeIndexAt(t *cst.Tree, kids []cst.NodeID, off uint32) int {
	i := sort.Search(len(kids), func(i int) bool {
		return t.Get(kids[i]).Span.End > off
	})
	if i == len(kids) {
		return len(kids) - 1
	}
	return i
}

func u32(v int) uint32 {
	n, err := safecast.Conv[uint32](v)
	if err != nil {
		panic(fmt.Errorf("offset overflow: %w", err))
	}
	return n
}
