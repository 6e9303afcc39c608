package lsp

import (
	"encoding/json"

	"commitlang/internal/config"
	"commitlang/internal/docstore"
	"commitlang/internal/source"
)

func (s *Server) handleHover(msg *rpcMessage) error {
	var params hoverParams
	if len(msg.Params) > 0 {
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return s.sendError(msg.ID, codeInvalidParams, "invalid params")
		}
	}
	uri := canonicalURI(params.TextDocument.URI)
	snap, err := s.store.Snapshot(uri)
	if err != nil {
		return s.sendResponse(msg.ID, nil)
	}
	offset := offsetFor(snap.Rope, params.Position)
	return s.sendResponse(msg.ID, buildHover(snap, s.store.Config(), offset))
}

// buildHover documents the header tokens: the commit type shows its
// vocabulary doc string, the bang its breaking change meaning. Everything
// else in a commit message is prose and gets no hover.
func buildHover(snap *docstore.Snapshot, cfg *config.Config, offset int) *hover {
	if snap.Message == nil || snap.Message.Header == nil || offset < 0 {
		return nil
	}
	h := snap.Message.Header
	off := uint32(offset)

	if touches(h.TypeSpan, off) {
		doc, ok := cfg.TypeDoc(h.Type)
		if !ok || doc == "" {
			return nil
		}
		return hoverAt(snap, h.TypeSpan, "```\n"+h.Type+"\n```\n\n"+doc)
	}
	if h.Bang && touches(h.BangSpan, off) {
		return hoverAt(snap, h.BangSpan,
			"Breaking change marker. Pair it with a `BREAKING CHANGE:` trailer describing the break.")
	}
	return nil
}

// touches is Contains plus the position just past the span, where editors
// leave the cursor after typing the token.
func touches(sp source.Span, off uint32) bool {
	return !sp.Empty() && off >= sp.Start && off <= sp.End
}

func hoverAt(snap *docstore.Snapshot, sp source.Span, markdown string) *hover {
	r := rangeForSpan(snap.Rope, sp)
	return &hover{
		Contents: markupContent{Kind: "markdown", Value: markdown},
		Range:    &r,
	}
}
