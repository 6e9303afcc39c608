package lsp

import (
	"encoding/json"

	"commitlang/internal/docstore"
	"commitlang/internal/format"
)

func (s *Server) handleFormatting(msg *rpcMessage) error {
	var params documentFormattingParams
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
	return s.sendResponse(msg.ID, formattingEdits(snap))
}

func formattingEdits(snap *docstore.Snapshot) []textEdit {
	if snap.Message == nil {
		return []textEdit{}
	}
	fixes := format.Edits(snap.Message, snap.Text)
	out := make([]textEdit, 0, len(fixes))
	for _, e := range fixes {
		out = append(out, textEdit{
			Range:   rangeForSpan(snap.Rope, e.Span),
			NewText: e.NewText,
		})
	}
	return out
}
