package lsp

import (
	"encoding/json"
	"errors"

	"commitlang/internal/complete"
	"commitlang/internal/docstore"
)

func (s *Server) handleCompletion(msg *rpcMessage) error {
	var params completionParams
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
	items, err := s.store.Complete(uri, snap.Version, offset)
	if err != nil {
		var stale *docstore.StaleVersionError
		if errors.As(err, &stale) {
			// An edit slipped in between the snapshot and the query; the
			// client will re-request against the new version.
			s.tracef("completion dropped: %v", stale)
			return s.sendResponse(msg.ID, completionList{IsIncomplete: true, Items: []completionItem{}})
		}
		return s.sendResponse(msg.ID, nil)
	}
	return s.sendResponse(msg.ID, completionListFrom(snap, items))
}

func completionListFrom(snap *docstore.Snapshot, items []complete.Item) completionList {
	out := make([]completionItem, 0, len(items))
	for _, it := range items {
		ci := completionItem{
			Label:  it.Label,
			Kind:   completionKind(it.Kind),
			Detail: it.Detail,
		}
		if it.Replace.Empty() {
			ci.InsertText = it.Label
		} else {
			ci.TextEdit = &textEdit{
				Range:   rangeForSpan(snap.Rope, it.Replace),
				NewText: it.Label,
			}
		}
		out = append(out, ci)
	}
	return completionList{Items: out}
}

func completionKind(k complete.Kind) int {
	switch k {
	case complete.KindKeyword:
		return 14 // Keyword
	case complete.KindValue:
		return 12 // Value
	default:
		return 20 // EnumMember
	}
}
