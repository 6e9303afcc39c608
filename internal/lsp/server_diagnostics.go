package lsp

import (
	"sort"
	"time"

	"commitlang/internal/diag"
	"commitlang/internal/docstore"
)

// schedulePublish queues a document for diagnostic publishing after the
// debounce window. Edits arriving inside the window collapse into one round.
func (s *Server) schedulePublish(uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.shutdownRequested {
		return
	}
	s.pending[uri] = struct{}{}
	if s.debounceTimer != nil {
		s.debounceTimer.Stop()
	}
	s.debounceTimer = time.AfterFunc(s.debounce, s.flushDiagnostics)
}

// flushDiagnostics publishes every pending document. It runs on the timer
// goroutine; the snapshot read always reflects the newest state, so a flush
// raced by a later edit still publishes current diagnostics.
func (s *Server) flushDiagnostics() {
	s.mu.Lock()
	if s.shutdownRequested {
		s.mu.Unlock()
		return
	}
	uris := make([]string, 0, len(s.pending))
	for uri := range s.pending {
		uris = append(uris, uri)
	}
	s.pending = make(map[string]struct{})
	s.mu.Unlock()

	sort.Strings(uris)
	for _, uri := range uris {
		s.publishFor(uri)
	}
}

func (s *Server) publishFor(uri string) {
	snap, err := s.store.Snapshot(uri)
	if err != nil {
		// Closed between scheduling and the flush; didClose already cleared.
		return
	}
	list := diagnosticsToLSP(snap)

	s.mu.Lock()
	s.published[uri] = struct{}{}
	s.mu.Unlock()

	if err := s.sendPublish(uri, snap.Version, list); err != nil {
		s.logf("failed to publish diagnostics: %v", err)
		return
	}
	s.tracef("publishDiagnostics: uri=%s version=%d diags=%d", uri, snap.Version, len(list))
}

// publishAll re-publishes every open document, used after a configuration
// change invalidates previous diagnostics.
func (s *Server) publishAll() {
	for _, uri := range s.store.URIs() {
		s.publishFor(uri)
	}
}

func (s *Server) clearPublishedDiagnostics() {
	s.mu.Lock()
	if len(s.published) == 0 {
		s.mu.Unlock()
		return
	}
	prev := s.published
	s.published = make(map[string]struct{})
	s.mu.Unlock()
	for uri := range prev {
		if err := s.sendPublish(uri, 0, nil); err != nil {
			s.logf("failed to clear diagnostics: %v", err)
		}
	}
}

func (s *Server) stopDebounce() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.debounceTimer != nil {
		s.debounceTimer.Stop()
		s.debounceTimer = nil
	}
}

func diagnosticsToLSP(snap *docstore.Snapshot) []lspDiagnostic {
	out := make([]lspDiagnostic, 0, len(snap.Diagnostics))
	for _, d := range snap.Diagnostics {
		ld := lspDiagnostic{
			Range:    rangeForSpan(snap.Rope, d.Primary),
			Severity: lspSeverity(d.Severity),
			Code:     d.Code.ID(),
			Source:   "commitlang",
			Message:  d.Message,
		}
		for _, n := range d.Notes {
			ld.RelatedInformation = append(ld.RelatedInformation, diagnosticRelatedInformation{
				Location: location{URI: snap.URI, Range: rangeForSpan(snap.Rope, n.Span)},
				Message:  n.Msg,
			})
		}
		out = append(out, ld)
	}
	return out
}

func lspSeverity(sev diag.Severity) int {
	switch sev {
	case diag.SevError:
		return 1
	case diag.SevWarning:
		return 2
	case diag.SevInfo:
		return 3
	default:
		return 4
	}
}
