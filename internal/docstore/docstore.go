// Package docstore tracks the open documents of a language server session.
//
// The store is two-level: an RWMutex guards membership, a per-entry mutex
// serializes updates to one document, so edits to different documents never
// wait on each other. Every update produces a fresh immutable Snapshot;
// readers holding an old snapshot keep a consistent view of rope, tree,
// message and diagnostics.
package docstore

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"commitlang/internal/complete"
	"commitlang/internal/config"
	"commitlang/internal/cst"
	"commitlang/internal/diag"
	"commitlang/internal/model"
	"commitlang/internal/parser"
	"commitlang/internal/rope"
	"commitlang/internal/rules"
)

// ErrNotOpen reports an operation on a document the store does not hold.
var ErrNotOpen = errors.New("document is not open")

// StaleVersionError rejects a read pinned to a version the document has
// moved past. Failing beats answering from the wrong text.
type StaleVersionError struct {
	URI   string
	Have  int
	Asked int
}

func (e *StaleVersionError) Error() string {
	return fmt.Sprintf("%s: version %d is stale, document is at version %d", e.URI, e.Asked, e.Have)
}

// Snapshot is one immutable analysis state of a document.
type Snapshot struct {
	URI         string
	Version     int
	Rope        rope.Rope
	Text        string
	Tree        *cst.Tree
	Message     *model.Message
	Diagnostics []diag.Diagnostic
}

type entry struct {
	mu   sync.Mutex
	buf  *rope.Buffer
	snap *Snapshot
}

// Store holds the open documents and the lint configuration they are
// analyzed under.
type Store struct {
	mu      sync.RWMutex
	docs    map[string]*entry
	cfg     *config.Config
	engine  *rules.Engine
	maxDiag int
}

// NewStore builds an empty store. A nil cfg means the built-in
// configuration; maxDiagnostics caps each document's diagnostic list, zero
// meaning the engine default.
func NewStore(cfg *config.Config, maxDiagnostics int) *Store {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Store{
		docs:    make(map[string]*entry),
		cfg:     cfg,
		engine:  rules.NewEngine(cfg, maxDiagnostics),
		maxDiag: maxDiagnostics,
	}
}

// Open registers a document at version and analyzes it. Reopening an already
// open URI replaces its content wholesale.
func (s *Store) Open(uri string, version int, text string) *Snapshot {
	e := &entry{buf: rope.NewBuffer(text, version)}
	e.snap = s.analyze(uri, version, e.buf.Rope(), text, parser.Parse(text))

	s.mu.Lock()
	s.docs[uri] = e
	s.mu.Unlock()
	return e.snap
}

// Change applies an edit batch at version and reanalyzes incrementally.
// The version must advance; ranges must fit the text they address. On any
// error the document keeps its previous state.
func (s *Store) Change(uri string, version int, edits []rope.Edit) (*Snapshot, error) {
	e, err := s.entry(uri)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.buf.ApplyEdits(version, edits); err != nil {
		return nil, err
	}

	tree, text := e.snap.Tree, e.snap.Text
	for _, ed := range edits {
		next := text[:ed.Start] + ed.Text + text[ed.End:]
		tree = parser.Update(tree, text, next, parser.Edit(ed))
		text = next
	}

	e.snap = s.analyze(uri, version, e.buf.Rope(), text, tree)
	return e.snap, nil
}

// Close drops the document. Closing an unknown URI reports ErrNotOpen.
func (s *Store) Close(uri string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[uri]; !ok {
		return fmt.Errorf("close %s: %w", uri, ErrNotOpen)
	}
	delete(s.docs, uri)
	return nil
}

// Diagnostics returns the document's current diagnostics. The slice belongs
// to the snapshot; callers must not modify it.
func (s *Store) Diagnostics(uri string) ([]diag.Diagnostic, error) {
	snap, err := s.Snapshot(uri)
	if err != nil {
		return nil, err
	}
	return snap.Diagnostics, nil
}

// Complete computes completion items at a byte offset, pinned to version.
// A request against any other version fails with *StaleVersionError.
func (s *Store) Complete(uri string, version int, offset int) ([]complete.Item, error) {
	snap, err := s.Snapshot(uri)
	if err != nil {
		return nil, err
	}
	if snap.Version != version {
		return nil, &StaleVersionError{URI: uri, Have: snap.Version, Asked: version}
	}
	s.mu.RLock()
	cfg := s.cfg
	s.mu.RUnlock()
	return complete.At(snap.Tree, snap.Text, cfg, offset), nil
}

// Snapshot returns the current immutable state of a document.
func (s *Store) Snapshot(uri string) (*Snapshot, error) {
	e, err := s.entry(uri)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snap, nil
}

// SetConfig swaps the configuration and relints every open document against
// it. Trees and text are reused; only diagnostics change.
func (s *Store) SetConfig(cfg *config.Config) {
	s.mu.Lock()
	s.cfg = cfg
	s.engine = rules.NewEngine(cfg, s.maxDiag)
	entries := make([]*entry, 0, len(s.docs))
	for _, e := range s.docs {
		entries = append(entries, e)
	}
	s.mu.Unlock()

	for _, e := range entries {
		e.mu.Lock()
		old := e.snap
		e.snap = s.analyze(old.URI, old.Version, old.Rope, old.Text, old.Tree)
		e.mu.Unlock()
	}
}

// Config returns the configuration documents are currently analyzed under.
func (s *Store) Config() *config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// URIs lists the open documents in stable order.
func (s *Store) URIs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	uris := make([]string, 0, len(s.docs))
	for uri := range s.docs {
		uris = append(uris, uri)
	}
	sort.Strings(uris)
	return uris
}

func (s *Store) entry(uri string) (*entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.docs[uri]
	if !ok {
		return nil, fmt.Errorf("%s: %w", uri, ErrNotOpen)
	}
	return e, nil
}

func (s *Store) analyze(uri string, version int, r rope.Rope, text string, tree *cst.Tree) *Snapshot {
	s.mu.RLock()
	engine := s.engine
	s.mu.RUnlock()

	msg := model.Extract(tree, text)
	return &Snapshot{
		URI:         uri,
		Version:     version,
		Rope:        r,
		Text:        text,
		Tree:        tree,
		Message:     msg,
		Diagnostics: engine.Run(msg, text),
	}
}
