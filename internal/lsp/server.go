// Package lsp serves commit message analysis over the Language Server
// Protocol: diagnostics pushed on every edit, completion, hover on the
// header, and document formatting, speaking JSON-RPC over stdio.
package lsp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"commitlang/internal/config"
	"commitlang/internal/docstore"
)

var (
	// ErrExit signals a graceful shutdown after receiving "exit".
	ErrExit = errors.New("lsp exit")
	// ErrExitWithoutShutdown signals an "exit" without a preceding "shutdown".
	ErrExitWithoutShutdown = errors.New("lsp exit without shutdown")
)

// JSON-RPC error codes the server answers with.
const (
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
)

// ServerOptions configures LSP server behavior.
type ServerOptions struct {
	// Debounce delays diagnostic publishing after an edit so bursts of
	// keystrokes produce one analysis round trip.
	Debounce time.Duration
	// Config pins the lint configuration. When nil, the server discovers a
	// commitlang.toml from the workspace root given at initialize.
	Config         *config.Config
	MaxDiagnostics int
	Trace          bool
}

// Server handles stdio JSON-RPC for the commitlang LSP. Document state
// lives in a docstore.Store; the server owns the wire protocol, the
// position encoding boundary, and publish debouncing.
type Server struct {
	in     *bufio.Reader
	out    *bufio.Writer
	sendMu sync.Mutex

	store *docstore.Store

	mu                sync.Mutex
	published         map[string]struct{}
	pending           map[string]struct{}
	debounce          time.Duration
	debounceTimer     *time.Timer
	shutdownRequested bool
	trace             bool
	pinnedConfig      bool
}

// NewServer constructs a new LSP server.
func NewServer(in io.Reader, out io.Writer, opts ServerOptions) *Server {
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = 200 * time.Millisecond
	}
	return &Server{
		in:           bufio.NewReader(in),
		out:          bufio.NewWriter(out),
		store:        docstore.NewStore(opts.Config, opts.MaxDiagnostics),
		published:    make(map[string]struct{}),
		pending:      make(map[string]struct{}),
		debounce:     debounce,
		trace:        opts.Trace,
		pinnedConfig: opts.Config != nil,
	}
}

// Run serves LSP requests until exit or read failure. A client disconnect
// (EOF) is a normal return.
func (s *Server) Run(ctx context.Context) error {
	defer s.stopDebounce()
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		msg, err := s.readNext()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if msg == nil || msg.Method == "" {
			continue
		}
		if err := s.handleMessage(msg); err != nil {
			return err
		}
	}
}

// readNext reads one frame and decodes the envelope. Undecodable frames are
// logged and reported as a nil message; the session keeps going.
func (s *Server) readNext() (*rpcMessage, error) {
	payload, err := readFrame(s.in)
	if err != nil {
		return nil, err
	}
	var msg rpcMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		s.logf("failed to parse message: %v", err)
		return nil, nil
	}
	return &msg, nil
}

func (s *Server) handleMessage(msg *rpcMessage) error {
	switch msg.Method {
	// Lifecycle.
	case "initialize":
		return s.handleInitialize(msg)
	case "initialized":
		return nil
	case "shutdown":
		return s.handleShutdown(msg)
	case "exit":
		s.mu.Lock()
		requested := s.shutdownRequested
		s.mu.Unlock()
		if requested {
			return ErrExit
		}
		return ErrExitWithoutShutdown

	// Document sync.
	case "textDocument/didOpen":
		return s.handleDidOpen(msg)
	case "textDocument/didChange":
		return s.handleDidChange(msg)
	case "textDocument/didSave":
		return s.handleDidSave(msg)
	case "textDocument/didClose":
		return s.handleDidClose(msg)

	// Language features.
	case "textDocument/completion":
		return s.handleCompletion(msg)
	case "textDocument/hover":
		return s.handleHover(msg)
	case "textDocument/formatting":
		return s.handleFormatting(msg)

	// Workspace.
	case "workspace/didChangeConfiguration":
		return s.handleDidChangeConfiguration(msg)

	default:
		// Unknown "$/" traffic is optional by protocol, everything else a
		// client awaits a reply for gets method-not-found.
		if len(msg.ID) > 0 {
			return s.sendError(msg.ID, codeMethodNotFound, "method not found")
		}
		return nil
	}
}

// decodeParams unmarshals a params payload into its wire struct.
func decodeParams[T any](raw json.RawMessage) (T, error) {
	var params T
	err := json.Unmarshal(raw, &params)
	return params, err
}

func (s *Server) handleInitialize(msg *rpcMessage) error {
	var params initializeParams
	if len(msg.Params) > 0 {
		decoded, err := decodeParams[initializeParams](msg.Params)
		if err != nil {
			return s.sendError(msg.ID, codeInvalidParams, "invalid params")
		}
		params = decoded
	}
	s.loadWorkspaceConfig(workspaceRoot(params))

	return s.sendResponse(msg.ID, initializeResult{
		Capabilities: serverCapabilities{
			TextDocumentSync: textDocumentSyncOptions{
				OpenClose: true,
				Change:    2,
				Save: saveOptions{
					IncludeText: true,
				},
			},
			HoverProvider: true,
			CompletionProvider: &completionOptions{
				TriggerCharacters: []string{"(", ":"},
			},
			DocumentFormattingProvider: true,
		},
	})
}

// workspaceRoot picks the first usable root the client offered, in the
// order the protocol deprecates them: rootUri, rootPath, workspace folders.
func workspaceRoot(params initializeParams) string {
	candidates := []string{uriToPath(params.RootURI), params.RootPath}
	if len(params.WorkspaceFolders) > 0 {
		candidates = append(candidates, uriToPath(params.WorkspaceFolders[0].URI))
	}
	for _, c := range candidates {
		if c != "" {
			return absolute(c)
		}
	}
	return ""
}

// loadWorkspaceConfig adopts the commitlang.toml governing the workspace
// root, unless the caller pinned a configuration explicitly.
func (s *Server) loadWorkspaceConfig(root string) {
	if root == "" {
		return
	}
	s.mu.Lock()
	pinned := s.pinnedConfig
	s.mu.Unlock()
	if pinned {
		return
	}
	cfg, path, err := config.Discover(root)
	if err != nil {
		s.logf("failed to load workspace configuration: %v", err)
		return
	}
	if path == "" {
		return
	}
	s.store.SetConfig(cfg)
	s.tracef("configuration loaded from %s", path)
}

func (s *Server) handleShutdown(msg *rpcMessage) error {
	s.mu.Lock()
	s.shutdownRequested = true
	s.mu.Unlock()
	s.stopDebounce()
	s.clearPublishedDiagnostics()
	return s.sendResponse(msg.ID, nil)
}

func (s *Server) handleDidOpen(msg *rpcMessage) error {
	params, err := decodeParams[didOpenTextDocumentParams](msg.Params)
	if err != nil {
		return err
	}
	uri := canonicalURI(params.TextDocument.URI)
	if uri == "" {
		return nil
	}
	s.store.Open(uri, params.TextDocument.Version, params.TextDocument.Text)
	s.tracef("didOpen: uri=%s version=%d", uri, params.TextDocument.Version)
	s.schedulePublish(uri)
	return nil
}

func (s *Server) handleDidChange(msg *rpcMessage) error {
	params, err := decodeParams[didChangeTextDocumentParams](msg.Params)
	if err != nil {
		return err
	}
	uri := canonicalURI(params.TextDocument.URI)
	if uri == "" || len(params.ContentChanges) == 0 {
		return nil
	}
	version := params.TextDocument.Version

	snap, err := s.store.Snapshot(uri)
	if err != nil {
		s.logf("didChange for a document that is not open: %s", uri)
		return nil
	}
	edits, full := editsFromChanges(snap.Rope, params.ContentChanges)
	if _, err := s.store.Change(uri, version, edits); err != nil {
		// The client is authoritative. Resynchronize wholesale rather than
		// serving analysis of text the editor no longer shows.
		s.logf("incremental change rejected (%v), reopening %s at version %d", err, uri, version)
		s.store.Open(uri, version, full)
	}
	s.tracef("didChange: uri=%s version=%d changes=%d", uri, version, len(params.ContentChanges))
	s.schedulePublish(uri)
	return nil
}

func (s *Server) handleDidSave(msg *rpcMessage) error {
	params, err := decodeParams[didSaveTextDocumentParams](msg.Params)
	if err != nil {
		return err
	}
	uri := canonicalURI(params.TextDocument.URI)
	if uri == "" || params.Text == nil {
		return nil
	}
	snap, err := s.store.Snapshot(uri)
	if err != nil {
		return nil
	}
	if snap.Text != *params.Text {
		s.logf("document %s diverged from the editor, resynchronizing", uri)
		s.store.Open(uri, snap.Version, *params.Text)
		s.schedulePublish(uri)
	}
	return nil
}

func (s *Server) handleDidClose(msg *rpcMessage) error {
	params, err := decodeParams[didCloseTextDocumentParams](msg.Params)
	if err != nil {
		return err
	}
	uri := canonicalURI(params.TextDocument.URI)
	if uri == "" {
		return nil
	}
	if err := s.store.Close(uri); err != nil {
		s.tracef("didClose: %v", err)
	}
	s.mu.Lock()
	delete(s.pending, uri)
	_, hadDiagnostics := s.published[uri]
	delete(s.published, uri)
	s.mu.Unlock()
	if hadDiagnostics {
		if err := s.sendPublish(uri, 0, nil); err != nil {
			s.logf("failed to clear diagnostics: %v", err)
		}
	}
	return nil
}

func (s *Server) sendResponse(id json.RawMessage, result any) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return s.send(rpcMessage{JSONRPC: "2.0", ID: id, Result: raw})
}

func (s *Server) sendError(id json.RawMessage, code int, message string) error {
	return s.send(rpcMessage{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &rpcError{Code: code, Message: message},
	})
}

func (s *Server) notify(method string, params any) error {
	raw, err := json.Marshal(params)
	if err != nil {
		return err
	}
	return s.send(rpcMessage{JSONRPC: "2.0", Method: method, Params: raw})
}

func (s *Server) sendPublish(uri string, version int, list []lspDiagnostic) error {
	if list == nil {
		list = []lspDiagnostic{}
	}
	return s.notify("textDocument/publishDiagnostics", publishDiagnosticsParams{
		URI:         uri,
		Version:     version,
		Diagnostics: list,
	})
}

func (s *Server) send(msg rpcMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	if err := writeFrame(s.out, payload); err != nil {
		return err
	}
	return s.out.Flush()
}

func (s *Server) logf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "lsp: "+format+"\n", args...)
}

func (s *Server) tracef(format string, args ...any) {
	s.mu.Lock()
	trace := s.trace
	s.mu.Unlock()
	if trace {
		s.logf(format, args...)
	}
}
