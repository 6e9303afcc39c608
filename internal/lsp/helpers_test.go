package lsp

import (
	"bufio"
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"commitlang/internal/config"
	"commitlang/internal/docstore"
)

func openSnapshot(t *testing.T, text string) *docstore.Snapshot {
	t.Helper()
	store := docstore.NewStore(config.Default(), 0)
	return store.Open("file:///tmp/COMMIT_EDITMSG", 1, text)
}

// newTestServer returns a server whose debounce never fires on its own;
// tests call flushDiagnostics explicitly and read frames back from out.
func newTestServer(t *testing.T, opts ServerOptions) (*Server, *bytes.Buffer) {
	t.Helper()
	if opts.Debounce == 0 {
		opts.Debounce = time.Hour
	}
	var out bytes.Buffer
	server := NewServer(bytes.NewReader(nil), &out, opts)
	t.Cleanup(server.stopDebounce)
	return server, &out
}

// readFrames decodes every JSON-RPC frame written so far.
func readFrames(t *testing.T, out *bytes.Buffer) []rpcMessage {
	t.Helper()
	reader := bufio.NewReader(bytes.NewReader(out.Bytes()))
	var msgs []rpcMessage
	for {
		payload, err := readFrame(reader)
		if err != nil {
			return msgs
		}
		var msg rpcMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			t.Fatalf("decode frame: %v", err)
		}
		msgs = append(msgs, msg)
	}
}

func mustParams(t *testing.T, v any) json.RawMessage {
	t.Helper()
	payload, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal params: %v", err)
	}
	return payload
}

func decodePublish(t *testing.T, msg rpcMessage) publishDiagnosticsParams {
	t.Helper()
	if msg.Method != "textDocument/publishDiagnostics" {
		t.Fatalf("expected publishDiagnostics, got %q", msg.Method)
	}
	var params publishDiagnosticsParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		t.Fatalf("decode params: %v", err)
	}
	return params
}
