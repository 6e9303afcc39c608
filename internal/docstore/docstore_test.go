package docstore

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"commitlang/internal/config"
	"commitlang/internal/cst"
	"commitlang/internal/diag"
	"commitlang/internal/model"
	"commitlang/internal/parser"
	"commitlang/internal/rope"
	"commitlang/internal/rules"
	"commitlang/internal/source"
)

const uri = "file:///repo/.git/COMMIT_EDITMSG"

func renderDiags(t *testing.T, diags []diag.Diagnostic, text string) string {
	t.Helper()
	return diag.Format(diags, source.NewText("msg", []byte(text)), false)
}

func TestOpenDiagnostics(t *testing.T) {
	s := NewStore(config.Default(), 0)
	snap := s.Open(uri, 1, "feat:add thing\n")

	want := "error missing-space-after-colon msg:1:5 missing space after the colon"
	if got := renderDiags(t, snap.Diagnostics, snap.Text); got != want {
		t.Fatalf("open diagnostics = %q, want %q", got, want)
	}

	diags, err := s.Diagnostics(uri)
	if err != nil {
		t.Fatalf("Diagnostics() error: %v", err)
	}
	if got := renderDiags(t, diags, snap.Text); got != want {
		t.Fatalf("Diagnostics() = %q, want %q", got, want)
	}
}

// Every Change must leave the document in the exact state a from-scratch
// parse and lint of the same text produces.
func TestChangeMatchesFullAnalysis(t *testing.T) {
	s := NewStore(config.Default(), 0)
	engine := rules.NewEngine(config.Default(), 0)

	text := "feat: x\n"
	s.Open(uri, 1, text)

	steps := []struct {
		name    string
		version int
		edits   []rope.Edit
	}{
		{name: "append body", version: 2, edits: []rope.Edit{{Start: 8, End: 8, Text: "\nThe body.\n"}}},
		{name: "append trailer", version: 3, edits: []rope.Edit{{Start: 19, End: 19, Text: "\nCloses #1\n"}}},
		{name: "edit header", version: 4, edits: []rope.Edit{{Start: 0, End: 4, Text: "fix"}}},
		{name: "batched edits", version: 5, edits: []rope.Edit{
			{Start: 3, End: 3, Text: "(ui)"},
			{Start: 7, End: 7, Text: "!"},
		}},
		{name: "delete everything", version: 6, edits: []rope.Edit{{Start: 0, End: 34, Text: ""}}},
	}

	for _, st := range steps {
		snap, err := s.Change(uri, st.version, st.edits)
		if err != nil {
			t.Fatalf("%s: Change() error: %v", st.name, err)
		}
		for _, e := range st.edits {
			text = text[:e.Start] + e.Text + text[e.End:]
		}
		if snap.Text != text {
			t.Fatalf("%s: text = %q, want %q", st.name, snap.Text, text)
		}
		if snap.Rope.String() != text {
			t.Fatalf("%s: rope = %q, want %q", st.name, snap.Rope.String(), text)
		}

		fresh := parser.Parse(text)
		if got, want := cst.Dump(snap.Tree, text), cst.Dump(fresh, text); got != want {
			t.Fatalf("%s: tree diverged from full parse\n--- got ---\n%s\n--- want ---\n%s", st.name, got, want)
		}
		wantDiags := engine.Run(model.Extract(fresh, text), text)
		if got, want := renderDiags(t, snap.Diagnostics, text), renderDiags(t, wantDiags, text); got != want {
			t.Fatalf("%s: diagnostics diverged\n--- got ---\n%s\n--- want ---\n%s", st.name, got, want)
		}
	}
}

func TestChangeVersionMustAdvance(t *testing.T) {
	s := NewStore(config.Default(), 0)
	s.Open(uri, 3, "feat: x\n")

	for _, version := range []int{3, 2} {
		_, err := s.Change(uri, version, []rope.Edit{{Start: 0, End: 0, Text: "a"}})
		var verr *rope.VersionError
		if !errors.As(err, &verr) {
			t.Fatalf("version %d: err = %v, want *rope.VersionError", version, err)
		}
	}

	snap, err := s.Snapshot(uri)
	if err != nil {
		t.Fatalf("Snapshot() error: %v", err)
	}
	if snap.Version != 3 || snap.Text != "feat: x\n" {
		t.Fatalf("rejected change altered the document: v%d %q", snap.Version, snap.Text)
	}
}

func TestChangeRangeOutOfBounds(t *testing.T) {
	s := NewStore(config.Default(), 0)
	s.Open(uri, 1, "feat: x\n")

	_, err := s.Change(uri, 2, []rope.Edit{{Start: 4, End: 99, Text: ""}})
	if !errors.Is(err, rope.ErrRangeOutOfBounds) {
		t.Fatalf("err = %v, want ErrRangeOutOfBounds", err)
	}

	snap, _ := s.Snapshot(uri)
	if snap.Version != 1 || snap.Text != "feat: x\n" {
		t.Fatalf("rejected change altered the document: v%d %q", snap.Version, snap.Text)
	}
}

func TestCompleteStaleVersion(t *testing.T) {
	s := NewStore(config.Default(), 0)
	s.Open(uri, 1, "")

	items, err := s.Complete(uri, 1, 0)
	if err != nil {
		t.Fatalf("Complete() error: %v", err)
	}
	if len(items) != 11 {
		t.Fatalf("got %d items at offset 0, want the 11 default types", len(items))
	}

	if _, err := s.Change(uri, 2, []rope.Edit{{Start: 0, End: 0, Text: "feat"}}); err != nil {
		t.Fatalf("Change() error: %v", err)
	}

	_, err = s.Complete(uri, 1, 0)
	var stale *StaleVersionError
	if !errors.As(err, &stale) {
		t.Fatalf("err = %v, want *StaleVersionError", err)
	}
	if stale.Have != 2 || stale.Asked != 1 {
		t.Fatalf("stale = %+v, want have 2 asked 1", stale)
	}

	items, err = s.Complete(uri, 2, 4)
	if err != nil {
		t.Fatalf("Complete() at current version error: %v", err)
	}
	if len(items) != 2 || items[0].Label != "(" || items[1].Label != ":" {
		t.Fatalf("items after a complete type = %+v", items)
	}
}

func TestNotOpen(t *testing.T) {
	s := NewStore(config.Default(), 0)

	if _, err := s.Diagnostics(uri); !errors.Is(err, ErrNotOpen) {
		t.Fatalf("Diagnostics err = %v, want ErrNotOpen", err)
	}
	if _, err := s.Change(uri, 2, nil); !errors.Is(err, ErrNotOpen) {
		t.Fatalf("Change err = %v, want ErrNotOpen", err)
	}
	if _, err := s.Complete(uri, 1, 0); !errors.Is(err, ErrNotOpen) {
		t.Fatalf("Complete err = %v, want ErrNotOpen", err)
	}
	if _, err := s.Snapshot(uri); !errors.Is(err, ErrNotOpen) {
		t.Fatalf("Snapshot err = %v, want ErrNotOpen", err)
	}
	if err := s.Close(uri); !errors.Is(err, ErrNotOpen) {
		t.Fatalf("Close err = %v, want ErrNotOpen", err)
	}
}

func TestCloseThenReopen(t *testing.T) {
	s := NewStore(config.Default(), 0)
	s.Open(uri, 5, "feat: x\n")
	if err := s.Close(uri); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if _, err := s.Diagnostics(uri); !errors.Is(err, ErrNotOpen) {
		t.Fatalf("closed document still answers: %v", err)
	}

	snap := s.Open(uri, 1, "fix: y\n")
	if snap.Version != 1 || snap.Text != "fix: y\n" {
		t.Fatalf("reopen snapshot = v%d %q", snap.Version, snap.Text)
	}
}

// Same text, same config: the analysis must come out identical.
func TestOpenIdempotent(t *testing.T) {
	s := NewStore(config.Default(), 0)
	text := "Feat(ui:  thing.\n"

	first := s.Open(uri, 1, text)
	second := s.Open(uri, 1, text)
	if got, want := renderDiags(t, second.Diagnostics, text), renderDiags(t, first.Diagnostics, text); got != want {
		t.Fatalf("repeated open disagrees\n--- got ---\n%s\n--- want ---\n%s", got, want)
	}
}

func TestDocumentsIndependent(t *testing.T) {
	s := NewStore(config.Default(), 0)
	other := "file:///other/MSG"
	s.Open(uri, 1, "feat: x\n")
	s.Open(other, 1, "fix: y\n")

	before, _ := s.Snapshot(other)
	if _, err := s.Change(uri, 2, []rope.Edit{{Start: 0, End: 4, Text: "fix"}}); err != nil {
		t.Fatalf("Change() error: %v", err)
	}
	after, _ := s.Snapshot(other)
	if before != after {
		t.Fatal("editing one document replaced the other's snapshot")
	}
}

func TestSnapshotImmutable(t *testing.T) {
	s := NewStore(config.Default(), 0)
	old := s.Open(uri, 1, "feat: x\n")

	if _, err := s.Change(uri, 2, []rope.Edit{{Start: 6, End: 7, Text: "thing"}}); err != nil {
		t.Fatalf("Change() error: %v", err)
	}

	if old.Version != 1 || old.Text != "feat: x\n" {
		t.Fatalf("old snapshot mutated: v%d %q", old.Version, old.Text)
	}
	want := cst.Dump(parser.Parse("feat: x\n"), "feat: x\n")
	if got := cst.Dump(old.Tree, old.Text); got != want {
		t.Fatalf("old tree mutated\n--- got ---\n%s\n--- want ---\n%s", got, want)
	}
}

func TestSetConfigRelints(t *testing.T) {
	s := NewStore(config.Default(), 0)
	s.Open(uri, 1, "deploy: ship it\n")

	diags, _ := s.Diagnostics(uri)
	if got := renderDiags(t, diags, "deploy: ship it\n"); !strings.Contains(got, "type-enum") {
		t.Fatalf("expected a type-enum warning, got %q", got)
	}

	s.SetConfig(config.New([]config.Type{{Name: "deploy"}}, nil, nil))
	diags, _ = s.Diagnostics(uri)
	if len(diags) != 0 {
		t.Fatalf("diagnostics after config swap = %+v, want none", diags)
	}

	if got := s.URIs(); len(got) != 1 || got[0] != uri {
		t.Fatalf("URIs() = %v", got)
	}
}

func TestConcurrentDocuments(t *testing.T) {
	s := NewStore(config.Default(), 0)
	const workers = 4
	const editsPerWorker = 50

	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for w := 0; w < workers; w++ {
		doc := fmt.Sprintf("file:///doc/%d", w)
		s.Open(doc, 0, "feat: x\n")
		wg.Add(1)
		go func(doc string) {
			defer wg.Done()
			for v := 1; v <= editsPerWorker; v++ {
				if _, err := s.Change(doc, v, []rope.Edit{{Start: 7, End: 7, Text: "x"}}); err != nil {
					errs <- fmt.Errorf("%s v%d: %w", doc, v, err)
					return
				}
			}
		}(doc)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}

	for w := 0; w < workers; w++ {
		snap, err := s.Snapshot(fmt.Sprintf("file:///doc/%d", w))
		if err != nil {
			t.Fatalf("Snapshot() error: %v", err)
		}
		want := "feat: " + strings.Repeat("x", editsPerWorker+1) + "\n"
		if snap.Text != want {
			t.Fatalf("doc %d text = %q, want %q", w, snap.Text, want)
		}
	}
}
