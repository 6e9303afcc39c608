package complete

import (
	"fmt"
	"strings"
	"testing"

	"commitlang/internal/config"
	"commitlang/internal/cst"
	"commitlang/internal/parser"
)

func renderItems(items []Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = fmt.Sprintf("%s %s %s", it.Kind, it.Label, it.Replace)
	}
	return out
}

func defaultTypeLines(replace string) []string {
	names := []string{"feat", "fix", "docs", "style", "refactor", "perf", "test", "build", "ci", "chore", "revert"}
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = "enum " + n + " " + replace
	}
	return out
}

func trailerKeywordLines(replace string) []string {
	labels := []string{"BREAKING CHANGE", "Closes", "Fixes", "Co-authored-by", "Reviewed-by", "Signed-off-by"}
	out := make([]string, len(labels))
	for i, l := range labels {
		out[i] = "keyword " + l + " " + replace
	}
	return out
}

func TestAt(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		offset int
		cfg    *config.Config
		want   []string
	}{
		{
			name:   "empty document lists the types",
			text:   "",
			offset: 0,
			want:   defaultTypeLines("0-0"),
		},
		{
			name:   "partial type",
			text:   "fe",
			offset: 2,
			want:   defaultTypeLines("0-2"),
		},
		{
			name:   "complete type offers punctuation",
			text:   "feat",
			offset: 4,
			want:   []string{"keyword ( 4-4", "keyword : 4-4"},
		},
		{
			name:   "type position inside complete header",
			text:   "feat: x\n",
			offset: 2,
			want:   defaultTypeLines("0-4"),
		},
		{
			name:   "scope with vocabulary",
			text:   "feat(u): x\n",
			offset: 6,
			cfg:    config.New(nil, []string{"api", "ui"}, nil),
			want:   []string{"enum api 5-6", "enum ui 5-6"},
		},
		{
			name:   "scope without vocabulary",
			text:   "feat(u): x\n",
			offset: 6,
		},
		{
			name:   "freshly opened scope",
			text:   "feat(",
			offset: 5,
			cfg:    config.New(nil, []string{"api", "ui"}, nil),
			want:   []string{"enum api 5-5", "enum ui 5-5"},
		},
		{
			name:   "description offers nothing",
			text:   "feat: x\n",
			offset: 7,
		},
		{
			name:   "body offers nothing",
			text:   "feat: x\n\nbody\n",
			offset: 11,
		},
		{
			name:   "new trailer line",
			text:   "feat: x\n\nCloses #1\n",
			offset: 19,
			want:   trailerKeywordLines("19-19"),
		},
		{
			name:   "token prefix replaces the whole token",
			text:   "feat: x\n\nCloses #1\n",
			offset: 11,
			want:   trailerKeywordLines("9-15"),
		},
		{
			name:   "used tokens are suggested",
			text:   "feat: x\n\nTracked-by #7\n",
			offset: 23,
			want:   append(trailerKeywordLines("23-23"), "value Tracked-by 23-23"),
		},
		{
			name:   "value position offers nothing",
			text:   "feat: x\n\nCloses #1\n",
			offset: 17,
		},
		{
			name:   "comment line offers nothing",
			text:   "# note\nfeat: x\n",
			offset: 3,
		},
		{
			name:   "comment in the trailer zone offers nothing",
			text:   "feat: x\n\nCloses #1\n# c\n",
			offset: 21,
		},
		{
			name:   "blank line before the header",
			text:   "\nfeat: x\n",
			offset: 0,
			want:   defaultTypeLines("0-0"),
		},
		{
			name:   "blank between header and trailers offers nothing",
			text:   "feat: x\n\nCloses #1\n",
			offset: 8,
		},
		{
			name:   "offset out of range",
			text:   "feat: x\n",
			offset: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			if cfg == nil {
				cfg = config.Default()
			}
			tree := parser.Parse(tt.text)
			got := renderItems(At(tree, tt.text, cfg, tt.offset))
			want := strings.Join(tt.want, "\n")
			if joined := strings.Join(got, "\n"); joined != want {
				t.Fatalf("items mismatch\n--- got ---\n%s\n--- want ---\n%s", joined, want)
			}
		})
	}
}

func TestAtTypeDocs(t *testing.T) {
	tree := parser.Parse("")
	items := At(tree, "", config.Default(), 0)
	if len(items) != 11 {
		t.Fatalf("got %d items, want 11", len(items))
	}
	if items[0].Label != "feat" || items[0].Detail != "a new feature" {
		t.Fatalf("first item = %q (%q), want feat with its doc", items[0].Label, items[0].Detail)
	}
	for _, it := range items {
		if it.Detail == "" {
			t.Fatalf("type %q has no doc string", it.Label)
		}
	}
}

func TestAtNeverMutates(t *testing.T) {
	text := "feat: x\n\nCloses #1\n"
	tree := parser.Parse(text)
	before := cst.Dump(tree, text)

	for off := 0; off <= len(text); off++ {
		At(tree, text, config.Default(), off)
	}
	if after := cst.Dump(tree, text); after != before {
		t.Fatalf("completion mutated the tree\n--- before ---\n%s\n--- after ---\n%s", before, after)
	}
}
