package fuzztests

import (
	"testing"

	"commitlang/internal/config"
	"commitlang/internal/model"
	"commitlang/internal/parser"
	"commitlang/internal/rules"
)

// FuzzLintPipeline drives arbitrary input through parse, extract, and every
// registered rule. Rules must not panic, and every diagnostic span must stay
// inside the input.
func FuzzLintPipeline(f *testing.F) {
	addMessageSeeds(f)
	engine := rules.NewEngine(config.Default(), 0)
	f.Fuzz(func(t *testing.T, input []byte) {
		text := clip(input)
		tree := parser.Parse(text)
		m := model.Extract(tree, text)
		for _, d := range engine.Run(m, text) {
			if d.Primary.End < d.Primary.Start {
				t.Fatalf("inverted span %v on %q (%s)", d.Primary, text, d.Code.ID())
			}
			if int(d.Primary.End) > len(text) {
				t.Fatalf("span %v exceeds %d bytes of input (%s)", d.Primary, len(text), d.Code.ID())
			}
		}
	})
}
