// Package rules implements the lint rules and the engine that runs them.
//
// Every rule is pure: Evaluate reads the extracted message and the source
// text and returns diagnostics without touching shared state, so rule order
// never matters. The engine resolves the configured rule set once at
// construction and produces capped, sorted, deduplicated output.
package rules

import (
	"fmt"

	"commitlang/internal/config"
	"commitlang/internal/diag"
	"commitlang/internal/model"
	"commitlang/internal/source"
)

// Rule is one lint check keyed by the code it reports under. Rules emitting
// several related codes report the one used for configuration.
type Rule interface {
	Code() diag.Code
	Evaluate(m *model.Message, text string) []diag.Diagnostic
}

type builtin struct {
	rule Rule
	on   bool // enabled unless the config says otherwise
}

func builtins(cfg *config.Config) []builtin {
	return []builtin{
		{headerFormat{}, true},
		{typeEnum{cfg}, true},
		{missingSpaceAfterColon{}, true},
		{extraSpaceAfterColon{}, true},
		{subjectEmpty{}, true},
		{subjectFullStop{}, true},
		{scopeEmpty{}, true},
		{scopeEnum{cfg}, true},
		{blankBeforeBody{}, true},
		{blankBeforeTrailers{}, true},
		{textAfterTrailer{}, true},
		{breakingDuplicate{}, true},
		{breakingNoTrailer{}, true},
		{headerMaxLength{cfg}, false},
		{bodyMaxLength{cfg}, false},
	}
}

// Engine runs the rule set enabled by one configuration.
type Engine struct {
	cfg   *config.Config
	rules []Rule
	max   int
}

// NewEngine resolves the built-in rules against cfg. maxDiagnostics caps the
// output per run; zero means the default cap.
func NewEngine(cfg *config.Config, maxDiagnostics int) *Engine {
	e := &Engine{cfg: cfg, max: maxDiagnostics}
	for _, b := range builtins(cfg) {
		if cfg.RuleEnabled(b.rule.Code().ID(), b.on) {
			e.rules = append(e.rules, b.rule)
		}
	}
	return e
}

// Register adds a rule on top of the built-ins. The same enable and
// severity configuration applies to it as to any other rule.
func (e *Engine) Register(r Rule) {
	if e.cfg.RuleEnabled(r.Code().ID(), true) {
		e.rules = append(e.rules, r)
	}
}

// Run evaluates every enabled rule on the message. A panicking rule
// contributes a single rule-failed diagnostic; the other rules' output is
// unaffected. Severity overrides apply per emitted code first, then per
// rule. The result is deterministic: capped, sorted by range then code,
// duplicates dropped.
func (e *Engine) Run(m *model.Message, text string) []diag.Diagnostic {
	bag := diag.NewBag(e.max)
	for _, r := range e.rules {
		for _, d := range e.evaluate(r, m, text) {
			if sev, ok := e.cfg.RuleSeverity(d.Code.ID()); ok {
				d.Severity = sev
			} else if sev, ok := e.cfg.RuleSeverity(r.Code().ID()); ok {
				d.Severity = sev
			}
			bag.Add(d)
		}
	}
	bag.Dedup()
	bag.Sort()
	return bag.Items()
}

func (e *Engine) evaluate(r Rule, m *model.Message, text string) (out []diag.Diagnostic) {
	defer func() {
		if rec := recover(); rec != nil {
			out = []diag.Diagnostic{diag.NewError(diag.CodeRuleFailed, source.Span{},
				fmt.Sprintf("rule %s panicked: %v", r.Code().ID(), rec))}
		}
	}()
	return r.Evaluate(m, text)
}
