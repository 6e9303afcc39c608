// Package config loads the workspace configuration: the type and scope
// vocabularies and per-rule settings. Vocabulary matching is NFC-normalized
// on both sides so composed and decomposed spellings agree.
package config

import (
	"golang.org/x/text/unicode/norm"

	"commitlang/internal/diag"
)

// Type is one allowed commit type with its documentation string, shown in
// completion and hover.
type Type struct {
	Name string `toml:"name"`
	Doc  string `toml:"doc"`
}

// DefaultTypes is the vocabulary the tool ships with. Order is completion
// order.
var DefaultTypes = []Type{
	{Name: "feat", Doc: "a new feature"},
	{Name: "fix", Doc: "a bug fix"},
	{Name: "docs", Doc: "documentation only changes"},
	{Name: "style", Doc: "changes that do not affect the meaning of the code"},
	{Name: "refactor", Doc: "a code change that neither fixes a bug nor adds a feature"},
	{Name: "perf", Doc: "a code change that improves performance"},
	{Name: "test", Doc: "adding missing tests or correcting existing tests"},
	{Name: "build", Doc: "changes that affect the build system or external dependencies"},
	{Name: "ci", Doc: "changes to CI configuration files and scripts"},
	{Name: "chore", Doc: "other changes that do not modify source or test files"},
	{Name: "revert", Doc: "reverts a previous commit"},
}

// Config is a resolved configuration. Zero scopes means any scope is
// accepted. Instances are immutable after construction.
type Config struct {
	Types  []Type
	Scopes []string
	Rules  map[string]RuleSetting

	typeSet  map[string]bool
	typeDocs map[string]string
	scopeSet map[string]bool
}

// Default returns the built-in configuration: default types, no scope
// vocabulary, no rule overrides.
func Default() *Config {
	return New(nil, nil, nil)
}

// New assembles a configuration from parts; nil types fall back to the
// default vocabulary.
func New(types []Type, scopes []string, rules map[string]RuleSetting) *Config {
	c := &Config{Types: types, Scopes: scopes, Rules: rules}
	if len(c.Types) == 0 {
		c.Types = append([]Type(nil), DefaultTypes...)
	}
	if c.Rules == nil {
		c.Rules = map[string]RuleSetting{}
	}
	c.finalize()
	return c
}

func (c *Config) finalize() {
	c.typeSet = make(map[string]bool, len(c.Types))
	c.typeDocs = make(map[string]string, len(c.Types))
	for _, t := range c.Types {
		key := norm.NFC.String(t.Name)
		c.typeSet[key] = true
		c.typeDocs[key] = t.Doc
	}
	c.scopeSet = make(map[string]bool, len(c.Scopes))
	for _, s := range c.Scopes {
		c.scopeSet[norm.NFC.String(s)] = true
	}
}

// HasType reports whether name is in the type vocabulary. Case-sensitive.
func (c *Config) HasType(name string) bool {
	return c.typeSet[norm.NFC.String(name)]
}

// TypeDoc returns the documentation string for a configured type.
func (c *Config) TypeDoc(name string) (string, bool) {
	doc, ok := c.typeDocs[norm.NFC.String(name)]
	return doc, ok
}

// ScopesConfigured reports whether a scope vocabulary was given; without one
// any scope passes.
func (c *Config) ScopesConfigured() bool {
	return len(c.Scopes) > 0
}

// HasScope reports whether name is in the scope vocabulary.
func (c *Config) HasScope(name string) bool {
	return c.scopeSet[norm.NFC.String(name)]
}

// RuleEnabled resolves whether the rule with this ID runs, given the rule's
// built-in default.
func (c *Config) RuleEnabled(id string, def bool) bool {
	if s, ok := c.Rules[id]; ok && s.Enabled != nil {
		return *s.Enabled
	}
	return def
}

// RuleSeverity returns the configured severity override for a rule, if any.
func (c *Config) RuleSeverity(id string) (diag.Severity, bool) {
	if s, ok := c.Rules[id]; ok && s.Severity != nil {
		return *s.Severity, true
	}
	return 0, false
}

// RuleLimit returns the configured numeric limit for a rule, or def.
func (c *Config) RuleLimit(id string, def int) int {
	if s, ok := c.Rules[id]; ok && s.Limit != nil {
		return *s.Limit
	}
	return def
}
