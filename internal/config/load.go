package config

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"commitlang/internal/diag"
)

// RuleSetting is one entry under [rules]. The TOML value is either a bare
// string ("off", "on", or a severity name, which also enables the rule) or
// a table with enabled/severity/limit keys. Nil fields mean "not set".
type RuleSetting struct {
	Enabled  *bool
	Severity *diag.Severity
	Limit    *int
}

// UnmarshalTOML implements toml.Unmarshaler.
func (r *RuleSetting) UnmarshalTOML(v interface{}) error {
	switch val := v.(type) {
	case string:
		return r.fromString(val)
	case map[string]interface{}:
		if raw, ok := val["enabled"]; ok {
			b, ok := raw.(bool)
			if !ok {
				return fmt.Errorf("enabled must be a boolean, got %T", raw)
			}
			r.Enabled = &b
		}
		if raw, ok := val["severity"]; ok {
			s, ok := raw.(string)
			if !ok {
				return fmt.Errorf("severity must be a string, got %T", raw)
			}
			sev, ok := diag.ParseSeverity(s)
			if !ok {
				return fmt.Errorf("unknown severity %q", s)
			}
			r.Severity = &sev
		}
		if raw, ok := val["limit"]; ok {
			n, ok := raw.(int64)
			if !ok {
				return fmt.Errorf("limit must be an integer, got %T", raw)
			}
			limit := int(n)
			r.Limit = &limit
		}
		return nil
	}
	return fmt.Errorf("rule setting must be a string or a table, got %T", v)
}

func (r *RuleSetting) fromString(s string) error {
	switch s {
	case "off", "false", "disabled":
		v := false
		r.Enabled = &v
		return nil
	case "on", "true", "enabled":
		v := true
		r.Enabled = &v
		return nil
	}
	if sev, ok := diag.ParseSeverity(s); ok {
		v := true
		r.Enabled = &v
		r.Severity = &sev
		return nil
	}
	return fmt.Errorf("unknown rule setting %q", s)
}

type fileConfig struct {
	Types  []Type                 `toml:"types"`
	Scopes []string               `toml:"scopes"`
	Rules  map[string]RuleSetting `toml:"rules"`
}

// Load reads and resolves one configuration file.
func Load(path string) (*Config, error) {
	var raw fileConfig
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	cfg, err := fromFile(&raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func fromFile(raw *fileConfig) (*Config, error) {
	c := &Config{
		Scopes: raw.Scopes,
		Rules:  raw.Rules,
	}
	if c.Rules == nil {
		c.Rules = map[string]RuleSetting{}
	}
	for id := range c.Rules {
		if _, ok := diag.CodeFromID(id); !ok {
			return nil, fmt.Errorf("unknown rule %q in [rules]", id)
		}
	}
	if len(raw.Types) == 0 {
		c.Types = append([]Type(nil), DefaultTypes...)
	} else {
		defaults := make(map[string]string, len(DefaultTypes))
		for _, t := range DefaultTypes {
			defaults[t.Name] = t.Doc
		}
		for i, t := range raw.Types {
			if t.Name == "" {
				return nil, fmt.Errorf("types[%d] has no name", i)
			}
			if t.Doc == "" {
				t.Doc = defaults[t.Name]
			}
			c.Types = append(c.Types, t)
		}
	}
	c.finalize()
	return c, nil
}
