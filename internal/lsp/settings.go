package lsp

import (
	"encoding/json"
	"fmt"

	"commitlang/internal/config"
	"commitlang/internal/diag"
)

type lspSettings struct {
	Commitlang commitlangSettings `json:"commitlang"`
}

// commitlangSettings mirrors the commitlang.toml schema in the editor's
// settings JSON. Nil sections mean "leave the current configuration alone";
// trace can flip on its own.
type commitlangSettings struct {
	Types  []typeSetting          `json:"types,omitempty"`
	Scopes []string               `json:"scopes,omitempty"`
	Rules  map[string]ruleSetting `json:"rules,omitempty"`
	Trace  *bool                  `json:"trace,omitempty"`
}

type typeSetting struct {
	Name string `json:"name"`
	Doc  string `json:"doc,omitempty"`
}

type ruleSetting struct {
	Enabled  *bool   `json:"enabled,omitempty"`
	Severity *string `json:"severity,omitempty"`
	Limit    *int    `json:"limit,omitempty"`
}

func (s *Server) handleDidChangeConfiguration(msg *rpcMessage) error {
	if len(msg.Params) == 0 {
		return nil
	}
	var params didChangeConfigurationParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return nil
	}
	s.applySettings(params.Settings)
	return nil
}

func (s *Server) applySettings(raw json.RawMessage) {
	if len(raw) == 0 {
		return
	}
	var settings lspSettings
	if err := json.Unmarshal(raw, &settings); err != nil {
		return
	}
	cl := settings.Commitlang

	if cl.Trace != nil {
		s.mu.Lock()
		s.trace = *cl.Trace
		s.mu.Unlock()
	}
	if cl.Types == nil && cl.Scopes == nil && cl.Rules == nil {
		return
	}
	cfg, err := configFromSettings(cl)
	if err != nil {
		s.logf("ignoring configuration: %v", err)
		return
	}
	s.store.SetConfig(cfg)
	s.tracef("configuration replaced from editor settings")
	s.publishAll()
}

func configFromSettings(cl commitlangSettings) (*config.Config, error) {
	types := make([]config.Type, 0, len(cl.Types))
	for i, t := range cl.Types {
		if t.Name == "" {
			return nil, fmt.Errorf("types[%d] has no name", i)
		}
		types = append(types, config.Type{Name: t.Name, Doc: t.Doc})
	}
	rules := make(map[string]config.RuleSetting, len(cl.Rules))
	for id, rs := range cl.Rules {
		if _, ok := diag.CodeFromID(id); !ok {
			return nil, fmt.Errorf("unknown rule %q", id)
		}
		setting := config.RuleSetting{Enabled: rs.Enabled, Limit: rs.Limit}
		if rs.Severity != nil {
			sev, ok := diag.ParseSeverity(*rs.Severity)
			if !ok {
				return nil, fmt.Errorf("unknown severity %q for rule %q", *rs.Severity, id)
			}
			setting.Severity = &sev
		}
		rules[id] = setting
	}
	return config.New(types, cl.Scopes, rules), nil
}
