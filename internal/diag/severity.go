package diag

// Severity defines the importance of a diagnostic.
type Severity uint8

const (
	// SevHint marks advisory diagnostics editors render unobtrusively.
	SevHint Severity = iota
	// SevInfo is for informational diagnostics.
	SevInfo
	// SevWarning is for warning diagnostics.
	SevWarning
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevHint:
		return "HINT"
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// ParseSeverity maps a config-file spelling to a Severity.
func ParseSeverity(s string) (Severity, bool) {
	switch s {
	case "hint", "HINT":
		return SevHint, true
	case "info", "information", "INFO":
		return SevInfo, true
	case "warning", "warn", "WARNING":
		return SevWarning, true
	case "error", "ERROR":
		return SevError, true
	}
	return SevInfo, false
}
