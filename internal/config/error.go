package config

import (
	"fmt"
	"strings"
)

// ConfigError reports everything wrong with a config file at once, so a
// user can fix unresolved variables and invalid values in one pass.
type ConfigError struct {
	Path    string
	Missing []string // unresolved ${VAR} references
	Errors  []string // "field: problem" validation messages
}

func (e *ConfigError) Error() string {
	if e.empty() {
		return ""
	}

	var b strings.Builder
	if e.Path != "" {
		fmt.Fprintf(&b, "config %s:", e.Path)
	}
	if len(e.Missing) > 0 {
		sep(&b)
		fmt.Fprintf(&b, "missing environment variables: %s", strings.Join(e.Missing, ", "))
	}
	if len(e.Errors) > 0 {
		sep(&b)
		b.WriteString("validation failed:")
		for _, msg := range e.Errors {
			b.WriteString("\n  - ")
			b.WriteString(msg)
		}
	}
	return b.String()
}

func (e *ConfigError) empty() bool {
	return len(e.Missing) == 0 && len(e.Errors) == 0
}

func sep(b *strings.Builder) {
	if b.Len() > 0 {
		b.WriteByte('\n')
	}
}
