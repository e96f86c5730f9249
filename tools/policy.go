package tools

import (
	"fmt"
	"regexp"
)

// DenyPolicy rejects shell commands matching any of its patterns. The
// check runs before a process is spawned, so a denied command never
// executes, not even partially.
type DenyPolicy struct {
	patterns []*regexp.Regexp
}

// NewDenyPolicy compiles the given regular expressions into a policy.
// Returns an error if any expression does not compile.
func NewDenyPolicy(exprs []string) (*DenyPolicy, error) {
	p := &DenyPolicy{patterns: make([]*regexp.Regexp, 0, len(exprs))}
	for _, expr := range exprs {
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("compile deny pattern %q: %w", expr, err)
		}
		p.patterns = append(p.patterns, re)
	}
	return p, nil
}

// MustNewDenyPolicy is like NewDenyPolicy but panics on error. Use for
// pattern lists defined at init time.
func MustNewDenyPolicy(exprs []string) *DenyPolicy {
	p, err := NewDenyPolicy(exprs)
	if err != nil {
		panic(err)
	}
	return p
}

// Match reports whether the command is denied, returning the source
// text of the first matching pattern. A nil policy denies nothing.
func (p *DenyPolicy) Match(command string) (string, bool) {
	if p == nil {
		return "", false
	}
	for _, re := range p.patterns {
		if re.MatchString(command) {
			return re.String(), true
		}
	}
	return "", false
}

// DefaultDenyPatterns returns the built-in deny list: destructive or
// system-level commands an unattended assistant has no business
// running. Callers wanting a different posture construct their own
// [DenyPolicy].
func DefaultDenyPatterns() []string {
	return []string{
		`\brm\s+(-[a-zA-Z]*\s+)*-[a-zA-Z]*[rf]`, // rm -r / rm -f variants
		`\brm\s+.*\s/\s*$`,                      // rm targeting the root
		`\bsudo\b`,
		`\bsu\s`,
		`\bmkfs\b`,
		`\bdd\s+[^|]*of=/dev/`,
		`>\s*/dev/sd[a-z]`,
		`\b(shutdown|reboot|halt|poweroff)\b`,
		`\bkill\s+(-9\s+)?1\b`, // signalling init
		`:\(\)\s*\{\s*:`,       // fork bomb
		`\bchmod\s+(-[a-zA-Z]+\s+)*777\s+/`,
		`\bchown\s+(-[a-zA-Z]+\s+)*\S+\s+/\s*$`,
	}
}
