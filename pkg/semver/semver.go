package semver

import (
	"fmt"
	"strings"

	mm "github.com/Masterminds/semver/v3"
)

// Version is a semantic version.
//
// This is a thin wrapper around github.com/Masterminds/semver/v3.
type Version struct {
	v *mm.Version
}

// Requirement is a Cargo version requirement.
//
// Examples:
// - "^1.0"
// - "1.2.3" (same as "^1.2.3")
// - ">=0.3, <0.5"
// - "~1.4"
// - "*"
type Requirement struct {
	raw string
	c   *mm.Constraints
}

func ParseVersion(raw string) (Version, error) {
	v, err := mm.NewVersion(strings.TrimSpace(raw))
	if err != nil {
		return Version{}, fmt.Errorf("semver: parse version %q: %w", raw, err)
	}
	return Version{v: v}, nil
}

// ParseRequirement parses a requirement written in Cargo syntax.
func ParseRequirement(raw string) (Requirement, error) {
	c, err := mm.NewConstraint(normalize(raw))
	if err != nil {
		return Requirement{}, fmt.Errorf("semver: parse requirement %q: %w", raw, err)
	}
	return Requirement{raw: raw, c: c}, nil
}

// Matches reports whether v satisfies r. Zero values never match.
func (r Requirement) Matches(v Version) bool {
	if v.v == nil || r.c == nil {
		return false
	}
	return r.c.Check(v.v)
}

func (r Requirement) String() string { return r.raw }

func (v Version) String() string {
	if v.v == nil {
		return ""
	}
	return v.v.Original()
}

// normalize rewrites Cargo requirement syntax into Masterminds constraint
// syntax. Cargo treats a bare version as a caret requirement, Masterminds as
// a tilde-or-equal one; bare wildcards mean the same in both. Comparators are
// comma-separated in both.
func normalize(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "*"
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if c := p[0]; c >= '0' && c <= '9' && !strings.ContainsAny(p, "*xX") {
			p = "^" + p
		}
		out = append(out, p)
	}
	if len(out) == 0 {
		return "*"
	}
	return strings.Join(out, ", ")
}
