package provenance

import (
	"github.com/matzehuels/supplychain/pkg/deps"
	"github.com/matzehuels/supplychain/pkg/semver"
)

// RequirementKey is a (name, version requirement) pair collected from
// dependency edges. Equal keys collapse in a set, so a requirement declared
// by many packages is matched once per round.
type RequirementKey struct {
	Name string
	Req  string
}

// KeyOf returns the requirement key of a dependency edge.
func KeyOf(d deps.Dependency) RequirementKey {
	return RequirementKey{Name: d.Name, Req: d.Req}
}

// requirement is a RequirementKey with its parsed version requirement.
// ok is false when the requirement could not be parsed.
type requirement struct {
	RequirementKey
	req semver.Requirement
	ok  bool
}

func compile(k RequirementKey) requirement {
	r, err := semver.ParseRequirement(k.Req)
	return requirement{RequirementKey: k, req: r, ok: err == nil}
}

// matches reports whether pkg could be the package that satisfies the
// requirement. Only name and version are compared; the origin locator is
// ignored because Cargo does not record it consistently across inputs. Two
// packages with the same name and version from different origins therefore
// both match.
//
// Anything that fails to parse matches on name alone.
func (r requirement) matches(pkg *deps.Package) bool {
	if r.Name != pkg.Name {
		return false
	}
	if !r.ok {
		return true
	}
	v, err := semver.ParseVersion(pkg.Version)
	if err != nil {
		return true
	}
	return r.req.Matches(v)
}

// Matches reports whether k matches pkg under the same rules the non-dev
// filter uses.
func (k RequirementKey) Matches(pkg *deps.Package) bool {
	return compile(k).matches(pkg)
}
