package version

import (
	"regexp"
	"strings"
)

var stableKeywords = []string{"RELEASE", "FINAL", "GA"}

var stableVersionRe = regexp.MustCompile(`^[0-9,.v-]+(-r)?$`)

// StabilityPredicate decides whether a version string denotes a stable release.
type StabilityPredicate interface {
	IsStable(version string) bool
}

// StabilityFunc adapts a plain function to [StabilityPredicate].
type StabilityFunc func(string) bool

// IsStable calls f(v).
func (f StabilityFunc) IsStable(v string) bool { return f(v) }

// Default is the keyword-or-numeric heuristic implemented by [IsStable].
var Default StabilityPredicate = StabilityFunc(IsStable)

// IsStable reports whether v is a stable version: it either carries a release
// keyword ([StableKeyword]) or is purely numeric ([StableVersion]).
func IsStable(v string) bool {
	return StableKeyword(v) || StableVersion(v)
}

// StableKeyword reports whether v contains RELEASE, FINAL or GA, ignoring case.
func StableKeyword(v string) bool {
	upper := strings.ToUpper(v)
	for _, kw := range stableKeywords {
		if strings.Contains(upper, kw) {
			return true
		}
	}
	return false
}

// StableVersion reports whether the whole of v is made of digits, commas, dots,
// "v" and hyphens, with an optional trailing "-r".
func StableVersion(v string) bool {
	return stableVersionRe.MatchString(v)
}

// PatternStability treats a version as stable when it matches Pattern, or, if
// Fallback is set, when Fallback accepts it.
type PatternStability struct {
	Pattern  *regexp.Regexp
	Fallback StabilityPredicate
}

// NewPatternStability compiles expr into a [PatternStability] that falls back to
// [Default] when the pattern does not match.
func NewPatternStability(expr string) (*PatternStability, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	return &PatternStability{Pattern: re, Fallback: Default}, nil
}

// IsStable implements [StabilityPredicate].
func (p *PatternStability) IsStable(v string) bool {
	if p.Pattern != nil && p.Pattern.MatchString(v) {
		return true
	}
	return p.Fallback != nil && p.Fallback.IsStable(v)
}
