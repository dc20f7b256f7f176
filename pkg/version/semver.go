package version

import (
	"regexp"
	"strconv"
)

// looseRe captures up to three leading numeric segments. Whatever follows the
// last captured segment is kept as the qualifier (".Final", "-jre", "c", ...).
var looseRe = regexp.MustCompile(`^\s*[vV=]?\s*(\d+)(?:\.(\d+))?(?:\.(\d+))?(.*)$`)

// Version is a loosely parsed semantic version.
//
// Minor and Patch are only meaningful when HasMinor and HasPatch are set;
// a missing segment is absent, not zero.
type Version struct {
	Raw       string
	Major     int
	Minor     int
	Patch     int
	HasMinor  bool
	HasPatch  bool
	Qualifier string
}

// Parse reads v in loose mode. It fails only when v has no leading numeric
// major segment or a segment overflows int.
func Parse(v string) (Version, error) {
	m := looseRe.FindStringSubmatch(v)
	if m == nil {
		return Version{}, &ParseError{Input: v}
	}
	out := Version{Raw: v, Qualifier: m[4]}

	var err error
	if out.Major, err = strconv.Atoi(m[1]); err != nil {
		return Version{}, &ParseError{Input: v, Err: err}
	}
	if m[2] != "" {
		if out.Minor, err = strconv.Atoi(m[2]); err != nil {
			return Version{}, &ParseError{Input: v, Err: err}
		}
		out.HasMinor = true
	}
	if m[3] != "" {
		if out.Patch, err = strconv.Atoi(m[3]); err != nil {
			return Version{}, &ParseError{Input: v, Err: err}
		}
		out.HasPatch = true
	}
	return out, nil
}

// ParseError reports a version string that has no numeric major segment.
type ParseError struct {
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return "invalid version " + strconv.Quote(e.Input) + ": " + e.Err.Error()
	}
	return "invalid version " + strconv.Quote(e.Input)
}

func (e *ParseError) Unwrap() error { return e.Err }

// IsTooOld reports whether current lags latest by more than the allowed number
// of major or minor versions.
//
// A major gap larger than allowedMajor is always too old. Otherwise minors are
// compared only when the majors are equal and both versions carry a minor
// segment. Versions that cannot be parsed are never too old.
func IsTooOld(allowedMajor, allowedMinor int, current, latest string) bool {
	cur, err := Parse(current)
	if err != nil {
		return false
	}
	lat, err := Parse(latest)
	if err != nil {
		return false
	}
	return cur.IsTooOld(lat, allowedMajor, allowedMinor)
}

// IsTooOld is the method form of the package-level [IsTooOld].
func (v Version) IsTooOld(latest Version, allowedMajor, allowedMinor int) bool {
	if latest.Major-v.Major > allowedMajor {
		return true
	}
	if latest.Major == v.Major && latest.HasMinor && v.HasMinor {
		return latest.Minor-v.Minor > allowedMinor
	}
	return false
}
