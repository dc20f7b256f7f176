// Package version classifies free-form artifact version strings.
//
// # Stability
//
// [IsStable] decides whether a version string looks like a production release.
// It is a heuristic, not a semver validator: a version is stable when it carries
// one of the keywords RELEASE, FINAL or GA (any case), or when it consists only of
// digits, dots, commas, hyphens and "v", optionally ending in "-r".
//
//	version.IsStable("1.0.1.Final")  // true
//	version.IsStable("30.3-jre")     // false
//	version.IsStable("20220319")     // true (date-based versions pass)
//
// Callers that need a different policy supply a [StabilityPredicate]; the
// default is [Default].
//
// # Staleness
//
// [Parse] reads the leading major.minor.patch triplet of a version in loose
// mode, keeping track of which segments were actually present. [IsTooOld]
// compares a current version against the latest known one:
//
//	version.IsTooOld(0, 3, "1.2.3", "2.0.2")  // true, major moved
//	version.IsTooOld(0, 3, "1.0.3", "1.3.2")  // false, 3 minors is tolerated
package version
