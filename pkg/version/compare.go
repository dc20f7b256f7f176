package version

import (
	"strconv"
	"strings"
	"unicode"
)

// qualifierRank orders well-known qualifier words. Words not listed rank
// between snapshot and final and compare alphabetically among themselves.
var qualifierRank = map[string]int{
	"dev":       0,
	"a":         1,
	"alpha":     1,
	"b":         2,
	"beta":      2,
	"m":         3,
	"milestone": 3,
	"cr":        4,
	"rc":        4,
	"snapshot":  5,
	"final":     7,
	"ga":        7,
	"release":   7,
	"sp":        8,
}

const (
	unknownRank = 6
	releaseRank = 7
)

// Compare orders two version strings and returns -1, 0 or +1.
//
// Major, minor and patch compare numerically, with a missing segment counting
// as zero. Equal numbers fall back to the qualifiers: numeric parts beat words,
// pre-release words (alpha, beta, rc, ...) sort before the plain release, and
// Final, GA and RELEASE equal it. A version that cannot be parsed sorts before
// any version that can; two unparseable versions compare equal.
func Compare(a, b string) int {
	va, errA := Parse(a)
	vb, errB := Parse(b)
	switch {
	case errA != nil && errB != nil:
		return 0
	case errA != nil:
		return -1
	case errB != nil:
		return 1
	}
	return va.Compare(vb)
}

// Compare is the method form of [Compare].
func (v Version) Compare(o Version) int {
	if c := cmpInt(v.Major, o.Major); c != 0 {
		return c
	}
	if c := cmpInt(v.Minor, o.Minor); c != 0 {
		return c
	}
	if c := cmpInt(v.Patch, o.Patch); c != 0 {
		return c
	}
	return compareQualifier(v.Qualifier, o.Qualifier)
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareQualifier(a, b string) int {
	pa, pb := qualifierParts(a), qualifierParts(b)
	for i := 0; i < len(pa) || i < len(pb); i++ {
		switch {
		case i >= len(pa):
			return -trailing(pb[i])
		case i >= len(pb):
			return trailing(pa[i])
		}
		if c := comparePart(pa[i], pb[i]); c != 0 {
			return c
		}
	}
	return 0
}

// trailing reports how a part left over on one side affects the order:
// extra numbers and service packs make a version newer, pre-release words
// make it older, release words change nothing.
func trailing(p string) int {
	if isNumeric(p) {
		return 1
	}
	return cmpInt(rank(p), releaseRank)
}

func comparePart(a, b string) int {
	na, nb := isNumeric(a), isNumeric(b)
	switch {
	case na && nb:
		ia, _ := strconv.Atoi(a)
		ib, _ := strconv.Atoi(b)
		return cmpInt(ia, ib)
	case na:
		return 1
	case nb:
		return -1
	}
	ra, rb := rank(a), rank(b)
	if ra != rb || ra != unknownRank {
		return cmpInt(ra, rb)
	}
	return strings.Compare(a, b)
}

func rank(word string) int {
	if r, ok := qualifierRank[word]; ok {
		return r
	}
	return unknownRank
}

// qualifierParts splits a qualifier such as ".Final", "-rc2" or "-jre" into
// lower-case parts at separators and digit/letter boundaries.
func qualifierParts(q string) []string {
	var parts []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			parts = append(parts, cur.String())
			cur.Reset()
		}
	}
	prevDigit := false
	for i, r := range strings.ToLower(q) {
		if r == '.' || r == '-' || r == '_' || r == '+' {
			flush()
			continue
		}
		digit := unicode.IsDigit(r)
		if i > 0 && cur.Len() > 0 && digit != prevDigit {
			flush()
		}
		cur.WriteRune(r)
		prevDigit = digit
	}
	flush()
	return parts
}

func isNumeric(s string) bool {
	if s == "" || len(s) > 9 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
