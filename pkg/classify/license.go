package classify

import (
	"bufio"
	"context"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/otsaudit/pkg/deps"
)

// Corpus is one license category text (GNU, permissive, copyleft, ...).
// Matching is a substring test on the raw text; Lines is kept for display.
type Corpus struct {
	Name  string
	Lines []string
	raw   string
}

// NewCorpus builds a corpus from raw text.
func NewCorpus(name, text string) *Corpus {
	c := &Corpus{Name: name, raw: text}
	sc := bufio.NewScanner(strings.NewReader(text))
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			c.Lines = append(c.Lines, line)
		}
	}
	return c
}

// LoadCorpus reads a corpus file. The corpus name is the file path.
func LoadCorpus(path string) (*Corpus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return NewCorpus(path, string(data)), nil
}

// Contains reports whether license occurs in the corpus text. An empty license
// is never contained.
func (c *Corpus) Contains(license string) bool {
	if c == nil || license == "" {
		return false
	}
	return strings.Contains(c.raw, license)
}

// Text returns the raw corpus text.
func (c *Corpus) Text() string { return c.raw }

// LicenseClassifier decides license approval.
type LicenseClassifier struct {
	Corpora []*Corpus // nil entries are allowed and match nothing
	Allowed []string  // Exact license names approved regardless of corpora
	Denied  []string  // Exact license names never approved
	Logger  *log.Logger
}

// Approved reports whether license is approved: contained in a corpus or
// allow-listed, and not deny-listed.
func (c *LicenseClassifier) Approved(license string) bool {
	if license == "" {
		return false
	}
	ok := slices.Contains(c.Allowed, license)
	for _, corpus := range c.Corpora {
		if ok {
			break
		}
		ok = corpus.Contains(license)
	}
	return ok && !slices.Contains(c.Denied, license)
}

// Classify sets AllowedLicense on every artifact in set and returns the
// artifacts that are not approved, sorted by name. Running it twice yields
// the same result.
func (c *LicenseClassifier) Classify(_ context.Context, set *deps.ArtifactSet) []*deps.Artifact {
	logger := c.Logger
	if logger == nil {
		logger = log.Default()
	}

	var rejected []*deps.Artifact
	for _, a := range set.All() {
		ok := c.Approved(a.License)
		a.AllowedLicense = &ok
		if !ok {
			logger.Warn("license not allowed", "artifact", a.Name, "license", a.License, "licenseUrl", a.LicenseURL)
			rejected = append(rejected, a)
		}
	}
	deps.SortByName(rejected)
	return rejected
}
