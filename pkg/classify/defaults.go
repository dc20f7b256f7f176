package classify

import (
	"embed"
	"fmt"
)

//go:embed corpora/*.txt
var defaultCorpora embed.FS

// License categories in the order corpora are consulted.
const (
	CategoryGNU            = "gnu"
	CategoryPermissive     = "permissive"
	CategoryStrongCopyleft = "strong_copyleft"
	CategoryWeakCopyleft   = "weak_copyleft"
)

// Categories lists the license categories in corpus order.
var Categories = []string{CategoryGNU, CategoryPermissive, CategoryStrongCopyleft, CategoryWeakCopyleft}

// DefaultCorpus returns the built-in corpus for a license category. The
// corpus name is "builtin:<category>".
func DefaultCorpus(category string) (*Corpus, error) {
	data, err := defaultCorpora.ReadFile("corpora/" + category + ".txt")
	if err != nil {
		return nil, fmt.Errorf("unknown license category %q", category)
	}
	return NewCorpus("builtin:"+category, string(data)), nil
}

// DefaultCorpora returns the built-in corpora for all categories.
func DefaultCorpora() []*Corpus {
	out := make([]*Corpus, 0, len(Categories))
	for _, cat := range Categories {
		c, err := DefaultCorpus(cat)
		if err != nil {
			panic(err)
		}
		out = append(out, c)
	}
	return out
}
