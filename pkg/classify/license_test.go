package classify

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/otsaudit/pkg/deps"
)

const permissive = `Apache License, Version 2.0
MIT License
BSD 3-Clause License
`

const gnu = `GNU General Public License v3.0
GNU Lesser General Public License v2.1
`

func artifactSet(licenses map[string]string) *deps.ArtifactSet {
	set := deps.NewArtifactSet(nil)
	for name, lic := range licenses {
		set.Add(&deps.Artifact{Coordinate: deps.Coordinate{Group: "g", Name: name, Version: "1"}, License: lic})
	}
	return set
}

func TestLicenseClassifier_Approved(t *testing.T) {
	c := &LicenseClassifier{
		Corpora: []*Corpus{NewCorpus("permissive", permissive), nil, NewCorpus("gnu", gnu)},
		Allowed: []string{"Bouncy Castle Licence"},
		Denied:  []string{"GNU General Public License v3.0"},
	}
	tests := []struct {
		license string
		want    bool
	}{
		{"MIT License", true},
		{"Apache License, Version 2.0", true},
		{"Apache", true}, // substring of a corpus line
		{"GNU Lesser General Public License v2.1", true},
		{"GNU General Public License v3.0", false}, // denied wins over corpus match
		{"Bouncy Castle Licence", true},
		{"Proprietary", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.license, func(t *testing.T) {
			if got := c.Approved(tt.license); got != tt.want {
				t.Errorf("Approved(%q) = %v, want %v", tt.license, got, tt.want)
			}
		})
	}
}

func TestLicenseClassifier_DeniedOverridesAllowList(t *testing.T) {
	c := &LicenseClassifier{Allowed: []string{"X"}, Denied: []string{"X"}}
	if c.Approved("X") {
		t.Error("deny list should win over allow list")
	}
}

func TestLicenseClassifier_NoCorpora(t *testing.T) {
	c := &LicenseClassifier{}
	if c.Approved("MIT License") {
		t.Error("nothing should be approved without corpora or allow list")
	}
}

func TestLicenseClassifier_Classify(t *testing.T) {
	set := artifactSet(map[string]string{
		"commons-lang3": "Apache License, Version 2.0",
		"mystery":       "",
		"gpl-thing":     "GNU General Public License v3.0",
	})
	c := &LicenseClassifier{
		Corpora: []*Corpus{NewCorpus("permissive", permissive), NewCorpus("gnu", gnu)},
		Denied:  []string{"GNU General Public License v3.0"},
	}

	rejected := c.Classify(context.Background(), set)
	if len(rejected) != 2 {
		t.Fatalf("rejected = %d, want 2", len(rejected))
	}
	if rejected[0].Name != "gpl-thing" || rejected[1].Name != "mystery" {
		t.Errorf("rejected = %s,%s; want gpl-thing,mystery", rejected[0].Name, rejected[1].Name)
	}
	for _, a := range set.All() {
		if a.AllowedLicense == nil {
			t.Fatalf("%s: AllowedLicense not set", a.Name)
		}
	}
	a, _ := set.Get(deps.Coordinate{Name: "commons-lang3"})
	if !*a.AllowedLicense {
		t.Error("commons-lang3 should be allowed")
	}
}

func TestLicenseClassifier_Idempotent(t *testing.T) {
	set := artifactSet(map[string]string{"a": "MIT License", "b": "Other", "c": ""})
	c := &LicenseClassifier{Corpora: []*Corpus{NewCorpus("p", permissive)}}

	c.Classify(context.Background(), set)
	first := map[string]bool{}
	for _, a := range set.All() {
		first[a.Name] = *a.AllowedLicense
	}
	c.Classify(context.Background(), set)
	for _, a := range set.All() {
		if *a.AllowedLicense != first[a.Name] {
			t.Errorf("%s changed between runs", a.Name)
		}
	}
}

func TestLoadCorpus(t *testing.T) {
	path := filepath.Join(t.TempDir(), "permissive.txt")
	if err := os.WriteFile(path, []byte(permissive+"\n\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := LoadCorpus(path)
	if err != nil {
		t.Fatalf("LoadCorpus: %v", err)
	}
	if len(c.Lines) != 3 {
		t.Errorf("Lines = %d, want 3", len(c.Lines))
	}
	if !c.Contains("BSD 3-Clause") {
		t.Error("expected BSD 3-Clause to be contained")
	}

	if _, err := LoadCorpus(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestDefaultCorpora(t *testing.T) {
	c := &LicenseClassifier{Corpora: DefaultCorpora()}
	tests := []struct {
		license string
		want    bool
	}{
		{"Apache License, Version 2.0", true},
		{"The Apache Software License, Version 2.0", true},
		{"MIT License", true},
		{"BSD 3-Clause License", true},
		{"GNU Lesser General Public License v2.1", true},
		{"Eclipse Public License - v 2.0", true},
		{"Mozilla Public License, Version 2.0", true},
		{"Acme Proprietary License", false},
		{"Commercial", false},
	}
	for _, tt := range tests {
		t.Run(tt.license, func(t *testing.T) {
			if got := c.Approved(tt.license); got != tt.want {
				t.Errorf("Approved(%q) = %v, want %v", tt.license, got, tt.want)
			}
		})
	}
}

func TestDefaultCorpus(t *testing.T) {
	for _, cat := range Categories {
		c, err := DefaultCorpus(cat)
		if err != nil {
			t.Fatalf("DefaultCorpus(%q): %v", cat, err)
		}
		if len(c.Lines) == 0 || c.Name != "builtin:"+cat {
			t.Errorf("DefaultCorpus(%q) = %s with %d lines", cat, c.Name, len(c.Lines))
		}
	}
	if _, err := DefaultCorpus("proprietary"); err == nil {
		t.Error("expected error for unknown category")
	}
}
