package maven

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"strings"

	"golang.org/x/text/encoding/ianaindex"
)

// POM is the subset of a Maven project object model used for auditing.
//
// Values are raw: property references like ${project.version} are left as
// written. Use [POM.Interpolate] to substitute them.
type POM struct {
	GroupID              string       `xml:"groupId" json:"groupId,omitempty"`
	ArtifactID           string       `xml:"artifactId" json:"artifactId"`
	Version              string       `xml:"version" json:"version,omitempty"`
	Packaging            string       `xml:"packaging" json:"packaging,omitempty"`
	Name                 string       `xml:"name" json:"name,omitempty"`
	Description          string       `xml:"description" json:"description,omitempty"`
	URL                  string       `xml:"url" json:"url,omitempty"`
	Parent               *Parent      `xml:"parent" json:"parent,omitempty"`
	Licenses             []License    `xml:"licenses>license" json:"licenses,omitempty"`
	Properties           Properties   `xml:"properties" json:"properties,omitempty"`
	DependencyManagement []Dependency `xml:"dependencyManagement>dependencies>dependency" json:"dependencyManagement,omitempty"`
	Dependencies         []Dependency `xml:"dependencies>dependency" json:"dependencies,omitempty"`
	Modules              []string     `xml:"modules>module" json:"modules,omitempty"`
}

// Parent references a parent POM.
type Parent struct {
	GroupID      string `xml:"groupId" json:"groupId"`
	ArtifactID   string `xml:"artifactId" json:"artifactId"`
	Version      string `xml:"version" json:"version"`
	RelativePath string `xml:"relativePath" json:"relativePath,omitempty"`
}

// License is one <license> entry.
type License struct {
	Name string `xml:"name" json:"name"`
	URL  string `xml:"url" json:"url,omitempty"`
}

// Dependency is one <dependency> entry.
type Dependency struct {
	GroupID    string `xml:"groupId" json:"groupId"`
	ArtifactID string `xml:"artifactId" json:"artifactId"`
	Version    string `xml:"version" json:"version,omitempty"`
	Scope      string `xml:"scope" json:"scope,omitempty"`
	Type       string `xml:"type" json:"type,omitempty"`
	Optional   string `xml:"optional" json:"optional,omitempty"`
}

// Runtime reports whether the dependency is on the runtime classpath of its
// dependents: not test, provided, system or import scoped, and not optional.
func (d Dependency) Runtime() bool {
	switch strings.TrimSpace(d.Scope) {
	case "", "compile", "runtime":
	default:
		return false
	}
	return strings.TrimSpace(d.Optional) != "true"
}

// Properties holds the free-form <properties> section.
type Properties map[string]string

// UnmarshalXML reads each child element as one property.
func (p *Properties) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	m := Properties{}
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			var v string
			if err := d.DecodeElement(&v, &t); err != nil {
				return err
			}
			m[t.Name.Local] = strings.TrimSpace(v)
		case xml.EndElement:
			*p = m
			return nil
		}
	}
}

// ParsePOM decodes a pom.xml document. Non-UTF-8 encodings declared in the
// XML prolog (ISO-8859-1 is common on Maven Central) are converted.
func ParsePOM(data []byte) (*POM, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charsetReader
	dec.Strict = false
	var pom POM
	if err := dec.Decode(&pom); err != nil {
		return nil, fmt.Errorf("parse pom: %w", err)
	}
	pom.trim()
	return &pom, nil
}

func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := ianaindex.IANA.Encoding(label)
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return input, nil
	}
	return enc.NewDecoder().Reader(input), nil
}

func (p *POM) trim() {
	p.GroupID = strings.TrimSpace(p.GroupID)
	p.ArtifactID = strings.TrimSpace(p.ArtifactID)
	p.Version = strings.TrimSpace(p.Version)
	p.Description = strings.TrimSpace(p.Description)
	p.URL = strings.TrimSpace(p.URL)
	for i := range p.Licenses {
		p.Licenses[i].Name = strings.TrimSpace(p.Licenses[i].Name)
		p.Licenses[i].URL = strings.TrimSpace(p.Licenses[i].URL)
	}
	for _, ds := range [][]Dependency{p.Dependencies, p.DependencyManagement} {
		for i := range ds {
			ds[i].GroupID = strings.TrimSpace(ds[i].GroupID)
			ds[i].ArtifactID = strings.TrimSpace(ds[i].ArtifactID)
			ds[i].Version = strings.TrimSpace(ds[i].Version)
		}
	}
}

// Group returns the POM's groupId, inherited from the parent when omitted.
func (p *POM) Group() string {
	if p.GroupID == "" && p.Parent != nil {
		return strings.TrimSpace(p.Parent.GroupID)
	}
	return p.GroupID
}

// ResolvedVersion returns the POM's version, inherited from the parent when
// omitted.
func (p *POM) ResolvedVersion() string {
	if p.Version == "" && p.Parent != nil {
		return strings.TrimSpace(p.Parent.Version)
	}
	return p.Version
}

var propertyRef = regexp.MustCompile(`\$\{([^}]+)\}`)

// Interpolate substitutes ${...} references in s from props and the
// project.* built-ins. Unknown references are left in place. Substitution is
// repeated so properties may refer to other properties.
func (p *POM) Interpolate(s string, props Properties) string {
	for range 8 {
		if !strings.Contains(s, "${") {
			return s
		}
		next := propertyRef.ReplaceAllStringFunc(s, func(ref string) string {
			key := ref[2 : len(ref)-1]
			if v, ok := p.builtin(key); ok {
				return v
			}
			if v, ok := props[key]; ok {
				return v
			}
			return ref
		})
		if next == s {
			return s
		}
		s = next
	}
	return s
}

func (p *POM) builtin(key string) (string, bool) {
	switch strings.TrimPrefix(key, "pom.") {
	case "project.groupId", "groupId":
		return p.Group(), true
	case "project.artifactId", "artifactId":
		return p.ArtifactID, true
	case "project.version", "version":
		return p.ResolvedVersion(), true
	case "project.parent.groupId":
		if p.Parent != nil {
			return p.Parent.GroupID, true
		}
	case "project.parent.version":
		if p.Parent != nil {
			return p.Parent.Version, true
		}
	}
	return "", false
}

// Unresolved reports whether s still holds a property reference.
func Unresolved(s string) bool {
	return strings.Contains(s, "${")
}
