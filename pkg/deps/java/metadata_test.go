package java

import (
	"context"
	"errors"
	"testing"

	"github.com/matzehuels/otsaudit/pkg/deps"
	"github.com/matzehuels/otsaudit/pkg/integrations"
)

func TestMetadataSource(t *testing.T) {
	src := MetadataSource{Fetcher: &fakeRepo{poms: map[string]string{
		"org.lib:child:1": `<project>
  <parent><groupId>org.lib</groupId><artifactId>parent</artifactId><version>7</version></parent>
  <artifactId>child</artifactId>
  <url>https://lib.org/${project.artifactId}</url>
  <description>  A child library  </description>
  <licenses>
    <license><name>Apache License, Version 2.0</name><url>https://www.apache.org/licenses/LICENSE-2.0.txt</url></license>
    <license><name>MIT License</name></license>
  </licenses>
</project>`,
		"org.lib:bare:1": `<project><groupId>org.lib</groupId><artifactId>bare</artifactId><version>1</version>
  <url>${scm.url}</url></project>`,
	}}}

	md, err := src.Metadata(context.Background(), deps.Coordinate{Group: "org.lib", Name: "child", Version: "1"})
	if err != nil {
		t.Fatalf("Metadata: %v", err)
	}
	if md.License != "Apache License, Version 2.0" || md.LicenseURL != "https://www.apache.org/licenses/LICENSE-2.0.txt" {
		t.Errorf("license = %q (%q), want the first license", md.License, md.LicenseURL)
	}
	if md.URL != "https://lib.org/child" {
		t.Errorf("URL = %q", md.URL)
	}
	if md.Description != "A child library" {
		t.Errorf("Description = %q", md.Description)
	}
	if md.Parent == nil || md.Parent.String() != "org.lib:parent:7" {
		t.Errorf("Parent = %v", md.Parent)
	}

	bare, err := src.Metadata(context.Background(), deps.Coordinate{Group: "org.lib", Name: "bare", Version: "1"})
	if err != nil {
		t.Fatal(err)
	}
	if bare.URL != "" || bare.License != "" || bare.Parent != nil {
		t.Errorf("bare = %+v, want empty", bare)
	}

	_, err = src.Metadata(context.Background(), deps.Coordinate{Group: "org.lib", Name: "missing", Version: "1"})
	if !errors.Is(err, integrations.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestMetadataSource_WithResolver(t *testing.T) {
	src := MetadataSource{Fetcher: &fakeRepo{poms: map[string]string{
		"org.lib:child:1": `<project>
  <parent><groupId>org.lib</groupId><artifactId>parent</artifactId><version>7</version></parent>
  <artifactId>child</artifactId></project>`,
		"org.lib:parent:7": `<project><groupId>org.lib</groupId><artifactId>parent</artifactId><version>7</version>
  <url>https://lib.org</url>
  <licenses><license><name>MIT License</name><url>https://opensource.org/licenses/MIT</url></license></licenses>
</project>`,
	}}}

	r := deps.NewMetadataResolver(src, deps.Overrides{}, nil)
	a := r.Resolve(context.Background(), &deps.Node{Coordinate: deps.Coordinate{Group: "org.lib", Name: "child", Version: "1"}})
	if a.License != "MIT License" || a.LicenseURL != "https://opensource.org/licenses/MIT" || a.URL != "https://lib.org" {
		t.Errorf("inherited metadata = %+v", a)
	}
}
