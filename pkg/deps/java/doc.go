// Package java resolves Maven projects into dependency graphs.
//
// # Overview
//
// [POMGraphProvider] implements [deps.GraphProvider] for a project's pom.xml:
//
//	client, _ := maven.NewClient(c, maven.Options{})
//	provider := java.NewPOMGraphProvider("pom.xml", client, logger)
//	graph, err := provider.Graph(ctx)
//
// Each <module> of a multi-module build becomes one [deps.Module], and the
// aggregator POM is skipped unless ScanRootProject is set (see
// [deps.SelectModules]). A project without modules is scanned as is. Direct
// dependencies are resolved into trees by fetching POMs from the repository.
//
// [MetadataSource] implements [deps.MetadataSource] on the same client, so
// licenses, URLs, descriptions and parent links come from the artifact POMs.
//
// # Resolution Rules
//
// The resolver evaluates enough of the effective POM to name each
// dependency version:
//
//   - groupId and version are inherited from <parent>
//   - <properties> and <dependencyManagement> are merged down the parent chain
//   - import-scoped BOMs in <dependencyManagement> are merged in
//   - ${...} references are substituted; dependencies left unresolved are skipped
//   - test, provided, system and optional dependencies are skipped
//
// Versions are taken as declared. Conflicts between versions of the same
// artifact are not mediated; every declared version becomes its own node.
//
// [deps.GraphProvider]: github.com/matzehuels/otsaudit/pkg/deps.GraphProvider
// [deps.MetadataSource]: github.com/matzehuels/otsaudit/pkg/deps.MetadataSource
// [deps.Module]: github.com/matzehuels/otsaudit/pkg/deps.Module
// [deps.SelectModules]: github.com/matzehuels/otsaudit/pkg/deps.SelectModules
package java
