// Package pkg provides the libraries behind otsaudit, a third-party
// dependency auditor for Maven builds.
//
// # Overview
//
// The data flow of an audit:
//
//	pom.xml or dependency tree file
//	         ↓
//	    [deps] package (resolve modules, flatten into artifacts)
//	         ↓
//	    [classify] package (licenses, freshness, new-to-release)
//	         ↓
//	    [report] package (CSV reports and snapshots)
//
// [audit] ties these together; [config] holds the run settings.
//
// # Packages
//
//   - audit: scans and classification passes
//   - buildinfo: version information
//   - cache: file, Redis and null response caches
//   - classify: license, freshness and delta classification
//   - config: TOML/YAML configuration and validation
//   - deps: artifacts, graphs and flattening; java and treefile providers
//   - errors: coded errors and input validation
//   - integrations: HTTP client and the Maven repository client
//   - observability: scan, cache and HTTP hooks
//   - render: Graphviz rendering of dependency graphs
//   - report: CSV report writers
//   - storage: release snapshot stores (memory, file, MongoDB)
//   - version: version parsing and stability predicates
package pkg
