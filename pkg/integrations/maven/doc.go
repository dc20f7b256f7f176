// Package maven provides an HTTP client for Maven repositories.
//
// # Overview
//
// The client reads two kinds of documents from a repository that follows the
// standard Maven 2 layout (Maven Central, Nexus, Artifactory):
//
//   - group/path/name/version/name-version.pom for licenses, URLs, parents
//     and dependencies ([Client.FetchPOM])
//   - group/path/name/maven-metadata.xml for the published versions
//     ([Client.Versions], [Client.LatestVersion])
//
// # Usage
//
//	client, err := maven.NewClient(fileCache, maven.Options{TTL: 24 * time.Hour})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	pom, err := client.FetchPOM(ctx, "com.google.guava", "guava", "33.0.0-jre")
//	latest, err := client.LatestVersion(ctx, "com.google.guava", "guava")
//
// # Latest Version
//
// [Client.LatestVersion] walks the metadata versions newest-first and returns
// the first one accepted by the configured [version.StabilityPredicate].
// Snapshots, milestones and release candidates are therefore skipped with
// the default predicate.
//
// # Caching
//
// POMs, version listings and latest-version answers are cached through the
// [cache.Cache] given to [NewClient], keyed by repository host so that
// several repositories can share one backend.
package maven
