// Package classify annotates a flattened [deps.ArtifactSet] with compliance
// and freshness results.
//
// Three passes exist, each independent of the others:
//
//   - [LicenseClassifier] decides whether each artifact's license is approved
//     by checking it against license corpora and explicit allow and deny lists.
//     Built-in corpora for the four license categories ship with the package.
//   - [FreshnessClassifier] looks up the newest stable version of each artifact
//     and flags artifacts lagging it by more than the configured tolerance.
//   - [MarkNew] compares the set against the previous release's snapshot and
//     flags artifacts introduced since then.
//
// Corpus and snapshot matching are plain substring tests over the raw text, so
// a name contained in a longer entry counts as present.
package classify
