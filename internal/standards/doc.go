// Package standards provides the desired state for reconciliation: the
// published apprenticeship standards, keyed by "<referenceNumber>_<version>".
//
// FeedSource downloads the standards feed over HTTP, optionally resolving the
// feed URL through the courses API first. FileSource reads the same array
// from a local YAML or JSON file, which is useful for fixtures and dry runs.
//
// Both produce content as the standard's JSON object indented with two
// spaces, keys in feed order and no HTML escaping, so unchanged standards
// compare equal across runs.
package standards
