// Package content reconciles CMS-supplied page content with built-in
// defaults.
//
// Merge is the core operation. It overlays a partial remote Tree onto a
// complete default Tree:
//
//	defaults := content.Tree{"a": 1, "b": content.Tree{"c": 2, "d": 3}}
//	remote := content.Tree{"b": content.Tree{"c": 99}}
//	content.Merge(defaults, remote) // {"a": 1, "b": {"c": 99, "d": 3}}
//
// Values are dispatched on their Kind. Null remote values are skipped,
// sequences replace the default wholesale, trees merge recursively, and
// primitives overwrite. A nil remote returns the defaults.
//
// Resolve applies the same merge to a typed value. Remote leaves that do not
// fit the Go field type are ignored, so a typed page never loses a default to
// malformed CMS data:
//
//	page := content.Resolve(HomePage{Title: "Welcome"}, remote)
//
// Providers fetch remote trees over HTTP (HTTPProvider), from S3
// (S3Provider) or from Postgres (PostgresProvider), and CachedProvider adds
// a TTL cache in front of any of them. Loader ties a provider to YAML
// defaults and turns every fetch failure into "no remote content".
package content
