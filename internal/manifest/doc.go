// Package manifest loads the curated list of blog posts. The manifest is an
// ordered array of post descriptors; only url is required, every other field
// overrides the value extracted from the page.
//
// # Manifest Format
//
// JSON is the canonical format:
//
//	[
//	  {"url": "https://example.com/blog/kitops-intro", "tags": ["ml", "ops"]},
//	  {"url": "https://example.com/blog/release", "title": "Custom title"}
//	]
//
// YAML is accepted for files ending in .yaml or .yml:
//
//	- url: https://example.com/blog/kitops-intro
//	  tags: [ml, ops]
//
// # Usage
//
//	loader := manifest.NewLoader()
//	posts, err := loader.Load("posts.json")
//
// Entry-level problems (empty or repeated URLs) are not load errors; the
// pipeline skips those entries. The package defines sentinel errors for the
// failures that make the whole file unusable:
//   - ErrFileNotFound: manifest file does not exist
//   - ErrInvalidFormat: file is not valid JSON/YAML or not a list
package manifest
