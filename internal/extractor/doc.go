// Package extractor resolves post metadata from a fetched HTML page.
//
// Every field is taken from the manifest override when present, otherwise
// from the first strategy in its chain that yields a value: <meta name>,
// Open Graph, Twitter card, then a field-specific fallback. Icons come from
// <link rel> elements only. An optional readability pass fills whatever the
// chains leave empty.
package extractor
