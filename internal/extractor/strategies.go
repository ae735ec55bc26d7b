package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Strategy looks up a single candidate value in a parsed page. An empty
// result means the strategy could not resolve the field.
type Strategy func(doc *goquery.Document) string

// Chain is an ordered list of strategies
type Chain []Strategy

// Resolve returns the first non-empty value produced by the chain
func (c Chain) Resolve(doc *goquery.Document) string {
	for _, s := range c {
		if v := s(doc); v != "" {
			return v
		}
	}
	return ""
}

// firstAttr returns the first non-blank attr value among the matches
func firstAttr(doc *goquery.Document, selector, attr string) string {
	var value string
	doc.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if v, ok := s.Attr(attr); ok {
			value = strings.TrimSpace(v)
		}
		return value == ""
	})
	return value
}

// MetaName reads <meta name="name" content="...">
func MetaName(name string) Strategy {
	selector := `meta[name="` + name + `"]`
	return func(doc *goquery.Document) string {
		return firstAttr(doc, selector, "content")
	}
}

// Property reads <meta property="property" content="...">
func Property(property string) Strategy {
	selector := `meta[property="` + property + `"]`
	return func(doc *goquery.Document) string {
		return firstAttr(doc, selector, "content")
	}
}

// OGProperty reads the Open Graph tag og:name
func OGProperty(name string) Strategy {
	return Property("og:" + name)
}

// Twitter reads the Twitter card tag twitter:name, published either as a
// property or as a name attribute
func Twitter(name string) Strategy {
	selector := `meta[property="twitter:` + name + `"], meta[name="twitter:` + name + `"]`
	return func(doc *goquery.Document) string {
		return firstAttr(doc, selector, "content")
	}
}

// TitleElement reads the text of <title>
func TitleElement() Strategy {
	return func(doc *goquery.Document) string {
		return strings.TrimSpace(doc.Find("title").First().Text())
	}
}

// LinkHref reads the href of <link rel="rel">
func LinkHref(rel string) Strategy {
	selector := `link[rel="` + rel + `"]`
	return func(doc *goquery.Document) string {
		return firstAttr(doc, selector, "href")
	}
}

// metaChain is the chain shared by every overridable field
func metaChain(name string, extra ...Strategy) Chain {
	chain := Chain{MetaName(name), OGProperty(name), Twitter(name)}
	return append(chain, extra...)
}

// Field chains applied after the manifest override
var (
	TitleChain         = metaChain("title", TitleElement())
	AuthorChain        = metaChain("author")
	DescriptionChain   = metaChain("description")
	PublishedTimeChain = metaChain("published_time", Property("article:published_time"))
	SiteNameChain      = metaChain("site_name")
	ImageChain         = metaChain("image", Property("og:image:url"))
	IconChain          = Chain{LinkHref("icon"), LinkHref("shortcut icon"), LinkHref("alternate icon")}
)
