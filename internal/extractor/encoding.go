package extractor

import (
	"bytes"
	"io"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// DetectEncoding returns the canonical name of the page encoding, looking at
// the BOM, the Content-Type header and the first 1024 bytes of markup
func DetectEncoding(content []byte, contentType string) string {
	_, name, _ := charset.DetermineEncoding(content, contentType)
	if name == "" {
		return "utf-8"
	}
	return name
}

// ConvertToUTF8 decodes content into UTF-8. Unknown encodings are returned
// unchanged.
func ConvertToUTF8(content []byte, contentType string) ([]byte, error) {
	name := DetectEncoding(content, contentType)
	if name == "utf-8" {
		return content, nil
	}

	enc, err := htmlindex.Get(name)
	if err != nil {
		return content, nil
	}

	return io.ReadAll(transform.NewReader(bytes.NewReader(content), enc.NewDecoder()))
}
