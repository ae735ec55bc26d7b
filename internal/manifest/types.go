package manifest

import (
	"strings"

	"github.com/kitops-ml/blogdata/internal/domain"
)

// Normalize trims surrounding whitespace from the URL and guarantees a
// non-nil tag list. Override values are kept verbatim.
func Normalize(desc domain.PostDescriptor) domain.PostDescriptor {
	desc.URL = strings.TrimSpace(desc.URL)
	if desc.Tags == nil {
		desc.Tags = []string{}
	} else {
		desc.Tags = append([]string(nil), desc.Tags...)
	}
	return desc
}
