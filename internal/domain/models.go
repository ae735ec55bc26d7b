package domain

// PostDescriptor is a manually authored manifest entry. Every field except
// URL is an optional override for the value extracted from the page.
type PostDescriptor struct {
	URL           string   `json:"url" yaml:"url"`
	Title         string   `json:"title,omitempty" yaml:"title,omitempty"`
	Author        string   `json:"author,omitempty" yaml:"author,omitempty"`
	Description   string   `json:"description,omitempty" yaml:"description,omitempty"`
	PublishedTime string   `json:"published_time,omitempty" yaml:"published_time,omitempty"`
	SiteName      string   `json:"site_name,omitempty" yaml:"site_name,omitempty"`
	Image         string   `json:"image,omitempty" yaml:"image,omitempty"`
	Tags          []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// PostRecord is a fully resolved blog post as consumed by the site renderer.
// Unresolved string fields are left empty and omitted from JSON; Tags is
// always serialized.
type PostRecord struct {
	Title         string   `json:"title,omitempty"`
	Author        string   `json:"author,omitempty"`
	Description   string   `json:"description,omitempty"`
	PublishedTime string   `json:"published_time,omitempty"`
	SiteName      string   `json:"site_name,omitempty"`
	Image         string   `json:"image,omitempty"`
	Icon          string   `json:"icon,omitempty"`
	URL           string   `json:"url"`
	Tags          []string `json:"tags"`
}

// HasURL reports whether the record carries a usable URL
func (r PostRecord) HasURL() bool {
	return r.URL != ""
}

// OutcomeStatus classifies what happened to a single manifest entry
type OutcomeStatus int

const (
	// OutcomeSuccess means a record was produced
	OutcomeSuccess OutcomeStatus = iota
	// OutcomeSkipped means the entry contributed no record
	OutcomeSkipped
)

// String returns the status name
func (s OutcomeStatus) String() string {
	switch s {
	case OutcomeSuccess:
		return "success"
	case OutcomeSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Outcome is the per-entry result of a pipeline run
type Outcome struct {
	Status OutcomeStatus
	URL    string
	Record *PostRecord
	Reason error
}

// Success builds a successful outcome
func Success(record PostRecord) Outcome {
	return Outcome{
		Status: OutcomeSuccess,
		URL:    record.URL,
		Record: &record,
	}
}

// Skipped builds an outcome for an entry that produced no record
func Skipped(url string, reason error) Outcome {
	return Outcome{
		Status: OutcomeSkipped,
		URL:    url,
		Reason: reason,
	}
}

// IsSuccess reports whether the outcome produced a record
func (o Outcome) IsSuccess() bool {
	return o.Status == OutcomeSuccess && o.Record != nil
}

// Records returns the records of all successful outcomes in order
func Records(outcomes []Outcome) []PostRecord {
	records := make([]PostRecord, 0, len(outcomes))
	for _, o := range outcomes {
		if o.IsSuccess() {
			records = append(records, *o.Record)
		}
	}
	return records
}
