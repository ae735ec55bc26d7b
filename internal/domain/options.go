package domain

// CommonOptions contains run-level switches shared by the CLI and the pipeline.
type CommonOptions struct {
	Verbose bool
	// Refresh ignores a valid cache entry and refetches every post
	Refresh bool
	// NoCache disables both cache lookup and write-back
	NoCache bool
	// Progress renders a progress bar while fetching
	Progress bool
}

// DefaultCommonOptions returns CommonOptions with default values.
func DefaultCommonOptions() CommonOptions {
	return CommonOptions{}
}
