package encoding

// Result reports the outcome of one conversion request.
type Result struct {
	OutputPath string
	SizeBytes  int64

	// FPS and Width are the effective values of the attempt that was
	// kept. FPS is SourceRate when the source rate was preserved; Width
	// is zero when no scaling was applied.
	FPS   int
	Width int

	// Adjustments records every parameter reduction the size-fitting
	// search executed, in order, as human-readable entries.
	Adjustments []string

	Success       bool
	FailureReason string

	// SizeCeiling echoes the configured ceiling; zero when none was set.
	SizeCeiling int64

	// Attempts counts pipeline invocations performed for this request.
	Attempts int
}

// Shortfall returns how many bytes the kept artifact exceeds the ceiling
// by, or 0 when the ceiling was met or no ceiling was set.
func (r Result) Shortfall() int64 {
	if r.SizeCeiling <= 0 || r.SizeBytes <= r.SizeCeiling {
		return 0
	}
	return r.SizeBytes - r.SizeCeiling
}

// attempt tracks one size-fitting iteration while the search runs.
type attempt struct {
	index  int
	config ConversionConfig
	path   string
	size   int64
}
