package docpack

// Phase names the stage of an export job.
type Phase string

// Export job phases. A job ends in PhaseDone or PhaseError.
const (
	PhaseDiscovering Phase = "discovering"
	PhaseFetching    Phase = "fetching"
	PhaseRendering   Phase = "rendering"
	PhaseDone        Phase = "done"
	PhaseError       Phase = "error"
)

// FetchProgress reports the state of an export job.
type FetchProgress struct {
	Phase       Phase
	Current     int
	Total       int
	CurrentPage string
	Err         error
}

// ProgressFunc is called as an export job advances.
type ProgressFunc func(FetchProgress)

// Report calls fn with p when fn is set.
func (fn ProgressFunc) Report(p FetchProgress) {
	if fn != nil {
		fn(p)
	}
}
