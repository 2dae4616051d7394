package reqflow

// Status describes the current phase of a controlled request.
type Status int

const (
	// StatusInit means no request has ever been attempted. It is the only
	// initial status; no transition leads back to it.
	StatusInit Status = iota
	// StatusStart means a request is in flight.
	StatusStart
	// StatusSuccess means the request resolved with a 2xx status code.
	StatusSuccess
	// StatusFailure means the request resolved with a non-2xx status code.
	StatusFailure
	// StatusError means the transport itself failed (network, timeout).
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusInit:
		return "INIT"
	case StatusStart:
		return "START"
	case StatusSuccess:
		return "SUCCESS"
	case StatusFailure:
		return "FAILURE"
	case StatusError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Terminal reports whether s is a completed outcome.
func (s Status) Terminal() bool {
	return s == StatusSuccess || s == StatusFailure || s == StatusError
}

// Response is the subset of a transport response the controller retains for
// caching and propagation. Headers and other transport-specific fields are
// discarded once the outcome is classified.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Data       []byte `json:"data,omitempty"`
}

// LifecycleState is the published view of a single controller instance. It is
// owned exclusively by that controller and mutated only through its
// transition function.
type LifecycleState struct {
	Status   Status
	Response *Response
	Err      error
	Tag      string
}
