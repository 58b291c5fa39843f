package ai

import "fmt"

// Failure kinds a provider call can end in. The dashboard maps these onto
// its own error codes; here they just classify what went wrong.
const (
	KindAuth        = "auth"         // credential rejected (401/403)
	KindRateLimited = "rate_limited" // vendor or local limiter pushed back (429)
	KindNetwork     = "network"      // transport failure, timeout, cancelled context
	KindBadResponse = "bad_response" // vendor answered but the payload is unusable
)

// CallError describes a failed provider round trip.
type CallError struct {
	Provider string
	Kind     string
	Status   int // HTTP status when one was received
	Message  string
	Err      error
}

func (e *CallError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Status != 0 {
		return fmt.Sprintf("%s call failed (%s, status %d): %s", e.Provider, e.Kind, e.Status, msg)
	}
	return fmt.Sprintf("%s call failed (%s): %s", e.Provider, e.Kind, msg)
}

func (e *CallError) Unwrap() error { return e.Err }

// kindForStatus classifies a non-200 HTTP status.
func kindForStatus(status int) string {
	switch status {
	case 401, 403:
		return KindAuth
	case 429:
		return KindRateLimited
	default:
		return KindBadResponse
	}
}
