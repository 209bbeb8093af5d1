package llm

import "fmt"

// Reason classifies a gateway failure.
type Reason string

const (
	// ReasonNetwork covers transport failures, including timeouts.
	ReasonNetwork Reason = "network"
	// ReasonHTTPStatus covers non-2xx replies from the endpoint.
	ReasonHTTPStatus Reason = "http-status"
	// ReasonDecode covers reply bodies that don't match the expected shape.
	ReasonDecode Reason = "decode"
)

// GatewayError is the single error category surfaced by the gateway.
// The caller distinguishes failures by Reason; none are retried here.
type GatewayError struct {
	Reason     Reason
	StatusCode int    // set when Reason is ReasonHTTPStatus
	Body       string // response body excerpt, when available
	Err        error  // underlying error, when available
}

func (e *GatewayError) Error() string {
	switch e.Reason {
	case ReasonHTTPStatus:
		return fmt.Sprintf("gateway: unexpected status %d: %s", e.StatusCode, e.Body)
	case ReasonDecode:
		return fmt.Sprintf("gateway: malformed response: %v", e.Err)
	default:
		return fmt.Sprintf("gateway: request failed: %v", e.Err)
	}
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}
