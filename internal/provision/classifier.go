package provision

import "ocicap/internal/domain"

// Severity is the classifier's verdict on a provider error.
type Severity int

const (
	// SeverityRetryable marks transient conditions: capacity
	// exhaustion, rate limiting, upstream gateway failures.
	SeverityRetryable Severity = iota

	// SeverityFatal marks everything else: permissions, malformed
	// requests, unknown errors.
	SeverityFatal
)

func (s Severity) String() string {
	if s == SeverityRetryable {
		return "retryable"
	}
	return "fatal"
}

// Capacity exhaustion for free-tier shapes surfaces through varying
// combinations of code, message, and status, so all three are
// classification keys. "Out of host capacity." appears both as a code
// and as a message depending on the service frontend.
var retryableCodes = map[string]bool{
	"TooManyRequests":       true,
	"Out of host capacity.": true,
	"InternalError":         true,
}

var retryableMessages = map[string]bool{
	"Out of host capacity.": true,
	"Bad Gateway":           true,
}

const retryableStatus = 502

// Classify maps a normalized provider error to a severity. Rules are
// checked in order and the first match wins: retryable code, retryable
// message, 502 status; anything else is fatal. Pure function, no side
// effects.
func Classify(err *domain.ProviderError) Severity {
	if err == nil {
		return SeverityFatal
	}
	if retryableCodes[err.Code] || retryableMessages[err.Message] || err.HTTPStatus == retryableStatus {
		return SeverityRetryable
	}
	return SeverityFatal
}
