package domain

// OutcomeKind discriminates the result of a single provisioning attempt.
type OutcomeKind string

const (
	// OutcomeCreated means the provider acknowledged the launch request.
	OutcomeCreated OutcomeKind = "created"

	// OutcomeAlreadyExists means an instance of the target shape is
	// already running or in flight, so no new one was requested.
	OutcomeAlreadyExists OutcomeKind = "already-exists"

	// OutcomeRetryable means the attempt failed on a transient
	// condition (capacity, rate limit, upstream gateway) and the
	// caller may try again later.
	OutcomeRetryable OutcomeKind = "retryable"

	// OutcomeFatal means the attempt failed on a condition that will
	// not clear on its own (permissions, malformed request, unknown
	// errors). The caller must stop and alert an operator.
	OutcomeFatal OutcomeKind = "fatal"
)

// Outcome is the single result record handed back to the caller after
// one attempt. Exactly one attempt produces exactly one Outcome.
type Outcome struct {
	Kind OutcomeKind

	// InstanceID is set for Created and AlreadyExists.
	InstanceID string

	// DisplayName is set for AlreadyExists, naming the instance that
	// satisfied the idempotency check.
	DisplayName string

	// Reason is set for Retryable and Fatal.
	Reason string
}

// ExitCode maps the outcome onto the process exit contract consumed by
// external schedulers: 0 success or already exists, 1 retryable,
// 2 fatal.
func (o Outcome) ExitCode() int {
	switch o.Kind {
	case OutcomeCreated, OutcomeAlreadyExists:
		return 0
	case OutcomeRetryable:
		return 1
	default:
		return 2
	}
}

func (o Outcome) String() string {
	switch o.Kind {
	case OutcomeCreated:
		return "instance creation successful: " + o.InstanceID
	case OutcomeAlreadyExists:
		return "instance already exists: " + o.DisplayName
	case OutcomeRetryable:
		return "capacity issue: " + o.Reason
	default:
		return "fatal error: " + o.Reason
	}
}
