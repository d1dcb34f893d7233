package attemptlog

import "time"

// Entry is one persisted provisioning attempt.
type Entry struct {
	ID                 int64     `json:"id"`
	AttemptID          string    `json:"attempt_id"`
	Timestamp          time.Time `json:"timestamp"`
	Shape              string    `json:"shape"`
	AvailabilityDomain string    `json:"availability_domain,omitempty"`
	Outcome            string    `json:"outcome"`
	InstanceID         string    `json:"instance_id,omitempty"`
	Reason             string    `json:"reason,omitempty"`
	DurationMs         int64     `json:"duration_ms"`
}
