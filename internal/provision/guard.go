package provision

import (
	"context"
	"fmt"

	"ocicap/internal/oci"
)

// activeStates are the lifecycle states that count as "existing" for
// idempotency. Terminated or stopped instances never block a new
// attempt.
var activeStates = map[string]bool{
	"RUNNING":      true,
	"PROVISIONING": true,
	"STARTING":     true,
}

// Guard detects instances of the target shape that already exist or
// are in flight, so the executor never submits a duplicate create.
type Guard struct {
	api API
}

func NewGuard(api API) *Guard {
	return &Guard{api: api}
}

// FindExisting lists every instance in the compartment (pagination is
// drained by the client) and returns those matching shape in an
// active lifecycle state. Cheap enough to run twice per attempt.
func (g *Guard) FindExisting(ctx context.Context, shape string) ([]oci.Instance, error) {
	instances, err := g.api.ListInstances(ctx)
	if err != nil {
		return nil, fmt.Errorf("list instances: %w", err)
	}

	var matches []oci.Instance
	for _, instance := range instances {
		if instance.Shape == shape && activeStates[instance.LifecycleState] {
			matches = append(matches, instance)
		}
	}
	return matches, nil
}
