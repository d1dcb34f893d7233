package provision

import (
	"context"

	"ocicap/internal/oci"
)

// API is the slice of the provider client the engine depends on.
// *oci.Client satisfies it; tests substitute fakes.
type API interface {
	Tenancy() string
	ListInstances(ctx context.Context) ([]oci.Instance, error)
	ListAvailabilityDomains(ctx context.Context) ([]oci.AvailabilityDomain, error)
	ListVCNs(ctx context.Context) ([]oci.VCN, error)
	ListSubnets(ctx context.Context, vcnID string) ([]oci.Subnet, error)
	ListImages(ctx context.Context, operatingSystem, version string) ([]oci.Image, error)
	LaunchInstance(ctx context.Context, details oci.LaunchDetails) (*oci.Instance, error)
}
