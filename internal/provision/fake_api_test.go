package provision

import (
	"context"
	"fmt"

	"ocicap/internal/oci"
)

// fakeAPI is an in-memory API implementation for resolver, guard, and
// executor tests. Zero-value fields return empty inventories; errors
// are injected per call.
type fakeAPI struct {
	tenancy string

	instances []oci.Instance
	domains   []oci.AvailabilityDomain
	vcns      []oci.VCN
	subnets   map[string][]oci.Subnet
	images    []oci.Image

	listInstancesErr error
	listDomainsErr   error

	// launch controls LaunchInstance. launched records every request.
	launchErr      error
	launchInstance *oci.Instance
	launched       []oci.LaunchDetails

	// onLaunch, when set, runs before LaunchInstance returns. Used to
	// mutate instance state mid-attempt (duplicate submission races).
	onLaunch func()

	listInstanceCalls int
}

func (f *fakeAPI) Tenancy() string { return f.tenancy }

func (f *fakeAPI) ListInstances(ctx context.Context) ([]oci.Instance, error) {
	f.listInstanceCalls++
	if f.listInstancesErr != nil {
		return nil, f.listInstancesErr
	}
	return f.instances, nil
}

func (f *fakeAPI) ListAvailabilityDomains(ctx context.Context) ([]oci.AvailabilityDomain, error) {
	if f.listDomainsErr != nil {
		return nil, f.listDomainsErr
	}
	return f.domains, nil
}

func (f *fakeAPI) ListVCNs(ctx context.Context) ([]oci.VCN, error) {
	return f.vcns, nil
}

func (f *fakeAPI) ListSubnets(ctx context.Context, vcnID string) ([]oci.Subnet, error) {
	return f.subnets[vcnID], nil
}

func (f *fakeAPI) ListImages(ctx context.Context, operatingSystem, version string) ([]oci.Image, error) {
	var matches []oci.Image
	for _, image := range f.images {
		if image.OperatingSystem == operatingSystem && image.OperatingSystemVersion == version {
			matches = append(matches, image)
		}
	}
	return matches, nil
}

func (f *fakeAPI) LaunchInstance(ctx context.Context, details oci.LaunchDetails) (*oci.Instance, error) {
	f.launched = append(f.launched, details)
	if f.onLaunch != nil {
		f.onLaunch()
	}
	if f.launchErr != nil {
		return nil, f.launchErr
	}
	if f.launchInstance != nil {
		return f.launchInstance, nil
	}
	return nil, fmt.Errorf("fakeAPI: no launch result configured")
}
