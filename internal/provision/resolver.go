package provision

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"ocicap/internal/config"
	"ocicap/internal/domain"
	"ocicap/internal/oci"
	"ocicap/internal/sshkeys"
)

// Flex shape sizing for the free tier: 1 OCPU, 6 GiB, no burst
// baseline discount.
const (
	flexOcpus       = 1
	flexMemoryGiB   = 6
	flexBaselineOne = "BASELINE_1_1"
)

// Params carries everything one launch attempt needs. Built fresh per
// attempt from configuration plus live provider state — never cached,
// because provider inventory can change between attempts.
type Params struct {
	Compartment    string
	Domains        *ADRing
	SubnetID       string
	ImageID        string
	ShapeConfig    *oci.ShapeConfig
	SSHPublicKey   string
	AssignPublicIP bool
	BootVolumeSize int64
}

// Resolver derives launch parameters from configuration and provider
// queries.
type Resolver struct {
	api API
	cfg *config.Config
}

func NewResolver(api API, cfg *config.Config) *Resolver {
	return &Resolver{api: api, cfg: cfg}
}

// Resolve runs every resolution step. Each step fails independently
// with a *domain.ConfigError naming the step; the caller must not
// attempt creation after a failure.
func (r *Resolver) Resolve(ctx context.Context) (*Params, error) {
	compartment := r.api.Tenancy()
	if compartment == "" {
		return nil, domain.NewConfigError("compartment", fmt.Errorf("tenancy is not set in the OCI config"))
	}

	domains, err := r.resolveDomains(ctx)
	if err != nil {
		return nil, domain.NewConfigError("availability domains", err)
	}

	subnetID, err := r.resolveSubnet(ctx)
	if err != nil {
		return nil, domain.NewConfigError("subnet", err)
	}

	imageID, err := r.resolveImage(ctx)
	if err != nil {
		return nil, domain.NewConfigError("image", err)
	}

	sshKey, err := sshkeys.ReadOrGenerate(r.cfg.SSHKeyPath)
	if err != nil {
		return nil, domain.NewConfigError("ssh key", err)
	}

	params := &Params{
		Compartment:    compartment,
		Domains:        domains,
		SubnetID:       subnetID,
		ImageID:        imageID,
		SSHPublicKey:   sshKey,
		AssignPublicIP: r.cfg.AssignPublicIP,
		BootVolumeSize: r.cfg.BootVolumeSize,
	}

	// Only the flex shape takes a shape configuration; the fixed
	// micro shape rejects one.
	if r.cfg.Shape == domain.ShapeARMFlex {
		params.ShapeConfig = &oci.ShapeConfig{
			Ocpus:                   flexOcpus,
			MemoryInGBs:             flexMemoryGiB,
			BaselineOcpuUtilization: flexBaselineOne,
		}
	}

	slog.Debug("resolved launch parameters",
		"domains", params.Domains.Len(),
		"subnet", params.SubnetID,
		"image", params.ImageID,
	)
	return params, nil
}

func (r *Resolver) resolveDomains(ctx context.Context) (*ADRing, error) {
	listed, err := r.api.ListAvailabilityDomains(ctx)
	if err != nil {
		return nil, fmt.Errorf("list availability domains: %w", err)
	}

	names := make([]string, 0, len(listed))
	for _, ad := range listed {
		names = append(names, ad.Name)
	}

	if pinned := r.cfg.AvailabilityDomain; pinned != "" {
		if !slices.Contains(names, pinned) {
			return nil, fmt.Errorf("availability domain %s not found in tenancy", pinned)
		}
		return NewADRing([]string{pinned})
	}
	return NewADRing(names)
}

func (r *Resolver) resolveSubnet(ctx context.Context) (string, error) {
	if r.cfg.SubnetID != "" {
		return r.cfg.SubnetID, nil
	}

	vcns, err := r.api.ListVCNs(ctx)
	if err != nil {
		return "", fmt.Errorf("list VCNs: %w", err)
	}
	if len(vcns) == 0 {
		return "", fmt.Errorf("no VCNs found")
	}

	subnets, err := r.api.ListSubnets(ctx, vcns[0].ID)
	if err != nil {
		return "", fmt.Errorf("list subnets: %w", err)
	}
	for _, subnet := range subnets {
		if !subnet.ProhibitPublicIPOnVnic {
			return subnet.ID, nil
		}
	}
	return "", fmt.Errorf("no public subnets found in VCN %s", vcns[0].ID)
}

func (r *Resolver) resolveImage(ctx context.Context) (string, error) {
	if r.cfg.ImageID != "" {
		return r.cfg.ImageID, nil
	}

	images, err := r.api.ListImages(ctx, r.cfg.OperatingSystem, r.cfg.OSVersion)
	if err != nil {
		return "", fmt.Errorf("list images: %w", err)
	}
	if len(images) == 0 {
		return "", fmt.Errorf("no images found for %s %s", r.cfg.OperatingSystem, r.cfg.OSVersion)
	}
	return images[0].ID, nil
}
