package provision

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"ocicap/internal/config"
	"ocicap/internal/domain"
	"ocicap/internal/oci"
)

func testResolverConfig(t *testing.T) *config.Config {
	t.Helper()
	keyPath := filepath.Join(t.TempDir(), "id_rsa.pub")
	if err := os.WriteFile(keyPath, []byte("ssh-rsa AAAAB3Nza test\n"), 0o644); err != nil {
		t.Fatalf("write key file: %v", err)
	}
	return &config.Config{
		Shape:          domain.ShapeARMFlex,
		SSHKeyPath:     keyPath,
		BootVolumeSize: 50,
	}
}

func testResolverAPI() *fakeAPI {
	return &fakeAPI{
		tenancy: "ocid1.tenancy.oc1..aaa",
		domains: []oci.AvailabilityDomain{
			{Name: "fgGm:EU-FRANKFURT-1-AD-1"},
			{Name: "fgGm:EU-FRANKFURT-1-AD-2"},
			{Name: "fgGm:EU-FRANKFURT-1-AD-3"},
		},
		vcns: []oci.VCN{{ID: "ocid1.vcn.oc1..vcn1"}},
		subnets: map[string][]oci.Subnet{
			"ocid1.vcn.oc1..vcn1": {
				{ID: "ocid1.subnet.oc1..private", ProhibitPublicIPOnVnic: true},
				{ID: "ocid1.subnet.oc1..public", ProhibitPublicIPOnVnic: false},
			},
		},
		images: []oci.Image{
			{ID: "ocid1.image.oc1..ubuntu", OperatingSystem: "Canonical Ubuntu", OperatingSystemVersion: "22.04"},
		},
	}
}

func TestResolve_FlexShapeGetsShapeConfig(t *testing.T) {
	cfg := testResolverConfig(t)
	cfg.ImageID = "ocid1.image.oc1..explicit"

	params, err := NewResolver(testResolverAPI(), cfg).Resolve(context.Background())
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if params.ShapeConfig == nil {
		t.Fatal("expected a shape config for the flex shape")
	}
	if params.ShapeConfig.Ocpus != 1 || params.ShapeConfig.MemoryInGBs != 6 {
		t.Errorf("shape config = %+v, want 1 OCPU / 6 GiB", params.ShapeConfig)
	}
	if params.ShapeConfig.BaselineOcpuUtilization != "BASELINE_1_1" {
		t.Errorf("baseline = %q, want BASELINE_1_1", params.ShapeConfig.BaselineOcpuUtilization)
	}
}

func TestResolve_MicroShapeHasNoShapeConfig(t *testing.T) {
	cfg := testResolverConfig(t)
	cfg.Shape = domain.ShapeE2Micro
	cfg.ImageID = "ocid1.image.oc1..explicit"

	params, err := NewResolver(testResolverAPI(), cfg).Resolve(context.Background())
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if params.ShapeConfig != nil {
		t.Errorf("expected no shape config for the micro shape, got %+v", params.ShapeConfig)
	}
}

func TestResolve_PinnedDomainMustExist(t *testing.T) {
	cfg := testResolverConfig(t)
	cfg.AvailabilityDomain = "fgGm:EU-FRANKFURT-1-AD-9"

	_, err := NewResolver(testResolverAPI(), cfg).Resolve(context.Background())
	if err == nil {
		t.Fatal("expected error for unknown availability domain")
	}

	var cfgErr *domain.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected *domain.ConfigError, got %T: %v", err, err)
	}
}

func TestResolve_PinnedDomainYieldsSingleCandidate(t *testing.T) {
	cfg := testResolverConfig(t)
	cfg.AvailabilityDomain = "fgGm:EU-FRANKFURT-1-AD-2"
	cfg.ImageID = "ocid1.image.oc1..explicit"

	params, err := NewResolver(testResolverAPI(), cfg).Resolve(context.Background())
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if params.Domains.Len() != 1 {
		t.Fatalf("candidate count = %d, want 1", params.Domains.Len())
	}
	if got := params.Domains.Next(); got != "fgGm:EU-FRANKFURT-1-AD-2" {
		t.Errorf("candidate = %q, want the pinned domain", got)
	}
}

func TestResolve_UnpinnedCyclesAllDomains(t *testing.T) {
	cfg := testResolverConfig(t)
	cfg.ImageID = "ocid1.image.oc1..explicit"

	params, err := NewResolver(testResolverAPI(), cfg).Resolve(context.Background())
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if params.Domains.Len() != 3 {
		t.Errorf("candidate count = %d, want 3", params.Domains.Len())
	}
}

func TestResolve_PicksFirstPublicSubnet(t *testing.T) {
	cfg := testResolverConfig(t)
	cfg.ImageID = "ocid1.image.oc1..explicit"

	params, err := NewResolver(testResolverAPI(), cfg).Resolve(context.Background())
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if params.SubnetID != "ocid1.subnet.oc1..public" {
		t.Errorf("subnet = %q, want the public subnet", params.SubnetID)
	}
}

func TestResolve_NoPublicSubnetFails(t *testing.T) {
	cfg := testResolverConfig(t)
	cfg.ImageID = "ocid1.image.oc1..explicit"

	api := testResolverAPI()
	api.subnets["ocid1.vcn.oc1..vcn1"] = []oci.Subnet{
		{ID: "ocid1.subnet.oc1..private", ProhibitPublicIPOnVnic: true},
	}

	_, err := NewResolver(api, cfg).Resolve(context.Background())
	if err == nil {
		t.Fatal("expected error when no subnet permits public IPs")
	}
}

func TestResolve_ImageByOSAndVersion(t *testing.T) {
	cfg := testResolverConfig(t)
	cfg.OperatingSystem = "Canonical Ubuntu"
	cfg.OSVersion = "22.04"

	params, err := NewResolver(testResolverAPI(), cfg).Resolve(context.Background())
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if params.ImageID != "ocid1.image.oc1..ubuntu" {
		t.Errorf("image = %q, want the matching ubuntu image", params.ImageID)
	}
}

func TestResolve_NoMatchingImageFails(t *testing.T) {
	cfg := testResolverConfig(t)
	cfg.OperatingSystem = "Oracle Linux"
	cfg.OSVersion = "9"

	_, err := NewResolver(testResolverAPI(), cfg).Resolve(context.Background())
	if err == nil {
		t.Fatal("expected error when no image matches")
	}
}

func TestResolve_MissingTenancyFails(t *testing.T) {
	cfg := testResolverConfig(t)
	api := testResolverAPI()
	api.tenancy = ""

	_, err := NewResolver(api, cfg).Resolve(context.Background())
	if err == nil {
		t.Fatal("expected error for missing tenancy")
	}
}
