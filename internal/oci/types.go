package oci

// API object shapes for the compute, networking, and identity
// endpoints this client touches. Field sets are trimmed to what the
// provisioning engine consumes.

// Instance is a compute instance summary.
type Instance struct {
	ID                 string `json:"id"`
	AvailabilityDomain string `json:"availabilityDomain"`
	CompartmentID      string `json:"compartmentId"`
	DisplayName        string `json:"displayName"`
	Shape              string `json:"shape"`
	LifecycleState     string `json:"lifecycleState"`
}

// AvailabilityDomain is a fault-isolated placement target.
type AvailabilityDomain struct {
	Name          string `json:"name"`
	ID            string `json:"id"`
	CompartmentID string `json:"compartmentId"`
}

// VCN is a virtual cloud network summary.
type VCN struct {
	ID             string `json:"id"`
	DisplayName    string `json:"displayName"`
	LifecycleState string `json:"lifecycleState"`
}

// Subnet is a VCN subnet. ProhibitPublicIPOnVnic mirrors the API's
// negative flag: false means the subnet permits public IPs.
type Subnet struct {
	ID                     string `json:"id"`
	DisplayName            string `json:"displayName"`
	VcnID                  string `json:"vcnId"`
	ProhibitPublicIPOnVnic bool   `json:"prohibitPublicIpOnVnic"`
}

// Image is a compute image summary.
type Image struct {
	ID                     string `json:"id"`
	DisplayName            string `json:"displayName"`
	OperatingSystem        string `json:"operatingSystem"`
	OperatingSystemVersion string `json:"operatingSystemVersion"`
	LifecycleState         string `json:"lifecycleState"`
}

// LaunchDetails is the request body for launching an instance.
type LaunchDetails struct {
	AvailabilityDomain string              `json:"availabilityDomain"`
	CompartmentID      string              `json:"compartmentId"`
	Shape              string              `json:"shape"`
	DisplayName        string              `json:"displayName"`
	Metadata           map[string]string   `json:"metadata"`
	SourceDetails      SourceDetails       `json:"sourceDetails"`
	CreateVnicDetails  VnicDetails         `json:"createVnicDetails"`
	ShapeConfig        *ShapeConfig        `json:"shapeConfig,omitempty"`
	AvailabilityConfig *AvailabilityConfig `json:"availabilityConfig,omitempty"`
	InstanceOptions    *InstanceOptions    `json:"instanceOptions,omitempty"`
}

// SourceDetails selects the image and boot volume size for a launch.
type SourceDetails struct {
	SourceType          string `json:"sourceType"`
	ImageID             string `json:"imageId"`
	BootVolumeSizeInGBs int64  `json:"bootVolumeSizeInGBs,omitempty"`
}

// VnicDetails configures the primary network interface.
type VnicDetails struct {
	SubnetID               string `json:"subnetId"`
	DisplayName            string `json:"displayName,omitempty"`
	AssignPublicIP         bool   `json:"assignPublicIp"`
	AssignPrivateDNSRecord bool   `json:"assignPrivateDnsRecord"`
}

// ShapeConfig sizes a flexible shape.
type ShapeConfig struct {
	Ocpus                   float32 `json:"ocpus"`
	MemoryInGBs             float32 `json:"memoryInGBs"`
	BaselineOcpuUtilization string  `json:"baselineOcpuUtilization,omitempty"`
}

// AvailabilityConfig sets the recovery policy for host failures.
type AvailabilityConfig struct {
	RecoveryAction string `json:"recoveryAction"`
}

// InstanceOptions carries instance-level toggles.
type InstanceOptions struct {
	AreLegacyImdsEndpointsDisabled bool `json:"areLegacyImdsEndpointsDisabled"`
}
