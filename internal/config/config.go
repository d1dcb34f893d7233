// Package config loads and validates the provisioning configuration.
//
// Settings come from an env file (default oci.env) loaded via godotenv
// plus the process environment; provider credentials come from a
// separate OCI ini config file. The resulting Config is constructed
// once per invocation and never mutated.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"ocicap/internal/domain"
	"ocicap/internal/oci"
	"ocicap/internal/util"

	"github.com/joho/godotenv"
	"gopkg.in/ini.v1"
)

// DiagnosticFile receives the parse error text when the OCI credential
// file cannot be read, so operators of unattended runs can see why the
// process refused to start.
const DiagnosticFile = "ERROR_IN_CONFIG.log"

// Config holds every setting for one provisioning invocation.
type Config struct {
	// Provider credentials, parsed from the OCI ini config file.
	Credentials oci.Credentials

	// OCIConfigPath is the path the credentials were read from.
	OCIConfigPath string

	// AvailabilityDomain pins placement to one domain. Empty means
	// try all domains the tenancy lists.
	AvailabilityDomain string

	DisplayName string
	Shape       string

	// ImageID short-circuits image resolution when set; otherwise
	// OperatingSystem and OSVersion select the image.
	ImageID         string
	OperatingSystem string
	OSVersion       string

	// SubnetID short-circuits subnet resolution when set.
	SubnetID string

	SSHKeyPath     string
	AssignPublicIP bool
	BootVolumeSize int64

	// SecondMicroInstance permits a second E2 micro instance; the
	// free tier allows two of that shape but only one ARM flex.
	SecondMicroInstance bool

	// RetryWait is the pause the external driver should take before
	// re-invoking after a retryable outcome. The engine itself never
	// sleeps on it.
	RetryWait time.Duration

	// Notification settings.
	NotifyEmail    bool
	Email          string
	EmailPassword  string
	DiscordWebhook string
}

// Load reads the env file at envPath (missing file is fine; the
// process environment still applies), parses the credential file, and
// validates everything. It fails fast: a returned error means no
// attempt must be made.
func Load(envPath string) (*Config, error) {
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load env file %s: %w", envPath, err)
	}

	cfg := &Config{
		OCIConfigPath:       getenv("OCI_CONFIG"),
		AvailabilityDomain:  getenv("OCT_FREE_AD"),
		DisplayName:         getenv("DISPLAY_NAME"),
		Shape:               getenv("OCI_COMPUTE_SHAPE"),
		ImageID:             getenv("OCI_IMAGE_ID"),
		OperatingSystem:     getenv("OPERATING_SYSTEM"),
		OSVersion:           getenv("OS_VERSION"),
		SubnetID:            getenv("OCI_SUBNET_ID"),
		SSHKeyPath:          getenv("SSH_AUTHORIZED_KEYS_FILE"),
		AssignPublicIP:      getbool("ASSIGN_PUBLIC_IP"),
		SecondMicroInstance: getbool("SECOND_MICRO_INSTANCE"),
		NotifyEmail:         getbool("NOTIFY_EMAIL"),
		Email:               getenv("EMAIL"),
		EmailPassword:       getenv("EMAIL_PASSWORD"),
		DiscordWebhook:      getenv("DISCORD_WEBHOOK"),
	}

	if cfg.Shape == "" {
		cfg.Shape = domain.ShapeARMFlex
	}

	cfg.BootVolumeSize = 50
	if v := getenv("BOOT_VOLUME_SIZE"); v != "" {
		size, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("BOOT_VOLUME_SIZE %q is not a number: %w", v, err)
		}
		cfg.BootVolumeSize = size
	}

	if v := getenv("REQUEST_WAIT_TIME_SECS"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("REQUEST_WAIT_TIME_SECS %q is not a number: %w", v, err)
		}
		cfg.RetryWait = time.Duration(secs) * time.Second
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if err := cfg.loadCredentials(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if !domain.SupportedShape(c.Shape) {
		return fmt.Errorf("%s is not an acceptable shape (want %s or %s)",
			c.Shape, domain.ShapeARMFlex, domain.ShapeE2Micro)
	}

	if c.BootVolumeSize <= 0 {
		return fmt.Errorf("BOOT_VOLUME_SIZE must be greater than 0, got %d", c.BootVolumeSize)
	}

	if c.DisplayName != "" {
		if err := util.ValidateDisplayName(c.DisplayName); err != nil {
			return err
		}
	}

	// OPERATING_SYSTEM is absent on purpose: vendor names like
	// "Canonical Ubuntu" legitimately contain a space.
	values := map[string]string{
		"OCI_CONFIG":               c.OCIConfigPath,
		"OCT_FREE_AD":              c.AvailabilityDomain,
		"DISPLAY_NAME":             c.DisplayName,
		"OCI_COMPUTE_SHAPE":        c.Shape,
		"OCI_IMAGE_ID":             c.ImageID,
		"OS_VERSION":               c.OSVersion,
		"OCI_SUBNET_ID":            c.SubnetID,
		"SSH_AUTHORIZED_KEYS_FILE": c.SSHKeyPath,
		"EMAIL":                    c.Email,
		"EMAIL_PASSWORD":           c.EmailPassword,
		"DISCORD_WEBHOOK":          c.DiscordWebhook,
	}
	for key, value := range values {
		if err := util.ValidateNoWhitespace(key, value); err != nil {
			return err
		}
	}

	return nil
}

// loadCredentials parses the OCI ini config file (DEFAULT section).
// A parse failure is written to DiagnosticFile before returning.
func (c *Config) loadCredentials() error {
	path := c.OCIConfigPath
	if path == "" {
		path = "~/.oci/config"
	}
	path, err := expandHome(path)
	if err != nil {
		return err
	}
	c.OCIConfigPath = path

	file, err := ini.Load(path)
	if err != nil {
		writeDiagnostic(err)
		return fmt.Errorf("parse OCI config %s: %w", path, err)
	}

	section := file.Section(ini.DefaultSection)
	if !section.HasKey("user") {
		err := fmt.Errorf("OCI config %s has no user key in the DEFAULT section", path)
		writeDiagnostic(err)
		return err
	}

	c.Credentials = oci.Credentials{
		User:        section.Key("user").String(),
		Tenancy:     section.Key("tenancy").String(),
		Fingerprint: section.Key("fingerprint").String(),
		KeyFile:     section.Key("key_file").String(),
		Region:      section.Key("region").String(),
	}

	for _, key := range section.Keys() {
		if err := util.ValidateNoWhitespace(key.Name(), key.String()); err != nil {
			return fmt.Errorf("OCI config %s: %w", path, err)
		}
	}

	if c.Credentials.KeyFile != "" {
		if c.Credentials.KeyFile, err = expandHome(c.Credentials.KeyFile); err != nil {
			return err
		}
	}

	return nil
}

func writeDiagnostic(parseErr error) {
	_ = os.WriteFile(DiagnosticFile, []byte(parseErr.Error()+"\n"), 0o644)
}

func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("determine home directory: %w", err)
	}
	return filepath.Join(home, path[2:]), nil
}

func getenv(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func getbool(key string) bool {
	return strings.EqualFold(getenv(key), "true")
}
