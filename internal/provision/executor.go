package provision

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"ocicap/internal/config"
	"ocicap/internal/domain"
	"ocicap/internal/oci"
)

// MarkerFile is written after a successful creation so an external
// driver can tell a fresh run from a re-run without querying the API.
const MarkerFile = "INSTANCE_CREATED"

// limitExceededCode is special-cased: the API has been observed to
// return it for a launch that actually succeeded server-side
// (duplicate submission), so it triggers a second existence check
// instead of going straight to classification.
const limitExceededCode = "LimitExceeded"

// recoveryRestore asks the platform to restart the instance on
// underlying host failure.
const recoveryRestore = "RESTORE_INSTANCE"

// Executor performs exactly one creation attempt and reports what
// happened. It never retries; retry policy belongs to the external
// driver.
type Executor struct {
	api   API
	cfg   *config.Config
	guard *Guard

	// markerPath defaults to MarkerFile; tests point it elsewhere.
	markerPath string
}

func NewExecutor(api API, cfg *config.Config) *Executor {
	return &Executor{
		api:        api,
		cfg:        cfg,
		guard:      NewGuard(api),
		markerPath: MarkerFile,
	}
}

// SetMarkerPath overrides the success marker location. Intended for
// tests.
func (e *Executor) SetMarkerPath(path string) { e.markerPath = path }

// allowance is how many active instances of the target shape may
// coexist before an attempt is considered satisfied. The free tier
// permits two micro instances; everything else is capped at one.
func (e *Executor) allowance() int {
	if e.cfg.Shape == domain.ShapeE2Micro && e.cfg.SecondMicroInstance {
		return 2
	}
	return 1
}

// Attempt runs one create-or-detect cycle:
//
//  1. Existence check — if the allowance is already met, report
//     AlreadyExists without calling the API.
//  2. Launch against the next availability-domain candidate.
//  3. On LimitExceeded, re-run the existence check once: a new match
//     means the launch landed despite the error.
//  4. Otherwise normalize and classify the error.
//
// Errors that cannot be normalized are fatal with the raw error text.
func (e *Executor) Attempt(ctx context.Context, params *Params) domain.Outcome {
	existing, err := e.guard.FindExisting(ctx, e.cfg.Shape)
	if err != nil {
		return domain.Outcome{Kind: domain.OutcomeFatal, Reason: err.Error()}
	}
	if len(existing) >= e.allowance() {
		slog.Info("instance already exists", "display_name", existing[0].DisplayName)
		return alreadyExists(existing[0])
	}

	ad := params.Domains.Next()
	slog.Info("launching instance", "availability_domain", ad, "shape", e.cfg.Shape)

	instance, err := e.api.LaunchInstance(ctx, e.launchDetails(ad, params))
	if err == nil {
		slog.Info("instance creation initiated", "instance_id", instance.ID)
		e.writeMarker()
		return domain.Outcome{Kind: domain.OutcomeCreated, InstanceID: instance.ID}
	}

	var apiErr *oci.APIError
	if !errors.As(err, &apiErr) {
		return domain.Outcome{Kind: domain.OutcomeFatal, Reason: err.Error()}
	}
	perr := apiErr.Normalize()

	if perr.Code == limitExceededCode {
		if landed, ok := e.recheck(ctx, existing); ok {
			slog.Info("instance was created despite LimitExceeded error",
				"display_name", landed.DisplayName)
			e.writeMarker()
			return alreadyExists(landed)
		}
	}

	switch Classify(perr) {
	case SeverityRetryable:
		slog.Info("capacity issue", "code", perr.Code, "message", perr.Message)
		return domain.Outcome{Kind: domain.OutcomeRetryable, Reason: perr.Message}
	default:
		slog.Error("fatal provider error",
			"code", perr.Code, "message", perr.Message, "status", perr.HTTPStatus)
		return domain.Outcome{
			Kind:   domain.OutcomeFatal,
			Reason: fmt.Sprintf("%s: %s", perr.Code, perr.Message),
		}
	}
}

// recheck runs the existence check again after a LimitExceeded launch
// error and reports any instance that was not present before the
// launch. A plain quota error produces no new match and falls through
// to classification.
func (e *Executor) recheck(ctx context.Context, before []oci.Instance) (oci.Instance, bool) {
	after, err := e.guard.FindExisting(ctx, e.cfg.Shape)
	if err != nil {
		return oci.Instance{}, false
	}

	known := make(map[string]bool, len(before))
	for _, instance := range before {
		known[instance.ID] = true
	}
	for _, instance := range after {
		if !known[instance.ID] {
			return instance, true
		}
	}
	return oci.Instance{}, false
}

func (e *Executor) launchDetails(availabilityDomain string, params *Params) oci.LaunchDetails {
	displayName := e.cfg.DisplayName
	if displayName == "" {
		displayName = "instance-" + time.Now().Format("20060102-1504")
	}

	return oci.LaunchDetails{
		AvailabilityDomain: availabilityDomain,
		CompartmentID:      params.Compartment,
		Shape:              e.cfg.Shape,
		DisplayName:        displayName,
		Metadata:           map[string]string{"ssh_authorized_keys": params.SSHPublicKey},
		SourceDetails: oci.SourceDetails{
			SourceType:          "image",
			ImageID:             params.ImageID,
			BootVolumeSizeInGBs: params.BootVolumeSize,
		},
		CreateVnicDetails: oci.VnicDetails{
			SubnetID:               params.SubnetID,
			DisplayName:            displayName,
			AssignPublicIP:         params.AssignPublicIP,
			AssignPrivateDNSRecord: true,
		},
		ShapeConfig:        params.ShapeConfig,
		AvailabilityConfig: &oci.AvailabilityConfig{RecoveryAction: recoveryRestore},
		InstanceOptions:    &oci.InstanceOptions{AreLegacyImdsEndpointsDisabled: false},
	}
}

func (e *Executor) writeMarker() {
	if err := os.WriteFile(e.markerPath, []byte("SUCCESS\n"), 0o644); err != nil {
		slog.Warn("failed to write success marker", "path", e.markerPath, "error", err)
	}
}

func alreadyExists(instance oci.Instance) domain.Outcome {
	return domain.Outcome{
		Kind:        domain.OutcomeAlreadyExists,
		InstanceID:  instance.ID,
		DisplayName: instance.DisplayName,
	}
}
