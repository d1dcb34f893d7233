package provision

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"ocicap/internal/attemptlog"
	"ocicap/internal/config"
	"ocicap/internal/domain"
	"ocicap/internal/notify"
	"ocicap/internal/oci"
	"ocicap/internal/provision"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

const failureSubject = "OCI Instance Creation Failed"

var (
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	retryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	fatalStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

func RunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Make one provisioning attempt and exit",
		Long: `Make exactly one attempt to create the configured instance.

The attempt resolves launch parameters from live provider state,
checks whether a matching instance already exists, issues at most one
create call, and exits 0 (created or already exists), 1 (capacity
issue, retry later), or 2 (fatal). Scheduling repeated attempts is
the caller's job, e.g. via cron or a systemd timer.

Examples:
  ocicap provision run
  ocicap provision run --env-file prod.env`,
		RunE:         runAttempt,
		SilenceUsage: true,
	}

	cmd.Flags().String("env-file", "oci.env", "Path to the environment file")

	return cmd
}

func runAttempt(cmd *cobra.Command, args []string) error {
	envFile, _ := cmd.Flags().GetString("env-file")

	cfg, err := config.Load(envFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	signer, err := oci.NewSigner(
		cfg.Credentials.Tenancy,
		cfg.Credentials.User,
		cfg.Credentials.Fingerprint,
		cfg.Credentials.KeyFile,
	)
	if err != nil {
		return fmt.Errorf("failed to prepare request signer: %w", err)
	}
	client := oci.NewClient(cfg.Credentials, signer)

	ctx := context.Background()
	attemptID := uuid.NewString()
	started := time.Now()
	slog.Info("starting provisioning attempt", "attempt_id", attemptID, "shape", cfg.Shape)

	params, err := provision.NewResolver(client, cfg).Resolve(ctx)
	if err != nil {
		recordAttempt(attemptlog.Entry{
			AttemptID:  attemptID,
			Shape:      cfg.Shape,
			Outcome:    string(domain.OutcomeFatal),
			Reason:     err.Error(),
			DurationMs: time.Since(started).Milliseconds(),
		})
		return fmt.Errorf("failed to prepare instance parameters: %w", err)
	}

	domainsTried := params.Domains.Names()
	outcome := provision.NewExecutor(client, cfg).Attempt(ctx, params)

	recordAttempt(attemptlog.Entry{
		AttemptID:          attemptID,
		Shape:              cfg.Shape,
		AvailabilityDomain: domainsTried[0],
		Outcome:            string(outcome.Kind),
		InstanceID:         outcome.InstanceID,
		Reason:             outcome.Reason,
		DurationMs:         time.Since(started).Milliseconds(),
	})

	if outcome.Kind == domain.OutcomeFatal {
		notify.NewEscalator(cfg).Notify(ctx, failureSubject, outcome.String())
	}

	printOutcome(cmd, outcome)
	os.Exit(outcome.ExitCode())
	return nil
}

// recordAttempt persists the attempt to the local history. History is
// an observability aid; failure to write it never alters the outcome.
func recordAttempt(entry attemptlog.Entry) {
	repo, err := attemptlog.Open()
	if err != nil {
		slog.Warn("attempt history unavailable", "error", err)
		return
	}
	defer repo.Close()

	if err := repo.Save(&entry); err != nil {
		slog.Warn("failed to record attempt", "error", err)
	}
}

func printOutcome(cmd *cobra.Command, outcome domain.Outcome) {
	style := okStyle
	switch outcome.Kind {
	case domain.OutcomeRetryable:
		style = retryStyle
	case domain.OutcomeFatal:
		style = fatalStyle
	}
	fmt.Fprintln(cmd.OutOrStdout(), style.Render(outcome.String()))
}
