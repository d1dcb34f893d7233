package provision

import "github.com/spf13/cobra"

// NewCommand returns the "provision" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "provision",
		Short:        "Create a free-tier compute instance",
		SilenceUsage: true,
	}

	cmd.AddCommand(RunCommand())

	return cmd
}
