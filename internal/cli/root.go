package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the top-level "worksummary" command and registers all
// subcommands against the provided App. The caller owns app and must Close
// it after Execute, whether or not the command failed.
func NewRootCmd(app *App) *cobra.Command {
	var (
		configPath string
		verbose    bool
	)

	root := &cobra.Command{
		Use:           "worksummary",
		Short:         "Summarize a person's day from a timesheet",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.setup(configPath, verbose, cmd.ErrOrStderr())
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		newServeCmd(app),
		newSummarizeCmd(app),
		newValidateCmd(app),
		newFormCmd(app),
		newVersionCmd(app),
	)

	return root
}
