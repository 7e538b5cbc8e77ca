package cli

import (
	"fmt"

	"github.com/alexanderramin/worksummary/internal/cli/formatter"
	"github.com/alexanderramin/worksummary/internal/timesheet"
	"github.com/spf13/cobra"
)

func newValidateCmd(app *App) *cobra.Command {
	var (
		file   string
		strict bool
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a timesheet file and report what would be loaded",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := app.Config.LoadOptions()
			if strict {
				opts.Policy = timesheet.PolicyAbort
			}
			res, err := timesheet.LoadFile(file, opts)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatLoadReport(file, res))
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Timesheet file (CSV, XLSX or XLS)")
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail on the first unparseable row instead of skipping it")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}
