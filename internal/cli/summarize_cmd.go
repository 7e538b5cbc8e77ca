package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/alexanderramin/worksummary/internal/cli/formatter"
	"github.com/alexanderramin/worksummary/internal/domain"
	"github.com/alexanderramin/worksummary/internal/summary"
	"github.com/alexanderramin/worksummary/internal/timesheet"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newSummarizeCmd(app *App) *cobra.Command {
	var (
		file   string
		user   string
		date   dateValue
		local  bool
		strict bool
	)

	cmd := &cobra.Command{
		Use:   "summarize",
		Short: "Summarize what a user worked on for one day",
		Example: `  worksummary summarize --file timesheet.csv --user Alice --date 2024-01-01
  worksummary summarize --file timesheet.xlsx --user alice --date 01/15/2024 --local`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := loadTimesheet(app, file, strict, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			q, err := domain.NewQuery(user, date.String())
			if err != nil {
				return err
			}
			mode := summary.ModeAuto
			if local {
				mode = summary.ModeLocal
			}

			out, err := runSummary(app, cmd, res.Table, q, mode)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSummary(out))
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Timesheet file (CSV, XLSX or XLS)")
	cmd.Flags().StringVarP(&user, "user", "u", "", "User name to summarize")
	cmd.Flags().Var(&date, "date", "Day to summarize (YYYY-MM-DD or another common layout)")
	cmd.Flags().BoolVar(&local, "local", false, "Compute the summary locally without the summarization service")
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail on the first unparseable row instead of skipping it")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("date")

	return cmd
}

// loadTimesheet loads path under the configured policy, or abort when
// strict is set, and reports skipped rows on stderr.
func loadTimesheet(app *App, path string, strict bool, stderr io.Writer) (*timesheet.LoadResult, error) {
	opts := app.Config.LoadOptions()
	if strict {
		opts.Policy = timesheet.PolicyAbort
	}

	res, err := timesheet.LoadFile(path, opts)
	if err != nil {
		return nil, err
	}
	app.Log.Debug("timesheet loaded",
		zap.String("file", path),
		zap.String("format", string(res.Format)),
		zap.Int("rows", res.Table.Len()),
		zap.Int("skipped", len(res.RowErrors)))

	if n := len(res.RowErrors); n > 0 {
		fmt.Fprintln(stderr, formatter.Warn(fmt.Sprintf("Skipped %d %s:", n, formatter.Plural(n, "row", "rows"))))
		for _, e := range res.RowErrors {
			fmt.Fprintln(stderr, "  "+e.Error())
		}
	}
	return res, nil
}

// runSummary calls the summary service, with a spinner on interactive
// terminals while the summarization service is working.
func runSummary(app *App, cmd *cobra.Command, table *domain.TimesheetTable, q domain.Query, mode summary.Mode) (*summary.Result, error) {
	if app.interactive() && mode == summary.ModeAuto && app.llmEnabled() {
		stop := formatter.StartSpinner(cmd.ErrOrStderr(), "Processing your request...")
		defer stop()
	}

	res, err := app.Summaries.Summarize(cmd.Context(), table, q, mode)
	if errors.Is(err, summary.ErrUserNotFound) {
		return nil, fmt.Errorf("user name '%s' does not exist in the provided data", q.UserName)
	}
	return res, err
}
