package cli

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/alexanderramin/worksummary/internal/cli/formatter"
	"github.com/alexanderramin/worksummary/internal/domain"
	"github.com/alexanderramin/worksummary/internal/summary"
	"github.com/alexanderramin/worksummary/internal/timesheet"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

// errNotInteractive is returned by commands that need a terminal.
var errNotInteractive = errors.New("the form needs an interactive terminal; use 'worksummary summarize' instead")

// Seams replaced in tests.
var (
	buildQueryForm = queryForm
	runForm        = func(ctx context.Context, f *huh.Form) error {
		return f.RunWithContext(ctx)
	}
)

func newFormCmd(app *App) *cobra.Command {
	var (
		file   string
		strict bool
	)

	cmd := &cobra.Command{
		Use:   "form",
		Short: "Pick a user and date interactively and summarize their day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return errNotInteractive
			}

			res, err := loadTimesheet(app, file, strict, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if res.Table.Len() == 0 {
				return fmt.Errorf("%s has no usable rows", file)
			}

			var in queryInput
			form := buildQueryForm(res.Table.Users(), allDates(res.Table), app.llmEnabled(), &in)
			if err := runForm(cmd.Context(), form); err != nil {
				if errors.Is(err, huh.ErrUserAborted) {
					return nil
				}
				return err
			}

			date, _ := timesheet.CanonicalDate(in.Date)
			q, err := domain.NewQuery(in.User, date)
			if err != nil {
				return err
			}
			mode := summary.ModeAuto
			if in.Local {
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
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail on the first unparseable row instead of skipping it")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

// allDates returns every distinct date in the table, sorted.
func allDates(t *domain.TimesheetTable) []string {
	seen := make(map[string]bool)
	var dates []string
	t.Each(func(_ int, r domain.TimesheetRow) {
		if !seen[r.Date] {
			seen[r.Date] = true
			dates = append(dates, r.Date)
		}
	})
	slices.Sort(dates)
	return dates
}
