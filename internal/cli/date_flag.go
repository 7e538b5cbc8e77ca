package cli

import (
	"fmt"

	"github.com/alexanderramin/worksummary/internal/timesheet"
	"github.com/spf13/pflag"
)

// dateValue is a pflag.Value that accepts any date layout the loader
// understands and stores the canonical YYYY-MM-DD form.
type dateValue struct {
	date string
}

var _ pflag.Value = (*dateValue)(nil)

func (d *dateValue) String() string { return d.date }

func (d *dateValue) Set(s string) error {
	canonical, ok := timesheet.CanonicalDate(s)
	if !ok {
		return fmt.Errorf("unrecognized date %q (try YYYY-MM-DD)", s)
	}
	d.date = canonical
	return nil
}

func (d *dateValue) Type() string { return "date" }
