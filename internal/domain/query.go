package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrEmptyUserName = errors.New("user name is required")
	ErrInvalidDate   = errors.New("invalid date")
)

// Query selects one person's rows for one day.
type Query struct {
	UserName string
	Date     string
}

// NewQuery trims the user name and checks that date is a canonical
// YYYY-MM-DD calendar date.
func NewQuery(userName, date string) (Query, error) {
	userName = strings.TrimSpace(userName)
	if userName == "" {
		return Query{}, ErrEmptyUserName
	}
	date = strings.TrimSpace(date)
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return Query{}, fmt.Errorf("%w %q (expected YYYY-MM-DD)", ErrInvalidDate, date)
	}
	return Query{UserName: userName, Date: d.Format(DateLayout)}, nil
}
