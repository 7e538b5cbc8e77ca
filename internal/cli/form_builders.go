package cli

import (
	"github.com/charmbracelet/huh"
)

// queryInput collects the answers of the interactive query form.
type queryInput struct {
	User  string
	Date  string
	Local bool
}

// dateInput returns a huh.Input for a required date with format validation.
// suggestions are offered for tab completion.
func dateInput(title, placeholder string, value *string, suggestions []string) *huh.Input {
	if placeholder == "" {
		placeholder = "2024-01-01"
	}
	return huh.NewInput().
		Title(title).
		Placeholder(placeholder).
		Suggestions(suggestions).
		Value(value).
		Validate(validateDate)
}

// userSelect returns a select over the table's users, or a free text input
// when the list would be too long to scroll.
func userSelect(users []string, value *string) huh.Field {
	if len(users) == 0 || len(users) > 50 {
		return huh.NewInput().
			Title("User name").
			Suggestions(users).
			Value(value).
			Validate(validateUserName)
	}
	opts := make([]huh.Option[string], 0, len(users))
	for _, u := range users {
		opts = append(opts, huh.NewOption(u, u))
	}
	return huh.NewSelect[string]().
		Title("User name").
		Options(opts...).
		Value(value)
}

// queryForm builds the form asking whose day to summarize. The local
// toggle is only offered when a summarization service is configured.
func queryForm(users, dates []string, llmEnabled bool, in *queryInput) *huh.Form {
	fields := []huh.Field{
		userSelect(users, &in.User),
		dateInput("Date (YYYY-MM-DD)", lastOr(dates, ""), &in.Date, dates),
	}
	if llmEnabled {
		fields = append(fields, huh.NewConfirm().
			Title("Summarize locally?").
			Description("Skip the summarization service and total the rows directly.").
			Affirmative("Yes").
			Negative("No").
			Value(&in.Local))
	}
	return huh.NewForm(huh.NewGroup(fields...)).
		WithTheme(formTheme()).
		WithShowHelp(false)
}

func lastOr(s []string, def string) string {
	if len(s) == 0 {
		return def
	}
	return s[len(s)-1]
}
