package domain

// NoActivityText is shown when a known user has no rows for the chosen day.
const NoActivityText = "Not worked on anything today."

// WorkSummary is the deterministic digest of one person's day.
// The zero value is the "no activity" sentinel.
type WorkSummary struct {
	TotalHours float64
	Tasks      []string
}

// NoActivity reports whether the summary represents an empty day.
func (s WorkSummary) NoActivity() bool {
	return len(s.Tasks) == 0
}
