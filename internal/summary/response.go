package summary

import (
	"regexp"
	"strings"
)

var (
	reasoningBlock = regexp.MustCompile(`(?is)<think>.*?</think>|<thinking>.*?</thinking>|<reasoning>.*?</reasoning>`)
	// An opener the model never closed swallows the rest of the text.
	unclosedReasoning = regexp.MustCompile(`(?is)<(?:think|thinking|reasoning)>.*$`)
	// Some chat templates emit the opener themselves, leaving a bare closer
	// at the start of the output. A closer anywhere else is ordinary text.
	leadingCloser = regexp.MustCompile(`(?i)^\s*</(?:think|thinking|reasoning)>`)
)

// InterpretSummaryResponse removes reasoning side-channel blocks from raw
// model output and returns the displayable remainder. Text without markers
// is returned unchanged.
func InterpretSummaryResponse(raw string) string {
	out := raw
	for {
		next := reasoningBlock.ReplaceAllString(out, "")
		next = unclosedReasoning.ReplaceAllString(next, "")
		next = leadingCloser.ReplaceAllString(next, "")
		if next == out {
			break
		}
		out = next
	}
	if out == raw {
		return raw
	}
	return strings.TrimSpace(out)
}
