package profanity

import (
	goaway "github.com/TwiN/go-away"
)

// Filter censors disallowed words in review comments. Clean is total:
// empty input and input without matches come back unchanged.
type Filter struct {
	detector *goaway.ProfanityDetector
}

// New creates a filter with the default dictionary.
func New() *Filter {
	return &Filter{detector: goaway.NewProfanityDetector()}
}

// Clean replaces disallowed words with asterisks.
func (f *Filter) Clean(text string) string {
	if text == "" {
		return text
	}
	return f.detector.Censor(text)
}
