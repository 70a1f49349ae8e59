// Package question extracts the main question from a raw email body so the
// retrieval query is not diluted by greetings and sign-offs.
package question

import (
	"regexp"
	"strings"
)

var (
	sentenceSplitRe = regexp.MustCompile(`[.!?]+`)
	questionWords   = []string{"how", "what", "when", "where", "why", "can", "could", "would"}
)

// Extract returns the first sentence that looks like a question, the first
// substantial sentence otherwise, or a bounded prefix of the email as a
// last resort.
func Extract(email string) string {
	sentences := sentenceSplitRe.Split(email, -1)

	for _, s := range sentences {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if strings.Contains(s, "?") || containsQuestionWord(s) {
			return s
		}
	}
	for _, s := range sentences {
		s = strings.TrimSpace(s)
		if len(s) > 20 {
			return s
		}
	}
	if len(email) > 200 {
		return email[:200]
	}
	return email
}

func containsQuestionWord(sentence string) bool {
	lower := strings.ToLower(sentence)
	for _, w := range questionWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}
