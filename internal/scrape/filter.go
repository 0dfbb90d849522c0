package scrape

import (
	"log"
	"strings"

	"internwatch/internal/domain"
)

// FilterByInterest keeps postings whose title, organization or description
// contains any of terms, case-insensitively. Order is preserved.
// An empty term list keeps nothing.
func FilterByInterest(postings []domain.Posting, terms []string, logger *log.Logger) []domain.Posting {
	needles := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			needles = append(needles, t)
		}
	}
	if len(needles) == 0 {
		if logger != nil && len(postings) > 0 {
			logger.Printf("[filter] no interest terms configured; dropping %d postings", len(postings))
		}
		return nil
	}

	var out []domain.Posting
	for _, p := range postings {
		if matchesAny(p.MatchText(), needles) {
			out = append(out, p)
		}
	}
	return out
}

func matchesAny(text string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}
