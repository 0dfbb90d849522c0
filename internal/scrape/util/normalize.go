package util

import (
	"strings"

	"internwatch/internal/domain"
)

func CleanText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimSpace(s)
}

// OrNA returns the cleaned text, or domain.NotAvailable when nothing is left.
func OrNA(s string) string {
	if s = CleanText(s); s == "" {
		return domain.NotAvailable
	}
	return s
}

// NormalizeLocation cleans a comma separated location list and drops repeats.
func NormalizeLocation(loc string) string {
	loc = CleanText(loc)
	if loc == "" {
		return ""
	}

	loc = strings.TrimPrefix(loc, "Location:")
	loc = strings.TrimPrefix(loc, "Locations:")
	loc = strings.TrimSpace(loc)

	parts := strings.Split(loc, ",")
	seen := map[string]bool{}
	var out []string
	for _, p := range parts {
		p = CleanText(p)
		if p == "" {
			continue
		}
		k := strings.ToLower(p)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, p)
	}
	return strings.Join(out, ", ")
}

// LooksLikeInternship reports whether a job title reads as an internship.
func LooksLikeInternship(title string) bool {
	l := strings.ToLower(title)
	for _, k := range []string{"intern", "trainee", "apprentice", "co-op", "co op"} {
		if strings.Contains(l, k) {
			return true
		}
	}
	return false
}

const UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
