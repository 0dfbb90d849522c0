package domain

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// NotAvailable is what adapters store when a card omits a field.
const NotAvailable = "N/A"

// Posting is one internship listing, normalized across sources.
type Posting struct {
	ID             string `json:"id"`
	Source         string `json:"source"`
	Title          string `json:"title"`
	Organization   string `json:"organization"`
	Compensation   string `json:"compensation"`
	Location       string `json:"location"`
	Duration       string `json:"duration"`
	Type           string `json:"type"`
	PostedOn       string `json:"posted_on"`
	ApplyBy        string `json:"apply_by"`
	StartDate      string `json:"start_date"`
	ActionURL      string `json:"action_url,omitempty"`
	Description    string `json:"description,omitempty"`
	ListingKey     string `json:"listing_key,omitempty"` // origin-native key, when the origin has one
	ActivelyHiring bool   `json:"actively_hiring,omitempty"`
}

// ComputeID hashes the identity fields of a listing. The layout matches the
// seen_internships.json files written by earlier versions of the bot, so an
// existing seen file keeps working.
func ComputeID(source, organization, title, stamp string) string {
	sum := md5.Sum([]byte(source + "-" + organization + "-" + title + "-" + stamp))
	return hex.EncodeToString(sum[:])
}

// WithID returns p with ID derived from its identity fields.
// ListingKey wins over PostedOn because some origins only show relative
// times ("2 days ago") that drift between polls.
func (p Posting) WithID() Posting {
	stamp := strings.TrimSpace(p.ListingKey)
	if stamp == "" {
		stamp = p.PostedOn
	}
	p.ID = ComputeID(p.Source, p.Organization, p.Title, stamp)
	return p
}

// MatchText is the text the interest filter searches.
func (p Posting) MatchText() string {
	return strings.ToLower(p.Title + " " + p.Organization + " " + p.Description)
}

// Has reports whether a display field carries a real value.
func Has(v string) bool {
	v = strings.TrimSpace(v)
	return v != "" && v != NotAvailable
}
