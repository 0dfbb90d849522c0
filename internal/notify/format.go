package notify

import (
	"fmt"
	"strings"
	"time"

	"internwatch/internal/domain"
)

var sourceEmoji = map[string]string{
	"AICTE":       "🏛️",
	"Internshala": "💼",
	"LinkedIn":    "🔗",
	"Email":       "📧",
}

func emojiFor(source string) string {
	if e, ok := sourceEmoji[source]; ok {
		return e
	}
	return "📋"
}

// IST is used when the configured zone cannot be loaded.
var IST = time.FixedZone("IST", 5*60*60+30*60)

// Formatter renders messages in Telegram's legacy Markdown.
// It is pure apart from Now.
type Formatter struct {
	Now  func() time.Time
	Zone *time.Location
}

func NewFormatter(zone string) Formatter {
	loc, err := time.LoadLocation(zone)
	if err != nil || zone == "" {
		loc = IST
	}
	return Formatter{Now: time.Now, Zone: loc}
}

func (f Formatter) stamp() string {
	now := time.Now
	if f.Now != nil {
		now = f.Now
	}
	zone := f.Zone
	if zone == nil {
		zone = IST
	}
	return now().In(zone).Format("2006-01-02 15:04:05 MST")
}

// FormatPosting renders one new-posting alert.
func (f Formatter) FormatPosting(p domain.Posting) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s *New %s Internship!*\n\n", emojiFor(p.Source), escape(p.Source))
	fmt.Fprintf(&b, "📋 *Role:* %s\n", escape(p.Title))
	fmt.Fprintf(&b, "🏢 *Company:* %s\n", escape(p.Organization))
	fmt.Fprintf(&b, "💰 *Stipend:* %s\n", escape(p.Compensation))
	fmt.Fprintf(&b, "📍 *Location:* %s\n", escape(p.Location))
	fmt.Fprintf(&b, "⏰ *Duration:* %s", escape(p.Duration))

	if domain.Has(p.Type) && p.Type != "Internship" {
		fmt.Fprintf(&b, "\n💼 *Type:* %s", escape(p.Type))
	}
	if domain.Has(p.StartDate) {
		fmt.Fprintf(&b, "\n📅 *Start Date:* %s", escape(p.StartDate))
	}
	if domain.Has(p.ApplyBy) {
		fmt.Fprintf(&b, "\n⚡ *Apply By:* %s", escape(p.ApplyBy))
	}
	if domain.Has(p.PostedOn) {
		fmt.Fprintf(&b, "\n🕐 *Posted:* %s", escape(p.PostedOn))
	}
	if p.ActivelyHiring {
		b.WriteString("\n🔥 *Actively Hiring!*")
	}

	fmt.Fprintf(&b, "\n\n🔍 Found: %s", f.stamp())
	fmt.Fprintf(&b, "\n\n#%sInternship #%s", hashtag(p.Source, 0), hashtag(p.Organization, 20))
	return b.String()
}

// FormatSummary renders the end-of-cycle report. Sources that found nothing
// are left out; the "sent" total counts deliveries that succeeded.
func (f Formatter) FormatSummary(stats domain.RunStats) string {
	lines := []string{"📊 *Multi-Platform Internship Bot Summary*\n"}

	found, filtered, _ := stats.Totals()
	for _, s := range stats.Sources {
		if s.Err != "" {
			lines = append(lines, fmt.Sprintf("⚠️ *%s:* unavailable this run", escape(s.Source)))
			continue
		}
		if s.Found == 0 {
			continue
		}
		lines = append(lines,
			fmt.Sprintf("%s *%s:*", emojiFor(s.Source), escape(s.Source)),
			fmt.Sprintf("   • Found: %d", s.Found),
			fmt.Sprintf("   • Matching: %d", s.Filtered),
			fmt.Sprintf("   • New: %d", s.New),
		)
		if s.Skipped > 0 {
			lines = append(lines, fmt.Sprintf("   • Unreadable: %d", s.Skipped))
		}
	}

	lines = append(lines,
		"\n🔍 *Total across platforms:*",
		fmt.Sprintf("   • Found: %d", found),
		fmt.Sprintf("   • Matching your domains: %d", filtered),
		fmt.Sprintf("   • New notifications sent: %d", stats.Notified),
	)
	if stats.Failed > 0 {
		lines = append(lines, fmt.Sprintf("   • Failed to send: %d", stats.Failed))
	}
	lines = append(lines, fmt.Sprintf("\n⏰ Last checked: %s", f.stamp()))

	if stats.Notified > 0 {
		lines = append(lines, "\n🎉 New opportunities above!")
	} else {
		lines = append(lines, "\n😴 No new internships this time")
	}
	return strings.Join(lines, "\n")
}

// FormatError renders the cycle-failure alert.
func (f Formatter) FormatError(err error) string {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return fmt.Sprintf("🚨 *Internship Bot Error*\n\nError: %s\nTime: %s\n\nPlease check the logs for more details.",
		escape(msg), f.stamp())
}

var markdownEscaper = strings.NewReplacer("_", `\_`, "*", `\*`, "`", "\\`", "[", `\[`)

// escape protects user text from being read as legacy Markdown.
func escape(s string) string {
	return markdownEscaper.Replace(s)
}

// hashtag strips the characters Telegram would end a hashtag on and
// caps the result at max runes (0 means no cap).
func hashtag(s string, max int) string {
	s = strings.NewReplacer(" ", "", "-", "", "_", "", ".", "").Replace(s)
	if max > 0 {
		if r := []rune(s); len(r) > max {
			s = string(r[:max])
		}
	}
	return escape(s)
}
