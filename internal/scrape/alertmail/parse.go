package alertmail

import (
	"regexp"
	"strings"

	"internwatch/internal/domain"
	"internwatch/internal/scrape/util"

	"github.com/PuerkitoBio/goquery"
)

var (
	reDetailSlug  = regexp.MustCompile(`/internship/detail/([a-z0-9-]+?)(\d+)/?$`)
	reNakedDetail = regexp.MustCompile(`https?://[^\s<>"']*/internship/detail/[^\s<>"']+`)
	reJunkTitle   = regexp.MustCompile(`(?i)^(view|apply|see|check|details?|more|click)\b`)
)

// ParseAlert extracts the listings an internship alert mail links to.
// Several anchors often point at the same listing (logo, title, button),
// so they are merged by listing key and the best title wins.
func ParseAlert(body string, isHTML bool, source string) ([]domain.Posting, int) {
	byKey := map[string]*domain.Posting{}
	var order []string
	skipped := 0

	add := func(href, anchorText string, card *goquery.Selection) {
		link := util.CanonicalURL(href)
		key, slug := listingKey(link)
		if key == "" {
			skipped++
			return
		}

		p, ok := byKey[key]
		if !ok {
			title, org := titleFromSlug(slug)
			p = &domain.Posting{
				Source:       source,
				Title:        title,
				Organization: org,
				ActionURL:    link,
				ListingKey:   key,
			}
			// Identity comes from the link alone; anchor text differs between
			// the HTML and plain-text copies of the same alert.
			p.ID = domain.ComputeID(source, util.OrNA(org), util.OrNA(title), key)
			byKey[key] = p
			order = append(order, key)
		}

		if t := util.CleanText(anchorText); t != "" && !reJunkTitle.MatchString(t) && len(t) < 120 {
			p.Title = t
		}
		if card != nil && p.Description == "" {
			p.Description = util.CleanText(card.Text())
		}
	}

	if isHTML {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
		if err == nil {
			doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
				href, _ := a.Attr("href")
				if !strings.Contains(strings.ToLower(href), "/internship/detail/") {
					return
				}
				card := a.Closest("td")
				if card.Length() == 0 {
					card = a.Parent()
				}
				add(href, a.Text(), card)
			})
		}
	} else {
		for _, u := range reNakedDetail.FindAllString(body, -1) {
			add(strings.TrimRight(u, ".,);:]"), "", nil)
		}
	}

	out := make([]domain.Posting, 0, len(order))
	for _, k := range order {
		p := *byKey[k]
		p.Title = util.OrNA(p.Title)
		p.Organization = util.OrNA(p.Organization)
		p.Compensation = domain.NotAvailable
		p.Location = domain.NotAvailable
		p.Duration = domain.NotAvailable
		p.Type = "Internship"
		p.PostedOn = domain.NotAvailable
		p.ApplyBy = domain.NotAvailable
		p.StartDate = domain.NotAvailable
		out = append(out, p)
	}
	return out, skipped
}

// listingKey returns the numeric listing id and the slug before it.
func listingKey(link string) (key, slug string) {
	m := reDetailSlug.FindStringSubmatch(util.URLPath(link) + "/")
	if m == nil {
		return "", ""
	}
	return m[2], strings.Trim(m[1], "-")
}

// titleFromSlug reads "<role>-internship-...-at-<company>" style slugs.
func titleFromSlug(slug string) (title, org string) {
	if slug == "" {
		return "", ""
	}
	role := slug
	if i := strings.LastIndex(slug, "-at-"); i >= 0 {
		role, org = slug[:i], slug[i+len("-at-"):]
	}
	role = strings.TrimPrefix(role, "work-from-home-")
	if i := strings.Index(role, "-internship"); i >= 0 {
		role = role[:i+len("-internship")]
	}
	return words(role), words(org)
}

func words(s string) string {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == '-' })
	for i, p := range parts {
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}
