package internshala

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"internwatch/internal/domain"
	"internwatch/internal/scrape/types"
	"internwatch/internal/scrape/util"

	"github.com/PuerkitoBio/goquery"
)

const (
	Name = "Internshala"

	DefaultBaseURL = "https://internshala.com"
)

type Config struct {
	BaseURL   string
	Terms     []string
	MaxTerms  int           // only the first MaxTerms terms are searched
	TermDelay time.Duration // pause between searches
	Timeout   time.Duration
}

type Scraper struct {
	cfg     Config
	hc      *http.Client
	limiter *util.HostLimiter
	logger  *log.Logger
}

func New(cfg Config, limiter *util.HostLimiter, logger *log.Logger) *Scraper {
	cfg.BaseURL = strings.TrimSuffix(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.MaxTerms <= 0 {
		cfg.MaxTerms = 3
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Scraper{
		cfg:     cfg,
		hc:      &http.Client{Timeout: cfg.Timeout},
		limiter: limiter,
		logger:  logger,
	}
}

func (s *Scraper) Name() string { return Name }

func (s *Scraper) terms() []string {
	var out []string
	for _, t := range s.cfg.Terms {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
		if len(out) == s.cfg.MaxTerms {
			break
		}
	}
	return out
}

// Fetch searches each term in turn. A failed search is logged and skipped;
// the fetch only fails when every search did.
func (s *Scraper) Fetch(ctx context.Context) (types.ScrapeResult, error) {
	res := types.ScrapeResult{Source: Name}

	terms := s.terms()
	var errs []error
	for i, term := range terms {
		if i > 0 {
			if err := util.Pause(ctx, s.cfg.TermDelay); err != nil {
				return res, err
			}
		}

		postings, skips, err := s.search(ctx, term)
		if err != nil {
			s.logger.Printf("[internshala] term=%q err=%v", term, err)
			errs = append(errs, err)
			continue
		}
		for _, e := range skips {
			s.logger.Printf("[internshala] term=%q skip: %v", term, e)
		}
		s.logger.Printf("[internshala] term=%q found=%d skipped=%d", term, len(postings), len(skips))
		res.Postings = append(res.Postings, postings...)
		res.Skipped += len(skips)
	}

	if len(terms) > 0 && len(errs) == len(terms) {
		return types.ScrapeResult{Source: Name}, errors.Join(errs...)
	}
	return res, nil
}

func (s *Scraper) SearchURL(term string) string {
	return s.cfg.BaseURL + "/internships/keywords-" + url.PathEscape(term)
}

func (s *Scraper) search(ctx context.Context, term string) ([]domain.Posting, []error, error) {
	searchURL := s.SearchURL(term)

	if s.limiter != nil {
		if err := s.limiter.WaitURL(ctx, searchURL); err != nil {
			return nil, nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("User-Agent", util.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := s.hc.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("internshala get: %w: %v", domain.ErrTransientSource, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil, nil, fmt.Errorf("internshala status %d: %w", resp.StatusCode, domain.ErrTransientSource)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("internshala parse html: %w", err)
	}
	postings, skips := ParseDocument(doc, s.cfg.BaseURL+"/internships/")
	return postings, skips, nil
}

// ParseDocument extracts the internship cards of a search result page.
// Relative links resolve against base. Unusable cards come back as errors
// wrapping domain.ErrRecordParse.
func ParseDocument(doc *goquery.Document, base string) ([]domain.Posting, []error) {
	var (
		out   []domain.Posting
		skips []error
	)
	doc.Find(".container-fluid.individual_internship").Each(func(i int, card *goquery.Selection) {
		p, err := parseCard(card, base)
		if err != nil {
			skips = append(skips, fmt.Errorf("card %d: %w", i, err))
			return
		}
		out = append(out, p)
	})
	return out, skips
}

func parseCard(card *goquery.Selection, base string) (domain.Posting, error) {
	title := util.CleanText(card.Find(".job-internship-name a.job-title-href").First().Text())
	if title == "" {
		title = util.CleanText(card.Find("a.job-title-href").First().Text())
	}
	org := util.CleanText(card.Find(".company-name").First().Text())
	if title == "" && org == "" {
		return domain.Posting{}, fmt.Errorf("no title or organization: %w", domain.ErrRecordParse)
	}

	loc := card.Find(".locations span a")
	location := ""
	if loc.Length() > 0 {
		var parts []string
		loc.Each(func(_ int, a *goquery.Selection) { parts = append(parts, a.Text()) })
		location = util.NormalizeLocation(strings.Join(parts, ","))
	} else {
		location = util.CleanText(card.Find(".locations span").First().Text())
	}

	duration := util.CleanText(card.Find(".ic-16-calendar + span").First().Text())
	if duration == "" {
		card.Find(".row-1-item span").EachWithBreak(func(_ int, sp *goquery.Selection) bool {
			if t := util.CleanText(sp.Text()); strings.Contains(strings.ToLower(t), "month") {
				duration = t
				return false
			}
			return true
		})
	}

	posted := util.CleanText(card.Find(".status-success span").First().Text())
	if posted == "" {
		posted = "Recently"
	}
	kind := util.CleanText(card.Find(".status-li span").First().Text())
	if kind == "" {
		kind = "Internship"
	}

	p := domain.Posting{
		Source:         Name,
		Title:          util.OrNA(title),
		Organization:   util.OrNA(org),
		Compensation:   util.OrNA(card.Find(".stipend").First().Text()),
		Location:       util.OrNA(location),
		Duration:       util.OrNA(duration),
		Type:           kind,
		PostedOn:       posted,
		StartDate:      domain.NotAvailable,
		ApplyBy:        domain.NotAvailable,
		ActivelyHiring: card.Find(".actively-hiring-badge").Length() > 0,
	}

	if href, ok := card.Find("a.job-title-href").First().Attr("href"); ok {
		p.ActionURL = util.ResolveURL(base, href)
	}

	// Posted times are relative ("2 days ago"), so identity comes from the
	// listing id or the detail path instead.
	if id, ok := card.Attr("internshipid"); ok && strings.TrimSpace(id) != "" {
		p.ListingKey = strings.TrimSpace(id)
	} else if p.ActionURL != "" {
		p.ListingKey = util.URLPath(util.CanonicalURL(p.ActionURL))
	}
	return p.WithID(), nil
}
