package aicte

import (
	"context"
	"encoding/json"
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
	Name = "AICTE"

	DefaultEndpoint = "https://internship.aicte-india.org/class/class_internship.php"
	listingPage     = "https://internship.aicte-india.org/recentlyposted.php"
)

type Config struct {
	Endpoint string // AJAX endpoint; DefaultEndpoint when empty
	Timeout  time.Duration
}

type Scraper struct {
	cfg     Config
	hc      *http.Client
	limiter *util.HostLimiter
	logger  *log.Logger
}

func New(cfg Config, limiter *util.HostLimiter, logger *log.Logger) *Scraper {
	if strings.TrimSpace(cfg.Endpoint) == "" {
		cfg.Endpoint = DefaultEndpoint
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

type listResponse struct {
	List string `json:"list"`
}

func (s *Scraper) Fetch(ctx context.Context) (types.ScrapeResult, error) {
	res := types.ScrapeResult{Source: Name}

	form := url.Values{}
	form.Set("action", "load_internship")
	form.Set("location", "all")
	form.Set("internship_type", "all")
	form.Set("internship_stipend", "all")
	form.Set("page", "1")

	if s.limiter != nil {
		if err := s.limiter.WaitURL(ctx, s.cfg.Endpoint); err != nil {
			return res, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.Endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return res, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json,text/html;q=0.9,*/*;q=0.8")
	req.Header.Set("User-Agent", util.UserAgent)

	resp, err := s.hc.Do(req)
	if err != nil {
		return res, fmt.Errorf("aicte post: %w: %v", domain.ErrTransientSource, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return res, fmt.Errorf("aicte status %d: %w", resp.StatusCode, domain.ErrTransientSource)
	}

	var body listResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return res, fmt.Errorf("aicte decode: %w: %v", domain.ErrTransientSource, err)
	}

	postings, skips, err := ParseList(body.List)
	if err != nil {
		return res, err
	}
	for _, e := range skips {
		s.logger.Printf("[aicte] skip: %v", e)
	}
	res.Postings = postings
	res.Skipped = len(skips)

	s.logger.Printf("[aicte] extracted=%d skipped=%d", len(postings), len(skips))
	return res, nil
}

// ParseList extracts postings from the HTML fragment the endpoint returns
// under "list". Cards without a title and organization are skipped; each
// skip is reported as an error wrapping domain.ErrRecordParse.
func ParseList(html string) ([]domain.Posting, []error, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, nil, fmt.Errorf("aicte parse html: %w: %v", domain.ErrTransientSource, err)
	}

	var (
		out   []domain.Posting
		skips []error
	)
	doc.Find(".card.internship-item").Each(func(i int, card *goquery.Selection) {
		p, err := parseCard(card)
		if err != nil {
			skips = append(skips, fmt.Errorf("card %d: %w", i, err))
			return
		}
		out = append(out, p)
	})
	return out, skips, nil
}

func parseCard(card *goquery.Selection) (domain.Posting, error) {
	text := func(sel string) string {
		return util.OrNA(card.Find(sel).First().Text())
	}

	p := domain.Posting{
		Source:       Name,
		Title:        text(".job-title"),
		Organization: text(".company-name"),
		Type:         text(".wfh span"),
		PostedOn:     text(".posted-on span"),
		Location:     text(".location span"),
		Duration:     text(".duration span"),
		StartDate:    text(".start-date span"),
		Compensation: text(".stipend span"),
		ApplyBy:      text(".apply-by span"),
	}
	if !domain.Has(p.Title) && !domain.Has(p.Organization) {
		return domain.Posting{}, fmt.Errorf("no title or organization: %w", domain.ErrRecordParse)
	}

	if href, ok := card.Find("a.btn.btn-primary").First().Attr("href"); ok {
		p.ActionURL = util.ResolveURL(listingPage, href)
	}
	return p.WithID(), nil
}
