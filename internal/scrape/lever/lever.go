package lever

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"internwatch/internal/domain"
	"internwatch/internal/scrape/types"
	"internwatch/internal/scrape/util"
)

const (
	Name = "Lever"

	DefaultAPIBase = "https://api.lever.co/v0/postings"
)

type Config struct {
	APIBase   string
	Companies []Company
	Timeout   time.Duration
}

type Company struct {
	Slug string // api.lever.co/v0/postings/<slug>
	Name string
}

type Scraper struct {
	cfg     Config
	hc      *http.Client
	limiter *util.HostLimiter
	logger  *log.Logger
}

func New(cfg Config, limiter *util.HostLimiter, logger *log.Logger) *Scraper {
	cfg.APIBase = strings.TrimSuffix(cfg.APIBase, "/")
	if cfg.APIBase == "" {
		cfg.APIBase = DefaultAPIBase
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
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

type leverPosting struct {
	ID         string `json:"id"`
	Text       string `json:"text"` // title
	HostedURL  string `json:"hostedUrl"`
	CreatedAt  int64  `json:"createdAt"` // ms epoch
	Categories struct {
		Location   string `json:"location"`
		Team       string `json:"team"`
		Commitment string `json:"commitment"`
	} `json:"categories"`
	DescriptionPlain string `json:"descriptionPlain"`
}

type companyResult struct {
	postings []domain.Posting
	skipped  int
	err      error
}

// Fetch queries every company board with a small worker pool. One board
// failing does not fail the fetch unless all of them do.
func (s *Scraper) Fetch(ctx context.Context) (types.ScrapeResult, error) {
	const workers = 4

	companies := s.cfg.Companies
	resCh := make(chan companyResult, len(companies))
	workCh := make(chan Company)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for co := range workCh {
				postings, skipped, err := s.fetchCompany(ctx, co)
				if err != nil {
					s.logger.Printf("[lever] company=%q slug=%q err=%v", co.Name, co.Slug, err)
				}
				resCh <- companyResult{postings: postings, skipped: skipped, err: err}
			}
		}()
	}

	go func() {
		defer close(workCh)
		for _, co := range companies {
			select {
			case <-ctx.Done():
				return
			case workCh <- co:
			}
		}
	}()

	wg.Wait()
	close(resCh)

	res := types.ScrapeResult{Source: Name}
	var failed int
	var lastErr error
	for r := range resCh {
		if r.err != nil {
			failed++
			lastErr = r.err
			continue
		}
		res.Postings = append(res.Postings, r.postings...)
		res.Skipped += r.skipped
	}
	if len(companies) > 0 && failed == len(companies) {
		return types.ScrapeResult{Source: Name}, lastErr
	}

	s.logger.Printf("[lever] companies=%d internships=%d", len(companies), len(res.Postings))
	return res, nil
}

func (s *Scraper) fetchCompany(ctx context.Context, co Company) ([]domain.Posting, int, error) {
	apiURL := fmt.Sprintf("%s/%s?mode=json", s.cfg.APIBase, co.Slug)

	if s.limiter != nil {
		if err := s.limiter.WaitURL(ctx, apiURL); err != nil {
			return nil, 0, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("User-Agent", util.UserAgent)

	res, err := s.hc.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("lever get: %w: %v", domain.ErrTransientSource, err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return nil, 0, fmt.Errorf("lever status %d: %w", res.StatusCode, domain.ErrTransientSource)
	}

	var postings []leverPosting
	if err := json.NewDecoder(res.Body).Decode(&postings); err != nil {
		return nil, 0, fmt.Errorf("lever decode: %w: %v", domain.ErrTransientSource, err)
	}

	out := make([]domain.Posting, 0, len(postings))
	skipped := 0
	for _, p := range postings {
		if p.ID == "" || strings.TrimSpace(p.Text) == "" {
			skipped++
			continue
		}
		if !util.LooksLikeInternship(p.Text) {
			continue
		}
		posted := domain.NotAvailable
		if p.CreatedAt > 0 {
			posted = time.UnixMilli(p.CreatedAt).UTC().Format("2006-01-02")
		}
		kind := util.CleanText(p.Categories.Commitment)
		if kind == "" {
			kind = "Internship"
		}

		out = append(out, domain.Posting{
			Source:       Name,
			Title:        util.CleanText(p.Text),
			Organization: co.Name,
			Compensation: domain.NotAvailable,
			Location:     util.OrNA(util.NormalizeLocation(p.Categories.Location)),
			Duration:     domain.NotAvailable,
			Type:         kind,
			PostedOn:     posted,
			ApplyBy:      domain.NotAvailable,
			StartDate:    domain.NotAvailable,
			ActionURL:    p.HostedURL,
			Description:  p.DescriptionPlain,
			ListingKey:   p.ID,
		}.WithID())
	}
	return out, skipped, nil
}
