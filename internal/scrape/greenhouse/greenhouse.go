package greenhouse

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"internwatch/internal/domain"
	"internwatch/internal/scrape/types"
	"internwatch/internal/scrape/util"

	"github.com/PuerkitoBio/goquery"
)

const (
	Name = "Greenhouse"

	DefaultAPIBase = "https://boards-api.greenhouse.io/v1/boards"
)

type Config struct {
	APIBase   string
	Companies []Company // list of boards
	Timeout   time.Duration
}

type Company struct {
	Slug string // boards.greenhouse.io/<slug>
	Name string // display name
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

type boardResponse struct {
	Jobs []struct {
		ID          int64  `json:"id"`
		Title       string `json:"title"`
		AbsoluteURL string `json:"absolute_url"`
		UpdatedAt   string `json:"updated_at"`
		Location    struct {
			Name string `json:"name"`
		} `json:"location"`
		Content string `json:"content"` // escaped html
	} `json:"jobs"`
}

// Fetch walks boards one by one. A board that is down is logged and skipped.
func (s *Scraper) Fetch(ctx context.Context) (types.ScrapeResult, error) {
	res := types.ScrapeResult{Source: Name}
	var lastErr error
	failed := 0

	for _, co := range s.cfg.Companies {
		postings, skipped, err := s.fetchCompany(ctx, co)
		if err != nil {
			s.logger.Printf("[greenhouse] company=%q slug=%q err=%v", co.Name, co.Slug, err)
			failed++
			lastErr = err
			continue
		}
		res.Postings = append(res.Postings, postings...)
		res.Skipped += skipped
	}
	if len(s.cfg.Companies) > 0 && failed == len(s.cfg.Companies) {
		return types.ScrapeResult{Source: Name}, lastErr
	}
	return res, nil
}

func (s *Scraper) fetchCompany(ctx context.Context, co Company) ([]domain.Posting, int, error) {
	boardURL := fmt.Sprintf("%s/%s/jobs?content=true", s.cfg.APIBase, co.Slug)

	if s.limiter != nil {
		if err := s.limiter.WaitURL(ctx, boardURL); err != nil {
			return nil, 0, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, boardURL, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("User-Agent", util.UserAgent)

	res, err := s.hc.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("greenhouse get board: %w: %v", domain.ErrTransientSource, err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return nil, 0, fmt.Errorf("greenhouse board status %d: %w", res.StatusCode, domain.ErrTransientSource)
	}

	var board boardResponse
	if err := json.NewDecoder(res.Body).Decode(&board); err != nil {
		return nil, 0, fmt.Errorf("greenhouse decode: %w: %v", domain.ErrTransientSource, err)
	}

	var out []domain.Posting
	skipped := 0
	for _, j := range board.Jobs {
		title := util.CleanText(j.Title)
		if j.ID == 0 || title == "" {
			skipped++
			continue
		}
		if !util.LooksLikeInternship(title) {
			continue
		}
		posted := domain.NotAvailable
		if t, err := time.Parse(time.RFC3339, j.UpdatedAt); err == nil {
			posted = t.UTC().Format("2006-01-02")
		}

		out = append(out, domain.Posting{
			Source:       Name,
			Title:        title,
			Organization: co.Name,
			Compensation: domain.NotAvailable,
			Location:     util.OrNA(util.NormalizeLocation(j.Location.Name)),
			Duration:     domain.NotAvailable,
			Type:         "Internship",
			PostedOn:     posted,
			ApplyBy:      domain.NotAvailable,
			StartDate:    domain.NotAvailable,
			ActionURL:    j.AbsoluteURL,
			Description:  contentText(j.Content),
			ListingKey:   strconv.FormatInt(j.ID, 10),
		}.WithID())
	}
	return out, skipped, nil
}

// contentText turns the board's escaped HTML description into plain text.
func contentText(escaped string) string {
	if escaped == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html.UnescapeString(escaped)))
	if err != nil {
		return ""
	}
	return util.CleanText(doc.Text())
}
