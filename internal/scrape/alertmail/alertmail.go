package alertmail

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"internwatch/internal/domain"
	"internwatch/internal/scrape/types"

	"github.com/emersion/go-imap/v2"
)

const Name = "Email"

type Config struct {
	SubjectAny  []string // empty means every unseen mail
	MaxMessages int
	MaxAge      time.Duration
}

// Scraper reads unseen alert mails. Mails are flagged \Seen only from the
// result's Finalize, after the cycle has recorded the listings.
type Scraper struct {
	cfg    Config
	dial   Dialer
	logger *log.Logger
	now    func() time.Time
}

func New(cfg Config, dial Dialer, logger *log.Logger) *Scraper {
	if cfg.MaxMessages <= 0 {
		cfg.MaxMessages = 50
	}
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = 90 * 24 * time.Hour
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Scraper{cfg: cfg, dial: dial, logger: logger, now: time.Now}
}

func (s *Scraper) Name() string { return Name }

func (s *Scraper) Fetch(ctx context.Context) (types.ScrapeResult, error) {
	res := types.ScrapeResult{Source: Name}

	mb, err := s.dial(ctx)
	if err != nil {
		return res, fmt.Errorf("alertmail: %w: %v", domain.ErrTransientSource, err)
	}
	defer mb.Close()

	msgs, err := mb.Unseen(ctx, s.now().Add(-s.cfg.MaxAge), s.cfg.MaxMessages)
	if err != nil {
		return res, fmt.Errorf("alertmail: %w: %v", domain.ErrTransientSource, err)
	}

	var processed []imap.UID
	for _, m := range msgs {
		if !s.subjectMatches(m.Subject) {
			continue
		}
		body, isHTML := htmlBody(m.Raw)
		postings, skipped := ParseAlert(body, isHTML, Name)
		res.Postings = append(res.Postings, postings...)
		res.Skipped += skipped
		processed = append(processed, m.UID)
		s.logger.Printf("[alertmail] uid=%d subject=%q listings=%d", m.UID, m.Subject, len(postings))
	}

	if len(processed) > 0 {
		res.Finalize = func(ctx context.Context) error {
			mb, err := s.dial(ctx)
			if err != nil {
				return err
			}
			defer mb.Close()
			return mb.MarkSeen(processed)
		}
	}
	return res, nil
}

func (s *Scraper) subjectMatches(subject string) bool {
	if len(s.cfg.SubjectAny) == 0 {
		return true
	}
	l := strings.ToLower(subject)
	for _, needle := range s.cfg.SubjectAny {
		if n := strings.ToLower(strings.TrimSpace(needle)); n != "" && strings.Contains(l, n) {
			return true
		}
	}
	return false
}
