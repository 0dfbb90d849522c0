package scrape

import (
	"fmt"
	"log"
	"time"

	"internwatch/internal/config"
	"internwatch/internal/scrape/aicte"
	"internwatch/internal/scrape/alertmail"
	"internwatch/internal/scrape/greenhouse"
	"internwatch/internal/scrape/internshala"
	"internwatch/internal/scrape/lever"
	"internwatch/internal/scrape/types"
	"internwatch/internal/scrape/util"
)

// BuildFetchers returns the enabled sources in polling order.
func BuildFetchers(cfg config.Config, limiter *util.HostLimiter, logger *log.Logger) []types.Fetcher {
	src := cfg.Sources
	timeout := cfg.Polling.RequestTimeout

	var out []types.Fetcher
	if src.AICTE.Enabled {
		out = append(out, aicte.New(aicte.Config{
			Endpoint: src.AICTE.URL,
			Timeout:  timeout,
		}, limiter, logger))
	}
	if src.Internshala.Enabled {
		out = append(out, internshala.New(internshala.Config{
			BaseURL:   src.Internshala.BaseURL,
			Terms:     cfg.Interests,
			MaxTerms:  src.Internshala.MaxTerms,
			TermDelay: internshalaTermDelay,
			Timeout:   timeout,
		}, limiter, logger))
	}
	if src.Lever.Enabled {
		out = append(out, lever.New(lever.Config{
			Companies: mapLeverCompanies(src.Lever.Companies),
			Timeout:   timeout,
		}, limiter, logger))
	}
	if src.Greenhouse.Enabled {
		out = append(out, greenhouse.New(greenhouse.Config{
			Companies: mapGreenhouseCompanies(src.Greenhouse.Companies),
			Timeout:   timeout,
		}, limiter, logger))
	}
	if src.AlertMail.Enabled {
		am := src.AlertMail
		addr := fmt.Sprintf("%s:%d", am.IMAPHost, am.IMAPPort)
		out = append(out, alertmail.New(alertmail.Config{
			SubjectAny:  am.SubjectAny,
			MaxMessages: am.MaxMessages,
		}, alertmail.IMAPDialer(addr, am.Username, am.AppPassword, am.Mailbox, logger), logger))
	}
	return out
}

const internshalaTermDelay = 2 * time.Second

func mapGreenhouseCompanies(in []config.Company) []greenhouse.Company {
	out := make([]greenhouse.Company, 0, len(in))
	for _, c := range in {
		out = append(out, greenhouse.Company{Slug: c.Slug, Name: c.Name})
	}
	return out
}

func mapLeverCompanies(in []config.Company) []lever.Company {
	out := make([]lever.Company, 0, len(in))
	for _, c := range in {
		out = append(out, lever.Company{Slug: c.Slug, Name: c.Name})
	}
	return out
}
