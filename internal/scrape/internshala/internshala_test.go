package internshala

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"internwatch/internal/domain"

	"github.com/PuerkitoBio/goquery"
)

const pageHTML = `<html><body>
<div class="container-fluid individual_internship" internshipid="4242">
  <div class="job-internship-name"><a class="job-title-href" href="/internship/detail/data-science-internship-at-acme4242">Data Science</a></div>
  <p class="company-name"> Acme Analytics </p>
  <div class="locations"><span><a>Bangalore</a>, <a>Delhi</a></span></div>
  <span class="stipend">₹ 15,000 /month</span>
  <div class="row-1-item"><i class="ic-16-calendar"></i><span>6 Months</span></div>
  <div class="status-success"><span>2 days ago</span></div>
  <div class="status-li"><span>Part time</span></div>
  <div class="actively-hiring-badge">Actively hiring</div>
</div>
<div class="container-fluid individual_internship">
  <a class="job-title-href" href="/internship/detail/ml-at-beta99?utm_source=x">ML Intern</a>
  <p class="company-name">Beta</p>
  <div class="locations"><span>Work from home</span></div>
  <div class="row-1-item"><span>Starts now</span><span>2 Months</span></div>
</div>
<div class="container-fluid individual_internship"><p>ad</p></div>
</body></html>`

func parse(t *testing.T) []domain.Posting {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		t.Fatal(err)
	}
	got, skipped := ParseDocument(doc, "https://internshala.com/internships/")
	if len(skipped) != 1 || !errors.Is(skipped[0], domain.ErrRecordParse) {
		t.Fatalf("skipped = %v", skipped)
	}
	return got
}

func TestParseDocument(t *testing.T) {
	got := parse(t)
	if len(got) != 2 {
		t.Fatalf("got %d postings", len(got))
	}

	p := got[0]
	if p.Title != "Data Science" || p.Organization != "Acme Analytics" {
		t.Fatalf("fields: %+v", p)
	}
	if p.Location != "Bangalore, Delhi" || p.Duration != "6 Months" || p.Type != "Part time" {
		t.Fatalf("fields: %+v", p)
	}
	if !p.ActivelyHiring || p.PostedOn != "2 days ago" || p.ListingKey != "4242" {
		t.Fatalf("fields: %+v", p)
	}
	if p.ActionURL != "https://internshala.com/internship/detail/data-science-internship-at-acme4242" {
		t.Fatalf("ActionURL = %q", p.ActionURL)
	}

	q := got[1]
	if q.Duration != "2 Months" || q.PostedOn != "Recently" || q.Type != "Internship" || q.ActivelyHiring {
		t.Fatalf("defaults: %+v", q)
	}
	if q.ListingKey != "/internship/detail/ml-at-beta99" {
		t.Fatalf("ListingKey = %q", q.ListingKey)
	}
}

func TestIDIgnoresRelativePostedTime(t *testing.T) {
	a := parse(t)[0]
	b := strings.Replace(pageHTML, "2 days ago", "3 days ago", 1)
	doc, _ := goquery.NewDocumentFromReader(strings.NewReader(b))
	got, _ := ParseDocument(doc, "https://internshala.com/internships/")
	if got[0].ID != a.ID {
		t.Fatal("id changed with the relative posted time")
	}
}

func TestFetchSearchesFirstTerms(t *testing.T) {
	var (
		mu    sync.Mutex
		paths []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.URL.EscapedPath())
		mu.Unlock()
		_, _ = io.WriteString(w, pageHTML)
	}))
	defer srv.Close()

	s := New(Config{
		BaseURL:  srv.URL,
		Terms:    []string{"data science", "", "ml", "ai", "web"},
		MaxTerms: 3,
	}, nil, log.New(io.Discard, "", 0))

	res, err := s.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if len(paths) != 3 {
		t.Fatalf("searched %v", paths)
	}
	if paths[0] != "/internships/keywords-data%20science" || paths[2] != "/internships/keywords-ai" {
		t.Fatalf("paths = %v", paths)
	}
	if len(res.Postings) != 6 || res.Skipped != 3 {
		t.Fatalf("postings=%d skipped=%d", len(res.Postings), res.Skipped)
	}
}

func TestFetchFailsOnlyWhenEveryTermFails(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "nope", http.StatusForbidden)
			return
		}
		_, _ = io.WriteString(w, pageHTML)
	}))
	defer srv.Close()

	quiet := log.New(io.Discard, "", 0)
	s := New(Config{BaseURL: srv.URL, Terms: []string{"a", "b"}}, nil, quiet)
	res, err := s.Fetch(context.Background())
	if err != nil || len(res.Postings) != 2 {
		t.Fatalf("partial failure: res=%d err=%v", len(res.Postings), err)
	}

	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer down.Close()

	s = New(Config{BaseURL: down.URL, Terms: []string{"a", "b"}}, nil, quiet)
	if _, err := s.Fetch(context.Background()); !errors.Is(err, domain.ErrTransientSource) {
		t.Fatalf("err = %v", err)
	}
}
