package aicte

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"internwatch/internal/domain"
)

const cardsHTML = `
<div class="card internship-item">
  <h5 class="job-title">Machine Learning Intern</h5>
  <p class="company-name">Acme Labs</p>
  <div class="wfh"><span>Work From Home</span></div>
  <div class="posted-on"><span>12 Jan 2025</span></div>
  <div class="location"><span>Pune</span></div>
  <div class="duration"><span>3 Months</span></div>
  <div class="start-date"><span>Immediately</span></div>
  <div class="stipend"><span>10000</span><span>per month</span></div>
  <div class="apply-by"><span>30 Jan 2025</span></div>
  <a class="btn btn-primary" href="internship-details.php?uid=INT-1">View</a>
</div>
<div class="card internship-item">
  <h5 class="job-title">Web Intern</h5>
  <p class="company-name">Beta</p>
</div>
<div class="card internship-item"><p>broken</p></div>
`

func TestParseList(t *testing.T) {
	got, skipped, err := ParseList(cardsHTML)
	if err != nil {
		t.Fatalf("ParseList error: %v", err)
	}
	if len(skipped) != 1 || !errors.Is(skipped[0], domain.ErrRecordParse) {
		t.Fatalf("skipped = %v, want one malformed card", skipped)
	}
	if len(got) != 2 {
		t.Fatalf("got %d postings", len(got))
	}

	p := got[0]
	if p.Title != "Machine Learning Intern" || p.Organization != "Acme Labs" || p.Compensation != "10000" {
		t.Fatalf("fields: %+v", p)
	}
	if p.Type != "Work From Home" || p.Location != "Pune" || p.ApplyBy != "30 Jan 2025" {
		t.Fatalf("fields: %+v", p)
	}
	if p.ActionURL != "https://internship.aicte-india.org/internship-details.php?uid=INT-1" {
		t.Fatalf("ActionURL = %q", p.ActionURL)
	}
	if p.ID != domain.ComputeID("AICTE", "Acme Labs", "Machine Learning Intern", "12 Jan 2025") {
		t.Fatalf("unexpected id %q", p.ID)
	}

	q := got[1]
	if q.PostedOn != domain.NotAvailable || q.ActionURL != "" {
		t.Fatalf("missing fields should be N/A: %+v", q)
	}
}

func TestFetchPostsForm(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm: %v", err)
		}
		if r.PostForm.Get("action") != "load_internship" || r.PostForm.Get("page") != "1" {
			t.Errorf("form = %v", r.PostForm)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"list": cardsHTML})
	}))
	defer srv.Close()

	s := New(Config{Endpoint: srv.URL}, nil, log.New(io.Discard, "", 0))
	res, err := s.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if res.Source != "AICTE" || len(res.Postings) != 2 || res.Skipped != 1 {
		t.Fatalf("result = %+v", res)
	}
}

func TestFetchServerErrorIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	s := New(Config{Endpoint: srv.URL}, nil, log.New(io.Discard, "", 0))
	res, err := s.Fetch(context.Background())
	if !errors.Is(err, domain.ErrTransientSource) {
		t.Fatalf("err = %v", err)
	}
	if len(res.Postings) != 0 {
		t.Fatalf("expected empty result, got %+v", res)
	}
}
