package scrape

import (
	"bytes"
	"log"
	"strings"
	"testing"

	"internwatch/internal/domain"
)

func TestFilterByInterest(t *testing.T) {
	postings := []domain.Posting{
		{Title: "Machine Learning Intern", Organization: "Acme"},
		{Title: "Sales Intern", Organization: "DataCorp"},
		{Title: "Marketing", Organization: "X", Description: "use AI tools"},
		{Title: "Accountant", Organization: "Y"},
	}

	got := FilterByInterest(postings, []string{" machine learning ", "DATA"}, nil)
	if len(got) != 2 || got[0].Title != "Machine Learning Intern" || got[1].Organization != "DataCorp" {
		t.Fatalf("got %+v", got)
	}

	got = FilterByInterest(postings, []string{"ai"}, nil)
	if len(got) != 1 || got[0].Title != "Marketing" {
		t.Fatalf("description match: got %+v", got)
	}
}

func TestFilterByInterestEmptyTermsMatchNothing(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf, "", 0)

	got := FilterByInterest([]domain.Posting{{Title: "ML Intern"}}, []string{"", "  "}, logger)
	if len(got) != 0 {
		t.Fatalf("expected nothing, got %+v", got)
	}
	if !strings.Contains(buf.String(), "no interest terms") {
		t.Fatalf("expected warning, log=%q", buf.String())
	}
}

func TestFilterByInterestIsPure(t *testing.T) {
	in := []domain.Posting{{Title: "AI intern"}, {Title: "cook"}}
	a := FilterByInterest(in, []string{"ai"}, nil)
	b := FilterByInterest(in, []string{"ai"}, nil)
	if len(a) != len(b) || len(in) != 2 || in[1].Title != "cook" {
		t.Fatal("filter is not deterministic or mutated input")
	}
}
