package domain

import (
	"crypto/md5"
	"encoding/hex"
	"testing"
)

func TestWithIDStableAcrossFetches(t *testing.T) {
	a := Posting{Source: "AICTE", Organization: "Acme", Title: "Data Science Intern", PostedOn: "12 Jan 2025", Location: "Pune"}
	b := a
	b.Location = "Pune, Maharashtra" // display fields do not feed identity

	if a.WithID().ID != b.WithID().ID {
		t.Fatalf("expected identical ids for the same listing")
	}
	if len(a.WithID().ID) != 32 {
		t.Fatalf("expected md5 hex id, got %q", a.WithID().ID)
	}
}

func TestWithIDDistinguishesListings(t *testing.T) {
	base := Posting{Source: "AICTE", Organization: "Acme", Title: "ML Intern", PostedOn: "12 Jan 2025"}
	other := base
	other.Title = "Data Analyst Intern"
	otherSource := base
	otherSource.Source = "Internshala"

	ids := map[string]bool{
		base.WithID().ID:        true,
		other.WithID().ID:       true,
		otherSource.WithID().ID: true,
	}
	if len(ids) != 3 {
		t.Fatalf("expected 3 distinct ids, got %d", len(ids))
	}
}

func TestWithIDPrefersListingKey(t *testing.T) {
	p := Posting{Source: "Internshala", Organization: "Acme", Title: "ML Intern", PostedOn: "Just now", ListingKey: "4512"}
	later := p
	later.PostedOn = "2 days ago"

	if p.WithID().ID != later.WithID().ID {
		t.Fatalf("relative posted-on text must not change identity when a listing key exists")
	}
	if got, want := p.WithID().ID, ComputeID("Internshala", "Acme", "ML Intern", "4512"); got != want {
		t.Fatalf("id = %s, want %s", got, want)
	}
}

func TestComputeIDMatchesLegacyLayout(t *testing.T) {
	sum := md5.Sum([]byte("AICTE-Acme-ML Intern-N/A"))
	if got, want := ComputeID("AICTE", "Acme", "ML Intern", NotAvailable), hex.EncodeToString(sum[:]); got != want {
		t.Fatalf("id = %s, want %s", got, want)
	}
}

func TestRunStatsTotals(t *testing.T) {
	var r RunStats
	r.Source("AICTE").Found = 3
	r.Source("AICTE").Filtered = 2
	r.Source("Internshala").Found = 4
	r.Source("Internshala").New = 1

	found, filtered, fresh := r.Totals()
	if found != 7 || filtered != 2 || fresh != 1 {
		t.Fatalf("totals = %d/%d/%d", found, filtered, fresh)
	}
	if len(r.Sources) != 2 || r.Sources[0].Source != "AICTE" {
		t.Fatalf("unexpected sources %+v", r.Sources)
	}
}
