package scrape

import (
	"io"
	"log"
	"testing"

	"internwatch/internal/config"
)

func TestBuildFetchersFollowsConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Sources.Lever.Enabled = true
	cfg.Sources.Lever.Companies = []config.Company{{Slug: "acme", Name: "Acme"}}
	cfg.Sources.AlertMail.Enabled = true
	cfg.Sources.AlertMail.IMAPHost = "imap.example.com"

	got := BuildFetchers(cfg, nil, log.New(io.Discard, "", 0))
	var names []string
	for _, f := range got {
		names = append(names, f.Name())
	}
	want := []string{"AICTE", "Internshala", "Lever", "Email"}
	if len(names) != len(want) {
		t.Fatalf("names = %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("names = %v, want %v", names, want)
		}
	}

	cfg.Sources.AICTE.Enabled = false
	cfg.Sources.Internshala.Enabled = false
	cfg.Sources.Lever.Enabled = false
	cfg.Sources.AlertMail.Enabled = false
	if n := len(BuildFetchers(cfg, nil, nil)); n != 0 {
		t.Fatalf("expected no fetchers, got %d", n)
	}
}
