package util

import (
	"context"
	"testing"
	"time"
)

func TestCanonicalURLDropsTracking(t *testing.T) {
	got := CanonicalURL("HTTPS://Internshala.com/internship/detail/x-123?utm_source=mail&b=2&a=1#top")
	want := "https://internshala.com/internship/detail/x-123?a=1&b=2"
	if got != want {
		t.Fatalf("CanonicalURL = %q want %q", got, want)
	}
}

func TestResolveURL(t *testing.T) {
	cases := []struct{ base, href, want string }{
		{"https://internship.aicte-india.org/recentlyposted.php", "internship-details.php?uid=9", "https://internship.aicte-india.org/internship-details.php?uid=9"},
		{"https://internshala.com/internships/", "/internship/detail/a-1", "https://internshala.com/internship/detail/a-1"},
		{"https://a.example", "https://b.example/x", "https://b.example/x"},
		{"https://a.example", "", ""},
		{"https://a.example", "#", ""},
		{"https://a.example", "javascript:void(0)", ""},
	}
	for _, c := range cases {
		if got := ResolveURL(c.base, c.href); got != c.want {
			t.Errorf("ResolveURL(%q, %q) = %q want %q", c.base, c.href, got, c.want)
		}
	}
}

func TestOrNA(t *testing.T) {
	if OrNA("  \n ") != "N/A" {
		t.Fatal("blank text should be N/A")
	}
	if OrNA("  Work   from\thome ") != "Work from home" {
		t.Fatal("text not collapsed")
	}
}

func TestNormalizeLocation(t *testing.T) {
	if got := NormalizeLocation("Location: Pune, pune , Mumbai"); got != "Pune, Mumbai" {
		t.Fatalf("NormalizeLocation = %q", got)
	}
}

func TestLooksLikeInternship(t *testing.T) {
	if !LooksLikeInternship("Summer Intern - ML") || LooksLikeInternship("Staff Engineer") {
		t.Fatal("LooksLikeInternship misclassified")
	}
}

func TestPauseHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	if err := Pause(ctx, time.Minute); err == nil {
		t.Fatal("expected context error")
	}
	if time.Since(start) > time.Second {
		t.Fatal("Pause ignored cancellation")
	}
}

func TestHostLimiterSeparatesHosts(t *testing.T) {
	hl := NewHostLimiter(1000, 1)
	if hl.limiterFor("a") == hl.limiterFor("b") {
		t.Fatal("hosts share a limiter")
	}
	if hl.limiterFor("a") != hl.limiterFor("a") {
		t.Fatal("same host got two limiters")
	}
	if err := hl.WaitURL(context.Background(), "https://a.example/x"); err != nil {
		t.Fatal(err)
	}
}
