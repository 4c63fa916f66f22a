package dates

import (
	"testing"
	"time"
)

func TestNormalizeRelativeDateKeyword(t *testing.T) {
	if got, ok := NormalizeRelativeDateKeyword(" today "); !ok || got != "today" {
		t.Fatalf("NormalizeRelativeDateKeyword(today) = %q, %v", got, ok)
	}
	if _, ok := NormalizeRelativeDateKeyword("this-week"); ok {
		t.Fatalf("expected this-week to be rejected")
	}
}

func TestResolveRelativeDateKeyword_Instants(t *testing.T) {
	now := time.Date(2026, time.March, 4, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		keyword string
		want    string
	}{
		{"today", "2026-03-04"},
		{"tomorrow", "2026-03-05"},
		{"yesterday", "2026-03-03"},
	}
	for _, tt := range tests {
		res, ok := ResolveRelativeDateKeyword(tt.keyword, now)
		if !ok {
			t.Fatalf("expected %s to resolve", tt.keyword)
		}
		if res.Date.Format(DateLayout) != tt.want {
			t.Fatalf("unexpected %s: %s", tt.keyword, res.Date.Format(DateLayout))
		}
		if res.Date.Hour() != 0 || res.Date.Minute() != 0 {
			t.Fatalf("%s should resolve to start of day, got %v", tt.keyword, res.Date)
		}
	}
}

func TestParseAgoRejectsUnknownUnit(t *testing.T) {
	now := time.Date(2026, time.March, 4, 14, 30, 0, 0, time.UTC)
	if _, ok, err := parseAgo("4 decades ago", now); !ok || err == nil {
		t.Fatalf("parseAgo(decades) = ok %v, err %v; want ok with error", ok, err)
	}
	if _, ok, _ := parseAgo("yesterday", now); ok {
		t.Fatalf("parseAgo(yesterday) should not match")
	}
}
