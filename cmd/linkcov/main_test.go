package main

import (
	"fmt"
	"testing"

	"github.com/causewaykb/causeway/pkg/corpus"
	"github.com/causewaykb/causeway/pkg/coverage"
)

// mentioningPages builds n pages that mention the term in prose
// without linking to it.
func mentioningPages(n int, term string) []corpus.Page {
	pages := []corpus.Page{
		{Slug: "reward-hacking", Title: "Reward Hacking", WordCount: 400},
	}
	for i := 0; i < n; i++ {
		pages = append(pages, corpus.Page{
			Slug:      fmt.Sprintf("page-%d", i),
			Title:     fmt.Sprintf("Page %d", i),
			WordCount: 100,
			Body:      "Some systems exhibit " + term + " under optimization pressure.",
		})
	}
	return pages
}

func TestGateTripped(t *testing.T) {
	tests := []struct {
		name       string
		mentions   int
		maxMissing int
		want       bool
	}{
		{name: "under threshold", mentions: 3, maxMissing: 5, want: false},
		{name: "at threshold", mentions: 5, maxMissing: 5, want: false},
		{name: "over threshold", mentions: 6, maxMissing: 5, want: true},
		{name: "zero tolerance", mentions: 1, maxMissing: 0, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pages := mentioningPages(tt.mentions, "reward hacking")
			report := coverage.AnalyzeEntity(pages, "reward-hacking")

			if len(report.MissingInbound) != tt.mentions {
				t.Fatalf("unexpected missing-inbound count: got %d, want %d",
					len(report.MissingInbound), tt.mentions)
			}
			if got := gateTripped(report, tt.maxMissing); got != tt.want {
				t.Fatalf("unexpected gate result: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMaxMissingDefault(t *testing.T) {
	flag := rootCmd.Flags().Lookup("max-missing")
	if flag == nil {
		t.Fatal("max-missing flag not registered")
	}
	if flag.DefValue != "5" {
		t.Fatalf("unexpected default: %q", flag.DefValue)
	}
}
