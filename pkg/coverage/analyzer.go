package coverage

import (
	"sort"

	"github.com/causewaykb/causeway/pkg/corpus"
)

// Thresholds are the tunable cutoffs behind the orphan and
// underlinked classifications. Every predicate is a conjunction of
// independent thresholds; none of them is hard-coded in the analyzer.
type Thresholds struct {
	// OrphanMaxIncoming is the largest incoming-link count that still
	// counts as orphaned.
	OrphanMaxIncoming int `json:"orphan_max_incoming"`
	// MinImportance gates both classifications: pages below it are
	// never flagged.
	MinImportance int `json:"min_importance"`
	// UnderlinkedMaxOutgoing flags pages whose outgoing reference
	// count is strictly below it.
	UnderlinkedMaxOutgoing int `json:"underlinked_max_outgoing"`
	// UnderlinkedMinWords exempts short pages from the underlinked
	// check.
	UnderlinkedMinWords int `json:"underlinked_min_words"`
	// LowDensityCutoff is the link-density bound (references per 1000
	// words) below which a page counts as underlinked.
	LowDensityCutoff float64 `json:"low_density_cutoff"`
	// RankSize caps the most-linked and least-linked report lists.
	RankSize int `json:"rank_size"`
}

// DefaultThresholds returns the cutoffs used when the caller does not
// override them.
func DefaultThresholds() Thresholds {
	return Thresholds{
		OrphanMaxIncoming:      1,
		MinImportance:          30,
		UnderlinkedMaxOutgoing: 3,
		UnderlinkedMinWords:    500,
		LowDensityCutoff:       2.0,
		RankSize:               10,
	}
}

// PageMetrics holds the computed connectivity numbers for one page.
type PageMetrics struct {
	Slug        string  `json:"slug"`
	Title       string  `json:"title"`
	Importance  int     `json:"importance"`
	WordCount   int     `json:"word_count"`
	Outgoing    int     `json:"outgoing"`
	Incoming    int     `json:"incoming"`
	LinkDensity float64 `json:"link_density"`
	Orphan      bool    `json:"orphan"`
	Underlinked bool    `json:"underlinked"`
}

// Report is the full coverage analysis of a corpus snapshot. Reports
// are deterministic: the same pages and thresholds always produce the
// same report, list orders included.
type Report struct {
	Thresholds Thresholds `json:"thresholds"`

	TotalPages  int     `json:"total_pages"`
	TotalRefs   int     `json:"total_refs"`
	AvgOutgoing float64 `json:"avg_outgoing"`
	AvgDensity  float64 `json:"avg_density"`

	Pages []PageMetrics `json:"pages"`

	MostLinked           []PageMetrics `json:"most_linked"`
	LeastLinkedImportant []PageMetrics `json:"least_linked_important"`
	Orphans              []PageMetrics `json:"orphans"`
	Underlinked          []PageMetrics `json:"underlinked"`
}

// LinkDensity computes outgoing references per 1000 words. A page
// with no words has density 0, never NaN or Inf.
func LinkDensity(outgoing, wordCount int) float64 {
	if wordCount == 0 {
		return 0
	}
	return float64(outgoing) / float64(wordCount) * 1000
}

// Analyze computes per-page connectivity metrics and the orphan and
// underlinked classifications for the whole corpus. The input pages
// are not modified; pages that failed to parse never reach this point
// (the loader already skipped them).
func Analyze(pages []corpus.Page, thresholds Thresholds) *Report {
	backlinks := BuildBacklinks(pages)
	return analyze(pages, backlinks, thresholds)
}

// AnalyzeWithIndex is Analyze with a precomputed backlink index, the
// accelerated path used when a data source can serve the inversion.
func AnalyzeWithIndex(pages []corpus.Page, backlinks map[string][]string, thresholds Thresholds) *Report {
	if backlinks == nil {
		backlinks = BuildBacklinks(pages)
	}
	return analyze(pages, backlinks, thresholds)
}

func analyze(pages []corpus.Page, backlinks map[string][]string, thresholds Thresholds) *Report {
	report := &Report{Thresholds: thresholds, TotalPages: len(pages)}

	for _, page := range pages {
		incoming := len(backlinks[page.Slug])
		outgoing := len(page.OutgoingRefs)

		m := PageMetrics{
			Slug:        page.Slug,
			Title:       page.Title,
			Importance:  page.Importance,
			WordCount:   page.WordCount,
			Outgoing:    outgoing,
			Incoming:    incoming,
			LinkDensity: LinkDensity(outgoing, page.WordCount),
		}

		// The two classifications are independent predicates; a page
		// can be both orphaned and underlinked.
		m.Orphan = incoming <= thresholds.OrphanMaxIncoming &&
			!page.IsIndex &&
			page.Importance >= thresholds.MinImportance

		m.Underlinked = outgoing < thresholds.UnderlinkedMaxOutgoing &&
			page.WordCount > thresholds.UnderlinkedMinWords &&
			page.Importance >= thresholds.MinImportance &&
			m.LinkDensity < thresholds.LowDensityCutoff

		report.Pages = append(report.Pages, m)
		report.TotalRefs += outgoing

		if m.Orphan {
			report.Orphans = append(report.Orphans, m)
		}
		if m.Underlinked {
			report.Underlinked = append(report.Underlinked, m)
		}
	}

	if report.TotalPages > 0 {
		var densitySum float64
		for _, m := range report.Pages {
			densitySum += m.LinkDensity
		}
		report.AvgOutgoing = float64(report.TotalRefs) / float64(report.TotalPages)
		report.AvgDensity = densitySum / float64(report.TotalPages)
	}

	report.MostLinked = rank(report.Pages, thresholds.RankSize, func(a, b PageMetrics) bool {
		if a.Incoming != b.Incoming {
			return a.Incoming > b.Incoming
		}
		return a.Slug < b.Slug
	})

	var important []PageMetrics
	for _, m := range report.Pages {
		if m.Importance >= thresholds.MinImportance {
			important = append(important, m)
		}
	}
	report.LeastLinkedImportant = rank(important, thresholds.RankSize, func(a, b PageMetrics) bool {
		if a.Incoming != b.Incoming {
			return a.Incoming < b.Incoming
		}
		return a.Slug < b.Slug
	})

	return report
}

// rank returns the first n metrics under the given order without
// touching the input slice.
func rank(metrics []PageMetrics, n int, less func(a, b PageMetrics) bool) []PageMetrics {
	ranked := make([]PageMetrics, len(metrics))
	copy(ranked, metrics)
	sort.Slice(ranked, func(i, j int) bool { return less(ranked[i], ranked[j]) })
	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
