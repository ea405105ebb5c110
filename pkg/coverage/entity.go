package coverage

import (
	"sort"
	"strings"
	"unicode"

	"github.com/causewaykb/causeway/pkg/corpus"
)

// Mention records a page that talks about an entity in prose without
// linking to it, a candidate for a new inbound link.
type Mention struct {
	Slug string `json:"slug"`
	Term string `json:"term"`
}

// EntityReport is the single-entity view of the backlink machinery:
// who links to the entity, who merely mentions it, and what the
// entity's own page links out to.
type EntityReport struct {
	Slug   string `json:"slug"`
	Title  string `json:"title"`
	Exists bool   `json:"exists"`

	InboundLinks   []string  `json:"inbound_links"`
	MissingInbound []Mention `json:"missing_inbound"`
	Outgoing       []string  `json:"outgoing"`
}

// AnalyzeEntity reports link coverage for a single slug. Mention
// detection is a case-insensitive substring search over every other
// page's body for the entity's title and aliases, skipping matches
// that sit inside a URL or link target so `/wiki/foo` does not count
// as prose.
func AnalyzeEntity(pages []corpus.Page, slug string) *EntityReport {
	report := &EntityReport{Slug: slug}

	var terms []string
	for _, page := range pages {
		if page.Slug != slug {
			continue
		}
		report.Exists = true
		report.Title = page.Title
		report.Outgoing = append(report.Outgoing, page.OutgoingRefs...)
		terms = append(terms, page.Title)
		terms = append(terms, page.Aliases...)
		break
	}
	if len(terms) == 0 {
		terms = []string{strings.ReplaceAll(slug, "-", " ")}
	}

	backlinks := BuildBacklinks(pages)
	report.InboundLinks = backlinks[slug]

	linked := make(map[string]struct{}, len(report.InboundLinks))
	for _, src := range report.InboundLinks {
		linked[src] = struct{}{}
	}

	for _, page := range pages {
		if page.Slug == slug {
			continue
		}
		if _, ok := linked[page.Slug]; ok {
			continue
		}
		if term, found := mentionsAny(page.Body, terms); found {
			report.MissingInbound = append(report.MissingInbound, Mention{
				Slug: page.Slug,
				Term: term,
			})
		}
	}

	sort.Slice(report.MissingInbound, func(i, j int) bool {
		return report.MissingInbound[i].Slug < report.MissingInbound[j].Slug
	})
	return report
}

func mentionsAny(body string, terms []string) (string, bool) {
	lower := strings.ToLower(body)
	for _, term := range terms {
		t := strings.ToLower(strings.TrimSpace(term))
		if t == "" {
			continue
		}
		if mentions(lower, t) {
			return term, true
		}
	}
	return "", false
}

// mentions reports whether term occurs in body outside of a URL or
// markdown link target.
func mentions(body, term string) bool {
	for idx := 0; ; {
		pos := strings.Index(body[idx:], term)
		if pos == -1 {
			return false
		}
		pos += idx
		if !insideURL(body, pos) {
			return true
		}
		idx = pos + len(term)
	}
}

// insideURL checks whether the match position falls inside a
// non-whitespace token that looks like a URL or a markdown link
// destination.
func insideURL(body string, pos int) bool {
	start := pos
	for start > 0 && !unicode.IsSpace(rune(body[start-1])) {
		start--
	}
	prefix := body[start:pos]
	return strings.Contains(prefix, "://") || strings.Contains(prefix, "](")
}
