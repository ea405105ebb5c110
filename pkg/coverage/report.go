package coverage

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// RenderOptions filters which report sections are written. The zero
// value renders everything.
type RenderOptions struct {
	OrphansOnly   bool
	TopLinkedOnly bool
}

// WriteText renders the report as a human-readable summary.
func (r *Report) WriteText(w io.Writer, opts RenderOptions) {
	full := !opts.OrphansOnly && !opts.TopLinkedOnly

	if full {
		fmt.Fprintf(w, "Pages: %d  References: %d  Avg outgoing: %.2f  Avg density: %.2f refs/1000w\n\n",
			r.TotalPages, r.TotalRefs, r.AvgOutgoing, r.AvgDensity)
	}

	if full || opts.TopLinkedOnly {
		fmt.Fprintln(w, "Most linked:")
		writeMetricsTable(w, r.MostLinked, func(m PageMetrics) string {
			return fmt.Sprintf("%d incoming", m.Incoming)
		})
		if full {
			fmt.Fprintln(w, "Least linked (high importance):")
			writeMetricsTable(w, r.LeastLinkedImportant, func(m PageMetrics) string {
				return fmt.Sprintf("%d incoming", m.Incoming)
			})
		}
	}

	if full || opts.OrphansOnly {
		fmt.Fprintf(w, "Orphans (%d):\n", len(r.Orphans))
		writeMetricsTable(w, r.Orphans, func(m PageMetrics) string {
			return fmt.Sprintf("importance %d", m.Importance)
		})
	}

	if full {
		fmt.Fprintf(w, "Underlinked (%d):\n", len(r.Underlinked))
		writeMetricsTable(w, r.Underlinked, func(m PageMetrics) string {
			return fmt.Sprintf("%d outgoing, %.2f refs/1000w", m.Outgoing, m.LinkDensity)
		})
	}
}

func writeMetricsTable(w io.Writer, metrics []PageMetrics, detail func(PageMetrics) string) {
	if len(metrics) == 0 {
		fmt.Fprintln(w, "  (none)")
		fmt.Fprintln(w)
		return
	}
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	for _, m := range metrics {
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", m.Slug, m.Title, detail(m))
	}
	tw.Flush()
	fmt.Fprintln(w)
}

// WriteText renders the single-entity report.
func (r *EntityReport) WriteText(w io.Writer) {
	if !r.Exists {
		fmt.Fprintf(w, "Page %q not found in corpus; matching on slug words only.\n\n", r.Slug)
	} else {
		fmt.Fprintf(w, "%s (%s)\n\n", r.Title, r.Slug)
	}

	fmt.Fprintf(w, "Inbound links (%d):\n", len(r.InboundLinks))
	for _, slug := range r.InboundLinks {
		fmt.Fprintf(w, "  %s\n", slug)
	}

	fmt.Fprintf(w, "\nMentions without a link (%d):\n", len(r.MissingInbound))
	for _, m := range r.MissingInbound {
		fmt.Fprintf(w, "  %s (matched %q)\n", m.Slug, m.Term)
	}

	fmt.Fprintf(w, "\nOutgoing references (%d):\n", len(r.Outgoing))
	for _, slug := range r.Outgoing {
		fmt.Fprintf(w, "  %s\n", slug)
	}
}
