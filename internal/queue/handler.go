package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/causewaykb/causeway/internal/util"
	"github.com/causewaykb/causeway/pkg/corpus"
	"github.com/causewaykb/causeway/pkg/coverage"
	"github.com/causewaykb/causeway/pkg/logger"
	"github.com/causewaykb/causeway/pkg/store"
)

// ReindexMsg requests a rebuild of the backlink index from the
// configured corpus source.
type ReindexMsg struct {
	Reason      string `json:"reason,omitempty"`
	RequestedBy string `json:"requested_by,omitempty"`
}

// CoverageMsg requests a full coverage analysis run. RunID is
// assigned by the publisher so callers can correlate the stored
// report; an empty RunID gets one generated.
type CoverageMsg struct {
	RunID string `json:"run_id,omitempty"`
}

// IndexWriter is implemented by sources that can persist a freshly
// computed backlink index as an accelerant for later runs.
type IndexWriter interface {
	WriteBacklinkIndex(index map[string][]string) error
}

// PageWriter is implemented by sources that hold the corpus snapshot
// itself (the PostgreSQL store), where reindexing means rewriting the
// snapshot.
type PageWriter interface {
	SavePages(ctx context.Context, pages []corpus.Page) error
}

// ReportWriter persists finished coverage reports.
type ReportWriter interface {
	SaveReport(ctx context.Context, runID string, report *coverage.Report) error
}

// ProcessReindexMessage reloads the corpus from src and persists the
// result into sink. The two may differ: with PostgreSQL configured
// alongside a wiki directory, src is the markdown tree and sink the
// database, which is how page rows are seeded and refreshed. Sinks
// without a persistence capability still log the rebuild; the next
// analysis run recomputes from scratch, which is the documented
// degradation.
func ProcessReindexMessage(ctx context.Context, src store.DataSource, sink any, body string) error {
	var msg ReindexMsg
	if err := json.Unmarshal([]byte(body), &msg); err != nil {
		return fmt.Errorf("invalid reindex message: %w", err)
	}

	logger.Info("[Queue] Reindexing corpus", "reason", msg.Reason, "requested_by", msg.RequestedBy)

	pages, err := src.LoadPages(ctx)
	if err != nil {
		return fmt.Errorf("failed to load corpus: %w", err)
	}
	index := coverage.BuildBacklinks(pages)

	switch writer := sink.(type) {
	case PageWriter:
		if err := writer.SavePages(ctx, pages); err != nil {
			return fmt.Errorf("failed to save corpus snapshot: %w", err)
		}
	case IndexWriter:
		if err := writer.WriteBacklinkIndex(index); err != nil {
			return fmt.Errorf("failed to write backlink index: %w", err)
		}
	default:
		logger.Warn("[Queue] Sink cannot persist index, skipping write")
	}

	logger.Info("[Queue] Reindex complete", "pages", len(pages), "indexed_targets", len(index))
	return nil
}

// ProcessCoverageMessage runs the coverage analyzer over the current
// corpus snapshot and stores the report when a writer is available.
func ProcessCoverageMessage(
	ctx context.Context,
	src store.DataSource,
	reports ReportWriter,
	thresholds coverage.Thresholds,
	body string,
) error {
	var msg CoverageMsg
	if err := json.Unmarshal([]byte(body), &msg); err != nil {
		return fmt.Errorf("invalid coverage message: %w", err)
	}
	runID := msg.RunID
	if runID == "" {
		runID = util.NewRunID()
	}

	pages, err := src.LoadPages(ctx)
	if err != nil {
		return fmt.Errorf("failed to load corpus: %w", err)
	}

	index, precomputed, err := src.BacklinkIndex(ctx)
	if err != nil {
		return fmt.Errorf("failed to load backlink index: %w", err)
	}
	if !precomputed {
		logger.Debug("[Queue] No precomputed index, computing backlinks from corpus")
	}

	report := coverage.AnalyzeWithIndex(pages, index, thresholds)

	logger.Info(
		"[Queue] Coverage run complete",
		"run_id", runID,
		"pages", report.TotalPages,
		"orphans", len(report.Orphans),
		"underlinked", len(report.Underlinked),
	)

	if reports != nil {
		if err := reports.SaveReport(ctx, runID, report); err != nil {
			return fmt.Errorf("failed to store report: %w", err)
		}
	}
	return nil
}
