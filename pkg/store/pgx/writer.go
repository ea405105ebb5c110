package pgx

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/causewaykb/causeway/internal/util"
	"github.com/causewaykb/causeway/pkg/corpus"
	"github.com/causewaykb/causeway/pkg/coverage"
)

// SavePages replaces the stored corpus snapshot with the given pages
// in one transaction. Links are rewritten with their document order
// so LoadPages can restore the original reference order.
func (s *Source) SavePages(ctx context.Context, pages []corpus.Page) error {
	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM page_links`); err != nil {
		return fmt.Errorf("failed to clear page links: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM pages`); err != nil {
		return fmt.Errorf("failed to clear pages: %w", err)
	}

	for _, page := range pages {
		_, err := tx.Exec(ctx, `
			INSERT INTO pages (slug, title, importance, is_index, aliases, word_count, body)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`,
			page.Slug,
			page.Title,
			page.Importance,
			page.IsIndex,
			page.Aliases,
			page.WordCount,
			util.SanitizePostgresText(page.Body),
		)
		if err != nil {
			return fmt.Errorf("failed to insert page %s: %w", page.Slug, err)
		}

		for pos, target := range page.OutgoingRefs {
			_, err := tx.Exec(ctx, `
				INSERT INTO page_links (source_slug, target_slug, position)
				VALUES ($1, $2, $3)
			`, page.Slug, target, pos)
			if err != nil {
				return fmt.Errorf("failed to insert link %s -> %s: %w", page.Slug, target, err)
			}
		}
	}

	return tx.Commit(ctx)
}

// SaveReport stores a coverage report under its run ID.
func (s *Source) SaveReport(ctx context.Context, runID string, report *coverage.Report) error {
	raw, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	_, err = s.conn.Exec(ctx, `
		INSERT INTO coverage_reports (run_id, report)
		VALUES ($1, $2)
	`, runID, raw)
	if err != nil {
		return fmt.Errorf("failed to insert report: %w", err)
	}
	return nil
}

// LatestReport returns the most recently stored coverage report and
// its run ID.
func (s *Source) LatestReport(ctx context.Context) (*coverage.Report, string, error) {
	var runID string
	var raw []byte
	err := s.conn.QueryRow(ctx, `
		SELECT run_id, report
		FROM coverage_reports
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`).Scan(&runID, &raw)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load latest report: %w", err)
	}

	var report coverage.Report
	if err := json.Unmarshal(raw, &report); err != nil {
		return nil, "", fmt.Errorf("failed to parse stored report: %w", err)
	}
	return &report, runID, nil
}
