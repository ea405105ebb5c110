package pgx

import (
	"context"
	"fmt"

	"github.com/causewaykb/causeway/pkg/corpus"
	"github.com/causewaykb/causeway/pkg/graph"

	pgxv5 "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type iConn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, optionsAndArgs ...any) (pgxv5.Rows, error)
	QueryRow(ctx context.Context, sql string, optionsAndArgs ...any) pgxv5.Row
	Begin(ctx context.Context) (pgxv5.Tx, error)
}

// Source serves the corpus and causal graphs from PostgreSQL. The
// page_links table doubles as the precomputed backlink index: one
// GROUP BY inverts it, so BacklinkIndex is always the accelerated
// path here.
type Source struct {
	conn iConn
}

// NewSource creates a PostgreSQL-backed data source on an existing
// connection or pool.
func NewSource(conn iConn) *Source {
	return &Source{conn: conn}
}

// LoadPages reads every page and its outgoing references, preserving
// the order links appear in the document.
func (s *Source) LoadPages(ctx context.Context) ([]corpus.Page, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT slug, title, importance, is_index, aliases, word_count, body
		FROM pages
		ORDER BY slug
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query pages: %w", err)
	}
	defer rows.Close()

	var pages []corpus.Page
	bySlug := map[string]int{}
	for rows.Next() {
		var p corpus.Page
		if err := rows.Scan(&p.Slug, &p.Title, &p.Importance, &p.IsIndex, &p.Aliases, &p.WordCount, &p.Body); err != nil {
			return nil, fmt.Errorf("failed to scan page: %w", err)
		}
		bySlug[p.Slug] = len(pages)
		pages = append(pages, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	linkRows, err := s.conn.Query(ctx, `
		SELECT source_slug, target_slug
		FROM page_links
		ORDER BY source_slug, position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query page links: %w", err)
	}
	defer linkRows.Close()

	for linkRows.Next() {
		var source, target string
		if err := linkRows.Scan(&source, &target); err != nil {
			return nil, fmt.Errorf("failed to scan page link: %w", err)
		}
		if idx, ok := bySlug[source]; ok {
			pages[idx].OutgoingRefs = append(pages[idx].OutgoingRefs, target)
		}
	}
	return pages, linkRows.Err()
}

// LoadGraph reads a causal graph with its nodes and edges.
func (s *Source) LoadGraph(ctx context.Context, slug string) (*graph.Graph, error) {
	g := &graph.Graph{Slug: slug}
	err := s.conn.QueryRow(ctx, `
		SELECT title FROM graphs WHERE slug = $1
	`, slug).Scan(&g.Title)
	if err != nil {
		return nil, fmt.Errorf("failed to load graph %s: %w", slug, err)
	}

	nodeRows, err := s.conn.Query(ctx, `
		SELECT id, label, type, novelty, sensitivity, changeability, certainty
		FROM graph_nodes
		WHERE graph_slug = $1
		ORDER BY id
	`, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to query graph nodes: %w", err)
	}
	defer nodeRows.Close()

	for nodeRows.Next() {
		var n graph.Node
		var nodeType *string
		if err := nodeRows.Scan(&n.ID, &n.Label, &nodeType, &n.Novelty, &n.Sensitivity, &n.Changeability, &n.Certainty); err != nil {
			return nil, fmt.Errorf("failed to scan graph node: %w", err)
		}
		if nodeType != nil {
			n.Type = graph.NodeType(*nodeType)
		}
		g.Nodes = append(g.Nodes, n)
	}
	if err := nodeRows.Err(); err != nil {
		return nil, err
	}

	edgeRows, err := s.conn.Query(ctx, `
		SELECT id, source, target, strength, effect
		FROM graph_edges
		WHERE graph_slug = $1
		ORDER BY id
	`, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to query graph edges: %w", err)
	}
	defer edgeRows.Close()

	for edgeRows.Next() {
		var e graph.Edge
		var strength, effect *string
		if err := edgeRows.Scan(&e.ID, &e.Source, &e.Target, &strength, &effect); err != nil {
			return nil, fmt.Errorf("failed to scan graph edge: %w", err)
		}
		if strength != nil {
			e.Strength = graph.Strength(*strength)
		}
		if effect != nil {
			e.Effect = graph.Effect(*effect)
		}
		g.Edges = append(g.Edges, e)
	}
	return g, edgeRows.Err()
}

// BacklinkIndex inverts page_links in the database. The bool result
// is always true: the table itself is the precomputed index.
func (s *Source) BacklinkIndex(ctx context.Context) (map[string][]string, bool, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT target_slug, array_agg(DISTINCT source_slug ORDER BY source_slug)
		FROM page_links
		GROUP BY target_slug
	`)
	if err != nil {
		return nil, false, fmt.Errorf("failed to query backlink index: %w", err)
	}
	defer rows.Close()

	index := map[string][]string{}
	for rows.Next() {
		var target string
		var sources []string
		if err := rows.Scan(&target, &sources); err != nil {
			return nil, false, fmt.Errorf("failed to scan backlink row: %w", err)
		}
		index[target] = sources
	}
	return index, true, rows.Err()
}
