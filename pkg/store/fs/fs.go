package fs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/causewaykb/causeway/pkg/corpus"
	"github.com/causewaykb/causeway/pkg/graph"
	"github.com/causewaykb/causeway/pkg/logger"
)

// Source reads the corpus from a directory tree. Two JSON accelerant
// files are optional: a precomputed backlink index and a path
// registry mapping slugs to canonical file locations. When either is
// absent the source degrades to computing from the corpus instead of
// failing.
type Source struct {
	pagesDir  string
	graphsDir string
	indexPath string

	registry map[string]string
}

// SourceParams configures a filesystem Source. PagesDir is required;
// the rest default relative to it.
type SourceParams struct {
	PagesDir     string
	GraphsDir    string
	IndexPath    string
	RegistryPath string
}

// NewSource creates a filesystem-backed data source. The registry
// accelerant is loaded eagerly (and its absence logged); the backlink
// index is read per call so reindex runs are picked up.
func NewSource(params SourceParams) (*Source, error) {
	if params.PagesDir == "" {
		return nil, errors.New("pages directory is required")
	}
	s := &Source{
		pagesDir:  params.PagesDir,
		graphsDir: params.GraphsDir,
		indexPath: params.IndexPath,
	}
	if s.graphsDir == "" {
		s.graphsDir = filepath.Join(params.PagesDir, "graphs")
	}
	if s.indexPath == "" {
		s.indexPath = filepath.Join(params.PagesDir, ".backlinks.json")
	}

	registryPath := params.RegistryPath
	if registryPath == "" {
		registryPath = filepath.Join(params.PagesDir, ".registry.json")
	}
	raw, err := os.ReadFile(registryPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		logger.Debug("[Store] No path registry, canonical paths unavailable", "path", registryPath)
	case err != nil:
		return nil, fmt.Errorf("failed to read path registry: %w", err)
	default:
		if err := json.Unmarshal(raw, &s.registry); err != nil {
			logger.Warn("[Store] Ignoring unreadable path registry", "path", registryPath, "err", err)
			s.registry = nil
		}
	}

	return s, nil
}

// LoadPages parses every page under the pages directory.
func (s *Source) LoadPages(ctx context.Context) ([]corpus.Page, error) {
	return corpus.LoadDir(ctx, s.pagesDir)
}

// LoadGraph reads a causal graph document from the graphs directory.
func (s *Source) LoadGraph(ctx context.Context, slug string) (*graph.Graph, error) {
	raw, err := os.ReadFile(filepath.Join(s.graphsDir, slug+".json"))
	if err != nil {
		return nil, fmt.Errorf("failed to read graph %s: %w", slug, err)
	}
	var g graph.Graph
	if err := json.Unmarshal(raw, &g); err != nil {
		return nil, fmt.Errorf("failed to parse graph %s: %w", slug, err)
	}
	if g.Slug == "" {
		g.Slug = slug
	}
	return &g, nil
}

// BacklinkIndex reads the precomputed index file. A missing or
// unreadable file degrades to (nil, false, nil): the caller computes
// backlinks from the corpus instead.
func (s *Source) BacklinkIndex(ctx context.Context) (map[string][]string, bool, error) {
	raw, err := os.ReadFile(s.indexPath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("[Store] Backlink index unreadable, computing from corpus", "path", s.indexPath, "err", err)
		}
		return nil, false, nil
	}
	var index map[string][]string
	if err := json.Unmarshal(raw, &index); err != nil {
		logger.Warn("[Store] Backlink index corrupt, computing from corpus", "path", s.indexPath, "err", err)
		return nil, false, nil
	}
	return index, true, nil
}

// WriteBacklinkIndex persists a freshly computed index as the
// accelerant for later runs.
func (s *Source) WriteBacklinkIndex(index map[string][]string) error {
	raw, err := json.MarshalIndent(index, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.indexPath, raw, 0o644)
}

// CanonicalPath resolves a slug through the path registry accelerant.
func (s *Source) CanonicalPath(slug string) (string, bool) {
	path, ok := s.registry[slug]
	return path, ok
}
