package corpus

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/causewaykb/causeway/pkg/logger"

	"golang.org/x/sync/errgroup"
)

const loadParallelism = 8

// Slug derives a page slug from a path relative to the corpus root.
func Slug(relPath string) string {
	slug := filepath.ToSlash(relPath)
	slug = strings.TrimSuffix(slug, filepath.Ext(slug))
	return slug
}

// LoadDir reads every .md/.mdx file under dir and parses it into a
// Page. Files that fail to parse are logged and skipped; they never
// fail the load. The result is sorted by slug so repeated loads of
// the same corpus are identical.
//
// Reading fans out across files; parsing itself has no shared state.
func LoadDir(ctx context.Context, dir string) ([]Page, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch filepath.Ext(path) {
		case ".md", ".mdx":
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var (
		mutex sync.Mutex
		pages []Page
	)

	eg, gCtx := errgroup.WithContext(ctx)
	eg.SetLimit(loadParallelism)

	for _, path := range paths {
		p := path
		eg.Go(func() error {
			if gCtx.Err() != nil {
				return gCtx.Err()
			}

			raw, err := os.ReadFile(p)
			if err != nil {
				return err
			}

			rel, err := filepath.Rel(dir, p)
			if err != nil {
				return err
			}

			page, err := ParsePage(Slug(rel), raw)
			if err != nil {
				logger.Warn("[Corpus] Skipping malformed page", "path", p, "err", err)
				return nil
			}

			mutex.Lock()
			pages = append(pages, page)
			mutex.Unlock()
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(pages, func(i, j int) bool { return pages[i].Slug < pages[j].Slug })

	logger.Info("[Corpus] Loaded pages", "dir", dir, "count", len(pages))
	return pages, nil
}
