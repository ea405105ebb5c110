package store

import (
	"context"

	"github.com/causewaykb/causeway/pkg/corpus"
	"github.com/causewaykb/causeway/pkg/graph"
)

// DataSource is the capability interface the analyzers load their
// inputs through. Implementations are selected once at startup; the
// analysis code never branches on where the data came from.
//
// BacklinkIndex returns (index, true, nil) when a precomputed index
// served the call and (nil, false, nil) when the caller should fall
// back to computing backlinks from the loaded pages. A missing
// accelerant is a degradation, not an error.
type DataSource interface {
	LoadPages(ctx context.Context) ([]corpus.Page, error)
	LoadGraph(ctx context.Context, slug string) (*graph.Graph, error)
	BacklinkIndex(ctx context.Context) (map[string][]string, bool, error)
}
