package queue

import (
	"context"
	"testing"

	"github.com/causewaykb/causeway/pkg/corpus"
	"github.com/causewaykb/causeway/pkg/coverage"
	"github.com/causewaykb/causeway/pkg/graph"
)

type fakeSource struct {
	pages []corpus.Page
	index map[string][]string

	writtenIndex map[string][]string
}

func (f *fakeSource) LoadPages(ctx context.Context) ([]corpus.Page, error) {
	return f.pages, nil
}

func (f *fakeSource) LoadGraph(ctx context.Context, slug string) (*graph.Graph, error) {
	return nil, nil
}

func (f *fakeSource) BacklinkIndex(ctx context.Context) (map[string][]string, bool, error) {
	if f.index == nil {
		return nil, false, nil
	}
	return f.index, true, nil
}

func (f *fakeSource) WriteBacklinkIndex(index map[string][]string) error {
	f.writtenIndex = index
	return nil
}

type fakePageSink struct {
	saved []corpus.Page
}

func (f *fakePageSink) SavePages(ctx context.Context, pages []corpus.Page) error {
	f.saved = pages
	return nil
}

type fakeReports struct {
	runID  string
	report *coverage.Report
}

func (f *fakeReports) SaveReport(ctx context.Context, runID string, report *coverage.Report) error {
	f.runID = runID
	f.report = report
	return nil
}

func testPages() []corpus.Page {
	return []corpus.Page{
		{Slug: "a", Title: "A", WordCount: 100, OutgoingRefs: []string{"b"}},
		{Slug: "b", Title: "B", WordCount: 100},
	}
}

func TestProcessReindexMessage(t *testing.T) {
	src := &fakeSource{pages: testPages()}

	err := ProcessReindexMessage(context.Background(), src, src, `{"reason":"page updated"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(src.writtenIndex["b"]) != 1 || src.writtenIndex["b"][0] != "a" {
		t.Fatalf("unexpected written index: %v", src.writtenIndex)
	}
}

func TestProcessReindexMessageSeedsSink(t *testing.T) {
	src := &fakeSource{pages: testPages()}
	sink := &fakePageSink{}

	err := ProcessReindexMessage(context.Background(), src, sink, `{"reason":"initial import"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(sink.saved) != 2 || sink.saved[0].Slug != "a" || sink.saved[1].Slug != "b" {
		t.Fatalf("snapshot not written to sink: %+v", sink.saved)
	}
	if src.writtenIndex != nil {
		t.Fatalf("index should go to the sink, not the source: %v", src.writtenIndex)
	}
}

func TestProcessReindexMessageBadBody(t *testing.T) {
	src := &fakeSource{pages: testPages()}
	if err := ProcessReindexMessage(context.Background(), src, src, "not json"); err == nil {
		t.Fatal("expected error for malformed message")
	}
}

func TestProcessCoverageMessage(t *testing.T) {
	src := &fakeSource{pages: testPages()}
	reports := &fakeReports{}

	err := ProcessCoverageMessage(context.Background(), src, reports, coverage.DefaultThresholds(), `{"run_id":"run-test"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if reports.runID != "run-test" {
		t.Fatalf("unexpected run id: %q", reports.runID)
	}
	if reports.report == nil || reports.report.TotalPages != 2 {
		t.Fatalf("unexpected report: %+v", reports.report)
	}
}

func TestProcessCoverageMessageGeneratesRunID(t *testing.T) {
	src := &fakeSource{pages: testPages()}
	reports := &fakeReports{}

	if err := ProcessCoverageMessage(context.Background(), src, reports, coverage.DefaultThresholds(), `{}`); err != nil {
		t.Fatal(err)
	}
	if reports.runID == "" {
		t.Fatal("run id should be generated when absent")
	}
}

func TestProcessCoverageMessagePrecomputedIndex(t *testing.T) {
	src := &fakeSource{
		pages: testPages(),
		index: map[string][]string{"b": {"a"}},
	}
	reports := &fakeReports{}

	if err := ProcessCoverageMessage(context.Background(), src, reports, coverage.DefaultThresholds(), `{}`); err != nil {
		t.Fatal(err)
	}
	for _, m := range reports.report.Pages {
		if m.Slug == "b" && m.Incoming != 1 {
			t.Fatalf("precomputed index not used: %+v", m)
		}
	}
}
