package fs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestSourceLoadPages(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "alpha.md", "---\ntitle: Alpha\n---\nSee [[beta]].")
	writeFile(t, dir, "beta.md", "---\ntitle: Beta\n---\nBody.")

	src, err := NewSource(SourceParams{PagesDir: dir})
	if err != nil {
		t.Fatal(err)
	}

	pages, err := src.LoadPages(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(pages) != 2 {
		t.Fatalf("unexpected page count: %d", len(pages))
	}
}

func TestSourceLoadGraph(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "graphs/misuse.json", `{
		"title": "Misuse",
		"nodes": [{"id": "a", "label": "A"}, {"id": "b", "label": "B"}],
		"edges": [{"id": "e1", "source": "a", "target": "b", "strength": "strong"}]
	}`)

	src, err := NewSource(SourceParams{PagesDir: dir})
	if err != nil {
		t.Fatal(err)
	}

	g, err := src.LoadGraph(context.Background(), "misuse")
	if err != nil {
		t.Fatal(err)
	}
	if g.Slug != "misuse" || len(g.Nodes) != 2 || len(g.Edges) != 1 {
		t.Fatalf("unexpected graph: %+v", g)
	}

	if _, err := src.LoadGraph(context.Background(), "absent"); err == nil {
		t.Fatal("expected error for missing graph")
	}
}

func TestSourceBacklinkIndexDegrades(t *testing.T) {
	dir := t.TempDir()
	src, err := NewSource(SourceParams{PagesDir: dir})
	if err != nil {
		t.Fatal(err)
	}

	// No accelerant file: degrade, do not fail.
	index, ok, err := src.BacklinkIndex(context.Background())
	if err != nil || ok || index != nil {
		t.Fatalf("missing index should degrade: index=%v ok=%v err=%v", index, ok, err)
	}

	// Corrupt accelerant: same degradation.
	writeFile(t, dir, ".backlinks.json", "{not json")
	index, ok, err = src.BacklinkIndex(context.Background())
	if err != nil || ok || index != nil {
		t.Fatalf("corrupt index should degrade: index=%v ok=%v err=%v", index, ok, err)
	}
}

func TestSourceBacklinkIndexRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src, err := NewSource(SourceParams{PagesDir: dir})
	if err != nil {
		t.Fatal(err)
	}

	want := map[string][]string{"beta": {"alpha"}}
	if err := src.WriteBacklinkIndex(want); err != nil {
		t.Fatal(err)
	}

	index, ok, err := src.BacklinkIndex(context.Background())
	if err != nil || !ok {
		t.Fatalf("index should be served: ok=%v err=%v", ok, err)
	}
	if len(index["beta"]) != 1 || index["beta"][0] != "alpha" {
		t.Fatalf("unexpected index: %v", index)
	}
}

func TestSourceCanonicalPath(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".registry.json", `{"alpha": "wiki/alpha.mdx"}`)

	src, err := NewSource(SourceParams{PagesDir: dir})
	if err != nil {
		t.Fatal(err)
	}

	if path, ok := src.CanonicalPath("alpha"); !ok || path != "wiki/alpha.mdx" {
		t.Fatalf("unexpected canonical path: %q %v", path, ok)
	}
	if _, ok := src.CanonicalPath("ghost"); ok {
		t.Fatal("unknown slug should not resolve")
	}
}
