package coverage

import (
	"testing"

	"github.com/causewaykb/causeway/pkg/corpus"
)

func TestBuildBacklinks(t *testing.T) {
	pages := []corpus.Page{
		page("a", 0, 0, "b", "c"),
		page("b", 0, 0, "c"),
		page("c", 0, 0),
	}

	index := BuildBacklinks(pages)

	if got := index["c"]; len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("backlinks of c: got %v, want [a b]", got)
	}
	if got := index["b"]; len(got) != 1 || got[0] != "a" {
		t.Fatalf("backlinks of b: got %v, want [a]", got)
	}
	if _, ok := index["a"]; ok {
		t.Fatal("a has no incoming links and should be absent")
	}
}

func TestBuildBacklinksUnknownTarget(t *testing.T) {
	pages := []corpus.Page{page("a", 0, 0, "ghost")}

	index := BuildBacklinks(pages)
	if got := index["ghost"]; len(got) != 1 || got[0] != "a" {
		t.Fatalf("edges to nowhere must still be indexed: %v", got)
	}
}

func TestBuildBacklinksInvariant(t *testing.T) {
	// Incoming count must equal the number of distinct pages whose
	// outgoing set contains the target.
	pages := []corpus.Page{
		page("a", 0, 0, "x"),
		page("b", 0, 0, "x"),
		page("c", 0, 0, "x", "a"),
	}
	index := BuildBacklinks(pages)

	for _, target := range []string{"x", "a"} {
		distinct := 0
		for _, p := range pages {
			if p.References(target) {
				distinct++
			}
		}
		if len(index[target]) != distinct {
			t.Fatalf("%s: index says %d, corpus says %d", target, len(index[target]), distinct)
		}
	}
}
