package coverage

import (
	"sort"

	"github.com/causewaykb/causeway/pkg/corpus"
)

// BuildBacklinks inverts the outgoing-reference relation of the
// corpus: the result maps a slug to the sorted list of distinct pages
// that reference it. Targets that have no page of their own still get
// an entry; the analyzer treats those as edges to nowhere.
//
// The inversion is a single pass over every page's reference list.
func BuildBacklinks(pages []corpus.Page) map[string][]string {
	sources := make(map[string]map[string]struct{})
	for _, page := range pages {
		for _, ref := range page.OutgoingRefs {
			set, ok := sources[ref]
			if !ok {
				set = make(map[string]struct{})
				sources[ref] = set
			}
			set[page.Slug] = struct{}{}
		}
	}

	index := make(map[string][]string, len(sources))
	for target, set := range sources {
		list := make([]string, 0, len(set))
		for slug := range set {
			list = append(list, slug)
		}
		sort.Strings(list)
		index[target] = list
	}
	return index
}
