package corpus

// Page is one wiki document after parsing. Pages are the nodes of the
// implicit cross-reference graph: OutgoingRefs are the structural
// edges, RawLinks keeps every hyperlink target as written for
// diagnostics.
type Page struct {
	// Slug identifies the page; it is derived from the file path
	// relative to the corpus root, without the extension.
	Slug string `json:"slug"`

	Title      string   `json:"title"`
	Importance int      `json:"importance"`
	IsIndex    bool     `json:"is_index"`
	Aliases    []string `json:"aliases,omitempty"`

	WordCount int `json:"word_count"`

	// OutgoingRefs lists the distinct slugs this page references,
	// in order of first appearance.
	OutgoingRefs []string `json:"outgoing_refs"`

	// RawLinks lists every hyperlink target found in the body,
	// including external URLs, as written.
	RawLinks []string `json:"raw_links,omitempty"`

	// Body is the document text without the frontmatter header.
	Body string `json:"-"`
}

// References reports whether the page structurally links to the slug.
func (p Page) References(slug string) bool {
	for _, ref := range p.OutgoingRefs {
		if ref == slug {
			return true
		}
	}
	return false
}

// frontmatter is the YAML metadata header of a page file.
type frontmatter struct {
	Title      string   `yaml:"title"`
	Importance int      `yaml:"importance"`
	Index      bool     `yaml:"index"`
	Aliases    []string `yaml:"aliases"`
}
