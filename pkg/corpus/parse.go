package corpus

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"
)

const frontmatterDelim = "---"

// markdown is the shared goldmark instance used for link extraction.
// It is configured once and never mutated afterwards.
var markdown = goldmark.New()

// crossRefPattern matches the structured [[slug]] and [[slug|label]]
// cross-reference markers.
var crossRefPattern = regexp.MustCompile(`\[\[([^\[\]|]+)(?:\|[^\[\]]*)?\]\]`)

// ParsePage parses one raw page file into a Page. The file may start
// with a YAML frontmatter block delimited by "---" lines; the rest is
// the markdown body. Cross-references are collected from the [[slug]]
// markers and from relative markdown hyperlinks in a single pass over
// the body.
//
// An unterminated frontmatter block or invalid YAML is an error; the
// caller decides whether to skip the document.
func ParsePage(slug string, raw []byte) (Page, error) {
	meta, body, err := splitFrontmatter(string(raw))
	if err != nil {
		return Page{}, fmt.Errorf("page %s: %w", slug, err)
	}

	page := Page{
		Slug:       slug,
		Title:      meta.Title,
		Importance: meta.Importance,
		IsIndex:    meta.Index,
		Aliases:    meta.Aliases,
		Body:       body,
		WordCount:  len(strings.Fields(body)),
	}
	if page.Title == "" {
		page.Title = slug
	}

	seen := map[string]struct{}{}
	addRef := func(ref string) {
		if ref == "" || ref == slug {
			return
		}
		if _, dup := seen[ref]; dup {
			return
		}
		seen[ref] = struct{}{}
		page.OutgoingRefs = append(page.OutgoingRefs, ref)
	}

	for _, m := range crossRefPattern.FindAllStringSubmatch(body, -1) {
		addRef(strings.TrimSpace(m[1]))
	}

	for _, dest := range extractLinkTargets(body) {
		page.RawLinks = append(page.RawLinks, dest)
		if ref, ok := refFromTarget(dest); ok {
			addRef(ref)
		}
	}

	return page, nil
}

func splitFrontmatter(raw string) (frontmatter, string, error) {
	var meta frontmatter

	trimmed := strings.TrimPrefix(raw, "\uFEFF")
	if !strings.HasPrefix(trimmed, frontmatterDelim+"\n") && trimmed != frontmatterDelim {
		return meta, trimmed, nil
	}

	rest := trimmed[len(frontmatterDelim)+1:]
	end := strings.Index(rest, "\n"+frontmatterDelim)
	if end == -1 {
		return meta, "", fmt.Errorf("unterminated frontmatter block")
	}

	header := rest[:end]
	body := rest[end+len(frontmatterDelim)+1:]
	if idx := strings.Index(body, "\n"); idx != -1 {
		body = body[idx+1:]
	} else {
		body = ""
	}

	if err := yaml.Unmarshal([]byte(header), &meta); err != nil {
		return meta, "", fmt.Errorf("invalid frontmatter: %w", err)
	}

	return meta, body, nil
}

// extractLinkTargets walks the markdown AST and returns every link
// destination in document order.
func extractLinkTargets(body string) []string {
	source := []byte(body)
	doc := markdown.Parser().Parse(gmtext.NewReader(source))

	var targets []string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch link := n.(type) {
		case *ast.Link:
			targets = append(targets, string(link.Destination))
		case *ast.AutoLink:
			targets = append(targets, string(link.URL(source)))
		case *ast.Image:
			// Images are not cross-references.
		}
		return ast.WalkContinue, nil
	})
	return targets
}

// refFromTarget converts a relative hyperlink target into a page slug.
// External URLs, anchors and mail links yield no reference.
func refFromTarget(target string) (string, bool) {
	if target == "" || strings.HasPrefix(target, "#") {
		return "", false
	}
	if strings.Contains(target, "://") || strings.HasPrefix(target, "mailto:") {
		return "", false
	}

	ref := target
	if idx := strings.IndexAny(ref, "#?"); idx != -1 {
		ref = ref[:idx]
	}
	ref = strings.TrimPrefix(ref, "./")
	ref = strings.TrimPrefix(ref, "/")
	ref = strings.TrimSuffix(ref, "/")
	ref = strings.TrimSuffix(ref, ".mdx")
	ref = strings.TrimSuffix(ref, ".md")
	if ref == "" {
		return "", false
	}
	return ref, true
}
