// Package focus narrows a graph down to selected components.
package focus

import (
	"sort"
	"strings"

	"github.com/phobologic/incgraph/internal/model"
)

// Components returns a new graph holding only the components whose root
// matches one of patterns, plus everything they depend on directly or
// transitively. A pattern matches a root it equals or, case-insensitively,
// is a substring of. With no patterns g is returned unchanged.
//
// Files and components are shared with g, not copied; both graphs must be
// treated as read-only. Findings are kept only where they concern a kept
// file: ambiguous includes by their consumers, unknown headers by the
// files that include them.
func Components(g *model.Graph, patterns []string) *model.Graph {
	if len(patterns) == 0 {
		return g
	}

	selected := make(model.Set)
	var queue []string
	for _, comp := range g.SortedComponents() {
		if matches(comp.Root, patterns) && selected.Add(comp.Root) {
			queue = append(queue, comp.Root)
		}
	}

	for len(queue) > 0 {
		root := queue[0]
		queue = queue[1:]
		comp := g.Components[root]
		for _, set := range []model.Set{comp.PublicDeps, comp.PrivateDeps} {
			for _, dep := range set.Sorted() {
				if g.Components[dep] != nil && selected.Add(dep) {
					queue = append(queue, dep)
				}
			}
		}
	}

	out := model.NewGraph(g.Root)
	for root := range selected {
		out.Components[root] = g.Components[root]
	}
	for path, f := range g.Files {
		if selected.Has(f.Component) {
			out.Files[path] = f
		}
	}

	for key, consumers := range g.Ambiguous {
		var kept []string
		for _, c := range consumers {
			if _, ok := out.Files[c]; ok {
				kept = append(kept, c)
			}
		}
		if len(kept) > 0 {
			out.Ambiguous[key] = kept
			out.Collisions[key] = g.Collisions[key]
		}
	}

	for _, f := range out.Files {
		for _, inc := range f.Includes {
			if g.Unknown.Has(inc.Target) {
				out.Unknown.Add(inc.Target)
			}
		}
		if reason, ok := g.Skipped[f.Path]; ok {
			out.Skipped[f.Path] = reason
		}
	}
	return out
}

// Matching returns the roots of components matched by pattern, sorted.
func Matching(g *model.Graph, pattern string) []string {
	var roots []string
	for root := range g.Components {
		if matches(root, []string{pattern}) {
			roots = append(roots, root)
		}
	}
	sort.Strings(roots)
	return roots
}

func matches(root string, patterns []string) bool {
	lower := strings.ToLower(root)
	for _, p := range patterns {
		if p == root || strings.Contains(lower, strings.ToLower(p)) {
			return true
		}
	}
	return false
}
