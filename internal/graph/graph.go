// Package graph assembles the component graph from discovered files and
// infers externally visible files, public dependencies and include paths.
package graph

import (
	"github.com/phobologic/incgraph/internal/discover"
	"github.com/phobologic/incgraph/internal/lookup"
	"github.com/phobologic/incgraph/internal/model"
	"github.com/phobologic/incgraph/internal/resolve"
)

// Registry holds the fixed tables consulted during resolution.
type Registry struct {
	// Externals maps a lower-cased header to a predefined component name.
	Externals map[string]string
	// Known holds system header names never reported as unknown.
	Known map[string]struct{}
}

// Assemble creates a graph from a discovery layout. includes holds the
// scanned directives per file path; files without an entry have none.
// skipped records files that could not be scanned and why.
func Assemble(root string, layout *discover.Layout, includes map[string][]model.Include, skipped map[string]string) *model.Graph {
	g := model.NewGraph(root)

	for _, c := range layout.Components {
		g.Components[c.Root] = model.NewComponent(c.Root, c.Type)
	}
	for _, fe := range layout.Files {
		comp := g.Components[fe.Component]
		if comp == nil {
			g.Outside = append(g.Outside, fe.Path)
			continue
		}
		g.Files[fe.Path] = model.NewSourceFile(fe.Path, fe.Component, includes[fe.Path])
		comp.Files.Add(fe.Path)
	}
	g.Outside = append(g.Outside, layout.Outside...)
	for p, reason := range skipped {
		g.Skipped[p] = reason
	}
	return g
}

// Infer runs every inference pass over g in order: lookup table, include
// resolution, externality propagation, dependency classification and
// include-path partitioning.
func Infer(g *model.Graph, reg Registry) {
	paths := make([]string, 0, len(g.Files))
	for p := range g.Files {
		paths = append(paths, p)
	}
	table := lookup.Build(paths)
	g.Collisions = table.Collisions()

	resolve.New(table, reg.Externals, reg.Known).ResolveAll(g)

	Propagate(g)
	ClassifyDependencies(g)
	PartitionIncludePaths(g)
}
