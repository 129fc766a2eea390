package graph

import (
	"strings"

	"github.com/phobologic/incgraph/internal/model"
)

// ClassifyDependencies promotes a component's dependencies to public when
// an externally visible file of the component uses them, strips
// self-references, and infers each component's type.
func ClassifyDependencies(g *model.Graph) {
	for _, comp := range g.SortedComponents() {
		if comp.External {
			comp.Type = model.Library
			continue
		}

		visible := false
		for _, p := range comp.Files.Sorted() {
			f := g.Files[p]
			if f == nil || !f.HasExternalInclude {
				continue
			}
			visible = true
			for _, d := range f.Dependencies.Sorted() {
				dep := g.Files[d]
				if dep == nil {
					continue
				}
				delete(comp.PrivateDeps, dep.Component)
				comp.PublicDeps.Add(dep.Component)
			}
		}
		delete(comp.PublicDeps, comp.Root)
		delete(comp.PrivateDeps, comp.Root)

		comp.Type = inferType(comp.Root, visible)
	}
}

func inferType(root string, visible bool) model.ComponentType {
	segments := strings.Split(root, "/")
	switch {
	case segments[len(segments)-1] == "test":
		return model.Unittest
	case visible || segments[0] == "packages":
		return model.Library
	default:
		return model.Executable
	}
}

// PartitionIncludePaths collects each component's include-path fragments
// from its included files. Fragments of externally visible files are
// public, the rest private; a fragment that is both stays public only.
func PartitionIncludePaths(g *model.Graph) {
	for _, comp := range g.SortedComponents() {
		for _, p := range comp.Files.Sorted() {
			f := g.Files[p]
			if f == nil || !f.HasInclude {
				continue
			}
			target := comp.PrivateIncludePaths
			if f.HasExternalInclude {
				target = comp.PublicIncludePaths
			}
			for frag := range f.IncludePaths {
				target.Add(frag)
			}
		}
		for frag := range comp.PublicIncludePaths {
			delete(comp.PrivateIncludePaths, frag)
		}
	}
}
