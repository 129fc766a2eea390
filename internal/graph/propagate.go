package graph

import (
	"github.com/phobologic/incgraph/internal/model"
)

// Propagate marks every file reachable, within its own component, from a
// file already marked HasExternalInclude. Edges that cross a component
// boundary are not followed: the resolver seeds their targets directly.
// It returns the number of files newly marked.
//
// This is a worklist closure equivalent to sweeping all files until a
// pass makes no change. Marks are never cleared, so it terminates.
func Propagate(g *model.Graph) int {
	var queue []*model.SourceFile
	for _, f := range g.SortedFiles() {
		if f.HasExternalInclude {
			queue = append(queue, f)
		}
	}

	marked := 0
	for len(queue) > 0 {
		f := queue[0]
		queue = queue[1:]

		for _, p := range f.Dependencies.Sorted() {
			dep := g.Files[p]
			if dep == nil || dep.HasExternalInclude || dep.Component != f.Component {
				continue
			}
			dep.HasExternalInclude = true
			marked++
			queue = append(queue, dep)
		}
	}
	return marked
}
