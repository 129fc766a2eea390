package graph

import (
	"container/heap"
	"sort"

	"github.com/phobologic/incgraph/internal/model"
)

// Pipeline orders the buildable components so that each appears after all
// of its public and private dependencies. Among components that are ready
// at the same time the smaller root comes first. Components caught in a
// dependency cycle, or depending on one, cannot be ordered and are returned
// separately in root order.
func Pipeline(g *model.Graph) (order []string, cyclic []string) {
	indeg := make(map[string]int)
	dependents := make(map[string][]string)

	comps := g.SortedComponents()
	for _, comp := range comps {
		if !comp.External {
			indeg[comp.Root] = 0
		}
	}
	for _, comp := range comps {
		if comp.External {
			continue
		}
		for _, set := range []model.Set{comp.PublicDeps, comp.PrivateDeps} {
			for _, dep := range set.Sorted() {
				target := g.Components[dep]
				if target == nil || target.External || dep == comp.Root {
					continue
				}
				indeg[comp.Root]++
				dependents[dep] = append(dependents[dep], comp.Root)
			}
		}
	}

	h := &stringHeap{}
	for root, n := range indeg {
		if n == 0 {
			heap.Push(h, root)
		}
	}

	for h.Len() > 0 {
		root := heap.Pop(h).(string)
		order = append(order, root)
		for _, d := range dependents[root] {
			indeg[d]--
			if indeg[d] == 0 {
				heap.Push(h, d)
			}
		}
	}

	for root, n := range indeg {
		if n > 0 {
			cyclic = append(cyclic, root)
		}
	}
	sort.Strings(cyclic)
	return order, cyclic
}

type stringHeap []string

func (h stringHeap) Len() int           { return len(h) }
func (h stringHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h stringHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *stringHeap) Push(x any) {
	*h = append(*h, x.(string))
}

func (h *stringHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
