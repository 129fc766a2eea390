// Package resolve turns raw include directives into file and component
// dependency edges.
package resolve

import (
	"path"
	"strings"

	"github.com/phobologic/incgraph/internal/lookup"
	"github.com/phobologic/incgraph/internal/model"
)

// Outcome describes how a single include was resolved.
type Outcome int

const (
	Local Outcome = iota
	Global
	External
	Ambiguous
	Unknown
	KnownSystem
)

// Resolver resolves includes against a lookup table built from the graph's
// files. Externals and Known are fixed for the lifetime of the resolver.
type Resolver struct {
	Table *lookup.Table
	// Externals maps a lower-cased header to a predefined component name.
	Externals map[string]string
	// Known holds system header names never reported as unknown.
	Known map[string]struct{}
}

// New creates a resolver.
func New(table *lookup.Table, externals map[string]string, known map[string]struct{}) *Resolver {
	return &Resolver{Table: table, Externals: externals, Known: known}
}

// ResolveAll resolves every include of every file in g, populating file
// dependencies, include paths, inclusion flags, component private
// dependencies and the ambiguous and unknown sets.
func (r *Resolver) ResolveAll(g *model.Graph) {
	for _, f := range g.SortedFiles() {
		for _, inc := range f.Includes {
			r.Resolve(g, f, inc)
		}
	}
}

// Resolve handles one include of f.
func (r *Resolver) Resolve(g *model.Graph, f *model.SourceFile, inc model.Include) Outcome {
	// A quoted include that names a file next to the includer always wins.
	// The compiler finds it without an include path and never sees any
	// ambiguity, so neither do we.
	if !inc.Angled {
		if dep := g.Files[path.Join(path.Dir(f.Path), inc.Target)]; dep != nil {
			dep.HasInclude = true
			f.Dependencies.Add(dep.Path)
			return Local
		}
	}

	key := strings.ToLower(inc.Target)
	full, state := r.Table.Lookup(key)

	if state == lookup.Poisoned {
		consumers := g.Ambiguous[key]
		if n := len(consumers); n == 0 || consumers[n-1] != f.Path {
			g.Ambiguous[key] = append(consumers, f.Path)
		}
		return Ambiguous
	}

	if name, ok := r.Externals[key]; ok {
		ext := g.Components[name]
		if ext == nil {
			ext = model.NewExternalComponent(name)
			g.Components[name] = ext
		}
		if owner := g.Components[f.Component]; owner != nil {
			owner.PrivateDeps.Add(name)
		}
		return External
	}

	if state == lookup.Unique {
		if dep := g.Files[full]; dep != nil {
			f.Dependencies.Add(dep.Path)
			dep.HasInclude = true

			if frag := Fragment(dep.Path, dep.Component, inc.Target); frag != "" {
				dep.IncludePaths.Add(frag)
			}

			if f.Component != dep.Component {
				if owner := g.Components[f.Component]; owner != nil {
					owner.PrivateDeps.Add(dep.Component)
				}
				dep.HasExternalInclude = true
			}
			return Global
		}
	}

	if _, ok := r.Known[inc.Target]; ok {
		return KnownSystem
	}
	g.Unknown.Add(inc.Target)
	return Unknown
}

// Fragment returns the directory, relative to root, that must be on the
// include path for target to resolve to full. It returns "." when that
// directory is root itself and "" when the arithmetic does not fit inside
// root.
func Fragment(full, root, target string) string {
	cut := len(full) - len(target) - 1
	if cut < 0 {
		return ""
	}
	dir := full[:cut]
	switch {
	case len(dir) == len(root):
		return "."
	case len(dir) > len(root)+1:
		return dir[len(root)+1:]
	default:
		return ""
	}
}
