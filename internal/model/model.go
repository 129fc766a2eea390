// Package model defines core data structures for incgraph.
package model

import "sort"

// ComponentType classifies a component by how it is consumed.
type ComponentType string

const (
	Executable ComponentType = "executable"
	Library    ComponentType = "library"
	Unittest   ComponentType = "unittest"
)

// Include is a single include directive as written in the source.
type Include struct {
	Target string
	Angled bool
}

// Set is an unordered set of string keys.
type Set map[string]struct{}

// Add inserts s and reports whether it was not already present.
func (s Set) Add(v string) bool {
	if _, ok := s[v]; ok {
		return false
	}
	s[v] = struct{}{}
	return true
}

// Has reports whether v is in the set.
func (s Set) Has(v string) bool {
	_, ok := s[v]
	return ok
}

// Sorted returns the members in ascending order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// SourceFile is one source or header file on disk.
type SourceFile struct {
	// Path is forward-slash and relative to the project root.
	Path string
	// Component is the root key of the owning component.
	Component string
	Includes  []Include

	// Dependencies holds paths of files this file includes.
	Dependencies Set
	// IncludePaths holds directory fragments, relative to the owning
	// component root, that dependents need on their search path.
	IncludePaths Set

	HasInclude         bool
	HasExternalInclude bool
}

// NewSourceFile creates a file owned by component.
func NewSourceFile(path, component string, includes []Include) *SourceFile {
	return &SourceFile{
		Path:         path,
		Component:    component,
		Includes:     includes,
		Dependencies: make(Set),
		IncludePaths: make(Set),
	}
}

// Component is an independently buildable directory unit.
type Component struct {
	// Root is the directory path, or a synthetic name for externals.
	Root string
	Type ComponentType
	// External marks predefined system libraries that own no files.
	External bool
	Files    Set

	PublicDeps          Set
	PrivateDeps         Set
	PublicIncludePaths  Set
	PrivateIncludePaths Set
}

// NewComponent creates an empty component rooted at root.
func NewComponent(root string, typ ComponentType) *Component {
	return &Component{
		Root:                root,
		Type:                typ,
		Files:               make(Set),
		PublicDeps:          make(Set),
		PrivateDeps:         make(Set),
		PublicIncludePaths:  make(Set),
		PrivateIncludePaths: make(Set),
	}
}

// NewExternalComponent creates a synthetic, file-less library component.
func NewExternalComponent(name string) *Component {
	c := NewComponent(name, Library)
	c.External = true
	return c
}

// Graph is the result of one full reload. It owns every file and component;
// cross-references between them are keys into Files and Components.
type Graph struct {
	Root       string
	Files      map[string]*SourceFile
	Components map[string]*Component

	// Unknown holds include targets that resolved to nothing and are not
	// known system headers.
	Unknown Set
	// Ambiguous maps a poisoned lookup key to the files that included it.
	Ambiguous map[string][]string
	// Collisions maps a poisoned lookup key to the files sharing it.
	Collisions map[string][]string
	// Outside lists code files that matched no component root.
	Outside []string
	// Skipped lists files dropped while reading, with the reason.
	Skipped map[string]string
}

// NewGraph returns an empty graph for the project at root.
func NewGraph(root string) *Graph {
	return &Graph{
		Root:       root,
		Files:      make(map[string]*SourceFile),
		Components: make(map[string]*Component),
		Unknown:    make(Set),
		Ambiguous:  make(map[string][]string),
		Collisions: make(map[string][]string),
		Skipped:    make(map[string]string),
	}
}

// ComponentOf returns the component owning the file at path.
func (g *Graph) ComponentOf(path string) *Component {
	f := g.Files[path]
	if f == nil {
		return nil
	}
	return g.Components[f.Component]
}

// SortedComponents returns components ordered by root.
func (g *Graph) SortedComponents() []*Component {
	roots := make([]string, 0, len(g.Components))
	for r := range g.Components {
		roots = append(roots, r)
	}
	sort.Strings(roots)
	out := make([]*Component, len(roots))
	for i, r := range roots {
		out[i] = g.Components[r]
	}
	return out
}

// SortedFiles returns files ordered by path.
func (g *Graph) SortedFiles() []*SourceFile {
	paths := make([]string, 0, len(g.Files))
	for p := range g.Files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	out := make([]*SourceFile, len(paths))
	for i, p := range paths {
		out[i] = g.Files[p]
	}
	return out
}

// SortedAmbiguous returns the ambiguous keys in ascending order.
func (g *Graph) SortedAmbiguous() []string {
	keys := make([]string, 0, len(g.Ambiguous))
	for k := range g.Ambiguous {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SortedUnknown returns the unresolved include targets in ascending order.
func (g *Graph) SortedUnknown() []string {
	return g.Unknown.Sorted()
}
