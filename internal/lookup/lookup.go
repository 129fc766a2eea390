// Package lookup indexes file paths under every trailing path suffix so that
// include targets can be matched against them.
package lookup

import (
	"sort"
	"strings"
)

// Invalid is stored for a key that more than one file registered.
const Invalid = "INVALID"

// State describes the outcome of a lookup.
type State int

const (
	Missing State = iota
	Unique
	Poisoned
)

// Table maps case-folded path suffixes to the single file path they name.
type Table struct {
	entries    map[string]string
	collisions map[string]map[string]struct{}
}

// Build indexes paths. Each path is registered under every suffix that
// begins right after a '/', lower-cased. The path as a whole is not a key.
// Paths are processed in sorted order so the result does not depend on
// the caller's ordering.
func Build(paths []string) *Table {
	sorted := append([]string(nil), paths...)
	sort.Strings(sorted)

	t := &Table{
		entries:    make(map[string]string),
		collisions: make(map[string]map[string]struct{}),
	}
	for _, p := range sorted {
		for _, key := range Suffixes(p) {
			t.register(key, p)
		}
	}
	return t
}

// Suffixes returns the lookup keys for path, longest first.
func Suffixes(path string) []string {
	lower := strings.ToLower(path)
	var keys []string
	for i := 1; i < len(lower); i++ {
		if lower[i] == '/' && i+1 < len(lower) {
			keys = append(keys, lower[i+1:])
		}
	}
	return keys
}

func (t *Table) register(key, path string) {
	ref, ok := t.entries[key]
	if !ok {
		t.entries[key] = path
		return
	}
	if ref == path {
		return
	}
	set := t.collisions[key]
	if set == nil {
		set = make(map[string]struct{})
		t.collisions[key] = set
	}
	set[path] = struct{}{}
	if ref != Invalid {
		set[ref] = struct{}{}
	}
	t.entries[key] = Invalid
}

// Lookup returns the file registered under key. key must already be
// case-folded.
func (t *Table) Lookup(key string) (string, State) {
	ref, ok := t.entries[key]
	switch {
	case !ok:
		return "", Missing
	case ref == Invalid:
		return "", Poisoned
	default:
		return ref, Unique
	}
}

// Collisions returns the sorted paths sharing each poisoned key.
func (t *Table) Collisions() map[string][]string {
	out := make(map[string][]string, len(t.collisions))
	for key, set := range t.collisions {
		paths := make([]string, 0, len(set))
		for p := range set {
			paths = append(paths, p)
		}
		sort.Strings(paths)
		out[key] = paths
	}
	return out
}

// Len returns the number of registered keys, poisoned ones included.
func (t *Table) Len() int {
	return len(t.entries)
}
