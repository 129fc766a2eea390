package model

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSet(t *testing.T) {
	t.Parallel()

	s := make(Set)
	if !s.Add("b") || !s.Add("a") {
		t.Fatal("first Add should report insertion")
	}
	if s.Add("a") {
		t.Error("second Add of the same value should report false")
	}
	if !s.Has("a") || s.Has("c") {
		t.Error("Has mismatch")
	}
	if diff := cmp.Diff([]string{"a", "b"}, s.Sorted()); diff != "" {
		t.Errorf("Sorted mismatch (-want +got):\n%s", diff)
	}
}

func TestGraphAccessors(t *testing.T) {
	t.Parallel()

	g := NewGraph("/project")
	g.Components["lib"] = NewComponent("lib", Library)
	g.Components["GL"] = NewExternalComponent("GL")
	g.Files["lib/b.h"] = NewSourceFile("lib/b.h", "lib", nil)
	g.Files["lib/a.h"] = NewSourceFile("lib/a.h", "lib", nil)

	var roots []string
	for _, c := range g.SortedComponents() {
		roots = append(roots, c.Root)
	}
	if diff := cmp.Diff([]string{"GL", "lib"}, roots); diff != "" {
		t.Errorf("SortedComponents mismatch (-want +got):\n%s", diff)
	}

	var paths []string
	for _, f := range g.SortedFiles() {
		paths = append(paths, f.Path)
	}
	if diff := cmp.Diff([]string{"lib/a.h", "lib/b.h"}, paths); diff != "" {
		t.Errorf("SortedFiles mismatch (-want +got):\n%s", diff)
	}

	if c := g.ComponentOf("lib/a.h"); c == nil || c.Root != "lib" {
		t.Errorf("ComponentOf = %v", c)
	}
	if g.ComponentOf("missing.h") != nil {
		t.Error("ComponentOf should be nil for unknown files")
	}
	if ext := g.Components["GL"]; !ext.External || ext.Type != Library {
		t.Errorf("external component = %+v", ext)
	}
}

func TestDiagnosticsOrder(t *testing.T) {
	t.Parallel()

	g := NewGraph("/project")
	g.Outside = []string{"z.c", "a.c"}
	g.Skipped["big.h"] = "skipped (>10 bytes)"
	g.Ambiguous["dup.h"] = []string{"app/src/main.cpp"}
	g.Collisions["dup.h"] = []string{"x/src/dup.h", "y/src/dup.h"}
	g.Unknown.Add("zlib.h")
	g.Unknown.Add("png.h")

	var got []string
	for _, d := range g.Diagnostics() {
		got = append(got, string(d.Severity)+" "+d.Code+" "+d.Path)
	}
	want := []string{
		"warning outside_component a.c",
		"warning outside_component z.c",
		"warning file_skipped big.h",
		"warning ambiguous_include dup.h",
		"info unknown_header png.h",
		"info unknown_header zlib.h",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Diagnostics mismatch (-want +got):\n%s", diff)
	}

	amb := g.Diagnostics()[3].Message
	wantMsg := "include name dup.h could point to 2 files - x/src/dup.h y/src/dup.h; included by app/src/main.cpp"
	if amb != wantMsg {
		t.Errorf("ambiguous message = %q, want %q", amb, wantMsg)
	}
	if g.Outside[0] != "z.c" {
		t.Error("Diagnostics must not reorder Outside in place")
	}
}
