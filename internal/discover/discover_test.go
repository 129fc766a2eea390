package discover

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/phobologic/incgraph/internal/model"
)

func TestWalkComponentsAndOwnership(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "lib/include/api.h", "")
	writeFile(t, dir, "lib/src/impl.cpp", "")
	writeFile(t, dir, "lib/test/src/api_test.cpp", "")
	writeFile(t, dir, "app/src/main.cpp", "")
	writeFile(t, dir, "app/README.md", "")
	writeFile(t, dir, "tools/loose.c", "")

	layout, err := Walk(dir, Options{})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}

	wantComponents := []ComponentRoot{
		{Root: "app", Type: model.Executable},
		{Root: "lib", Type: model.Executable},
		{Root: "lib/test", Type: model.Unittest},
	}
	if diff := cmp.Diff(wantComponents, layout.Components); diff != "" {
		t.Errorf("components mismatch (-want +got):\n%s", diff)
	}

	wantFiles := []FileEntry{
		{Path: "app/src/main.cpp", Component: "app"},
		{Path: "lib/include/api.h", Component: "lib"},
		{Path: "lib/src/impl.cpp", Component: "lib"},
		{Path: "lib/test/src/api_test.cpp", Component: "lib/test"},
	}
	if diff := cmp.Diff(wantFiles, layout.Files); diff != "" {
		t.Errorf("files mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]string{"tools/loose.c"}, layout.Outside); diff != "" {
		t.Errorf("outside mismatch (-want +got):\n%s", diff)
	}
}

func TestWalkSkipsHiddenAndBlacklisted(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "lib/src/a.cpp", "")
	writeFile(t, dir, ".cache/src/b.cpp", "")
	writeFile(t, dir, "third_party/x/src/c.cpp", "")
	writeFile(t, dir, "lib/src/generated.h", "")
	writeFile(t, dir, "lib/src/.hidden.h", "")

	layout, err := Walk(dir, Options{Blacklist: []string{"third_party", "generated.h"}})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}

	wantFiles := []FileEntry{{Path: "lib/src/a.cpp", Component: "lib"}}
	if diff := cmp.Diff(wantFiles, layout.Files); diff != "" {
		t.Errorf("files mismatch (-want +got):\n%s", diff)
	}
	if len(layout.Components) != 1 {
		t.Errorf("expected only lib component, got %+v", layout.Components)
	}
}

func TestWalkGitignore(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, ".gitignore", "build/\n")
	writeFile(t, dir, "lib/src/a.cpp", "")
	writeFile(t, dir, "build/src/gen.cpp", "")

	layout, err := Walk(dir, Options{RespectGitignore: true})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if len(layout.Files) != 1 || layout.Files[0].Path != "lib/src/a.cpp" {
		t.Errorf("unexpected files: %+v", layout.Files)
	}

	layout, err = Walk(dir, Options{})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if len(layout.Files) != 2 {
		t.Errorf("expected gitignore to be ignored when disabled, got %+v", layout.Files)
	}
}

func TestWalkSymlinksSkipped(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "lib/src/real.h", "")

	err := os.Symlink(filepath.Join(dir, "lib/src/real.h"), filepath.Join(dir, "lib/src/link.h"))
	if err != nil {
		t.Skip("symlinks not supported")
	}

	layout, err := Walk(dir, Options{})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if len(layout.Files) != 1 || layout.Files[0].Path != "lib/src/real.h" {
		t.Errorf("expected only real.h, got %+v", layout.Files)
	}
}

func TestOwnerLongestPrefix(t *testing.T) {
	t.Parallel()

	roots := []string{"lib", "lib/test", "libfoo"}
	tests := []struct {
		path string
		want string
	}{
		{"lib/src/a.cpp", "lib"},
		{"lib/test/a.cpp", "lib/test"},
		{"libfoo/src/a.cpp", "libfoo"},
		{"libx/a.cpp", ""},
		{"lib", ""},
	}
	for _, tt := range tests {
		if got := Owner(roots, tt.path); got != tt.want {
			t.Errorf("Owner(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
