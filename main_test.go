package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/phobologic/incgraph/internal/config"
)

func writeTestFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func createSampleRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeTestFile(t, dir, "lib/include/api.h", `#pragma once
#include <string>

std::string api();
`)
	writeTestFile(t, dir, "lib/src/api.cpp", `#include "../include/api.h"

std::string api() { return "ok"; }
`)
	writeTestFile(t, dir, "app/src/main.cpp", `#include <api.h>
#include <iostream>

int main() { std::cout << api() << std::endl; }
`)
	writeTestFile(t, dir, "tools/src/gen.cpp", `#include <cstdio>

int main() { return 0; }
`)
	return dir
}

func TestRunBasic(t *testing.T) {
	t.Parallel()
	dir := createSampleRepo(t)

	var stdout, stderr bytes.Buffer
	err := run([]string{dir}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("run: %v\nstderr: %s", err, stderr.String())
	}

	out := stdout.String()
	if !strings.HasPrefix(out, "project: ") {
		t.Errorf("missing project header, got:\n%s", out)
	}
	for _, want := range []string{
		"components[3]{root,type,kind,files,public,private}:",
		`  app,executable,project,1,"",lib`,
		`  lib,library,project,2,"",""`,
		"  lib,public,include",
		"  lib/include/api.h,lib,public",
		"  app/src/main.cpp,lib/include/api.h",
		"pipeline[3]{step,component}:",
		"diagnostics[0]",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
	if !strings.Contains(out, "  1,lib\n  2,app\n  3,tools") {
		t.Errorf("lib should be built before app:\n%s", out)
	}
}

func TestRunVersion(t *testing.T) {
	t.Parallel()

	for _, flag := range []string{"--version", "-V"} {
		var stdout, stderr bytes.Buffer
		if err := run([]string{flag}, &stdout, &stderr); err != nil {
			t.Fatalf("run %s: %v", flag, err)
		}
		if got := stdout.String(); got != "incgraph dev\n" {
			t.Errorf("%s: got %q", flag, got)
		}
	}
}

func TestRunNotADirectory(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeTestFile(t, dir, "file.h", "")

	var stdout, stderr bytes.Buffer
	err := run([]string{filepath.Join(dir, "file.h")}, &stdout, &stderr)
	if err == nil {
		t.Fatal("expected error for non-directory root")
	}
	if !strings.Contains(err.Error(), "not a directory") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestRunNoComponents(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeTestFile(t, dir, "loose.c", "int main() { return 0; }\n")

	var stdout, stderr bytes.Buffer
	err := run([]string{dir}, &stdout, &stderr)
	if err == nil || !strings.Contains(err.Error(), "no components found") {
		t.Fatalf("expected no components error, got %v", err)
	}
}

func TestRunTooManyArgs(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	if err := run([]string{"a", "b"}, &stdout, &stderr); err == nil {
		t.Fatal("expected error for two paths")
	}
}

func TestRunComponentFocus(t *testing.T) {
	t.Parallel()
	dir := createSampleRepo(t)

	var stdout, stderr bytes.Buffer
	err := run([]string{"-c", "app", dir}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("run: %v\nstderr: %s", err, stderr.String())
	}

	out := stdout.String()
	if !strings.Contains(out, "components[2]") {
		t.Errorf("expected app and lib only, got:\n%s", out)
	}
	if strings.Contains(out, "tools") {
		t.Errorf("tools should be filtered out:\n%s", out)
	}
}

func TestRunComponentRepeatable(t *testing.T) {
	t.Parallel()
	dir := createSampleRepo(t)

	var stdout, stderr bytes.Buffer
	err := run([]string{dir, "--component", "tools", "--component", "lib"}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("run: %v\nstderr: %s", err, stderr.String())
	}

	out := stdout.String()
	if !strings.Contains(out, "components[2]") || strings.Contains(out, "app/src/main.cpp") {
		t.Errorf("expected lib and tools only, got:\n%s", out)
	}
}

func TestRunComponentNoMatch(t *testing.T) {
	t.Parallel()
	dir := createSampleRepo(t)

	var stdout, stderr bytes.Buffer
	err := run([]string{"-c", "nothing", dir}, &stdout, &stderr)
	if err == nil || !strings.Contains(err.Error(), `no component matches "nothing"`) {
		t.Fatalf("expected no-match error, got %v", err)
	}
	if stdout.Len() != 0 {
		t.Errorf("expected no output, got:\n%s", stdout.String())
	}
}

func TestRunOutputFile(t *testing.T) {
	t.Parallel()
	dir := createSampleRepo(t)
	outPath := filepath.Join(t.TempDir(), "graph.toon")

	var stdout, stderr bytes.Buffer
	err := run([]string{"-o", outPath, dir}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("run: %v\nstderr: %s", err, stderr.String())
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("output file not created: %v", err)
	}
	if string(data) != stdout.String() {
		t.Error("output file should match stdout")
	}
}

func TestRunConfigBlacklist(t *testing.T) {
	t.Parallel()
	dir := createSampleRepo(t)
	writeTestFile(t, dir, config.FileName, "blacklist = [\"tools\"]\n")

	var stdout, stderr bytes.Buffer
	err := run([]string{dir}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("run: %v\nstderr: %s", err, stderr.String())
	}
	if out := stdout.String(); strings.Contains(out, "tools") {
		t.Errorf("blacklisted component reported:\n%s", out)
	}
}

func TestRunExplicitConfig(t *testing.T) {
	t.Parallel()
	dir := createSampleRepo(t)
	cfgPath := filepath.Join(t.TempDir(), "custom.toml")
	writeTestFile(t, filepath.Dir(cfgPath), "custom.toml", `
[[externals]]
header = "iostream"
component = "STDIO"
`)

	var stdout, stderr bytes.Buffer
	err := run([]string{"--config", cfgPath, dir}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("run: %v\nstderr: %s", err, stderr.String())
	}
	out := stdout.String()
	if !strings.Contains(out, "  STDIO,library,external,0") {
		t.Errorf("expected configured external component:\n%s", out)
	}
	if !strings.Contains(out, `  app,executable,project,1,"",STDIO lib`) {
		t.Errorf("expected app to depend on STDIO:\n%s", out)
	}
}

func TestRunExplicitConfigMissing(t *testing.T) {
	t.Parallel()
	dir := createSampleRepo(t)

	var stdout, stderr bytes.Buffer
	err := run([]string{"--config", filepath.Join(dir, "missing.toml"), dir}, &stdout, &stderr)
	if !errors.Is(err, config.ErrConfigNotFound) {
		t.Fatalf("expected ErrConfigNotFound, got %v", err)
	}
}

func TestRunDiagnostics(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeTestFile(t, dir, "x/src/dup.h", "")
	writeTestFile(t, dir, "y/src/dup.h", "")
	writeTestFile(t, dir, "app/src/main.cpp", "#include <dup.h>\n#include \"nowhere.h\"\n")
	writeTestFile(t, dir, "loose.cpp", "")

	var stdout, stderr bytes.Buffer
	err := run([]string{dir}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("run: %v\nstderr: %s", err, stderr.String())
	}

	out := stdout.String()
	for _, want := range []string{
		"diagnostics[3]{severity,code,path,message}:",
		"warning,outside_component,loose.cpp",
		"warning,ambiguous_include,dup.h",
		"info,unknown_header,nowhere.h",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}

	logs := stderr.String()
	for _, want := range []string{"code=ambiguous_include", "code=unknown_header", "code=outside_component"} {
		if !strings.Contains(logs, want) {
			t.Errorf("expected %q in stderr:\n%s", want, logs)
		}
	}
}

func TestRunVerbose(t *testing.T) {
	t.Parallel()
	dir := createSampleRepo(t)

	var stdout, stderr bytes.Buffer
	if err := run([]string{"-v", dir}, &stdout, &stderr); err != nil {
		t.Fatalf("run: %v\nstderr: %s", err, stderr.String())
	}
	if !strings.Contains(stderr.String(), "reloaded project") {
		t.Errorf("expected debug log in stderr, got:\n%s", stderr.String())
	}
}
