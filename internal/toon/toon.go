// Package toon implements TOON (Token-Oriented Object Notation) encoding.
package toon

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/phobologic/incgraph/internal/graph"
	"github.com/phobologic/incgraph/internal/model"
)

var (
	needsQuoting = regexp.MustCompile(`[,:"\\{}\[\]]`)
	looksNumeric = regexp.MustCompile(`^-?(?:0|[1-9]\d*)(?:\.\d+)?$`)
	keywords     = map[string]struct{}{
		"true":  {},
		"false": {},
		"null":  {},
	}
)

// Encode renders a graph and its diagnostics in TOON format.
func Encode(g *model.Graph) string {
	var parts []string

	parts = append(parts, fmt.Sprintf("project: %s", encodeValue(filepath.Base(g.Root))))
	parts = append(parts, fmt.Sprintf("root: %s", encodeValue(g.Root)))

	comps := g.SortedComponents()

	var compRows [][]string
	for _, c := range comps {
		kind := "project"
		if c.External {
			kind = "external"
		}
		compRows = append(compRows, []string{
			c.Root,
			string(c.Type),
			kind,
			strconv.Itoa(len(c.Files)),
			strings.Join(c.PublicDeps.Sorted(), " "),
			strings.Join(c.PrivateDeps.Sorted(), " "),
		})
	}
	parts = append(parts, formatTabular("components",
		[]string{"root", "type", "kind", "files", "public", "private"}, compRows))

	var pathRows [][]string
	for _, c := range comps {
		for _, p := range c.PublicIncludePaths.Sorted() {
			pathRows = append(pathRows, []string{c.Root, "public", p})
		}
		for _, p := range c.PrivateIncludePaths.Sorted() {
			pathRows = append(pathRows, []string{c.Root, "private", p})
		}
	}
	parts = append(parts, formatTabular("include_paths", []string{"component", "visibility", "path"}, pathRows))

	files := g.SortedFiles()

	var fileRows [][]string
	for _, f := range files {
		fileRows = append(fileRows, []string{f.Path, f.Component, visibility(f)})
	}
	parts = append(parts, formatTabular("files", []string{"path", "component", "visibility"}, fileRows))

	var edgeRows [][]string
	for _, f := range files {
		for _, d := range f.Dependencies.Sorted() {
			edgeRows = append(edgeRows, []string{f.Path, d})
		}
	}
	parts = append(parts, formatTabular("includes", []string{"source", "target"}, edgeRows))

	order, cyclic := graph.Pipeline(g)
	var stepRows [][]string
	for i, root := range order {
		stepRows = append(stepRows, []string{strconv.Itoa(i + 1), root})
	}
	parts = append(parts, formatTabular("pipeline", []string{"step", "component"}, stepRows))

	if len(cyclic) > 0 {
		var cycleRows [][]string
		for _, root := range cyclic {
			cycleRows = append(cycleRows, []string{root})
		}
		parts = append(parts, formatTabular("cycles", []string{"component"}, cycleRows))
	}

	var diagRows [][]string
	for _, d := range g.Diagnostics() {
		diagRows = append(diagRows, []string{string(d.Severity), d.Code, d.Path, d.Message})
	}
	parts = append(parts, formatTabular("diagnostics", []string{"severity", "code", "path", "message"}, diagRows))

	return strings.Join(parts, "\n")
}

func visibility(f *model.SourceFile) string {
	switch {
	case f.HasExternalInclude:
		return "public"
	case f.HasInclude:
		return "private"
	default:
		return "none"
	}
}

func formatTabular(name string, columns []string, rows [][]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s[%d]{%s}:", name, len(rows), strings.Join(columns, ","))
	for _, row := range rows {
		encoded := make([]string, len(row))
		for i, cell := range row {
			encoded[i] = encodeValue(cell)
		}
		fmt.Fprintf(&b, "\n  %s", strings.Join(encoded, ","))
	}
	return b.String()
}

func encodeValue(value string) string {
	if value == "" {
		return `""`
	}

	if value != strings.TrimSpace(value) {
		return quote(value)
	}

	if strings.ContainsAny(value, "\n\r\t") {
		return quote(value)
	}

	if _, ok := keywords[strings.ToLower(value)]; ok {
		return quote(value)
	}

	if looksNumeric.MatchString(value) {
		return value
	}

	if needsQuoting.MatchString(value) {
		return quote(value)
	}

	if strings.HasPrefix(value, "-") {
		return quote(value)
	}

	return value
}

func quote(value string) string {
	escaped := strings.ReplaceAll(value, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	escaped = strings.ReplaceAll(escaped, "\n", `\n`)
	escaped = strings.ReplaceAll(escaped, "\r", `\r`)
	escaped = strings.ReplaceAll(escaped, "\t", `\t`)
	return `"` + escaped + `"`
}
