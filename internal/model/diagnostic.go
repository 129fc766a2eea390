package model

import (
	"fmt"
	"sort"
	"strings"
)

const (
	// SeverityWarning marks a recoverable problem that was skipped.
	SeverityWarning Severity = "warning"
	// SeverityInfo marks purely informational findings.
	SeverityInfo Severity = "info"
)

// Diagnostic codes.
const (
	CodeOutsideComponent = "outside_component"
	CodeAmbiguousInclude = "ambiguous_include"
	CodeUnknownHeader    = "unknown_header"
	CodeFileSkipped      = "file_skipped"
)

type (
	// Severity represents diagnostic severity.
	Severity string

	// Diagnostic is a non-fatal finding collected during a reload. Rendering
	// is left to the caller.
	Diagnostic struct {
		Severity Severity
		Code     string
		Message  string
		// Path is the file or include key the diagnostic is about.
		Path string
	}
)

// Diagnostics returns every collected finding in a stable order: files
// outside components, skipped files, ambiguous includes, unknown headers.
func (g *Graph) Diagnostics() []Diagnostic {
	var out []Diagnostic

	outside := append([]string(nil), g.Outside...)
	sort.Strings(outside)
	for _, p := range outside {
		out = append(out, Diagnostic{
			Severity: SeverityWarning,
			Code:     CodeOutsideComponent,
			Message:  fmt.Sprintf("found file %s outside of any component", p),
			Path:     p,
		})
	}

	skipped := make([]string, 0, len(g.Skipped))
	for p := range g.Skipped {
		skipped = append(skipped, p)
	}
	sort.Strings(skipped)
	for _, p := range skipped {
		out = append(out, Diagnostic{
			Severity: SeverityWarning,
			Code:     CodeFileSkipped,
			Message:  fmt.Sprintf("%s: %s", p, g.Skipped[p]),
			Path:     p,
		})
	}

	for _, key := range g.SortedAmbiguous() {
		msg := fmt.Sprintf("include name %s could point to %d files - %s; included by %s",
			key, len(g.Collisions[key]), strings.Join(g.Collisions[key], " "),
			strings.Join(g.Ambiguous[key], " "))
		out = append(out, Diagnostic{
			Severity: SeverityWarning,
			Code:     CodeAmbiguousInclude,
			Message:  msg,
			Path:     key,
		})
	}

	for _, h := range g.SortedUnknown() {
		out = append(out, Diagnostic{
			Severity: SeverityInfo,
			Code:     CodeUnknownHeader,
			Message:  fmt.Sprintf("unknown header %s", h),
			Path:     h,
		})
	}
	return out
}
