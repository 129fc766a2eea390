// Package parse extracts include directives from source files using tree-sitter.
package parse

import (
	"context"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phobologic/incgraph/internal/model"
)

type located struct {
	start uint32
	inc   model.Include
}

// Includes parses source and returns its include directives in file order.
// No resolution is attempted: targets are returned as written, minus the
// surrounding quotes or angle brackets. Directives whose argument is a
// macro are ignored.
func Includes(parser *sitter.Parser, query *sitter.Query, source []byte) []model.Include {
	if len(source) == 0 {
		return nil
	}

	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil
	}
	defer tree.Close()

	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(query, tree.RootNode())

	var found []located

	for {
		match, ok := qc.NextMatch()
		if !ok {
			break
		}

		var directive, argument *sitter.Node
		for _, c := range match.Captures {
			switch query.CaptureNameForId(c.Index) {
			case "include.quoted":
				if t, ok := unwrap(c.Node.Content(source), '"', '"'); ok {
					found = append(found, located{c.Node.StartByte(), model.Include{Target: t}})
				}
			case "include.angled":
				if t, ok := unwrap(c.Node.Content(source), '<', '>'); ok {
					found = append(found, located{c.Node.StartByte(), model.Include{Target: t, Angled: true}})
				}
			case "directive":
				directive = c.Node
			case "argument":
				argument = c.Node
			}
		}

		if directive == nil || argument == nil {
			continue
		}
		if strings.TrimSpace(directive.Content(source)) != "#import" {
			continue
		}
		if inc, ok := parseArgument(argument.Content(source)); ok {
			found = append(found, located{directive.StartByte(), inc})
		}
	}

	if len(found) == 0 {
		return nil
	}
	sort.SliceStable(found, func(i, j int) bool { return found[i].start < found[j].start })

	includes := make([]model.Include, len(found))
	for i, f := range found {
		includes[i] = f.inc
	}
	return includes
}

// parseArgument handles the free-form argument of directives the grammar
// does not model, such as #import.
func parseArgument(arg string) (model.Include, bool) {
	arg = strings.TrimSpace(arg)
	if t, ok := unwrap(arg, '"', '"'); ok {
		return model.Include{Target: t}, true
	}
	if t, ok := unwrap(arg, '<', '>'); ok {
		return model.Include{Target: t, Angled: true}, true
	}
	return model.Include{}, false
}

func unwrap(s string, left, right byte) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != left {
		return "", false
	}
	end := strings.IndexByte(s[1:], right)
	if end < 0 {
		return "", false
	}
	target := strings.TrimSpace(s[1 : end+1])
	if target == "" {
		return "", false
	}
	return target, true
}
