package lang

import (
	"github.com/smacker/go-tree-sitter/cpp"
)

func init() {
	// C and Objective-C sources share the C++ grammar: only preprocessor
	// directives are inspected, and those parse the same way.
	Languages["cpp"] = &Language{
		Name: "cpp",
		Extensions: []string{
			".c", ".C", ".cc", ".cpp", ".m", ".mm",
			".h", ".H", ".hpp", ".hh", ".tcc", ".ipp", ".inc",
		},
		UnitExtensions: []string{".c", ".C", ".cc", ".cpp", ".m", ".mm"},
		lang:           cpp.GetLanguage(),
	}
}
