package grammar

import (
	"codeview/internal/lang"

	sitter "github.com/smacker/go-tree-sitter"
	bashlang "github.com/smacker/go-tree-sitter/bash"
	clang "github.com/smacker/go-tree-sitter/c"
	cpplang "github.com/smacker/go-tree-sitter/cpp"
	golang "github.com/smacker/go-tree-sitter/golang"
	python "github.com/smacker/go-tree-sitter/python"
	rust "github.com/smacker/go-tree-sitter/rust"
	toml "github.com/smacker/go-tree-sitter/toml"
	tsxlang "github.com/smacker/go-tree-sitter/typescript/tsx"
	tslang "github.com/smacker/go-tree-sitter/typescript/typescript"
	yaml "github.com/smacker/go-tree-sitter/yaml"
	tszig "github.com/tree-sitter-grammars/tree-sitter-zig/bindings/go"
	tsjson "github.com/tree-sitter/tree-sitter-json/bindings/go"
)

// JavaScript parses with the TSX grammar so JSX elements are not errors.
// TypeScript stays on the plain grammar, which accepts <T>x assertions.
func sitterLanguages() map[lang.ID]*sitter.Language {
	return map[lang.ID]*sitter.Language{
		lang.Go:         golang.GetLanguage(),
		lang.Rust:       rust.GetLanguage(),
		lang.Python:     python.GetLanguage(),
		lang.JavaScript: tsxlang.GetLanguage(),
		lang.TypeScript: tslang.GetLanguage(),
		lang.TSX:        tsxlang.GetLanguage(),
		lang.YAML:       yaml.GetLanguage(),
		lang.TOML:       toml.GetLanguage(),
		lang.JSON:       sitter.NewLanguage(tsjson.Language()),
		lang.Zig:        sitter.NewLanguage(tszig.Language()),
		lang.Bash:       bashlang.GetLanguage(),
		lang.C:          clang.GetLanguage(),
		lang.CPP:        cpplang.GetLanguage(),
	}
}
