package grammar

import (
	"strings"
	"unicode"

	"codeview/internal/lang"
)

func classifyLeaf(id lang.ID, nodeType string, named bool, parentType string, grandType string, text []byte) Category {
	nodeType = strings.ToLower(nodeType)
	parentType = strings.ToLower(parentType)
	grandType = strings.ToLower(grandType)
	lexeme := strings.ToLower(strings.TrimSpace(string(text)))

	if nodeType == "error" || strings.Contains(nodeType, "invalid") {
		return CategoryError
	}
	if strings.Contains(nodeType, "comment") {
		return CategoryComment
	}
	if strings.Contains(nodeType, "string") || strings.Contains(nodeType, "char") || strings.Contains(nodeType, "heredoc") {
		return CategoryString
	}
	// Quotes and escapes inside a literal.
	if strings.Contains(parentType, "string") && !strings.Contains(parentType, "interpolation") {
		return CategoryString
	}
	if strings.Contains(nodeType, "number") || strings.Contains(nodeType, "integer") || strings.Contains(nodeType, "int_literal") ||
		strings.Contains(nodeType, "float") || strings.Contains(nodeType, "numeric") || nodeType == "imaginary_literal" {
		return CategoryNumber
	}
	if lexeme == "true" || lexeme == "false" || lexeme == "null" || lexeme == "nil" || lexeme == "none" {
		return CategoryNumber
	}

	if strings.HasSuffix(nodeType, "keyword") {
		return CategoryKeyword
	}

	if strings.Contains(nodeType, "type_identifier") || strings.Contains(nodeType, "primitive_type") || strings.Contains(nodeType, "predefined_type") {
		return CategoryType
	}

	if isIdentifierNode(nodeType) {
		if isTypeContext(id, parentType, grandType) {
			return CategoryType
		}
		if isFunctionContext(id, parentType, grandType) {
			return CategoryFunction
		}
		if isLikelyConstant(lexeme) {
			return CategoryNumber
		}
		return CategoryPlain
	}

	if keywordSet[lexeme] {
		return CategoryKeyword
	}
	if operatorSet[lexeme] {
		return CategoryOperator
	}

	if !named && looksLikeOperator(lexeme) {
		return CategoryOperator
	}

	return CategoryPlain
}

func isIdentifierNode(nodeType string) bool {
	return nodeType == "identifier" || strings.HasSuffix(nodeType, "identifier") || strings.HasSuffix(nodeType, "name")
}

func isFunctionContext(id lang.ID, parentType string, grandType string) bool {
	for _, t := range [...]string{parentType, grandType} {
		if strings.Contains(t, "function") || strings.Contains(t, "method") || strings.Contains(t, "call") {
			return true
		}
	}

	set := functionContextByLang[id]
	return set[parentType] || set[grandType]
}

func isTypeContext(id lang.ID, parentType string, grandType string) bool {
	if strings.Contains(parentType, "type") || strings.Contains(grandType, "type") {
		return true
	}
	for _, t := range [...]string{parentType, grandType} {
		if strings.Contains(t, "class") || strings.Contains(t, "struct") || strings.Contains(t, "interface") || strings.Contains(t, "trait") {
			return true
		}
	}

	set := typeContextByLang[id]
	return set[parentType] || set[grandType]
}

func isLikelyConstant(s string) bool {
	if len(s) < 2 {
		return false
	}
	hasLetter := false
	for _, r := range s {
		switch {
		case r == '_', unicode.IsDigit(r):
			continue
		case unicode.IsLetter(r):
			hasLetter = true
			if unicode.IsLower(r) {
				return false
			}
		default:
			return false
		}
	}
	return hasLetter
}

func looksLikeOperator(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !strings.ContainsRune("+-*/%=!<>&|^~:;,.?()[]{}", r) {
			return false
		}
	}
	return true
}

var functionContextByLang = map[lang.ID]map[string]bool{
	lang.Go: {
		"function_declaration": true,
		"method_declaration":   true,
		"call_expression":      true,
		"selector_expression":  true,
	},
	lang.Rust: {
		"function_item":    true,
		"call_expression":  true,
		"field_expression": true,
	},
	lang.JavaScript: {
		"function_declaration": true,
		"method_definition":    true,
		"call_expression":      true,
		"member_expression":    true,
	},
	lang.TypeScript: {
		"function_declaration": true,
		"method_definition":    true,
		"call_expression":      true,
		"member_expression":    true,
	},
	lang.TSX: {
		"function_declaration": true,
		"method_definition":    true,
		"call_expression":      true,
		"member_expression":    true,
	},
	lang.Python: {
		"function_definition": true,
		"call":                true,
	},
	lang.C: {
		"function_definition": true,
		"call_expression":     true,
	},
	lang.CPP: {
		"function_definition": true,
		"call_expression":     true,
	},
	lang.Zig: {
		"function_declaration": true,
		"call_expression":      true,
	},
}

var typeContextByLang = map[lang.ID]map[string]bool{
	lang.Go: {
		"type_spec":             true,
		"type_declaration":      true,
		"parameter_declaration": true,
		"var_declaration":       true,
	},
	lang.Rust: {
		"struct_item": true,
		"enum_item":   true,
		"trait_item":  true,
		"type_item":   true,
	},
	lang.JavaScript: {
		"class_declaration": true,
		"type_annotation":   true,
	},
	lang.TypeScript: {
		"interface_declaration":  true,
		"type_alias_declaration": true,
		"type_annotation":        true,
		"class_declaration":      true,
	},
	lang.TSX: {
		"interface_declaration":  true,
		"type_alias_declaration": true,
		"type_annotation":        true,
		"class_declaration":      true,
	},
	lang.Python: {
		"class_definition": true,
	},
}

var keywordSet = map[string]bool{
	"as": true, "async": true, "await": true, "break": true, "case": true,
	"catch": true, "class": true, "const": true, "continue": true, "def": true,
	"default": true, "defer": true, "do": true, "else": true, "enum": true,
	"export": true, "extends": true, "fallthrough": true, "finally": true,
	"fn": true, "for": true, "from": true, "func": true, "function": true,
	"go": true, "if": true, "impl": true, "import": true, "in": true,
	"include": true, "interface": true, "let": true, "loop": true, "map": true,
	"match": true, "mod": true, "module": true, "mut": true, "namespace": true,
	"new": true, "package": true, "pub": true, "raise": true, "range": true,
	"return": true, "select": true, "struct": true, "switch": true, "trait": true,
	"try": true, "type": true, "use": true, "var": true, "while": true,
	"with": true, "yield": true,
}

var operatorSet = map[string]bool{
	"+": true, "-": true, "*": true, "/": true, "%": true,
	"=": true, "==": true, "!=": true, "<": true, "<=": true,
	">": true, ">=": true, "&&": true, "||": true, "!": true,
	"&": true, "|": true, "^": true, "~": true, "->": true,
	"=>": true, "::": true, ":": true, ";": true, ",": true,
	".": true, "?": true, "(": true, ")": true, "[": true,
	"]": true, "{": true, "}": true, ":=": true, "<-": true,
	"+=": true, "-=": true, "++": true, "--": true,
}
