package lang

import (
	"path/filepath"
	"strings"
)

type ID string

const (
	Plain      ID = "plain"
	Go         ID = "go"
	Rust       ID = "rust"
	Python     ID = "python"
	JavaScript ID = "javascript"
	TypeScript ID = "typescript"
	TSX        ID = "tsx"
	YAML       ID = "yaml"
	TOML       ID = "toml"
	JSON       ID = "json"
	Bash       ID = "bash"
	C          ID = "c"
	CPP        ID = "cpp"
	Zig        ID = "zig"
	CSharp     ID = "csharp"
)

var extMap = map[string]ID{
	".go":    Go,
	".rs":    Rust,
	".py":    Python,
	".js":    JavaScript,
	".jsx":   JavaScript,
	".mjs":   JavaScript,
	".cjs":   JavaScript,
	".ts":    TypeScript,
	".tsx":   TSX,
	".yaml":  YAML,
	".yml":   YAML,
	".toml":  TOML,
	".json":  JSON,
	".jsonc": JSON,
	".json5": JSON,
	".sh":    Bash,
	".bash":  Bash,
	".zsh":   Bash,
	".c":     C,
	".h":     C,
	".cpp":   CPP,
	".cc":    CPP,
	".cxx":   CPP,
	".hpp":   CPP,
	".hh":    CPP,
	".zig":   Zig,
	".cs":    CSharp,

	".java":  "java",
	".kt":    "kotlin",
	".swift": "swift",
	".rb":    "ruby",
	".php":   "php",
	".lua":   "lua",
	".ini":   "ini",
	".md":    "markdown",
	".scala": "scala",
	".jl":    "julia",
	".erl":   "erlang",
	".r":     "r",
	".scss":  "scss",
	".less":  "less",
	".conf":  Plain,
	".txt":   Plain,
}

var fileMap = map[string]ID{
	"Makefile":          "makefile",
	"Dockerfile":        "docker",
	".bashrc":           Bash,
	".zshrc":            Bash,
	".gitignore":        Plain,
	".editorconfig":     Plain,
	"Cargo.toml":        TOML,
	"package-lock.json": JSON,
	"go.mod":            Go,
	"go.sum":            Plain,
}

// tagAliases maps the free-form language names sent by the indexing backend
// (for example "TypeScript" or "C++") onto IDs.
var tagAliases = map[string]ID{
	"":           Plain,
	"plain":      Plain,
	"plaintext":  Plain,
	"text":       Plain,
	"txt":        Plain,
	"golang":     Go,
	"rs":         Rust,
	"py":         Python,
	"python3":    Python,
	"js":         JavaScript,
	"jsx":        JavaScript,
	"node":       JavaScript,
	"ts":         TypeScript,
	"yml":        YAML,
	"sh":         Bash,
	"shell":      Bash,
	"zsh":        Bash,
	"c++":        CPP,
	"cxx":        CPP,
	"c#":         CSharp,
	"cs":         CSharp,
	"jsonc":      JSON,
	"javascript": JavaScript,
	"typescript": TypeScript,
}

// Resolve normalizes a free-form language tag. Tags it does not know are
// lower-cased and returned as-is so a grammar backend can still try them.
func Resolve(tag string) ID {
	key := strings.ToLower(strings.TrimSpace(tag))
	if id, ok := tagAliases[key]; ok {
		return id
	}
	return ID(key)
}

func Detect(path string) ID {
	base := filepath.Base(path)
	if id, ok := fileMap[base]; ok {
		return id
	}
	ext := strings.ToLower(filepath.Ext(base))
	if id, ok := extMap[ext]; ok {
		return id
	}
	return Plain
}

func DetectWithShebang(path string, firstLine string) ID {
	if id := Detect(path); id != Plain {
		return id
	}

	if !strings.HasPrefix(firstLine, "#!") {
		return Plain
	}
	lower := strings.ToLower(firstLine)
	switch {
	case strings.Contains(lower, "python"):
		return Python
	case strings.Contains(lower, "bash") || strings.Contains(lower, "zsh") || strings.Contains(lower, "sh"):
		return Bash
	case strings.Contains(lower, "node"):
		return JavaScript
	default:
		return Plain
	}
}
