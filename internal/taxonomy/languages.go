package taxonomy

import "strings"

// DetectLanguage infers a language tag from a filename. Returns "" when the
// extension is unknown.
func DetectLanguage(filename string) string {
	lower := strings.ToLower(filename)

	// Special filenames without meaningful extensions.
	switch {
	case lower == "dockerfile" || strings.HasPrefix(lower, "dockerfile."):
		return "Dockerfile"
	case lower == "makefile" || lower == "gnumakefile":
		return "Makefile"
	case lower == "cmakelists.txt":
		return "CMake"
	case strings.HasSuffix(lower, ".d.ts"):
		return "TypeScript"
	}

	idx := strings.LastIndexByte(filename, '.')
	if idx < 0 {
		return ""
	}
	return extensionLanguages[strings.ToLower(filename[idx+1:])]
}

var extensionLanguages = map[string]string{
	"rs": "Rust",

	"py":  "Python",
	"pyw": "Python",
	"pyx": "Python",

	"js":  "JavaScript",
	"mjs": "JavaScript",
	"cjs": "JavaScript",
	"jsx": "JavaScript",
	"ts":  "TypeScript",
	"tsx": "TypeScript",

	"go": "Go",

	"java":   "Java",
	"kt":     "Kotlin",
	"kts":    "Kotlin",
	"scala":  "Scala",
	"clj":    "Clojure",
	"groovy": "Groovy",

	"c":   "C",
	"h":   "C",
	"cpp": "C++",
	"cc":  "C++",
	"cxx": "C++",
	"hpp": "C++",
	"hxx": "C++",

	"cs": "C#",

	"swift": "Swift",
	"m":     "Objective-C",
	"mm":    "Objective-C++",

	"rb":      "Ruby",
	"rake":    "Ruby",
	"gemspec": "Ruby",

	"php": "PHP",

	"ex":  "Elixir",
	"exs": "Elixir",
	"erl": "Erlang",

	"hs":  "Haskell",
	"lhs": "Haskell",

	"ml":  "OCaml",
	"mli": "OCaml",
	"fs":  "F#",
	"fsx": "F#",

	"sh":   "Shell",
	"bash": "Shell",
	"zsh":  "Shell",
	"fish": "Shell",
	"ps1":  "PowerShell",
	"psm1": "PowerShell",

	"html":   "HTML",
	"htm":    "HTML",
	"css":    "CSS",
	"scss":   "SCSS",
	"sass":   "Sass",
	"less":   "Less",
	"vue":    "Vue",
	"svelte": "Svelte",

	"sql":     "SQL",
	"graphql": "GraphQL",
	"gql":     "GraphQL",

	"json": "JSON",
	"yaml": "YAML",
	"yml":  "YAML",
	"toml": "TOML",
	"xml":  "XML",
	"ini":  "INI",

	"md":       "Markdown",
	"markdown": "Markdown",
	"rst":      "reStructuredText",
	"txt":      "Text",

	"lua":    "Lua",
	"r":      "R",
	"rmd":    "R",
	"pl":     "Perl",
	"pm":     "Perl",
	"dart":   "Dart",
	"zig":    "Zig",
	"nim":    "Nim",
	"jl":     "Julia",
	"v":      "V",
	"sol":    "Solidity",
	"move":   "Move",
	"proto":  "Protocol Buffers",
	"tf":     "Terraform",
	"tfvars": "Terraform",
}
