package parser

// NewPythonParser handles Python line comments and triple-quoted docstrings.
func NewPythonParser() *LanguageParser {
	return NewLanguageParser("python", []string{".py", ".pyi"}, Grammar{
		LineMarkers: []string{"#"},
		BlockDelims: []BlockDelim{
			{Open: `"""`, Close: `"""`},
			{Open: "'''", Close: "'''"},
		},
	})
}

// NewGoParser handles Go line and block comments.
func NewGoParser() *LanguageParser {
	return NewLanguageParser("go", []string{".go"}, Grammar{
		LineMarkers: []string{"//"},
		BlockDelims: []BlockDelim{
			{Open: "/*", Close: "*/"},
		},
	})
}

// NewJavaScriptParser handles JavaScript and TypeScript comments.
func NewJavaScriptParser() *LanguageParser {
	return NewLanguageParser("javascript", []string{".js", ".jsx", ".ts", ".tsx"}, Grammar{
		LineMarkers: []string{"//"},
		BlockDelims: []BlockDelim{
			{Open: "/*", Close: "*/"},
		},
	})
}

// NewShellParser handles shell script comments.
func NewShellParser() *LanguageParser {
	return NewLanguageParser("shell", []string{".sh", ".bash"}, Grammar{
		LineMarkers: []string{"#"},
	})
}
