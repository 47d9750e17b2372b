package extract

// ForLanguage returns the extractor for a canonical language identifier, or
// false when the language is not supported.
func ForLanguage(language string) (Extractor, bool) {
	switch language {
	case "go":
		return newGoExtractor(), true
	case "rust":
		return newRustExtractor(), true
	case "java":
		return newJavaExtractor(), true
	case "kotlin":
		return newKotlinExtractor(), true
	case "typescript":
		return newTypeScriptExtractor(), true
	case "javascript":
		return newJavaScriptExtractor(), true
	case "ruby":
		return newRubyExtractor(), true
	case "csharp":
		return newCSharpExtractor(), true
	case "php":
		return newPHPExtractor(), true
	case "python":
		return newPythonExtractor(), true
	default:
		return nil, false
	}
}

// Languages lists the canonical identifiers of every supported language.
func Languages() []string {
	return []string{
		"csharp", "go", "java", "javascript", "kotlin",
		"php", "python", "ruby", "rust", "typescript",
	}
}
