package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/structmap/structmap/internal/model"
)

// Test Plan for shared extraction helpers:
// - Signature rendering: plain, typed, defaulted, variadic, receiver-skipping
// - Doc comment cleaning across comment marker styles
// - C# modifier table incl. compound forms
// - Go identifier casing
// - Registry covers every language exactly once

func TestBuildSignature(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		params     []model.ParameterInfo
		returnType string
		want       string
	}{
		{"empty", nil, "", "empty()"},
		{
			"typed",
			[]model.ParameterInfo{{Name: "id", Type: "string"}, {Name: "n", Type: "int"}},
			"error",
			"typed(id: string, n: int) -> error",
		},
		{
			"defaults",
			[]model.ParameterInfo{{Name: "depth", Type: "int", DefaultValue: "1"}},
			"",
			"defaults(depth: int = 1)",
		},
		{
			"variadic",
			[]model.ParameterInfo{{Name: "fmt"}, {Name: "args", IsVariadic: true}},
			"string",
			"variadic(fmt, *args) -> string",
		},
		{
			"receiver",
			[]model.ParameterInfo{
				{Name: "self", IsReceiver: true},
				{Name: "x", Type: "u64"},
			},
			"u64",
			"receiver(x: u64) -> u64",
		},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, BuildSignature(tc.name, tc.params, tc.returnType), tc.name)
	}
}

func TestCleanDocComment(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"// plain comment":                     "plain comment",
		"/// rust doc":                         "rust doc",
		"# ruby doc":                           "ruby doc",
		"/** javadoc\n * second line\n */":     "javadoc\nsecond line",
		"/* block */":                          "block",
		"":                                     "",
		"// first\n// second":                  "first\nsecond",
	}
	for raw, want := range cases {
		assert.Equal(t, want, cleanDocComment(raw), "raw: %q", raw)
	}
}

func TestCSharpVisibility(t *testing.T) {
	t.Parallel()

	cases := []struct {
		modifiers []string
		want      model.Visibility
	}{
		{nil, model.VisibilityPrivate},
		{[]string{"public"}, model.VisibilityPublic},
		{[]string{"internal"}, model.VisibilityInternal},
		{[]string{"protected", "internal"}, model.VisibilityProtected},
		{[]string{"private", "protected"}, model.VisibilityPrivate},
		{[]string{"static", "protected"}, model.VisibilityProtected},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, csharpVisibility(tc.modifiers), "%v", tc.modifiers)
	}
}

func TestGoVisibility(t *testing.T) {
	t.Parallel()

	assert.Equal(t, model.VisibilityPublic, goVisibility("Exported"))
	assert.Equal(t, model.VisibilityPackage, goVisibility("unexported"))
	assert.Equal(t, model.VisibilityPackage, goVisibility("_hidden"))
}

func TestGoBaseTypeName(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"*Store":        "Store",
		"Store":         "Store",
		"*pkg.Store":    "Store",
		"Cache[string]": "Cache",
		"*Tree[K, V]":   "Tree",
	}
	for in, want := range cases {
		assert.Equal(t, want, goBaseTypeName(in), in)
	}
}

func TestPythonVisibility(t *testing.T) {
	t.Parallel()

	assert.Equal(t, model.VisibilityPublic, pythonVisibility("total"))
	assert.Equal(t, model.VisibilityPrivate, pythonVisibility("_recalc"))
	assert.Equal(t, model.VisibilityPublic, pythonVisibility("__repr__"))
	assert.Equal(t, model.VisibilityPrivate, pythonVisibility("__mangled"))
}

func TestForLanguage(t *testing.T) {
	t.Parallel()

	for _, lang := range Languages() {
		extractor, ok := ForLanguage(lang)
		assert.True(t, ok, lang)
		assert.Equal(t, lang, extractor.Language(), lang)
		assert.NotEmpty(t, extractor.ClassQuery(), lang)
		assert.NotEmpty(t, extractor.MethodQuery(), lang)
		assert.NotEmpty(t, extractor.ImportQuery(), lang)
	}

	_, ok := ForLanguage("cobol")
	assert.False(t, ok)
}
