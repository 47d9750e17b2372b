package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/structmap/structmap/internal/model"
)

// Test Plan for Java extraction:
// - Classes, interfaces, enums, records and annotations
// - Keyword visibility with package-private default
// - Interface members default to public
// - Javadoc comments attached as docstrings
// - Generic type parameters
// - Wildcard and static imports

const testJavaFile = `package billing;

import java.util.List;
import java.util.*;
import static java.lang.Math.max;

/**
 * An invoice aggregates line items.
 */
public class Invoice<T extends Comparable<T>> {
    public Invoice(List<T> items) { }

    protected T largest(T a, T b) { return max(1, 2) > 0 ? a : b; }

    void recalc() { }

    private String render(String format, Object... args) {
        return String.format(format, args);
    }
}

interface Payable {
    void pay();
}

enum Status { OPEN, PAID }
`

func TestJava_Types(t *testing.T) {
	t.Parallel()

	result := parseSource(t, "Invoice.java", testJavaFile)

	invoice := requireSymbol(t, result.Symbols, "Invoice")
	assert.Equal(t, model.KindClass, invoice.Kind)
	assert.Equal(t, model.VisibilityPublic, invoice.Visibility)
	assert.Equal(t, []string{"T"}, invoice.GenericParams)
	assert.Contains(t, invoice.Docstring, "An invoice aggregates line items.")

	payable := requireSymbol(t, result.Symbols, "Payable")
	assert.Equal(t, model.KindInterface, payable.Kind)
	assert.Equal(t, model.VisibilityPackage, payable.Visibility)

	status := requireSymbol(t, result.Symbols, "Status")
	assert.Equal(t, model.KindEnum, status.Kind)
}

func TestJava_MethodVisibility(t *testing.T) {
	t.Parallel()

	result := parseSource(t, "Invoice.java", testJavaFile)

	largest := requireSymbol(t, result.Symbols, "largest")
	assert.Equal(t, model.VisibilityProtected, largest.Visibility)

	recalc := requireSymbol(t, result.Symbols, "recalc")
	assert.Equal(t, model.VisibilityPackage, recalc.Visibility, "no modifier in a class is package-private")

	pay := requireSymbol(t, result.Symbols, "pay")
	assert.Equal(t, model.VisibilityPublic, pay.Visibility, "interface members are implicitly public")
}

func TestJava_MethodsAndConstructors(t *testing.T) {
	t.Parallel()

	result := parseSource(t, "Invoice.java", testJavaFile)

	methods := filterKind(result.Symbols, model.KindMethod)
	ctor := findSymbol(methods, "Invoice")
	require.NotNil(t, ctor, "constructor should be extracted as a method")
	assert.Equal(t, "Invoice", ctor.ParentName)

	render := requireSymbol(t, result.Symbols, "render")
	require.Len(t, render.Parameters, 2)
	assert.Equal(t, "String", render.Parameters[0].Type)
	assert.True(t, render.Parameters[1].IsVariadic)
	assert.Equal(t, "render(format: String, *args: Object) -> String", render.Signature)
}

func TestJava_Imports(t *testing.T) {
	t.Parallel()

	result := parseSource(t, "Invoice.java", testJavaFile)
	require.Len(t, result.Imports, 3)

	list := findImport(result.Imports, "java.util.List")
	require.NotNil(t, list)
	assert.False(t, list.IsWildcard)

	util := findImport(result.Imports, "java.util")
	require.NotNil(t, util)
	assert.True(t, util.IsWildcard)

	math := findImport(result.Imports, "java.lang.Math")
	require.NotNil(t, math)
	assert.Equal(t, []string{"max"}, math.Symbols)
}
