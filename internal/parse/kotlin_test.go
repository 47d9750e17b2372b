package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/structmap/structmap/internal/model"
)

// Test Plan for Kotlin extraction:
// - Classes, interfaces, enum classes and objects
// - internal/private/protected modifiers with public default
// - Member functions vs top-level functions
// - Default parameter values and vararg
// - Wildcard and aliased imports

const testKotlinFile = `package billing

import java.time.Instant
import kotlin.collections.*
import java.math.BigDecimal as BD

class Invoice(val id: String) {
    fun total(discount: Double = 0.0): BD {
        return BD.ZERO
    }

    private fun recalc() { }

    internal fun audit(vararg tags: String) { }
}

interface Payable {
    fun pay()
}

enum class Status { OPEN, PAID }

object Registry { }

fun standalone(x: Int): Int = x
`

func TestKotlin_Types(t *testing.T) {
	t.Parallel()

	result := parseSource(t, "Invoice.kt", testKotlinFile)

	invoice := requireSymbol(t, result.Symbols, "Invoice")
	assert.Equal(t, model.KindClass, invoice.Kind)
	assert.Equal(t, model.VisibilityPublic, invoice.Visibility)

	payable := requireSymbol(t, result.Symbols, "Payable")
	assert.Equal(t, model.KindInterface, payable.Kind)

	status := requireSymbol(t, result.Symbols, "Status")
	assert.Equal(t, model.KindEnum, status.Kind)

	registry := requireSymbol(t, result.Symbols, "Registry")
	assert.Equal(t, model.KindClass, registry.Kind)
}

func TestKotlin_Functions(t *testing.T) {
	t.Parallel()

	result := parseSource(t, "Invoice.kt", testKotlinFile)

	total := requireSymbol(t, result.Symbols, "total")
	assert.Equal(t, model.KindMethod, total.Kind)
	assert.Equal(t, "Invoice", total.ParentName)
	assert.Equal(t, model.VisibilityPublic, total.Visibility)
	require.Len(t, total.Parameters, 1)
	assert.Equal(t, "discount", total.Parameters[0].Name)
	assert.Equal(t, "Double", total.Parameters[0].Type)
	assert.Equal(t, "0.0", total.Parameters[0].DefaultValue)
	assert.True(t, total.Parameters[0].IsOptional)
	assert.Equal(t, "BD", total.ReturnType)

	recalc := requireSymbol(t, result.Symbols, "recalc")
	assert.Equal(t, model.VisibilityPrivate, recalc.Visibility)

	audit := requireSymbol(t, result.Symbols, "audit")
	assert.Equal(t, model.VisibilityInternal, audit.Visibility)
	require.Len(t, audit.Parameters, 1)
	assert.True(t, audit.Parameters[0].IsVariadic)

	standalone := requireSymbol(t, result.Symbols, "standalone")
	assert.Equal(t, model.KindFunction, standalone.Kind)
	assert.Empty(t, standalone.ParentName)
	assert.Equal(t, "Int", standalone.ReturnType)
}

func TestKotlin_Imports(t *testing.T) {
	t.Parallel()

	result := parseSource(t, "Invoice.kt", testKotlinFile)
	require.Len(t, result.Imports, 3)

	instant := findImport(result.Imports, "java.time.Instant")
	require.NotNil(t, instant)
	assert.False(t, instant.IsWildcard)

	collections := findImport(result.Imports, "kotlin.collections")
	require.NotNil(t, collections)
	assert.True(t, collections.IsWildcard)

	big := findImport(result.Imports, "java.math.BigDecimal")
	require.NotNil(t, big)
	assert.Equal(t, "BD", big.Alias)
}
