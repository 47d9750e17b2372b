package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/structmap/structmap/internal/model"
)

// Test Plan for Ruby extraction:
// - Classes and modules with nesting as parent names
// - Instance methods vs singleton (self.) methods
// - Trailing visibility modifiers flip everything below them
// - `private def` and `private :name` forms target a single method
// - Parameter shapes: positional, optional, splat, keyword, block
// - require / require_relative imports

const testRubyFile = `require "json"
require_relative "./helpers"

module Billing
  class Invoice
    def total(discount = 0.0)
      0
    end

    def self.build(*lines, currency: "usd", &block)
      new
    end

    private

    def recalc
    end

    def audit
    end
  end
end

def standalone(a, b)
  a + b
end
`

func TestRuby_TypesAndMethods(t *testing.T) {
	t.Parallel()

	result := parseSource(t, "invoice.rb", testRubyFile)

	billing := requireSymbol(t, result.Symbols, "Billing")
	assert.Equal(t, model.KindModule, billing.Kind)

	invoice := requireSymbol(t, result.Symbols, "Invoice")
	assert.Equal(t, model.KindClass, invoice.Kind)
	assert.Equal(t, "Billing", invoice.ParentName)

	total := requireSymbol(t, result.Symbols, "total")
	assert.Equal(t, model.KindMethod, total.Kind)
	assert.Equal(t, "Invoice", total.ParentName)
	require.Len(t, total.Parameters, 1)
	assert.Equal(t, "discount", total.Parameters[0].Name)
	assert.Equal(t, "0.0", total.Parameters[0].DefaultValue)
	assert.True(t, total.Parameters[0].IsOptional)

	build := requireSymbol(t, result.Symbols, "build")
	assert.Contains(t, build.Modifiers, "self")
	require.Len(t, build.Parameters, 3)
	assert.True(t, build.Parameters[0].IsVariadic)
	assert.Equal(t, "lines", build.Parameters[0].Name)
	assert.Equal(t, "currency:", build.Parameters[1].Name)
	assert.Equal(t, "&block", build.Parameters[2].Name)

	standalone := requireSymbol(t, result.Symbols, "standalone")
	assert.Equal(t, model.KindFunction, standalone.Kind)
	assert.Empty(t, standalone.ParentName)
}

// Test: a bare `private` flips visibility for every method below it
func TestRuby_TrailingVisibilityModifier(t *testing.T) {
	t.Parallel()

	result := parseSource(t, "invoice.rb", testRubyFile)

	assert.Equal(t, model.VisibilityPublic, requireSymbol(t, result.Symbols, "total").Visibility)
	assert.Equal(t, model.VisibilityPrivate, requireSymbol(t, result.Symbols, "recalc").Visibility)
	assert.Equal(t, model.VisibilityPrivate, requireSymbol(t, result.Symbols, "audit").Visibility)
}

func TestRuby_InlineVisibilityForms(t *testing.T) {
	t.Parallel()

	source := `class Ledger
  private def hidden
  end

  def shown
  end

  def named
  end
  private :named
end
`
	result := parseSource(t, "ledger.rb", source)

	assert.Equal(t, model.VisibilityPrivate, requireSymbol(t, result.Symbols, "hidden").Visibility)
	assert.Equal(t, model.VisibilityPublic, requireSymbol(t, result.Symbols, "shown").Visibility)
	// Test: `private :named` after the definition still applies.
	assert.Equal(t, model.VisibilityPrivate, requireSymbol(t, result.Symbols, "named").Visibility)
}

// Test: the argument form wins over the ambient mode in either direction
func TestRuby_NamedVisibilityOverridesMode(t *testing.T) {
	t.Parallel()

	source := `class Ledger
  private

  def locked
  end

  def reopened
  end
  public :reopened
end
`
	result := parseSource(t, "ledger.rb", source)

	assert.Equal(t, model.VisibilityPrivate, requireSymbol(t, result.Symbols, "locked").Visibility)
	assert.Equal(t, model.VisibilityPublic, requireSymbol(t, result.Symbols, "reopened").Visibility)
}

func TestRuby_Imports(t *testing.T) {
	t.Parallel()

	result := parseSource(t, "invoice.rb", testRubyFile)
	require.Len(t, result.Imports, 2)

	json := findImport(result.Imports, "json")
	require.NotNil(t, json)
	assert.False(t, json.IsRelative)
	assert.Equal(t, 1, json.Line)

	helpers := findImport(result.Imports, "./helpers")
	require.NotNil(t, helpers)
	assert.True(t, helpers.IsRelative)
}
