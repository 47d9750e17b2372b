package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/structmap/structmap/internal/model"
)

// Test Plan for JavaScript extraction:
// - Classes with methods and #private fields
// - Underscore prefix convention maps to private
// - Default and rest parameters without type annotations
// - Arrow and function-expression consts
// - require-less ESM imports

const testJSFile = `import fs from "fs";
import { join } from "path";

class Cart {
    constructor(items) {
        this.items = items;
    }

    total(discount = 0, ...extras) {
        return this.items.length + extras.length - discount;
    }

    _recalculate() {}

    #audit() {}
}

const checkout = (cart) => cart.total();

const legacy = function (a, b) { return a + b; };

function standalone(x) {
    return x;
}
`

func TestJavaScript_Class(t *testing.T) {
	t.Parallel()

	result := parseSource(t, "cart.js", testJSFile)

	cart := requireSymbol(t, result.Symbols, "Cart")
	assert.Equal(t, model.KindClass, cart.Kind)
	assert.Equal(t, model.VisibilityPublic, cart.Visibility)

	total := requireSymbol(t, result.Symbols, "total")
	assert.Equal(t, model.KindMethod, total.Kind)
	assert.Equal(t, "Cart", total.ParentName)
	require.Len(t, total.Parameters, 2)
	assert.Equal(t, "0", total.Parameters[0].DefaultValue)
	assert.True(t, total.Parameters[0].IsOptional)
	assert.True(t, total.Parameters[1].IsVariadic)
	assert.Equal(t, "extras", total.Parameters[1].Name)
}

// Test: naming conventions drive visibility with no modifier syntax
func TestJavaScript_VisibilityConventions(t *testing.T) {
	t.Parallel()

	result := parseSource(t, "cart.js", testJSFile)

	recalc := requireSymbol(t, result.Symbols, "_recalculate")
	assert.Equal(t, model.VisibilityPrivate, recalc.Visibility)

	audit := requireSymbol(t, result.Symbols, "#audit")
	assert.Equal(t, model.VisibilityPrivate, audit.Visibility)

	total := requireSymbol(t, result.Symbols, "total")
	assert.Equal(t, model.VisibilityPublic, total.Visibility)
}

func TestJavaScript_FunctionForms(t *testing.T) {
	t.Parallel()

	result := parseSource(t, "cart.js", testJSFile)

	checkout := requireSymbol(t, result.Symbols, "checkout")
	assert.Equal(t, model.KindFunction, checkout.Kind)
	require.Len(t, checkout.Parameters, 1)
	assert.Equal(t, "cart", checkout.Parameters[0].Name)

	legacy := requireSymbol(t, result.Symbols, "legacy")
	assert.Equal(t, model.KindFunction, legacy.Kind)
	require.Len(t, legacy.Parameters, 2)

	standalone := requireSymbol(t, result.Symbols, "standalone")
	assert.Equal(t, model.KindFunction, standalone.Kind)
}

func TestJavaScript_Imports(t *testing.T) {
	t.Parallel()

	result := parseSource(t, "cart.js", testJSFile)
	require.Len(t, result.Imports, 2)

	fsImp := findImport(result.Imports, "fs")
	require.NotNil(t, fsImp)
	assert.Equal(t, "fs", fsImp.Alias)

	pathImp := findImport(result.Imports, "path")
	require.NotNil(t, pathImp)
	assert.Equal(t, []string{"join"}, pathImp.Symbols)
}
