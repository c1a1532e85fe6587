package memhost

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(vars map[string]float64) func(string) (float64, bool) {
	return func(name string) (float64, bool) {
		v, ok := vars[name]
		return v, ok
	}
}

func TestEvalExpr(t *testing.T) {
	vars := map[string]float64{"width": 10, "height": 5, "count_2": 3}

	tests := []struct {
		expr string
		want float64
		refs []string
	}{
		{"42", 42, nil},
		{"4.5", 4.5, nil},
		{"10 mm", 10, nil},
		{"10mm", 10, nil},
		{"-3", -3, nil},
		{"+3", 3, nil},
		{"1 + 2 * 3", 7, nil},
		{"(1 + 2) * 3", 9, nil},
		{"width", 10, []string{"width"}},
		{"width + height", 15, []string{"width", "height"}},
		{"width + width", 20, []string{"width"}},
		{"width / 2 - height", 0, []string{"width", "height"}},
		{"2 * (width + count_2)", 26, []string{"width", "count_2"}},
		{"10 mm + width", 20, []string{"width"}},
	}

	for _, tt := range tests {
		got, err := evalExpr(tt.expr, env(vars))
		require.NoError(t, err, "expr %q", tt.expr)
		assert.Equal(t, tt.want, got.value, "expr %q", tt.expr)
		assert.Equal(t, tt.refs, got.refs, "expr %q", tt.expr)
	}
}

func TestEvalExprErrors(t *testing.T) {
	vars := map[string]float64{"width": 10}

	exprs := []string{
		"",
		"width +",
		"(width",
		"1 / 0",
		"nosuch + 1",
		"1 ^ 2",
		"= 4",
		"1..2",
		"width width",
	}

	for _, expr := range exprs {
		_, err := evalExpr(expr, env(vars))
		assert.Error(t, err, "expr %q", expr)
	}
}

func TestExtractRefs(t *testing.T) {
	// extractRefs needs no values; unknown references are still reported.
	assert.Equal(t, []string{"a", "b"}, extractRefs("a + b * 2"))
	assert.Equal(t, []string{"width"}, extractRefs("10 mm + width"))
	assert.Empty(t, extractRefs("1 + 2"))

	// Malformed expressions fall back to an identifier scan.
	assert.Equal(t, []string{"width"}, extractRefs("width +"))
}

func TestValidName(t *testing.T) {
	valid := []string{"a", "width", "_tmp", "count_2", "Wheel"}
	invalid := []string{"", "9lives", "a-b", "a b", "a.b"}

	for _, name := range valid {
		assert.True(t, ValidName(name), "name %q", name)
	}
	for _, name := range invalid {
		assert.False(t, ValidName(name), "name %q", name)
	}
}

func TestUnits(t *testing.T) {
	assert.True(t, ValidUnit(""))
	assert.True(t, ValidUnit("mm"))
	assert.True(t, ValidUnit("deg"))
	assert.False(t, ValidUnit("furlong"))

	assert.Equal(t, "LENGTH", UnitCategory("mm"))
	assert.Equal(t, "ANGLE", UnitCategory("rad"))
	assert.Equal(t, "NO_UNITS", UnitCategory(""))
	assert.Equal(t, "UNKNOWN", UnitCategory("furlong"))
}
