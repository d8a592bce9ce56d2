package database

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/donnyhardyanto/dxdata/utils"
)

func TestStripSlashes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"no slashes", "plain", "plain"},
		{"escaped quote", `O\'Brien`, `O'Brien`},
		{"doubled backslash", `a\\b`, `a\b`},
		{"trailing backslash dropped", `a\`, `a`},
		{"empty", ``, ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StripSlashes(tt.input)
			if got != tt.want {
				t.Errorf("StripSlashes(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeValue(t *testing.T) {
	assert.Equal(t, "Ann", NormalizeValue("  Ann  "))
	assert.Equal(t, "O&#39;Brien", NormalizeValue(`O\'Brien`))
	assert.Equal(t, "&lt;b&gt;x&lt;/b&gt;", NormalizeValue("<b>x</b>"))
	assert.Equal(t, 42, NormalizeValue(42))
	assert.Equal(t, nil, NormalizeValue(nil))
	assert.Equal(t, "12.50", NormalizeValue(decimal.RequireFromString("12.50")))
}

func TestNormalizeValueIdempotentOnCleanInput(t *testing.T) {
	for _, s := range []string{"Ann", "a@x.com", "123-45-6789", ""} {
		once := NormalizeValue(s)
		twice := NormalizeValue(once)
		assert.Equal(t, once, twice, "normalization must be idempotent on clean input %q", s)
	}
}

func TestNormalizeValues(t *testing.T) {
	in := utils.JSON{"name": " Ann ", "age": 30}
	out := NormalizeValues(in)
	assert.Equal(t, "Ann", out["name"])
	assert.Equal(t, 30, out["age"])
	assert.Equal(t, " Ann ", in["name"], "caller's map must not be mutated")
	assert.Nil(t, NormalizeValues(nil))
}
