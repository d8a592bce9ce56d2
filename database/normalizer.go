package database

import (
	"html"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/donnyhardyanto/dxdata/utils"
)

// StripSlashes removes backslash escape characters. A doubled backslash
// collapses to a single literal backslash.
func StripSlashes(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	i := 0
	for i < len(s) {
		if s[i] == '\\' && i+1 < len(s) {
			b.WriteByte(s[i+1])
			i += 2
			continue
		}
		if s[i] != '\\' {
			b.WriteByte(s[i])
		}
		i++
	}
	return b.String()
}

// NormalizeValue applies the defensive presentation pass to a scalar before
// binding: trim, strip backslash escapes, HTML-entity-escape. Parameter
// binding is the actual injection defense, not this. Exact decimals are
// bound as their canonical string form; other non-string scalars pass
// through untouched.
func NormalizeValue(v any) any {
	switch t := v.(type) {
	case string:
		return html.EscapeString(StripSlashes(strings.TrimSpace(t)))
	case decimal.Decimal:
		return t.String()
	default:
		return v
	}
}

// NormalizeValues returns a normalized copy; the caller's map is untouched.
func NormalizeValues(kv utils.JSON) utils.JSON {
	if kv == nil {
		return nil
	}
	r := utils.JSON{}
	for k, v := range kv {
		r[k] = NormalizeValue(v)
	}
	return r
}
