package utils

import (
	"fmt"
)

type JSON = map[string]any

func TypeAsString(v any) string {
	return fmt.Sprintf("%T", v)
}

// ShallowCopy returns a new map with the same keys and values. Callers that
// mutate values in place (the field cipher does) work on the copy, never on
// the caller's map.
func ShallowCopy(kv JSON) JSON {
	r := JSON{}
	for k, v := range kv {
		r[k] = v
	}
	return r
}
