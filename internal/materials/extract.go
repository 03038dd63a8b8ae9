// Package materials reshapes the loosely-typed documents returned by the
// materials database into JSON-safe maps for the frontend. Upstream
// collections disagree on field names and types between versions, so every
// lookup here is a fallback chain with tolerant coercion.
package materials

import (
	"strings"

	"github.com/spf13/cast"
	"github.com/tidwall/gjson"

	"github.com/crystallum/matgateway/internal/mpclient"
)

// junkStrings are placeholder values the database emits where a number
// should be. They coerce to nil rather than an error.
var junkStrings = map[string]struct{}{
	"raw": {}, "none": {}, "null": {}, "": {},
}

// coerceFloat converts a field to float64. Numeric strings parse; junk
// placeholders and non-numeric values report false.
func coerceFloat(v gjson.Result) (float64, bool) {
	switch v.Type {
	case gjson.Number:
		return v.Float(), true
	case gjson.String:
		if _, junk := junkStrings[strings.ToLower(v.String())]; junk {
			return 0, false
		}
		f, err := cast.ToFloat64E(v.String())
		if err != nil {
			return 0, false
		}
		return f, true
	case gjson.True, gjson.False:
		return cast.ToFloat64(v.Bool()), true
	default:
		return 0, false
	}
}

// firstPresent returns the first non-null field along the fallback chain.
func firstPresent(d mpclient.Document, paths ...string) (gjson.Result, bool) {
	for _, p := range paths {
		if d.Exists(p) {
			return d.Get(p), true
		}
	}
	return gjson.Result{}, false
}

// floatOrNil extracts the first numeric value along the chain, or nil.
func floatOrNil(d mpclient.Document, paths ...string) any {
	for _, p := range paths {
		if !d.Exists(p) {
			continue
		}
		if f, ok := coerceFloat(d.Get(p)); ok {
			return f
		}
	}
	return nil
}

// intOrNil extracts the first integral value along the chain, or nil.
func intOrNil(d mpclient.Document, paths ...string) any {
	for _, p := range paths {
		if !d.Exists(p) {
			continue
		}
		if f, ok := coerceFloat(d.Get(p)); ok {
			return int(f)
		}
	}
	return nil
}

// strOrNil extracts the first value along the chain rendered as a string,
// or nil.
func strOrNil(d mpclient.Document, paths ...string) any {
	if v, ok := firstPresent(d, paths...); ok {
		return v.String()
	}
	return nil
}

// boolOrNil extracts the first boolean along the chain, or nil.
func boolOrNil(d mpclient.Document, paths ...string) any {
	if v, ok := firstPresent(d, paths...); ok {
		return v.Bool()
	}
	return nil
}

// strList extracts a field as a list of strings; absent fields yield the
// empty list, never nil.
func strList(d mpclient.Document, path string) []string {
	out := []string{}
	for _, item := range d.Get(path).Array() {
		out = append(out, item.String())
	}
	return out
}

// floatMatrix converts a 2D array field to rows of float64. Junk cells
// become 0 so row widths stay consistent for the frontend.
func floatMatrix(v gjson.Result) ([][]float64, bool) {
	if !v.IsArray() {
		return nil, false
	}
	var rows [][]float64
	for _, r := range v.Array() {
		if !r.IsArray() {
			return nil, false
		}
		row := make([]float64, 0, len(r.Array()))
		for _, cell := range r.Array() {
			f, ok := coerceFloat(cell)
			if !ok {
				f = 0
			}
			row = append(row, f)
		}
		rows = append(rows, row)
	}
	return rows, len(rows) > 0
}

// floatVector converts an array field to []float64, skipping nothing:
// a non-numeric element fails the whole vector.
func floatVector(v gjson.Result) ([]float64, bool) {
	if !v.IsArray() {
		return nil, false
	}
	out := make([]float64, 0, len(v.Array()))
	for _, item := range v.Array() {
		f, ok := coerceFloat(item)
		if !ok {
			return nil, false
		}
		out = append(out, f)
	}
	return out, true
}
