package materials

import (
	"github.com/tidwall/gjson"

	"github.com/crystallum/matgateway/internal/mpclient"
)

// Symmetry decodes the space group block of a summary document. Field names
// changed across database versions, so symbol and number each have a
// fallback. Reports false when nothing usable is present.
func Symmetry(d mpclient.Document) (map[string]any, bool) {
	sym := d.Get("symmetry")
	if !sym.IsObject() {
		return nil, false
	}

	out := map[string]any{}
	if v := sym.Get("crystal_system"); v.Exists() && v.Type != gjson.Null {
		out["crystal_system"] = v.String()
	}
	if v := symFallback(sym, "symbol", "space_group_symbol"); v != nil {
		out["symbol"] = v.String()
	}
	if v := symFallback(sym, "number", "space_group_number"); v != nil {
		if f, ok := coerceFloat(*v); ok {
			out["number"] = int(f)
		}
	}

	if len(out) == 0 {
		return nil, false
	}
	return out, true
}

func symFallback(sym gjson.Result, paths ...string) *gjson.Result {
	for _, p := range paths {
		if v := sym.Get(p); v.Exists() && v.Type != gjson.Null {
			return &v
		}
	}
	return nil
}
