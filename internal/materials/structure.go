package materials

import (
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/crystallum/matgateway/internal/mpclient"
)

// Structure decodes the atomic arrangement attached to a summary document
// into lattice parameters and a site list. It reports false when the
// document carries no usable structure.
func Structure(d mpclient.Document) (map[string]any, bool) {
	s := d.Get("structure")
	if !s.Exists() || s.Type == gjson.Null {
		return nil, false
	}
	// Some records wrap the structure in a one-element list.
	if s.IsArray() {
		arr := s.Array()
		if len(arr) == 0 {
			return nil, false
		}
		s = arr[0]
	}
	if !s.IsObject() {
		return nil, false
	}

	out := map[string]any{}
	if lattice, ok := decodeLattice(s.Get("lattice")); ok {
		out["lattice"] = lattice
	}
	if sites, ok := decodeSites(s.Get("sites")); ok {
		out["sites"] = sites
	}
	if len(out) == 0 {
		return nil, false
	}
	return out, true
}

// decodeLattice extracts lattice parameters. Lengths and volume default to
// 0, angles to 90 degrees.
func decodeLattice(v gjson.Result) (map[string]any, bool) {
	if !v.IsObject() {
		return nil, false
	}
	return map[string]any{
		"a":      latticeParam(v, "a", 0),
		"b":      latticeParam(v, "b", 0),
		"c":      latticeParam(v, "c", 0),
		"alpha":  latticeParam(v, "alpha", 90),
		"beta":   latticeParam(v, "beta", 90),
		"gamma":  latticeParam(v, "gamma", 90),
		"volume": latticeParam(v, "volume", 0),
	}, true
}

func latticeParam(v gjson.Result, key string, def float64) float64 {
	f, ok := coerceFloat(v.Get(key))
	if !ok {
		return def
	}
	return f
}

// decodeSites extracts the site list. Sites without any recognizable
// species are dropped.
func decodeSites(v gjson.Result) ([]map[string]any, bool) {
	if !v.IsArray() {
		return nil, false
	}
	sites := []map[string]any{}
	for idx, raw := range v.Array() {
		if !raw.IsObject() {
			continue
		}
		site := decodeSite(raw, idx)
		if site != nil {
			sites = append(sites, site)
		}
	}
	return sites, true
}

func decodeSite(raw gjson.Result, idx int) map[string]any {
	label := raw.Get("label").String()
	if label == "" {
		label = fmt.Sprintf("Site %d", idx+1)
	}
	site := map[string]any{
		"label":   label,
		"species": decodeSpecies(raw.Get("species")),
		"xyz":     []float64{0, 0, 0},
	}

	// Prefer fractional coordinates; keep cartesian alongside when present.
	xyz, hasXYZ := floatVector(raw.Get("xyz"))
	if abc, ok := floatVector(raw.Get("abc")); ok {
		site["abc"] = abc
		if hasXYZ {
			site["xyz"] = xyz
		}
	} else if frac, ok := floatVector(raw.Get("frac_coords")); ok {
		site["abc"] = frac
		if hasXYZ {
			site["xyz"] = xyz
		}
	} else if hasXYZ {
		site["xyz"] = xyz
		// Bare cartesian coordinates inside the unit cube are, in
		// practice, fractional coordinates under the wrong key.
		if allFractional(xyz) {
			site["abc"] = xyz
		}
	}

	if len(site["species"].([]map[string]any)) == 0 {
		return nil
	}
	return site
}

func allFractional(coords []float64) bool {
	for _, x := range coords {
		if x < 0 || x > 1 {
			return false
		}
	}
	return true
}

// decodeSpecies handles the element/occupancy encodings seen across schema
// versions: a plain "element" key, a nested "specie" object or string, and
// the serializer form carrying "@class".
func decodeSpecies(v gjson.Result) []map[string]any {
	species := []map[string]any{}
	for _, item := range v.Array() {
		if !item.IsObject() {
			continue
		}
		element := ""
		switch {
		case item.Get("element").Exists():
			element = item.Get("element").String()
		case item.Get("specie").Exists():
			specie := item.Get("specie")
			if specie.IsObject() {
				element = specie.Get("element").String()
				if element == "" {
					element = specie.Get("@class").String()
				}
			} else {
				element = specie.String()
			}
		case item.Get("@class").Exists():
			element = item.Get("@class").String()
		}
		if element == "" {
			continue
		}

		occu := 1.0
		if f, ok := coerceFloat(item.Get("occu")); ok {
			occu = f
		} else if f, ok := coerceFloat(item.Get("occupancy")); ok {
			occu = f
		}

		species = append(species, map[string]any{
			"element": element,
			"occu":    occu,
		})
	}
	return species
}
