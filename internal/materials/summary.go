package materials

import (
	"github.com/crystallum/matgateway/internal/mpclient"
)

// SummaryFields is the projection requested from the summary collection for
// a single-material lookup.
var SummaryFields = []string{
	"material_id",
	"formula_pretty",
	"formula_anonymous",
	"structure",
	"density",
	"density_atomic",
	"symmetry",
	"formation_energy_per_atom",
	"energy_above_hull",
	"band_gap",
	"is_gap_direct",
	"is_metal",
	"is_magnetic",
	"total_magnetization",
	"nsites",
	"nelements",
	"elements",
	"energy_per_atom",
	"volume",
	"is_stable",
}

// SearchFields is the narrower projection used for formula search rows.
var SearchFields = []string{
	"material_id",
	"formula_pretty",
	"formula_anonymous",
	"density",
	"band_gap",
	"is_metal",
	"is_magnetic",
}

// Summary reshapes a summary document for the frontend. The database names
// the count fields nsites/nelements; the frontend expects num_sites and
// num_elements, so both spellings are emitted. Structure and symmetry
// blocks appear only when they decode to something usable.
func Summary(d mpclient.Document) map[string]any {
	out := map[string]any{
		"material_id":               d.Get("material_id").String(),
		"formula_pretty":            strOrNil(d, "formula_pretty"),
		"formula_anonymous":         strOrNil(d, "formula_anonymous"),
		"density":                   floatOrNil(d, "density"),
		"density_atomic":            floatOrNil(d, "density_atomic"),
		"num_sites":                 intOrNil(d, "nsites"),
		"num_elements":              intOrNil(d, "nelements"),
		"elements":                  strList(d, "elements"),
		"nelements":                 intOrNil(d, "nelements"),
		"nsites":                    intOrNil(d, "nsites"),
		"energy_per_atom":           floatOrNil(d, "energy_per_atom"),
		"volume":                    floatOrNil(d, "volume"),
		"formation_energy_per_atom": floatOrNil(d, "formation_energy_per_atom"),
		"energy_above_hull":         floatOrNil(d, "energy_above_hull"),
		"band_gap":                  floatOrNil(d, "band_gap"),
		"is_gap_direct":             boolOrNil(d, "is_gap_direct"),
		"is_metal":                  boolOrNil(d, "is_metal"),
		"is_magnetic":               boolOrNil(d, "is_magnetic"),
		"total_magnetization":       floatOrNil(d, "total_magnetization"),
		"is_stable":                 boolOrNil(d, "is_stable"),
	}

	if structure, ok := Structure(d); ok {
		out["structure"] = structure
	}
	if symmetry, ok := Symmetry(d); ok {
		out["symmetry"] = symmetry
	}

	return out
}

// SearchRow reshapes one formula search hit.
func SearchRow(d mpclient.Document) map[string]any {
	return map[string]any{
		"material_id":       d.Get("material_id").String(),
		"formula_pretty":    strOrNil(d, "formula_pretty"),
		"formula_anonymous": strOrNil(d, "formula_anonymous"),
		"density":           floatOrNil(d, "density"),
		"band_gap":          floatOrNil(d, "band_gap"),
		"is_metal":          boolOrNil(d, "is_metal"),
		"is_magnetic":       boolOrNil(d, "is_magnetic"),
	}
}
