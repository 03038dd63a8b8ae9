package materials

import (
	"github.com/tidwall/gjson"

	"github.com/crystallum/matgateway/internal/mpclient"
)

// has reports whether the field is carried at all; unlike Document.Exists a
// JSON null still counts, because the frontend distinguishes "field absent"
// from "field null".
func has(d mpclient.Document, path string) bool {
	return d.Get(path).Exists()
}

// Magnetism reshapes a magnetism document. Keys appear only for fields the
// document carries.
func Magnetism(d mpclient.Document) map[string]any {
	out := map[string]any{}
	if has(d, "ordering") {
		out["ordering"] = d.Get("ordering").String()
	}
	if has(d, "total_magnetization") {
		out["total_magnetization"] = floatOrNil(d, "total_magnetization")
	}
	if has(d, "num_magnetic_sites") {
		out["num_magnetic_sites"] = intOrNil(d, "num_magnetic_sites")
	}
	if has(d, "num_unique_magnetic_sites") {
		out["num_unique_magnetic_sites"] = intOrNil(d, "num_unique_magnetic_sites")
	}
	return out
}

// Elasticity reshapes an elasticity document. Scalar moduli coerce through
// the junk-tolerant float path; the elastic tensor is emitted only when it
// decodes as a matrix.
func Elasticity(d mpclient.Document) map[string]any {
	out := map[string]any{}
	for _, key := range []string{
		"k_voigt", "k_reuss", "k_vrh",
		"g_voigt", "g_reuss", "g_vrh",
		"universal_anisotropy", "homogeneous_poisson",
	} {
		if has(d, key) {
			out[key] = floatOrNil(d, key)
		}
	}
	if has(d, "elastic_tensor") {
		if tensor, ok := floatMatrix(d.Get("elastic_tensor")); ok {
			out["elastic_tensor"] = tensor
		}
	}
	return out
}

// EOS reshapes an equation-of-state document. Fit parameters live either
// directly on the document or nested under eos/equation_of_state depending
// on the database version.
func EOS(d mpclient.Document) map[string]any {
	out := map[string]any{}

	nested := ""
	switch {
	case has(d, "eos"):
		nested = "eos"
	case has(d, "equation_of_state"):
		nested = "equation_of_state"
	default:
		return out
	}

	fit := map[string]any{}
	for _, key := range []string{"v0", "e0", "b0", "b1"} {
		if has(d, key) {
			fit[key] = floatOrNil(d, key)
		} else if has(d, nested+"."+key) {
			fit[key] = floatOrNil(d, nested+"."+key)
		}
	}
	out["eos"] = fit
	return out
}

// XASRow reshapes one X-ray absorption spectrum document.
func XASRow(d mpclient.Document, fallbackID string) map[string]any {
	out := map[string]any{
		"material_id": fallbackID,
	}
	if has(d, "material_id") {
		out["material_id"] = d.Get("material_id").String()
	}
	if has(d, "spectrum_type") {
		out["spectrum_type"] = d.Get("spectrum_type").String()
	}
	if has(d, "absorbing_element") {
		out["absorbing_element"] = d.Get("absorbing_element").String()
	}
	if has(d, "edge") {
		out["edge"] = d.Get("edge").String()
	}
	return out
}

// SurfaceRow reshapes one surface properties document.
func SurfaceRow(d mpclient.Document, fallbackID string) map[string]any {
	out := map[string]any{
		"material_id": fallbackID,
	}
	if has(d, "material_id") {
		out["material_id"] = d.Get("material_id").String()
	}
	for _, key := range []string{
		"surface_energy_anisotropy",
		"weighted_surface_energy",
		"weighted_surface_energy_Wulff",
	} {
		if has(d, key) {
			out[key] = floatOrNil(d, key)
		}
	}
	return out
}

// SimilarityRow reshapes one similarity document. The identifier and score
// keys have drifted across versions; rows without at least an identifier
// are dropped (nil return).
func SimilarityRow(d mpclient.Document) map[string]any {
	out := map[string]any{}
	if v, ok := firstPresent(d, "material_id", "mpid", "id"); ok {
		out["material_id"] = v.String()
	}
	if _, ok := firstPresent(d, "similarity", "similarity_score", "score"); ok {
		out["similarity"] = floatOrNil(d, "similarity", "similarity_score", "score")
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// GrainBoundaryRow reshapes one grain boundary document.
func GrainBoundaryRow(d mpclient.Document, fallbackID string) map[string]any {
	out := map[string]any{
		"material_id": fallbackID,
	}
	if has(d, "material_id") {
		out["material_id"] = d.Get("material_id").String()
	}
	if has(d, "sigma") {
		out["sigma"] = intOrNil(d, "sigma")
	}
	if has(d, "gb_energy") {
		out["gb_energy"] = floatOrNil(d, "gb_energy")
	}
	if has(d, "rotation_angle") {
		out["rotation_angle"] = floatOrNil(d, "rotation_angle")
	}
	return out
}

// SubstrateRow reshapes one substrate suggestion document.
func SubstrateRow(d mpclient.Document, fallbackFilmID string) map[string]any {
	out := map[string]any{
		"substrate_id": nil,
		"film_id":      fallbackFilmID,
	}
	if has(d, "sub_id") {
		out["substrate_id"] = d.Get("sub_id").String()
	} else if has(d, "substrate_id") {
		out["substrate_id"] = d.Get("substrate_id").String()
	}
	if has(d, "film_id") {
		out["film_id"] = d.Get("film_id").String()
	}
	if v, ok := firstPresent(d, "substrate_formula", "sub_form"); ok {
		out["substrate_formula"] = v.String()
	}
	if has(d, "film_formula") {
		out["film_formula"] = d.Get("film_formula").String()
	}
	if has(d, "area") {
		out["area"] = floatOrNil(d, "area")
	}
	if has(d, "elastic_energy") {
		out["elastic_energy"] = floatOrNil(d, "elastic_energy")
	}
	return out
}

// AlloyRow reshapes one alloy system document. Rows without a pair are
// dropped (nil return).
func AlloyRow(d mpclient.Document) map[string]any {
	if v, ok := firstPresent(d, "alloy_pair", "pair"); ok {
		return map[string]any{"alloy_pair": v.String()}
	}
	return nil
}

// Bandstructure reshapes an electronic structure document. The band gap may
// be a scalar or an object with an energy field; k-points and per-spin
// eigenvalue bands are passed through when they decode cleanly.
func Bandstructure(d mpclient.Document, materialID string) map[string]any {
	out := map[string]any{
		"material_id": materialID,
	}

	if has(d, "is_metal") {
		out["is_metal"] = d.Get("is_metal").Bool()
	}

	if f, ok := coerceFloat(d.Get("band_gap.energy")); ok {
		out["band_gap"] = f
	} else if f, ok := coerceFloat(d.Get("band_gap")); ok {
		out["band_gap"] = f
	}

	if kpoints, ok := floatMatrix(d.Get("kpoints")); ok {
		out["kpoints"] = kpoints
	}

	if eig := d.Get("eigenvalues"); eig.IsObject() {
		bands := map[string][][]float64{}
		eig.ForEach(func(spin, value gjson.Result) bool {
			if m, ok := floatMatrix(value); ok {
				bands[spin.String()] = m
			}
			return true
		})
		if len(bands) > 0 {
			out["eigenvalues"] = bands
		}
	}

	return out
}
