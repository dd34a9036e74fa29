// Package dataset loads and indexes the medicine registry used for
// identification. The registry is a JSON export whose column headers vary
// between revisions, so every record is reduced to a canonical set of fields
// while the original record is kept for the wire format.
package dataset

import (
	"regexp"
	"strings"
)

// Medicine is one canonical registry record.
type Medicine struct {
	DrugName         string
	CompanyName      string
	ActiveIngredient string
	Indication       string
	Dosage           string
	SideEffects      string
	Pregnancy        string

	// Raw preserves the original record with its original headers; detail
	// responses are built from it so clients see the registry verbatim.
	Raw map[string]string

	// Precomputed normalized forms used by search.
	NormDrug       string
	NormIngredient string
}

// canonicalVariants maps each canonical field to the header spellings seen
// across registry revisions. Matching is done on squashed keys (lowercase,
// alphanumerics only).
var canonicalVariants = map[string][]string{
	"drug_name":         {"drug name", "drug_name", "medicine", "name"},
	"company_name":      {"company name", "manufacturer", "company"},
	"active_ingredient": {"active ingredient", "ingredient", "salt"},
	"indication":        {"indication", "use", "uses"},
	"dosage":            {"dosage and administration", "dosage", "dose"},
	"side_effects":      {"side effects", "adverse effects"},
	"pregnancy":         {"use in pregnancy", "pregnancy safety"},
}

var (
	nonAlnumRe = regexp.MustCompile(`[^a-z0-9]+`)
	spacesRe   = regexp.MustCompile(`\s+`)
)

// NormalizeString lowercases, replaces every non-alphanumeric run with a
// single space and trims. Empty input yields "".
func NormalizeString(s string) string {
	if s == "" {
		return ""
	}
	s = nonAlnumRe.ReplaceAllString(strings.ToLower(s), " ")
	return strings.TrimSpace(s)
}

// squashKey reduces a header to its comparison form (no separators at all).
func squashKey(k string) string {
	return nonAlnumRe.ReplaceAllString(strings.ToLower(k), "")
}

// fromRecord builds a Medicine from one raw registry record. String values
// only; anything else in the export is ignored.
func fromRecord(record map[string]any) Medicine {
	raw := make(map[string]string, len(record))
	squashed := make(map[string]string, len(record))
	for k, v := range record {
		s, ok := v.(string)
		if !ok {
			continue
		}
		raw[k] = s
		squashed[squashKey(k)] = s
	}

	pick := func(canonical string) string {
		for _, variant := range canonicalVariants[canonical] {
			if v, ok := squashed[squashKey(variant)]; ok && v != "" {
				return v
			}
		}
		return ""
	}

	m := Medicine{
		DrugName:         pick("drug_name"),
		CompanyName:      pick("company_name"),
		ActiveIngredient: pick("active_ingredient"),
		Indication:       pick("indication"),
		Dosage:           pick("dosage"),
		SideEffects:      pick("side_effects"),
		Pregnancy:        pick("pregnancy"),
		Raw:              raw,
	}
	m.NormDrug = NormalizeString(m.DrugName)
	m.NormIngredient = NormalizeString(m.ActiveIngredient)
	return m
}
