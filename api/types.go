// Package api defines the wire types exchanged between the mediscan server
// and its clients. The JSON field names are part of the public contract and
// must not change: the detail entries carry the registry's original column
// headers verbatim.
package api

// Detail entry keys as they appear in the registry export and on the wire.
const (
	KeyDrugName     = "Drug Name"
	KeyCompanyName  = "Company Name"
	KeyIngredient   = "Active Ingredient"
	KeyIndication   = "Indication"
	KeyDosage       = "Dosage and Administration"
	KeySideEffects  = "Side Effects"
	KeyPregnancy    = "Use in pregnancy"
	KeyAlternatives = "Alternative Medicines"
)

// DetailFieldKeys lists the scalar detail keys in display order.
var DetailFieldKeys = []string{
	KeyDrugName,
	KeyCompanyName,
	KeyIngredient,
	KeyIndication,
	KeyDosage,
	KeySideEffects,
	KeyPregnancy,
}

// SummaryEntry is one generated textual description of an identified medicine.
type SummaryEntry struct {
	DrugName string `json:"drug_name"`
	Summary  string `json:"summary"`
}

// Alternative names a substitute medicine sharing the active ingredient.
type Alternative struct {
	DrugName string `json:"Drug Name"`
}

// DetailEntry is the structured record of a medicine's attributes plus its
// alternatives. Scalar attributes live under the registry column headers;
// KeyAlternatives holds a []Alternative (or its JSON-decoded equivalent).
type DetailEntry map[string]any

// Field returns the scalar value stored under key, or "" when the key is
// absent or not a string.
func (d DetailEntry) Field(key string) string {
	if v, ok := d[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// Alternatives returns the alternative drug names in stored order. It
// tolerates both the typed form (server side) and the generic form a JSON
// round trip produces (client side).
func (d DetailEntry) Alternatives() []string {
	v, ok := d[KeyAlternatives]
	if !ok {
		return nil
	}

	var names []string
	switch alts := v.(type) {
	case []Alternative:
		for _, a := range alts {
			names = append(names, a.DrugName)
		}
	case []any:
		for _, raw := range alts {
			if m, ok := raw.(map[string]any); ok {
				if name, ok := m[KeyDrugName].(string); ok {
					names = append(names, name)
				}
			}
		}
	}
	return names
}

// ResponsePayload is the body returned by all three analysis endpoints.
// When OK is false, Summaries and Retrieved must be ignored and only
// Error or Message shown.
type ResponsePayload struct {
	OK        bool           `json:"ok"`
	Detected  []string       `json:"detected,omitempty"`
	Summaries []SummaryEntry `json:"summaries,omitempty"`
	Retrieved []DetailEntry  `json:"retrieved,omitempty"`
	Error     string         `json:"error,omitempty"`
	Message   string         `json:"message,omitempty"`
}

// DrugNames returns the ordered drug names of the payload's summaries.
func (p *ResponsePayload) DrugNames() []string {
	names := make([]string, 0, len(p.Summaries))
	for _, s := range p.Summaries {
		names = append(names, s.DrugName)
	}
	return names
}

// AnalyzeImageRequest is the body of POST /analyze-image.
type AnalyzeImageRequest struct {
	Image string `json:"image"`
}

// AnalyzeNameRequest is the body of POST /analyze-name.
type AnalyzeNameRequest struct {
	Name string `json:"name"`
}

// RegenerateRequest is the body of POST /regenerate.
type RegenerateRequest struct {
	Name            string `json:"name"`
	PreviousSummary string `json:"previous_summary,omitempty"`
}
