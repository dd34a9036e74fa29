package dataset

import (
	"sort"
	"strings"

	"github.com/arbovm/levenshtein"
)

const (
	// MaxResults caps how many medicines a single query may return.
	MaxResults = 5

	// MaxAlternatives caps the substitutes returned per medicine.
	MaxAlternatives = 3

	// closeMatchCutoff is the minimum similarity ratio for the fuzzy
	// fallback, matching the behaviour of the previous search backend.
	closeMatchCutoff = 0.6
)

// NoAlternatesMessage is the fixed entry returned when no substitute with
// the same active ingredient exists in the registry.
const NoAlternatesMessage = "No alternates available in my dataset"

// Search finds medicines matching a free-text name. Direct matches win:
// exact, substring or token-subset on the normalized drug name, then
// substring on the active ingredient. When nothing matches directly, the
// closest drug names by Levenshtein similarity above the cutoff are
// returned. Queries shorter than two characters yield nothing.
func Search(medicines []Medicine, query string, max int) []Medicine {
	if max <= 0 {
		max = MaxResults
	}
	if len(strings.TrimSpace(query)) < 2 {
		return nil
	}
	norm := NormalizeString(query)
	if norm == "" {
		return nil
	}

	var results []Medicine
	for i := range medicines {
		m := &medicines[i]
		if m.NormDrug == "" && m.NormIngredient == "" {
			continue
		}
		if matchesDrugName(norm, m.NormDrug) {
			results = append(results, *m)
		} else if m.NormIngredient != "" && strings.Contains(m.NormIngredient, norm) {
			results = append(results, *m)
		}
		if len(results) >= max {
			return results[:max]
		}
	}

	if len(results) == 0 {
		results = closeMatches(medicines, norm, max)
	}

	if len(results) > max {
		results = results[:max]
	}
	return results
}

func matchesDrugName(query, name string) bool {
	if name == "" {
		return false
	}
	if query == name || strings.Contains(name, query) {
		return true
	}
	// Token subset: every query token appears somewhere in the name.
	for _, token := range strings.Fields(query) {
		if !strings.Contains(name, token) {
			return false
		}
	}
	return true
}

// closeMatches ranks medicines by Levenshtein similarity of the normalized
// drug name and keeps those above the cutoff.
func closeMatches(medicines []Medicine, norm string, max int) []Medicine {
	type scored struct {
		med   Medicine
		ratio float64
	}

	var candidates []scored
	for i := range medicines {
		m := &medicines[i]
		if m.NormDrug == "" {
			continue
		}
		if r := similarity(norm, m.NormDrug); r >= closeMatchCutoff {
			candidates = append(candidates, scored{med: *m, ratio: r})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].ratio > candidates[j].ratio
	})

	if len(candidates) > max {
		candidates = candidates[:max]
	}
	results := make([]Medicine, 0, len(candidates))
	for _, c := range candidates {
		results = append(results, c.med)
	}
	return results
}

// similarity maps edit distance to a [0,1] ratio: 1 is identical.
func similarity(a, b string) float64 {
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein.Distance(a, b))/float64(longest)
}

// Alternatives returns up to max drug names sharing the medicine's active
// ingredient, excluding the medicine itself. Order follows the registry.
func Alternatives(medicines []Medicine, med *Medicine, max int) []string {
	if max <= 0 {
		max = MaxAlternatives
	}
	ingredient := strings.ToLower(med.ActiveIngredient)
	if ingredient == "" {
		return nil
	}
	own := strings.ToLower(med.DrugName)

	var alts []string
	for i := range medicines {
		m := &medicines[i]
		if strings.ToLower(m.ActiveIngredient) != ingredient {
			continue
		}
		if strings.ToLower(m.DrugName) == own {
			continue
		}
		alts = append(alts, m.DrugName)
		if len(alts) >= max {
			break
		}
	}
	return alts
}
