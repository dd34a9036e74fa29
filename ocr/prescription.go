package ocr

import (
	"regexp"
	"strings"
)

// ParsedMedicine is one medicine entry recognized on a prescription.
type ParsedMedicine struct {
	DrugName string
	Dosage   string
}

var (
	// Prescription lines typically read "TAB <name> 1+0+1". The dosage
	// triple anchors the name even when OCR merges lines.
	tabLineRe = regexp.MustCompile(`(?i)\bTAB\b\s+(.+?)\s+([0-9](?:[+\-][0-9]){2})`)

	// Fallback: runs of capitalized words, the usual way brand names are
	// printed when no TAB marker survived recognition.
	capitalizedRe = regexp.MustCompile(`\b([A-Z][A-Za-z0-9\-]+(?:\s+[A-Z][A-Za-z0-9\-]+)*)\b`)

	innerSpacesRe = regexp.MustCompile(`\s+`)
)

// ParsePrescription extracts medicine entries from recognized text lines.
// The TAB+dosage pattern wins; only when it matches nothing do the
// capitalized-token candidates apply.
func ParsePrescription(lines []string) []ParsedMedicine {
	if len(lines) == 0 {
		return nil
	}
	fullText := strings.Join(lines, " ")

	if matches := tabLineRe.FindAllStringSubmatch(fullText, -1); len(matches) > 0 {
		parsed := make([]ParsedMedicine, 0, len(matches))
		for _, m := range matches {
			name := strings.TrimSpace(innerSpacesRe.ReplaceAllString(m[1], " "))
			parsed = append(parsed, ParsedMedicine{DrugName: name, Dosage: m[2]})
		}
		return parsed
	}

	var parsed []ParsedMedicine
	for _, m := range capitalizedRe.FindAllString(fullText, -1) {
		name := strings.TrimSpace(m)
		if len(name) > 2 {
			parsed = append(parsed, ParsedMedicine{DrugName: name})
		}
	}
	return parsed
}

// MedicineNames returns just the drug names from recognized text lines.
func MedicineNames(lines []string) []string {
	parsed := ParsePrescription(lines)
	names := make([]string, 0, len(parsed))
	for _, p := range parsed {
		names = append(names, p.DrugName)
	}
	return names
}
