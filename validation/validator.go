// Package validation guards the API against hostile input and reports
// quality problems in freshly loaded registry data.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mediscan/mediscan-api/dataset"
)

// Search terms: letters, digits, spaces and the punctuation that actually
// appears in brand names. Commas separate multiple names in one query.
var inputRe = regexp.MustCompile(`^[a-zA-Z0-9\s,\-\.\+']+$`)

// dangerousPatterns are substring checks, which are much cheaper than regex
// for this many patterns.
var dangerousPatterns = []string{
	"<script", "</script>", "javascript:", "onload=", "onerror=", "onclick=",
	"eval(", "expression(", "@import",
	"' or ", "\" or ", "union select", "drop table", "delete from", "insert into",
	"--", "/*", "*/", "exec(", "execute(",
	"`", "$(", "${",
	"../", "..\\", "%2e%2e", "file://",
}

const maxInputLength = 200

// ValidateSearchInput checks a user-supplied medicine name (or comma list).
func ValidateSearchInput(input string) error {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return fmt.Errorf("input cannot be empty")
	}
	if len(trimmed) > maxInputLength {
		return fmt.Errorf("input too long: %d characters (max %d)", len(trimmed), maxInputLength)
	}

	lower := strings.ToLower(trimmed)
	for _, pattern := range dangerousPatterns {
		if strings.Contains(lower, pattern) {
			return fmt.Errorf("input contains disallowed sequence")
		}
	}

	if !inputRe.MatchString(trimmed) {
		return fmt.Errorf("input contains unsupported characters")
	}
	return nil
}

// QualityReport summarizes issues found in a loaded registry snapshot.
type QualityReport struct {
	Total             int
	DuplicateNames    []string
	WithoutIngredient int
	WithoutIndication int
	WithoutCompany    int
}

// ReportQuality scans a registry snapshot. It never rejects data; the
// report is logged so a bad export is visible without taking the service
// down.
func ReportQuality(medicines []dataset.Medicine) *QualityReport {
	report := &QualityReport{Total: len(medicines)}

	seen := make(map[string]bool, len(medicines))
	for i := range medicines {
		m := &medicines[i]
		if seen[m.NormDrug] {
			report.DuplicateNames = append(report.DuplicateNames, m.DrugName)
		}
		seen[m.NormDrug] = true

		if m.ActiveIngredient == "" {
			report.WithoutIngredient++
		}
		if m.Indication == "" {
			report.WithoutIndication++
		}
		if m.CompanyName == "" {
			report.WithoutCompany++
		}
	}
	return report
}
