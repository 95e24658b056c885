package validation

import (
	"math"
	"sort"

	"github.com/anphu-security/guardops/internal/models"
)

// Aggregate folds per-section results into one summary. The overall
// percentage comes from the grand totals, not an average of section
// percentages, since sections carry unequal field counts.
func Aggregate(results []SectionResult) *models.ValidationSummary {
	summary := &models.ValidationSummary{
		Sections:    make([]models.SectionComparison, 0, len(results)),
		Differences: []models.ValidationDifference{},
	}

	for _, res := range results {
		section := res.Section
		section.MatchPercentage = roundPercentage(section.MatchedFields, section.TotalFields)
		summary.Sections = append(summary.Sections, section)

		summary.TotalFieldsChecked += section.TotalFields
		summary.MatchedFields += section.MatchedFields
		summary.Differences = append(summary.Differences, res.Differences...)
	}

	for _, diff := range summary.Differences {
		switch diff.Type {
		case models.DiffMismatch:
			summary.MismatchedFields++
		case models.DiffMissing:
			summary.MissingFields++
		case models.DiffExtra:
			summary.ExtraFields++
		}
	}

	summary.MatchPercentage = roundPercentage(summary.MatchedFields, summary.TotalFieldsChecked)

	sort.SliceStable(summary.Differences, func(i, j int) bool {
		a, b := summary.Differences[i], summary.Differences[j]
		if severityRank[a.Severity] != severityRank[b.Severity] {
			return severityRank[a.Severity] > severityRank[b.Severity]
		}
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		return a.Field < b.Field
	})

	return summary
}

// severityRank orders differences for reporting. Severities stay plain
// strings on the wire; the rank exists only so the sort does not depend on
// their lexical order. Unknown values rank last.
var severityRank = map[string]int{
	models.SeverityHigh:   3,
	models.SeverityMedium: 2,
	models.SeverityLow:    1,
}

// roundPercentage rounds matched/total to two decimals, 0 when total is zero.
func roundPercentage(matched, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(matched)/float64(total)*100*100) / 100
}
