package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anphu-security/guardops/internal/models"
)

func TestAggregate_OverallFromGrandTotals(t *testing.T) {
	results := []SectionResult{
		{Section: models.SectionComparison{Section: models.SectionContractInfo, TotalFields: 3, MatchedFields: 3}},
		{Section: models.SectionComparison{Section: models.SectionLocations, TotalFields: 1, MatchedFields: 0}},
	}

	summary := Aggregate(results)

	// 3/4 overall, not the 50% average of per-section percentages
	assert.Equal(t, 75.0, summary.MatchPercentage)
	assert.Equal(t, 4, summary.TotalFieldsChecked)
	assert.Equal(t, 3, summary.MatchedFields)
	assert.Equal(t, 100.0, summary.Sections[0].MatchPercentage)
	assert.Equal(t, 0.0, summary.Sections[1].MatchPercentage)
}

func TestAggregate_RoundsToTwoDecimals(t *testing.T) {
	results := []SectionResult{
		{Section: models.SectionComparison{Section: models.SectionContractInfo, TotalFields: 3, MatchedFields: 2}},
	}

	summary := Aggregate(results)

	assert.Equal(t, 66.67, summary.MatchPercentage)
}

func TestAggregate_ZeroFieldSection(t *testing.T) {
	results := []SectionResult{
		{Section: models.SectionComparison{Section: models.SectionWorkingConditions}},
	}

	summary := Aggregate(results)

	assert.Equal(t, 0.0, summary.MatchPercentage)
	assert.Equal(t, 0.0, summary.Sections[0].MatchPercentage)
	assert.Equal(t, 0, summary.TotalFieldsChecked)
	assert.NotNil(t, summary.Differences)
	assert.Empty(t, summary.Differences)
}

func TestAggregate_CountsDifferenceKinds(t *testing.T) {
	results := []SectionResult{
		{
			Section: models.SectionComparison{Section: models.SectionLocations, TotalFields: 2, MatchedFields: 1},
			Differences: []models.ValidationDifference{
				{Type: models.DiffMismatch, Severity: models.SeverityMedium, Category: models.SectionLocations, Field: "a"},
				{Type: models.DiffMissing, Severity: models.SeverityHigh, Category: models.SectionLocations, Field: "b"},
				{Type: models.DiffExtra, Severity: models.SeverityLow, Category: models.SectionLocations, Field: "c"},
				{Type: models.DiffExtra, Severity: models.SeverityLow, Category: models.SectionLocations, Field: "d"},
			},
		},
	}

	summary := Aggregate(results)

	assert.Equal(t, 1, summary.MismatchedFields)
	assert.Equal(t, 1, summary.MissingFields)
	assert.Equal(t, 2, summary.ExtraFields)
}

func TestAggregate_DifferenceOrdering(t *testing.T) {
	results := []SectionResult{
		{
			Section: models.SectionComparison{Section: models.SectionPublicHolidays},
			Differences: []models.ValidationDifference{
				{Severity: models.SeverityLow, Category: models.SectionPublicHolidays, Field: "z"},
				{Severity: models.SeverityMedium, Category: models.SectionPublicHolidays, Field: "m"},
			},
		},
		{
			Section: models.SectionComparison{Section: models.SectionContractInfo},
			Differences: []models.ValidationDifference{
				{Severity: models.SeverityHigh, Category: models.SectionContractInfo, Field: "b"},
				{Severity: models.SeverityHigh, Category: models.SectionContractInfo, Field: "a"},
				{Severity: models.SeverityMedium, Category: models.SectionContractInfo, Field: "x"},
			},
		},
	}

	summary := Aggregate(results)

	require.Len(t, summary.Differences, 5)

	// Severity high to low, then category, then field
	assert.Equal(t, models.SeverityHigh, summary.Differences[0].Severity)
	assert.Equal(t, "a", summary.Differences[0].Field)
	assert.Equal(t, "b", summary.Differences[1].Field)

	assert.Equal(t, models.SeverityMedium, summary.Differences[2].Severity)
	assert.Equal(t, models.SectionContractInfo, summary.Differences[2].Category)
	assert.Equal(t, models.SectionPublicHolidays, summary.Differences[3].Category)

	assert.Equal(t, models.SeverityLow, summary.Differences[4].Severity)
}
