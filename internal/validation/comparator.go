// Package validation compares extracted contract documents against the
// system of record and scores the result.
package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/anphu-security/guardops/internal/extract"
	"github.com/anphu-security/guardops/internal/models"
)

// SectionResult is the outcome of comparing one logical section: the counted
// field comparisons plus the differences they produced. Extras contribute
// differences only, never field counts.
type SectionResult struct {
	Section     models.SectionComparison
	Differences []models.ValidationDifference
}

const (
	dateOnlyFormat = "02/01/2006"
	notFoundValue  = ""
)

// CompareContractInfo checks contract number, start/end date and counterparty
// name. A field the extractor could not find never counts as a mismatch, only
// a present-but-different value does.
func CompareContractInfo(contract *models.Contract, customer *models.Customer, info *models.ExtractedContractInfo) SectionResult {
	res := SectionResult{Section: models.SectionComparison{Section: models.SectionContractInfo}}

	// Contract number, compared case-insensitively
	numberMatch := info.ContractNumber == nil ||
		strings.EqualFold(strings.TrimSpace(*info.ContractNumber), strings.TrimSpace(contract.ContractNumber))
	res.addField(models.FieldComparison{
		Field:          "Contract Number",
		StoredValue:    contract.ContractNumber,
		ExtractedValue: derefString(info.ContractNumber),
		IsMatch:        numberMatch,
	})
	if !numberMatch {
		res.addDifference(models.ValidationDifference{
			Category:       models.SectionContractInfo,
			Field:          "Contract Number",
			Type:           models.DiffMismatch,
			StoredValue:    contract.ContractNumber,
			ExtractedValue: derefString(info.ContractNumber),
			Description:    "contract number in document differs from the stored record",
			Severity:       models.SeverityHigh,
		})
	}

	res.compareDate("Start Date", contract.StartDate, info.StartDate)
	res.compareDate("End Date", contract.EndDate, info.EndDate)

	// Counterparty name is only evaluated when both sides exist
	if customer != nil && info.CustomerName != nil {
		stored := strings.ToLower(strings.TrimSpace(customer.Name))
		extracted := strings.ToLower(strings.TrimSpace(*info.CustomerName))
		nameMatch := stored != "" && extracted != "" &&
			(strings.Contains(stored, extracted) || strings.Contains(extracted, stored))
		res.addField(models.FieldComparison{
			Field:          "Customer Name",
			StoredValue:    customer.Name,
			ExtractedValue: *info.CustomerName,
			IsMatch:        nameMatch,
		})
		if !nameMatch {
			res.addDifference(models.ValidationDifference{
				Category:       models.SectionContractInfo,
				Field:          "Customer Name",
				Type:           models.DiffMismatch,
				StoredValue:    customer.Name,
				ExtractedValue: *info.CustomerName,
				Description:    "counterparty name in document does not contain or match the stored customer name",
				Severity:       models.SeverityMedium,
			})
		}
	}

	return res
}

// CompareLocations matches every stored location requirement against the
// extracted list by symmetric substring containment. Extracted locations that
// match nothing stored become extra differences without field comparisons.
func CompareLocations(stored []models.ContractLocation, extracted []models.ExtractedLocation) SectionResult {
	res := SectionResult{Section: models.SectionComparison{Section: models.SectionLocations}}
	matched := make([]bool, len(extracted))

	for _, loc := range stored {
		idx := -1
		for i, ext := range extracted {
			if matched[i] {
				continue
			}
			if nameContains(loc.Name, ext.Name) {
				idx = i
				break
			}
		}

		if idx < 0 {
			res.addField(models.FieldComparison{
				Field:       "Location: " + loc.Name,
				StoredValue: loc.Name,
				IsMatch:     false,
				Details:     "not found in document",
			})
			res.addDifference(models.ValidationDifference{
				Category:    models.SectionLocations,
				Field:       loc.Name,
				Type:        models.DiffMissing,
				StoredValue: loc.Name,
				Description: fmt.Sprintf("location %q is not mentioned in the document", loc.Name),
				Severity:    models.SeverityHigh,
			})
			continue
		}

		matched[idx] = true
		ext := extracted[idx]
		res.addField(models.FieldComparison{
			Field:          "Location: " + loc.Name,
			StoredValue:    loc.Name,
			ExtractedValue: ext.Name,
			IsMatch:        true,
		})

		guardsMatch := loc.GuardsRequired == ext.GuardsRequired
		res.addField(models.FieldComparison{
			Field:          "Guards at " + loc.Name,
			StoredValue:    fmt.Sprintf("%d", loc.GuardsRequired),
			ExtractedValue: fmt.Sprintf("%d", ext.GuardsRequired),
			IsMatch:        guardsMatch,
		})
		if !guardsMatch {
			res.addDifference(models.ValidationDifference{
				Category:       models.SectionLocations,
				Field:          "Guards at " + loc.Name,
				Type:           models.DiffMismatch,
				StoredValue:    fmt.Sprintf("%d", loc.GuardsRequired),
				ExtractedValue: fmt.Sprintf("%d", ext.GuardsRequired),
				Description:    fmt.Sprintf("guard count at %q differs from the stored requirement", loc.Name),
				Severity:       models.SeverityMedium,
			})
		}
	}

	for i, ext := range extracted {
		if matched[i] {
			continue
		}
		res.addDifference(models.ValidationDifference{
			Category:       models.SectionLocations,
			Field:          ext.Name,
			Type:           models.DiffExtra,
			ExtractedValue: ext.Name,
			Description:    fmt.Sprintf("document mentions location %q with no stored requirement", ext.Name),
			Severity:       models.SeverityMedium,
		})
	}

	return res
}

// CompareShiftSchedules matches stored time windows against extracted ones
// within a tolerance: both ends within 30 minutes, or within one hour at
// whole-hour granularity when the document gave no minutes. A found window is
// always a match; the tolerance is the acceptance test.
func CompareShiftSchedules(stored []models.ShiftSchedule, extracted []models.ExtractedShiftWindow) SectionResult {
	res := SectionResult{Section: models.SectionComparison{Section: models.SectionShiftSchedules}}

	for _, sched := range stored {
		found := false
		var foundWindow models.ExtractedShiftWindow
		for _, ext := range extracted {
			if shiftTimesMatch(sched, ext) {
				found = true
				foundWindow = ext
				break
			}
		}

		display := fmt.Sprintf("%s - %s", sched.StartTime, sched.EndTime)
		if !found {
			res.addField(models.FieldComparison{
				Field:       "Shift: " + sched.Name,
				StoredValue: display,
				IsMatch:     false,
				Details:     "no matching time window in document",
			})
			res.addDifference(models.ValidationDifference{
				Category:    models.SectionShiftSchedules,
				Field:       sched.Name,
				Type:        models.DiffMissing,
				StoredValue: display,
				Description: fmt.Sprintf("shift %q (%s) has no matching time window in the document", sched.Name, display),
				Severity:    models.SeverityMedium,
			})
			continue
		}

		res.addField(models.FieldComparison{
			Field:          "Shift: " + sched.Name,
			StoredValue:    display,
			ExtractedValue: fmt.Sprintf("%s - %s", foundWindow.StartTime, foundWindow.EndTime),
			IsMatch:        true,
		})
	}

	return res
}

func shiftTimesMatch(sched models.ShiftSchedule, ext models.ExtractedShiftWindow) bool {
	if withinMinutes(sched.StartTime, ext.StartTime, 30) && withinMinutes(sched.EndTime, ext.EndTime, 30) {
		return true
	}
	// Hour-level fallback when the document carried no minute precision
	if ext.StartTime.Minute == 0 && ext.EndTime.Minute == 0 {
		return absInt(sched.StartTime.Hour-ext.StartTime.Hour) <= 1 &&
			absInt(sched.EndTime.Hour-ext.EndTime.Hour) <= 1
	}
	return false
}

func withinMinutes(a, b models.TimeOfDay, tolerance int) bool {
	return absInt(a.TotalMinutes()-b.TotalMinutes()) <= tolerance
}

// gregorianNewYearName is excluded from stored-holiday matching unless the
// row itself is Tết-flagged, so the Gregorian new year is not counted twice
// under two holiday taxonomies.
const gregorianNewYearName = "Tết Dương lịch"

// CompareHolidays matches stored holidays against extracted ones by exact
// date, shared Tết flag, or diacritic-insensitive name containment. Extras
// become low-severity differences without field comparisons.
func CompareHolidays(stored []models.Holiday, extracted []models.ExtractedHoliday) SectionResult {
	res := SectionResult{Section: models.SectionComparison{Section: models.SectionPublicHolidays}}
	matched := make([]bool, len(extracted))

	for _, hol := range stored {
		if extract.NormalizeForCompare(hol.Name) == extract.NormalizeForCompare(gregorianNewYearName) && !hol.IsTetHoliday {
			continue
		}

		idx := -1
		for i, ext := range extracted {
			if matched[i] {
				continue
			}
			if sameDate(hol.Date, ext.Date) ||
				(hol.IsTetHoliday && ext.IsTetHoliday) ||
				extract.ContainsFold(hol.Name, ext.Name) {
				idx = i
				break
			}
		}

		display := hol.Date.Format(dateOnlyFormat)
		if idx < 0 {
			severity := models.SeverityMedium
			if hol.IsTetHoliday {
				severity = models.SeverityHigh
			}
			res.addField(models.FieldComparison{
				Field:       "Holiday: " + hol.Name,
				StoredValue: display,
				IsMatch:     false,
				Details:     "not found in document",
			})
			res.addDifference(models.ValidationDifference{
				Category:    models.SectionPublicHolidays,
				Field:       hol.Name,
				Type:        models.DiffMissing,
				StoredValue: display,
				Description: fmt.Sprintf("holiday %q (%s) is not mentioned in the document", hol.Name, display),
				Severity:    severity,
			})
			continue
		}

		matched[idx] = true
		ext := extracted[idx]
		dateMatch := sameDate(hol.Date, ext.Date)
		res.addField(models.FieldComparison{
			Field:          "Holiday: " + hol.Name,
			StoredValue:    display,
			ExtractedValue: ext.Date.Format(dateOnlyFormat),
			IsMatch:        dateMatch,
		})
		if !dateMatch {
			res.addDifference(models.ValidationDifference{
				Category:       models.SectionPublicHolidays,
				Field:          hol.Name,
				Type:           models.DiffMismatch,
				StoredValue:    display,
				ExtractedValue: ext.Date.Format(dateOnlyFormat),
				Description:    fmt.Sprintf("holiday %q is on a different date in the document", hol.Name),
				Severity:       models.SeverityMedium,
			})
		}
	}

	for i, ext := range extracted {
		if matched[i] {
			continue
		}
		res.addDifference(models.ValidationDifference{
			Category:       models.SectionPublicHolidays,
			Field:          ext.Name,
			Type:           models.DiffExtra,
			ExtractedValue: ext.Date.Format(dateOnlyFormat),
			Description:    fmt.Sprintf("document mentions holiday %q not in the stored set for this contract", ext.Name),
			Severity:       models.SeverityLow,
		})
	}

	return res
}

func (r *SectionResult) addField(fc models.FieldComparison) {
	r.Section.Fields = append(r.Section.Fields, fc)
	r.Section.TotalFields++
	if fc.IsMatch {
		r.Section.MatchedFields++
	}
}

func (r *SectionResult) addDifference(d models.ValidationDifference) {
	r.Differences = append(r.Differences, d)
}

// compareDate compares by calendar date only; an absent extracted date is a
// match by rule.
func (r *SectionResult) compareDate(field string, stored time.Time, extracted *time.Time) {
	match := extracted == nil || sameDate(stored, *extracted)
	extractedDisplay := notFoundValue
	if extracted != nil {
		extractedDisplay = extracted.Format(dateOnlyFormat)
	}
	r.addField(models.FieldComparison{
		Field:          field,
		StoredValue:    stored.Format(dateOnlyFormat),
		ExtractedValue: extractedDisplay,
		IsMatch:        match,
	})
	if !match {
		r.addDifference(models.ValidationDifference{
			Category:       models.SectionContractInfo,
			Field:          field,
			Type:           models.DiffMismatch,
			StoredValue:    stored.Format(dateOnlyFormat),
			ExtractedValue: extractedDisplay,
			Description:    fmt.Sprintf("%s in document differs from the stored record", strings.ToLower(field)),
			Severity:       models.SeverityHigh,
		})
	}
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func nameContains(a, b string) bool {
	la, lb := strings.ToLower(strings.TrimSpace(a)), strings.ToLower(strings.TrimSpace(b))
	if la == "" || lb == "" {
		return false
	}
	return strings.Contains(la, lb) || strings.Contains(lb, la)
}

func derefString(s *string) string {
	if s == nil {
		return notFoundValue
	}
	return *s
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
