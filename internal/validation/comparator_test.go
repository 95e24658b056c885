package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anphu-security/guardops/internal/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func storedContract() *models.Contract {
	return &models.Contract{
		ID:             1,
		ContractNumber: "05/HĐLĐ/2025",
		CustomerID:     7,
		StartDate:      date(2025, time.January, 1),
		EndDate:        date(2025, time.December, 31),
	}
}

func TestCompareContractInfo_AbsenceNeverMismatches(t *testing.T) {
	res := CompareContractInfo(storedContract(), nil, &models.ExtractedContractInfo{})

	// Number, start date, end date; counterparty skipped without both sides
	assert.Equal(t, 3, res.Section.TotalFields)
	assert.Equal(t, 3, res.Section.MatchedFields)
	assert.Empty(t, res.Differences)
}

func TestCompareContractInfo_NumberMismatch(t *testing.T) {
	info := &models.ExtractedContractInfo{ContractNumber: strPtr("06/HĐLĐ/2025")}

	res := CompareContractInfo(storedContract(), nil, info)

	require.Len(t, res.Differences, 1)
	diff := res.Differences[0]
	assert.Equal(t, models.SectionContractInfo, diff.Category)
	assert.Equal(t, models.DiffMismatch, diff.Type)
	assert.Equal(t, models.SeverityHigh, diff.Severity)
	assert.Equal(t, 2, res.Section.MatchedFields)
}

func TestCompareContractInfo_NumberCaseInsensitive(t *testing.T) {
	info := &models.ExtractedContractInfo{ContractNumber: strPtr("05/hđlđ/2025")}

	res := CompareContractInfo(storedContract(), nil, info)

	assert.Equal(t, 3, res.Section.MatchedFields)
	assert.Empty(t, res.Differences)
}

func TestCompareContractInfo_DateComparedByCalendarDay(t *testing.T) {
	// Same calendar day at a different clock time still matches
	info := &models.ExtractedContractInfo{
		StartDate: timePtr(time.Date(2025, time.January, 1, 15, 30, 0, 0, time.UTC)),
		EndDate:   timePtr(date(2025, time.November, 30)),
	}

	res := CompareContractInfo(storedContract(), nil, info)

	require.Len(t, res.Differences, 1)
	assert.Equal(t, "End Date", res.Differences[0].Field)
	assert.Equal(t, models.SeverityHigh, res.Differences[0].Severity)
	assert.Equal(t, 2, res.Section.MatchedFields)
}

func TestCompareContractInfo_CustomerNameSubstring(t *testing.T) {
	customer := &models.Customer{ID: 7, Name: "Công ty TNHH Sao Mai"}

	t.Run("substring in either direction matches", func(t *testing.T) {
		info := &models.ExtractedContractInfo{CustomerName: strPtr("CÔNG TY TNHH SAO MAI (Bên A)")}
		res := CompareContractInfo(storedContract(), customer, info)

		assert.Equal(t, 4, res.Section.TotalFields)
		assert.Equal(t, 4, res.Section.MatchedFields)
	})

	t.Run("unrelated name is a medium mismatch", func(t *testing.T) {
		info := &models.ExtractedContractInfo{CustomerName: strPtr("Công ty CP Bình Minh")}
		res := CompareContractInfo(storedContract(), customer, info)

		require.Len(t, res.Differences, 1)
		assert.Equal(t, "Customer Name", res.Differences[0].Field)
		assert.Equal(t, models.SeverityMedium, res.Differences[0].Severity)
	})

	t.Run("skipped when extraction found no name", func(t *testing.T) {
		res := CompareContractInfo(storedContract(), customer, &models.ExtractedContractInfo{})
		assert.Equal(t, 3, res.Section.TotalFields)
	})
}

func TestCompareLocations(t *testing.T) {
	stored := []models.ContractLocation{
		{ID: 1, ContractID: 1, Name: "Kho A", GuardsRequired: 4},
		{ID: 2, ContractID: 1, Name: "Văn phòng Quận 1", GuardsRequired: 2},
	}

	t.Run("missing location", func(t *testing.T) {
		res := CompareLocations(stored[:1], nil)

		require.Len(t, res.Section.Fields, 1)
		assert.False(t, res.Section.Fields[0].IsMatch)
		assert.Equal(t, 0, res.Section.MatchedFields)

		require.Len(t, res.Differences, 1)
		assert.Equal(t, models.DiffMissing, res.Differences[0].Type)
		assert.Equal(t, models.SeverityHigh, res.Differences[0].Severity)
		assert.Equal(t, "Kho A", res.Differences[0].Field)
	})

	t.Run("matched location with guard count mismatch", func(t *testing.T) {
		extracted := []models.ExtractedLocation{{Name: "Kho A - KCN Tân Bình", GuardsRequired: 3}}

		res := CompareLocations(stored[:1], extracted)

		// Name field matches by substring, guard count field does not
		assert.Equal(t, 2, res.Section.TotalFields)
		assert.Equal(t, 1, res.Section.MatchedFields)
		require.Len(t, res.Differences, 1)
		assert.Equal(t, models.DiffMismatch, res.Differences[0].Type)
		assert.Equal(t, models.SeverityMedium, res.Differences[0].Severity)
	})

	t.Run("extra location adds a difference but no field", func(t *testing.T) {
		extracted := []models.ExtractedLocation{
			{Name: "Kho A", GuardsRequired: 4},
			{Name: "Bãi xe Quận 7", GuardsRequired: 1},
		}

		res := CompareLocations(stored[:1], extracted)

		assert.Equal(t, 2, res.Section.TotalFields)
		assert.Equal(t, 2, res.Section.MatchedFields)
		require.Len(t, res.Differences, 1)
		assert.Equal(t, models.DiffExtra, res.Differences[0].Type)
		assert.Equal(t, models.SeverityMedium, res.Differences[0].Severity)
		assert.Equal(t, "Bãi xe Quận 7", res.Differences[0].Field)
	})
}

func TestCompareShiftSchedules(t *testing.T) {
	day := models.ShiftSchedule{
		ID:         1,
		Name:       "Ca ngày",
		StartTime:  models.NewTimeOfDay(6, 0),
		EndTime:    models.NewTimeOfDay(14, 0),
	}

	tests := []struct {
		name      string
		extracted models.ExtractedShiftWindow
		match     bool
	}{
		{
			name: "exact times",
			extracted: models.ExtractedShiftWindow{
				StartTime: models.NewTimeOfDay(6, 0), EndTime: models.NewTimeOfDay(14, 0)},
			match: true,
		},
		{
			name: "within 30 minutes on both ends",
			extracted: models.ExtractedShiftWindow{
				StartTime: models.NewTimeOfDay(6, 30), EndTime: models.NewTimeOfDay(13, 30)},
			match: true,
		},
		{
			name: "45 minutes off is outside tolerance",
			extracted: models.ExtractedShiftWindow{
				StartTime: models.NewTimeOfDay(6, 45), EndTime: models.NewTimeOfDay(14, 0)},
			match: false,
		},
		{
			name: "two hours off never matches",
			extracted: models.ExtractedShiftWindow{
				StartTime: models.NewTimeOfDay(8, 0), EndTime: models.NewTimeOfDay(16, 0)},
			match: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := CompareShiftSchedules([]models.ShiftSchedule{day}, []models.ExtractedShiftWindow{tt.extracted})

			assert.Equal(t, 1, res.Section.TotalFields)
			if tt.match {
				assert.Equal(t, 1, res.Section.MatchedFields)
				assert.Empty(t, res.Differences)
			} else {
				assert.Equal(t, 0, res.Section.MatchedFields)
				require.Len(t, res.Differences, 1)
				assert.Equal(t, models.DiffMissing, res.Differences[0].Type)
				assert.Equal(t, models.SeverityMedium, res.Differences[0].Severity)
			}
		})
	}

	t.Run("hour-level tolerance when document has no minutes", func(t *testing.T) {
		halfPast := models.ShiftSchedule{
			Name:      "Ca lệch",
			StartTime: models.NewTimeOfDay(6, 30),
			EndTime:   models.NewTimeOfDay(14, 30),
		}
		// 07:00/15:00 is 30 min away but the hour fallback accepts ±1 hour
		// because the extracted minutes are both zero
		window := models.ExtractedShiftWindow{
			StartTime: models.NewTimeOfDay(7, 0),
			EndTime:   models.NewTimeOfDay(15, 0),
		}

		res := CompareShiftSchedules([]models.ShiftSchedule{halfPast}, []models.ExtractedShiftWindow{window})
		assert.Equal(t, 1, res.Section.MatchedFields)

		// With extracted minutes present the fallback does not apply
		window.StartTime = models.NewTimeOfDay(7, 15)
		window.EndTime = models.NewTimeOfDay(15, 15)
		res = CompareShiftSchedules([]models.ShiftSchedule{halfPast}, []models.ExtractedShiftWindow{window})
		assert.Equal(t, 0, res.Section.MatchedFields)
	})
}

func TestCompareHolidays(t *testing.T) {
	tet := models.Holiday{
		ID: 1, Date: date(2025, time.January, 29), Name: "Tết Nguyên Đán",
		IsTetPeriod: true, IsTetHoliday: true,
	}
	nationalDay := models.Holiday{
		ID: 2, Date: date(2025, time.September, 2), Name: "Quốc khánh",
	}

	t.Run("exact date match", func(t *testing.T) {
		extracted := []models.ExtractedHoliday{{Date: date(2025, time.September, 2), Name: "Ngày lễ"}}
		res := CompareHolidays([]models.Holiday{nationalDay}, extracted)

		assert.Equal(t, 1, res.Section.MatchedFields)
		assert.Empty(t, res.Differences)
	})

	t.Run("tet flag matches across differing dates as a date mismatch", func(t *testing.T) {
		extracted := []models.ExtractedHoliday{{
			Date: date(2025, time.January, 28), Name: "Tết Nguyên Đán - Ngày 1",
			IsTetPeriod: true, IsTetHoliday: true,
		}}
		res := CompareHolidays([]models.Holiday{tet}, extracted)

		assert.Equal(t, 1, res.Section.TotalFields)
		assert.Equal(t, 0, res.Section.MatchedFields)
		require.Len(t, res.Differences, 1)
		assert.Equal(t, models.DiffMismatch, res.Differences[0].Type)
		assert.Equal(t, models.SeverityMedium, res.Differences[0].Severity)
	})

	t.Run("diacritic-insensitive name containment", func(t *testing.T) {
		extracted := []models.ExtractedHoliday{{Date: date(2025, time.September, 2), Name: "QUOC KHANH 2/9"}}
		res := CompareHolidays([]models.Holiday{nationalDay}, extracted)

		assert.Equal(t, 1, res.Section.MatchedFields)
		assert.Empty(t, res.Differences)
	})

	t.Run("missing tet holiday is high severity", func(t *testing.T) {
		res := CompareHolidays([]models.Holiday{tet}, nil)

		require.Len(t, res.Differences, 1)
		assert.Equal(t, models.DiffMissing, res.Differences[0].Type)
		assert.Equal(t, models.SeverityHigh, res.Differences[0].Severity)
	})

	t.Run("missing ordinary holiday is medium severity", func(t *testing.T) {
		res := CompareHolidays([]models.Holiday{nationalDay}, nil)

		require.Len(t, res.Differences, 1)
		assert.Equal(t, models.SeverityMedium, res.Differences[0].Severity)
	})

	t.Run("gregorian new year without tet flag is skipped entirely", func(t *testing.T) {
		gregorian := models.Holiday{ID: 3, Date: date(2025, time.January, 1), Name: "Tết Dương lịch"}
		res := CompareHolidays([]models.Holiday{gregorian}, nil)

		assert.Equal(t, 0, res.Section.TotalFields)
		assert.Empty(t, res.Differences)

		// Tet-flagged rows with the same label are still evaluated
		gregorian.IsTetHoliday = true
		res = CompareHolidays([]models.Holiday{gregorian}, nil)
		assert.Equal(t, 1, res.Section.TotalFields)
	})

	t.Run("extra holiday is a low-severity difference only", func(t *testing.T) {
		extracted := []models.ExtractedHoliday{{Date: date(2025, time.September, 2), Name: "Quốc khánh 2/9"}}
		res := CompareHolidays(nil, extracted)

		assert.Equal(t, 0, res.Section.TotalFields)
		require.Len(t, res.Differences, 1)
		assert.Equal(t, models.DiffExtra, res.Differences[0].Type)
		assert.Equal(t, models.SeverityLow, res.Differences[0].Severity)
	})
}
