package extract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const sampleContract = `CỘNG HÒA XÃ HỘI CHỦ NGHĨA VIỆT NAM
HỢP ĐỒNG DỊCH VỤ BẢO VỆ
Số: 05/HĐBV/2025

ĐIỀU 1: CÁC BÊN VÀ ĐỊA ĐIỂM
Bên A: Công ty TNHH Thương mại Sao Mai Địa chỉ: 12 Lê Lợi, Quận 1
Địa điểm bảo vệ: Nhà máy Sao Mai, KCN Tân Bình
Số lượng bảo vệ: 4

ĐIỀU 2: THỜI HẠN HỢP ĐỒNG
Thời hạn từ ngày 01/01/2025 đến ngày 31/12/2025.

ĐIỀU 3: CA TRỰC VÀ NGÀY NGHỈ
Ca sáng: 06:00 - 14:00
Ca chiều: 14:00 - 22:00
3.4. Ngày nghỉ lễ:
Tết Nguyên Đán: nghỉ từ ngày 28/01/2025 đến ngày 01/02/2025
Giỗ Tổ Hùng Vương: nghỉ ngày 07/04
Quốc khánh: nghỉ ngày 02/09
`

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestExtractor_Extract(t *testing.T) {
	extractor := NewExtractor(zap.NewNop())

	info := extractor.Extract(sampleContract)

	require.NotNil(t, info.ContractNumber)
	assert.Equal(t, "05/HĐBV/2025", *info.ContractNumber)

	require.NotNil(t, info.StartDate)
	require.NotNil(t, info.EndDate)
	assert.Equal(t, date(2025, time.January, 1), *info.StartDate)
	assert.Equal(t, date(2025, time.December, 31), *info.EndDate)

	require.NotNil(t, info.CustomerName)
	assert.Equal(t, "Công ty TNHH Thương mại Sao Mai", *info.CustomerName)

	require.Len(t, info.Locations, 1)
	assert.Equal(t, "Nhà máy Sao Mai, KCN Tân Bình", info.Locations[0].Name)
	assert.Equal(t, 4, info.Locations[0].GuardsRequired)

	require.Len(t, info.ShiftWindows, 2)
	assert.Equal(t, "Ca sáng", info.ShiftWindows[0].Name)
	assert.Equal(t, 6, info.ShiftWindows[0].StartTime.Hour)
	assert.Equal(t, 14, info.ShiftWindows[0].EndTime.Hour)
	assert.Equal(t, "Ca chiều", info.ShiftWindows[1].Name)

	// 5 Tết days (28/01..01/02) plus two discrete national holidays
	require.Len(t, info.Holidays, 7)
	assert.Equal(t, "Tết Nguyên Đán - Ngày 1", info.Holidays[0].Name)
	assert.Equal(t, date(2025, time.January, 28), info.Holidays[0].Date)
	assert.True(t, info.Holidays[0].IsTetHoliday)
	assert.Equal(t, "Tết Nguyên Đán - Ngày 5", info.Holidays[4].Name)
	assert.Equal(t, date(2025, time.February, 1), info.Holidays[4].Date)

	assert.Equal(t, "Giỗ Tổ Hùng Vương", info.Holidays[5].Name)
	// Year resolved from the extracted start date, not the wall clock
	assert.Equal(t, date(2025, time.April, 7), info.Holidays[5].Date)
	assert.False(t, info.Holidays[5].IsTetHoliday)

	assert.Equal(t, "Quốc khánh 2/9", info.Holidays[6].Name)
	assert.Equal(t, date(2025, time.September, 2), info.Holidays[6].Date)
}

func TestExtractor_ExtractIsIdempotent(t *testing.T) {
	extractor := NewExtractor(zap.NewNop())

	first := extractor.Extract(sampleContract)
	second := extractor.Extract(sampleContract)

	assert.Equal(t, first, second)
}

func TestExtractContractNumber(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
		found    bool
	}{
		{
			name:     "slash-bearing value after the short label",
			text:     "Số: 05/HĐBV/2025",
			expected: "05/HĐBV/2025",
			found:    true,
		},
		{
			name:  "street number without a slash is rejected",
			text:  "Trụ sở: Số 5 Điện Biên Phủ",
			found: false,
		},
		{
			name:     "falls back to the long label when the short one is a street number",
			text:     "Trụ sở: Số 5 Điện Biên Phủ\nCăn cứ Hợp đồng số 12/2024/HĐBV đã ký",
			expected: "12/2024/HĐBV",
			found:    true,
		},
		{
			name:  "no label at all",
			text:  "HỢP ĐỒNG DỊCH VỤ BẢO VỆ",
			found: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractContractNumber(tt.text)
			if !tt.found {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.expected, *got)
		})
	}
}

func TestExtractDates(t *testing.T) {
	t.Run("earliest and latest regardless of text order", func(t *testing.T) {
		start, end := extractDates("kết thúc 31/12/2025, bắt đầu 01/01/2025")
		require.NotNil(t, start)
		require.NotNil(t, end)
		assert.Equal(t, date(2025, time.January, 1), *start)
		assert.Equal(t, date(2025, time.December, 31), *end)
	})

	t.Run("single date becomes start only", func(t *testing.T) {
		start, end := extractDates("có hiệu lực từ ngày 15/06/2025")
		require.NotNil(t, start)
		assert.Equal(t, date(2025, time.June, 15), *start)
		assert.Nil(t, end)
	})

	t.Run("duplicate tokens do not corrupt selection", func(t *testing.T) {
		start, end := extractDates("từ 01/01/2025 (một tháng Giêng 01/01/2025) đến 30/06/2025")
		require.NotNil(t, start)
		require.NotNil(t, end)
		assert.Equal(t, date(2025, time.January, 1), *start)
		assert.Equal(t, date(2025, time.June, 30), *end)
	})

	t.Run("no parseable dates", func(t *testing.T) {
		start, end := extractDates("thời hạn một năm kể từ ngày ký")
		assert.Nil(t, start)
		assert.Nil(t, end)
	})
}

func TestExtractHolidays_TetPatternFallback(t *testing.T) {
	t.Run("first pattern with two parseable dates wins", func(t *testing.T) {
		// The "từ ... đến ..." form is present, so the looser fallback
		// patterns must not run even though they would also match.
		sec := `3.4 Ngày lễ:
Nghỉ Tết từ ngày 09/02/2026 đến ngày 11/02/2026
Nghỉ Tết 01/01/2026 - 05/01/2026`
		holidays := extractHolidays(sec, 2026)

		require.Len(t, holidays, 3)
		assert.Equal(t, date(2026, time.February, 9), holidays[0].Date)
		assert.Equal(t, date(2026, time.February, 11), holidays[2].Date)
		for _, h := range holidays {
			assert.True(t, h.IsTetPeriod)
			assert.True(t, h.IsTetHoliday)
		}
	})

	t.Run("unparseable first pattern falls through", func(t *testing.T) {
		sec := "3.4 Nghỉ Tết từ mùng một đến mùng ba, cụ thể nghỉ Tết 17/02/2026 - 19/02/2026"
		holidays := extractHolidays(sec, 2026)

		require.Len(t, holidays, 3)
		assert.Equal(t, date(2026, time.February, 17), holidays[0].Date)
	})

	t.Run("reversed range is normalized", func(t *testing.T) {
		sec := "3.4 Nghỉ Tết từ ngày 03/02/2025 đến ngày 28/01/2025"
		holidays := extractHolidays(sec, 2025)

		require.Len(t, holidays, 7)
		assert.Equal(t, date(2025, time.January, 28), holidays[0].Date)
		assert.Equal(t, date(2025, time.February, 3), holidays[6].Date)
	})

	t.Run("yearless tokens without a default year fail the parse", func(t *testing.T) {
		sec := "3.4 Nghỉ Tết từ ngày 28/01 đến ngày 03/02"
		holidays := extractHolidays(sec, 0)
		assert.Empty(t, holidays)
	})
}

func TestSectionText(t *testing.T) {
	text := "mở đầu ĐIỀU 1: các bên ĐIỀU 2: thời hạn ĐIỀU 3: ca trực"

	assert.Equal(t, ": các bên ", sectionText(text, 1))
	assert.Equal(t, ": thời hạn ", sectionText(text, 2))
	assert.Equal(t, ": ca trực", sectionText(text, 3))

	// Missing marker falls back to the whole text
	assert.Equal(t, text, sectionText(text, 7))
}
