// Package extract recovers structured contract fields from the plain text of
// Vietnamese guarding contracts. Extraction is best effort and rule ordered:
// every rule is a pure function over the text, absent fields stay nil and
// never abort a run.
package extract

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/anphu-security/guardops/internal/models"
	"go.uber.org/zap"
)

// Extractor runs the field extraction pipeline over document text
type Extractor struct {
	logger *zap.Logger
}

// NewExtractor creates a new field extractor
func NewExtractor(logger *zap.Logger) *Extractor {
	return &Extractor{logger: logger}
}

// Extract runs all extraction rules in fixed order and returns whatever could
// be recovered. Dates, locations, shifts and holidays are scoped to their
// legally numbered clause ("ĐIỀU n") when that marker exists.
func (e *Extractor) Extract(text string) *models.ExtractedContractInfo {
	info := &models.ExtractedContractInfo{}

	info.ContractNumber = extractContractNumber(text)
	info.StartDate, info.EndDate = extractDates(sectionText(text, 2))

	sec1 := sectionText(text, 1)
	info.CustomerName = extractCustomerName(sec1)
	info.Locations = extractLocations(sec1)

	sec3 := sectionText(text, 3)
	info.ShiftWindows = extractShiftWindows(sec3)

	// Named holidays without a year resolve against the contract year
	defaultYear := 0
	if info.StartDate != nil {
		defaultYear = info.StartDate.Year()
	}
	info.Holidays = extractHolidays(sec3, defaultYear)

	e.logger.Debug("Extracted contract fields from document text",
		zap.Bool("has_number", info.ContractNumber != nil),
		zap.Bool("has_dates", info.StartDate != nil),
		zap.Bool("has_customer", info.CustomerName != nil),
		zap.Int("locations", len(info.Locations)),
		zap.Int("shift_windows", len(info.ShiftWindows)),
		zap.Int("holidays", len(info.Holidays)))

	return info
}

var sectionMarkerRe = regexp.MustCompile(`(?i)điều\s+(\d+)`)

// sectionText returns the text between the "ĐIỀU n" marker and the next
// numbered marker, or the whole text when the marker is absent.
func sectionText(text string, n int) string {
	markers := sectionMarkerRe.FindAllStringSubmatchIndex(text, -1)
	for i, m := range markers {
		if text[m[2]:m[3]] != strconv.Itoa(n) {
			continue
		}
		if i+1 < len(markers) {
			return text[m[1]:markers[i+1][0]]
		}
		return text[m[1]:]
	}
	return text
}

var (
	contractNoPrimaryRe  = regexp.MustCompile(`(?i)số\s*:?\s*([\p{L}\p{N}][\p{L}\p{N}/.\-]*)`)
	contractNoFallbackRe = regexp.MustCompile(`(?i)hợp\s+đồng\s+số\s*:?\s*([\p{L}\p{N}][\p{L}\p{N}/.\-]*)`)
)

// extractContractNumber tries "Số <value>" first but only accepts the capture
// when it contains a slash, so street numbers like "Số 5 Điện Biên Phủ" do not
// shadow real numbers like "05/HĐLĐ/2025". Otherwise it falls back to the
// longer "Hợp đồng số <value>" form.
func extractContractNumber(text string) *string {
	if m := contractNoPrimaryRe.FindStringSubmatch(text); m != nil {
		if v := trimFieldValue(m[1]); strings.Contains(v, "/") {
			return &v
		}
	}
	if m := contractNoFallbackRe.FindStringSubmatch(text); m != nil {
		if v := trimFieldValue(m[1]); v != "" {
			return &v
		}
	}
	return nil
}

func trimFieldValue(s string) string {
	return strings.Trim(s, " \t.,;:")
}

var dateTokenRe = regexp.MustCompile(`\b(\d{1,2}/\d{1,2}/\d{4})\b`)

var dateLayouts = []string{"2/1/2006", "02/01/2006"}

func parseDate(token string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, token); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// extractDates collects every d/m/yyyy token in the duration clause, sorts the
// parsed set ascending and takes earliest as start, latest as end. Duplicate
// tokens are kept as-is; sorting makes them harmless for min/max selection.
func extractDates(sec string) (start, end *time.Time) {
	var dates []time.Time
	for _, m := range dateTokenRe.FindAllStringSubmatch(sec, -1) {
		if t, ok := parseDate(m[1]); ok {
			dates = append(dates, t)
		}
	}
	if len(dates) == 0 {
		return nil, nil
	}

	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	first := dates[0]
	start = &first
	if len(dates) > 1 {
		last := dates[len(dates)-1]
		end = &last
	}
	return start, end
}

var customerNameRe = regexp.MustCompile(`(?im)^[ \t]*bên\s+a\s*(?:\([^)\n]*\))?\s*[:\-–]?\s*([^\n]+)`)

var nameStopLabels = []string{"địa chỉ", "mã số thuế", "đại diện", "điện thoại"}

// extractCustomerName reads the party name after the "Bên A" label, cutting it
// off at the next label token on the same line.
func extractCustomerName(sec string) *string {
	m := customerNameRe.FindStringSubmatch(sec)
	if m == nil {
		return nil
	}

	name := m[1]
	lower := strings.ToLower(name)
	for _, label := range nameStopLabels {
		if i := strings.Index(lower, label); i >= 0 {
			name = name[:i]
			lower = lower[:i]
		}
	}

	name = strings.Trim(name, " \t.,;:–-")
	if name == "" || !containsLetter(name) {
		return nil
	}
	return &name
}

func containsLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

// The label and its value must share a line, otherwise a bare "ĐỊA ĐIỂM" in a
// section heading would swallow the following line as the location name.
var locationRe = regexp.MustCompile(`(?i)địa\s+điểm(?:\s+làm\s+việc|\s+bảo\s+vệ)?[ \t]*:?[ \t]*([^\n]+)`)

// guardCountRes is ordered most specific first; the first pattern that yields
// an integer wins.
var guardCountRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)số\s+lượng\s+(?:nhân\s+viên\s+)?bảo\s+vệ\s*:?\s*(\d+)`),
	regexp.MustCompile(`(?i)bố\s+trí\s*:?\s*(\d+)\s*(?:nhân\s+viên|bảo\s+vệ)`),
	regexp.MustCompile(`(?i)(\d+)\s*nhân\s+viên\s+bảo\s+vệ`),
	regexp.MustCompile(`(?i)(\d+)\s*bảo\s+vệ`),
}

func extractLocations(sec string) []models.ExtractedLocation {
	m := locationRe.FindStringSubmatch(sec)
	if m == nil {
		return nil
	}

	name := trimFieldValue(m[1])
	if name == "" {
		return nil
	}

	guards := 0
	for _, re := range guardCountRes {
		if g := re.FindStringSubmatch(sec); g != nil {
			if n, err := strconv.Atoi(g[1]); err == nil {
				guards = n
				break
			}
		}
	}

	return []models.ExtractedLocation{{Name: name, GuardsRequired: guards}}
}

var shiftWindowRe = regexp.MustCompile(`(?i)ca\s+(sáng|chiều|tối|đêm|[1-3])\s*:?\s*(\d{1,2})[:h](\d{2})\s*(?:-|–|đến)\s*(\d{1,2})[:h](\d{2})`)

func extractShiftWindows(sec string) []models.ExtractedShiftWindow {
	var windows []models.ExtractedShiftWindow
	for _, m := range shiftWindowRe.FindAllStringSubmatch(sec, -1) {
		startHour, _ := strconv.Atoi(m[2])
		startMin, _ := strconv.Atoi(m[3])
		endHour, _ := strconv.Atoi(m[4])
		endMin, _ := strconv.Atoi(m[5])
		if startHour > 23 || endHour > 23 || startMin > 59 || endMin > 59 {
			continue
		}
		windows = append(windows, models.ExtractedShiftWindow{
			Name:      "Ca " + m[1],
			StartTime: models.NewTimeOfDay(startHour, startMin),
			EndTime:   models.NewTimeOfDay(endHour, endMin),
		})
	}
	return windows
}

var holidayClauseRe = regexp.MustCompile(`3\.4[\s.:)]`)

// holidayClauseWindow bounds how far past the "3.4" clause marker the holiday
// patterns are allowed to look.
const holidayClauseWindow = 3000

// tetRangeRes is the ordered fallback chain for the Lunar New Year range; the
// first pattern that yields at least two parseable dates wins and the rest
// are skipped.
var tetRangeRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)tết(?:\s+nguyên\s+đán)?[^\n]*?từ\s*(?:ngày\s*)?(\d{1,2}/\d{1,2}(?:/\d{4})?)\s*(?:đến|[-–])\s*(?:ngày\s*)?(\d{1,2}/\d{1,2}(?:/\d{4})?)`),
	regexp.MustCompile(`(?i)nghỉ\s+tết[^\n]*?(\d{1,2}/\d{1,2}/\d{4})\s*(?:-|–|đến)\s*(\d{1,2}/\d{1,2}/\d{4})`),
	regexp.MustCompile(`(?i)tết[\s\S]{0,200}?(\d{1,2}/\d{1,2}/\d{4})[\s\S]{0,60}?(\d{1,2}/\d{1,2}/\d{4})`),
}

type namedHolidayRule struct {
	name string
	re   *regexp.Regexp
}

var namedHolidayRules = []namedHolidayRule{
	{"Giỗ Tổ Hùng Vương", regexp.MustCompile(`(?i)hùng\s+vương[^\n]*?(\d{1,2}/\d{1,2}(?:/\d{4})?)`)},
	{"Ngày Giải phóng miền Nam 30/4", regexp.MustCompile(`(?i)(?:giải\s+phóng|thống\s+nhất)[^\n]*?(30/0?4(?:/\d{4})?)`)},
	{"Ngày Quốc tế Lao động 1/5", regexp.MustCompile(`(?i)lao\s+động[^\n]*?(0?1/0?5(?:/\d{4})?)`)},
	{"Quốc khánh 2/9", regexp.MustCompile(`(?i)quốc\s+khánh[^\n]*?(0?2/0?9(?:/\d{4})?)`)},
	{"Tết Dương lịch", regexp.MustCompile(`(?i)tết\s+dương\s+lịch[^\n]*?(0?1/0?1(?:/\d{4})?)`)},
}

// extractHolidays finds the Tết date range plus the discrete national
// holidays inside the holiday clause. When the "3.4" marker is missing the
// whole clause-3 text is searched instead.
func extractHolidays(sec string, defaultYear int) []models.ExtractedHoliday {
	window := sec
	if loc := holidayClauseRe.FindStringIndex(sec); loc != nil {
		window = sec[loc[0]:]
		if len(window) > holidayClauseWindow {
			window = window[:holidayClauseWindow]
		}
	}

	var holidays []models.ExtractedHoliday

	for _, re := range tetRangeRes {
		m := re.FindStringSubmatch(window)
		if m == nil {
			continue
		}
		from, okFrom := parseFlexibleDate(m[1], defaultYear)
		to, okTo := parseFlexibleDate(m[2], defaultYear)
		if !okFrom || !okTo {
			continue
		}
		if to.Before(from) {
			from, to = to, from
		}

		day := 1
		for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
			holidays = append(holidays, models.ExtractedHoliday{
				Date:         d,
				Name:         fmt.Sprintf("Tết Nguyên Đán - Ngày %d", day),
				IsTetPeriod:  true,
				IsTetHoliday: true,
			})
			day++
		}
		break
	}

	for _, rule := range namedHolidayRules {
		m := rule.re.FindStringSubmatch(window)
		if m == nil {
			continue
		}
		if d, ok := parseFlexibleDate(m[1], defaultYear); ok {
			holidays = append(holidays, models.ExtractedHoliday{Date: d, Name: rule.name})
		}
	}

	return holidays
}

// parseFlexibleDate parses d/m/yyyy, or d/m resolved against defaultYear when
// the token carries no year. A missing year with no default fails the parse.
func parseFlexibleDate(token string, defaultYear int) (time.Time, bool) {
	if strings.Count(token, "/") == 2 {
		return parseDate(token)
	}
	if defaultYear == 0 {
		return time.Time{}, false
	}
	return parseDate(token + "/" + strconv.Itoa(defaultYear))
}
