package format

import (
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Date and DateTime display codes.
const (
	DateShort              = "Date-Short"
	DateShortYYYY          = "Date-Short-YYYY"
	DateShortCustom        = "Date-Short-Custom"
	DateShortCustomYYYY    = "Date-Short-Custom-YYYY"
	DateMedium             = "Date-Medium"
	DateDayMonthYearCustom = "Date-DayMonthYear-Custom"
	DateFull               = "Date-Full"
	DateLong               = "Date-Long"
	DateISO8601            = "Date-ISO-8601"
	DateGregorian1         = "Date-Gregorian-1"
	DateGregorian2         = "Date-Gregorian-2"
	DateGregorian3         = "Date-Gregorian-3"

	DateTimeShort              = "DateTime-Short"
	DateTimeShortCustom        = "DateTime-Short-Custom"
	DateTimeShortYYYYCustom    = "DateTime-Short-YYYY-Custom"
	DateTimeShortYYYY          = "DateTime-Short-YYYY"
	DateTimeMedium             = "DateTime-Medium"
	DateTimeLong               = "DateTime-Long"
	DateTimeDayMonthYearCustom = "DateTime-DayMonthYear-Custom"
	DateTimeFull               = "DateTime-Full"
	DateTimeFrame              = "DateTime-Frame"
	DateTimeFrameShort         = "DateTime-Frame-Short"
	DateTimeISO8601            = "DateTime-ISO-8601"
	DateTimeGregorian1         = "DateTime-Gregorian-1"
	DateTimeGregorian2         = "DateTime-Gregorian-2"
	DateTimeGregorian3         = "DateTime-Gregorian-3"
	DateTimeCustom             = "DateTime-Custom"
)

// StorageDate is the layout dates are written to the store in.
const StorageDate = "20060102"

// StorageDateTimeSuffix is appended to stored dates of datetime controls.
const StorageDateTimeSuffix = "T000000.000"

var dateLayouts = map[string]string{
	DateShort:              "1/2/06",
	DateShortYYYY:          "1/2/2006",
	DateShortCustom:        "01/02/06",
	DateShortCustomYYYY:    "01/02/2006",
	DateMedium:             "Jan 2, 2006",
	DateDayMonthYearCustom: "02-Jan-2006",
	DateFull:               "Monday, January 2, 2006",
	DateLong:               "January 2, 2006",
	DateISO8601:            "2006/01/02",
	DateGregorian1:         "02 January, 2006",
	DateGregorian2:         "January 02, 2006",
	DateGregorian3:         "2006, January 02",
}

var dateTimeLayouts = map[string]string{
	DateTimeShort:              "1/2/06 3:04 PM",
	DateTimeShortCustom:        "01/02/06 03:04 PM",
	DateTimeShortYYYYCustom:    "1/2/2006 03:04 PM",
	DateTimeShortYYYY:          "1/2/2006 3:04 PM",
	DateTimeMedium:             "Jan 2, 2006 3:04:05 PM",
	DateTimeLong:               "January 2, 2006 3:04:05 PM",
	DateTimeDayMonthYearCustom: "02-Jan-2006 3:04:05 PM",
	DateTimeFull:               "Monday, January 2, 2006 3:04 PM -07:00",
	DateTimeISO8601:            "2006/01/02 3:04:05 pm",
	DateTimeGregorian1:         "02 January, 2006 3:04:05 pm",
	DateTimeGregorian2:         "January 02, 2006 3:04:05 pm",
	DateTimeGregorian3:         "2006, January 02 3:04:05 pm",
}

// Server timestamps look like 20190612T090000.000 GMT.
var timestampLayouts = []string{
	"20060102T150405.000 Z07:00",
	"20060102T150405.000 Z0700",
	"20060102T150405.000 MST",
	"20060102T150405.000",
	"20060102T150405",
}

var looseDateLayouts = []string{
	StorageDate,
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"01/02/2006",
	"1/2/2006",
	"Jan 2, 2006",
}

// FormatDate renders value using the display code. Custom and unknown codes
// and unparseable values return value unchanged.
func (f *Formatter) FormatDate(value, code string) string {
	if layout, ok := dateLayouts[code]; ok {
		t, ok := ParseDate(value)
		if !ok {
			return value
		}
		return t.Format(layout)
	}

	switch code {
	case DateTimeFrame, DateTimeFrameShort:
		return f.RelativeTime(value)
	case DateTimeCustom:
		return value
	}

	layout, ok := dateTimeLayouts[code]
	if !ok {
		return value
	}
	t, ok := ParseTimestamp(value)
	if !ok {
		return value
	}
	return t.In(f.location()).Format(layout)
}

// RelativeTime renders a server timestamp as "3 days ago".
func (f *Formatter) RelativeTime(value string) string {
	t, ok := ParseTimestamp(value)
	if !ok {
		return value
	}
	return humanize.RelTime(t, f.now(), "ago", "from now")
}

// ParseTimestamp parses the fixed width server timestamp. A GMT zone suffix
// is accepted.
func ParseTimestamp(value string) (time.Time, bool) {
	trimmed := strings.TrimSpace(strings.Replace(value, "GMT", "Z", 1))
	if trimmed == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseDate parses date values leniently, falling back to the timestamp
// layouts.
func ParseDate(value string) (time.Time, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, false
	}
	for _, layout := range looseDateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t, true
		}
	}
	return ParseTimestamp(trimmed)
}

// StoredDate renders t in the store layout. Datetime controls get a midnight
// time suffix.
func StoredDate(t time.Time, dateTime bool) string {
	out := t.Format(StorageDate)
	if dateTime {
		out += StorageDateTimeSuffix
	}
	return out
}
