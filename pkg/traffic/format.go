package traffic

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultLocale is the display locale when none is configured.
const DefaultLocale = "tr"

// Formatter renders numbers, distances and timestamps for one locale.
type Formatter struct {
	tag     language.Tag
	printer *message.Printer
	loc     *time.Location
}

// NewFormatter creates a formatter for a BCP 47 locale. Unparseable locales
// fall back to DefaultLocale; a nil location means time.Local.
func NewFormatter(locale string, loc *time.Location) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.MustParse(DefaultLocale)
	}
	if loc == nil {
		loc = time.Local
	}
	return &Formatter{tag: tag, printer: message.NewPrinter(tag), loc: loc}
}

// Number formats n with locale grouping.
func (f *Formatter) Number(n int) string { return f.printer.Sprintf("%d", n) }

// Decimal formats v with one fractional digit.
func (f *Formatter) Decimal(v float64) string { return f.printer.Sprintf("%.1f", v) }

// Distance formats metres as kilometres above 1000 m.
func (f *Formatter) Distance(meters int) string {
	if meters < 1000 {
		return f.printer.Sprintf("%d m", meters)
	}
	return f.printer.Sprintf("%.1f km", float64(meters)/1000)
}

// Duration formats d as hours and minutes.
func (f *Formatter) Duration(d time.Duration) string {
	d = d.Round(time.Minute)
	h, m := int(d.Hours()), int(d.Minutes())%60
	if h == 0 {
		return f.printer.Sprintf("%d min", m)
	}
	return f.printer.Sprintf("%d h %d min", h, m)
}

// DateTime formats t in the formatter's zone as day.month.year hour:minute,
// the order used for the tr locale, or year-month-day for other locales.
func (f *Formatter) DateTime(t time.Time) string {
	t = t.In(f.loc)
	base, _ := f.tag.Base()
	if base.String() == "en" {
		return t.Format("Jan 2, 2006 15:04")
	}
	if base.String() == "tr" || base.String() == "de" || base.String() == "ru" {
		return t.Format("02.01.2006 15:04")
	}
	return t.Format("2006-01-02 15:04")
}

// parseTimestamp accepts RFC 3339 with or without zone and with or without
// fractional seconds. Timestamps without a zone are read in the formatter's zone.
func (f *Formatter) parseTimestamp(s string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999", "2006-01-02 15:04:05"} {
		if t, err := time.ParseInLocation(layout, s, f.loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Timestamp formats a backend timestamp string, returning it unchanged when
// it cannot be parsed.
func (f *Formatter) Timestamp(s string) string {
	if t, ok := f.parseTimestamp(s); ok {
		return f.DateTime(t)
	}
	return s
}
