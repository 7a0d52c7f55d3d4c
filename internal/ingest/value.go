package ingest

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// RawValue is the loosely-typed cell value coming out of a source before any
// canonical mapping. Only the field normalizer and the ingestors consume it;
// past that boundary everything is strictly typed.
type RawValue struct {
	kind kind
	str  string
	num  float64
	t    time.Time
}

type kind int

const (
	kindAbsent kind = iota
	kindString
	kindNumber
	kindTime
)

func Absent() RawValue { return RawValue{kind: kindAbsent} }

func String(s string) RawValue {
	if strings.TrimSpace(s) == "" {
		return Absent()
	}
	return RawValue{kind: kindString, str: s}
}

func Number(f float64) RawValue { return RawValue{kind: kindNumber, num: f} }

func Time(t time.Time) RawValue {
	if t.IsZero() {
		return Absent()
	}
	return RawValue{kind: kindTime, t: t}
}

func (v RawValue) IsAbsent() bool { return v.kind == kindAbsent }

// Text renders the value for a free-text course field. Absent values render
// as the empty string, never as a sentinel.
func (v RawValue) Text() string {
	switch v.kind {
	case kindString:
		return strings.TrimSpace(v.str)
	case kindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case kindTime:
		return v.t.Format("2006-01-02")
	default:
		return ""
	}
}

// Workbook date serials count days from this epoch (the 1900 date system
// with its Lotus leap-year quirk already folded in).
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// dateLayouts covers the encodings seen in the Madrid export and in
// re-ingested artifacts: ISO, Spanish day-first, and two-digit-year variants.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"02/01/06",
	"01-02-06",
}

// Date interprets the value as a calendar date. Unparseable values report
// ok=false; they are a degradation, not an error.
func (v RawValue) Date() (time.Time, bool) {
	switch v.kind {
	case kindTime:
		return v.t, true
	case kindNumber:
		// plausible workbook serial range only
		if v.num < 1 || v.num > 200000 {
			return time.Time{}, false
		}
		days := int(v.num)
		frac := v.num - float64(days)
		d := excelEpoch.AddDate(0, 0, days)
		if frac > 0 {
			d = d.Add(time.Duration(math.Round(frac * 24 * float64(time.Hour))))
		}
		return d, true
	case kindString:
		s := strings.TrimSpace(v.str)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}
