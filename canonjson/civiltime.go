package canonjson

import (
	"strconv"
	"strings"

	"github.com/canonproto/canonjson/internal/cerrors"
)

// This file implements Timestamp's calendar conversions and string framing
// by hand rather than through the standard library's time package, because
// time.Parse/time.Format round fractional seconds and calendar edges in ways
// that do not line up with the protobuf year-0001-9999 bound or the
// {0,3,6,9}-digit fractional precision rule (§4.2, §9).

const secondsPerDay = 86400

// civilFromUnix converts a Unix second count to a UTC calendar date and
// time of day, using Howard Hinnant's days-from/to-civil algorithm.
func civilFromUnix(secs int64) (year int64, month, day, hour, min, sec int) {
	days := secs / secondsPerDay
	rem := secs % secondsPerDay
	if rem < 0 {
		rem += secondsPerDay
		days--
	}
	y, m, d := civilFromDays(days)
	return y, m, d, int(rem / 3600), int((rem % 3600) / 60), int(rem % 60)
}

// unixFromCivil is the inverse of civilFromUnix.
func unixFromCivil(year int64, month, day, hour, min, sec int) (int64, error) {
	if month < 1 || month > 12 {
		return 0, cerrors.New("month %d is out of range", month)
	}
	if day < 1 || day > daysInMonth(year, month) {
		return 0, cerrors.New("day %d is out of range for %04d-%02d", day, year, month)
	}
	if hour < 0 || hour > 23 || min < 0 || min > 59 || sec < 0 || sec > 59 {
		return 0, cerrors.New("time of day %02d:%02d:%02d is out of range", hour, min, sec)
	}
	days := daysFromCivil(year, month, day)
	return days*secondsPerDay + int64(hour)*3600 + int64(min)*60 + int64(sec), nil
}

// daysFromCivil and civilFromDays are Howard Hinnant's well-known
// constant-time Gregorian <-> day-count conversions, valid over the entire
// proleptic Gregorian calendar.
func daysFromCivil(y int64, m, d int) int64 {
	y -= boolToInt64(m <= 2)
	era := divFloor(y, 400)
	yoe := y - era*400
	mp := (int64(m) + 9) % 12
	doy := (153*mp+2)/5 + int64(d) - 1
	doe := yoe*365 + yoe/4 - yoe/100 + doy
	return era*146097 + doe - 719468
}

func civilFromDays(z int64) (y int64, m, d int) {
	z += 719468
	era := divFloor(z, 146097)
	doe := z - era*146097
	yoe := (doe - doe/1460 + doe/36524 - doe/146096) / 365
	y = yoe + era*400
	doy := doe - (365*yoe + yoe/4 - yoe/100)
	mp := (5*doy + 2) / 153
	d = int(doy - (153*mp+2)/5 + 1)
	m = int(mp + 3)
	if m > 12 {
		m -= 12
		y++
	}
	return y, m, d
}

func daysInMonth(year int64, month int) int {
	switch month {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	case 2:
		if isLeapYear(year) {
			return 29
		}
		return 28
	default:
		return 0
	}
}

func isLeapYear(y int64) bool {
	return y%4 == 0 && (y%100 != 0 || y%400 == 0)
}

func divFloor(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func boolToInt64(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func pad2(n int) string {
	s := strconv.Itoa(n)
	if len(s) < 2 {
		return "0" + s
	}
	return s
}

func pad4(n int64) string {
	s := strconv.FormatInt(n, 10)
	for len(s) < 4 {
		s = "0" + s
	}
	return s
}

// writeFractionalSuffix appends the shortest of {"", ".xxx", ".xxxxxx",
// ".xxxxxxxxx"} that exactly represents nanos, per the {0,3,6,9}-digit rule.
func writeFractionalSuffix(b *strings.Builder, nanos int32) {
	if nanos == 0 {
		return
	}
	digits := pad9(nanos)
	switch {
	case digits[3:] == "000000":
		b.WriteByte('.')
		b.WriteString(digits[:3])
	case digits[6:] == "000":
		b.WriteByte('.')
		b.WriteString(digits[:6])
	default:
		b.WriteByte('.')
		b.WriteString(digits)
	}
}

func pad9(n int32) string {
	s := strconv.Itoa(int(n))
	for len(s) < 9 {
		s = "0" + s
	}
	return s
}

// splitOnce splits s on the first occurrence of sep, returning ok=false if
// sep does not occur.
func splitOnce(s string, sep byte) (before, after string, ok bool) {
	i := strings.IndexByte(s, sep)
	if i < 0 {
		return s, "", false
	}
	return s[:i], s[i+1:], true
}

// parseDate parses a strict "YYYY-MM-DD" date, rejecting any other layout.
func parseDate(s string) (year int64, month, day int, err error) {
	if len(s) != 10 || s[4] != '-' || s[7] != '-' {
		return 0, 0, 0, cerrors.New("invalid date %q", s)
	}
	y, err1 := strconv.ParseInt(s[0:4], 10, 64)
	m, err2 := strconv.Atoi(s[5:7])
	d, err3 := strconv.Atoi(s[8:10])
	if err1 != nil || err2 != nil || err3 != nil || !allDigits(s[0:4]) || !allDigits(s[5:7]) || !allDigits(s[8:10]) {
		return 0, 0, 0, cerrors.New("invalid date %q", s)
	}
	return y, m, d, nil
}

// parseTimeOfDay parses a strict "HH:MM:SS[.fraction]" time of day, where
// fraction is 1-9 digits (Timestamp's parser is lenient on input precision
// even though its serializer only ever emits 0, 3, 6, or 9 digits).
func parseTimeOfDay(s string) (hour, min, sec int, nanos int32, err error) {
	if len(s) < 8 || s[2] != ':' || s[5] != ':' {
		return 0, 0, 0, 0, cerrors.New("invalid time of day %q", s)
	}
	hh, err1 := strconv.Atoi(s[0:2])
	mm, err2 := strconv.Atoi(s[3:5])
	ss, err3 := strconv.Atoi(s[6:8])
	if err1 != nil || err2 != nil || err3 != nil || !allDigits(s[0:2]) || !allDigits(s[3:5]) || !allDigits(s[6:8]) {
		return 0, 0, 0, 0, cerrors.New("invalid time of day %q", s)
	}
	rest := s[8:]
	if rest == "" {
		return hh, mm, ss, 0, nil
	}
	if rest[0] != '.' || len(rest) < 2 {
		return 0, 0, 0, 0, cerrors.New("invalid time of day %q", s)
	}
	frac := rest[1:]
	if len(frac) > 9 || !allDigits(frac) {
		return 0, 0, 0, 0, cerrors.New("invalid fractional seconds %q", s)
	}
	digits := frac + strings.Repeat("0", 9-len(frac))
	n, err4 := strconv.ParseInt(digits, 10, 32)
	if err4 != nil {
		return 0, 0, 0, 0, cerrors.New("invalid fractional seconds %q", s)
	}
	return hh, mm, ss, int32(n), nil
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
