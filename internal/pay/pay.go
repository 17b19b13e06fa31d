package pay

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// HoursPerYear converts annual amounts: 40 hours a week, 52 weeks.
const HoursPerYear = 2080

// AnnualThreshold separates hourly from annual amounts when no unit is stated.
const AnnualThreshold = 500.0

type Unit int

const (
	UnitNone Unit = iota
	UnitHour
	UnitYear
	UnitMonth
)

func (u Unit) String() string {
	switch u {
	case UnitHour:
		return "hour"
	case UnitYear:
		return "year"
	case UnitMonth:
		return "month"
	default:
		return "none"
	}
}

type Pay struct {
	HourlyLow  *float64
	HourlyHigh *float64
	Display    string
}

// Parsed reports whether at least one amount was converted.
func (p Pay) Parsed() bool { return p.HourlyLow != nil }

const number = `((?:\d{1,3}(?:,\d{3})+|\d+)(?:\.\d+)?)(?:\s?([kK])\b)?`

// An amount, optionally followed by the upper bound of a range whose "$" may
// be left off ("$17.50 - 22.00/hr").
var reAmount = regexp.MustCompile(`\$\s?` + number + `(?:\s*(?:-|\x{2013}|\x{2014}|\bto\b)\s*(\$)?\s?` + number + `)?`)

var unitPatterns = []struct {
	unit Unit
	re   *regexp.Regexp
}{
	{UnitHour, regexp.MustCompile(`(?i)per\s+hour|/\s*h(?:ou)?r\b|\bhourly\b|\ban\s+hour\b|\bhr\b|\bhour\b`)},
	{UnitMonth, regexp.MustCompile(`(?i)per\s+month|/\s*mo(?:nth)?\b|\bmonthly\b|\ba\s+month\b`)},
	{UnitYear, regexp.MustCompile(`(?i)per\s+(?:year|annum)|/\s*y(?:ea)?r\b|\bannual(?:ly)?\b|\byearly\b|\ba\s+year\b|\bsalary\b|\byear\b`)},
}

// Normalize converts the currency amounts in text to an hourly rate or range.
// Text without any amount is kept verbatim as the display value.
func Normalize(text string) Pay {
	text = strings.TrimSpace(text)

	matches := reAmount.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return Pay{Display: text}
	}

	var amounts []float64
	for _, m := range matches {
		low, ok := amountAt(text, m[2], m[3], m[4])
		if !ok {
			continue
		}
		amounts = append(amounts, low)
		if high, ok := amountAt(text, m[8], m[9], m[10]); ok && (m[6] >= 0 || high >= low) {
			amounts = append(amounts, high)
		}
		if len(amounts) >= 2 {
			amounts = amounts[:2]
			break
		}
	}
	if len(amounts) == 0 {
		return Pay{Display: text}
	}

	unit := detectUnit(text, matches[0][1])
	for i, v := range amounts {
		amounts[i] = round2(toHourly(v, unit))
	}

	low := amounts[0]
	high := low
	if len(amounts) == 2 {
		high = amounts[1]
		if high < low {
			low, high = high, low
		}
	}

	p := Pay{HourlyLow: &low, HourlyHigh: &high}
	if low == high {
		p.Display = fmt.Sprintf("$%.2f/hr", low)
	} else {
		p.Display = fmt.Sprintf("$%.2f - $%.2f/hr", low, high)
	}
	return p
}

// amountAt parses the digits at text[start:end]; k >= 0 marks a thousands suffix.
func amountAt(text string, start, end, k int) (float64, bool) {
	if start < 0 {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(text[start:end], ",", ""), 64)
	if err != nil {
		return 0, false
	}
	if k >= 0 {
		v *= 1000
	}
	return v, true
}

// detectUnit prefers the first unit keyword after the first amount, then any unit keyword.
func detectUnit(text string, after int) Unit {
	best, bestAt := UnitNone, -1
	fallback, fallbackAt := UnitNone, -1

	for _, up := range unitPatterns {
		for _, loc := range up.re.FindAllStringIndex(text, -1) {
			if loc[0] >= after && (bestAt < 0 || loc[0] < bestAt) {
				best, bestAt = up.unit, loc[0]
			}
			if fallbackAt < 0 || loc[0] < fallbackAt {
				fallback, fallbackAt = up.unit, loc[0]
			}
		}
	}
	if best != UnitNone {
		return best
	}
	return fallback
}

func toHourly(v float64, unit Unit) float64 {
	switch unit {
	case UnitHour:
		return v
	case UnitYear:
		return v / HoursPerYear
	case UnitMonth:
		return v * 12 / HoursPerYear
	}
	if v > AnnualThreshold {
		return v / HoursPerYear
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
