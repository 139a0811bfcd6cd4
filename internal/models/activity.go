package models

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// ActivityCode is a 1-2 letter identifier for a tracked habit ("M" for
// meditation, "KK" for kickboxing). Always stored upper case.
type ActivityCode string

// DefaultMaxActivityValue is the soft ceiling above which a single token is
// accepted but flagged for logging.
const DefaultMaxActivityValue = 10000

var (
	codeRe  = regexp.MustCompile(`^[A-Za-z]{1,2}$`)
	tokenRe = regexp.MustCompile(`^([A-Za-z]{1,2})(\d+)$`)
)

// NewActivityCode validates and normalizes a raw code.
func NewActivityCode(raw string) (ActivityCode, error) {
	if !codeRe.MatchString(raw) {
		return "", fmt.Errorf("invalid activity code %q: expected 1-2 letters", raw)
	}
	return ActivityCode(strings.ToUpper(raw)), nil
}

// Activities maps activity codes to positive unit quantities.
type Activities map[ActivityCode]int

// TotalUnits sums all quantities.
func (a Activities) TotalUnits() int {
	total := 0
	for _, v := range a {
		total += v
	}
	return total
}

// SortedCodes returns the codes in lexicographic order.
func (a Activities) SortedCodes() []ActivityCode {
	codes := make([]ActivityCode, 0, len(a))
	for c := range a {
		codes = append(codes, c)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}

// Clone returns an independent copy.
func (a Activities) Clone() Activities {
	out := make(Activities, len(a))
	for c, v := range a {
		out[c] = v
	}
	return out
}

// ParseReport carries the tokens the parser could not or would not count.
// Skipped tokens are dropped silently from the result; Flagged tokens are
// counted but exceeded the soft ceiling and should be logged by the caller.
type ParseReport struct {
	Skipped []string
	Flagged []string
}

// ParseActivities turns free-form text into a normalized activity mapping.
// Tokens are whitespace separated, 1-2 letters followed by digits, case
// insensitive. Invalid tokens are skipped, duplicate codes are summed, and
// an empty input yields an empty (non-nil) mapping — an explicit empty-day
// log. maxValue <= 0 falls back to DefaultMaxActivityValue.
func ParseActivities(text string, maxValue int) (Activities, ParseReport) {
	if maxValue <= 0 {
		maxValue = DefaultMaxActivityValue
	}

	activities := make(Activities)
	var report ParseReport

	for _, part := range strings.Fields(text) {
		m := tokenRe.FindStringSubmatch(part)
		if m == nil {
			report.Skipped = append(report.Skipped, part)
			continue
		}

		value, err := strconv.Atoi(m[2])
		if err != nil {
			// Digits too large for int; treat like any other bad token.
			report.Skipped = append(report.Skipped, part)
			continue
		}
		// The grammar cannot produce non-positive values; this guard stays
		// as a no-op filter should a signed extension ever land.
		if value <= 0 {
			report.Skipped = append(report.Skipped, part)
			continue
		}
		if value > maxValue {
			report.Flagged = append(report.Flagged, part)
		}

		code := ActivityCode(strings.ToUpper(m[1]))
		activities[code] += value
	}

	return activities, report
}
