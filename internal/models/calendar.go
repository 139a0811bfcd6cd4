package models

// DayState classifies a calendar day for the month grid.
type DayState int

const (
	DayNone DayState = iota
	DayLogged
	DayEmptyLog
	DayMissed
)

// ComputeCalendar classifies every day-of-month the ledger knows about:
// logged with units, explicit empty-day log, or swept as missed. Days the
// map does not mention were simply never touched.
func ComputeCalendar(d *Document, userID string, month MonthKey) map[int]DayState {
	states := make(map[int]DayState)

	stats := ComputeMonthStats(d, userID, month)
	for dayOfMonth, units := range stats.DayUnits {
		if units > 0 {
			states[dayOfMonth] = DayLogged
		} else {
			states[dayOfMonth] = DayEmptyLog
		}
	}

	for _, records := range d.WeeklyLogs {
		record, ok := records[userID]
		if !ok {
			continue
		}
		for _, missed := range record.MissedDays {
			if missed.MonthKey() != month {
				continue
			}
			date, err := missed.Date()
			if err != nil {
				continue
			}
			// A logged day can never also be missed.
			if _, logged := states[date.Day()]; !logged {
				states[date.Day()] = DayMissed
			}
		}
	}
	return states
}
