package models

// UpdateStreak applies the streak transition for a new-day log dated day.
// The caller guards against same-day re-logs and edits; this only runs for
// genuinely new logging days.
//
// Continuity is defined purely by weekday coverage: every weekday strictly
// between the previous log date and day must have been logged, otherwise
// the streak resets to 1. Weekend logs neither extend nor break a streak.
func (u *UserProfile) UpdateStreak(day DayKey) {
	if u.LastLogDate == day {
		// Same-day relog slipped past the upstream guard: no change.
		return
	}

	if u.LastLogDate == "" {
		u.CurrentStreak = 1
	} else if last, err := u.LastLogDate.Date(); err != nil {
		u.CurrentStreak = 1
	} else if current, err := day.Date(); err != nil {
		u.CurrentStreak = 1
	} else {
		missedWeekdays := 0
		for t := last.AddDate(0, 0, 1); t.Before(current); t = t.AddDate(0, 0, 1) {
			if IsWeekday(t) {
				missedWeekdays++
			}
		}

		switch {
		case missedWeekdays > 0:
			u.CurrentStreak = 1
		case IsWeekday(current):
			u.CurrentStreak++
		default:
			// Weekend log: streak-neutral.
		}
	}

	if u.CurrentStreak > u.LongestStreak {
		u.LongestStreak = u.CurrentStreak
	}
	u.LastLogDate = day
	u.TotalLogs++
}
