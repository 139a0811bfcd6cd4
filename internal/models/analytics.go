package models

import (
	"sort"
	"time"
)

// ActivitySummary aggregates one activity across a week: how many days it
// was logged, the highest single-day value, and the weekly total.
type ActivitySummary struct {
	Days  int `json:"days"`
	Max   int `json:"max"`
	Total int `json:"total"`
}

// WeeklySummary groups a user's week logs by activity code. Every present
// day counts, weekends included — this view is about what was done, not
// about attendance.
func WeeklySummary(d *Document, userID string, week WeekKey) map[ActivityCode]*ActivitySummary {
	summary := make(map[ActivityCode]*ActivitySummary)
	record, ok := d.Week(week, userID)
	if !ok {
		return summary
	}
	for _, daily := range record.Logs {
		for code, value := range daily {
			s, ok := summary[code]
			if !ok {
				s = &ActivitySummary{}
				summary[code] = s
			}
			s.Days++
			s.Total += value
			if value > s.Max {
				s.Max = value
			}
		}
	}
	return summary
}

// UserWeekStats is one user's slice of the all-user weekly stats.
type UserWeekStats struct {
	Username       string               `json:"username"`
	TotalUnits     int                  `json:"total_units"`
	Activities     map[ActivityCode]int `json:"activities"`
	WeekdaysLogged int                  `json:"weekdays_logged"`
	MissedDays     []DayKey             `json:"missed_days"`
	Logs           map[DayKey]Activities `json:"logs"`
}

// WeekStats is the group-wide weekly picture used by digests and the
// leaderboard. Leader selection is deterministic: highest total units,
// ties broken by lowest user id.
type WeekStats struct {
	Users             map[string]*UserWeekStats `json:"users"`
	ActivityTotals    map[ActivityCode]int      `json:"activity_totals"`
	LeaderID          string                    `json:"leader_id,omitempty"`
	Leader            string                    `json:"leader,omitempty"`
	MaxUnits          int                       `json:"max_units"`
	PerfectAttendance []string                  `json:"perfect_attendance"`
}

// ComputeWeekStats builds per-user and group totals for one ISO week.
func ComputeWeekStats(d *Document, week WeekKey) *WeekStats {
	stats := &WeekStats{
		Users:             make(map[string]*UserWeekStats),
		ActivityTotals:    make(map[ActivityCode]int),
		PerfectAttendance: make([]string, 0),
	}

	records, ok := d.WeeklyLogs[week]
	if !ok {
		return stats
	}

	userIDs := make([]string, 0, len(records))
	for id := range records {
		if _, known := d.Users[id]; known {
			userIDs = append(userIDs, id)
		}
	}
	sort.Strings(userIDs)

	for _, userID := range userIDs {
		record := records[userID]
		profile := d.Users[userID]

		us := &UserWeekStats{
			Username:       profile.Username,
			Activities:     make(map[ActivityCode]int),
			WeekdaysLogged: record.WeekdaysLogged(),
			MissedDays:     record.MissedDays,
			Logs:           record.Logs,
		}

		for _, daily := range record.Logs {
			for code, value := range daily {
				us.TotalUnits += value
				us.Activities[code] += value
				stats.ActivityTotals[code] += value
			}
		}

		if us.WeekdaysLogged == 5 && len(record.MissedDays) == 0 {
			stats.PerfectAttendance = append(stats.PerfectAttendance, profile.Username)
		}

		// Strict greater-than over ids in ascending order: ties keep the
		// lowest user id.
		if us.TotalUnits > stats.MaxUnits {
			stats.MaxUnits = us.TotalUnits
			stats.LeaderID = userID
			stats.Leader = profile.Username
		}

		stats.Users[userID] = us
	}

	return stats
}

// WeekdayUnits sums a user's units for one week, weekdays only.
func WeekdayUnits(d *Document, userID string, week WeekKey) int {
	record, ok := d.Week(week, userID)
	if !ok {
		return 0
	}
	total := 0
	for day, daily := range record.Logs {
		if day.IsWorkday() {
			total += daily.TotalUnits()
		}
	}
	return total
}

// Trend labels the week-over-week movement of a user's unit volume.
type Trend string

const (
	TrendUp        Trend = "trending_up"
	TrendDown      Trend = "trending_down"
	TrendSteady    Trend = "steady"
	TrendFirstWeek Trend = "first_week"
)

// WeeklyTrend compares current against previous week units. A zero
// previous week reports TrendFirstWeek instead of a percentage.
func WeeklyTrend(current, previous int) (Trend, float64) {
	if previous == 0 {
		return TrendFirstWeek, 0
	}
	change := (float64(current-previous) / float64(previous)) * 100
	switch {
	case change > 5:
		return TrendUp, change
	case change < -5:
		return TrendDown, change
	default:
		return TrendSteady, change
	}
}

// BestWeekday finds the weekday with the highest average daily units over
// the lookback window. Ties resolve to the earlier weekday. ok is false
// when no weekday data exists at all.
func BestWeekday(d *Document, userID string, now time.Time, lookbackWeeks int) (day Weekday, avg float64, ok bool) {
	var sums, counts [5]int

	for i := 0; i < lookbackWeeks; i++ {
		week := WeekKeyOf(now.AddDate(0, 0, -7*i))
		record, exists := d.Week(week, userID)
		if !exists {
			continue
		}
		for dayKey, daily := range record.Logs {
			wd := dayKey.Weekday()
			if !wd.IsWorkday() {
				continue
			}
			sums[wd] += daily.TotalUnits()
			counts[wd]++
		}
	}

	best := -1.0
	for wd := Monday; wd <= Friday; wd++ {
		if counts[wd] == 0 {
			continue
		}
		a := float64(sums[wd]) / float64(counts[wd])
		if a > best {
			best = a
			day = wd
			avg = a
			ok = true
		}
	}
	return day, avg, ok
}

// ActivityPair is an unordered pair of distinct codes, First < Second.
type ActivityPair struct {
	First  ActivityCode `json:"first"`
	Second ActivityCode `json:"second"`
}

// TopActivityPair counts, per logged day in the lookback window, every
// unordered pair of codes present together, and returns the most frequent
// pair when it occurred at least minCount times. Ties resolve
// lexicographically.
func TopActivityPair(d *Document, userID string, now time.Time, lookbackWeeks, minCount int) (ActivityPair, int, bool) {
	counts := make(map[ActivityPair]int)

	for i := 0; i < lookbackWeeks; i++ {
		week := WeekKeyOf(now.AddDate(0, 0, -7*i))
		record, exists := d.Week(week, userID)
		if !exists {
			continue
		}
		for _, daily := range record.Logs {
			codes := daily.SortedCodes()
			for a := 0; a < len(codes); a++ {
				for b := a + 1; b < len(codes); b++ {
					counts[ActivityPair{First: codes[a], Second: codes[b]}]++
				}
			}
		}
	}

	var top ActivityPair
	topCount := 0
	for pair, count := range counts {
		if count > topCount || (count == topCount && count > 0 && lessPair(pair, top)) {
			top = pair
			topCount = count
		}
	}
	if topCount < minCount {
		return ActivityPair{}, 0, false
	}
	return top, topCount, true
}

func lessPair(a, b ActivityPair) bool {
	if a.First != b.First {
		return a.First < b.First
	}
	return a.Second < b.Second
}

// MonthStats aggregates a user's logs within one calendar month.
type MonthStats struct {
	DaysLogged int                  `json:"days_logged"`
	TotalUnits int                  `json:"total_units"`
	Codes      map[ActivityCode]int `json:"codes"`
	// DayUnits maps day-of-month to that day's units; present for every
	// logged day, including explicit empty-day logs (value 0).
	DayUnits map[int]int `json:"day_units"`
}

// DistinctCodes is the number of different activity codes seen in-month.
func (m *MonthStats) DistinctCodes() int {
	return len(m.Codes)
}

// ComputeMonthStats scans all weeks for the user's logs falling in month.
func ComputeMonthStats(d *Document, userID string, month MonthKey) *MonthStats {
	stats := &MonthStats{
		Codes:    make(map[ActivityCode]int),
		DayUnits: make(map[int]int),
	}
	for _, records := range d.WeeklyLogs {
		record, ok := records[userID]
		if !ok {
			continue
		}
		for dayKey, daily := range record.Logs {
			if dayKey.MonthKey() != month {
				continue
			}
			date, err := dayKey.Date()
			if err != nil {
				continue
			}
			stats.DaysLogged++
			stats.DayUnits[date.Day()] = daily.TotalUnits()
			for code, value := range daily {
				stats.TotalUnits += value
				stats.Codes[code] += value
			}
		}
	}
	return stats
}

// QuickStats is the short feedback block attached to log confirmations.
type QuickStats struct {
	TodayActivities int `json:"today_activities"`
	TodayUnits      int `json:"today_units"`
	WeekActivities  int `json:"week_activities"`
	WeekUnits       int `json:"week_units"`
	WeekDaysLogged  int `json:"week_days_logged"`
}

// ComputeQuickStats summarizes today and the current ISO week.
func ComputeQuickStats(d *Document, userID string, now time.Time) QuickStats {
	var qs QuickStats
	record, ok := d.Week(WeekKeyOf(now), userID)
	if !ok {
		return qs
	}

	today := DayKeyOf(now)
	if daily, logged := record.Logs[today]; logged {
		qs.TodayActivities = len(daily)
		qs.TodayUnits = daily.TotalUnits()
	}

	qs.WeekDaysLogged = record.WeekdaysLogged()
	for _, daily := range record.Logs {
		qs.WeekActivities += len(daily)
		qs.WeekUnits += daily.TotalUnits()
	}
	return qs
}

// LevelScore is the weighted composite the level tiers bucket.
func LevelScore(u *UserProfile) float64 {
	return 0.5*float64(u.TotalUnits()) +
		10*float64(u.LongestStreak) +
		2*float64(u.TotalLogs) +
		15*float64(len(u.Achievements))
}

var levelTiers = []struct {
	Threshold float64
	Name      string
}{
	{50, "Beginner"},
	{150, "Explorer"},
	{300, "Achiever"},
	{500, "Champion"},
	{750, "Master"},
}

const topTierName = "Legend"

// LevelName buckets a score into its named tier.
func LevelName(score float64) string {
	for _, tier := range levelTiers {
		if score < tier.Threshold {
			return tier.Name
		}
	}
	return topTierName
}

// NextTier returns the lower bound of the current tier and the threshold
// for the next one; ok is false at the top tier.
func NextTier(score float64) (current, next float64, ok bool) {
	current = 0
	for _, tier := range levelTiers {
		if score < tier.Threshold {
			return current, tier.Threshold, true
		}
		current = tier.Threshold
	}
	return current, 0, false
}

// WeekHistory is one row of the /history view.
type WeekHistory struct {
	Week       WeekKey              `json:"week"`
	Start      time.Time            `json:"start"`
	End        time.Time            `json:"end"`
	DaysLogged int                  `json:"days_logged"`
	Units      int                  `json:"units"`
	Activities map[ActivityCode]int `json:"activities"`
}

// ComputeHistory returns the last weeks of weekday activity, newest first.
func ComputeHistory(d *Document, userID string, now time.Time, weeks int) []WeekHistory {
	history := make([]WeekHistory, 0, weeks)
	for i := 0; i < weeks; i++ {
		anchor := now.AddDate(0, 0, -7*i)
		start := WeekStart(anchor)
		row := WeekHistory{
			Week:       WeekKeyOf(anchor),
			Start:      start,
			End:        start.AddDate(0, 0, 4),
			Activities: make(map[ActivityCode]int),
		}
		if record, ok := d.Week(row.Week, userID); ok {
			for dayKey, daily := range record.Logs {
				if !dayKey.IsWorkday() {
					continue
				}
				row.DaysLogged++
				for code, value := range daily {
					row.Units += value
					row.Activities[code] += value
				}
			}
		}
		history = append(history, row)
	}
	return history
}
