package models

import (
	"fmt"
	"time"
)

// Badge keys are permanent once awarded; re-evaluation never removes one.
const (
	BadgeStreak7   = "streak_7"
	BadgeStreak14  = "streak_14"
	BadgeStreak30  = "streak_30"
	BadgeTotal100  = "total_100"
	BadgeTotal500  = "total_500"
	BadgeTotal1000 = "total_1000"
	BadgeEarlyBird = "early_bird"
	// First-month is a lifetime badge, unlike the other monthly milestones
	// which are keyed per month. Intentional asymmetry.
	BadgeFirstMonth = "first_month"
)

var streakBadges = []struct {
	Threshold int
	Key       string
	Text      string
}{
	{7, BadgeStreak7, "7-Day Streak Master!"},
	{14, BadgeStreak14, "2-Week Consistency Champion!"},
	{30, BadgeStreak30, "30-Day Streak Legend!"},
}

var totalBadges = []struct {
	Threshold int
	Key       string
	Text      string
}{
	{100, BadgeTotal100, "Century Club!"},
	{500, BadgeTotal500, "500 Units Superstar!"},
	{1000, BadgeTotal1000, "1000 Units Hall of Fame!"},
}

func (u *UserProfile) award(key, text string, earned *[]string) {
	if u.HasAchievement(key) {
		return
	}
	u.Achievements = append(u.Achievements, key)
	*earned = append(*earned, text)
}

// EvaluateAchievements awards every badge whose condition is newly met and
// returns the descriptions of the new ones, in award order. Idempotent:
// a second evaluation with no new activity returns nothing.
func EvaluateAchievements(d *Document, userID string, now time.Time) []string {
	user, ok := d.Users[userID]
	if !ok {
		return nil
	}

	earned := make([]string, 0)

	for _, b := range streakBadges {
		if user.CurrentStreak >= b.Threshold {
			user.award(b.Key, b.Text, &earned)
		}
	}

	totalUnits := user.TotalUnits()
	for _, b := range totalBadges {
		if totalUnits >= b.Threshold {
			user.award(b.Key, b.Text, &earned)
		}
	}

	if now.Hour() < 9 {
		user.award(BadgeEarlyBird, "Early Bird!", &earned)
	}

	month := MonthKeyOf(now)
	stats := ComputeMonthStats(d, userID, month)
	monthKey := fmt.Sprintf("monthly_%s", month)

	if stats.DaysLogged >= 5 {
		user.award(BadgeFirstMonth, "First Month Warrior!", &earned)
	}
	if stats.DaysLogged >= 20 {
		user.award(monthKey+"_consistent", "Monthly Consistency Champion!", &earned)
	}
	if stats.DistinctCodes() >= 5 {
		user.award(monthKey+"_variety", "Activity Variety Master!", &earned)
	}
	if stats.TotalUnits >= 1000 {
		user.award(monthKey+"_powerhouse", "Monthly Powerhouse!", &earned)
	}

	return earned
}
