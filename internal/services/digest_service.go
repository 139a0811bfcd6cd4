package services

import (
	"fmt"
	"sort"
	"strings"

	"abd/internal/models"
	"abd/internal/providers"
	"abd/internal/structures"
)

type DigestServiceInterface interface {
	SendWeeklyDigest() error
	SendMondayKickoff() error
	SendDailyReminders() (int, error)
}

// DigestService builds and fans out the scheduled broadcasts. Delivery is
// best effort: one unreachable recipient never blocks the rest.
type DigestService struct {
	config      *structures.Config
	logger      providers.Logger
	metrics     providers.MetricsProviderInterface
	ledger      LedgerServiceInterface
	broadcaster providers.BroadcasterInterface
}

func NewDigestService(
	config *structures.Config,
	logger providers.Logger,
	metrics providers.MetricsProviderInterface,
	ledger LedgerServiceInterface,
	broadcaster providers.BroadcasterInterface,
) DigestServiceInterface {
	return &DigestService{
		config:      config,
		logger:      logger,
		metrics:     metrics,
		ledger:      ledger,
		broadcaster: broadcaster,
	}
}

// SendWeeklyDigest posts the closing summary of the current ISO week to
// every known group chat, then DMs each participant their breakdown.
func (ds *DigestService) SendWeeklyDigest() error {
	doc := ds.ledger.Snapshot()
	week := models.WeekKeyOf(ds.ledger.Now())
	stats := models.ComputeWeekStats(doc, week)

	digest := ds.BuildWeeklyDigest(stats)
	ds.sendToGroups(doc, digest)

	userIDs := make([]string, 0, len(stats.Users))
	for id := range stats.Users {
		userIDs = append(userIDs, id)
	}
	sort.Strings(userIDs)

	for _, userID := range userIDs {
		text := ds.BuildUserBreakdown(doc, userID, week)
		if err := ds.broadcaster.SendToUser(userID, text); err != nil {
			ds.metrics.IncBroadcastFailures()
			ds.logger.Errorf(providers.TypeJob, "Cannot deliver weekly breakdown to %s: %s", userID, err)
		}
	}
	return nil
}

// BuildWeeklyDigest renders the group-wide weekly summary.
func (ds *DigestService) BuildWeeklyDigest(stats *models.WeekStats) string {
	var b strings.Builder
	b.WriteString("📊 Weekly Digest\n\n")

	if len(stats.Users) == 0 {
		b.WriteString("No activity logged this week. Fresh start on Monday!")
		return b.String()
	}

	if stats.Leader != "" {
		fmt.Fprintf(&b, "🏆 Leader of the week: %s with %d units\n", stats.Leader, stats.MaxUnits)
	}

	if len(stats.PerfectAttendance) > 0 {
		names := append([]string(nil), stats.PerfectAttendance...)
		sort.Strings(names)
		fmt.Fprintf(&b, "⭐ Perfect attendance: %s\n", strings.Join(names, ", "))
	}

	b.WriteString("\nGroup totals:\n")
	for _, code := range sortedCodes(stats.ActivityTotals) {
		fmt.Fprintf(&b, "  %s: %d units\n", code, stats.ActivityTotals[code])
	}
	return b.String()
}

// BuildUserBreakdown renders one user's personal weekly summary.
func (ds *DigestService) BuildUserBreakdown(doc *models.Document, userID string, week models.WeekKey) string {
	user, ok := doc.Users[userID]
	if !ok {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Your week, %s:\n\n", user.Username)

	summary := models.WeeklySummary(doc, userID, week)
	if len(summary) == 0 {
		b.WriteString("No activities logged this week.\n")
	}
	codes := make([]models.ActivityCode, 0, len(summary))
	for code := range summary {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	for _, code := range codes {
		s := summary[code]
		fmt.Fprintf(&b, "  %s: %d units over %d days (best day %d)\n", code, s.Total, s.Days, s.Max)
	}

	if record, found := doc.Week(week, userID); found && len(record.Logs) > 0 {
		days := make([]models.DayKey, 0, len(record.Logs))
		for day := range record.Logs {
			days = append(days, day)
		}
		sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })

		b.WriteString("\nDay by day:\n")
		for _, day := range days {
			if acts := record.Logs[day]; len(acts) == 0 {
				fmt.Fprintf(&b, "  %s: rest note\n", day.Weekday())
			} else {
				fmt.Fprintf(&b, "  %s: %s\n", day.Weekday(), renderActivities(acts))
			}
		}
	}

	fmt.Fprintf(&b, "\n🔥 Current streak: %d days (longest %d)\n", user.CurrentStreak, user.LongestStreak)

	if len(user.Goals) > 0 {
		b.WriteString("\nGoals:\n")
		for _, code := range sortedCodes(user.Goals) {
			target := user.Goals[code]
			done := 0
			if s, ok := summary[code]; ok {
				done = s.Total
			}
			marker := "▫️"
			if done >= target {
				marker = "✅"
			}
			fmt.Fprintf(&b, "  %s %s: %d/%d\n", marker, code, done, target)
		}
	}
	return b.String()
}

// SendMondayKickoff posts the week-opening message to all group chats.
func (ds *DigestService) SendMondayKickoff() error {
	doc := ds.ledger.Snapshot()
	ds.sendToGroups(doc, ds.BuildMondayKickoff(doc))
	return nil
}

// BuildMondayKickoff renders the Monday morning message with everyone's
// current streaks so the week starts with the scoreboard visible.
func (ds *DigestService) BuildMondayKickoff(doc *models.Document) string {
	var b strings.Builder
	b.WriteString("🌅 New week, new chances! Log your first activity today.\n")

	type entry struct {
		name   string
		streak int
	}
	entries := make([]entry, 0, len(doc.Users))
	for _, user := range doc.Users {
		if user.CurrentStreak > 0 {
			entries = append(entries, entry{user.Username, user.CurrentStreak})
		}
	}
	if len(entries) == 0 {
		return b.String()
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].streak != entries[j].streak {
			return entries[i].streak > entries[j].streak
		}
		return entries[i].name < entries[j].name
	})

	b.WriteString("\nActive streaks:\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "  🔥 %s: %d days\n", e.name, e.streak)
	}
	return b.String()
}

// SendDailyReminders DMs every opted-in user who has not logged today.
// Returns how many reminders went out.
func (ds *DigestService) SendDailyReminders() (int, error) {
	doc := ds.ledger.Snapshot()
	now := ds.ledger.Now()
	week := models.WeekKeyOf(now)
	today := models.DayKeyOf(now)

	userIDs := make([]string, 0, len(doc.Users))
	for id := range doc.Users {
		userIDs = append(userIDs, id)
	}
	sort.Strings(userIDs)

	sent := 0
	for _, userID := range userIDs {
		user := doc.Users[userID]
		if !user.RemindersEnabled {
			continue
		}
		if record, ok := doc.Week(week, userID); ok {
			if _, logged := record.Logs[today]; logged {
				continue
			}
		}

		text := fmt.Sprintf("👋 %s, you haven't logged anything today. A quick /log keeps the streak alive!", user.Username)
		if user.CurrentStreak > 0 {
			text = fmt.Sprintf("👋 %s, your %d-day streak is waiting — log today's activities with /log!", user.Username, user.CurrentStreak)
		}
		if err := ds.broadcaster.SendToUser(userID, text); err != nil {
			ds.metrics.IncBroadcastFailures()
			ds.logger.Errorf(providers.TypeJob, "Cannot deliver reminder to %s: %s", userID, err)
			continue
		}
		sent++
	}
	return sent, nil
}

func (ds *DigestService) sendToGroups(doc *models.Document, text string) {
	chatIDs := make([]string, 0, len(doc.GroupChats))
	for id := range doc.GroupChats {
		chatIDs = append(chatIDs, id)
	}
	sort.Strings(chatIDs)

	for _, chatID := range chatIDs {
		if err := ds.broadcaster.SendToChat(chatID, text); err != nil {
			ds.metrics.IncBroadcastFailures()
			ds.logger.Errorf(providers.TypeJob, "Cannot deliver broadcast to chat %s: %s", chatID, err)
		}
	}
}

func sortedCodes(m map[models.ActivityCode]int) []models.ActivityCode {
	codes := make([]models.ActivityCode, 0, len(m))
	for code := range m {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}
