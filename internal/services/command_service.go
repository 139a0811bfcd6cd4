package services

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strconv"
	"strings"
	"time"

	"abd/internal/models"
	"abd/internal/providers"
	"abd/internal/structures"
)

// apologyText is the only thing a user ever sees for an internal failure.
const apologyText = "😔 Something went wrong on my side and nothing was saved. Please try again in a moment."

const defaultHistoryWeeks = 4
const maxHistoryWeeks = 12
const analyticsLookbackWeeks = 4
const pairMinCount = 3

type CommandServiceInterface interface {
	Handle(event *structures.InboundEvent) *structures.CommandResult
}

// CommandService validates inbound events, talks to the ledger and renders
// user-facing replies. All text lives here; lower layers return data.
type CommandService struct {
	config  *structures.Config
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
	ledger  LedgerServiceInterface
	backup  SnapshotWriter
}

func NewCommandService(
	config *structures.Config,
	logger providers.Logger,
	metrics providers.MetricsProviderInterface,
	ledger LedgerServiceInterface,
	backup SnapshotWriter,
) CommandServiceInterface {
	return &CommandService{
		config:  config,
		logger:  logger,
		metrics: metrics,
		ledger:  ledger,
		backup:  backup,
	}
}

// Handle dispatches one inbound event and always returns a renderable
// result. Internal errors are logged and collapsed into the apology text.
func (cs *CommandService) Handle(event *structures.InboundEvent) *structures.CommandResult {
	started := time.Now()
	command := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(event.Command), "/"))
	args := strings.TrimSpace(event.Args)

	if event.ChatIsGroup && event.ChatID != "" {
		if err := cs.ledger.TouchGroupChat(event.ChatID, event.ChatName); err != nil {
			cs.logger.Errorf(providers.TypeCmd, "Cannot record group chat %s: %s", event.ChatID, err)
		}
	}

	var result *structures.CommandResult
	switch command {
	case "log":
		result = cs.handleLog(event, args)
	case "edit":
		result = cs.handleEdit(event, args)
	case "status":
		result = cs.handleStatus(event)
	case "history":
		result = cs.handleHistory(event, args)
	case "goals":
		result = cs.handleGoals(event, args)
	case "define":
		result = cs.handleDefine(event, args)
	case "template":
		result = cs.handleTemplate(event, args)
	case "reminder":
		result = cs.handleReminder(event, args)
	case "analytics":
		result = cs.handleAnalytics(event)
	case "level":
		result = cs.handleLevel(event)
	case "calendar":
		result = cs.handleCalendar(event, args)
	case "export":
		result = cs.handleExport(event)
	case "backup":
		result = cs.handleBackup(event)
	case "start":
		result = cs.handleStart(event)
	case "help":
		result = cs.handleHelp(args)
	case "quote":
		result = cs.handleQuote()
	default:
		result = fail(fmt.Sprintf("Unknown command %q. Try /help for the full list.", command))
	}

	cs.metrics.IncCommandsTotal(command, result.Success)
	cs.metrics.ObserveCommandDuration(command, time.Since(started))
	return result
}

func ok(text string) *structures.CommandResult {
	return &structures.CommandResult{Success: true, Text: text}
}

func fail(text string) *structures.CommandResult {
	return &structures.CommandResult{Success: false, Text: text}
}

func (cs *CommandService) apology(context string, err error) *structures.CommandResult {
	cs.logger.Errorf(providers.TypeCmd, "%s: %s", context, err)
	return fail(apologyText)
}

func (cs *CommandService) handleLog(event *structures.InboundEvent, args string) *structures.CommandResult {
	now := cs.ledger.Now()
	if !models.IsWeekday(now) {
		return fail("🛌 Weekends are rest days — no logging needed. See you on Monday!")
	}
	return cs.logForDay(event, args, now, true)
}

// logForDay is the shared tail of /log, /template use and /edit.
func (cs *CommandService) logForDay(event *structures.InboundEvent, args string, when time.Time, affectStreak bool) *structures.CommandResult {
	activities, report := models.ParseActivities(args, cs.config.Bot.MaxActivityValue)
	cs.metrics.AddParserSkips(len(report.Skipped))
	if len(report.Flagged) > 0 {
		cs.logger.Warnf(providers.TypeCmd, "User %s logged outsized values: %s", event.UserID, strings.Join(report.Flagged, " "))
	}

	outcome, err := cs.ledger.LogDay(event.UserID, event.Username, when, activities, LogOptions{
		ChatID:       event.ChatID,
		MessageID:    event.MessageID,
		AffectStreak: affectStreak,
	})
	if err != nil {
		return cs.apology("log failed", err)
	}
	if len(outcome.Clamped) > 0 {
		cs.logger.Warnf(providers.TypeCmd, "Totals clamped at zero for user %s codes %v", event.UserID, outcome.Clamped)
	}

	var b strings.Builder
	dayName := models.WeekdayOf(when).String()
	if len(activities) == 0 {
		fmt.Fprintf(&b, "📝 Noted an empty day for %s — showing up still counts.\n", dayName)
	} else {
		verb := "Logged"
		if !outcome.IsNewDay {
			verb = "Updated"
		}
		fmt.Fprintf(&b, "✅ %s for %s: %s (%d units)\n", verb, dayName, renderActivities(activities), activities.TotalUnits())
	}
	if len(report.Skipped) > 0 {
		fmt.Fprintf(&b, "⚠️ Skipped: %s\n", strings.Join(report.Skipped, " "))
	}

	if affectStreak {
		fmt.Fprintf(&b, "\n🔥 Streak: %d days", outcome.CurrentStreak)
		fmt.Fprintf(&b, "\n📅 This week: %d activities, %d units over %d weekdays\n",
			outcome.Quick.WeekActivities, outcome.Quick.WeekUnits, outcome.Quick.WeekDaysLogged)
		for _, a := range outcome.NewAchievements {
			fmt.Fprintf(&b, "\n🏆 Achievement unlocked: %s", a)
		}
	}

	return &structures.CommandResult{
		Success:         true,
		Text:            strings.TrimRight(b.String(), "\n"),
		NewAchievements: outcome.NewAchievements,
	}
}

func (cs *CommandService) handleEdit(event *structures.InboundEvent, args string) *structures.CommandResult {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return fail("Usage: /edit <today|yesterday|weekday|1-7> [activities]\nExample: /edit monday M20 S30")
	}

	now := cs.ledger.Now()
	window := cs.config.Bot.EditWindowDays
	target, err := models.ResolveEditDay(fields[0], now, window)
	if err != nil {
		return fail(fmt.Sprintf("🤔 %s", err))
	}
	if !models.IsWeekday(target) && strings.ToLower(fields[0]) != "today" {
		return fail("🛌 That day falls on a weekend — rest days are never edited.")
	}

	rest := strings.Join(fields[1:], " ")
	return cs.logForDay(event, rest, target, false)
}

func (cs *CommandService) handleStatus(event *structures.InboundEvent) *structures.CommandResult {
	doc := cs.ledger.Snapshot()
	now := cs.ledger.Now()
	week := models.WeekKeyOf(now)

	summary := models.WeeklySummary(doc, event.UserID, week)
	if len(summary) == 0 {
		return ok("📭 Nothing logged this week yet. Start with /log!")
	}

	var b strings.Builder
	b.WriteString("📊 This week so far:\n")
	total := 0
	for _, code := range summaryCodes(summary) {
		s := summary[code]
		total += s.Total
		fmt.Fprintf(&b, "  %s: %d units over %d days (best day %d)\n", code, s.Total, s.Days, s.Max)
	}
	fmt.Fprintf(&b, "\nTotal: %d units", total)
	return ok(b.String())
}

func (cs *CommandService) handleHistory(event *structures.InboundEvent, args string) *structures.CommandResult {
	weeks := defaultHistoryWeeks
	if args != "" {
		n, err := strconv.Atoi(args)
		if err != nil || n < 1 {
			return fail(fmt.Sprintf("Usage: /history [1-%d]", maxHistoryWeeks))
		}
		if n > maxHistoryWeeks {
			n = maxHistoryWeeks
		}
		weeks = n
	}

	doc := cs.ledger.Snapshot()
	now := cs.ledger.Now()
	user, known := doc.Users[event.UserID]
	if !known {
		return ok("📭 No history yet. Start with /log!")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📜 Last %d weeks:\n", weeks)
	for _, row := range models.ComputeHistory(doc, event.UserID, now, weeks) {
		fmt.Fprintf(&b, "  %s (%s): %d units over %d days",
			row.Week, row.Start.Format("Jan 2"), row.Units, row.DaysLogged)
		if len(row.Activities) > 0 {
			fmt.Fprintf(&b, " — %s", renderActivities(models.Activities(row.Activities)))
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "\nLifetime: %d logs, %d units, longest streak %d days",
		user.TotalLogs, user.TotalUnits(), user.LongestStreak)
	return ok(b.String())
}

func (cs *CommandService) handleGoals(event *structures.InboundEvent, args string) *structures.CommandResult {
	fields := strings.Fields(args)

	if len(fields) == 0 {
		return cs.renderGoals(event.UserID)
	}

	switch strings.ToLower(fields[0]) {
	case "set":
		if len(fields) != 3 {
			return fail("Usage: /goals set <code> <weekly target>\nExample: /goals set M 100")
		}
		code, err := models.NewActivityCode(fields[1])
		if err != nil {
			return fail(fmt.Sprintf("🤔 %s", err))
		}
		target, err := strconv.Atoi(fields[2])
		if err != nil || target < 1 {
			return fail("🤔 The weekly target must be a positive number.")
		}
		if err := cs.ledger.SetGoal(event.UserID, event.Username, code, target); err != nil {
			return cs.apology("goal set failed", err)
		}
		return ok(fmt.Sprintf("🎯 Goal set: %s — %d units per week.", code, target))

	case "remove":
		if len(fields) != 2 {
			return fail("Usage: /goals remove <code>")
		}
		code, err := models.NewActivityCode(fields[1])
		if err != nil {
			return fail(fmt.Sprintf("🤔 %s", err))
		}
		removed, err := cs.ledger.RemoveGoal(event.UserID, event.Username, code)
		if err != nil {
			return cs.apology("goal remove failed", err)
		}
		if !removed {
			return fail(fmt.Sprintf("No goal set for %s.", code))
		}
		return ok(fmt.Sprintf("🗑 Goal for %s removed.", code))

	default:
		return fail("Usage: /goals [set <code> <target> | remove <code>]")
	}
}

func (cs *CommandService) renderGoals(userID string) *structures.CommandResult {
	doc := cs.ledger.Snapshot()
	user, known := doc.Users[userID]
	if !known || len(user.Goals) == 0 {
		return ok("🎯 No goals set. Try /goals set M 100 for 100 units of M per week.")
	}

	week := models.WeekKeyOf(cs.ledger.Now())
	summary := models.WeeklySummary(doc, userID, week)

	var b strings.Builder
	b.WriteString("🎯 Weekly goals:\n")
	for _, code := range sortedCodes(user.Goals) {
		target := user.Goals[code]
		done := 0
		if s, ok := summary[code]; ok {
			done = s.Total
		}
		pct := done * 100 / target
		marker := "▫️"
		if done >= target {
			marker = "✅"
		}
		fmt.Fprintf(&b, "  %s %s: %d/%d (%d%%)\n", marker, code, done, target, pct)
	}
	return ok(strings.TrimRight(b.String(), "\n"))
}

func (cs *CommandService) handleDefine(event *structures.InboundEvent, args string) *structures.CommandResult {
	fields := strings.SplitN(args, " ", 2)

	if args == "" {
		doc := cs.ledger.Snapshot()
		user, known := doc.Users[event.UserID]
		if !known || len(user.ActivityDefinitions) == 0 {
			return ok("📖 No definitions yet. Try /define M meditation minutes.")
		}
		codes := make([]models.ActivityCode, 0, len(user.ActivityDefinitions))
		for code := range user.ActivityDefinitions {
			codes = append(codes, code)
		}
		sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })

		var b strings.Builder
		b.WriteString("📖 Your activity codes:\n")
		for _, code := range codes {
			fmt.Fprintf(&b, "  %s — %s\n", code, user.ActivityDefinitions[code])
		}
		return ok(strings.TrimRight(b.String(), "\n"))
	}

	if len(fields) < 2 || strings.TrimSpace(fields[1]) == "" {
		return fail("Usage: /define <code> <description>\nExample: /define M meditation minutes")
	}
	code, err := models.NewActivityCode(fields[0])
	if err != nil {
		return fail(fmt.Sprintf("🤔 %s", err))
	}
	description := strings.TrimSpace(fields[1])
	if err := cs.ledger.Define(event.UserID, event.Username, code, description); err != nil {
		return cs.apology("define failed", err)
	}
	return ok(fmt.Sprintf("📖 Defined %s as %q.", code, description))
}

func (cs *CommandService) handleTemplate(event *structures.InboundEvent, args string) *structures.CommandResult {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return fail("Usage: /template save <name> <activities> | use <name> | list | delete <name>")
	}

	switch strings.ToLower(fields[0]) {
	case "save":
		if len(fields) < 3 {
			return fail("Usage: /template save <name> <activities>\nExample: /template save morning M20 S30")
		}
		name := strings.ToLower(fields[1])
		text := strings.Join(fields[2:], " ")
		activities, report := models.ParseActivities(text, cs.config.Bot.MaxActivityValue)
		if len(activities) == 0 {
			return fail(fmt.Sprintf("🤔 %q contains no valid activities.", text))
		}
		if len(report.Skipped) > 0 {
			return fail(fmt.Sprintf("🤔 These tokens are not valid activities: %s", strings.Join(report.Skipped, " ")))
		}
		if err := cs.ledger.SaveTemplate(event.UserID, event.Username, name, text); err != nil {
			return cs.apology("template save failed", err)
		}
		return ok(fmt.Sprintf("💾 Template %q saved: %s", name, text))

	case "use":
		if len(fields) != 2 {
			return fail("Usage: /template use <name>")
		}
		name := strings.ToLower(fields[1])
		doc := cs.ledger.Snapshot()
		user, known := doc.Users[event.UserID]
		if !known {
			return fail(fmt.Sprintf("No template named %q.", name))
		}
		text, found := user.Templates[name]
		if !found {
			return fail(fmt.Sprintf("No template named %q. See /template list.", name))
		}
		return cs.handleLog(event, text)

	case "list":
		doc := cs.ledger.Snapshot()
		user, known := doc.Users[event.UserID]
		if !known || len(user.Templates) == 0 {
			return ok("💾 No templates saved. Try /template save morning M20 S30.")
		}
		names := make([]string, 0, len(user.Templates))
		for name := range user.Templates {
			names = append(names, name)
		}
		sort.Strings(names)

		var b strings.Builder
		b.WriteString("💾 Your templates:\n")
		for _, name := range names {
			fmt.Fprintf(&b, "  %s: %s\n", name, user.Templates[name])
		}
		return ok(strings.TrimRight(b.String(), "\n"))

	case "delete":
		if len(fields) != 2 {
			return fail("Usage: /template delete <name>")
		}
		name := strings.ToLower(fields[1])
		removed, err := cs.ledger.DeleteTemplate(event.UserID, event.Username, name)
		if err != nil {
			return cs.apology("template delete failed", err)
		}
		if !removed {
			return fail(fmt.Sprintf("No template named %q.", name))
		}
		return ok(fmt.Sprintf("🗑 Template %q deleted.", name))

	default:
		return fail("Usage: /template save <name> <activities> | use <name> | list | delete <name>")
	}
}

func (cs *CommandService) handleReminder(event *structures.InboundEvent, args string) *structures.CommandResult {
	switch strings.ToLower(args) {
	case "on":
		if err := cs.ledger.SetReminders(event.UserID, event.Username, true); err != nil {
			return cs.apology("reminder toggle failed", err)
		}
		return ok("🔔 Daily reminders are on.")
	case "off":
		if err := cs.ledger.SetReminders(event.UserID, event.Username, false); err != nil {
			return cs.apology("reminder toggle failed", err)
		}
		return ok("🔕 Daily reminders are off.")
	default:
		return fail("Usage: /reminder on|off")
	}
}

func (cs *CommandService) handleAnalytics(event *structures.InboundEvent) *structures.CommandResult {
	doc := cs.ledger.Snapshot()
	user, known := doc.Users[event.UserID]
	if !known || user.TotalLogs == 0 {
		return ok("📈 No data to analyze yet. Start with /log!")
	}

	now := cs.ledger.Now()
	current := models.WeekdayUnits(doc, event.UserID, models.WeekKeyOf(now))
	previous := models.WeekdayUnits(doc, event.UserID, models.WeekKeyOf(now.AddDate(0, 0, -7)))
	trend, change := models.WeeklyTrend(current, previous)

	var b strings.Builder
	b.WriteString("📈 Your analytics:\n\n")

	switch trend {
	case models.TrendFirstWeek:
		fmt.Fprintf(&b, "🌱 First week on record: %d units so far.\n", current)
	case models.TrendUp:
		fmt.Fprintf(&b, "📈 Trending up: %d units this week vs %d last week (%+.0f%%).\n", current, previous, change)
	case models.TrendDown:
		fmt.Fprintf(&b, "📉 Trending down: %d units this week vs %d last week (%+.0f%%).\n", current, previous, change)
	default:
		fmt.Fprintf(&b, "➡️ Holding steady: %d units this week vs %d last week.\n", current, previous)
	}

	if day, avg, ok := models.BestWeekday(doc, event.UserID, now, analyticsLookbackWeeks); ok {
		fmt.Fprintf(&b, "💪 Strongest day: %s, averaging %.1f units.\n", day, avg)
	}
	if pair, count, ok := models.TopActivityPair(doc, event.UserID, now, analyticsLookbackWeeks, pairMinCount); ok {
		fmt.Fprintf(&b, "🤝 %s and %s go together — logged jointly %d times.\n", pair.First, pair.Second, count)
	}

	fmt.Fprintf(&b, "📏 Average per logging day: %.1f units.\n", float64(user.TotalUnits())/float64(user.TotalLogs))

	score := models.LevelScore(user)
	fmt.Fprintf(&b, "🏅 Level: %s (score %.0f). See /level for the breakdown.", models.LevelName(score), score)
	return ok(b.String())
}

func (cs *CommandService) handleLevel(event *structures.InboundEvent) *structures.CommandResult {
	doc := cs.ledger.Snapshot()
	user, known := doc.Users[event.UserID]
	if !known {
		return ok("🏅 No level yet. Start with /log!")
	}

	score := models.LevelScore(user)

	var b strings.Builder
	fmt.Fprintf(&b, "🏅 Level: %s (score %.0f)\n\n", models.LevelName(score), score)
	fmt.Fprintf(&b, "  Units: %d × 0.5 = %.0f\n", user.TotalUnits(), 0.5*float64(user.TotalUnits()))
	fmt.Fprintf(&b, "  Longest streak: %d × 10 = %d\n", user.LongestStreak, 10*user.LongestStreak)
	fmt.Fprintf(&b, "  Logging days: %d × 2 = %d\n", user.TotalLogs, 2*user.TotalLogs)
	fmt.Fprintf(&b, "  Achievements: %d × 15 = %d\n", len(user.Achievements), 15*len(user.Achievements))

	if lower, next, more := models.NextTier(score); more {
		span := next - lower
		progress := (score - lower) * 100 / span
		fmt.Fprintf(&b, "\nNext level at %.0f points — %.0f%% of the way there.", next, progress)
	} else {
		b.WriteString("\nTop of the ladder. Legend status achieved!")
	}
	return ok(b.String())
}

func (cs *CommandService) handleCalendar(event *structures.InboundEvent, args string) *structures.CommandResult {
	now := cs.ledger.Now()
	year, month, err := parseCalendarArgs(args, now)
	if err != nil {
		return fail(fmt.Sprintf("🤔 %s", err))
	}

	doc := cs.ledger.Snapshot()
	monthKey := models.MonthKeyOf(time.Date(year, month, 1, 0, 0, 0, 0, now.Location()))
	states := models.ComputeCalendar(doc, event.UserID, monthKey)
	stats := models.ComputeMonthStats(doc, event.UserID, monthKey)

	first := time.Date(year, month, 1, 0, 0, 0, 0, now.Location())
	daysInMonth := first.AddDate(0, 1, -1).Day()

	var b strings.Builder
	fmt.Fprintf(&b, "🗓 %s %d\n", month, year)
	b.WriteString("Mo Tu We Th Fr Sa Su\n")

	offset := int(models.WeekdayOf(first))
	b.WriteString(strings.Repeat(" · ", offset))
	for dayOfMonth := 1; dayOfMonth <= daysInMonth; dayOfMonth++ {
		switch states[dayOfMonth] {
		case models.DayLogged:
			b.WriteString(" ✅")
		case models.DayEmptyLog:
			b.WriteString(" ⭕")
		case models.DayMissed:
			b.WriteString(" ❌")
		default:
			b.WriteString(" · ")
		}
		if (offset+dayOfMonth)%7 == 0 {
			b.WriteString("\n")
		}
	}

	fmt.Fprintf(&b, "\n\n%d days logged, %d units", stats.DaysLogged, stats.TotalUnits)
	if stats.DistinctCodes() > 0 {
		fmt.Fprintf(&b, " across %d activities", stats.DistinctCodes())
	}
	return ok(b.String())
}

func parseCalendarArgs(args string, now time.Time) (int, time.Month, error) {
	fields := strings.Fields(strings.ToLower(args))
	year := now.Year()
	month := now.Month()

	if len(fields) >= 1 {
		if n, err := strconv.Atoi(fields[0]); err == nil {
			if n < 1 || n > 12 {
				return 0, 0, fmt.Errorf("month must be 1-12")
			}
			month = time.Month(n)
		} else {
			found := false
			for m := time.January; m <= time.December; m++ {
				if strings.HasPrefix(strings.ToLower(m.String()), fields[0]) {
					month = m
					found = true
					break
				}
			}
			if !found {
				return 0, 0, fmt.Errorf("unknown month %q", fields[0])
			}
		}
	}
	if len(fields) >= 2 {
		n, err := strconv.Atoi(fields[1])
		if err != nil || n < 2000 || n > 2200 {
			return 0, 0, fmt.Errorf("year must be a four digit number")
		}
		year = n
	}
	return year, month, nil
}

func (cs *CommandService) handleExport(event *structures.InboundEvent) *structures.CommandResult {
	doc := cs.ledger.Snapshot()
	user, known := doc.Users[event.UserID]
	if !known {
		return ok("📦 Nothing to export yet. Start with /log!")
	}

	now := cs.ledger.Now()

	var b strings.Builder
	b.WriteString("📦 Your data export:\n\n")
	fmt.Fprintf(&b, "Member since: %s\n", user.JoinedDate.Format("2006-01-02"))
	fmt.Fprintf(&b, "Logging days: %d\n", user.TotalLogs)
	fmt.Fprintf(&b, "Current streak: %d (longest %d)\n", user.CurrentStreak, user.LongestStreak)
	fmt.Fprintf(&b, "Achievements: %d\n", len(user.Achievements))

	if len(user.ActivityTotals) > 0 {
		b.WriteString("\nLifetime totals:\n")
		for _, code := range user.ActivityTotals.SortedCodes() {
			fmt.Fprintf(&b, "  %s: %d units\n", code, user.ActivityTotals[code])
		}
	}

	if len(user.Goals) > 0 {
		b.WriteString("\nGoals:\n")
		for _, code := range sortedCodes(user.Goals) {
			fmt.Fprintf(&b, "  %s: %d per week\n", code, user.Goals[code])
		}
	}

	b.WriteString("\nRecent weeks:\n")
	for _, row := range models.ComputeHistory(doc, event.UserID, now, defaultHistoryWeeks) {
		fmt.Fprintf(&b, "  %s: %d units over %d days\n", row.Week, row.Units, row.DaysLogged)
	}
	return ok(strings.TrimRight(b.String(), "\n"))
}

func (cs *CommandService) handleBackup(event *structures.InboundEvent) *structures.CommandResult {
	admin := cs.config.Bot.AdminUsername
	if admin == "" || !strings.EqualFold(event.Username, admin) {
		return fail("⛔ Only the configured admin can trigger backups.")
	}

	path, err := cs.backup.Snapshot(cs.ledger.Snapshot())
	if err != nil {
		return cs.apology("manual backup failed", err)
	}
	if _, err := cs.backup.Prune(); err != nil {
		cs.logger.Errorf(providers.TypeCmd, "Backup pruning failed: %s", err)
	}
	return ok(fmt.Sprintf("💾 Backup written to %s", path))
}

func (cs *CommandService) handleStart(event *structures.InboundEvent) *structures.CommandResult {
	name := event.DisplayName
	if name == "" {
		name = event.Username
	}
	return ok(fmt.Sprintf(
		"👋 Hi %s! I keep your accountability ledger.\n\n"+
			"Log what you did today with short codes, e.g. /log M20 S30 for\n"+
			"20 units of M and 30 of S. Weekdays build your streak; weekends\n"+
			"are rest days. Try /help for everything I can do.", name))
}

var helpTopics = map[string]string{
	"log": "/log <activities> — record today.\n" +
		"Activities are 1-2 letters plus a number: M20 S30.\n" +
		"Duplicates add up (M20 M10 = M30). /log alone notes an empty day.",
	"edit": "/edit <day> [activities] — rewrite a past weekday.\n" +
		"Day is today, yesterday, a weekday name, or 1-7 (days ago).\n" +
		"Edits replace the whole day and never change your streak.",
	"goals":    "/goals — show progress. /goals set M 100 — aim for 100 units of M per week. /goals remove M.",
	"template": "/template save morning M20 S30, then /template use morning to log it. Also list, delete.",
	"analytics": "/analytics — weekly trend, strongest weekday, activity pairs and your level.\n" +
		"/level — the score breakdown. /calendar — the month grid.",
	"reminder": "/reminder on|off — daily evening nudge when you haven't logged.",
}

func (cs *CommandService) handleHelp(args string) *structures.CommandResult {
	topic := strings.ToLower(strings.TrimSpace(args))
	if text, ok2 := helpTopics[topic]; ok2 {
		return ok(text)
	}

	return ok("🤖 Commands:\n" +
		"  /log <activities> — record today (e.g. /log M20 S30)\n" +
		"  /edit <day> [activities] — fix a past weekday\n" +
		"  /status — this week so far\n" +
		"  /history [weeks] — past weeks\n" +
		"  /goals, /define, /template — targets, code meanings, shortcuts\n" +
		"  /analytics, /level, /calendar — insights\n" +
		"  /reminder on|off — daily nudges\n" +
		"  /export — your data as text\n" +
		"  /quote — a push when you need one\n\n" +
		"Use /help <command> for details.")
}

var quotes = []string{
	"The secret of getting ahead is getting started.",
	"Small daily improvements are the key to staggering long-term results.",
	"You don't have to be great to start, but you have to start to be great.",
	"Discipline is choosing between what you want now and what you want most.",
	"Success is the sum of small efforts, repeated day in and day out.",
	"Motivation gets you going, habit keeps you growing.",
	"A year from now you may wish you had started today.",
}

func (cs *CommandService) handleQuote() *structures.CommandResult {
	// Hash today's date so the whole group sees the same quote all day,
	// without consecutive days walking the list in order.
	h := fnv.New32a()
	_, _ = h.Write([]byte(models.DayKeyOf(cs.ledger.Now())))
	idx := int(h.Sum32() % uint32(len(quotes)))
	return ok(fmt.Sprintf("💬 %s", quotes[idx]))
}

func renderActivities(a models.Activities) string {
	parts := make([]string, 0, len(a))
	for _, code := range a.SortedCodes() {
		parts = append(parts, fmt.Sprintf("%s:%d", code, a[code]))
	}
	return strings.Join(parts, ", ")
}

func summaryCodes(m map[models.ActivityCode]*models.ActivitySummary) []models.ActivityCode {
	codes := make([]models.ActivityCode, 0, len(m))
	for code := range m {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}
