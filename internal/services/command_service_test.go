package services

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"abd/internal/structures"
	"abd/internal/testutil"
)

type commandFixture struct {
	service CommandServiceInterface
	ledger  *LedgerService
	store   *testutil.MockStore
	metrics *testutil.MockMetrics
	logger  *testutil.MockLogger
	backup  *testutil.MockSnapshotWriter
}

func newCommandFixture(t *testing.T, clock time.Time) *commandFixture {
	t.Helper()
	conf := serviceConfig()
	conf.Bot.AdminUsername = "admin"

	store := testutil.NewMockStore()
	metrics := testutil.NewMockMetrics()
	logger := &testutil.MockLogger{}
	ledgerSvc := NewLedgerService(conf, logger, metrics, store).(*LedgerService)
	ledgerSvc.now = func() time.Time { return clock }
	require.NoError(t, ledgerSvc.Restore())

	backup := &testutil.MockSnapshotWriter{}
	return &commandFixture{
		service: NewCommandService(conf, logger, metrics, ledgerSvc, backup),
		ledger:  ledgerSvc,
		store:   store,
		metrics: metrics,
		logger:  logger,
		backup:  backup,
	}
}

func event(command, args string) *structures.InboundEvent {
	return &structures.InboundEvent{
		UserID:   "1",
		Username: "alice",
		Command:  command,
		Args:     args,
	}
}

func TestCommandService_LogHappyPath(t *testing.T) {
	f := newCommandFixture(t, at("2026-08-25", 10)) // Tuesday

	result := f.service.Handle(event("/log", "M20 S30"))
	require.True(t, result.Success)
	assert.Contains(t, result.Text, "Logged for Tuesday")
	assert.Contains(t, result.Text, "M:20, S:30")
	assert.Contains(t, result.Text, "50 units")
	assert.Contains(t, result.Text, "Streak: 1 days")
	assert.Equal(t, 1, f.metrics.Commands["log"])
}

func TestCommandService_LogOnWeekendIsRejected(t *testing.T) {
	f := newCommandFixture(t, at("2026-08-29", 10)) // Saturday

	result := f.service.Handle(event("/log", "M20"))
	assert.False(t, result.Success)
	assert.Contains(t, result.Text, "rest days")
	assert.Empty(t, f.ledger.Snapshot().Users)
}

func TestCommandService_LogEmptyDay(t *testing.T) {
	f := newCommandFixture(t, at("2026-08-25", 10))

	result := f.service.Handle(event("/log", ""))
	require.True(t, result.Success)
	assert.Contains(t, result.Text, "empty day")
	assert.Contains(t, result.Text, "Streak: 1 days")
}

func TestCommandService_LogReportsSkippedTokens(t *testing.T) {
	f := newCommandFixture(t, at("2026-08-25", 10))

	result := f.service.Handle(event("/log", "M20 banana S30"))
	require.True(t, result.Success)
	assert.Contains(t, result.Text, "Skipped: banana")
	assert.Equal(t, 1, f.metrics.ParserSkips)
}

func TestCommandService_LogSaveFailureApologizes(t *testing.T) {
	f := newCommandFixture(t, at("2026-08-25", 10))
	f.store.FailSave = errors.New("disk full")

	result := f.service.Handle(event("/log", "M20"))
	assert.False(t, result.Success)
	assert.Equal(t, apologyText, result.Text)
	assert.Empty(t, result.NewAchievements)
	assert.Equal(t, 1, f.metrics.FailedCommands["log"])
	assert.True(t, f.logger.HasLevel("error"))
}

func TestCommandService_EditPastWeekday(t *testing.T) {
	f := newCommandFixture(t, at("2026-08-26", 10)) // Wednesday

	require.True(t, f.service.Handle(event("/log", "M10")).Success)

	result := f.service.Handle(&structures.InboundEvent{
		UserID: "1", Username: "alice", Command: "/edit", Args: "monday M20 S30",
		ChatID: "c1", MessageID: "77",
	})
	require.True(t, result.Success)
	assert.Contains(t, result.Text, "Monday")
	assert.NotContains(t, result.Text, "Streak")

	doc := f.ledger.Snapshot()
	assert.Equal(t, 1, doc.Users["1"].CurrentStreak)
	assert.Contains(t, doc.EditedLogs["1"], "c1:77")
}

func TestCommandService_EditWeekendTargetRejected(t *testing.T) {
	f := newCommandFixture(t, at("2026-08-24", 10)) // Monday; 2 days ago is Saturday

	result := f.service.Handle(event("/edit", "saturday M20"))
	assert.False(t, result.Success)
	assert.Contains(t, result.Text, "weekend")
}

func TestCommandService_EditUsage(t *testing.T) {
	f := newCommandFixture(t, at("2026-08-25", 10))

	result := f.service.Handle(event("/edit", ""))
	assert.False(t, result.Success)
	assert.Contains(t, result.Text, "Usage: /edit")
}

func TestCommandService_StatusEmptyAndPopulated(t *testing.T) {
	f := newCommandFixture(t, at("2026-08-25", 10))

	result := f.service.Handle(event("/status", ""))
	require.True(t, result.Success)
	assert.Contains(t, result.Text, "Nothing logged")

	f.service.Handle(event("/log", "M20 S30"))
	result = f.service.Handle(event("/status", ""))
	require.True(t, result.Success)
	assert.Contains(t, result.Text, "M: 20 units over 1 days")
	assert.Contains(t, result.Text, "Total: 50 units")
}

func TestCommandService_History(t *testing.T) {
	f := newCommandFixture(t, at("2026-08-25", 10))
	f.service.Handle(event("/log", "M20"))

	result := f.service.Handle(event("/history", ""))
	require.True(t, result.Success)
	assert.Contains(t, result.Text, "Last 4 weeks")
	assert.Contains(t, result.Text, "2026-W35")
	assert.Contains(t, result.Text, "Lifetime: 1 logs, 20 units")

	result = f.service.Handle(event("/history", "99"))
	require.True(t, result.Success)
	assert.Contains(t, result.Text, "Last 12 weeks")

	result = f.service.Handle(event("/history", "zero"))
	assert.False(t, result.Success)
}

func TestCommandService_GoalsFlow(t *testing.T) {
	f := newCommandFixture(t, at("2026-08-25", 10))

	require.True(t, f.service.Handle(event("/goals", "set M 100")).Success)
	f.service.Handle(event("/log", "M60"))

	result := f.service.Handle(event("/goals", ""))
	require.True(t, result.Success)
	assert.Contains(t, result.Text, "M: 60/100 (60%)")

	require.True(t, f.service.Handle(event("/goals", "remove M")).Success)
	result = f.service.Handle(event("/goals", "remove M"))
	assert.False(t, result.Success)

	result = f.service.Handle(event("/goals", "set M zero"))
	assert.False(t, result.Success)
}

func TestCommandService_DefineFlow(t *testing.T) {
	f := newCommandFixture(t, at("2026-08-25", 10))

	result := f.service.Handle(event("/define", "M meditation minutes"))
	require.True(t, result.Success)
	assert.Contains(t, result.Text, `Defined M as "meditation minutes"`)

	result = f.service.Handle(event("/define", ""))
	require.True(t, result.Success)
	assert.Contains(t, result.Text, "M — meditation minutes")

	result = f.service.Handle(event("/define", "M"))
	assert.False(t, result.Success)
}

func TestCommandService_TemplateFlow(t *testing.T) {
	f := newCommandFixture(t, at("2026-08-25", 10))

	require.True(t, f.service.Handle(event("/template", "save morning M20 S30")).Success)

	result := f.service.Handle(event("/template", "list"))
	require.True(t, result.Success)
	assert.Contains(t, result.Text, "morning: M20 S30")

	result = f.service.Handle(event("/template", "use morning"))
	require.True(t, result.Success)
	assert.Contains(t, result.Text, "M:20, S:30")
	assert.Contains(t, result.Text, "Streak: 1 days")

	require.True(t, f.service.Handle(event("/template", "delete morning")).Success)
	result = f.service.Handle(event("/template", "use morning"))
	assert.False(t, result.Success)
}

func TestCommandService_TemplateSaveRejectsInvalid(t *testing.T) {
	f := newCommandFixture(t, at("2026-08-25", 10))

	result := f.service.Handle(event("/template", "save junk banana"))
	assert.False(t, result.Success)
}

func TestCommandService_TemplateUseOnWeekendRejected(t *testing.T) {
	f := newCommandFixture(t, at("2026-08-25", 10))
	require.True(t, f.service.Handle(event("/template", "save morning M20")).Success)

	f.ledger.now = func() time.Time { return at("2026-08-29", 10) } // Saturday
	result := f.service.Handle(event("/template", "use morning"))
	assert.False(t, result.Success)
	assert.Contains(t, result.Text, "rest days")
}

func TestCommandService_ReminderToggle(t *testing.T) {
	f := newCommandFixture(t, at("2026-08-25", 10))

	require.True(t, f.service.Handle(event("/reminder", "off")).Success)
	assert.False(t, f.ledger.Snapshot().Users["1"].RemindersEnabled)

	require.True(t, f.service.Handle(event("/reminder", "on")).Success)
	assert.True(t, f.ledger.Snapshot().Users["1"].RemindersEnabled)

	assert.False(t, f.service.Handle(event("/reminder", "maybe")).Success)
}

func TestCommandService_AnalyticsAndLevel(t *testing.T) {
	f := newCommandFixture(t, at("2026-08-25", 10))

	result := f.service.Handle(event("/analytics", ""))
	require.True(t, result.Success)
	assert.Contains(t, result.Text, "No data")

	f.service.Handle(event("/log", "M20 S30"))
	result = f.service.Handle(event("/analytics", ""))
	require.True(t, result.Success)
	assert.Contains(t, result.Text, "First week on record: 50 units")
	assert.Contains(t, result.Text, "Level:")

	result = f.service.Handle(event("/level", ""))
	require.True(t, result.Success)
	assert.Contains(t, result.Text, "Beginner")
	assert.Contains(t, result.Text, "Next level at 50")
}

func TestCommandService_Calendar(t *testing.T) {
	f := newCommandFixture(t, at("2026-08-25", 10))
	f.service.Handle(event("/log", "M20"))

	result := f.service.Handle(event("/calendar", ""))
	require.True(t, result.Success)
	assert.Contains(t, result.Text, "August 2026")
	assert.Contains(t, result.Text, "1 days logged, 20 units")

	result = f.service.Handle(event("/calendar", "13"))
	assert.False(t, result.Success)

	result = f.service.Handle(event("/calendar", "aug 2026"))
	require.True(t, result.Success)
	assert.Contains(t, result.Text, "August 2026")
}

func TestCommandService_Export(t *testing.T) {
	f := newCommandFixture(t, at("2026-08-25", 10))
	f.service.Handle(event("/log", "M20"))
	f.service.Handle(event("/goals", "set M 100"))

	result := f.service.Handle(event("/export", ""))
	require.True(t, result.Success)
	assert.Contains(t, result.Text, "Logging days: 1")
	assert.Contains(t, result.Text, "M: 20 units")
	assert.Contains(t, result.Text, "M: 100 per week")
}

func TestCommandService_BackupRequiresAdmin(t *testing.T) {
	f := newCommandFixture(t, at("2026-08-25", 10))

	result := f.service.Handle(event("/backup", ""))
	assert.False(t, result.Success)
	assert.Zero(t, f.backup.Snapshots)

	admin := event("/backup", "")
	admin.Username = "Admin" // matching is case-insensitive
	result = f.service.Handle(admin)
	require.True(t, result.Success)
	assert.Equal(t, 1, f.backup.Snapshots)
	assert.Equal(t, 1, f.backup.PruneCalls)
}

func TestCommandService_BackupFailureApologizes(t *testing.T) {
	f := newCommandFixture(t, at("2026-08-25", 10))
	f.backup.FailWith = errors.New("no space")

	admin := event("/backup", "")
	admin.Username = "admin"
	result := f.service.Handle(admin)
	assert.False(t, result.Success)
	assert.Equal(t, apologyText, result.Text)
}

func TestCommandService_StartAndHelpAndQuote(t *testing.T) {
	f := newCommandFixture(t, at("2026-08-25", 10))

	start := event("/start", "")
	start.DisplayName = "Alice B"
	result := f.service.Handle(start)
	require.True(t, result.Success)
	assert.Contains(t, result.Text, "Hi Alice B")

	result = f.service.Handle(event("/help", ""))
	require.True(t, result.Success)
	assert.Contains(t, result.Text, "/log <activities>")

	result = f.service.Handle(event("/help", "edit"))
	require.True(t, result.Success)
	assert.Contains(t, result.Text, "never change your streak")

	first := f.service.Handle(event("/quote", ""))
	second := f.service.Handle(event("/quote", ""))
	require.True(t, first.Success)
	assert.Equal(t, first.Text, second.Text)
	assert.True(t, strings.HasPrefix(first.Text, "💬 "))
}

func TestCommandService_QuoteVariesAcrossDays(t *testing.T) {
	f := newCommandFixture(t, at("2026-08-25", 10))

	seen := make(map[string]bool)
	for i := 0; i < 14; i++ {
		day := at("2026-08-25", 10).AddDate(0, 0, i)
		f.ledger.now = func() time.Time { return day }
		seen[f.service.Handle(event("/quote", "")).Text] = true
	}
	assert.Greater(t, len(seen), 1)
}

func TestCommandService_UnknownCommand(t *testing.T) {
	f := newCommandFixture(t, at("2026-08-25", 10))

	result := f.service.Handle(event("/dance", ""))
	assert.False(t, result.Success)
	assert.Contains(t, result.Text, `Unknown command "dance"`)
	assert.Equal(t, 1, f.metrics.FailedCommands["dance"])
}

func TestCommandService_GroupChatIsRecorded(t *testing.T) {
	f := newCommandFixture(t, at("2026-08-25", 10))

	ev := event("/status", "")
	ev.ChatIsGroup = true
	ev.ChatID = "c9"
	ev.ChatName = "The Club"
	f.service.Handle(ev)

	doc := f.ledger.Snapshot()
	require.Contains(t, doc.GroupChats, "c9")
	assert.Equal(t, "The Club", doc.GroupChats["c9"].ChatName)
}
