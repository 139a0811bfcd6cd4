package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"abd/internal/models"
	"abd/internal/services"
	"abd/internal/structures"
	"abd/internal/testutil"
)

type schedTestLedger struct {
	now          time.Time
	restoreCalls int
	persistCalls int
	sweepCalls   int
}

func (m *schedTestLedger) Restore() error {
	m.restoreCalls++
	return nil
}

func (m *schedTestLedger) Persist() error {
	m.persistCalls++
	return nil
}

func (m *schedTestLedger) Now() time.Time             { return m.now }
func (m *schedTestLedger) Snapshot() *models.Document { return models.NewDocument() }

func (m *schedTestLedger) LogDay(_, _ string, _ time.Time, _ models.Activities, _ services.LogOptions) (*services.LogOutcome, error) {
	return &services.LogOutcome{}, nil
}
func (m *schedTestLedger) SetGoal(_, _ string, _ models.ActivityCode, _ int) error { return nil }
func (m *schedTestLedger) RemoveGoal(_, _ string, _ models.ActivityCode) (bool, error) {
	return false, nil
}
func (m *schedTestLedger) SaveTemplate(_, _, _, _ string) error        { return nil }
func (m *schedTestLedger) DeleteTemplate(_, _, _ string) (bool, error) { return false, nil }
func (m *schedTestLedger) Define(_, _ string, _ models.ActivityCode, _ string) error {
	return nil
}
func (m *schedTestLedger) SetReminders(_, _ string, _ bool) error { return nil }
func (m *schedTestLedger) TouchGroupChat(_, _ string) error       { return nil }

func (m *schedTestLedger) UpdateMissedDays() (int, error) {
	m.sweepCalls++
	return 0, nil
}

type schedTestDigest struct {
	weekly    int
	kickoffs  int
	reminders int
}

func (m *schedTestDigest) SendWeeklyDigest() error { m.weekly++; return nil }
func (m *schedTestDigest) SendMondayKickoff() error {
	m.kickoffs++
	return nil
}
func (m *schedTestDigest) SendDailyReminders() (int, error) {
	m.reminders++
	return 0, nil
}

func schedulerConfig() *structures.Config {
	return &structures.Config{
		Jobs: structures.JobsConfig{
			WeeklyDigest:  "18:00",
			MondayKickoff: "08:00",
			DailyReminder: "21:00",
			DailyBackup:   "03:30",
		},
	}
}

func newTestScheduler(t *testing.T, now time.Time) (*Scheduler, *schedTestLedger, *schedTestDigest, *testutil.MockSnapshotWriter) {
	t.Helper()
	ledgerStub := &schedTestLedger{now: now}
	digest := &schedTestDigest{}
	backup := &testutil.MockSnapshotWriter{}
	s := NewScheduler(schedulerConfig(), &testutil.MockLogger{}, ledgerStub, digest, backup).(*Scheduler)
	return s, ledgerStub, digest, backup
}

func clock(t *testing.T, day string, hhmm string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02 15:04", day+" "+hhmm)
	require.NoError(t, err)
	return parsed
}

func TestScheduler_WeeklyDigestFiresOnSundayOnly(t *testing.T) {
	s, _, digest, _ := newTestScheduler(t, clock(t, "2026-08-30", "18:00")) // Sunday
	s.tick()
	assert.Equal(t, 1, digest.weekly)

	s, _, digest, _ = newTestScheduler(t, clock(t, "2026-08-29", "18:00")) // Saturday
	s.tick()
	assert.Zero(t, digest.weekly)

	s, _, digest, _ = newTestScheduler(t, clock(t, "2026-08-30", "18:01"))
	s.tick()
	assert.Zero(t, digest.weekly)
}

func TestScheduler_MondayKickoffFiresOnMondayOnly(t *testing.T) {
	s, _, digest, _ := newTestScheduler(t, clock(t, "2026-08-31", "08:00")) // Monday
	s.tick()
	assert.Equal(t, 1, digest.kickoffs)

	s, _, digest, _ = newTestScheduler(t, clock(t, "2026-09-01", "08:00")) // Tuesday
	s.tick()
	assert.Zero(t, digest.kickoffs)
}

func TestScheduler_DailyReminderSweepsThenSends(t *testing.T) {
	s, ledgerStub, digest, _ := newTestScheduler(t, clock(t, "2026-08-25", "21:00")) // Tuesday
	s.tick()
	assert.Equal(t, 1, ledgerStub.sweepCalls)
	assert.Equal(t, 1, digest.reminders)
}

func TestScheduler_DailyReminderSkipsWeekend(t *testing.T) {
	s, ledgerStub, digest, _ := newTestScheduler(t, clock(t, "2026-08-29", "21:00")) // Saturday
	s.tick()
	assert.Zero(t, ledgerStub.sweepCalls)
	assert.Zero(t, digest.reminders)
}

func TestScheduler_DailyBackupFiresEveryDay(t *testing.T) {
	for _, day := range []string{"2026-08-25", "2026-08-29", "2026-08-30"} {
		s, _, _, backup := newTestScheduler(t, clock(t, day, "03:30"))
		s.tick()
		assert.Equal(t, 1, backup.Snapshots, day)
		assert.Equal(t, 1, backup.PruneCalls, day)
	}
}

func TestScheduler_JobFiresOnceWithinTheMinute(t *testing.T) {
	s, _, _, backup := newTestScheduler(t, clock(t, "2026-08-25", "03:30"))
	s.tick()
	s.tick()
	s.tick()
	assert.Equal(t, 1, backup.Snapshots)

	// The same wall time on the next day fires again.
	s.ledger.(*schedTestLedger).now = clock(t, "2026-08-26", "03:30")
	s.tick()
	assert.Equal(t, 2, backup.Snapshots)
}

func TestScheduler_RestoreAndPersistDelegate(t *testing.T) {
	s, ledgerStub, _, _ := newTestScheduler(t, clock(t, "2026-08-25", "12:00"))

	require.NoError(t, s.Restore())
	require.NoError(t, s.Persist())
	assert.Equal(t, 1, ledgerStub.restoreCalls)
	assert.Equal(t, 1, ledgerStub.persistCalls)
}

func TestScheduler_InitAndStop(t *testing.T) {
	s, _, _, _ := newTestScheduler(t, clock(t, "2026-08-25", "12:00"))
	s.Init()
	assert.True(t, s.started.Load())
	s.Stop()
	assert.False(t, s.started.Load())
}
