package ledger

import (
	"sync"
	"time"

	"github.com/roylee0704/gron"
	"go.uber.org/atomic"

	"abd/internal/ledger/interfaces"
	"abd/internal/models"
	"abd/internal/providers"
	"abd/internal/services"
	"abd/internal/structures"
)

// Scheduler drives the four standing jobs off a one-minute tick. gron has
// no wall-clock cron expressions, so each tick compares the bot-timezone
// hh:mm against the configured job times; lastFired keeps a job from
// running twice within the same minute-day.
type Scheduler struct {
	config  *structures.Config
	logger  providers.Logger
	ledger  services.LedgerServiceInterface
	digest  services.DigestServiceInterface
	backup  services.SnapshotWriter
	cron    *gron.Cron
	opsMu   sync.Mutex
	started atomic.Bool

	lastFired map[string]models.DayKey
}

func NewScheduler(
	config *structures.Config,
	logger providers.Logger,
	ledgerService services.LedgerServiceInterface,
	digestService services.DigestServiceInterface,
	backup services.SnapshotWriter,
) interfaces.SchedulerInterface {
	return &Scheduler{
		config:    config,
		logger:    logger,
		ledger:    ledgerService,
		digest:    digestService,
		backup:    backup,
		lastFired: make(map[string]models.DayKey),
	}
}

func (s *Scheduler) Init() {
	s.cron = gron.New()
	s.cron.AddFunc(gron.Every(time.Minute), s.tick)
	s.cron.Start()
	s.started.Store(true)
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
	s.started.Store(false)
}

func (s *Scheduler) tick() {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	now := s.ledger.Now()
	hhmm := now.Format("15:04")
	weekday := models.WeekdayOf(now)

	if hhmm == s.config.Jobs.WeeklyDigest && weekday == models.Sunday {
		s.runOnce("weekly_digest", now, s.runWeeklyDigest)
	}
	if hhmm == s.config.Jobs.MondayKickoff && weekday == models.Monday {
		s.runOnce("monday_kickoff", now, s.runMondayKickoff)
	}
	if hhmm == s.config.Jobs.DailyReminder && weekday.IsWorkday() {
		s.runOnce("daily_reminder", now, s.runDailyReminder)
	}
	if hhmm == s.config.Jobs.DailyBackup {
		s.runOnce("daily_backup", now, s.runDailyBackup)
	}
}

func (s *Scheduler) runOnce(name string, now time.Time, job func()) {
	today := models.DayKeyOf(now)
	if s.lastFired[name] == today {
		return
	}
	s.lastFired[name] = today

	s.logger.Infof(providers.TypeJob, "Running job %s", name)
	job()
}

func (s *Scheduler) runWeeklyDigest() {
	if err := s.digest.SendWeeklyDigest(); err != nil {
		s.logger.Errorf(providers.TypeJob, "Weekly digest failed: %s", err)
	}
}

func (s *Scheduler) runMondayKickoff() {
	if err := s.digest.SendMondayKickoff(); err != nil {
		s.logger.Errorf(providers.TypeJob, "Monday kickoff failed: %s", err)
	}
}

func (s *Scheduler) runDailyReminder() {
	// Sweep first so tonight's reminders reflect the week's missed days.
	marked, err := s.ledger.UpdateMissedDays()
	if err != nil {
		s.logger.Errorf(providers.TypeJob, "Missed-day sweep failed: %s", err)
	} else if marked > 0 {
		s.logger.Infof(providers.TypeJob, "Marked %d missed days", marked)
	}

	sent, err := s.digest.SendDailyReminders()
	if err != nil {
		s.logger.Errorf(providers.TypeJob, "Daily reminders failed: %s", err)
		return
	}
	s.logger.Infof(providers.TypeJob, "Sent %d reminders", sent)
}

func (s *Scheduler) runDailyBackup() {
	if _, err := s.backup.Snapshot(s.ledger.Snapshot()); err != nil {
		s.logger.Errorf(providers.TypeJob, "Backup failed: %s", err)
		return
	}
	if removed, err := s.backup.Prune(); err != nil {
		s.logger.Errorf(providers.TypeJob, "Backup pruning failed: %s", err)
	} else if removed > 0 {
		s.logger.Infof(providers.TypeJob, "Pruned %d old backups", removed)
	}
}

// Restore loads the persisted ledger. Called once before Init.
func (s *Scheduler) Restore() error {
	return s.ledger.Restore()
}

// Persist flushes the in-memory ledger to disk. Called on shutdown.
func (s *Scheduler) Persist() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	s.logger.Infof(providers.TypeApp, "Persisting ledger to file...")
	return s.ledger.Persist()
}
