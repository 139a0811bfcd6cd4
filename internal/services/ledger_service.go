package services

import (
	"fmt"
	"sync"
	"time"

	json "github.com/goccy/go-json"

	"abd/internal/models"
	"abd/internal/providers"
	"abd/internal/structures"
)

// LogOptions qualifies a LogDay call. AffectStreak is true for fresh /log
// commands only; edits and message-edit re-logs replace data without
// touching streaks or achievements, and leave an audit entry instead.
type LogOptions struct {
	ChatID       string
	MessageID    string
	AffectStreak bool
}

// LogOutcome is everything the command layer needs to render a reply.
type LogOutcome struct {
	IsNewDay        bool
	Clamped         []models.ActivityCode
	NewAchievements []string
	CurrentStreak   int
	Quick           models.QuickStats
}

type LedgerServiceInterface interface {
	Restore() error
	Persist() error
	Now() time.Time
	Snapshot() *models.Document
	LogDay(userID, username string, when time.Time, activities models.Activities, opts LogOptions) (*LogOutcome, error)
	SetGoal(userID, username string, code models.ActivityCode, target int) error
	RemoveGoal(userID, username string, code models.ActivityCode) (bool, error)
	SaveTemplate(userID, username, name, text string) error
	DeleteTemplate(userID, username, name string) (bool, error)
	Define(userID, username string, code models.ActivityCode, description string) error
	SetReminders(userID, username string, enabled bool) error
	TouchGroupChat(chatID, chatName string) error
	UpdateMissedDays() (int, error)
}

// LedgerService keeps the authoritative document in memory. Every mutation
// runs on a deep clone which replaces the authoritative document only after
// the store accepts it, so a failed save discards the mutation entirely.
// A single mutex serializes all mutations; readers get deep snapshots and
// never hold the lock.
type LedgerService struct {
	config  *structures.Config
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
	store   DocumentStore

	mu  sync.Mutex
	doc *models.Document
	loc *time.Location
	now func() time.Time
}

func NewLedgerService(
	config *structures.Config,
	logger providers.Logger,
	metrics providers.MetricsProviderInterface,
	store DocumentStore,
) LedgerServiceInterface {
	// Timezone is validated at startup; fall back to UTC defensively only
	// because LoadLocation reads tzdata at runtime.
	loc, err := time.LoadLocation(config.Bot.Timezone)
	if err != nil {
		logger.Errorf(providers.TypeApp, "Cannot load timezone %s, using UTC: %s", config.Bot.Timezone, err)
		loc = time.UTC
	}

	return &LedgerService{
		config:  config,
		logger:  logger,
		metrics: metrics,
		store:   store,
		doc:     models.NewDocument(),
		loc:     loc,
		now:     time.Now,
	}
}

// Now is the bot's wall clock, in the configured timezone. All day and
// week bucketing flows through it.
func (s *LedgerService) Now() time.Time {
	return s.now().In(s.loc)
}

// Restore loads the persisted ledger into memory. Called once at startup.
func (s *LedgerService) Restore() error {
	doc, err := s.store.Load()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = doc
	s.metrics.SetUsersTotal(len(doc.Users))
	return nil
}

// Persist writes the in-memory document through to the store.
func (s *LedgerService) Persist() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commitLocked(s.doc)
}

// cloneLocked deep-copies the authoritative document.
func (s *LedgerService) cloneLocked() (*models.Document, error) {
	data, err := json.Marshal(s.doc)
	if err != nil {
		return nil, err
	}
	clone := models.NewDocument()
	if err := json.Unmarshal(data, clone); err != nil {
		return nil, err
	}
	clone.Backfill()
	return clone, nil
}

// commitLocked saves working and, on success, makes it the authoritative
// document. On failure the previous document stays in place untouched.
func (s *LedgerService) commitLocked(working *models.Document) error {
	if err := s.store.Save(working); err != nil {
		s.metrics.IncSaveFailures()
		s.logger.Errorf(providers.TypeStore, "Error while persisting ledger: %s", err)
		return err
	}
	s.doc = working
	s.metrics.SetUsersTotal(len(working.Users))
	return nil
}

// Snapshot returns a deep copy of the document. The copy is detached: the
// caller can read it without locking and mutations to it are discarded.
func (s *LedgerService) Snapshot() *models.Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot, err := s.cloneLocked()
	if err != nil {
		s.logger.Errorf(providers.TypeStore, "Cannot snapshot ledger: %s", err)
		return models.NewDocument()
	}
	return snapshot
}

// LogDay replaces the activities stored for (user, day) and persists. For
// streak-affecting logs on a genuinely new day it also advances the streak
// and evaluates achievements; otherwise it records an edit audit entry.
// The mutation runs on a working copy: a failed save leaves no trace, and
// the achievements it would have awarded are re-earned by the retry.
func (s *LedgerService) LogDay(userID, username string, when time.Time, activities models.Activities, opts LogOptions) (*LogOutcome, error) {
	when = when.In(s.loc)
	day := models.DayKeyOf(when)
	week := models.WeekKeyOf(when)

	s.mu.Lock()
	defer s.mu.Unlock()

	working, err := s.cloneLocked()
	if err != nil {
		return nil, err
	}

	user := working.EnsureUser(userID, username, s.Now())
	isNewDay, clamped := working.RecordDay(userID, week, day, activities)

	outcome := &LogOutcome{
		IsNewDay: isNewDay,
		Clamped:  clamped,
	}

	if opts.AffectStreak {
		if isNewDay {
			user.UpdateStreak(day)
			outcome.NewAchievements = models.EvaluateAchievements(working, userID, when)
		}
	} else {
		working.TrackEdit(userID, opts.ChatID, opts.MessageID, week, day, activities, s.Now())
	}
	outcome.CurrentStreak = user.CurrentStreak
	outcome.Quick = models.ComputeQuickStats(working, userID, when)

	if err := s.commitLocked(working); err != nil {
		return nil, err
	}
	s.metrics.AddAchievementsAwarded(len(outcome.NewAchievements))
	return outcome, nil
}

// mutateUser runs fn on the (lazily created) profile of a working copy and
// commits it.
func (s *LedgerService) mutateUser(userID, username string, fn func(*models.UserProfile)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	working, err := s.cloneLocked()
	if err != nil {
		return err
	}
	fn(working.EnsureUser(userID, username, s.Now()))
	return s.commitLocked(working)
}

func (s *LedgerService) SetGoal(userID, username string, code models.ActivityCode, target int) error {
	if target < 1 {
		return fmt.Errorf("goal target must be positive")
	}
	return s.mutateUser(userID, username, func(u *models.UserProfile) {
		u.Goals[code] = target
	})
}

func (s *LedgerService) RemoveGoal(userID, username string, code models.ActivityCode) (bool, error) {
	removed := false
	err := s.mutateUser(userID, username, func(u *models.UserProfile) {
		if _, ok := u.Goals[code]; ok {
			delete(u.Goals, code)
			removed = true
		}
	})
	return removed, err
}

func (s *LedgerService) SaveTemplate(userID, username, name, text string) error {
	return s.mutateUser(userID, username, func(u *models.UserProfile) {
		u.Templates[name] = text
	})
}

func (s *LedgerService) DeleteTemplate(userID, username, name string) (bool, error) {
	removed := false
	err := s.mutateUser(userID, username, func(u *models.UserProfile) {
		if _, ok := u.Templates[name]; ok {
			delete(u.Templates, name)
			removed = true
		}
	})
	return removed, err
}

func (s *LedgerService) Define(userID, username string, code models.ActivityCode, description string) error {
	return s.mutateUser(userID, username, func(u *models.UserProfile) {
		u.ActivityDefinitions[code] = description
	})
}

func (s *LedgerService) SetReminders(userID, username string, enabled bool) error {
	return s.mutateUser(userID, username, func(u *models.UserProfile) {
		u.RemindersEnabled = enabled
	})
}

func (s *LedgerService) TouchGroupChat(chatID, chatName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	working, err := s.cloneLocked()
	if err != nil {
		return err
	}
	working.TouchGroupChat(chatID, chatName, s.Now())
	return s.commitLocked(working)
}

// UpdateMissedDays marks every weekday of the current week before today
// that a known user has not logged. Sundays are skipped entirely: the week
// being swept would be the one that just ended, and the weekly digest
// already closed it out.
func (s *LedgerService) UpdateMissedDays() (int, error) {
	now := s.Now()
	if models.WeekdayOf(now) == models.Sunday {
		return 0, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	working, err := s.cloneLocked()
	if err != nil {
		return 0, err
	}

	week := models.WeekKeyOf(now)
	today := models.DayKeyOf(now)
	marked := 0

	for t := models.WeekStart(now); models.DayKeyOf(t) != today; t = t.AddDate(0, 0, 1) {
		if !models.IsWeekday(t) {
			continue
		}
		day := models.DayKeyOf(t)
		for userID := range working.Users {
			record := working.EnsureWeek(week, userID)
			if _, logged := record.Logs[day]; logged || record.HasMissed(day) {
				continue
			}
			record.MarkMissed(day)
			marked++
		}
	}

	if marked == 0 {
		return 0, nil
	}
	return marked, s.commitLocked(working)
}
