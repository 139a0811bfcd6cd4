package models

import (
	"time"
)

// SchemaVersion is the current on-disk document version. Load-time
// migration backfills anything older in one pass so business logic can
// assume a fully populated document.
const SchemaVersion = 1

// UserProfile is the per-user slice of the ledger.
type UserProfile struct {
	Username            string                  `json:"username"`
	JoinedDate          time.Time               `json:"joined_date"`
	ActivityTotals      Activities              `json:"activity_totals"`
	RemindersEnabled    bool                    `json:"reminders_enabled"`
	CurrentStreak       int                     `json:"current_streak"`
	LongestStreak       int                     `json:"longest_streak"`
	LastLogDate         DayKey                  `json:"last_log_date,omitempty"`
	TotalLogs           int                     `json:"total_logs"`
	Achievements        []string                `json:"achievements"`
	Goals               map[ActivityCode]int    `json:"goals"`
	Templates           map[string]string       `json:"templates"`
	ActivityDefinitions map[ActivityCode]string `json:"activity_definitions"`
}

// HasAchievement reports whether the badge key was already awarded.
func (u *UserProfile) HasAchievement(key string) bool {
	for _, a := range u.Achievements {
		if a == key {
			return true
		}
	}
	return false
}

// TotalUnits is the lifetime unit count across all activities.
func (u *UserProfile) TotalUnits() int {
	return u.ActivityTotals.TotalUnits()
}

func (u *UserProfile) backfill() {
	if u.ActivityTotals == nil {
		u.ActivityTotals = make(Activities)
	}
	if u.Achievements == nil {
		u.Achievements = make([]string, 0)
	}
	if u.Goals == nil {
		u.Goals = make(map[ActivityCode]int)
	}
	if u.Templates == nil {
		u.Templates = make(map[string]string)
	}
	if u.ActivityDefinitions == nil {
		u.ActivityDefinitions = make(map[ActivityCode]string)
	}
}

// WeekRecord holds one user's logs for one ISO week. A day key lives in at
// most one of Logs or MissedDays.
type WeekRecord struct {
	Logs       map[DayKey]Activities `json:"logs"`
	MissedDays []DayKey              `json:"missed_days"`
}

func newWeekRecord() *WeekRecord {
	return &WeekRecord{
		Logs:       make(map[DayKey]Activities),
		MissedDays: make([]DayKey, 0),
	}
}

// HasMissed reports whether day is currently marked missed.
func (w *WeekRecord) HasMissed(day DayKey) bool {
	for _, d := range w.MissedDays {
		if d == day {
			return true
		}
	}
	return false
}

// MarkMissed records day as missed unless it was logged or already marked.
func (w *WeekRecord) MarkMissed(day DayKey) {
	if _, logged := w.Logs[day]; logged {
		return
	}
	if !w.HasMissed(day) {
		w.MissedDays = append(w.MissedDays, day)
	}
}

func (w *WeekRecord) clearMissed(day DayKey) {
	for i, d := range w.MissedDays {
		if d == day {
			w.MissedDays = append(w.MissedDays[:i], w.MissedDays[i+1:]...)
			return
		}
	}
}

// WeekdaysLogged counts logged days that fall on Monday-Friday.
func (w *WeekRecord) WeekdaysLogged() int {
	count := 0
	for day := range w.Logs {
		if day.IsWorkday() {
			count++
		}
	}
	return count
}

// EditAudit is a best-effort trail entry for message-edit driven re-logs.
type EditAudit struct {
	WeekKey    WeekKey    `json:"week_key"`
	DayKey     DayKey     `json:"day_key"`
	Activities Activities `json:"activities"`
	Timestamp  time.Time  `json:"timestamp"`
}

// GroupChat is a known broadcast target.
type GroupChat struct {
	ChatName     string    `json:"chat_name"`
	LastActivity time.Time `json:"last_activity"`
}

// Document is the whole ledger: the single JSON object owned by the store.
type Document struct {
	SchemaVersion int                              `json:"schema_version"`
	Users         map[string]*UserProfile          `json:"users"`
	WeeklyLogs    map[WeekKey]map[string]*WeekRecord `json:"weekly_logs"`
	EditedLogs    map[string]map[string]*EditAudit `json:"edited_logs"`
	GroupChats    map[string]*GroupChat            `json:"group_chats"`
}

// NewDocument returns a structurally complete empty ledger.
func NewDocument() *Document {
	return &Document{
		SchemaVersion: SchemaVersion,
		Users:         make(map[string]*UserProfile),
		WeeklyLogs:    make(map[WeekKey]map[string]*WeekRecord),
		EditedLogs:    make(map[string]map[string]*EditAudit),
		GroupChats:    make(map[string]*GroupChat),
	}
}

// Backfill migrates a freshly unmarshalled document to the current schema:
// missing top-level maps (edited_logs predates versioning) and missing
// per-user overlay maps are created so downstream code never nil-checks.
func (d *Document) Backfill() {
	if d.Users == nil {
		d.Users = make(map[string]*UserProfile)
	}
	if d.WeeklyLogs == nil {
		d.WeeklyLogs = make(map[WeekKey]map[string]*WeekRecord)
	}
	if d.EditedLogs == nil {
		d.EditedLogs = make(map[string]map[string]*EditAudit)
	}
	if d.GroupChats == nil {
		d.GroupChats = make(map[string]*GroupChat)
	}
	for _, user := range d.Users {
		user.backfill()
	}
	for _, week := range d.WeeklyLogs {
		for _, record := range week {
			if record.Logs == nil {
				record.Logs = make(map[DayKey]Activities)
			}
			if record.MissedDays == nil {
				record.MissedDays = make([]DayKey, 0)
			}
		}
	}
	d.SchemaVersion = SchemaVersion
}

// EnsureUser lazily creates the profile for userID. The first-seen username
// is sticky; later events never rename an existing profile.
func (d *Document) EnsureUser(userID, username string, now time.Time) *UserProfile {
	user, ok := d.Users[userID]
	if !ok {
		user = &UserProfile{
			Username:         username,
			JoinedDate:       now,
			RemindersEnabled: true,
		}
		user.backfill()
		d.Users[userID] = user
	}
	return user
}

// EnsureWeek lazily creates the week record for (week, userID).
func (d *Document) EnsureWeek(week WeekKey, userID string) *WeekRecord {
	if d.WeeklyLogs[week] == nil {
		d.WeeklyLogs[week] = make(map[string]*WeekRecord)
	}
	record, ok := d.WeeklyLogs[week][userID]
	if !ok {
		record = newWeekRecord()
		d.WeeklyLogs[week][userID] = record
	}
	return record
}

// Week returns the week record for (week, userID) if it exists.
func (d *Document) Week(week WeekKey, userID string) (*WeekRecord, bool) {
	users, ok := d.WeeklyLogs[week]
	if !ok {
		return nil, false
	}
	record, ok := users[userID]
	return record, ok
}

// RecordDay replaces the day's stored activities wholesale and recomputes
// the user's cumulative totals: the previous log's contribution is
// subtracted (clamped at zero), the new one added. Returns whether the day
// had no previous log and any codes whose totals had to be clamped.
func (d *Document) RecordDay(userID string, week WeekKey, day DayKey, activities Activities) (isNewDay bool, clamped []ActivityCode) {
	user := d.Users[userID]
	record := d.EnsureWeek(week, userID)

	old, hadLog := record.Logs[day]
	isNewDay = !hadLog

	record.Logs[day] = activities.Clone()
	record.clearMissed(day)

	for code, value := range old {
		user.ActivityTotals[code] -= value
		if user.ActivityTotals[code] < 0 {
			user.ActivityTotals[code] = 0
			clamped = append(clamped, code)
		}
	}
	for code, value := range activities {
		user.ActivityTotals[code] += value
	}
	return isNewDay, clamped
}

// TrackEdit records a best-effort audit entry keyed by "<chat>:<message>".
func (d *Document) TrackEdit(userID, chatID, messageID string, week WeekKey, day DayKey, activities Activities, now time.Time) {
	if chatID == "" || messageID == "" {
		return
	}
	if d.EditedLogs[userID] == nil {
		d.EditedLogs[userID] = make(map[string]*EditAudit)
	}
	d.EditedLogs[userID][chatID+":"+messageID] = &EditAudit{
		WeekKey:    week,
		DayKey:     day,
		Activities: activities.Clone(),
		Timestamp:  now,
	}
}

// TouchGroupChat upserts a broadcast target.
func (d *Document) TouchGroupChat(chatID, chatName string, now time.Time) {
	d.GroupChats[chatID] = &GroupChat{
		ChatName:     chatName,
		LastActivity: now,
	}
}
