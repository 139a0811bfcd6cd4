package testutil

import (
	"sync"
	"time"

	"abd/internal/models"
	"abd/internal/providers"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// HasLevel reports whether any entry with the level was recorded.
func (m *MockLogger) HasLevel(level string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.Logs {
		if e.Level == level {
			return true
		}
	}
	return false
}

// MockMetrics implements providers.MetricsProviderInterface and counts
// the calls the tests care about.
type MockMetrics struct {
	mu                  sync.Mutex
	Commands            map[string]int
	FailedCommands      map[string]int
	SaveFailures        int
	ParserSkips         int
	AchievementsAwarded int
	BroadcastFailures   int
	UsersTotal          int
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{
		Commands:       make(map[string]int),
		FailedCommands: make(map[string]int),
	}
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) ObserveRequestSize(_ string, _ int64)             {}

func (m *MockMetrics) IncCommandsTotal(command string, success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if success {
		m.Commands[command]++
	} else {
		m.FailedCommands[command]++
	}
}

func (m *MockMetrics) ObserveCommandDuration(_ string, _ time.Duration) {}

func (m *MockMetrics) IncSaveFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveFailures++
}

func (m *MockMetrics) ObservePersistenceDuration(_ time.Duration) {}

func (m *MockMetrics) AddParserSkips(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ParserSkips += n
}

func (m *MockMetrics) AddAchievementsAwarded(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AchievementsAwarded += n
}

func (m *MockMetrics) IncBroadcastFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.BroadcastFailures++
}

func (m *MockMetrics) SetUsersTotal(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UsersTotal = count
}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

// MockCompressor implements interfaces.CompressorInterface with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
	Closed       bool
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	// Default: return as-is (identity)
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Close() {
	m.Closed = true
}

// MockStore implements services.DocumentStore in memory. FailSave makes
// every Save return an error without touching the stored document.
type MockStore struct {
	mu        sync.Mutex
	Doc       *models.Document
	FailSave  error
	SaveCalls int
}

func NewMockStore() *MockStore {
	return &MockStore{Doc: models.NewDocument()}
}

func (m *MockStore) Load() (*models.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Doc == nil {
		m.Doc = models.NewDocument()
	}
	return m.Doc, nil
}

func (m *MockStore) Save(doc *models.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveCalls++
	if m.FailSave != nil {
		return m.FailSave
	}
	m.Doc = doc
	return nil
}

// MockBroadcaster implements providers.BroadcasterInterface and records
// deliveries. FailChats / FailUsers make sends to those ids fail.
type MockBroadcaster struct {
	mu        sync.Mutex
	ChatSends map[string][]string
	UserSends map[string][]string
	FailChats map[string]error
	FailUsers map[string]error
}

func NewMockBroadcaster() *MockBroadcaster {
	return &MockBroadcaster{
		ChatSends: make(map[string][]string),
		UserSends: make(map[string][]string),
		FailChats: make(map[string]error),
		FailUsers: make(map[string]error),
	}
}

func (m *MockBroadcaster) SendToChat(chatID, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.FailChats[chatID]; ok {
		return err
	}
	m.ChatSends[chatID] = append(m.ChatSends[chatID], text)
	return nil
}

func (m *MockBroadcaster) SendToUser(userID, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.FailUsers[userID]; ok {
		return err
	}
	m.UserSends[userID] = append(m.UserSends[userID], text)
	return nil
}

// MockSnapshotWriter implements services.SnapshotWriter.
type MockSnapshotWriter struct {
	mu         sync.Mutex
	Snapshots  int
	PruneCalls int
	FailWith   error
	Path       string
	Closed     bool
}

func (m *MockSnapshotWriter) Snapshot(_ *models.Document) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return "", m.FailWith
	}
	m.Snapshots++
	if m.Path == "" {
		return "/tmp/backup.json.zst", nil
	}
	return m.Path, nil
}

func (m *MockSnapshotWriter) Prune() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PruneCalls++
	return 0, nil
}

func (m *MockSnapshotWriter) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
}
