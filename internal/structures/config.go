package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type Persistence struct {
	FilePath        string `yaml:"filePath" validate:"required|unixPath"`
	BackupDir       string `yaml:"backupDir" validate:"required|unixPath"`
	BackupRetention int    `yaml:"backupRetention" validate:"required|min:1"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type BotConfig struct {
	Timezone         string `yaml:"timezone" validate:"required"`
	AdminUsername    string `yaml:"adminUsername"`
	MaxActivityValue int    `yaml:"maxActivityValue"`
	EditWindowDays   int    `yaml:"editWindowDays"`
}

// JobsConfig holds wall-clock times (hh:mm, bot timezone) for scheduled jobs.
type JobsConfig struct {
	WeeklyDigest  string `yaml:"weeklyDigest" validate:"required"`
	MondayKickoff string `yaml:"mondayKickoff" validate:"required"`
	DailyReminder string `yaml:"dailyReminder" validate:"required"`
	DailyBackup   string `yaml:"dailyBackup" validate:"required"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Size    int           `yaml:"size"`
	TTL     time.Duration `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName     string
	Debug       bool
	Path        string
	Bot         BotConfig     `yaml:"bot"`
	Jobs        JobsConfig    `yaml:"jobs"`
	WebServer   Server        `yaml:"webServer"`
	Persistence Persistence   `yaml:"persistence"`
	Logger      LoggerConfig  `yaml:"logger"`
	Cache       CacheConfig   `yaml:"cache"`
	Metrics     MetricsConfig `yaml:"metrics"`
}
