package providers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"abd/internal/structures"
)

func validConfig() *structures.Config {
	return &structures.Config{
		Bot: structures.BotConfig{
			Timezone:         "Europe/Berlin",
			MaxActivityValue: 10000,
			EditWindowDays:   7,
		},
		Jobs: structures.JobsConfig{
			WeeklyDigest:  "18:00",
			MondayKickoff: "08:00",
			DailyReminder: "21:00",
			DailyBackup:   "03:30",
		},
		WebServer: structures.Server{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Persistence: structures.Persistence{
			FilePath:        "/tmp/ledger.json",
			BackupDir:       "/tmp/backups",
			BackupRetention: 7,
		},
		Logger: structures.LoggerConfig{
			Level: "info",
			Mode:  0644,
			Dir:   "/tmp/logs",
		},
	}
}

func TestConfigValidator_ValidConfig(t *testing.T) {
	v := NewCnfValidator(validConfig())
	assert.NoError(t, v.Validate())
}

func TestConfigValidator_EmptyHost(t *testing.T) {
	c := validConfig()
	c.WebServer.Host = ""
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_ZeroPort(t *testing.T) {
	c := validConfig()
	c.WebServer.Port = 0
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_EmptyFilePath(t *testing.T) {
	c := validConfig()
	c.Persistence.FilePath = ""
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_EmptyLogLevel(t *testing.T) {
	c := validConfig()
	c.Logger.Level = ""
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_InvalidLogLevel(t *testing.T) {
	c := validConfig()
	c.Logger.Level = "verbose"
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_UnknownTimezone(t *testing.T) {
	c := validConfig()
	c.Bot.Timezone = "Mars/Olympus_Mons"
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_BadJobTime(t *testing.T) {
	c := validConfig()
	c.Jobs.DailyReminder = "9pm"
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}
