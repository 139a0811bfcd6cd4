package providers

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"abd/internal/structures"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	filename := filepath.Base(flags.ConfigPath)
	viper.AddConfigPath(filepath.Dir(flags.ConfigPath))
	viper.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	viper.SetConfigType("yaml")

	viper.BindEnv("logger.level", "ABD_LOG_LEVEL")
	viper.BindEnv("bot.timezone", "ABD_TIMEZONE")
	viper.BindEnv("bot.adminUsername", "ABD_ADMIN_USERNAME")
	viper.BindEnv("persistence.filePath", "ABD_DATA_FILE")
	viper.BindEnv("persistence.backupDir", "ABD_BACKUP_DIR")
	viper.BindEnv("cache.enabled", "ABD_CACHE_ENABLED")
	viper.BindEnv("cache.size", "ABD_CACHE_SIZE")

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = viper.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	applyDefaults(&conf)

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "AccountabilityBotDaemon"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}

func applyDefaults(conf *structures.Config) {
	if conf.Bot.MaxActivityValue <= 0 {
		conf.Bot.MaxActivityValue = 10000
	}
	if conf.Bot.EditWindowDays <= 0 {
		conf.Bot.EditWindowDays = 7
	}
	if conf.Persistence.BackupRetention <= 0 {
		conf.Persistence.BackupRetention = 7
	}
	if conf.Cache.TTL <= 0 {
		conf.Cache.TTL = 60 * time.Second
	}
	if conf.Jobs.WeeklyDigest == "" {
		conf.Jobs.WeeklyDigest = "18:00"
	}
	if conf.Jobs.MondayKickoff == "" {
		conf.Jobs.MondayKickoff = "08:00"
	}
	if conf.Jobs.DailyReminder == "" {
		conf.Jobs.DailyReminder = "21:00"
	}
	if conf.Jobs.DailyBackup == "" {
		conf.Jobs.DailyBackup = "03:30"
	}
}
