package providers

import (
	"fmt"
	"time"

	"github.com/gookit/validate"

	"abd/internal/structures"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

func (v *CnfValidator) Validate() error {
	vd := validate.Struct(v.conf)
	if !vd.Validate() {
		return vd.Errors.OneError()
	}

	if _, err := time.LoadLocation(v.conf.Bot.Timezone); err != nil {
		return fmt.Errorf("invalid bot.timezone %q: %w", v.conf.Bot.Timezone, err)
	}

	for name, value := range map[string]string{
		"jobs.weeklyDigest":  v.conf.Jobs.WeeklyDigest,
		"jobs.mondayKickoff": v.conf.Jobs.MondayKickoff,
		"jobs.dailyReminder": v.conf.Jobs.DailyReminder,
		"jobs.dailyBackup":   v.conf.Jobs.DailyBackup,
	} {
		if _, err := time.Parse("15:04", value); err != nil {
			return fmt.Errorf("invalid %s %q: expected hh:mm", name, value)
		}
	}

	return nil
}
