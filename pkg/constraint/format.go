package constraint

import (
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

var cronParser = cron.NewParser(
	cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// UUID passes strings in any of the forms accepted by uuid.Parse.
func UUID() Constraint {
	return rule{
		desc: "is a UUID",
		check: func(v any) bool {
			s, ok := v.(string)
			if !ok {
				return false
			}
			_, err := uuid.Parse(s)
			return err == nil
		},
	}
}

// CronSpec passes standard five-field cron schedules and descriptors such as
// "@daily" or "@every 5m".
func CronSpec() Constraint {
	return rule{
		desc: "is a cron schedule",
		check: func(v any) bool {
			s, ok := v.(string)
			if !ok {
				return false
			}
			_, err := cronParser.Parse(s)
			return err == nil
		},
	}
}
