package notifier

import (
	"fmt"
	"time"
)

// CronSpecAt converts an absolute timestamp into a five-field cron spec
// matching its minute, hour, day-of-month, and month, with a wildcard
// day-of-week. Cron specs carry no year, so the trigger recurs annually on
// that minute/hour/day/month; the registry relies on this for recurring jobs
// and uses a one-shot deadline timer instead for non-recurring ones.
func CronSpecAt(t time.Time) string {
	return fmt.Sprintf("%d %d %d %d *", t.Minute(), t.Hour(), t.Day(), int(t.Month()))
}
