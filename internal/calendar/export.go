package calendar

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/hpungsan/taskflow/internal/study"
)

// sessionStartHour is where a date-only schedule entry is anchored.
const sessionStartHour = 9

// BuildICS serializes the study schedule as an iCalendar document, one
// VEVENT per item. Items whose date does not parse as YYYY-MM-DD are
// skipped. Returns the document and the number of events written.
func BuildICS(schedule []study.ScheduleItem, now time.Time) (string, int) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//taskflow//study schedule//EN")

	written := 0
	for _, item := range schedule {
		day, err := time.ParseInLocation("2006-01-02", item.Date, time.Local)
		if err != nil {
			continue
		}
		start := day.Add(sessionStartHour * time.Hour)

		uid := item.ID
		if uid == "" {
			uid = study.NewID()
		}

		ev := cal.AddEvent(uid)
		ev.SetCreatedTime(now)
		ev.SetDtStampTime(now)
		ev.SetStartAt(start)
		ev.SetEndAt(start.Add(time.Duration(item.DurationMinutes) * time.Minute))
		ev.SetSummary(item.Task)
		ev.SetDescription(fmt.Sprintf("Study session (%d mins)", item.DurationMinutes))
		written++
	}

	return cal.Serialize(), written
}
