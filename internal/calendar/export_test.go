package calendar

import (
	"strings"
	"testing"
	"time"

	"github.com/hpungsan/taskflow/internal/study"
)

func TestBuildICS(t *testing.T) {
	now := time.Date(2024, 4, 20, 12, 0, 0, 0, time.UTC)
	schedule := []study.ScheduleItem{
		{ID: study.NewID(), Date: "2024-05-01", Task: "Review chapter 1", DurationMinutes: 30},
		{ID: study.NewID(), Date: "2024-05-02", Task: "Practice problems", DurationMinutes: 45},
		{ID: study.NewID(), Date: "May 3rd", Task: "unparsable date", DurationMinutes: 30},
	}

	doc, written := BuildICS(schedule, now)

	if written != 2 {
		t.Errorf("written = %d, want 2 (unparsable date skipped)", written)
	}
	if got := strings.Count(doc, "BEGIN:VEVENT"); got != 2 {
		t.Errorf("VEVENT count = %d, want 2", got)
	}
	if !strings.Contains(doc, "SUMMARY:Review chapter 1") {
		t.Error("missing first event summary")
	}
	if !strings.Contains(doc, "SUMMARY:Practice problems") {
		t.Error("missing second event summary")
	}
	if strings.Contains(doc, "unparsable date") {
		t.Error("skipped item leaked into the document")
	}
	if !strings.Contains(doc, "UID:"+schedule[0].ID) {
		t.Error("event UID should be the item's ID")
	}
}

func TestBuildICS_Empty(t *testing.T) {
	doc, written := BuildICS(nil, time.Now())
	if written != 0 {
		t.Errorf("written = %d, want 0", written)
	}
	if !strings.Contains(doc, "BEGIN:VCALENDAR") {
		t.Error("even an empty schedule serializes a calendar envelope")
	}
}
