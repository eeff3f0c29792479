package calendar

import (
	"fmt"
	"strings"
	"time"

	gcal "google.golang.org/api/calendar/v3"

	"github.com/harrisonrobin/taskflow/pkg/task"
)

// TaskIDProperty is the private extended property tagging mirrored events.
const TaskIDProperty = "taskflow_id"

const allDayLayout = "2006-01-02"

// Google Calendar event color ids.
const (
	colorDefault = ""
	colorBanana  = "5"
	colorTomato  = "11"
)

// ColorID picks the event color for a task's urgency: tomato once expired,
// banana on its last day, the calendar's own color otherwise.
func ColorID(rem *task.Remaining) string {
	switch {
	case rem == nil:
		return colorDefault
	case rem.Expired:
		return colorTomato
	case rem.Days == 0:
		return colorBanana
	default:
		return colorDefault
	}
}

// Eligible reports whether a task should have a calendar event.
func Eligible(t *task.Task) bool {
	return !t.Deleted() && !t.Completed && t.Deadline != nil
}

// ConvertTaskToEvent builds the all-day event for a task's deadline day.
// Expired deadlines get a "! " summary prefix.
func ConvertTaskToEvent(t *task.Task, now time.Time) (*gcal.Event, error) {
	if t == nil {
		return nil, fmt.Errorf("could not convert nil Task")
	}
	if t.Deadline == nil {
		return nil, fmt.Errorf("task has no deadline: %s", t.ID)
	}

	rem := t.TimeRemaining(now)
	summary := t.Description
	if rem != nil && rem.Expired {
		summary = "! " + summary
	}

	var desc strings.Builder
	desc.WriteString(fmt.Sprintf("ID: %s\n", t.ID))
	desc.WriteString(fmt.Sprintf("Created: %s\n", t.CreatedAt.Format(time.RFC3339)))

	start := t.Deadline.Midnight(time.UTC)
	return &gcal.Event{
		Summary:     summary,
		Description: desc.String(),
		ColorId:     ColorID(rem),
		Start:       &gcal.EventDateTime{Date: start.Format(allDayLayout)},
		End:         &gcal.EventDateTime{Date: start.AddDate(0, 0, 1).Format(allDayLayout)},
		ExtendedProperties: &gcal.EventExtendedProperties{
			Private: map[string]string{TaskIDProperty: t.ID},
		},
	}, nil
}

func eventDate(dt *gcal.EventDateTime) string {
	if dt == nil {
		return ""
	}
	if dt.Date != "" {
		return dt.Date
	}
	return dt.DateTime
}

// EventNeedsUpdate returns a patch carrying the fields of target that differ
// from existing, or nil when they already match.
func EventNeedsUpdate(existing, target *gcal.Event) *gcal.Event {
	patch := &gcal.Event{}
	needsUpdate := false

	if existing.Summary != target.Summary {
		patch.Summary = target.Summary
		needsUpdate = true
	}
	if existing.Description != target.Description {
		patch.Description = target.Description
		needsUpdate = true
	}
	if existing.ColorId != target.ColorId {
		patch.ColorId = target.ColorId
		if patch.ColorId == "" {
			patch.NullFields = append(patch.NullFields, "ColorId")
		}
		needsUpdate = true
	}
	if eventDate(existing.Start) != eventDate(target.Start) || eventDate(existing.End) != eventDate(target.End) {
		patch.Start = target.Start
		patch.End = target.End
		needsUpdate = true
	}

	if needsUpdate {
		return patch
	}
	return nil
}
