// Package calendar converts tasks into all-day Google Calendar events.
package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	gcal "google.golang.org/api/calendar/v3"

	"github.com/harrisonrobin/gantta/pkg/colors"
	"github.com/harrisonrobin/gantta/pkg/dates"
	"github.com/harrisonrobin/gantta/pkg/model"
	"github.com/harrisonrobin/gantta/pkg/render"
)

// Private extended properties set on every event.
const (
	PropID       = "gantta_id"
	PropCategory = "gantta_category"
)

var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/harrisonrobin/gantta"))

// EventID derives the event id of a task from its content, so publishing the same task
// twice targets the same event. The result only uses the characters Calendar accepts in
// client-supplied ids.
func EventID(t model.Task) string {
	key := strings.Join([]string{t.Category, t.Name, t.Start.Format(dates.ISO), t.End.Format(dates.ISO)}, "\x00")
	return strings.ReplaceAll(uuid.NewSHA1(namespace, []byte(key)).String(), "-", "")
}

// Events converts every task of ts. Colors follow the category order of ts.
func Events(ts model.TaskSet, palette []string) []*gcal.Event {
	a := colors.Assign(ts.Categories(), palette)
	events := make([]*gcal.Event, 0, len(ts))
	for _, t := range ts {
		events = append(events, Event(t, a.CalendarColorID(t.Category)))
	}
	return events
}

// Event converts one task. Calendar end dates are exclusive, so the event ends the day
// after the task.
func Event(t model.Task, colorID string) *gcal.Event {
	id := EventID(t)
	var desc strings.Builder
	fmt.Fprintf(&desc, "Category: %s\n", t.Category)
	fmt.Fprintf(&desc, "Period: %s → %s\n", t.Start.Format(dates.Long), t.End.Format(dates.Long))
	fmt.Fprintf(&desc, "Duration: %dd\n", t.DurationDays)

	return &gcal.Event{
		Id:           id,
		Summary:      fmt.Sprintf("[%s] %s", t.Category, t.Name),
		Description:  desc.String(),
		ColorId:      colorID,
		Transparency: "transparent",
		Start:        &gcal.EventDateTime{Date: t.Start.Format(dates.ISO)},
		End:          &gcal.EventDateTime{Date: dates.AddDays(t.End, 1).Format(dates.ISO)},
		ExtendedProperties: &gcal.EventExtendedProperties{
			Private: map[string]string{
				PropID:       id,
				PropCategory: t.Category,
			},
		},
	}
}

// Patch returns the fields of target that differ from existing, or nil when the event
// is already up to date.
func Patch(existing, target *gcal.Event) *gcal.Event {
	patch := &gcal.Event{}
	changed := false

	if existing.Summary != target.Summary {
		patch.Summary = target.Summary
		changed = true
	}
	if existing.Description != target.Description {
		patch.Description = target.Description
		changed = true
	}
	if existing.ColorId != target.ColorId {
		patch.ColorId = target.ColorId
		changed = true
	}
	if day(existing.Start) != day(target.Start) || day(existing.End) != day(target.End) {
		patch.Start = target.Start
		patch.End = target.End
		changed = true
	}

	if !changed {
		return nil
	}
	return patch
}

func day(d *gcal.EventDateTime) string {
	if d == nil {
		return ""
	}
	return d.Date
}

type Adapter struct{}

func (Adapter) Name() string { return "calendar" }

func (Adapter) Render(_ context.Context, b *render.Bundle) (*render.Output, error) {
	data, err := json.MarshalIndent(Events(b.Tasks, b.Layout.Palette), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode events: %w", err)
	}
	return &render.Output{
		Name:      render.FileName(b.Title, "events", "json"),
		MediaType: render.MediaJSON,
		Data:      append(data, '\n'),
	}, nil
}
