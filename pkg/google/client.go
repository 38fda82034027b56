// Package google publishes task events to a Google Calendar.
package google

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	gcal "google.golang.org/api/calendar/v3"

	"github.com/harrisonrobin/gantta/pkg/logger"
)

// ErrCalendarNotFound is returned when no calendar of the user has the requested name.
var ErrCalendarNotFound = errors.New("calendar not found")

const (
	DefaultRetries   = 4
	DefaultBaseDelay = 500 * time.Millisecond
	DefaultWorkers   = 4
)

// NewClient resolves calendarName among the calendars of the authorized user.
func NewClient(ctx context.Context, srv *gcal.Service, calendarName string, log *zap.Logger) (*CalendarClient, error) {
	c := NewCalendarClient(srv, "", log)
	id, err := c.FindCalendar(ctx, calendarName)
	if err != nil {
		return nil, err
	}
	c.calendarID = id
	return c, nil
}

// FindCalendar returns the id of the first calendar whose summary is name.
func (c *CalendarClient) FindCalendar(ctx context.Context, name string) (string, error) {
	var id string
	err := c.do(ctx, "list calendars", func(ctx context.Context) error {
		id = ""
		return c.srv.CalendarList.List().Pages(ctx, func(page *gcal.CalendarList) error {
			for _, item := range page.Items {
				if item.Summary == name && id == "" {
					id = item.Id
				}
			}
			return nil
		})
	})
	if err != nil {
		return "", fmt.Errorf("unable to retrieve calendar list: %w", err)
	}
	if id == "" {
		return "", fmt.Errorf("%w: %q", ErrCalendarNotFound, name)
	}
	c.log.Debug("resolved calendar", zap.String("name", name), zap.String("id", id))
	return id, nil
}

// NewCalendarClient wraps srv for the calendar with the given id.
func NewCalendarClient(srv *gcal.Service, calendarID string, log *zap.Logger) *CalendarClient {
	return &CalendarClient{
		srv:        srv,
		calendarID: calendarID,
		log:        logger.OrNop(log),
		Retries:    DefaultRetries,
		BaseDelay:  DefaultBaseDelay,
		Workers:    DefaultWorkers,
	}
}
