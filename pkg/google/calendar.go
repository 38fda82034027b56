package google

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"

	"github.com/harrisonrobin/gantta/pkg/render/calendar"
)

// Action is what SyncEvent did to the calendar.
type Action string

const (
	Created   Action = "created"
	Updated   Action = "updated"
	Unchanged Action = "unchanged"
	Failed    Action = "failed"
)

// CalendarClient is a Google Calendar API client bound to one calendar.
type CalendarClient struct {
	srv        *gcal.Service
	calendarID string
	log        *zap.Logger

	// Retries bounds the attempts made after a rate-limit or server error.
	Retries   uint64
	BaseDelay time.Duration
	// Workers is the number of events synced concurrently by Publish.
	Workers int
}

// CalendarID is the id of the target calendar.
func (c *CalendarClient) CalendarID() string { return c.calendarID }

// Summary counts the outcome of a Publish.
type Summary struct {
	Created   int
	Updated   int
	Unchanged int
	Failed    int
}

func (s *Summary) add(a Action) {
	switch a {
	case Created:
		s.Created++
	case Updated:
		s.Updated++
	case Unchanged:
		s.Unchanged++
	default:
		s.Failed++
	}
}

// Publish upserts every event. A failing event does not stop the others; their errors
// are joined in the returned error.
func (c *CalendarClient) Publish(ctx context.Context, events []*gcal.Event) (Summary, error) {
	actions := make([]Action, len(events))
	errs := make([]error, len(events))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(c.Workers, 1))
	for i, ev := range events {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			_, action, err := c.SyncEvent(ctx, ev)
			actions[i] = action
			if err != nil {
				errs[i] = fmt.Errorf("%s: %w", ev.Summary, err)
				c.log.Warn("could not sync event", zap.String("summary", ev.Summary), zap.Error(err))
			}
			return nil
		})
	}
	waitErr := g.Wait()

	var sum Summary
	for _, a := range actions {
		sum.add(a)
	}
	return sum, errors.Join(append(errs, waitErr)...)
}

// SyncEvent creates target or updates the event that already carries its id.
func (c *CalendarClient) SyncEvent(ctx context.Context, target *gcal.Event) (*gcal.Event, Action, error) {
	existing, err := c.lookup(ctx, target)
	if err != nil {
		return nil, Failed, fmt.Errorf("error searching for event: %w", err)
	}

	if existing == nil {
		created, err := c.insert(ctx, target)
		if err != nil {
			return nil, Failed, err
		}
		c.log.Debug("created event", zap.String("id", created.Id), zap.String("summary", created.Summary))
		return created, Created, nil
	}

	var patch *gcal.Event
	if existing.Status == "cancelled" {
		// deleted by the user: bring it back with the full content
		patch = &gcal.Event{
			Summary:     target.Summary,
			Description: target.Description,
			ColorId:     target.ColorId,
			Start:       target.Start,
			End:         target.End,
			Status:      "confirmed",
		}
	} else {
		patch = calendar.Patch(existing, target)
	}
	if patch == nil {
		return existing, Unchanged, nil
	}

	updated, err := c.PatchEvent(ctx, existing.Id, patch)
	if err != nil {
		return nil, Failed, err
	}
	c.log.Debug("updated event", zap.String("id", updated.Id), zap.String("summary", updated.Summary))
	return updated, Updated, nil
}

// lookup tries the deterministic id first, then the private property.
func (c *CalendarClient) lookup(ctx context.Context, target *gcal.Event) (*gcal.Event, error) {
	if target.Id != "" {
		ev, err := c.GetEvent(ctx, target.Id)
		if err == nil {
			return ev, nil
		}
		if !isNotFound(err) {
			return nil, err
		}
	}
	id := target.Id
	if target.ExtendedProperties != nil && target.ExtendedProperties.Private[calendar.PropID] != "" {
		id = target.ExtendedProperties.Private[calendar.PropID]
	}
	if id == "" {
		return nil, nil
	}
	return c.GetEventByTaskID(ctx, id)
}

func (c *CalendarClient) insert(ctx context.Context, ev *gcal.Event) (*gcal.Event, error) {
	var created *gcal.Event
	err := c.do(ctx, "insert event", func(ctx context.Context) error {
		var err error
		created, err = c.srv.Events.Insert(c.calendarID, ev).Context(ctx).Do()
		return err
	})
	return created, err
}

// GetEvent fetches one event, including cancelled ones.
func (c *CalendarClient) GetEvent(ctx context.Context, eventID string) (*gcal.Event, error) {
	var ev *gcal.Event
	err := c.do(ctx, "get event", func(ctx context.Context) error {
		var err error
		ev, err = c.srv.Events.Get(c.calendarID, eventID).Context(ctx).Do()
		return err
	})
	return ev, err
}

// PatchEvent performs a partial update on an event.
func (c *CalendarClient) PatchEvent(ctx context.Context, eventID string, patch *gcal.Event) (*gcal.Event, error) {
	var ev *gcal.Event
	err := c.do(ctx, "patch event", func(ctx context.Context) error {
		var err error
		ev, err = c.srv.Events.Patch(c.calendarID, eventID, patch).Context(ctx).Do()
		return err
	})
	return ev, err
}

// DeleteEvent deletes an event from the calendar.
func (c *CalendarClient) DeleteEvent(ctx context.Context, eventID string) error {
	return c.do(ctx, "delete event", func(ctx context.Context) error {
		return c.srv.Events.Delete(c.calendarID, eventID).Context(ctx).Do()
	})
}

// GetEventByTaskID searches for an event whose private gantta id is id.
func (c *CalendarClient) GetEventByTaskID(ctx context.Context, id string) (*gcal.Event, error) {
	var found *gcal.Event
	err := c.do(ctx, "search event", func(ctx context.Context) error {
		events, err := c.srv.Events.List(c.calendarID).
			PrivateExtendedProperty(fmt.Sprintf("%s=%s", calendar.PropID, id)).
			ShowDeleted(true).
			Context(ctx).
			Do()
		if err != nil {
			return err
		}
		found = nil
		if len(events.Items) > 0 {
			found = events.Items[0]
		}
		return nil
	})
	return found, err
}

// Stale lists the gantta events starting after timeMin whose id is not in keep.
func (c *CalendarClient) Stale(ctx context.Context, timeMin time.Time, keep map[string]bool) ([]*gcal.Event, error) {
	var stale []*gcal.Event
	err := c.do(ctx, "list events", func(ctx context.Context) error {
		stale = nil
		return c.srv.Events.List(c.calendarID).
			TimeMin(timeMin.Format(time.RFC3339)).
			Pages(ctx, func(page *gcal.Events) error {
				for _, ev := range page.Items {
					if ev.ExtendedProperties == nil {
						continue
					}
					id, ok := ev.ExtendedProperties.Private[calendar.PropID]
					if ok && !keep[id] {
						stale = append(stale, ev)
					}
				}
				return nil
			})
	})
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve events from calendar: %w", err)
	}
	return stale, nil
}

// Prune deletes the events returned by Stale and reports how many were removed.
func (c *CalendarClient) Prune(ctx context.Context, timeMin time.Time, keep map[string]bool) (int, error) {
	stale, err := c.Stale(ctx, timeMin, keep)
	if err != nil {
		return 0, err
	}
	var (
		mu      sync.Mutex
		deleted int
		errs    []error
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(c.Workers, 1))
	for _, ev := range stale {
		g.Go(func() error {
			err := c.DeleteEvent(ctx, ev.Id)
			mu.Lock()
			defer mu.Unlock()
			if err != nil && !isGone(err) {
				errs = append(errs, fmt.Errorf("delete %s: %w", ev.Summary, err))
				return nil
			}
			deleted++
			return nil
		})
	}
	errs = append(errs, g.Wait())
	return deleted, errors.Join(errs...)
}

// do runs call, retrying rate limits and server errors with exponential backoff.
func (c *CalendarClient) do(ctx context.Context, op string, call func(context.Context) error) error {
	backoff := retry.WithMaxRetries(c.Retries, retry.NewExponential(max(c.BaseDelay, time.Millisecond)))
	attempt := 0
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		err := call(ctx)
		if err != nil && Retryable(err) {
			c.log.Debug("retrying calendar call", zap.String("op", op), zap.Int("attempt", attempt), zap.Error(err))
			return retry.RetryableError(err)
		}
		return err
	})
}

// Retryable reports whether err is a rate limit or a transient server error.
func Retryable(err error) bool {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return false
	}
	switch {
	case gerr.Code == http.StatusTooManyRequests, gerr.Code >= 500:
		return true
	case gerr.Code == http.StatusForbidden:
		for _, item := range gerr.Errors {
			if item.Reason == "rateLimitExceeded" || item.Reason == "userRateLimitExceeded" {
				return true
			}
		}
	}
	return false
}

func isNotFound(err error) bool {
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && gerr.Code == http.StatusNotFound
}

func isGone(err error) bool {
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && (gerr.Code == http.StatusGone || gerr.Code == http.StatusNotFound)
}
