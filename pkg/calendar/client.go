// Package calendar mirrors task deadlines into a Google Calendar as all-day
// events. The mirror is write-only: nothing is read back into the task list.
package calendar

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
)

// EventAPI is the slice of the Calendar API the mirror needs.
type EventAPI interface {
	Get(ctx context.Context, eventID string) (*gcal.Event, error)
	FindByTaskID(ctx context.Context, taskID string) (*gcal.Event, error)
	Insert(ctx context.Context, event *gcal.Event) (*gcal.Event, error)
	Patch(ctx context.Context, eventID string, patch *gcal.Event) (*gcal.Event, error)
	Delete(ctx context.Context, eventID string) error
}

// ServiceAPI implements EventAPI on one calendar of a Calendar service.
type ServiceAPI struct {
	srv        *gcal.Service
	calendarID string
}

// NewServiceAPI resolves calendarName through the user's calendar list.
func NewServiceAPI(ctx context.Context, srv *gcal.Service, calendarName string) (*ServiceAPI, error) {
	calendarList, err := srv.CalendarList.List().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve calendar list: %w", err)
	}
	for _, item := range calendarList.Items {
		if item.Summary == calendarName {
			return &ServiceAPI{srv: srv, calendarID: item.Id}, nil
		}
	}
	return nil, fmt.Errorf("calendar '%s' not found", calendarName)
}

func (c *ServiceAPI) Get(ctx context.Context, eventID string) (*gcal.Event, error) {
	return c.srv.Events.Get(c.calendarID, eventID).Context(ctx).Do()
}

// FindByTaskID searches by the private extended property; nil when absent.
func (c *ServiceAPI) FindByTaskID(ctx context.Context, taskID string) (*gcal.Event, error) {
	events, err := c.srv.Events.List(c.calendarID).
		PrivateExtendedProperty(fmt.Sprintf("%s=%s", TaskIDProperty, taskID)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}
	if len(events.Items) > 0 {
		return events.Items[0], nil
	}
	return nil, nil
}

func (c *ServiceAPI) Insert(ctx context.Context, event *gcal.Event) (*gcal.Event, error) {
	return c.srv.Events.Insert(c.calendarID, event).Context(ctx).Do()
}

func (c *ServiceAPI) Patch(ctx context.Context, eventID string, patch *gcal.Event) (*gcal.Event, error) {
	return c.srv.Events.Patch(c.calendarID, eventID, patch).Context(ctx).Do()
}

func (c *ServiceAPI) Delete(ctx context.Context, eventID string) error {
	return c.srv.Events.Delete(c.calendarID, eventID).Context(ctx).Do()
}

// IsGone reports whether err means the event no longer exists.
func IsGone(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusNotFound || apiErr.Code == http.StatusGone
	}
	return false
}
