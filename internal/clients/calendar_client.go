package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/EGS-Tourist-Guide/event-service/internal/faults"
	"github.com/EGS-Tourist-Guide/event-service/internal/retry"
)

// CalendarEvent is the scheduling slice of an event, authoritative in
// the calendar collaborator. Collaborator response shapes never cross
// this package's boundary; callers only see this struct and classified
// errors.
type CalendarEvent struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"startdate"`
	EndDate     time.Time `json:"enddate"`
	Location    string    `json:"location"`
}

// CalendarAPI is the contract the orchestrator depends on.
type CalendarAPI interface {
	CreateUserCalendar(ctx context.Context, userID string) (string, error)
	AddEvent(ctx context.Context, calendarID string, event CalendarEvent) error
	GetEvents(ctx context.Context, calendarID string, params map[string]string) ([]CalendarEvent, error)
	UpdateEvent(ctx context.Context, calendarID, eventID string, event CalendarEvent) error
	RemoveEvent(ctx context.Context, calendarID, eventID string) error
}

// CalendarClient talks JSON over HTTP to the calendar service,
// authenticated with a shared api key header.
type CalendarClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	opts       retry.Options
}

func NewCalendarClient(baseURL, apiKey string) *CalendarClient {
	return &CalendarClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{},
		opts:       retry.CollaboratorDefaults(),
	}
}

// CreateUserCalendar creates (or fetches, when one already exists) the
// calendar owned by the user and returns its id.
func (c *CalendarClient) CreateUserCalendar(ctx context.Context, userID string) (string, error) {
	const op = "calendar.createUserCalendar"
	return retry.Do(ctx, op, c.opts, func(ctx context.Context) (string, error) {
		var out struct {
			CalendarID string `json:"calendarId"`
		}
		err := c.do(ctx, op, http.MethodPost, "/v1/"+url.PathEscape(userID), nil, &out)
		if err != nil {
			return "", err
		}
		if out.CalendarID == "" {
			return "", faults.New(faults.KindGateway, op, errors.New("response carried no calendar id"))
		}
		return out.CalendarID, nil
	})
}

func (c *CalendarClient) AddEvent(ctx context.Context, calendarID string, event CalendarEvent) error {
	const op = "calendar.addEvent"
	_, err := retry.Do(ctx, op, c.opts, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, c.do(ctx, op, http.MethodPost, "/v1/calendars/"+url.PathEscape(calendarID), event, nil)
	})
	return err
}

func (c *CalendarClient) GetEvents(ctx context.Context, calendarID string, params map[string]string) ([]CalendarEvent, error) {
	const op = "calendar.getEvents"
	return retry.Do(ctx, op, c.opts, func(ctx context.Context) ([]CalendarEvent, error) {
		query := url.Values{}
		for key, value := range params {
			query.Set(key, value)
		}
		path := "/v1/calendars/" + url.PathEscape(calendarID)
		if len(query) > 0 {
			path += "?" + query.Encode()
		}
		var events []CalendarEvent
		if err := c.do(ctx, op, http.MethodGet, path, nil, &events); err != nil {
			return nil, err
		}
		return events, nil
	})
}

func (c *CalendarClient) UpdateEvent(ctx context.Context, calendarID, eventID string, event CalendarEvent) error {
	const op = "calendar.updateEvent"
	_, err := retry.Do(ctx, op, c.opts, func(ctx context.Context) (struct{}, error) {
		path := "/v1/calendars/" + url.PathEscape(calendarID) + "/" + url.PathEscape(eventID)
		return struct{}{}, c.do(ctx, op, http.MethodPatch, path, event, nil)
	})
	return err
}

func (c *CalendarClient) RemoveEvent(ctx context.Context, calendarID, eventID string) error {
	const op = "calendar.removeEvent"
	_, err := retry.Do(ctx, op, c.opts, func(ctx context.Context) (struct{}, error) {
		path := "/v1/calendars/" + url.PathEscape(calendarID) + "/" + url.PathEscape(eventID)
		return struct{}{}, c.do(ctx, op, http.MethodDelete, path, nil, nil)
	})
	return err
}

// do issues one request and classifies the outcome. Connection-level
// failures are transport (retryable); 404 and 409 map to their domain
// kinds; any other non-2xx status or an undecodable body is a gateway
// failure.
func (c *CalendarClient) do(ctx context.Context, op, method, path string, body, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return faults.New(faults.KindInternal, op, err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return faults.New(faults.KindInternal, op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return faults.New(faults.KindTimeout, op, err)
		}
		return faults.New(faults.KindTransport, op, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return faults.New(faults.KindNotFound, op, nil)
	case resp.StatusCode == http.StatusConflict:
		return faults.New(faults.KindConflict, op, nil)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return faults.New(faults.KindGateway, op, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return faults.New(faults.KindGateway, op, fmt.Errorf("malformed response: %v", err))
	}
	return nil
}

var _ CalendarAPI = (*CalendarClient)(nil)
