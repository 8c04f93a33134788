package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/EGS-Tourist-Guide/event-service/internal/clients"
	"github.com/EGS-Tourist-Guide/event-service/internal/faults"
	"github.com/EGS-Tourist-Guide/event-service/internal/helpers"
	"github.com/EGS-Tourist-Guide/event-service/internal/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
)

// timeNow is a seam for tests.
var timeNow = time.Now

// EventService coordinates an event across its four stores: the local
// record store, the calendar collaborator, the point-of-interest
// collaborator, and the image store. No single store holds the whole
// event; every operation here is an ordered multi-step sequence that
// aborts on the first failure and undoes completed remote steps in
// reverse.
type EventService struct {
	events   models.EventRepo
	calendar clients.CalendarAPI
	poi      clients.PoiAPI
	files    clients.FileStore
	logger   *slog.Logger
}

func NewEventService(events models.EventRepo, calendar clients.CalendarAPI, poi clients.PoiAPI, files clients.FileStore, logger *slog.Logger) *EventService {
	return &EventService{
		events:   events,
		calendar: calendar,
		poi:      poi,
		files:    files,
		logger:   logger,
	}
}

// sagaStep pairs a forward action with its undo. Undos run in reverse
// order when a later step fails; a step with no meaningful undo leaves
// it nil.
type sagaStep struct {
	name string
	run  func(ctx context.Context) error
	undo func(ctx context.Context) error
}

func (es *EventService) runSaga(ctx context.Context, steps []sagaStep) error {
	var completed []sagaStep
	for _, step := range steps {
		if err := step.run(ctx); err != nil {
			es.compensate(ctx, completed, step.name)
			return err
		}
		completed = append(completed, step)
	}
	return nil
}

func (es *EventService) compensate(ctx context.Context, completed []sagaStep, failedStep string) {
	for i := len(completed) - 1; i >= 0; i-- {
		step := completed[i]
		if step.undo == nil {
			continue
		}
		if err := step.undo(ctx); err != nil {
			// An undo that fails leaves an orphan for reconciliation;
			// log it loudly instead of masking the original failure.
			es.logger.Error("saga compensation failed",
				"step", step.name,
				"failed_step", failedStep,
				"error", err,
			)
		}
	}
}

// CreateEvent resolves the point of interest and the user's calendar,
// attaches a calendar entry, and only then persists the local record.
// The event identity is allocated up front so retried store inserts
// stay idempotent. Returns the new identity.
func (es *EventService) CreateEvent(ctx context.Context, req *models.EventRequest) (string, error) {
	const op = "orchestrator.createEvent"

	currency, amount, err := helpers.SplitPrice(req.Price)
	if err != nil {
		return "", faults.New(faults.KindInternal, op, err)
	}

	eventID := uuid.NewString()
	var poi *clients.PointOfInterest
	var calendarID string

	steps := []sagaStep{
		{
			name: "resolvePointOfInterest",
			run: func(ctx context.Context) error {
				poi, err = es.resolvePOI(ctx, req)
				return err
			},
		},
		{
			name: "resolveCalendar",
			run: func(ctx context.Context) error {
				calendarID, err = es.calendar.CreateUserCalendar(ctx, req.UserID)
				return asGateway(err)
			},
		},
		{
			name: "addCalendarEvent",
			run: func(ctx context.Context) error {
				return asGateway(es.calendar.AddEvent(ctx, calendarID, clients.CalendarEvent{
					ID:          eventID,
					Name:        req.Name,
					Description: req.About,
					StartDate:   req.StartDate,
					EndDate:     req.EndDate,
					Location:    req.City,
				}))
			},
			undo: func(ctx context.Context) error {
				return es.calendar.RemoveEvent(ctx, calendarID, eventID)
			},
		},
		{
			name: "persistEventRecord",
			run: func(ctx context.Context) error {
				_, err := es.events.CreateEvent(ctx, &models.Event{
					ID:                  eventID,
					UserID:              req.UserID,
					Name:                req.Name,
					Organizer:           req.Organizer,
					City:                req.City,
					Category:            req.Category,
					Contact:             req.Contact,
					About:               req.About,
					StartDate:           req.StartDate,
					EndDate:             req.EndDate,
					Price:               amount,
					Currency:            currency,
					Favorites:           0,
					MaxParticipants:     req.MaxParticipants,
					CurrentParticipants: req.CurrentParticipants,
					CalendarID:          calendarID,
					PointOfInterestID:   poi.ID,
					Created:             timeNow(),
				})
				return localInternal(err)
			},
		},
	}

	if err := es.runSaga(ctx, steps); err != nil {
		return "", err
	}
	return eventID, nil
}

// resolvePOI validates a supplied identity or creates a new point of
// interest from the inline fields. Supplying neither is a not-found
// outcome; collaborator collisions surface as conflicts.
func (es *EventService) resolvePOI(ctx context.Context, req *models.EventRequest) (*clients.PointOfInterest, error) {
	const op = "orchestrator.resolvePointOfInterest"
	if req.PointOfInterestID != "" {
		poi, err := es.poi.SearchPOI(ctx, req.PointOfInterestID)
		if err != nil {
			return nil, remoteGateway(err)
		}
		return poi, nil
	}
	if req.PointOfInterest != nil {
		poi, err := es.poi.CreatePOI(ctx, clients.PoiFields{
			Name:      req.PointOfInterest.Name,
			Latitude:  req.PointOfInterest.Latitude,
			Longitude: req.PointOfInterest.Longitude,
			Category:  req.PointOfInterest.Category,
			Thumbnail: req.PointOfInterest.Thumbnail,
		})
		if err != nil {
			return nil, remoteGateway(err)
		}
		return poi, nil
	}
	return nil, faults.New(faults.KindNotFound, op, errors.New("no point of interest identity or fields supplied"))
}

// GetEvent assembles the merged view: scheduling data from the
// calendar, location data from the point of interest, the rest from
// the local record.
func (es *EventService) GetEvent(ctx context.Context, id string) (*models.EventView, error) {
	const op = "orchestrator.getEvent"

	event, err := es.events.GetEventByID(ctx, id)
	if err != nil {
		return nil, localInternal(err)
	}
	if event == nil {
		return nil, faults.New(faults.KindNotFound, op, nil)
	}

	// The references were valid at creation, so a collaborator miss
	// here means the collaborator lost data: a gateway failure, not a
	// caller-visible not-found.
	calEvents, err := es.calendar.GetEvents(ctx, event.CalendarID, map[string]string{"eventid": id})
	if err != nil {
		return nil, asGateway(err)
	}
	if len(calEvents) == 0 {
		return nil, faults.New(faults.KindGateway, op, errors.New("calendar entry missing for event"))
	}

	poi, err := es.poi.SearchPOI(ctx, event.PointOfInterestID)
	if err != nil {
		return nil, asGateway(err)
	}

	view := &models.EventView{Event: *event}
	view.Name = calEvents[0].Name
	view.Description = calEvents[0].Description
	view.StartDate = calEvents[0].StartDate
	view.EndDate = calEvents[0].EndDate
	view.Location = poi.Name
	view.Latitude = poi.Latitude
	view.Longitude = poi.Longitude
	view.Category = poi.Category
	view.Thumbnail = poi.Thumbnail
	return view, nil
}

// ListEvents returns the matching local records. An empty result is a
// caller-visible not-found, so "no matches" stays distinguishable from
// a malformed filter (which never reaches this far).
func (es *EventService) ListEvents(ctx context.Context, filter models.ListFilter) ([]*models.Event, error) {
	const op = "orchestrator.listEvents"
	events, err := es.events.ListEvents(ctx, filter)
	if err != nil {
		return nil, localInternal(err)
	}
	if len(events) == 0 {
		return nil, faults.New(faults.KindNotFound, op, nil)
	}
	return events, nil
}

// UpdateEvent mirrors the create order against an existing identity:
// collaborator failures short-circuit before the local record is
// touched.
func (es *EventService) UpdateEvent(ctx context.Context, id string, req *models.EventRequest) error {
	const op = "orchestrator.updateEvent"

	currency, amount, err := helpers.SplitPrice(req.Price)
	if err != nil {
		return faults.New(faults.KindInternal, op, err)
	}

	event, err := es.events.GetEventByID(ctx, id)
	if err != nil {
		return localInternal(err)
	}
	if event == nil {
		return faults.New(faults.KindNotFound, op, nil)
	}

	// The point-of-interest reference is immutable, but a supplied
	// identity must still exist.
	if req.PointOfInterestID != "" {
		if _, err := es.poi.SearchPOI(ctx, req.PointOfInterestID); err != nil {
			return remoteGateway(err)
		}
	}

	err = es.calendar.UpdateEvent(ctx, event.CalendarID, id, clients.CalendarEvent{
		ID:          id,
		Name:        req.Name,
		Description: req.About,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Location:    req.City,
	})
	if err != nil {
		return asGateway(err)
	}

	updated, err := es.events.UpdateEvent(ctx, id, bson.M{
		"name":                req.Name,
		"organizer":           req.Organizer,
		"city":                req.City,
		"category":            req.Category,
		"contact":             req.Contact,
		"about":               req.About,
		"startdate":           req.StartDate,
		"enddate":             req.EndDate,
		"price":               amount,
		"currency":            currency,
		"maxparticipants":     req.MaxParticipants,
		"currentparticipants": req.CurrentParticipants,
	})
	if err != nil {
		return localInternal(err)
	}
	if updated == nil {
		return faults.New(faults.KindNotFound, op, nil)
	}
	return nil
}

// DeleteEvent is idempotent: a missing identity is a success. The
// attached image is removed best effort; the calendar entry must go
// before the local record and its favorites do, so a calendar failure
// abandons the deletion with the local state untouched.
func (es *EventService) DeleteEvent(ctx context.Context, id string) error {
	event, err := es.events.GetEventByID(ctx, id)
	if err != nil {
		return localInternal(err)
	}
	if event == nil {
		return nil
	}

	if err := es.files.Delete(ctx, id); err != nil {
		es.logger.Warn("event image cleanup failed", "event_id", id, "error", err)
	}

	if err := es.calendar.RemoveEvent(ctx, event.CalendarID, id); err != nil {
		if faults.KindOf(err) != faults.KindNotFound {
			return remoteGateway(err)
		}
	}

	return localInternal(es.events.DeleteEventWithFavorites(ctx, id))
}

// UploadImage attaches an image to an existing event. Image data for a
// record that does not exist would be orphaned, so the identity is
// checked first.
func (es *EventService) UploadImage(ctx context.Context, id string, file io.Reader) error {
	const op = "orchestrator.uploadImage"

	event, err := es.events.GetEventByID(ctx, id)
	if err != nil {
		return localInternal(err)
	}
	if event == nil {
		return faults.New(faults.KindNotFound, op, nil)
	}

	_, err = es.files.Upload(ctx, id, file)
	return remoteGateway(err)
}

// ImageURL resolves the delivery URL for the event's stored image.
func (es *EventService) ImageURL(ctx context.Context, id string) (string, error) {
	url, err := es.files.DownloadURL(ctx, id)
	if err != nil {
		return "", remoteGateway(err)
	}
	return url, nil
}

// DeleteImage removes the stored image for the event.
func (es *EventService) DeleteImage(ctx context.Context, id string) error {
	return remoteGateway(es.files.Delete(ctx, id))
}

// remoteGateway escalates an exhausted retryable failure from a
// collaborator to a gateway outcome; domain kinds pass through.
func remoteGateway(err error) error {
	if err == nil {
		return nil
	}
	var fe *faults.Error
	if errors.As(err, &fe) && faults.Retryable(err) {
		return faults.New(faults.KindGateway, fe.Op, err)
	}
	return err
}

// asGateway reclassifies any collaborator failure, including a
// not-found, as a gateway outcome.
func asGateway(err error) error {
	if err == nil {
		return nil
	}
	var fe *faults.Error
	if errors.As(err, &fe) && fe.Kind == faults.KindGateway {
		return err
	}
	op := "collaborator"
	if fe != nil {
		op = fe.Op
	}
	return faults.New(faults.KindGateway, op, err)
}

// localInternal escalates an exhausted retryable failure from the
// local store to an internal outcome.
func localInternal(err error) error {
	if err == nil {
		return nil
	}
	var fe *faults.Error
	if errors.As(err, &fe) && faults.Retryable(err) {
		return faults.New(faults.KindInternal, fe.Op, err)
	}
	return err
}
