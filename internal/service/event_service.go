package service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"event-share/internal/model"
	"event-share/internal/util"
	"event-share/pkg/apierror"
)

// EventStore is the document store holding events, participants and comments.
type EventStore interface {
	List(ctx context.Context) ([]model.Event, error)
	Get(ctx context.Context, id string) (model.Event, error)
	Create(ctx context.Context, e model.Event) (model.Event, error)
	Update(ctx context.Context, id string, changes model.EventChanges) (model.Event, error)
	Delete(ctx context.Context, id string) error
	AddParticipant(ctx context.Context, id string, username string) (model.Event, error)
	RemoveParticipant(ctx context.Context, id string, username string) (model.Event, error)
	AddComment(ctx context.Context, id string, c model.Comment) (model.Event, error)
}

type EventService struct {
	store EventStore
}

func NewEventService(store EventStore) *EventService {
	return &EventService{store: store}
}

func (s *EventService) List(ctx context.Context) ([]model.Event, error) {
	return s.store.List(ctx)
}

func (s *EventService) Get(ctx context.Context, id string) (model.Event, error) {
	event, err := s.store.Get(ctx, id)
	if err != nil {
		return model.Event{}, mapEventErr(err)
	}
	return event, nil
}

func (s *EventService) Create(ctx context.Context, actor model.Identity, req model.CreateEventRequest) (model.Event, error) {
	req.Title = util.CleanText(req.Title, false)
	req.Description = util.CleanText(req.Description, true)

	if err := validateRequest(req); err != nil {
		return model.Event{}, err
	}

	date, err := parseEventDate(req.Date)
	if err != nil {
		return model.Event{}, err
	}

	event, err := s.store.Create(ctx, model.Event{
		Title:       req.Title,
		Description: req.Description,
		Date:        date,
		CreatedBy:   model.Creator{UserID: actor.ID, Username: actor.Username},
	})
	if err != nil {
		return model.Event{}, err
	}

	slog.InfoContext(ctx, "event created", "event_id", event.ID, "user_id", actor.ID)
	return event, nil
}

// Update changes the non-empty fields of req. Only the creator may update.
func (s *EventService) Update(ctx context.Context, actor model.Identity, id string, req model.UpdateEventRequest) (model.Event, error) {
	if err := validateRequest(req); err != nil {
		return model.Event{}, err
	}

	var changes model.EventChanges
	if title := util.CleanText(req.Title, false); title != "" {
		changes.Title = &title
	}
	if description := util.CleanText(req.Description, true); description != "" {
		changes.Description = &description
	}
	if strings.TrimSpace(req.Date) != "" {
		date, err := parseEventDate(req.Date)
		if err != nil {
			return model.Event{}, err
		}
		changes.Date = &date
	}

	if _, err := s.ownedEvent(ctx, actor, id, "update"); err != nil {
		return model.Event{}, err
	}

	event, err := s.store.Update(ctx, id, changes)
	if err != nil {
		return model.Event{}, mapEventErr(err)
	}
	return event, nil
}

func (s *EventService) Delete(ctx context.Context, actor model.Identity, id string) error {
	if _, err := s.ownedEvent(ctx, actor, id, "delete"); err != nil {
		return err
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return mapEventErr(err)
	}

	slog.InfoContext(ctx, "event deleted", "event_id", id, "user_id", actor.ID)
	return nil
}

func (s *EventService) Join(ctx context.Context, actor model.Identity, id string) (model.Event, error) {
	event, err := s.store.Get(ctx, id)
	if err != nil {
		return model.Event{}, mapEventErr(err)
	}

	if event.HasParticipant(actor.Username) {
		return model.Event{}, alreadyParticipant()
	}

	event, err = s.store.AddParticipant(ctx, id, actor.Username)
	if errors.Is(err, model.ErrParticipantsChanged) {
		return model.Event{}, alreadyParticipant()
	}
	if err != nil {
		return model.Event{}, mapEventErr(err)
	}
	return event, nil
}

func (s *EventService) Unjoin(ctx context.Context, actor model.Identity, id string) (model.Event, error) {
	event, err := s.store.Get(ctx, id)
	if err != nil {
		return model.Event{}, mapEventErr(err)
	}

	if !event.HasParticipant(actor.Username) {
		return model.Event{}, notParticipant()
	}

	event, err = s.store.RemoveParticipant(ctx, id, actor.Username)
	if errors.Is(err, model.ErrParticipantsChanged) {
		return model.Event{}, notParticipant()
	}
	if err != nil {
		return model.Event{}, mapEventErr(err)
	}
	return event, nil
}

func (s *EventService) Comment(ctx context.Context, actor model.Identity, id string, req model.CommentRequest) (model.Event, error) {
	req.Text = util.CleanText(req.Text, true)
	if req.Text == "" {
		return model.Event{}, apierror.New("VALIDATION_ERROR", "comment text is required", "text", http.StatusBadRequest)
	}
	if err := validateRequest(req); err != nil {
		return model.Event{}, err
	}

	event, err := s.store.AddComment(ctx, id, model.Comment{
		UserID:   actor.ID,
		Username: actor.Username,
		Text:     req.Text,
	})
	if err != nil {
		return model.Event{}, mapEventErr(err)
	}
	return event, nil
}

func (s *EventService) ownedEvent(ctx context.Context, actor model.Identity, id string, action string) (model.Event, error) {
	event, err := s.store.Get(ctx, id)
	if err != nil {
		return model.Event{}, mapEventErr(err)
	}

	if event.CreatedBy.UserID != actor.ID {
		return model.Event{}, apierror.New("FORBIDDEN", "you are not authorized to "+action+" this event", "", http.StatusForbidden)
	}
	return event, nil
}

func mapEventErr(err error) error {
	if errors.Is(err, model.ErrEventNotFound) {
		return apierror.New("NOT_FOUND", "event not found", "", http.StatusNotFound)
	}
	return err
}

func alreadyParticipant() error {
	return apierror.New("ALREADY_PARTICIPANT", "you are already a participant", "", http.StatusBadRequest)
}

func notParticipant() error {
	return apierror.New("NOT_PARTICIPANT", "you are not a participant", "", http.StatusBadRequest)
}
