// Package service implements the event operations on top of the repository:
// id assignment, partial-update merging, field selection and pagination.
// Input is validated before it gets here.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Shivanand-hulikatti/event-manager/internal/model"
	"github.com/Shivanand-hulikatti/event-manager/internal/repository"
)

// EventService orchestrates event-related business operations.
type EventService struct {
	events *repository.EventRepository
	newID  func() string
}

// NewEventService constructs an EventService with its dependencies.
func NewEventService(events *repository.EventRepository) *EventService {
	return &EventService{events: events, newID: uuid.NewString}
}

// CreateEvent assigns a fresh id and stores the event.
func (s *EventService) CreateEvent(ctx context.Context, req model.CreateEventRequest) (*model.Event, error) {
	event := model.Event{
		ID:          s.newID(),
		Title:       req.Title,
		Date:        req.Date,
		Description: req.Description,
		Category:    req.Category,
	}
	if err := s.events.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return &event, nil
}

// ListEvents returns events [skip, skip+limit) in insertion order, reduced
// to opts.Select when given. Skipping past the end yields an empty page.
func (s *EventService) ListEvents(ctx context.Context, opts model.ListOptions) (model.Listing, error) {
	all, err := s.events.List(ctx)
	if err != nil {
		return model.Listing{}, fmt.Errorf("list events: %w", err)
	}
	return model.Listing{
		Events: page(all, opts.Skip, opts.Limit),
		Fields: opts.Select,
	}, nil
}

// GetEvent returns a single event by ID.
func (s *EventService) GetEvent(ctx context.Context, id string) (*model.Event, error) {
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

// UpdateEvent merges the submitted fields over the stored event. The id
// never changes.
func (s *EventService) UpdateEvent(ctx context.Context, id string, req model.UpdateEventRequest) (*model.Event, error) {
	current, err := s.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	updated := req.Apply(*current)
	updated.ID = current.ID

	if err := s.events.Replace(ctx, updated); err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	return &updated, nil
}

// DeleteEvent removes the event. Deleting an absent id returns
// repository.ErrNotFound; a stale list entry for it is still dropped.
func (s *EventService) DeleteEvent(ctx context.Context, id string) error {
	if err := s.events.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return repository.ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

func page(events []model.Event, skip, limit int) []model.Event {
	if skip < 0 {
		skip = 0
	}
	if limit < 0 {
		limit = 0
	}
	if skip >= len(events) {
		return []model.Event{}
	}
	end := skip + limit
	if end > len(events) || end < skip {
		end = len(events)
	}
	return events[skip:end]
}
