// Package repository maps event records onto cache keys.
//
// Every event is kept twice: as event:<id> for point lookups and inside the
// events:all JSON array for listing, since the store offers no key scan.
// Each mutation writes both keys in one cache.Store batch. The batch is
// atomic on the write side only: the read of events:all that precedes it
// is not guarded, so concurrent writers can lose each other's list update.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Shivanand-hulikatti/event-manager/internal/cache"
	"github.com/Shivanand-hulikatti/event-manager/internal/model"
)

// ErrNotFound is returned when a requested event does not exist.
var ErrNotFound = errors.New("not found")

// AllEventsKey holds the ordered list of every event.
const AllEventsKey = "events:all"

// EventKey returns the per-id key of an event.
func EventKey(id string) string {
	return "event:" + id
}

// EventRepository handles persistence for events.
type EventRepository struct {
	store cache.Store
	log   *slog.Logger
}

// NewEventRepository constructs an EventRepository.
func NewEventRepository(store cache.Store, log *slog.Logger) *EventRepository {
	return &EventRepository{store: store, log: log}
}

// Create stores a new event under its id and appends it to the list.
func (r *EventRepository) Create(ctx context.Context, event model.Event) error {
	events, _, err := r.list(ctx)
	if err != nil {
		return err
	}
	events = append(events, event)

	one, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	all, err := json.Marshal(events)
	if err != nil {
		return fmt.Errorf("encode event list: %w", err)
	}

	if err := r.store.Apply(ctx,
		cache.Set(EventKey(event.ID), one),
		cache.Set(AllEventsKey, all),
	); err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// List returns every event in insertion order. A missing list is empty.
func (r *EventRepository) List(ctx context.Context) ([]model.Event, error) {
	events, _, err := r.list(ctx)
	return events, err
}

// GetByID returns a single event or ErrNotFound.
func (r *EventRepository) GetByID(ctx context.Context, id string) (*model.Event, error) {
	b, err := r.store.Get(ctx, EventKey(id))
	if err != nil {
		if errors.Is(err, cache.ErrMiss) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	var e model.Event
	if err := json.Unmarshal(b, &e); err != nil {
		return nil, fmt.Errorf("decode event %s: %w", id, err)
	}
	return &e, nil
}

// Replace overwrites event:<id> and the matching list entry. The list is
// only rewritten when it exists and holds the id; otherwise it is left as
// it is and the per-id write still goes through.
func (r *EventRepository) Replace(ctx context.Context, event model.Event) error {
	one, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	ops := []cache.Op{cache.Set(EventKey(event.ID), one)}

	events, found, err := r.list(ctx)
	switch {
	case err != nil:
		r.log.Warn("event list not updated", "id", event.ID, "error", err)
	case found:
		for i := range events {
			if events[i].ID == event.ID {
				events[i] = event
				if op, err := r.listOp(events); err == nil {
					ops = append(ops, op)
				}
				break
			}
		}
	}

	if err := r.store.Apply(ctx, ops...); err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	return nil
}

// Delete removes event:<id> and any list entry with that id. It returns
// ErrNotFound when event:<id> did not exist; list entries are still
// cleaned up in that case.
func (r *EventRepository) Delete(ctx context.Context, id string) error {
	existed := true
	if _, err := r.store.Get(ctx, EventKey(id)); err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			return fmt.Errorf("get event: %w", err)
		}
		existed = false
	}

	ops := []cache.Op{cache.Del(EventKey(id))}

	events, found, err := r.list(ctx)
	switch {
	case err != nil:
		r.log.Warn("event list not updated", "id", id, "error", err)
	case found:
		kept := events[:0]
		for _, e := range events {
			if e.ID != id {
				kept = append(kept, e)
			}
		}
		if len(kept) != len(events) {
			if op, err := r.listOp(kept); err == nil {
				ops = append(ops, op)
			}
		}
	}

	if err := r.store.Apply(ctx, ops...); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if !existed {
		return ErrNotFound
	}
	return nil
}

// list reads events:all. found is false when the key does not exist.
func (r *EventRepository) list(ctx context.Context) (events []model.Event, found bool, err error) {
	b, err := r.store.Get(ctx, AllEventsKey)
	if err != nil {
		if errors.Is(err, cache.ErrMiss) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("list events: %w", err)
	}
	if err := json.Unmarshal(b, &events); err != nil {
		return nil, false, fmt.Errorf("decode event list: %w", err)
	}
	return events, true, nil
}

func (r *EventRepository) listOp(events []model.Event) (cache.Op, error) {
	b, err := json.Marshal(events)
	if err != nil {
		r.log.Warn("event list not updated", "error", err)
		return cache.Op{}, err
	}
	return cache.Set(AllEventsKey, b), nil
}
