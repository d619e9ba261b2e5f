package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shivanand-hulikatti/event-manager/internal/cache"
	"github.com/Shivanand-hulikatti/event-manager/internal/model"
	"github.com/Shivanand-hulikatti/event-manager/internal/repository"
)

func newService(t *testing.T) *EventService {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewEventService(repository.NewEventRepository(cache.NewMemoryStore(), log))
}

func strPtr(s string) *string { return &s }

func seed(t *testing.T, s *EventService, n int) []model.Event {
	t.Helper()
	var out []model.Event
	for i := 0; i < n; i++ {
		e, err := s.CreateEvent(context.Background(), model.CreateEventRequest{
			Title: fmt.Sprintf("event %d", i),
			Date:  "2024-05-01T10:00:00Z",
		})
		require.NoError(t, err)
		out = append(out, *e)
	}
	return out
}

func TestCreateEvent_AssignsUniqueIDs(t *testing.T) {
	s := newService(t)
	seen := map[string]bool{}
	for _, e := range seed(t, s, 20) {
		_, err := uuid.Parse(e.ID)
		require.NoError(t, err)
		assert.False(t, seen[e.ID], "duplicate id %s", e.ID)
		seen[e.ID] = true
	}
}

func TestCreateThenGet_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newService(t)
	created, err := s.CreateEvent(ctx, model.CreateEventRequest{
		Title:       "Launch",
		Date:        "2023-10-10T10:00:00.000Z",
		Description: "release party",
		Category:    "Category1",
	})
	require.NoError(t, err)

	got, err := s.GetEvent(ctx, created.ID)
	require.NoError(t, err)
	if diff := cmp.Diff(created, got); diff != "" {
		t.Errorf("round trip mismatch (-created +got):\n%s", diff)
	}
}

func TestListEvents_Pagination(t *testing.T) {
	ctx := context.Background()
	s := newService(t)
	all := seed(t, s, 15)

	tests := []struct {
		name        string
		limit, skip int
		want        []model.Event
	}{
		{"first page", 10, 0, all[:10]},
		{"second page", 10, 10, all[10:]},
		{"middle", 3, 4, all[4:7]},
		{"skip past end", 10, 15, []model.Event{}},
		{"far past end", 5, 1000, []model.Event{}},
		{"zero limit", 0, 0, []model.Event{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			page, err := s.ListEvents(ctx, model.ListOptions{Limit: tc.limit, Skip: tc.skip})
			require.NoError(t, err)
			if diff := cmp.Diff(tc.want, page.Events); diff != "" {
				t.Errorf("page mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestListEvents_EmptyStore(t *testing.T) {
	page, err := newService(t).ListEvents(context.Background(), model.ListOptions{Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, page.Events)

	b, err := page.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(b))
}

func TestListEvents_Select(t *testing.T) {
	ctx := context.Background()
	s := newService(t)
	all := seed(t, s, 2)

	page, err := s.ListEvents(ctx, model.ListOptions{Limit: 10, Select: []string{"title", "id", "bogus"}})
	require.NoError(t, err)
	want := []map[string]any{
		{"id": all[0].ID, "title": all[0].Title},
		{"id": all[1].ID, "title": all[1].Title},
	}
	if diff := cmp.Diff(want, page.Project()); diff != "" {
		t.Errorf("projection mismatch (-want +got):\n%s", diff)
	}
}

func TestUpdateEvent_MergesSubmittedFieldsOnly(t *testing.T) {
	ctx := context.Background()
	s := newService(t)
	orig, err := s.CreateEvent(ctx, model.CreateEventRequest{
		Title: "Old", Date: "2024-01-01", Description: "keep me", Category: "c",
	})
	require.NoError(t, err)

	updated, err := s.UpdateEvent(ctx, orig.ID, model.UpdateEventRequest{Title: strPtr("New")})
	require.NoError(t, err)

	want := *orig
	want.Title = "New"
	if diff := cmp.Diff(&want, updated); diff != "" {
		t.Errorf("update mismatch (-want +got):\n%s", diff)
	}

	page, err := s.ListEvents(ctx, model.ListOptions{Limit: 10})
	require.NoError(t, err)
	require.Len(t, page.Events, 1)
	assert.Equal(t, "New", page.Events[0].Title)
}

func TestUpdateEvent_NotFound(t *testing.T) {
	_, err := newService(t).UpdateEvent(context.Background(), uuid.NewString(), model.UpdateEventRequest{Title: strPtr("x")})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDeleteEvent(t *testing.T) {
	ctx := context.Background()
	s := newService(t)
	all := seed(t, s, 3)

	require.NoError(t, s.DeleteEvent(ctx, all[1].ID))
	_, err := s.GetEvent(ctx, all[1].ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	page, err := s.ListEvents(ctx, model.ListOptions{Limit: 10})
	require.NoError(t, err)
	if diff := cmp.Diff([]model.Event{all[0], all[2]}, page.Events); diff != "" {
		t.Errorf("list after delete (-want +got):\n%s", diff)
	}

	assert.ErrorIs(t, s.DeleteEvent(ctx, all[1].ID), repository.ErrNotFound)
}

func TestPage(t *testing.T) {
	events := make([]model.Event, 5)
	assert.Len(t, page(events, -3, 2), 2)
	assert.Len(t, page(events, 0, -1), 0)
	assert.Len(t, page(events, 4, 100), 1)
	assert.Len(t, page(nil, 0, 10), 0)
}
