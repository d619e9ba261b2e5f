package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateEventRequest_Apply(t *testing.T) {
	base := Event{ID: "1", Title: "T", Date: "2024-01-01", Description: "D", Category: "C"}
	cat := ""
	title := "New"

	got := UpdateEventRequest{Title: &title, Category: &cat}.Apply(base)
	assert.Equal(t, Event{ID: "1", Title: "New", Date: "2024-01-01", Description: "D"}, got)
	assert.Equal(t, base, UpdateEventRequest{}.Apply(base))
}

func TestEvent_JSONOmitsEmptyOptionalFields(t *testing.T) {
	b, err := json.Marshal(Event{ID: "1", Title: "T", Date: "2024-01-01"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"1","title":"T","date":"2024-01-01"}`, string(b))
}

func TestListing_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(Listing{})
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(b))

	events := []Event{{ID: "1", Title: "T", Date: "2024-01-01", Category: "C"}}
	b, err = json.Marshal(Listing{Events: events, Fields: []string{"category", "description"}})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"category":"C"}]`, string(b))

	b, err = json.Marshal(Listing{Events: events, Fields: []string{}})
	require.NoError(t, err)
	assert.JSONEq(t, `[{}]`, string(b))

	b, err = json.Marshal(Listing{Events: events})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"1","title":"T","date":"2024-01-01","category":"C"}]`, string(b))
}
