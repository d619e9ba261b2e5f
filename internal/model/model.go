// Package model defines the core domain types for the event manager.
package model

import "encoding/json"

// Event is a single managed event as stored under event:<id> and inside
// the events:all list.
type Event struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Date        string `json:"date"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
}

// Fields returns the record as a field-name keyed map, used for projection.
// Optional fields that are empty are left out, mirroring the JSON form.
func (e *Event) Fields() map[string]any {
	m := map[string]any{
		"id":    e.ID,
		"title": e.Title,
		"date":  e.Date,
	}
	if e.Description != "" {
		m["description"] = e.Description
	}
	if e.Category != "" {
		m["category"] = e.Category
	}
	return m
}

// CreateEventRequest is the payload for creating a new event.
type CreateEventRequest struct {
	Title       string `json:"title"`
	Date        string `json:"date"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
}

// UpdateEventRequest is a partial update. Nil fields are left untouched.
type UpdateEventRequest struct {
	Title       *string `json:"title,omitempty"`
	Date        *string `json:"date,omitempty"`
	Description *string `json:"description,omitempty"`
	Category    *string `json:"category,omitempty"`
}

// Apply shallow-merges the present fields of u over e.
func (u UpdateEventRequest) Apply(e Event) Event {
	if u.Title != nil {
		e.Title = *u.Title
	}
	if u.Date != nil {
		e.Date = *u.Date
	}
	if u.Description != nil {
		e.Description = *u.Description
	}
	if u.Category != nil {
		e.Category = *u.Category
	}
	return e
}

// ListOptions controls pagination and field selection for listing.
type ListOptions struct {
	Limit  int
	Skip   int
	Select []string
}

// DefaultListLimit is used when the caller does not pass a limit.
const DefaultListLimit = 10

// Listing is one page of events. When Fields is non-nil each event is
// encoded as an object holding only those fields, so an empty selection
// yields empty objects.
type Listing struct {
	Events []Event
	Fields []string
}

// Project returns the page with each event reduced to the selected fields.
// Unknown field names are ignored.
func (l Listing) Project() []map[string]any {
	out := make([]map[string]any, 0, len(l.Events))
	for i := range l.Events {
		all := l.Events[i].Fields()
		row := make(map[string]any, len(l.Fields))
		for _, f := range l.Fields {
			if v, ok := all[f]; ok {
				row[f] = v
			}
		}
		out = append(out, row)
	}
	return out
}

// MarshalJSON encodes the page as a JSON array, never null.
func (l Listing) MarshalJSON() ([]byte, error) {
	if l.Fields != nil {
		return json.Marshal(l.Project())
	}
	if l.Events == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l.Events)
}

// ErrorResponse is a standard JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}
