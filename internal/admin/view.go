// Package admin is the terminal admin UI for events: a filterable, paged
// table with a modal form for add/edit and a confirmation for delete.
package admin

import (
	"strings"

	"github.com/Shivanand-hulikatti/event-manager/internal/model"
)

// FetchLimit is how many events the table loads at once; paging and
// filtering then happen locally.
const FetchLimit = 10000

// PageSize is the number of rows shown per table page.
const PageSize = 10

// FormData backs the add/edit dialog.
type FormData struct {
	ID          string
	Title       string
	Description string
	Date        string
	Category    string
}

// FormFromEvent prefills the dialog for editing. A nil event gives an
// empty form for adding.
func FormFromEvent(e *model.Event) FormData {
	if e == nil {
		return FormData{}
	}
	return FormData{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Date:        e.Date,
		Category:    e.Category,
	}
}

// Editing reports whether the form was opened on an existing event.
func (f FormData) Editing() bool {
	return f.ID != ""
}

// CreateRequest builds the POST body from the form.
func (f FormData) CreateRequest() model.CreateEventRequest {
	return model.CreateEventRequest{
		Title:       strings.TrimSpace(f.Title),
		Date:        strings.TrimSpace(f.Date),
		Description: f.Description,
		Category:    f.Category,
	}
}

// UpdateRequest sends every form field so cleared fields are cleared on
// the server as well.
func (f FormData) UpdateRequest() model.UpdateEventRequest {
	title := strings.TrimSpace(f.Title)
	date := strings.TrimSpace(f.Date)
	desc, cat := f.Description, f.Category
	return model.UpdateEventRequest{
		Title:       &title,
		Date:        &date,
		Description: &desc,
		Category:    &cat,
	}
}

// Filter keeps events whose title contains query, ignoring case.
func Filter(events []model.Event, query string) []model.Event {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return events
	}
	var out []model.Event
	for _, e := range events {
		if strings.Contains(strings.ToLower(e.Title), query) {
			out = append(out, e)
		}
	}
	return out
}

// Pager tracks the current table page.
type Pager struct {
	Size int
	Page int
}

// Pages returns the page count for total rows; never less than one.
func (p Pager) Pages(total int) int {
	if p.Size <= 0 || total <= 0 {
		return 1
	}
	return (total + p.Size - 1) / p.Size
}

// Clamp keeps Page within range for total rows.
func (p Pager) Clamp(total int) Pager {
	if p.Page < 0 {
		p.Page = 0
	}
	if last := p.Pages(total) - 1; p.Page > last {
		p.Page = last
	}
	return p
}

// Slice returns the rows of the current page.
func (p Pager) Slice(events []model.Event) []model.Event {
	if p.Size <= 0 {
		return events
	}
	p = p.Clamp(len(events))
	start := p.Page * p.Size
	end := start + p.Size
	if end > len(events) {
		end = len(events)
	}
	return events[start:end]
}

// CanPrev reports whether an earlier page exists.
func (p Pager) CanPrev() bool { return p.Page > 0 }

// CanNext reports whether a later page exists.
func (p Pager) CanNext(total int) bool { return p.Page < p.Pages(total)-1 }
