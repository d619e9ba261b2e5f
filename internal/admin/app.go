package admin

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/Shivanand-hulikatti/event-manager/internal/model"
)

// EventsAPI is the subset of the REST client the UI needs.
type EventsAPI interface {
	ListEvents(ctx context.Context, limit, skip int) ([]model.Event, error)
	CreateEvent(ctx context.Context, req model.CreateEventRequest) (*model.Event, error)
	UpdateEvent(ctx context.Context, id string, req model.UpdateEventRequest) (*model.Event, error)
	DeleteEvent(ctx context.Context, id string) error
}

const (
	pageMain    = "main"
	pageForm    = "form"
	pageConfirm = "confirm"
)

var columns = []string{"Title", "Description", "Date", "Category"}

// App is the running terminal UI.
type App struct {
	ctx   context.Context
	api   EventsAPI
	app   *tview.Application
	pages *tview.Pages

	table  *tview.Table
	filter *tview.InputField
	status *tview.TextView

	events []model.Event
	shown  []model.Event
	query  string
	pager  Pager
}

// New builds the UI; nothing is fetched until Run.
func New(ctx context.Context, api EventsAPI) *App {
	a := &App{
		ctx:   ctx,
		api:   api,
		app:   tview.NewApplication(),
		pages: tview.NewPages(),
		pager: Pager{Size: PageSize},
	}

	a.filter = tview.NewInputField().
		SetLabel("Filter titles: ").
		SetFieldWidth(40).
		SetChangedFunc(func(text string) {
			a.query = text
			a.pager.Page = 0
			a.render()
		}).
		SetDoneFunc(func(tcell.Key) {
			a.app.SetFocus(a.table)
		})

	a.table = tview.NewTable().
		SetSelectable(true, false).
		SetFixed(1, 0)
	a.table.SetBorder(true)
	a.table.SetTitle(" Events ")
	a.table.SetSelectedFunc(func(row, _ int) {
		if e := a.selected(row); e != nil {
			a.openForm(e)
		}
	})
	a.table.SetInputCapture(a.tableKeys)

	a.status = tview.NewTextView().SetDynamicColors(true)

	layout := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(a.filter, 1, 0, false).
		AddItem(a.table, 0, 1, true).
		AddItem(a.status, 1, 0, false)
	a.pages.AddPage(pageMain, layout, true, true)
	return a
}

// Run loads the table and blocks until the user quits.
func (a *App) Run() error {
	a.reload()
	return a.app.SetRoot(a.pages, true).EnableMouse(true).Run()
}

func (a *App) tableKeys(ev *tcell.EventKey) *tcell.EventKey {
	row, _ := a.table.GetSelection()
	switch ev.Rune() {
	case 'q':
		a.app.Stop()
	case 'a':
		a.openForm(nil)
	case 'e':
		if e := a.selected(row); e != nil {
			a.openForm(e)
		}
	case 'd':
		if e := a.selected(row); e != nil {
			a.confirmDelete(*e)
		}
	case 'n':
		if a.pager.CanNext(len(Filter(a.events, a.query))) {
			a.pager.Page++
			a.render()
		}
	case 'p':
		if a.pager.CanPrev() {
			a.pager.Page--
			a.render()
		}
	case 'r':
		a.reload()
	case '/':
		a.app.SetFocus(a.filter)
	default:
		return ev
	}
	return nil
}

func (a *App) selected(row int) *model.Event {
	i := row - 1
	if i < 0 || i >= len(a.shown) {
		return nil
	}
	e := a.shown[i]
	return &e
}

// reload refetches every event; each mutation ends with it so the table
// never shows stale rows.
func (a *App) reload() {
	a.setStatus("[yellow]Loading...")
	go func() {
		events, err := a.api.ListEvents(a.ctx, FetchLimit, 0)
		a.app.QueueUpdateDraw(func() {
			if err != nil {
				a.setStatus("[red]" + tview.Escape(err.Error()))
				return
			}
			a.events = events
			a.render()
		})
	}()
}

func (a *App) render() {
	rows := Filter(a.events, a.query)
	a.pager = a.pager.Clamp(len(rows))
	a.shown = a.pager.Slice(rows)

	a.table.Clear()
	for c, name := range columns {
		a.table.SetCell(0, c, tview.NewTableCell(name).
			SetTextColor(tcell.ColorYellow).
			SetSelectable(false).
			SetExpansion(1))
	}
	if len(a.shown) == 0 {
		a.table.SetCell(1, 0, tview.NewTableCell("No results.").SetSelectable(false))
	}
	for i, e := range a.shown {
		for c, v := range []string{e.Title, e.Description, e.Date, e.Category} {
			a.table.SetCell(i+1, c, tview.NewTableCell(tview.Escape(v)).SetExpansion(1))
		}
	}
	if len(a.shown) > 0 {
		a.table.Select(1, 0)
	}
	a.setStatus(fmt.Sprintf("page %d/%d  %d events  [::d]a add  e edit  d delete  n/p page  / filter  r reload  q quit",
		a.pager.Page+1, a.pager.Pages(len(rows)), len(rows)))
}

func (a *App) setStatus(text string) {
	a.status.SetText(text)
}

func (a *App) openForm(e *model.Event) {
	data := FormFromEvent(e)
	title := " Add Event "
	if data.Editing() {
		title = " Edit Event "
	}

	form := tview.NewForm().SetButtonsAlign(tview.AlignCenter)
	form.SetBorder(true)
	form.SetTitle(title)
	form.AddInputField("Title", data.Title, 40, nil, func(v string) { data.Title = v })
	form.AddInputField("Description", data.Description, 40, nil, func(v string) { data.Description = v })
	form.AddInputField("Date", data.Date, 40, nil, func(v string) { data.Date = v })
	form.AddInputField("Category", data.Category, 40, nil, func(v string) { data.Category = v })
	form.AddButton("Save", func() {
		a.closeModal(pageForm)
		a.save(data)
	})
	form.AddButton("Cancel", func() { a.closeModal(pageForm) })
	form.SetCancelFunc(func() { a.closeModal(pageForm) })

	a.pages.AddPage(pageForm, centerBox(form, 60, 13), true, true)
	a.app.SetFocus(form)
}

func (a *App) save(data FormData) {
	a.setStatus("[yellow]Saving...")
	go func() {
		var err error
		if data.Editing() {
			_, err = a.api.UpdateEvent(a.ctx, data.ID, data.UpdateRequest())
		} else {
			_, err = a.api.CreateEvent(a.ctx, data.CreateRequest())
		}
		a.app.QueueUpdateDraw(func() {
			if err != nil {
				a.setStatus("[red]" + tview.Escape(err.Error()))
				return
			}
			a.reload()
		})
	}()
}

func (a *App) confirmDelete(e model.Event) {
	modal := tview.NewModal().
		SetText(fmt.Sprintf("Delete %q?\nThis action cannot be undone.", e.Title)).
		AddButtons([]string{"Cancel", "Continue"}).
		SetDoneFunc(func(_ int, label string) {
			a.closeModal(pageConfirm)
			if label == "Continue" {
				a.remove(e.ID)
			}
		})
	a.pages.AddPage(pageConfirm, modal, true, true)
	a.app.SetFocus(modal)
}

func (a *App) remove(id string) {
	a.setStatus("[yellow]Deleting...")
	go func() {
		err := a.api.DeleteEvent(a.ctx, id)
		a.app.QueueUpdateDraw(func() {
			if err != nil {
				a.setStatus("[red]" + tview.Escape(err.Error()))
				return
			}
			a.reload()
		})
	}()
}

func (a *App) closeModal(name string) {
	a.pages.RemovePage(name)
	a.app.SetFocus(a.table)
}

func centerBox(contents tview.Primitive, width, height int) *tview.Flex {
	hflex := tview.NewFlex().SetDirection(tview.FlexColumn).
		AddItem(tview.NewBox(), 0, 1, false).
		AddItem(contents, width, 0, true).
		AddItem(tview.NewBox(), 0, 1, false)
	return tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(tview.NewBox(), 0, 1, false).
		AddItem(hflex, height, 0, true).
		AddItem(tview.NewBox(), 0, 1, false)
}
