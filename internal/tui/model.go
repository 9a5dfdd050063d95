// Package tui is the terminal front end of the dashboard: four tabs
// (weather, locations, history, calendar) over a dashboard.Dashboard.
package tui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/i474232898/weather-dashboard/internal/calendar"
	"github.com/i474232898/weather-dashboard/internal/dashboard"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

// inputMode decides which handler receives key presses.
type inputMode int

const (
	modeBrowse inputMode = iota
	modeSearch
	modeEventForm
)

// searchDoneMsg is delivered when a search issued from the search box
// completes.
type searchDoneMsg struct {
	city string
	err  error
}

// eventDoneMsg is delivered when an event submission completes.
type eventDoneMsg struct {
	event calendar.Event
	err   error
}

// Model is the bubbletea model of the dashboard.
type Model struct {
	ctx  context.Context
	dash *dashboard.Dashboard
	keys KeyMap

	// styles is shared with the theme manager's apply hook, which swaps
	// the palette on every toggle.
	styles *Styles

	mode   inputMode
	search textinput.Model
	form   eventForm

	historyCursor int
	eventCursor   int

	notice      string
	noticeError bool

	width  int
	height int
}

// NewModel creates the model. ctx bounds the searches and forecast lookups
// the model issues.
func NewModel(ctx context.Context, dash *dashboard.Dashboard) Model {
	styles := &Styles{}
	dash.Theme().SetApply(func(attr string) {
		*styles = NewStyles(attr)
	})

	search := textinput.New()
	search.Prompt = "City: "
	search.Placeholder = "Enter city name"
	search.CharLimit = 100

	return Model{
		ctx:    ctx,
		dash:   dash,
		keys:   DefaultKeyMap,
		styles: styles,
		search: search,
	}
}

func (model Model) Init() tea.Cmd {
	return nil
}

func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height
		return model, nil

	case searchDoneMsg:
		if errors.Is(message.err, dashboard.ErrSuperseded) {
			return model, nil
		}
		model.clampCursors()
		return model, nil

	case eventDoneMsg:
		return model.handleEventDone(message)

	case tea.KeyMsg:
		switch model.mode {
		case modeSearch:
			return model.handleSearchKeys(message)
		case modeEventForm:
			return model.handleFormKeys(message)
		}
		return model.handleBrowseKeys(message)
	}
	return model, nil
}

func (model Model) handleBrowseKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	model.notice = ""
	router := model.dash.Router()

	switch {
	case key.Matches(message, model.keys.Quit):
		return model, tea.Quit

	case key.Matches(message, model.keys.TabWeather):
		router.Select(dashboard.ViewWeather)
	case key.Matches(message, model.keys.TabLocations):
		router.Select(dashboard.ViewLocations)
	case key.Matches(message, model.keys.TabHistory):
		router.Select(dashboard.ViewHistory)
	case key.Matches(message, model.keys.TabCalendar):
		router.Select(dashboard.ViewCalendar)
	case key.Matches(message, model.keys.NextTab):
		router.Next()
	case key.Matches(message, model.keys.PrevTab):
		router.Prev()

	case key.Matches(message, model.keys.ToggleTheme):
		if _, err := model.dash.Theme().Toggle(); err != nil {
			model.setNotice("Could not save theme preference", true)
		}

	case key.Matches(message, model.keys.Search):
		router.Select(dashboard.ViewWeather)
		model.mode = modeSearch
		return model, model.search.Focus()

	default:
		switch router.Active() {
		case dashboard.ViewHistory:
			model.handleHistoryKeys(message)
		case dashboard.ViewCalendar:
			return model.handleCalendarKeys(message)
		}
	}
	return model, nil
}

func (model *Model) handleHistoryKeys(message tea.KeyMsg) {
	history := model.dash.Locations().History()

	switch {
	case key.Matches(message, model.keys.Up):
		if model.historyCursor > 0 {
			model.historyCursor--
		}
	case key.Matches(message, model.keys.Down):
		if model.historyCursor < len(history)-1 {
			model.historyCursor++
		}
	case key.Matches(message, model.keys.Select):
		if len(history) == 0 {
			return
		}
		if _, _, err := model.dash.SelectFromHistory(history[model.historyCursor].ID); err != nil {
			model.setNotice("Could not save current location", true)
		}
	case key.Matches(message, model.keys.Delete):
		if len(history) == 0 {
			return
		}
		if err := model.dash.Locations().DeleteHistoryEntry(history[model.historyCursor].ID); err != nil {
			model.setNotice("Could not save search history", true)
		}
	case key.Matches(message, model.keys.ClearAll):
		if err := model.dash.Locations().ClearHistory(); err != nil {
			model.setNotice("Could not save search history", true)
		}
	}
	model.clampCursors()
}

func (model Model) handleCalendarKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	events := model.dash.Calendar().Events()

	switch {
	case key.Matches(message, model.keys.Up):
		if model.eventCursor > 0 {
			model.eventCursor--
		}
	case key.Matches(message, model.keys.Down):
		if model.eventCursor < len(events)-1 {
			model.eventCursor++
		}
	case key.Matches(message, model.keys.Delete):
		if len(events) == 0 {
			break
		}
		if err := model.dash.Calendar().DeleteEvent(events[model.eventCursor].ID); err != nil {
			model.setNotice("Could not save events", true)
		}
	case key.Matches(message, model.keys.NewEvent):
		model.mode = modeEventForm
		model.form = newEventForm(model.dash.Calendar().Draft())
		return model, model.form.focusCurrent()
	}
	model.clampCursors()
	return model, nil
}

func (model Model) handleSearchKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Cancel):
		model.mode = modeBrowse
		model.search.Blur()
		return model, nil

	case key.Matches(message, model.keys.Submit):
		ticket, err := model.dash.BeginSearch(model.search.Value())
		if err != nil {
			model.setNotice(weather.UserMessage(err), true)
			return model, nil
		}
		model.notice = ""
		model.mode = modeBrowse
		model.search.Blur()
		model.search.SetValue("")
		return model, model.finishSearch(ticket)
	}

	var cmd tea.Cmd
	model.search, cmd = model.search.Update(message)
	return model, cmd
}

func (model Model) handleFormKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Cancel):
		model.dash.Calendar().SetDraft(model.form.draft())
		model.mode = modeBrowse
		return model, nil

	case key.Matches(message, model.keys.Submit):
		if model.form.submitting {
			return model, nil
		}
		d := model.form.draft()
		model.dash.Calendar().SetDraft(d)
		model.form.submitting = true
		model.form.err = ""
		return model, model.addEvent(d)

	case key.Matches(message, model.keys.NextField):
		return model, model.form.move(1)
	case key.Matches(message, model.keys.PrevField):
		return model, model.form.move(-1)

	case key.Matches(message, model.keys.ToggleOutdoor),
		model.form.focus == fieldOutdoor && message.String() == " ":
		model.form.outdoor = !model.form.outdoor
		model.dash.Calendar().SetDraft(model.form.draft())
		return model, nil
	}

	cmd := model.form.update(message)
	model.dash.Calendar().SetDraft(model.form.draft())
	return model, cmd
}

func (model Model) handleEventDone(message eventDoneMsg) (tea.Model, tea.Cmd) {
	model.form.submitting = false
	switch {
	case message.err == nil:
		model.mode = modeBrowse
		model.setNotice("Added "+message.event.Title, false)
	case message.event.ID != 0:
		model.mode = modeBrowse
		model.setNotice("Added "+message.event.Title+" but could not save events", true)
	default:
		model.form.err = weather.UserMessage(message.err)
	}
	model.clampCursors()
	return model, nil
}

func (model Model) finishSearch(ticket dashboard.Ticket) tea.Cmd {
	ctx, dash := model.ctx, model.dash
	return func() tea.Msg {
		_, err := dash.FinishSearch(ctx, ticket)
		return searchDoneMsg{city: ticket.City(), err: err}
	}
}

func (model Model) addEvent(d calendar.Draft) tea.Cmd {
	ctx, events := model.ctx, model.dash.Calendar()
	return func() tea.Msg {
		event, err := events.AddEvent(ctx, d)
		return eventDoneMsg{event: event, err: err}
	}
}

func (model *Model) setNotice(text string, isError bool) {
	model.notice = text
	model.noticeError = isError
}

func (model *Model) clampCursors() {
	model.historyCursor = clamp(model.historyCursor, len(model.dash.Locations().History()))
	model.eventCursor = clamp(model.eventCursor, len(model.dash.Calendar().Events()))
}

func clamp(cursor, n int) int {
	if cursor >= n {
		cursor = n - 1
	}
	if cursor < 0 {
		cursor = 0
	}
	return cursor
}
