package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/i474232898/weather-dashboard/internal/calendar"
)

// Event form fields, in focus order.
const (
	fieldTitle = iota
	fieldDate
	fieldTime
	fieldLocation
	fieldOutdoor
	fieldCount
)

var fieldLabels = [fieldCount]string{"Title", "Date", "Time", "Location", "Outdoor"}

// eventForm edits a calendar.Draft.
type eventForm struct {
	inputs     [fieldOutdoor]textinput.Model
	outdoor    bool
	focus      int
	err        string
	submitting bool
}

func newEventForm(d calendar.Draft) eventForm {
	var form eventForm
	placeholders := [fieldOutdoor]string{"Event title", calendar.DateLayout, calendar.TimeLayout, "City"}
	values := [fieldOutdoor]string{d.Title, d.Date, d.Time, d.Location}
	for i := range form.inputs {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = placeholders[i]
		in.CharLimit = 100
		in.SetValue(values[i])
		form.inputs[i] = in
	}
	form.outdoor = d.IsOutdoor
	return form
}

func (f eventForm) draft() calendar.Draft {
	return calendar.Draft{}.
		WithTitle(f.inputs[fieldTitle].Value()).
		WithDate(f.inputs[fieldDate].Value()).
		WithTime(f.inputs[fieldTime].Value()).
		WithLocation(f.inputs[fieldLocation].Value()).
		WithOutdoor(f.outdoor)
}

func (f *eventForm) focusCurrent() tea.Cmd {
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
	if f.focus < fieldOutdoor {
		return f.inputs[f.focus].Focus()
	}
	return nil
}

func (f *eventForm) move(delta int) tea.Cmd {
	f.focus = ((f.focus+delta)%fieldCount + fieldCount) % fieldCount
	return f.focusCurrent()
}

func (f *eventForm) update(message tea.Msg) tea.Cmd {
	if f.focus >= fieldOutdoor {
		return nil
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(message)
	return cmd
}
