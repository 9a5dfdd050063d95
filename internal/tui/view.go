package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/i474232898/weather-dashboard/internal/calendar"
	"github.com/i474232898/weather-dashboard/internal/dashboard"
	"github.com/i474232898/weather-dashboard/internal/location"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

var iconGlyphs = map[weather.Icon]string{
	weather.IconClear:   "☀",
	weather.IconCloud:   "☁",
	weather.IconDrizzle: "🌦",
	weather.IconRain:    "🌧",
	weather.IconSnow:    "❄",
}

func (model Model) View() string {
	var b strings.Builder
	b.WriteString(model.renderTabs())
	b.WriteString("\n\n")

	switch model.dash.Router().Active() {
	case dashboard.ViewWeather:
		b.WriteString(model.renderWeather())
	case dashboard.ViewLocations:
		b.WriteString(model.renderLocations())
	case dashboard.ViewHistory:
		b.WriteString(model.renderHistory())
	case dashboard.ViewCalendar:
		if model.mode == modeEventForm {
			b.WriteString(model.renderEventForm())
		} else {
			b.WriteString(model.renderCalendar())
		}
	}

	b.WriteString("\n\n")
	if model.notice != "" {
		style := model.styles.Success
		if model.noticeError {
			style = model.styles.Error
		}
		b.WriteString(style.Render(model.notice))
		b.WriteString("\n")
	}
	b.WriteString(model.renderHelp())
	return b.String()
}

func (model Model) renderTabs() string {
	active := model.dash.Router().Active()
	tabs := make([]string, 0, len(dashboard.Views)+1)
	tabs = append(tabs, model.styles.Title.Render("Weather Dashboard"))
	for i, v := range dashboard.Views {
		label := fmt.Sprintf("%d %s", i+1, v.Title())
		if v == active {
			tabs = append(tabs, model.styles.ActiveTab.Render(label))
		} else {
			tabs = append(tabs, model.styles.InactiveTab.Render(label))
		}
	}
	tabs = append(tabs, model.styles.Faint.Render("["+model.styles.Attr+"]"))
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (model Model) renderWeather() string {
	var b strings.Builder
	if model.mode == modeSearch {
		b.WriteString(model.search.View())
	} else {
		b.WriteString(model.styles.Faint.Render("Press / to search for a city"))
	}
	b.WriteString("\n\n")

	state := model.dash.SearchState()
	switch {
	case state.Status == dashboard.StatusLoading:
		b.WriteString(model.styles.Faint.Render("Loading weather for " + state.City + "..."))
	case state.Status == dashboard.StatusError:
		b.WriteString(model.styles.Error.Render(state.Message))
	case state.Reading != nil:
		b.WriteString(model.renderReading(*state.Reading))
	default:
		b.WriteString(model.styles.Faint.Render("Search for a city to see the weather"))
	}
	return b.String()
}

func (model Model) renderReading(r weather.Reading) string {
	lines := []string{
		model.styles.Title.Render(r.DisplayName) + " " + iconGlyphs[r.Icon],
		model.styles.Text.Render(fmt.Sprintf("%d°C  %s", r.TemperatureC, r.Condition)),
		model.styles.Text.Render(fmt.Sprintf("Humidity: %d%%", r.HumidityPercent)),
		model.styles.Text.Render(fmt.Sprintf("Wind: %d km/h", r.WindSpeedKph)),
		model.styles.Faint.Render("Updated " + r.CapturedAt.In(time.Local).Format("15:04:05")),
	}
	return model.styles.Card.Render(strings.Join(lines, "\n"))
}

func (model Model) renderLocations() string {
	pos := model.dash.Locations().MapPosition()
	var lines []string
	if current, ok := model.dash.Locations().Current(); ok {
		lines = append(lines,
			model.styles.Title.Render(current.DisplayName),
			model.styles.Text.Render(fmt.Sprintf("Temperature: %d°C", current.TemperatureC)),
			model.styles.Text.Render("Weather: "+current.Condition),
		)
	} else {
		lines = append(lines, model.styles.Faint.Render("No location selected"))
	}
	lines = append(lines,
		"",
		model.styles.Text.Render(fmt.Sprintf("Marker: %.4f, %.4f (zoom %d)", pos.Lat(), pos.Lon(), location.MapZoom)),
		model.styles.Faint.Render(location.MapLink(pos)),
	)
	return model.styles.Card.Render(strings.Join(lines, "\n"))
}

func (model Model) renderHistory() string {
	history := model.dash.Locations().History()
	if len(history) == 0 {
		return model.styles.Faint.Render("No search history yet")
	}

	var b strings.Builder
	b.WriteString(model.styles.Title.Render("Search History"))
	b.WriteString("\n")
	for i, r := range history {
		row := fmt.Sprintf("%-20s %4d°C  %-14s %s",
			r.DisplayName, r.TemperatureC, r.Condition, r.CapturedAt.In(time.Local).Format("Jan 2 15:04"))
		if i == model.historyCursor {
			b.WriteString(model.styles.Selected.Render("> " + row))
		} else {
			b.WriteString(model.styles.Text.Render("  " + row))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (model Model) renderCalendar() string {
	events := model.dash.Calendar().Events()
	if len(events) == 0 {
		return model.styles.Faint.Render("No events scheduled. Press n to add one.")
	}

	tz := model.dash.Calendar().TimeZone()
	cards := make([]string, 0, len(events))
	for i, e := range events {
		title := model.styles.Title.Render(e.Title) + " " + model.styles.Faint.Render("("+e.Kind()+")")
		if i == model.eventCursor {
			title = model.styles.Selected.Render("> ") + title
		}
		lines := []string{
			title,
			model.styles.Text.Render(e.Display(tz) + " at " + e.Location),
			model.styles.Text.Render(fmt.Sprintf("Forecast: %s, %d°C", e.Forecast.Description, e.Forecast.TemperatureC)),
		}
		if url := e.Forecast.IconURL(); url != "" {
			lines = append(lines, model.styles.Faint.Render(url))
		}
		lines = append(lines, model.styles.Text.Render(calendar.DescribeForecastImpact(e)))
		cards = append(cards, model.styles.Card.Render(strings.Join(lines, "\n")))
	}
	return lipgloss.JoinVertical(lipgloss.Left, cards...)
}

func (model Model) renderEventForm() string {
	var b strings.Builder
	b.WriteString(model.styles.Title.Render("New Event"))
	b.WriteString("\n")
	for i := 0; i < fieldCount; i++ {
		label := fmt.Sprintf("%-9s", fieldLabels[i]+":")
		if i == model.form.focus {
			label = model.styles.Selected.Render(label)
		} else {
			label = model.styles.Text.Render(label)
		}
		var value string
		if i == fieldOutdoor {
			value = "[ ] indoor"
			if model.form.outdoor {
				value = "[x] outdoor"
			}
		} else {
			value = model.form.inputs[i].View()
		}
		b.WriteString(label + " " + value + "\n")
	}
	if model.form.submitting {
		b.WriteString(model.styles.Faint.Render("Fetching forecast..."))
	} else if model.form.err != "" {
		b.WriteString(model.styles.Error.Render(model.form.err))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (model Model) renderHelp() string {
	var bindings []key.Binding
	switch model.mode {
	case modeSearch:
		bindings = []key.Binding{model.keys.Submit, model.keys.Cancel}
	case modeEventForm:
		bindings = []key.Binding{model.keys.Submit, model.keys.NextField, model.keys.ToggleOutdoor, model.keys.Cancel}
	default:
		bindings = []key.Binding{model.keys.NextTab, model.keys.Search, model.keys.ToggleTheme}
		switch model.dash.Router().Active() {
		case dashboard.ViewHistory:
			bindings = append(bindings, model.keys.Select, model.keys.Delete, model.keys.ClearAll)
		case dashboard.ViewCalendar:
			bindings = append(bindings, model.keys.NewEvent, model.keys.Delete)
		}
		bindings = append(bindings, model.keys.Quit)
	}

	parts := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		help := binding.Help()
		parts = append(parts, help.Key+" "+help.Desc)
	}
	return model.styles.Faint.Render(strings.Join(parts, " • "))
}
