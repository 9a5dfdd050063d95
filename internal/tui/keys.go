package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings of the dashboard.
type KeyMap struct {
	// Tab switching.
	TabWeather   key.Binding
	TabLocations key.Binding
	TabHistory   key.Binding
	TabCalendar  key.Binding
	NextTab      key.Binding
	PrevTab      key.Binding

	// List movement on the history and calendar tabs.
	Up   key.Binding
	Down key.Binding

	Search      key.Binding // Focus the city search box.
	Select      key.Binding // Select the highlighted history entry.
	Delete      key.Binding // Delete the highlighted history entry or event.
	ClearAll    key.Binding // Clear the search history.
	NewEvent    key.Binding // Open the event form.
	ToggleTheme key.Binding

	// Form and search input.
	Submit        key.Binding
	Cancel        key.Binding
	NextField     key.Binding
	PrevField     key.Binding
	ToggleOutdoor key.Binding

	Quit key.Binding
}

// DefaultKeyMap is the built-in key binding set.
var DefaultKeyMap = KeyMap{
	TabWeather: key.NewBinding(
		key.WithKeys("1"),
		key.WithHelp("1", "weather"),
	),
	TabLocations: key.NewBinding(
		key.WithKeys("2"),
		key.WithHelp("2", "locations"),
	),
	TabHistory: key.NewBinding(
		key.WithKeys("3"),
		key.WithHelp("3", "history"),
	),
	TabCalendar: key.NewBinding(
		key.WithKeys("4"),
		key.WithHelp("4", "calendar"),
	),
	NextTab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next tab"),
	),
	PrevTab: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("S-tab", "previous tab"),
	),
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Search: key.NewBinding(
		key.WithKeys("/", "s"),
		key.WithHelp("/", "search"),
	),
	Select: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "show"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d", "delete"),
		key.WithHelp("d", "delete"),
	),
	ClearAll: key.NewBinding(
		key.WithKeys("C"),
		key.WithHelp("C", "clear all"),
	),
	NewEvent: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "new event"),
	),
	ToggleTheme: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "theme"),
	),
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "submit"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
	NextField: key.NewBinding(
		key.WithKeys("tab", "down"),
		key.WithHelp("tab", "next field"),
	),
	PrevField: key.NewBinding(
		key.WithKeys("shift+tab", "up"),
		key.WithHelp("S-tab", "previous field"),
	),
	ToggleOutdoor: key.NewBinding(
		key.WithKeys("ctrl+o"),
		key.WithHelp("C-o", "indoor/outdoor"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}
