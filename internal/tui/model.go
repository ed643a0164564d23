package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hsnsag/pillbox/internal/models"
	"github.com/hsnsag/pillbox/internal/scheduler"
	"github.com/hsnsag/pillbox/internal/storage"
)

type SessionState int

const (
	StateGrid SessionState = iota
	StateMeds
	StateSummary
	StateDecision
	StateConfirmDeactivate
)

// tabCount is the number of cycle-able tabs (the modal states are not tabs).
const tabCount = 3

type tickMsg time.Time

// Model is the root bubbletea model: a tabbed weekly pillbox with a
// due-dose decision modal layered on top.
type Model struct {
	store    storage.Provider
	detector *scheduler.Detector
	settings models.Settings
	now      func() time.Time

	state         SessionState
	previousState SessionState
	keys          KeyMap
	help          help.Model

	// Cached reads, refreshed every tick.
	meds    []models.Medication
	week    []models.Occurrence
	actions map[models.OccurrenceKey]models.LogEntry

	pending     *models.Occurrence
	snoozeIdx   int
	medCursor   int
	medToRemove int
	statusMsg   string
	loadErr     error

	quitting bool
	width    int
	height   int
}

func NewModel(store storage.Provider, detector *scheduler.Detector, settings models.Settings, now func() time.Time) Model {
	m := Model{
		store:    store,
		detector: detector,
		settings: settings,
		now:      now,
		state:    StateGrid,
		keys:     DefaultKeyMap(),
		help:     help.New(),
	}
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	return m.tickCmd()
}

func (m Model) tickCmd() tea.Cmd {
	interval := time.Duration(m.settings.TickSeconds) * time.Second
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// refresh re-derives the cached schedule and action map from storage. Reads
// always go back to the store so edits from another invocation show up.
func (m *Model) refresh() {
	m.loadErr = nil

	meds, err := m.store.GetAllMedicationsIncludingInactive()
	if err != nil {
		m.loadErr = err
		return
	}
	m.meds = meds
	if m.medCursor >= len(m.meds) {
		m.medCursor = 0
	}

	now := m.now()
	overrides, err := m.store.TodaySnoozes(now)
	if err != nil {
		m.loadErr = err
		return
	}

	var active []models.Medication
	for _, med := range meds {
		if med.Active {
			active = append(active, med)
		}
	}
	m.week = expandWeek(active, overrides, now)

	entries, err := m.store.GetAllLogEntries()
	if err != nil {
		m.loadErr = err
		return
	}
	m.actions = make(map[models.OccurrenceKey]models.LogEntry, len(entries))
	for _, e := range entries {
		m.actions[e.Key()] = e
	}
}
