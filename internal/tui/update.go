package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hsnsag/pillbox/internal/constants"
	"github.com/hsnsag/pillbox/internal/scheduler"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case tickMsg:
		m.refresh()
		if m.state != StateDecision && m.state != StateConfirmDeactivate {
			if occ, err := m.detector.Tick(); err == nil && occ != nil {
				m.pending = occ
				m.snoozeIdx = defaultSnoozeIndex()
				m.previousState = m.state
				m.state = StateDecision
			}
		}
		return m, m.tickCmd()

	case tea.KeyMsg:
		switch m.state {
		case StateDecision:
			return m.updateDecision(msg)
		case StateConfirmDeactivate:
			return m.updateConfirmDeactivate(msg)
		}
		return m.updateTabs(msg)
	}

	return m, nil
}

func (m Model) updateTabs(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Tab):
		m.state = (m.state + 1) % tabCount
		m.statusMsg = ""
	case key.Matches(msg, m.keys.ShiftTab):
		m.state = (m.state - 1 + tabCount) % tabCount
		m.statusMsg = ""
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Refresh):
		m.refresh()
		m.statusMsg = "refreshed"
	case key.Matches(msg, m.keys.Up):
		if m.state == StateMeds && m.medCursor > 0 {
			m.medCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.state == StateMeds && m.medCursor < len(m.meds)-1 {
			m.medCursor++
		}
	case key.Matches(msg, m.keys.Delete):
		if m.state == StateMeds && len(m.meds) > 0 && m.meds[m.medCursor].Active {
			m.medToRemove = m.meds[m.medCursor].ID
			m.previousState = m.state
			m.state = StateConfirmDeactivate
		}
	case key.Matches(msg, m.keys.Restore):
		if m.state == StateMeds && len(m.meds) > 0 && !m.meds[m.medCursor].Active {
			med := m.meds[m.medCursor]
			if err := m.store.RestoreMedication(med.ID); err != nil {
				m.statusMsg = err.Error()
			} else {
				m.statusMsg = fmt.Sprintf("restored %s", med.Name)
				m.refresh()
			}
		}
	}
	return m, nil
}

func (m Model) updateDecision(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Take):
		return m.resolve(scheduler.Decision{Action: constants.ActionTaken})
	case key.Matches(msg, m.keys.Skip):
		return m.resolve(scheduler.Decision{Action: constants.ActionSkipped})
	case key.Matches(msg, m.keys.Snooze):
		return m.resolve(scheduler.Decision{
			Action:        constants.ActionSnoozed,
			SnoozeMinutes: constants.SnoozeChoices[m.snoozeIdx],
		})
	case key.Matches(msg, m.keys.Left):
		if m.snoozeIdx > 0 {
			m.snoozeIdx--
		}
	case key.Matches(msg, m.keys.Right):
		if m.snoozeIdx < len(constants.SnoozeChoices)-1 {
			m.snoozeIdx++
		}
	case key.Matches(msg, m.keys.Dismiss):
		m.detector.Dismiss()
		m.pending = nil
		m.state = m.previousState
		m.statusMsg = "dismissed; dose remains unhandled"
	case key.Matches(msg, m.keys.Quit):
		m.detector.Dismiss()
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) resolve(decision scheduler.Decision) (tea.Model, tea.Cmd) {
	if err := m.detector.Resolve(decision); err != nil {
		m.statusMsg = err.Error()
	} else {
		switch decision.Action {
		case constants.ActionTaken:
			m.statusMsg = "marked as taken"
		case constants.ActionSkipped:
			m.statusMsg = "marked as skipped"
		case constants.ActionSnoozed:
			m.statusMsg = fmt.Sprintf("snoozed for %d minutes", decision.SnoozeMinutes)
		}
	}
	m.pending = nil
	m.state = m.previousState
	m.refresh()
	return m, nil
}

func (m Model) updateConfirmDeactivate(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		if err := m.store.DeactivateMedication(m.medToRemove); err != nil {
			m.statusMsg = err.Error()
		} else {
			m.statusMsg = "medication deactivated; history kept"
			m.refresh()
		}
		m.state = m.previousState
	case "n", "N", "esc":
		m.state = m.previousState
	}
	return m, nil
}

func defaultSnoozeIndex() int {
	for i, v := range constants.SnoozeChoices {
		if v == constants.DefaultSnoozeMinutes {
			return i
		}
	}
	return 0
}
