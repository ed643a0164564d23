package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hsnsag/pillbox/internal/constants"
	"github.com/hsnsag/pillbox/internal/models"
	"github.com/hsnsag/pillbox/internal/schedule"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if m.loadErr != nil {
		return dangerStyle.Render(fmt.Sprintf("storage error: %v", m.loadErr)) + "\n" +
			dimStyle.Render("press r to retry, q to quit")
	}

	var content string
	switch m.state {
	case StateGrid:
		content = m.viewGrid()
	case StateMeds:
		content = m.viewMeds()
	case StateSummary:
		content = m.viewSummary()
	case StateDecision:
		content = m.viewDecision()
	case StateConfirmDeactivate:
		content = m.viewConfirmDeactivate()
	}

	sections := []string{m.viewTabs(), content}
	if m.statusMsg != "" {
		sections = append(sections, statusStyle.Render(m.statusMsg))
	}
	sections = append(sections, m.help.View(m.keys))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, title := range []string{"Pillbox", "Meds", "Summary"} {
		if m.state == SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewGrid() string {
	grid := buildGrid(m.week)

	header := []string{headerStyle.Width(6).Render("")}
	for _, day := range models.DayNames {
		header = append(header, headerStyle.Width(14).Render(day))
	}
	rows := []string{lipgloss.JoinHorizontal(lipgloss.Top, header...)}

	for _, bucket := range constants.BucketOrder {
		cols := []string{headerStyle.Width(6).Render(string(bucket))}
		row := grid[string(bucket)]
		for col := 0; col < 7; col++ {
			cols = append(cols, m.renderCell(row[col]))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cols...))
	}

	legend := dimStyle.Render("taken ◼ green   skipped ◼ red   snoozed ◼ blue   due soon ◼ yellow")
	return lipgloss.JoinVertical(lipgloss.Left, append(rows, "", legend)...)
}

func (m Model) renderCell(c cell) string {
	if len(c.occurrences) == 0 {
		return cellStyle.Width(14).Render(" ")
	}

	now := m.now()
	state := cellPlain
	var lines []string
	for _, occ := range c.occurrences {
		lines = append(lines, fmt.Sprintf("%s %s", occ.EffectiveAt.Format(constants.TimeFormat), occ.Name))

		// Due-soon outranks logged outcomes when a cell holds several doses.
		if s := classify(occ, m.actions, now, m.settings.DueSoonMinutes); s > state {
			state = s
		}
	}

	style := cellStyle
	switch state {
	case cellTaken:
		style = takenStyle
	case cellSkipped:
		style = skippedStyle
	case cellSnoozed:
		style = snoozedStyle
	case cellDueSoon:
		style = dueSoonStyle
	}
	return style.Width(14).Render(strings.Join(lines, "\n"))
}

func (m Model) viewMeds() string {
	if len(m.meds) == 0 {
		return dimStyle.Render("no medications yet — add one with 'pillbox med add'")
	}

	var b strings.Builder
	for i, med := range m.meds {
		cursor := "  "
		if i == m.medCursor {
			cursor = "> "
		}
		line := fmt.Sprintf("%s[%d] %s  %s  %s  %s", cursor, med.ID, med.Name, med.Dose, med.TimesCSV(), med.Days.Names())
		if !med.Active {
			line = dimStyle.Render(line + "  (inactive)")
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewSummary() string {
	entries, err := m.store.LogEntriesSince(m.now().AddDate(0, 0, -constants.SummaryWindowDays))
	if err != nil {
		return dangerStyle.Render(fmt.Sprintf("failed to load log: %v", err))
	}
	s := schedule.Summarize(entries, m.now(), constants.SummaryWindowDays)

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("Last %d days", constants.SummaryWindowDays)))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("  taken    %s %d\n", bar(s.Taken, s.Total()), s.Taken))
	b.WriteString(fmt.Sprintf("  skipped  %s %d\n", bar(s.Skipped, s.Total()), s.Skipped))
	b.WriteString(fmt.Sprintf("  snoozed  %s %d\n", bar(s.Snoozed, s.Total()), s.Snoozed))
	b.WriteString("\n")
	if s.Taken+s.Skipped > 0 {
		b.WriteString(fmt.Sprintf("  adherence: %.0f%%\n", s.AdherencePercent()))
	} else {
		b.WriteString(dimStyle.Render("  no outcomes recorded yet\n"))
	}
	return b.String()
}

func bar(count, total int) string {
	const width = 30
	if total == 0 {
		return strings.Repeat("░", width)
	}
	filled := count * width / total
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func (m Model) viewDecision() string {
	if m.pending == nil {
		return ""
	}
	occ := m.pending

	choices := make([]string, len(constants.SnoozeChoices))
	for i, v := range constants.SnoozeChoices {
		label := fmt.Sprintf("%dm", v)
		if i == m.snoozeIdx {
			label = activeTabStyle.Render(label)
		} else {
			label = dimStyle.Render(label)
		}
		choices[i] = label
	}

	body := lipgloss.JoinVertical(lipgloss.Center,
		headerStyle.Render("Medication due now"),
		"",
		fmt.Sprintf("%s — %s (due %s)", occ.Name, occ.Dose, occ.EffectiveAt.Format(constants.TimeFormat)),
		"",
		"[t] take    [s] snooze    [x] skip",
		"snooze for: "+strings.Join(choices, " "),
		"",
		dimStyle.Render("esc dismisses without logging"),
	)
	return lipgloss.Place(m.width, m.height-4,
		lipgloss.Center, lipgloss.Center,
		modalStyle.Render(body),
	)
}

func (m Model) viewConfirmDeactivate() string {
	return lipgloss.Place(m.width, m.height-4,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render(fmt.Sprintf("Deactivate medication %d?", m.medToRemove)),
			dimStyle.Render("dose history is kept; the schedule stops"),
			"",
			"[y] Yes    [n] No",
		),
	)
}
