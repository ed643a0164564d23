package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hsnsag/pillbox/internal/constants"
	"github.com/hsnsag/pillbox/internal/models"
	"github.com/hsnsag/pillbox/internal/schedule"
	"github.com/hsnsag/pillbox/internal/utils"
)

type GridCmd struct {
	At string `help:"Render the week as of this moment (YYYY-MM-DD HH:MM)." placeholder:"DATETIME"`
}

var (
	gridHeaderStyle = lipgloss.NewStyle().Bold(true)
	gridDimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

func (c *GridCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	clock, err := simulatedClock(c.At)
	if err != nil {
		return err
	}
	now := clock()

	meds, err := ctx.Store.GetAllMedications()
	if err != nil {
		return err
	}
	overrides, err := ctx.Store.TodaySnoozes(now)
	if err != nil {
		return err
	}

	week := schedule.Expand(meds, overrides, now)
	if len(week) == 0 {
		fmt.Println("Nothing scheduled this week.")
		return nil
	}

	// Bucket rows, Monday-first columns.
	cells := make(map[constants.Bucket][7][]string)
	for _, occ := range week {
		bucket := schedule.BucketForHour(occ.EffectiveAt.Hour())
		col := models.MondayIndex(occ.ScheduledAt.Weekday())
		label := fmt.Sprintf("%s %s", occ.EffectiveAt.Format(constants.TimeFormat), occ.Name)
		if occ.Snoozed {
			label += "*"
		}
		row := cells[bucket]
		row[col] = append(row[col], label)
		cells[bucket] = row
	}

	const colWidth = 16
	monday := utils.WeekStart(now)
	fmt.Printf("Week of %s\n\n", monday.Format(constants.DateFormat))

	var header strings.Builder
	header.WriteString(pad("", 6))
	for _, day := range models.DayNames {
		header.WriteString(pad(day, colWidth))
	}
	fmt.Println(gridHeaderStyle.Render(header.String()))

	for _, bucket := range constants.BucketOrder {
		row := cells[bucket]
		depth := 0
		for _, col := range row {
			if len(col) > depth {
				depth = len(col)
			}
		}
		if depth == 0 {
			continue
		}
		for line := 0; line < depth; line++ {
			var b strings.Builder
			if line == 0 {
				b.WriteString(pad(string(bucket), 6))
			} else {
				b.WriteString(pad("", 6))
			}
			for col := 0; col < 7; col++ {
				if line < len(row[col]) {
					b.WriteString(pad(row[col][line], colWidth))
				} else {
					b.WriteString(pad("", colWidth))
				}
			}
			fmt.Println(b.String())
		}
	}

	fmt.Println()
	fmt.Println(gridDimStyle.Render("* snoozed today"))
	return nil
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s[:width-1] + " "
	}
	return s + strings.Repeat(" ", width-len(s))
}
